package models

// ResultType classifies one fallacy in a submission
type ResultType string

const (
	ResultCorrect ResultType = "correct"
	ResultWrong   ResultType = "wrong"
	ResultMissed  ResultType = "missed"
)

// AnswerResult is the verdict for one fallacy after a submission
type AnswerResult struct {
	FallacyID     int64      `json:"fallacyId"`
	FallacyName   string     `json:"fallacyName"`
	FallacyKey    string     `json:"fallacyKey"`
	ResultType    ResultType `json:"resultType"`
	TextReference *string    `json:"textReference,omitempty"`
	Position      *int       `json:"position,omitempty"`
}

// ScoreStats summarises a submission
type ScoreStats struct {
	CorrectCount   int     `json:"correctCount"`
	WrongCount     int     `json:"wrongCount"`
	MissedCount    int     `json:"missedCount"`
	TotalFallacies int     `json:"totalFallacies"`
	Accuracy       float64 `json:"accuracy"`
}
