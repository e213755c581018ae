package models

import "time"

// GameSession binds a player to one generated passage
type GameSession struct {
	ID               string            `json:"id"`
	PlayerName       string            `json:"playerName"`
	Difficulty       Difficulty        `json:"difficulty"`
	Passage          *GeneratedPassage `json:"passage"`
	StartedAt        time.Time         `json:"startedAt"`
	CompletedAt      *time.Time        `json:"completedAt,omitempty"`
	TimeTakenSeconds *int              `json:"timeTakenSeconds,omitempty"`
	Score            *int              `json:"score,omitempty"`
	Results          []AnswerResult    `json:"results,omitempty"`
}

// IsCompleted reports whether answers were already submitted
func (s *GameSession) IsCompleted() bool {
	return s.CompletedAt != nil
}

// Completion is everything written when a session completes
type Completion struct {
	CompletedAt      time.Time
	TimeTakenSeconds int
	Score            int
	Results          []AnswerResult
}

// Apply copies the completion onto the session
func (c Completion) Apply(s *GameSession) {
	completedAt := c.CompletedAt
	timeTaken := c.TimeTakenSeconds
	score := c.Score
	s.CompletedAt = &completedAt
	s.TimeTakenSeconds = &timeTaken
	s.Score = &score
	s.Results = c.Results
}
