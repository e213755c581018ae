package models

import "time"

// FallacyOffset locates one embedded fallacy inside a passage.
// Indexes are byte offsets into FullText, EndIndex exclusive.
type FallacyOffset struct {
	FallacyID  int64 `json:"fallacyId"`
	StartIndex int   `json:"startIndex"`
	EndIndex   int   `json:"endIndex"`
}

// GeneratedPassage is the prose shown to the player for one round
type GeneratedPassage struct {
	ID                 int64           `json:"id"`
	TopicID            int64           `json:"topicId"`
	Title              string          `json:"title"`
	FullText           string          `json:"fullText"`
	Difficulty         Difficulty      `json:"difficulty"`
	TargetFallacyCount int             `json:"targetFallacyCount"`
	FallacyOffsets     []FallacyOffset `json:"fallacyOffsets"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// FallacyIDs returns the ground-truth fallacy ids in passage order
func (p *GeneratedPassage) FallacyIDs() []int64 {
	ids := make([]int64, len(p.FallacyOffsets))
	for i, o := range p.FallacyOffsets {
		ids[i] = o.FallacyID
	}
	return ids
}
