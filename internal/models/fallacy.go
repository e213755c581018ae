package models

import "strings"

// Fallacy is a named category of flawed reasoning
type Fallacy struct {
	ID          int64      `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Key         string     `json:"key" yaml:"key"`
	Description string     `json:"description" yaml:"description"`
	Difficulty  Difficulty `json:"difficulty" yaml:"difficulty"`
	Example     string     `json:"example,omitempty" yaml:"example"`
}

// FallacyOption is the subset of a fallacy offered to the player as a choice
type FallacyOption struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Key         string `json:"key"`
	Description string `json:"description"`
}

// Option returns the player-facing view of the fallacy
func (f Fallacy) Option() FallacyOption {
	return FallacyOption{
		ID:          f.ID,
		Name:        f.Name,
		Key:         f.Key,
		Description: f.Description,
	}
}

// Topic groups fragments that read naturally together in one passage
type Topic struct {
	ID          int64
	Name        string
	Description string
	Difficulty  Difficulty
}

// PositionHint tells the assembler where a fragment reads best
type PositionHint string

const (
	PositionEarly  PositionHint = "early"
	PositionMiddle PositionHint = "middle"
	PositionLate   PositionHint = "late"
	PositionAny    PositionHint = "any"
)

// NormalizePositionHint maps unknown or empty hints to PositionAny
func NormalizePositionHint(s string) PositionHint {
	switch h := PositionHint(strings.ToLower(strings.TrimSpace(s))); h {
	case PositionEarly, PositionMiddle, PositionLate:
		return h
	default:
		return PositionAny
	}
}

// TextBlock is a short fragment of prose exemplifying one fallacy
type TextBlock struct {
	ID           int64
	FallacyID    int64
	TopicID      int64
	Content      string
	PositionHint PositionHint
	Context      string
}

// PhraseKind classifies narrative filler used around fragments
type PhraseKind string

const (
	PhraseIntro      PhraseKind = "intro"
	PhraseConnective PhraseKind = "connective"
	PhraseClosing    PhraseKind = "closing"
	PhraseTitle      PhraseKind = "title"
)

// NarrativePhrase is a line of connective prose. TopicID is zero for generic phrases.
type NarrativePhrase struct {
	ID      int64
	Kind    PhraseKind
	TopicID int64
	Text    string
}
