package models

import (
	"fmt"
	"strings"
)

// Difficulty is the ordered tier of a fallacy, topic or game
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

// AllDifficulties lists every tier from easiest to hardest
var AllDifficulties = []Difficulty{Easy, Medium, Hard}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "Easy"
	case Medium:
		return "Medium"
	case Hard:
		return "Hard"
	default:
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
}

// Valid reports whether d is one of the known tiers
func (d Difficulty) Valid() bool {
	return d >= Easy && d <= Hard
}

// Includes reports whether content of tier other is playable at tier d.
// Tiers are inclusive upward: Hard includes everything.
func (d Difficulty) Includes(other Difficulty) bool {
	return other <= d
}

// ParseDifficulty converts "easy", "Medium", "HARD" etc. into a Difficulty
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	default:
		return Easy, fmt.Errorf("unknown difficulty %q", s)
	}
}

// MarshalText encodes the difficulty by name for JSON and YAML
func (d Difficulty) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid difficulty %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText accepts the difficulty name in any letter case
func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
