package models

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned for an unknown session id
	ErrSessionNotFound = errors.New("game session not found")
	// ErrSessionAlreadyCompleted is returned when answers are submitted twice
	ErrSessionAlreadyCompleted = errors.New("game session already completed")
	// ErrNoContentAvailable means the content bank cannot produce a passage for the difficulty
	ErrNoContentAvailable = errors.New("no content available for the requested difficulty")
)

// ValidationError represents a malformed or missing input field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
