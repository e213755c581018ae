package security

import (
	"github.com/google/uuid"
)

// GenerateSessionID creates a new UUID for game session identification
func GenerateSessionID() string {
	return uuid.New().String()
}

// ValidSessionID reports whether id has the form produced by GenerateSessionID
func ValidSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
