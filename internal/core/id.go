package core

import (
	"github.com/google/uuid"
)

// GenerateID returns a new unique identifier for debates and turns.
func GenerateID() string {
	return uuid.New().String()
}
