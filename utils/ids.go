package utils

import (
	"github.com/google/uuid"
)

// NewSessionID returns a random identifier for an auction session
func NewSessionID() string {
	return uuid.NewString()
}

// NewBidID returns a time-ordered identifier, so bid ids sort in the order the
// authority accepted them
func NewBidID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
