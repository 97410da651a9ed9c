package domain

import "github.com/google/uuid"

// NewID generates a UUIDv7 string, used to correlate statements in logs.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
