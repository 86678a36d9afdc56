package core

import "github.com/google/uuid"

// NewID returns a new random identifier for sessions and exchanges.
func NewID() string { return uuid.NewString() }
