package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound         = errors.New("not found")
	ErrSessionNotActive = errors.New("session is not active")
	ErrPlaybackRunning  = errors.New("recipe playback already running")
	ErrEmptyRecipe      = errors.New("recipe has no instructions")
	ErrOverflow         = errors.New("pour exceeds glass capacity")
	ErrInvalidAction    = errors.New("invalid action")
)
