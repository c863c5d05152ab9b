package domain

import "time"

// Session is one user's workbench: the drink being built plus the recipe
// being played back, if any.
type Session struct {
	ID        string        `json:"id"`
	Drink     DrinkState    `json:"drink"`
	Recipe    *Recipe       `json:"recipe,omitempty"`
	Playing   bool          `json:"playing"`
	Status    SessionStatus `json:"status"`
	StartedAt time.Time     `json:"started_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// SessionStatus tracks the lifecycle of a session.
type SessionStatus int

const (
	SessionActive SessionStatus = iota
	SessionFinished
	SessionAbandoned
)

// String returns a human-readable session status.
func (s SessionStatus) String() string {
	switch s {
	case SessionActive:
		return "active"
	case SessionFinished:
		return "finished"
	case SessionAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}
