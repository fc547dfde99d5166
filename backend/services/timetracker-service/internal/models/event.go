package models

import "time"

// Session event types published to live subscribers.
const (
	EventSessionStarted = "session.started"
	EventSessionEnded   = "session.ended"
)

// SessionEvent describes a lifecycle change of a session.
type SessionEvent struct {
	Type       string    `json:"type"`
	Project    Project   `json:"project"`
	Session    Session   `json:"session"`
	OccurredAt time.Time `json:"occurred_at"`
}
