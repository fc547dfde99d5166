package models

import "time"

// Session is one contiguous timed interval of work against a project.
// A nil EndTime marks the session as open.
type Session struct {
	ID              int64      `db:"id" json:"id"`
	ProjectID       int64      `db:"project_id" json:"project_id"`
	StartTime       time.Time  `db:"start_time" json:"start_time"`
	EndTime         *time.Time `db:"end_time" json:"end_time,omitempty"`
	DurationSeconds int64      `db:"duration_seconds" json:"duration_seconds"`
	WorkDetails     *string    `db:"work_details" json:"work_details,omitempty"`

	// StartTimeNaive is set by stores that found no zone information on the
	// persisted start timestamp.
	StartTimeNaive bool `db:"-" json:"-"`
}

// Active reports whether the session is still open.
func (s *Session) Active() bool {
	return s.EndTime == nil
}
