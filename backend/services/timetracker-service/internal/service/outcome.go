package service

import (
	"errors"

	"timetrack/backend/services/timetracker-service/internal/models"
)

// ErrProjectNotFound is returned when an operation targets a missing project.
var ErrProjectNotFound = errors.New("timetracker: project not found")

// Outcome classifies the result of a lifecycle operation.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeAlreadyActive
	OutcomeNoActiveSession
	OutcomeInvalidInput
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeAlreadyActive:
		return "already_active"
	case OutcomeNoActiveSession:
		return "no_active_session"
	case OutcomeInvalidInput:
		return "invalid_input"
	default:
		return "unknown"
	}
}

// Result is returned by every mutating operation that did not fail outright.
// Business-rule rejections are reported here rather than as errors.
type Result struct {
	Outcome Outcome
	Message string
	Project *models.Project
	Session *models.Session
}

// OK reports whether the operation succeeded.
func (r *Result) OK() bool {
	return r != nil && r.Outcome == OutcomeSuccess
}

func rejected(outcome Outcome, message string) *Result {
	return &Result{Outcome: outcome, Message: message}
}
