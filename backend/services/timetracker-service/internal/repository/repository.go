package repository

import (
	"context"
	"errors"

	"timetrack/backend/services/timetracker-service/internal/models"
)

var (
	// ErrNotFound is returned when a requested row doesn't exist.
	ErrNotFound = errors.New("not found")
	// ErrOpenSessionExists is returned when inserting a second open session for a project.
	ErrOpenSessionExists = errors.New("project already has an open session")
)

// Store is the relational persistence used by the timetracker service.
type Store interface {
	// Migrate creates missing tables and indexes. It never drops data.
	Migrate(ctx context.Context) error
	// Reset drops every table and recreates the schema.
	Reset(ctx context.Context) error

	CreateProject(ctx context.Context, project *models.Project) error
	GetProject(ctx context.Context, id int64) (*models.Project, error)
	ListProjects(ctx context.Context) ([]models.Project, error)
	// DeleteProject removes the project and, by cascade, all of its sessions.
	DeleteProject(ctx context.Context, id int64) error

	ListSessions(ctx context.Context, projectID int64) ([]models.Session, error)
	ListOpenSessions(ctx context.Context) ([]models.Session, error)

	// WithinTx runs fn in a single transaction, committing when fn returns nil.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	Close() error
}

// Tx exposes the reads and writes the session lifecycle performs atomically.
type Tx interface {
	// LockProject loads a project and holds it against concurrent lifecycle changes.
	LockProject(ctx context.Context, id int64) (*models.Project, error)
	// OpenSession returns the project's session with no end time, or ErrNotFound.
	OpenSession(ctx context.Context, projectID int64) (*models.Session, error)
	InsertSession(ctx context.Context, session *models.Session) error
	CloseSession(ctx context.Context, session *models.Session) error
	UpdateProjectTotals(ctx context.Context, project *models.Project) error
}
