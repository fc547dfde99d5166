package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"timetrack/backend/services/timetracker-service/internal/models"
	"timetrack/backend/services/timetracker-service/internal/repository"
)

const sessionColumns = `id, project_id, start_time, end_time, duration_seconds, work_details`

// ListSessions returns a project's sessions, newest first.
func (s *Store) ListSessions(ctx context.Context, projectID int64) ([]models.Session, error) {
	return listSessions(ctx, s.pool, `
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE project_id = $1
		ORDER BY start_time DESC, id DESC
	`, projectID)
}

// ListOpenSessions returns every session without an end time.
func (s *Store) ListOpenSessions(ctx context.Context) ([]models.Session, error) {
	return listSessions(ctx, s.pool, `
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE end_time IS NULL
		ORDER BY start_time DESC
	`)
}

// tx implements repository.Tx on a pgx transaction.
type tx struct {
	q querier
}

func (t *tx) LockProject(ctx context.Context, id int64) (*models.Project, error) {
	return getProject(ctx, t.q, `SELECT `+projectColumns+` FROM projects WHERE id = $1 FOR UPDATE`, id)
}

func (t *tx) OpenSession(ctx context.Context, projectID int64) (*models.Session, error) {
	const query = `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE project_id = $1 AND end_time IS NULL
		LIMIT 1
	`
	var sess models.Session
	err := scanSession(t.q.QueryRow(ctx, query, projectID), &sess)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get open session: %w", err)
	}
	return &sess, nil
}

func (t *tx) InsertSession(ctx context.Context, session *models.Session) error {
	const query = `
		INSERT INTO sessions (project_id, start_time, end_time, duration_seconds, work_details)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := t.q.QueryRow(ctx, query,
		session.ProjectID,
		session.StartTime,
		session.EndTime,
		session.DurationSeconds,
		session.WorkDetails,
	).Scan(&session.ID)
	if err != nil {
		if mapped := mapError(err); errors.Is(mapped, repository.ErrOpenSessionExists) {
			return mapped
		}
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (t *tx) CloseSession(ctx context.Context, session *models.Session) error {
	const query = `
		UPDATE sessions
		SET start_time = $2,
		    end_time = $3,
		    duration_seconds = $4,
		    work_details = $5
		WHERE id = $1 AND end_time IS NULL
	`
	tag, err := t.q.Exec(ctx, query,
		session.ID,
		session.StartTime,
		session.EndTime,
		session.DurationSeconds,
		session.WorkDetails,
	)
	if err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (t *tx) UpdateProjectTotals(ctx context.Context, project *models.Project) error {
	const query = `
		UPDATE projects
		SET total_hours = $2,
		    estimated_cost = $3
		WHERE id = $1
	`
	tag, err := t.q.Exec(ctx, query, project.ID, project.TotalHours, project.EstimatedCost)
	if err != nil {
		return fmt.Errorf("failed to update project totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func listSessions(ctx context.Context, q querier, query string, args ...any) ([]models.Session, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]models.Session, 0)
	for rows.Next() {
		var sess models.Session
		if err := scanSession(rows, &sess); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating session rows: %w", err)
	}
	return sessions, nil
}

func scanSession(row pgx.Row, sess *models.Session) error {
	return row.Scan(
		&sess.ID,
		&sess.ProjectID,
		&sess.StartTime,
		&sess.EndTime,
		&sess.DurationSeconds,
		&sess.WorkDetails,
	)
}
