package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"timetrack/backend/services/timetracker-service/internal/models"
	"timetrack/backend/services/timetracker-service/internal/repository"
)

const sessionColumns = `id, project_id, start_time, end_time, duration_seconds, work_details`

// ListSessions returns a project's sessions, newest first.
func (s *Store) ListSessions(ctx context.Context, projectID int64) ([]models.Session, error) {
	return listSessions(ctx, s.db, `
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE project_id = ?
		ORDER BY id DESC
	`, projectID)
}

// ListOpenSessions returns every session without an end time.
func (s *Store) ListOpenSessions(ctx context.Context) ([]models.Session, error) {
	return listSessions(ctx, s.db, `
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE end_time IS NULL
		ORDER BY id DESC
	`)
}

// tx implements repository.Tx on a database/sql transaction. SQLite locks the
// whole database for writers, so LockProject is a plain read.
type tx struct {
	q querier
}

func (t *tx) LockProject(ctx context.Context, id int64) (*models.Project, error) {
	return getProject(ctx, t.q, id)
}

func (t *tx) OpenSession(ctx context.Context, projectID int64) (*models.Session, error) {
	const query = `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE project_id = ? AND end_time IS NULL
		LIMIT 1
	`
	var sess models.Session
	err := scanSession(t.q.QueryRowContext(ctx, query, projectID), &sess)
	if errors.Is(err, sql.ErrNoRows) {
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
		VALUES (?, ?, ?, ?, ?)
	`
	result, err := t.q.ExecContext(ctx, query,
		session.ProjectID,
		formatTimestamp(session.StartTime),
		nullableTimestamp(session),
		session.DurationSeconds,
		nullableString(session.WorkDetails),
	)
	if err != nil {
		if isOpenSessionViolation(err) {
			return repository.ErrOpenSessionExists
		}
		return fmt.Errorf("failed to insert session: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read session id: %w", err)
	}
	session.ID = id
	return nil
}

func (t *tx) CloseSession(ctx context.Context, session *models.Session) error {
	const query = `
		UPDATE sessions
		SET start_time = ?,
		    end_time = ?,
		    duration_seconds = ?,
		    work_details = ?
		WHERE id = ? AND end_time IS NULL
	`
	result, err := t.q.ExecContext(ctx, query,
		formatTimestamp(session.StartTime),
		nullableTimestamp(session),
		session.DurationSeconds,
		nullableString(session.WorkDetails),
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (t *tx) UpdateProjectTotals(ctx context.Context, project *models.Project) error {
	const query = `
		UPDATE projects
		SET total_hours = ?,
		    estimated_cost = ?
		WHERE id = ?
	`
	result, err := t.q.ExecContext(ctx, query, project.TotalHours, project.EstimatedCost, project.ID)
	if err != nil {
		return fmt.Errorf("failed to update project totals: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func listSessions(ctx context.Context, q querier, query string, args ...any) ([]models.Session, error) {
	rows, err := q.QueryContext(ctx, query, args...)
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

func scanSession(row scanner, sess *models.Session) error {
	var (
		startTime   string
		endTime     sql.NullString
		workDetails sql.NullString
	)
	if err := row.Scan(&sess.ID, &sess.ProjectID, &startTime, &endTime, &sess.DurationSeconds, &workDetails); err != nil {
		return err
	}

	start, naive, err := parseTimestamp(startTime)
	if err != nil {
		return err
	}
	sess.StartTime = start
	sess.StartTimeNaive = naive

	if endTime.Valid {
		end, _, err := parseTimestamp(endTime.String)
		if err != nil {
			return err
		}
		sess.EndTime = &end
	}
	if workDetails.Valid {
		details := workDetails.String
		sess.WorkDetails = &details
	}
	return nil
}

func nullableTimestamp(session *models.Session) any {
	if session.EndTime == nil {
		return nil
	}
	return formatTimestamp(*session.EndTime)
}

func nullableString(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}
