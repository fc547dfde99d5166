package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"timetrack/backend/services/timetracker-service/internal/models"
	"timetrack/backend/services/timetracker-service/internal/repository"
)

const projectColumns = `id, name, type, hourly_rate, total_hours, estimated_cost, created_at`

// CreateProject inserts a project and fills its id.
func (s *Store) CreateProject(ctx context.Context, project *models.Project) error {
	if project.CreatedAt.IsZero() {
		project.CreatedAt = time.Now()
	}
	const query = `
		INSERT INTO projects (name, type, hourly_rate, total_hours, estimated_cost, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query,
		project.Name,
		project.Type,
		project.HourlyRate,
		project.TotalHours,
		project.EstimatedCost,
		formatTimestamp(project.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read project id: %w", err)
	}
	project.ID = id
	return nil
}

// GetProject fetches a project by id.
func (s *Store) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	return getProject(ctx, s.db, id)
}

// ListProjects returns all projects, oldest first.
func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]models.Project, 0)
	for rows.Next() {
		var p models.Project
		if err := scanProject(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}
	return projects, nil
}

// DeleteProject removes a project; sessions go with it via ON DELETE CASCADE.
func (s *Store) DeleteProject(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
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

func getProject(ctx context.Context, q querier, id int64) (*models.Project, error) {
	var p models.Project
	err := scanProject(q.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id), &p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &p, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner, p *models.Project) error {
	var createdAt string
	if err := row.Scan(&p.ID, &p.Name, &p.Type, &p.HourlyRate, &p.TotalHours, &p.EstimatedCost, &createdAt); err != nil {
		return err
	}
	ts, _, err := parseTimestamp(createdAt)
	if err != nil {
		return err
	}
	p.CreatedAt = ts
	return nil
}
