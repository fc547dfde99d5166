package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"timetrack/backend/services/timetracker-service/internal/models"
	"timetrack/backend/services/timetracker-service/internal/repository"
)

const projectColumns = `id, name, type, hourly_rate, total_hours, estimated_cost, created_at`

// CreateProject inserts a project and fills its id and created_at.
func (s *Store) CreateProject(ctx context.Context, project *models.Project) error {
	const query = `
		INSERT INTO projects (name, type, hourly_rate, total_hours, estimated_cost)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := s.pool.QueryRow(ctx, query,
		project.Name,
		project.Type,
		project.HourlyRate,
		project.TotalHours,
		project.EstimatedCost,
	).Scan(&project.ID, &project.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// GetProject fetches a project by id.
func (s *Store) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	return getProject(ctx, s.pool, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
}

// ListProjects returns all projects, oldest first.
func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]models.Project, 0)
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Type, &p.HourlyRate, &p.TotalHours, &p.EstimatedCost, &p.CreatedAt); err != nil {
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
	tag, err := s.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func getProject(ctx context.Context, q querier, query string, id int64) (*models.Project, error) {
	var p models.Project
	err := q.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Type,
		&p.HourlyRate,
		&p.TotalHours,
		&p.EstimatedCost,
		&p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &p, nil
}
