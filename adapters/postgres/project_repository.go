// Package postgres persists the service's records with sqlx over lib/pq.
// Structured payloads (previews, profiles, insights, answers) are stored as
// JSONB; the schema lives in the migration runner.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"phoenix/domain/core"
	"phoenix/domain/project"
	apperrors "phoenix/internal/errors"
	"phoenix/ports"
)

type projectRepository struct {
	db *sqlx.DB
}

// NewProjectRepository creates a project repository
func NewProjectRepository(db *sqlx.DB) ports.ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, p *project.Project) error {
	query := `INSERT INTO projects (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.Description, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func (r *projectRepository) GetByID(ctx context.Context, id core.ProjectID) (*project.Project, error) {
	query := `SELECT id, name, description, created_at, updated_at
		FROM projects WHERE id = $1`

	var p project.Project
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound(fmt.Sprintf("project %s", id))
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &p, nil
}

func (r *projectRepository) List(ctx context.Context, limit, offset int) ([]*project.Project, error) {
	query := `SELECT id, name, description, created_at, updated_at
		FROM projects ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*project.Project
	for rows.Next() {
		var p project.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

func (r *projectRepository) Delete(ctx context.Context, id core.ProjectID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFound(fmt.Sprintf("project %s", id))
	}
	return nil
}
