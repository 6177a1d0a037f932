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

type storyRepository struct {
	db *sqlx.DB
}

// NewStoryRepository creates a story repository
func NewStoryRepository(db *sqlx.DB) ports.StoryRepository {
	return &storyRepository{db: db}
}

func (r *storyRepository) Create(ctx context.Context, s *project.Story) error {
	query := `INSERT INTO stories (id, project_id, title, narrative, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query, s.ID, s.ProjectID, s.Title, s.Narrative, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create story: %w", err)
	}
	return nil
}

func (r *storyRepository) GetByID(ctx context.Context, id core.StoryID) (*project.Story, error) {
	query := `SELECT id, project_id, title, narrative, created_at
		FROM stories WHERE id = $1`

	var s project.Story
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.ProjectID, &s.Title, &s.Narrative, &s.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound(fmt.Sprintf("story %s", id))
		}
		return nil, fmt.Errorf("failed to get story: %w", err)
	}
	return &s, nil
}

func (r *storyRepository) ListByProject(ctx context.Context, projectID core.ProjectID) ([]*project.Story, error) {
	query := `SELECT id, project_id, title, narrative, created_at
		FROM stories WHERE project_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	defer rows.Close()

	var stories []*project.Story
	for rows.Next() {
		var s project.Story
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.Title, &s.Narrative, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan story: %w", err)
		}
		stories = append(stories, &s)
	}
	return stories, rows.Err()
}
