package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"phoenix/domain/core"
	"phoenix/domain/insight"
	"phoenix/domain/project"
	apperrors "phoenix/internal/errors"
	"phoenix/ports"
)

type analysisRepository struct {
	db *sqlx.DB
}

// NewAnalysisRepository creates an analysis repository
func NewAnalysisRepository(db *sqlx.DB) ports.AnalysisRepository {
	return &analysisRepository{db: db}
}

func (r *analysisRepository) Create(ctx context.Context, a *project.Analysis) error {
	insightsJSON, err := json.Marshal(a.Insights)
	if err != nil {
		return fmt.Errorf("failed to marshal insights: %w", err)
	}

	query := `INSERT INTO analyses (id, project_id, name, insights, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err = r.db.ExecContext(ctx, query, a.ID, a.ProjectID, a.Name, insightsJSON, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create analysis: %w", err)
	}
	return nil
}

func (r *analysisRepository) GetByID(ctx context.Context, id core.AnalysisID) (*project.Analysis, error) {
	query := `SELECT id, project_id, name, insights, created_at
		FROM analyses WHERE id = $1`

	a, err := scanAnalysis(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound(fmt.Sprintf("analysis %s", id))
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return a, nil
}

func (r *analysisRepository) ListByProject(ctx context.Context, projectID core.ProjectID) ([]*project.Analysis, error) {
	query := `SELECT id, project_id, name, insights, created_at
		FROM analyses WHERE project_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var analyses []*project.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		analyses = append(analyses, a)
	}
	return analyses, rows.Err()
}

func scanAnalysis(row rowScanner) (*project.Analysis, error) {
	var a project.Analysis
	var insightsJSON []byte

	if err := row.Scan(&a.ID, &a.ProjectID, &a.Name, &insightsJSON, &a.CreatedAt); err != nil {
		return nil, err
	}

	if len(insightsJSON) > 0 {
		if err := json.Unmarshal(insightsJSON, &a.Insights); err != nil {
			return nil, fmt.Errorf("failed to unmarshal insights: %w", err)
		}
	}
	if a.Insights == nil {
		a.Insights = []insight.Insight{}
	}
	return &a, nil
}
