package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"phoenix/domain/core"
	"phoenix/domain/project"
	apperrors "phoenix/internal/errors"
	"phoenix/ports"
)

type dataSourceRepository struct {
	db *sqlx.DB
}

// NewDataSourceRepository creates a data source repository
func NewDataSourceRepository(db *sqlx.DB) ports.DataSourceRepository {
	return &dataSourceRepository{db: db}
}

func (r *dataSourceRepository) Create(ctx context.Context, ds *project.DataSource) error {
	previewJSON, err := json.Marshal(ds.Preview)
	if err != nil {
		return fmt.Errorf("failed to marshal preview: %w", err)
	}
	profileJSON, err := json.Marshal(ds.Profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	sampleJSON, err := json.Marshal(ds.Sample)
	if err != nil {
		return fmt.Errorf("failed to marshal sample: %w", err)
	}

	query := `INSERT INTO data_sources (
		id, project_id, name, source_type, data_preview, data_profile, raw_data_sample, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.db.ExecContext(ctx, query,
		ds.ID, ds.ProjectID, ds.Name, ds.Type, previewJSON, profileJSON, sampleJSON, ds.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create data source: %w", err)
	}
	return nil
}

func (r *dataSourceRepository) GetByID(ctx context.Context, id core.DataSourceID) (*project.DataSource, error) {
	query := `SELECT id, project_id, name, source_type, data_preview, data_profile, raw_data_sample, created_at
		FROM data_sources WHERE id = $1`

	ds, err := scanDataSource(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound(fmt.Sprintf("data source %s", id))
		}
		return nil, fmt.Errorf("failed to get data source: %w", err)
	}
	return ds, nil
}

func (r *dataSourceRepository) ListByProject(ctx context.Context, projectID core.ProjectID) ([]*project.DataSource, error) {
	query := `SELECT id, project_id, name, source_type, data_preview, data_profile, raw_data_sample, created_at
		FROM data_sources WHERE project_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list data sources: %w", err)
	}
	defer rows.Close()

	var sources []*project.DataSource
	for rows.Next() {
		ds, err := scanDataSource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan data source: %w", err)
		}
		sources = append(sources, ds)
	}
	return sources, rows.Err()
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDataSource(row rowScanner) (*project.DataSource, error) {
	var ds project.DataSource
	var previewJSON, profileJSON, sampleJSON []byte

	err := row.Scan(&ds.ID, &ds.ProjectID, &ds.Name, &ds.Type,
		&previewJSON, &profileJSON, &sampleJSON, &ds.CreatedAt)
	if err != nil {
		return nil, err
	}

	if len(previewJSON) > 0 {
		if err := json.Unmarshal(previewJSON, &ds.Preview); err != nil {
			return nil, fmt.Errorf("failed to unmarshal preview: %w", err)
		}
	}
	if len(profileJSON) > 0 {
		if err := json.Unmarshal(profileJSON, &ds.Profile); err != nil {
			return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
		}
	}
	if len(sampleJSON) > 0 {
		if err := json.Unmarshal(sampleJSON, &ds.Sample); err != nil {
			return nil, fmt.Errorf("failed to unmarshal sample: %w", err)
		}
	}
	return &ds, nil
}
