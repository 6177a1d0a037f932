package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	apperrors "phoenix/internal/errors"
)

// MigrationRunner creates the schema on startup. Statements are idempotent
// so repeated boots are safe.
type MigrationRunner struct {
	version string
}

func NewMigrationRunner() *MigrationRunner {
	return &MigrationRunner{version: "1.0.0"}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all migrations in order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	statements := []struct {
		name string
		sql  string
	}{
		{"projects table", `
			CREATE TABLE IF NOT EXISTS projects (
				id UUID PRIMARY KEY,
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			)`},
		{"data_sources table", `
			CREATE TABLE IF NOT EXISTS data_sources (
				id UUID PRIMARY KEY,
				project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
				name TEXT NOT NULL,
				source_type TEXT NOT NULL,
				data_preview JSONB,
				data_profile JSONB,
				raw_data_sample JSONB,
				created_at TIMESTAMPTZ NOT NULL
			)`},
		{"analyses table", `
			CREATE TABLE IF NOT EXISTS analyses (
				id UUID PRIMARY KEY,
				project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
				name TEXT NOT NULL,
				insights JSONB NOT NULL DEFAULT '[]',
				created_at TIMESTAMPTZ NOT NULL
			)`},
		{"conversations table", `
			CREATE TABLE IF NOT EXISTS conversations (
				id UUID PRIMARY KEY,
				project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
				question TEXT NOT NULL,
				answer JSONB NOT NULL,
				created_at TIMESTAMPTZ NOT NULL
			)`},
		{"stories table", `
			CREATE TABLE IF NOT EXISTS stories (
				id UUID PRIMARY KEY,
				project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
				title TEXT NOT NULL,
				narrative TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL
			)`},
		{"data_sources project index", `
			CREATE INDEX IF NOT EXISTS idx_data_sources_project ON data_sources(project_id)`},
		{"analyses project index", `
			CREATE INDEX IF NOT EXISTS idx_analyses_project ON analyses(project_id)`},
		{"conversations project index", `
			CREATE INDEX IF NOT EXISTS idx_conversations_project ON conversations(project_id)`},
		{"stories project index", `
			CREATE INDEX IF NOT EXISTS idx_stories_project ON stories(project_id)`},
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt.sql); err != nil {
			return apperrors.Wrapf(err, "failed to create %s", stmt.name)
		}
	}
	return nil
}
