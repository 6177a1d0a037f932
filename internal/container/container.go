// Package container wires the application dependency graph
package container

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"phoenix/adapters/ingest"
	"phoenix/adapters/llm"
	"phoenix/adapters/postgres"
	"phoenix/internal"
	"phoenix/internal/analysis"
	"phoenix/internal/config"
	"phoenix/internal/narrative"
	"phoenix/internal/qa"
	"phoenix/internal/report"
	"phoenix/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Repositories
	ProjectRepo      ports.ProjectRepository
	DataSourceRepo   ports.DataSourceRepository
	AnalysisRepo     ports.AnalysisRepository
	ConversationRepo ports.ConversationRepository
	StoryRepo        ports.StoryRepository

	// Gateways and pipeline services
	LLMClient   ports.LLMClient // nil when no credential is configured
	Ingest      *ingest.Registry
	Aggregator  *analysis.Aggregator
	Router      *qa.Router
	Synthesizer *narrative.Synthesizer
	Exporter    *report.Exporter
}

// New creates the container shell; database-dependent pieces are wired in
// InitWithDatabase.
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}

	c := &Container{Config: cfg, Logger: logger}

	if cfg.LLM.APIKey != "" {
		client, err := llm.NewClient(llm.Config{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
			Timeout: cfg.LLM.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build llm client: %w", err)
		}
		c.LLMClient = client
	} else {
		logger.Warn("[Container] no LLM credential configured; generative features degrade")
	}

	c.Ingest = ingest.NewRegistry(logger)
	c.Aggregator = analysis.NewAggregator(c.LLMClient, logger)
	c.Router = qa.NewRouter(c.LLMClient, logger)
	c.Synthesizer = narrative.NewSynthesizer(c.LLMClient, logger)
	c.Exporter = report.NewExporter()

	return c, nil
}

// InitWithDatabase runs migrations and wires the repositories
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}
	c.DB = db

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	runner := postgres.NewMigrationRunner()
	if err := runner.Run(ctx, db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	c.Logger.Info("[Container] schema migrated (version %s)", runner.Version())

	c.ProjectRepo = postgres.NewProjectRepository(db)
	c.DataSourceRepo = postgres.NewDataSourceRepository(db)
	c.AnalysisRepo = postgres.NewAnalysisRepository(db)
	c.ConversationRepo = postgres.NewConversationRepository(db)
	c.StoryRepo = postgres.NewStoryRepository(db)

	return nil
}

// Close releases held resources
func (c *Container) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
