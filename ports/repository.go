package ports

import (
	"context"

	"phoenix/domain/core"
	"phoenix/domain/project"
)

// ProjectRepository persists projects
type ProjectRepository interface {
	Create(ctx context.Context, p *project.Project) error
	GetByID(ctx context.Context, id core.ProjectID) (*project.Project, error)
	List(ctx context.Context, limit, offset int) ([]*project.Project, error)
	Delete(ctx context.Context, id core.ProjectID) error
}

// DataSourceRepository persists connected data sources
type DataSourceRepository interface {
	Create(ctx context.Context, ds *project.DataSource) error
	GetByID(ctx context.Context, id core.DataSourceID) (*project.DataSource, error)
	ListByProject(ctx context.Context, projectID core.ProjectID) ([]*project.DataSource, error)
}

// AnalysisRepository persists analysis runs with their ranked insights
type AnalysisRepository interface {
	Create(ctx context.Context, a *project.Analysis) error
	GetByID(ctx context.Context, id core.AnalysisID) (*project.Analysis, error)
	ListByProject(ctx context.Context, projectID core.ProjectID) ([]*project.Analysis, error)
}

// ConversationRepository persists question/answer exchanges
type ConversationRepository interface {
	Create(ctx context.Context, c *project.Conversation) error
	ListByProject(ctx context.Context, projectID core.ProjectID) ([]*project.Conversation, error)
}

// StoryRepository persists generated narratives
type StoryRepository interface {
	Create(ctx context.Context, s *project.Story) error
	GetByID(ctx context.Context, id core.StoryID) (*project.Story, error)
	ListByProject(ctx context.Context, projectID core.ProjectID) ([]*project.Story, error)
}
