// Package project holds the records the service persists around the analysis
// core: projects, their connected data sources, analysis runs, Q&A
// conversations and generated stories. The core treats these as opaque
// structured values; schema knowledge lives in the postgres adapter.
package project

import (
	"phoenix/domain/core"
	"phoenix/domain/insight"
)

// Project groups data sources and analyses
type Project struct {
	ID          core.ProjectID `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	CreatedAt   core.Timestamp `json:"created_at"`
	UpdatedAt   core.Timestamp `json:"updated_at"`
}

// DataSource is one connected data source with its preview and first-contact
// profile, captured at connection time.
type DataSource struct {
	ID        core.DataSourceID      `json:"id"`
	ProjectID core.ProjectID         `json:"project_id"`
	Name      string                 `json:"name"`
	Type      string                 `json:"type"` // "csv", "excel", "json", "api"
	Preview   map[string]interface{} `json:"data_preview,omitempty"`
	Profile   map[string]interface{} `json:"data_profile,omitempty"`
	// Sample holds up to 100 raw rows so analyses can be re-run without
	// re-reading the origin.
	Sample    []map[string]interface{} `json:"raw_data_sample,omitempty"`
	CreatedAt core.Timestamp           `json:"created_at"`
}

// Analysis is one insight-pipeline run over a data source
type Analysis struct {
	ID        core.AnalysisID   `json:"id"`
	ProjectID core.ProjectID    `json:"project_id"`
	Name      string            `json:"name"`
	Insights  []insight.Insight `json:"insights"`
	CreatedAt core.Timestamp    `json:"created_at"`
}

// Conversation is one question/answer exchange about a project's data
type Conversation struct {
	ID        core.ID        `json:"id"`
	ProjectID core.ProjectID `json:"project_id"`
	Question  string         `json:"question"`
	Answer    insight.Answer `json:"answer"`
	CreatedAt core.Timestamp `json:"created_at"`
}

// Story is a generated narrative over a project's accumulated insights
type Story struct {
	ID        core.StoryID   `json:"id"`
	ProjectID core.ProjectID `json:"project_id"`
	Title     string         `json:"title"`
	Narrative string         `json:"narrative"`
	CreatedAt core.Timestamp `json:"created_at"`
}

// NewProject creates a project with a fresh ID
func NewProject(name, description string) *Project {
	now := core.Now()
	return &Project{
		ID:          core.ProjectID(core.NewID()),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
