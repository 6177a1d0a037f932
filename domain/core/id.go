package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Use UUID v7 for time-ordered, sortable IDs
	// Falls back to v4 if v7 is not available (for compatibility)
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	ProjectID    ID
	DataSourceID ID
	AnalysisID   ID
	StoryID      ID
)

// String conversions for domain IDs
func (id ProjectID) String() string    { return ID(id).String() }
func (id DataSourceID) String() string { return ID(id).String() }
func (id AnalysisID) String() string   { return ID(id).String() }
func (id StoryID) String() string      { return ID(id).String() }

// ParseProjectID parses a string into ProjectID
func ParseProjectID(s string) (ProjectID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("project ID cannot be empty")
	}
	return ProjectID(s), nil
}

// ParseDataSourceID parses a string into DataSourceID
func ParseDataSourceID(s string) (DataSourceID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("data source ID cannot be empty")
	}
	return DataSourceID(s), nil
}

// ParseStoryID parses a string into StoryID
func ParseStoryID(s string) (StoryID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("story ID cannot be empty")
	}
	return StoryID(s), nil
}
