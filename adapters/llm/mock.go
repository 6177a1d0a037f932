package llm

import (
	"context"
	"encoding/json"
)

// MockClient is a canned LLM client for tests
type MockClient struct {
	Response          string // reply for Analyze
	TransformResponse string // reply for Transform (must be JSON if Err is nil)
	Err               error  // returned by both calls when set

	AnalyzeCalls   int
	LastPrompt     string
	TransformCalls int
}

func (m *MockClient) Analyze(ctx context.Context, prompt string) (string, error) {
	m.AnalyzeCalls++
	m.LastPrompt = prompt
	if m.Err != nil {
		return "", m.Err
	}
	if m.Response != "" {
		return m.Response, nil
	}
	return `{"distribution_insights": "values are roughly symmetric", "patterns": "no notable pattern", "data_quality_issues": "none", "statistical_properties": "low variance"}`, nil
}

func (m *MockClient) Transform(ctx context.Context, data, instruction string) (json.RawMessage, error) {
	m.TransformCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.TransformResponse != "" {
		return json.RawMessage(m.TransformResponse), nil
	}
	return json.RawMessage(`{"rows": []}`), nil
}
