package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"phoenix/domain/frame"
	"phoenix/domain/insight"
	"phoenix/ports"
)

// StatisticalGenerator sends the descriptive-statistics summary to the LLM
// gateway and parses the reply into keyed sections. A reply that is not valid
// JSON is still a finding: the raw text is kept under a single analysis key.
type StatisticalGenerator struct {
	client ports.LLMClient
}

func NewStatisticalGenerator(client ports.LLMClient) *StatisticalGenerator {
	return &StatisticalGenerator{client: client}
}

func (g *StatisticalGenerator) Kind() insight.Type { return insight.TypeStatistical }

func (g *StatisticalGenerator) Generate(ctx context.Context, f *frame.Frame) (insight.Finding, error) {
	if g.client == nil {
		return nil, fmt.Errorf("llm gateway not configured")
	}

	prompt := fmt.Sprintf(`Analyze this statistical summary of a dataset and surface the most important insights:

%s

Focus on:
1. Data distribution characteristics
2. Notable patterns or anomalies
3. Potential data quality issues
4. Interesting statistical properties

Respond with a JSON object with the keys distribution_insights, patterns, data_quality_issues and statistical_properties, each holding a short finding.`, f.DescribeString())

	content, err := g.client.Analyze(ctx, prompt)
	if err != nil {
		return nil, err
	}

	sections, ok := parseSections(content)
	if !ok {
		return &insight.StatisticalFinding{Analysis: strings.TrimSpace(content)}, nil
	}
	if len(sections) == 0 {
		return nil, nil
	}
	return &insight.StatisticalFinding{Sections: sections}, nil
}

// parseSections decodes the reply as a JSON object, tolerating markdown
// fences around it. Numbers decode as json.Number so integer values survive
// downstream normalization.
func parseSections(content string) (map[string]interface{}, bool) {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
		trimmed = strings.TrimSpace(trimmed)
	}

	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()
	var sections map[string]interface{}
	if err := dec.Decode(&sections); err != nil {
		return nil, false
	}
	return sections, true
}
