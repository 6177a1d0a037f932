// Package narrative turns a ranked insight list into a prose report through
// the LLM gateway. The output contract is best-effort prose: no local
// validation of section structure.
package narrative

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"phoenix/domain/insight"
	"phoenix/internal"
	"phoenix/ports"
)

const failedNarrative = "Narrative generation failed"

// Synthesizer builds the storytelling prompt and returns the model's prose
// verbatim. Gateway failures degrade to a stock message rather than an error
// so a story record can always be produced.
type Synthesizer struct {
	client ports.LLMClient
	logger *internal.Logger
}

func NewSynthesizer(client ports.LLMClient, logger *internal.Logger) *Synthesizer {
	return &Synthesizer{client: client, logger: logger}
}

// Synthesize renders the insights and context metadata as structured prompt
// input and requests a five-part narrative.
func (s *Synthesizer) Synthesize(ctx context.Context, insights []insight.Insight, meta map[string]interface{}) string {
	if s.client == nil {
		s.logger.Warn("[Narrative] llm gateway not configured")
		return failedNarrative
	}

	metaJSON, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		metaJSON = []byte("{}")
	}
	insightsJSON, err := json.MarshalIndent(insights, "", "  ")
	if err != nil {
		s.logger.Error("[Narrative] marshal insights: %v", err)
		return failedNarrative
	}

	prompt := fmt.Sprintf(`You are an expert data storyteller. Create a compelling narrative based on these data insights:

Data Context: %s

Insights:
%s

Create a professional narrative that:
1. Starts with an executive summary
2. Presents key findings in logical order
3. Explains the significance of each finding
4. Provides actionable recommendations
5. Concludes with next steps

Write in clear, business-friendly language.`, metaJSON, insightsJSON)

	content, err := s.client.Analyze(ctx, prompt)
	if err != nil {
		s.logger.Warn("[Narrative] generation failed: %v", err)
		return failedNarrative
	}
	return strings.TrimSpace(content)
}
