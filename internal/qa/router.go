// Package qa answers natural-language questions about a dataset through
// two tiers: a deterministic pattern-matcher over known statistical question
// shapes, then a generative fallback through the LLM gateway.
package qa

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"phoenix/domain/frame"
	"phoenix/domain/insight"
	"phoenix/internal"
	"phoenix/ports"
)

// sampleRows bounds the data excerpt handed to the generative tier
const sampleRows = 50

const fallbackAnswer = "Unable to answer question"

// Router resolves questions tier by tier. The deterministic tier never
// touches the gateway; the generative tier degrades to a stock answer when
// the gateway fails rather than surfacing the fault.
type Router struct {
	client ports.LLMClient
	logger *internal.Logger
}

func NewRouter(client ports.LLMClient, logger *internal.Logger) *Router {
	return &Router{client: client, logger: logger}
}

// Answer resolves one question against the dataset. Context metadata is
// advisory and only reaches the generative tier.
func (r *Router) Answer(ctx context.Context, question string, f *frame.Frame, meta map[string]interface{}) insight.Answer {
	if answer, ok := r.answerWithStatistics(question, f); ok {
		return answer
	}
	return r.answerWithModel(ctx, question, f, meta)
}

// answerWithStatistics pattern-matches the known question shapes. No match
// is a pass-through, not a failure.
func (r *Router) answerWithStatistics(question string, f *frame.Frame) (insight.Answer, bool) {
	lower := strings.ToLower(question)

	if strings.Contains(lower, "average") && strings.Contains(lower, "of") {
		if column, ok := columnAfterOf(lower, f); ok {
			mean, err := f.Mean(column)
			if err == nil {
				return insight.Answer{
					Answer:     fmt.Sprintf("The average %s is %.2f", column, mean),
					Source:     insight.SourceStatistical,
					Confidence: 0.9,
				}, true
			}
		}
		return insight.Answer{}, false
	}

	if strings.Contains(lower, "count") || strings.Contains(lower, "how many") {
		if strings.Contains(lower, "rows") || strings.Contains(lower, "records") {
			return insight.Answer{
				Answer:     fmt.Sprintf("There are %d records in the dataset", f.RowCount()),
				Source:     insight.SourceStatistical,
				Confidence: 0.95,
			}, true
		}
	}

	return insight.Answer{}, false
}

// columnAfterOf extracts the token immediately following "of" and resolves
// it to a column name, tolerating trailing punctuation and case differences.
func columnAfterOf(lower string, f *frame.Frame) (string, bool) {
	_, after, found := strings.Cut(lower, "of")
	if !found {
		return "", false
	}
	fields := strings.Fields(after)
	if len(fields) == 0 {
		return "", false
	}
	token := strings.Trim(fields[0], "?.,!\"'")
	if token == "" {
		return "", false
	}

	if f.HasColumn(token) {
		return token, true
	}
	for _, name := range f.ColumnNames() {
		if strings.ToLower(name) == token {
			return name, true
		}
	}
	return "", false
}

// answerWithModel is the generative tier: question plus a bounded sample and
// the context metadata, answered by the gateway at fixed confidence.
func (r *Router) answerWithModel(ctx context.Context, question string, f *frame.Frame, meta map[string]interface{}) insight.Answer {
	answer := insight.Answer{
		Answer:     fallbackAnswer,
		Source:     insight.SourceAI,
		Confidence: 0.7,
	}

	if r.client == nil {
		r.logger.Warn("[QA] generative tier unavailable: llm gateway not configured")
		return answer
	}

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		metaJSON = []byte("{}")
	}

	prompt := fmt.Sprintf(`Answer this question about the dataset:
Question: %s

Data sample:
%s

Context: %s

Provide a comprehensive answer with:
1. Direct answer to the question
2. Supporting evidence from the data
3. Any limitations or assumptions
4. Suggested next steps for deeper analysis`, question, f.Head(sampleRows), metaJSON)

	content, err := r.client.Analyze(ctx, prompt)
	if err != nil {
		r.logger.Warn("[QA] generative tier failed: %v", err)
		return answer
	}

	answer.Answer = strings.TrimSpace(content)
	return answer
}
