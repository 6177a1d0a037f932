// Package analysis runs the insight pipeline: a fixed roster of heterogeneous
// generators fans out over the dataset, each one isolated so a slow or broken
// analyzer never takes the others down, and the surviving findings are
// normalized, scored and ranked into a single insight list.
package analysis

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"phoenix/domain/frame"
	"phoenix/domain/insight"
	"phoenix/internal"
	"phoenix/internal/jsonutil"
	"phoenix/ports"
)

// generatorResult is the outcome of one generator run, failures included
type generatorResult struct {
	kind    insight.Type
	finding insight.Finding
	err     error
}

// Aggregator owns the generator roster and the scoring policy
type Aggregator struct {
	generators []ports.InsightGenerator
	logger     *internal.Logger
}

// NewAggregator assembles the standard roster in dispatch order. The LLM
// client may be nil; the statistical generator then fails in isolation and
// the deterministic generators still report.
func NewAggregator(client ports.LLMClient, logger *internal.Logger) *Aggregator {
	return &Aggregator{
		generators: []ports.InsightGenerator{
			NewStatisticalGenerator(client),
			NewClusteringGenerator(),
			NewAnomalyGenerator(),
			NewSeasonalityGenerator(),
			NewCorrelationGenerator(),
		},
		logger: logger,
	}
}

// NewAggregatorWith builds an aggregator over an explicit roster, preserving
// the given order for ranking tie-breaks.
func NewAggregatorWith(logger *internal.Logger, generators ...ports.InsightGenerator) *Aggregator {
	return &Aggregator{generators: generators, logger: logger}
}

// Analyze runs every generator concurrently and returns the scored insights,
// ranked by confidence then actionability. A generator failure is logged and
// skipped; the call itself never fails.
func (a *Aggregator) Analyze(ctx context.Context, f *frame.Frame) []insight.Insight {
	results := a.runGenerators(ctx, f)

	insights := make([]insight.Insight, 0, len(results))
	for _, res := range results {
		if res.err != nil {
			a.logger.Warn("[Aggregator] %s generator failed: %v", res.kind, res.err)
			continue
		}
		if res.finding == nil {
			continue
		}

		payload := jsonutil.NormalizeMap(res.finding.Payload())
		if len(payload) == 0 {
			continue
		}

		insights = append(insights, insight.Insight{
			Type:       res.kind,
			Payload:    payload,
			Confidence: confidenceFor(payload),
			Actionable: isActionable(payload),
		})
	}

	// Stable sort keeps dispatch order among full ties
	sort.SliceStable(insights, func(i, j int) bool {
		if insights[i].Confidence != insights[j].Confidence {
			return insights[i].Confidence > insights[j].Confidence
		}
		return insights[i].Actionable && !insights[j].Actionable
	})

	return insights
}

// runGenerators fans out one goroutine per generator and collects results by
// roster index. A panicking generator is converted into a failed result.
func (a *Aggregator) runGenerators(ctx context.Context, f *frame.Frame) []generatorResult {
	results := make([]generatorResult, len(a.generators))

	var group errgroup.Group
	for i, gen := range a.generators {
		results[i].kind = gen.Kind()
		group.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					results[i].err = fmt.Errorf("generator panic: %v", r)
				}
			}()
			results[i].finding, results[i].err = gen.Generate(ctx, f)
			return nil
		})
	}
	group.Wait()

	return results
}
