package analysis

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"phoenix/domain/frame"
	"phoenix/domain/insight"
)

// strongCorrelation is the absolute Pearson threshold for reporting a pair
const strongCorrelation = 0.7

// CorrelationGenerator reports column pairs whose absolute Pearson
// correlation exceeds the strong threshold. Pairs are enumerated in frame
// column order, so the report order follows the dataset, not the strength.
type CorrelationGenerator struct{}

func NewCorrelationGenerator() *CorrelationGenerator { return &CorrelationGenerator{} }

func (g *CorrelationGenerator) Kind() insight.Type { return insight.TypeCorrelation }

func (g *CorrelationGenerator) Generate(ctx context.Context, f *frame.Frame) (insight.Finding, error) {
	numeric := f.NumericColumns()
	if len(numeric) < 2 {
		return nil, nil
	}

	var strong []insight.CorrelationPair
	for i := 0; i < len(numeric); i++ {
		for j := i + 1; j < len(numeric); j++ {
			xs, ys := f.PairedValues(numeric[i], numeric[j])
			if len(xs) < 2 {
				continue
			}
			r := stat.Correlation(xs, ys, nil)
			if math.IsNaN(r) || math.Abs(r) <= strongCorrelation {
				continue
			}
			strong = append(strong, insight.CorrelationPair{
				Variables:   [2]string{numeric[i], numeric[j]},
				Correlation: r,
				Strength:    "strong",
			})
		}
	}

	if len(strong) == 0 {
		return nil, nil
	}
	return &insight.CorrelationFinding{
		StrongCorrelations: strong,
		Message:            fmt.Sprintf("Found %d strong correlations between variables", len(strong)),
	}, nil
}
