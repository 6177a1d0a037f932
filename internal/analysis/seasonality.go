package analysis

import (
	"context"

	"phoenix/domain/frame"
	"phoenix/domain/insight"
)

// SeasonalityGenerator advises when the dataset carries a time axis worth
// decomposing. It does not run the decomposition itself; it only triggers on
// the presence of datetime and numeric columns together.
type SeasonalityGenerator struct{}

func NewSeasonalityGenerator() *SeasonalityGenerator { return &SeasonalityGenerator{} }

func (g *SeasonalityGenerator) Kind() insight.Type { return insight.TypeSeasonality }

func (g *SeasonalityGenerator) Generate(ctx context.Context, f *frame.Frame) (insight.Finding, error) {
	if len(f.DatetimeColumns()) == 0 || len(f.NumericColumns()) == 0 {
		return nil, nil
	}
	return &insight.SeasonalityFinding{
		Message: "Time series data detected. Consider running time series analysis for seasonality patterns.",
	}, nil
}
