package ports

import (
	"context"

	"phoenix/domain/frame"
	"phoenix/domain/insight"
)

// InsightGenerator is one analyzer unit in the insight pipeline. A nil
// finding with a nil error means the generator has nothing to report for this
// dataset; that is a normal outcome, not a fault. An ineligible input shape
// (e.g. too few numeric columns) must produce (nil, nil), never an error.
type InsightGenerator interface {
	Kind() insight.Type
	Generate(ctx context.Context, f *frame.Frame) (insight.Finding, error)
}
