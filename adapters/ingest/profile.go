package ingest

import (
	"fmt"

	"phoenix/domain/frame"
	"phoenix/internal/jsonutil"
)

const previewRows = 10

// BuildPreview summarizes the frame for the UI: shape, column names and
// types, a small sample and per-column missing counts.
func BuildPreview(f *frame.Frame) map[string]interface{} {
	missing := make(map[string]interface{}, f.ColumnCount())
	for _, name := range f.ColumnNames() {
		missing[name] = f.MissingCount(name)
	}

	return jsonutil.NormalizeMap(map[string]interface{}{
		"row_count":      f.RowCount(),
		"column_count":   f.ColumnCount(),
		"columns":        f.ColumnNames(),
		"sample_data":    f.Records(previewRows),
		"dtypes":         f.DTypes(),
		"missing_values": missing,
	})
}

// BuildProfile is the first-contact analysis captured at connection time. It
// is fully deterministic so a source can be profiled before any LLM
// credential is configured.
func BuildProfile(f *frame.Frame) map[string]interface{} {
	missing := make(map[string]interface{}, f.ColumnCount())
	for _, name := range f.ColumnNames() {
		missing[name] = f.MissingCount(name)
	}

	return jsonutil.NormalizeMap(map[string]interface{}{
		"structure_assessment": map[string]interface{}{
			"row_count":    f.RowCount(),
			"column_count": f.ColumnCount(),
			"columns":      f.ColumnNames(),
			"data_types":   f.DTypes(),
		},
		"quality_issues": map[string]interface{}{
			"missing_values": missing,
			"duplicate_rows": f.DuplicateRowCount(),
		},
		"cleansing_recommendations": []string{
			"Check for consistent data formats across columns",
			"Validate numerical ranges where applicable",
			"Standardize categorical values if needed",
		},
		"initial_insights": []string{
			fmt.Sprintf("Dataset contains %d records with %d features", f.RowCount(), f.ColumnCount()),
			"Perform exploratory analysis to understand distributions and relationships",
		},
		"analysis_suggestions": []string{
			"Statistical summary of numerical columns",
			"Frequency analysis of categorical columns",
			"Correlation analysis between variables",
			"Time series analysis if date columns are present",
		},
	})
}
