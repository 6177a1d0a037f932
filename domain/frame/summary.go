package frame

import (
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"
)

// ColumnSummary holds descriptive statistics for one numeric column
type ColumnSummary struct {
	Name   string  `json:"name"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// Mean computes the mean of a numeric column's non-missing values
func (f *Frame) Mean(name string) (float64, error) {
	values, ok := f.NumericValues(name)
	if !ok {
		return 0, fmt.Errorf("column %q is not numeric", name)
	}
	if len(values) == 0 {
		return 0, fmt.Errorf("column %q has no values", name)
	}
	return stats.Mean(values)
}

// Describe computes descriptive statistics for every numeric column
func (f *Frame) Describe() []ColumnSummary {
	var summaries []ColumnSummary
	for _, name := range f.NumericColumns() {
		values, _ := f.NumericValues(name)
		if len(values) == 0 {
			summaries = append(summaries, ColumnSummary{Name: name})
			continue
		}

		mean, _ := stats.Mean(values)
		stdDev, _ := stats.StandardDeviation(values)
		min, _ := stats.Min(values)
		max, _ := stats.Max(values)
		median, _ := stats.Median(values)
		q25, _ := stats.Percentile(values, 25)
		q75, _ := stats.Percentile(values, 75)

		summaries = append(summaries, ColumnSummary{
			Name:   name,
			Count:  len(values),
			Mean:   mean,
			StdDev: stdDev,
			Min:    min,
			Q25:    q25,
			Median: median,
			Q75:    q75,
			Max:    max,
		})
	}
	return summaries
}

// DescribeString renders the descriptive statistics as an aligned text table,
// one statistic per row, one numeric column per... column. Used as prompt
// input, so the layout favors readability over machine parsing.
func (f *Frame) DescribeString() string {
	summaries := f.Describe()
	if len(summaries) == 0 {
		return "(no numeric columns)"
	}

	rows := []struct {
		label string
		pick  func(ColumnSummary) string
	}{
		{"count", func(s ColumnSummary) string { return fmt.Sprintf("%d", s.Count) }},
		{"mean", func(s ColumnSummary) string { return fmt.Sprintf("%.4f", s.Mean) }},
		{"std", func(s ColumnSummary) string { return fmt.Sprintf("%.4f", s.StdDev) }},
		{"min", func(s ColumnSummary) string { return fmt.Sprintf("%.4f", s.Min) }},
		{"25%", func(s ColumnSummary) string { return fmt.Sprintf("%.4f", s.Q25) }},
		{"50%", func(s ColumnSummary) string { return fmt.Sprintf("%.4f", s.Median) }},
		{"75%", func(s ColumnSummary) string { return fmt.Sprintf("%.4f", s.Q75) }},
		{"max", func(s ColumnSummary) string { return fmt.Sprintf("%.4f", s.Max) }},
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-8s", ""))
	for _, s := range summaries {
		b.WriteString(fmt.Sprintf("%16s", s.Name))
	}
	b.WriteByte('\n')

	for _, row := range rows {
		b.WriteString(fmt.Sprintf("%-8s", row.label))
		for _, s := range summaries {
			b.WriteString(fmt.Sprintf("%16s", row.pick(s)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Head renders the first n rows as an aligned text table, used as the bounded
// data sample handed to the generative answer tier.
func (f *Frame) Head(n int) string {
	if n > f.rows {
		n = f.rows
	}

	widths := make([]int, len(f.columns))
	for i, col := range f.columns {
		widths[i] = len(col.Name)
		for r := 0; r < n; r++ {
			if len(col.cells[r]) > widths[i] {
				widths[i] = len(col.cells[r])
			}
		}
	}

	var b strings.Builder
	for i, col := range f.columns {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(fmt.Sprintf("%-*s", widths[i], col.Name))
	}
	b.WriteByte('\n')

	for r := 0; r < n; r++ {
		for i, col := range f.columns {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(fmt.Sprintf("%-*s", widths[i], col.cells[r]))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
