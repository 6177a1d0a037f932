package frame

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ColumnType is the inferred semantic type of a column
type ColumnType string

const (
	TypeNumeric     ColumnType = "numeric"
	TypeCategorical ColumnType = "categorical"
	TypeDatetime    ColumnType = "datetime"
	TypeBoolean     ColumnType = "boolean"
	TypeText        ColumnType = "text"
)

// Column holds one named column with its raw cells and parsed views.
// Empty string cells are treated as missing values.
type Column struct {
	Name string
	Type ColumnType

	cells  []string
	floats []float64   // parsed values, NaN where missing/unparseable (numeric columns)
	times  []time.Time // parsed values, zero where missing (datetime columns)
}

// Frame is an in-memory tabular dataset. It is constructed once per analysis
// request and read-only for the duration of the pipeline, so no locking is
// required.
type Frame struct {
	columns []Column
	byName  map[string]int
	rows    int
}

// dateLayouts are the accepted datetime formats, matched against the same
// shapes the ingestion type sniffer recognizes.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"01-02-2006",
	"January 2, 2006",
	"2 January 2006",
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}([T ]\d{2}:\d{2}:\d{2}.*)?$`),
	regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`),
	regexp.MustCompile(`^\d{1,2}-\d{1,2}-\d{4}$`),
	regexp.MustCompile(`^\d{4}/\d{2}/\d{2}$`),
	regexp.MustCompile(`^[A-Za-z]{3,9} \d{1,2}, \d{4}$`),
	regexp.MustCompile(`^\d{1,2} [A-Za-z]{3,9} \d{4}$`),
}

// FromRecords builds a frame from header names and string rows, inferring a
// column type for each header. Short rows are padded with missing cells so the
// frame is always rectangular.
func FromRecords(headers []string, rows [][]string) (*Frame, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("frame requires at least one column")
	}

	columns := make([]Column, len(headers))
	for j, name := range headers {
		cells := make([]string, len(rows))
		for i, row := range rows {
			if j < len(row) {
				cells[i] = strings.TrimSpace(row[j])
			}
		}
		columns[j] = buildColumn(name, cells)
	}

	return New(columns)
}

// New assembles a frame from prepared columns, enforcing the rectangular
// invariant.
func New(columns []Column) (*Frame, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("frame requires at least one column")
	}

	rows := len(columns[0].cells)
	byName := make(map[string]int, len(columns))
	for i, col := range columns {
		if len(col.cells) != rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", col.Name, len(col.cells), rows)
		}
		if _, exists := byName[col.Name]; exists {
			return nil, fmt.Errorf("duplicate column name %q", col.Name)
		}
		byName[col.Name] = i
	}

	return &Frame{columns: columns, byName: byName, rows: rows}, nil
}

// buildColumn infers the column type and parses the typed views
func buildColumn(name string, cells []string) Column {
	col := Column{Name: name, cells: cells}
	col.Type = inferType(cells)

	switch col.Type {
	case TypeNumeric:
		col.floats = make([]float64, len(cells))
		for i, cell := range cells {
			v, err := strconv.ParseFloat(cell, 64)
			if cell == "" || err != nil {
				col.floats[i] = math.NaN()
				continue
			}
			col.floats[i] = v
		}
	case TypeDatetime:
		col.times = make([]time.Time, len(cells))
		for i, cell := range cells {
			if cell == "" {
				continue
			}
			for _, layout := range dateLayouts {
				if t, err := time.Parse(layout, cell); err == nil {
					col.times[i] = t
					break
				}
			}
		}
	}

	return col
}

// inferType samples up to 100 non-missing cells and classifies the column.
// Mirrors the CSV sniffer used at ingestion: booleans, dates and numbers are
// recognized explicitly; everything else is text, downgraded to categorical
// when the value set is small.
func inferType(cells []string) ColumnType {
	sample := cells
	if len(sample) > 100 {
		sample = sample[:100]
	}

	var total, booleans, numbers, dates int
	uniques := make(map[string]struct{})

	for _, cell := range sample {
		if cell == "" {
			continue
		}
		total++
		uniques[cell] = struct{}{}

		lower := strings.ToLower(cell)
		if lower == "true" || lower == "false" || lower == "yes" || lower == "no" || lower == "y" || lower == "n" {
			booleans++
		}
		if _, err := strconv.ParseFloat(cell, 64); err == nil {
			numbers++
		}
		if isLikelyDate(cell) {
			dates++
		}
	}

	if total == 0 {
		return TypeText
	}
	if booleans == total {
		return TypeBoolean
	}
	if dates == total {
		return TypeDatetime
	}
	if numbers == total {
		return TypeNumeric
	}
	// Low-cardinality text reads as categorical
	if len(uniques)*5 <= total || len(uniques) <= 10 && total > 20 {
		return TypeCategorical
	}
	return TypeText
}

// isLikelyDate checks if a string value looks like a date
func isLikelyDate(value string) bool {
	for _, pattern := range datePatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}

// RowCount returns the number of rows
func (f *Frame) RowCount() int {
	return f.rows
}

// ColumnCount returns the number of columns
func (f *Frame) ColumnCount() int {
	return len(f.columns)
}

// ColumnNames returns column names in frame order
func (f *Frame) ColumnNames() []string {
	names := make([]string, len(f.columns))
	for i, col := range f.columns {
		names[i] = col.Name
	}
	return names
}

// Column looks up a column by name
func (f *Frame) Column(name string) (*Column, bool) {
	idx, ok := f.byName[name]
	if !ok {
		return nil, false
	}
	return &f.columns[idx], true
}

// Columns returns all columns in frame order
func (f *Frame) Columns() []Column {
	return f.columns
}

// HasColumn reports whether the named column exists
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.byName[name]
	return ok
}

// NumericColumns returns the names of numeric columns in frame order.
// Enumeration order matters downstream: correlation pairs are reported in
// column order, not strength order.
func (f *Frame) NumericColumns() []string {
	var names []string
	for _, col := range f.columns {
		if col.Type == TypeNumeric {
			names = append(names, col.Name)
		}
	}
	return names
}

// DatetimeColumns returns the names of datetime columns in frame order
func (f *Frame) DatetimeColumns() []string {
	var names []string
	for _, col := range f.columns {
		if col.Type == TypeDatetime {
			names = append(names, col.Name)
		}
	}
	return names
}

// Floats returns the parsed numeric view of a column (NaN marks missing).
// Returns false for non-numeric columns.
func (f *Frame) Floats(name string) ([]float64, bool) {
	col, ok := f.Column(name)
	if !ok || col.Type != TypeNumeric {
		return nil, false
	}
	return col.floats, true
}

// NumericValues returns the non-missing numeric values of a column
func (f *Frame) NumericValues(name string) ([]float64, bool) {
	all, ok := f.Floats(name)
	if !ok {
		return nil, false
	}
	values := make([]float64, 0, len(all))
	for _, v := range all {
		if !math.IsNaN(v) {
			values = append(values, v)
		}
	}
	return values, true
}

// NumericMatrix returns one row per dataset row across the named numeric
// columns, dropping rows where any value is missing. Row order is preserved.
func (f *Frame) NumericMatrix(names []string) [][]float64 {
	views := make([][]float64, len(names))
	for i, name := range names {
		floats, ok := f.Floats(name)
		if !ok {
			return nil
		}
		views[i] = floats
	}

	matrix := make([][]float64, 0, f.rows)
	for r := 0; r < f.rows; r++ {
		row := make([]float64, len(names))
		complete := true
		for c := range names {
			v := views[c][r]
			if math.IsNaN(v) {
				complete = false
				break
			}
			row[c] = v
		}
		if complete {
			matrix = append(matrix, row)
		}
	}
	return matrix
}

// PairedValues returns the rows where both named columns have values,
// as two aligned slices.
func (f *Frame) PairedValues(nameX, nameY string) ([]float64, []float64) {
	xs, okX := f.Floats(nameX)
	ys, okY := f.Floats(nameY)
	if !okX || !okY {
		return nil, nil
	}

	px := make([]float64, 0, f.rows)
	py := make([]float64, 0, f.rows)
	for i := 0; i < f.rows; i++ {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		px = append(px, xs[i])
		py = append(py, ys[i])
	}
	return px, py
}

// MissingCount returns missing cells per column
func (f *Frame) MissingCount(name string) int {
	col, ok := f.Column(name)
	if !ok {
		return 0
	}
	count := 0
	for _, cell := range col.cells {
		if cell == "" {
			count++
		}
	}
	return count
}

// UniqueCount returns the number of distinct non-missing values in a column
func (f *Frame) UniqueCount(name string) int {
	col, ok := f.Column(name)
	if !ok {
		return 0
	}
	seen := make(map[string]struct{})
	for _, cell := range col.cells {
		if cell != "" {
			seen[cell] = struct{}{}
		}
	}
	return len(seen)
}

// DuplicateRowCount counts rows that are exact duplicates of an earlier row
func (f *Frame) DuplicateRowCount() int {
	seen := make(map[string]struct{}, f.rows)
	duplicates := 0
	for r := 0; r < f.rows; r++ {
		var b strings.Builder
		for c := range f.columns {
			b.WriteString(f.columns[c].cells[r])
			b.WriteByte('\x1f')
		}
		key := b.String()
		if _, ok := seen[key]; ok {
			duplicates++
			continue
		}
		seen[key] = struct{}{}
	}
	return duplicates
}

// Cell returns the raw cell text at (row, column name)
func (f *Frame) Cell(row int, name string) string {
	col, ok := f.Column(name)
	if !ok || row < 0 || row >= f.rows {
		return ""
	}
	return col.cells[row]
}

// Records converts rows to typed maps for previews and persistence.
// Numeric cells become float64, boolean cells bool, everything else stays a
// string; missing cells become nil.
func (f *Frame) Records(limit int) []map[string]interface{} {
	n := f.rows
	if limit > 0 && limit < n {
		n = limit
	}

	records := make([]map[string]interface{}, n)
	for r := 0; r < n; r++ {
		record := make(map[string]interface{}, len(f.columns))
		for _, col := range f.columns {
			cell := col.cells[r]
			if cell == "" {
				record[col.Name] = nil
				continue
			}
			switch col.Type {
			case TypeNumeric:
				record[col.Name] = col.floats[r]
			case TypeBoolean:
				lower := strings.ToLower(cell)
				record[col.Name] = lower == "true" || lower == "yes" || lower == "y"
			default:
				record[col.Name] = cell
			}
		}
		records[r] = record
	}
	return records
}

// DTypes maps column names to their inferred types
func (f *Frame) DTypes() map[string]string {
	dtypes := make(map[string]string, len(f.columns))
	for _, col := range f.columns {
		dtypes[col.Name] = string(col.Type)
	}
	return dtypes
}
