package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"phoenix/domain/frame"
	apperrors "phoenix/internal/errors"
)

// CSVConnector reads comma- or tab-separated files. The separator is sniffed
// from the first line: a tab majority wins over commas.
type CSVConnector struct{}

func NewCSVConnector() *CSVConnector { return &CSVConnector{} }

func (c *CSVConnector) Type() string { return "csv" }

func (c *CSVConnector) Connect(ctx context.Context, config Config) (*frame.Frame, error) {
	content := config.Content
	if content == nil && config.Path != "" {
		raw, err := os.ReadFile(config.Path)
		if err != nil {
			return nil, fmt.Errorf("read csv file: %w", err)
		}
		content = raw
	}
	if content == nil {
		return nil, apperrors.InvalidInput("csv source requires file content or a file path")
	}

	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = detectSeparator(content)
	reader.FieldsPerRecord = -1 // ragged rows are padded at frame construction
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) < 2 {
		return nil, apperrors.InvalidInput("csv source must have a header row and at least one data row")
	}

	return frame.FromRecords(records[0], records[1:])
}

// detectSeparator sniffs the delimiter from the first line
func detectSeparator(content []byte) rune {
	firstLine := string(content)
	if idx := strings.IndexByte(firstLine, '\n'); idx >= 0 {
		firstLine = firstLine[:idx]
	}
	if strings.Count(firstLine, "\t") > strings.Count(firstLine, ",") {
		return '\t'
	}
	return ','
}
