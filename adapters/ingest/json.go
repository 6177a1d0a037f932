package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"phoenix/domain/frame"
	apperrors "phoenix/internal/errors"
)

// JSONConnector reads an array of flat JSON records. Column order follows
// first appearance across the records; missing keys become missing cells.
type JSONConnector struct{}

func NewJSONConnector() *JSONConnector { return &JSONConnector{} }

func (c *JSONConnector) Type() string { return "json" }

func (c *JSONConnector) Connect(ctx context.Context, config Config) (*frame.Frame, error) {
	content := config.Content
	if content == nil {
		content = config.Data
	}
	if content == nil {
		return nil, apperrors.InvalidInput("json source requires file content or inline data")
	}
	return FrameFromJSONRecords(content)
}

// FrameFromJSONRecords converts a JSON array of objects into a frame
func FrameFromJSONRecords(content []byte) (*frame.Frame, error) {
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()

	var records []map[string]interface{}
	if err := dec.Decode(&records); err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("json source must be an array of objects: %v", err))
	}
	if len(records) == 0 {
		return nil, apperrors.InvalidInput("json source has no records")
	}

	var headers []string
	seen := make(map[string]struct{})
	for _, record := range records {
		for key := range record {
			if _, ok := seen[key]; !ok {
				seen[key] = struct{}{}
				headers = append(headers, key)
			}
		}
	}
	sortStableByFirstAppearance(headers, records)

	rows := make([][]string, len(records))
	for i, record := range records {
		row := make([]string, len(headers))
		for j, key := range headers {
			row[j] = cellText(record[key])
		}
		rows[i] = row
	}

	return frame.FromRecords(headers, rows)
}

// sortStableByFirstAppearance fixes header order to the record each key first
// appears in, alphabetical within a record. Go map iteration is randomized,
// so without this pass the column order would vary run to run.
func sortStableByFirstAppearance(headers []string, records []map[string]interface{}) {
	rank := make(map[string]int, len(headers))
	next := 0
	for _, record := range records {
		var fresh []string
		for key := range record {
			if _, ok := rank[key]; !ok {
				fresh = append(fresh, key)
			}
		}
		sort.Strings(fresh)
		for _, key := range fresh {
			rank[key] = next
			next++
		}
	}

	sort.SliceStable(headers, func(i, j int) bool {
		return rank[headers[i]] < rank[headers[j]]
	})
}

// cellText renders one JSON value as a frame cell
func cellText(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		if x {
			return "true"
		}
		return "false"
	default:
		raw, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(raw)
	}
}
