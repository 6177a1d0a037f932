package ingest

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"phoenix/domain/frame"
	apperrors "phoenix/internal/errors"
)

// ExcelConnector reads the first sheet of an xlsx workbook
type ExcelConnector struct{}

func NewExcelConnector() *ExcelConnector { return &ExcelConnector{} }

func (c *ExcelConnector) Type() string { return "excel" }

func (c *ExcelConnector) Connect(ctx context.Context, config Config) (*frame.Frame, error) {
	var (
		f   *excelize.File
		err error
	)
	switch {
	case config.Content != nil:
		f, err = excelize.OpenReader(bytes.NewReader(config.Content))
	case config.Path != "":
		f, err = excelize.OpenFile(config.Path)
	default:
		return nil, apperrors.InvalidInput("excel source requires file content or a file path")
	}
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, apperrors.InvalidInput("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, apperrors.InvalidInput("excel source must have a header row and at least one data row")
	}

	return frame.FromRecords(rows[0], rows[1:])
}
