package writers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/xuri/excelize/v2"

	"github.com/TFMV/partskeeper/utils"
)

// XLSXWriter writes records to the first sheet of an Excel workbook, with
// a header row of field names. Timestamps are written as RFC 3339 text and
// nulls as empty cells. The workbook is saved on Close.
type XLSXWriter struct {
	path   string
	file   *excelize.File
	stream *excelize.StreamWriter
	row    int
}

// NewXLSXWriter creates a new XLSX writer.
func NewXLSXWriter(config Config) (DatasetWriter, error) {
	if config.Path == "" {
		return nil, errors.New("path is required for XLSX writer")
	}

	file := excelize.NewFile()
	stream, err := file.NewStreamWriter(file.GetSheetName(0))
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create XLSX stream writer: %w", err)
	}
	return &XLSXWriter{path: config.Path, file: file, stream: stream}, nil
}

func (w *XLSXWriter) setRow(values []any) error {
	w.row++
	axis, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	return w.stream.SetRow(axis, values)
}

// Write appends the rows of record to the sheet.
func (w *XLSXWriter) Write(ctx context.Context, record arrow.Record) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if w.row == 0 {
		header := make([]any, record.NumCols())
		for i, f := range record.Schema().Fields() {
			header[i] = f.Name
		}
		if err := w.setRow(header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i := 0; i < int(record.NumRows()); i++ {
		values := make([]any, record.NumCols())
		for c, col := range record.Columns() {
			switch v := utils.ValueAt(col, i).(type) {
			case time.Time:
				values[c] = v.UTC().Format(time.RFC3339Nano)
			case map[string]any, []any:
				values[c] = fmt.Sprint(v)
			default:
				values[c] = v
			}
		}
		if err := w.setRow(values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", w.row, err)
		}
	}
	return nil
}

// Close flushes the sheet and saves the workbook.
func (w *XLSXWriter) Close() error {
	err := w.stream.Flush()
	if err == nil {
		err = w.file.SaveAs(w.path)
	}
	if closeErr := w.file.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
