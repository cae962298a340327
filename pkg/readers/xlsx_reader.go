package readers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/xuri/excelize/v2"
)

// ErrEmptySheet is returned for a workbook whose first sheet has no header row.
var ErrEmptySheet = errors.New("empty sheet")

// XLSXReader reads the first sheet of an Excel workbook. The first row
// holds the column names. Column types are inferred over the whole sheet:
// int64 when every value is an integer, float64 when every value is a
// number, bool when every value is true, false, 1 or 0, string otherwise.
// Empty cells are null.
type XLSXReader struct {
	schema    *arrow.Schema
	rows      [][]string
	pos       int
	batchSize int
	alloc     memory.Allocator
}

// NewXLSXReader opens the workbook and loads its first sheet.
func NewXLSXReader(config Config) (DatasetReader, error) {
	if config.Path == "" {
		return nil, errors.New("path is required for XLSX reader")
	}

	f, err := excelize.OpenFile(config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySheet
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	rows = trimEmptyRows(rows)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptySheet, sheets[0])
	}

	header := rows[0]
	body := rows[1:]
	fields := make([]arrow.Field, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		fields[i] = arrow.Field{Name: name, Type: inferCellType(body, i), Nullable: true}
	}

	return &XLSXReader{
		schema:    arrow.NewSchema(fields, nil),
		rows:      body,
		batchSize: int(config.batchSize()),
		alloc:     memory.NewGoAllocator(),
	}, nil
}

// trimEmptyRows drops rows without any non-blank cell from the end.
func trimEmptyRows(rows [][]string) [][]string {
	for len(rows) > 0 {
		last := rows[len(rows)-1]
		if strings.TrimSpace(strings.Join(last, "")) != "" {
			break
		}
		rows = rows[:len(rows)-1]
	}
	return rows
}

func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func inferCellType(rows [][]string, col int) arrow.DataType {
	isInt, isFloat, isBool, seen := true, true, true, false
	for _, row := range rows {
		v := cell(row, col)
		if v == "" {
			continue
		}
		seen = true
		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			isInt = false
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			isFloat = false
		}
		switch strings.ToLower(v) {
		case "true", "false", "1", "0":
		default:
			isBool = false
		}
	}
	switch {
	case !seen:
		return arrow.BinaryTypes.String
	case isInt:
		return arrow.PrimitiveTypes.Int64
	case isFloat:
		return arrow.PrimitiveTypes.Float64
	case isBool:
		return arrow.FixedWidthTypes.Boolean
	}
	return arrow.BinaryTypes.String
}

// Read returns the next batch of rows.
func (r *XLSXReader) Read(ctx context.Context) (arrow.Record, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	if r.pos >= len(r.rows) {
		return nil, io.EOF
	}

	end := min(r.pos+r.batchSize, len(r.rows))
	batch := r.rows[r.pos:end]
	r.pos = end

	b := array.NewRecordBuilder(r.alloc, r.schema)
	defer b.Release()
	for col, field := range r.schema.Fields() {
		fb := b.Field(col)
		for _, row := range batch {
			v := cell(row, col)
			if v == "" {
				fb.AppendNull()
				continue
			}
			// types were inferred from these values, so parsing cannot fail
			switch field.Type.ID() {
			case arrow.INT64:
				n, _ := strconv.ParseInt(v, 10, 64)
				fb.(*array.Int64Builder).Append(n)
			case arrow.FLOAT64:
				n, _ := strconv.ParseFloat(v, 64)
				fb.(*array.Float64Builder).Append(n)
			case arrow.BOOL:
				fb.(*array.BooleanBuilder).Append(v == "1" || strings.EqualFold(v, "true"))
			default:
				fb.(*array.StringBuilder).Append(v)
			}
		}
	}
	return b.NewRecord(), nil
}

// Schema returns the inferred schema.
func (r *XLSXReader) Schema() *arrow.Schema {
	return r.schema
}

// Close releases the loaded rows.
func (r *XLSXReader) Close() error {
	r.rows = nil
	return nil
}
