// Package writers exports table rows to CSV, JSON lines, Arrow IPC,
// Parquet and Excel files.
package writers

import (
	"context"
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.uber.org/zap"

	"github.com/TFMV/partskeeper/logger"
	"github.com/TFMV/partskeeper/pkg/compare"
	"github.com/TFMV/partskeeper/pkg/core"
	"github.com/TFMV/partskeeper/utils"
)

// DatasetWriter writes Arrow records to a file. The schema is taken from
// the first record.
type DatasetWriter interface {
	// Write writes a record.
	Write(ctx context.Context, record arrow.Record) error

	// Close flushes pending data and closes the file.
	Close() error
}

// Config configures a writer.
type Config struct {
	// Type is "csv", "jsonl", "arrow", "parquet" or "xlsx".
	Type string
	// Path is the file to create.
	Path string
	// Compression applies to Parquet: snappy (default), zstd, gzip or none.
	Compression string
}

// Copy writes every record of rr to w and returns the number of rows.
func Copy(ctx context.Context, w DatasetWriter, rr array.RecordReader) (int64, error) {
	var rows int64
	for rr.Next() {
		rec := rr.Record()
		if err := w.Write(ctx, rec); err != nil {
			return rows, err
		}
		rows += rec.NumRows()
	}
	return rows, rr.Err()
}

// Export writes items as one record, one field per column, to the file
// described by config. Columns with a field export the raw value; columns
// that only render export the rendered text.
func Export[T any](ctx context.Context, config Config, columns []core.Column[T], items []T) error {
	w, err := DefaultFactory.Create(config)
	if err != nil {
		return err
	}

	rec := BuildRecord(memory.NewGoAllocator(), columns, items)
	defer rec.Release()

	rr := utils.NewSingleRecordReader(rec)
	defer rr.Release()

	rows, err := Copy(ctx, w, rr)
	if closeErr := w.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to export %s: %w", config.Path, err)
	}

	logger.GetLogger().Info("Exported rows",
		zap.String("path", config.Path),
		zap.String("format", config.Type),
		zap.Int64("rows", rows))
	return nil
}

// BuildRecord builds an Arrow record from items. Field types are inferred
// from the values: integers, floats, times and booleans keep their type
// and anything else, or a column of mixed kinds, becomes a string.
func BuildRecord[T any](mem memory.Allocator, columns []core.Column[T], items []T) arrow.Record {
	fields := make([]arrow.Field, len(columns))
	values := make([][]any, len(columns))
	for c := range columns {
		col := &columns[c]
		vals := make([]any, len(items))
		for i, item := range items {
			vals[i] = cellValue(col, item, i)
		}
		values[c] = vals
		fields[c] = arrow.Field{Name: col.Key, Type: inferType(vals), Nullable: true}
	}

	schema := arrow.NewSchema(fields, nil)
	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	for c, vals := range values {
		appendValues(b.Field(c), vals)
	}
	return b.NewRecord()
}

func cellValue[T any](col *core.Column[T], item T, index int) any {
	if col.Field == "" {
		if col.Render == nil {
			return nil
		}
		return col.Render(item, index)
	}
	v := compare.Indirect(compare.FieldValue(item, col.Field))
	if t, ok := v.(time.Time); ok && t.IsZero() {
		return nil
	}
	return v
}

func inferType(values []any) arrow.DataType {
	var ints, floats, times, bools, other bool
	for _, v := range values {
		switch v.(type) {
		case nil:
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			ints = true
		case float32, float64:
			floats = true
		case time.Time:
			times = true
		case bool:
			bools = true
		default:
			other = true
		}
	}
	numeric := ints || floats
	switch {
	case other, numeric && (times || bools), times && bools:
		return arrow.BinaryTypes.String
	case floats:
		return arrow.PrimitiveTypes.Float64
	case ints:
		return arrow.PrimitiveTypes.Int64
	case times:
		return arrow.FixedWidthTypes.Timestamp_ms
	case bools:
		return arrow.FixedWidthTypes.Boolean
	}
	return arrow.BinaryTypes.String
}

func appendValues(b array.Builder, values []any) {
	for _, v := range values {
		if v == nil {
			b.AppendNull()
			continue
		}
		switch fb := b.(type) {
		case *array.Int64Builder:
			fb.Append(int64(compare.ToNumber(v)))
		case *array.Float64Builder:
			fb.Append(compare.ToNumber(v))
		case *array.TimestampBuilder:
			fb.Append(arrow.Timestamp(v.(time.Time).UnixMilli()))
		case *array.BooleanBuilder:
			fb.Append(v.(bool))
		case *array.StringBuilder:
			fb.Append(compare.ToString(v))
		}
	}
}
