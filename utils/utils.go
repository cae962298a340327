// Package utils holds Arrow helpers shared by the readers and writers.
package utils

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.uber.org/zap"

	"github.com/TFMV/partskeeper/logger"
)

// SingleRecordReader is an array.RecordReader over exactly one record.
// It holds its own reference to the record.
type SingleRecordReader struct {
	record arrow.Record
	done   bool
}

// NewSingleRecordReader creates a new SingleRecordReader.
func NewSingleRecordReader(record arrow.Record) *SingleRecordReader {
	record.Retain()
	return &SingleRecordReader{record: record}
}

// Schema returns the schema of the record.
func (r *SingleRecordReader) Schema() *arrow.Schema {
	return r.record.Schema()
}

// Next reports true exactly once.
func (r *SingleRecordReader) Next() bool {
	if r.done {
		return false
	}
	r.done = true
	return true
}

// Record returns the current record.
func (r *SingleRecordReader) Record() arrow.Record {
	return r.record
}

// Err always returns nil.
func (r *SingleRecordReader) Err() error {
	return nil
}

// Release drops the reader's reference to the record.
func (r *SingleRecordReader) Release() {
	r.record.Release()
}

// Retain increases the reference count of the record.
func (r *SingleRecordReader) Retain() {
	r.record.Retain()
}

// Close is a no-op; use Release to drop the record.
func (r *SingleRecordReader) Close() error {
	return nil
}

// RecordToMaps converts every row of rec into a map keyed by column name.
// Nulls become nil entries so every row carries the same keys.
func RecordToMaps(rec arrow.Record) []map[string]any {
	rows := make([]map[string]any, rec.NumRows())
	for i := range rows {
		rows[i] = make(map[string]any, rec.NumCols())
	}
	for c := 0; c < int(rec.NumCols()); c++ {
		name := rec.ColumnName(c)
		col := rec.Column(c)
		for i := range rows {
			rows[i][name] = ValueAt(col, i)
		}
	}
	return rows
}

// ValueAt returns the Go value of arr at row i. Integers widen to int64,
// floats to float64 and temporal values to time.Time. Structs become
// nested maps and lists become []any. Other types fall back to ValueStr.
func ValueAt(arr arrow.Array, i int) any {
	if arr.IsNull(i) {
		return nil
	}
	switch a := arr.(type) {
	case *array.String:
		return a.Value(i)
	case *array.LargeString:
		return a.Value(i)
	case *array.Boolean:
		return a.Value(i)
	case *array.Int8:
		return int64(a.Value(i))
	case *array.Int16:
		return int64(a.Value(i))
	case *array.Int32:
		return int64(a.Value(i))
	case *array.Int64:
		return a.Value(i)
	case *array.Uint8:
		return int64(a.Value(i))
	case *array.Uint16:
		return int64(a.Value(i))
	case *array.Uint32:
		return int64(a.Value(i))
	case *array.Uint64:
		return a.Value(i)
	case *array.Float32:
		return float64(a.Value(i))
	case *array.Float64:
		return a.Value(i)
	case *array.Date32:
		return a.Value(i).ToTime()
	case *array.Date64:
		return a.Value(i).ToTime()
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return a.Value(i).ToTime(unit)
	case *array.Struct:
		st := a.DataType().(*arrow.StructType)
		m := make(map[string]any, a.NumField())
		for f := 0; f < a.NumField(); f++ {
			m[st.Field(f).Name] = ValueAt(a.Field(f), i)
		}
		return m
	case *array.List:
		start, end := a.ValueOffsets(i)
		values := a.ListValues()
		out := make([]any, 0, end-start)
		for j := start; j < end; j++ {
			out = append(out, ValueAt(values, int(j)))
		}
		return out
	}
	return arr.ValueStr(i)
}

// ConvertNumericFields returns a record in which the named string columns
// are parsed as float64. Unparseable and empty values become null. Other
// columns are shared with rec. The caller releases the returned record.
func ConvertNumericFields(record arrow.Record, names ...string) (arrow.Record, error) {
	if len(names) == 0 {
		record.Retain()
		return record, nil
	}

	log := logger.GetLogger()
	fields := slices.Clone(record.Schema().Fields())
	cols := make([]arrow.Array, record.NumCols())
	var built []arrow.Array
	defer func() {
		for _, b := range built {
			b.Release()
		}
	}()

	for i := range cols {
		cols[i] = record.Column(i)
		if !slices.Contains(names, record.ColumnName(i)) {
			continue
		}
		strArray, ok := cols[i].(*array.String)
		if !ok {
			if !arrow.IsFloating(cols[i].DataType().ID()) && !arrow.IsInteger(cols[i].DataType().ID()) {
				return nil, fmt.Errorf("column %s has type %s and cannot be converted to float64",
					record.ColumnName(i), cols[i].DataType())
			}
			continue
		}

		floatBuilder := array.NewFloat64Builder(memory.DefaultAllocator)
		for j := 0; j < strArray.Len(); j++ {
			raw := strings.TrimSpace(strArray.Value(j))
			if strArray.IsNull(j) || raw == "" {
				floatBuilder.AppendNull()
				continue
			}
			val, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				log.Warn("Failed to convert value to float64",
					zap.String("column", record.ColumnName(i)),
					zap.String("value", raw),
					zap.Error(err))
				floatBuilder.AppendNull()
				continue
			}
			floatBuilder.Append(val)
		}
		arr := floatBuilder.NewArray()
		floatBuilder.Release()
		built = append(built, arr)
		cols[i] = arr
		fields[i] = arrow.Field{Name: fields[i].Name, Type: arrow.PrimitiveTypes.Float64, Nullable: true, Metadata: fields[i].Metadata}
	}

	md := record.Schema().Metadata()
	schema := arrow.NewSchema(fields, &md)
	return array.NewRecord(schema, cols, record.NumRows()), nil
}
