package utils

import (
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a test Arrow record
func createTestRecord() arrow.Record {
	pool := memory.NewGoAllocator()

	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "price", Type: arrow.BinaryTypes.String, Nullable: true},
	}, nil)

	b := array.NewRecordBuilder(pool, schema)
	defer b.Release()

	b.Field(0).(*array.Int64Builder).AppendValues([]int64{1, 2, 3}, nil)
	b.Field(1).(*array.StringBuilder).AppendValues([]string{"RTX 4070", "", "DDR5"}, []bool{true, false, true})
	b.Field(2).(*array.StringBuilder).AppendValues([]string{"599.99", "n/a", ""}, nil)

	return b.NewRecord()
}

func TestSingleRecordReader(t *testing.T) {
	record := createTestRecord()
	defer record.Release()

	reader := NewSingleRecordReader(record)
	defer reader.Release()

	assert.Equal(t, record.Schema(), reader.Schema())
	assert.True(t, reader.Next(), "First call to Next() should return true")
	assert.Equal(t, record, reader.Record())
	assert.False(t, reader.Next(), "Subsequent calls to Next() should return false")
	assert.NoError(t, reader.Err())
	assert.NoError(t, reader.Close())

	reader.Retain()
	reader.Release()
}

func TestRecordToMaps(t *testing.T) {
	record := createTestRecord()
	defer record.Release()

	rows := RecordToMaps(record)
	require.Len(t, rows, 3)
	assert.Equal(t, map[string]any{"id": int64(1), "name": "RTX 4070", "price": "599.99"}, rows[0])
	assert.Contains(t, rows[1], "name")
	assert.Nil(t, rows[1]["name"])
}

func TestValueAt(t *testing.T) {
	pool := memory.NewGoAllocator()
	supplier := arrow.StructOf(
		arrow.Field{Name: "name", Type: arrow.BinaryTypes.String},
		arrow.Field{Name: "country", Type: arrow.BinaryTypes.String, Nullable: true},
	)
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "stock", Type: arrow.PrimitiveTypes.Int32},
		{Name: "weight", Type: arrow.PrimitiveTypes.Float32},
		{Name: "active", Type: arrow.FixedWidthTypes.Boolean},
		{Name: "added_at", Type: arrow.FixedWidthTypes.Timestamp_ms},
		{Name: "day", Type: arrow.FixedWidthTypes.Date32},
		{Name: "supplier", Type: supplier},
		{Name: "tags", Type: arrow.ListOf(arrow.BinaryTypes.String)},
	}, nil)

	b := array.NewRecordBuilder(pool, schema)
	defer b.Release()

	added := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	b.Field(0).(*array.Int32Builder).Append(7)
	b.Field(1).(*array.Float32Builder).Append(1.5)
	b.Field(2).(*array.BooleanBuilder).Append(true)
	b.Field(3).(*array.TimestampBuilder).Append(arrow.Timestamp(added.UnixMilli()))
	b.Field(4).(*array.Date32Builder).Append(arrow.Date32FromTime(added))
	sb := b.Field(5).(*array.StructBuilder)
	sb.Append(true)
	sb.FieldBuilder(0).(*array.StringBuilder).Append("Acme")
	sb.FieldBuilder(1).(*array.StringBuilder).AppendNull()
	lb := b.Field(6).(*array.ListBuilder)
	lb.Append(true)
	lb.ValueBuilder().(*array.StringBuilder).AppendValues([]string{"gpu", "sale"}, nil)

	rec := b.NewRecord()
	defer rec.Release()

	assert.Equal(t, int64(7), ValueAt(rec.Column(0), 0))
	assert.Equal(t, 1.5, ValueAt(rec.Column(1), 0))
	assert.Equal(t, true, ValueAt(rec.Column(2), 0))
	assert.True(t, added.Equal(ValueAt(rec.Column(3), 0).(time.Time)))
	assert.Equal(t, "2024-03-01", ValueAt(rec.Column(4), 0).(time.Time).Format("2006-01-02"))
	assert.Equal(t, map[string]any{"name": "Acme", "country": nil}, ValueAt(rec.Column(5), 0))
	assert.Equal(t, []any{"gpu", "sale"}, ValueAt(rec.Column(6), 0))
}

func TestConvertNumericFields(t *testing.T) {
	record := createTestRecord()
	defer record.Release()

	converted, err := ConvertNumericFields(record, "price", "id")
	require.NoError(t, err)
	defer converted.Release()

	assert.Equal(t, arrow.FLOAT64, converted.Schema().Field(2).Type.ID())
	assert.Equal(t, arrow.INT64, converted.Schema().Field(0).Type.ID())
	prices := converted.Column(2).(*array.Float64)
	assert.Equal(t, 599.99, prices.Value(0))
	assert.True(t, prices.IsNull(1))
	assert.True(t, prices.IsNull(2))

	same, err := ConvertNumericFields(record)
	require.NoError(t, err)
	assert.Equal(t, record, same)
	same.Release()

	_, err = ConvertNumericFields(record, "name")
	assert.NoError(t, err)
}
