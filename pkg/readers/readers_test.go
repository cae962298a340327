package readers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/TFMV/partskeeper/pkg/compare"
	"github.com/TFMV/partskeeper/pkg/core"
	"github.com/TFMV/partskeeper/pkg/inventory"
)

var supplierType = arrow.StructOf(
	arrow.Field{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
	arrow.Field{Name: "country", Type: arrow.BinaryTypes.String, Nullable: true},
)

var partSchema = arrow.NewSchema([]arrow.Field{
	{Name: "id", Type: arrow.BinaryTypes.String},
	{Name: "name", Type: arrow.BinaryTypes.String},
	{Name: "price", Type: arrow.PrimitiveTypes.Float64},
	{Name: "stock", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
	{Name: "supplier", Type: supplierType, Nullable: true},
	{Name: "added_at", Type: arrow.FixedWidthTypes.Timestamp_ms, Nullable: true},
}, nil)

var addedAt = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func buildPartRecord(t *testing.T) arrow.Record {
	t.Helper()
	b := array.NewRecordBuilder(memory.NewGoAllocator(), partSchema)
	defer b.Release()

	b.Field(0).(*array.StringBuilder).AppendValues([]string{"p1", "p2"}, nil)
	b.Field(1).(*array.StringBuilder).AppendValues([]string{"RTX 4070", "DDR5 32GB"}, nil)
	b.Field(2).(*array.Float64Builder).AppendValues([]float64{599.5, 109}, nil)
	b.Field(3).(*array.Int64Builder).AppendValues([]int64{3, 0}, []bool{true, false})
	sb := b.Field(4).(*array.StructBuilder)
	sb.Append(true)
	sb.FieldBuilder(0).(*array.StringBuilder).Append("Acme")
	sb.FieldBuilder(1).(*array.StringBuilder).Append("DE")
	sb.AppendNull()
	b.Field(5).(*array.TimestampBuilder).AppendValues([]arrow.Timestamp{arrow.Timestamp(addedAt.UnixMilli()), 0}, []bool{true, false})
	return b.NewRecord()
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeArrow(t *testing.T) string {
	t.Helper()
	rec := buildPartRecord(t)
	defer rec.Release()

	path := filepath.Join(t.TempDir(), "parts.arrow")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w, err := ipc.NewFileWriter(f, ipc.WithSchema(partSchema))
	require.NoError(t, err)
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Close())
	return path
}

func writeParquet(t *testing.T) string {
	t.Helper()
	rec := buildPartRecord(t)
	defer rec.Release()
	tbl := array.NewTableFromRecords(partSchema, []arrow.Record{rec})
	defer tbl.Release()

	path := filepath.Join(t.TempDir(), "parts.parquet")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	props := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())
	require.NoError(t, pqarrow.WriteTable(tbl, f, 1024, parquet.NewWriterProperties(), props))
	return path
}

func TestDetectFormat(t *testing.T) {
	tests := map[string]string{
		"parts.csv": FormatCSV,
		"PARTS.CSV": FormatCSV,
		"a/b.jsonl": FormatJSONL,
		"b.ndjson":  FormatJSONL,
		"c.arrow":   FormatArrow,
		"d.feather": FormatArrow,
		"e.parquet": FormatParquet,
		"f.pq":      FormatParquet,
		"g.xlsx":    FormatXLSX,
	}
	for path, want := range tests {
		got, err := DetectFormat(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
	_, err := DetectFormat("parts.ods")
	assert.ErrorIs(t, err, core.ErrUnsupportedFormat)
}

func TestFactoryUnknownType(t *testing.T) {
	_, err := DefaultFactory.Create(Config{Type: "ods", Path: "x"})
	assert.ErrorIs(t, err, core.ErrUnsupportedFormat)

	_, err = NewCSVReader(Config{})
	assert.Error(t, err)

	// JSON lines are decoded by Load, not streamed
	assert.Equal(t, []string{FormatArrow, FormatCSV, FormatParquet, FormatXLSX}, DefaultFactory.Types())
}

func TestLoadCSV(t *testing.T) {
	path := writeFile(t, "parts.csv", "id,name,price,stock\np1,RTX 4070,599.5,3\np2,DDR5 32GB,109,\n")

	ds, err := LoadFile(context.Background(), Config{Path: path})
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, ds.Format)
	require.NotNil(t, ds.Schema)
	require.Len(t, ds.Records, 2)

	assert.Equal(t, "RTX 4070", ds.Records[0]["name"])
	assert.Equal(t, 599.5, compare.ToNumber(ds.Records[0]["price"]))
	assert.Equal(t, 3.0, compare.ToNumber(ds.Records[0]["stock"]))
	assert.Nil(t, ds.Records[1]["stock"])
}

func TestCSVSmallBatches(t *testing.T) {
	content := "id,price\n"
	for i := range 25 {
		content += fmt.Sprintf("p%d,%d\n", i, i)
	}
	path := writeFile(t, "many.csv", content)

	r, err := NewCSVReader(Config{Path: path, BatchSize: 10})
	require.NoError(t, err)
	defer r.Close()
	require.NotNil(t, r.Schema())

	var rows int64
	batches := 0
	for {
		rec, err := r.Read(context.Background())
		if err != nil {
			break
		}
		rows += rec.NumRows()
		batches++
		rec.Release()
	}
	assert.Equal(t, int64(25), rows)
	assert.Equal(t, 3, batches)
}

func TestLoadCSVNumericFields(t *testing.T) {
	path := writeFile(t, "parts.csv", "id,price\np1,\"1,299\"\np2,abc\n")

	ds, err := LoadFile(context.Background(), Config{Path: path, NumericFields: []string{"price"}})
	require.NoError(t, err)
	assert.Equal(t, arrow.FLOAT64, ds.Schema.Field(1).Type.ID())
	assert.Nil(t, ds.Records[0]["price"])
	assert.Nil(t, ds.Records[1]["price"])
}

func TestLoadJSONLines(t *testing.T) {
	path := writeFile(t, "parts.jsonl", `{"id":"p1","price":599.5,"stock":3,"supplier":{"name":"Acme"}}
{"id":"p2","price":109,"stock":null}
`)
	ds, err := LoadFile(context.Background(), Config{Path: path})
	require.NoError(t, err)
	assert.Nil(t, ds.Schema)
	require.Len(t, ds.Records, 2)
	assert.Equal(t, 599.5, ds.Records[0]["price"])
	assert.Equal(t, int64(3), ds.Records[0]["stock"])
	assert.Equal(t, int64(109), ds.Records[1]["price"])
	assert.Equal(t, map[string]any{"name": "Acme"}, ds.Records[0]["supplier"])

	arrayPath := writeFile(t, "parts.json", `[{"id":"p1","price":1.5},{"id":"p2","price":2}]`)
	ds, err = LoadFile(context.Background(), Config{Path: arrayPath})
	require.NoError(t, err)
	require.Len(t, ds.Records, 2)
	assert.Equal(t, int64(2), ds.Records[1]["price"])

	bad := writeFile(t, "bad.jsonl", "{\"id\":1}\n[1,2]\n")
	_, err = LoadFile(context.Background(), Config{Path: bad})
	assert.ErrorContains(t, err, "record 2")
}

func TestLoadArrowAndParquet(t *testing.T) {
	for _, path := range []string{writeArrow(t), writeParquet(t)} {
		ds, err := LoadFile(context.Background(), Config{Path: path})
		require.NoError(t, err, path)
		require.Len(t, ds.Records, 2, path)

		first := ds.Records[0]
		assert.Equal(t, "p1", first["id"])
		assert.Equal(t, 599.5, first["price"])
		assert.Equal(t, int64(3), first["stock"])
		assert.Equal(t, map[string]any{"name": "Acme", "country": "DE"}, first["supplier"])
		assert.True(t, addedAt.Equal(first["added_at"].(time.Time)), path)
		assert.Nil(t, ds.Records[1]["stock"])
		assert.Nil(t, ds.Records[1]["supplier"])

		parts, err := inventory.FromRecords(ds.Records)
		require.NoError(t, err, path)
		assert.Equal(t, "Acme", parts[0].Supplier.Name)
		assert.Nil(t, parts[1].Stock)
	}
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parts.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"id", "name", "price", "stock", "active", "", "notes"},
		{"p-1", "RTX 4070", 599.5, 3, true},
		{"p-2", "Ryzen 5 7600", 199, nil, false},
		{"p-3", "NH-D15", 99.9, 12, "TRUE"},
		{},
	}
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, axis, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	ds, err := LoadFile(context.Background(), Config{Path: path, BatchSize: 2})
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, ds.Format)
	require.Len(t, ds.Records, 3)

	types := make(map[string]arrow.Type)
	for _, fld := range ds.Schema.Fields() {
		types[fld.Name] = fld.Type.ID()
	}
	assert.Equal(t, map[string]arrow.Type{
		"id": arrow.STRING, "name": arrow.STRING, "price": arrow.FLOAT64,
		"stock": arrow.INT64, "active": arrow.BOOL, "column_6": arrow.STRING,
		"notes": arrow.STRING,
	}, types)

	assert.Equal(t, 599.5, ds.Records[0]["price"])
	assert.Equal(t, int64(3), ds.Records[0]["stock"])
	assert.Nil(t, ds.Records[1]["stock"])
	assert.Equal(t, true, ds.Records[2]["active"])
	assert.Nil(t, ds.Records[2]["column_6"])

	parts, err := inventory.FromRecords(ds.Records)
	require.NoError(t, err)
	assert.Equal(t, "Ryzen 5 7600", parts[1].Name)
	assert.Equal(t, 199.0, parts[1].Price)
}

func TestLoadXLSXEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err := LoadFile(context.Background(), Config{Path: path})
	assert.ErrorIs(t, err, ErrEmptySheet)

	_, err = NewXLSXReader(Config{})
	assert.Error(t, err)
}

func TestLoadFilesKeepsOrder(t *testing.T) {
	a := writeFile(t, "a.csv", "id,price\na1,1\n")
	b := writeFile(t, "b.jsonl", `{"id":"b1","price":2}`+"\n")
	c := writeArrow(t)

	datasets, err := LoadFiles(context.Background(), 2, Config{Path: a}, Config{Path: b}, Config{Path: c})
	require.NoError(t, err)
	require.Len(t, datasets, 3)
	assert.Equal(t, []string{a, b, c}, []string{datasets[0].Path, datasets[1].Path, datasets[2].Path})

	all := Records(datasets)
	require.Len(t, all, 4)
	assert.Equal(t, "a1", all[0]["id"])
	assert.Equal(t, "b1", all[1]["id"])

	_, err = LoadFiles(context.Background(), 0, Config{Path: a}, Config{Path: filepath.Join(t.TempDir(), "missing.csv")})
	assert.Error(t, err)
}

func TestLoadHonoursCancellation(t *testing.T) {
	path := writeArrow(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := LoadFile(ctx, Config{Path: path})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInferColumns(t *testing.T) {
	cols := InferColumns(partSchema)
	keys := make([]string, len(cols))
	for i, c := range cols {
		keys[i] = c.Key
	}
	assert.Equal(t, []string{"id", "name", "price", "stock", "supplier.name", "supplier.country", "added_at"}, keys)
	assert.Equal(t, core.SortNumeric, cols[2].SortBy.Mode)
	assert.Equal(t, core.AlignRight, cols[3].Align)
	assert.Equal(t, core.SortDate, cols[6].SortBy.Mode)
	assert.Empty(t, cols[0].SortBy.Mode)
	assert.Nil(t, InferColumns(nil))
}

func TestColumnsFromRecords(t *testing.T) {
	cols := ColumnsFromRecords([]Record{
		{"price": 1.5, "name": "a", "supplier": map[string]any{"name": "Acme"}, "mixed": 1},
		{"price": int64(2), "name": nil, "added": addedAt, "mixed": "x"},
	})
	got := make(map[string]core.SortMode, len(cols))
	var keys []string
	for _, c := range cols {
		keys = append(keys, c.Key)
		got[c.Key] = c.SortBy.Mode
	}
	assert.Equal(t, []string{"added", "mixed", "name", "price", "supplier.name"}, keys)
	assert.Equal(t, core.SortNumeric, got["price"])
	assert.Equal(t, core.SortDate, got["added"])
	assert.Empty(t, got["mixed"])
	assert.Empty(t, got["name"])
}
