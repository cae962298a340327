package readers

import (
	"sort"
	"time"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/TFMV/partskeeper/pkg/core"
)

// Record is the row type produced by the readers.
type Record = map[string]any

// InferColumns derives table columns from a schema. Numeric fields sort
// numerically and align right, temporal fields sort by date, and struct
// fields are flattened one level into "parent.child" columns.
func InferColumns(schema *arrow.Schema) []core.Column[Record] {
	if schema == nil {
		return nil
	}
	var cols []core.Column[Record]
	for _, f := range schema.Fields() {
		if st, ok := f.Type.(*arrow.StructType); ok {
			for _, child := range st.Fields() {
				cols = append(cols, columnFor(f.Name+"."+child.Name, child.Type.ID()))
			}
			continue
		}
		cols = append(cols, columnFor(f.Name, f.Type.ID()))
	}
	return cols
}

func columnFor(path string, id arrow.Type) core.Column[Record] {
	col := core.Column[Record]{Key: path, Field: path}
	switch {
	case arrow.IsInteger(id) || arrow.IsFloating(id) || id == arrow.DECIMAL128 || id == arrow.DECIMAL256:
		col.SortBy = core.BuiltIn[Record](core.SortNumeric)
		col.Align = core.AlignRight
	case id == arrow.TIMESTAMP || id == arrow.DATE32 || id == arrow.DATE64:
		col.SortBy = core.BuiltIn[Record](core.SortDate)
	case id == arrow.LIST || id == arrow.MAP:
		col.DisableSorting = true
	}
	return col
}

type kind int

const (
	kindUnknown kind = iota
	kindNumber
	kindTime
	kindText
	kindNested
)

// ColumnsFromRecords derives columns from schemaless records, such as
// JSON lines. Keys are sorted; a key is numeric or temporal only when every
// non-nil value agrees.
func ColumnsFromRecords(records []Record) []core.Column[Record] {
	kinds := make(map[string]kind)
	merge := func(path string, k kind) {
		prev, seen := kinds[path]
		switch {
		case !seen || prev == kindUnknown:
			kinds[path] = k
		case k != kindUnknown && prev != k:
			kinds[path] = kindText
		}
	}

	for _, rec := range records {
		for key, v := range rec {
			k := kindOf(v)
			if k == kindNested {
				for child, cv := range v.(map[string]any) {
					merge(key+"."+child, kindOf(cv))
				}
				continue
			}
			merge(key, k)
		}
	}

	paths := make([]string, 0, len(kinds))
	for p := range kinds {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	cols := make([]core.Column[Record], 0, len(paths))
	for _, p := range paths {
		switch kinds[p] {
		case kindNumber:
			cols = append(cols, columnFor(p, arrow.FLOAT64))
		case kindTime:
			cols = append(cols, columnFor(p, arrow.TIMESTAMP))
		default:
			cols = append(cols, columnFor(p, arrow.STRING))
		}
	}
	return cols
}

func kindOf(v any) kind {
	switch v.(type) {
	case nil:
		return kindUnknown
	case int, int32, int64, uint64, float32, float64:
		return kindNumber
	case time.Time:
		return kindTime
	case map[string]any:
		return kindNested
	}
	return kindText
}
