// Package sorting orders records by one or more columns. Sorts are stable
// and always return a new slice.
package sorting

import (
	"slices"

	"go.uber.org/zap"

	"github.com/TFMV/partskeeper/logger"
	"github.com/TFMV/partskeeper/pkg/compare"
	"github.com/TFMV/partskeeper/pkg/core"
)

// key is one resolved sort criterion.
type key[T any] struct {
	column *core.Column[T]
	field  string
	desc   bool
}

// row caches the extracted sort values of one record.
type row[T any] struct {
	item   T
	values []any
}

// SortData sorts by a single column. A nil config, direction none, or a
// column key that does not resolve yields an unsorted copy.
func SortData[T any](data []T, columns []core.Column[T], cfg *core.SortConfig) []T {
	if !cfg.Active() {
		return slices.Clone(nonNil(data))
	}
	k, ok := resolve(columns, cfg.Column, cfg.Direction)
	if !ok {
		return slices.Clone(nonNil(data))
	}
	return sortKeys(data, []key[T]{k})
}

// SortDataMulti sorts by several columns in ascending priority order. The
// first criterion that distinguishes two records decides their order.
// Entries with direction none or an unknown column are skipped.
func SortDataMulti[T any](data []T, columns []core.Column[T], sorts []core.MultiSortConfig) []T {
	ordered := slices.Clone(sorts)
	slices.SortStableFunc(ordered, func(a, b core.MultiSortConfig) int {
		return a.Priority - b.Priority
	})

	keys := make([]key[T], 0, len(ordered))
	for _, s := range ordered {
		if s.Direction != core.Asc && s.Direction != core.Desc {
			continue
		}
		if k, ok := resolve(columns, s.Column, s.Direction); ok {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return slices.Clone(nonNil(data))
	}
	return sortKeys(data, keys)
}

// Comparator returns the ordering SortData uses for cfg, or nil when cfg
// does not sort anything.
func Comparator[T any](columns []core.Column[T], cfg *core.SortConfig) func(a, b T) int {
	if !cfg.Active() {
		return nil
	}
	k, ok := resolve(columns, cfg.Column, cfg.Direction)
	if !ok {
		return nil
	}
	return func(a, b T) int {
		return compareKey(k, a, b, compare.FieldValue(a, k.field), compare.FieldValue(b, k.field))
	}
}

func resolve[T any](columns []core.Column[T], column string, dir core.Direction) (key[T], bool) {
	col := core.FindColumn(columns, column)
	if col == nil {
		logger.GetLogger().Debug("Sort column not found, leaving data unsorted",
			zap.String("column", column))
		return key[T]{}, false
	}
	field := col.Field
	if field == "" {
		field = column
	}
	return key[T]{column: col, field: field, desc: dir == core.Desc}, true
}

func sortKeys[T any](data []T, keys []key[T]) []T {
	rows := make([]row[T], len(data))
	for i, item := range data {
		rows[i].item = item
		rows[i].values = make([]any, len(keys))
		for j, k := range keys {
			if !k.column.SortBy.IsCustom() {
				rows[i].values[j] = compare.FieldValue(item, k.field)
			}
		}
	}

	slices.SortStableFunc(rows, func(a, b row[T]) int {
		for j, k := range keys {
			if c := compareKey(k, a.item, b.item, a.values[j], b.values[j]); c != 0 {
				return c
			}
		}
		return 0
	})

	out := make([]T, len(rows))
	for i := range rows {
		out[i] = rows[i].item
	}
	return out
}

func compareKey[T any](k key[T], a, b T, va, vb any) int {
	if k.column.SortBy.IsCustom() {
		c := k.column.SortBy.Comparator(a, b)
		if k.desc {
			return -c
		}
		return c
	}
	return compare.CompareDirected(va, vb, k.column.SortBy.EffectiveMode(), k.desc)
}

func nonNil[T any](data []T) []T {
	if data == nil {
		return []T{}
	}
	return data
}
