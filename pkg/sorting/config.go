package sorting

import (
	"slices"

	"github.com/TFMV/partskeeper/pkg/core"
)

// NextDirection advances asc -> desc -> none -> asc.
func NextDirection(d core.Direction) core.Direction {
	switch d {
	case core.Asc:
		return core.Desc
	case core.Desc:
		return core.None
	}
	return core.Asc
}

// CreateSortConfig returns the sort that results from activating column.
// Activating the column already sorted cycles its direction; any other
// column starts ascending.
func CreateSortConfig(column string, prev *core.SortConfig) *core.SortConfig {
	if prev == nil || prev.Column != column {
		return &core.SortConfig{Column: column, Direction: core.Asc}
	}
	return &core.SortConfig{Column: column, Direction: NextDirection(prev.Direction)}
}

// AddSortColumn sets column to direction, appending it when absent.
// Priorities are renumbered by position starting at 1.
func AddSortColumn(sorts []core.MultiSortConfig, column string, direction core.Direction) []core.MultiSortConfig {
	out := slices.Clone(sorts)
	if i := indexOf(out, column); i >= 0 {
		out[i].Direction = direction
	} else {
		out = append(out, core.MultiSortConfig{Column: column, Direction: direction})
	}
	return renumber(out)
}

// RemoveSortColumn drops column and renumbers the remaining entries.
func RemoveSortColumn(sorts []core.MultiSortConfig, column string) []core.MultiSortConfig {
	out := make([]core.MultiSortConfig, 0, len(sorts))
	for _, s := range sorts {
		if s.Column != column {
			out = append(out, s)
		}
	}
	return renumber(out)
}

// ToggleMultiSort cycles column within a multi-column sort: absent columns
// are appended ascending, ascending becomes descending, and descending
// columns are removed.
func ToggleMultiSort(sorts []core.MultiSortConfig, column string) []core.MultiSortConfig {
	i := indexOf(sorts, column)
	if i < 0 {
		return AddSortColumn(sorts, column, core.Asc)
	}
	next := NextDirection(sorts[i].Direction)
	if next == core.None {
		return RemoveSortColumn(sorts, column)
	}
	return AddSortColumn(sorts, column, next)
}

func indexOf(sorts []core.MultiSortConfig, column string) int {
	return slices.IndexFunc(sorts, func(s core.MultiSortConfig) bool {
		return s.Column == column
	})
}

func renumber(sorts []core.MultiSortConfig) []core.MultiSortConfig {
	if sorts == nil {
		sorts = []core.MultiSortConfig{}
	}
	for i := range sorts {
		sorts[i].Priority = i + 1
	}
	return sorts
}
