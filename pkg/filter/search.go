package filter

import (
	"strings"

	"github.com/TFMV/partskeeper/pkg/core"
)

// SearchMode controls how a global search term combines across columns.
type SearchMode int

const (
	// SearchAny keeps a record when the term matches at least one
	// filterable column.
	SearchAny SearchMode = iota
	// SearchAll keeps a record only when the term matches every
	// filterable column.
	SearchAll
)

func (m SearchMode) String() string {
	if m == SearchAll {
		return "all"
	}
	return "any"
}

// ParseSearchMode parses "any" or "all".
func ParseSearchMode(s string) (SearchMode, bool) {
	switch strings.ToLower(s) {
	case "any", "or", "":
		return SearchAny, true
	case "all", "and":
		return SearchAll, true
	}
	return SearchAny, false
}

// SearchData runs a case-insensitive substring search across all
// filterable columns and keeps records matching any of them.
func SearchData[T any](data []T, columns []core.Column[T], term string) []T {
	return SearchDataMode(data, columns, term, SearchAny)
}

// SearchDataMode is SearchData with an explicit column composition.
// A blank term, or a column set with nothing filterable, yields a copy.
func SearchDataMode[T any](data []T, columns []core.Column[T], term string, mode SearchMode) []T {
	term = strings.TrimSpace(term)
	conditions := SearchConditions(columns, term)
	if term == "" || len(conditions) == 0 {
		return append(make([]T, 0, len(data)), data...)
	}
	if mode == SearchAll {
		return FilterData(data, columns, conditions)
	}

	active := bind(columns, conditions, false)
	out := make([]T, 0, len(data))
	for _, item := range data {
		for _, b := range active {
			if matchBound(item, b) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// SearchConditions builds one contains condition per filterable column.
func SearchConditions[T any](columns []core.Column[T], term string) []core.Condition {
	var conditions []core.Condition
	for i := range columns {
		if !columns[i].Filterable() {
			continue
		}
		conditions = append(conditions, core.Condition{
			Column:   columns[i].Key,
			Value:    term,
			Operator: core.OpContains,
		})
	}
	return conditions
}
