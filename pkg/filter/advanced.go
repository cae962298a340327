package filter

import (
	"math"
	"reflect"

	"go.uber.org/zap"

	"github.com/TFMV/partskeeper/logger"
	"github.com/TFMV/partskeeper/pkg/compare"
	"github.com/TFMV/partskeeper/pkg/core"
)

// ApplyAdvancedFilter evaluates one condition that may use the advanced
// operators (between, in, notIn, isNull, isNotNull) as well as the standard
// ones. An unknown column leaves data unfiltered.
func ApplyAdvancedFilter[T any](data []T, columns []core.Column[T], condition core.Condition) []T {
	return ApplyAdvancedFilters(data, columns, []core.Condition{condition})
}

// ApplyAdvancedFilters ANDs a list of conditions evaluated as in
// ApplyAdvancedFilter.
func ApplyAdvancedFilters[T any](data []T, columns []core.Column[T], conditions []core.Condition) []T {
	active := bind(columns, conditions, true)
	out := make([]T, 0, len(data))
	if len(active) == 0 {
		return append(out, data...)
	}
	for _, item := range data {
		if matchAll(item, active) {
			out = append(out, item)
		}
	}
	return out
}

func matchAdvanced(field any, cond core.Condition) bool {
	switch cond.Operator {
	case core.OpBetween:
		bounds, ok := toSlice(cond.Value)
		if !ok || len(bounds) != 2 {
			logger.GetLogger().Debug("between expects two bounds, passing through",
				zap.String("column", cond.Column),
				zap.Any("value", cond.Value))
			return true
		}
		if compare.IsNil(field) {
			return false
		}
		n := compare.ToNumber(field)
		lo, hi := compare.ToNumber(bounds[0]), compare.ToNumber(bounds[1])
		if math.IsNaN(n) || math.IsNaN(lo) || math.IsNaN(hi) {
			return false
		}
		return n >= lo && n <= hi

	case core.OpIn, core.OpNotIn:
		found := false
		for _, v := range valueSet(cond.Value) {
			if Equal(field, v) {
				found = true
				break
			}
		}
		return found == (cond.Operator == core.OpIn)

	case core.OpIsNull:
		return compare.IsNil(field)

	case core.OpIsNotNull:
		return !compare.IsNil(field)
	}
	return Match(field, cond.Operator, cond.Value)
}

// valueSet treats a non-slice value as a one element set.
func valueSet(v any) []any {
	if values, ok := toSlice(v); ok {
		return values
	}
	return []any{v}
}

func toSlice(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
