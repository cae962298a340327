// Package filter evaluates column conditions and global text search over
// in-memory records. Every function returns a new slice; the input is
// never modified.
package filter

import (
	"math"
	"reflect"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/TFMV/partskeeper/logger"
	"github.com/TFMV/partskeeper/pkg/compare"
	"github.com/TFMV/partskeeper/pkg/core"
)

// bound is a condition whose column has been resolved.
type bound[T any] struct {
	column *core.Column[T]
	cond   core.Condition
}

// FilterData returns the records matching every condition. Conditions naming
// an unknown column, or using an operator outside the standard set, are
// ignored. An empty condition list yields a copy of data.
func FilterData[T any](data []T, columns []core.Column[T], conditions []core.Condition) []T {
	active := bind(columns, conditions, false)
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

// Matches reports whether a single record passes every condition.
func Matches[T any](item T, columns []core.Column[T], conditions []core.Condition) bool {
	return matchAll(item, bind(columns, conditions, false))
}

func bind[T any](columns []core.Column[T], conditions []core.Condition, advanced bool) []bound[T] {
	active := make([]bound[T], 0, len(conditions))
	for _, cond := range conditions {
		col := core.FindColumn(columns, cond.Column)
		if col == nil {
			continue
		}
		if col.FilterBy == nil && !known(cond.Operator, advanced) {
			logger.GetLogger().Debug("Unknown filter operator, passing through",
				zap.String("column", cond.Column),
				zap.String("operator", string(cond.Operator)))
			continue
		}
		active = append(active, bound[T]{column: col, cond: cond})
	}
	return active
}

func known(op core.Operator, advanced bool) bool {
	switch op {
	case core.OpEquals, core.OpContains, core.OpStartsWith, core.OpEndsWith,
		core.OpGT, core.OpLT, core.OpGTE, core.OpLTE:
		return true
	}
	return advanced && op.IsAdvanced()
}

func matchAll[T any](item T, active []bound[T]) bool {
	for _, b := range active {
		if !matchBound(item, b) {
			return false
		}
	}
	return true
}

func matchBound[T any](item T, b bound[T]) bool {
	if b.column.FilterBy != nil {
		return b.column.FilterBy(item, b.cond.Value, b.cond.Operator)
	}
	field := compare.FieldValue(item, b.column.FieldPath())
	if b.cond.Operator.IsAdvanced() {
		return matchAdvanced(field, b.cond)
	}
	return Match(field, b.cond.Operator, b.cond.Value)
}

// Match applies a standard operator to a field value. Unknown operators
// match everything.
func Match(field any, op core.Operator, value any) bool {
	switch op {
	case core.OpEquals:
		return Equal(field, value)

	case core.OpContains, core.OpStartsWith, core.OpEndsWith:
		if compare.IsNil(field) {
			return false
		}
		s := strings.ToLower(compare.ToString(field))
		term := strings.ToLower(compare.ToString(value))
		switch op {
		case core.OpContains:
			return strings.Contains(s, term)
		case core.OpStartsWith:
			return strings.HasPrefix(s, term)
		default:
			return strings.HasSuffix(s, term)
		}

	case core.OpGT, core.OpLT, core.OpGTE, core.OpLTE:
		if compare.IsNil(field) {
			return false
		}
		a, b := compare.ToNumber(field), compare.ToNumber(value)
		if math.IsNaN(a) || math.IsNaN(b) {
			return false
		}
		switch op {
		case core.OpGT:
			return a > b
		case core.OpLT:
			return a < b
		case core.OpGTE:
			return a >= b
		default:
			return a <= b
		}
	}
	return true
}

// Equal is strict equality: values of different kinds are never equal,
// except that all numeric kinds compare by value. A nil field only equals
// nil.
func Equal(field, value any) bool {
	fieldNil, valueNil := compare.IsNil(field), compare.IsNil(value)
	if fieldNil || valueNil {
		return fieldNil && valueNil
	}
	field, value = compare.Indirect(field), compare.Indirect(value)
	if isNumber(field) && isNumber(value) {
		return compare.ToNumber(field) == compare.ToNumber(value)
	}
	if ft, ok := field.(time.Time); ok {
		vt, ok := value.(time.Time)
		return ok && ft.Equal(vt)
	}
	if reflect.TypeOf(field) != reflect.TypeOf(value) {
		return false
	}
	return reflect.DeepEqual(field, value)
}

func isNumber(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
