// Package validation checks table props and file schemas before they reach
// the table pipeline. The pipeline itself never fails on bad props; these
// checks report what it would silently ignore.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/TFMV/partskeeper/pkg/core"
	"github.com/TFMV/partskeeper/pkg/pagination"
)

// ErrInvalidProps is matched by every error returned from Result.Err.
var ErrInvalidProps = errors.New("invalid table props")

// Result lists every violation found. Warnings do not make props invalid.
type Result struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// Err returns nil when valid, otherwise an error wrapping ErrInvalidProps.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidProps, strings.Join(r.Errors, "; "))
}

func (r *Result) check(condition bool, format string, a ...any) {
	if !condition {
		r.Errors = append(r.Errors, fmt.Sprintf(format, a...))
	}
}

func (r *Result) warn(condition bool, format string, a ...any) {
	if !condition {
		r.Warnings = append(r.Warnings, fmt.Sprintf(format, a...))
	}
}

// Props are the inputs a table is built from.
type Props[T any] struct {
	Columns    []core.Column[T]
	Pagination *core.PaginationConfig
	Limits     pagination.Limits
	Sort       *core.SortConfig
	Filters    []core.Condition
	Selection  core.SelectionMode
}

// Validator checks props and logs what it finds.
type Validator struct {
	Logger *zap.Logger
}

// NewValidator constructs a new Validator instance.
func NewValidator(logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{Logger: logger}
}

// ValidateColumns checks that column keys are present and unique and that
// every column can produce a cell.
func ValidateColumns[T any](v *Validator, columns []core.Column[T]) Result {
	var r Result
	checkColumns(&r, columns)
	return v.finish("columns", r)
}

func checkColumns[T any](r *Result, columns []core.Column[T]) {
	r.check(columns != nil, "columns are required")

	seen := make(map[string]int, len(columns))
	for i := range columns {
		c := &columns[i]
		r.check(strings.TrimSpace(c.Key) != "", "column %d has an empty key", i)
		if c.Key != "" {
			prev, dup := seen[c.Key]
			r.check(!dup, "column %d duplicates key %q of column %d", i, c.Key, prev)
			if !dup {
				seen[c.Key] = i
			}
		}
		r.check(c.Field != "" || c.Render != nil, "column %q needs a field or a render function", c.Key)
		r.check(c.SortBy.Kind != core.SortKindCustom || c.SortBy.Comparator != nil,
			"column %q uses custom sorting without a comparator", c.Key)
		if c.SortBy.Kind == core.SortKindBuiltIn {
			switch c.SortBy.Mode {
			case "", core.SortAlphanumeric, core.SortNumeric, core.SortDate:
			default:
				r.Errors = append(r.Errors, fmt.Sprintf("column %q has unknown sort mode %q", c.Key, c.SortBy.Mode))
			}
		}
		r.check(c.Align == "" || c.Align == core.AlignLeft || c.Align == core.AlignCenter || c.Align == core.AlignRight,
			"column %q has unknown alignment %q", c.Key, c.Align)

		r.warn(c.Field != "" || c.FilterBy != nil || c.DisableFiltering,
			"column %q has no field and no filter predicate; filters on it never match", c.Key)
		r.warn(c.Field != "" || c.SortBy.IsCustom() || c.DisableSorting,
			"column %q has no field and no comparator; sorting on it keeps input order", c.Key)
		r.warn(!c.Hidden || len(c.HiddenOn) == 0, "column %q is hidden; hiddenOn has no effect", c.Key)
	}
}

// ValidateProps checks columns and every config that refers to them.
func ValidateProps[T any](v *Validator, p Props[T]) Result {
	var r Result
	checkColumns(&r, p.Columns)

	if p.Pagination != nil {
		res := pagination.ValidateConfig(*p.Pagination, p.Limits)
		r.Errors = append(r.Errors, res.Errors...)
	}

	if p.Sort != nil && p.Sort.Column != "" {
		col := core.FindColumn(p.Columns, p.Sort.Column)
		r.check(col != nil, "sort column %q does not exist", p.Sort.Column)
		if col != nil {
			r.check(col.Sortable(), "sort column %q is not sortable", p.Sort.Column)
		}
		_, err := core.ParseDirection(string(p.Sort.Direction))
		r.check(err == nil, "sort direction %q is invalid", p.Sort.Direction)
	}

	for _, f := range p.Filters {
		col := core.FindColumn(p.Columns, f.Column)
		r.check(col != nil, "filter column %q does not exist", f.Column)
		if col != nil {
			r.check(col.Filterable(), "filter column %q is not filterable", f.Column)
		}
		_, err := core.ParseOperator(string(f.Operator))
		r.check(err == nil || (col != nil && col.FilterBy != nil), "filter operator %q is unknown", f.Operator)
		r.warn(!f.Operator.IsAdvanced(), "filter operator %q is only applied by the advanced filter", f.Operator)
	}

	if p.Selection != "" {
		_, err := core.ParseSelectionMode(string(p.Selection))
		r.check(err == nil, "selection mode %q is invalid", p.Selection)
	}
	return v.finish("props", r)
}

func (v *Validator) finish(what string, r Result) Result {
	r.Valid = len(r.Errors) == 0
	for _, w := range r.Warnings {
		v.Logger.Warn("Validation warning", zap.String("target", what), zap.String("warning", w))
	}
	if !r.Valid {
		v.Logger.Error("Validation failed", zap.String("target", what), zap.Strings("errors", r.Errors))
	}
	return r
}
