// Package core provides the shared types of the partskeeper table pipeline:
// column descriptors, filter conditions, sort and pagination configuration.
package core

import (
	"errors"
	"fmt"
)

// Common errors returned by the outer layers (service, readers, config).
// The pipeline itself never returns errors; it degrades to safe defaults.
var (
	// ErrColumnNotFound is returned when a column key is not found.
	ErrColumnNotFound = errors.New("column not found")

	// ErrInvalidPage is returned when a requested page is out of range.
	ErrInvalidPage = errors.New("invalid page")

	// ErrInvalidPageSize is returned when a page size is out of bounds.
	ErrInvalidPageSize = errors.New("invalid page size")

	// ErrInvalidOperator is returned when an operator cannot be parsed.
	ErrInvalidOperator = errors.New("invalid filter operator")

	// ErrInvalidDirection is returned when a sort direction cannot be parsed.
	ErrInvalidDirection = errors.New("invalid sort direction")

	// ErrRecordNotFound is returned when a record ID is unknown.
	ErrRecordNotFound = errors.New("record not found")

	// ErrUnsupportedFormat is returned for unknown file formats.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// Align is the horizontal alignment of a column's cells.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Sticky pins a column to one side while scrolling horizontally.
type Sticky string

const (
	StickyNone  Sticky = ""
	StickyLeft  Sticky = "left"
	StickyRight Sticky = "right"
)

// Breakpoint names a responsive viewport width class.
type Breakpoint string

const (
	BreakpointXS Breakpoint = "xs"
	BreakpointSM Breakpoint = "sm"
	BreakpointMD Breakpoint = "md"
	BreakpointLG Breakpoint = "lg"
	BreakpointXL Breakpoint = "xl"
)

// Breakpoints lists all known breakpoints from narrowest to widest.
var Breakpoints = []Breakpoint{BreakpointXS, BreakpointSM, BreakpointMD, BreakpointLG, BreakpointXL}

// SortMode selects a built-in comparison.
type SortMode string

const (
	SortAlphanumeric SortMode = "alphanumeric"
	SortNumeric      SortMode = "numeric"
	SortDate         SortMode = "date"
)

// SortKind discriminates SortBy variants.
type SortKind int

const (
	// SortKindBuiltIn compares extracted field values with a SortMode.
	SortKindBuiltIn SortKind = iota
	// SortKindCustom compares whole records with a caller comparator.
	SortKindCustom
)

// SortBy describes how a column is sorted. The zero value is a built-in
// alphanumeric comparison.
type SortBy[T any] struct {
	Kind       SortKind
	Mode       SortMode
	Comparator func(a, b T) int
}

// BuiltIn returns a SortBy comparing field values with mode.
func BuiltIn[T any](mode SortMode) SortBy[T] {
	return SortBy[T]{Kind: SortKindBuiltIn, Mode: mode}
}

// Custom returns a SortBy comparing whole records with cmp.
func Custom[T any](cmp func(a, b T) int) SortBy[T] {
	return SortBy[T]{Kind: SortKindCustom, Comparator: cmp}
}

// IsCustom reports whether the column uses a usable custom comparator.
func (s SortBy[T]) IsCustom() bool {
	return s.Kind == SortKindCustom && s.Comparator != nil
}

// EffectiveMode returns the built-in mode, defaulting to alphanumeric.
func (s SortBy[T]) EffectiveMode() SortMode {
	if s.Mode == "" {
		return SortAlphanumeric
	}
	return s.Mode
}

// Column describes how one record field is displayed, sorted and filtered.
type Column[T any] struct {
	// Key identifies the column; must be non-empty and unique.
	Key string
	// Field is a dot separated path into the record.
	Field string
	// Header is the display title; Key is used when empty.
	Header string
	// Render formats a cell. Either Field or Render must be set.
	Render func(item T, index int) string

	DisableSorting   bool
	DisableFiltering bool

	Align     Align
	Width     string
	SortBy    SortBy[T]
	// FilterBy replaces the operator semantics for this column when set.
	FilterBy func(item T, value any, op Operator) bool

	Hidden    bool
	HiddenOn  []Breakpoint
	Sticky    Sticky
	Resizable bool
}

// Title returns the header, falling back to the key.
func (c *Column[T]) Title() string {
	if c.Header != "" {
		return c.Header
	}
	return c.Key
}

// Sortable reports whether sorting is enabled for the column.
func (c *Column[T]) Sortable() bool { return !c.DisableSorting }

// Filterable reports whether filtering is enabled for the column.
func (c *Column[T]) Filterable() bool { return !c.DisableFiltering }

// FieldPath returns Field, falling back to Key.
func (c *Column[T]) FieldPath() string {
	if c.Field != "" {
		return c.Field
	}
	return c.Key
}

// HiddenAt reports whether the column is hidden at breakpoint bp.
func (c *Column[T]) HiddenAt(bp Breakpoint) bool {
	if c.Hidden {
		return true
	}
	for _, h := range c.HiddenOn {
		if h == bp {
			return true
		}
	}
	return false
}

// FindColumn returns the column with key, or nil.
func FindColumn[T any](columns []Column[T], key string) *Column[T] {
	for i := range columns {
		if columns[i].Key == key {
			return &columns[i]
		}
	}
	return nil
}

// Operator is a filter operator.
type Operator string

// Standard operators.
const (
	OpEquals     Operator = "equals"
	OpContains   Operator = "contains"
	OpStartsWith Operator = "startsWith"
	OpEndsWith   Operator = "endsWith"
	OpGT         Operator = "gt"
	OpLT         Operator = "lt"
	OpGTE        Operator = "gte"
	OpLTE        Operator = "lte"
)

// Advanced operators, evaluated by filter.ApplyAdvancedFilter only.
const (
	OpBetween   Operator = "between"
	OpIn        Operator = "in"
	OpNotIn     Operator = "notIn"
	OpIsNull    Operator = "isNull"
	OpIsNotNull Operator = "isNotNull"
)

var operators = map[string]Operator{}

func init() {
	for _, op := range []Operator{
		OpEquals, OpContains, OpStartsWith, OpEndsWith, OpGT, OpLT, OpGTE, OpLTE,
		OpBetween, OpIn, OpNotIn, OpIsNull, OpIsNotNull,
	} {
		operators[string(op)] = op
	}
}

// ParseOperator parses an operator name.
func ParseOperator(s string) (Operator, error) {
	if op, ok := operators[s]; ok {
		return op, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidOperator, s)
}

// IsAdvanced reports whether op belongs to the advanced set.
func (op Operator) IsAdvanced() bool {
	switch op {
	case OpBetween, OpIn, OpNotIn, OpIsNull, OpIsNotNull:
		return true
	}
	return false
}

// Condition is a single filter predicate against one column.
type Condition struct {
	Column   string
	Value    any
	Operator Operator
}

func (c Condition) String() string {
	return fmt.Sprintf("%s %s %v", c.Column, c.Operator, c.Value)
}

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
	None Direction = "none"
)

// ParseDirection parses "asc", "desc" or "none".
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Asc, Desc, None:
		return Direction(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// SortConfig is a single-column sort.
type SortConfig struct {
	Column    string
	Direction Direction
}

// Active reports whether the config sorts anything.
func (s *SortConfig) Active() bool {
	return s != nil && s.Column != "" && (s.Direction == Asc || s.Direction == Desc)
}

// MultiSortConfig is one entry of a multi-column sort.
// Lower Priority values are evaluated first.
type MultiSortConfig struct {
	Column    string
	Direction Direction
	Priority  int
}

// PaginationConfig describes the current page window.
type PaginationConfig struct {
	PageSize        int
	CurrentPage     int
	TotalItems      int
	PageSizeOptions []int
}

// DefaultPageSizeOptions are offered when none are configured.
var DefaultPageSizeOptions = []int{10, 25, 50, 100}

// NewPaginationConfig returns a config on page 1.
func NewPaginationConfig(pageSize, totalItems int) PaginationConfig {
	return PaginationConfig{
		PageSize:        pageSize,
		CurrentPage:     1,
		TotalItems:      totalItems,
		PageSizeOptions: append([]int(nil), DefaultPageSizeOptions...),
	}
}

// SelectionMode governs how many rows may be selected at once.
type SelectionMode string

const (
	SelectionNone     SelectionMode = "none"
	SelectionSingle   SelectionMode = "single"
	SelectionMultiple SelectionMode = "multiple"
)

// ParseSelectionMode parses a selection mode name.
func ParseSelectionMode(s string) (SelectionMode, error) {
	switch SelectionMode(s) {
	case SelectionNone, SelectionSingle, SelectionMultiple:
		return SelectionMode(s), nil
	}
	return "", fmt.Errorf("invalid selection mode %q", s)
}
