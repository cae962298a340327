// Package table wires the filter, sort, pagination and selection engines
// into one stateful view over a record set.
//
// Derived stages are memoised: filters and search feed the filtered set,
// the sort config turns it into the processed set, and pagination windows
// the processed set. An event only recomputes the stages downstream of
// what it changed.
package table

import (
	"reflect"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/TFMV/partskeeper/logger"
	"github.com/TFMV/partskeeper/metrics"
	"github.com/TFMV/partskeeper/pkg/core"
	"github.com/TFMV/partskeeper/pkg/filter"
	"github.com/TFMV/partskeeper/pkg/pagination"
	"github.com/TFMV/partskeeper/pkg/selection"
	"github.com/TFMV/partskeeper/pkg/sorting"
	"github.com/TFMV/partskeeper/pkg/store"
)

// DefaultPageSize is used when a pagination config carries no page size.
const DefaultPageSize = 10

// Options configures a Table.
type Options[T any] struct {
	Columns []core.Column[T]
	// Sortable enables HandleSort and SetSortConfig.
	Sortable bool
	// Selection defaults to core.SelectionNone.
	Selection core.SelectionMode
	// Pagination enables paging; nil shows the whole processed set.
	Pagination *core.PaginationConfig
	GetRowID   func(item T, index int) string
	// OnSelectionChange receives the committed selection. It is called
	// after the table lock is released and may call back into the table.
	OnSelectionChange selection.ChangeFunc[T]
	SearchMode        filter.SearchMode
	Metrics           metrics.Collector
	// State, when set, receives a View after every change.
	State  *store.Store[View[T]]
	Logger *zap.Logger
}

// View is a consistent snapshot of a table.
type View[T any] struct {
	Processed       []T                   `json:"-"`
	Page            []T                   `json:"-"`
	Metadata        pagination.Metadata   `json:"metadata"`
	Pagination      core.PaginationConfig `json:"pagination"`
	Paginated       bool                  `json:"paginated"`
	Sort            *core.SortConfig      `json:"sort,omitempty"`
	Filters         []core.Condition      `json:"filters,omitempty"`
	Search          string                `json:"search,omitempty"`
	SelectedIndices []int                 `json:"selected_indices,omitempty"`
	// Version grows with every update; a published view never replaces a
	// newer one.
	Version uint64 `json:"version"`
}

type selectionEvent[T any] struct {
	items   []T
	indices []int
}

// Table is safe for concurrent use.
type Table[T any] struct {
	mu   sync.Mutex
	opts Options[T]
	log  *zap.Logger
	mc   metrics.Collector
	sel  *selection.Manager[T]

	columns    []core.Column[T]
	data       []T
	dataID     uintptr
	filters    []core.Condition
	search     string
	sort       *core.SortConfig
	pagination *core.PaginationConfig

	filtered  []T
	processed []T
	paginated []T

	filteredValid  bool
	processedValid bool
	paginatedValid bool

	pending []selectionEvent[T]
	version uint64
}

// New returns a Table with no data.
func New[T any](opts Options[T]) *Table[T] {
	t := &Table[T]{
		opts:    opts,
		log:     opts.Logger,
		mc:      opts.Metrics,
		columns: opts.Columns,
	}
	if t.log == nil {
		t.log = logger.GetLogger()
	}
	if t.mc == nil {
		t.mc = metrics.NopCollector{}
	}
	if opts.Pagination != nil {
		p := *opts.Pagination
		if p.PageSize < 1 {
			t.log.Warn("Invalid page size, using default",
				zap.Int("page_size", p.PageSize), zap.Int("default", DefaultPageSize))
			p.PageSize = DefaultPageSize
		}
		if p.CurrentPage < 1 {
			p.CurrentPage = 1
		}
		if p.PageSizeOptions == nil {
			p.PageSizeOptions = slices.Clone(core.DefaultPageSizeOptions)
		}
		t.pagination = &p
	}
	t.sel = selection.New(selection.Options[T]{
		Mode:     opts.Selection,
		GetRowID: opts.GetRowID,
		OnChange: func(items []T, indices []int) {
			t.pending = append(t.pending, selectionEvent[T]{items: items, indices: indices})
		},
	})
	if t.columns == nil {
		t.log.Warn("Table created without columns; results stay empty until columns are set")
	}
	t.update(func() {})
	return t
}

// update runs fn under the lock, brings the stages up to date and then,
// outside the lock, delivers selection callbacks and publishes the view.
func (t *Table[T]) update(fn func()) {
	t.mu.Lock()
	fn()
	t.refresh()
	t.version++
	events := t.pending
	t.pending = nil
	var view View[T]
	if t.opts.State != nil {
		view = t.view()
	}
	t.mu.Unlock()

	if t.opts.OnSelectionChange != nil {
		for _, ev := range events {
			t.opts.OnSelectionChange(ev.items, ev.indices)
		}
	}
	if t.opts.State != nil {
		// updates publish outside the lock and may arrive out of order
		t.opts.State.Update(func(cur View[T]) View[T] {
			if cur.Version > view.Version {
				return cur
			}
			return view
		})
	}
}

func (t *Table[T]) invalidate(fromFilter, fromSort bool) {
	if fromFilter {
		t.filteredValid = false
	}
	if fromFilter || fromSort {
		t.processedValid = false
	}
	t.paginatedValid = false
}

func (t *Table[T]) refresh() {
	if t.columns == nil {
		t.filtered, t.processed, t.paginated = nil, nil, nil
		t.filteredValid, t.processedValid, t.paginatedValid = true, true, true
		t.sel.SetProcessed(nil)
		return
	}

	if !t.filteredValid {
		t.filtered = metrics.Time(t.mc, metrics.StageFilter, func() []T {
			return filter.FilterData(t.data, t.columns, t.filters)
		})
		if strings.TrimSpace(t.search) != "" {
			base := t.filtered
			t.filtered = metrics.Time(t.mc, metrics.StageSearch, func() []T {
				return filter.SearchDataMode(base, t.columns, t.search, t.opts.SearchMode)
			})
		}
		t.filteredValid = true
		t.processedValid = false
	}

	if !t.processedValid {
		cfg := t.sort
		if !t.opts.Sortable {
			cfg = nil
		}
		t.processed = metrics.Time(t.mc, metrics.StageSort, func() []T {
			return sorting.SortData(t.filtered, t.columns, cfg)
		})
		t.processedValid = true
		t.paginatedValid = false

		if t.pagination != nil {
			p := pagination.UpdateTotalItems(*t.pagination, len(t.processed))
			t.pagination = &p
		}
		t.sel.SetProcessed(t.processed)
	}

	if !t.paginatedValid {
		if t.pagination == nil {
			t.paginated = t.processed
		} else {
			cfg := *t.pagination
			t.paginated = metrics.Time(t.mc, metrics.StagePaginate, func() []T {
				return pagination.PaginateData(t.processed, cfg)
			})
		}
		t.paginatedValid = true
	}
}

func sliceID[T any](data []T) uintptr {
	if data == nil {
		return 0
	}
	return reflect.ValueOf(data).Pointer()
}

// SetData replaces the records. A different slice clears the selection;
// passing the same slice again is a no-op (use Refresh after modifying it
// in place).
func (t *Table[T]) SetData(data []T) {
	t.update(func() {
		id := sliceID(data)
		if id == t.dataID && len(data) == len(t.data) {
			return
		}
		t.data, t.dataID = data, id
		if t.sel.Count() > 0 {
			t.sel.Clear()
		}
		t.invalidate(true, true)
	})
}

// Refresh recomputes every stage.
func (t *Table[T]) Refresh() {
	t.update(func() { t.invalidate(true, true) })
}

// SetColumns replaces the column set. nil disables the table.
func (t *Table[T]) SetColumns(columns []core.Column[T]) {
	t.update(func() {
		if columns == nil {
			t.log.Warn("Columns cleared; table results are empty")
		}
		t.columns = columns
		t.invalidate(true, true)
	})
}

// SetFilters replaces all filter conditions.
func (t *Table[T]) SetFilters(conditions []core.Condition) {
	t.update(func() {
		t.filters = slices.Clone(conditions)
		t.invalidate(true, false)
	})
}

// AddFilter adds condition, replacing any condition on the same column.
func (t *Table[T]) AddFilter(condition core.Condition) {
	t.update(func() {
		t.filters = slices.DeleteFunc(slices.Clone(t.filters), func(c core.Condition) bool {
			return c.Column == condition.Column
		})
		t.filters = append(t.filters, condition)
		t.invalidate(true, false)
	})
}

// RemoveFilter drops the conditions on column.
func (t *Table[T]) RemoveFilter(column string) {
	t.update(func() {
		n := len(t.filters)
		t.filters = slices.DeleteFunc(slices.Clone(t.filters), func(c core.Condition) bool {
			return c.Column == column
		})
		if len(t.filters) != n {
			t.invalidate(true, false)
		}
	})
}

// ClearFilters drops all filter conditions.
func (t *Table[T]) ClearFilters() {
	t.update(func() {
		if len(t.filters) == 0 {
			return
		}
		t.filters = nil
		t.invalidate(true, false)
	})
}

// SetSearch sets the global search term.
func (t *Table[T]) SetSearch(term string) {
	t.update(func() {
		if term == t.search {
			return
		}
		t.search = term
		t.invalidate(true, false)
	})
}

// HandleSort cycles the sort direction of column. It is ignored when the
// table or the column is not sortable.
func (t *Table[T]) HandleSort(column string) {
	t.update(func() {
		if !t.opts.Sortable || t.columns == nil {
			return
		}
		col := core.FindColumn(t.columns, column)
		if col == nil || !col.Sortable() {
			t.log.Debug("Ignoring sort on unsortable column", zap.String("column", column))
			return
		}
		t.sort = sorting.CreateSortConfig(column, t.sort)
		t.invalidate(false, true)
	})
}

// SetSortConfig sets the sort directly; nil removes it.
func (t *Table[T]) SetSortConfig(cfg *core.SortConfig) {
	t.update(func() {
		if !t.opts.Sortable {
			return
		}
		if cfg != nil {
			c := *cfg
			cfg = &c
		}
		t.sort = cfg
		t.invalidate(false, true)
	})
}

// HandlePageChange moves to page, clamped to the available pages.
func (t *Table[T]) HandlePageChange(page int) {
	t.update(func() {
		if t.pagination == nil || t.columns == nil {
			return
		}
		p := pagination.GoToPage(*t.pagination, page)
		if p.CurrentPage == t.pagination.CurrentPage {
			return
		}
		t.pagination = &p
		t.invalidate(false, false)
	})
}

// HandlePageSizeChange changes the page size keeping the current position.
func (t *Table[T]) HandlePageSizeChange(size int) {
	t.update(func() {
		if t.pagination == nil || t.columns == nil || size < 1 {
			return
		}
		p := pagination.ChangePageSize(*t.pagination, size)
		t.pagination = &p
		t.invalidate(false, false)
	})
}

// HandleSelect selects or deselects one processed row.
func (t *Table[T]) HandleSelect(item T, index int, selected bool) {
	t.update(func() {
		if t.columns == nil {
			return
		}
		t.sel.HandleSelect(item, index, selected)
	})
}

// HandleSelectAll selects every processed row or clears the selection.
func (t *Table[T]) HandleSelectAll(selected bool) {
	t.update(func() {
		if t.columns == nil {
			return
		}
		t.sel.HandleSelectAll(selected)
	})
}

// ProcessedData returns the filtered and sorted records.
func (t *Table[T]) ProcessedData() []T {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]T{}, t.processed...)
}

// PaginatedData returns the records on the current page.
func (t *Table[T]) PaginatedData() []T {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]T{}, t.paginated...)
}

// Metadata describes the current page. Without pagination the whole
// processed set is one page.
func (t *Table[T]) Metadata() pagination.Metadata {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.metadata()
}

func (t *Table[T]) metadata() pagination.Metadata {
	if t.pagination != nil {
		return pagination.CalculateMetadata(*t.pagination)
	}
	n := len(t.processed)
	return pagination.CalculateMetadata(core.PaginationConfig{PageSize: max(n, 1), CurrentPage: 1, TotalItems: n})
}

// Pagination returns the pagination config and whether paging is enabled.
func (t *Table[T]) Pagination() (core.PaginationConfig, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pagination == nil {
		return core.PaginationConfig{}, false
	}
	return *t.pagination, true
}

// SortConfig returns a copy of the sort, or nil.
func (t *Table[T]) SortConfig() *core.SortConfig {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sort == nil {
		return nil
	}
	c := *t.sort
	return &c
}

// Filters returns the active filter conditions.
func (t *Table[T]) Filters() []core.Condition {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.filters)
}

// Search returns the global search term.
func (t *Table[T]) Search() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.search
}

// Columns returns the column set.
func (t *Table[T]) Columns() []core.Column[T] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.columns)
}

// SelectedItems returns the selected records.
func (t *Table[T]) SelectedItems() []T {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sel.SelectedItems()
}

// SelectedIndices returns the processed-set indices of the selected records.
func (t *Table[T]) SelectedIndices() []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sel.SelectedIndices()
}

// IsSelected reports whether the row is selected.
func (t *Table[T]) IsSelected(item T, index int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sel.IsSelected(item, index)
}

// IsAllSelected reports whether every processed row is selected.
func (t *Table[T]) IsAllSelected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sel.IsAllSelected()
}

// IsPartiallySelected reports whether some but not all rows are selected.
func (t *Table[T]) IsPartiallySelected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sel.IsPartiallySelected()
}

// View returns a snapshot of the current state.
func (t *Table[T]) View() View[T] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.view()
}

func (t *Table[T]) view() View[T] {
	v := View[T]{
		Processed:       append([]T{}, t.processed...),
		Page:            append([]T{}, t.paginated...),
		Metadata:        t.metadata(),
		Paginated:       t.pagination != nil,
		Filters:         slices.Clone(t.filters),
		Search:          t.search,
		SelectedIndices: t.sel.SelectedIndices(),
		Version:         t.version,
	}
	if t.pagination != nil {
		v.Pagination = *t.pagination
		v.Pagination.PageSizeOptions = slices.Clone(t.pagination.PageSizeOptions)
	}
	if t.sort != nil {
		s := *t.sort
		v.Sort = &s
	}
	return v
}
