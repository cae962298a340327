// Package selection tracks which rows of a processed record set are
// selected. Selected items and their indices are kept in lockstep.
package selection

import (
	"slices"
	"strconv"

	"github.com/TFMV/partskeeper/pkg/core"
)

// ChangeFunc receives the committed selection after every mutation.
type ChangeFunc[T any] func(items []T, indices []int)

// Options configures a Manager.
type Options[T any] struct {
	// Mode defaults to SelectionNone.
	Mode core.SelectionMode
	// GetRowID returns a stable identity for a row. Without it rows are
	// identified by their position in the processed set.
	GetRowID func(item T, index int) string
	// OnChange is called synchronously after each mutation.
	OnChange ChangeFunc[T]
}

// Manager holds selection state. It is not safe for concurrent use.
type Manager[T any] struct {
	opts Options[T]

	items   []T
	indices []int
	keys    []string

	processed []T
}

// New returns an empty Manager.
func New[T any](opts Options[T]) *Manager[T] {
	if opts.Mode == "" {
		opts.Mode = core.SelectionNone
	}
	return &Manager[T]{opts: opts}
}

// Mode returns the selection mode.
func (m *Manager[T]) Mode() core.SelectionMode { return m.opts.Mode }

func (m *Manager[T]) key(item T, index int) string {
	if m.opts.GetRowID != nil {
		return m.opts.GetRowID(item, index)
	}
	return strconv.Itoa(index)
}

// HandleSelect selects or deselects one row. In single mode selecting
// replaces the current selection; in multiple mode it appends unless the
// row is already selected.
func (m *Manager[T]) HandleSelect(item T, index int, selected bool) {
	if m.opts.Mode == core.SelectionNone {
		return
	}
	k := m.key(item, index)
	pos := slices.Index(m.keys, k)

	switch {
	case selected && m.opts.Mode == core.SelectionSingle:
		m.items, m.indices, m.keys = []T{item}, []int{index}, []string{k}
	case selected && pos < 0:
		m.items = append(m.items, item)
		m.indices = append(m.indices, index)
		m.keys = append(m.keys, k)
	case !selected && pos >= 0:
		m.removeAt(pos)
	}
	m.notify()
}

// HandleSelectAll selects the whole processed set or clears the selection.
// Single mode is no exception; a later HandleSelect narrows it again.
func (m *Manager[T]) HandleSelectAll(selected bool) {
	if m.opts.Mode == core.SelectionNone {
		return
	}
	if !selected {
		m.reset()
		m.notify()
		return
	}

	n := len(m.processed)
	m.items = slices.Clone(m.processed)
	m.indices = make([]int, n)
	m.keys = make([]string, n)
	for i, item := range m.processed {
		m.indices[i] = i
		m.keys[i] = m.key(item, i)
	}
	m.notify()
}

// Clear deselects everything.
func (m *Manager[T]) Clear() {
	if m.opts.Mode == core.SelectionNone {
		return
	}
	m.reset()
	m.notify()
}

// SetProcessed informs the manager of the current processed set. With a
// GetRowID function, selected rows follow their identity to their new
// positions and rows no longer present are deselected.
func (m *Manager[T]) SetProcessed(items []T) {
	m.processed = items
	if m.opts.GetRowID == nil || len(m.keys) == 0 {
		return
	}

	positions := make(map[string]int, len(items))
	for i, item := range items {
		k := m.key(item, i)
		if _, seen := positions[k]; !seen {
			positions[k] = i
		}
	}

	changed := false
	var kept []T
	var indices []int
	var keys []string
	for i, k := range m.keys {
		pos, ok := positions[k]
		if !ok {
			changed = true
			continue
		}
		if pos != m.indices[i] {
			changed = true
		}
		kept = append(kept, items[pos])
		indices = append(indices, pos)
		keys = append(keys, k)
	}
	if changed {
		m.items, m.indices, m.keys = kept, indices, keys
		m.notify()
	}
}

// IsSelected reports whether the row is selected.
func (m *Manager[T]) IsSelected(item T, index int) bool {
	return slices.Contains(m.keys, m.key(item, index))
}

// IsAllSelected reports whether every processed row is selected.
func (m *Manager[T]) IsAllSelected() bool {
	return len(m.processed) > 0 && len(m.indices) == len(m.processed)
}

// IsPartiallySelected reports whether some but not all rows are selected.
func (m *Manager[T]) IsPartiallySelected() bool {
	return len(m.processed) > 0 && len(m.indices) > 0 && len(m.indices) < len(m.processed)
}

// SelectedItems returns a copy of the selected items.
func (m *Manager[T]) SelectedItems() []T {
	return append([]T{}, m.items...)
}

// SelectedIndices returns a copy of the selected indices.
func (m *Manager[T]) SelectedIndices() []int {
	return append([]int{}, m.indices...)
}

// Count returns the number of selected rows.
func (m *Manager[T]) Count() int { return len(m.indices) }

func (m *Manager[T]) removeAt(pos int) {
	m.items = slices.Delete(m.items, pos, pos+1)
	m.indices = slices.Delete(m.indices, pos, pos+1)
	m.keys = slices.Delete(m.keys, pos, pos+1)
}

func (m *Manager[T]) reset() {
	m.items, m.indices, m.keys = nil, nil, nil
}

// notify hands the committed state to the callback.
func (m *Manager[T]) notify() {
	if m.opts.OnChange != nil {
		m.opts.OnChange(m.SelectedItems(), m.SelectedIndices())
	}
}
