package table

import "github.com/TFMV/partskeeper/pkg/core"

// Window is the slice of rows a virtual scroller should render.
// Rows [Start, End) are drawn starting OffsetTop pixels from the top of a
// TotalHeight tall scroll area.
type Window struct {
	Start       int `json:"start"`
	End         int `json:"end"`
	OffsetTop   int `json:"offset_top"`
	TotalHeight int `json:"total_height"`
}

// Len returns the number of rows in the window.
func (w Window) Len() int { return w.End - w.Start }

// ComputeWindow returns the rows visible in a viewport of viewportHeight
// scrolled to scrollTop, widened by overscan rows on each side. A row
// height below 1 disables windowing and returns every row.
func ComputeWindow(total, scrollTop, viewportHeight, rowHeight, overscan int) Window {
	if total <= 0 {
		return Window{}
	}
	if rowHeight < 1 {
		return Window{Start: 0, End: total}
	}
	scrollTop = max(scrollTop, 0)
	viewportHeight = max(viewportHeight, 0)
	overscan = max(overscan, 0)

	first := scrollTop / rowHeight
	visible := (viewportHeight + rowHeight - 1) / rowHeight

	start := min(max(first-overscan, 0), total)
	end := min(first+visible+overscan, total)
	end = max(end, start)
	return Window{
		Start:       start,
		End:         end,
		OffsetTop:   start * rowHeight,
		TotalHeight: total * rowHeight,
	}
}

// VirtualWindow computes the render window over the processed rows.
func (t *Table[T]) VirtualWindow(scrollTop, viewportHeight, rowHeight, overscan int) Window {
	t.mu.Lock()
	defer t.mu.Unlock()
	return ComputeWindow(len(t.processed), scrollTop, viewportHeight, rowHeight, overscan)
}

// VisibleColumns returns the columns shown at breakpoint bp.
func (t *Table[T]) VisibleColumns(bp core.Breakpoint) []core.Column[T] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return VisibleColumns(t.columns, bp)
}

// VisibleColumns filters out hidden columns and those hidden at bp.
func VisibleColumns[T any](columns []core.Column[T], bp core.Breakpoint) []core.Column[T] {
	out := make([]core.Column[T], 0, len(columns))
	for i := range columns {
		if !columns[i].HiddenAt(bp) {
			out = append(out, columns[i])
		}
	}
	return out
}
