package inventory

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/TFMV/partskeeper/pkg/compare"
	"github.com/TFMV/partskeeper/pkg/core"
)

// Columns returns the default inventory table layout.
func Columns() []core.Column[Part] {
	return []core.Column[Part]{
		{Key: "sku", Field: "sku", Header: "SKU", Width: "120px", Sticky: core.StickyLeft},
		{Key: "name", Field: "name", Header: "Name", Resizable: true},
		{Key: "category", Field: "category", Header: "Category"},
		{Key: "manufacturer", Field: "manufacturer", Header: "Manufacturer", HiddenOn: []core.Breakpoint{core.BreakpointXS}},
		{
			Key: "price", Field: "price", Header: "Price", Align: core.AlignRight,
			SortBy: core.BuiltIn[Part](core.SortNumeric),
			Render: func(p Part, _ int) string { return FormatPrice(p.Price) },
		},
		{
			Key: "stock", Field: "stock", Header: "Stock", Align: core.AlignRight,
			SortBy: core.BuiltIn[Part](core.SortNumeric),
			Render: func(p Part, _ int) string {
				if p.Stock == nil {
					return "-"
				}
				return strconv.Itoa(*p.Stock)
			},
		},
		{
			Key: "status", Header: "Status",
			Render: func(p Part, _ int) string { return p.Status() },
			SortBy: core.Custom(compareStatus),
			FilterBy: func(p Part, value any, op core.Operator) bool {
				want := strings.ToLower(strings.TrimSpace(compare.ToString(value)))
				if op == core.OpEquals {
					return p.Status() == want
				}
				return strings.Contains(p.Status(), want)
			},
		},
		{Key: "supplier", Field: "supplier.name", Header: "Supplier", HiddenOn: []core.Breakpoint{core.BreakpointXS, core.BreakpointSM}},
		{
			Key: "added", Field: "added_at", Header: "Added",
			SortBy:           core.BuiltIn[Part](core.SortDate),
			DisableFiltering: true,
			HiddenOn:         []core.Breakpoint{core.BreakpointXS, core.BreakpointSM},
			Render: func(p Part, _ int) string {
				if p.AddedAt.IsZero() {
					return ""
				}
				return p.AddedAt.Format("2006-01-02")
			},
		},
		{
			Key: "notes", Field: "notes", Header: "Notes",
			DisableSorting: true,
			HiddenOn:       []core.Breakpoint{core.BreakpointXS, core.BreakpointSM, core.BreakpointMD},
		},
	}
}

// ExportColumns lists every stored field of a part, flattened so that
// FromRecord reads an exported file back.
func ExportColumns() []core.Column[Part] {
	return []core.Column[Part]{
		{Key: "id", Field: "id"},
		{Key: "sku", Field: "sku"},
		{Key: "name", Field: "name"},
		{Key: "category", Field: "category"},
		{Key: "manufacturer", Field: "manufacturer"},
		{Key: "price", Field: "price"},
		{Key: "stock", Field: "stock"},
		{Key: "reorder_level", Field: "reorder_level"},
		{Key: "supplier_name", Field: "supplier.name"},
		{Key: "supplier_country", Field: "supplier.country"},
		{Key: "added_at", Field: "added_at"},
		{Key: "notes", Field: "notes"},
		{Key: "status", Render: func(p Part, _ int) string { return p.Status() }},
	}
}

// RowID identifies parts by ID so selection survives re-sorting.
func RowID(p Part, _ int) string { return p.ID }

// FormatPrice renders a price in dollars.
func FormatPrice(price float64) string {
	return fmt.Sprintf("$%.2f", price)
}

// LowStockFilter selects parts at or below their reorder level.
func LowStockFilter() core.Condition {
	return core.Condition{Column: "status", Value: "low", Operator: core.OpEquals}
}

var statusRank = map[string]int{"low": 0, "ok": 1, "unknown": 2}

// compareStatus orders low stock first and unknown stock last.
func compareStatus(a, b Part) int {
	return statusRank[a.Status()] - statusRank[b.Status()]
}
