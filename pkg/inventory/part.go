// Package inventory holds the PC part record, its default column set and
// an in-memory parts service standing in for a backend.
package inventory

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/TFMV/partskeeper/internal/fieldpath"
	"github.com/TFMV/partskeeper/pkg/compare"
)

// ErrInvalidPart is returned when a part fails validation.
var ErrInvalidPart = errors.New("invalid part")

// Categories lists the part categories used by the sample data.
var Categories = []string{"CPU", "GPU", "Motherboard", "RAM", "Storage", "PSU", "Case", "Cooling"}

// Supplier is where a part is ordered from.
type Supplier struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

// Part is one inventory line.
type Part struct {
	ID           string    `json:"id"`
	SKU          string    `json:"sku"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Manufacturer string    `json:"manufacturer"`
	Price        float64   `json:"price"`
	Stock        *int      `json:"stock"` // nil when the count is unknown
	ReorderLevel int       `json:"reorder_level"`
	Supplier     *Supplier `json:"supplier,omitempty"`
	AddedAt      time.Time `json:"added_at"`
	Notes        string    `json:"notes,omitempty"`
}

// LowStock reports whether the stock count is known and at or below the
// reorder level.
func (p Part) LowStock() bool {
	return p.Stock != nil && *p.Stock <= p.ReorderLevel
}

// Status is "unknown", "low" or "ok".
func (p Part) Status() string {
	switch {
	case p.Stock == nil:
		return "unknown"
	case p.LowStock():
		return "low"
	}
	return "ok"
}

// Validate checks the fields a part needs before it can be stored.
func (p Part) Validate() error {
	var errs []error
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, fmt.Errorf("%w: name is required", ErrInvalidPart))
	}
	if p.Price < 0 || math.IsNaN(p.Price) {
		errs = append(errs, fmt.Errorf("%w: price must be non-negative, got %v", ErrInvalidPart, p.Price))
	}
	if p.Stock != nil && *p.Stock < 0 {
		errs = append(errs, fmt.Errorf("%w: stock must be non-negative, got %d", ErrInvalidPart, *p.Stock))
	}
	if p.ReorderLevel < 0 {
		errs = append(errs, fmt.Errorf("%w: reorder level must be non-negative, got %d", ErrInvalidPart, p.ReorderLevel))
	}
	return errors.Join(errs...)
}

// Clone returns a deep copy of p.
func (p Part) Clone() Part {
	if p.Stock != nil {
		s := *p.Stock
		p.Stock = &s
	}
	if p.Supplier != nil {
		s := *p.Supplier
		p.Supplier = &s
	}
	return p
}

// IntPtr returns a pointer to n.
func IntPtr(n int) *int { return &n }

// FromRecord builds a part from a loosely typed record, such as a row
// loaded from a CSV or Parquet file. Supplier fields may be nested under
// "supplier" or flattened as "supplier_name" and "supplier_country".
// Missing fields are left at their zero value; a missing or empty stock
// stays unknown.
func FromRecord(rec map[string]any) (Part, error) {
	str := func(path string) string {
		return compare.ToString(fieldpath.Value(rec, path))
	}
	p := Part{
		ID:           str("id"),
		SKU:          str("sku"),
		Name:         str("name"),
		Category:     str("category"),
		Manufacturer: str("manufacturer"),
		Notes:        str("notes"),
	}

	if v, ok := rec["price"]; ok && !compare.IsNil(v) {
		p.Price = compare.ToNumber(v)
		if math.IsNaN(p.Price) {
			return Part{}, fmt.Errorf("%w: price %q is not a number", ErrInvalidPart, compare.ToString(v))
		}
	}
	if v, ok := rec["stock"]; ok && !compare.IsNil(v) && compare.ToString(v) != "" {
		n := compare.ToNumber(v)
		if math.IsNaN(n) {
			return Part{}, fmt.Errorf("%w: stock %q is not a number", ErrInvalidPart, compare.ToString(v))
		}
		p.Stock = IntPtr(int(n))
	}
	if v, ok := rec["reorder_level"]; ok && !compare.IsNil(v) {
		n := compare.ToNumber(v)
		if !math.IsNaN(n) {
			p.ReorderLevel = int(n)
		}
	}
	if v, ok := rec["added_at"]; ok && !compare.IsNil(v) {
		if t, ok := compare.ToTime(v); ok {
			p.AddedAt = t
		}
	}

	name, country := str("supplier.name"), str("supplier.country")
	if name == "" {
		name, country = str("supplier_name"), str("supplier_country")
	}
	if name != "" || country != "" {
		p.Supplier = &Supplier{Name: name, Country: country}
	}
	return p, nil
}

// FromRecords converts every record, stopping at the first error.
func FromRecords(recs []map[string]any) ([]Part, error) {
	parts := make([]Part, 0, len(recs))
	for i, rec := range recs {
		p, err := FromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		parts = append(parts, p)
	}
	return parts, nil
}
