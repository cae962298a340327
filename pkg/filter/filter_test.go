package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/partskeeper/pkg/core"
)

type part struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Price    float64  `json:"price"`
	Stock    *int     `json:"stock"`
	Supplier supplier `json:"supplier"`
}

type supplier struct {
	Name string `json:"name"`
}

func intPtr(n int) *int { return &n }

func fixtures() ([]part, []core.Column[part]) {
	data := []part{
		{ID: 1, Name: "Ryzen 7 7800X3D", Category: "CPU", Price: 449, Stock: intPtr(12), Supplier: supplier{"Acme"}},
		{ID: 2, Name: "GeForce RTX 4070", Category: "GPU", Price: 599.99, Stock: intPtr(3), Supplier: supplier{"Bolt"}},
		{ID: 3, Name: "Core i5 13600K", Category: "CPU", Price: 289, Stock: nil, Supplier: supplier{"Acme"}},
		{ID: 4, Name: "Radeon RX 7800 XT", Category: "GPU", Price: 499, Stock: intPtr(0), Supplier: supplier{"Circuit"}},
	}
	columns := []core.Column[part]{
		{Key: "id", Field: "id", DisableFiltering: true},
		{Key: "name", Field: "name"},
		{Key: "category", Field: "category"},
		{Key: "price", Field: "price"},
		{Key: "stock", Field: "stock"},
		{Key: "supplier", Field: "supplier.name"},
	}
	return data, columns
}

func ids(items []part) []int {
	out := make([]int, len(items))
	for i, p := range items {
		out[i] = p.ID
	}
	return out
}

func TestFilterDataOperators(t *testing.T) {
	data, columns := fixtures()

	tests := []struct {
		name string
		cond core.Condition
		want []int
	}{
		{"equals string", core.Condition{Column: "category", Value: "GPU", Operator: core.OpEquals}, []int{2, 4}},
		{"equals is case sensitive", core.Condition{Column: "category", Value: "gpu", Operator: core.OpEquals}, []int{}},
		{"equals number across kinds", core.Condition{Column: "price", Value: 449, Operator: core.OpEquals}, []int{1}},
		{"equals string never matches number", core.Condition{Column: "price", Value: "449", Operator: core.OpEquals}, []int{}},
		{"equals nil matches nil field only", core.Condition{Column: "stock", Value: nil, Operator: core.OpEquals}, []int{3}},
		{"equals through pointer", core.Condition{Column: "stock", Value: 3, Operator: core.OpEquals}, []int{2}},
		{"contains ignores case", core.Condition{Column: "name", Value: "rtx", Operator: core.OpContains}, []int{2}},
		{"startsWith", core.Condition{Column: "name", Value: "core", Operator: core.OpStartsWith}, []int{3}},
		{"endsWith", core.Condition{Column: "name", Value: "xt", Operator: core.OpEndsWith}, []int{4}},
		{"contains skips nil", core.Condition{Column: "stock", Value: "", Operator: core.OpContains}, []int{1, 2, 4}},
		{"gt", core.Condition{Column: "price", Value: 450, Operator: core.OpGT}, []int{2, 4}},
		{"gte numeric string", core.Condition{Column: "price", Value: "499", Operator: core.OpGTE}, []int{2, 4}},
		{"lt", core.Condition{Column: "stock", Value: 5, Operator: core.OpLT}, []int{2, 4}},
		{"lte", core.Condition{Column: "price", Value: 289, Operator: core.OpLTE}, []int{3}},
		{"NaN never matches", core.Condition{Column: "price", Value: "cheap", Operator: core.OpLT}, []int{}},
		{"nested path", core.Condition{Column: "supplier", Value: "Acme", Operator: core.OpEquals}, []int{1, 3}},
		{"unknown column ignored", core.Condition{Column: "color", Value: "red", Operator: core.OpEquals}, []int{1, 2, 3, 4}},
		{"unknown operator passes", core.Condition{Column: "name", Value: "x", Operator: "regex"}, []int{1, 2, 3, 4}},
		{"advanced operator ignored", core.Condition{Column: "stock", Operator: core.OpIsNull}, []int{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterData(data, columns, []core.Condition{tt.cond})
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilterDataConditionsAreANDed(t *testing.T) {
	data, columns := fixtures()
	got := FilterData(data, columns, []core.Condition{
		{Column: "category", Value: "CPU", Operator: core.OpEquals},
		{Column: "price", Value: 300, Operator: core.OpGT},
	})
	assert.Equal(t, []int{1}, ids(got))
}

func TestFilterDataEmptyReturnsCopy(t *testing.T) {
	data, columns := fixtures()
	got := FilterData(data, columns, nil)
	require.Equal(t, data, got)

	got[0].Name = "changed"
	assert.Equal(t, "Ryzen 7 7800X3D", data[0].Name)
}

func TestFilterDataCustomPredicate(t *testing.T) {
	data, columns := fixtures()
	columns[4].FilterBy = func(p part, value any, op core.Operator) bool {
		return p.Stock != nil && *p.Stock > 0
	}
	got := FilterData(data, columns, []core.Condition{{Column: "stock", Operator: "inStock"}})
	assert.Equal(t, []int{1, 2}, ids(got))
}

func TestFilterDataIdempotent(t *testing.T) {
	data, columns := fixtures()
	conditionSets := [][]core.Condition{
		{{Column: "name", Value: "r", Operator: core.OpContains}},
		{{Column: "price", Value: 400, Operator: core.OpGTE}, {Column: "category", Value: "GPU", Operator: core.OpEquals}},
		{{Column: "stock", Value: nil, Operator: core.OpEquals}},
		{{Column: "supplier", Value: "t", Operator: core.OpEndsWith}},
	}
	for _, conditions := range conditionSets {
		once := FilterData(data, columns, conditions)
		twice := FilterData(once, columns, conditions)
		assert.Equal(t, once, twice)
	}
}

func TestFilterDataMapRecords(t *testing.T) {
	data := []map[string]any{
		{"name": "PSU 750W", "specs": map[string]any{"watts": 750}},
		{"name": "PSU 550W", "specs": map[string]any{"watts": 550}},
		{"name": "Case"},
	}
	columns := []core.Column[map[string]any]{
		{Key: "name", Field: "name"},
		{Key: "watts", Field: "specs.watts"},
	}
	got := FilterData(data, columns, []core.Condition{{Column: "watts", Value: 600, Operator: core.OpGT}})
	require.Len(t, got, 1)
	assert.Equal(t, "PSU 750W", got[0]["name"])
}

func TestMatches(t *testing.T) {
	data, columns := fixtures()
	cond := []core.Condition{{Column: "category", Value: "CPU", Operator: core.OpEquals}}
	assert.True(t, Matches(data[0], columns, cond))
	assert.False(t, Matches(data[1], columns, cond))
}
