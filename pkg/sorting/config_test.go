package sorting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TFMV/partskeeper/pkg/core"
)

func TestCreateSortConfigCycles(t *testing.T) {
	var cfg *core.SortConfig
	var got []core.Direction
	for i := 0; i < 4; i++ {
		cfg = CreateSortConfig("x", cfg)
		assert.Equal(t, "x", cfg.Column)
		got = append(got, cfg.Direction)
	}
	assert.Equal(t, []core.Direction{core.Asc, core.Desc, core.None, core.Asc}, got)
}

func TestCreateSortConfigOtherColumnResets(t *testing.T) {
	prev := &core.SortConfig{Column: "price", Direction: core.Desc}
	cfg := CreateSortConfig("name", prev)
	assert.Equal(t, &core.SortConfig{Column: "name", Direction: core.Asc}, cfg)
	assert.Equal(t, core.Desc, prev.Direction)
}

func TestAddSortColumn(t *testing.T) {
	sorts := AddSortColumn(nil, "category", core.Asc)
	sorts = AddSortColumn(sorts, "price", core.Desc)
	assert.Equal(t, []core.MultiSortConfig{
		{Column: "category", Direction: core.Asc, Priority: 1},
		{Column: "price", Direction: core.Desc, Priority: 2},
	}, sorts)

	updated := AddSortColumn(sorts, "category", core.Desc)
	assert.Equal(t, core.Desc, updated[0].Direction)
	assert.Equal(t, 1, updated[0].Priority)
	assert.Equal(t, core.Asc, sorts[0].Direction, "input must not change")
}

func TestRemoveSortColumnRenumbers(t *testing.T) {
	sorts := []core.MultiSortConfig{
		{Column: "a", Direction: core.Asc, Priority: 1},
		{Column: "b", Direction: core.Asc, Priority: 2},
		{Column: "c", Direction: core.Desc, Priority: 3},
	}
	got := RemoveSortColumn(sorts, "a")
	assert.Equal(t, []core.MultiSortConfig{
		{Column: "b", Direction: core.Asc, Priority: 1},
		{Column: "c", Direction: core.Desc, Priority: 2},
	}, got)
	assert.Len(t, sorts, 3)
	assert.Empty(t, RemoveSortColumn(nil, "a"))
}

func TestToggleMultiSort(t *testing.T) {
	var sorts []core.MultiSortConfig
	sorts = ToggleMultiSort(sorts, "a")
	sorts = ToggleMultiSort(sorts, "b")
	assert.Equal(t, []core.MultiSortConfig{
		{Column: "a", Direction: core.Asc, Priority: 1},
		{Column: "b", Direction: core.Asc, Priority: 2},
	}, sorts)

	sorts = ToggleMultiSort(sorts, "a")
	assert.Equal(t, core.Desc, sorts[0].Direction)

	sorts = ToggleMultiSort(sorts, "a")
	assert.Equal(t, []core.MultiSortConfig{{Column: "b", Direction: core.Asc, Priority: 1}}, sorts)
}

func TestNextDirection(t *testing.T) {
	assert.Equal(t, core.Asc, NextDirection(""))
	assert.Equal(t, core.Desc, NextDirection(core.Asc))
	assert.Equal(t, core.None, NextDirection(core.Desc))
	assert.Equal(t, core.Asc, NextDirection(core.None))
}
