package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TFMV/partskeeper/metrics"
	"github.com/TFMV/partskeeper/pkg/core"
	"github.com/TFMV/partskeeper/pkg/inventory"
	"github.com/TFMV/partskeeper/pkg/table"
)

var fixedNow = func() time.Time { return time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC) }

func createTestReport(t *testing.T) PageReport {
	t.Helper()
	mc := metrics.NewStageCollector()
	tbl := table.New(table.Options[inventory.Part]{
		Columns:    inventory.Columns(),
		Sortable:   true,
		Selection:  core.SelectionMultiple,
		GetRowID:   inventory.RowID,
		Pagination: &core.PaginationConfig{PageSize: 3, CurrentPage: 1},
		Metrics:    mc,
		Logger:     zap.NewNop(),
	})
	tbl.SetData([]inventory.Part{
		{ID: "1", SKU: "GPU-1", Name: "RTX 4070", Category: "GPU", Price: 599, Stock: inventory.IntPtr(1), ReorderLevel: 2},
		{ID: "2", SKU: "CPU-1", Name: "Ryzen 7 7800X3D", Category: "CPU", Price: 449, Stock: inventory.IntPtr(12)},
		{ID: "3", SKU: "RAM-1", Name: "DDR5 <32GB>", Category: "RAM", Price: 109.5},
		{ID: "4", SKU: "GPU-2", Name: "RX 7800 XT", Category: "GPU", Price: 499, Stock: inventory.IntPtr(0)},
	})
	tbl.SetSortConfig(&core.SortConfig{Column: "price", Direction: core.Asc})
	tbl.HandleSelect(tbl.ProcessedData()[0], 0, true)

	snap := mc.Snapshot()
	return Build(tbl.Columns(), tbl.View(), Options{
		Title:      "Parts",
		Breakpoint: core.BreakpointXS,
		Metrics:    &snap,
		Now:        fixedNow,
	})
}

func TestBuild(t *testing.T) {
	r := createTestReport(t)

	assert.Equal(t, "Parts", r.Title)
	assert.Equal(t, []string{"sku", "name", "category", "price", "stock", "status"}, r.Keys)
	assert.Equal(t, "SKU", r.Headers[0])
	require.Len(t, r.Rows, 3)
	assert.Equal(t, []string{"RAM-1", "DDR5 <32GB>", "RAM", "$109.50", "-", "unknown"}, r.Rows[0].Cells)
	assert.True(t, r.Rows[0].Selected)
	assert.False(t, r.Rows[1].Selected)
	assert.Equal(t, 4, r.TotalItems)
	assert.Equal(t, "price asc", r.Sort)
	assert.Equal(t, 1, r.Selected)
	assert.Equal(t, []PageLink{{Label: "1", Page: 1, Current: true}, {Label: "2", Page: 2}}, r.Pages)
	assert.Equal(t, "Showing 1-3 of 4", r.Summary())
	assert.NotEmpty(t, r.Stages)
}

func TestBuildSecondPageIndices(t *testing.T) {
	tbl := table.New(table.Options[inventory.Part]{
		Columns:    inventory.Columns(),
		Selection:  core.SelectionMultiple,
		Pagination: &core.PaginationConfig{PageSize: 2, CurrentPage: 1},
		Logger:     zap.NewNop(),
	})
	parts := inventory.SampleParts(5, 3)
	tbl.SetData(parts)
	tbl.HandleSelect(parts[3], 3, true)
	tbl.HandlePageChange(2)

	r := Build(tbl.Columns(), tbl.View(), Options{Now: fixedNow})
	assert.Equal(t, "Inventory", r.Title)
	require.Len(t, r.Rows, 2)
	assert.Equal(t, 2, r.Rows[0].Index)
	assert.True(t, r.Rows[1].Selected)
	assert.Equal(t, 2, r.CurrentPage)
}

func TestJSONReportGenerator(t *testing.T) {
	r := createTestReport(t)
	generator := &JSONReportGenerator{}

	data, err := generator.GeneratePageReport(r)
	require.NoError(t, err)

	var decoded PageReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, r.Rows, decoded.Rows)

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, generator.SaveReportToFile(r, path))
	loaded, err := ReportFromFilePath(path)
	require.NoError(t, err)
	assert.Equal(t, r.Title, loaded.Title)
	assert.True(t, r.GeneratedAt.Equal(loaded.GeneratedAt))
}

func TestHTMLReportGenerator(t *testing.T) {
	r := createTestReport(t)
	generator, err := NewHTMLReportGenerator()
	require.NoError(t, err)

	data, err := generator.GeneratePageReport(r)
	require.NoError(t, err)

	html := string(data)
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Parts</title>",
		`<tr class="selected">`,
		`<td class="right">$109.50</td>`,
		"DDR5 &lt;32GB&gt;",
		"Showing 1-3 of 4",
		`<span class="current">1</span>`,
		"Pipeline Stages",
		"2025-06-01T09:30:00Z",
	} {
		assert.Contains(t, html, want)
	}
	assert.NotContains(t, html, "<32GB>")
}

func TestTextReportGenerator(t *testing.T) {
	r := createTestReport(t)
	data, err := (&TextReportGenerator{}).GeneratePageReport(r)
	require.NoError(t, err)

	lines := strings.Split(string(data), "\n")
	assert.Equal(t, "Parts", lines[0])
	assert.Equal(t, "Sorted by price asc", lines[1])
	assert.Contains(t, string(data), "Showing 1-3 of 4 | page 1 of 2 | 1 selected")
	assert.Contains(t, string(data), "[1] 2")

	var selectedRow string
	for _, l := range lines {
		if strings.Contains(l, "RAM-1") {
			selectedRow = l
		}
	}
	assert.True(t, strings.HasPrefix(selectedRow, "*"), selectedRow)
}

func TestNewGenerator(t *testing.T) {
	for _, format := range []string{"json", "HTML", "text", ""} {
		g, err := NewGenerator(format)
		require.NoError(t, err, format)
		assert.NotNil(t, g)
	}
	_, err := NewGenerator("pdf")
	assert.ErrorIs(t, err, core.ErrUnsupportedFormat)
}

func TestSaveReports(t *testing.T) {
	r := createTestReport(t)
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "r.json")
	htmlPath := filepath.Join(dir, "r.html")
	require.NoError(t, SaveReports(r, jsonPath, htmlPath))

	for _, p := range []string{jsonPath, htmlPath} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}
