package main

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TFMV/partskeeper/metrics"
	"github.com/TFMV/partskeeper/pkg/compare"
	"github.com/TFMV/partskeeper/pkg/core"
	"github.com/TFMV/partskeeper/pkg/filter"
	"github.com/TFMV/partskeeper/pkg/inventory"
	"github.com/TFMV/partskeeper/pkg/readers"
	"github.com/TFMV/partskeeper/pkg/store"
	"github.com/TFMV/partskeeper/pkg/table"
	"github.com/TFMV/partskeeper/validation"
)

// maxParallelLoads bounds how many files are read at once.
const maxParallelLoads = 4

// dataset is what the commands work on: either inventory parts or, when the
// files do not describe parts, raw records with inferred columns.
type dataset struct {
	datasets []*readers.Dataset
	parts    []inventory.Part
	records  []readers.Record
	columns  []core.Column[readers.Record]
}

func (d *dataset) isParts() bool { return d.records == nil }

func (d *dataset) len() int {
	if d.isParts() {
		return len(d.parts)
	}
	return len(d.records)
}

// load reads the configured files, or generates sample parts when there
// are none.
func (a *app) load(ctx context.Context, progress io.Writer) (*dataset, error) {
	files := a.cfg.Data.Files
	if len(files) == 0 {
		parts := inventory.SampleParts(a.cfg.Data.SampleSize, a.cfg.Data.Seed)
		a.log.Info("Using sample inventory",
			zap.Int("parts", len(parts)),
			zap.Uint64("seed", a.cfg.Data.Seed))
		return &dataset{parts: parts}, nil
	}

	if !a.quiet {
		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(progress))
		s.Suffix = fmt.Sprintf(" Loading %d file(s)...", len(files))
		s.Start()
		defer s.Stop()
	}

	configs := make([]readers.Config, len(files))
	for i, f := range files {
		configs[i] = readers.Config{Type: strings.ToLower(a.cfg.Data.Format), Path: f}
	}

	start := time.Now()
	datasets, err := readers.LoadFiles(ctx, maxParallelLoads, configs...)
	if err != nil {
		return nil, err
	}
	records := readers.Records(datasets)
	a.mc.RecordStage(metrics.StageLoad, time.Since(start), len(records))

	d := &dataset{datasets: datasets}
	if !a.raw && a.describesParts(datasets) {
		parts, err := inventory.FromRecords(records)
		if err == nil {
			d.parts = parts
			return d, nil
		}
		a.log.Warn("Records do not convert to parts, showing raw columns", zap.Error(err))
	}

	d.records = records
	if d.records == nil {
		d.records = []readers.Record{}
	}
	if len(datasets) == 1 && datasets[0].Schema != nil {
		d.columns = readers.InferColumns(datasets[0].Schema)
	} else {
		d.columns = readers.ColumnsFromRecords(records)
	}
	return d, nil
}

// describesParts reports whether every dataset carries the part fields.
func (a *app) describesParts(datasets []*readers.Dataset) bool {
	v := validation.NewSchemaValidator(a.log, validation.InventoryRules()...)
	for _, ds := range datasets {
		if ds.Schema != nil {
			if !v.ValidateSchema(ds.Schema).Valid {
				return false
			}
			continue
		}
		for _, rec := range ds.Records {
			for _, key := range []string{"id", "name", "price"} {
				if _, ok := rec[key]; !ok {
					return false
				}
			}
		}
	}
	return true
}

// tableFlags are the view options shared by list, pages and export.
type tableFlags struct {
	search    string
	searchAll bool
	filters   []string
	lowStock  bool
	sort      string
	desc      bool
	page      int
	pageSize  int
	selectIDs []string
	// extra conditions added by the command, such as the low stock filter
	extra []core.Condition
}

func addTableFlags(cmd *cobra.Command, f *tableFlags) {
	fs := cmd.Flags()
	fs.StringVarP(&f.search, "search", "s", "", "Search term matched against every filterable column")
	fs.BoolVar(&f.searchAll, "search-all", false, "Require every filterable column to contain the search term")
	fs.StringArrayVar(&f.filters, "filter", nil, "Filter as column:operator:value (repeatable)")
	fs.BoolVar(&f.lowStock, "low-stock", false, "Only parts at or below their reorder level")
	fs.StringVar(&f.sort, "sort", "", "Sort column; overrides table.sort_column")
	fs.BoolVar(&f.desc, "desc", false, "Sort descending")
	fs.IntVarP(&f.page, "page", "p", 1, "Page to show")
	fs.IntVar(&f.pageSize, "page-size", 0, "Rows per page; overrides table.page_size")
	fs.StringSliceVar(&f.selectIDs, "select", nil, "Row IDs to mark as selected")
}

// forParts adds the part-only options to f.
func (f tableFlags) forParts() tableFlags {
	if f.lowStock {
		f.extra = append(slices.Clone(f.extra), inventory.LowStockFilter())
	}
	return f
}

// source binds a row type to its columns and row IDs.
type source[T any] struct {
	rows    []T
	columns []core.Column[T]
	// exported are the columns written by export
	exported []core.Column[T]
	rowID    func(T, int) string
}

func partsSource(parts []inventory.Part) source[inventory.Part] {
	return source[inventory.Part]{
		rows:     parts,
		columns:  inventory.Columns(),
		exported: inventory.ExportColumns(),
		rowID:    inventory.RowID,
	}
}

func recordsSource(d *dataset) source[readers.Record] {
	return source[readers.Record]{
		rows:     d.records,
		columns:  d.columns,
		exported: d.columns,
		rowID: func(r readers.Record, index int) string {
			if id, ok := r["id"]; ok && id != nil {
				return fmt.Sprint(id)
			}
			return fmt.Sprint(index)
		},
	}
}

// parseFilter parses "column:operator:value". "column:value" means
// contains. Values of between, in and notIn are comma separated.
func parseFilter(s string) (core.Condition, error) {
	parts := strings.SplitN(s, ":", 3)
	switch len(parts) {
	case 2:
		return core.Condition{Column: parts[0], Operator: core.OpContains, Value: parts[1]}, nil
	case 3:
		op, err := core.ParseOperator(parts[1])
		if err != nil {
			return core.Condition{}, err
		}
		cond := core.Condition{Column: parts[0], Operator: op, Value: parts[2]}
		switch op {
		case core.OpBetween, core.OpIn, core.OpNotIn:
			var values []any
			for _, v := range strings.Split(parts[2], ",") {
				values = append(values, strings.TrimSpace(v))
			}
			cond.Value = values
		case core.OpIsNull, core.OpIsNotNull:
			cond.Value = nil
		}
		return cond, nil
	}
	return core.Condition{}, fmt.Errorf("filter %q: want column:operator:value", s)
}

// typeFilterValues parses the values of an equals, in or notIn filter as
// numbers when the column holds numbers. Those operators compare strictly,
// so the text of a flag would never match a numeric field. Values that do
// not parse are kept as text.
func typeFilterValues[T any](cond core.Condition, rows []T, columns []core.Column[T]) core.Condition {
	switch cond.Operator {
	case core.OpEquals, core.OpIn, core.OpNotIn:
	default:
		return cond
	}
	col := core.FindColumn(columns, cond.Column)
	if col == nil || col.Field == "" || !numericField(rows, col.Field) {
		return cond
	}
	switch v := cond.Value.(type) {
	case string:
		cond.Value = parseNumber(v)
	case []any:
		values := make([]any, len(v))
		for i, x := range v {
			values[i] = x
			if s, ok := x.(string); ok {
				values[i] = parseNumber(s)
			}
		}
		cond.Value = values
	}
	return cond
}

// numericField reports whether the first non-nil value of field is a number.
func numericField[T any](rows []T, field string) bool {
	for _, row := range rows {
		v := compare.Indirect(compare.FieldValue(row, field))
		if v == nil {
			continue
		}
		switch reflect.ValueOf(v).Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			return true
		}
		return false
	}
	return false
}

func parseNumber(s string) any {
	if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return n
	}
	return s
}

// buildTable runs src through a table configured from the config and flags.
// Advanced operators are applied to the rows before they reach the table.
// A non-nil state receives every view the table publishes.
func buildTable[T any](a *app, src source[T], f tableFlags, state *store.Store[table.View[T]]) (*table.Table[T], error) {
	conds := slices.Clone(f.extra)
	for _, s := range f.filters {
		cond, err := parseFilter(s)
		if err != nil {
			return nil, err
		}
		conds = append(conds, typeFilterValues(cond, src.rows, src.columns))
	}
	var basic, advanced []core.Condition
	for _, cond := range conds {
		if cond.Operator.IsAdvanced() {
			advanced = append(advanced, cond)
		} else {
			basic = append(basic, cond)
		}
	}

	rows := src.rows
	if len(advanced) > 0 {
		rows = metrics.Time(a.mc, metrics.StageFilter, func() []T {
			return filter.ApplyAdvancedFilters(rows, src.columns, advanced)
		})
	}

	tc := a.cfg.Table
	if f.pageSize > 0 {
		tc.PageSize = f.pageSize
	}
	pg := tc.Pagination(0)
	mode := tc.Search()
	if f.searchAll {
		mode = filter.SearchAll
	}

	tbl := table.New(table.Options[T]{
		Columns:    src.columns,
		Sortable:   true,
		Selection:  tc.SelectionMode(),
		Pagination: &pg,
		GetRowID:   src.rowID,
		SearchMode: mode,
		Metrics:    a.mc,
		State:      state,
		Logger:     a.log,
	})
	tbl.SetData(rows)
	tbl.SetFilters(basic)
	if f.search != "" {
		tbl.SetSearch(f.search)
	}

	sortCfg := tc.Sort()
	if f.sort != "" {
		sortCfg = &core.SortConfig{Column: f.sort, Direction: core.Asc}
	}
	if sortCfg != nil && f.desc {
		sortCfg.Direction = core.Desc
	}
	if sortCfg != nil {
		tbl.SetSortConfig(sortCfg)
	}

	if len(f.selectIDs) > 0 {
		if tc.SelectionMode() == core.SelectionNone {
			a.log.Warn("Selection is disabled, ignoring --select")
		}
		want := make(map[string]bool, len(f.selectIDs))
		for _, id := range f.selectIDs {
			want[id] = true
		}
		for i, item := range tbl.ProcessedData() {
			if want[src.rowID(item, i)] {
				tbl.HandleSelect(item, i, true)
			}
		}
	}

	if f.page > 1 {
		tbl.HandlePageChange(f.page)
	}
	return tbl, nil
}
