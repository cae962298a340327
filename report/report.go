package report

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/safehtml/template"

	"github.com/TFMV/partskeeper/metrics"
	"github.com/TFMV/partskeeper/pkg/compare"
	"github.com/TFMV/partskeeper/pkg/core"
	"github.com/TFMV/partskeeper/pkg/pagination"
	"github.com/TFMV/partskeeper/pkg/table"
)

//go:embed templates/*
var templateFS embed.FS

// -----------------------------
// Report Model
// -----------------------------

// Row is one rendered record. Index is its position in the processed set.
type Row struct {
	Index    int      `json:"index"`
	Cells    []string `json:"cells"`
	Selected bool     `json:"selected,omitempty"`
}

// PageLink is one entry of the page selector. Ellipsis entries have
// Page set to pagination.Ellipsis.
type PageLink struct {
	Label   string `json:"label"`
	Page    int    `json:"page"`
	Current bool   `json:"current,omitempty"`
}

// PageReport is a rendered page of a table view.
type PageReport struct {
	Title       string               `json:"title"`
	GeneratedAt time.Time            `json:"generated_at"`
	Keys        []string             `json:"keys"`
	Headers     []string             `json:"headers"`
	Aligns      []core.Align         `json:"aligns,omitempty"`
	Rows        []Row                `json:"rows"`
	Metadata    pagination.Metadata  `json:"metadata"`
	CurrentPage int                  `json:"current_page"`
	PageSize    int                  `json:"page_size"`
	TotalItems  int                  `json:"total_items"`
	Pages       []PageLink           `json:"pages,omitempty"`
	Sort        string               `json:"sort,omitempty"`
	Filters     []string             `json:"filters,omitempty"`
	Search      string               `json:"search,omitempty"`
	Selected    int                  `json:"selected"`
	Stages      []metrics.StageStats `json:"stages,omitempty"`
}

// Generated formats GeneratedAt for display.
func (r PageReport) Generated() string {
	return r.GeneratedAt.UTC().Format(time.RFC3339)
}

// Summary describes the visible range, e.g. "Showing 11-20 of 42".
func (r PageReport) Summary() string {
	if r.TotalItems == 0 {
		return "No items"
	}
	return fmt.Sprintf("Showing %d-%d of %d", r.Metadata.StartItem, r.Metadata.EndItem, r.TotalItems)
}

// Options controls how a view becomes a report.
type Options struct {
	Title string
	// Breakpoint selects the visible columns; empty keeps every column
	// that is not hidden.
	Breakpoint      core.Breakpoint
	MaxVisiblePages int
	Metrics         *metrics.Snapshot
	Now             func() time.Time
}

// Build renders the page of view using columns.
func Build[T any](columns []core.Column[T], view table.View[T], opts Options) PageReport {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	visible := table.VisibleColumns(columns, opts.Breakpoint)

	r := PageReport{
		Title:       opts.Title,
		GeneratedAt: now(),
		Metadata:    view.Metadata,
		Search:      view.Search,
		Selected:    len(view.SelectedIndices),
		TotalItems:  len(view.Processed),
		CurrentPage: 1,
		PageSize:    len(view.Processed),
	}
	if r.Title == "" {
		r.Title = "Inventory"
	}
	if view.Paginated {
		r.CurrentPage = view.Pagination.CurrentPage
		r.PageSize = view.Pagination.PageSize
		r.TotalItems = view.Pagination.TotalItems
	}
	for i := range visible {
		r.Keys = append(r.Keys, visible[i].Key)
		r.Headers = append(r.Headers, visible[i].Title())
		r.Aligns = append(r.Aligns, visible[i].Align)
	}

	offset := 0
	if view.Paginated {
		offset = view.Metadata.StartIndex
	}
	r.Rows = make([]Row, 0, len(view.Page))
	for i, item := range view.Page {
		index := offset + i
		row := Row{Index: index, Selected: slices.Contains(view.SelectedIndices, index)}
		for c := range visible {
			row.Cells = append(row.Cells, Cell(&visible[c], item, index))
		}
		r.Rows = append(r.Rows, row)
	}

	if view.Paginated && view.Metadata.TotalPages > 1 {
		for _, p := range pagination.GeneratePageNumbers(r.CurrentPage, view.Metadata.TotalPages, opts.MaxVisiblePages) {
			link := PageLink{Page: p, Label: "...", Current: p == r.CurrentPage}
			if p != pagination.Ellipsis {
				link.Label = strconv.Itoa(p)
			}
			r.Pages = append(r.Pages, link)
		}
	}
	if view.Sort.Active() {
		r.Sort = fmt.Sprintf("%s %s", view.Sort.Column, view.Sort.Direction)
	}
	for _, f := range view.Filters {
		r.Filters = append(r.Filters, f.String())
	}
	if opts.Metrics != nil {
		r.Stages = slices.Clone(opts.Metrics.Stages)
	}
	return r
}

// Cell renders one cell: the column's Render function when set, otherwise
// the field value as text.
func Cell[T any](col *core.Column[T], item T, index int) string {
	if col.Render != nil {
		return col.Render(item, index)
	}
	return compare.ToString(compare.FieldValue(item, col.FieldPath()))
}

// -----------------------------
// Report Generator Interfaces
// -----------------------------

// ReportGenerator defines the methods for generating reports.
type ReportGenerator interface {
	GeneratePageReport(r PageReport) ([]byte, error)
	SaveReportToFile(r PageReport, filePath string) error
}

// NewGenerator returns the generator for format: "json", "html" or "text".
func NewGenerator(format string) (ReportGenerator, error) {
	switch strings.ToLower(format) {
	case "json":
		return &JSONReportGenerator{}, nil
	case "html":
		return NewHTMLReportGenerator()
	case "text", "txt", "":
		return &TextReportGenerator{}, nil
	}
	return nil, fmt.Errorf("%w: report format %q", core.ErrUnsupportedFormat, format)
}

// -----------------------------
// JSON Report Generator
// -----------------------------

// JSONReportGenerator generates JSON reports.
type JSONReportGenerator struct{}

// GeneratePageReport serializes the report to JSON.
func (j *JSONReportGenerator) GeneratePageReport(r PageReport) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// SaveReportToFile saves the JSON report to a file.
func (j *JSONReportGenerator) SaveReportToFile(r PageReport, filePath string) error {
	return save(j, r, filePath)
}

// ReportFromFilePath loads a JSON report saved by SaveReportToFile.
func ReportFromFilePath(filePath string) (PageReport, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return PageReport{}, err
	}
	var report PageReport
	if err := json.Unmarshal(data, &report); err != nil {
		return PageReport{}, fmt.Errorf("failed to decode report %s: %w", filePath, err)
	}
	return report, nil
}

// -----------------------------
// HTML Report Generator
// -----------------------------

// HTMLReportGenerator generates HTML reports.
type HTMLReportGenerator struct {
	tmpl *template.Template
}

// NewHTMLReportGenerator parses the embedded page template.
func NewHTMLReportGenerator() (*HTMLReportGenerator, error) {
	trustedFS := template.TrustedFSFromEmbed(templateFS)
	tmpl, err := template.New("page.html").ParseFS(trustedFS, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse report template: %w", err)
	}
	return &HTMLReportGenerator{tmpl: tmpl}, nil
}

// GeneratePageReport renders the report as an HTML document.
func (h *HTMLReportGenerator) GeneratePageReport(r PageReport) ([]byte, error) {
	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveReportToFile saves the HTML report to a file.
func (h *HTMLReportGenerator) SaveReportToFile(r PageReport, filePath string) error {
	return save(h, r, filePath)
}

// -----------------------------
// Text Report Generator
// -----------------------------

// TextReportGenerator renders an aligned plain-text table.
type TextReportGenerator struct {
	// Marker prefixes selected rows; "*" when empty.
	Marker string
}

// GeneratePageReport renders the report as text.
func (t *TextReportGenerator) GeneratePageReport(r PageReport) ([]byte, error) {
	marker := t.Marker
	if marker == "" {
		marker = "*"
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\n", r.Title)
	if r.Sort != "" {
		fmt.Fprintf(&buf, "Sorted by %s\n", r.Sort)
	}
	if len(r.Filters) > 0 {
		fmt.Fprintf(&buf, "Filters: %s\n", strings.Join(r.Filters, "; "))
	}
	if r.Search != "" {
		fmt.Fprintf(&buf, "Search: %q\n", r.Search)
	}
	buf.WriteByte('\n')

	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, " \t%s\t\n", strings.Join(r.Headers, "\t"))
	for _, row := range r.Rows {
		mark := " "
		if row.Selected {
			mark = marker
		}
		fmt.Fprintf(w, "%s\t%s\t\n", mark, strings.Join(row.Cells, "\t"))
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}

	buf.WriteByte('\n')
	fmt.Fprintf(&buf, "%s", r.Summary())
	if r.Metadata.TotalPages > 1 {
		fmt.Fprintf(&buf, " | page %d of %d", r.CurrentPage, r.Metadata.TotalPages)
	}
	if r.Selected > 0 {
		fmt.Fprintf(&buf, " | %d selected", r.Selected)
	}
	buf.WriteByte('\n')
	if len(r.Pages) > 0 {
		labels := make([]string, len(r.Pages))
		for i, p := range r.Pages {
			labels[i] = p.Label
			if p.Current {
				labels[i] = "[" + p.Label + "]"
			}
		}
		fmt.Fprintf(&buf, "%s\n", strings.Join(labels, " "))
	}
	return buf.Bytes(), nil
}

// SaveReportToFile saves the text report to a file.
func (t *TextReportGenerator) SaveReportToFile(r PageReport, filePath string) error {
	return save(t, r, filePath)
}

func save(g ReportGenerator, r PageReport, filePath string) error {
	data, err := g.GeneratePageReport(r)
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}

// SaveReports saves both JSON and HTML reports.
func SaveReports(r PageReport, jsonPath, htmlPath string) error {
	jsonGen := JSONReportGenerator{}
	if err := jsonGen.SaveReportToFile(r, jsonPath); err != nil {
		return err
	}

	htmlGen, err := NewHTMLReportGenerator()
	if err != nil {
		return err
	}
	return htmlGen.SaveReportToFile(r, htmlPath)
}
