// Package pagination slices processed records into pages and derives the
// metadata and page-number lists that pagination controls display.
// Navigation helpers return new configs and never modify their input.
package pagination

import (
	"github.com/TFMV/partskeeper/pkg/core"
)

// Metadata describes the page window of a config. StartItem and EndItem
// are 1-based and both 0 when there are no items. StartIndex and EndIndex
// are the 0-based half-open slice bounds.
type Metadata struct {
	TotalPages      int  `json:"total_pages"`
	HasNextPage     bool `json:"has_next_page"`
	HasPreviousPage bool `json:"has_previous_page"`
	StartItem       int  `json:"start_item"`
	EndItem         int  `json:"end_item"`
	StartIndex      int  `json:"start_index"`
	EndIndex        int  `json:"end_index"`
}

// PaginateData returns the records on the current page. Pages past the end
// yield an empty slice; a page size or page below 1 yields an empty slice.
func PaginateData[T any](data []T, cfg core.PaginationConfig) []T {
	if cfg.PageSize < 1 || cfg.CurrentPage < 1 {
		return []T{}
	}
	start := (cfg.CurrentPage - 1) * cfg.PageSize
	if start >= len(data) {
		return []T{}
	}
	end := min(start+cfg.PageSize, len(data))
	return append(make([]T, 0, end-start), data[start:end]...)
}

// TotalPages is ceil(totalItems / pageSize), or 0 when either is not positive.
func TotalPages(totalItems, pageSize int) int {
	if totalItems <= 0 || pageSize <= 0 {
		return 0
	}
	return (totalItems + pageSize - 1) / pageSize
}

// CalculateMetadata derives page counts and item ranges from cfg.
func CalculateMetadata(cfg core.PaginationConfig) Metadata {
	total := TotalPages(cfg.TotalItems, cfg.PageSize)
	md := Metadata{
		TotalPages:      total,
		HasNextPage:     cfg.CurrentPage < total,
		HasPreviousPage: cfg.CurrentPage > 1,
	}
	if cfg.TotalItems <= 0 || cfg.PageSize <= 0 || cfg.CurrentPage < 1 {
		return md
	}

	md.StartIndex = min((cfg.CurrentPage-1)*cfg.PageSize, cfg.TotalItems)
	md.EndIndex = min(md.StartIndex+cfg.PageSize, cfg.TotalItems)
	if md.EndIndex > md.StartIndex {
		md.StartItem = md.StartIndex + 1
		md.EndItem = md.EndIndex
	}
	return md
}

// GoToPage moves to page, clamped to [1, totalPages].
func GoToPage(cfg core.PaginationConfig, page int) core.PaginationConfig {
	total := TotalPages(cfg.TotalItems, cfg.PageSize)
	page = min(page, total)
	page = max(page, 1)
	return withPage(cfg, page)
}

// GoToNextPage advances one page unless already on the last page.
func GoToNextPage(cfg core.PaginationConfig) core.PaginationConfig {
	return GoToPage(cfg, cfg.CurrentPage+1)
}

// GoToPreviousPage goes back one page unless already on the first page.
func GoToPreviousPage(cfg core.PaginationConfig) core.PaginationConfig {
	return GoToPage(cfg, cfg.CurrentPage-1)
}

// GoToFirstPage moves to page 1.
func GoToFirstPage(cfg core.PaginationConfig) core.PaginationConfig {
	return withPage(cfg, 1)
}

// GoToLastPage moves to the last page, or page 1 when there are no items.
func GoToLastPage(cfg core.PaginationConfig) core.PaginationConfig {
	return withPage(cfg, max(TotalPages(cfg.TotalItems, cfg.PageSize), 1))
}

// ChangePageSize switches to pageSize and picks the page that keeps the
// first item of the current page visible. Sizes below 1 are ignored.
func ChangePageSize(cfg core.PaginationConfig, pageSize int) core.PaginationConfig {
	if pageSize < 1 {
		return clone(cfg)
	}
	start := max((cfg.CurrentPage-1)*cfg.PageSize, 0)
	out := clone(cfg)
	out.PageSize = pageSize
	out.CurrentPage = start/pageSize + 1
	return out
}

// UpdateTotalItems sets the item count without correcting the current page.
func UpdateTotalItems(cfg core.PaginationConfig, totalItems int) core.PaginationConfig {
	out := clone(cfg)
	out.TotalItems = max(totalItems, 0)
	return out
}

func withPage(cfg core.PaginationConfig, page int) core.PaginationConfig {
	out := clone(cfg)
	out.CurrentPage = page
	return out
}

func clone(cfg core.PaginationConfig) core.PaginationConfig {
	if cfg.PageSizeOptions != nil {
		cfg.PageSizeOptions = append([]int(nil), cfg.PageSizeOptions...)
	}
	return cfg
}
