package pagination

// Ellipsis stands for a collapsed range of pages in a page-number list.
const Ellipsis = -1

// DefaultMaxVisible is the page-number list width used when none is given.
const DefaultMaxVisible = 7

// GeneratePageNumbers returns at most maxVisible entries, page numbers
// and Ellipsis, always including the first and last page and keeping the
// current page visible. maxVisible below 1 means DefaultMaxVisible; values
// below 5 are raised to 5.
func GeneratePageNumbers(current, total, maxVisible int) []int {
	if total <= 0 {
		return []int{}
	}
	if maxVisible < 1 {
		maxVisible = DefaultMaxVisible
	}
	if total <= maxVisible {
		return pageRange(1, total)
	}
	maxVisible = max(maxVisible, 5)
	current = min(max(current, 1), total)

	// First, last and two ellipses leave maxVisible-4 slots; one of the
	// ellipses is dropped near either end.
	switch {
	case current < maxVisible-2:
		pages := pageRange(1, maxVisible-2)
		return append(pages, Ellipsis, total)
	case current > total-(maxVisible-3):
		pages := []int{1, Ellipsis}
		return append(pages, pageRange(total-(maxVisible-3), total)...)
	}

	siblings := (maxVisible - 5) / 2
	pages := []int{1, Ellipsis}
	pages = append(pages, pageRange(current-siblings, current+siblings)...)
	return append(pages, Ellipsis, total)
}

// GenerateSmartPageNumbers builds a page list with boundaries pages pinned
// at each end and siblings pages on each side of the current page. Gaps of
// a single page are filled with that page rather than an ellipsis, so the
// list keeps a constant length while paging.
func GenerateSmartPageNumbers(current, total, siblings, boundaries int) []int {
	if total <= 0 {
		return []int{}
	}
	siblings = max(siblings, 0)
	boundaries = max(boundaries, 1)
	current = min(max(current, 1), total)

	startPages := pageRange(1, min(boundaries, total))
	endPages := pageRange(max(total-boundaries+1, boundaries+1), total)

	siblingsStart := max(
		min(current-siblings, total-boundaries-siblings*2-1),
		boundaries+2,
	)
	siblingsEndLimit := total - 1
	if len(endPages) > 0 {
		siblingsEndLimit = endPages[0] - 2
	}
	siblingsEnd := min(
		max(current+siblings, boundaries+siblings*2+2),
		siblingsEndLimit,
	)

	pages := append([]int{}, startPages...)
	switch {
	case siblingsStart > boundaries+2:
		pages = append(pages, Ellipsis)
	case boundaries+1 < total-boundaries:
		pages = append(pages, boundaries+1)
	}
	pages = append(pages, pageRange(siblingsStart, siblingsEnd)...)
	switch {
	case siblingsEnd < total-boundaries-1:
		pages = append(pages, Ellipsis)
	case total-boundaries > boundaries:
		pages = append(pages, total-boundaries)
	}
	return append(pages, endPages...)
}

// pageRange returns from..to inclusive, or an empty slice when to < from.
func pageRange(from, to int) []int {
	if to < from {
		return []int{}
	}
	out := make([]int, 0, to-from+1)
	for p := from; p <= to; p++ {
		out = append(out, p)
	}
	return out
}
