// Package compare implements type-aware value comparison for the table
// pipeline. Comparators follow the usual convention: negative when a sorts
// before b, zero when equal, positive otherwise.
//
// Missing values (nil, NaN in numeric mode, unparseable dates in date mode)
// always sort after defined values. Direction never moves them to the front.
package compare

import (
	"math"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/TFMV/partskeeper/internal/fieldpath"
	"github.com/TFMV/partskeeper/pkg/core"
)

// Collator is not safe for concurrent use.
var collators = sync.Pool{
	New: func() any { return collate.New(language.English) },
}

// Compare compares a and b ascending under mode. An unknown mode
// compares alphanumerically.
func Compare(a, b any, mode core.SortMode) int {
	return CompareDirected(a, b, mode, false)
}

// CompareDirected is like Compare but reverses the order of defined values
// when desc is true. Missing values stay last in both directions.
func CompareDirected(a, b any, mode core.SortMode, desc bool) int {
	aMissing, bMissing := Missing(a, mode), Missing(b, mode)
	switch {
	case aMissing && bMissing:
		return 0
	case aMissing:
		return 1
	case bMissing:
		return -1
	}

	var c int
	switch mode {
	case core.SortNumeric:
		c = Numbers(ToNumber(a), ToNumber(b))
	case core.SortDate:
		ta, _ := ToTime(a)
		tb, _ := ToTime(b)
		c = ta.Compare(tb)
	default:
		c = Strings(ToString(a), ToString(b))
	}
	if desc {
		return -c
	}
	return c
}

// Missing reports whether v sorts last under mode.
func Missing(v any, mode core.SortMode) bool {
	if IsNil(v) {
		return true
	}
	switch mode {
	case core.SortNumeric:
		return math.IsNaN(ToNumber(v))
	case core.SortDate:
		_, ok := ToTime(v)
		return !ok
	}
	return false
}

// Numbers compares two floats with NaN ordered after every number.
func Numbers(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Strings compares case-insensitively using English collation.
func Strings(a, b string) int {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == b {
		return 0
	}
	c := collators.Get().(*collate.Collator)
	defer collators.Put(c)
	return c.CompareString(a, b)
}

// FieldValue returns the value at the dot separated path in record, or nil.
// A key that itself contains a dot cannot be addressed.
func FieldValue(record any, path string) any {
	return fieldpath.Value(record, path)
}
