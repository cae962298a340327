package pagination

import (
	"errors"
	"fmt"

	"github.com/TFMV/partskeeper/pkg/core"
)

// Limits bounds the accepted page size.
type Limits struct {
	MinPageSize int
	MaxPageSize int
}

// DefaultLimits accepts page sizes from 1 to 1000.
var DefaultLimits = Limits{MinPageSize: 1, MaxPageSize: 1000}

// ValidationResult lists every rule a config violates.
type ValidationResult struct {
	Valid  bool
	Errors []string

	errs []error
}

// Err joins the violations into one error, or returns nil when valid.
// The result matches core.ErrInvalidPage or core.ErrInvalidPageSize with
// errors.Is.
func (r ValidationResult) Err() error {
	return errors.Join(r.errs...)
}

func (r *ValidationResult) check(condition bool, sentinel error, format string, a ...any) {
	if condition {
		return
	}
	msg := fmt.Sprintf(format, a...)
	r.Errors = append(r.Errors, msg)
	r.errs = append(r.errs, fmt.Errorf("%w: %s", sentinel, msg))
}

// ValidateConfig checks cfg against limits. A zero Limits means
// DefaultLimits. Each rule is checked independently.
func ValidateConfig(cfg core.PaginationConfig, limits Limits) ValidationResult {
	if limits == (Limits{}) {
		limits = DefaultLimits
	}
	var r ValidationResult

	r.check(cfg.PageSize >= limits.MinPageSize && cfg.PageSize <= limits.MaxPageSize,
		core.ErrInvalidPageSize, "page size must be between %d and %d, got %d",
		limits.MinPageSize, limits.MaxPageSize, cfg.PageSize)
	r.check(cfg.CurrentPage >= 1,
		core.ErrInvalidPage, "current page must be at least 1, got %d", cfg.CurrentPage)
	r.check(cfg.TotalItems >= 0,
		core.ErrInvalidPage, "total items must not be negative, got %d", cfg.TotalItems)

	if total := TotalPages(cfg.TotalItems, cfg.PageSize); total > 0 {
		r.check(cfg.CurrentPage <= total,
			core.ErrInvalidPage, "current page %d exceeds total pages %d", cfg.CurrentPage, total)
	}

	r.Valid = len(r.Errors) == 0
	return r
}
