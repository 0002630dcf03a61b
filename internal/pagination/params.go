package pagination

import (
	"errors"
	"fmt"
	"strings"
)

// Pagination defaults and sort orders.
const (
	DefaultLimit     = 0
	DefaultSortOrder = SortOrderAsc
	SortOrderAsc     = "asc"
	SortOrderDesc    = "desc"

	sortPartsMax = 2
)

// Validation errors.
var (
	ErrInvalidSortFormat = errors.New("invalid sort format: use 'column' or 'column:order' (e.g., 'Date:desc')")
	ErrInvalidSortOrder  = errors.New("sort order must be 'asc' or 'desc'")
	ErrEmptySortField    = errors.New("sort column cannot be empty")
	ErrInvalidSortField  = errors.New("invalid sort column")
	ErrMixedModes        = errors.New("page and offset parameters are mutually exclusive")
)

// Params holds list-command paging and sort flags. Offset mode uses Limit
// and Offset; page mode uses Page and PageSize. The modes are exclusive.
type Params struct {
	Limit    int
	Offset   int
	Page     int
	PageSize int
	// Sort is "column" or "column:order". Empty keeps the view's default order.
	Sort string
}

// Validate checks bounds and mode consistency.
func (p Params) Validate() error {
	if p.Limit < 0 {
		return errors.New("limit cannot be negative")
	}
	if p.Offset < 0 {
		return errors.New("offset cannot be negative")
	}
	if p.Page < 0 {
		return errors.New("page cannot be negative")
	}
	if p.PageSize < 0 {
		return errors.New("page-size cannot be negative")
	}
	if p.Page > 0 && p.Offset > 0 {
		return ErrMixedModes
	}
	if p.Page == 0 && p.PageSize > 0 {
		return errors.New("page must be specified when using page-size")
	}
	if p.PageSize == 0 && p.Page > 0 {
		return errors.New("page-size must be specified when using page")
	}
	if p.Sort != "" {
		if _, _, err := ParseSort(p.Sort); err != nil {
			return err
		}
	}
	return nil
}

// IsPageBased reports whether page mode is active.
func (p Params) IsPageBased() bool {
	return p.Page > 0
}

// IsEnabled reports whether any windowing is requested.
func (p Params) IsEnabled() bool {
	return p.Limit > 0 || p.Page > 0 || p.Offset > 0
}

// OffsetLimit returns the window to apply. A zero limit means "to the end".
func (p Params) OffsetLimit() (int, int) {
	if p.IsPageBased() {
		return (p.Page - 1) * p.PageSize, p.PageSize
	}
	return p.Offset, p.Limit
}

// ParseSort splits "column" or "column:order". Column names may contain
// spaces and symbols ("% Aye"), so only the last colon separates the order.
func ParseSort(expr string) (string, string, error) {
	if strings.TrimSpace(expr) == "" {
		return "", DefaultSortOrder, nil
	}

	field, order := expr, DefaultSortOrder
	if i := strings.LastIndex(expr, ":"); i >= 0 {
		field, order = expr[:i], strings.ToLower(strings.TrimSpace(expr[i+1:]))
		if strings.Contains(field, ":") {
			return "", "", fmt.Errorf("%w: %q", ErrInvalidSortFormat, expr)
		}
	}

	field = strings.TrimSpace(field)
	if field == "" {
		return "", "", ErrEmptySortField
	}
	if order != SortOrderAsc && order != SortOrderDesc {
		return "", "", fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}
	return field, order, nil
}

// Apply returns the window of items described by p. Page mode clamps a page
// past the end to the last page; offset mode past the end yields nothing.
func Apply[T any](p Params, items []T) []T {
	if len(items) == 0 || !p.IsEnabled() {
		return items
	}

	offset, limit := p.OffsetLimit()
	if p.IsPageBased() && offset >= len(items) {
		offset = ((len(items) - 1) / p.PageSize) * p.PageSize
	}
	if offset >= len(items) {
		return []T{}
	}

	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
