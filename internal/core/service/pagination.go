package service

import (
	"math"

	"github.com/pixelcore/pixelcore-api/internal/core/domain"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Pagination bounds the page size clients may request.
type Pagination struct {
	DefaultSize int
	MaxSize     int
}

// DefaultPagination mirrors the API defaults: 10 per page, at most 100.
func DefaultPagination() Pagination {
	return Pagination{DefaultSize: defaultPageSize, MaxSize: maxPageSize}
}

// resolve validates the requested page and clamps the page size.
// A page below 1, or one whose row offset cannot be represented, is rejected;
// a missing or non-positive size falls back to the default.
func (p Pagination) resolve(page, size int) (int, int, error) {
	if page < 1 {
		return 0, 0, domain.ErrInvalidPage
	}

	def, limit := p.DefaultSize, p.MaxSize
	if def <= 0 {
		def = defaultPageSize
	}
	if limit <= 0 {
		limit = maxPageSize
	}
	if def > limit {
		def = limit
	}

	switch {
	case size <= 0:
		size = def
	case size > limit:
		size = limit
	}

	// The store skips (page-1)*size rows. An offset that overflows is past any end.
	if page-1 > math.MaxInt/size {
		return 0, 0, domain.ErrInvalidPage
	}
	return page, size, nil
}

// totalPages returns how many pages of size are needed for total rows.
func totalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// checkPage rejects pages past the last one. The first page is always valid,
// even when there are no rows.
func checkPage(page int, total int64, size int) error {
	if page > 1 && page > totalPages(total, size) {
		return domain.ErrInvalidPage
	}
	return nil
}
