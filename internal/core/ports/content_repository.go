package ports

import (
	"context"

	"github.com/pixelcore/pixelcore-api/internal/core/domain"
)

// Supported values for ListContentFilter.Ordering.
const (
	OrderCreatedAsc  = "created_at"
	OrderCreatedDesc = "-created_at"
	OrderTitleAsc    = "title"
	OrderTitleDesc   = "-title"
)

// ListContentFilter carries all query parameters for listing media content.
type ListContentFilter struct {
	Category string // optional: exact category match
	Search   string // optional: case-insensitive substring of title or description
	Ordering string // one of the Order* constants
	Page     int    // 1-based
	Limit    int
}

// ContentRepository defines persistence operations for media content.
type ContentRepository interface {
	Create(ctx context.Context, c *domain.MediaContent) error
	FindByID(ctx context.Context, id string) (*domain.MediaContent, error)
	// Update replaces every mutable field of the stored record.
	Update(ctx context.Context, c *domain.MediaContent) error
	// Delete removes the content and every rating that references it.
	Delete(ctx context.Context, id string) error
	// List returns a page of content matching filter and the total count.
	List(ctx context.Context, filter ListContentFilter) ([]*domain.MediaContent, int64, error)
}
