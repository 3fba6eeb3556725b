package ports

import (
	"context"

	"github.com/pixelcore/pixelcore-api/internal/core/domain"
)

// ContentInput is the full set of client-writable content fields.
type ContentInput struct {
	Title        string
	Description  string
	Category     string
	ThumbnailURL *string
	ContentURL   string
}

// ListContentInput carries all parameters for the content list endpoint.
type ListContentInput struct {
	Category string
	Search   string
	Ordering string
	Page     int
	PageSize int
}

// ListContentResult is returned by ContentService.List.
type ListContentResult struct {
	Items      []*domain.MediaContent
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

// ContentService defines use-case operations for media content.
type ContentService interface {
	Create(ctx context.Context, in ContentInput) (*domain.MediaContent, error)
	Get(ctx context.Context, id string) (*domain.MediaContent, error)
	Update(ctx context.Context, id string, in ContentInput) (*domain.MediaContent, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, in ListContentInput) (*ListContentResult, error)
}
