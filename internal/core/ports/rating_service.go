package ports

import (
	"context"

	"github.com/pixelcore/pixelcore-api/internal/core/domain"
)

// CreateRatingInput is the DTO passed from the transport layer to RatingService.
type CreateRatingInput struct {
	UserID    string
	UserEmail string
	ContentID string
	Value     int
}

// ListRatingsInput carries the parameters for the rating list endpoint.
type ListRatingsInput struct {
	ContentID string
	Page      int
	PageSize  int
}

// ListRatingsResult is returned by RatingService.List.
type ListRatingsResult struct {
	Items      []*domain.Rating
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

// RatingService mediates every rating write and enforces the
// one-rating-per-user-per-content rule and ownership.
type RatingService interface {
	Create(ctx context.Context, in CreateRatingInput) (*domain.Rating, error)
	Get(ctx context.Context, id string) (*domain.Rating, error)
	Update(ctx context.Context, id, callerID string, value int) (*domain.Rating, error)
	Delete(ctx context.Context, id, callerID string) error
	List(ctx context.Context, in ListRatingsInput) (*ListRatingsResult, error)
}
