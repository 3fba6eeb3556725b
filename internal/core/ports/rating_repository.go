package ports

import (
	"context"

	"github.com/pixelcore/pixelcore-api/internal/core/domain"
)

// ConstraintRatingUserContent names the unique (user, media content) index.
const ConstraintRatingUserContent = "uniq_rating_user_content"

// ListRatingsFilter carries the query parameters for listing ratings.
type ListRatingsFilter struct {
	ContentID string // empty = all content
	Page      int    // 1-based
	Limit     int
}

// RatingRepository defines persistence operations for ratings.
type RatingRepository interface {
	// Create inserts r in a single write. A second rating for the same
	// (user, content) pair is rejected by the store with a
	// *domain.ConstraintError for ConstraintRatingUserContent.
	Create(ctx context.Context, r *domain.Rating) error
	FindByID(ctx context.Context, id string) (*domain.Rating, error)
	// UpdateValue changes the score of a rating owned by ownerID.
	UpdateValue(ctx context.Context, id, ownerID string, value int) (*domain.Rating, error)
	Delete(ctx context.Context, id, ownerID string) error
	// List returns ratings newest-first and the total count.
	List(ctx context.Context, filter ListRatingsFilter) ([]*domain.Rating, int64, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}
