package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pixelcore/pixelcore-api/internal/core/domain"
	"github.com/pixelcore/pixelcore-api/internal/core/ports"
)

// RatingService enforces one rating per (user, content) pair. Uniqueness is
// decided by the store's unique index at insert time; there is no prior
// existence read, so concurrent duplicates cannot both pass.
type RatingService struct {
	ratings  ports.RatingRepository
	contents ports.ContentRepository
	pages    Pagination
	now      func() time.Time
	logger   zerolog.Logger
}

func NewRatingService(
	ratings ports.RatingRepository,
	contents ports.ContentRepository,
	pages Pagination,
	logger zerolog.Logger,
) *RatingService {
	return &RatingService{
		ratings:  ratings,
		contents: contents,
		pages:    pages,
		now:      time.Now,
		logger:   logger,
	}
}

// Create stores a new rating for in.UserID. A second rating for the same
// content fails with domain.ErrDuplicateRating.
func (s *RatingService) Create(ctx context.Context, in ports.CreateRatingInput) (*domain.Rating, error) {
	ve := &domain.ValidationError{}
	if !domain.ValidRatingValue(in.Value) {
		ve.Add("value", invalidValueMessage(in.Value))
	}
	contentID := strings.TrimSpace(in.ContentID)
	if contentID == "" {
		ve.Add("media_content", "This field is required.")
	}
	if !ve.Empty() {
		return nil, ve
	}

	if _, err := s.contents.FindByID(ctx, contentID); err != nil {
		if errors.Is(err, domain.ErrContentNotFound) {
			return nil, domain.NewValidationError("media_content",
				fmt.Sprintf("Invalid pk %q - object does not exist.", contentID))
		}
		return nil, fmt.Errorf("create rating: lookup content: %w", err)
	}

	rating := &domain.Rating{
		ID:        uuid.NewString(),
		UserID:    in.UserID,
		UserEmail: in.UserEmail,
		ContentID: contentID,
		Value:     in.Value,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}

	if err := s.ratings.Create(ctx, rating); err != nil {
		if domain.IsConstraint(err, ports.ConstraintRatingUserContent) {
			s.logger.Debug().Str("user_id", in.UserID).Str("media_id", contentID).Msg("duplicate rating rejected")
			return nil, domain.ErrDuplicateRating
		}
		s.logger.Error().Err(err).Str("user_id", in.UserID).Str("media_id", contentID).Msg("failed to create rating")
		return nil, fmt.Errorf("create rating: %w", err)
	}

	s.logger.Info().
		Str("rating_id", rating.ID).
		Str("user_id", rating.UserID).
		Str("media_id", rating.ContentID).
		Int("value", rating.Value).
		Msg("rating created")
	return rating, nil
}

func (s *RatingService) Get(ctx context.Context, id string) (*domain.Rating, error) {
	return s.ratings.FindByID(ctx, id)
}

// Update changes the score of a rating. Only the author may do so; the rated
// content never changes.
func (s *RatingService) Update(ctx context.Context, id, callerID string, value int) (*domain.Rating, error) {
	if _, err := s.ownedRating(ctx, id, callerID); err != nil {
		return nil, err
	}
	if !domain.ValidRatingValue(value) {
		return nil, domain.NewValidationError("value", invalidValueMessage(value))
	}

	updated, err := s.ratings.UpdateValue(ctx, id, callerID, value)
	if err != nil {
		if errors.Is(err, domain.ErrRatingNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update rating: %w", err)
	}

	s.logger.Info().Str("rating_id", id).Int("value", value).Msg("rating updated")
	return updated, nil
}

// Delete removes a rating. Only the author may do so.
func (s *RatingService) Delete(ctx context.Context, id, callerID string) error {
	if _, err := s.ownedRating(ctx, id, callerID); err != nil {
		return err
	}
	if err := s.ratings.Delete(ctx, id, callerID); err != nil {
		if errors.Is(err, domain.ErrRatingNotFound) {
			return err
		}
		return fmt.Errorf("delete rating: %w", err)
	}

	s.logger.Info().Str("rating_id", id).Msg("rating deleted")
	return nil
}

// List returns ratings newest first, optionally for a single content item.
func (s *RatingService) List(ctx context.Context, in ports.ListRatingsInput) (*ports.ListRatingsResult, error) {
	page, size, err := s.pages.resolve(in.Page, in.PageSize)
	if err != nil {
		return nil, err
	}

	items, total, err := s.ratings.List(ctx, ports.ListRatingsFilter{
		ContentID: strings.TrimSpace(in.ContentID),
		Page:      page,
		Limit:     size,
	})
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	if err := checkPage(page, total, size); err != nil {
		return nil, err
	}

	return &ports.ListRatingsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages(total, size),
	}, nil
}

// ownedRating loads the rating and applies the owner-only guard.
func (s *RatingService) ownedRating(ctx context.Context, id, callerID string) (*domain.Rating, error) {
	rating, err := s.ratings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rating.OwnedBy(callerID) {
		s.logger.Warn().Str("rating_id", id).Str("caller_id", callerID).Msg("non-owner attempted to modify rating")
		return nil, domain.ErrForbidden
	}
	return rating, nil
}

func invalidValueMessage(v int) string {
	return fmt.Sprintf("\"%d\" is not a valid choice.", v)
}
