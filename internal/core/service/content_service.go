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

const (
	maxTitleLength = 255
	maxURLLength   = 200
)

type ContentService struct {
	repo   ports.ContentRepository
	pages  Pagination
	now    func() time.Time
	logger zerolog.Logger
}

func NewContentService(repo ports.ContentRepository, pages Pagination, logger zerolog.Logger) *ContentService {
	return &ContentService{repo: repo, pages: pages, now: time.Now, logger: logger}
}

// Create validates and stores a new media content record.
func (s *ContentService) Create(ctx context.Context, in ports.ContentInput) (*domain.MediaContent, error) {
	if err := validateContent(in); err != nil {
		return nil, err
	}

	content := &domain.MediaContent{
		ID:        uuid.NewString(),
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}
	applyContentInput(content, in)

	if err := s.repo.Create(ctx, content); err != nil {
		s.logger.Error().Err(err).Msg("failed to create media content")
		return nil, fmt.Errorf("create media content: %w", err)
	}

	s.logger.Info().Str("media_id", content.ID).Str("category", string(content.Category)).Msg("media content created")
	return content, nil
}

func (s *ContentService) Get(ctx context.Context, id string) (*domain.MediaContent, error) {
	return s.repo.FindByID(ctx, id)
}

// Update replaces the writable fields of an existing record. Partial updates
// are resolved by the caller, which merges the patch onto the current record.
func (s *ContentService) Update(ctx context.Context, id string, in ports.ContentInput) (*domain.MediaContent, error) {
	content, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateContent(in); err != nil {
		return nil, err
	}

	applyContentInput(content, in)
	if err := s.repo.Update(ctx, content); err != nil {
		if errors.Is(err, domain.ErrContentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update media content: %w", err)
	}

	s.logger.Info().Str("media_id", id).Msg("media content updated")
	return content, nil
}

// Delete removes the record; its ratings go with it.
func (s *ContentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("media_id", id).Msg("media content deleted")
	return nil
}

// List returns one page of content. Unknown orderings fall back to newest first.
func (s *ContentService) List(ctx context.Context, in ports.ListContentInput) (*ports.ListContentResult, error) {
	page, size, err := s.pages.resolve(in.Page, in.PageSize)
	if err != nil {
		return nil, err
	}

	items, total, err := s.repo.List(ctx, ports.ListContentFilter{
		Category: strings.TrimSpace(in.Category),
		Search:   strings.TrimSpace(in.Search),
		Ordering: normalizeOrdering(in.Ordering),
		Page:     page,
		Limit:    size,
	})
	if err != nil {
		return nil, fmt.Errorf("list media content: %w", err)
	}
	if err := checkPage(page, total, size); err != nil {
		return nil, err
	}

	return &ports.ListContentResult{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages(total, size),
	}, nil
}

func normalizeOrdering(o string) string {
	switch o {
	case ports.OrderCreatedAsc, ports.OrderCreatedDesc, ports.OrderTitleAsc, ports.OrderTitleDesc:
		return o
	default:
		return ports.OrderCreatedDesc
	}
}

func applyContentInput(c *domain.MediaContent, in ports.ContentInput) {
	c.Title = strings.TrimSpace(in.Title)
	c.Description = strings.TrimSpace(in.Description)
	c.Category = domain.Category(in.Category)
	c.ContentURL = strings.TrimSpace(in.ContentURL)
	c.ThumbnailURL = nil
	if in.ThumbnailURL != nil {
		if t := strings.TrimSpace(*in.ThumbnailURL); t != "" {
			c.ThumbnailURL = &t
		}
	}
}

func validateContent(in ports.ContentInput) error {
	ve := &domain.ValidationError{}

	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		ve.Add("title", "This field may not be blank.")
	default:
		if msg := checkVar(title, titleRule); msg != "" {
			ve.Add("title", msg)
		}
	}

	if strings.TrimSpace(in.Description) == "" {
		ve.Add("description", "This field may not be blank.")
	}

	if msg := checkVar(in.Category, categoryRule); msg != "" {
		ve.Add("category", msg)
	}

	if msg := checkURL(in.ContentURL, true); msg != "" {
		ve.Add("content_url", msg)
	}
	if in.ThumbnailURL != nil {
		if msg := checkURL(*in.ThumbnailURL, false); msg != "" {
			ve.Add("thumbnail_url", msg)
		}
	}

	if ve.Empty() {
		return nil
	}
	return ve
}

// checkURL returns a field message, or "" when raw is acceptable.
func checkURL(raw string, required bool) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if required {
			return "This field may not be blank."
		}
		return ""
	}
	return checkVar(raw, urlRule)
}
