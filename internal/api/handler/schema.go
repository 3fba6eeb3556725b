package handler

import (
	"time"

	"github.com/pixelcore/pixelcore-api/internal/core/domain"
)

// --- Request types ---

type registerRequest struct {
	Email     string  `json:"email"     validate:"required,email,max=254"`
	Username  *string `json:"username"  validate:"omitempty,max=150"`
	Password  string  `json:"password"  validate:"required"`
	Password2 string  `json:"password2" validate:"required"`
}

type tokenRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type contentRequest struct {
	Title        string  `json:"title"         validate:"required,max=255"`
	Description  string  `json:"description"   validate:"required"`
	Category     string  `json:"category"      validate:"required,oneof=game video artwork music"`
	ThumbnailURL *string `json:"thumbnail_url" validate:"omitempty,max=200,http_url"`
	ContentURL   string  `json:"content_url"   validate:"required,max=200,http_url"`
}

type createRatingRequest struct {
	MediaContent string `json:"media_content" validate:"required"`
	Value        *int   `json:"value"         validate:"required"`
}

// updateRatingRequest accepts only the score; the rated content is fixed at
// creation and any media_content in the body is ignored.
type updateRatingRequest struct {
	Value *int `json:"value"`
}

// --- Response types ---

type tokenPairResponse struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

type accessTokenResponse struct {
	Access string `json:"access"`
}

type userResponse struct {
	UserID      string     `json:"user_id"`
	Username    *string    `json:"username"`
	Email       string     `json:"email"`
	RatingCount int64      `json:"rating_count"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLogin   *time.Time `json:"last_login"`
}

type contentResponse struct {
	MediaID      string    `json:"media_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	ContentURL   string    `json:"content_url"`
	CreatedAt    time.Time `json:"created_at"`
}

type ratingResponse struct {
	RatingID     string    `json:"rating_id"`
	User         string    `json:"user"`
	MediaContent string    `json:"media_content"`
	Value        int       `json:"value"`
	CreatedAt    time.Time `json:"created_at"`
}

// pageResponse is the envelope for every list endpoint.
type pageResponse[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// --- Mappers ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		UserID:      u.ID,
		Username:    u.Username,
		Email:       u.Email,
		RatingCount: u.RatingCount,
		CreatedAt:   u.CreatedAt,
		LastLogin:   u.LastLogin,
	}
}

func toContentResponse(c *domain.MediaContent) contentResponse {
	return contentResponse{
		MediaID:      c.ID,
		Title:        c.Title,
		Description:  c.Description,
		Category:     string(c.Category),
		ThumbnailURL: c.ThumbnailURL,
		ContentURL:   c.ContentURL,
		CreatedAt:    c.CreatedAt,
	}
}

func toRatingResponse(r *domain.Rating) ratingResponse {
	return ratingResponse{
		RatingID:     r.ID,
		User:         r.UserEmail,
		MediaContent: r.ContentID,
		Value:        r.Value,
		CreatedAt:    r.CreatedAt,
	}
}

func mapSlice[T, R any](in []T, fn func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}
