package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pixelcore/pixelcore-api/internal/api/metrics"
	"github.com/pixelcore/pixelcore-api/internal/core/domain"
	"github.com/pixelcore/pixelcore-api/internal/core/ports"
)

// RatingHandler handles HTTP requests for ratings. Every route requires an
// authenticated caller.
type RatingHandler struct {
	service ports.RatingService
}

func NewRatingHandler(service ports.RatingService) *RatingHandler {
	return &RatingHandler{service: service}
}

// List handles GET /api/ratings.
//
// @Summary      List ratings
// @Tags         ratings
// @Produce      json
// @Security     BearerAuth
// @Param        media_content_id  query     string  false  "Only ratings of this media content"
// @Param        page              query     int     false  "Page number"
// @Param        page_size         query     int     false  "Page size (max 100)"
// @Success      200               {object}  pageResponse[ratingResponse]
// @Failure      401               {object}  map[string]any
// @Failure      404               {object}  map[string]any
// @Router       /api/ratings [get]
func (h *RatingHandler) List(c echo.Context) error {
	page, size, err := pageQuery(c)
	if err != nil {
		return err
	}

	res, err := h.service.List(c.Request().Context(), ports.ListRatingsInput{
		ContentID: c.QueryParam("media_content_id"),
		Page:      page,
		PageSize:  size,
	})
	if err != nil {
		return err
	}

	results := mapSlice(res.Items, toRatingResponse)
	return c.JSON(http.StatusOK, newPage(c, results, res.Total, res.Page, res.TotalPages))
}

// Get handles GET /api/ratings/:id.
//
// @Summary      Get a rating
// @Tags         ratings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Rating id"
// @Success      200  {object}  ratingResponse
// @Failure      401  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /api/ratings/{id} [get]
func (h *RatingHandler) Get(c echo.Context) error {
	rating, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRatingResponse(rating))
}

// Create handles POST /api/ratings. A caller may rate each media content once.
//
// @Summary      Rate media content
// @Tags         ratings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createRatingRequest  true  "Rating"
// @Success      201   {object}  ratingResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Router       /api/ratings [post]
func (h *RatingHandler) Create(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}

	var req createRatingRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.RatingsRejectedTotal.WithLabelValues("validation").Inc()
		return err
	}

	rating, err := h.service.Create(c.Request().Context(), ports.CreateRatingInput{
		UserID:    id.UserID,
		UserEmail: id.Email,
		ContentID: req.MediaContent,
		Value:     *req.Value,
	})
	if err != nil {
		recordRejection(err)
		return err
	}

	metrics.RatingsCreatedTotal.WithLabelValues(strconv.Itoa(rating.Value)).Inc()
	return c.JSON(http.StatusCreated, toRatingResponse(rating))
}

// Update handles PUT and PATCH /api/ratings/:id. Only the value can change.
//
// @Summary      Change a rating
// @Tags         ratings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Rating id"
// @Param        body  body      updateRatingRequest  true  "New value"
// @Success      200   {object}  ratingResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/ratings/{id} [put]
// @Router       /api/ratings/{id} [patch]
func (h *RatingHandler) Update(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}

	var req updateRatingRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if req.Value == nil {
		// Not found and not owner outrank the missing field, as on a full update.
		current, err := h.service.Get(ctx, c.Param("id"))
		if err != nil {
			return err
		}
		if !current.OwnedBy(id.UserID) {
			recordRejection(domain.ErrForbidden)
			return domain.ErrForbidden
		}
		if c.Request().Method != http.MethodPatch {
			return domain.NewValidationError("value", "This field is required.")
		}
		req.Value = &current.Value
	}

	rating, err := h.service.Update(ctx, c.Param("id"), id.UserID, *req.Value)
	if err != nil {
		recordRejection(err)
		return err
	}
	return c.JSON(http.StatusOK, toRatingResponse(rating))
}

// Delete handles DELETE /api/ratings/:id.
//
// @Summary      Delete a rating
// @Tags         ratings
// @Security     BearerAuth
// @Param        id   path  string  true  "Rating id"
// @Success      204
// @Failure      401  {object}  map[string]any
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /api/ratings/{id} [delete]
func (h *RatingHandler) Delete(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), id.UserID); err != nil {
		recordRejection(err)
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func recordRejection(err error) {
	var ve *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrDuplicateRating):
		metrics.RatingsRejectedTotal.WithLabelValues("duplicate").Inc()
	case errors.As(err, &ve):
		metrics.RatingsRejectedTotal.WithLabelValues("validation").Inc()
	case errors.Is(err, domain.ErrForbidden):
		metrics.RatingsRejectedTotal.WithLabelValues("forbidden").Inc()
	case errors.Is(err, domain.ErrNotFound):
		metrics.RatingsRejectedTotal.WithLabelValues("not_found").Inc()
	}
}
