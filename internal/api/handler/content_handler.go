package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pixelcore/pixelcore-api/internal/api/metrics"
	"github.com/pixelcore/pixelcore-api/internal/core/domain"
	"github.com/pixelcore/pixelcore-api/internal/core/ports"
)

// ContentHandler handles HTTP requests for media content.
type ContentHandler struct {
	service ports.ContentService
}

func NewContentHandler(service ports.ContentService) *ContentHandler {
	return &ContentHandler{service: service}
}

// List handles GET /api/contents.
//
// @Summary      List media content
// @Tags         contents
// @Produce      json
// @Param        category   query     string  false  "Filter by category"  Enums(game, video, artwork, music)
// @Param        search     query     string  false  "Case-insensitive match on title or description"
// @Param        ordering   query     string  false  "Sort order"  Enums(created_at, -created_at, title, -title)
// @Param        page       query     int     false  "Page number"
// @Param        page_size  query     int     false  "Page size (max 100)"
// @Success      200        {object}  pageResponse[contentResponse]
// @Failure      404        {object}  map[string]any
// @Router       /api/contents [get]
func (h *ContentHandler) List(c echo.Context) error {
	page, size, err := pageQuery(c)
	if err != nil {
		return err
	}

	res, err := h.service.List(c.Request().Context(), ports.ListContentInput{
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
		Ordering: c.QueryParam("ordering"),
		Page:     page,
		PageSize: size,
	})
	if err != nil {
		return err
	}

	results := mapSlice(res.Items, toContentResponse)
	return c.JSON(http.StatusOK, newPage(c, results, res.Total, res.Page, res.TotalPages))
}

// Get handles GET /api/contents/:id.
//
// @Summary      Get media content
// @Tags         contents
// @Produce      json
// @Param        id   path      string  true  "Media content id"
// @Success      200  {object}  contentResponse
// @Failure      404  {object}  map[string]any
// @Router       /api/contents/{id} [get]
func (h *ContentHandler) Get(c echo.Context) error {
	content, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toContentResponse(content))
}

// Create handles POST /api/contents.
//
// @Summary      Create media content
// @Tags         contents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      contentRequest  true  "Media content"
// @Success      201   {object}  contentResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Router       /api/contents [post]
func (h *ContentHandler) Create(c echo.Context) error {
	var req contentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	content, err := h.service.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}

	metrics.ContentOperationsTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, toContentResponse(content))
}

// Update handles PUT /api/contents/:id with a full representation.
//
// @Summary      Replace media content
// @Tags         contents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Media content id"
// @Param        body  body      contentRequest  true  "Media content"
// @Success      200   {object}  contentResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/contents/{id} [put]
func (h *ContentHandler) Update(c echo.Context) error {
	var req contentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.save(c, req)
}

// Patch handles PATCH /api/contents/:id. Fields missing from the body keep
// their stored values.
//
// @Summary      Partially update media content
// @Tags         contents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Media content id"
// @Param        body  body      contentRequest  true  "Fields to change"
// @Success      200   {object}  contentResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/contents/{id} [patch]
func (h *ContentHandler) Patch(c echo.Context) error {
	current, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	req := contentRequestFrom(current)
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.save(c, req)
}

// Delete handles DELETE /api/contents/:id. Ratings of the content are removed too.
//
// @Summary      Delete media content
// @Tags         contents
// @Security     BearerAuth
// @Param        id   path  string  true  "Media content id"
// @Success      204
// @Failure      401  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /api/contents/{id} [delete]
func (h *ContentHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	metrics.ContentOperationsTotal.WithLabelValues("delete").Inc()
	return c.NoContent(http.StatusNoContent)
}

func (h *ContentHandler) save(c echo.Context, req contentRequest) error {
	content, err := h.service.Update(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}

	metrics.ContentOperationsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, toContentResponse(content))
}

func (r contentRequest) toInput() ports.ContentInput {
	return ports.ContentInput{
		Title:        r.Title,
		Description:  r.Description,
		Category:     r.Category,
		ThumbnailURL: r.ThumbnailURL,
		ContentURL:   r.ContentURL,
	}
}

func contentRequestFrom(c *domain.MediaContent) contentRequest {
	return contentRequest{
		Title:        c.Title,
		Description:  c.Description,
		Category:     string(c.Category),
		ThumbnailURL: c.ThumbnailURL,
		ContentURL:   c.ContentURL,
	}
}
