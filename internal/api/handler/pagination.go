package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pixelcore/pixelcore-api/internal/core/domain"
)

const (
	pageParam     = "page"
	pageSizeParam = "page_size"
)

// pageQuery reads page and page_size. A malformed page is an invalid page;
// a malformed page_size falls back to the default.
func pageQuery(c echo.Context) (page, size int, err error) {
	page = 1
	if raw := c.QueryParam(pageParam); raw != "" {
		if page, err = strconv.Atoi(raw); err != nil {
			return 0, 0, domain.ErrInvalidPage
		}
	}
	if raw := c.QueryParam(pageSizeParam); raw != "" {
		if n, convErr := strconv.Atoi(raw); convErr == nil {
			size = n
		}
	}
	return page, size, nil
}

// newPage builds the list envelope with absolute next/previous links that
// keep every other query parameter of the current request.
func newPage[T any](c echo.Context, results []T, total int64, page, totalPages int) pageResponse[T] {
	resp := pageResponse[T]{Count: total, Results: results}
	if page < totalPages {
		next := pageLink(c, page+1)
		resp.Next = &next
	}
	if page > 1 {
		prev := pageLink(c, page-1)
		resp.Previous = &prev
	}
	return resp
}

func pageLink(c echo.Context, page int) string {
	req := c.Request()
	u := *req.URL
	u.Scheme = c.Scheme()
	u.Host = req.Host

	q := u.Query()
	if page <= 1 {
		q.Del(pageParam)
	} else {
		q.Set(pageParam, strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	return u.String()
}
