package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelcore/pixelcore-api/internal/api/handler"
	"github.com/pixelcore/pixelcore-api/internal/core/service"
)

type testAPI struct {
	e     *echo.Echo
	store *memStore
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := newMemStore()
	pages := service.DefaultPagination()
	log := zerolog.Nop()

	authSvc := service.NewAuthService(memUsers{store}, memRatings{store}, memDenylist{store},
		service.AuthConfig{JWTSecret: "test-secret"}, log)

	e := NewRouter(Deps{
		Auth:     authSvc,
		Contents: service.NewContentService(memContents{store}, pages, log),
		Ratings:  service.NewRatingService(memRatings{store}, memContents{store}, pages, log),
		Readiness: handler.NewHealthChecks(map[string]handler.DependencyCheck{
			"mongodb": func(context.Context) error { return nil },
		}),
		Logger:      log,
		CORSOrigins: []string{"*"},
		Registry:    prometheus.NewRegistry(),
	})
	return &testAPI{e: e, store: store}
}

func (a *testAPI) do(t *testing.T, method, path, body, token string) (int, map[string]any) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	}
	return rec.Code, out
}

// login registers email and returns an access token and the refresh token.
func (a *testAPI) login(t *testing.T, email string) (access, refresh string) {
	t.Helper()
	code, body := a.do(t, http.MethodPost, "/api/auth/register",
		fmt.Sprintf(`{"email":%q,"password":"pw-123","password2":"pw-123"}`, email), "")
	require.Equal(t, http.StatusCreated, code, body)

	code, body = a.do(t, http.MethodPost, "/api/auth/token",
		fmt.Sprintf(`{"email":%q,"password":"pw-123"}`, email), "")
	require.Equal(t, http.StatusOK, code, body)
	return body["access"].(string), body["refresh"].(string)
}

func (a *testAPI) createContent(t *testing.T, token, title string) string {
	t.Helper()
	code, body := a.do(t, http.MethodPost, "/api/contents", fmt.Sprintf(
		`{"title":%q,"description":"about %s","category":"game","content_url":"https://example.com/c"}`, title, title), token)
	require.Equal(t, http.StatusCreated, code, body)
	return body["media_id"].(string)
}

func TestRouter_Registration(t *testing.T) {
	a := newTestAPI(t)

	code, body := a.do(t, http.MethodPost, "/api/auth/register",
		`{"email":"alice@example.com","username":"alice","password":"pw","password2":"pw"}`, "")
	require.Equal(t, http.StatusCreated, code)
	assert.NotEmpty(t, body["user_id"])
	assert.Equal(t, "alice@example.com", body["email"])
	assert.Equal(t, float64(0), body["rating_count"])
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "password_hash")

	code, body = a.do(t, http.MethodPost, "/api/auth/register",
		`{"email":"bob@example.com","password":"one","password2":"two"}`, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, []any{"Password fields didn't match."}, body["password"])
	assert.Equal(t, float64(400), body["status_code"])

	code, body = a.do(t, http.MethodPost, "/api/auth/register",
		`{"email":"alice@example.com","password":"pw","password2":"pw"}`, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body, "email")

	code, body = a.do(t, http.MethodPost, "/api/auth/register", `{"email":"not-an-email"}`, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, []any{"Enter a valid email address."}, body["email"])
	assert.Equal(t, []any{"This field is required."}, body["password"])
}

func TestRouter_TokenLifecycle(t *testing.T) {
	a := newTestAPI(t)
	access, refresh := a.login(t, "carol@example.com")

	code, body := a.do(t, http.MethodPost, "/api/auth/token", `{"email":"carol@example.com","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "No active account found with the given credentials", body["detail"])

	code, body = a.do(t, http.MethodGet, "/api/users/me", "", access)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "carol@example.com", body["email"])
	assert.NotNil(t, body["last_login"])

	code, body = a.do(t, http.MethodPost, "/api/auth/token/refresh", fmt.Sprintf(`{"refresh":%q}`, refresh), "")
	require.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, body["access"])

	code, _ = a.do(t, http.MethodPost, "/api/auth/token/blacklist", fmt.Sprintf(`{"refresh":%q}`, refresh), "")
	assert.Equal(t, http.StatusResetContent, code)

	code, body = a.do(t, http.MethodPost, "/api/auth/token/refresh", fmt.Sprintf(`{"refresh":%q}`, refresh), "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, float64(401), body["status_code"])

	code, _ = a.do(t, http.MethodGet, "/api/users/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRouter_ContentPermissions(t *testing.T) {
	a := newTestAPI(t)
	access, _ := a.login(t, "dan@example.com")

	code, body := a.do(t, http.MethodGet, "/api/contents", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), body["count"])
	assert.Equal(t, []any{}, body["results"])

	payload := `{"title":"Celeste","description":"climb","category":"game","content_url":"https://example.com/celeste"}`
	code, body = a.do(t, http.MethodPost, "/api/contents", payload, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Authentication credentials were not provided.", body["detail"])

	id := a.createContent(t, access, "Celeste")

	code, body = a.do(t, http.MethodGet, "/api/contents/"+id, "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Celeste", body["title"])
	assert.Nil(t, body["thumbnail_url"])

	code, _ = a.do(t, http.MethodGet, "/api/contents/"+id, "", "garbage")
	assert.Equal(t, http.StatusUnauthorized, code, "a bad token fails even on reads")

	code, body = a.do(t, http.MethodPatch, "/api/contents/"+id, `{"title":"Celeste DX"}`, access)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Celeste DX", body["title"])
	assert.Equal(t, "climb", body["description"])

	code, body = a.do(t, http.MethodPut, "/api/contents/"+id, `{"title":"only title"}`, access)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body, "description")
	assert.Contains(t, body, "content_url")

	code, body = a.do(t, http.MethodPatch, "/api/contents/"+id, `{"category":"podcast"}`, access)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, []any{`"podcast" is not a valid choice.`}, body["category"])

	code, _ = a.do(t, http.MethodDelete, "/api/contents/"+id, "", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = a.do(t, http.MethodDelete, "/api/contents/"+id, "", access)
	assert.Equal(t, http.StatusNoContent, code)

	code, body = a.do(t, http.MethodGet, "/api/contents/"+id, "", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Not found.", body["detail"])
}

func TestRouter_RatingFlow(t *testing.T) {
	a := newTestAPI(t)
	owner, _ := a.login(t, "owner@example.com")
	other, _ := a.login(t, "other@example.com")
	contentID := a.createContent(t, owner, "Hades")

	code, _ := a.do(t, http.MethodGet, "/api/ratings", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := a.do(t, http.MethodPost, "/api/ratings", fmt.Sprintf(`{"media_content":%q,"value":4}`, contentID), owner)
	require.Equal(t, http.StatusCreated, code, body)
	ratingID := body["rating_id"].(string)
	assert.Equal(t, "owner@example.com", body["user"])
	assert.Equal(t, contentID, body["media_content"])
	assert.Equal(t, float64(4), body["value"])

	code, body = a.do(t, http.MethodPost, "/api/ratings", fmt.Sprintf(`{"media_content":%q,"value":2}`, contentID), owner)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "You have already rated this media content.", body["detail"])
	assert.Equal(t, float64(400), body["status_code"])

	for _, v := range []int{0, 6} {
		code, body = a.do(t, http.MethodPost, "/api/ratings", fmt.Sprintf(`{"media_content":%q,"value":%d}`, contentID, v), other)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, []any{fmt.Sprintf(`"%d" is not a valid choice.`, v)}, body["value"])
	}

	code, body = a.do(t, http.MethodPost, "/api/ratings", `{"media_content":"missing","value":3}`, other)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, []any{`Invalid pk "missing" - object does not exist.`}, body["media_content"])

	code, body = a.do(t, http.MethodPatch, "/api/ratings/"+ratingID, `{"value":1}`, other)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "You do not have permission to perform this action.", body["detail"])

	code, _ = a.do(t, http.MethodPut, "/api/ratings/"+ratingID, `{}`, other)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = a.do(t, http.MethodPut, "/api/ratings/"+ratingID, `{"value":9}`, owner)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = a.do(t, http.MethodPut, "/api/ratings/"+ratingID, fmt.Sprintf(`{"value":2,"media_content":%q}`, "elsewhere"), owner)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2), body["value"])
	assert.Equal(t, contentID, body["media_content"])

	code, body = a.do(t, http.MethodGet, "/api/ratings?media_content_id="+contentID, "", other)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["count"])

	code, _ = a.do(t, http.MethodDelete, "/api/ratings/"+ratingID, "", other)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = a.do(t, http.MethodDelete, "/api/ratings/"+ratingID, "", owner)
	assert.Equal(t, http.StatusNoContent, code)

	code, _ = a.do(t, http.MethodGet, "/api/ratings/"+ratingID, "", owner)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRouter_ConcurrentDuplicateRatings(t *testing.T) {
	a := newTestAPI(t)
	token, _ := a.login(t, "racer@example.com")
	contentID := a.createContent(t, token, "Race")

	const attempts = 20
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		codes = make(map[int]int)
	)
	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			req := httptest.NewRequest(http.MethodPost, "/api/ratings",
				strings.NewReader(fmt.Sprintf(`{"media_content":%q,"value":5}`, contentID)))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
			rec := httptest.NewRecorder()
			a.e.ServeHTTP(rec, req)

			mu.Lock()
			codes[rec.Code]++
			mu.Unlock()
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, codes[http.StatusCreated])
	assert.Equal(t, attempts-1, codes[http.StatusBadRequest])
	assert.Len(t, a.store.ratings, 1)
}

func TestRouter_Pagination(t *testing.T) {
	a := newTestAPI(t)
	token, _ := a.login(t, "pager@example.com")
	for i := 0; i < 12; i++ {
		a.createContent(t, token, fmt.Sprintf("item-%02d", i))
	}

	code, body := a.do(t, http.MethodGet, "/api/contents?ordering=title&category=game", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(12), body["count"])
	assert.Len(t, body["results"], 10)
	assert.Nil(t, body["previous"])
	next, _ := body["next"].(string)
	assert.Contains(t, next, "page=2")
	assert.Contains(t, next, "ordering=title")

	code, body = a.do(t, http.MethodGet, "/api/contents?ordering=title&page=2", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["results"], 2)
	assert.Nil(t, body["next"])
	prev, _ := body["previous"].(string)
	assert.NotContains(t, prev, "page=")
	first := body["results"].([]any)[0].(map[string]any)
	assert.Equal(t, "item-10", first["title"])

	code, body = a.do(t, http.MethodGet, "/api/contents?page=3", "", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Invalid page.", body["detail"])

	code, _ = a.do(t, http.MethodGet, "/api/contents?page=abc", "", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, body = a.do(t, http.MethodGet, fmt.Sprintf("/api/contents?page=%d", math.MaxInt), "", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Invalid page.", body["detail"])

	code, body = a.do(t, http.MethodGet, "/api/contents?page_size=5&search=ITEM-1", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2), body["count"])
}

func TestRouter_DeleteAccountCascades(t *testing.T) {
	a := newTestAPI(t)
	token, _ := a.login(t, "leaver@example.com")
	stay, _ := a.login(t, "stayer@example.com")
	contentID := a.createContent(t, token, "Outer Wilds")

	for _, tok := range []string{token, stay} {
		code, _ := a.do(t, http.MethodPost, "/api/ratings", fmt.Sprintf(`{"media_content":%q,"value":5}`, contentID), tok)
		require.Equal(t, http.StatusCreated, code)
	}

	code, body := a.do(t, http.MethodGet, "/api/users/me", "", token)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["rating_count"])

	code, _ = a.do(t, http.MethodDelete, "/api/users/me", "", token)
	require.Equal(t, http.StatusNoContent, code)
	assert.Len(t, a.store.ratings, 1)

	code, _ = a.do(t, http.MethodGet, "/api/users/me", "", token)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = a.do(t, http.MethodDelete, "/api/contents/"+contentID, "", stay)
	require.Equal(t, http.StatusNoContent, code)
	assert.Empty(t, a.store.ratings)
}

func TestRouter_OpsEndpoints(t *testing.T) {
	a := newTestAPI(t)

	code, body := a.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])

	code, body = a.do(t, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	code, body = a.do(t, http.MethodGet, "/api/nope", "", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Not found.", body["detail"])

	code, _ = a.do(t, http.MethodGet, "/api/contents/", "", "")
	assert.Equal(t, http.StatusOK, code, "trailing slash is accepted")
}

func TestRouter_ReadinessDegraded(t *testing.T) {
	e := NewRouter(Deps{
		Readiness: handler.NewHealthChecks(map[string]handler.DependencyCheck{
			"redis": func(context.Context) error { return errors.New("dial tcp: refused") },
		}),
		Logger:   zerolog.Nop(),
		Registry: prometheus.NewRegistry(),
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"degraded"`)
}

func TestRouter_AuthRateLimit(t *testing.T) {
	e := NewRouter(Deps{
		Auth:          service.NewAuthService(memUsers{newMemStore()}, nil, nil, service.AuthConfig{JWTSecret: "x"}, zerolog.Nop()),
		Logger:        zerolog.Nop(),
		AuthRateLimit: 0.001,
		Registry:      prometheus.NewRegistry(),
	})

	var last int
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/token", strings.NewReader(`{}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		e.ServeHTTP(rec, req)
		last = rec.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}
