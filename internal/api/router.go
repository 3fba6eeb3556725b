package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"github.com/pixelcore/pixelcore-api/internal/api/handler"
	"github.com/pixelcore/pixelcore-api/internal/api/middleware"
	"github.com/pixelcore/pixelcore-api/internal/core/ports"
)

// Deps are the services and settings the router is built from.
type Deps struct {
	Auth      ports.AuthService
	Contents  ports.ContentService
	Ratings   ports.RatingService
	Readiness *handler.HealthDependenciesHandler
	Logger    zerolog.Logger

	CORSOrigins []string
	// AuthRateLimit is requests per second per client IP on /api/auth; 0 disables it.
	AuthRateLimit float64
	// Registry receives the HTTP metrics. Nil means the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Pre(echomiddleware.RemoveTrailingSlash())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(prometheusMiddleware(d.Registry))

	// --- Ops endpoints (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	if d.Readiness != nil {
		e.GET("/health/ready", d.Readiness.Readiness)
	}
	e.GET("/metrics", metricsHandler(d.Registry))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	requireAuth := middleware.RequireAuth(d.Auth)
	api := e.Group("/api")

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth)
	auth := api.Group("/auth")
	if d.AuthRateLimit > 0 {
		auth.Use(authRateLimiter(d.AuthRateLimit))
	}
	auth.POST("/register", authHandler.Register)
	auth.POST("/token", authHandler.Token)
	auth.POST("/token/refresh", authHandler.Refresh)
	auth.POST("/token/blacklist", authHandler.Blacklist)

	// --- Users ---
	userHandler := handler.NewUserHandler(d.Auth)
	users := api.Group("/users", requireAuth)
	users.GET("/me", userHandler.Me)
	users.DELETE("/me", userHandler.DeleteMe)

	// --- Media content: open reads, authenticated writes ---
	contentHandler := handler.NewContentHandler(d.Contents)
	contents := api.Group("/contents", middleware.AuthOrReadOnly(d.Auth))
	contents.GET("", contentHandler.List)
	contents.POST("", contentHandler.Create)
	contents.GET("/:id", contentHandler.Get)
	contents.PUT("/:id", contentHandler.Update)
	contents.PATCH("/:id", contentHandler.Patch)
	contents.DELETE("/:id", contentHandler.Delete)

	// --- Ratings: authenticated only ---
	ratingHandler := handler.NewRatingHandler(d.Ratings)
	ratings := api.Group("/ratings", requireAuth)
	ratings.GET("", ratingHandler.List)
	ratings.POST("", ratingHandler.Create)
	ratings.GET("/:id", ratingHandler.Get)
	ratings.PUT("/:id", ratingHandler.Update)
	ratings.PATCH("/:id", ratingHandler.Update)
	ratings.DELETE("/:id", ratingHandler.Delete)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			switch {
			case v.Status >= http.StatusInternalServerError:
				evt = log.Error().Err(v.Error)
			case v.Status >= http.StatusBadRequest:
				evt = log.Warn()
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

func prometheusMiddleware(reg *prometheus.Registry) echo.MiddlewareFunc {
	cfg := echoprometheus.MiddlewareConfig{
		Namespace: "pixelcore",
		Subsystem: "http",
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/metrics" || strings.HasPrefix(p, "/health") || strings.HasPrefix(p, "/swagger")
		},
		DoNotUseRequestPathFor404: true,
	}
	if reg != nil {
		cfg.Registerer = reg
	}
	return echoprometheus.NewMiddlewareWithConfig(cfg)
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}

// authRateLimiter throttles the auth endpoints per client IP.
func authRateLimiter(perSecond float64) echo.MiddlewareFunc {
	burst := int(perSecond * 2)
	if burst < 1 {
		burst = 1
	}
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(perSecond),
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests)
		},
	})
}
