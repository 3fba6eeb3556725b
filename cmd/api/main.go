// @title                       PixelCore API
// @version                     1.0
// @description                 Users, media content and one-per-user ratings.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	_ "github.com/pixelcore/pixelcore-api/docs"
	"github.com/pixelcore/pixelcore-api/internal/api"
	"github.com/pixelcore/pixelcore-api/internal/api/handler"
	"github.com/pixelcore/pixelcore-api/internal/core/service"
	"github.com/pixelcore/pixelcore-api/internal/infrastructure/config"
	mongodb "github.com/pixelcore/pixelcore-api/internal/infrastructure/db/mongo"
	redisdb "github.com/pixelcore/pixelcore-api/internal/infrastructure/db/redis"
	"github.com/pixelcore/pixelcore-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		// The configured logger may not exist yet when config loading fails.
		fallback := zerolog.New(os.Stderr).With().Timestamp().Logger()
		fallback.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty && !cfg.IsProduction(),
		Service: "pixelcore-api",
	})

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		AppName:     "pixelcore-api",
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
		Timeout:     cfg.Mongo.Timeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	// --- Services ---
	users := mongodb.NewUserRepository(db)
	contents := mongodb.NewContentRepository(db)
	ratings := mongodb.NewRatingRepository(db)
	pages := service.Pagination{DefaultSize: cfg.Pagination.PageSize, MaxSize: cfg.Pagination.MaxPageSize}

	authSvc := service.NewAuthService(users, ratings, redisdb.NewTokenDenylist(rdb), service.AuthConfig{
		JWTSecret:  cfg.Auth.JWTSecret,
		AccessTTL:  cfg.Auth.AccessTokenTTL,
		RefreshTTL: cfg.Auth.RefreshTokenTTL,
	}, logger.Component("auth"))

	router := api.NewRouter(api.Deps{
		Auth:          authSvc,
		Contents:      service.NewContentService(contents, pages, logger.Component("contents")),
		Ratings:       service.NewRatingService(ratings, contents, pages, logger.Component("ratings")),
		Readiness:     handler.NewHealthDependenciesHandler(db, rdb),
		Logger:        logger.Component("http"),
		CORSOrigins:   cfg.HTTP.CORSOrigins,
		AuthRateLimit: cfg.Auth.RateLimit,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("http server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
