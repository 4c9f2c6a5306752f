package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/octobees/marketplace-catalog/internal/auth"
	"github.com/octobees/marketplace-catalog/internal/cache"
	"github.com/octobees/marketplace-catalog/internal/catalog"
	"github.com/octobees/marketplace-catalog/internal/config"
	"github.com/octobees/marketplace-catalog/internal/database"
	"github.com/octobees/marketplace-catalog/internal/handler"
	"github.com/octobees/marketplace-catalog/internal/logging"
	"github.com/octobees/marketplace-catalog/internal/metrics"
	middlewarepkg "github.com/octobees/marketplace-catalog/internal/middleware"
	"github.com/octobees/marketplace-catalog/internal/repository"
	"github.com/octobees/marketplace-catalog/internal/router"
	"github.com/octobees/marketplace-catalog/internal/service"
	"github.com/octobees/marketplace-catalog/internal/source"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("catalog api stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	m := metrics.New("catalog")
	decoder := source.RecordDecoder{PhoneRegion: cfg.DefaultPhoneRegion}

	var listingsRepo repository.ListingsRepository
	if cfg.DatabaseURL != "" {
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close()

		repo := repository.NewPGXListingsRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
		listingsRepo = repo
	}

	inner, err := buildSource(ctx, cfg, decoder, listingsRepo)
	if err != nil {
		return err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}
	listings := source.NewCachedSource(inner, store, cfg.CacheTTL, cfg.FetchTimeout, logger.Named("source"), m)

	engine := catalog.NewEngine(catalog.Options{
		GroupItemLimit:   cfg.Engine.GroupItemLimit,
		SuggestionLimit:  cfg.Engine.SuggestionLimit,
		SubcategoryLimit: cfg.Engine.SubcategoryLimit,
	})

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	catalogService := service.NewCatalogService(listings, engine, listingsRepo, logger.Named("catalog"))
	importService := service.NewImportService(listingsRepo, listings, decoder, logger.Named("import"))
	authService := service.NewAuthService(service.Curator{Email: cfg.AdminEmail, PasswordHash: cfg.AdminPasswordHash}, jwtManager)

	handlers := router.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Catalog:     handler.NewCatalogHandler(catalogService),
		AdminUpload: handler.NewAdminUploadHandler(importService),
		Cache:       handler.NewCacheHandler(catalogService),
	}
	if cfg.MetricsEnabled {
		handlers.Metrics = m.Handler()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(logger.Named("http")))
	e.Use(middlewarepkg.Metrics(m))
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, handlers)

	logger.Info("starting catalog api",
		zap.String("port", cfg.Port),
		zap.String("source", inner.Name()),
		zap.String("cache", cfg.CacheBackend),
		zap.Bool("storage", listingsRepo != nil),
	)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
	return nil
}

func buildSource(ctx context.Context, cfg *config.Config, decoder source.RecordDecoder, repo repository.ListingsRepository) (source.Source, error) {
	switch cfg.ListingSource {
	case config.SourceHTTP:
		return source.NewHTTPSource(nil, cfg.ListingsURL, decoder), nil
	case config.SourceSheets:
		src, err := source.NewSheetsSource(ctx, cfg.Sheets.SpreadsheetID, cfg.Sheets.Range, cfg.Sheets.APIKey, decoder)
		if err != nil {
			return nil, fmt.Errorf("build sheets source: %w", err)
		}
		return src, nil
	case config.SourcePostgres:
		if repo == nil {
			return nil, errors.New("postgres source requires DATABASE_URL")
		}
		return source.NewPostgresSource(repo), nil
	default:
		return nil, fmt.Errorf("unknown listing source %q", cfg.ListingSource)
	}
}

func buildStore(ctx context.Context, cfg *config.Config) (cache.Store, error) {
	if cfg.CacheBackend != config.CacheRedis {
		return cache.NewMemoryStore(), nil
	}
	client, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return cache.NewRedisStore(client, "catalog:"), nil
}
