package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/marketplace-catalog/internal/auth"
	"github.com/octobees/marketplace-catalog/internal/config"
	"github.com/octobees/marketplace-catalog/internal/handler"
	middlewarepkg "github.com/octobees/marketplace-catalog/internal/middleware"
)

// SuggestionsPath is the rate limited autocomplete route.
const SuggestionsPath = "/catalog/suggestions"

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth        *handler.AuthHandler
	Catalog     *handler.CatalogHandler
	AdminUpload *handler.AdminUploadHandler
	Cache       *handler.CacheHandler
	// Metrics is mounted on /metrics when non-nil.
	Metrics http.Handler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", handler.Health)
	if handlers.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(handlers.Metrics))
	}

	e.POST("/auth/login", handlers.Auth.Login)

	e.GET("/catalog", handlers.Catalog.Browse)
	e.GET(SuggestionsPath, handlers.Catalog.Suggestions, middlewarepkg.RateLimiter(cfg.RateLimitSuggest, SuggestionsPath))
	e.POST("/catalog/state", handlers.Catalog.Transition)
	e.GET("/categories", handlers.Catalog.Categories)
	e.GET("/categories/:slug", handlers.Catalog.Category)
	e.GET("/categories/:slug/listings", handlers.Catalog.CategoryListings)
	e.GET("/locations", handlers.Catalog.Locations)
	e.GET("/listings/:id", handlers.Catalog.Listing)

	admin := e.Group("/admin", middlewarepkg.JWT(jwtManager), middlewarepkg.RequireRole(auth.RoleCurator))
	admin.POST("/upload-csv", handlers.AdminUpload.UploadCSV)
	admin.DELETE("/cache", handlers.Cache.Invalidate)
}
