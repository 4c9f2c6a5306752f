package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/marketplace-catalog/internal/service"
)

// CacheHandler lets curators drop the cached listing snapshot.
type CacheHandler struct {
	service *service.CatalogService
}

// NewCacheHandler creates a new handler instance.
func NewCacheHandler(service *service.CatalogService) *CacheHandler {
	return &CacheHandler{service: service}
}

// Invalidate handles DELETE /admin/cache requests.
func (h *CacheHandler) Invalidate(c echo.Context) error {
	if err := h.service.Invalidate(c.Request().Context()); err != nil {
		return Error(c, http.StatusInternalServerError, "unable to invalidate cache")
	}
	return Success(c, http.StatusOK, "cache invalidated", nil)
}
