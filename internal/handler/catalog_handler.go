package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/octobees/marketplace-catalog/internal/catalog"
	"github.com/octobees/marketplace-catalog/internal/dto"
	"github.com/octobees/marketplace-catalog/internal/service"
	"github.com/octobees/marketplace-catalog/internal/source"
)

// CatalogHandler exposes the catalogue browsing endpoints.
type CatalogHandler struct {
	service *service.CatalogService
}

// NewCatalogHandler creates a new handler instance.
func NewCatalogHandler(service *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// Browse handles GET /catalog requests.
func (h *CatalogHandler) Browse(c echo.Context) error {
	state, err := stateFromQuery(c)
	if err != nil {
		return Error(c, http.StatusBadRequest, err.Error())
	}

	resp, err := h.service.Browse(c.Request().Context(), state)
	if err != nil {
		return h.failure(c, err, "unable to load catalog")
	}
	return Respond(c, http.StatusOK, "", resp)
}

// Suggestions handles GET /catalog/suggestions requests.
func (h *CatalogHandler) Suggestions(c echo.Context) error {
	state, err := stateFromQuery(c)
	if err != nil {
		return Error(c, http.StatusBadRequest, err.Error())
	}

	suggestions, err := h.service.Suggest(c.Request().Context(), state.SearchTerm, state)
	if err != nil {
		return h.failure(c, err, "unable to load suggestions")
	}
	return Respond(c, http.StatusOK, "", dto.SuggestionsResponse{Term: state.SearchTerm, Suggestions: suggestions})
}

// Transition handles POST /catalog/state requests.
func (h *CatalogHandler) Transition(c echo.Context) error {
	var req dto.StateTransitionRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	if req.State.SelectedCategory != nil && req.State.SelectedLocation != nil {
		return Error(c, http.StatusBadRequest, errExclusiveFilters.Error())
	}

	resp, err := h.service.Transition(req)
	if err != nil {
		if errors.Is(err, service.ErrUnknownAction) {
			return Error(c, http.StatusBadRequest, err.Error())
		}
		return Error(c, http.StatusInternalServerError, "unable to apply action")
	}
	return Success(c, http.StatusOK, "", resp)
}

// Categories handles GET /categories requests.
func (h *CatalogHandler) Categories(c echo.Context) error {
	facets, err := h.service.Categories(c.Request().Context(), c.QueryParam("prefix"))
	if err != nil {
		return h.failure(c, err, "unable to load categories")
	}
	return Respond(c, http.StatusOK, "", facets)
}

// Category handles GET /categories/:slug requests.
func (h *CatalogHandler) Category(c echo.Context) error {
	limit := parseIntDefault(c.QueryParam("limit"), 0)
	group, err := h.service.CategoryBySlug(c.Request().Context(), c.Param("slug"), limit)
	if err != nil {
		return h.failure(c, err, "unable to load category")
	}
	return Respond(c, http.StatusOK, "", group)
}

// CategoryListings handles GET /categories/:slug/listings requests.
func (h *CatalogHandler) CategoryListings(c echo.Context) error {
	query := dto.ListingQuery{
		Area:    strings.TrimSpace(c.QueryParam("location")),
		Page:    parseIntDefault(c.QueryParam("page"), dto.DefaultPage),
		PerPage: parseIntDefault(c.QueryParam("per_page"), dto.DefaultPerPage),
	}
	if err := query.Validate(); err != nil {
		return Error(c, http.StatusBadRequest, err.Error())
	}

	page, err := h.service.CategoryListings(c.Request().Context(), c.Param("slug"), query)
	if err != nil {
		return h.failure(c, err, "unable to load listings")
	}
	return Success(c, http.StatusOK, "", page)
}

// Locations handles GET /locations requests.
func (h *CatalogHandler) Locations(c echo.Context) error {
	facets, err := h.service.Locations(c.Request().Context())
	if err != nil {
		return h.failure(c, err, "unable to load locations")
	}
	return Respond(c, http.StatusOK, "", facets)
}

// Listing handles GET /listings/:id requests.
func (h *CatalogHandler) Listing(c echo.Context) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid listing id")
	}

	listing, err := h.service.Listing(c.Request().Context(), id)
	if err != nil {
		return h.failure(c, err, "unable to load listing")
	}
	return Success(c, http.StatusOK, "", listing)
}

func (h *CatalogHandler) failure(c echo.Context, err error, fallback string) error {
	switch {
	case service.IsNotFound(err):
		return Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrStorageUnavailable):
		return Error(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, source.ErrSourceUnavailable):
		return Error(c, http.StatusServiceUnavailable, "listings temporarily unavailable")
	default:
		return Error(c, http.StatusInternalServerError, fallback)
	}
}

var errExclusiveFilters = errors.New("category and location cannot both be selected")

// stateFromQuery reads q, category and location into a filter state.
func stateFromQuery(c echo.Context) (catalog.FilterState, error) {
	state := catalog.FilterState{SearchTerm: c.QueryParam("q")}
	state.InputText = state.SearchTerm

	category := strings.TrimSpace(c.QueryParam("category"))
	location := strings.TrimSpace(c.QueryParam("location"))
	if category != "" && location != "" {
		return catalog.FilterState{}, errExclusiveFilters
	}
	if category != "" {
		state.SelectedCategory = &category
	}
	if location != "" {
		state.SelectedLocation = &location
	}
	return state, nil
}

func parseIntDefault(value string, fallback int) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
