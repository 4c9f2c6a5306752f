package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/octobees/marketplace-catalog/internal/catalog"
	"github.com/octobees/marketplace-catalog/internal/dto"
	"github.com/octobees/marketplace-catalog/internal/entity"
	"github.com/octobees/marketplace-catalog/internal/repository"
	"github.com/octobees/marketplace-catalog/internal/source"
)

// State transition actions accepted by Transition.
const (
	ActionSelectCategory = "select_category"
	ActionSelectLocation = "select_location"
	ActionClear          = "clear"
	ActionType           = "type"
)

type invalidator interface {
	Invalidate(ctx context.Context) error
}

// CatalogService runs the catalog engine over the current listing snapshot.
type CatalogService struct {
	source   source.Source
	engine   *catalog.Engine
	listings repository.ListingsRepository
	logger   *zap.Logger
}

// NewCatalogService wires the service. listings may be nil when no database
// is configured; the paged endpoints then report ErrStorageUnavailable.
func NewCatalogService(src source.Source, engine *catalog.Engine, listings repository.ListingsRepository, logger *zap.Logger) *CatalogService {
	if engine == nil {
		engine = catalog.NewEngine(catalog.Options{})
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{source: src, engine: engine, listings: listings, logger: logger}
}

func (s *CatalogService) snapshot(ctx context.Context) ([]entity.Listing, error) {
	listings, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("load listings: %w", err)
	}
	return listings, nil
}

// Browse filters the snapshot with state and groups the result by category.
func (s *CatalogService) Browse(ctx context.Context, state catalog.FilterState) (dto.CatalogResponse, error) {
	listings, err := s.snapshot(ctx)
	if err != nil {
		return dto.CatalogResponse{}, err
	}
	filtered := catalog.Filter(listings, state)
	return dto.CatalogResponse{
		Groups: s.engine.GroupByCategory(filtered),
		Total:  len(filtered),
		State:  state,
	}, nil
}

// Suggest ranks category and area suggestions for term.
func (s *CatalogService) Suggest(ctx context.Context, term string, state catalog.FilterState) ([]catalog.Suggestion, error) {
	listings, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.engine.Suggest(term, listings, catalog.DistinctCategories(listings), catalog.DistinctAreas(listings), state), nil
}

// Categories lists category facets, optionally restricted to slugs starting
// with prefix.
func (s *CatalogService) Categories(ctx context.Context, prefix string) ([]catalog.Facet, error) {
	listings, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	facets := catalog.CategoryFacets(listings)
	if strings.TrimSpace(prefix) == "" {
		return facets, nil
	}

	allowed := make(map[string]struct{})
	for _, raw := range catalog.NewSlugIndex(catalog.DistinctCategories(listings)).WithPrefix(prefix) {
		allowed[raw] = struct{}{}
	}
	out := make([]catalog.Facet, 0, len(allowed))
	for _, f := range facets {
		if _, ok := allowed[f.Value]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}

// Locations lists area facets.
func (s *CatalogService) Locations(ctx context.Context) ([]catalog.Facet, error) {
	listings, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.LocationFacets(listings), nil
}

// CategoryBySlug returns the full group for one category, items capped at
// limit when limit > 0. The fallback slug resolves to the "other.other"
// bucket unless a real category claims it.
func (s *CatalogService) CategoryBySlug(ctx context.Context, slug string, limit int) (catalog.CategoryGroup, error) {
	listings, err := s.snapshot(ctx)
	if err != nil {
		return catalog.CategoryGroup{}, err
	}

	key, ok := resolveSlug(listings, slug)
	if !ok {
		return catalog.CategoryGroup{}, ErrCategoryNotFound
	}

	group := catalog.CategoryGroup{
		Title:       key,
		DisplayName: catalog.CategoryDisplayName(key),
		Slug:        catalog.Slug(key),
		Items:       make([]entity.Listing, 0),
	}
	for _, listing := range listings {
		if listing.CategoryKey() != key {
			continue
		}
		group.Count++
		if limit <= 0 || len(group.Items) < limit {
			group.Items = append(group.Items, listing)
		}
	}
	if group.Count == 0 {
		return catalog.CategoryGroup{}, ErrCategoryNotFound
	}
	return group, nil
}

// CategoryListings pages through the stored listings of one category.
func (s *CatalogService) CategoryListings(ctx context.Context, slug string, query dto.ListingQuery) (dto.ListingPage, error) {
	if s.listings == nil {
		return dto.ListingPage{}, ErrStorageUnavailable
	}
	listings, err := s.snapshot(ctx)
	if err != nil {
		return dto.ListingPage{}, err
	}
	raw, ok := resolveSlug(listings, slug)
	if !ok || raw == entity.FallbackCategoryKey {
		return dto.ListingPage{}, ErrCategoryNotFound
	}

	query.Category = raw
	query = query.Normalize()

	total, err := s.listings.Count(ctx, query)
	if err != nil {
		return dto.ListingPage{}, fmt.Errorf("count category listings: %w", err)
	}
	items, err := s.listings.List(ctx, query)
	if err != nil {
		return dto.ListingPage{}, fmt.Errorf("list category listings: %w", err)
	}

	return dto.ListingPage{
		Category:    raw,
		DisplayName: catalog.CategoryDisplayName(raw),
		Page:        query.Page,
		PerPage:     query.PerPage,
		Total:       total,
		Items:       items,
	}, nil
}

// Listing returns one stored listing.
func (s *CatalogService) Listing(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
	if s.listings == nil {
		return nil, ErrStorageUnavailable
	}
	return s.listings.Get(ctx, id)
}

// Transition applies one selection action to state.
func (s *CatalogService) Transition(req dto.StateTransitionRequest) (dto.StateTransitionResponse, error) {
	state := req.State
	switch strings.ToLower(strings.TrimSpace(req.Action)) {
	case ActionSelectCategory:
		state = state.SelectCategory(req.Value)
	case ActionSelectLocation:
		state = state.SelectLocation(req.Value)
	case ActionClear:
		state = state.ClearSelection()
	case ActionType:
		state = state.Type(req.Value)
	default:
		return dto.StateTransitionResponse{}, fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
	}
	return dto.StateTransitionResponse{State: state, Mode: state.Mode()}, nil
}

// Invalidate drops the cached snapshot when the source is cached.
func (s *CatalogService) Invalidate(ctx context.Context) error {
	inv, ok := s.source.(invalidator)
	if !ok {
		return nil
	}
	if err := inv.Invalidate(ctx); err != nil {
		return fmt.Errorf("invalidate snapshot: %w", err)
	}
	s.logger.Info("listing snapshot invalidated", zap.String("source", s.source.Name()))
	return nil
}

// IsNotFound reports whether err means the requested resource does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCategoryNotFound) || errors.Is(err, repository.ErrListingNotFound)
}

func resolveSlug(listings []entity.Listing, slug string) (string, bool) {
	if raw, ok := catalog.NewSlugIndex(catalog.DistinctCategories(listings)).Lookup(slug); ok {
		return raw, true
	}
	if strings.EqualFold(strings.TrimSpace(slug), catalog.Slug(entity.FallbackCategoryKey)) {
		return entity.FallbackCategoryKey, true
	}
	return "", false
}
