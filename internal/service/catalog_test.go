package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/octobees/marketplace-catalog/internal/catalog"
	"github.com/octobees/marketplace-catalog/internal/dto"
	"github.com/octobees/marketplace-catalog/internal/entity"
	"github.com/octobees/marketplace-catalog/internal/repository"
)

func strPtr(s string) *string { return &s }

func TestCatalogService_Browse(t *testing.T) {
	svc := NewCatalogService(staticSource(marketplace()...), nil, nil, nil)

	resp, err := svc.Browse(context.Background(), catalog.FilterState{SelectedLocation: strPtr("2.Bodija")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Total != 2 || len(resp.Groups) != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Groups[0].Title != "1.Hotels" || resp.Groups[1].Title != "3.Cafes" {
		t.Fatalf("unexpected group order: %s, %s", resp.Groups[0].Title, resp.Groups[1].Title)
	}
	if resp.State.SelectedLocation == nil || *resp.State.SelectedLocation != "2.Bodija" {
		t.Fatalf("expected state echoed back, got %+v", resp.State)
	}
}

func TestCatalogService_BrowseUsesEngineCaps(t *testing.T) {
	engine := catalog.NewEngine(catalog.Options{GroupItemLimit: 1})
	svc := NewCatalogService(staticSource(marketplace()...), engine, nil, nil)

	resp, err := svc.Browse(context.Background(), catalog.FilterState{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Groups[0].Count != 2 || len(resp.Groups[0].Items) != 1 {
		t.Fatalf("expected capped hotel group, got %+v", resp.Groups[0])
	}
}

func TestCatalogService_SourceError(t *testing.T) {
	src := &mockSource{fetch: func(context.Context) ([]entity.Listing, error) {
		return nil, errors.New("sheet unavailable")
	}}
	svc := NewCatalogService(src, nil, nil, nil)

	if _, err := svc.Browse(context.Background(), catalog.FilterState{}); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := svc.Suggest(context.Background(), "ho", catalog.FilterState{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestCatalogService_Suggest(t *testing.T) {
	svc := NewCatalogService(staticSource(marketplace()...), nil, nil, nil)

	suggestions, err := svc.Suggest(context.Background(), "bodija", catalog.FilterState{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggestions) != 1 || suggestions[0].Value != "2.Bodija" || suggestions[0].Count != 2 {
		t.Fatalf("unexpected suggestions: %+v", suggestions)
	}
}

func TestCatalogService_CategoriesAndLocations(t *testing.T) {
	svc := NewCatalogService(staticSource(marketplace()...), nil, nil, nil)

	categories, err := svc.Categories(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(categories) != 3 || categories[0].Value != "1.Hotels" || categories[0].Count != 2 {
		t.Fatalf("unexpected categories: %+v", categories)
	}

	filtered, err := svc.Categories(context.Background(), "res")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Value != "4.Resorts" {
		t.Fatalf("unexpected prefix filter result: %+v", filtered)
	}

	locations, err := svc.Locations(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(locations) != 2 || locations[1].DisplayName != "Jericho" {
		t.Fatalf("unexpected locations: %+v", locations)
	}
}

func TestCatalogService_CategoryBySlug(t *testing.T) {
	svc := NewCatalogService(staticSource(marketplace()...), nil, nil, nil)

	tests := map[string]struct {
		slug      string
		limit     int
		wantTitle string
		wantCount int
		wantItems int
		wantErr   error
	}{
		"known slug":      {slug: "hotels", wantTitle: "1.Hotels", wantCount: 2, wantItems: 2},
		"limited":         {slug: "hotels", limit: 1, wantTitle: "1.Hotels", wantCount: 2, wantItems: 1},
		"fallback bucket": {slug: "other", wantTitle: entity.FallbackCategoryKey, wantCount: 1, wantItems: 1},
		"unknown":         {slug: "spas", wantErr: ErrCategoryNotFound},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			group, err := svc.CategoryBySlug(context.Background(), tt.slug, tt.limit)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if group.Title != tt.wantTitle || group.Count != tt.wantCount || len(group.Items) != tt.wantItems {
				t.Fatalf("unexpected group: %+v", group)
			}
		})
	}
}

func TestCatalogService_CategoryListings(t *testing.T) {
	var received dto.ListingQuery
	repo := &mockListingsRepository{
		count: func(_ context.Context, q dto.ListingQuery) (int, error) { return 42, nil },
		list: func(_ context.Context, q dto.ListingQuery) ([]entity.Listing, error) {
			received = q
			return []entity.Listing{{Name: "Sunset Hotel"}}, nil
		},
	}
	svc := NewCatalogService(staticSource(marketplace()...), nil, repo, nil)

	page, err := svc.CategoryListings(context.Background(), "hotels", dto.ListingQuery{Page: 0, PerPage: 500})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if received.Category != "1.Hotels" || received.Page != 1 || received.PerPage != dto.MaxPerPage {
		t.Fatalf("unexpected query: %+v", received)
	}
	if page.Total != 42 || page.DisplayName != "Hotels" || len(page.Items) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}

	if _, err := svc.CategoryListings(context.Background(), "unknown", dto.ListingQuery{}); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestCatalogService_StorageUnavailable(t *testing.T) {
	svc := NewCatalogService(staticSource(marketplace()...), nil, nil, nil)

	if _, err := svc.CategoryListings(context.Background(), "hotels", dto.ListingQuery{}); !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	if _, err := svc.Listing(context.Background(), uuid.New()); !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestCatalogService_Listing(t *testing.T) {
	repo := &mockListingsRepository{
		get: func(context.Context, uuid.UUID) (*entity.Listing, error) { return nil, repository.ErrListingNotFound },
	}
	svc := NewCatalogService(staticSource(), nil, repo, nil)

	_, err := svc.Listing(context.Background(), uuid.New())
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCatalogService_Transition(t *testing.T) {
	svc := NewCatalogService(staticSource(), nil, nil, nil)

	tests := map[string]struct {
		req      dto.StateTransitionRequest
		wantMode catalog.Mode
		wantText string
		wantErr  bool
	}{
		"select category": {
			req:      dto.StateTransitionRequest{Action: "select_category", Value: "1.Hotels"},
			wantMode: catalog.ModeCategorySelected,
			wantText: "Hotels",
		},
		"select location replaces category": {
			req: dto.StateTransitionRequest{
				State:  catalog.FilterState{SelectedCategory: strPtr("1.Hotels")},
				Action: "SELECT_LOCATION",
				Value:  "2.Bodija",
			},
			wantMode: catalog.ModeLocationSelected,
			wantText: "Bodija",
		},
		"clear": {
			req: dto.StateTransitionRequest{
				State:  catalog.FilterState{SelectedCategory: strPtr("1.Hotels"), InputText: "Hotels"},
				Action: "clear",
			},
			wantMode: catalog.ModeNoFilter,
			wantText: "Hotels",
		},
		"type drops stale filter": {
			req: dto.StateTransitionRequest{
				State:  catalog.FilterState{SelectedCategory: strPtr("1.Hotels"), InputText: "Hotels"},
				Action: "type",
				Value:  "Hote",
			},
			wantMode: catalog.ModeNoFilter,
			wantText: "Hote",
		},
		"unknown action": {
			req:     dto.StateTransitionRequest{Action: "book"},
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			resp, err := svc.Transition(tt.req)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownAction) {
					t.Fatalf("expected ErrUnknownAction, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.Mode != tt.wantMode || resp.State.InputText != tt.wantText {
				t.Fatalf("unexpected response: %+v", resp)
			}
		})
	}
}

func TestCatalogService_Invalidate(t *testing.T) {
	cached := &mockCachedSource{}
	svc := NewCatalogService(cached, nil, nil, nil)
	if err := svc.Invalidate(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cached.invalidations != 1 {
		t.Fatalf("expected one invalidation, got %d", cached.invalidations)
	}

	cached.invalidateErr = errors.New("redis down")
	if err := svc.Invalidate(context.Background()); err == nil {
		t.Fatalf("expected error")
	}

	plain := NewCatalogService(staticSource(), nil, nil, nil)
	if err := plain.Invalidate(context.Background()); err != nil {
		t.Fatalf("expected uncached source to be a no-op, got %v", err)
	}
}
