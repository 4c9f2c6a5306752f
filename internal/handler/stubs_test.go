package handler

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/octobees/marketplace-catalog/internal/dto"
	"github.com/octobees/marketplace-catalog/internal/entity"
	"github.com/octobees/marketplace-catalog/internal/repository"
)

type stubSource struct {
	fetch       func(ctx context.Context) ([]entity.Listing, error)
	invalidate  func(ctx context.Context) error
	invalidated int
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Fetch(ctx context.Context) ([]entity.Listing, error) {
	if s.fetch != nil {
		return s.fetch(ctx)
	}
	return nil, errors.New("not implemented")
}

func (s *stubSource) Invalidate(ctx context.Context) error {
	s.invalidated++
	if s.invalidate != nil {
		return s.invalidate(ctx)
	}
	return nil
}

type stubListingsRepository struct {
	replaceAll func(ctx context.Context, listings []entity.Listing) (repository.ReplaceResult, error)
	list       func(ctx context.Context, query dto.ListingQuery) ([]entity.Listing, error)
	count      func(ctx context.Context, query dto.ListingQuery) (int, error)
	get        func(ctx context.Context, id uuid.UUID) (*entity.Listing, error)
}

func (s *stubListingsRepository) EnsureSchema(context.Context) error { return nil }

func (s *stubListingsRepository) ReplaceAll(ctx context.Context, listings []entity.Listing) (repository.ReplaceResult, error) {
	if s.replaceAll != nil {
		return s.replaceAll(ctx, listings)
	}
	return repository.ReplaceResult{Inserted: len(listings)}, nil
}

func (s *stubListingsRepository) All(context.Context) ([]entity.Listing, error) {
	return nil, errors.New("not implemented")
}

func (s *stubListingsRepository) List(ctx context.Context, query dto.ListingQuery) ([]entity.Listing, error) {
	if s.list != nil {
		return s.list(ctx, query)
	}
	return nil, nil
}

func (s *stubListingsRepository) Count(ctx context.Context, query dto.ListingQuery) (int, error) {
	if s.count != nil {
		return s.count(ctx, query)
	}
	return 0, nil
}

func (s *stubListingsRepository) Get(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
	if s.get != nil {
		return s.get(ctx, id)
	}
	return nil, repository.ErrListingNotFound
}

func listingsSource(listings ...entity.Listing) *stubSource {
	return &stubSource{fetch: func(context.Context) ([]entity.Listing, error) { return listings, nil }}
}

func sampleListings() []entity.Listing {
	return []entity.Listing{
		{Name: "Sunset Hotel", Category: "1.Hotels", Area: "2.Bodija"},
		{Name: "Sunrise Cafe", Category: "3.Cafes", Area: "2.Bodija"},
		{Name: "Hotel Royal", Category: "1.Hotels", Area: "9.Jericho"},
		{Name: "Orphan", Category: "", Area: "9.Jericho"},
	}
}
