package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/octobees/marketplace-catalog/internal/dto"
	"github.com/octobees/marketplace-catalog/internal/entity"
	"github.com/octobees/marketplace-catalog/internal/repository"
)

type mockSource struct {
	name  string
	fetch func(ctx context.Context) ([]entity.Listing, error)
}

func (m *mockSource) Name() string {
	if m.name == "" {
		return "mock"
	}
	return m.name
}

func (m *mockSource) Fetch(ctx context.Context) ([]entity.Listing, error) {
	if m.fetch != nil {
		return m.fetch(ctx)
	}
	return nil, errors.New("fetch not implemented")
}

type mockCachedSource struct {
	mockSource
	invalidations int
	invalidateErr error
}

func (m *mockCachedSource) Invalidate(context.Context) error {
	m.invalidations++
	return m.invalidateErr
}

type mockListingsRepository struct {
	replaceAll func(ctx context.Context, listings []entity.Listing) (repository.ReplaceResult, error)
	list       func(ctx context.Context, query dto.ListingQuery) ([]entity.Listing, error)
	count      func(ctx context.Context, query dto.ListingQuery) (int, error)
	get        func(ctx context.Context, id uuid.UUID) (*entity.Listing, error)
}

func (m *mockListingsRepository) EnsureSchema(context.Context) error { return nil }

func (m *mockListingsRepository) ReplaceAll(ctx context.Context, listings []entity.Listing) (repository.ReplaceResult, error) {
	if m.replaceAll != nil {
		return m.replaceAll(ctx, listings)
	}
	return repository.ReplaceResult{}, errors.New("replaceAll not implemented")
}

func (m *mockListingsRepository) All(context.Context) ([]entity.Listing, error) {
	return nil, errors.New("all not implemented")
}

func (m *mockListingsRepository) List(ctx context.Context, query dto.ListingQuery) ([]entity.Listing, error) {
	if m.list != nil {
		return m.list(ctx, query)
	}
	return nil, errors.New("list not implemented")
}

func (m *mockListingsRepository) Count(ctx context.Context, query dto.ListingQuery) (int, error) {
	if m.count != nil {
		return m.count(ctx, query)
	}
	return 0, errors.New("count not implemented")
}

func (m *mockListingsRepository) Get(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
	if m.get != nil {
		return m.get(ctx, id)
	}
	return nil, errors.New("get not implemented")
}

func staticSource(listings ...entity.Listing) *mockSource {
	return &mockSource{fetch: func(context.Context) ([]entity.Listing, error) { return listings, nil }}
}

func marketplace() []entity.Listing {
	return []entity.Listing{
		{Name: "Sunset Hotel", Category: "1.Hotels", Area: "2.Bodija"},
		{Name: "Sunrise Cafe", Category: "3.Cafes", Area: "2.Bodija"},
		{Name: "Hotel Royal", Category: "1.Hotels", Area: "9.Jericho"},
		{Name: "Nameless", Category: "", Area: ""},
		{Name: "Resort One", Category: "4.Resorts", Area: "9.Jericho"},
	}
}
