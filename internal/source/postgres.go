package source

import (
	"context"
	"fmt"

	"github.com/octobees/marketplace-catalog/internal/entity"
)

type listingReader interface {
	All(ctx context.Context) ([]entity.Listing, error)
}

// PostgresSource serves the snapshot last imported into the listings table.
type PostgresSource struct {
	repo listingReader
}

func NewPostgresSource(repo listingReader) *PostgresSource {
	return &PostgresSource{repo: repo}
}

func (s *PostgresSource) Name() string { return "postgres" }

func (s *PostgresSource) Fetch(ctx context.Context) ([]entity.Listing, error) {
	listings, err := s.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	return listings, nil
}

var _ Source = (*PostgresSource)(nil)
