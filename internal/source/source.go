// Package source loads listing snapshots from the configured backend.
package source

import (
	"context"
	"errors"

	"github.com/octobees/marketplace-catalog/internal/entity"
)

// ErrSourceUnavailable wraps every failure to reach or read a backend.
var ErrSourceUnavailable = errors.New("listing source unavailable")

// Source returns the current listing snapshot.
type Source interface {
	Fetch(ctx context.Context) ([]entity.Listing, error)
	Name() string
}
