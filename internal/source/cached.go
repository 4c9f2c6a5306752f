package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/octobees/marketplace-catalog/internal/cache"
	"github.com/octobees/marketplace-catalog/internal/entity"
)

// Observer receives fetch and cache outcomes. *metrics.Metrics implements it.
type Observer interface {
	ObserveFetch(source string, err error)
	CacheHit()
	CacheMiss()
}

type noopObserver struct{}

func (noopObserver) ObserveFetch(string, error) {}
func (noopObserver) CacheHit()                  {}
func (noopObserver) CacheMiss()                 {}

// CachedSource serves snapshots from a cache.Store and refills it from the
// wrapped source. Concurrent misses share one upstream fetch.
type CachedSource struct {
	inner        Source
	store        cache.Store
	ttl          time.Duration
	fetchTimeout time.Duration
	logger       *zap.Logger
	observer     Observer
	group        singleflight.Group
}

// DefaultFetchTimeout bounds a shared upstream fetch when none is configured.
const DefaultFetchTimeout = 10 * time.Second

// NewCachedSource wraps inner. A non-positive fetchTimeout uses
// DefaultFetchTimeout. logger and observer may be nil.
func NewCachedSource(inner Source, store cache.Store, ttl, fetchTimeout time.Duration, logger *zap.Logger, observer Observer) *CachedSource {
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if observer == nil {
		observer = noopObserver{}
	}
	return &CachedSource{
		inner:        inner,
		store:        store,
		ttl:          ttl,
		fetchTimeout: fetchTimeout,
		logger:       logger,
		observer:     observer,
	}
}

func (s *CachedSource) Name() string { return s.inner.Name() }

// Key is the cache key of the wrapped source's snapshot.
func (s *CachedSource) Key() string { return "listings:" + s.inner.Name() }

// Fetch returns the cached snapshot or fetches a fresh one. A broken cache
// degrades to a direct fetch. The shared upstream fetch outlives any single
// caller but is bounded by the fetch timeout; a caller whose ctx ends first
// returns ctx.Err() without waiting for it.
func (s *CachedSource) Fetch(ctx context.Context) ([]entity.Listing, error) {
	key := s.Key()

	data, err := s.store.Get(ctx, key)
	switch {
	case err == nil:
		var listings []entity.Listing
		if uerr := json.Unmarshal(data, &listings); uerr != nil {
			s.logger.Warn("discarding corrupt cached snapshot", zap.String("key", key), zap.Error(uerr))
			break
		}
		s.observer.CacheHit()
		return listings, nil
	case !errors.Is(err, cache.ErrCacheMiss):
		s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}
	s.observer.CacheMiss()

	ch := s.group.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
		defer cancel()
		return s.refresh(fctx, key)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]entity.Listing), nil
	}
}

func (s *CachedSource) refresh(ctx context.Context, key string) ([]entity.Listing, error) {
	listings, err := s.inner.Fetch(ctx)
	s.observer.ObserveFetch(s.inner.Name(), err)
	if err != nil {
		s.logger.Error("listing fetch failed", zap.String("source", s.inner.Name()), zap.Error(err))
		return nil, fmt.Errorf("fetch %s listings: %w", s.inner.Name(), err)
	}

	data, err := json.Marshal(listings)
	if err != nil {
		s.logger.Warn("encode snapshot failed", zap.String("key", key), zap.Error(err))
		return listings, nil
	}
	if err := s.store.Set(ctx, key, data, s.ttl); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	s.logger.Debug("listing snapshot refreshed", zap.String("source", s.inner.Name()), zap.Int("listings", len(listings)))
	return listings, nil
}

// Invalidate drops the cached snapshot so the next Fetch goes upstream.
func (s *CachedSource) Invalidate(ctx context.Context) error {
	if err := s.store.Delete(ctx, s.Key()); err != nil {
		return fmt.Errorf("invalidate %s: %w", s.Key(), err)
	}
	return nil
}

var _ Source = (*CachedSource)(nil)
