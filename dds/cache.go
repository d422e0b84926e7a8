package dds

import (
	"context"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"voyager.com/bridgebot/util/hashing"
)

// CachingSolver memoizes solve results by position fingerprint. A deal
// revisits the same position whenever the upstream resends events, so a
// small LRU avoids repeated oracle round trips. Errors are not cached.
type CachingSolver struct {
	inner Solver
	cache *lru.Cache
}

func NewCachingSolver(inner Solver, size int) (*CachingSolver, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to create solver cache")
	}
	return &CachingSolver{inner: inner, cache: cache}, nil
}

func (s *CachingSolver) Solve(ctx context.Context, position Position) ([]CardTricks, error) {
	key := hashing.GenerateStringHash(position.Fingerprint())
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]CardTricks), nil
	}
	result, err := s.inner.Solve(ctx, position)
	if err != nil {
		return nil, err
	}
	s.cache.Add(key, result)
	return result, nil
}
