package distance

import (
	"context"
	"fmt"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"

	log "github.com/sirupsen/logrus"
)

// CachedProvider decorates a provider with a persistent pair cache.
// Cache read failures are returned; write failures are only logged.
type CachedProvider struct {
	inner ports.DistanceProvider
	cache ports.DistanceCache
}

func NewCachedProvider(inner ports.DistanceProvider, cache ports.DistanceCache) *CachedProvider {
	return &CachedProvider{inner: inner, cache: cache}
}

func (c *CachedProvider) GetDistance(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (ports.DistanceResult, error) {
	if err := origin.Validate(); err != nil {
		return ports.DistanceResult{}, fmt.Errorf("cached distance: origin: %w", err)
	}
	if err := destination.Validate(); err != nil {
		return ports.DistanceResult{}, fmt.Errorf("cached distance: destination: %w", err)
	}
	if origin.Key() == destination.Key() {
		return ports.DistanceResult{}, nil
	}

	pair := ports.NewPair(origin, destination)
	hits, err := c.cache.GetMany(ctx, []ports.Pair{pair})
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("cached distance: read cache: %w", err)
	}
	if r, ok := hits[pair]; ok {
		return r, nil
	}

	// Query in canonical order so a cold and a warm cache agree.
	r, err := c.inner.GetDistance(ctx, pair.A, pair.B)
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("cached distance: %w", err)
	}
	c.store(ctx, map[ports.Pair]ports.DistanceResult{pair: r})

	return r, nil
}

// GetMatrix serves cached pairs and asks the inner provider only for the
// points involved in a miss.
func (c *CachedProvider) GetMatrix(
	ctx context.Context,
	points []domain.Coordinates,
) (_ ports.Matrix, err error) {
	defer obs.Time(ctx, "distance.cached.GetMatrix")(&err)

	for i, p := range points {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("cached matrix: point #%d: %w", i, err)
		}
	}

	seen := make(map[ports.Pair]struct{})
	pairs := make([]ports.Pair, 0, len(points)*len(points)/2)
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			if points[i].Key() == points[j].Key() {
				continue
			}
			p := ports.NewPair(points[i], points[j])
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			pairs = append(pairs, p)
		}
	}

	known, err := c.cache.GetMany(ctx, pairs)
	if err != nil {
		return nil, fmt.Errorf("cached matrix: read cache: %w", err)
	}

	misses := make([]ports.Pair, 0)
	for _, p := range pairs {
		if _, ok := known[p]; !ok {
			misses = append(misses, p)
		}
	}

	if len(misses) > 0 {
		fresh, err := c.fetch(ctx, misses)
		if err != nil {
			return nil, fmt.Errorf("cached matrix: %w", err)
		}
		c.store(ctx, fresh)
		for p, r := range fresh {
			known[p] = r
		}
	}

	out := newMatrix(len(points))
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			if points[i].Key() == points[j].Key() {
				continue
			}
			r := known[ports.NewPair(points[i], points[j])]
			out[i][j] = r
			out[j][i] = r
		}
	}

	return out, nil
}

func (c *CachedProvider) fetch(ctx context.Context, misses []ports.Pair) (map[ports.Pair]ports.DistanceResult, error) {
	out := make(map[ports.Pair]ports.DistanceResult, len(misses))

	// Prefer one batched call over the points involved in misses.
	if mp, ok := c.inner.(ports.DistanceMatrixProvider); ok {
		idx := map[string]int{}
		sub := make([]domain.Coordinates, 0)
		for _, p := range misses {
			for _, pt := range []domain.Coordinates{p.A, p.B} {
				if _, ok := idx[pt.Key()]; !ok {
					idx[pt.Key()] = len(sub)
					sub = append(sub, pt)
				}
			}
		}

		m, err := mp.GetMatrix(ctx, sub)
		if err != nil {
			return nil, fmt.Errorf("get inner matrix: %w", err)
		}
		for _, p := range misses {
			out[p] = m.At(idx[p.A.Key()], idx[p.B.Key()])
		}
		return out, nil
	}

	for _, p := range misses {
		r, err := c.inner.GetDistance(ctx, p.A, p.B)
		if err != nil {
			return nil, fmt.Errorf("get inner distance %s: %w", p.Key(), err)
		}
		out[p] = r
	}
	return out, nil
}

func (c *CachedProvider) store(ctx context.Context, results map[ports.Pair]ports.DistanceResult) {
	if err := c.cache.PutMany(ctx, results); err != nil {
		log.WithError(err).WithField("pairs", len(results)).Warn("distance cache write failed")
	}
}
