package ports

import (
	"context"
	"route-optimizer-service/internal/domain"
)

// DistanceCache stores provider results keyed by an unordered coordinate pair.
// Implementations normalise pair order themselves.
type DistanceCache interface {
	// Return cached results for the given pairs; misses are simply absent.
	GetMany(ctx context.Context, pairs []Pair) (map[Pair]DistanceResult, error)
	// Store results for the given pairs.
	PutMany(ctx context.Context, results map[Pair]DistanceResult) error
}

// Pair is an unordered coordinate pair in canonical order (A.Key() <= B.Key()).
type Pair struct {
	A, B domain.Coordinates
}

// NewPair returns the canonical pair for a and b.
func NewPair(a, b domain.Coordinates) Pair {
	if b.Key() < a.Key() {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// Key is the textual cache key of the pair.
func (p Pair) Key() string { return p.A.Key() + "|" + p.B.Key() }
