package ports

import (
	"context"
	"route-optimizer-service/internal/domain"
)

// Distance and travel duration between two locations.
type DistanceResult struct {
	DistanceMeters  int
	DurationSeconds int
}

// Contract for retrieving travel distance and duration between coordinates.
// Implementations must be deterministic and symmetric: GetDistance(a, b) and
// GetDistance(b, a) return the same result, and GetDistance(a, a) is zero.
type DistanceProvider interface {
	// Return travel distance and estimated duration between two points.
	// Out-of-range coordinates fail with domain.ErrInvalidCoordinate.
	GetDistance(ctx context.Context, origin, destination domain.Coordinates) (DistanceResult, error)
}
