package ports

import (
	"context"
	"route-optimizer-service/internal/domain"
)

// Matrix holds pairwise results indexed by point position.
type Matrix [][]DistanceResult

// At returns the result from point i to point j.
func (m Matrix) At(i, j int) DistanceResult { return m[i][j] }

// Optional extension of DistanceProvider that supports batched lookups.
type DistanceMatrixProvider interface {
	DistanceProvider
	// Return the full symmetric matrix over points.
	GetMatrix(ctx context.Context, points []domain.Coordinates) (Matrix, error)
}
