package ports

import (
	"context"
	"route-optimizer-service/internal/domain"
)

// Port: a boundary for persisting optimization results across restarts.
type ResultRepository interface {
	// Save stores the result as the latest snapshot.
	SaveResult(ctx context.Context, result *domain.OptimizationResult) error
	// LoadLatest returns the most recent snapshot or domain.ErrNotFound.
	LoadLatest(ctx context.Context) (*domain.OptimizationResult, error)
}
