package services

import (
	"context"
	"fmt"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"

	"golang.org/x/sync/errgroup"
)

// Bound on concurrent provider calls when building a matrix pairwise.
const matrixWorkers = 5

// BuildMatrix returns the symmetric distance matrix over points.
//
// Batched lookups are preferred when the provider supports them. Otherwise
// rows are fetched concurrently, one pair per upper-triangle cell, and the
// first failure cancels the rest.
func BuildMatrix(
	ctx context.Context,
	provider ports.DistanceProvider,
	points []domain.Coordinates,
) (_ ports.Matrix, err error) {
	defer obs.Time(ctx, "services.BuildMatrix")(&err)

	n := len(points)

	if mp, ok := provider.(ports.DistanceMatrixProvider); ok {
		m, err := mp.GetMatrix(ctx, points)
		if err != nil {
			return nil, fmt.Errorf("build matrix: %w", err)
		}
		if len(m) != n {
			return nil, fmt.Errorf("build matrix: provider returned %d rows for %d points", len(m), n)
		}
		for i, row := range m {
			if len(row) != n {
				return nil, fmt.Errorf("build matrix: row %d has %d columns, want %d", i, len(row), n)
			}
		}
		return m, nil
	}

	m := make(ports.Matrix, n)
	for i := range m {
		m[i] = make([]ports.DistanceResult, n)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(matrixWorkers)

	for i := 0; i < n-1; i++ {
		i := i
		g.Go(func() error {
			for j := i + 1; j < n; j++ {
				r, err := provider.GetDistance(gctx, points[i], points[j])
				if err != nil {
					return fmt.Errorf("build matrix: distance %d -> %d: %w", i, j, err)
				}
				// Each goroutine owns row i above the diagonal and column i below it.
				m[i][j] = r
				m[j][i] = r
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}
