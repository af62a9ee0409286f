package distance

import (
	"context"
	"fmt"
	"math"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
)

const earthRadiusMeters = 6371008.8

// HaversineProvider computes great-circle distances and derives travel time
// from a constant average speed. It needs no network and is safe for
// concurrent use.
type HaversineProvider struct {
	speedKmh float64
}

func NewHaversineProvider(speedKmh float64) (*HaversineProvider, error) {
	if speedKmh <= 0 || math.IsNaN(speedKmh) || math.IsInf(speedKmh, 0) {
		return nil, fmt.Errorf("haversine provider: speed must be positive, got %v", speedKmh)
	}
	return &HaversineProvider{speedKmh: speedKmh}, nil
}

func (h *HaversineProvider) GetDistance(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (ports.DistanceResult, error) {
	if err := origin.Validate(); err != nil {
		return ports.DistanceResult{}, fmt.Errorf("haversine distance: origin: %w", err)
	}
	if err := destination.Validate(); err != nil {
		return ports.DistanceResult{}, fmt.Errorf("haversine distance: destination: %w", err)
	}
	return h.result(GreatCircleMeters(origin, destination)), nil
}

// GetMatrix fills the full matrix locally; only the upper triangle is computed.
func (h *HaversineProvider) GetMatrix(ctx context.Context, points []domain.Coordinates) (ports.Matrix, error) {
	for i, p := range points {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("haversine matrix: point #%d: %w", i, err)
		}
	}

	m := newMatrix(len(points))
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			r := h.result(GreatCircleMeters(points[i], points[j]))
			m[i][j] = r
			m[j][i] = r
		}
	}
	return m, nil
}

func (h *HaversineProvider) result(meters float64) ports.DistanceResult {
	seconds := meters / (h.speedKmh * 1000 / 3600)
	return ports.DistanceResult{
		DistanceMeters:  int(math.Round(meters)),
		DurationSeconds: int(math.Round(seconds)),
	}
}

// GreatCircleMeters returns the haversine distance between a and b.
// The operands are ordered canonically so the result is bit-for-bit symmetric.
func GreatCircleMeters(a, b domain.Coordinates) float64 {
	if b.Key() < a.Key() {
		a, b = b, a
	}
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	s := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(s)))
}

func newMatrix(n int) ports.Matrix {
	m := make(ports.Matrix, n)
	for i := range m {
		m[i] = make([]ports.DistanceResult, n)
	}
	return m
}
