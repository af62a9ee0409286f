package distance

import (
	"context"
	"fmt"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
)

// MockPair is a fixed result between two points. Lookups are symmetric.
type MockPair struct {
	From, To domain.Coordinates
	Meters   int
	Seconds  int
}

type MockDistanceProvider struct {
	m map[string]ports.DistanceResult
}

func NewMockDistanceProvider(pairs []MockPair) *MockDistanceProvider {
	m := make(map[string]ports.DistanceResult, len(pairs))
	for _, p := range pairs {
		m[ports.NewPair(p.From, p.To).Key()] = ports.DistanceResult{DistanceMeters: p.Meters, DurationSeconds: p.Seconds}
	}
	return &MockDistanceProvider{m: m}
}

func (p *MockDistanceProvider) GetDistance(ctx context.Context, origin, destination domain.Coordinates) (ports.DistanceResult, error) {
	if origin == destination {
		return ports.DistanceResult{}, nil
	}
	r, ok := p.m[ports.NewPair(origin, destination).Key()]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("missing pair %s -> %s", origin.Key(), destination.Key())
	}

	return r, nil
}
