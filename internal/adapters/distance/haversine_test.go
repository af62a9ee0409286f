package distance

import (
	"context"
	"route-optimizer-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineProviderSymmetricAndZero(t *testing.T) {
	p, err := NewHaversineProvider(12)
	require.NoError(t, err)

	ctx := context.Background()
	depot := domain.Coordinates{Lat: 19.075887, Lon: 72.877911}
	stop := domain.Coordinates{Lat: 19.0821, Lon: 72.8805}

	ab, err := p.GetDistance(ctx, depot, stop)
	require.NoError(t, err)
	ba, err := p.GetDistance(ctx, stop, depot)
	require.NoError(t, err)

	assert.Equal(t, ab, ba)
	assert.Greater(t, ab.DistanceMeters, 0)

	zero, err := p.GetDistance(ctx, stop, stop)
	require.NoError(t, err)
	assert.Zero(t, zero.DistanceMeters)
	assert.Zero(t, zero.DurationSeconds)
}

func TestHaversineProviderKnownDistance(t *testing.T) {
	p, err := NewHaversineProvider(12)
	require.NoError(t, err)

	// One degree of latitude is about 111.2 km.
	r, err := p.GetDistance(context.Background(), domain.Coordinates{Lat: 0, Lon: 0}, domain.Coordinates{Lat: 1, Lon: 0})
	require.NoError(t, err)

	assert.InDelta(t, 111195, r.DistanceMeters, 5)
	// 12 km/h is 5 minutes per km.
	assert.InDelta(t, 111.195*5*60, r.DurationSeconds, 5)
}

func TestHaversineProviderRejectsInvalidCoordinates(t *testing.T) {
	p, err := NewHaversineProvider(12)
	require.NoError(t, err)

	_, err = p.GetDistance(context.Background(), domain.Coordinates{Lat: 91}, domain.Coordinates{})
	assert.ErrorIs(t, err, domain.ErrInvalidCoordinate)

	_, err = p.GetMatrix(context.Background(), []domain.Coordinates{{}, {Lon: 200}})
	assert.ErrorIs(t, err, domain.ErrInvalidCoordinate)
}

func TestHaversineMatrixMatchesPairwise(t *testing.T) {
	p, err := NewHaversineProvider(30)
	require.NoError(t, err)

	ctx := context.Background()
	points := []domain.Coordinates{
		{Lat: 19.0759, Lon: 72.8779},
		{Lat: 19.0900, Lon: 72.8600},
		{Lat: 19.1100, Lon: 72.9000},
	}

	m, err := p.GetMatrix(ctx, points)
	require.NoError(t, err)
	require.Len(t, m, 3)

	for i := range points {
		assert.Zero(t, m.At(i, i).DistanceMeters)
		for j := range points {
			r, err := p.GetDistance(ctx, points[i], points[j])
			require.NoError(t, err)
			assert.Equal(t, r, m.At(i, j))
			assert.Equal(t, m.At(i, j), m.At(j, i))
		}
	}
}

func TestNewHaversineProviderRejectsBadSpeed(t *testing.T) {
	_, err := NewHaversineProvider(0)
	assert.Error(t, err)
}
