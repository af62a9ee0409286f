package distance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"route-optimizer-service/internal/domain"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// orsStub answers matrix calls with distance = 1000*|i-j| + 7*i so that the
// raw rows are intentionally asymmetric.
func orsStub(t *testing.T, calls *atomic.Int32, failFirst int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "/v2/matrix/driving-car", r.URL.Path)

		if n <= failFirst {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		var req matrixRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		resp := matrixResponse{}
		for _, src := range req.Sources {
			var dists, durs []*float64
			for j := range req.Locations {
				d := float64(1000*abs(src-j) + 7*src)
				s := d / 10
				dists = append(dists, &d)
				durs = append(durs, &s)
			}
			resp.Distances = append(resp.Distances, dists)
			resp.Durations = append(resp.Durations, durs)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func TestORSProviderSymmetrisesMatrix(t *testing.T) {
	var calls atomic.Int32
	srv := orsStub(t, &calls, 0)
	defer srv.Close()

	p, err := NewORSDistanceProvider("test-key", "", WithBaseURL(srv.URL))
	require.NoError(t, err)

	// Deliberately not in key order.
	points := []domain.Coordinates{
		{Lat: 19.2, Lon: 72.9},
		{Lat: 19.0, Lon: 72.8},
		{Lat: 19.1, Lon: 72.7},
	}

	m, err := p.GetMatrix(context.Background(), points)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	for i := range points {
		assert.Zero(t, m.At(i, i).DistanceMeters)
		for j := range points {
			assert.Equal(t, m.At(i, j), m.At(j, i))
		}
	}

	// Sorted by key: 19.0 (0), 19.1 (1), 19.2 (2). Pair (0,2) read from row 0.
	assert.Equal(t, 2000, m.At(0, 1).DistanceMeters)
	assert.Equal(t, 1007, m.At(0, 2).DistanceMeters)
}

func TestORSProviderGetDistanceSymmetric(t *testing.T) {
	var calls atomic.Int32
	srv := orsStub(t, &calls, 0)
	defer srv.Close()

	p, err := NewORSDistanceProvider("test-key", "driving-car", WithBaseURL(srv.URL))
	require.NoError(t, err)

	a := domain.Coordinates{Lat: 19.2, Lon: 72.9}
	b := domain.Coordinates{Lat: 19.0, Lon: 72.8}

	ab, err := p.GetDistance(context.Background(), a, b)
	require.NoError(t, err)
	ba, err := p.GetDistance(context.Background(), b, a)
	require.NoError(t, err)
	assert.Equal(t, ab, ba)

	same, err := p.GetDistance(context.Background(), a, a)
	require.NoError(t, err)
	assert.Zero(t, same.DistanceMeters)
	assert.Equal(t, int32(2), calls.Load())
}

func TestORSProviderRetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := orsStub(t, &calls, 2)
	defer srv.Close()

	p, err := NewORSDistanceProvider("test-key", "", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = p.GetDistance(context.Background(), domain.Coordinates{Lat: 1}, domain.Coordinates{Lat: 2})
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestORSProviderDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad key", http.StatusForbidden)
	}))
	defer srv.Close()

	p, err := NewORSDistanceProvider("test-key", "", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = p.GetDistance(context.Background(), domain.Coordinates{Lat: 1}, domain.Coordinates{Lat: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Equal(t, int32(1), calls.Load())
}

func TestORSProviderValidatesInput(t *testing.T) {
	_, err := NewORSDistanceProvider("", "")
	assert.Error(t, err)

	p, err := NewORSDistanceProvider("k", "")
	require.NoError(t, err)
	_, err = p.GetDistance(context.Background(), domain.Coordinates{Lat: -91}, domain.Coordinates{})
	assert.ErrorIs(t, err, domain.ErrInvalidCoordinate)
}
