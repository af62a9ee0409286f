package distance

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"
	"sort"
	"time"
)

// ORS free-tier limit on sources*destinations per matrix call.
const orsMaxMatrixElements = 3500

// ORSDistanceProvider implements DistanceMatrixProvider using OpenRouteService.
//
// Road distances are not symmetric, so every unordered pair is read from the
// row of its lower-keyed point. That keeps GetDistance(a, b) equal to
// GetDistance(b, a) for the optimizer.
//
// The provider is safe for concurrent use.
type ORSDistanceProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
	profile string
}

type ORSOption func(*ORSDistanceProvider)

// WithBaseURL points the provider at another ORS deployment.
func WithBaseURL(u string) ORSOption {
	return func(o *ORSDistanceProvider) { o.baseURL = u }
}

func WithHTTPClient(c *http.Client) ORSOption {
	return func(o *ORSDistanceProvider) { o.session = c }
}

func NewORSDistanceProvider(apiKey, profile string, opts ...ORSOption) (*ORSDistanceProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if profile == "" {
		profile = "driving-car"
	}

	provider := &ORSDistanceProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: "https://api.openrouteservice.org",
		profile: profile,
	}
	for _, opt := range opts {
		opt(provider)
	}

	return provider, nil
}

// Delegate to the matrix path so single lookups share the symmetry rule.
func (o *ORSDistanceProvider) GetDistance(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (ports.DistanceResult, error) {
	if err := origin.Validate(); err != nil {
		return ports.DistanceResult{}, fmt.Errorf("get ORS distance: origin: %w", err)
	}
	if err := destination.Validate(); err != nil {
		return ports.DistanceResult{}, fmt.Errorf("get ORS distance: destination: %w", err)
	}
	if origin.Key() == destination.Key() {
		return ports.DistanceResult{}, nil
	}

	m, err := o.GetMatrix(ctx, []domain.Coordinates{origin, destination})
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf(
			"get ORS distance %s -> %s: %w",
			origin.Key(), destination.Key(), err,
		)
	}

	return m.At(0, 1), nil
}

// GetMatrix returns the symmetric matrix over points. Duplicate points are
// requested once.
func (o *ORSDistanceProvider) GetMatrix(
	ctx context.Context,
	points []domain.Coordinates,
) (_ ports.Matrix, err error) {
	defer obs.Time(ctx, "ors.GetMatrix")(&err)

	for i, p := range points {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("get ORS matrix: point #%d: %w", i, err)
		}
	}

	out := newMatrix(len(points))
	if len(points) < 2 {
		return out, nil
	}

	// Unique points in key order; index in uniq == rank of the key.
	index := make(map[string]int, len(points))
	uniq := make([]domain.Coordinates, 0, len(points))
	for _, p := range points {
		if _, ok := index[p.Key()]; ok {
			continue
		}
		index[p.Key()] = 0
		uniq = append(uniq, p)
	}
	sort.Slice(uniq, func(i, j int) bool { return uniq[i].Key() < uniq[j].Key() })
	for i, p := range uniq {
		index[p.Key()] = i
	}

	if len(uniq) < 2 {
		return out, nil
	}

	full, err := o.fetchMatrix(ctx, uniq)
	if err != nil {
		return nil, fmt.Errorf("get ORS matrix: %w", err)
	}

	for i := range points {
		for j := range points {
			a, b := index[points[i].Key()], index[points[j].Key()]
			if a == b {
				continue
			}
			if b < a {
				a, b = b, a
			}
			out[i][j] = full[a][b]
		}
	}

	return out, nil
}
