package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
)

type matrixRequest struct {
	Locations    [][]float64 `json:"locations"`
	Destinations []int       `json:"destinations,omitempty"`
	Metrics      []string    `json:"metrics"`
	Sources      []int       `json:"sources"`
}

type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// fetchMatrix retrieves the upper triangle rows for locations, splitting the
// sources so each call stays under the ORS element limit.
func (o *ORSDistanceProvider) fetchMatrix(
	ctx context.Context,
	locations []domain.Coordinates,
) (ports.Matrix, error) {
	n := len(locations)
	rowsPerCall := orsMaxMatrixElements / n
	if rowsPerCall < 1 {
		return nil, fmt.Errorf("%d locations exceed the ORS matrix limit of %d elements", n, orsMaxMatrixElements)
	}

	coords := make([][]float64, 0, n)
	for _, c := range locations {
		coords = append(coords, c.CoordsToList())
	}

	out := newMatrix(n)
	// The last point has no pairs above the diagonal.
	for start := 0; start < n-1; start += rowsPerCall {
		end := min(start+rowsPerCall, n-1)
		sources := make([]int, 0, end-start)
		for i := start; i < end; i++ {
			sources = append(sources, i)
		}

		rows, err := o.fetchRows(ctx, coords, sources)
		if err != nil {
			return nil, fmt.Errorf("fetch rows %d-%d: %w", start, end-1, err)
		}
		for k, src := range sources {
			out[src] = rows[k]
		}
	}

	return out, nil
}

// fetchRows retrieves distance and duration from each source to every location
// using the OpenRouteService matrix endpoint.
func (o *ORSDistanceProvider) fetchRows(
	ctx context.Context,
	locations [][]float64,
	sources []int,
) ([][]ports.DistanceResult, error) {
	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.baseURL, o.profile)

	bodyObj := matrixRequest{
		Locations: locations,
		Metrics:   []string{"distance", "duration"},
		Sources:   sources,
	}

	payload, err := json.Marshal(bodyObj)
	if err != nil {
		return nil, fmt.Errorf("marshal matrix request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, fmt.Errorf("matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decode matrix response: %w", err)
	}

	if len(mr.Distances) != len(sources) || len(mr.Durations) != len(sources) {
		return nil, fmt.Errorf(
			"expected %d source rows; got distances=%d durations=%d",
			len(sources), len(mr.Distances), len(mr.Durations),
		)
	}

	out := make([][]ports.DistanceResult, len(sources))
	for k := range sources {
		rowDistances := mr.Distances[k]
		rowDurations := mr.Durations[k]
		if len(rowDistances) != len(locations) || len(rowDurations) != len(locations) {
			return nil, fmt.Errorf(
				"row %d length does not match locations: distances=%d durations=%d locations=%d",
				k, len(rowDistances), len(rowDurations), len(locations),
			)
		}

		row := make([]ports.DistanceResult, len(locations))
		for j := range locations {
			if j == sources[k] {
				continue
			}
			metersPtr := rowDistances[j]
			secondsPtr := rowDurations[j]
			if metersPtr == nil || secondsPtr == nil {
				return nil, fmt.Errorf("matrix returned no route from location %d to %d", sources[k], j)
			}

			// ORS returns float metrics; round to whole meters and seconds.
			row[j] = ports.DistanceResult{
				DistanceMeters:  int(math.Round(*metersPtr)),
				DurationSeconds: int(math.Round(*secondsPtr)),
			}
		}
		out[k] = row
	}

	return out, nil
}
