package services

import (
	"context"
	"route-optimizer-service/internal/adapters/distance"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lineMatrix places nodes on a line: node i is at i km, leg minutes = 5 per km.
func lineMatrix(n int) ports.Matrix {
	m := make(ports.Matrix, n)
	for i := range m {
		m[i] = make([]ports.DistanceResult, n)
		for j := range m[i] {
			d := i - j
			if d < 0 {
				d = -d
			}
			m[i][j] = ports.DistanceResult{DistanceMeters: d * 1000, DurationSeconds: d * 300}
		}
	}
	return m
}

func windowed(id string, start, end int) domain.Shipment {
	return domain.Shipment{ID: id, Window: domain.TimeWindow{Start: start, End: end}}
}

func TestEvaluateWaitsAndPostponesDeparture(t *testing.T) {
	c := &FeasibilityChecker{
		Matrix:         lineMatrix(3),
		Shipments:      []domain.Shipment{windowed("A", 540, 600), windowed("B", 560, 620)},
		DispatchStart:  480,
		ServiceMinutes: 10,
	}

	s, ok := c.Evaluate([]int{1, 2})
	require.True(t, ok)

	// Leaves at 08:55 to reach A (5 min away) at 09:00.
	assert.Equal(t, 535, s.DepartAt)
	assert.Equal(t, []int{540, 560}, s.Arrivals)
	assert.Equal(t, []int{550, 570}, s.Departures)
	// B is 2 km from the depot.
	assert.Equal(t, 580, s.ReturnAt)
	assert.Equal(t, 4000, s.DistanceMeters)
	assert.Equal(t, 1200, s.DurationSeconds)
	assert.Equal(t, []int{1000, 1000}, s.LegMeters)
}

func TestEvaluateRespectsDispatchStart(t *testing.T) {
	c := &FeasibilityChecker{
		Matrix:         lineMatrix(2),
		Shipments:      []domain.Shipment{windowed("A", 0, 30)},
		DispatchStart:  20,
		ServiceMinutes: 10,
	}

	s, ok := c.Evaluate([]int{1})
	require.True(t, ok)
	assert.Equal(t, 20, s.DepartAt)
	assert.Equal(t, 25, s.Arrivals[0])

	c.DispatchStart = 26
	_, ok = c.Evaluate([]int{1})
	assert.False(t, ok)
}

func TestEvaluateWindowEndIsInclusive(t *testing.T) {
	c := &FeasibilityChecker{
		Matrix:    lineMatrix(2),
		Shipments: []domain.Shipment{windowed("A", 0, 5)},
	}
	s, ok := c.Evaluate([]int{1})
	require.True(t, ok)
	assert.Equal(t, 5, s.Arrivals[0])

	solo, ok := c.Reachable(1)
	require.True(t, ok)
	assert.Equal(t, s, solo)

	c.Shipments[0].Window.End = 4
	_, ok = c.Reachable(1)
	assert.False(t, ok)
}

func TestCheckInsertionDoesNotModifyRoute(t *testing.T) {
	c := &FeasibilityChecker{
		Matrix: lineMatrix(4),
		Shipments: []domain.Shipment{
			windowed("A", 0, 600), windowed("B", 0, 600), windowed("C", 0, 600),
		},
		ServiceMinutes: 10,
	}

	route := []int{1, 3}
	next, s, ok := c.CheckInsertion(route, 2, 1)
	require.True(t, ok)
	assert.Equal(t, []int{1, 3}, route)
	assert.Equal(t, []int{1, 2, 3}, next)
	assert.Equal(t, 6000, s.DistanceMeters)
	assert.Equal(t, 6000, c.RouteMeters(next))
}

func TestCheckInsertionRejectsLateStop(t *testing.T) {
	c := &FeasibilityChecker{
		Matrix:         lineMatrix(3),
		Shipments:      []domain.Shipment{windowed("A", 0, 100), windowed("B", 0, 12)},
		ServiceMinutes: 10,
	}

	// A then B: B served at 5+10+5 = 20 > 12.
	_, _, ok := c.CheckInsertion([]int{1}, 2, 1)
	assert.False(t, ok)

	// B first is fine.
	_, s, ok := c.CheckInsertion([]int{1}, 2, 0)
	require.True(t, ok)
	assert.Equal(t, []int{10, 25}, s.Arrivals)
}

func TestImproveTwoOptUncrossesRoute(t *testing.T) {
	h, err := distance.NewHaversineProvider(12)
	require.NoError(t, err)

	points := []domain.Coordinates{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 0.01},
		{Lat: 0.01, Lon: 0.01},
		{Lat: 0.01, Lon: 0},
	}
	m, err := h.GetMatrix(context.Background(), points)
	require.NoError(t, err)

	c := &FeasibilityChecker{
		Matrix: m,
		Shipments: []domain.Shipment{
			windowed("A", 0, 1440), windowed("B", 0, 1440), windowed("C", 0, 1440),
		},
		ServiceMinutes: 10,
	}

	crossed := []int{1, 3, 2}
	s, ok := c.Evaluate(crossed)
	require.True(t, ok)
	tr := &plannedTrip{route: crossed, sched: s}

	improveTwoOpt(c, tr, 10)

	assert.Equal(t, []int{1, 2, 3}, tr.route)
	assert.Less(t, tr.sched.DistanceMeters, s.DistanceMeters)
	assert.Equal(t, c.RouteMeters(tr.route), tr.sched.DistanceMeters)
}

func TestImproveTwoOptKeepsWindowsFeasible(t *testing.T) {
	c := &FeasibilityChecker{
		Matrix: lineMatrix(4),
		// Visiting 3 before 1 is longer but forced by the windows.
		Shipments: []domain.Shipment{
			windowed("A", 100, 200), windowed("B", 0, 600), windowed("C", 0, 30),
		},
		ServiceMinutes: 10,
	}

	route := []int{3, 2, 1}
	s, ok := c.Evaluate(route)
	require.True(t, ok)
	tr := &plannedTrip{route: route, sched: s}

	improveTwoOpt(c, tr, 10)
	assert.Equal(t, 3, tr.route[0])
	_, ok = c.Evaluate(tr.route)
	assert.True(t, ok)
}

func TestTwoOptSwap(t *testing.T) {
	assert.Equal(t, []int{1, 4, 3, 2, 5}, twoOptSwap([]int{1, 2, 3, 4, 5}, 1, 3))
	assert.Equal(t, []int{3, 2, 1}, twoOptSwap([]int{1, 2, 3}, 0, 2))
}
