package services

import (
	"route-optimizer-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClusterNodesGroupsByLeader(t *testing.T) {
	m := lineMatrix(7)
	shipments := []domain.Shipment{
		windowed("C", 600, 660), // node 1 at 1 km
		windowed("A", 700, 760), // node 2 at 2 km
		windowed("B", 480, 540), // node 3 at 3 km
		windowed("D", 500, 560), // node 4 at 4 km
		windowed("E", 400, 460), // node 5 at 5 km
		windowed("F", 650, 900), // node 6 at 6 km
	}

	order := clusterNodes(m, shipments, 1500)

	// Leaders in id order: A(2) takes B(3) and C(1); D(4) takes E(5); F(6)
	// is 2 km from D and leads its own cluster. Cluster D opens at 06:40 (E),
	// cluster A at 08:00 (B), cluster F at 10:50.
	assert.Equal(t, []int{5, 4, 3, 1, 2, 6}, order)
}

func TestClusterNodesZeroRadius(t *testing.T) {
	m := lineMatrix(4)
	shipments := []domain.Shipment{
		windowed("B", 540, 600),
		windowed("A", 540, 600),
		windowed("C", 480, 540),
	}

	assert.Equal(t, []int{3, 2, 1}, clusterNodes(m, shipments, 0))
}

func TestMSTKm(t *testing.T) {
	// Depot plus nodes at 1, 2 and 3 km on a line.
	assert.InDelta(t, 3.0, mstKm(lineMatrix(4), []int{3, 1, 2}), 1e-9)
	assert.InDelta(t, 0.0, mstKm(lineMatrix(1), nil), 1e-9)
}

func TestBuildTripMetrics(t *testing.T) {
	c := &FeasibilityChecker{
		Matrix:         lineMatrix(3),
		Shipments:      []domain.Shipment{windowed("A", 540, 600), windowed("B", 540, 640)},
		ServiceMinutes: 10,
	}
	fleet := domain.Fleet{{Name: "3W", Count: 5, Capacity: 4, RangeKm: 8}}

	s, ok := c.Evaluate([]int{1, 2})
	assert.True(t, ok)
	trip := buildTrip(c, fleet, &plannedTrip{vehicle: 0, route: []int{1, 2}, sched: s})

	assert.Equal(t, 4000, trip.TotalDistanceMeters)
	assert.InDelta(t, 2.0, trip.MSTDistanceKm, 1e-9)
	// Departs 08:55, returns 09:35.
	assert.InDelta(t, 40.0, trip.TripMinutes, 1e-9)
	assert.InDelta(t, 0.5, trip.CapacityUtilization, 1e-9)
	assert.InDelta(t, 0.4, trip.TimeUtilization, 1e-9)
	if assert.NotNil(t, trip.CoverageUtilization) {
		assert.InDelta(t, 0.5, *trip.CoverageUtilization, 1e-9)
	}
	assert.Equal(t, 1, trip.Stops[0].Sequence)
	assert.Equal(t, "B", trip.Stops[1].Shipment.ID)

	fleet[0].RangeKm = 0
	trip = buildTrip(c, fleet, &plannedTrip{vehicle: 0, route: []int{1, 2}, sched: s})
	assert.Nil(t, trip.CoverageUtilization)
}
