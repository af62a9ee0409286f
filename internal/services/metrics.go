package services

import (
	"math"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// mstKm is the minimum spanning tree length, in km, over the depot and the
// given shipment nodes.
func mstKm(m ports.Matrix, route []int) float64 {
	nodes := append([]int{0}, route...)
	if len(nodes) < 2 {
		return 0
	}

	g := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for _, n := range nodes {
		g.AddNode(simple.Node(n))
	}
	for a := 0; a < len(nodes); a++ {
		for b := a + 1; b < len(nodes); b++ {
			w := float64(m.At(nodes[a], nodes[b]).DistanceMeters) / 1000
			g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(nodes[a]), T: simple.Node(nodes[b]), W: w})
		}
	}

	dst := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	return path.Kruskal(dst, g)
}

// buildTrip turns a planned trip into the domain trip with its metrics.
func buildTrip(c *FeasibilityChecker, fleet domain.Fleet, tr *plannedTrip) domain.Trip {
	vt := fleet[tr.vehicle]
	s := tr.sched

	stops := make([]domain.Stop, len(tr.route))
	for k, node := range tr.route {
		stops[k] = domain.Stop{
			Sequence:          k + 1,
			Shipment:          c.Shipments[node-1],
			Arrival:           s.Arrivals[k],
			Departure:         s.Departures[k],
			LegDistanceMeters: s.LegMeters[k],
		}
	}

	t := domain.Trip{
		VehicleType:          vt,
		DepartAt:             s.DepartAt,
		ReturnAt:             s.ReturnAt,
		Stops:                stops,
		TotalDistanceMeters:  s.DistanceMeters,
		TotalDurationSeconds: s.DurationSeconds,
		MSTDistanceKm:        mstKm(c.Matrix, tr.route),
		TripMinutes:          float64(s.ReturnAt - s.DepartAt),
		CapacityUtilization:  float64(len(stops)) / float64(vt.Capacity),
	}

	if span := t.Window().Span(); span > 0 {
		t.TimeUtilization = t.TripMinutes / float64(span)
	}
	if vt.HasRange() {
		cov := float64(s.DistanceMeters) / 1000 / vt.RangeKm
		t.CoverageUtilization = &cov
	}

	return t
}
