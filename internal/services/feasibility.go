package services

import (
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
)

// Schedule is the timed evaluation of one route (depot, stops, depot).
// Arrivals are service starts in minutes after midnight.
type Schedule struct {
	DepartAt        int
	ReturnAt        int
	Arrivals        []int
	Departures      []int
	LegMeters       []int
	DistanceMeters  int
	DurationSeconds int
}

// FeasibilityChecker evaluates routes against delivery windows.
//
// Routes are lists of node indices into the matrix: node 0 is the depot and
// node i (i >= 1) is shipments[i-1].
type FeasibilityChecker struct {
	Matrix         ports.Matrix
	Shipments      []domain.Shipment
	DispatchStart  int
	ServiceMinutes int
}

// travelMinutes rounds a leg's duration up to whole minutes.
func (c *FeasibilityChecker) travelMinutes(from, to int) int {
	return (c.Matrix.At(from, to).DurationSeconds + 59) / 60
}

func (c *FeasibilityChecker) window(node int) domain.TimeWindow {
	return c.Shipments[node-1].Window
}

// Evaluate schedules route and reports whether every stop starts service
// inside its window. Vehicles may wait for a window to open. Departure from
// the depot is postponed so the first stop is not reached before its window
// opens, which never makes a later stop later.
func (c *FeasibilityChecker) Evaluate(route []int) (Schedule, bool) {
	s := Schedule{
		Arrivals:   make([]int, len(route)),
		Departures: make([]int, len(route)),
		LegMeters:  make([]int, len(route)),
	}
	if len(route) == 0 {
		s.DepartAt, s.ReturnAt = c.DispatchStart, c.DispatchStart
		return s, true
	}

	first := route[0]
	s.DepartAt = max(c.DispatchStart, c.window(first).Start-c.travelMinutes(0, first))

	t := s.DepartAt
	prev := 0
	for k, node := range route {
		leg := c.Matrix.At(prev, node)
		s.LegMeters[k] = leg.DistanceMeters
		s.DistanceMeters += leg.DistanceMeters
		s.DurationSeconds += leg.DurationSeconds

		t += c.travelMinutes(prev, node)
		w := c.window(node)
		start := max(t, w.Start)
		if start > w.End {
			return s, false
		}
		s.Arrivals[k] = start
		t = start + c.ServiceMinutes
		s.Departures[k] = t
		prev = node
	}

	back := c.Matrix.At(prev, 0)
	s.DistanceMeters += back.DistanceMeters
	s.DurationSeconds += back.DurationSeconds
	s.ReturnAt = t + c.travelMinutes(prev, 0)

	return s, true
}

// CheckInsertion evaluates route with candidate inserted before position.
// The input route is not modified.
func (c *FeasibilityChecker) CheckInsertion(route []int, candidate, position int) ([]int, Schedule, bool) {
	next := make([]int, 0, len(route)+1)
	next = append(next, route[:position]...)
	next = append(next, candidate)
	next = append(next, route[position:]...)

	s, ok := c.Evaluate(next)
	return next, s, ok
}

// Reachable reports whether a vehicle leaving at dispatch can serve node alone,
// and returns that single-stop schedule.
func (c *FeasibilityChecker) Reachable(node int) (Schedule, bool) {
	return c.Evaluate([]int{node})
}

// RouteMeters is the round-trip distance of route without timing it.
func (c *FeasibilityChecker) RouteMeters(route []int) int {
	if len(route) == 0 {
		return 0
	}
	total := 0
	prev := 0
	for _, node := range route {
		total += c.Matrix.At(prev, node).DistanceMeters
		prev = node
	}
	return total + c.Matrix.At(prev, 0).DistanceMeters
}
