package services

import (
	"route-optimizer-service/internal/domain"
)

// Reasons reported for shipments that could not be placed.
const (
	ReasonUnreachable    = "timeslot unreachable from depot"
	ReasonFleetExhausted = "fleet exhausted"
	ReasonOutOfRange     = "beyond vehicle range"
)

// UnassignedError explains why one shipment could not be placed on any trip.
type UnassignedError struct {
	ShipmentID string
	Reason     string
}

func (e *UnassignedError) Error() string {
	return "shipment " + e.ShipmentID + ": " + e.Reason
}

func (e *UnassignedError) Unwrap() error { return domain.ErrNoFeasibleAssignment }

// plannedTrip is a trip under construction. vehicle indexes the fleet.
type plannedTrip struct {
	vehicle int
	route   []int
	sched   Schedule
}

// planner holds the mutable state of the greedy insertion pass.
type planner struct {
	checker *FeasibilityChecker
	pool    *domain.FleetPool
	trips   []*plannedTrip
}

func newPlanner(checker *FeasibilityChecker, fleet domain.Fleet) *planner {
	return &planner{checker: checker, pool: domain.NewFleetPool(fleet)}
}

// fitVehicle returns the type able to serve a route of the given size, keeping
// current when it fits and otherwise upgrading to the first larger type with
// free units. It returns -1 when no type can take the route.
func (p *planner) fitVehicle(current, stops, meters int) int {
	fleet := p.pool.Types()
	if fleet[current].Fits(stops, meters) {
		return current
	}
	for k := current + 1; k < len(fleet); k++ {
		if p.pool.Available(k) && fleet[k].Fits(stops, meters) {
			return k
		}
	}
	return -1
}

// insert places node at its cheapest feasible position over all open trips.
// Cost is the added route distance; ties go to the earlier-opened trip, then
// the lower position. When no open trip accepts the node, a new trip is opened
// on the smallest free vehicle type that can serve it alone.
func (p *planner) insert(node int) error {
	var (
		bestTrip  = -1
		bestVeh   int
		bestCost  int
		bestRoute []int
		bestSched Schedule
	)

	for ti, tr := range p.trips {
		for pos := 0; pos <= len(tr.route); pos++ {
			next, s, ok := p.checker.CheckInsertion(tr.route, node, pos)
			if !ok {
				continue
			}
			veh := p.fitVehicle(tr.vehicle, len(next), s.DistanceMeters)
			if veh < 0 {
				continue
			}
			cost := s.DistanceMeters - tr.sched.DistanceMeters
			if bestTrip < 0 || cost < bestCost {
				bestTrip, bestVeh, bestCost = ti, veh, cost
				bestRoute, bestSched = next, s
			}
		}
	}

	if bestTrip >= 0 {
		tr := p.trips[bestTrip]
		if bestVeh != tr.vehicle {
			p.pool.Release(tr.vehicle)
			if err := p.pool.Acquire(bestVeh); err != nil {
				return err
			}
			tr.vehicle = bestVeh
		}
		tr.route, tr.sched = bestRoute, bestSched
		return nil
	}

	return p.open(node)
}

func (p *planner) open(node int) error {
	id := p.checker.Shipments[node-1].ID

	s, ok := p.checker.Reachable(node)
	if !ok {
		return &UnassignedError{ShipmentID: id, Reason: ReasonUnreachable}
	}

	fleet := p.pool.Types()
	anyFits := false
	for k, vt := range fleet {
		if !vt.Fits(1, s.DistanceMeters) {
			continue
		}
		anyFits = true
		if !p.pool.Available(k) {
			continue
		}
		if err := p.pool.Acquire(k); err != nil {
			return err
		}
		p.trips = append(p.trips, &plannedTrip{vehicle: k, route: []int{node}, sched: s})
		return nil
	}

	if !anyFits {
		return &UnassignedError{ShipmentID: id, Reason: ReasonOutOfRange}
	}
	return &UnassignedError{ShipmentID: id, Reason: ReasonFleetExhausted}
}
