package domain

import "time"

// Stop is one delivery within a trip. Arrival is the service start in minutes
// after midnight (after any waiting for the window to open).
type Stop struct {
	Sequence          int
	Shipment          Shipment
	Arrival           int
	Departure         int
	LegDistanceMeters int
}

// Trip is the planned route of a single vehicle: depot, ordered stops, depot.
// It is immutable planning data produced by the optimizer.
type Trip struct {
	TripID               string
	VehicleType          VehicleType
	DepartAt             int
	ReturnAt             int
	Stops                []Stop
	TotalDistanceMeters  int
	TotalDurationSeconds int
	MSTDistanceKm        float64
	TripMinutes          float64
	CapacityUtilization  float64
	TimeUtilization      float64
	// CoverageUtilization is nil when the vehicle has no range limit.
	CoverageUtilization *float64
}

// Window spans the earliest start and the latest end of the trip's stop windows.
func (t Trip) Window() TimeWindow {
	if len(t.Stops) == 0 {
		return TimeWindow{}
	}
	w := t.Stops[0].Shipment.Window
	for _, s := range t.Stops[1:] {
		w.Start = min(w.Start, s.Shipment.Window.Start)
		w.End = max(w.End, s.Shipment.Window.End)
	}
	return w
}

// Unassigned is a shipment the optimizer could not place on any trip.
type Unassigned struct {
	Shipment Shipment
	Reason   string
}

// OptimizationResult is the complete outcome of one optimization run.
// Every submitted shipment appears either in exactly one trip or in Unassigned.
type OptimizationResult struct {
	Generation int64
	CreatedAt  time.Time
	Depot      Coordinates
	Trips      []Trip
	Unassigned []Unassigned
}

// Trip returns the trip with the given id.
func (r *OptimizationResult) Trip(id string) (Trip, bool) {
	for _, t := range r.Trips {
		if t.TripID == id {
			return t, true
		}
	}
	return Trip{}, false
}

// AssignedCount is the number of shipments placed on a trip.
func (r *OptimizationResult) AssignedCount() int {
	n := 0
	for _, t := range r.Trips {
		n += len(t.Stops)
	}
	return n
}

// TotalDistanceMeters sums the route distance of all trips.
func (r *OptimizationResult) TotalDistanceMeters() int {
	n := 0
	for _, t := range r.Trips {
		n += t.TotalDistanceMeters
	}
	return n
}
