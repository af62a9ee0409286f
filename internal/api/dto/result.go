package dto

import "time"

type StopResponse struct {
	Sequence          int     `json:"sequence"`
	ShipmentID        string  `json:"shipment_id"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	DeliveryTimeslot  string  `json:"delivery_timeslot"`
	Arrival           string  `json:"arrival"`
	Departure         string  `json:"departure"`
	LegDistanceMeters int     `json:"leg_distance_meters"`
}

type TripResponse struct {
	TripID               string         `json:"trip_id"`
	VehicleType          string         `json:"vehicle_type"`
	DepartAt             string         `json:"depart_at"`
	ReturnAt             string         `json:"return_at"`
	TotalDistanceMeters  int            `json:"total_distance_meters"`
	TotalDurationSeconds int            `json:"total_duration_seconds"`
	MSTDistanceKm        float64        `json:"mst_distance_km"`
	TripMinutes          float64        `json:"trip_minutes"`
	CapacityUtilization  float64        `json:"capacity_utilization"`
	TimeUtilization      float64        `json:"time_utilization"`
	CoverageUtilization  *float64       `json:"coverage_utilization"`
	Stops                []StopResponse `json:"stops"`
}

type UnassignedResponse struct {
	ShipmentID       string  `json:"shipment_id"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	DeliveryTimeslot string  `json:"delivery_timeslot"`
	Reason           string  `json:"reason"`
}

type ResultResponse struct {
	Generation          int64                `json:"generation"`
	CreatedAt           time.Time            `json:"created_at"`
	DepotLatitude       float64              `json:"depot_latitude"`
	DepotLongitude      float64              `json:"depot_longitude"`
	AssignedCount       int                  `json:"assigned_count"`
	UnassignedCount     int                  `json:"unassigned_count"`
	TotalDistanceMeters int                  `json:"total_distance_meters"`
	Trips               []TripResponse       `json:"trips"`
	Unassigned          []UnassignedResponse `json:"unassigned"`
}
