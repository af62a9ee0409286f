package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexFloat accepts a JSON number or a string holding one. The UI form sends
// coordinates as strings.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("%q is not a number", s)
		}
		*f = FlexFloat(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

type ShipmentRequest struct {
	ShipmentID       string     `json:"shipment_id"`
	Latitude         *FlexFloat `json:"latitude"`
	Longitude        *FlexFloat `json:"longitude"`
	DeliveryTimeslot string     `json:"delivery_timeslot"`
}

type OptimizeRequest struct {
	Shipments []ShipmentRequest `json:"shipments"`
}

// TripRow is one line of the flat result table: one per delivered shipment,
// then one per unassigned shipment.
type TripRow struct {
	TripID      string  `json:"TRIP_ID"`
	ShipmentID  string  `json:"Shipment_ID"`
	VehicleType string  `json:"Vehicle_Type"`
	TimeSlot    string  `json:"TIME_SLOT"`
	Latitude    float64 `json:"Latitude"`
	Longitude   float64 `json:"Longitude"`
	Shipments   int     `json:"Shipments"`
	MSTDist     float64 `json:"MST_DIST"`
	TripTime    float64 `json:"TRIP_TIME"`
	CapacityUti float64 `json:"CAPACITY_UTI"`
	TimeUti     float64 `json:"TIME_UTI"`
	// CovUti is a number, or "N/A" for vehicles without a range limit.
	CovUti   any    `json:"COV_UTI"`
	Arrival  string `json:"ARRIVAL"`
	Sequence int    `json:"SEQUENCE"`
	Status   string `json:"STATUS"`
	Reason   string `json:"REASON,omitempty"`
}

const (
	StatusAssigned   = "ASSIGNED"
	StatusUnassigned = "UNASSIGNED"
	NotApplicable    = "N/A"
)

type FieldErrorResponse struct {
	Index      int    `json:"index"`
	ShipmentID string `json:"shipment_id,omitempty"`
	Field      string `json:"field"`
	Message    string `json:"message"`
}

type ErrorResponse struct {
	Error   string               `json:"error"`
	Details []FieldErrorResponse `json:"details,omitempty"`
}
