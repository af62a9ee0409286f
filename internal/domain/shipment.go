package domain

import (
	"fmt"
	"strings"
)

// Shipment is a single delivery request: one drop at one location inside one
// delivery timeslot. Shipments are immutable once handed to the optimizer.
type Shipment struct {
	ID       string
	Location Coordinates
	Window   TimeWindow
}

// Timeslot returns the normalized HH:MM-HH:MM form of the delivery window.
func (s Shipment) Timeslot() string { return s.Window.String() }

// ShipmentInput is an unvalidated shipment as received from a caller.
// Coordinates are pointers so a missing value can be told apart from zero.
type ShipmentInput struct {
	ShipmentID       string
	Latitude         *float64
	Longitude        *float64
	DeliveryTimeslot string
}

// NewShipments validates every input and returns the domain shipments in input
// order. All problems are reported together in a *ValidationError.
func NewShipments(inputs []ShipmentInput) ([]Shipment, error) {
	if len(inputs) == 0 {
		return nil, ErrEmptyShipments
	}

	verr := &ValidationError{}
	seen := make(map[string]struct{}, len(inputs))
	out := make([]Shipment, 0, len(inputs))

	for i, in := range inputs {
		id := strings.TrimSpace(in.ShipmentID)
		ok := true

		if id == "" {
			verr.add(i, id, "shipment_id", ErrMissingShipmentID)
			ok = false
		} else if _, dup := seen[id]; dup {
			verr.add(i, id, "shipment_id", ErrDuplicateShipment)
			ok = false
		} else {
			seen[id] = struct{}{}
		}

		var loc Coordinates
		switch {
		case in.Latitude == nil:
			verr.add(i, id, "latitude", fmt.Errorf("latitude is required: %w", ErrInvalidCoordinate))
			ok = false
		case in.Longitude == nil:
			verr.add(i, id, "longitude", fmt.Errorf("longitude is required: %w", ErrInvalidCoordinate))
			ok = false
		default:
			loc = Coordinates{Lat: *in.Latitude, Lon: *in.Longitude}
			if err := loc.Validate(); err != nil {
				field := "latitude"
				if loc.Lat >= -90 && loc.Lat <= 90 {
					field = "longitude"
				}
				verr.add(i, id, field, err)
				ok = false
			}
		}

		w, err := ParseTimeWindow(in.DeliveryTimeslot)
		if err != nil {
			verr.add(i, id, "delivery_timeslot", err)
			ok = false
		}

		if ok {
			out = append(out, Shipment{ID: id, Location: loc, Window: w})
		}
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}
	return out, nil
}

// ValidateShipments checks already-constructed shipments with the same rules
// as NewShipments. It is used by callers that bypass the input path.
func ValidateShipments(shipments []Shipment) error {
	if len(shipments) == 0 {
		return ErrEmptyShipments
	}

	verr := &ValidationError{}
	seen := make(map[string]struct{}, len(shipments))
	for i, s := range shipments {
		id := strings.TrimSpace(s.ID)
		if id == "" {
			verr.add(i, s.ID, "shipment_id", ErrMissingShipmentID)
		} else if _, dup := seen[id]; dup {
			verr.add(i, s.ID, "shipment_id", ErrDuplicateShipment)
		} else {
			seen[id] = struct{}{}
		}
		if err := s.Location.Validate(); err != nil {
			verr.add(i, s.ID, "location", err)
		}
		if err := s.Window.Validate(); err != nil {
			verr.add(i, s.ID, "delivery_timeslot", err)
		}
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}
