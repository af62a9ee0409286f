package domain

import (
	"errors"
	"testing"
)

func f(v float64) *float64 { return &v }

func TestNewShipmentsValid(t *testing.T) {
	got, err := NewShipments([]ShipmentInput{
		{ShipmentID: "S1", Latitude: f(12.97), Longitude: f(77.59), DeliveryTimeslot: "09:00-10:00"},
		{ShipmentID: " S2 ", Latitude: f(12.98), Longitude: f(77.60), DeliveryTimeslot: "09:30-10:30"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 shipments, got %d", len(got))
	}
	if got[1].ID != "S2" {
		t.Errorf("id not trimmed: %q", got[1].ID)
	}
	if got[1].Timeslot() != "09:30-10:30" {
		t.Errorf("timeslot = %q", got[1].Timeslot())
	}
}

func TestNewShipmentsCollectsAllErrors(t *testing.T) {
	_, err := NewShipments([]ShipmentInput{
		{ShipmentID: "S1", Latitude: f(91), Longitude: f(77.59), DeliveryTimeslot: "09:00-10:00"},
		{ShipmentID: "S2", Latitude: f(12), Longitude: f(-181), DeliveryTimeslot: "09:00-10:00"},
		{ShipmentID: "S3", Latitude: f(12), Longitude: f(77), DeliveryTimeslot: "10:00-09:00"},
		{ShipmentID: "S3", Latitude: f(12), Longitude: f(77), DeliveryTimeslot: "10:00-11:00"},
		{ShipmentID: "", Latitude: nil, Longitude: f(77), DeliveryTimeslot: "10:00-11:00"},
	})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(verr.Fields) != 6 {
		t.Fatalf("expected 6 field errors, got %d: %v", len(verr.Fields), verr)
	}
	if !errors.Is(err, ErrInvalidCoordinate) {
		t.Errorf("expected ErrInvalidCoordinate in chain")
	}
	if !errors.Is(err, ErrInvalidTimeWindow) {
		t.Errorf("expected ErrInvalidTimeWindow in chain")
	}
	if !errors.Is(err, ErrDuplicateShipment) {
		t.Errorf("expected ErrDuplicateShipment in chain")
	}
	if verr.Fields[1].Field != "longitude" {
		t.Errorf("field = %q, want longitude", verr.Fields[1].Field)
	}
}

func TestNewShipmentsEmpty(t *testing.T) {
	if _, err := NewShipments(nil); !errors.Is(err, ErrEmptyShipments) {
		t.Fatalf("expected ErrEmptyShipments, got %v", err)
	}
}

func TestValidateShipmentsTrimsIDsForDuplicates(t *testing.T) {
	w := TimeWindow{Start: 540, End: 600}
	err := ValidateShipments([]Shipment{
		{ID: "S1", Location: Coordinates{Lat: 12.97, Lon: 77.59}, Window: w},
		{ID: " S1 ", Location: Coordinates{Lat: 12.98, Lon: 77.60}, Window: w},
	})
	if !errors.Is(err, ErrDuplicateShipment) {
		t.Fatalf("expected ErrDuplicateShipment, got %v", err)
	}

	var verr *ValidationError
	if !errors.As(err, &verr) || len(verr.Fields) != 1 || verr.Fields[0].Index != 1 {
		t.Fatalf("expected one duplicate at index 1, got %v", err)
	}
}
