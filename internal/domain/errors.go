package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCoordinate    = errors.New("invalid coordinate")
	ErrInvalidTimeWindow    = errors.New("invalid time window")
	ErrNoFeasibleAssignment = errors.New("no feasible assignment")
	ErrNotFound             = errors.New("not found")
	ErrOptimizationTimeout  = errors.New("optimization timeout")
	ErrEmptyShipments       = errors.New("shipment list must not be empty")
	ErrDuplicateShipment    = errors.New("duplicate shipment id")
	ErrMissingShipmentID    = errors.New("shipment id must not be empty")
)

// FieldError describes one structural problem with one submitted shipment.
type FieldError struct {
	Index      int
	ShipmentID string
	Field      string
	Err        error
}

func (e FieldError) Error() string {
	return fmt.Sprintf("shipment #%d (%q) %s: %v", e.Index+1, e.ShipmentID, e.Field, e.Err)
}

func (e FieldError) Unwrap() error { return e.Err }

// ValidationError collects every structural problem found in a request so the
// caller can fix them in one round trip.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Error())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Unwrap exposes the field errors so errors.Is matches any of the sentinels.
func (e *ValidationError) Unwrap() []error {
	out := make([]error, 0, len(e.Fields))
	for _, f := range e.Fields {
		out = append(out, f)
	}
	return out
}

func (e *ValidationError) add(index int, id, field string, err error) {
	e.Fields = append(e.Fields, FieldError{Index: index, ShipmentID: id, Field: field, Err: err})
}
