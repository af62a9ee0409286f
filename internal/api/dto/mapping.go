package dto

import (
	"math"
	"route-optimizer-service/internal/domain"
)

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// ToInputs converts the request body into unvalidated domain inputs.
func (r OptimizeRequest) ToInputs() []domain.ShipmentInput {
	out := make([]domain.ShipmentInput, 0, len(r.Shipments))
	for _, s := range r.Shipments {
		out = append(out, domain.ShipmentInput{
			ShipmentID:       s.ShipmentID,
			Latitude:         (*float64)(s.Latitude),
			Longitude:        (*float64)(s.Longitude),
			DeliveryTimeslot: s.DeliveryTimeslot,
		})
	}
	return out
}

// FromInputs builds a request body, the reverse of ToInputs.
func FromInputs(inputs []domain.ShipmentInput) OptimizeRequest {
	req := OptimizeRequest{Shipments: make([]ShipmentRequest, 0, len(inputs))}
	for _, in := range inputs {
		req.Shipments = append(req.Shipments, ShipmentRequest{
			ShipmentID:       in.ShipmentID,
			Latitude:         (*FlexFloat)(in.Latitude),
			Longitude:        (*FlexFloat)(in.Longitude),
			DeliveryTimeslot: in.DeliveryTimeslot,
		})
	}
	return req
}

// Rows flattens a result into the table the UI renders. Never nil.
func Rows(res *domain.OptimizationResult) []TripRow {
	rows := []TripRow{}
	if res == nil {
		return rows
	}

	for _, t := range res.Trips {
		var cov any = NotApplicable
		if t.CoverageUtilization != nil {
			cov = round2(*t.CoverageUtilization)
		}
		for _, s := range t.Stops {
			rows = append(rows, TripRow{
				TripID:      t.TripID,
				ShipmentID:  s.Shipment.ID,
				VehicleType: t.VehicleType.Name,
				TimeSlot:    s.Shipment.Timeslot(),
				Latitude:    s.Shipment.Location.Lat,
				Longitude:   s.Shipment.Location.Lon,
				Shipments:   len(t.Stops),
				MSTDist:     round2(t.MSTDistanceKm),
				TripTime:    round2(t.TripMinutes),
				CapacityUti: round2(t.CapacityUtilization),
				TimeUti:     round2(t.TimeUtilization),
				CovUti:      cov,
				Arrival:     domain.FormatClock(s.Arrival),
				Sequence:    s.Sequence,
				Status:      StatusAssigned,
			})
		}
	}

	for _, u := range res.Unassigned {
		rows = append(rows, TripRow{
			ShipmentID: u.Shipment.ID,
			TimeSlot:   u.Shipment.Timeslot(),
			Latitude:   u.Shipment.Location.Lat,
			Longitude:  u.Shipment.Location.Lon,
			CovUti:     NotApplicable,
			Status:     StatusUnassigned,
			Reason:     u.Reason,
		})
	}
	return rows
}

func NewResultResponse(res *domain.OptimizationResult) ResultResponse {
	out := ResultResponse{
		Generation:          res.Generation,
		CreatedAt:           res.CreatedAt,
		DepotLatitude:       res.Depot.Lat,
		DepotLongitude:      res.Depot.Lon,
		AssignedCount:       res.AssignedCount(),
		UnassignedCount:     len(res.Unassigned),
		TotalDistanceMeters: res.TotalDistanceMeters(),
		Trips:               make([]TripResponse, 0, len(res.Trips)),
		Unassigned:          make([]UnassignedResponse, 0, len(res.Unassigned)),
	}

	for _, t := range res.Trips {
		tr := TripResponse{
			TripID:               t.TripID,
			VehicleType:          t.VehicleType.Name,
			DepartAt:             domain.FormatClock(t.DepartAt),
			ReturnAt:             domain.FormatClock(t.ReturnAt),
			TotalDistanceMeters:  t.TotalDistanceMeters,
			TotalDurationSeconds: t.TotalDurationSeconds,
			MSTDistanceKm:        round2(t.MSTDistanceKm),
			TripMinutes:          round2(t.TripMinutes),
			CapacityUtilization:  round2(t.CapacityUtilization),
			TimeUtilization:      round2(t.TimeUtilization),
			Stops:                make([]StopResponse, 0, len(t.Stops)),
		}
		if t.CoverageUtilization != nil {
			v := round2(*t.CoverageUtilization)
			tr.CoverageUtilization = &v
		}
		for _, s := range t.Stops {
			tr.Stops = append(tr.Stops, StopResponse{
				Sequence:          s.Sequence,
				ShipmentID:        s.Shipment.ID,
				Latitude:          s.Shipment.Location.Lat,
				Longitude:         s.Shipment.Location.Lon,
				DeliveryTimeslot:  s.Shipment.Timeslot(),
				Arrival:           domain.FormatClock(s.Arrival),
				Departure:         domain.FormatClock(s.Departure),
				LegDistanceMeters: s.LegDistanceMeters,
			})
		}
		out.Trips = append(out.Trips, tr)
	}

	for _, u := range res.Unassigned {
		out.Unassigned = append(out.Unassigned, UnassignedResponse{
			ShipmentID:       u.Shipment.ID,
			Latitude:         u.Shipment.Location.Lat,
			Longitude:        u.Shipment.Location.Lon,
			DeliveryTimeslot: u.Shipment.Timeslot(),
			Reason:           u.Reason,
		})
	}
	return out
}
