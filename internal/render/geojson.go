package render

import (
	"fmt"
	"html"
	"route-optimizer-service/internal/domain"
)

// Colours cycle per trip on the all-trips map.
var Palette = []string{
	"blue", "red", "purple", "orange", "darkred",
	"lightcoral", "beige", "darkblue", "darkgreen", "cadetblue",
}

const depotColor = "green"

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// Geometry coordinates are [lon, lat] for a Point and a list of those for a
// LineString.
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

func point(c domain.Coordinates) Geometry {
	return Geometry{Type: "Point", Coordinates: c.CoordsToList()}
}

// TripColor returns the palette colour of the trip at index i.
func TripColor(i int) string { return Palette[i%len(Palette)] }

// GeoJSON describes the depot and every trip: one Point per stop in visiting
// order and one LineString for the route depot, stops, depot.
func GeoJSON(depot domain.Coordinates, trips []domain.Trip) FeatureCollection {
	fc := FeatureCollection{Type: "FeatureCollection", Features: []Feature{{
		Type:     "Feature",
		Geometry: point(depot),
		Properties: map[string]any{
			"kind":  "depot",
			"name":  "Store Location",
			"popup": "Store Location",
			"color": depotColor,
		},
	}}}

	for i, t := range trips {
		color := TripColor(i)
		line := make([][]float64, 0, len(t.Stops)+2)
		line = append(line, depot.CoordsToList())

		for _, s := range t.Stops {
			line = append(line, s.Shipment.Location.CoordsToList())
			fc.Features = append(fc.Features, Feature{
				Type:     "Feature",
				Geometry: point(s.Shipment.Location),
				Properties: map[string]any{
					"kind":         "stop",
					"trip_id":      t.TripID,
					"vehicle_type": t.VehicleType.Name,
					"shipment_id":  s.Shipment.ID,
					"sequence":     s.Sequence,
					"arrival":      domain.FormatClock(s.Arrival),
					"timeslot":     s.Shipment.Timeslot(),
					"popup":        stopPopup(t, s),
					"color":        color,
				},
			})
		}

		line = append(line, depot.CoordsToList())
		fc.Features = append(fc.Features, Feature{
			Type:     "Feature",
			Geometry: Geometry{Type: "LineString", Coordinates: line},
			Properties: map[string]any{
				"kind":            "route",
				"trip_id":         t.TripID,
				"vehicle_type":    t.VehicleType.Name,
				"distance_meters": t.TotalDistanceMeters,
				"popup":           "Route for Trip " + html.EscapeString(t.TripID),
				"color":           color,
			},
		})
	}

	return fc
}

// stopPopup is the popup markup of one stop. Caller-supplied values are
// HTML-escaped; Leaflet renders popup strings as HTML.
func stopPopup(t domain.Trip, s domain.Stop) string {
	return fmt.Sprintf("Trip: %s<br>Shipment: %s<br>Stop: %d<br>Arrival: %s<br>Timeslot: %s",
		html.EscapeString(t.TripID),
		html.EscapeString(s.Shipment.ID),
		s.Sequence,
		domain.FormatClock(s.Arrival),
		html.EscapeString(s.Shipment.Timeslot()),
	)
}
