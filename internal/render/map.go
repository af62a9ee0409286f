package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"route-optimizer-service/internal/domain"
)

var pageTmpl = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<meta name="viewport" content="width=device-width, initial-scale=1.0">
{{- if not .Empty}}
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
{{- end}}
<style>
html, body { height: 100%; margin: 0; font-family: sans-serif; }
#map { height: 100%; }
.empty { padding: 2em; }
</style>
</head>
<body>
{{- if .Empty}}
<div class="empty"><h1>{{.Title}}</h1><p>{{.Message}}</p></div>
{{- else}}
<div id="map"></div>
<script>
var data = {{.GeoJSON}};
var map = L.map('map').setView([{{.CenterLat}}, {{.CenterLon}}], {{.Zoom}});
L.tileLayer('https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png', {
  maxZoom: 19,
  attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);
var layer = L.geoJSON(data, {
  style: function (f) { return { color: f.properties.color, weight: 3, opacity: 0.8 }; },
  pointToLayer: function (f, latlng) {
    var depot = f.properties.kind === 'depot';
    return L.circleMarker(latlng, {
      radius: depot ? 9 : 6, color: f.properties.color, fillColor: f.properties.color, fillOpacity: 0.9
    });
  },
  onEachFeature: function (f, l) {
    // popup is escaped server side.
    if (f.properties.popup) { l.bindPopup(f.properties.popup); }
  }
}).addTo(map);
if (layer.getBounds().isValid()) { map.fitBounds(layer.getBounds(), { padding: [20, 20] }); }
</script>
{{- end}}
</body>
</html>
`))

type page struct {
	Title     string
	Message   string
	Empty     bool
	GeoJSON   template.JS
	CenterLat float64
	CenterLon float64
	Zoom      int
}

// RenderTrip writes the map of one trip.
func RenderTrip(w io.Writer, depot domain.Coordinates, trip domain.Trip) error {
	return renderMap(w, "Trip "+trip.TripID, depot, []domain.Trip{trip}, 12)
}

// RenderAll writes the map of every trip in result, one colour per trip.
func RenderAll(w io.Writer, result *domain.OptimizationResult) error {
	return renderMap(w, "All trips", result.Depot, result.Trips, 10)
}

// RenderEmpty writes a document without a map, for missing or empty results.
func RenderEmpty(w io.Writer, title, message string) error {
	if err := pageTmpl.Execute(w, page{Title: title, Message: message, Empty: true}); err != nil {
		return fmt.Errorf("render empty page: %w", err)
	}
	return nil
}

func renderMap(w io.Writer, title string, depot domain.Coordinates, trips []domain.Trip, zoom int) error {
	// encoding/json escapes <, > and & so the payload is safe inside <script>.
	data, err := json.Marshal(GeoJSON(depot, trips))
	if err != nil {
		return fmt.Errorf("render map: encode geojson: %w", err)
	}

	p := page{
		Title:     title,
		GeoJSON:   template.JS(data),
		CenterLat: depot.Lat,
		CenterLon: depot.Lon,
		Zoom:      zoom,
	}
	if err := pageTmpl.Execute(w, p); err != nil {
		return fmt.Errorf("render map %q: %w", title, err)
	}
	return nil
}
