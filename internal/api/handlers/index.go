package handlers

import (
	"fmt"
	"net/http"
	"route-optimizer-service/internal/domain"
)

const usagePage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Route Optimization Service</title></head>
<body>
<h1>Route Optimization Service</h1>
<p>Trips depart from and return to the depot at <code>%s</code>.
Set <code>DEPOT_LAT</code> and <code>DEPOT_LON</code> to a depot near your shipments;
shipments the fleet cannot reach within their timeslot are reported as unassigned.</p>
<ul>
<li><code>POST /optimize</code> with <code>{"shipments":[{"shipment_id","latitude","longitude","delivery_timeslot"}]}</code></li>
<li><code>GET /api/trips</code> rows of the last result</li>
<li><code>GET /api/result</code> full last result</li>
<li><code>GET /api/geojson</code> trips as GeoJSON</li>
<li><code>GET /api/map/{tripId}</code> map of one trip</li>
<li><code>GET /api/all-trips-map</code> map of every trip</li>
<li><code>GET /ws</code> optimization events</li>
<li><code>GET /health</code></li>
</ul>
</body>
</html>
`

// Index serves the usage page, naming the configured depot.
func Index(depot domain.Coordinates) http.HandlerFunc {
	page := fmt.Sprintf(usagePage, depot.Key())
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}
}
