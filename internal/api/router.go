package api

import (
	"net/http"
	"route-optimizer-service/internal/api/handlers"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/store"
	"route-optimizer-service/internal/ws"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Deps are the collaborators the HTTP layer needs. Hub may be nil, in which
// case no event feed is served.
type Deps struct {
	Optimizer       handlers.Optimizer
	Store           *store.TripStore
	Hub             *ws.Hub
	Depot           domain.Coordinates
	OptimizeTimeout time.Duration
	CORSOrigins     []string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(loggingMiddleware)
	r.Use(middleware.Recoverer)

	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		ExposedHeaders:   []string{"X-Unassigned-Count"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	optimize := &handlers.OptimizeHandler{
		Optimizer: d.Optimizer,
		Store:     d.Store,
		Timeout:   d.OptimizeTimeout,
	}
	if d.Hub != nil {
		optimize.Events = d.Hub
	}
	maps := &handlers.MapHandler{Store: d.Store}
	trips := &handlers.TripsHandler{Store: d.Store, Depot: d.Depot}

	r.Get("/", handlers.Index(d.Depot))
	r.Get("/health", handlers.Health(d.Store.Generation))
	r.Post("/optimize", optimize.Optimize)

	if d.Hub != nil {
		r.Get("/ws", ws.Handler(d.Hub))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/trips", trips.Rows)
		r.Get("/result", trips.Result)
		r.Get("/geojson", trips.GeoJSON)
		r.Get("/map/{tripId}", maps.Trip)
		r.Get("/all-trips-map", maps.All)
	})

	return r
}
