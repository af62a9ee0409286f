package handlers

import (
	"errors"
	"io"
	"net/http"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/render"
	"route-optimizer-service/internal/store"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

const tripNotFoundTitle = "Trip not found"

type MapHandler struct {
	Store *store.TripStore
}

// Trip renders the map of one trip of the current result.
func (h *MapHandler) Trip(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripId")

	res, err := h.Store.GetAll()
	if err != nil {
		h.notFound(w, r, tripID, err)
		return
	}
	trip, ok := res.Trip(tripID)
	if !ok {
		h.notFound(w, r, tripID, domain.ErrNotFound)
		return
	}

	writeHTML(w, r, http.StatusOK, func(out io.Writer) error {
		return render.RenderTrip(out, res.Depot, trip)
	})
}

func (h *MapHandler) notFound(w http.ResponseWriter, r *http.Request, tripID string, err error) {
	if !errors.Is(err, domain.ErrNotFound) {
		log.WithError(err).Error("load trip failed")
	}
	writeHTML(w, r, http.StatusNotFound, func(out io.Writer) error {
		return render.RenderEmpty(out, tripNotFoundTitle, "No trip with id "+tripID+" in the current result.")
	})
}

// All renders every trip of the current result on one map, or an empty-state
// page when nothing has been optimized yet.
func (h *MapHandler) All(w http.ResponseWriter, r *http.Request) {
	res, err := h.Store.GetAll()
	if err != nil || len(res.Trips) == 0 {
		writeHTML(w, r, http.StatusOK, func(out io.Writer) error {
			return render.RenderEmpty(out, "All trips", "No trips available. Run an optimization first.")
		})
		return
	}

	writeHTML(w, r, http.StatusOK, func(out io.Writer) error {
		return render.RenderAll(out, res)
	})
}
