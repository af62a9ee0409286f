package handlers

import (
	"net/http"
	"route-optimizer-service/internal/api/dto"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/render"
	"route-optimizer-service/internal/store"
)

// TripsHandler exposes read-only views of the current result.
type TripsHandler struct {
	Store *store.TripStore
	// Depot is used for the GeoJSON view before the first result exists.
	Depot domain.Coordinates
}

func (h *TripsHandler) Rows(w http.ResponseWriter, r *http.Request) {
	res, err := h.Store.GetAll()
	if err != nil {
		writeJSON(w, r, http.StatusOK, []dto.TripRow{})
		return
	}
	writeJSON(w, r, http.StatusOK, dto.Rows(res))
}

func (h *TripsHandler) Result(w http.ResponseWriter, r *http.Request) {
	res, err := h.Store.GetAll()
	if err != nil {
		writeError(w, r, http.StatusNotFound, "no optimization result")
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewResultResponse(res))
}

func (h *TripsHandler) GeoJSON(w http.ResponseWriter, r *http.Request) {
	res, err := h.Store.GetAll()
	if err != nil {
		writeJSON(w, r, http.StatusOK, render.GeoJSON(h.Depot, nil))
		return
	}
	writeJSON(w, r, http.StatusOK, render.GeoJSON(res.Depot, res.Trips))
}
