package handlers

import (
	"net/http"
)

// Health provides a minimal liveness check endpoint. It also reports the
// generation of the result currently served.
func Health(generation func() int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, map[string]any{
			"status":     "ok",
			"generation": generation(),
		})
	}
}
