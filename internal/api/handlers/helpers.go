package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"route-optimizer-service/internal/api/dto"
	"route-optimizer-service/internal/platform/obs"

	log "github.com/sirupsen/logrus"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithFields(log.Fields{
			"req_id": obs.ReqID(r.Context()),
			"method": r.Method,
			"path":   r.URL.Path,
		}).WithError(err).Warn("encode failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, dto.ErrorResponse{Error: msg})
}

// writeHTML renders into a buffer first so a template failure still yields a
// clean 500 instead of a truncated page.
func writeHTML(w http.ResponseWriter, r *http.Request, status int, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		log.WithField("req_id", obs.ReqID(r.Context())).WithError(err).Error("render page failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.WithField("req_id", obs.ReqID(r.Context())).WithError(err).Debug("write page failed")
	}
}
