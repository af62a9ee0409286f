package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"route-optimizer-service/internal/api/dto"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/store"
	"route-optimizer-service/internal/ws"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// Optimizer plans trips for a validated shipment list.
type Optimizer interface {
	Optimize(ctx context.Context, shipments []domain.Shipment) (*domain.OptimizationResult, error)
}

// Publisher receives an event after every stored result.
type Publisher interface {
	Publish(ev ws.Event)
}

// maxBodyBytes bounds the request body; a few thousand shipments fit easily.
const maxBodyBytes = 8 << 20

type OptimizeHandler struct {
	Optimizer Optimizer
	Store     *store.TripStore
	// Events may be nil.
	Events  Publisher
	Timeout time.Duration
}

type optimizeOutcome struct {
	result *domain.OptimizationResult
	err    error
}

// Optimize validates the submitted shipments, plans trips, replaces the stored
// result and responds with the flat result rows. The response is written only
// after the new result is visible to readers.
func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req dto.OptimizeRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	shipments, err := domain.NewShipments(req.ToInputs())
	if err != nil {
		writeValidationError(w, r, err)
		return
	}

	ctx := r.Context()
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	done := make(chan optimizeOutcome, 1)
	go func() {
		res, err := h.Optimizer.Optimize(ctx, shipments)
		done <- optimizeOutcome{result: res, err: err}
	}()

	var out optimizeOutcome
	select {
	case out = <-done:
	case <-ctx.Done():
		out.err = domain.ErrOptimizationTimeout
	}

	if out.err != nil {
		switch {
		case errors.Is(out.err, domain.ErrOptimizationTimeout), errors.Is(out.err, context.DeadlineExceeded):
			writeError(w, r, http.StatusGatewayTimeout, domain.ErrOptimizationTimeout.Error())
		case isValidation(out.err):
			writeValidationError(w, r, out.err)
		default:
			log.WithError(out.err).Error("optimize failed")
			writeError(w, r, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	stored, err := h.Store.Put(out.result)
	if err != nil {
		log.WithError(err).Error("store optimization result failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	if h.Events != nil {
		h.Events.Publish(ws.NewEvent(
			ws.EventOptimizationCompleted,
			stored.Generation,
			len(stored.Trips),
			len(stored.Unassigned),
			stored.CreatedAt,
		))
	}

	w.Header().Set("X-Unassigned-Count", strconv.Itoa(len(stored.Unassigned)))
	writeJSON(w, r, http.StatusOK, dto.Rows(stored))
}

func isValidation(err error) bool {
	var verr *domain.ValidationError
	return errors.As(err, &verr) || errors.Is(err, domain.ErrEmptyShipments)
}

func writeValidationError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res := dto.ErrorResponse{
		Error:   "validation failed",
		Details: make([]dto.FieldErrorResponse, 0, len(verr.Fields)),
	}
	for _, f := range verr.Fields {
		res.Details = append(res.Details, dto.FieldErrorResponse{
			Index:      f.Index,
			ShipmentID: f.ShipmentID,
			Field:      f.Field,
			Message:    f.Err.Error(),
		})
	}
	writeJSON(w, r, http.StatusBadRequest, res)
}
