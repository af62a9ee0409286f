package obs

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

// Time logs the duration of a named operation. Use it as
//
//	defer obs.Time(ctx, "op")(&err)
//
// so the deferred call also sees the named error result.
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()
	reqID := ReqID(ctx)

	return func(errp *error) {
		entry := log.WithFields(log.Fields{
			"req_id": reqID,
			"op":     name,
			"dur_ms": time.Since(start).Milliseconds(),
		})

		if errp != nil && *errp != nil {
			entry.WithError(*errp).Warn("operation failed")
			return
		}
		entry.Debug("operation done")
	}
}

// ReqID returns the request id set by chi's RequestID middleware, if any.
func ReqID(ctx context.Context) string { return middleware.GetReqID(ctx) }
