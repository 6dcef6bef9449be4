package converters

import (
	"errors"
	"net"
	"net/http"

	"github.com/pharmarun/dispatch/internal/service/models/driver"
	"github.com/pharmarun/dispatch/internal/service/models/order"
	"github.com/pharmarun/dispatch/internal/service/models/status"
	"github.com/pharmarun/dispatch/internal/service/models/tracking"
	"github.com/pharmarun/dispatch/internal/service/services/dispatchsvc"
)

// CallerMeta extracts the audit-relevant request metadata: the User-Agent
// string and the client IP (X-Forwarded-For wins over RemoteAddr).
func CallerMeta(r *http.Request) (userAgent string, ipAddress *string) {
	userAgent = r.UserAgent()

	ip := r.Header.Get("X-Forwarded-For")
	if ip == "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			ip = host
		} else {
			ip = r.RemoteAddr
		}
	}
	if ip != "" {
		ipAddress = &ip
	}

	return userAgent, ipAddress
}

// StatusCode maps a service error to an HTTP status code.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, driver.ErrDriverNotFound),
		errors.Is(err, tracking.ErrTrackingNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrOrderNotPending),
		errors.Is(err, dispatchsvc.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, dispatchsvc.ErrMissingDeliveryOutcome),
		errors.Is(err, dispatchsvc.ErrDeliveryOutcomeMismatch),
		errors.Is(err, dispatchsvc.ErrMissingReviewReason),
		errors.Is(err, dispatchsvc.ErrMissingReviewNotes),
		errors.Is(err, status.ErrInvalidTimelineStatus),
		errors.Is(err, status.ErrInvalidDeliveryStatus),
		errors.Is(err, status.ErrInvalidReviewReason):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
