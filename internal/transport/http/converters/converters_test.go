package converters

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmarun/dispatch/internal/service/models/driver"
	"github.com/pharmarun/dispatch/internal/service/models/order"
	"github.com/pharmarun/dispatch/internal/service/models/status"
	"github.com/pharmarun/dispatch/internal/service/models/tracking"
	"github.com/pharmarun/dispatch/internal/service/services/dispatchsvc"
)

func TestCallerMeta(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/orders/1", nil)
	r.Header.Set("User-Agent", "test-ua")
	r.RemoteAddr = "10.0.0.5:49152"

	ua, ip := CallerMeta(r)
	assert.Equal(t, "test-ua", ua)
	require.NotNil(t, ip)
	assert.Equal(t, "10.0.0.5", *ip)

	r.Header.Set("X-Forwarded-For", "203.0.113.9")
	_, ip = CallerMeta(r)
	require.NotNil(t, ip)
	assert.Equal(t, "203.0.113.9", *ip, "forwarded header wins over remote addr")
}

func TestStatusCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{order.ErrOrderNotFound, http.StatusNotFound},
		{driver.ErrDriverNotFound, http.StatusNotFound},
		{tracking.ErrTrackingNotFound, http.StatusNotFound},
		{order.ErrOrderNotPending, http.StatusConflict},
		{dispatchsvc.ErrInvalidTransition, http.StatusConflict},
		{dispatchsvc.ErrMissingDeliveryOutcome, http.StatusBadRequest},
		{dispatchsvc.ErrDeliveryOutcomeMismatch, http.StatusBadRequest},
		{dispatchsvc.ErrMissingReviewReason, http.StatusBadRequest},
		{dispatchsvc.ErrMissingReviewNotes, http.StatusBadRequest},
		{status.ErrInvalidTimelineStatus, http.StatusBadRequest},
		{status.ErrInvalidDeliveryStatus, http.StatusBadRequest},
		{status.ErrInvalidReviewReason, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", order.ErrOrderNotFound), http.StatusNotFound},
		{fmt.Errorf("unrelated"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusCode(tc.err), "StatusCode(%v)", tc.err)
	}
}
