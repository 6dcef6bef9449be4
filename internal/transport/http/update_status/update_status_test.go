package updatestatus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmarun/dispatch/internal/service/models/status"
	"github.com/pharmarun/dispatch/internal/service/services/dispatchsvc"
)

type fakeService struct {
	called     bool
	gotDetails dispatchsvc.ChangeDetails
}

func (s *fakeService) ApplyStatusTransition(
	_ context.Context,
	_ int64,
	_ status.TimelineStatus,
	details dispatchsvc.ChangeDetails,
) error {
	s.called = true
	s.gotDetails = details

	return nil
}

func serve(svc *fakeService, body string) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.Post("/api/orders/{orderID}/status", func(w http.ResponseWriter, r *http.Request) {
		UpdateStatus(w, r, svc)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders/1/status", strings.NewReader(body))
	router.ServeHTTP(rec, req)

	return rec
}

func TestUpdateStatusRejectsUnknownReviewReason(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, `{"status":"REVIEW_REQUESTED","reviewReason":"ran out of fuel","reviewNotes":"n"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, svc.called)
}

func TestUpdateStatusAcceptsKnownReviewReason(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, `{"status":"REVIEW_REQUESTED","reviewReason":"WRONG_ADDRESS","reviewNotes":"gate code missing"}`)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.True(t, svc.called)
	require.NotNil(t, svc.gotDetails.ReviewReason)
	assert.Equal(t, status.ReviewReasonWrongAddress, *svc.gotDetails.ReviewReason)
}

func TestUpdateStatusRejectsUnknownStatuses(t *testing.T) {
	svc := &fakeService{}

	assert.Equal(t, http.StatusBadRequest, serve(svc, `{"status":"SHIPPED"}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(svc, `{"status":"IN_ROUTE","deliveryStatus":"DELIVERED"}`).Code)
	assert.False(t, svc.called)
}
