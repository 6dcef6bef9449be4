package getaudittrail

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmarun/dispatch/internal/service/models/auditlog"
	"github.com/pharmarun/dispatch/internal/service/models/status"
)

type fakeService struct {
	entries []auditlog.Entry
	err     error

	gotOrderID int64
	gotLimit   int
}

func (s *fakeService) GetAuditTrail(_ context.Context, orderID int64, limit int) ([]auditlog.Entry, error) {
	s.gotOrderID = orderID
	s.gotLimit = limit

	return s.entries, s.err
}

func serve(svc *fakeService, target string) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.Get("/api/orders/{orderID}/audit", func(w http.ResponseWriter, r *http.Request) {
		GetAuditTrail(w, r, svc)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	return rec
}

func TestGetAuditTrail(t *testing.T) {
	svc := &fakeService{
		entries: []auditlog.Entry{
			{ID: 2, OrderID: 7, Action: status.ActionOrderConfirmed},
			{ID: 1, OrderID: 7, Action: status.ActionOrderAssigned},
		},
	}

	rec := serve(svc, "/api/orders/7/audit?limit=10")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), svc.gotOrderID)
	assert.Equal(t, 10, svc.gotLimit)

	var got []auditlog.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, status.ActionOrderConfirmed, got[0].Action)
}

func TestGetAuditTrailDefaultLimit(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, "/api/orders/7/audit")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, defaultLimit, svc.gotLimit)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestGetAuditTrailBadRequest(t *testing.T) {
	svc := &fakeService{}

	assert.Equal(t, http.StatusBadRequest, serve(svc, "/api/orders/abc/audit").Code)
	assert.Equal(t, http.StatusBadRequest, serve(svc, "/api/orders/7/audit?limit=nope").Code)
	assert.Equal(t, http.StatusBadRequest, serve(svc, "/api/orders/7/audit?limit=-1").Code)
}

func TestGetAuditTrailServiceError(t *testing.T) {
	svc := &fakeService{err: errors.New("db down")}

	assert.Equal(t, http.StatusInternalServerError, serve(svc, "/api/orders/7/audit").Code)
}
