package getaudittrail

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pharmarun/dispatch/internal/service/models/auditlog"
)

// defaultLimit caps the trail returned when the caller does not ask for a
// specific window.
const defaultLimit = 50

type service interface {
	GetAuditTrail(ctx context.Context, orderID int64, limit int) ([]auditlog.Entry, error)
}

// GetAuditTrail returns the audit trail of an order, newest entries first.
func GetAuditTrail(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)

		return
	}

	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)

			return
		}
	}

	entries, err := service.GetAuditTrail(r.Context(), orderID, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error getting audit trail", "order_id", orderID, "error", err)

		return
	}

	if entries == nil {
		entries = []auditlog.Entry{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error sending response", "error", err)
	}
}
