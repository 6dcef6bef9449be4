package getorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pharmarun/dispatch/internal/service/models/order"
	"github.com/pharmarun/dispatch/internal/service/services/dispatchsvc"
	"github.com/pharmarun/dispatch/internal/transport/http/converters"
)

type service interface {
	GetOrder(ctx context.Context, id int64, details dispatchsvc.ChangeDetails) (*order.Order, error)
}

// GetOrder handles a single order lookup. The access itself is recorded in
// the audit trail, so the caller metadata travels with the request.
func GetOrder(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)

		return
	}

	userAgent, ipAddress := converters.CallerMeta(r)
	details := dispatchsvc.ChangeDetails{
		UserAgent: userAgent,
		IPAddress: ipAddress,
	}

	result, err := service.GetOrder(r.Context(), orderID, details)
	if err != nil {
		http.Error(w, err.Error(), converters.StatusCode(err))
		slog.Error("Error getting order", "order_id", orderID, "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error sending response", "error", err)
	}
}
