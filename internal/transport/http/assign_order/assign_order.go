package assignorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pharmarun/dispatch/internal/service/services/dispatchsvc"
	"github.com/pharmarun/dispatch/internal/transport/http/converters"
)

// service is an interface for the service layer.
type service interface {
	AssignDriver(ctx context.Context, orderID, driverID int64, details dispatchsvc.ChangeDetails) error
}

type assignOrderRequest struct {
	DriverID  int64    `json:"driverId"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// AssignOrder handles the driver assignment request.
func AssignOrder(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)

		return
	}

	var req assignOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)
		slog.Error("Error decoding request body for assign order", "error", err)

		return
	}

	userAgent, ipAddress := converters.CallerMeta(r)
	details := dispatchsvc.ChangeDetails{
		UserAgent: userAgent,
		IPAddress: ipAddress,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}

	if err := service.AssignDriver(r.Context(), orderID, req.DriverID, details); err != nil {
		http.Error(w, err.Error(), converters.StatusCode(err))
		slog.Error("Error assigning driver", "order_id", orderID, "driver_id", req.DriverID, "error", err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
