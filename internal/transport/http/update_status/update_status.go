package updatestatus

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pharmarun/dispatch/internal/service/models/status"
	"github.com/pharmarun/dispatch/internal/service/services/dispatchsvc"
	"github.com/pharmarun/dispatch/internal/transport/http/converters"
)

// service is an interface for the service layer.
type service interface {
	ApplyStatusTransition(
		ctx context.Context,
		orderID int64,
		newStatus status.TimelineStatus,
		details dispatchsvc.ChangeDetails,
	) error
}

type updateStatusRequest struct {
	Status         string   `json:"status"`
	DeliveryStatus *string  `json:"deliveryStatus,omitempty"`
	ReviewReason   *string  `json:"reviewReason,omitempty"`
	ReviewNotes    *string  `json:"reviewNotes,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
}

// UpdateStatus handles the status transition request.
func UpdateStatus(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)

		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)
		slog.Error("Error decoding request body for update status", "error", err)

		return
	}

	newStatus, err := status.ParseTimelineStatus(req.Status)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	userAgent, ipAddress := converters.CallerMeta(r)
	details := dispatchsvc.ChangeDetails{
		UserAgent: userAgent,
		IPAddress: ipAddress,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}

	if req.DeliveryStatus != nil {
		deliveryStatus, err := status.ParseDeliveryStatus(*req.DeliveryStatus)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)

			return
		}
		details.DeliveryStatus = &deliveryStatus
	}

	if req.ReviewReason != nil {
		reason, err := status.ParseReviewReason(*req.ReviewReason)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)

			return
		}
		details.ReviewReason = &reason
	}
	details.ReviewNotes = req.ReviewNotes

	if err := service.ApplyStatusTransition(r.Context(), orderID, newStatus, details); err != nil {
		http.Error(w, err.Error(), converters.StatusCode(err))
		slog.Error("Error applying status transition",
			"order_id", orderID,
			"new_status", newStatus,
			"error", err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
