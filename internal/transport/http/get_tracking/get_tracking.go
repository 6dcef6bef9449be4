package gettracking

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pharmarun/dispatch/internal/service/models/tracking"
	"github.com/pharmarun/dispatch/internal/transport/http/converters"
)

type service interface {
	GetByTrackingID(ctx context.Context, trackingID string) (*tracking.PublicTracking, error)
}

// GetTracking serves the public tracking view. It is unauthenticated and the
// response carries no client identity beyond initials and city.
func GetTracking(w http.ResponseWriter, r *http.Request, service service) {
	trackingID := chi.URLParam(r, "trackingID")
	if trackingID == "" {
		http.Error(w, "Invalid tracking id", http.StatusBadRequest)

		return
	}

	result, err := service.GetByTrackingID(r.Context(), trackingID)
	if err != nil {
		http.Error(w, err.Error(), converters.StatusCode(err))
		slog.Error("Error getting tracking", "tracking_id", trackingID, "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error sending response", "error", err)
	}
}
