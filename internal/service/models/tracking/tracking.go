package tracking

import (
	"errors"
	"time"

	"github.com/pharmarun/dispatch/internal/service/models/status"
)

// ErrTrackingNotFound is returned when no tracking row exists for the id.
var ErrTrackingNotFound = errors.New("tracking record not found")

// PublicTracking is the client-safe mirror of an order's delivery progress,
// addressed by tracking id. It carries the client's initials instead of the
// full name and exposes no internal identifiers.
type PublicTracking struct {
	TrackingID      string                 `json:"trackingId"`
	ShipmentID      string                 `json:"shipmentId"`
	ClientInitials  string                 `json:"clientInitials"`
	City            string                 `json:"city"`
	TimelineStatus  status.TimelineStatus  `json:"timelineStatus"`
	DeliveryStatus  *status.DeliveryStatus `json:"deliveryStatus,omitempty"`
	StatusChangedAt time.Time              `json:"statusChangedAt"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}
