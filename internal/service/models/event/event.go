package event

import (
	"time"

	"github.com/pharmarun/dispatch/internal/service/models/status"
)

// OrderStatusChanged is the realtime change-feed message published to RabbitMQ
// after every committed status transition. Connected UI sessions refetch the
// affected order when they see one.
type OrderStatusChanged struct {
	MessageID      string                 `json:"messageId"`
	OrderID        int64                  `json:"orderId"`
	TrackingID     *string                `json:"trackingId,omitempty"`
	PreviousStatus status.TimelineStatus  `json:"previousStatus"`
	NewStatus      status.TimelineStatus  `json:"newStatus"`
	DeliveryStatus *status.DeliveryStatus `json:"deliveryStatus,omitempty"`
	OccurredAt     time.Time              `json:"occurredAt"`
}
