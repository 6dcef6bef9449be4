package auditlog

import "github.com/pharmarun/dispatch/internal/service/models/status"

// AppendParams is the caller-supplied portion of one audit entry. Actor
// identity, device class and the correlation id are resolved by the audit
// service at append time.
type AppendParams struct {
	OrderID        int64
	Action         status.Action
	PreviousStatus *status.TimelineStatus
	NewStatus      *status.TimelineStatus
	DeliveryStatus *status.DeliveryStatus
	Metadata       map[string]any
	UserAgent      string
	IPAddress      *string
	Geolocation    *string
}
