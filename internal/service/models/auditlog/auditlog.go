package auditlog

import (
	"time"

	"github.com/pharmarun/dispatch/internal/service/models/status"
)

// DeviceType is a coarse device class derived from the User-Agent string.
type DeviceType string

const (
	DeviceMobile  DeviceType = "mobile"
	DeviceTablet  DeviceType = "tablet"
	DeviceDesktop DeviceType = "desktop"
)

// Entry is one append-only audit record of an action taken against an order.
// Rows are never updated after insert, except for the late location patch that
// fills in ip_address/geolocation/access_location once they resolve.
type Entry struct {
	ID              int64                  `json:"id"`
	OrderID         int64                  `json:"orderId"`
	ActorID         *int64                 `json:"actorId,omitempty"`
	ActorName       string                 `json:"actorName"`
	ActorRole       string                 `json:"actorRole"`
	Action          status.Action          `json:"action"`
	PreviousStatus  *status.TimelineStatus `json:"previousStatus,omitempty"`
	NewStatus       *status.TimelineStatus `json:"newStatus,omitempty"`
	DeliveryStatus  *status.DeliveryStatus `json:"deliveryStatus,omitempty"`
	Metadata        map[string]any         `json:"metadata,omitempty"`
	UserAgent       string                 `json:"userAgent"`
	DeviceType      DeviceType             `json:"deviceType"`
	IPAddress       *string                `json:"ipAddress,omitempty"`
	Geolocation     *string                `json:"geolocation,omitempty"`
	AccessLocation  *string                `json:"accessLocation,omitempty"`
	SessionID       string                 `json:"sessionId"`
	ConsentVerified bool                   `json:"consentVerified"`
	CreatedAt       time.Time              `json:"createdAt"`
}
