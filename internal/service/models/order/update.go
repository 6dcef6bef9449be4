package order

import (
	"errors"
	"time"

	"github.com/pharmarun/dispatch/internal/service/models/status"
)

var (
	// ErrOrderNotFound is returned when no order exists for the given id.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderNotPending is returned when assignment is requested for an order
	// that already left PENDING.
	ErrOrderNotPending = errors.New("order is not pending")
)

// AssignmentUpdate carries the full set of field writes produced by assigning
// a driver to a pending order.
type AssignmentUpdate struct {
	OrderID     int64
	DriverID    int64
	ShipmentID  string
	TrackingID  string
	TrackingURL string
	Now         time.Time
}

// TransitionUpdate carries the field writes produced by one status
// transition. The same update is applied to the order row and, when the order
// has a tracking id, to its public tracking mirror.
type TransitionUpdate struct {
	OrderID        int64
	NewStatus      status.TimelineStatus
	DeliveryStatus *status.DeliveryStatus
	ReviewReason   *status.ReviewReason
	ReviewNotes    *string
	Now            time.Time
}
