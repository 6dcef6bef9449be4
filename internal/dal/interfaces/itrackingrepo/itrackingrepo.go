package itrackingrepo

import (
	"context"

	"github.com/pharmarun/dispatch/internal/service/models/order"
	"github.com/pharmarun/dispatch/internal/service/models/tracking"
)

// ITrackingRepository is an interface for the public tracking repository.
type ITrackingRepository interface {
	// Upsert writes the tracking row keyed by tracking id. Re-running with the
	// same tracking id overwrites instead of duplicating.
	Upsert(ctx context.Context, t tracking.PublicTracking) error

	// ApplyTransition mirrors a status transition onto the tracking row.
	ApplyTransition(ctx context.Context, trackingID string, upd order.TransitionUpdate) error

	// GetByTrackingID returns one tracking row or tracking.ErrTrackingNotFound.
	GetByTrackingID(ctx context.Context, trackingID string) (*tracking.PublicTracking, error)
}
