package iauditrepo

import (
	"context"

	"github.com/pharmarun/dispatch/internal/service/models/auditlog"
)

// IAuditRepository is an interface for the audit log repository.
type IAuditRepository interface {
	// Insert appends one audit entry.
	Insert(ctx context.Context, entry auditlog.Entry) error

	// PatchLatestLocation fills the location fields of the newest audit row
	// for the order. Rows are otherwise never updated.
	PatchLatestLocation(
		ctx context.Context,
		orderID int64,
		ipAddress *string,
		geolocation *string,
		accessLocation *string,
	) error

	// QueryByOrder returns the newest entries for an order, newest first.
	QueryByOrder(ctx context.Context, orderID int64, limit int) ([]auditlog.Entry, error)
}
