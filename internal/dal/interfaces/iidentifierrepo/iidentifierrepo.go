package iidentifierrepo

import "context"

// IIdentifierRepository exposes the database-side identifier functions. The
// service never fabricates shipment or tracking identifiers locally; the
// database guarantees uniqueness for the lifetime of the system.
type IIdentifierRepository interface {
	// NextShipmentID returns a fresh globally-unique shipment identifier.
	NextShipmentID(ctx context.Context) (string, error)

	// NextTrackingID returns a fresh globally-unique tracking identifier.
	NextTrackingID(ctx context.Context) (string, error)

	// DeriveInitials reduces a full client name to initials for
	// privacy-preserving public display.
	DeriveInitials(ctx context.Context, fullName string) (string, error)
}
