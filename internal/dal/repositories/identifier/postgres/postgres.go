package postgresrepo

import (
	"context"
	"fmt"

	"github.com/pharmarun/dispatch/internal/dal/postgres"
)

// IdentifierRepository calls the database-side identifier functions. Shipment
// and tracking identifiers are sequence-backed and unique for the lifetime of
// the system; the service never fabricates them locally.
type IdentifierRepository struct {
	conn postgres.Queryer
}

// NewIdentifierRepository creates a new identifier repository.
func NewIdentifierRepository(conn postgres.Queryer) *IdentifierRepository {
	return &IdentifierRepository{
		conn: conn,
	}
}

// NextShipmentID returns a fresh shipment identifier.
func (r *IdentifierRepository) NextShipmentID(ctx context.Context) (string, error) {
	var id string
	if err := r.conn.QueryRow(ctx, "SELECT next_shipment_id()").Scan(&id); err != nil {
		return "", fmt.Errorf("failed to generate shipment id: %w", err)
	}

	return id, nil
}

// NextTrackingID returns a fresh tracking identifier.
func (r *IdentifierRepository) NextTrackingID(ctx context.Context) (string, error) {
	var id string
	if err := r.conn.QueryRow(ctx, "SELECT next_tracking_id()").Scan(&id); err != nil {
		return "", fmt.Errorf("failed to generate tracking id: %w", err)
	}

	return id, nil
}

// DeriveInitials reduces a full client name to initials.
func (r *IdentifierRepository) DeriveInitials(ctx context.Context, fullName string) (string, error) {
	var initials string
	if err := r.conn.QueryRow(ctx, "SELECT derive_initials($1)", fullName).Scan(&initials); err != nil {
		return "", fmt.Errorf("failed to derive initials: %w", err)
	}

	return initials, nil
}
