package postgresrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/pharmarun/dispatch/internal/dal/postgres"
	"github.com/pharmarun/dispatch/internal/service/models/auditlog"
	"github.com/pharmarun/dispatch/internal/service/models/status"
)

// AuditRepository implements the audit log repository for PostgreSQL.
type AuditRepository struct {
	conn postgres.Queryer
}

// NewAuditRepository creates a new audit repository.
func NewAuditRepository(conn postgres.Queryer) *AuditRepository {
	return &AuditRepository{
		conn: conn,
	}
}

// Insert appends one audit entry.
func (r *AuditRepository) Insert(ctx context.Context, entry auditlog.Entry) error {
	var metadata []byte
	if entry.Metadata != nil {
		var err error
		metadata, err = json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal audit metadata: %w", err)
		}
	}

	var previousStatus, newStatus, deliveryStatus *string
	if entry.PreviousStatus != nil {
		s := entry.PreviousStatus.String()
		previousStatus = &s
	}
	if entry.NewStatus != nil {
		s := entry.NewStatus.String()
		newStatus = &s
	}
	if entry.DeliveryStatus != nil {
		s := entry.DeliveryStatus.String()
		deliveryStatus = &s
	}

	query, args, err := sq.Insert("audit_logs").
		Columns(
			"order_id",
			"actor_id",
			"actor_name",
			"actor_role",
			"action",
			"previous_status",
			"new_status",
			"delivery_status",
			"metadata",
			"user_agent",
			"device_type",
			"ip_address",
			"geolocation",
			"access_location",
			"session_id",
			"consent_verified",
			"created_at",
		).
		Values(
			entry.OrderID,
			entry.ActorID,
			entry.ActorName,
			entry.ActorRole,
			string(entry.Action),
			previousStatus,
			newStatus,
			deliveryStatus,
			metadata,
			entry.UserAgent,
			string(entry.DeviceType),
			entry.IPAddress,
			entry.Geolocation,
			entry.AccessLocation,
			entry.SessionID,
			entry.ConsentVerified,
			entry.CreatedAt,
		).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build audit insert query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}

	return nil
}

// PatchLatestLocation fills the location fields of the newest audit row for
// the order. Under concurrent transitions the newest row may not be the one
// that triggered the lookup; that imprecision is accepted.
func (r *AuditRepository) PatchLatestLocation(
	ctx context.Context,
	orderID int64,
	ipAddress *string,
	geolocation *string,
	accessLocation *string,
) error {
	query, args, err := sq.Update("audit_logs").
		Set("ip_address", sq.Expr("COALESCE(ip_address, ?)", ipAddress)).
		Set("geolocation", sq.Expr("COALESCE(geolocation, ?)", geolocation)).
		Set("access_location", sq.Expr("COALESCE(access_location, ?)", accessLocation)).
		Where(sq.Expr(
			"id = (SELECT id FROM audit_logs WHERE order_id = ? ORDER BY created_at DESC, id DESC LIMIT 1)",
			orderID,
		)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build audit patch query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to patch audit entry: %w", err)
	}

	return nil
}

// QueryByOrder returns the newest audit entries for an order, newest first.
func (r *AuditRepository) QueryByOrder(
	ctx context.Context,
	orderID int64,
	limit int,
) ([]auditlog.Entry, error) {
	builder := sq.Select(
		"id",
		"order_id",
		"actor_id",
		"actor_name",
		"actor_role",
		"action",
		"previous_status",
		"new_status",
		"delivery_status",
		"metadata",
		"user_agent",
		"device_type",
		"ip_address",
		"geolocation",
		"access_location",
		"session_id",
		"consent_verified",
		"created_at",
	).
		From("audit_logs").
		Where(sq.Eq{"order_id": orderID}).
		OrderBy("created_at DESC", "id DESC").
		PlaceholderFormat(sq.Dollar)

	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build audit select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	var result []auditlog.Entry
	for rows.Next() {
		var (
			entry          auditlog.Entry
			action         string
			previousStatus *string
			newStatus      *string
			deliveryStatus *string
			deviceType     string
			metadata       []byte
			createdAt      time.Time
		)

		err := rows.Scan(
			&entry.ID,
			&entry.OrderID,
			&entry.ActorID,
			&entry.ActorName,
			&entry.ActorRole,
			&action,
			&previousStatus,
			&newStatus,
			&deliveryStatus,
			&metadata,
			&entry.UserAgent,
			&deviceType,
			&entry.IPAddress,
			&entry.Geolocation,
			&entry.AccessLocation,
			&entry.SessionID,
			&entry.ConsentVerified,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}

		entry.Action = status.Action(action)
		entry.DeviceType = auditlog.DeviceType(deviceType)
		entry.CreatedAt = createdAt
		if previousStatus != nil {
			s := status.TimelineStatus(*previousStatus)
			entry.PreviousStatus = &s
		}
		if newStatus != nil {
			s := status.TimelineStatus(*newStatus)
			entry.NewStatus = &s
		}
		if deliveryStatus != nil {
			s := status.DeliveryStatus(*deliveryStatus)
			entry.DeliveryStatus = &s
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal audit metadata: %w", err)
			}
		}

		result = append(result, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
