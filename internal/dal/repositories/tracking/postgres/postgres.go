package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/pharmarun/dispatch/internal/dal/postgres"
	"github.com/pharmarun/dispatch/internal/service/models/order"
	"github.com/pharmarun/dispatch/internal/service/models/status"
	"github.com/pharmarun/dispatch/internal/service/models/tracking"
)

// TrackingDal represents the public tracking data access layer model.
type TrackingDal struct {
	TrackingId      string    `db:"tracking_id"`
	ShipmentId      string    `db:"shipment_id"`
	ClientInitials  string    `db:"client_initials"`
	City            string    `db:"city"`
	TimelineStatus  string    `db:"timeline_status"`
	DeliveryStatus  *string   `db:"delivery_status"`
	StatusChangedAt time.Time `db:"status_changed_at"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// ToModel converts TrackingDal to the service layer PublicTracking model.
func (t *TrackingDal) ToModel() (*tracking.PublicTracking, error) {
	timelineStatus, err := status.ParseTimelineStatus(t.TimelineStatus)
	if err != nil {
		return nil, err
	}

	model := &tracking.PublicTracking{
		TrackingID:      t.TrackingId,
		ShipmentID:      t.ShipmentId,
		ClientInitials:  t.ClientInitials,
		City:            t.City,
		TimelineStatus:  timelineStatus,
		StatusChangedAt: t.StatusChangedAt,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}

	if t.DeliveryStatus != nil {
		deliveryStatus, err := status.ParseDeliveryStatus(*t.DeliveryStatus)
		if err != nil {
			return nil, err
		}
		model.DeliveryStatus = &deliveryStatus
	}

	return model, nil
}

type PostgresTrackingRepository struct {
	conn postgres.Queryer
}

func NewPostgresTrackingRepository(conn postgres.Queryer) *PostgresTrackingRepository {
	return &PostgresTrackingRepository{
		conn: conn,
	}
}

// Upsert writes the tracking row, keyed by tracking id. The tracking id is
// the natural idempotency key: re-running the same assignment overwrites the
// row instead of duplicating it.
func (r *PostgresTrackingRepository) Upsert(ctx context.Context, t tracking.PublicTracking) error {
	var deliveryStatus *string
	if t.DeliveryStatus != nil {
		s := t.DeliveryStatus.String()
		deliveryStatus = &s
	}

	query, args, err := sq.Insert("public_tracking").
		Columns(
			"tracking_id",
			"shipment_id",
			"client_initials",
			"city",
			"timeline_status",
			"delivery_status",
			"status_changed_at",
			"created_at",
			"updated_at",
		).
		Values(
			t.TrackingID,
			t.ShipmentID,
			t.ClientInitials,
			t.City,
			t.TimelineStatus.String(),
			deliveryStatus,
			t.StatusChangedAt,
			t.CreatedAt,
			t.UpdatedAt,
		).
		Suffix(`ON CONFLICT (tracking_id) DO UPDATE SET
			shipment_id = EXCLUDED.shipment_id,
			client_initials = EXCLUDED.client_initials,
			city = EXCLUDED.city,
			timeline_status = EXCLUDED.timeline_status,
			delivery_status = EXCLUDED.delivery_status,
			status_changed_at = EXCLUDED.status_changed_at,
			updated_at = EXCLUDED.updated_at`).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert tracking record: %w", err)
	}

	return nil
}

// ApplyTransition mirrors a status transition onto the tracking row.
func (r *PostgresTrackingRepository) ApplyTransition(
	ctx context.Context,
	trackingID string,
	upd order.TransitionUpdate,
) error {
	builder := sq.Update("public_tracking").
		Set("timeline_status", upd.NewStatus.String()).
		Set("status_changed_at", upd.Now).
		Set("updated_at", upd.Now).
		Where(sq.Eq{"tracking_id": trackingID}).
		PlaceholderFormat(sq.Dollar)

	if upd.DeliveryStatus != nil {
		builder = builder.Set("delivery_status", upd.DeliveryStatus.String())
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to apply tracking transition: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tracking.ErrTrackingNotFound
	}

	return nil
}

// GetByTrackingID retrieves one tracking row.
func (r *PostgresTrackingRepository) GetByTrackingID(
	ctx context.Context,
	trackingID string,
) (*tracking.PublicTracking, error) {
	query, args, err := sq.Select(
		"tracking_id",
		"shipment_id",
		"client_initials",
		"city",
		"timeline_status",
		"delivery_status",
		"status_changed_at",
		"created_at",
		"updated_at",
	).
		From("public_tracking").
		Where(sq.Eq{"tracking_id": trackingID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var dal TrackingDal
	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&dal.TrackingId,
		&dal.ShipmentId,
		&dal.ClientInitials,
		&dal.City,
		&dal.TimelineStatus,
		&dal.DeliveryStatus,
		&dal.StatusChangedAt,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tracking.ErrTrackingNotFound
		}

		return nil, fmt.Errorf("failed to get tracking record: %w", err)
	}

	model, err := dal.ToModel()
	if err != nil {
		return nil, fmt.Errorf("failed to convert tracking dal to model: %w", err)
	}

	return model, nil
}
