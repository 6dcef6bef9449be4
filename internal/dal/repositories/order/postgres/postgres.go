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
)

var orderColumns = []string{
	"id",
	"client_name",
	"client_phone",
	"address_line",
	"city",
	"postal_code",
	"latitude",
	"longitude",
	"medication_count",
	"prescription_ref",
	"pharmacy_id",
	"timeline_status",
	"delivery_status",
	"assigned_driver_id",
	"shipment_id",
	"tracking_id",
	"tracking_url",
	"review_reason",
	"review_notes",
	"picked_up_at",
	"assigned_at",
	"confirmed_at",
	"in_route_at",
	"review_requested_at",
	"completed_at",
	"created_at",
	"updated_at",
}

// OrderDal represents the order data access layer model.
type OrderDal struct {
	Id                int64      `db:"id"`
	ClientName        string     `db:"client_name"`
	ClientPhone       string     `db:"client_phone"`
	AddressLine       string     `db:"address_line"`
	City              string     `db:"city"`
	PostalCode        string     `db:"postal_code"`
	Latitude          *float64   `db:"latitude"`
	Longitude         *float64   `db:"longitude"`
	MedicationCount   int        `db:"medication_count"`
	PrescriptionRef   string     `db:"prescription_ref"`
	PharmacyId        int64      `db:"pharmacy_id"`
	TimelineStatus    string     `db:"timeline_status"`
	DeliveryStatus    *string    `db:"delivery_status"`
	AssignedDriverId  *int64     `db:"assigned_driver_id"`
	ShipmentId        *string    `db:"shipment_id"`
	TrackingId        *string    `db:"tracking_id"`
	TrackingUrl       *string    `db:"tracking_url"`
	ReviewReason      *string    `db:"review_reason"`
	ReviewNotes       *string    `db:"review_notes"`
	PickedUpAt        *time.Time `db:"picked_up_at"`
	AssignedAt        *time.Time `db:"assigned_at"`
	ConfirmedAt       *time.Time `db:"confirmed_at"`
	InRouteAt         *time.Time `db:"in_route_at"`
	ReviewRequestedAt *time.Time `db:"review_requested_at"`
	CompletedAt       *time.Time `db:"completed_at"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
}

// ToModel converts OrderDal to the service layer Order model.
func (o *OrderDal) ToModel() (*order.Order, error) {
	timelineStatus, err := status.ParseTimelineStatus(o.TimelineStatus)
	if err != nil {
		return nil, err
	}

	model := &order.Order{
		ID:               o.Id,
		ClientName:       o.ClientName,
		ClientPhone:      o.ClientPhone,
		AddressLine:      o.AddressLine,
		City:             o.City,
		PostalCode:       o.PostalCode,
		Latitude:         o.Latitude,
		Longitude:        o.Longitude,
		MedicationCount:  o.MedicationCount,
		PrescriptionRef:  o.PrescriptionRef,
		PharmacyID:       o.PharmacyId,
		TimelineStatus:   timelineStatus,
		AssignedDriverID: o.AssignedDriverId,
		ShipmentID:       o.ShipmentId,
		TrackingID:       o.TrackingId,
		TrackingURL:      o.TrackingUrl,
		ReviewNotes:      o.ReviewNotes,
		Milestones: order.Milestones{
			PickedUpAt:        o.PickedUpAt,
			AssignedAt:        o.AssignedAt,
			ConfirmedAt:       o.ConfirmedAt,
			InRouteAt:         o.InRouteAt,
			ReviewRequestedAt: o.ReviewRequestedAt,
			CompletedAt:       o.CompletedAt,
		},
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}

	if o.DeliveryStatus != nil {
		deliveryStatus, err := status.ParseDeliveryStatus(*o.DeliveryStatus)
		if err != nil {
			return nil, err
		}
		model.DeliveryStatus = &deliveryStatus
	}

	if o.ReviewReason != nil {
		reason := status.ReviewReason(*o.ReviewReason)
		model.ReviewReason = &reason
	}

	return model, nil
}

func (o *OrderDal) scanTargets() []any {
	return []any{
		&o.Id,
		&o.ClientName,
		&o.ClientPhone,
		&o.AddressLine,
		&o.City,
		&o.PostalCode,
		&o.Latitude,
		&o.Longitude,
		&o.MedicationCount,
		&o.PrescriptionRef,
		&o.PharmacyId,
		&o.TimelineStatus,
		&o.DeliveryStatus,
		&o.AssignedDriverId,
		&o.ShipmentId,
		&o.TrackingId,
		&o.TrackingUrl,
		&o.ReviewReason,
		&o.ReviewNotes,
		&o.PickedUpAt,
		&o.AssignedAt,
		&o.ConfirmedAt,
		&o.InRouteAt,
		&o.ReviewRequestedAt,
		&o.CompletedAt,
		&o.CreatedAt,
		&o.UpdatedAt,
	}
}

type PostgresOrderRepository struct {
	conn postgres.Queryer
}

func NewPostgresOrderRepository(conn postgres.Queryer) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
	}
}

// GetByID retrieves one order by id.
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate retrieves one order by id with its row locked until the
// surrounding transaction ends.
func (r *PostgresOrderRepository) GetByIDForUpdate(ctx context.Context, id int64) (*order.Order, error) {
	return r.getByID(ctx, id, true)
}

func (r *PostgresOrderRepository) getByID(ctx context.Context, id int64, forUpdate bool) (*order.Order, error) {
	builder := sq.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar)
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var dal OrderDal
	if err := r.conn.QueryRow(ctx, query, args...).Scan(dal.scanTargets()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrOrderNotFound
		}

		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	model, err := dal.ToModel()
	if err != nil {
		return nil, fmt.Errorf("failed to convert order dal to model: %w", err)
	}

	return model, nil
}

// Query retrieves orders based on filter criteria.
func (r *PostgresOrderRepository) Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	builder := sq.Select(orderColumns...).
		From("orders").
		OrderBy("created_at DESC", "id DESC").
		PlaceholderFormat(sq.Dollar)

	if len(filter.Ids) > 0 {
		builder = builder.Where(sq.Eq{"id": filter.Ids})
	}
	if len(filter.AssignedDriverIds) > 0 {
		builder = builder.Where(sq.Eq{"assigned_driver_id": filter.AssignedDriverIds})
	}
	if len(filter.TimelineStatuses) > 0 {
		statuses := make([]string, len(filter.TimelineStatuses))
		for i, s := range filter.TimelineStatuses {
			statuses[i] = s.String()
		}
		builder = builder.Where(sq.Eq{"timeline_status": statuses})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		var dal OrderDal
		if err := rows.Scan(dal.scanTargets()...); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order dal to model: %w", err)
		}
		result = append(result, *model)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// ApplyAssignment writes the driver assignment field set. The picked_up_at
// and assigned_at milestones are set only if they are still null.
func (r *PostgresOrderRepository) ApplyAssignment(ctx context.Context, upd order.AssignmentUpdate) error {
	query, args, err := sq.Update("orders").
		Set("assigned_driver_id", upd.DriverID).
		Set("shipment_id", upd.ShipmentID).
		Set("tracking_id", upd.TrackingID).
		Set("tracking_url", upd.TrackingURL).
		Set("timeline_status", status.TimelinePickedUpAndAssigned.String()).
		Set("picked_up_at", sq.Expr("COALESCE(picked_up_at, ?)", upd.Now)).
		Set("assigned_at", sq.Expr("COALESCE(assigned_at, ?)", upd.Now)).
		Set("updated_at", upd.Now).
		Where(sq.Eq{"id": upd.OrderID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to apply assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrOrderNotFound
	}

	return nil
}

// ApplyTransition writes the status transition field set. The milestone
// timestamp for the new status is set only if it is still null, which makes
// re-applying the same transition a no-op on history.
func (r *PostgresOrderRepository) ApplyTransition(ctx context.Context, upd order.TransitionUpdate) error {
	builder := sq.Update("orders").
		Set("timeline_status", upd.NewStatus.String()).
		Set("updated_at", upd.Now).
		Where(sq.Eq{"id": upd.OrderID}).
		PlaceholderFormat(sq.Dollar)

	if col, ok := status.MilestoneColumn(upd.NewStatus); ok {
		builder = builder.Set(col, sq.Expr("COALESCE("+col+", ?)", upd.Now))
	}
	if upd.DeliveryStatus != nil {
		builder = builder.Set("delivery_status", upd.DeliveryStatus.String())
	}
	if upd.ReviewReason != nil {
		builder = builder.Set("review_reason", string(*upd.ReviewReason))
	}
	if upd.ReviewNotes != nil {
		builder = builder.Set("review_notes", *upd.ReviewNotes)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to apply transition: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrOrderNotFound
	}

	return nil
}
