package dispatchsvc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"

	"github.com/pharmarun/dispatch/internal/dal/interfaces/idriverrepo"
	"github.com/pharmarun/dispatch/internal/dal/interfaces/ieventrepo"
	"github.com/pharmarun/dispatch/internal/dal/interfaces/iidentifierrepo"
	"github.com/pharmarun/dispatch/internal/dal/interfaces/iorderrepo"
	"github.com/pharmarun/dispatch/internal/dal/interfaces/ioutboxrepo"
	"github.com/pharmarun/dispatch/internal/dal/interfaces/itrackingrepo"
	"github.com/pharmarun/dispatch/internal/dal/postgres"
	"github.com/pharmarun/dispatch/internal/dal/uow"
	"github.com/pharmarun/dispatch/internal/geo"
	"github.com/pharmarun/dispatch/internal/service/models/auditlog"
	"github.com/pharmarun/dispatch/internal/service/models/event"
	"github.com/pharmarun/dispatch/internal/service/models/order"
	"github.com/pharmarun/dispatch/internal/service/models/status"
	"github.com/pharmarun/dispatch/internal/service/models/tracking"
)

// DispatchService is the status transition engine: it validates and applies
// timeline status changes, computes their side-effect writes and keeps the
// public tracking mirror in sync.
type DispatchService struct {
	pgClient   *postgres.Client
	uowFactory func() unitOfWork
	audit      auditLogger
	events     ieventrepo.IEventRepository
	outboxRepo ioutboxrepo.IOutboxRepository
	enricher   locationEnricher

	trackingOrigin string
	originLat      float64
	originLng      float64
}

func (s *DispatchService) newUOW() unitOfWork {
	if s.uowFactory != nil {
		return s.uowFactory()
	}

	return uow.NewUnitOfWork(s.pgClient)
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorderrepo.IOrderRepository
	TrackingRepository() itrackingrepo.ITrackingRepository
	DriverRepository() idriverrepo.IDriverRepository
	IdentifierRepository() iidentifierrepo.IIdentifierRepository
}

// auditLogger appends compliance records. Append failures never surface
// here: the audit service logs them and swallows them.
type auditLogger interface {
	Append(ctx context.Context, params auditlog.AppendParams)
}

// locationEnricher receives the slow geolocation path after a transition has
// committed.
type locationEnricher interface {
	Enqueue(orderID int64, latitude, longitude float64, ipAddress *string)
}

// option is a function that configures the DispatchService.
type option func(*DispatchService)

// MustNewDispatchService creates a new DispatchService.
func MustNewDispatchService(opts ...option) *DispatchService {
	s := &DispatchService{
		trackingOrigin: viper.GetString("tracking.public_origin"),
		originLat:      viper.GetFloat64("pharmacy.latitude"),
		originLng:      viper.GetFloat64("pharmacy.longitude"),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithPostgresClient sets the Postgres client for the DispatchService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *DispatchService) {
		s.pgClient = pgClient
	}
}

// WithUnitOfWorkFactory overrides how units of work are created.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *DispatchService) {
		s.uowFactory = factory
	}
}

// WithAuditLogger sets the audit logger.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithAuditLogger(audit auditLogger) option {
	return func(s *DispatchService) {
		s.audit = audit
	}
}

// WithEventRepository sets the realtime event publisher.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithEventRepository(events ieventrepo.IEventRepository) option {
	return func(s *DispatchService) {
		s.events = events
	}
}

// WithOutboxRepository sets the outbox used when event publishing fails.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOutboxRepository(outboxRepo ioutboxrepo.IOutboxRepository) option {
	return func(s *DispatchService) {
		s.outboxRepo = outboxRepo
	}
}

// WithLocationEnricher sets the deferred audit location enricher.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithLocationEnricher(enricher locationEnricher) option {
	return func(s *DispatchService) {
		s.enricher = enricher
	}
}

// WithTrackingOrigin overrides the public origin used to build tracking URLs.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithTrackingOrigin(origin string) option {
	return func(s *DispatchService) {
		s.trackingOrigin = origin
	}
}

// ChangeDetails carries the optional payload of a status change plus the
// caller metadata recorded for audit.
type ChangeDetails struct {
	DeliveryStatus *status.DeliveryStatus
	ReviewReason   *status.ReviewReason
	ReviewNotes    *string
	UserAgent      string
	IPAddress      *string
	Latitude       *float64
	Longitude      *float64
}

// AssignDriver dispatches a pending order: it acquires shipment and tracking
// identifiers, binds the driver and creates the public tracking mirror, all
// inside one transaction. The order row is locked for the duration, so two
// admins racing on the same order get one winner and one ErrOrderNotPending.
func (s *DispatchService) AssignDriver(
	ctx context.Context,
	orderID int64,
	driverID int64,
	details ChangeDetails,
) error {
	ctx, span := otel.Tracer("service").Start(ctx, "DispatchService.AssignDriver")
	defer span.End()

	now := time.Now().UTC()

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	defer func() {
		_ = work.Rollback(ctx)
	}()

	ord, err := work.OrderRepository().GetByIDForUpdate(ctx, orderID)
	if err != nil {
		return err
	}
	if ord.TimelineStatus != status.TimelinePending {
		return fmt.Errorf("%w: order %d is %s", order.ErrOrderNotPending, orderID, ord.TimelineStatus)
	}

	drv, err := work.DriverRepository().GetByID(ctx, driverID)
	if err != nil {
		return err
	}

	// Identifier acquisition happens before any write lands: a failure here
	// aborts the whole assignment.
	idents := work.IdentifierRepository()
	shipmentID, err := idents.NextShipmentID(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIdentifierGeneration, err)
	}
	trackingID, err := idents.NextTrackingID(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIdentifierGeneration, err)
	}
	initials, err := idents.DeriveInitials(ctx, ord.ClientName)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIdentifierGeneration, err)
	}

	trackingURL := fmt.Sprintf("%s/track/%s", s.trackingOrigin, trackingID)

	err = work.OrderRepository().ApplyAssignment(ctx, order.AssignmentUpdate{
		OrderID:     orderID,
		DriverID:    driverID,
		ShipmentID:  shipmentID,
		TrackingID:  trackingID,
		TrackingURL: trackingURL,
		Now:         now,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	err = work.TrackingRepository().Upsert(ctx, tracking.PublicTracking{
		TrackingID:      trackingID,
		ShipmentID:      shipmentID,
		ClientInitials:  initials,
		City:            ord.City,
		TimelineStatus:  status.TimelinePickedUpAndAssigned,
		StatusChangedAt: now,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	if err := work.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	slog.Info("Driver assigned",
		"order_id", orderID,
		"driver_id", driverID,
		"shipment_id", shipmentID,
		"tracking_id", trackingID)

	previous := status.TimelinePending
	newStatus := status.TimelinePickedUpAndAssigned
	s.appendAudit(ctx, auditlog.AppendParams{
		OrderID:        orderID,
		Action:         status.ActionOrderAssigned,
		PreviousStatus: &previous,
		NewStatus:      &newStatus,
		Metadata: map[string]any{
			"driver_id":   driverID,
			"driver_name": drv.DisplayName,
			"shipment_id": shipmentID,
		},
		UserAgent: details.UserAgent,
		IPAddress: details.IPAddress,
	})

	s.publishStatusChanged(ctx, event.OrderStatusChanged{
		MessageID:      uuid.NewString(),
		OrderID:        orderID,
		TrackingID:     &trackingID,
		PreviousStatus: previous,
		NewStatus:      newStatus,
		OccurredAt:     now,
	})

	s.enqueueEnrichment(orderID, details)

	return nil
}

// ApplyStatusTransition validates and applies one timeline status change,
// mirroring it onto the public tracking row within the same transaction.
func (s *DispatchService) ApplyStatusTransition(
	ctx context.Context,
	orderID int64,
	newStatus status.TimelineStatus,
	details ChangeDetails,
) error {
	ctx, span := otel.Tracer("service").Start(ctx, "DispatchService.ApplyStatusTransition")
	defer span.End()

	if err := validateDetails(newStatus, details); err != nil {
		return err
	}

	now := time.Now().UTC()

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	defer func() {
		_ = work.Rollback(ctx)
	}()

	ord, err := work.OrderRepository().GetByIDForUpdate(ctx, orderID)
	if err != nil {
		return err
	}

	if !status.CanTransition(ord.TimelineStatus, newStatus) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, ord.TimelineStatus, newStatus)
	}

	upd := order.TransitionUpdate{
		OrderID:        orderID,
		NewStatus:      newStatus,
		DeliveryStatus: details.DeliveryStatus,
		ReviewReason:   details.ReviewReason,
		ReviewNotes:    details.ReviewNotes,
		Now:            now,
	}

	if err := work.OrderRepository().ApplyTransition(ctx, upd); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	if ord.TrackingID != nil {
		if err := work.TrackingRepository().ApplyTransition(ctx, *ord.TrackingID, upd); err != nil {
			return fmt.Errorf("%w: %w", ErrPersistence, err)
		}
	}

	if err := work.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	slog.Info("Status transition applied",
		"order_id", orderID,
		"previous_status", ord.TimelineStatus,
		"new_status", newStatus)

	previous := ord.TimelineStatus
	s.appendAudit(ctx, auditlog.AppendParams{
		OrderID:        orderID,
		Action:         status.ActionFor(newStatus),
		PreviousStatus: &previous,
		NewStatus:      &newStatus,
		DeliveryStatus: details.DeliveryStatus,
		Metadata:       reviewMetadata(details),
		UserAgent:      details.UserAgent,
		IPAddress:      details.IPAddress,
	})

	s.publishStatusChanged(ctx, event.OrderStatusChanged{
		MessageID:      uuid.NewString(),
		OrderID:        orderID,
		TrackingID:     ord.TrackingID,
		PreviousStatus: previous,
		NewStatus:      newStatus,
		DeliveryStatus: details.DeliveryStatus,
		OccurredAt:     now,
	})

	s.enqueueEnrichment(orderID, details)

	return nil
}

// validateDetails rejects transitions whose required payload is missing or
// mismatched before any read or write happens.
func validateDetails(newStatus status.TimelineStatus, details ChangeDetails) error {
	if newStatus.IsTerminal() {
		if details.DeliveryStatus == nil {
			return ErrMissingDeliveryOutcome
		}
		if !details.DeliveryStatus.MatchesTerminal(newStatus) {
			return fmt.Errorf("%w: %s for %s", ErrDeliveryOutcomeMismatch, *details.DeliveryStatus, newStatus)
		}
	}

	if newStatus == status.TimelineReviewRequested {
		if details.ReviewReason == nil {
			return ErrMissingReviewReason
		}
		if *details.ReviewReason == status.ReviewReasonOther &&
			(details.ReviewNotes == nil || *details.ReviewNotes == "") {
			return ErrMissingReviewNotes
		}
	}

	return nil
}

func reviewMetadata(details ChangeDetails) map[string]any {
	if details.ReviewReason == nil {
		return nil
	}

	metadata := map[string]any{
		"review_reason": string(*details.ReviewReason),
	}
	if details.ReviewNotes != nil {
		metadata["review_notes"] = *details.ReviewNotes
	}

	return metadata
}

// GetOrders retrieves orders based on filter criteria, annotating each with
// its geo zone for driver-side grouping.
func (s *DispatchService) GetOrders(
	ctx context.Context,
	filter *order.QueryOrdersModel,
) ([]order.Order, error) {
	work := s.newUOW()

	orders, err := work.OrderRepository().Query(ctx, filter)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		s.annotateZone(&orders[i])
	}

	return orders, nil
}

// GetOrder retrieves one order. Viewing an order exposes PHI, so the view is
// recorded in the audit trail.
func (s *DispatchService) GetOrder(ctx context.Context, id int64, details ChangeDetails) (*order.Order, error) {
	work := s.newUOW()

	ord, err := work.OrderRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.annotateZone(ord)

	s.appendAudit(ctx, auditlog.AppendParams{
		OrderID:   ord.ID,
		Action:    status.ActionPHIAccessed,
		UserAgent: details.UserAgent,
		IPAddress: details.IPAddress,
	})

	return ord, nil
}

func (s *DispatchService) annotateZone(ord *order.Order) {
	if ord.Latitude == nil || ord.Longitude == nil {
		return
	}

	ord.GeoZone = string(geo.ZoneFor(s.originLat, s.originLng, *ord.Latitude, *ord.Longitude))
}

func (s *DispatchService) appendAudit(ctx context.Context, params auditlog.AppendParams) {
	if s.audit == nil {
		return
	}

	s.audit.Append(ctx, params)
}

func (s *DispatchService) enqueueEnrichment(orderID int64, details ChangeDetails) {
	if s.enricher == nil || details.Latitude == nil || details.Longitude == nil {
		return
	}

	s.enricher.Enqueue(orderID, *details.Latitude, *details.Longitude, details.IPAddress)
}
