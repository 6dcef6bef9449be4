package dispatchsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pharmarun/dispatch/internal/dal/interfaces/idriverrepo"
	"github.com/pharmarun/dispatch/internal/dal/interfaces/iidentifierrepo"
	"github.com/pharmarun/dispatch/internal/dal/interfaces/iorderrepo"
	"github.com/pharmarun/dispatch/internal/dal/interfaces/itrackingrepo"
	"github.com/pharmarun/dispatch/internal/service/models/auditlog"
	"github.com/pharmarun/dispatch/internal/service/models/driver"
	"github.com/pharmarun/dispatch/internal/service/models/event"
	"github.com/pharmarun/dispatch/internal/service/models/order"
	"github.com/pharmarun/dispatch/internal/service/models/outbox"
	"github.com/pharmarun/dispatch/internal/service/models/status"
	"github.com/pharmarun/dispatch/internal/service/models/tracking"
)

// memOrderRepo keeps orders in a map and honors the set-once milestone rule
// the same way the SQL layer does.
type memOrderRepo struct {
	orders map[int64]*order.Order
}

func newMemOrderRepo(orders ...*order.Order) *memOrderRepo {
	r := &memOrderRepo{orders: make(map[int64]*order.Order)}
	for _, o := range orders {
		r.orders[o.ID] = o
	}

	return r
}

func (r *memOrderRepo) GetByID(_ context.Context, id int64) (*order.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	cp := *o

	return &cp, nil
}

func (r *memOrderRepo) GetByIDForUpdate(ctx context.Context, id int64) (*order.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *memOrderRepo) Query(_ context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	var out []order.Order
	for _, o := range r.orders {
		if len(filter.TimelineStatuses) > 0 {
			match := false
			for _, s := range filter.TimelineStatuses {
				if o.TimelineStatus == s {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, *o)
	}

	return out, nil
}

func (r *memOrderRepo) ApplyAssignment(_ context.Context, upd order.AssignmentUpdate) error {
	o, ok := r.orders[upd.OrderID]
	if !ok {
		return order.ErrOrderNotFound
	}

	o.TimelineStatus = status.TimelinePickedUpAndAssigned
	o.AssignedDriverID = &upd.DriverID
	o.ShipmentID = &upd.ShipmentID
	o.TrackingID = &upd.TrackingID
	o.TrackingURL = &upd.TrackingURL
	setOnce(&o.Milestones.PickedUpAt, upd.Now)
	setOnce(&o.Milestones.AssignedAt, upd.Now)
	o.UpdatedAt = upd.Now

	return nil
}

func (r *memOrderRepo) ApplyTransition(_ context.Context, upd order.TransitionUpdate) error {
	o, ok := r.orders[upd.OrderID]
	if !ok {
		return order.ErrOrderNotFound
	}

	o.TimelineStatus = upd.NewStatus
	if upd.DeliveryStatus != nil {
		o.DeliveryStatus = upd.DeliveryStatus
	}
	if upd.ReviewNotes != nil {
		o.ReviewNotes = upd.ReviewNotes
	}

	switch upd.NewStatus {
	case status.TimelineConfirmed:
		setOnce(&o.Milestones.ConfirmedAt, upd.Now)
	case status.TimelineInRoute:
		setOnce(&o.Milestones.InRouteAt, upd.Now)
	case status.TimelineReviewRequested:
		setOnce(&o.Milestones.ReviewRequestedAt, upd.Now)
	case status.TimelineCompletedDelivered, status.TimelineCompletedIncomplete:
		setOnce(&o.Milestones.CompletedAt, upd.Now)
	}
	o.UpdatedAt = upd.Now

	return nil
}

func setOnce(dst **time.Time, now time.Time) {
	if *dst == nil {
		t := now
		*dst = &t
	}
}

type memDriverRepo struct {
	drivers map[int64]*driver.Driver
}

func (r *memDriverRepo) GetByID(_ context.Context, id int64) (*driver.Driver, error) {
	d, ok := r.drivers[id]
	if !ok {
		return nil, driver.ErrDriverNotFound
	}

	return d, nil
}

type memTrackingRepo struct {
	rows map[string]*tracking.PublicTracking
}

func newMemTrackingRepo() *memTrackingRepo {
	return &memTrackingRepo{rows: make(map[string]*tracking.PublicTracking)}
}

func (r *memTrackingRepo) Upsert(_ context.Context, t tracking.PublicTracking) error {
	cp := t
	r.rows[t.TrackingID] = &cp

	return nil
}

func (r *memTrackingRepo) ApplyTransition(_ context.Context, trackingID string, upd order.TransitionUpdate) error {
	row, ok := r.rows[trackingID]
	if !ok {
		return tracking.ErrTrackingNotFound
	}

	row.TimelineStatus = upd.NewStatus
	if upd.DeliveryStatus != nil {
		row.DeliveryStatus = upd.DeliveryStatus
	}
	row.StatusChangedAt = upd.Now
	row.UpdatedAt = upd.Now

	return nil
}

func (r *memTrackingRepo) GetByTrackingID(_ context.Context, trackingID string) (*tracking.PublicTracking, error) {
	row, ok := r.rows[trackingID]
	if !ok {
		return nil, tracking.ErrTrackingNotFound
	}

	return row, nil
}

// seqIdentifierRepo hands out deterministic identifiers for tests.
type seqIdentifierRepo struct {
	shipmentSeq int
	trackingSeq int
	err         error
}

func (r *seqIdentifierRepo) NextShipmentID(context.Context) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.shipmentSeq++

	return fmt.Sprintf("SHP-%06d", r.shipmentSeq), nil
}

func (r *seqIdentifierRepo) NextTrackingID(context.Context) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.trackingSeq++

	return fmt.Sprintf("TRK-%06d", r.trackingSeq), nil
}

func (r *seqIdentifierRepo) DeriveInitials(_ context.Context, fullName string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	initials := ""
	prevSpace := true
	for _, c := range fullName {
		if c == ' ' {
			prevSpace = true
			continue
		}
		if prevSpace {
			initials += string(c) + "."
		}
		prevSpace = false
	}

	return initials, nil
}

// fakeUOW is an in-memory unit of work. Rollback does not undo repo writes;
// tests that care about atomicity assert on commit not being reached.
type fakeUOW struct {
	orderRepo    *memOrderRepo
	trackingRepo *memTrackingRepo
	driverRepo   *memDriverRepo
	identRepo    *seqIdentifierRepo

	begun      bool
	committed  bool
	rolledBack bool
	commitErr  error
}

func (u *fakeUOW) Begin(context.Context) error {
	u.begun = true

	return nil
}

func (u *fakeUOW) Commit(context.Context) error {
	if u.commitErr != nil {
		return u.commitErr
	}
	u.committed = true

	return nil
}

func (u *fakeUOW) Rollback(context.Context) error {
	if !u.committed {
		u.rolledBack = true
	}

	return nil
}

func (u *fakeUOW) OrderRepository() iorderrepo.IOrderRepository          { return u.orderRepo }
func (u *fakeUOW) TrackingRepository() itrackingrepo.ITrackingRepository { return u.trackingRepo }
func (u *fakeUOW) DriverRepository() idriverrepo.IDriverRepository       { return u.driverRepo }
func (u *fakeUOW) IdentifierRepository() iidentifierrepo.IIdentifierRepository {
	return u.identRepo
}

type capturingAudit struct {
	appended []auditlog.AppendParams
}

func (a *capturingAudit) Append(_ context.Context, params auditlog.AppendParams) {
	a.appended = append(a.appended, params)
}

type capturingEvents struct {
	published []event.OrderStatusChanged
	err       error
}

func (e *capturingEvents) PublishStatusChanged(_ context.Context, ev event.OrderStatusChanged) error {
	if e.err != nil {
		return e.err
	}
	e.published = append(e.published, ev)

	return nil
}

type capturingOutbox struct {
	inserted []outbox.OutboxMessage
}

func (o *capturingOutbox) Insert(_ context.Context, msg outbox.OutboxMessage) error {
	o.inserted = append(o.inserted, msg)

	return nil
}

func (o *capturingOutbox) GetPendingMessages(context.Context, int) ([]outbox.OutboxMessage, error) {
	return nil, nil
}

func (o *capturingOutbox) Delete(context.Context, int64) error { return nil }

func (o *capturingOutbox) UpdateRetry(context.Context, int64, int, string, time.Time) error {
	return nil
}

type capturingEnricher struct {
	orderIDs []int64
}

func (e *capturingEnricher) Enqueue(orderID int64, _, _ float64, _ *string) {
	e.orderIDs = append(e.orderIDs, orderID)
}

var errBoom = errors.New("boom")
