package iorderrepo

import (
	"context"

	"github.com/pharmarun/dispatch/internal/service/models/order"
)

// IOrderRepository is an interface for the order postgres repository.
type IOrderRepository interface {
	// GetByID returns one order or order.ErrOrderNotFound.
	GetByID(ctx context.Context, id int64) (*order.Order, error)

	// GetByIDForUpdate returns one order with its row locked for the duration
	// of the surrounding transaction.
	GetByIDForUpdate(ctx context.Context, id int64) (*order.Order, error)

	// Query retrieves orders based on filter criteria.
	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)

	// ApplyAssignment writes the driver assignment field set. Milestone
	// timestamps are set-once.
	ApplyAssignment(ctx context.Context, upd order.AssignmentUpdate) error

	// ApplyTransition writes the status transition field set. Milestone
	// timestamps are set-once.
	ApplyTransition(ctx context.Context, upd order.TransitionUpdate) error
}
