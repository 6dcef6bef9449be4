package ieventrepo

import (
	"context"

	"github.com/pharmarun/dispatch/internal/service/models/event"
)

// IEventRepository publishes committed status changes to the realtime feed.
type IEventRepository interface {
	PublishStatusChanged(ctx context.Context, ev event.OrderStatusChanged) error
}
