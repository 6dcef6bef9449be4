package dispatchsvc

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	rabbitmqrepo "github.com/pharmarun/dispatch/internal/dal/repositories/event/rabbitmq"
	"github.com/pharmarun/dispatch/internal/service/models/event"
	"github.com/pharmarun/dispatch/internal/service/models/outbox"
)

const eventMaxRetries = 5

// publishStatusChanged pushes the committed transition onto the realtime
// feed. A failed publish lands in the outbox so the worker can retry it; the
// transition itself has already committed and is never rolled back here.
func (s *DispatchService) publishStatusChanged(ctx context.Context, ev event.OrderStatusChanged) {
	if s.events == nil {
		return
	}

	err := s.events.PublishStatusChanged(ctx, ev)
	if err == nil {
		return
	}

	slog.Error("Failed to publish status event", "order_id", ev.OrderID, "error", err)

	if s.outboxRepo == nil {
		return
	}

	payload, marshalErr := json.Marshal(ev)
	if marshalErr != nil {
		slog.Error("Failed to marshal status event for outbox", "order_id", ev.OrderID, "error", marshalErr)

		return
	}

	now := time.Now().UTC()
	outboxErr := s.outboxRepo.Insert(ctx, outbox.OutboxMessage{
		QueueName:   rabbitmqrepo.StatusQueueName,
		RoutingKey:  rabbitmqrepo.StatusQueueName,
		Payload:     payload,
		ContentType: "application/json",
		MaxRetries:  eventMaxRetries,
		LastError:   err.Error(),
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	})
	if outboxErr != nil {
		slog.Error("Failed to store status event in outbox", "order_id", ev.OrderID, "error", outboxErr)
	}
}
