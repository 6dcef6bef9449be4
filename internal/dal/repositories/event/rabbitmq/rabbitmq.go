package rabbitmqrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"

	"github.com/pharmarun/dispatch/internal/dal/rabbitmq"
	"github.com/pharmarun/dispatch/internal/service/models/event"
)

// StatusQueueName is the realtime change-feed queue. UI sessions and the
// audit consumer subscribe to it.
const StatusQueueName = "dispatch.order.status"

// EventRabbitMQRepository publishes status-change events to RabbitMQ.
type EventRabbitMQRepository struct {
	client *rabbitmq.Client
	queue  amqp.Queue
}

func NewEventRabbitMQRepository(client *rabbitmq.Client) *EventRabbitMQRepository {
	queue, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:       StatusQueueName,
		Durable:    true,
		Exclusive:  false,
		AutoDelete: false,
	})
	if err != nil {
		panic(err)
	}

	return &EventRabbitMQRepository{
		client: client,
		queue:  queue,
	}
}

// PublishStatusChanged publishes one status-change event.
func (r *EventRabbitMQRepository) PublishStatusChanged(
	ctx context.Context,
	ev event.OrderStatusChanged,
) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal status event: %w", err)
	}

	err = r.client.Channel().Publish(
		"",
		r.queue.Name,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			MessageId:   ev.MessageID,
			Body:        payload,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish status event: %w", err)
	}

	return nil
}
