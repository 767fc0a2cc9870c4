package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"food-ordering-system/internal/logger"

	"github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 10 * time.Second

// Publisher publishes order events to the orders topic exchange
type Publisher struct {
	conn   *Connection
	logger *logger.Logger
}

func NewPublisher(conn *Connection, log *logger.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: log,
	}
}

// PublishOrderEvent sends a persistent JSON event with the given routing key
func (p *Publisher) PublishOrderEvent(ctx context.Context, routingKey string, event interface{}) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	ch, err := p.conn.Channel(ctx)
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx,
		OrdersExchange, // exchange
		routingKey,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}

	p.logger.Debug("message_published",
		fmt.Sprintf("Published %s to exchange %s", routingKey, OrdersExchange),
		"", map[string]interface{}{
			"exchange":     OrdersExchange,
			"routing_key":  routingKey,
			"message_size": len(body),
		})
	return nil
}

// NopPublisher drops events; used when the broker is disabled
type NopPublisher struct{}

func (NopPublisher) PublishOrderEvent(context.Context, string, interface{}) error { return nil }
