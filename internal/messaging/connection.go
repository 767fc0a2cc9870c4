package messaging

import (
	"context"
	"fmt"
	"sync"
	"time"

	"food-ordering-system/internal/config"
	"food-ordering-system/internal/logger"

	"github.com/rabbitmq/amqp091-go"
)

// Broker topology for order events
const (
	OrdersExchange    = "orders_topic"
	AuditQueue        = "orders_audit_queue"
	AuditBindingKey   = "order.#"
	reconnectAttempts = 5
)

// Connection wraps a RabbitMQ connection and channel with reconnection logic
type Connection struct {
	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel
	logger  *logger.Logger
	url     string
}

// Dial connects to RabbitMQ and declares the order event topology
func Dial(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Connection, error) {
	c := &Connection{
		logger: log,
		url:    cfg.RabbitMQURL(),
	}
	if err := c.connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to establish initial connection: %w", err)
	}
	return c, nil
}

func (c *Connection) connect(ctx context.Context) error {
	var err error
	for i := 0; i < reconnectAttempts; i++ {
		if err = c.open(); err == nil {
			return nil
		}

		if i < reconnectAttempts-1 {
			waitTime := time.Duration(i+1) * 2 * time.Second
			c.logger.Error("rabbitmq_connection_failed",
				fmt.Sprintf("Failed to connect to RabbitMQ, retrying in %v", waitTime),
				"startup", err, nil)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(waitTime):
			}
		}
	}
	return fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", reconnectAttempts, err)
}

func (c *Connection) open() error {
	conn, err := amqp091.Dial(c.url)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}
	if err := setupTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return err
	}
	c.conn, c.channel = conn, ch
	return nil
}

// setupTopology declares the topic exchange and the audit queue bound to every order event
func setupTopology(ch *amqp091.Channel) error {
	err := ch.ExchangeDeclare(
		OrdersExchange, // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s exchange: %w", OrdersExchange, err)
	}

	_, err = ch.QueueDeclare(
		AuditQueue, // name
		true,       // durable
		false,      // delete when unused
		false,      // exclusive
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", AuditQueue, err)
	}

	if err := ch.QueueBind(AuditQueue, AuditBindingKey, OrdersExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s with routing key %s: %w", AuditQueue, AuditBindingKey, err)
	}
	return nil
}

// Channel returns the current channel, reconnecting first if the connection dropped
func (c *Connection) Channel(ctx context.Context) (*amqp091.Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil || c.conn.IsClosed() || c.channel == nil || c.channel.IsClosed() {
		c.close()
		if err := c.connect(ctx); err != nil {
			return nil, fmt.Errorf("failed to reconnect: %w", err)
		}
	}
	return c.channel, nil
}

func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.close()
}

func (c *Connection) close() error {
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		if err != nil && err != amqp091.ErrClosed {
			return err
		}
	}
	return nil
}
