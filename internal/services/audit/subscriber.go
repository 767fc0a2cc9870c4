// Package audit records every order event published on the broker.
package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"food-ordering-system/internal/logger"
	"food-ordering-system/internal/messaging"
	"food-ordering-system/internal/models"
)

// Consumer is the subscription the subscriber reads from
type Consumer interface {
	StartConsuming(ctx context.Context, handler messaging.MessageHandler) error
	Close() error
}

// Subscriber writes order events to the structured log
type Subscriber struct {
	consumer Consumer
	logger   *logger.Logger
}

func NewSubscriber(consumer Consumer, log *logger.Logger) *Subscriber {
	return &Subscriber{
		consumer: consumer,
		logger:   log,
	}
}

// Start consumes until ctx is cancelled
func (s *Subscriber) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()
	s.logger.Info("service_started", "Order audit subscriber started", requestID, nil)

	err := s.consumer.StartConsuming(ctx, s.HandleEvent)

	s.logger.Info("graceful_shutdown", "Stopping order audit subscriber", requestID, nil)
	if closeErr := s.consumer.Close(); closeErr != nil {
		s.logger.Error("consumer_close_failed", "Failed to close consumer", requestID, closeErr, nil)
	}

	if ctx.Err() != nil {
		return nil
	}
	return err
}

// HandleEvent decodes one event by routing key and logs it
func (s *Subscriber) HandleEvent(ctx context.Context, routingKey string, body []byte) error {
	requestID := logger.GenerateRequestID()

	switch routingKey {
	case models.RoutingKeyOrderPlaced:
		var msg models.OrderPlacedMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("failed to parse %s event: %w", routingKey, err)
		}
		s.logger.Info("order_placed_event",
			fmt.Sprintf("Order %d placed by user %d", msg.OrderID, msg.UserID),
			requestID, map[string]interface{}{
				"event_id":     msg.EventID,
				"order_id":     msg.OrderID,
				"user_id":      msg.UserID,
				"total_amount": msg.TotalAmount.StringFixed(2),
				"item_count":   msg.ItemCount,
				"timestamp":    msg.Timestamp,
			})

	case models.RoutingKeyOrderStatusChanged:
		var msg models.StatusUpdateMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("failed to parse %s event: %w", routingKey, err)
		}
		s.logger.Info("order_status_event",
			fmt.Sprintf("Order %d status changed from '%s' to '%s' by %s", msg.OrderID, msg.OldStatus, msg.NewStatus, msg.ChangedBy),
			requestID, map[string]interface{}{
				"event_id":   msg.EventID,
				"order_id":   msg.OrderID,
				"old_status": msg.OldStatus,
				"new_status": msg.NewStatus,
				"changed_by": msg.ChangedBy,
				"timestamp":  msg.Timestamp,
			})

	default:
		s.logger.Warn("unknown_event", fmt.Sprintf("Ignoring event with routing key %s", routingKey), requestID, map[string]interface{}{
			"size": len(body),
		})
	}
	return nil
}
