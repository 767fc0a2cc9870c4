// Package order converts carts into order snapshots and manages their lifecycle.
package order

import (
	"context"
	"fmt"

	"food-ordering-system/internal/logger"
	"food-ordering-system/internal/models"
	"food-ordering-system/internal/store"
)

// EventPublisher sends order events to the broker
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, routingKey string, event interface{}) error
}

type Service struct {
	store     store.Store
	publisher EventPublisher
	logger    *logger.Logger
}

func NewService(s store.Store, publisher EventPublisher, log *logger.Logger) *Service {
	return &Service{
		store:     s,
		publisher: publisher,
		logger:    log,
	}
}

// PlaceOrder snapshots the caller's cart into a pending order and empties the cart
func (s *Service) PlaceOrder(ctx context.Context, p models.Principal, req models.PlaceOrderRequest, requestID string) (*models.Order, error) {
	order, err := s.store.PlaceOrder(ctx, p.UserID, func(cart *models.Cart) (*models.Order, error) {
		return models.NewOrderFromCart(p, cart, req)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order_placed", fmt.Sprintf("Order %d placed", order.ID), requestID, map[string]interface{}{
		"order_id":     order.ID,
		"user_id":      p.UserID,
		"total_amount": order.TotalAmount.StringFixed(2),
		"items":        len(order.Items),
	})

	s.publish(ctx, models.RoutingKeyOrderPlaced, models.CreateOrderPlacedMessage(order), requestID)
	return order, nil
}

// ListForUser returns the caller's own orders, newest first
func (s *Service) ListForUser(ctx context.Context, p models.Principal) ([]models.Order, error) {
	return s.store.ListOrdersByUser(ctx, p.UserID)
}

// ListAll returns every order for admins and an empty list for anyone else
func (s *Service) ListAll(ctx context.Context, p models.Principal) ([]models.Order, error) {
	if !p.IsAdmin() {
		return []models.Order{}, nil
	}
	return s.store.ListOrders(ctx)
}

// Get returns an order visible to the caller. Orders of other users are
// reported as missing to non-admins.
func (s *Service) Get(ctx context.Context, p models.Principal, orderID int64) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() && !p.Owns(order.UserID) {
		return nil, fmt.Errorf("%w: order %d", models.ErrNotFound, orderID)
	}
	return order, nil
}

// UpdateStatus lets an admin set any status and optionally correct contact fields
func (s *Service) UpdateStatus(ctx context.Context, p models.Principal, orderID int64, req models.UpdateOrderRequest, requestID string) (*models.Order, error) {
	if !p.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can update orders", models.ErrForbidden)
	}

	var oldStatus models.OrderStatus
	order, err := s.store.UpdateOrder(ctx, orderID, func(o *models.Order) error {
		oldStatus = o.Status
		return req.Apply(o)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order_status_updated", fmt.Sprintf("Order %d is now %s", order.ID, order.Status), requestID, map[string]interface{}{
		"order_id":   order.ID,
		"old_status": oldStatus,
		"new_status": order.Status,
		"changed_by": p.Email,
	})

	s.publish(ctx, models.RoutingKeyOrderStatusChanged,
		models.CreateStatusUpdateMessage(order.ID, oldStatus, order.Status, p.Email), requestID)
	return order, nil
}

// publish runs after commit, so a broker failure is logged and never undoes the request
func (s *Service) publish(ctx context.Context, routingKey string, event interface{}, requestID string) {
	if err := s.publisher.PublishOrderEvent(ctx, routingKey, event); err != nil {
		s.logger.Error("order_event_publish_failed", "Failed to publish order event", requestID, err, map[string]interface{}{
			"routing_key": routingKey,
		})
	}
}
