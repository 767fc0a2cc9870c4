// Package cart owns each user's single active cart.
package cart

import (
	"context"
	"fmt"

	"food-ordering-system/internal/logger"
	"food-ordering-system/internal/models"
	"food-ordering-system/internal/store"
)

const defaultQuantity = 1

type Service struct {
	store  store.Store
	logger *logger.Logger
}

func NewService(s store.Store, log *logger.Logger) *Service {
	return &Service{
		store:  s,
		logger: log,
	}
}

// GetCart returns the caller's cart, creating it on first access
func (s *Service) GetCart(ctx context.Context, p models.Principal) (*models.Cart, error) {
	return s.store.GetOrCreateCart(ctx, p.UserID)
}

// AddItem adds quantity units of a food item, merging into an existing line
func (s *Service) AddItem(ctx context.Context, p models.Principal, req models.AddItemRequest, requestID string) (*models.Cart, error) {
	if req.FoodItemID == nil || *req.FoodItemID <= 0 {
		return nil, models.ValidationError{Field: "food_item_id", Message: "this field is required"}
	}
	quantity := defaultQuantity
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity <= 0 {
		return nil, models.ValidationError{Field: "quantity", Message: "must be a positive integer"}
	}
	if quantity > models.MaxQuantity {
		return nil, models.ValidationError{Field: "quantity", Message: fmt.Sprintf("must be at most %d", models.MaxQuantity)}
	}

	food, err := s.store.GetFood(ctx, *req.FoodItemID)
	if err != nil {
		return nil, err
	}
	if !food.Available {
		return nil, fmt.Errorf("%w: %s", models.ErrUnavailable, food.Name)
	}

	cart, err := s.store.AddCartItem(ctx, p.UserID, food.ID, quantity)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("cart_item_added", "Item added to cart", requestID, map[string]interface{}{
		"user_id":      p.UserID,
		"food_item_id": food.ID,
		"quantity":     quantity,
	})
	return cart, nil
}

// RemoveItem deletes a whole line from the caller's own cart
func (s *Service) RemoveItem(ctx context.Context, p models.Principal, req models.RemoveItemRequest, requestID string) (*models.Cart, error) {
	if req.CartItemID == nil || *req.CartItemID <= 0 {
		return nil, models.ValidationError{Field: "cart_item_id", Message: "this field is required"}
	}

	cart, err := s.store.RemoveCartItem(ctx, p.UserID, *req.CartItemID)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("cart_item_removed", "Item removed from cart", requestID, map[string]interface{}{
		"user_id":      p.UserID,
		"cart_item_id": *req.CartItemID,
	})
	return cart, nil
}
