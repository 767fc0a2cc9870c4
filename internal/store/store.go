// Package store persists the catalog, carts and orders.
//
// Every cart mutation of one user is serialized on that user's cart row, and
// PlaceOrder snapshots and clears the cart inside the same transaction, so
// concurrent adds never lose increments and an order never sees a half-edited cart.
package store

import (
	"context"
	"fmt"

	"food-ordering-system/internal/models"
)

// OrderBuilder turns the locked cart into the order to persist
type OrderBuilder func(cart *models.Cart) (*models.Order, error)

// OrderMutator edits a locked order in place
type OrderMutator func(order *models.Order) error

type Store interface {
	Ping(ctx context.Context) error

	ListFoods(ctx context.Context) ([]models.FoodItem, error)
	GetFood(ctx context.Context, id int64) (*models.FoodItem, error)

	// GetOrCreateCart returns the user's cart, creating an empty one on first access.
	GetOrCreateCart(ctx context.Context, userID int64) (*models.Cart, error)
	// AddCartItem increments the (cart, food item) line, creating cart and line as needed.
	// A line that would exceed models.MaxQuantity is rejected with models.ErrInvalidInput.
	AddCartItem(ctx context.Context, userID, foodItemID int64, quantity int) (*models.Cart, error)
	// RemoveCartItem deletes a line of the user's own cart or returns models.ErrNotFound.
	RemoveCartItem(ctx context.Context, userID, cartItemID int64) (*models.Cart, error)

	// PlaceOrder locks the user's cart, persists the order produced by build and
	// clears the cart, all or nothing. A user without a cart gets an empty one passed to build.
	PlaceOrder(ctx context.Context, userID int64, build OrderBuilder) (*models.Order, error)
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListOrdersByUser(ctx context.Context, userID int64) ([]models.Order, error)
	// UpdateOrder locks the order, applies mutate and saves status and contact fields.
	UpdateOrder(ctx context.Context, id int64, mutate OrderMutator) (*models.Order, error)
}

func quantityError() error {
	return models.ValidationError{
		Field:   "quantity",
		Message: fmt.Sprintf("cart line would exceed %d units", models.MaxQuantity),
	}
}
