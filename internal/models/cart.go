package models

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// MaxQuantity bounds a single cart line so it fits the INTEGER column
const MaxQuantity = math.MaxInt32

// Cart is a user's single active shopping cart. Totals are derived on read.
type Cart struct {
	ID        int64      `json:"id" db:"id"`
	UserID    int64      `json:"user_id" db:"user_id"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// CartItem references a live food item; its subtotal follows the current catalog price
type CartItem struct {
	ID       int64     `json:"id" db:"id"`
	CartID   int64     `json:"cart_id" db:"cart_id"`
	FoodItem FoodItem  `json:"food_item"`
	Quantity int       `json:"quantity" db:"quantity"`
	AddedAt  time.Time `json:"added_at" db:"added_at"`
}

func (i CartItem) Subtotal() decimal.Decimal {
	return i.FoodItem.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// TotalPrice sums line subtotals at current catalog prices
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// TotalItems sums line quantities
func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// AddItemRequest is the body of POST /cart/add/
type AddItemRequest struct {
	FoodItemID *int64 `json:"food_item_id"`
	Quantity   *int   `json:"quantity,omitempty"`
}

// RemoveItemRequest is the body of POST /cart/remove/
type RemoveItemRequest struct {
	CartItemID *int64 `json:"cart_item_id"`
}
