package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPreparing      OrderStatus = "preparing"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

// MaxPhoneLength bounds the stored phone column
const MaxPhoneLength = 15

var orderStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
}

// ParseOrderStatus accepts any known status. No transition graph is enforced.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, status := range orderStatuses {
		if string(status) == s {
			return status, nil
		}
	}
	return "", ValidationError{Field: "status", Message: fmt.Sprintf("%q is not a valid status", s)}
}

// OrderItem is a frozen copy of a cart line taken when the order was placed
type OrderItem struct {
	ID        int64           `json:"id" db:"id"`
	OrderID   int64           `json:"order_id" db:"order_id"`
	FoodName  string          `json:"food_name" db:"food_name"`
	FoodPrice decimal.Decimal `json:"food_price" db:"food_price"`
	Quantity  int             `json:"quantity" db:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal" db:"subtotal"`
}

// Order represents a placed customer order
type Order struct {
	ID              int64           `json:"id" db:"id"`
	UserID          int64           `json:"user_id" db:"user_id"`
	UserEmail       string          `json:"user_email" db:"user_email"`
	Status          OrderStatus     `json:"status" db:"status"`
	TotalAmount     decimal.Decimal `json:"total_amount" db:"total_amount"`
	DeliveryAddress string          `json:"delivery_address" db:"delivery_address"`
	Phone           string          `json:"phone" db:"phone"`
	Notes           string          `json:"notes" db:"notes"`
	Items           []OrderItem     `json:"items"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// Clone returns a deep copy so callers cannot alter stored snapshots
func (o *Order) Clone() *Order {
	c := *o
	c.Items = append([]OrderItem(nil), o.Items...)
	return &c
}

// PlaceOrderRequest is the body of POST /orders/place/
type PlaceOrderRequest struct {
	DeliveryAddress string `json:"delivery_address"`
	Phone           string `json:"phone"`
	Notes           string `json:"notes,omitempty"`
}

// Validate trims surrounding whitespace and checks the contact fields
func (req *PlaceOrderRequest) Validate() error {
	req.DeliveryAddress = strings.TrimSpace(req.DeliveryAddress)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Notes = strings.TrimSpace(req.Notes)

	if err := validateDeliveryAddress(req.DeliveryAddress); err != nil {
		return err
	}
	return validatePhone(req.Phone)
}

// UpdateOrderRequest is the body of PUT /orders/{id}/
type UpdateOrderRequest struct {
	Status          string  `json:"status"`
	DeliveryAddress *string `json:"delivery_address,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// Apply validates the request and writes it onto the order
func (req *UpdateOrderRequest) Apply(o *Order) error {
	status, err := ParseOrderStatus(req.Status)
	if err != nil {
		return err
	}

	address, phone, notes := o.DeliveryAddress, o.Phone, o.Notes
	if req.DeliveryAddress != nil {
		address = strings.TrimSpace(*req.DeliveryAddress)
		if err := validateDeliveryAddress(address); err != nil {
			return err
		}
	}
	if req.Phone != nil {
		phone = strings.TrimSpace(*req.Phone)
		if err := validatePhone(phone); err != nil {
			return err
		}
	}
	if req.Notes != nil {
		notes = strings.TrimSpace(*req.Notes)
	}

	o.Status = status
	o.DeliveryAddress, o.Phone, o.Notes = address, phone, notes
	return nil
}

// NewOrderFromCart snapshots the cart into a pending order.
// An empty cart is rejected before the contact fields are looked at.
func NewOrderFromCart(p Principal, cart *Cart, req PlaceOrderRequest) (*Order, error) {
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	order := &Order{
		UserID:          p.UserID,
		UserEmail:       p.Email,
		Status:          StatusPending,
		TotalAmount:     cart.TotalPrice(),
		DeliveryAddress: req.DeliveryAddress,
		Phone:           req.Phone,
		Notes:           req.Notes,
		Items:           make([]OrderItem, 0, len(cart.Items)),
	}
	for _, item := range cart.Items {
		order.Items = append(order.Items, OrderItem{
			FoodName:  item.FoodItem.Name,
			FoodPrice: item.FoodItem.Price,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal(),
		})
	}
	return order, nil
}

func validateDeliveryAddress(address string) error {
	if address == "" {
		return ValidationError{Field: "delivery_address", Message: "this field is required"}
	}
	return nil
}

func validatePhone(phone string) error {
	if phone == "" {
		return ValidationError{Field: "phone", Message: "this field is required"}
	}
	if utf8.RuneCountInString(phone) > MaxPhoneLength {
		return ValidationError{
			Field:   "phone",
			Message: fmt.Sprintf("must not exceed %d characters", MaxPhoneLength),
		}
	}
	return nil
}
