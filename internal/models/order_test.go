package models

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func testCart(items ...CartItem) *Cart {
	return &Cart{ID: 1, UserID: 10, Items: items}
}

func food(id int64, name, price string) FoodItem {
	return FoodItem{ID: id, Name: name, Price: decimal.RequireFromString(price), Available: true}
}

func TestCartTotals(t *testing.T) {
	cart := testCart(
		CartItem{ID: 1, FoodItem: food(1, "Margherita", "12.50"), Quantity: 3},
		CartItem{ID: 2, FoodItem: food(2, "Gulab Jamun", "4.25"), Quantity: 2},
	)

	if got := cart.TotalItems(); got != 5 {
		t.Errorf("TotalItems() = %d, want 5", got)
	}
	if got := cart.TotalPrice(); !got.Equal(decimal.RequireFromString("46.00")) {
		t.Errorf("TotalPrice() = %s, want 46.00", got)
	}
	if (&Cart{}).TotalPrice().Sign() != 0 {
		t.Error("empty cart total should be zero")
	}
}

func TestNewOrderFromCart_Snapshot(t *testing.T) {
	cart := testCart(CartItem{ID: 1, FoodItem: food(1, "Margherita", "12.50"), Quantity: 3})
	p := Principal{UserID: 10, Email: "u@example.com", Role: RoleCustomer}

	order, err := NewOrderFromCart(p, cart, PlaceOrderRequest{DeliveryAddress: " 123 Main St ", Phone: "555-1234"})
	if err != nil {
		t.Fatalf("NewOrderFromCart returned error: %v", err)
	}
	if order.Status != StatusPending {
		t.Errorf("status = %s, want pending", order.Status)
	}
	if !order.TotalAmount.Equal(decimal.RequireFromString("37.50")) {
		t.Errorf("total = %s, want 37.50", order.TotalAmount)
	}
	if order.DeliveryAddress != "123 Main St" {
		t.Errorf("address not trimmed: %q", order.DeliveryAddress)
	}
	if len(order.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(order.Items))
	}
	item := order.Items[0]
	if item.FoodName != "Margherita" || item.Quantity != 3 ||
		!item.FoodPrice.Equal(decimal.RequireFromString("12.50")) ||
		!item.Subtotal.Equal(decimal.RequireFromString("37.50")) {
		t.Errorf("unexpected snapshot %+v", item)
	}

	// the snapshot is a value copy; later catalog edits do not reach it
	cart.Items[0].FoodItem.Price = decimal.RequireFromString("99.00")
	if !order.Items[0].FoodPrice.Equal(decimal.RequireFromString("12.50")) {
		t.Error("order item price followed the cart")
	}
}

func TestNewOrderFromCart_Errors(t *testing.T) {
	full := testCart(CartItem{ID: 1, FoodItem: food(1, "Burger", "8.00"), Quantity: 1})
	p := Principal{UserID: 10}

	tests := []struct {
		name string
		cart *Cart
		req  PlaceOrderRequest
		want error
	}{
		{name: "empty cart with valid contact", cart: testCart(), req: PlaceOrderRequest{DeliveryAddress: "1 Road", Phone: "123"}, want: ErrEmptyCart},
		{name: "empty cart with invalid contact", cart: testCart(), req: PlaceOrderRequest{}, want: ErrEmptyCart},
		{name: "nil cart", cart: nil, req: PlaceOrderRequest{DeliveryAddress: "1 Road", Phone: "123"}, want: ErrEmptyCart},
		{name: "missing address", cart: full, req: PlaceOrderRequest{Phone: "123"}, want: ErrInvalidInput},
		{name: "blank address", cart: full, req: PlaceOrderRequest{DeliveryAddress: "   ", Phone: "123"}, want: ErrInvalidInput},
		{name: "missing phone", cart: full, req: PlaceOrderRequest{DeliveryAddress: "1 Road"}, want: ErrInvalidInput},
		{name: "phone too long", cart: full, req: PlaceOrderRequest{DeliveryAddress: "1 Road", Phone: strings.Repeat("1", 16)}, want: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOrderFromCart(p, tt.cart, tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUpdateOrderRequest_Apply(t *testing.T) {
	phone := "+4477001122"
	tooLong := strings.Repeat("9", 16)

	tests := []struct {
		name    string
		req     UpdateOrderRequest
		wantErr bool
		check   func(t *testing.T, o *Order)
	}{
		{
			name: "status only",
			req:  UpdateOrderRequest{Status: "out_for_delivery"},
			check: func(t *testing.T, o *Order) {
				if o.Status != StatusOutForDelivery || o.Phone != "555" {
					t.Errorf("unexpected order %+v", o)
				}
			},
		},
		{
			name: "backwards transition is allowed",
			req:  UpdateOrderRequest{Status: "pending"},
		},
		{
			name: "status with phone",
			req:  UpdateOrderRequest{Status: "confirmed", Phone: &phone},
			check: func(t *testing.T, o *Order) {
				if o.Phone != phone {
					t.Errorf("phone = %q", o.Phone)
				}
			},
		},
		{name: "unknown status", req: UpdateOrderRequest{Status: "lost"}, wantErr: true},
		{name: "missing status", req: UpdateOrderRequest{}, wantErr: true},
		{name: "phone too long", req: UpdateOrderRequest{Status: "confirmed", Phone: &tooLong}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Order{Status: StatusDelivered, DeliveryAddress: "1 Road", Phone: "555"}
			err := tt.req.Apply(o)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Apply() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
				if o.Status != StatusDelivered {
					t.Error("order modified on failed update")
				}
				return
			}
			if tt.check != nil {
				tt.check(t, o)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	if r, err := ParseRole("admin"); err != nil || r != RoleAdmin {
		t.Errorf("ParseRole(admin) = %v, %v", r, err)
	}
	if _, err := ParseRole("Admin"); err == nil {
		t.Error("expected error for non-canonical role")
	}
	if !(Principal{Role: RoleAdmin}).IsAdmin() || (Principal{Role: RoleCustomer}).IsAdmin() {
		t.Error("IsAdmin mismatch")
	}
}

func TestOrderClone(t *testing.T) {
	o := &Order{ID: 1, Items: []OrderItem{{FoodName: "Pizza"}}}
	c := o.Clone()
	c.Items[0].FoodName = "Changed"
	if o.Items[0].FoodName != "Pizza" {
		t.Error("Clone shares item storage")
	}
}
