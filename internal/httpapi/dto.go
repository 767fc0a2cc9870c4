package httpapi

import (
	"net/http"
	"strings"
	"time"

	"food-ordering-system/internal/models"
)

// Food is the wire shape of a catalog entry. Money fields render as
// two-place decimal strings such as "37.50".
type Food struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       string  `json:"price"`
	Image       *string `json:"image"`
	Category    string  `json:"category"`
	Rating      float64 `json:"rating"`
	Available   bool    `json:"available"`
}

type CartItem struct {
	ID       int64     `json:"id"`
	FoodItem Food      `json:"food_item"`
	Quantity int       `json:"quantity"`
	Subtotal string    `json:"subtotal"`
	AddedAt  time.Time `json:"added_at"`
}

type Cart struct {
	ID         int64      `json:"id"`
	Items      []CartItem `json:"items"`
	TotalPrice string     `json:"total_price"`
	TotalItems int        `json:"total_items"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type OrderItem struct {
	ID        int64  `json:"id"`
	FoodName  string `json:"food_name"`
	FoodPrice string `json:"food_price"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
}

type Order struct {
	ID              int64       `json:"id"`
	UserEmail       string      `json:"user_email"`
	Status          string      `json:"status"`
	TotalAmount     string      `json:"total_amount"`
	DeliveryAddress string      `json:"delivery_address"`
	Phone           string      `json:"phone"`
	Notes           string      `json:"notes"`
	Items           []OrderItem `json:"items"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// CartMessage is the body of successful cart mutations
type CartMessage struct {
	Message string `json:"message"`
	Cart    Cart   `json:"cart"`
}

// OrderMessage is the body of a successful placement
type OrderMessage struct {
	Message string `json:"message"`
	Order   Order  `json:"order"`
}

// MediaURLs turns stored image paths into absolute URLs
type MediaURLs struct {
	BaseURL    string
	PathPrefix string
}

// Resolve returns nil for an empty path. Without a configured base URL the
// request's own scheme and host are used.
func (m MediaURLs) Resolve(r *http.Request, path string) *string {
	if path == "" {
		return nil
	}

	base := strings.TrimRight(m.BaseURL, "/")
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}
		base = scheme + "://" + r.Host
	}

	prefix := "/" + strings.Trim(m.PathPrefix, "/") + "/"
	if prefix == "//" {
		prefix = "/"
	}
	url := base + prefix + strings.TrimLeft(path, "/")
	return &url
}

func NewFood(f models.FoodItem, r *http.Request, media MediaURLs) Food {
	return Food{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		Price:       f.Price.StringFixed(2),
		Image:       media.Resolve(r, f.ImagePath),
		Category:    string(f.Category),
		Rating:      f.Rating,
		Available:   f.Available,
	}
}

func NewFoods(foods []models.FoodItem, r *http.Request, media MediaURLs) []Food {
	out := make([]Food, 0, len(foods))
	for _, f := range foods {
		out = append(out, NewFood(f, r, media))
	}
	return out
}

func NewCart(c *models.Cart, r *http.Request, media MediaURLs) Cart {
	out := Cart{
		ID:         c.ID,
		Items:      make([]CartItem, 0, len(c.Items)),
		TotalPrice: c.TotalPrice().StringFixed(2),
		TotalItems: c.TotalItems(),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
	for _, item := range c.Items {
		out.Items = append(out.Items, CartItem{
			ID:       item.ID,
			FoodItem: NewFood(item.FoodItem, r, media),
			Quantity: item.Quantity,
			Subtotal: item.Subtotal().StringFixed(2),
			AddedAt:  item.AddedAt,
		})
	}
	return out
}

func NewOrder(o *models.Order) Order {
	out := Order{
		ID:              o.ID,
		UserEmail:       o.UserEmail,
		Status:          string(o.Status),
		TotalAmount:     o.TotalAmount.StringFixed(2),
		DeliveryAddress: o.DeliveryAddress,
		Phone:           o.Phone,
		Notes:           o.Notes,
		Items:           make([]OrderItem, 0, len(o.Items)),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	for _, item := range o.Items {
		out.Items = append(out.Items, OrderItem{
			ID:        item.ID,
			FoodName:  item.FoodName,
			FoodPrice: item.FoodPrice.StringFixed(2),
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal.StringFixed(2),
		})
	}
	return out
}

func NewOrders(orders []models.Order) []Order {
	out := make([]Order, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrder(&orders[i]))
	}
	return out
}
