package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"food-ordering-system/internal/auth"
	"food-ordering-system/internal/cache"
	"food-ordering-system/internal/httpapi"
	"food-ordering-system/internal/logger"
	"food-ordering-system/internal/messaging"
	"food-ordering-system/internal/models"
	"food-ordering-system/internal/services/cart"
	"food-ordering-system/internal/services/catalog"
	"food-ordering-system/internal/services/order"
	"food-ordering-system/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	aliceToken = "alice-token"
	bobToken   = "bob-token"
	adminToken = "admin-token"
)

type api struct {
	t       *testing.T
	handler http.Handler
	store   *store.Memory
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

func newAPI(t *testing.T) *api {
	mem := store.NewMemory(
		models.FoodItem{ID: 1, Name: "Margherita", Price: decimal.RequireFromString("12.50"), ImagePath: "food_images/margherita.jpg", Category: models.CategoryPizza, Rating: 4.5, Available: true},
		models.FoodItem{ID: 2, Name: "Veggie Burger", Price: decimal.RequireFromString("8.00"), Category: models.CategoryBurger, Available: false},
	)
	return &api{t: t, handler: buildRouter(mem, mem), store: mem}
}

func buildRouter(s store.Store, pinger Pinger) http.Handler {
	log := logger.NewWithWriter("test", io.Discard, slog.LevelError)
	media := httpapi.MediaURLs{PathPrefix: "/media/"}
	authn := auth.NewStatic(map[string]models.Principal{
		aliceToken: {UserID: 1, Email: "alice@example.com", Role: models.RoleCustomer},
		bobToken:   {UserID: 2, Email: "bob@example.com", Role: models.RoleCustomer},
		adminToken: {UserID: 3, Email: "admin@example.com", Role: models.RoleAdmin},
	})

	return NewRouter(Deps{
		ServiceName:   "food-api",
		MaxConcurrent: 10,
		Store:         pinger,
		Auth:          authn,
		Catalog:       catalog.NewHandler(catalog.NewService(s, cache.Nop{}, 0, log), media, log),
		Cart:          cart.NewHandler(cart.NewService(s, log), media, log),
		Orders:        order.NewHandler(order.NewService(s, messaging.NopPublisher{}, log), log),
		Logger:        log,
	})
}

func (a *api) do(method, path, token, body string) *httptest.ResponseRecorder {
	a.t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, "http://api.local"+path, r)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestCartToOrderFlow(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodPost, "/cart/add/", aliceToken, `{"food_item_id": 1, "quantity": 2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	added := decode[httpapi.CartMessage](t, rec)
	assert.Equal(t, "Item added to cart successfully", added.Message)
	assert.Equal(t, 2, added.Cart.TotalItems)
	assert.Equal(t, "25.00", added.Cart.TotalPrice)

	rec = a.do(http.MethodPost, "/cart/add/", aliceToken, `{"food_item_id": 1, "quantity": 1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	added = decode[httpapi.CartMessage](t, rec)
	require.Len(t, added.Cart.Items, 1)
	assert.Equal(t, 3, added.Cart.Items[0].Quantity)
	assert.Equal(t, "37.50", added.Cart.TotalPrice)
	require.NotNil(t, added.Cart.Items[0].FoodItem.Image)
	assert.Equal(t, "http://api.local/media/food_images/margherita.jpg", *added.Cart.Items[0].FoodItem.Image)

	rec = a.do(http.MethodPost, "/orders/place/", aliceToken, `{"delivery_address": "123 Main St", "phone": "555-1234"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	placed := decode[httpapi.OrderMessage](t, rec)
	assert.Equal(t, "Order placed successfully", placed.Message)
	assert.Equal(t, "37.50", placed.Order.TotalAmount)
	assert.Equal(t, "pending", placed.Order.Status)
	assert.Equal(t, "alice@example.com", placed.Order.UserEmail)
	require.Len(t, placed.Order.Items, 1)
	assert.Equal(t, httpapi.OrderItem{
		ID: placed.Order.Items[0].ID, FoodName: "Margherita", FoodPrice: "12.50", Quantity: 3, Subtotal: "37.50",
	}, placed.Order.Items[0])

	rec = a.do(http.MethodGet, "/cart/", aliceToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	c := decode[httpapi.Cart](t, rec)
	assert.Empty(t, c.Items)
	assert.Equal(t, "0.00", c.TotalPrice)

	rec = a.do(http.MethodGet, "/orders/user/", aliceToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]httpapi.Order](t, rec), 1)

	orderPath := fmt.Sprintf("/orders/%d/", placed.Order.ID)

	rec = a.do(http.MethodGet, orderPath, bobToken, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(http.MethodGet, "/orders/admin/", bobToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())

	rec = a.do(http.MethodGet, "/orders/admin/", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]httpapi.Order](t, rec), 1)

	rec = a.do(http.MethodPut, orderPath, aliceToken, `{"status": "delivered"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(http.MethodPut, orderPath, adminToken, `{"status": "out_for_delivery"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "out_for_delivery", decode[httpapi.Order](t, rec).Status)

	rec = a.do(http.MethodGet, orderPath, aliceToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "out_for_delivery", decode[httpapi.Order](t, rec).Status)
}

func TestErrorResponses(t *testing.T) {
	a := newAPI(t)
	a.do(http.MethodPost, "/cart/add/", adminToken, `{"food_item_id": 1}`)
	placed := a.do(http.MethodPost, "/orders/place/", adminToken, `{"delivery_address": "HQ", "phone": "100"}`)
	require.Equal(t, http.StatusCreated, placed.Code, placed.Body.String())
	orderPath := fmt.Sprintf("/orders/%d/", decode[httpapi.OrderMessage](t, placed).Order.ID)
	a.do(http.MethodPost, "/cart/add/", aliceToken, `{"food_item_id": 1}`)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		want   int
	}{
		{"no token", http.MethodGet, "/cart/", "", "", http.StatusUnauthorized},
		{"bad token", http.MethodGet, "/cart/", "forged", "", http.StatusUnauthorized},
		{"missing food item id", http.MethodPost, "/cart/add/", aliceToken, `{"quantity": 1}`, http.StatusBadRequest},
		{"non-positive quantity", http.MethodPost, "/cart/add/", aliceToken, `{"food_item_id": 1, "quantity": 0}`, http.StatusBadRequest},
		{"fractional quantity", http.MethodPost, "/cart/add/", aliceToken, `{"food_item_id": 1, "quantity": 1.5}`, http.StatusBadRequest},
		{"malformed json", http.MethodPost, "/cart/add/", aliceToken, `{"food_item_id":`, http.StatusBadRequest},
		{"unknown food item", http.MethodPost, "/cart/add/", aliceToken, `{"food_item_id": 404}`, http.StatusNotFound},
		{"unavailable food item", http.MethodPost, "/cart/add/", aliceToken, `{"food_item_id": 2}`, http.StatusBadRequest},
		{"missing cart item id", http.MethodPost, "/cart/remove/", aliceToken, `{}`, http.StatusBadRequest},
		{"unknown cart item", http.MethodPost, "/cart/remove/", aliceToken, `{"cart_item_id": 999}`, http.StatusNotFound},
		{"zero cart item id", http.MethodPost, "/cart/remove/", aliceToken, `{"cart_item_id": 0}`, http.StatusBadRequest},
		{"zero food item id", http.MethodPost, "/cart/add/", aliceToken, `{"food_item_id": 0}`, http.StatusBadRequest},
		{"quantity above line bound", http.MethodPost, "/cart/add/", aliceToken, `{"food_item_id": 1, "quantity": 2147483648}`, http.StatusBadRequest},
		{"empty cart", http.MethodPost, "/orders/place/", bobToken, `{"delivery_address": "x", "phone": "1"}`, http.StatusBadRequest},
		{"missing phone", http.MethodPost, "/orders/place/", aliceToken, `{"delivery_address": "x"}`, http.StatusBadRequest},
		{"unknown order", http.MethodGet, "/orders/999/", adminToken, "", http.StatusNotFound},
		{"non-numeric order id", http.MethodGet, "/orders/abc/", adminToken, "", http.StatusNotFound},
		{"unknown status", http.MethodPut, orderPath, adminToken, `{"status": "lost"}`, http.StatusBadRequest},
		{"order of another user", http.MethodGet, orderPath, bobToken, "", http.StatusNotFound},
		{"phone too long on update", http.MethodPut, orderPath, adminToken, `{"status": "confirmed", "phone": "1234567890123456"}`, http.StatusBadRequest},
		{"customer update of unknown order", http.MethodPut, "/orders/999/", bobToken, `{"status": "delivered"}`, http.StatusForbidden},
		{"unknown route", http.MethodGet, "/nope/", aliceToken, "", http.StatusNotFound},
		{"wrong method", http.MethodDelete, "/cart/", aliceToken, "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())

			body := decode[map[string]interface{}](t, rec)
			assert.NotEmpty(t, body["error"])
			assert.Contains(t, body, "timestamp")
			assert.NotEmpty(t, body["request_id"])
		})
	}
}

func TestCrossUserRemoveLeavesCartIntact(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodPost, "/cart/add/", aliceToken, `{"food_item_id": 1, "quantity": 2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	lineID := decode[httpapi.CartMessage](t, rec).Cart.Items[0].ID

	rec = a.do(http.MethodPost, "/cart/remove/", bobToken, fmt.Sprintf(`{"cart_item_id": %d}`, lineID))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(http.MethodGet, "/cart/", aliceToken, "")
	require.Len(t, decode[httpapi.Cart](t, rec).Items, 1)

	rec = a.do(http.MethodPost, "/cart/remove/", aliceToken, fmt.Sprintf(`{"cart_item_id": %d}`, lineID))
	require.Equal(t, http.StatusOK, rec.Code)
	removed := decode[httpapi.CartMessage](t, rec)
	assert.Equal(t, "Item removed from cart", removed.Message)
	assert.Empty(t, removed.Cart.Items)
}

func TestCatalogEndpoints(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodGet, "/foods/", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	foods := decode[[]httpapi.Food](t, rec)
	require.Len(t, foods, 2)
	assert.Equal(t, "12.50", foods[0].Price)
	assert.Equal(t, "pizza", foods[0].Category)
	assert.Nil(t, foods[1].Image)

	rec = a.do(http.MethodGet, "/foods/2/", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[httpapi.Food](t, rec).Available)

	rec = a.do(http.MethodGet, "/foods/77/", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	a := newAPI(t)
	rec := a.do(http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "food-api", body["service"])

	down := &api{t: t, handler: buildRouter(a.store, failingPinger{})}
	rec = down.do(http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unhealthy", decode[map[string]interface{}](t, rec)["status"])
}
