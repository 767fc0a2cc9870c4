package order

import (
	"net/http"
	"strconv"

	"food-ordering-system/internal/httpapi"
	"food-ordering-system/internal/logger"
	"food-ordering-system/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler handles HTTP requests for orders
type Handler struct {
	service *Service
	logger  *logger.Logger
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// PlaceOrder handles POST /orders/place/
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	p, err := httpapi.Principal(r)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, "order_place_failed", err)
		return
	}

	var req models.PlaceOrderRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteError(w, r, h.logger, "order_place_failed", err)
		return
	}

	order, err := h.service.PlaceOrder(r.Context(), p, req, middleware.GetReqID(r.Context()))
	if err != nil {
		httpapi.WriteError(w, r, h.logger, "order_place_failed", err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, httpapi.OrderMessage{
		Message: "Order placed successfully",
		Order:   httpapi.NewOrder(order),
	})
}

// ListUserOrders handles GET /orders/user/
func (h *Handler) ListUserOrders(w http.ResponseWriter, r *http.Request) {
	p, err := httpapi.Principal(r)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, "order_list_failed", err)
		return
	}

	orders, err := h.service.ListForUser(r.Context(), p)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, "order_list_failed", err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, httpapi.NewOrders(orders))
}

// ListAllOrders handles GET /orders/admin/
func (h *Handler) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	p, err := httpapi.Principal(r)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, "order_list_failed", err)
		return
	}

	orders, err := h.service.ListAll(r.Context(), p)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, "order_list_failed", err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, httpapi.NewOrders(orders))
}

// GetOrder handles GET /orders/{id}/
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	p, err := httpapi.Principal(r)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, "order_get_failed", err)
		return
	}

	id, ok := orderID(r)
	if !ok {
		httpapi.WriteError(w, r, h.logger, "order_get_failed", models.ErrNotFound)
		return
	}

	order, err := h.service.Get(r.Context(), p, id)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, "order_get_failed", err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, httpapi.NewOrder(order))
}

// UpdateOrder handles PUT /orders/{id}/
func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	p, err := httpapi.Principal(r)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, "order_update_failed", err)
		return
	}
	if !p.IsAdmin() {
		httpapi.WriteError(w, r, h.logger, "order_update_failed", models.ErrForbidden)
		return
	}

	id, ok := orderID(r)
	if !ok {
		httpapi.WriteError(w, r, h.logger, "order_update_failed", models.ErrNotFound)
		return
	}

	var req models.UpdateOrderRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteError(w, r, h.logger, "order_update_failed", err)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), p, id, req, middleware.GetReqID(r.Context()))
	if err != nil {
		httpapi.WriteError(w, r, h.logger, "order_update_failed", err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, httpapi.NewOrder(order))
}

func orderID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}
