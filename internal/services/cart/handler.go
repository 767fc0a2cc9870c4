package cart

import (
	"net/http"

	"food-ordering-system/internal/httpapi"
	"food-ordering-system/internal/logger"
	"food-ordering-system/internal/models"

	"github.com/go-chi/chi/v5/middleware"
)

// Handler serves the authenticated cart endpoints
type Handler struct {
	service *Service
	media   httpapi.MediaURLs
	logger  *logger.Logger
}

func NewHandler(service *Service, media httpapi.MediaURLs, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		media:   media,
		logger:  log,
	}
}

// GetCart handles GET /cart/
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	p, err := httpapi.Principal(r)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, "cart_get_failed", err)
		return
	}

	cart, err := h.service.GetCart(r.Context(), p)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, "cart_get_failed", err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, httpapi.NewCart(cart, r, h.media))
}

// AddItem handles POST /cart/add/
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	p, err := httpapi.Principal(r)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, "cart_add_failed", err)
		return
	}

	var req models.AddItemRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteError(w, r, h.logger, "cart_add_failed", err)
		return
	}

	cart, err := h.service.AddItem(r.Context(), p, req, middleware.GetReqID(r.Context()))
	if err != nil {
		httpapi.WriteError(w, r, h.logger, "cart_add_failed", err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, httpapi.CartMessage{
		Message: "Item added to cart successfully",
		Cart:    httpapi.NewCart(cart, r, h.media),
	})
}

// RemoveItem handles POST /cart/remove/
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	p, err := httpapi.Principal(r)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, "cart_remove_failed", err)
		return
	}

	var req models.RemoveItemRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteError(w, r, h.logger, "cart_remove_failed", err)
		return
	}

	cart, err := h.service.RemoveItem(r.Context(), p, req, middleware.GetReqID(r.Context()))
	if err != nil {
		httpapi.WriteError(w, r, h.logger, "cart_remove_failed", err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, httpapi.CartMessage{
		Message: "Item removed from cart",
		Cart:    httpapi.NewCart(cart, r, h.media),
	})
}
