package catalog

import (
	"net/http"
	"strconv"

	"food-ordering-system/internal/httpapi"
	"food-ordering-system/internal/logger"
	"food-ordering-system/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler serves the public catalog endpoints
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

// ListFoods handles GET /foods/
func (h *Handler) ListFoods(w http.ResponseWriter, r *http.Request) {
	foods, err := h.service.List(r.Context(), middleware.GetReqID(r.Context()))
	if err != nil {
		httpapi.WriteError(w, r, h.logger, "catalog_list_failed", err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, httpapi.NewFoods(foods, r, h.media))
}

// GetFood handles GET /foods/{id}/
func (h *Handler) GetFood(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, "catalog_get_failed", models.ErrNotFound)
		return
	}

	food, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, "catalog_get_failed", err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, httpapi.NewFood(*food, r, h.media))
}
