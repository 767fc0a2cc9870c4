// Package catalog serves the read side of the food menu.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"food-ordering-system/internal/cache"
	"food-ordering-system/internal/logger"
	"food-ordering-system/internal/models"
	"food-ordering-system/internal/store"
)

// Service lists food items with a read-through cache on the full list
type Service struct {
	store  store.Store
	cache  cache.Cache
	ttl    time.Duration
	logger *logger.Logger
}

func NewService(s store.Store, c cache.Cache, ttl time.Duration, log *logger.Logger) *Service {
	return &Service{
		store:  s,
		cache:  c,
		ttl:    ttl,
		logger: log,
	}
}

// List returns every food item ordered by id. Cache failures fall back to the store.
func (s *Service) List(ctx context.Context, requestID string) ([]models.FoodItem, error) {
	key := s.cache.GenerateKey("foods", "all")

	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("catalog_cache_read_failed", err.Error(), requestID, nil)
	} else if cached != "" {
		var foods []models.FoodItem
		if err := json.Unmarshal([]byte(cached), &foods); err == nil {
			return foods, nil
		}
		s.logger.Warn("catalog_cache_corrupt", "Discarding unreadable cache entry", requestID, nil)
	}

	foods, err := s.store.ListFoods(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list food items: %w", err)
	}

	if body, err := json.Marshal(foods); err == nil {
		if err := s.cache.Set(ctx, key, body, s.ttl); err != nil {
			s.logger.Warn("catalog_cache_write_failed", err.Error(), requestID, nil)
		}
	}
	return foods, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*models.FoodItem, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: food item %d", models.ErrNotFound, id)
	}
	return s.store.GetFood(ctx, id)
}
