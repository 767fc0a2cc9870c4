package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"food-ordering-system/internal/cache"
	"food-ordering-system/internal/logger"
	"food-ordering-system/internal/models"
	"food-ordering-system/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapCache is an in-process Cache for observing read-through behaviour
type mapCache struct {
	values map[string]string
	sets   int
	getErr error
}

func newMapCache() *mapCache { return &mapCache{values: map[string]string{}} }

func (c *mapCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.sets++
	switch v := value.(type) {
	case []byte:
		c.values[key] = string(v)
	case string:
		c.values[key] = v
	}
	return nil
}

func (c *mapCache) Get(_ context.Context, key string) (string, error) {
	if c.getErr != nil {
		return "", c.getErr
	}
	return c.values[key], nil
}

func (c *mapCache) GenerateKey(operation, key string) string { return operation + ":" + key }

var _ cache.Cache = (*mapCache)(nil)

func testService(c cache.Cache) (*Service, *store.Memory) {
	mem := store.NewMemory(
		models.FoodItem{ID: 1, Name: "Margherita", Price: decimal.RequireFromString("12.50"), Category: models.CategoryPizza, Available: true},
		models.FoodItem{ID: 2, Name: "Kung Pao", Price: decimal.RequireFromString("10.00"), Category: models.CategoryChinese},
	)
	log := logger.NewWithWriter("test", io.Discard, slog.LevelError)
	return NewService(mem, c, time.Minute, log), mem
}

func TestList_ReadThroughCache(t *testing.T) {
	c := newMapCache()
	svc, mem := testService(c)
	ctx := context.Background()

	foods, err := svc.List(ctx, "req")
	require.NoError(t, err)
	require.Len(t, foods, 2)
	assert.Equal(t, 1, c.sets)

	// a catalog change is not visible until the entry expires
	mem.PutFood(models.FoodItem{ID: 3, Name: "Brownie", Price: decimal.RequireFromString("4.00"), Category: models.CategoryDessert})
	foods, err = svc.List(ctx, "req")
	require.NoError(t, err)
	assert.Len(t, foods, 2)
	assert.True(t, foods[0].Price.Equal(decimal.RequireFromString("12.50")))
	assert.Equal(t, 1, c.sets)
}

func TestList_CacheFailureFallsBack(t *testing.T) {
	c := newMapCache()
	c.getErr = errors.New("redis down")
	svc, _ := testService(c)

	foods, err := svc.List(context.Background(), "req")
	require.NoError(t, err)
	assert.Len(t, foods, 2)
}

func TestList_NopCache(t *testing.T) {
	svc, mem := testService(cache.Nop{})
	ctx := context.Background()

	_, err := svc.List(ctx, "req")
	require.NoError(t, err)
	mem.PutFood(models.FoodItem{Name: "Samosa", Price: decimal.RequireFromString("3.00"), Category: models.CategoryIndian})

	foods, err := svc.List(ctx, "req")
	require.NoError(t, err)
	assert.Len(t, foods, 3)
}

func TestGet(t *testing.T) {
	svc, _ := testService(cache.Nop{})
	ctx := context.Background()

	food, err := svc.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Kung Pao", food.Name)

	_, err = svc.Get(ctx, 42)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = svc.Get(ctx, 0)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
