package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"food-ordering-system/internal/models"
)

// Memory is an in-process Store used by tests and the memory storage driver.
// One mutex guards everything, which gives the same per-user serialization
// the Postgres row locks provide.
type Memory struct {
	mu sync.Mutex

	foods      map[int64]models.FoodItem
	carts      map[int64]*memoryCart // keyed by user id
	orders     map[int64]*models.Order
	nextCart   int64
	nextLine   int64
	nextOrder  int64
	nextItem   int64
	nextFoodID int64
}

type memoryCart struct {
	id        int64
	userID    int64
	lines     []memoryLine
	createdAt time.Time
	updatedAt time.Time
}

type memoryLine struct {
	id         int64
	foodItemID int64
	quantity   int
	addedAt    time.Time
}

func NewMemory(foods ...models.FoodItem) *Memory {
	m := &Memory{
		foods:  make(map[int64]models.FoodItem),
		carts:  make(map[int64]*memoryCart),
		orders: make(map[int64]*models.Order),
	}
	for _, f := range foods {
		m.PutFood(f)
	}
	return m
}

// PutFood inserts or replaces a catalog entry. A zero ID gets the next free one.
func (m *Memory) PutFood(f models.FoodItem) models.FoodItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	if f.ID == 0 {
		m.nextFoodID++
		f.ID = m.nextFoodID
	} else if f.ID > m.nextFoodID {
		m.nextFoodID = f.ID
	}
	m.foods[f.ID] = f
	return f
}

func (m *Memory) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *Memory) ListFoods(ctx context.Context) ([]models.FoodItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	foods := make([]models.FoodItem, 0, len(m.foods))
	for _, f := range m.foods {
		foods = append(foods, f)
	}
	sort.Slice(foods, func(i, j int) bool { return foods[i].ID < foods[j].ID })
	return foods, nil
}

func (m *Memory) GetFood(ctx context.Context, id int64) (*models.FoodItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.foods[id]
	if !ok {
		return nil, fmt.Errorf("%w: food item %d", models.ErrNotFound, id)
	}
	return &f, nil
}

func (m *Memory) GetOrCreateCart(ctx context.Context, userID int64) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.view(m.cartFor(userID)), nil
}

func (m *Memory) AddCartItem(ctx context.Context, userID, foodItemID int64, quantity int) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.foods[foodItemID]; !ok {
		return nil, fmt.Errorf("%w: food item %d", models.ErrNotFound, foodItemID)
	}

	if quantity <= 0 || quantity > models.MaxQuantity {
		return nil, quantityError()
	}

	c := m.cartFor(userID)
	now := time.Now().UTC()
	found := false
	for i := range c.lines {
		if c.lines[i].foodItemID == foodItemID {
			if c.lines[i].quantity > models.MaxQuantity-quantity {
				return nil, quantityError()
			}
			c.lines[i].quantity += quantity
			found = true
			break
		}
	}
	if !found {
		m.nextLine++
		c.lines = append(c.lines, memoryLine{id: m.nextLine, foodItemID: foodItemID, quantity: quantity, addedAt: now})
	}
	c.updatedAt = now
	return m.view(c), nil
}

func (m *Memory) RemoveCartItem(ctx context.Context, userID, cartItemID int64) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.carts[userID]
	if !ok {
		return nil, fmt.Errorf("%w: cart item %d", models.ErrNotFound, cartItemID)
	}
	for i, line := range c.lines {
		if line.id == cartItemID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			c.updatedAt = time.Now().UTC()
			return m.view(c), nil
		}
	}
	return nil, fmt.Errorf("%w: cart item %d", models.ErrNotFound, cartItemID)
}

func (m *Memory) PlaceOrder(ctx context.Context, userID int64, build OrderBuilder) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.carts[userID]
	cart := &models.Cart{UserID: userID, Items: []models.CartItem{}}
	if ok {
		cart = m.view(c)
	}

	order, err := build(cart)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	m.nextOrder++
	order.ID = m.nextOrder
	order.CreatedAt, order.UpdatedAt = now, now
	for i := range order.Items {
		m.nextItem++
		order.Items[i].ID = m.nextItem
		order.Items[i].OrderID = order.ID
	}
	m.orders[order.ID] = order.Clone()

	if ok {
		c.lines = nil
		c.updatedAt = now
	}
	return order, nil
}

func (m *Memory) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order %d", models.ErrNotFound, id)
	}
	return o.Clone(), nil
}

func (m *Memory) ListOrders(ctx context.Context) ([]models.Order, error) {
	return m.listOrders(func(*models.Order) bool { return true }), nil
}

func (m *Memory) ListOrdersByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	return m.listOrders(func(o *models.Order) bool { return o.UserID == userID }), nil
}

func (m *Memory) UpdateOrder(ctx context.Context, id int64, mutate OrderMutator) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order %d", models.ErrNotFound, id)
	}

	order := stored.Clone()
	if err := mutate(order); err != nil {
		return nil, err
	}
	order.UpdatedAt = time.Now().UTC()
	m.orders[id] = order.Clone()
	return order, nil
}

func (m *Memory) listOrders(keep func(*models.Order) bool) []models.Order {
	m.mu.Lock()
	defer m.mu.Unlock()

	orders := []models.Order{}
	for _, o := range m.orders {
		if keep(o) {
			orders = append(orders, *o.Clone())
		}
	}
	// newest first; ids are monotonic so they break timestamp ties
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
	return orders
}

// cartFor must be called with mu held
func (m *Memory) cartFor(userID int64) *memoryCart {
	c, ok := m.carts[userID]
	if !ok {
		now := time.Now().UTC()
		m.nextCart++
		c = &memoryCart{id: m.nextCart, userID: userID, createdAt: now, updatedAt: now}
		m.carts[userID] = c
	}
	return c
}

// view joins cart lines with live catalog data; must be called with mu held
func (m *Memory) view(c *memoryCart) *models.Cart {
	cart := &models.Cart{
		ID:        c.id,
		UserID:    c.userID,
		Items:     make([]models.CartItem, 0, len(c.lines)),
		CreatedAt: c.createdAt,
		UpdatedAt: c.updatedAt,
	}
	for _, line := range c.lines {
		cart.Items = append(cart.Items, models.CartItem{
			ID:       line.id,
			CartID:   c.id,
			FoodItem: m.foods[line.foodItemID],
			Quantity: line.quantity,
			AddedAt:  line.addedAt,
		})
	}
	return cart
}
