package store

import (
	"context"
	"errors"
	"fmt"

	"food-ordering-system/internal/database"
	"food-ordering-system/internal/models"

	"github.com/jackc/pgx/v5"
)

// queryer is satisfied by both the pool wrapper and a transaction
type queryer interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Postgres is the durable Store backed by pgx
type Postgres struct {
	db *database.DB
}

func NewPostgres(db *database.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Postgres) ListFoods(ctx context.Context) ([]models.FoodItem, error) {
	rows, err := s.db.Query(ctx, database.ListFoodItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query food items: %w", err)
	}
	defer rows.Close()

	foods := []models.FoodItem{}
	for rows.Next() {
		var f models.FoodItem
		if err := scanFood(rows, &f); err != nil {
			return nil, fmt.Errorf("failed to scan food item: %w", err)
		}
		foods = append(foods, f)
	}
	return foods, rows.Err()
}

func (s *Postgres) GetFood(ctx context.Context, id int64) (*models.FoodItem, error) {
	var f models.FoodItem
	err := scanFood(s.db.QueryRow(ctx, database.GetFoodItemSQL, id), &f)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: food item %d", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query food item: %w", err)
	}
	return &f, nil
}

func (s *Postgres) GetOrCreateCart(ctx context.Context, userID int64) (*models.Cart, error) {
	var cart *models.Cart
	err := s.db.InTx(ctx, func(tx pgx.Tx) error {
		var err error
		cart, err = upsertCart(ctx, tx, userID)
		if err != nil {
			return err
		}
		cart.Items, err = loadCartItems(ctx, tx, cart.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *Postgres) AddCartItem(ctx context.Context, userID, foodItemID int64, quantity int) (*models.Cart, error) {
	if quantity <= 0 || quantity > models.MaxQuantity {
		return nil, quantityError()
	}

	var cart *models.Cart
	err := s.db.InTx(ctx, func(tx pgx.Tx) error {
		var err error
		cart, err = upsertCart(ctx, tx, userID)
		if err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, database.UpsertCartItemSQL, cart.ID, foodItemID, quantity, models.MaxQuantity)
		if err != nil {
			return fmt.Errorf("failed to upsert cart item: %w", err)
		}
		// the conflict guard filtered the update out
		if tag.RowsAffected() == 0 {
			return quantityError()
		}
		if err := tx.QueryRow(ctx, database.TouchCartSQL, cart.ID).Scan(&cart.UpdatedAt); err != nil {
			return fmt.Errorf("failed to touch cart: %w", err)
		}
		cart.Items, err = loadCartItems(ctx, tx, cart.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *Postgres) RemoveCartItem(ctx context.Context, userID, cartItemID int64) (*models.Cart, error) {
	var cart *models.Cart
	err := s.db.InTx(ctx, func(tx pgx.Tx) error {
		var err error
		cart, err = lockCart(ctx, tx, userID)
		if err != nil {
			return err
		}
		if cart == nil {
			return fmt.Errorf("%w: cart item %d", models.ErrNotFound, cartItemID)
		}

		tag, err := tx.Exec(ctx, database.DeleteCartItemSQL, cartItemID, cart.ID)
		if err != nil {
			return fmt.Errorf("failed to delete cart item: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: cart item %d", models.ErrNotFound, cartItemID)
		}

		if err := tx.QueryRow(ctx, database.TouchCartSQL, cart.ID).Scan(&cart.UpdatedAt); err != nil {
			return fmt.Errorf("failed to touch cart: %w", err)
		}
		cart.Items, err = loadCartItems(ctx, tx, cart.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *Postgres) PlaceOrder(ctx context.Context, userID int64, build OrderBuilder) (*models.Order, error) {
	var order *models.Order
	err := s.db.InTx(ctx, func(tx pgx.Tx) error {
		cart, err := lockCart(ctx, tx, userID)
		if err != nil {
			return err
		}
		if cart == nil {
			cart = &models.Cart{UserID: userID}
		} else if cart.Items, err = loadCartItems(ctx, tx, cart.ID); err != nil {
			return err
		}

		order, err = build(cart)
		if err != nil {
			return err
		}

		err = tx.QueryRow(ctx, database.InsertOrderSQL,
			order.UserID, string(order.Status), order.TotalAmount,
			order.DeliveryAddress, order.Phone, order.Notes,
		).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}

		for i := range order.Items {
			item := &order.Items[i]
			item.OrderID = order.ID
			err := tx.QueryRow(ctx, database.InsertOrderItemSQL,
				order.ID, item.FoodName, item.FoodPrice, item.Quantity, item.Subtotal,
			).Scan(&item.ID)
			if err != nil {
				return fmt.Errorf("failed to insert order item: %w", err)
			}
		}

		if _, err := tx.Exec(ctx, database.ClearCartSQL, cart.ID); err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		if _, err := tx.Exec(ctx, database.TouchCartSQL, cart.ID); err != nil {
			return fmt.Errorf("failed to touch cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Postgres) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	orders, err := queryOrders(ctx, s.db, database.GetOrderSQL, id)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("%w: order %d", models.ErrNotFound, id)
	}
	return &orders[0], nil
}

func (s *Postgres) ListOrders(ctx context.Context) ([]models.Order, error) {
	return queryOrders(ctx, s.db, database.ListOrdersSQL)
}

func (s *Postgres) ListOrdersByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	return queryOrders(ctx, s.db, database.ListOrdersByUserSQL, userID)
}

func (s *Postgres) UpdateOrder(ctx context.Context, id int64, mutate OrderMutator) (*models.Order, error) {
	var order *models.Order
	err := s.db.InTx(ctx, func(tx pgx.Tx) error {
		orders, err := queryOrders(ctx, tx, database.LockOrderSQL, id)
		if err != nil {
			return err
		}
		if len(orders) == 0 {
			return fmt.Errorf("%w: order %d", models.ErrNotFound, id)
		}
		order = &orders[0]

		if err := mutate(order); err != nil {
			return err
		}

		err = tx.QueryRow(ctx, database.UpdateOrderSQL,
			string(order.Status), order.DeliveryAddress, order.Phone, order.Notes, order.ID,
		).Scan(&order.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func upsertCart(ctx context.Context, tx pgx.Tx, userID int64) (*models.Cart, error) {
	cart := &models.Cart{UserID: userID, Items: []models.CartItem{}}
	err := tx.QueryRow(ctx, database.UpsertCartSQL, userID).Scan(&cart.ID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert cart: %w", err)
	}
	return cart, nil
}

// lockCart returns nil without error when the user has no cart yet
func lockCart(ctx context.Context, tx pgx.Tx, userID int64) (*models.Cart, error) {
	cart := &models.Cart{UserID: userID, Items: []models.CartItem{}}
	err := tx.QueryRow(ctx, database.LockCartByUserSQL, userID).Scan(&cart.ID, &cart.CreatedAt, &cart.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock cart: %w", err)
	}
	return cart, nil
}

func loadCartItems(ctx context.Context, q queryer, cartID int64) ([]models.CartItem, error) {
	rows, err := q.Query(ctx, database.ListCartItemsSQL, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	items := []models.CartItem{}
	for rows.Next() {
		var item models.CartItem
		f := &item.FoodItem
		err := rows.Scan(
			&item.ID, &item.CartID, &item.Quantity, &item.AddedAt,
			&f.ID, &f.Name, &f.Description, &f.Price, &f.ImagePath, &f.Category, &f.Rating, &f.Available,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func queryOrders(ctx context.Context, q queryer, sql string, args ...interface{}) ([]models.Order, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		err := rows.Scan(
			&o.ID, &o.UserID, &o.UserEmail, &o.Status, &o.TotalAmount, &o.DeliveryAddress,
			&o.Phone, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
		)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		o.Items = []models.OrderItem{}
		orders = append(orders, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}

	if len(orders) == 0 {
		return orders, nil
	}
	if err := attachOrderItems(ctx, q, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func attachOrderItems(ctx context.Context, q queryer, orders []models.Order) error {
	ids := make([]int64, len(orders))
	index := make(map[int64]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
	}

	rows, err := q.Query(ctx, database.ListOrderItemsSQL, ids)
	if err != nil {
		return fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.FoodName, &item.FoodPrice, &item.Quantity, &item.Subtotal); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		i := index[item.OrderID]
		orders[i].Items = append(orders[i].Items, item)
	}
	return rows.Err()
}

func scanFood(row pgx.Row, f *models.FoodItem) error {
	return row.Scan(&f.ID, &f.Name, &f.Description, &f.Price, &f.ImagePath, &f.Category, &f.Rating, &f.Available)
}
