package database

// Catalog queries
const (
	ListFoodItemsSQL = `
		SELECT id, name, description, price, image, category, rating, available
		FROM food_items
		ORDER BY id ASC`

	GetFoodItemSQL = `
		SELECT id, name, description, price, image, category, rating, available
		FROM food_items WHERE id = $1`
)

// Cart queries
const (
	// The no-op update makes RETURNING yield the existing row and takes its row lock,
	// which serializes every cart mutation of one user.
	UpsertCartSQL = `
		INSERT INTO carts (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, created_at, updated_at`

	LockCartByUserSQL = `
		SELECT id, created_at, updated_at
		FROM carts WHERE user_id = $1
		FOR UPDATE`

	TouchCartSQL = `
		UPDATE carts SET updated_at = NOW() WHERE id = $1
		RETURNING updated_at`

	UpsertCartItemSQL = `
		INSERT INTO cart_items (cart_id, food_item_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, food_item_id) DO UPDATE SET
			quantity = cart_items.quantity + EXCLUDED.quantity
		WHERE cart_items.quantity::BIGINT + EXCLUDED.quantity <= $4`

	DeleteCartItemSQL = `
		DELETE FROM cart_items WHERE id = $1 AND cart_id = $2`

	ClearCartSQL = `
		DELETE FROM cart_items WHERE cart_id = $1`

	ListCartItemsSQL = `
		SELECT ci.id, ci.cart_id, ci.quantity, ci.added_at,
			   f.id, f.name, f.description, f.price, f.image, f.category, f.rating, f.available
		FROM cart_items ci
		JOIN food_items f ON f.id = ci.food_item_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id ASC`
)

// Order queries
const (
	InsertOrderSQL = `
		INSERT INTO orders (user_id, status, total_amount, delivery_address, phone, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	InsertOrderItemSQL = `
		INSERT INTO order_items (order_id, food_name, food_price, quantity, subtotal)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	selectOrderSQL = `
		SELECT o.id, o.user_id, u.email, o.status, o.total_amount, o.delivery_address,
			   o.phone, o.notes, o.created_at, o.updated_at
		FROM orders o
		JOIN users u ON u.id = o.user_id`

	GetOrderSQL = selectOrderSQL + `
		WHERE o.id = $1`

	LockOrderSQL = GetOrderSQL + `
		FOR UPDATE OF o`

	ListOrdersSQL = selectOrderSQL + `
		ORDER BY o.created_at DESC, o.id DESC`

	ListOrdersByUserSQL = selectOrderSQL + `
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC, o.id DESC`

	ListOrderItemsSQL = `
		SELECT id, order_id, food_name, food_price, quantity, subtotal
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, id`

	UpdateOrderSQL = `
		UPDATE orders SET status = $1, delivery_address = $2, phone = $3, notes = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at`
)

// Auth queries
const (
	GetPrincipalByTokenSQL = `
		SELECT u.id, u.email, u.role
		FROM auth_tokens t
		JOIN users u ON u.id = t.user_id
		WHERE t.token_hash = $1
		  AND (t.expires_at IS NULL OR t.expires_at > NOW())`
)
