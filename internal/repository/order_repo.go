package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/retailnet/retail_api/internal/models"
	"github.com/retailnet/retail_api/internal/storage"
)

// OrderRepository handles data access for orders, baskets and line items.
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// InTx runs fn inside one transaction.
func (r *OrderRepository) InTx(ctx context.Context, fn func(tx storage.OrderTx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin order tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&orderTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

// orderTx implements storage.OrderTx over one sqlx transaction.
type orderTx struct {
	tx *sqlx.Tx
}

// GetOrCreateBasket returns the account's basket order id. The insert runs
// against the partial unique index on (account_id) WHERE status = 'basket',
// so two concurrent calls can never produce a second basket.
func (t *orderTx) GetOrCreateBasket(ctx context.Context, accountID int) (int, error) {
	const q = `
        INSERT INTO orders (account_id, status) VALUES ($1, 'basket')
        ON CONFLICT (account_id) WHERE status = 'basket'
        DO UPDATE SET updated_at = NOW()
        RETURNING id`

	var id int
	if err := t.tx.QueryRowxContext(ctx, q, accountID).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// UpsertItem inserts or replaces the quantity of the (order, listing) line.
func (t *orderTx) UpsertItem(ctx context.Context, orderID, listingID, quantity int) error {
	const q = `
        INSERT INTO order_items (order_id, product_info_id, quantity)
        VALUES ($1, $2, $3)
        ON CONFLICT (order_id, product_info_id) DO UPDATE SET quantity = EXCLUDED.quantity`

	_, err := t.tx.ExecContext(ctx, q, orderID, listingID, quantity)
	return err
}

// DeleteItem removes the (order, listing) line and reports whether it existed.
func (t *orderTx) DeleteItem(ctx context.Context, orderID, listingID int) (bool, error) {
	const q = `DELETE FROM order_items WHERE order_id = $1 AND product_info_id = $2`

	res, err := t.tx.ExecContext(ctx, q, orderID, listingID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// CountItems returns the number of lines on an order.
func (t *orderTx) CountItems(ctx context.Context, orderID int) (int, error) {
	const q = `SELECT COUNT(1) FROM order_items WHERE order_id = $1`

	var count int
	if err := t.tx.GetContext(ctx, &count, q, orderID); err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteOrder removes an order row. Used only for emptied baskets.
func (t *orderTx) DeleteOrder(ctx context.Context, orderID int) error {
	const q = `DELETE FROM orders WHERE id = $1`
	_, err := t.tx.ExecContext(ctx, q, orderID)
	return err
}

// SetContact attaches a delivery contact to an order.
func (t *orderTx) SetContact(ctx context.Context, orderID, contactID int) error {
	const q = `UPDATE orders SET contact_id = $2, updated_at = NOW() WHERE id = $1`
	_, err := t.tx.ExecContext(ctx, q, orderID, contactID)
	return err
}

// Transition moves the account's order from one status to the next. The
// status predicate makes the update conditional, so a lost race simply
// reports no change.
func (t *orderTx) Transition(ctx context.Context, accountID int, from, to models.OrderStatus) (bool, error) {
	const q = `
        UPDATE orders SET status = $3, updated_at = NOW()
        WHERE account_id = $1 AND status = $2`

	res, err := t.tx.ExecContext(ctx, q, accountID, from, to)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// itemsQuery loads order lines joined with current listing price and names.
const itemsQuery = `
    SELECT oi.id, oi.order_id, oi.product_info_id, oi.quantity,
           pi.price, p.name AS product_name, s.name AS shop_name
    FROM order_items oi
    JOIN product_infos pi ON pi.id = oi.product_info_id
    JOIN products p ON p.id = pi.product_id
    JOIN shops s ON s.id = pi.shop_id
    WHERE oi.order_id = ANY($1)
    ORDER BY oi.id`

// BasketByAccount returns the basket with its items, or nil when none exists.
func (r *OrderRepository) BasketByAccount(ctx context.Context, accountID int) (*models.Order, error) {
	const q = `SELECT * FROM orders WHERE account_id = $1 AND status = 'basket' LIMIT 1`

	var orders []models.Order
	if err := r.db.SelectContext(ctx, &orders, q, accountID); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, nil
	}
	basket := orders[0]
	if err := r.attachItems(ctx, []*models.Order{&basket}); err != nil {
		return nil, err
	}
	return &basket, nil
}

// OrdersByAccount returns the account's orders excluding the basket, newest first.
func (r *OrderRepository) OrdersByAccount(ctx context.Context, accountID int) ([]models.Order, error) {
	const q = `
        SELECT * FROM orders
        WHERE account_id = $1 AND status != 'basket'
        ORDER BY created_at DESC`

	var orders []models.Order
	if err := r.db.SelectContext(ctx, &orders, q, accountID); err != nil {
		return nil, err
	}
	refs := make([]*models.Order, len(orders))
	for i := range orders {
		refs[i] = &orders[i]
	}
	if err := r.attachItems(ctx, refs); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachItems loads line items for the given orders in one query.
func (r *OrderRepository) attachItems(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int, len(orders))
	byID := make(map[int]*models.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
	}

	var items []models.OrderItem
	if err := r.db.SelectContext(ctx, &items, itemsQuery, pq.Array(ids)); err != nil {
		return err
	}
	for _, it := range items {
		o := byID[it.OrderID]
		o.Items = append(o.Items, it)
	}
	return nil
}

// SupplierItems returns the incoming-orders queue of a supplier: every line
// of a new-status order whose listing belongs to the supplier's shop.
func (r *OrderRepository) SupplierItems(ctx context.Context, supplierAccountID int) ([]models.SupplierOrderItem, error) {
	const q = `
        SELECT o.id AS order_id, o.updated_at AS ordered_at,
               oi.product_info_id, p.name AS product_name, pi.external_id,
               oi.quantity, pi.price,
               COALESCE(c.city, '') AS city, COALESCE(c.street, '') AS street, COALESCE(c.house, '') AS house
        FROM order_items oi
        JOIN orders o ON o.id = oi.order_id
        JOIN product_infos pi ON pi.id = oi.product_info_id
        JOIN products p ON p.id = pi.product_id
        JOIN shops s ON s.id = pi.shop_id
        LEFT JOIN contacts c ON c.id = o.contact_id
        WHERE s.account_id = $1 AND o.status = 'new'
        ORDER BY o.updated_at DESC, oi.id`

	var items []models.SupplierOrderItem
	if err := r.db.SelectContext(ctx, &items, q, supplierAccountID); err != nil {
		return nil, err
	}
	return items, nil
}
