package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/retailnet/retail_api/internal/models"
	"github.com/retailnet/retail_api/internal/utils"
)

// ShopRepository handles data access for supplier profiles.
type ShopRepository struct {
	db *sqlx.DB
}

// NewShopRepository creates a new ShopRepository.
func NewShopRepository(db *sqlx.DB) *ShopRepository {
	return &ShopRepository{db: db}
}

// Create inserts a new shop for a supplier account.
func (r *ShopRepository) Create(ctx context.Context, s *models.Shop) error {
	const q = `
        INSERT INTO shops (account_id, name, accepting_orders)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRowxContext(ctx, q, s.AccountID, s.Name, s.AcceptingOrders).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// GetByID returns a single shop by id.
func (r *ShopRepository) GetByID(ctx context.Context, id int) (*models.Shop, error) {
	const q = `SELECT * FROM shops WHERE id = $1 LIMIT 1`

	var s models.Shop
	if err := r.db.GetContext(ctx, &s, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrShopNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetByAccount returns the shop owned by an account.
func (r *ShopRepository) GetByAccount(ctx context.Context, accountID int) (*models.Shop, error) {
	const q = `SELECT * FROM shops WHERE account_id = $1 LIMIT 1`

	var s models.Shop
	if err := r.db.GetContext(ctx, &s, q, accountID); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrShopNotFound
		}
		return nil, err
	}
	return &s, nil
}

// List returns all shops.
func (r *ShopRepository) List(ctx context.Context) ([]models.Shop, error) {
	const q = `SELECT * FROM shops ORDER BY name`

	var shops []models.Shop
	if err := r.db.SelectContext(ctx, &shops, q); err != nil {
		return nil, err
	}
	return shops, nil
}

// SetAcceptingOrders toggles the accepting-orders flag.
func (r *ShopRepository) SetAcceptingOrders(ctx context.Context, shopID int, accepting bool) error {
	const q = `UPDATE shops SET accepting_orders = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, shopID, accepting)
	return err
}

// SetFeedURL stores the ingestion source URL.
func (r *ShopRepository) SetFeedURL(ctx context.Context, shopID int, url string) error {
	const q = `UPDATE shops SET feed_url = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, shopID, url)
	return err
}

// UpdateName renames the shop owned by an account, keeping it in sync with
// the account's company field.
func (r *ShopRepository) UpdateName(ctx context.Context, accountID int, name string) error {
	const q = `UPDATE shops SET name = $2, updated_at = NOW() WHERE account_id = $1`
	_, err := r.db.ExecContext(ctx, q, accountID, name)
	return err
}
