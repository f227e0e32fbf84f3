package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/retailnet/retail_api/internal/models"
	"github.com/retailnet/retail_api/internal/storage"
	"github.com/retailnet/retail_api/internal/utils"
)

// CatalogRepository handles data access for categories, products, listings
// and parameters.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// InTx runs fn inside one transaction. Any error from fn rolls back every
// write performed through the transaction handle.
func (r *CatalogRepository) InTx(ctx context.Context, fn func(tx storage.CatalogTx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin catalog tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&catalogTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

// catalogTx implements storage.CatalogTx over one sqlx transaction.
type catalogTx struct {
	tx *sqlx.Tx
}

// GetOrCreateCategory resolves a category by exact name, creating it when
// absent. The insert races safely against concurrent merges via ON CONFLICT.
func (t *catalogTx) GetOrCreateCategory(ctx context.Context, name string) (int, error) {
	const q = `
        INSERT INTO categories (name) VALUES ($1)
        ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
        RETURNING id`

	var id int
	if err := t.tx.QueryRowxContext(ctx, q, name).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// LinkShopCategory associates a category with a shop; no-op when already linked.
func (t *catalogTx) LinkShopCategory(ctx context.Context, shopID, categoryID int) error {
	const q = `
        INSERT INTO shop_categories (shop_id, category_id) VALUES ($1, $2)
        ON CONFLICT (shop_id, category_id) DO NOTHING`

	_, err := t.tx.ExecContext(ctx, q, shopID, categoryID)
	return err
}

// GetOrCreateProduct resolves a product by its (name, category) pair.
func (t *catalogTx) GetOrCreateProduct(ctx context.Context, name string, categoryID int) (int, error) {
	const q = `
        INSERT INTO products (name, category_id) VALUES ($1, $2)
        ON CONFLICT (name, category_id) DO UPDATE SET name = EXCLUDED.name
        RETURNING id`

	var id int
	if err := t.tx.QueryRowxContext(ctx, q, name, categoryID).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// UpsertListing inserts or overwrites a listing keyed by
// (product, shop, external_id).
func (t *catalogTx) UpsertListing(ctx context.Context, l *models.ProductInfo) (int, error) {
	const q = `
        INSERT INTO product_infos (product_id, shop_id, external_id, name, quantity, price, price_rrc)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (product_id, shop_id, external_id) DO UPDATE SET
            name = EXCLUDED.name,
            quantity = EXCLUDED.quantity,
            price = EXCLUDED.price,
            price_rrc = EXCLUDED.price_rrc,
            updated_at = NOW()
        RETURNING id`

	var id int
	err := t.tx.QueryRowxContext(ctx, q,
		l.ProductID, l.ShopID, l.ExternalID, l.Name, l.Quantity, l.Price, l.PriceRRC,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	l.ID = id
	return id, nil
}

// GetOrCreateParameter resolves a parameter by name.
func (t *catalogTx) GetOrCreateParameter(ctx context.Context, name string) (int, error) {
	const q = `
        INSERT INTO parameters (name) VALUES ($1)
        ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
        RETURNING id`

	var id int
	if err := t.tx.QueryRowxContext(ctx, q, name).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// UpsertProductParameter inserts or overwrites the value of one parameter on
// one listing.
func (t *catalogTx) UpsertProductParameter(ctx context.Context, listingID, parameterID int, value string) error {
	const q = `
        INSERT INTO product_parameters (product_info_id, parameter_id, value)
        VALUES ($1, $2, $3)
        ON CONFLICT (product_info_id, parameter_id) DO UPDATE SET value = EXCLUDED.value`

	_, err := t.tx.ExecContext(ctx, q, listingID, parameterID, value)
	return err
}

// ListCategories returns all categories.
func (r *CatalogRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	const q = `SELECT * FROM categories ORDER BY name`

	var categories []models.Category
	if err := r.db.SelectContext(ctx, &categories, q); err != nil {
		return nil, err
	}
	return categories, nil
}

// SearchListings returns listings with owning names joined, narrowed by the
// optional shop, category and search filters.
func (r *CatalogRepository) SearchListings(ctx context.Context, filter storage.ListingFilter) ([]models.ProductInfo, error) {
	const q = `
        SELECT pi.*, p.name AS product_name, c.name AS category_name, s.name AS shop_name
        FROM product_infos pi
        JOIN products p ON p.id = pi.product_id
        JOIN categories c ON c.id = p.category_id
        JOIN shops s ON s.id = pi.shop_id
        WHERE ($1 = 0 OR pi.shop_id = $1)
        AND ($2 = 0 OR p.category_id = $2)
        AND ($3 = '' OR pi.name ILIKE '%' || $3 || '%' OR p.name ILIKE '%' || $3 || '%'
             OR s.name ILIKE '%' || $3 || '%' OR c.name ILIKE '%' || $3 || '%')
        ORDER BY s.name, p.name`

	var listings []models.ProductInfo
	if err := r.db.SelectContext(ctx, &listings, q, filter.ShopID, filter.CategoryID, filter.Search); err != nil {
		return nil, err
	}
	return listings, nil
}

// GetListing returns a listing together with the owning shop's
// accepting-orders flag.
func (r *CatalogRepository) GetListing(ctx context.Context, id int) (*storage.ListingDetail, error) {
	const q = `
        SELECT pi.*, p.name AS product_name, s.name AS shop_name, s.accepting_orders AS shop_accepting
        FROM product_infos pi
        JOIN products p ON p.id = pi.product_id
        JOIN shops s ON s.id = pi.shop_id
        WHERE pi.id = $1
        LIMIT 1`

	var d storage.ListingDetail
	if err := r.db.GetContext(ctx, &d, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrListingNotFound
		}
		return nil, err
	}
	return &d, nil
}

// ListingParameters returns the parameter values of one listing.
func (r *CatalogRepository) ListingParameters(ctx context.Context, listingID int) ([]models.ProductParameter, error) {
	const q = `
        SELECT pp.id, pp.product_info_id, pp.parameter_id, pa.name AS name, pp.value
        FROM product_parameters pp
        JOIN parameters pa ON pa.id = pp.parameter_id
        WHERE pp.product_info_id = $1
        ORDER BY pa.name`

	var params []models.ProductParameter
	if err := r.db.SelectContext(ctx, &params, q, listingID); err != nil {
		return nil, err
	}
	return params, nil
}
