// Package storage declares the persistence contracts consumed by the service
// layer. The sqlx repositories implement them against PostgreSQL; tests use
// in-memory substitutes.
package storage

import (
	"context"

	"github.com/retailnet/retail_api/internal/models"
)

// AccountStore persists accounts.
type AccountStore interface {
	Create(ctx context.Context, a *models.Account) error
	GetByID(ctx context.Context, id int) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	Activate(ctx context.Context, id int) error
	SetPassword(ctx context.Context, id int, passwordHash string) error
	UpdateProfile(ctx context.Context, a *models.Account) error
	Delete(ctx context.Context, id int) error
}

// ContactStore persists delivery addresses.
type ContactStore interface {
	ListByAccount(ctx context.Context, accountID int) ([]models.Contact, error)
	GetByID(ctx context.Context, id int) (*models.Contact, error)
	CountByAccount(ctx context.Context, accountID int) (int, error)
	Create(ctx context.Context, c *models.Contact) error
	Update(ctx context.Context, c *models.Contact) error
	Delete(ctx context.Context, id int) error
	// SetFavorite marks one contact favorite and clears the flag on every
	// other contact of the same account in a single transaction.
	SetFavorite(ctx context.Context, accountID, contactID int) error
}

// ShopStore persists supplier profiles.
type ShopStore interface {
	Create(ctx context.Context, s *models.Shop) error
	GetByID(ctx context.Context, id int) (*models.Shop, error)
	GetByAccount(ctx context.Context, accountID int) (*models.Shop, error)
	List(ctx context.Context) ([]models.Shop, error)
	SetAcceptingOrders(ctx context.Context, shopID int, accepting bool) error
	SetFeedURL(ctx context.Context, shopID int, url string) error
	UpdateName(ctx context.Context, accountID int, name string) error
}

// ListingFilter narrows public listing queries.
type ListingFilter struct {
	ShopID     int
	CategoryID int
	Search     string
}

// ListingDetail is a listing joined with the owning shop's order-acceptance
// flag, used by add-to-cart validation.
type ListingDetail struct {
	models.ProductInfo
	ShopAccepting bool `db:"shop_accepting"`
}

// CatalogTx exposes the write operations of one catalog merge transaction.
// Every get-or-create and upsert is a single atomic statement keyed on the
// entity's natural unique constraint.
type CatalogTx interface {
	GetOrCreateCategory(ctx context.Context, name string) (int, error)
	LinkShopCategory(ctx context.Context, shopID, categoryID int) error
	GetOrCreateProduct(ctx context.Context, name string, categoryID int) (int, error)
	UpsertListing(ctx context.Context, l *models.ProductInfo) (int, error)
	GetOrCreateParameter(ctx context.Context, name string) (int, error)
	UpsertProductParameter(ctx context.Context, listingID, parameterID int, value string) error
}

// CatalogStore persists the product catalog.
type CatalogStore interface {
	// InTx runs fn inside one transaction; any error rolls back every write.
	InTx(ctx context.Context, fn func(tx CatalogTx) error) error

	ListCategories(ctx context.Context) ([]models.Category, error)
	SearchListings(ctx context.Context, filter ListingFilter) ([]models.ProductInfo, error)
	GetListing(ctx context.Context, id int) (*ListingDetail, error)
	ListingParameters(ctx context.Context, listingID int) ([]models.ProductParameter, error)
}

// OrderTx exposes the write operations of one basket/order transaction.
type OrderTx interface {
	// GetOrCreateBasket returns the account's basket order id, creating the
	// basket atomically against the one-basket-per-account constraint.
	GetOrCreateBasket(ctx context.Context, accountID int) (int, error)
	UpsertItem(ctx context.Context, orderID, listingID, quantity int) error
	// DeleteItem reports whether a row was removed.
	DeleteItem(ctx context.Context, orderID, listingID int) (bool, error)
	CountItems(ctx context.Context, orderID int) (int, error)
	DeleteOrder(ctx context.Context, orderID int) error
	SetContact(ctx context.Context, orderID, contactID int) error
	// Transition moves the account's order from one status to another and
	// reports whether a row actually changed.
	Transition(ctx context.Context, accountID int, from, to models.OrderStatus) (bool, error)
}

// OrderStore persists orders and baskets.
type OrderStore interface {
	InTx(ctx context.Context, fn func(tx OrderTx) error) error

	// BasketByAccount returns the basket with its items, or nil when the
	// account has none. It never creates one.
	BasketByAccount(ctx context.Context, accountID int) (*models.Order, error)
	OrdersByAccount(ctx context.Context, accountID int) ([]models.Order, error)
	SupplierItems(ctx context.Context, supplierAccountID int) ([]models.SupplierOrderItem, error)
}
