package models

import "time"

// Shop is a supplier profile. It is created automatically when an account
// registers with the supplier role and owns that supplier's listings.
type Shop struct {
	ID              int       `db:"id" json:"id"`
	AccountID       int       `db:"account_id" json:"-"`
	Name            string    `db:"name" json:"name"`
	FeedURL         *string   `db:"feed_url" json:"feedUrl,omitempty"`
	AcceptingOrders bool      `db:"accepting_orders" json:"acceptingOrders"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"-"`
}

// Category groups products. Shops are linked many-to-many through shop_categories.
type Category struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Product is a catalog item belonging to exactly one category.
type Product struct {
	ID         int    `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	CategoryID int    `db:"category_id" json:"categoryId"`
}

// ProductInfo is one shop's listing of a product: the shop's own SKU
// (external_id, unique within product+shop), stock and prices.
type ProductInfo struct {
	ID         int       `db:"id" json:"id"`
	ProductID  int       `db:"product_id" json:"productId"`
	ShopID     int       `db:"shop_id" json:"shopId"`
	ExternalID int       `db:"external_id" json:"externalId"`
	Name       string    `db:"name" json:"name"`
	Quantity   int       `db:"quantity" json:"quantity"`
	Price      float64   `db:"price" json:"price"`
	PriceRRC   float64   `db:"price_rrc" json:"priceRrc"`
	UpdatedAt  time.Time `db:"updated_at" json:"-"`

	// Populated by read queries that join the owning entities.
	ProductName  string `db:"product_name" json:"productName,omitempty"`
	CategoryName string `db:"category_name" json:"categoryName,omitempty"`
	ShopName     string `db:"shop_name" json:"shopName,omitempty"`
}

// Parameter is a named attribute such as "color".
type Parameter struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// ProductParameter holds one parameter value for one listing.
// Unique per (product_info, parameter) pair.
type ProductParameter struct {
	ID            int    `db:"id" json:"id"`
	ProductInfoID int    `db:"product_info_id" json:"-"`
	ParameterID   int    `db:"parameter_id" json:"-"`
	Name          string `db:"name" json:"name"`
	Value         string `db:"value" json:"value"`
}
