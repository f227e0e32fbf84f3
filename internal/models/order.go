package models

import "time"

// OrderStatus tracks the order lifecycle. An order in StatusBasket is the
// user-facing cart; at most one basket exists per account at any time.
type OrderStatus string

const (
	StatusBasket    OrderStatus = "basket"
	StatusNew       OrderStatus = "new"
	StatusConfirmed OrderStatus = "confirmed"
	StatusAssembled OrderStatus = "assembled"
	StatusSent      OrderStatus = "sent"
	StatusDelivered OrderStatus = "delivered"
	StatusCanceled  OrderStatus = "canceled"
)

// Order belongs to one account. The contact reference is nil while the order
// is a basket and becomes required to leave basket status. Orders past basket
// are never deleted; cancellation is a status.
type Order struct {
	ID        int         `db:"id" json:"id"`
	AccountID int         `db:"account_id" json:"-"`
	Status    OrderStatus `db:"status" json:"status"`
	ContactID *int        `db:"contact_id" json:"contactId,omitempty"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time   `db:"updated_at" json:"updatedAt"`

	Items []OrderItem `db:"-" json:"items,omitempty"`
}

// OrderItem is one line of an order. Unique per (order, product_info);
// re-adding the same listing replaces the quantity.
type OrderItem struct {
	ID            int     `db:"id" json:"id"`
	OrderID       int     `db:"order_id" json:"-"`
	ProductInfoID int     `db:"product_info_id" json:"productInfoId"`
	Quantity      int     `db:"quantity" json:"quantity"`
	Price         float64 `db:"price" json:"price"`
	ProductName   string  `db:"product_name" json:"productName,omitempty"`
	ShopName      string  `db:"shop_name" json:"shopName,omitempty"`
}

// TotalQuantity sums item quantities over the loaded items.
func (o *Order) TotalQuantity() int {
	total := 0
	for _, it := range o.Items {
		total += it.Quantity
	}
	return total
}

// TotalCost sums quantity*price over the loaded items. The price is the
// listing's current wholesale price at read time, not price-at-order-time.
func (o *Order) TotalCost() float64 {
	var total float64
	for _, it := range o.Items {
		total += float64(it.Quantity) * it.Price
	}
	return total
}

// SupplierOrderItem is one incoming line for a supplier: an item of a
// new-status order whose listing belongs to the supplier's shop.
type SupplierOrderItem struct {
	OrderID       int       `db:"order_id" json:"orderId"`
	OrderedAt     time.Time `db:"ordered_at" json:"orderedAt"`
	ProductInfoID int       `db:"product_info_id" json:"productInfoId"`
	ProductName   string    `db:"product_name" json:"productName"`
	ExternalID    int       `db:"external_id" json:"externalId"`
	Quantity      int       `db:"quantity" json:"quantity"`
	Price         float64   `db:"price" json:"price"`
	City          string    `db:"city" json:"city"`
	Street        string    `db:"street" json:"street"`
	House         string    `db:"house" json:"house"`
}
