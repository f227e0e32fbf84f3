package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/retailnet/retail_api/internal/models"
	"github.com/retailnet/retail_api/internal/storage"
	"github.com/retailnet/retail_api/internal/utils"
)

// CartService governs the basket and the order lifecycle: item accumulation
// in the basket, placement against a delivery contact and the email-gated
// transition to a new order.
type CartService struct {
	orders   storage.OrderStore
	catalog  storage.CatalogStore
	contacts storage.ContactStore
	accounts storage.AccountStore
	keys     KeyStore
	notifier Notifier
}

// NewCartService constructs a CartService.
func NewCartService(
	orders storage.OrderStore,
	catalog storage.CatalogStore,
	contacts storage.ContactStore,
	accounts storage.AccountStore,
	keys KeyStore,
	notifier Notifier,
) *CartService {
	return &CartService{
		orders:   orders,
		catalog:  catalog,
		contacts: contacts,
		accounts: accounts,
		keys:     keys,
		notifier: notifier,
	}
}

// ListBasket returns the account's basket with items, or an empty order view
// when none exists. It never creates a basket.
func (s *CartService) ListBasket(ctx context.Context, accountID int) (*models.Order, error) {
	basket, err := s.orders.BasketByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if basket == nil {
		return &models.Order{AccountID: accountID, Status: models.StatusBasket}, nil
	}
	return basket, nil
}

// AddOrUpdateItem puts a listing into the basket with the given quantity,
// replacing any existing quantity for that listing. Stock and shop status are
// validated here, at add time only; neither is re-checked at confirmation.
func (s *CartService) AddOrUpdateItem(ctx context.Context, accountID, listingID, quantity int) (*models.Order, error) {
	if quantity <= 0 {
		return nil, utils.Validation("INVALID_QUANTITY", "Quantity must be positive")
	}

	listing, err := s.catalog.GetListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !listing.ShopAccepting {
		return nil, utils.Validation("SHOP_NOT_ACCEPTING", "Shop is not accepting orders")
	}
	if quantity > listing.Quantity {
		return nil, utils.Validation("INVALID_QUANTITY",
			fmt.Sprintf("Quantity exceeds available stock (%d)", listing.Quantity))
	}

	err = s.orders.InTx(ctx, func(tx storage.OrderTx) error {
		orderID, err := tx.GetOrCreateBasket(ctx, accountID)
		if err != nil {
			return err
		}
		return tx.UpsertItem(ctx, orderID, listingID, quantity)
	})
	if err != nil {
		return nil, err
	}

	return s.ListBasket(ctx, accountID)
}

// RemoveItem deletes a listing from the basket. Removing the last item
// deletes the basket itself: an empty basket does not persist.
func (s *CartService) RemoveItem(ctx context.Context, accountID, listingID int) error {
	basket, err := s.orders.BasketByAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if basket == nil {
		return utils.ErrBasketNotFound
	}

	return s.orders.InTx(ctx, func(tx storage.OrderTx) error {
		removed, err := tx.DeleteItem(ctx, basket.ID, listingID)
		if err != nil {
			return err
		}
		if !removed {
			return utils.ErrItemNotFound
		}
		count, err := tx.CountItems(ctx, basket.ID)
		if err != nil {
			return err
		}
		if count == 0 {
			return tx.DeleteOrder(ctx, basket.ID)
		}
		return nil
	})
}

// Place attaches a delivery contact to a non-empty basket and issues an
// order-confirmation key to the account's email. The order stays in basket
// status until the key is redeemed.
func (s *CartService) Place(ctx context.Context, accountID, contactID int) error {
	basket, err := s.orders.BasketByAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if basket == nil || len(basket.Items) == 0 {
		return utils.ErrBasketNotFound
	}

	contact, err := s.contacts.GetByID(ctx, contactID)
	if err != nil {
		return err
	}
	if contact.AccountID != accountID {
		return utils.ErrNotOwner
	}

	err = s.orders.InTx(ctx, func(tx storage.OrderTx) error {
		return tx.SetContact(ctx, basket.ID, contactID)
	})
	if err != nil {
		return err
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	key, err := s.keys.Issue(ctx, account.Email)
	if err != nil {
		return err
	}
	notify(s.notifier, account.Email, subjectOrderConfirm, orderConfirmBody(key))
	return nil
}

// Confirm redeems an order-confirmation key and moves the basket to new
// status. An invalid key changes nothing; a redeemed key is gone even if a
// concurrent call raced for the same transition.
func (s *CartService) Confirm(ctx context.Context, accountID int, key string) (*models.Order, error) {
	basket, err := s.orders.BasketByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if basket == nil || len(basket.Items) == 0 {
		return nil, utils.ErrBasketNotFound
	}
	if basket.ContactID == nil {
		return nil, utils.Validation("NO_CONTACT", "Place the order with a delivery contact first")
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	ok, err := s.keys.ValidateAndConsume(ctx, key, account.Email)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, utils.ErrInvalidKey
	}

	err = s.orders.InTx(ctx, func(tx storage.OrderTx) error {
		moved, err := tx.Transition(ctx, accountID, models.StatusBasket, models.StatusNew)
		if err != nil {
			return err
		}
		if !moved {
			return utils.ErrBasketNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int("account_id", accountID).Int("order_id", basket.ID).Msg("order confirmed")
	basket.Status = models.StatusNew
	return basket, nil
}

// ListOrders returns the account's orders excluding the basket.
func (s *CartService) ListOrders(ctx context.Context, accountID int) ([]models.Order, error) {
	return s.orders.OrdersByAccount(ctx, accountID)
}

// ListSupplierOrders returns the supplier's incoming queue: order lines of
// new-status orders whose listings belong to the supplier's shop.
func (s *CartService) ListSupplierOrders(ctx context.Context, supplierAccountID int) ([]models.SupplierOrderItem, error) {
	return s.orders.SupplierItems(ctx, supplierAccountID)
}
