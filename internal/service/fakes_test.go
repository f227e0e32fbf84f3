package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/retailnet/retail_api/internal/models"
	"github.com/retailnet/retail_api/internal/storage"
	"github.com/retailnet/retail_api/internal/utils"
	"github.com/retailnet/retail_api/pkg/feed"
)

// In-memory substitutes for the storage contracts and service collaborators.
// They mimic the repositories' key semantics (natural unique constraints,
// single open basket, transactional rollback) closely enough for the service
// tests to exercise real flows.

type fakeKeys struct {
	seq    int
	issued map[string]string // key -> email
}

func newFakeKeys() *fakeKeys {
	return &fakeKeys{issued: make(map[string]string)}
}

func (f *fakeKeys) Issue(_ context.Context, email string) (string, error) {
	f.seq++
	key := fmt.Sprintf("key-%d", f.seq)
	f.issued[key] = email
	return key, nil
}

func (f *fakeKeys) ValidateAndConsume(_ context.Context, key, email string) (bool, error) {
	if f.issued[key] != email {
		return false, nil
	}
	delete(f.issued, key)
	return true, nil
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeNotifier struct {
	sent []sentMail
}

func (f *fakeNotifier) Send(to, subject, body string) error {
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

type fakeAccounts struct {
	seq  int
	byID map[int]*models.Account
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{byID: make(map[int]*models.Account)}
}

func (f *fakeAccounts) Create(_ context.Context, a *models.Account) error {
	for _, existing := range f.byID {
		if existing.Email == a.Email || existing.Phone == a.Phone {
			return utils.ErrDuplicateAccount
		}
	}
	f.seq++
	a.ID = f.seq
	cp := *a
	f.byID[a.ID] = &cp
	return nil
}

func (f *fakeAccounts) GetByID(_ context.Context, id int) (*models.Account, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, utils.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	for _, a := range f.byID {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, utils.ErrAccountNotFound
}

func (f *fakeAccounts) Activate(_ context.Context, id int) error {
	a, ok := f.byID[id]
	if !ok {
		return utils.ErrAccountNotFound
	}
	a.IsActive = true
	return nil
}

func (f *fakeAccounts) SetPassword(_ context.Context, id int, hash string) error {
	a, ok := f.byID[id]
	if !ok {
		return utils.ErrAccountNotFound
	}
	a.PasswordHash = hash
	return nil
}

func (f *fakeAccounts) UpdateProfile(_ context.Context, a *models.Account) error {
	if _, ok := f.byID[a.ID]; !ok {
		return utils.ErrAccountNotFound
	}
	cp := *a
	f.byID[a.ID] = &cp
	return nil
}

func (f *fakeAccounts) Delete(_ context.Context, id int) error {
	delete(f.byID, id)
	return nil
}

type fakeShops struct {
	seq  int
	byID map[int]*models.Shop
}

func newFakeShops() *fakeShops {
	return &fakeShops{byID: make(map[int]*models.Shop)}
}

func (f *fakeShops) Create(_ context.Context, s *models.Shop) error {
	f.seq++
	s.ID = f.seq
	cp := *s
	f.byID[s.ID] = &cp
	return nil
}

func (f *fakeShops) GetByID(_ context.Context, id int) (*models.Shop, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, utils.ErrShopNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeShops) GetByAccount(_ context.Context, accountID int) (*models.Shop, error) {
	for _, s := range f.byID {
		if s.AccountID == accountID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, utils.ErrShopNotFound
}

func (f *fakeShops) List(_ context.Context) ([]models.Shop, error) {
	out := make([]models.Shop, 0, len(f.byID))
	for _, s := range f.byID {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeShops) SetAcceptingOrders(_ context.Context, shopID int, accepting bool) error {
	s, ok := f.byID[shopID]
	if !ok {
		return utils.ErrShopNotFound
	}
	s.AcceptingOrders = accepting
	return nil
}

func (f *fakeShops) SetFeedURL(_ context.Context, shopID int, url string) error {
	s, ok := f.byID[shopID]
	if !ok {
		return utils.ErrShopNotFound
	}
	s.FeedURL = &url
	return nil
}

func (f *fakeShops) UpdateName(_ context.Context, accountID int, name string) error {
	for _, s := range f.byID {
		if s.AccountID == accountID {
			s.Name = name
			return nil
		}
	}
	return utils.ErrShopNotFound
}

type fakeContacts struct {
	seq  int
	byID map[int]*models.Contact
}

func newFakeContacts() *fakeContacts {
	return &fakeContacts{byID: make(map[int]*models.Contact)}
}

func (f *fakeContacts) ListByAccount(_ context.Context, accountID int) ([]models.Contact, error) {
	var out []models.Contact
	for _, c := range f.byID {
		if c.AccountID == accountID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeContacts) GetByID(_ context.Context, id int) (*models.Contact, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, utils.ErrContactNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeContacts) CountByAccount(_ context.Context, accountID int) (int, error) {
	n := 0
	for _, c := range f.byID {
		if c.AccountID == accountID {
			n++
		}
	}
	return n, nil
}

func (f *fakeContacts) Create(_ context.Context, c *models.Contact) error {
	f.seq++
	c.ID = f.seq
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeContacts) Update(_ context.Context, c *models.Contact) error {
	if _, ok := f.byID[c.ID]; !ok {
		return utils.ErrContactNotFound
	}
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeContacts) Delete(_ context.Context, id int) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeContacts) SetFavorite(_ context.Context, accountID, contactID int) error {
	target, ok := f.byID[contactID]
	if !ok || target.AccountID != accountID {
		return utils.ErrContactNotFound
	}
	for _, c := range f.byID {
		if c.AccountID == accountID {
			c.Favorite = c.ID == contactID
		}
	}
	return nil
}

// fakeCatalog keys its tables on the same natural constraints the schema
// enforces, so a repeated merge hits the update path instead of inserting.
type fakeCatalog struct {
	categorySeq int
	categories  map[string]int // name -> id

	shopCategories map[[2]int]bool // (shopID, categoryID)

	productSeq int
	products   map[string]int // name|categoryID -> id

	listingSeq int
	listings   map[[3]int]*models.ProductInfo // (productID, shopID, externalID)
	listingsID map[int]*models.ProductInfo

	parameterSeq int
	parameters   map[string]int // name -> id

	productParameters map[[2]int]string // (listingID, parameterID) -> value

	shops *fakeShops
}

func newFakeCatalog(shops *fakeShops) *fakeCatalog {
	return &fakeCatalog{
		categories:        make(map[string]int),
		shopCategories:    make(map[[2]int]bool),
		products:          make(map[string]int),
		listings:          make(map[[3]int]*models.ProductInfo),
		listingsID:        make(map[int]*models.ProductInfo),
		parameters:        make(map[string]int),
		productParameters: make(map[[2]int]string),
		shops:             shops,
	}
}

// InTx snapshots the whole store and restores it when fn fails, mirroring the
// all-or-nothing semantics of the real transaction.
func (f *fakeCatalog) InTx(_ context.Context, fn func(tx storage.CatalogTx) error) error {
	snapshot := *f
	snapshot.categories = cloneMap(f.categories)
	snapshot.shopCategories = cloneMap(f.shopCategories)
	snapshot.products = cloneMap(f.products)
	snapshot.parameters = cloneMap(f.parameters)
	snapshot.productParameters = cloneMap(f.productParameters)
	snapshot.listings = cloneMap(f.listings)
	snapshot.listingsID = cloneMap(f.listingsID)

	if err := fn(f); err != nil {
		*f = snapshot
		return err
	}
	return nil
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (f *fakeCatalog) GetOrCreateCategory(_ context.Context, name string) (int, error) {
	if id, ok := f.categories[name]; ok {
		return id, nil
	}
	f.categorySeq++
	f.categories[name] = f.categorySeq
	return f.categorySeq, nil
}

func (f *fakeCatalog) LinkShopCategory(_ context.Context, shopID, categoryID int) error {
	f.shopCategories[[2]int{shopID, categoryID}] = true
	return nil
}

func (f *fakeCatalog) GetOrCreateProduct(_ context.Context, name string, categoryID int) (int, error) {
	key := fmt.Sprintf("%s|%d", name, categoryID)
	if id, ok := f.products[key]; ok {
		return id, nil
	}
	f.productSeq++
	f.products[key] = f.productSeq
	return f.productSeq, nil
}

func (f *fakeCatalog) UpsertListing(_ context.Context, l *models.ProductInfo) (int, error) {
	key := [3]int{l.ProductID, l.ShopID, l.ExternalID}
	if existing, ok := f.listings[key]; ok {
		l.ID = existing.ID
	} else {
		f.listingSeq++
		l.ID = f.listingSeq
	}
	cp := *l
	f.listings[key] = &cp
	f.listingsID[l.ID] = &cp
	return l.ID, nil
}

func (f *fakeCatalog) GetOrCreateParameter(_ context.Context, name string) (int, error) {
	if id, ok := f.parameters[name]; ok {
		return id, nil
	}
	f.parameterSeq++
	f.parameters[name] = f.parameterSeq
	return f.parameterSeq, nil
}

func (f *fakeCatalog) UpsertProductParameter(_ context.Context, listingID, parameterID int, value string) error {
	f.productParameters[[2]int{listingID, parameterID}] = value
	return nil
}

func (f *fakeCatalog) ListCategories(_ context.Context) ([]models.Category, error) {
	out := make([]models.Category, 0, len(f.categories))
	for name, id := range f.categories {
		out = append(out, models.Category{ID: id, Name: name})
	}
	return out, nil
}

func (f *fakeCatalog) SearchListings(_ context.Context, filter storage.ListingFilter) ([]models.ProductInfo, error) {
	var out []models.ProductInfo
	for _, l := range f.listingsID {
		if filter.ShopID != 0 && l.ShopID != filter.ShopID {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(l.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, *l)
	}
	return out, nil
}

func (f *fakeCatalog) GetListing(ctx context.Context, id int) (*storage.ListingDetail, error) {
	l, ok := f.listingsID[id]
	if !ok {
		return nil, utils.ErrListingNotFound
	}
	accepting := true
	if f.shops != nil {
		if shop, err := f.shops.GetByID(ctx, l.ShopID); err == nil {
			accepting = shop.AcceptingOrders
		}
	}
	return &storage.ListingDetail{ProductInfo: *l, ShopAccepting: accepting}, nil
}

func (f *fakeCatalog) ListingParameters(_ context.Context, listingID int) ([]models.ProductParameter, error) {
	var out []models.ProductParameter
	for name, id := range f.parameters {
		if value, ok := f.productParameters[[2]int{listingID, id}]; ok {
			out = append(out, models.ProductParameter{
				ProductInfoID: listingID,
				ParameterID:   id,
				Name:          name,
				Value:         value,
			})
		}
	}
	return out, nil
}

type fakeOrders struct {
	seq     int
	orders  map[int]*models.Order
	items   map[int]map[int]int // orderID -> listingID -> quantity
	catalog *fakeCatalog
}

func newFakeOrders(catalog *fakeCatalog) *fakeOrders {
	return &fakeOrders{
		orders:  make(map[int]*models.Order),
		items:   make(map[int]map[int]int),
		catalog: catalog,
	}
}

func (f *fakeOrders) InTx(_ context.Context, fn func(tx storage.OrderTx) error) error {
	return fn(f)
}

func (f *fakeOrders) GetOrCreateBasket(_ context.Context, accountID int) (int, error) {
	for _, o := range f.orders {
		if o.AccountID == accountID && o.Status == models.StatusBasket {
			return o.ID, nil
		}
	}
	f.seq++
	f.orders[f.seq] = &models.Order{ID: f.seq, AccountID: accountID, Status: models.StatusBasket}
	f.items[f.seq] = make(map[int]int)
	return f.seq, nil
}

func (f *fakeOrders) UpsertItem(_ context.Context, orderID, listingID, quantity int) error {
	f.items[orderID][listingID] = quantity
	return nil
}

func (f *fakeOrders) DeleteItem(_ context.Context, orderID, listingID int) (bool, error) {
	if _, ok := f.items[orderID][listingID]; !ok {
		return false, nil
	}
	delete(f.items[orderID], listingID)
	return true, nil
}

func (f *fakeOrders) CountItems(_ context.Context, orderID int) (int, error) {
	return len(f.items[orderID]), nil
}

func (f *fakeOrders) DeleteOrder(_ context.Context, orderID int) error {
	delete(f.orders, orderID)
	delete(f.items, orderID)
	return nil
}

func (f *fakeOrders) SetContact(_ context.Context, orderID, contactID int) error {
	o, ok := f.orders[orderID]
	if !ok {
		return utils.ErrBasketNotFound
	}
	o.ContactID = &contactID
	return nil
}

func (f *fakeOrders) Transition(_ context.Context, accountID int, from, to models.OrderStatus) (bool, error) {
	for _, o := range f.orders {
		if o.AccountID == accountID && o.Status == from {
			o.Status = to
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeOrders) BasketByAccount(_ context.Context, accountID int) (*models.Order, error) {
	for _, o := range f.orders {
		if o.AccountID == accountID && o.Status == models.StatusBasket {
			return f.withItems(o), nil
		}
	}
	return nil, nil
}

func (f *fakeOrders) OrdersByAccount(_ context.Context, accountID int) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.AccountID == accountID && o.Status != models.StatusBasket {
			out = append(out, *f.withItems(o))
		}
	}
	return out, nil
}

func (f *fakeOrders) SupplierItems(ctx context.Context, supplierAccountID int) ([]models.SupplierOrderItem, error) {
	shop, err := f.catalog.shops.GetByAccount(ctx, supplierAccountID)
	if err != nil {
		return nil, err
	}
	var out []models.SupplierOrderItem
	for _, o := range f.orders {
		if o.Status != models.StatusNew {
			continue
		}
		for listingID, qty := range f.items[o.ID] {
			l, ok := f.catalog.listingsID[listingID]
			if !ok || l.ShopID != shop.ID {
				continue
			}
			out = append(out, models.SupplierOrderItem{
				OrderID:       o.ID,
				ProductInfoID: listingID,
				ProductName:   l.Name,
				ExternalID:    l.ExternalID,
				Quantity:      qty,
				Price:         l.Price,
			})
		}
	}
	return out, nil
}

func (f *fakeOrders) withItems(o *models.Order) *models.Order {
	cp := *o
	cp.Items = nil
	for listingID, qty := range f.items[o.ID] {
		item := models.OrderItem{
			OrderID:       o.ID,
			ProductInfoID: listingID,
			Quantity:      qty,
		}
		if l, ok := f.catalog.listingsID[listingID]; ok {
			item.Price = l.Price
			item.ProductName = l.Name
		}
		cp.Items = append(cp.Items, item)
	}
	return &cp
}

type fakeFetcher struct {
	feed *feed.Feed
	err  error
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string) (*feed.Feed, error) {
	return f.feed, f.err
}
