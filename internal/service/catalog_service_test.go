package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailnet/retail_api/internal/models"
	"github.com/retailnet/retail_api/internal/utils"
	"github.com/retailnet/retail_api/pkg/feed"
)

func testFeed() *feed.Feed {
	return &feed.Feed{
		Shop: "Svyaznoy",
		Categories: []feed.Category{
			{ID: 224, Name: "Smartphones"},
			{ID: 15, Name: "Accessories"},
		},
		Goods: []feed.Good{
			{
				ID: 4216292, Category: 224, Name: "iPhone XS Max 512GB",
				Price: 110000, PriceRRC: 116990, Quantity: 14,
				Parameters: map[string]string{"Color": "golden", "Memory (GB)": "512"},
			},
			{
				ID: 4216313, Category: 15, Name: "Protective glass",
				Price: 350, PriceRRC: 490, Quantity: 100,
			},
		},
	}
}

func newCatalogFixture(t *testing.T) (*CatalogService, *fakeCatalog, *fakeShops, int) {
	t.Helper()
	shops := newFakeShops()
	shop := &models.Shop{AccountID: 10, Name: "Svyaznoy"}
	require.NoError(t, shops.Create(context.Background(), shop))

	catalog := newFakeCatalog(shops)
	svc := NewCatalogService(catalog, shops, &fakeFetcher{feed: testFeed()})
	return svc, catalog, shops, 10
}

func TestMergeCreatesCatalog(t *testing.T) {
	svc, catalog, _, accountID := newCatalogFixture(t)

	report, err := svc.Merge(context.Background(), accountID, testFeed())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Categories)
	assert.Equal(t, 2, report.Goods)
	assert.Equal(t, 2, report.Parameters)

	assert.Len(t, catalog.categories, 2)
	assert.Len(t, catalog.products, 2)
	assert.Len(t, catalog.listings, 2)
	assert.Len(t, catalog.shopCategories, 2)
}

func TestMergeIsIdempotent(t *testing.T) {
	svc, catalog, _, accountID := newCatalogFixture(t)

	_, err := svc.Merge(context.Background(), accountID, testFeed())
	require.NoError(t, err)

	// Second run with updated stock touches the same rows instead of
	// duplicating them.
	f := testFeed()
	f.Goods[0].Quantity = 5
	f.Goods[0].Price = 99000

	report, err := svc.Merge(context.Background(), accountID, f)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Goods)

	assert.Len(t, catalog.categories, 2)
	assert.Len(t, catalog.products, 2)
	assert.Len(t, catalog.listings, 2)
	assert.Len(t, catalog.parameters, 2)

	listing, err := catalog.GetListing(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 5, listing.Quantity)
	assert.Equal(t, 99000.0, listing.Price)
}

func TestMergeUnknownCategoryRollsBack(t *testing.T) {
	svc, catalog, _, accountID := newCatalogFixture(t)

	f := testFeed()
	f.Goods[1].Category = 999 // not declared in the document

	_, err := svc.Merge(context.Background(), accountID, f)
	require.Error(t, err)
	assert.Equal(t, "UNKNOWN_CATEGORY", utils.APICode(err))

	// Nothing from the failed run survives, categories included.
	assert.Empty(t, catalog.categories)
	assert.Empty(t, catalog.listings)
	assert.Empty(t, catalog.products)
}

func TestMergeRejectsEmptyFeed(t *testing.T) {
	svc, _, _, accountID := newCatalogFixture(t)

	_, err := svc.Merge(context.Background(), accountID, &feed.Feed{Shop: "Empty"})
	require.Error(t, err)
	assert.Equal(t, "INVALID_FEED", utils.APICode(err))
}

func TestLoadStoresFeedURL(t *testing.T) {
	svc, _, shops, accountID := newCatalogFixture(t)

	report, err := svc.Load(context.Background(), accountID, "https://supplier.example/feed.yaml")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Goods)

	shop, err := shops.GetByAccount(context.Background(), accountID)
	require.NoError(t, err)
	require.NotNil(t, shop.FeedURL)
	assert.Equal(t, "https://supplier.example/feed.yaml", *shop.FeedURL)
}

func TestLoadFetchFailureLeavesCatalogUntouched(t *testing.T) {
	shops := newFakeShops()
	require.NoError(t, shops.Create(context.Background(), &models.Shop{AccountID: 10, Name: "Svyaznoy"}))
	catalog := newFakeCatalog(shops)
	svc := NewCatalogService(catalog, shops, &fakeFetcher{err: assert.AnError})

	_, err := svc.Load(context.Background(), 10, "https://supplier.example/feed.yaml")
	require.Error(t, err)
	assert.Equal(t, "INVALID_FEED", utils.APICode(err))
	assert.Empty(t, catalog.listings)
}

func TestSetAcceptingOrders(t *testing.T) {
	svc, _, shops, accountID := newCatalogFixture(t)

	shop, err := svc.SetAcceptingOrders(context.Background(), accountID, true)
	require.NoError(t, err)
	assert.True(t, shop.AcceptingOrders)

	stored, err := shops.GetByAccount(context.Background(), accountID)
	require.NoError(t, err)
	assert.True(t, stored.AcceptingOrders)

	_, err = svc.SetAcceptingOrders(context.Background(), accountID, false)
	require.NoError(t, err)
	stored, err = shops.GetByAccount(context.Background(), accountID)
	require.NoError(t, err)
	assert.False(t, stored.AcceptingOrders)
}
