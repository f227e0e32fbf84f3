package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/retailnet/retail_api/internal/models"
	"github.com/retailnet/retail_api/internal/storage"
	"github.com/retailnet/retail_api/internal/utils"
	"github.com/retailnet/retail_api/pkg/feed"
)

// CatalogService ingests supplier feeds and serves the public catalog.
type CatalogService struct {
	catalog storage.CatalogStore
	shops   storage.ShopStore
	fetcher FeedFetcher
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(catalog storage.CatalogStore, shops storage.ShopStore, fetcher FeedFetcher) *CatalogService {
	return &CatalogService{catalog: catalog, shops: shops, fetcher: fetcher}
}

// MergeReport summarizes one feed ingestion.
type MergeReport struct {
	Categories int `json:"categories"`
	Goods      int `json:"goods"`
	Parameters int `json:"parameters"`
}

// Load persists the feed URL on the supplier's shop, fetches the document and
// merges it. A failed fetch leaves the catalog untouched.
func (s *CatalogService) Load(ctx context.Context, supplierAccountID int, url string) (*MergeReport, error) {
	shop, err := s.shops.GetByAccount(ctx, supplierAccountID)
	if err != nil {
		return nil, err
	}
	if err := s.shops.SetFeedURL(ctx, shop.ID, url); err != nil {
		return nil, err
	}

	f, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, utils.E(utils.KindValidation, "INVALID_FEED", err.Error())
	}
	return s.Merge(ctx, supplierAccountID, f)
}

// Merge reconciles a feed against the catalog idempotently. All writes run in
// one transaction: any item-level failure rolls back the whole call. Stages
// are ordered (categories first), order-independent within each stage.
func (s *CatalogService) Merge(ctx context.Context, supplierAccountID int, f *feed.Feed) (*MergeReport, error) {
	if len(f.Categories) == 0 && len(f.Goods) == 0 {
		return nil, utils.Validation("INVALID_FEED", "Feed has no categories or goods")
	}

	shop, err := s.shops.GetByAccount(ctx, supplierAccountID)
	if err != nil {
		return nil, err
	}

	report := &MergeReport{}
	err = s.catalog.InTx(ctx, func(tx storage.CatalogTx) error {
		// Stage 1: categories. The feed's own category ids map to catalog
		// rows for the goods stage; no cross-feed lookup exists.
		categoryIDs := make(map[int]int, len(f.Categories))
		for _, fc := range f.Categories {
			id, err := tx.GetOrCreateCategory(ctx, fc.Name)
			if err != nil {
				return err
			}
			if err := tx.LinkShopCategory(ctx, shop.ID, id); err != nil {
				return err
			}
			categoryIDs[fc.ID] = id
		}
		report.Categories = len(categoryIDs)

		// Stage 2: goods.
		for _, g := range f.Goods {
			categoryID, ok := categoryIDs[g.Category]
			if !ok {
				return utils.Validation("UNKNOWN_CATEGORY",
					"Good references a category missing from the feed")
			}

			productID, err := tx.GetOrCreateProduct(ctx, g.Name, categoryID)
			if err != nil {
				return err
			}

			listing := &models.ProductInfo{
				ProductID:  productID,
				ShopID:     shop.ID,
				ExternalID: g.ID,
				Name:       g.Name,
				Quantity:   g.Quantity,
				Price:      g.Price,
				PriceRRC:   g.PriceRRC,
			}
			listingID, err := tx.UpsertListing(ctx, listing)
			if err != nil {
				return err
			}
			report.Goods++

			for name, value := range g.Parameters {
				parameterID, err := tx.GetOrCreateParameter(ctx, name)
				if err != nil {
					return err
				}
				if err := tx.UpsertProductParameter(ctx, listingID, parameterID, value); err != nil {
					return err
				}
				report.Parameters++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("shop_id", shop.ID).
		Int("categories", report.Categories).
		Int("goods", report.Goods).
		Msg("catalog feed merged")
	return report, nil
}

// Categories returns all categories.
func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.catalog.ListCategories(ctx)
}

// Listings returns listings matching the filter.
func (s *CatalogService) Listings(ctx context.Context, filter storage.ListingFilter) ([]models.ProductInfo, error) {
	return s.catalog.SearchListings(ctx, filter)
}

// ListingDetail returns one listing with its parameter values.
func (s *CatalogService) ListingDetail(ctx context.Context, id int) (*storage.ListingDetail, []models.ProductParameter, error) {
	listing, err := s.catalog.GetListing(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	params, err := s.catalog.ListingParameters(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return listing, params, nil
}

// Shops returns all supplier profiles.
func (s *CatalogService) Shops(ctx context.Context) ([]models.Shop, error) {
	return s.shops.List(ctx)
}

// SetAcceptingOrders toggles the accepting-orders flag on the supplier's shop.
func (s *CatalogService) SetAcceptingOrders(ctx context.Context, supplierAccountID int, accepting bool) (*models.Shop, error) {
	shop, err := s.shops.GetByAccount(ctx, supplierAccountID)
	if err != nil {
		return nil, err
	}
	if err := s.shops.SetAcceptingOrders(ctx, shop.ID, accepting); err != nil {
		return nil, err
	}
	shop.AcceptingOrders = accepting
	return shop, nil
}
