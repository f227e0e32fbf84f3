package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/retailnet/retail_api/internal/service"
	"github.com/retailnet/retail_api/internal/storage"
	"github.com/retailnet/retail_api/internal/utils"
)

// CatalogHandler handles public catalog and supplier shop endpoints.
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListShops handles GET /v1/shops
func (h *CatalogHandler) ListShops(c *gin.Context) {
	shops, err := h.catalogService.Shops(c.Request.Context())
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Success(c, 200, "Shops retrieved", gin.H{
		"shops": shops,
		"total": len(shops),
	})
}

// ListCategories handles GET /v1/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.Categories(c.Request.Context())
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Success(c, 200, "Categories retrieved", gin.H{
		"categories": categories,
		"total":      len(categories),
	})
}

// ListProducts handles GET /v1/products with shop/category/search filters.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	shopID, _ := strconv.Atoi(c.DefaultQuery("shop", "0"))
	categoryID, _ := strconv.Atoi(c.DefaultQuery("category", "0"))

	listings, err := h.catalogService.Listings(c.Request.Context(), storage.ListingFilter{
		ShopID:     shopID,
		CategoryID: categoryID,
		Search:     c.Query("search"),
	})
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Success(c, 200, "Products retrieved", gin.H{
		"products": listings,
		"total":    len(listings),
	})
}

// GetProduct handles GET /v1/products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid product ID")
		return
	}

	listing, params, err := h.catalogService.ListingDetail(c.Request.Context(), id)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Success(c, 200, "Product retrieved", gin.H{
		"product":    listing,
		"parameters": params,
	})
}

type loadFeedRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// LoadFeed handles POST /v1/shop/feed — supplier catalog ingestion.
func (h *CatalogHandler) LoadFeed(c *gin.Context) {
	var req loadFeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	report, err := h.catalogService.Load(c.Request.Context(), c.GetInt("account_id"), req.URL)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Success(c, 200, "Catalog loaded", report)
}

type shopStatusRequest struct {
	AcceptingOrders *bool `json:"acceptingOrders" binding:"required"`
}

// SetShopStatus handles PATCH /v1/shop/status — accepting-orders toggle.
func (h *CatalogHandler) SetShopStatus(c *gin.Context) {
	var req shopStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	shop, err := h.catalogService.SetAcceptingOrders(c.Request.Context(), c.GetInt("account_id"), *req.AcceptingOrders)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Success(c, 200, "Shop status updated", shop)
}
