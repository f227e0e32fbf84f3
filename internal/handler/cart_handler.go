package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/retailnet/retail_api/internal/service"
	"github.com/retailnet/retail_api/internal/utils"
)

// CartHandler handles basket and order lifecycle endpoints.
type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler constructs a CartHandler.
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// GetBasket handles GET /v1/basket
func (h *CartHandler) GetBasket(c *gin.Context) {
	basket, err := h.cartService.ListBasket(c.Request.Context(), c.GetInt("account_id"))
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Success(c, 200, "Basket retrieved", gin.H{
		"order":         basket,
		"totalQuantity": basket.TotalQuantity(),
		"totalCost":     basket.TotalCost(),
	})
}

type basketItemRequest struct {
	ProductInfoID int `json:"productInfoId" binding:"required"`
	Quantity      int `json:"quantity" binding:"required"`
}

// AddItem handles POST /v1/basket/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req basketItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	basket, err := h.cartService.AddOrUpdateItem(c.Request.Context(), c.GetInt("account_id"), req.ProductInfoID, req.Quantity)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Success(c, 201, "Item added to basket", gin.H{
		"order":         basket,
		"totalQuantity": basket.TotalQuantity(),
		"totalCost":     basket.TotalCost(),
	})
}

// RemoveItem handles DELETE /v1/basket/items/:productInfoId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	listingID, err := strconv.Atoi(c.Param("productInfoId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid listing ID")
		return
	}

	if err := h.cartService.RemoveItem(c.Request.Context(), c.GetInt("account_id"), listingID); err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Success(c, 200, "Item removed from basket", nil)
}

type placeOrderRequest struct {
	ContactID int `json:"contactId" binding:"required"`
}

// PlaceOrder handles POST /v1/orders — attach contact, send confirmation key.
func (h *CartHandler) PlaceOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.cartService.Place(c.Request.Context(), c.GetInt("account_id"), req.ContactID); err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Success(c, 200, "Confirmation key sent", gin.H{"status": "confirmation_pending"})
}

type confirmOrderRequest struct {
	Key string `json:"key" binding:"required"`
}

// ConfirmOrder handles POST /v1/orders/confirm
func (h *CartHandler) ConfirmOrder(c *gin.Context) {
	var req confirmOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	order, err := h.cartService.Confirm(c.Request.Context(), c.GetInt("account_id"), req.Key)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Success(c, 200, "Order confirmed", gin.H{"order": order})
}

// ListOrders handles GET /v1/orders
func (h *CartHandler) ListOrders(c *gin.Context) {
	orders, err := h.cartService.ListOrders(c.Request.Context(), c.GetInt("account_id"))
	if err != nil {
		utils.Fail(c, err)
		return
	}

	type orderSummary struct {
		Order         any     `json:"order"`
		TotalQuantity int     `json:"totalQuantity"`
		TotalCost     float64 `json:"totalCost"`
	}
	summaries := make([]orderSummary, 0, len(orders))
	for i := range orders {
		summaries = append(summaries, orderSummary{
			Order:         &orders[i],
			TotalQuantity: orders[i].TotalQuantity(),
			TotalCost:     orders[i].TotalCost(),
		})
	}

	utils.Success(c, 200, "Orders retrieved", gin.H{
		"orders": summaries,
		"total":  len(summaries),
	})
}

// ListSupplierOrders handles GET /v1/shop/orders — the incoming queue.
func (h *CartHandler) ListSupplierOrders(c *gin.Context) {
	items, err := h.cartService.ListSupplierOrders(c.Request.Context(), c.GetInt("account_id"))
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Success(c, 200, "Incoming orders retrieved", gin.H{
		"items": items,
		"total": len(items),
	})
}
