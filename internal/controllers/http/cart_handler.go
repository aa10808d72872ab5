package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.carts.GetOrEmpty(c.Request.Context(), currentClaims(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart retrieved", "cart": cart})
}

func (h *Handler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "productId and quantity are required")
		return
	}
	cart, err := h.carts.AddItem(c.Request.Context(), currentClaims(c).UserID, req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item added to cart", "cart": cart})
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	itemID, err := parseID(c, "itemId")
	if err != nil {
		respondError(c, err)
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	cart, err := h.carts.SetItemQuantity(c.Request.Context(), currentClaims(c).UserID, itemID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart item updated", "cart": cart})
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	itemID, err := parseID(c, "itemId")
	if err != nil {
		respondError(c, err)
		return
	}
	cart, err := h.carts.RemoveItem(c.Request.Context(), currentClaims(c).UserID, itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item removed from cart", "cart": cart})
}
