package http

import (
	"net/http"

	"storefront-service/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Checkout(c *gin.Context) {
	order, err := h.checkout.Checkout(c.Request.Context(), currentClaims(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "checkout successful", "order": order})
}

func (h *Handler) ListMyOrders(c *gin.Context) {
	orders, err := h.orders.ListForUser(c.Request.Context(), currentClaims(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "orders retrieved", "orders": orders})
}

func (h *Handler) ListAllOrders(c *gin.Context) {
	orders, err := h.orders.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "orders retrieved", "orders": orders})
}

// GetOrder lets admins read any order; everyone else only their own.
func (h *Handler) GetOrder(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	claims := currentClaims(c)

	var order *domain.Order
	if claims.Role == domain.RoleAdmin {
		order, err = h.orders.GetByID(c.Request.Context(), id)
	} else {
		order, err = h.orders.GetForUser(c.Request.Context(), id, claims.UserID)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "order retrieved", "order": order})
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}
	order, err := h.orders.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "order status updated", "order": order})
}

func (h *Handler) DeleteOrder(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.orders.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "order deleted"})
}
