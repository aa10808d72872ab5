package http

import (
	"net/http"

	"storefront-service/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "products retrieved", "products": products})
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	p, err := h.products.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product retrieved", "product": p})
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var form ProductForm
	if err := c.ShouldBind(&form); err != nil {
		respondError(c, errInvalidBody)
		return
	}
	image, closeImage, err := formImage(c, "image")
	if err != nil {
		respondError(c, err)
		return
	}
	defer closeImage()

	p, err := h.products.Create(c.Request.Context(), services.ProductInput{
		Name:        deref(form.Name),
		Price:       form.Price,
		Stock:       form.Stock,
		Description: deref(form.Description),
	}, image)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "product created", "product": p})
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var form ProductForm
	if err := c.ShouldBind(&form); err != nil {
		respondError(c, errInvalidBody)
		return
	}
	image, closeImage, err := formImage(c, "image")
	if err != nil {
		respondError(c, err)
		return
	}
	defer closeImage()

	p, err := h.products.Update(c.Request.Context(), id, services.ProductPatch{
		Name:        form.Name,
		Price:       form.Price,
		Stock:       form.Stock,
		Description: form.Description,
	}, image)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product updated", "product": p})
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	p, warning, err := h.products.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, withWarning(gin.H{"message": "product deleted", "product": p}, warning))
}
