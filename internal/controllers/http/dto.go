package http

import (
	"storefront-service/internal/domain"

	"github.com/shopspring/decimal"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

// UserForm is accepted as JSON or as multipart fields next to profileImage.
type UserForm struct {
	Name     *string      `json:"name" form:"name"`
	Email    *string      `json:"email" form:"email"`
	Password string       `json:"password" form:"password"`
	Role     *domain.Role `json:"role" form:"role"`
}

// ProductForm is accepted as JSON or as multipart fields next to image.
type ProductForm struct {
	Name        *string          `json:"name" form:"name"`
	Price       *decimal.Decimal `json:"price" form:"price"`
	Stock       *int             `json:"stock" form:"stock"`
	Description *string          `json:"description" form:"description"`
}

type AddToCartRequest struct {
	ProductID uint64 `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type UpdateOrderStatusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
