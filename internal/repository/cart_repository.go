package repository

import (
	"context"

	"storefront-service/internal/domain"
)

type CartRepository interface {
	FindByUserID(ctx context.Context, userID uint64) (*domain.Cart, error)
	// GetOrCreate returns the user's cart, creating an empty one if needed.
	GetOrCreate(ctx context.Context, userID uint64) (*domain.Cart, error)
	AddItem(ctx context.Context, item *domain.CartItem) error
	UpdateItemQuantity(ctx context.Context, itemID uint64, qty int) error
	DeleteItem(ctx context.Context, itemID uint64) error
	DeleteByUserID(ctx context.Context, userID uint64) error
}
