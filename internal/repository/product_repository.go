package repository

import (
	"context"

	"storefront-service/internal/domain"
)

type ProductRepository interface {
	Save(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uint64) (*domain.Product, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uint64) (*domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	Delete(ctx context.Context, id uint64) (bool, error)
	// DecrementStock subtracts qty only when stock >= qty and returns
	// domain.ErrInsufficientStock otherwise.
	DecrementStock(ctx context.Context, id uint64, qty int) error
}
