package repository

import (
	"context"

	"storefront-service/internal/domain"
)

type OrderRepository interface {
	Save(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	FindByUserID(ctx context.Context, userID uint64) ([]domain.Order, error)
	FindAll(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) (bool, error)
	Delete(ctx context.Context, id uint64) (bool, error)
}
