package services

import (
	"context"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/repository"
)

type OrderService struct {
	repo   repository.OrderRepository
	events *EventEmitter
}

func NewOrderService(r repository.OrderRepository, events *EventEmitter) *OrderService {
	return &OrderService{
		repo:   r,
		events: events,
	}
}

func (u *OrderService) ListForUser(ctx context.Context, userID uint64) ([]domain.Order, error) {
	o, err := u.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		o = []domain.Order{}
	}
	return o, nil
}

func (u *OrderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	o, err := u.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if o == nil {
		o = []domain.Order{}
	}
	return o, nil
}

// GetForUser hides orders owned by someone else behind the same not found
// error as missing ones.
func (u *OrderService) GetForUser(ctx context.Context, id, userID uint64) (*domain.Order, error) {
	o, err := u.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

func (u *OrderService) GetByID(ctx context.Context, id uint64) (*domain.Order, error) {
	o, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

func (u *OrderService) UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.Validation("invalid status %q", status)
	}

	ok, err := u.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrOrderNotFound
	}

	o, err := u.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.events.Emit(domain.EventOrderStatusUpdated, domain.OrderStatusUpdatedEvent{
		OrderID:   o.ID,
		Status:    o.Status,
		UpdatedAt: o.UpdatedAt,
	})
	return o, nil
}

// Delete removes an order. Stock is not given back.
func (u *OrderService) Delete(ctx context.Context, id uint64) error {
	ok, err := u.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrOrderNotFound
	}
	u.events.Emit(domain.EventOrderDeleted, domain.OrderDeletedEvent{
		OrderID:   id,
		DeletedAt: time.Now().UTC(),
	})
	return nil
}
