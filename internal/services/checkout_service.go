package services

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra/redisx"
	"storefront-service/internal/repository"
)

// CheckoutService turns a cart into an order. Stock decrements, the order
// insert and the cart removal commit or roll back together.
type CheckoutService struct {
	tx     repository.Transactor
	events *EventEmitter
	cache  redisx.ProductCacheInterface
}

func NewCheckoutService(tx repository.Transactor, events *EventEmitter) *CheckoutService {
	return &CheckoutService{tx: tx, events: events}
}

func (s *CheckoutService) SetCache(c redisx.ProductCacheInterface) {
	s.cache = c
}

func (s *CheckoutService) Checkout(ctx context.Context, userID uint64) (*domain.Order, error) {
	var order *domain.Order
	err := s.tx.WithinTx(ctx, func(r repository.Repositories) error {
		cart, err := r.Carts.FindByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if cart == nil || len(cart.Items) == 0 {
			return domain.ErrEmptyCart
		}

		// Lock every product row first, in ascending id order, so the checks
		// below and the decrements see the same stock and concurrent
		// checkouts cannot lock in opposite orders.
		need := make(map[uint64]int, len(cart.Items))
		names := make(map[uint64]string, len(cart.Items))
		ids := make([]uint64, 0, len(cart.Items))
		for _, it := range cart.Items {
			if _, seen := need[it.ProductID]; !seen {
				ids = append(ids, it.ProductID)
				names[it.ProductID] = it.NameAtAdded
			}
			need[it.ProductID] += it.Quantity
		}
		slices.Sort(ids)

		products := make(map[uint64]*domain.Product, len(ids))
		for _, id := range ids {
			p, err := r.Products.FindByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if p == nil {
				return domain.Validation("product %s is no longer available", names[id])
			}
			if p.Stock < need[id] {
				return insufficientStock(p)
			}
			products[id] = p
		}

		items := make([]domain.OrderItem, 0, len(cart.Items))
		for _, it := range cart.Items {
			p := products[it.ProductID]
			if err := r.Products.DecrementStock(ctx, p.ID, it.Quantity); err != nil {
				if errors.Is(err, domain.ErrInsufficientStock) {
					return insufficientStock(p)
				}
				return err
			}
			items = append(items, domain.OrderItem{
				ProductID:    p.ID,
				NameAtOrder:  p.Name,
				PriceAtOrder: p.Price,
				Quantity:     it.Quantity,
			})
		}

		o := &domain.Order{
			UserID: userID,
			Items:  items,
			Status: domain.StatusPending,
		}
		o.Total = o.ComputeTotal()
		if err := r.Orders.Save(ctx, o); err != nil {
			return err
		}

		if err := r.Carts.DeleteByUserID(ctx, userID); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "order placed", "order_id", order.ID, "user_id", userID, "total", order.Total.String())
	s.invalidate(ctx, order)
	s.events.Emit(domain.EventOrderCreated, domain.NewOrderCreatedEvent(order))
	return order, nil
}

func (s *CheckoutService) invalidate(ctx context.Context, o *domain.Order) {
	if s.cache == nil {
		return
	}
	ids := make([]uint64, 0, len(o.Items))
	for _, it := range o.Items {
		ids = append(ids, it.ProductID)
	}
	if err := s.cache.Delete(ctx, ids...); err != nil {
		slog.WarnContext(ctx, "product cache invalidation failed", "order_id", o.ID, "error", err)
	}
}

func insufficientStock(p *domain.Product) error {
	return domain.Validation("insufficient stock for %s", p.Name)
}
