package services

import (
	"context"

	"storefront-service/internal/domain"
	"storefront-service/internal/repository"
)

type CartService struct {
	repo repository.CartRepository
	tx   repository.Transactor
}

func NewCartService(r repository.CartRepository, tx repository.Transactor) *CartService {
	return &CartService{repo: r, tx: tx}
}

// GetOrEmpty never creates a cart; a user without one gets the empty view.
func (s *CartService) GetOrEmpty(ctx context.Context, userID uint64) (domain.CartView, error) {
	c, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return domain.CartView{}, err
	}
	return domain.NewCartView(c), nil
}

// AddItem adds qty units of a product. Quantities accumulate on an existing
// line item and the sum is checked against stock.
func (s *CartService) AddItem(ctx context.Context, userID, productID uint64, qty int) (domain.CartView, error) {
	if qty < 1 {
		return domain.CartView{}, domain.Validation("quantity must be at least 1")
	}

	var view domain.CartView
	err := s.tx.WithinTx(ctx, func(r repository.Repositories) error {
		p, err := r.Products.FindByID(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrProductNotFound
		}
		if qty > p.Stock {
			return outOfStock(p)
		}

		c, err := r.Carts.GetOrCreate(ctx, userID)
		if err != nil {
			return err
		}

		if existing := c.FindProduct(productID); existing != nil {
			total := existing.Quantity + qty
			if total > p.Stock {
				return outOfStock(p)
			}
			if err := r.Carts.UpdateItemQuantity(ctx, existing.ID, total); err != nil {
				return err
			}
		} else {
			item := &domain.CartItem{
				CartID:       c.ID,
				ProductID:    p.ID,
				NameAtAdded:  p.Name,
				PriceAtAdded: p.Price,
				Quantity:     qty,
			}
			if err := r.Carts.AddItem(ctx, item); err != nil {
				return err
			}
		}

		view, err = reloadCart(ctx, r.Carts, userID)
		return err
	})
	if err != nil {
		return domain.CartView{}, err
	}
	return view, nil
}

// SetItemQuantity overwrites the quantity of one line item.
func (s *CartService) SetItemQuantity(ctx context.Context, userID, itemID uint64, qty int) (domain.CartView, error) {
	if qty < 1 {
		return domain.CartView{}, domain.Validation("quantity must be at least 1")
	}

	var view domain.CartView
	err := s.tx.WithinTx(ctx, func(r repository.Repositories) error {
		item, err := findCartItem(ctx, r.Carts, userID, itemID)
		if err != nil {
			return err
		}

		p, err := r.Products.FindByID(ctx, item.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrProductNotFound
		}
		if qty > p.Stock {
			return outOfStock(p)
		}

		if err := r.Carts.UpdateItemQuantity(ctx, itemID, qty); err != nil {
			return err
		}
		view, err = reloadCart(ctx, r.Carts, userID)
		return err
	})
	if err != nil {
		return domain.CartView{}, err
	}
	return view, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uint64) (domain.CartView, error) {
	var view domain.CartView
	err := s.tx.WithinTx(ctx, func(r repository.Repositories) error {
		if _, err := findCartItem(ctx, r.Carts, userID, itemID); err != nil {
			return err
		}
		if err := r.Carts.DeleteItem(ctx, itemID); err != nil {
			return err
		}
		var err error
		view, err = reloadCart(ctx, r.Carts, userID)
		return err
	})
	if err != nil {
		return domain.CartView{}, err
	}
	return view, nil
}

func findCartItem(ctx context.Context, carts repository.CartRepository, userID, itemID uint64) (*domain.CartItem, error) {
	c, err := carts.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrCartNotFound
	}
	_, item := c.FindItem(itemID)
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	return item, nil
}

func reloadCart(ctx context.Context, carts repository.CartRepository, userID uint64) (domain.CartView, error) {
	c, err := carts.FindByUserID(ctx, userID)
	if err != nil {
		return domain.CartView{}, err
	}
	return domain.NewCartView(c), nil
}

func outOfStock(p *domain.Product) error {
	return domain.Capacity("only %d of %s in stock", p.Stock, p.Name)
}
