package services

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra/assets"
	"storefront-service/internal/infra/redisx"
	"storefront-service/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

type ProductInput struct {
	Name        string
	Price       *decimal.Decimal
	Stock       *int
	Description string
}

// ProductPatch holds the fields of a partial update; nil means unchanged.
type ProductPatch struct {
	Name        *string
	Price       *decimal.Decimal
	Stock       *int
	Description *string
}

type ProductService struct {
	repo   repository.ProductRepository
	tx     repository.Transactor
	assets assets.StoreInterface
	cache  redisx.ProductCacheInterface
	group  singleflight.Group
}

func NewProductService(r repository.ProductRepository, tx repository.Transactor, store assets.StoreInterface) *ProductService {
	return &ProductService{
		repo:   r,
		tx:     tx,
		assets: store,
	}
}

func (s *ProductService) SetCache(c redisx.ProductCacheInterface) {
	s.cache = c
}

func (s *ProductService) Create(ctx context.Context, in ProductInput, image *assets.Upload) (*domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Validation("name is required")
	}
	if in.Price == nil {
		return nil, domain.Validation("price is required")
	}
	if err := validatePrice(*in.Price); err != nil {
		return nil, err
	}
	stock := 0
	if in.Stock != nil {
		stock = *in.Stock
	}
	if err := validateStock(stock); err != nil {
		return nil, err
	}

	p := &domain.Product{
		Name:        name,
		Price:       *in.Price,
		Stock:       stock,
		Description: strings.TrimSpace(in.Description),
	}
	if image != nil {
		stored, err := s.assets.Save(ctx, assets.KindProducts, image)
		if err != nil {
			return nil, err
		}
		p.Image = stored
	}

	if err := s.repo.Save(ctx, p); err != nil {
		s.removeAsset(ctx, p.Image)
		return nil, err
	}
	return p, nil
}

func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

// GetByID reads through the product cache. Concurrent misses for the same id
// share one database query.
func (s *ProductService) GetByID(ctx context.Context, id uint64) (*domain.Product, error) {
	if s.cache != nil {
		p, err := s.cache.Get(ctx, id)
		if err != nil {
			slog.WarnContext(ctx, "product cache read failed", "product_id", id, "error", err)
		} else if p != nil {
			return p, nil
		}
	}

	v, err, _ := s.group.Do(strconv.FormatUint(id, 10), func() (any, error) {
		p, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.ErrProductNotFound
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, p); err != nil {
				slog.WarnContext(ctx, "product cache write failed", "product_id", id, "error", err)
			}
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Product), nil
}

func (s *ProductService) Update(ctx context.Context, id uint64, patch ProductPatch, image *assets.Upload) (*domain.Product, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, domain.Validation("name cannot be empty")
	}
	if patch.Price != nil {
		if err := validatePrice(*patch.Price); err != nil {
			return nil, err
		}
	}
	if patch.Stock != nil {
		if err := validateStock(*patch.Stock); err != nil {
			return nil, err
		}
	}

	var newImage string
	if image != nil {
		stored, err := s.assets.Save(ctx, assets.KindProducts, image)
		if err != nil {
			return nil, err
		}
		newImage = stored
	}

	var (
		updated  *domain.Product
		oldImage string
	)
	err := s.tx.WithinTx(ctx, func(r repository.Repositories) error {
		p, err := r.Products.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrProductNotFound
		}

		if patch.Name != nil {
			p.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Price != nil {
			p.Price = *patch.Price
		}
		if patch.Stock != nil {
			p.Stock = *patch.Stock
		}
		if patch.Description != nil {
			p.Description = strings.TrimSpace(*patch.Description)
		}
		if newImage != "" {
			oldImage = p.Image
			p.Image = newImage
		}

		if err := r.Products.Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		s.removeAsset(ctx, newImage)
		return nil, err
	}

	s.invalidate(ctx, id)
	s.removeAsset(ctx, oldImage)
	return updated, nil
}

// Delete removes the product and then its image. The returned warning is
// non-empty when the record was deleted but the image could not be.
func (s *ProductService) Delete(ctx context.Context, id uint64) (*domain.Product, string, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if p == nil {
		return nil, "", domain.ErrProductNotFound
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if !deleted {
		return nil, "", domain.ErrProductNotFound
	}
	s.invalidate(ctx, id)

	var warning string
	if p.Image != "" {
		if err := s.assets.Delete(ctx, assets.KindProducts, p.Image); err != nil {
			slog.ErrorContext(ctx, "failed to delete product image", "product_id", id, "image", p.Image, "error", err)
			warning = "product deleted but its image could not be removed"
		}
	}
	return p, warning, nil
}

func (s *ProductService) invalidate(ctx context.Context, ids ...uint64) {
	if s.cache == nil || len(ids) == 0 {
		return
	}
	if err := s.cache.Delete(ctx, ids...); err != nil {
		slog.WarnContext(ctx, "product cache invalidation failed", "product_ids", ids, "error", err)
	}
}

func (s *ProductService) removeAsset(ctx context.Context, name string) {
	if name == "" {
		return
	}
	if err := s.assets.Delete(ctx, assets.KindProducts, name); err != nil {
		slog.ErrorContext(ctx, "failed to delete product image", "image", name, "error", err)
	}
}

func validatePrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return domain.Validation("price must be a non-negative number")
	}
	return nil
}

func validateStock(n int) error {
	if n < 0 {
		return domain.Validation("stock must be a non-negative integer")
	}
	return nil
}
