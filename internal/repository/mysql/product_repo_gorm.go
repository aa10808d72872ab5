package mysql

import (
	"context"
	"errors"

	"storefront-service/internal/domain"
	"storefront-service/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type productRepo struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Save(ctx context.Context, product *domain.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return err
	}
	if product.ID == 0 {
		return errors.New("failed to assign product ID")
	}
	return nil
}

func (r *productRepo) Update(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	return r.first(r.db.WithContext(ctx), id)
}

func (r *productRepo) FindByIDForUpdate(ctx context.Context, id uint64) (*domain.Product, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *productRepo) first(db *gorm.DB, id uint64) (*domain.Product, error) {
	var p domain.Product
	if err := db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) FindAll(ctx context.Context) ([]domain.Product, error) {
	out := []domain.Product{}
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *productRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&domain.Product{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DecrementStock is a single conditional UPDATE, so concurrent writers can
// never drive stock below zero.
func (r *productRepo) DecrementStock(ctx context.Context, id uint64, qty int) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}
