package mysql

import (
	"context"
	"errors"
	"log/slog"

	"storefront-service/internal/domain"
	"storefront-service/internal/repository"

	"gorm.io/gorm"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

// Save inserts the order together with its items.
func (r *orderRepo) Save(ctx context.Context, order *domain.Order) error {
	result := r.db.WithContext(ctx).Create(order)
	if result.Error != nil {
		slog.Error("order save failed", "error", result.Error)
		return result.Error
	}
	if order.ID == 0 {
		slog.Warn("order saved but id was not assigned", "rows", result.RowsAffected)
		return errors.New("failed to assign order ID")
	}
	return nil
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Product")
}

func (r *orderRepo) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	var o domain.Order
	if err := withItems(r.db.WithContext(ctx)).First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindByUserID(ctx context.Context, userID uint64) ([]domain.Order, error) {
	out := []domain.Order{}
	err := withItems(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) FindAll(ctx context.Context) ([]domain.Order, error) {
	out := []domain.Order{}
	err := withItems(r.db.WithContext(ctx)).
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name", "email", "role") }).
		Order("created_at DESC").Order("id DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *orderRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&domain.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Order{}, id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}
