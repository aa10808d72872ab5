package mysql

import (
	"context"
	"errors"

	"storefront-service/internal/domain"
	"storefront-service/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type cartRepo struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) repository.CartRepository {
	return &cartRepo{db: db}
}

func (r *cartRepo) FindByUserID(ctx context.Context, userID uint64) (*domain.Cart, error) {
	return r.find(r.db.WithContext(ctx), userID, false)
}

// GetOrCreate relies on the unique user_id index so that two concurrent
// first adds end up sharing one cart. The cart and its items are then read
// with FOR UPDATE: inside a transaction this waits for other writers to the
// same cart and sees their committed lines instead of an older snapshot.
func (r *cartRepo) GetOrCreate(ctx context.Context, userID uint64) (*domain.Cart, error) {
	db := r.db.WithContext(ctx)
	cart := &domain.Cart{UserID: userID}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(cart).Error; err != nil {
		return nil, err
	}
	c, err := r.find(db, userID, true)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, errors.New("cart vanished after create")
	}
	return c, nil
}

func (r *cartRepo) find(db *gorm.DB, userID uint64, lock bool) (*domain.Cart, error) {
	items := func(db *gorm.DB) *gorm.DB {
		if lock {
			db = db.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		return db.Order("id ASC")
	}
	q := db.Preload("Items", items).Preload("Items.Product")
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var c domain.Cart
	if err := q.Where("user_id = ?", userID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *cartRepo) AddItem(ctx context.Context, item *domain.CartItem) error {
	return r.db.WithContext(ctx).Omit("Product").Create(item).Error
}

func (r *cartRepo) UpdateItemQuantity(ctx context.Context, itemID uint64, qty int) error {
	return r.db.WithContext(ctx).Model(&domain.CartItem{}).Where("id = ?", itemID).Update("quantity", qty).Error
}

func (r *cartRepo) DeleteItem(ctx context.Context, itemID uint64) error {
	return r.db.WithContext(ctx).Delete(&domain.CartItem{}, itemID).Error
}

func (r *cartRepo) DeleteByUserID(ctx context.Context, userID uint64) error {
	db := r.db.WithContext(ctx)
	sub := db.Model(&domain.Cart{}).Select("id").Where("user_id = ?", userID)
	if err := db.Where("cart_id IN (?)", sub).Delete(&domain.CartItem{}).Error; err != nil {
		return err
	}
	return db.Where("user_id = ?", userID).Delete(&domain.Cart{}).Error
}
