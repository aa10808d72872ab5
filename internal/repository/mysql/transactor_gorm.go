package mysql

import (
	"context"

	"storefront-service/internal/repository"

	"gorm.io/gorm"
)

type transactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) repository.Transactor {
	return &transactor{db: db}
}

// NewRepositories binds every repository to db, which may be a transaction.
func NewRepositories(db *gorm.DB) repository.Repositories {
	return repository.Repositories{
		Products: NewProductRepository(db),
		Carts:    NewCartRepository(db),
		Orders:   NewOrderRepository(db),
		Users:    NewUserRepository(db),
	}
}

func (t *transactor) WithinTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
