package services

import (
	"testing"

	"storefront-service/internal/auth"
	"storefront-service/internal/domain"
	"storefront-service/internal/mocks"
	"storefront-service/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func init() { auth.Cost = bcrypt.MinCost }

const (
	TestUserID       = uint64(10)
	TestProductID    = uint64(1)
	TestOrderID      = uint64(100)
	TestProductName  = "Test Product"
	TestProductPrice = int64(1000)
)

type fixture struct {
	products *mocks.MockProductRepository
	carts    *mocks.MockCartRepository
	orders   *mocks.MockOrderRepository
	users    *mocks.MockUserRepository
	tx       *mocks.MockTransactor
	pub      *mocks.MockPublisher
	cache    *mocks.MockProductCache
	store    *mocks.MockAssetStore
}

func newFixture() *fixture {
	f := &fixture{
		products: new(mocks.MockProductRepository),
		carts:    new(mocks.MockCartRepository),
		orders:   new(mocks.MockOrderRepository),
		users:    new(mocks.MockUserRepository),
		pub:      new(mocks.MockPublisher),
		cache:    new(mocks.MockProductCache),
		store:    new(mocks.MockAssetStore),
	}
	f.tx = &mocks.MockTransactor{Repos: repository.Repositories{
		Products: f.products,
		Carts:    f.carts,
		Orders:   f.orders,
		Users:    f.users,
	}}
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	t.Helper()
	f.products.AssertExpectations(t)
	f.carts.AssertExpectations(t)
	f.orders.AssertExpectations(t)
	f.users.AssertExpectations(t)
	f.tx.AssertExpectations(t)
	f.pub.AssertExpectations(t)
	f.cache.AssertExpectations(t)
	f.store.AssertExpectations(t)
}

func CreateMockProduct(id uint64, name string, price int64, stock int) *domain.Product {
	return &domain.Product{
		ID:    id,
		Name:  name,
		Price: decimal.NewFromInt(price),
		Stock: stock,
	}
}

func CreateMockCart(userID uint64, items ...domain.CartItem) *domain.Cart {
	c := &domain.Cart{ID: 50, UserID: userID}
	for i, it := range items {
		it.CartID = c.ID
		if it.ID == 0 {
			it.ID = uint64(i + 1)
		}
		c.Items = append(c.Items, it)
	}
	return c
}

func CreateMockCartItem(productID uint64, name string, price int64, qty int) domain.CartItem {
	return domain.CartItem{
		ProductID:    productID,
		NameAtAdded:  name,
		PriceAtAdded: decimal.NewFromInt(price),
		Quantity:     qty,
	}
}

func CreateMockUser(id uint64, email string, role domain.Role, password string) *domain.User {
	hash, err := auth.HashPassword(password)
	if err != nil {
		panic(err)
	}
	return &domain.User{
		ID:           id,
		Name:         "Test User",
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
}
