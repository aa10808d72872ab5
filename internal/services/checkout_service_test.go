package services

import (
	"context"
	"errors"
	"testing"

	"storefront-service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCheckoutService(f *fixture) (*CheckoutService, *EventEmitter) {
	events := NewEventEmitter(f.pub)
	svc := NewCheckoutService(f.tx, events)
	svc.SetCache(f.cache)
	return svc, events
}

func TestCheckoutService_Checkout(t *testing.T) {
	tests := []struct {
		name          string
		setupMocks    func(f *fixture)
		expectedError string
		expectedKind  error
		expectedTotal int64
		committed     bool
	}{
		{
			name: "single item empties stock",
			setupMocks: func(f *fixture) {
				f.tx.On("WithinTx", mock.Anything).Return(nil)
				f.carts.On("FindByUserID", mock.Anything, TestUserID).
					Return(CreateMockCart(TestUserID, CreateMockCartItem(TestProductID, "A", 1000, 2)), nil)
				f.products.On("FindByIDForUpdate", mock.Anything, TestProductID).
					Return(CreateMockProduct(TestProductID, "A", 1000, 2), nil)
				f.products.On("DecrementStock", mock.Anything, TestProductID, 2).Return(nil)
				f.orders.On("Save", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil).Run(func(args mock.Arguments) {
					args.Get(1).(*domain.Order).ID = TestOrderID
				})
				f.carts.On("DeleteByUserID", mock.Anything, TestUserID).Return(nil)
				f.cache.On("Delete", mock.Anything, []uint64{TestProductID}).Return(nil)
				f.pub.On("Publish", mock.Anything, domain.EventOrderCreated, mock.AnythingOfType("domain.OrderCreatedEvent")).Return(nil)
			},
			expectedTotal: 2000,
			committed:     true,
		},
		{
			name: "charges live price",
			setupMocks: func(f *fixture) {
				f.tx.On("WithinTx", mock.Anything).Return(nil)
				f.carts.On("FindByUserID", mock.Anything, TestUserID).
					Return(CreateMockCart(TestUserID,
						CreateMockCartItem(TestProductID, "A", 1000, 2),
						CreateMockCartItem(2, "B", 300, 1),
					), nil)
				f.products.On("FindByIDForUpdate", mock.Anything, TestProductID).
					Return(CreateMockProduct(TestProductID, "A", 1200, 10), nil)
				f.products.On("FindByIDForUpdate", mock.Anything, uint64(2)).
					Return(CreateMockProduct(2, "B", 300, 1), nil)
				f.products.On("DecrementStock", mock.Anything, TestProductID, 2).Return(nil)
				f.products.On("DecrementStock", mock.Anything, uint64(2), 1).Return(nil)
				f.orders.On("Save", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)
				f.carts.On("DeleteByUserID", mock.Anything, TestUserID).Return(nil)
				f.cache.On("Delete", mock.Anything, []uint64{TestProductID, 2}).Return(nil)
				f.pub.On("Publish", mock.Anything, domain.EventOrderCreated, mock.Anything).Return(nil)
			},
			expectedTotal: 2700,
			committed:     true,
		},
		{
			name: "no cart",
			setupMocks: func(f *fixture) {
				f.tx.On("WithinTx", mock.Anything).Return(nil)
				f.carts.On("FindByUserID", mock.Anything, TestUserID).Return(nil, nil)
			},
			expectedKind:  domain.ErrValidation,
			expectedError: "cart is empty",
		},
		{
			name: "cart without items",
			setupMocks: func(f *fixture) {
				f.tx.On("WithinTx", mock.Anything).Return(nil)
				f.carts.On("FindByUserID", mock.Anything, TestUserID).Return(CreateMockCart(TestUserID), nil)
			},
			expectedKind:  domain.ErrValidation,
			expectedError: "cart is empty",
		},
		{
			name: "insufficient stock",
			setupMocks: func(f *fixture) {
				f.tx.On("WithinTx", mock.Anything).Return(nil)
				f.carts.On("FindByUserID", mock.Anything, TestUserID).
					Return(CreateMockCart(TestUserID, CreateMockCartItem(TestProductID, "A", 1000, 5)), nil)
				f.products.On("FindByIDForUpdate", mock.Anything, TestProductID).
					Return(CreateMockProduct(TestProductID, "A", 1000, 2), nil)
			},
			expectedKind:  domain.ErrValidation,
			expectedError: "insufficient stock for A",
		},
		{
			name: "second item short leaves first untouched",
			setupMocks: func(f *fixture) {
				f.tx.On("WithinTx", mock.Anything).Return(nil)
				f.carts.On("FindByUserID", mock.Anything, TestUserID).
					Return(CreateMockCart(TestUserID,
						CreateMockCartItem(TestProductID, "A", 1000, 1),
						CreateMockCartItem(2, "B", 300, 3),
					), nil)
				f.products.On("FindByIDForUpdate", mock.Anything, TestProductID).
					Return(CreateMockProduct(TestProductID, "A", 1000, 10), nil)
				f.products.On("FindByIDForUpdate", mock.Anything, uint64(2)).
					Return(CreateMockProduct(2, "B", 300, 1), nil)
			},
			expectedKind:  domain.ErrValidation,
			expectedError: "insufficient stock for B",
		},
		{
			name: "product removed since it was added",
			setupMocks: func(f *fixture) {
				f.tx.On("WithinTx", mock.Anything).Return(nil)
				f.carts.On("FindByUserID", mock.Anything, TestUserID).
					Return(CreateMockCart(TestUserID, CreateMockCartItem(TestProductID, "A", 1000, 1)), nil)
				f.products.On("FindByIDForUpdate", mock.Anything, TestProductID).Return(nil, nil)
			},
			expectedKind:  domain.ErrValidation,
			expectedError: "product A is no longer available",
		},
		{
			name: "conditional decrement matches no row",
			setupMocks: func(f *fixture) {
				f.tx.On("WithinTx", mock.Anything).Return(nil)
				f.carts.On("FindByUserID", mock.Anything, TestUserID).
					Return(CreateMockCart(TestUserID, CreateMockCartItem(TestProductID, "A", 1000, 2)), nil)
				f.products.On("FindByIDForUpdate", mock.Anything, TestProductID).
					Return(CreateMockProduct(TestProductID, "A", 1000, 2), nil)
				f.products.On("DecrementStock", mock.Anything, TestProductID, 2).Return(domain.ErrInsufficientStock)
			},
			expectedKind:  domain.ErrValidation,
			expectedError: "insufficient stock for A",
		},
		{
			name: "order insert fails",
			setupMocks: func(f *fixture) {
				f.tx.On("WithinTx", mock.Anything).Return(nil)
				f.carts.On("FindByUserID", mock.Anything, TestUserID).
					Return(CreateMockCart(TestUserID, CreateMockCartItem(TestProductID, "A", 1000, 2)), nil)
				f.products.On("FindByIDForUpdate", mock.Anything, TestProductID).
					Return(CreateMockProduct(TestProductID, "A", 1000, 2), nil)
				f.products.On("DecrementStock", mock.Anything, TestProductID, 2).Return(nil)
				f.orders.On("Save", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(errors.New("database error"))
			},
			expectedError: "database error",
		},
		{
			name: "transaction cannot start",
			setupMocks: func(f *fixture) {
				f.tx.On("WithinTx", mock.Anything).Return(errors.New("connection refused"))
			},
			expectedError: "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setupMocks(f)

			svc, events := newCheckoutService(f)
			order, err := svc.Checkout(context.Background(), TestUserID)
			events.Wait()

			if !tt.committed {
				require.Error(t, err)
				assert.Nil(t, order)
				assert.EqualError(t, err, tt.expectedError)
				if tt.expectedKind != nil {
					assert.ErrorIs(t, err, tt.expectedKind)
				}
				f.pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
				f.cache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
				f.carts.AssertNotCalled(t, "DeleteByUserID", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				require.NotNil(t, order)
				assert.Equal(t, TestUserID, order.UserID)
				assert.Equal(t, domain.StatusPending, order.Status)
				assert.True(t, order.Total.Equal(decimal.NewFromInt(tt.expectedTotal)), "total %s", order.Total)
			}
			f.assertExpectations(t)
		})
	}
}

func TestCheckoutService_OrderSnapshotsLiveProduct(t *testing.T) {
	f := newFixture()
	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.carts.On("FindByUserID", mock.Anything, TestUserID).
		Return(CreateMockCart(TestUserID, CreateMockCartItem(TestProductID, "Old name", 1000, 2)), nil)
	f.products.On("FindByIDForUpdate", mock.Anything, TestProductID).
		Return(CreateMockProduct(TestProductID, "New name", 900, 4), nil)
	f.products.On("DecrementStock", mock.Anything, TestProductID, 2).Return(nil)
	f.orders.On("Save", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)
	f.carts.On("DeleteByUserID", mock.Anything, TestUserID).Return(nil)
	f.cache.On("Delete", mock.Anything, []uint64{TestProductID}).Return(nil)
	f.pub.On("Publish", mock.Anything, domain.EventOrderCreated, mock.Anything).Return(errors.New("broker down"))

	svc, events := newCheckoutService(f)
	order, err := svc.Checkout(context.Background(), TestUserID)
	events.Wait()

	require.NoError(t, err, "publish failures must not fail checkout")
	require.Len(t, order.Items, 1)
	item := order.Items[0]
	assert.Equal(t, "New name", item.NameAtOrder)
	assert.True(t, item.PriceAtOrder.Equal(decimal.NewFromInt(900)))
	assert.Equal(t, 2, item.Quantity)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(1800)))
	f.assertExpectations(t)
}

func TestCheckoutService_LocksProductsInIDOrder(t *testing.T) {
	f := newFixture()
	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.carts.On("FindByUserID", mock.Anything, TestUserID).
		Return(CreateMockCart(TestUserID,
			CreateMockCartItem(3, "C", 100, 1),
			CreateMockCartItem(2, "B", 100, 1),
			CreateMockCartItem(3, "C", 100, 2),
		), nil)

	var locked []uint64
	record := func(args mock.Arguments) { locked = append(locked, args.Get(1).(uint64)) }
	f.products.On("FindByIDForUpdate", mock.Anything, uint64(2)).
		Return(CreateMockProduct(2, "B", 100, 1), nil).Run(record)
	f.products.On("FindByIDForUpdate", mock.Anything, uint64(3)).
		Return(CreateMockProduct(3, "C", 100, 3), nil).Run(record)
	f.products.On("DecrementStock", mock.Anything, uint64(3), 1).Return(nil)
	f.products.On("DecrementStock", mock.Anything, uint64(2), 1).Return(nil)
	f.products.On("DecrementStock", mock.Anything, uint64(3), 2).Return(nil)
	f.orders.On("Save", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)
	f.carts.On("DeleteByUserID", mock.Anything, TestUserID).Return(nil)
	f.cache.On("Delete", mock.Anything, []uint64{3, 2, 3}).Return(nil)
	f.pub.On("Publish", mock.Anything, domain.EventOrderCreated, mock.Anything).Return(nil)

	svc, events := newCheckoutService(f)
	order, err := svc.Checkout(context.Background(), TestUserID)
	events.Wait()

	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 3}, locked)
	require.Len(t, order.Items, 3)
	assert.Equal(t, uint64(3), order.Items[0].ProductID)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(400)))
	f.assertExpectations(t)
}

func TestCheckoutService_SumsRepeatedProductBeforeLocking(t *testing.T) {
	f := newFixture()
	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.carts.On("FindByUserID", mock.Anything, TestUserID).
		Return(CreateMockCart(TestUserID,
			CreateMockCartItem(TestProductID, "A", 100, 2),
			CreateMockCartItem(TestProductID, "A", 100, 2),
		), nil)
	f.products.On("FindByIDForUpdate", mock.Anything, TestProductID).
		Return(CreateMockProduct(TestProductID, "A", 100, 3), nil).Once()

	svc, _ := newCheckoutService(f)
	_, err := svc.Checkout(context.Background(), TestUserID)

	assert.EqualError(t, err, "insufficient stock for A")
	f.products.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}
