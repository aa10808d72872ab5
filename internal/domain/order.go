package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPaid      OrderStatus = "paid"
	StatusProcessed OrderStatus = "processed"
	StatusShipped   OrderStatus = "shipped"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

var orderStatuses = map[OrderStatus]bool{
	StatusPending:   true,
	StatusPaid:      true,
	StatusProcessed: true,
	StatusShipped:   true,
	StatusCompleted: true,
	StatusCancelled: true,
}

// Valid reports whether s is one of the enumerated statuses. Any valid status
// may follow any other; there is no adjacency table.
func (s OrderStatus) Valid() bool { return orderStatuses[s] }

type Order struct {
	ID        uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint64          `json:"userId" gorm:"not null;index"`
	Items     []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
	Total     decimal.Decimal `json:"total" gorm:"type:decimal(14,2);not null"`
	Status    OrderStatus     `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt time.Time       `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time       `json:"updatedAt" gorm:"autoUpdateTime"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// OrderItem fields are snapshots taken at checkout and never change.
type OrderItem struct {
	ID           uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID      uint64          `json:"orderId" gorm:"not null;index"`
	ProductID    uint64          `json:"productId" gorm:"not null;index"`
	NameAtOrder  string          `json:"nameAtOrder" gorm:"type:varchar(255);not null"`
	PriceAtOrder decimal.Decimal `json:"priceAtOrder" gorm:"type:decimal(12,2);not null"`
	Quantity     int             `json:"quantity" gorm:"not null"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// ComputeTotal sums the item snapshots.
func (o *Order) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.PriceAtOrder.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}
