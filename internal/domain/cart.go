package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is unique per user.
type Cart struct {
	ID        uint64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint64     `json:"userId" gorm:"not null;uniqueIndex"`
	Items     []CartItem `json:"items" gorm:"foreignKey:CartID"`
	CreatedAt time.Time  `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updatedAt" gorm:"autoUpdateTime"`
}

// CartItem keeps the product name and price seen when the item was added.
type CartItem struct {
	ID           uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	CartID       uint64          `json:"cartId" gorm:"not null;index"`
	ProductID    uint64          `json:"productId" gorm:"not null;index"`
	NameAtAdded  string          `json:"nameAtAdded" gorm:"type:varchar(255);not null"`
	PriceAtAdded decimal.Decimal `json:"priceAtAdded" gorm:"type:decimal(12,2);not null"`
	Quantity     int             `json:"quantity" gorm:"not null"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// Total is derived from the snapshots and never stored.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	if c == nil {
		return total
	}
	for _, it := range c.Items {
		total = total.Add(it.PriceAtAdded.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

func (c *Cart) FindItem(itemID uint64) (int, *CartItem) {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return i, &c.Items[i]
		}
	}
	return -1, nil
}

func (c *Cart) FindProduct(productID uint64) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// CartView is the response shape for a cart, including the empty sentinel.
type CartView struct {
	ID     uint64          `json:"id,omitempty"`
	UserID uint64          `json:"userId,omitempty"`
	Items  []CartItem      `json:"items"`
	Total  decimal.Decimal `json:"total"`
}

func NewCartView(c *Cart) CartView {
	if c == nil {
		return CartView{Items: []CartItem{}, Total: decimal.Zero}
	}
	items := c.Items
	if items == nil {
		items = []CartItem{}
	}
	return CartView{ID: c.ID, UserID: c.UserID, Items: items, Total: c.Total()}
}
