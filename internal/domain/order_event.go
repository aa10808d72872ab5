package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusUpdated = "order.status_updated"
	EventOrderDeleted       = "order.deleted"
)

type OrderCreatedEvent struct {
	OrderID   uint64             `json:"orderId"`
	UserID    uint64             `json:"userId"`
	Items     []OrderItemPayload `json:"items"`
	Total     decimal.Decimal    `json:"total"`
	CreatedAt time.Time          `json:"createdAt"`
}

type OrderItemPayload struct {
	ProductID uint64          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type OrderStatusUpdatedEvent struct {
	OrderID   uint64      `json:"orderId"`
	Status    OrderStatus `json:"status"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

type OrderDeletedEvent struct {
	OrderID   uint64    `json:"orderId"`
	DeletedAt time.Time `json:"deletedAt"`
}

func NewOrderCreatedEvent(o *Order) OrderCreatedEvent {
	items := make([]OrderItemPayload, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemPayload{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.PriceAtOrder})
	}
	return OrderCreatedEvent{
		OrderID:   o.ID,
		UserID:    o.UserID,
		Items:     items,
		Total:     o.Total,
		CreatedAt: o.CreatedAt,
	}
}
