package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string          `json:"name" gorm:"type:varchar(255);not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Stock       int             `json:"stock" gorm:"not null;default:0"`
	Description string          `json:"description,omitempty" gorm:"type:text"`
	Image       string          `json:"image,omitempty" gorm:"type:varchar(255)"`
	CreatedAt   time.Time       `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `json:"updatedAt" gorm:"autoUpdateTime"`
}
