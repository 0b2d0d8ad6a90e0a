package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a stock line within a shop. Quantity is the authoritative
// on-hand count; for serialized products it must equal the number of
// live Item rows, which the stock audit job verifies.
type Product struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ShopID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name         string          `gorm:"not null"`
	Category     string          `gorm:"index"`
	Description  string
	ImageURL     string
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity     int             `gorm:"not null;default:0"`
	Threshold    int             `gorm:"not null;default:0"`
	IsSerialized bool            `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Shop  *Shop  `gorm:"foreignKey:ShopID"`
	Items []Item `gorm:"foreignKey:ProductID"`
}

// BelowThreshold reports whether on-hand stock has fallen to or under
// the reorder threshold. A zero threshold disables the alert.
func (p *Product) BelowThreshold() bool {
	return p.Threshold > 0 && p.Quantity <= p.Threshold
}
