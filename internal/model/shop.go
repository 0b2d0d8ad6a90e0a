package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Shop is owned by a single User and holds products and transactions.
// Name is unique per owner, not globally.
type Shop struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name    string    `gorm:"not null;uniqueIndex:idx_shops_owner_name"`
	Address string
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_shops_owner_name"`
	// InventoryValue caches the sum of price*quantity over the shop's
	// products. Refreshed by the stock audit job, display only.
	InventoryValue decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Owner *User `gorm:"foreignKey:OwnerID"`
}
