package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TransactionSale    = "sale"
	TransactionRestock = "restock"
)

// Transaction is an immutable record of a committed sale or restock.
// Lines snapshot product name, category and unit price at the time of
// the operation, so later product edits never rewrite history.
type Transaction struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ShopID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type      string          `gorm:"type:varchar(10);not null;index"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time       `gorm:"index"`

	Lines []TransactionLine `gorm:"foreignKey:TransactionID"`
	User  *User             `gorm:"foreignKey:UserID"`
}

// TransactionLine is one product entry within a transaction.
type TransactionLine struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null"`
	Name          string          `gorm:"not null"`
	Category      string
	Quantity      int             `gorm:"not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	IsSerialized  bool            `gorm:"not null;default:false"`
	Barcodes      []string        `gorm:"serializer:json"`
}

// LineTotal is quantity times unit price for this line.
func (l *TransactionLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
