package model

import (
	"time"

	"github.com/google/uuid"
)

// Item is a single physical unit of a serialized product, identified by
// its barcode. The unique index is the source of truth for barcode
// collisions; inserts racing on the same barcode lose at the database.
type Item struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Barcode   string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
