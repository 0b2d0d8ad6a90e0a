package model

import (
	"time"

	"github.com/google/uuid"
)

// Invitation lets a shop owner invite an employee by email. The token
// is single use and expires independently of the email being delivered.
type Invitation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ShopID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Email     string    `gorm:"not null;index"`
	Token     string    `gorm:"uniqueIndex;not null"`
	Role      string    `gorm:"type:varchar(20);not null;default:'employee'"`
	ExpiresAt time.Time `gorm:"not null"`
	Accepted  bool      `gorm:"not null;default:false"`
	CreatedAt time.Time

	Shop *Shop `gorm:"foreignKey:ShopID"`
}

// Expired reports whether the invitation can no longer be accepted.
func (i *Invitation) Expired() bool {
	return time.Now().After(i.ExpiresAt)
}
