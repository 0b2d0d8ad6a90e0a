package model

import (
	"time"

	"github.com/google/uuid"
)

// User stores shop owners and their employees.
// Role: "owner" | "employee"
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	Phone        *string
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"type:varchar(20);not null;default:'owner'"`
	// ShopID assigns an employee to a single shop; nil for owners, who are
	// linked through Shop.OwnerID instead.
	ShopID     *uuid.UUID `gorm:"type:uuid;index"`
	IsVerified bool       `gorm:"not null;default:false"`
	// OTP fields back the email verification flow; cleared after use.
	OTPCode   *string
	OTPExpiry *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
