package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateShopRequest struct {
	Name    string `json:"name"    validate:"required,min=2,max=120"`
	Address string `json:"address" validate:"max=255"`
}

type UpdateShopRequest struct {
	Name    *string `json:"name"    validate:"omitempty,min=2,max=120"`
	Address *string `json:"address" validate:"omitempty,max=255"`
}

type InviteEmployeeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role"  validate:"omitempty,oneof=employee manager"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ShopResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Address        string          `json:"address"`
	OwnerID        string          `json:"owner_id"`
	InventoryValue decimal.Decimal `json:"inventory_value"`
	CreatedAt      string          `json:"created_at"`
}

type InvitationResponse struct {
	ID        string `json:"id"`
	ShopID    string `json:"shop_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	ExpiresAt string `json:"expires_at"`
	Accepted  bool   `json:"accepted"`
}
