package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// TransactionFilter is bound from the query string of GET /v1/transactions.
type TransactionFilter struct {
	ShopID string `form:"shop_id" validate:"required,uuid"`
	Type   string `form:"type"    validate:"omitempty,oneof=sale restock"`
	From   string `form:"from"`                 // YYYY-MM-DD
	To     string `form:"to"`                   // YYYY-MM-DD
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// EmailReceiptRequest asks for a receipt to be mailed to a customer.
type EmailReceiptRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TransactionLineResponse struct {
	ProductID    string          `json:"product_id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	IsSerialized bool            `json:"is_serialized"`
	Barcodes     []string        `json:"barcodes,omitempty"`
}

type TransactionResponse struct {
	ID        string                    `json:"id"`
	ShopID    string                    `json:"shop_id"`
	UserID    string                    `json:"user_id"`
	Type      string                    `json:"type"`
	Total     decimal.Decimal           `json:"total"`
	Lines     []TransactionLineResponse `json:"lines"`
	CreatedAt string                    `json:"created_at"`
}

type TransactionListResponse struct {
	Data  []TransactionResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}
