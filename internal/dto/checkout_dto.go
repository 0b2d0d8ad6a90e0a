package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaleLineRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int             `json:"quantity"   validate:"required,min=1"`
	// Zero is a valid price (giveaways); negative is not.
	Price decimal.Decimal `json:"price" validate:"gte=0"`
	// Barcodes are required for serialized products; one per unit sold.
	Barcodes []string `json:"barcodes"   validate:"omitempty,dive,min=8,max=18"`
}

type SellRequest struct {
	ShopID string            `json:"shop_id" validate:"required,uuid"`
	Cart   []SaleLineRequest `json:"cart"    validate:"required,min=1,dive"`
}

type RestockRequest struct {
	ShopID    string          `json:"shop_id"    validate:"required,uuid"`
	ProductID string          `json:"product_id" validate:"required,uuid"`
	CostPrice decimal.Decimal `json:"cost_price" validate:"gte=0"`
	// Quantity is used for non-serialized products; serialized products
	// take Barcodes instead, one per incoming unit and quantity derived
	// from their count.
	Quantity int      `json:"quantity" validate:"omitempty,min=1"`
	Barcodes []string `json:"barcodes" validate:"omitempty,min=1,dive,min=8,max=18"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CheckoutLineResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type CheckoutResponse struct {
	TransactionID string                 `json:"transaction_id"`
	Type          string                 `json:"type"`
	Lines         []CheckoutLineResponse `json:"lines"`
	Total         decimal.Decimal        `json:"total"`
	CreatedAt     string                 `json:"created_at"`
}
