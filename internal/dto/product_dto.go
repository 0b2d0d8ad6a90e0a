package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	ShopID       string          `json:"shop_id"       validate:"required,uuid"`
	Name         string          `json:"name"          validate:"required,min=2,max=120"`
	Category     string          `json:"category"      validate:"required"`
	Description  string          `json:"description"`
	ImageURL     string          `json:"image_url"     validate:"omitempty,url"`
	Price        decimal.Decimal `json:"price"         validate:"required"`
	Threshold    int             `json:"threshold"     validate:"min=0"`
	IsSerialized bool            `json:"is_serialized"`
	// InitialQuantity seeds stock for non-serialized products only;
	// serialized stock enters through restock with barcodes.
	InitialQuantity int `json:"initial_quantity" validate:"min=0"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name"        validate:"omitempty,min=2,max=120"`
	Category    *string          `json:"category"`
	Description *string          `json:"description"`
	ImageURL    *string          `json:"image_url"   validate:"omitempty,url"`
	Price       *decimal.Decimal `json:"price"`
	Threshold   *int             `json:"threshold"   validate:"omitempty,min=0"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	Name     string `form:"name"`
	Category string `form:"category"`
	LowStock bool   `form:"low_stock"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID           string          `json:"id"`
	ShopID       string          `json:"shop_id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Description  string          `json:"description"`
	ImageURL     string          `json:"image_url"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	Threshold    int             `json:"threshold"`
	IsSerialized bool            `json:"is_serialized"`
	LowStock     bool            `json:"low_stock"`
}

type ProductListResponse struct {
	Data       []ProductResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// ScanResponse is returned by the barcode lookup endpoint.
type ScanResponse struct {
	ItemID  string          `json:"item_id"`
	Barcode string          `json:"barcode"`
	Product ProductResponse `json:"product"`
}

// ItemResponse is one serialized unit in a product's item listing.
type ItemResponse struct {
	ID        string `json:"id"`
	Barcode   string `json:"barcode"`
	CreatedAt string `json:"created_at"`
}
