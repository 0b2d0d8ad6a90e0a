package dto

import "github.com/shopspring/decimal"

// ─── Filters ─────────────────────────────────────────────────────────────────

type AnalyticsFilter struct {
	ShopID string `form:"shop_id" validate:"required,uuid"`
}

type SalesSeriesFilter struct {
	ShopID string `form:"shop_id" validate:"required,uuid"`
	// Window selects the aggregation bucket for the series.
	Window string `form:"window,default=daily" validate:"oneof=daily monthly"`
	Days   int    `form:"days,default=30"      validate:"min=1,max=365"`
}

type TopProductsFilter struct {
	ShopID string `form:"shop_id" validate:"required,uuid"`
	Limit  int    `form:"limit,default=5" validate:"min=1,max=50"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// SummaryResponse backs the dashboard cards.
type SummaryResponse struct {
	TotalStock     int             `json:"total_stock"`
	ProductCount   int64           `json:"product_count"`
	OutOfStock     int64           `json:"out_of_stock"`
	LowStock       int64           `json:"low_stock"`
	InventoryValue decimal.Decimal `json:"inventory_value"`
	SalesToday     decimal.Decimal `json:"sales_today"`
	SalesThisMonth decimal.Decimal `json:"sales_this_month"`
}

type CategoryStockResponse struct {
	Category string `json:"category"`
	Quantity int    `json:"quantity"`
}

type SalesPointResponse struct {
	Bucket string          `json:"bucket"` // YYYY-MM-DD or YYYY-MM
	Total  decimal.Decimal `json:"total"`
	Count  int64           `json:"count"`
}

type TopProductResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	UnitsSold int             `json:"units_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type StockedProductResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Quantity  int    `json:"quantity"`
}

type CriticalProductResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Threshold int    `json:"threshold"`
}

// ForecastPointResponse mirrors one row of the forecasting sidecar output.
type ForecastPointResponse struct {
	Date     string  `json:"date"`
	Forecast float64 `json:"forecast"`
	Lower    float64 `json:"lower"`
	Upper    float64 `json:"upper"`
}

type ForecastResponse struct {
	ProductID string                  `json:"product_id"`
	Horizon   int                     `json:"horizon"`
	Points    []ForecastPointResponse `json:"points"`
}
