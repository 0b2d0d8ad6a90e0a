package repository

import (
	"context"
	"time"

	"github.com/StockSmart-AI/stock-smart-backend/internal/dto"
	"github.com/StockSmart-AI/stock-smart-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	// Create persists the transaction together with its lines.
	Create(ctx context.Context, t *model.Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	List(ctx context.Context, filter dto.TransactionFilter) ([]model.Transaction, int64, error)

	// Analytics
	SalesTotalBetween(ctx context.Context, shopID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
	SalesSeries(ctx context.Context, shopID uuid.UUID, bucket string, from time.Time) ([]dto.SalesPointResponse, error)
	TopSelling(ctx context.Context, shopID uuid.UUID, limit int) ([]dto.TopProductResponse, error)
	// DailyUnitsSold feeds the demand forecasting sidecar.
	DailyUnitsSold(ctx context.Context, productID uuid.UUID, from time.Time) ([]dto.SalesPointResponse, error)

	DB() *gorm.DB
}

type transactionRepo struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) TransactionRepository { return &transactionRepo{db: db} }

func (r *transactionRepo) DB() *gorm.DB { return r.db }

func (r *transactionRepo) Create(ctx context.Context, t *model.Transaction) error {
	// GORM inserts the associated lines with the parent in one tx.
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *transactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var t model.Transaction
	err := r.db.WithContext(ctx).Preload("Lines").Preload("User").First(&t, id).Error
	return &t, err
}

func (r *transactionRepo) List(ctx context.Context, filter dto.TransactionFilter) ([]model.Transaction, int64, error) {
	var txs []model.Transaction
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Transaction{}).Where("shop_id = ?", filter.ShopID)

	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.From != "" {
		q = q.Where("DATE(created_at) >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("DATE(created_at) <= ?", filter.To)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Lines").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&txs).Error

	return txs, total, err
}

func (r *transactionRepo) SalesTotalBetween(ctx context.Context, shopID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("shop_id = ? AND type = ? AND created_at >= ? AND created_at < ?",
			shopID, model.TransactionSale, from, to).
		Select("COALESCE(SUM(total), 0)").Scan(&total).Error
	return total, err
}

func (r *transactionRepo) SalesSeries(ctx context.Context, shopID uuid.UUID, bucket string, from time.Time) ([]dto.SalesPointResponse, error) {
	format := "YYYY-MM-DD"
	if bucket == "monthly" {
		format = "YYYY-MM"
	}
	var rows []dto.SalesPointResponse
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select("TO_CHAR(created_at, ?) AS bucket, COALESCE(SUM(total), 0) AS total, COUNT(*) AS count", format).
		Where("shop_id = ? AND type = ? AND created_at >= ?", shopID, model.TransactionSale, from).
		Group("bucket").Order("bucket ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *transactionRepo) TopSelling(ctx context.Context, shopID uuid.UUID, limit int) ([]dto.TopProductResponse, error) {
	var rows []dto.TopProductResponse
	err := r.db.WithContext(ctx).Raw(`
		SELECT l.product_id,
		       l.name,
		       l.category,
		       SUM(l.quantity)                AS units_sold,
		       SUM(l.quantity * l.unit_price) AS revenue
		FROM transaction_lines l
		JOIN transactions t ON t.id = l.transaction_id
		WHERE t.shop_id = ? AND t.type = ?
		GROUP BY l.product_id, l.name, l.category
		ORDER BY units_sold DESC
		LIMIT ?`, shopID, model.TransactionSale, limit).
		Scan(&rows).Error
	return rows, err
}

func (r *transactionRepo) DailyUnitsSold(ctx context.Context, productID uuid.UUID, from time.Time) ([]dto.SalesPointResponse, error) {
	var rows []dto.SalesPointResponse
	err := r.db.WithContext(ctx).Raw(`
		SELECT TO_CHAR(t.created_at, 'YYYY-MM-DD') AS bucket,
		       SUM(l.quantity)                     AS count,
		       COALESCE(SUM(l.quantity * l.unit_price), 0) AS total
		FROM transaction_lines l
		JOIN transactions t ON t.id = l.transaction_id
		WHERE l.product_id = ? AND t.type = ? AND t.created_at >= ?
		GROUP BY bucket
		ORDER BY bucket ASC`, productID, model.TransactionSale, from).
		Scan(&rows).Error
	return rows, err
}
