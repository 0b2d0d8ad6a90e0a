package repository

import (
	"context"

	"github.com/StockSmart-AI/stock-smart-backend/internal/dto"
	"github.com/StockSmart-AI/stock-smart-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, shopID uuid.UUID, filter dto.ProductFilter) ([]model.Product, int64, error)
	// ListByShop returns every product of a shop, unpaginated. Used by
	// the stock audit job.
	ListByShop(ctx context.Context, shopID uuid.UUID) ([]model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	// DeleteCascade removes the product and its items in one transaction.
	DeleteCascade(ctx context.Context, id uuid.UUID) error

	// IncrementQuantity adds delta to quantity unconditionally.
	// Callers inside transactions pass tx; others pass nil to use the pool.
	IncrementQuantity(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta int) error
	// DecrementQuantityGuarded subtracts delta only when enough stock is on
	// hand. Returns the number of rows updated: 0 means insufficient stock
	// or an unknown product, callers disambiguate.
	DecrementQuantityGuarded(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta int) (int64, error)

	// Analytics
	TotalStock(ctx context.Context, shopID uuid.UUID) (int, error)
	CountAll(ctx context.Context, shopID uuid.UUID) (int64, error)
	CountOutOfStock(ctx context.Context, shopID uuid.UUID) (int64, error)
	CountLowStock(ctx context.Context, shopID uuid.UUID) (int64, error)
	ListLowStock(ctx context.Context, shopID uuid.UUID) ([]model.Product, error)
	StockByCategory(ctx context.Context, shopID uuid.UUID) ([]dto.CategoryStockResponse, error)
	TopStocked(ctx context.Context, shopID uuid.UUID, limit int) ([]model.Product, error)
	InventoryValue(ctx context.Context, shopID uuid.UUID) (decimal.Decimal, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) DB() *gorm.DB { return r.db }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *productRepo) List(ctx context.Context, shopID uuid.UUID, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{}).Where("shop_id = ?", shopID)

	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.LowStock {
		q = q.Where("threshold > 0 AND quantity <= threshold")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&products).Error
	return products, total, err
}

func (r *productRepo) ListByShop(ctx context.Context, shopID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Where("shop_id = ?", shopID).Find(&products).Error
	return products, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&model.Item{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Product{}, id).Error
	})
}

func (r *productRepo) IncrementQuantity(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta int) error {
	db := tx
	if db == nil {
		db = r.db
	}
	return db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", delta)).Error
}

func (r *productRepo) DecrementQuantityGuarded(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta int) (int64, error) {
	db := tx
	if db == nil {
		db = r.db
	}
	// The guard in the WHERE clause makes the decrement atomic: two
	// concurrent sales can never take quantity below zero.
	res := db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND quantity >= ?", id, delta).
		Update("quantity", gorm.Expr("quantity - ?", delta))
	return res.RowsAffected, res.Error
}

func (r *productRepo) TotalStock(ctx context.Context, shopID uuid.UUID) (int, error) {
	var total int
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("shop_id = ?", shopID).
		Select("COALESCE(SUM(quantity), 0)").Scan(&total).Error
	return total, err
}

func (r *productRepo) CountAll(ctx context.Context, shopID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("shop_id = ?", shopID).Count(&n).Error
	return n, err
}

func (r *productRepo) CountOutOfStock(ctx context.Context, shopID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("shop_id = ? AND quantity = 0", shopID).Count(&n).Error
	return n, err
}

func (r *productRepo) CountLowStock(ctx context.Context, shopID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("shop_id = ? AND threshold > 0 AND quantity <= threshold", shopID).Count(&n).Error
	return n, err
}

func (r *productRepo) ListLowStock(ctx context.Context, shopID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND threshold > 0 AND quantity <= threshold", shopID).
		Order("quantity ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) StockByCategory(ctx context.Context, shopID uuid.UUID) ([]dto.CategoryStockResponse, error) {
	var rows []dto.CategoryStockResponse
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Select("category, COALESCE(SUM(quantity), 0) AS quantity").
		Where("shop_id = ?", shopID).
		Group("category").Order("quantity DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *productRepo) TopStocked(ctx context.Context, shopID uuid.UUID, limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Order("quantity DESC").Limit(limit).Find(&products).Error
	return products, err
}

func (r *productRepo) InventoryValue(ctx context.Context, shopID uuid.UUID) (decimal.Decimal, error) {
	var value decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("shop_id = ?", shopID).
		Select("COALESCE(SUM(price * quantity), 0)").Scan(&value).Error
	return value, err
}
