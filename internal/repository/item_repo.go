package repository

import (
	"context"

	"github.com/StockSmart-AI/stock-smart-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemRepository manages serialized units. The create/delete variants
// that touch the parent product's quantity run both writes in one
// database transaction so a unit row and its count never diverge.
type ItemRepository interface {
	CreateWithIncrement(ctx context.Context, item *model.Item) error
	// DeleteWithDecrement removes the item with the given barcode and
	// decrements its product's quantity. Returns the deleted item so
	// callers can rebuild it on rollback. gorm.ErrRecordNotFound when
	// no live item carries the barcode.
	DeleteWithDecrement(ctx context.Context, barcode string) (*model.Item, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Item, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.Item, error)
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
	DB() *gorm.DB
}

type itemRepo struct{ db *gorm.DB }

func NewItemRepository(db *gorm.DB) ItemRepository { return &itemRepo{db: db} }

func (r *itemRepo) DB() *gorm.DB { return r.db }

func (r *itemRepo) CreateWithIncrement(ctx context.Context, item *model.Item) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			// gorm.ErrDuplicatedKey surfaces here on a barcode collision;
			// the service layer maps it to its own sentinel.
			return err
		}
		return tx.Model(&model.Product{}).Where("id = ?", item.ProductID).
			Update("quantity", gorm.Expr("quantity + 1")).Error
	})
}

func (r *itemRepo) DeleteWithDecrement(ctx context.Context, barcode string) (*model.Item, error) {
	var item model.Item
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("barcode = ?", barcode).First(&item).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Item{}, item.ID).Error; err != nil {
			return err
		}
		return tx.Model(&model.Product{}).Where("id = ?", item.ProductID).
			Update("quantity", gorm.Expr("quantity - 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) FindByBarcode(ctx context.Context, barcode string) (*model.Item, error) {
	var item model.Item
	err := r.db.WithContext(ctx).Preload("Product").Where("barcode = ?", barcode).First(&item).Error
	return &item, err
}

func (r *itemRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).
		Order("created_at ASC").Find(&items).Error
	return items, err
}

func (r *itemRepo) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Item{}).
		Where("product_id = ?", productID).Count(&n).Error
	return n, err
}
