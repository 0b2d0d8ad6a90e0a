package repository

import (
	"context"

	"github.com/StockSmart-AI/stock-smart-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ShopRepository interface {
	Create(ctx context.Context, s *model.Shop) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Shop, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Shop, error)
	Update(ctx context.Context, s *model.Shop) error
	// UpdateInventoryValue refreshes the cached value written by the audit job.
	UpdateInventoryValue(ctx context.Context, id uuid.UUID, value decimal.Decimal) error
	ListAll(ctx context.Context) ([]model.Shop, error)
	DB() *gorm.DB
}

type shopRepo struct{ db *gorm.DB }

func NewShopRepository(db *gorm.DB) ShopRepository { return &shopRepo{db: db} }

func (r *shopRepo) DB() *gorm.DB { return r.db }

func (r *shopRepo) Create(ctx context.Context, s *model.Shop) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *shopRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Shop, error) {
	var s model.Shop
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *shopRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Shop, error) {
	var shops []model.Shop
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("name ASC").Find(&shops).Error
	return shops, err
}

func (r *shopRepo) Update(ctx context.Context, s *model.Shop) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *shopRepo) UpdateInventoryValue(ctx context.Context, id uuid.UUID, value decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&model.Shop{}).Where("id = ?", id).
		Update("inventory_value", value).Error
}

func (r *shopRepo) ListAll(ctx context.Context) ([]model.Shop, error) {
	var shops []model.Shop
	err := r.db.WithContext(ctx).Find(&shops).Error
	return shops, err
}
