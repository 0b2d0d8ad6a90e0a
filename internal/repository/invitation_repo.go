package repository

import (
	"context"

	"github.com/StockSmart-AI/stock-smart-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvitationRepository interface {
	Create(ctx context.Context, inv *model.Invitation) error
	FindByToken(ctx context.Context, token string) (*model.Invitation, error)
	MarkAccepted(ctx context.Context, id uuid.UUID) error
	ListByShop(ctx context.Context, shopID uuid.UUID) ([]model.Invitation, error)
	DB() *gorm.DB
}

type invitationRepo struct{ db *gorm.DB }

func NewInvitationRepository(db *gorm.DB) InvitationRepository { return &invitationRepo{db: db} }

func (r *invitationRepo) DB() *gorm.DB { return r.db }

func (r *invitationRepo) Create(ctx context.Context, inv *model.Invitation) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *invitationRepo) FindByToken(ctx context.Context, token string) (*model.Invitation, error) {
	var inv model.Invitation
	err := r.db.WithContext(ctx).Preload("Shop").Where("token = ?", token).First(&inv).Error
	return &inv, err
}

func (r *invitationRepo) MarkAccepted(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Invitation{}).Where("id = ?", id).
		Update("accepted", true).Error
}

func (r *invitationRepo) ListByShop(ctx context.Context, shopID uuid.UUID) ([]model.Invitation, error) {
	var invs []model.Invitation
	err := r.db.WithContext(ctx).Where("shop_id = ?", shopID).Order("created_at DESC").Find(&invs).Error
	return invs, err
}
