package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/StockSmart-AI/stock-smart-backend/internal/dto"
	"github.com/StockSmart-AI/stock-smart-backend/internal/model"
	"github.com/StockSmart-AI/stock-smart-backend/internal/repository"
	"github.com/StockSmart-AI/stock-smart-backend/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const invitationTTL = 72 * time.Hour

type ShopService interface {
	Create(ctx context.Context, ownerID uuid.UUID, req dto.CreateShopRequest) (*dto.ShopResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ShopResponse, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]dto.ShopResponse, error)
	Update(ctx context.Context, id uuid.UUID, ownerID uuid.UUID, req dto.UpdateShopRequest) (*dto.ShopResponse, error)
	// Invite creates an invitation token and queues the email.
	Invite(ctx context.Context, shopID, ownerID uuid.UUID, req dto.InviteEmployeeRequest) (*dto.InvitationResponse, error)
	ListInvitations(ctx context.Context, shopID uuid.UUID) ([]dto.InvitationResponse, error)
}

type shopService struct {
	shops       repository.ShopRepository
	invitations repository.InvitationRepository
	dispatcher  *worker.Dispatcher
	domain      string
}

func NewShopService(
	shops repository.ShopRepository,
	invitations repository.InvitationRepository,
	dispatcher *worker.Dispatcher,
	domain string,
) ShopService {
	return &shopService{shops: shops, invitations: invitations, dispatcher: dispatcher, domain: domain}
}

func (s *shopService) Create(ctx context.Context, ownerID uuid.UUID, req dto.CreateShopRequest) (*dto.ShopResponse, error) {
	shop := &model.Shop{
		Name:    req.Name,
		Address: req.Address,
		OwnerID: ownerID,
	}
	if err := s.shops.Create(ctx, shop); err != nil {
		return nil, err
	}
	return shopToResponse(shop), nil
}

func (s *shopService) Get(ctx context.Context, id uuid.UUID) (*dto.ShopResponse, error) {
	shop, err := s.shops.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrShopNotFound
	}
	if err != nil {
		return nil, err
	}
	return shopToResponse(shop), nil
}

func (s *shopService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]dto.ShopResponse, error) {
	shops, err := s.shops.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ShopResponse, 0, len(shops))
	for i := range shops {
		out = append(out, *shopToResponse(&shops[i]))
	}
	return out, nil
}

func (s *shopService) Update(ctx context.Context, id uuid.UUID, ownerID uuid.UUID, req dto.UpdateShopRequest) (*dto.ShopResponse, error) {
	shop, err := s.shops.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrShopNotFound
	}
	if err != nil {
		return nil, err
	}
	if shop.OwnerID != ownerID {
		return nil, ErrForbidden
	}

	if req.Name != nil {
		shop.Name = *req.Name
	}
	if req.Address != nil {
		shop.Address = *req.Address
	}
	if err := s.shops.Update(ctx, shop); err != nil {
		return nil, err
	}
	return shopToResponse(shop), nil
}

func (s *shopService) Invite(ctx context.Context, shopID, ownerID uuid.UUID, req dto.InviteEmployeeRequest) (*dto.InvitationResponse, error) {
	shop, err := s.shops.FindByID(ctx, shopID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrShopNotFound
	}
	if err != nil {
		return nil, err
	}
	if shop.OwnerID != ownerID {
		return nil, ErrForbidden
	}

	role := req.Role
	if role == "" {
		role = "employee"
	}
	token, err := newInviteToken()
	if err != nil {
		return nil, err
	}
	inv := &model.Invitation{
		ShopID:    shopID,
		Email:     req.Email,
		Token:     token,
		Role:      role,
		ExpiresAt: time.Now().Add(invitationTTL),
	}
	if err := s.invitations.Create(ctx, inv); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueInvitation(ctx, map[string]interface{}{
			"email":     inv.Email,
			"shop_name": shop.Name,
			"link":      s.domain + "/join?token=" + inv.Token,
		})
	}
	return invitationToResponse(inv), nil
}

func (s *shopService) ListInvitations(ctx context.Context, shopID uuid.UUID) ([]dto.InvitationResponse, error) {
	invs, err := s.invitations.ListByShop(ctx, shopID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvitationResponse, 0, len(invs))
	for i := range invs {
		out = append(out, *invitationToResponse(&invs[i]))
	}
	return out, nil
}

func newInviteToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func shopToResponse(sh *model.Shop) *dto.ShopResponse {
	return &dto.ShopResponse{
		ID:             sh.ID.String(),
		Name:           sh.Name,
		Address:        sh.Address,
		OwnerID:        sh.OwnerID.String(),
		InventoryValue: sh.InventoryValue,
		CreatedAt:      sh.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func invitationToResponse(inv *model.Invitation) *dto.InvitationResponse {
	return &dto.InvitationResponse{
		ID:        inv.ID.String(),
		ShopID:    inv.ShopID.String(),
		Email:     inv.Email,
		Role:      inv.Role,
		ExpiresAt: inv.ExpiresAt.UTC().Format(time.RFC3339),
		Accepted:  inv.Accepted,
	}
}
