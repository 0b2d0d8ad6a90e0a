package service

import (
	"context"
	"errors"

	"github.com/StockSmart-AI/stock-smart-backend/internal/model"
	"github.com/StockSmart-AI/stock-smart-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// authorizeShopAccess loads the shop and checks that userID may operate
// on it: the shop's owner, or an employee assigned to that shop. Every
// shop-scoped read and write goes through this before touching data.
func authorizeShopAccess(
	ctx context.Context,
	shops repository.ShopRepository,
	users repository.UserRepository,
	userID, shopID uuid.UUID,
) (*model.Shop, error) {
	shop, err := shops.FindByID(ctx, shopID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrShopNotFound
	}
	if err != nil {
		return nil, err
	}
	if shop.OwnerID == userID {
		return shop, nil
	}
	u, err := users.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, err
	}
	if u.ShopID != nil && *u.ShopID == shopID {
		return shop, nil
	}
	return nil, ErrForbidden
}
