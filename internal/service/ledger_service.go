package service

import (
	"context"
	"errors"

	"github.com/StockSmart-AI/stock-smart-backend/internal/model"
	"github.com/StockSmart-AI/stock-smart-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LedgerService is the stock ledger: the only code path that mutates
// on-hand quantities. Every operation is individually atomic, so a
// failure leaves counts exactly where they were. Serialized products
// move unit by unit through barcodes; bulk products move by delta.
type LedgerService interface {
	// ReceiveUnit registers one serialized unit and bumps its product's
	// quantity. ErrDuplicateBarcode when the barcode is already live.
	ReceiveUnit(ctx context.Context, productID uuid.UUID, barcode string) error
	// ReceiveBulk adds quantity to a non-serialized product.
	ReceiveBulk(ctx context.Context, productID uuid.UUID, quantity int) error
	// ReleaseUnit removes the unit with the given barcode and decrements
	// its product. Returns the product the unit belonged to, for undo.
	ReleaseUnit(ctx context.Context, barcode string) (uuid.UUID, error)
	// ReleaseBulk subtracts quantity from a non-serialized product;
	// ErrInsufficientStock when on-hand stock cannot cover it.
	ReleaseBulk(ctx context.Context, productID uuid.UUID, quantity int) error
}

type ledgerService struct {
	products repository.ProductRepository
	items    repository.ItemRepository
}

func NewLedgerService(products repository.ProductRepository, items repository.ItemRepository) LedgerService {
	return &ledgerService{products: products, items: items}
}

func (s *ledgerService) ReceiveUnit(ctx context.Context, productID uuid.UUID, barcode string) error {
	if barcode == "" {
		return ErrMissingBarcodes
	}
	item := &model.Item{ProductID: productID, Barcode: barcode}
	err := s.items.CreateWithIncrement(ctx, item)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateBarcode
	}
	return err
}

func (s *ledgerService) ReceiveBulk(ctx context.Context, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	return s.products.IncrementQuantity(ctx, nil, productID, quantity)
}

func (s *ledgerService) ReleaseUnit(ctx context.Context, barcode string) (uuid.UUID, error) {
	item, err := s.items.DeleteWithDecrement(ctx, barcode)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, ErrItemNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}
	return item.ProductID, nil
}

func (s *ledgerService) ReleaseBulk(ctx context.Context, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	rows, err := s.products.DecrementQuantityGuarded(ctx, nil, productID, quantity)
	if err != nil {
		return err
	}
	if rows == 0 {
		// The guarded update cannot tell a missing product from a short
		// one, so look the product up to report the right error.
		if _, err := s.products.FindByID(ctx, productID); errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return ErrInsufficientStock
	}
	return nil
}
