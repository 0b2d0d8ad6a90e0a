package service

import (
	"context"
	"errors"
	"time"

	"github.com/StockSmart-AI/stock-smart-backend/internal/dto"
	"github.com/StockSmart-AI/stock-smart-backend/internal/infra"
	"github.com/StockSmart-AI/stock-smart-backend/internal/model"
	"github.com/StockSmart-AI/stock-smart-backend/internal/repository"
	"github.com/StockSmart-AI/stock-smart-backend/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrTransactionNotFound = errors.New("transaction not found")

type TransactionService interface {
	Get(ctx context.Context, userID, id uuid.UUID) (*dto.TransactionResponse, error)
	List(ctx context.Context, userID uuid.UUID, filter dto.TransactionFilter) (*dto.TransactionListResponse, error)
	// Receipt generates (or regenerates) the PDF receipt and returns its path.
	Receipt(ctx context.Context, userID, id uuid.UUID) (string, error)
	// EmailReceipt generates the receipt and queues it for delivery.
	EmailReceipt(ctx context.Context, userID, id uuid.UUID, email string) error
}

type transactionService struct {
	transactions repository.TransactionRepository
	shops        repository.ShopRepository
	users        repository.UserRepository
	dispatcher   *worker.Dispatcher
	storagePath  string
}

func NewTransactionService(
	transactions repository.TransactionRepository,
	shops repository.ShopRepository,
	users repository.UserRepository,
	dispatcher *worker.Dispatcher,
	storagePath string,
) TransactionService {
	return &transactionService{
		transactions: transactions,
		shops:        shops,
		users:        users,
		dispatcher:   dispatcher,
		storagePath:  storagePath,
	}
}

// find loads a transaction and checks the caller may see its shop.
func (s *transactionService) find(ctx context.Context, userID, id uuid.UUID) (*model.Transaction, error) {
	t, err := s.transactions.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, err := authorizeShopAccess(ctx, s.shops, s.users, userID, t.ShopID); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *transactionService) Get(ctx context.Context, userID, id uuid.UUID) (*dto.TransactionResponse, error) {
	t, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return transactionToResponse(t), nil
}

func (s *transactionService) List(ctx context.Context, userID uuid.UUID, filter dto.TransactionFilter) (*dto.TransactionListResponse, error) {
	shopID, err := uuid.Parse(filter.ShopID)
	if err != nil {
		return nil, ErrShopNotFound
	}
	if _, err := authorizeShopAccess(ctx, s.shops, s.users, userID, shopID); err != nil {
		return nil, err
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	txs, total, err := s.transactions.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.TransactionResponse, 0, len(txs))
	for i := range txs {
		data = append(data, *transactionToResponse(&txs[i]))
	}
	return &dto.TransactionListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *transactionService) Receipt(ctx context.Context, userID, id uuid.UUID) (string, error) {
	t, err := s.find(ctx, userID, id)
	if err != nil {
		return "", err
	}
	shopName := "StockSmart"
	if shop, err := s.shops.FindByID(ctx, t.ShopID); err == nil {
		shopName = shop.Name
	}
	return infra.GenerateReceiptPDF(t, shopName, s.storagePath)
}

func (s *transactionService) EmailReceipt(ctx context.Context, userID, id uuid.UUID, email string) error {
	path, err := s.Receipt(ctx, userID, id)
	if err != nil {
		return err
	}
	subject := "Your receipt"
	if t, err := s.transactions.FindByID(ctx, id); err == nil && t.Type == model.TransactionRestock {
		subject = "Restock record"
	}
	return s.dispatcher.EnqueueReceipt(ctx, worker.ReceiptJobPayload{
		Email:   email,
		Subject: subject,
		Body:    "Please find your receipt attached.\n",
		PDFPath: path,
	})
}

func transactionToResponse(t *model.Transaction) *dto.TransactionResponse {
	lines := make([]dto.TransactionLineResponse, 0, len(t.Lines))
	for i := range t.Lines {
		l := &t.Lines[i]
		lines = append(lines, dto.TransactionLineResponse{
			ProductID:    l.ProductID.String(),
			Name:         l.Name,
			Category:     l.Category,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
			Subtotal:     l.LineTotal(),
			IsSerialized: l.IsSerialized,
			Barcodes:     l.Barcodes,
		})
	}
	return &dto.TransactionResponse{
		ID:        t.ID.String(),
		ShopID:    t.ShopID.String(),
		UserID:    t.UserID.String(),
		Type:      t.Type,
		Total:     t.Total,
		Lines:     lines,
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
	}
}
