package service

import (
	"context"

	"github.com/StockSmart-AI/stock-smart-backend/internal/model"
	"github.com/StockSmart-AI/stock-smart-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecorderService builds and persists immutable transaction records.
// It never touches stock; the checkout orchestrator calls it only after
// the ledger has applied all movements.
type RecorderService interface {
	BuildSaleLines(products map[uuid.UUID]*model.Product, lines []SaleLine) []model.TransactionLine
	BuildRestockLine(p *model.Product, costPrice decimal.Decimal, quantity int, barcodes []string) model.TransactionLine
	ComputeTotal(lines []model.TransactionLine) decimal.Decimal
	Persist(ctx context.Context, t *model.Transaction) error
}

// SaleLine is a validated cart line handed from the orchestrator to the
// recorder: product resolved, quantity and barcodes already checked.
type SaleLine struct {
	ProductID uuid.UUID
	Quantity  int
	Price     decimal.Decimal
	Barcodes  []string
}

type recorderService struct {
	transactions repository.TransactionRepository
}

func NewRecorderService(transactions repository.TransactionRepository) RecorderService {
	return &recorderService{transactions: transactions}
}

func (s *recorderService) BuildSaleLines(products map[uuid.UUID]*model.Product, lines []SaleLine) []model.TransactionLine {
	out := make([]model.TransactionLine, 0, len(lines))
	for _, l := range lines {
		p := products[l.ProductID]
		out = append(out, model.TransactionLine{
			ProductID:    p.ID,
			Name:         p.Name,
			Category:     p.Category,
			Quantity:     l.Quantity,
			UnitPrice:    l.Price,
			IsSerialized: p.IsSerialized,
			Barcodes:     l.Barcodes,
		})
	}
	return out
}

func (s *recorderService) BuildRestockLine(p *model.Product, costPrice decimal.Decimal, quantity int, barcodes []string) model.TransactionLine {
	return model.TransactionLine{
		ProductID:    p.ID,
		Name:         p.Name,
		Category:     p.Category,
		Quantity:     quantity,
		UnitPrice:    costPrice,
		IsSerialized: p.IsSerialized,
		Barcodes:     barcodes,
	}
}

func (s *recorderService) ComputeTotal(lines []model.TransactionLine) decimal.Decimal {
	total := decimal.Zero
	for i := range lines {
		total = total.Add(lines[i].LineTotal())
	}
	return total
}

func (s *recorderService) Persist(ctx context.Context, t *model.Transaction) error {
	if len(t.Lines) == 0 {
		return ErrEmptyPayload
	}
	return s.transactions.Create(ctx, t)
}
