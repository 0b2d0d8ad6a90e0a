package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/StockSmart-AI/stock-smart-backend/internal/dto"
	"github.com/StockSmart-AI/stock-smart-backend/internal/model"
	"github.com/StockSmart-AI/stock-smart-backend/internal/repository"
	"github.com/StockSmart-AI/stock-smart-backend/internal/worker"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// checkoutRollbacks counts rolled-back checkouts; a rising rate is the
// first sign of contention or a flaky record store.
var checkoutRollbacks = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "checkout_rollbacks_total",
		Help: "Checkout attempts that were rolled back",
	},
	[]string{"type"},
)

func init() {
	prometheus.MustRegister(checkoutRollbacks)
}

// checkoutState tracks where a checkout attempt is in its lifecycle.
// Ledger movements only happen in stateApplying; once stateRecording is
// reached the stock side is final and only the record can still fail.
type checkoutState int

const (
	stateValidating checkoutState = iota
	stateApplying
	stateRecording
	stateCommitted
	stateRollingBack
	stateFailed
)

func (s checkoutState) String() string {
	switch s {
	case stateValidating:
		return "validating"
	case stateApplying:
		return "applying"
	case stateRecording:
		return "recording"
	case stateCommitted:
		return "committed"
	case stateRollingBack:
		return "rolling_back"
	case stateFailed:
		return "failed"
	}
	return "unknown"
}

// CheckoutService orchestrates sales and restocks: validate everything
// up front, apply stock movements through the ledger, persist the
// transaction record, and on any failure undo the movements already
// applied, in reverse order.
type CheckoutService interface {
	Sell(ctx context.Context, userID uuid.UUID, req dto.SellRequest) (*dto.CheckoutResponse, error)
	Restock(ctx context.Context, userID uuid.UUID, req dto.RestockRequest) (*dto.CheckoutResponse, error)
}

type checkoutService struct {
	ledger     LedgerService
	recorder   RecorderService
	products   repository.ProductRepository
	shops      repository.ShopRepository
	users      repository.UserRepository
	dispatcher *worker.Dispatcher
}

func NewCheckoutService(
	ledger LedgerService,
	recorder RecorderService,
	products repository.ProductRepository,
	shops repository.ShopRepository,
	users repository.UserRepository,
	dispatcher *worker.Dispatcher,
) CheckoutService {
	return &checkoutService{
		ledger:     ledger,
		recorder:   recorder,
		products:   products,
		shops:      shops,
		users:      users,
		dispatcher: dispatcher,
	}
}

// undoAction reverses one ledger movement. Actions are pushed as
// movements succeed and walked back to front on failure.
type undoAction struct {
	descr string
	fn    func(ctx context.Context) error
}

// ── Sell ─────────────────────────────────────────────────────────────────────

func (s *checkoutService) Sell(ctx context.Context, userID uuid.UUID, req dto.SellRequest) (*dto.CheckoutResponse, error) {
	state := stateValidating

	shopID, err := uuid.Parse(req.ShopID)
	if err != nil {
		return nil, ErrShopNotFound
	}
	if _, err := authorizeShopAccess(ctx, s.shops, s.users, userID, shopID); err != nil {
		return nil, err
	}
	if len(req.Cart) == 0 {
		return nil, ErrEmptyPayload
	}

	// Resolve products and validate every line before moving any stock.
	resolved := make(map[uuid.UUID]*model.Product, len(req.Cart))
	lines := make([]SaleLine, 0, len(req.Cart))
	seenBarcodes := make(map[string]int)
	requested := make(map[uuid.UUID]int)

	for i, line := range req.Cart {
		pid, err := uuid.Parse(line.ProductID)
		if err != nil {
			return nil, &LineError{Index: i, Err: ErrProductNotFound}
		}
		if line.Quantity <= 0 {
			return nil, &LineError{Index: i, Err: ErrInvalidQuantity}
		}
		if line.Price.IsNegative() {
			return nil, &LineError{Index: i, Err: ErrInvalidPrice}
		}
		p, ok := resolved[pid]
		if !ok {
			p, err = s.products.FindByID(ctx, pid)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &LineError{Index: i, Err: ErrProductNotFound}
			}
			if err != nil {
				return nil, err
			}
			if p.ShopID != shopID {
				return nil, &LineError{Index: i, Err: ErrShopMismatch}
			}
			resolved[pid] = p
		}
		if p.IsSerialized {
			if len(line.Barcodes) == 0 {
				return nil, &LineError{Index: i, Err: ErrMissingBarcodes}
			}
			if len(line.Barcodes) != line.Quantity {
				return nil, &LineError{Index: i, Err: ErrBarcodeCountMismatch}
			}
			for _, bc := range line.Barcodes {
				if _, dup := seenBarcodes[bc]; dup {
					return nil, &LineError{Index: i, Err: ErrDuplicateBarcodeInRequest}
				}
				seenBarcodes[bc] = i
			}
		} else {
			if len(line.Barcodes) > 0 {
				return nil, &LineError{Index: i, Err: ErrUnexpectedBarcodes}
			}
			// Fail fast on obvious shortages, counting every line that
			// draws on the same product. The guarded decrement in the
			// apply phase still covers concurrent sales.
			requested[pid] += line.Quantity
			if p.Quantity < requested[pid] {
				return nil, &LineError{Index: i, Err: ErrInsufficientStock}
			}
		}
		lines = append(lines, SaleLine{
			ProductID: pid,
			Quantity:  line.Quantity,
			Price:     line.Price,
			Barcodes:  line.Barcodes,
		})
	}

	// Apply. Each ledger call is atomic on its own; the undo list covers
	// the sequence.
	state = stateApplying
	var undo []undoAction

	for i, l := range lines {
		p := resolved[l.ProductID]
		if p.IsSerialized {
			for _, bc := range l.Barcodes {
				barcode := bc
				ownerID, err := s.ledger.ReleaseUnit(ctx, barcode)
				if err != nil {
					return nil, s.rollback(ctx, model.TransactionSale, state, undo, &LineError{Index: i, Err: err})
				}
				// The undo recreates the unit under its real owner, so a
				// mismatched barcode never moves another product's stock
				// past this point.
				undo = append(undo, undoAction{
					descr: fmt.Sprintf("recreate unit %s", barcode),
					fn: func(ctx context.Context) error {
						return s.ledger.ReceiveUnit(ctx, ownerID, barcode)
					},
				})
				if ownerID != p.ID {
					return nil, s.rollback(ctx, model.TransactionSale, state, undo, &LineError{Index: i, Err: ErrBarcodeWrongProduct})
				}
			}
		} else {
			productID := p.ID
			qty := l.Quantity
			if err := s.ledger.ReleaseBulk(ctx, productID, qty); err != nil {
				return nil, s.rollback(ctx, model.TransactionSale, state, undo, &LineError{Index: i, Err: err})
			}
			undo = append(undo, undoAction{
				descr: fmt.Sprintf("restore %d units of %s", qty, productID),
				fn: func(ctx context.Context) error {
					return s.ledger.ReceiveBulk(ctx, productID, qty)
				},
			})
		}
	}

	// Record.
	state = stateRecording
	txLines := s.recorder.BuildSaleLines(resolved, lines)
	transaction := &model.Transaction{
		ShopID: shopID,
		UserID: userID,
		Type:   model.TransactionSale,
		Total:  s.recorder.ComputeTotal(txLines),
		Lines:  txLines,
	}
	if err := s.recorder.Persist(ctx, transaction); err != nil {
		return nil, s.rollback(ctx, model.TransactionSale, state, undo, err)
	}
	state = stateCommitted

	s.notifyLowStock(ctx, resolved)

	log.Info().
		Str("transaction_id", transaction.ID.String()).
		Str("shop_id", shopID.String()).
		Str("state", state.String()).
		Int("lines", len(txLines)).
		Msg("sale committed")

	return checkoutToResponse(transaction), nil
}

// ── Restock ──────────────────────────────────────────────────────────────────

func (s *checkoutService) Restock(ctx context.Context, userID uuid.UUID, req dto.RestockRequest) (*dto.CheckoutResponse, error) {
	state := stateValidating

	shopID, err := uuid.Parse(req.ShopID)
	if err != nil {
		return nil, ErrShopNotFound
	}
	pid, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, ErrProductNotFound
	}
	if _, err := authorizeShopAccess(ctx, s.shops, s.users, userID, shopID); err != nil {
		return nil, err
	}

	p, err := s.products.FindByID(ctx, pid)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	if p.ShopID != shopID {
		return nil, ErrShopMismatch
	}

	if req.CostPrice.IsNegative() {
		return nil, ErrInvalidPrice
	}
	if p.IsSerialized {
		if len(req.Barcodes) == 0 {
			return nil, ErrMissingBarcodes
		}
		seen := make(map[string]struct{}, len(req.Barcodes))
		for _, bc := range req.Barcodes {
			if _, dup := seen[bc]; dup {
				return nil, ErrDuplicateBarcodeInRequest
			}
			seen[bc] = struct{}{}
		}
	} else {
		if len(req.Barcodes) > 0 {
			return nil, ErrInvalidRestockLine
		}
		if req.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}

	state = stateApplying
	var undo []undoAction
	quantity := req.Quantity

	if p.IsSerialized {
		// Quantity is derived from the barcode count; a client-supplied
		// value is ignored.
		quantity = len(req.Barcodes)
		for _, bc := range req.Barcodes {
			barcode := bc
			if err := s.ledger.ReceiveUnit(ctx, p.ID, barcode); err != nil {
				return nil, s.rollback(ctx, model.TransactionRestock, state, undo, err)
			}
			undo = append(undo, undoAction{
				descr: fmt.Sprintf("remove unit %s", barcode),
				fn: func(ctx context.Context) error {
					_, err := s.ledger.ReleaseUnit(ctx, barcode)
					return err
				},
			})
		}
	} else {
		if err := s.ledger.ReceiveBulk(ctx, p.ID, quantity); err != nil {
			return nil, s.rollback(ctx, model.TransactionRestock, state, undo, err)
		}
		productID := p.ID
		qty := quantity
		undo = append(undo, undoAction{
			descr: fmt.Sprintf("remove %d units of %s", qty, productID),
			fn: func(ctx context.Context) error {
				return s.ledger.ReleaseBulk(ctx, productID, qty)
			},
		})
	}

	state = stateRecording
	line := s.recorder.BuildRestockLine(p, req.CostPrice, quantity, req.Barcodes)
	transaction := &model.Transaction{
		ShopID: shopID,
		UserID: userID,
		Type:   model.TransactionRestock,
		Total:  s.recorder.ComputeTotal([]model.TransactionLine{line}),
		Lines:  []model.TransactionLine{line},
	}
	if err := s.recorder.Persist(ctx, transaction); err != nil {
		return nil, s.rollback(ctx, model.TransactionRestock, state, undo, err)
	}
	state = stateCommitted

	log.Info().
		Str("transaction_id", transaction.ID.String()).
		Str("shop_id", shopID.String()).
		Str("state", state.String()).
		Int("quantity", quantity).
		Msg("restock committed")

	return checkoutToResponse(transaction), nil
}

// ── Rollback ─────────────────────────────────────────────────────────────────

// rollback undoes applied movements in reverse order and returns cause.
// An undo step that itself fails is logged and skipped: the original
// error always wins, and the audit job surfaces any count drift left
// behind.
func (s *checkoutService) rollback(ctx context.Context, opType string, from checkoutState, undo []undoAction, cause error) error {
	checkoutRollbacks.WithLabelValues(opType).Inc()
	for i := len(undo) - 1; i >= 0; i-- {
		if err := undo[i].fn(ctx); err != nil {
			log.Error().
				Err(err).
				Str("action", undo[i].descr).
				Str("failed_in", from.String()).
				Bool("inconsistent", true).
				Msg("rollback step failed")
		}
	}
	log.Warn().
		Err(cause).
		Str("failed_in", from.String()).
		Str("state", stateFailed.String()).
		Int("undone", len(undo)).
		Msg("checkout rolled back")
	return cause
}

// notifyLowStock queues one alert email per product that crossed its
// threshold during this sale. Best effort, after commit.
func (s *checkoutService) notifyLowStock(ctx context.Context, touched map[uuid.UUID]*model.Product) {
	if s.dispatcher == nil {
		return
	}
	for id := range touched {
		p, err := s.products.FindByID(ctx, id)
		if err != nil {
			continue
		}
		if p.BelowThreshold() {
			_ = s.dispatcher.EnqueueLowStockAlert(ctx, map[string]interface{}{
				"product_id": p.ID.String(),
				"shop_id":    p.ShopID.String(),
				"name":       p.Name,
				"quantity":   p.Quantity,
				"threshold":  p.Threshold,
			})
		}
	}
}

func checkoutToResponse(t *model.Transaction) *dto.CheckoutResponse {
	lines := make([]dto.CheckoutLineResponse, 0, len(t.Lines))
	for i := range t.Lines {
		l := &t.Lines[i]
		lines = append(lines, dto.CheckoutLineResponse{
			ProductID: l.ProductID.String(),
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.LineTotal(),
		})
	}
	return &dto.CheckoutResponse{
		TransactionID: t.ID.String(),
		Type:          t.Type,
		Lines:         lines,
		Total:         t.Total,
		CreatedAt:     t.CreatedAt.UTC().Format(time.RFC3339),
	}
}
