package service

import (
	"context"
	"errors"
	"time"

	"github.com/StockSmart-AI/stock-smart-backend/internal/dto"
	"github.com/StockSmart-AI/stock-smart-backend/internal/infra"
	"github.com/StockSmart-AI/stock-smart-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnalyticsService aggregates read-only dashboard numbers. Everything
// here is computed from committed transactions and current stock; it
// never mutates inventory.
type AnalyticsService interface {
	Summary(ctx context.Context, userID, shopID uuid.UUID) (*dto.SummaryResponse, error)
	StockByCategory(ctx context.Context, userID, shopID uuid.UUID) ([]dto.CategoryStockResponse, error)
	SalesSeries(ctx context.Context, userID, shopID uuid.UUID, window string, days int) ([]dto.SalesPointResponse, error)
	TopSelling(ctx context.Context, userID, shopID uuid.UUID, limit int) ([]dto.TopProductResponse, error)
	TopStocked(ctx context.Context, userID, shopID uuid.UUID, limit int) ([]dto.StockedProductResponse, error)
	CriticalProducts(ctx context.Context, userID, shopID uuid.UUID) ([]dto.CriticalProductResponse, error)
	// Forecast projects demand for a product via the forecasting sidecar.
	Forecast(ctx context.Context, userID, productID uuid.UUID, horizon int) (*dto.ForecastResponse, error)
}

type analyticsService struct {
	products     repository.ProductRepository
	transactions repository.TransactionRepository
	shops        repository.ShopRepository
	users        repository.UserRepository
	forecast     *infra.ForecastClient
	cb           *infra.CircuitBreaker
}

func NewAnalyticsService(
	products repository.ProductRepository,
	transactions repository.TransactionRepository,
	shops repository.ShopRepository,
	users repository.UserRepository,
	forecast *infra.ForecastClient,
	cb *infra.CircuitBreaker,
) AnalyticsService {
	return &analyticsService{
		products:     products,
		transactions: transactions,
		shops:        shops,
		users:        users,
		forecast:     forecast,
		cb:           cb,
	}
}

func (s *analyticsService) Summary(ctx context.Context, userID, shopID uuid.UUID) (*dto.SummaryResponse, error) {
	if _, err := authorizeShopAccess(ctx, s.shops, s.users, userID, shopID); err != nil {
		return nil, err
	}
	totalStock, err := s.products.TotalStock(ctx, shopID)
	if err != nil {
		return nil, err
	}
	productCount, err := s.products.CountAll(ctx, shopID)
	if err != nil {
		return nil, err
	}
	outOfStock, err := s.products.CountOutOfStock(ctx, shopID)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.products.CountLowStock(ctx, shopID)
	if err != nil {
		return nil, err
	}
	inventoryValue, err := s.products.InventoryValue(ctx, shopID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	tomorrow := dayStart.AddDate(0, 0, 1)

	salesToday, err := s.transactions.SalesTotalBetween(ctx, shopID, dayStart, tomorrow)
	if err != nil {
		return nil, err
	}
	salesThisMonth, err := s.transactions.SalesTotalBetween(ctx, shopID, monthStart, tomorrow)
	if err != nil {
		return nil, err
	}

	return &dto.SummaryResponse{
		TotalStock:     totalStock,
		ProductCount:   productCount,
		OutOfStock:     outOfStock,
		LowStock:       lowStock,
		InventoryValue: inventoryValue,
		SalesToday:     salesToday,
		SalesThisMonth: salesThisMonth,
	}, nil
}

func (s *analyticsService) StockByCategory(ctx context.Context, userID, shopID uuid.UUID) ([]dto.CategoryStockResponse, error) {
	if _, err := authorizeShopAccess(ctx, s.shops, s.users, userID, shopID); err != nil {
		return nil, err
	}
	return s.products.StockByCategory(ctx, shopID)
}

func (s *analyticsService) SalesSeries(ctx context.Context, userID, shopID uuid.UUID, window string, days int) ([]dto.SalesPointResponse, error) {
	if _, err := authorizeShopAccess(ctx, s.shops, s.users, userID, shopID); err != nil {
		return nil, err
	}
	if days < 1 {
		days = 30
	}
	from := time.Now().AddDate(0, 0, -days)
	return s.transactions.SalesSeries(ctx, shopID, window, from)
}

func (s *analyticsService) TopSelling(ctx context.Context, userID, shopID uuid.UUID, limit int) ([]dto.TopProductResponse, error) {
	if _, err := authorizeShopAccess(ctx, s.shops, s.users, userID, shopID); err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = 5
	}
	return s.transactions.TopSelling(ctx, shopID, limit)
}

func (s *analyticsService) TopStocked(ctx context.Context, userID, shopID uuid.UUID, limit int) ([]dto.StockedProductResponse, error) {
	if _, err := authorizeShopAccess(ctx, s.shops, s.users, userID, shopID); err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = 5
	}
	products, err := s.products.TopStocked(ctx, shopID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockedProductResponse, 0, len(products))
	for i := range products {
		p := &products[i]
		out = append(out, dto.StockedProductResponse{
			ProductID: p.ID.String(),
			Name:      p.Name,
			Category:  p.Category,
			Quantity:  p.Quantity,
		})
	}
	return out, nil
}

func (s *analyticsService) CriticalProducts(ctx context.Context, userID, shopID uuid.UUID) ([]dto.CriticalProductResponse, error) {
	if _, err := authorizeShopAccess(ctx, s.shops, s.users, userID, shopID); err != nil {
		return nil, err
	}
	products, err := s.products.ListLowStock(ctx, shopID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CriticalProductResponse, 0, len(products))
	for i := range products {
		p := &products[i]
		out = append(out, dto.CriticalProductResponse{
			ProductID: p.ID.String(),
			Name:      p.Name,
			Quantity:  p.Quantity,
			Threshold: p.Threshold,
		})
	}
	return out, nil
}

// forecastHistoryDays bounds the history window sent to the sidecar.
const forecastHistoryDays = 180

func (s *analyticsService) Forecast(ctx context.Context, userID, productID uuid.UUID, horizon int) (*dto.ForecastResponse, error) {
	p, err := s.products.FindByID(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, err := authorizeShopAccess(ctx, s.shops, s.users, userID, p.ShopID); err != nil {
		return nil, err
	}
	if horizon < 1 {
		horizon = 14
	}
	from := time.Now().AddDate(0, 0, -forecastHistoryDays)
	series, err := s.transactions.DailyUnitsSold(ctx, productID, from)
	if err != nil {
		return nil, err
	}

	history := make([]infra.ForecastObservation, 0, len(series))
	for _, point := range series {
		history = append(history, infra.ForecastObservation{
			Date:  point.Bucket,
			Units: int(point.Count),
		})
	}

	var result *infra.ForecastResult
	cbErr := s.cb.Execute(func() error {
		r, err := s.forecast.Predict(ctx, infra.ForecastRequest{
			ProductID: productID.String(),
			Horizon:   horizon,
			History:   history,
		})
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if cbErr != nil {
		return nil, cbErr
	}

	points := make([]dto.ForecastPointResponse, 0, len(result.Points))
	for _, p := range result.Points {
		points = append(points, dto.ForecastPointResponse{
			Date:     p.Date,
			Forecast: p.Forecast,
			Lower:    p.Lower,
			Upper:    p.Upper,
		})
	}
	return &dto.ForecastResponse{
		ProductID: productID.String(),
		Horizon:   horizon,
		Points:    points,
	}, nil
}
