package service_test

import (
	"context"
	"testing"

	"github.com/StockSmart-AI/stock-smart-backend/internal/dto"
	"github.com/StockSmart-AI/stock-smart-backend/internal/model"
	"github.com/StockSmart-AI/stock-smart-backend/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Shop-scoped reads are gated the same way as checkout writes: the
// owner and assigned employees get through, everyone else gets
// ErrForbidden regardless of role claims.

type accessFixture struct {
	shop         *model.Shop
	shops        *stubShopRepo
	users        *stubUserRepo
	products     *stubProductRepo
	transactions *stubTransactionRepo
}

func buildAccess() *accessFixture {
	shops := newStubShopRepo()
	return &accessFixture{
		shop:         seedShop(shops),
		shops:        shops,
		users:        newStubUserRepo(),
		products:     newStubProductRepo(),
		transactions: newStubTransactionRepo(),
	}
}

func (f *accessFixture) transactionSvc(t *testing.T) service.TransactionService {
	t.Helper()
	return service.NewTransactionService(f.transactions, f.shops, f.users, nil, t.TempDir())
}

func (f *accessFixture) analyticsSvc() service.AnalyticsService {
	return service.NewAnalyticsService(f.products, f.transactions, f.shops, f.users, nil, nil)
}

func (f *accessFixture) seedTransaction(t *testing.T) *model.Transaction {
	t.Helper()
	tx := &model.Transaction{
		ShopID: f.shop.ID,
		UserID: f.shop.OwnerID,
		Type:   model.TransactionSale,
		Total:  decimal.NewFromFloat(37.50),
		Lines: []model.TransactionLine{
			{ProductID: uuid.New(), Name: "Rice 5kg", Quantity: 3, UnitPrice: decimal.NewFromFloat(12.50)},
		},
	}
	require.NoError(t, f.transactions.Create(context.Background(), tx))
	return tx
}

func TestTransactionGet_OwnerAllowed(t *testing.T) {
	f := buildAccess()
	tx := f.seedTransaction(t)

	resp, err := f.transactionSvc(t).Get(context.Background(), f.shop.OwnerID, tx.ID)

	require.NoError(t, err)
	assert.Equal(t, tx.ID.String(), resp.ID)
}

func TestTransactionGet_StrangerForbidden(t *testing.T) {
	f := buildAccess()
	tx := f.seedTransaction(t)

	_, err := f.transactionSvc(t).Get(context.Background(), uuid.New(), tx.ID)

	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestTransactionGet_AssignedEmployeeAllowed(t *testing.T) {
	f := buildAccess()
	tx := f.seedTransaction(t)
	employee := seedEmployee(f.users, f.shop.ID)

	_, err := f.transactionSvc(t).Get(context.Background(), employee.ID, tx.ID)

	require.NoError(t, err)
}

func TestTransactionList_StrangerForbidden(t *testing.T) {
	f := buildAccess()

	_, err := f.transactionSvc(t).List(context.Background(), uuid.New(), dto.TransactionFilter{
		ShopID: f.shop.ID.String(),
	})

	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestTransactionList_UnknownShop(t *testing.T) {
	f := buildAccess()

	_, err := f.transactionSvc(t).List(context.Background(), f.shop.OwnerID, dto.TransactionFilter{
		ShopID: uuid.New().String(),
	})

	assert.ErrorIs(t, err, service.ErrShopNotFound)
}

func TestAnalyticsSummary_OwnerAllowed(t *testing.T) {
	f := buildAccess()

	resp, err := f.analyticsSvc().Summary(context.Background(), f.shop.OwnerID, f.shop.ID)

	require.NoError(t, err)
	assert.NotNil(t, resp)
}

func TestAnalyticsSummary_StrangerForbidden(t *testing.T) {
	f := buildAccess()

	_, err := f.analyticsSvc().Summary(context.Background(), uuid.New(), f.shop.ID)

	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestAnalyticsSummary_EmployeeOfAnotherShopForbidden(t *testing.T) {
	f := buildAccess()
	employee := seedEmployee(f.users, uuid.New())

	_, err := f.analyticsSvc().Summary(context.Background(), employee.ID, f.shop.ID)

	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestAnalyticsForecast_StrangerForbidden(t *testing.T) {
	f := buildAccess()
	p := seedProduct(f.products, f.shop.ID, "Phone", 4, false)

	_, err := f.analyticsSvc().Forecast(context.Background(), uuid.New(), p.ID, 14)

	assert.ErrorIs(t, err, service.ErrForbidden)
}
