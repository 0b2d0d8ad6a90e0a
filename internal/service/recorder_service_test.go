package service_test

import (
	"context"
	"testing"

	"github.com/StockSmart-AI/stock-smart-backend/internal/model"
	"github.com/StockSmart-AI/stock-smart-backend/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSaleLines_SnapshotsProductFields(t *testing.T) {
	recorder := service.NewRecorderService(newStubTransactionRepo())

	p := &model.Product{
		ID:       uuid.New(),
		Name:     "Espresso Beans 1kg",
		Category: "coffee",
		Price:    decimal.NewFromFloat(24.50),
	}
	lines := recorder.BuildSaleLines(
		map[uuid.UUID]*model.Product{p.ID: p},
		[]service.SaleLine{{ProductID: p.ID, Quantity: 3, Price: decimal.NewFromFloat(22)}},
	)

	require.Len(t, lines, 1)
	assert.Equal(t, "Espresso Beans 1kg", lines[0].Name)
	assert.Equal(t, "coffee", lines[0].Category)
	assert.Equal(t, 3, lines[0].Quantity)
	// The line keeps the price charged, not the catalog price.
	assert.True(t, lines[0].UnitPrice.Equal(decimal.NewFromFloat(22)))
}

func TestComputeTotal(t *testing.T) {
	recorder := service.NewRecorderService(newStubTransactionRepo())

	lines := []model.TransactionLine{
		{Quantity: 2, UnitPrice: decimal.NewFromFloat(10.50)},
		{Quantity: 1, UnitPrice: decimal.NewFromFloat(3.25)},
		{Quantity: 4, UnitPrice: decimal.NewFromFloat(0.99)},
	}
	total := recorder.ComputeTotal(lines)

	// 21.00 + 3.25 + 3.96
	assert.True(t, total.Equal(decimal.NewFromFloat(28.21)), "got %s", total)
}

func TestComputeTotal_Empty(t *testing.T) {
	recorder := service.NewRecorderService(newStubTransactionRepo())
	assert.True(t, recorder.ComputeTotal(nil).IsZero())
}

func TestPersist_RejectsEmptyTransaction(t *testing.T) {
	repo := newStubTransactionRepo()
	recorder := service.NewRecorderService(repo)

	err := recorder.Persist(context.Background(), &model.Transaction{Type: model.TransactionSale})

	assert.ErrorIs(t, err, service.ErrEmptyPayload)
	assert.Equal(t, 0, repo.count())
}

func TestPersist_StoresTransactionWithLines(t *testing.T) {
	repo := newStubTransactionRepo()
	recorder := service.NewRecorderService(repo)

	tx := &model.Transaction{
		ShopID: uuid.New(),
		UserID: uuid.New(),
		Type:   model.TransactionRestock,
		Total:  decimal.NewFromFloat(100),
		Lines: []model.TransactionLine{
			{ProductID: uuid.New(), Name: "Flour 1kg", Quantity: 10, UnitPrice: decimal.NewFromFloat(10)},
		},
	}
	require.NoError(t, recorder.Persist(context.Background(), tx))

	stored, err := repo.FindByID(context.Background(), tx.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Lines, 1)
	assert.Equal(t, model.TransactionRestock, stored.Type)
}

func TestBuildRestockLine_CarriesBarcodes(t *testing.T) {
	recorder := service.NewRecorderService(newStubTransactionRepo())

	p := &model.Product{ID: uuid.New(), Name: "Phone", Category: "electronics", IsSerialized: true}
	line := recorder.BuildRestockLine(p, decimal.NewFromFloat(300), 2, []string{"4006381333931", "4006381333948"})

	assert.True(t, line.IsSerialized)
	assert.Equal(t, []string{"4006381333931", "4006381333948"}, line.Barcodes)
	assert.True(t, line.LineTotal().Equal(decimal.NewFromFloat(600)))
}
