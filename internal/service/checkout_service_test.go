package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/StockSmart-AI/stock-smart-backend/internal/dto"
	"github.com/StockSmart-AI/stock-smart-backend/internal/model"
	"github.com/StockSmart-AI/stock-smart-backend/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Checkout fixture ─────────────────────────────────────────────────────────

type checkoutFixture struct {
	svc          service.CheckoutService
	shop         *model.Shop
	owner        uuid.UUID
	shops        *stubShopRepo
	users        *stubUserRepo
	products     *stubProductRepo
	items        *stubItemRepo
	transactions *stubTransactionRepo
}

func buildCheckout() *checkoutFixture {
	products := newStubProductRepo()
	items := newStubItemRepo(products)
	shops := newStubShopRepo()
	users := newStubUserRepo()
	transactions := newStubTransactionRepo()

	ledger := service.NewLedgerService(products, items)
	recorder := service.NewRecorderService(transactions)
	svc := service.NewCheckoutService(ledger, recorder, products, shops, users, nil)

	shop := seedShop(shops)
	return &checkoutFixture{
		svc:          svc,
		shop:         shop,
		owner:        shop.OwnerID,
		shops:        shops,
		users:        users,
		products:     products,
		items:        items,
		transactions: transactions,
	}
}

func (f *checkoutFixture) receiveUnits(t *testing.T, productID uuid.UUID, barcodes ...string) {
	t.Helper()
	for _, bc := range barcodes {
		require.NoError(t, f.items.CreateWithIncrement(context.Background(), &model.Item{
			ProductID: productID,
			Barcode:   bc,
		}))
	}
}

// ── Sell ─────────────────────────────────────────────────────────────────────

func TestSell_BulkHappyPath(t *testing.T) {
	f := buildCheckout()
	p := seedProduct(f.products, f.shop.ID, "Rice 5kg", 10, false)

	resp, err := f.svc.Sell(context.Background(), f.owner, dto.SellRequest{
		ShopID: f.shop.ID.String(),
		Cart: []dto.SaleLineRequest{
			{ProductID: p.ID.String(), Quantity: 3, Price: decimal.NewFromFloat(12.50)},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, model.TransactionSale, resp.Type)
	assert.True(t, resp.Total.Equal(decimal.NewFromFloat(37.50)), "got %s", resp.Total)
	assert.Equal(t, 7, f.products.quantity(p.ID))
	assert.Equal(t, 1, f.transactions.count())

	stamp, err := time.Parse(time.RFC3339, resp.CreatedAt)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, stamp.Location())
}

func TestSell_SerializedConsumesBarcodes(t *testing.T) {
	f := buildCheckout()
	p := seedProduct(f.products, f.shop.ID, "Phone", 0, true)
	f.receiveUnits(t, p.ID, "4006381333931", "4006381333948")

	resp, err := f.svc.Sell(context.Background(), f.owner, dto.SellRequest{
		ShopID: f.shop.ID.String(),
		Cart: []dto.SaleLineRequest{
			{
				ProductID: p.ID.String(),
				Quantity:  2,
				Price:     decimal.NewFromFloat(300),
				Barcodes:  []string{"4006381333931", "4006381333948"},
			},
		},
	})

	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(decimal.NewFromFloat(600)))
	assert.Equal(t, 0, f.products.quantity(p.ID))
	// Both units are gone from the ledger.
	_, err = f.items.FindByBarcode(context.Background(), "4006381333931")
	assert.Error(t, err)
}

func TestSell_UnknownShop(t *testing.T) {
	f := buildCheckout()
	p := seedProduct(f.products, f.shop.ID, "Rice 5kg", 10, false)

	_, err := f.svc.Sell(context.Background(), f.owner, dto.SellRequest{
		ShopID: uuid.New().String(),
		Cart: []dto.SaleLineRequest{
			{ProductID: p.ID.String(), Quantity: 1, Price: decimal.NewFromFloat(5)},
		},
	})

	assert.ErrorIs(t, err, service.ErrShopNotFound)
	assert.Equal(t, 10, f.products.quantity(p.ID))
}

func TestSell_EmptyCart(t *testing.T) {
	f := buildCheckout()

	_, err := f.svc.Sell(context.Background(), f.owner, dto.SellRequest{
		ShopID: f.shop.ID.String(),
	})
	assert.ErrorIs(t, err, service.ErrEmptyPayload)
}

func TestSell_ProductFromAnotherShop(t *testing.T) {
	f := buildCheckout()
	p := seedProduct(f.products, uuid.New(), "Rice 5kg", 10, false)

	_, err := f.svc.Sell(context.Background(), f.owner, dto.SellRequest{
		ShopID: f.shop.ID.String(),
		Cart: []dto.SaleLineRequest{
			{ProductID: p.ID.String(), Quantity: 1, Price: decimal.NewFromFloat(5)},
		},
	})

	assert.ErrorIs(t, err, service.ErrShopMismatch)
	assert.Equal(t, 10, f.products.quantity(p.ID))
}

func TestSell_BarcodeCountMismatch(t *testing.T) {
	f := buildCheckout()
	p := seedProduct(f.products, f.shop.ID, "Phone", 0, true)
	f.receiveUnits(t, p.ID, "4006381333931", "4006381333948")

	_, err := f.svc.Sell(context.Background(), f.owner, dto.SellRequest{
		ShopID: f.shop.ID.String(),
		Cart: []dto.SaleLineRequest{
			{
				ProductID: p.ID.String(),
				Quantity:  2,
				Price:     decimal.NewFromFloat(300),
				Barcodes:  []string{"4006381333931"},
			},
		},
	})

	assert.ErrorIs(t, err, service.ErrBarcodeCountMismatch)
	// Validation failures happen before any stock moves.
	assert.Equal(t, 2, f.products.quantity(p.ID))
}

func TestSell_DuplicateBarcodeAcrossCart(t *testing.T) {
	f := buildCheckout()
	p := seedProduct(f.products, f.shop.ID, "Phone", 0, true)
	f.receiveUnits(t, p.ID, "4006381333931", "4006381333948")

	_, err := f.svc.Sell(context.Background(), f.owner, dto.SellRequest{
		ShopID: f.shop.ID.String(),
		Cart: []dto.SaleLineRequest{
			{ProductID: p.ID.String(), Quantity: 1, Price: decimal.NewFromFloat(300), Barcodes: []string{"4006381333931"}},
			{ProductID: p.ID.String(), Quantity: 1, Price: decimal.NewFromFloat(300), Barcodes: []string{"4006381333931"}},
		},
	})

	assert.ErrorIs(t, err, service.ErrDuplicateBarcodeInRequest)
	assert.Equal(t, 2, f.products.quantity(p.ID))
}

func TestSell_BarcodesOnBulkProduct(t *testing.T) {
	f := buildCheckout()
	p := seedProduct(f.products, f.shop.ID, "Rice 5kg", 10, false)

	_, err := f.svc.Sell(context.Background(), f.owner, dto.SellRequest{
		ShopID: f.shop.ID.String(),
		Cart: []dto.SaleLineRequest{
			{ProductID: p.ID.String(), Quantity: 1, Price: decimal.NewFromFloat(5), Barcodes: []string{"4006381333931"}},
		},
	})

	assert.ErrorIs(t, err, service.ErrUnexpectedBarcodes)
}

func TestSell_LineErrorReportsIndex(t *testing.T) {
	f := buildCheckout()
	good := seedProduct(f.products, f.shop.ID, "Rice 5kg", 10, false)

	_, err := f.svc.Sell(context.Background(), f.owner, dto.SellRequest{
		ShopID: f.shop.ID.String(),
		Cart: []dto.SaleLineRequest{
			{ProductID: good.ID.String(), Quantity: 1, Price: decimal.NewFromFloat(5)},
			{ProductID: uuid.New().String(), Quantity: 1, Price: decimal.NewFromFloat(5)},
		},
	})

	var lineErr *service.LineError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, 1, lineErr.Index)
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}

// Shortages visible up front fail in validation: nothing moves at all.
func TestSell_InsufficientStockFailsBeforeApply(t *testing.T) {
	f := buildCheckout()
	ample := seedProduct(f.products, f.shop.ID, "Rice 5kg", 10, false)
	short := seedProduct(f.products, f.shop.ID, "Flour 1kg", 1, false)

	_, err := f.svc.Sell(context.Background(), f.owner, dto.SellRequest{
		ShopID: f.shop.ID.String(),
		Cart: []dto.SaleLineRequest{
			{ProductID: ample.ID.String(), Quantity: 4, Price: decimal.NewFromFloat(5)},
			{ProductID: short.ID.String(), Quantity: 3, Price: decimal.NewFromFloat(8)},
		},
	})

	assert.ErrorIs(t, err, service.ErrInsufficientStock)
	assert.Equal(t, 10, f.products.quantity(ample.ID))
	assert.Equal(t, 1, f.products.quantity(short.ID))
	assert.Equal(t, 0, f.transactions.count())
}

// Two lines drawing on the same product are checked against their sum.
func TestSell_CumulativeShortageAcrossLines(t *testing.T) {
	f := buildCheckout()
	p := seedProduct(f.products, f.shop.ID, "Rice 5kg", 5, false)

	_, err := f.svc.Sell(context.Background(), f.owner, dto.SellRequest{
		ShopID: f.shop.ID.String(),
		Cart: []dto.SaleLineRequest{
			{ProductID: p.ID.String(), Quantity: 3, Price: decimal.NewFromFloat(5)},
			{ProductID: p.ID.String(), Quantity: 3, Price: decimal.NewFromFloat(5)},
		},
	})

	assert.ErrorIs(t, err, service.ErrInsufficientStock)
	assert.Equal(t, 5, f.products.quantity(p.ID))
}

// An apply-time failure on a later line must restore what earlier lines
// already took.
func TestSell_RollbackRestoresEarlierLines(t *testing.T) {
	f := buildCheckout()
	bulk := seedProduct(f.products, f.shop.ID, "Rice 5kg", 10, false)
	phone := seedProduct(f.products, f.shop.ID, "Phone", 0, true)

	// The barcode passes validation but is not a live unit, so the
	// failure only surfaces once the ledger is asked to release it.
	_, err := f.svc.Sell(context.Background(), f.owner, dto.SellRequest{
		ShopID: f.shop.ID.String(),
		Cart: []dto.SaleLineRequest{
			{ProductID: bulk.ID.String(), Quantity: 4, Price: decimal.NewFromFloat(5)},
			{ProductID: phone.ID.String(), Quantity: 1, Price: decimal.NewFromFloat(300), Barcodes: []string{"0000000011111"}},
		},
	})

	assert.ErrorIs(t, err, service.ErrItemNotFound)
	assert.Equal(t, 10, f.products.quantity(bulk.ID))
	assert.Equal(t, 0, f.transactions.count())
}

// Rollback recreates sold serialized units under their original barcodes.
func TestSell_RollbackRecreatesUnits(t *testing.T) {
	f := buildCheckout()
	phone := seedProduct(f.products, f.shop.ID, "Phone", 0, true)
	f.receiveUnits(t, phone.ID, "4006381333931")

	_, err := f.svc.Sell(context.Background(), f.owner, dto.SellRequest{
		ShopID: f.shop.ID.String(),
		Cart: []dto.SaleLineRequest{
			{ProductID: phone.ID.String(), Quantity: 1, Price: decimal.NewFromFloat(300), Barcodes: []string{"4006381333931"}},
			{ProductID: phone.ID.String(), Quantity: 1, Price: decimal.NewFromFloat(300), Barcodes: []string{"0000000011111"}},
		},
	})

	assert.ErrorIs(t, err, service.ErrItemNotFound)
	// The sold unit is back in the ledger with the same barcode.
	item, findErr := f.items.FindByBarcode(context.Background(), "4006381333931")
	require.NoError(t, findErr)
	assert.Equal(t, phone.ID, item.ProductID)
	assert.Equal(t, 1, f.products.quantity(phone.ID))
}

func TestSell_ZeroPriceLineAllowed(t *testing.T) {
	f := buildCheckout()
	p := seedProduct(f.products, f.shop.ID, "Sample Pack", 5, false)

	resp, err := f.svc.Sell(context.Background(), f.owner, dto.SellRequest{
		ShopID: f.shop.ID.String(),
		Cart: []dto.SaleLineRequest{
			{ProductID: p.ID.String(), Quantity: 2, Price: decimal.Zero},
		},
	})

	require.NoError(t, err)
	assert.True(t, resp.Total.IsZero())
	assert.Equal(t, 3, f.products.quantity(p.ID))
}

func TestSell_NegativePriceRejected(t *testing.T) {
	f := buildCheckout()
	p := seedProduct(f.products, f.shop.ID, "Rice 5kg", 5, false)

	_, err := f.svc.Sell(context.Background(), f.owner, dto.SellRequest{
		ShopID: f.shop.ID.String(),
		Cart: []dto.SaleLineRequest{
			{ProductID: p.ID.String(), Quantity: 1, Price: decimal.NewFromFloat(-1)},
		},
	})
	assert.ErrorIs(t, err, service.ErrInvalidPrice)
}

// When the transaction record cannot be written, every ledger movement is
// undone and the recorder's error comes back to the caller.
func TestSell_RecorderFailureRollsBackAll(t *testing.T) {
	f := buildCheckout()
	p := seedProduct(f.products, f.shop.ID, "Rice 5kg", 10, false)
	boom := errors.New("record store down")
	f.transactions.failCreate = boom

	_, err := f.svc.Sell(context.Background(), f.owner, dto.SellRequest{
		ShopID: f.shop.ID.String(),
		Cart: []dto.SaleLineRequest{
			{ProductID: p.ID.String(), Quantity: 6, Price: decimal.NewFromFloat(5)},
		},
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 10, f.products.quantity(p.ID))
	assert.Equal(t, 0, f.transactions.count())
}

// ── Restock ──────────────────────────────────────────────────────────────────

func TestRestock_BulkHappyPath(t *testing.T) {
	f := buildCheckout()
	p := seedProduct(f.products, f.shop.ID, "Rice 5kg", 2, false)

	resp, err := f.svc.Restock(context.Background(), f.owner, dto.RestockRequest{
		ShopID:    f.shop.ID.String(),
		ProductID: p.ID.String(),
		CostPrice: decimal.NewFromFloat(3.20),
		Quantity:  8,
	})

	require.NoError(t, err)
	assert.Equal(t, model.TransactionRestock, resp.Type)
	assert.True(t, resp.Total.Equal(decimal.NewFromFloat(25.60)), "got %s", resp.Total)
	assert.Equal(t, 10, f.products.quantity(p.ID))
}

func TestRestock_SerializedRegistersUnits(t *testing.T) {
	f := buildCheckout()
	p := seedProduct(f.products, f.shop.ID, "Phone", 0, true)

	resp, err := f.svc.Restock(context.Background(), f.owner, dto.RestockRequest{
		ShopID:    f.shop.ID.String(),
		ProductID: p.ID.String(),
		CostPrice: decimal.NewFromFloat(250),
		Barcodes:  []string{"4006381333931", "4006381333948", "4006381333955"},
	})

	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(decimal.NewFromFloat(750)))
	assert.Equal(t, 3, f.products.quantity(p.ID))
	n, _ := f.items.CountByProduct(context.Background(), p.ID)
	assert.EqualValues(t, 3, n)
}

// For serialized restocks the barcode count is authoritative; a supplied
// quantity that disagrees is ignored.
func TestRestock_QuantityDerivedFromBarcodes(t *testing.T) {
	f := buildCheckout()
	p := seedProduct(f.products, f.shop.ID, "Phone", 0, true)

	resp, err := f.svc.Restock(context.Background(), f.owner, dto.RestockRequest{
		ShopID:    f.shop.ID.String(),
		ProductID: p.ID.String(),
		CostPrice: decimal.NewFromFloat(100),
		Quantity:  10,
		Barcodes:  []string{"4006381333931", "4006381333948", "4006381333955"},
	})

	require.NoError(t, err)
	assert.Equal(t, 3, f.products.quantity(p.ID))
	assert.True(t, resp.Total.Equal(decimal.NewFromFloat(300)))
}

func TestRestock_SerializedWithoutBarcodes(t *testing.T) {
	f := buildCheckout()
	p := seedProduct(f.products, f.shop.ID, "Phone", 0, true)

	_, err := f.svc.Restock(context.Background(), f.owner, dto.RestockRequest{
		ShopID:    f.shop.ID.String(),
		ProductID: p.ID.String(),
		CostPrice: decimal.NewFromFloat(250),
		Quantity:  3,
	})
	assert.ErrorIs(t, err, service.ErrMissingBarcodes)
}

func TestRestock_BulkWithBarcodes(t *testing.T) {
	f := buildCheckout()
	p := seedProduct(f.products, f.shop.ID, "Rice 5kg", 2, false)

	_, err := f.svc.Restock(context.Background(), f.owner, dto.RestockRequest{
		ShopID:    f.shop.ID.String(),
		ProductID: p.ID.String(),
		CostPrice: decimal.NewFromFloat(3),
		Barcodes:  []string{"4006381333931"},
	})
	assert.ErrorIs(t, err, service.ErrInvalidRestockLine)
}

// Colliding with an already-live barcode rolls back the units received
// before it.
func TestRestock_DuplicateBarcodeRollsBack(t *testing.T) {
	f := buildCheckout()
	p := seedProduct(f.products, f.shop.ID, "Phone", 0, true)
	f.receiveUnits(t, p.ID, "4006381333948")

	_, err := f.svc.Restock(context.Background(), f.owner, dto.RestockRequest{
		ShopID:    f.shop.ID.String(),
		ProductID: p.ID.String(),
		CostPrice: decimal.NewFromFloat(250),
		Barcodes:  []string{"4006381333931", "4006381333948"},
	})

	assert.ErrorIs(t, err, service.ErrDuplicateBarcode)
	// Only the pre-existing unit remains.
	assert.Equal(t, 1, f.products.quantity(p.ID))
	_, findErr := f.items.FindByBarcode(context.Background(), "4006381333931")
	assert.Error(t, findErr)
}

func TestRestock_RecorderFailureRollsBack(t *testing.T) {
	f := buildCheckout()
	p := seedProduct(f.products, f.shop.ID, "Phone", 0, true)
	f.transactions.failCreate = errors.New("record store down")

	_, err := f.svc.Restock(context.Background(), f.owner, dto.RestockRequest{
		ShopID:    f.shop.ID.String(),
		ProductID: p.ID.String(),
		CostPrice: decimal.NewFromFloat(250),
		Barcodes:  []string{"4006381333931"},
	})

	assert.Error(t, err)
	assert.Equal(t, 0, f.products.quantity(p.ID))
	n, _ := f.items.CountByProduct(context.Background(), p.ID)
	assert.EqualValues(t, 0, n)
}

// ── Barcode ownership ────────────────────────────────────────────────────────

func TestSell_BarcodeOwnedByAnotherShopsProduct(t *testing.T) {
	f := buildCheckout()
	mine := seedProduct(f.products, f.shop.ID, "Phone", 0, true)

	other := &model.Shop{ID: uuid.New(), Name: "Rival Store", OwnerID: uuid.New()}
	f.shops.shops[other.ID] = other
	theirs := seedProduct(f.products, other.ID, "Phone", 0, true)
	f.receiveUnits(t, theirs.ID, "4006381333931")

	_, err := f.svc.Sell(context.Background(), f.owner, dto.SellRequest{
		ShopID: f.shop.ID.String(),
		Cart: []dto.SaleLineRequest{
			{
				ProductID: mine.ID.String(),
				Quantity:  1,
				Price:     decimal.NewFromFloat(300),
				Barcodes:  []string{"4006381333931"},
			},
		},
	})

	assert.ErrorIs(t, err, service.ErrBarcodeWrongProduct)
	// The foreign unit is back where it was and nothing got recorded.
	assert.Equal(t, 1, f.products.quantity(theirs.ID))
	item, findErr := f.items.FindByBarcode(context.Background(), "4006381333931")
	require.NoError(t, findErr)
	assert.Equal(t, theirs.ID, item.ProductID)
	assert.Equal(t, 0, f.transactions.count())
}

func TestSell_BarcodeOwnedBySiblingProductRollsBack(t *testing.T) {
	f := buildCheckout()
	bulk := seedProduct(f.products, f.shop.ID, "Rice 5kg", 10, false)
	phone := seedProduct(f.products, f.shop.ID, "Phone", 0, true)
	charger := seedProduct(f.products, f.shop.ID, "Charger", 0, true)
	f.receiveUnits(t, charger.ID, "4006381333948")

	_, err := f.svc.Sell(context.Background(), f.owner, dto.SellRequest{
		ShopID: f.shop.ID.String(),
		Cart: []dto.SaleLineRequest{
			{ProductID: bulk.ID.String(), Quantity: 2, Price: decimal.NewFromFloat(5)},
			{
				ProductID: phone.ID.String(),
				Quantity:  1,
				Price:     decimal.NewFromFloat(300),
				Barcodes:  []string{"4006381333948"},
			},
		},
	})

	var lineErr *service.LineError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, 1, lineErr.Index)
	assert.ErrorIs(t, err, service.ErrBarcodeWrongProduct)
	// The earlier bulk line was undone and the charger unit restored.
	assert.Equal(t, 10, f.products.quantity(bulk.ID))
	assert.Equal(t, 1, f.products.quantity(charger.ID))
	item, findErr := f.items.FindByBarcode(context.Background(), "4006381333948")
	require.NoError(t, findErr)
	assert.Equal(t, charger.ID, item.ProductID)
	assert.Equal(t, 0, f.transactions.count())
}

// ── Shop access ──────────────────────────────────────────────────────────────

func TestSell_StrangerForbidden(t *testing.T) {
	f := buildCheckout()
	p := seedProduct(f.products, f.shop.ID, "Rice 5kg", 10, false)

	_, err := f.svc.Sell(context.Background(), uuid.New(), dto.SellRequest{
		ShopID: f.shop.ID.String(),
		Cart: []dto.SaleLineRequest{
			{ProductID: p.ID.String(), Quantity: 3, Price: decimal.NewFromFloat(12.50)},
		},
	})

	assert.ErrorIs(t, err, service.ErrForbidden)
	assert.Equal(t, 10, f.products.quantity(p.ID))
	assert.Equal(t, 0, f.transactions.count())
}

func TestSell_AssignedEmployeeAllowed(t *testing.T) {
	f := buildCheckout()
	p := seedProduct(f.products, f.shop.ID, "Rice 5kg", 10, false)
	employee := seedEmployee(f.users, f.shop.ID)

	_, err := f.svc.Sell(context.Background(), employee.ID, dto.SellRequest{
		ShopID: f.shop.ID.String(),
		Cart: []dto.SaleLineRequest{
			{ProductID: p.ID.String(), Quantity: 1, Price: decimal.NewFromFloat(12.50)},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 9, f.products.quantity(p.ID))
}

func TestSell_EmployeeOfAnotherShopForbidden(t *testing.T) {
	f := buildCheckout()
	p := seedProduct(f.products, f.shop.ID, "Rice 5kg", 10, false)
	employee := seedEmployee(f.users, uuid.New())

	_, err := f.svc.Sell(context.Background(), employee.ID, dto.SellRequest{
		ShopID: f.shop.ID.String(),
		Cart: []dto.SaleLineRequest{
			{ProductID: p.ID.String(), Quantity: 1, Price: decimal.NewFromFloat(12.50)},
		},
	})

	assert.ErrorIs(t, err, service.ErrForbidden)
	assert.Equal(t, 10, f.products.quantity(p.ID))
}

func TestRestock_StrangerForbidden(t *testing.T) {
	f := buildCheckout()
	p := seedProduct(f.products, f.shop.ID, "Rice 5kg", 10, false)

	_, err := f.svc.Restock(context.Background(), uuid.New(), dto.RestockRequest{
		ShopID:    f.shop.ID.String(),
		ProductID: p.ID.String(),
		CostPrice: decimal.NewFromFloat(4),
		Quantity:  5,
	})

	assert.ErrorIs(t, err, service.ErrForbidden)
	assert.Equal(t, 10, f.products.quantity(p.ID))
}
