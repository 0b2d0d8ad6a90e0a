package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/StockSmart-AI/stock-smart-backend/internal/dto"
	"github.com/StockSmart-AI/stock-smart-backend/internal/model"
	"github.com/StockSmart-AI/stock-smart-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubProductRepo is an in-memory ProductRepository. The mutex makes the
// guarded decrement behave like the real atomic UPDATE under concurrency.
type stubProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) List(_ context.Context, _ uuid.UUID, _ dto.ProductFilter) ([]model.Product, int64, error) {
	return nil, 0, nil
}

func (r *stubProductRepo) ListByShop(_ context.Context, shopID uuid.UUID) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Product
	for _, p := range r.products {
		if p.ShopID == shopID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) DeleteCascade(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) IncrementQuantity(_ context.Context, _ *gorm.DB, id uuid.UUID, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Quantity += delta
	return nil
}

func (r *stubProductRepo) DecrementQuantityGuarded(_ context.Context, _ *gorm.DB, id uuid.UUID, delta int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || p.Quantity < delta {
		return 0, nil
	}
	p.Quantity -= delta
	return 1, nil
}

func (r *stubProductRepo) TotalStock(_ context.Context, _ uuid.UUID) (int, error)       { return 0, nil }
func (r *stubProductRepo) CountAll(_ context.Context, _ uuid.UUID) (int64, error)       { return 0, nil }
func (r *stubProductRepo) CountOutOfStock(_ context.Context, _ uuid.UUID) (int64, error) {
	return 0, nil
}
func (r *stubProductRepo) CountLowStock(_ context.Context, _ uuid.UUID) (int64, error) { return 0, nil }
func (r *stubProductRepo) ListLowStock(_ context.Context, _ uuid.UUID) ([]model.Product, error) {
	return nil, nil
}
func (r *stubProductRepo) StockByCategory(_ context.Context, _ uuid.UUID) ([]dto.CategoryStockResponse, error) {
	return nil, nil
}
func (r *stubProductRepo) TopStocked(_ context.Context, _ uuid.UUID, _ int) ([]model.Product, error) {
	return nil, nil
}
func (r *stubProductRepo) InventoryValue(_ context.Context, _ uuid.UUID) (decimal.Decimal, error) {
	return decimal.Zero, nil
}
func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// quantity reads the live count without the copy FindByID makes.
func (r *stubProductRepo) quantity(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[id].Quantity
}

// stubItemRepo keeps serialized units keyed by barcode and mirrors the
// real repo's paired quantity updates through the product stub.
type stubItemRepo struct {
	mu       sync.Mutex
	items    map[string]*model.Item
	products *stubProductRepo
}

func newStubItemRepo(products *stubProductRepo) *stubItemRepo {
	return &stubItemRepo{items: make(map[string]*model.Item), products: products}
}

func (r *stubItemRepo) CreateWithIncrement(ctx context.Context, item *model.Item) error {
	r.mu.Lock()
	if _, dup := r.items[item.Barcode]; dup {
		r.mu.Unlock()
		return gorm.ErrDuplicatedKey
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.CreatedAt = time.Now()
	r.items[item.Barcode] = item
	r.mu.Unlock()
	return r.products.IncrementQuantity(ctx, nil, item.ProductID, 1)
}

func (r *stubItemRepo) DeleteWithDecrement(ctx context.Context, barcode string) (*model.Item, error) {
	r.mu.Lock()
	item, ok := r.items[barcode]
	if !ok {
		r.mu.Unlock()
		return nil, gorm.ErrRecordNotFound
	}
	delete(r.items, barcode)
	r.mu.Unlock()
	if err := r.products.IncrementQuantity(ctx, nil, item.ProductID, -1); err != nil {
		return nil, err
	}
	return item, nil
}

func (r *stubItemRepo) FindByBarcode(_ context.Context, barcode string) (*model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[barcode]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (r *stubItemRepo) ListByProduct(_ context.Context, productID uuid.UUID) ([]model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Item
	for _, item := range r.items {
		if item.ProductID == productID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *stubItemRepo) CountByProduct(_ context.Context, productID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, item := range r.items {
		if item.ProductID == productID {
			n++
		}
	}
	return n, nil
}

func (r *stubItemRepo) DB() *gorm.DB { return nil }

var _ repository.ItemRepository = (*stubItemRepo)(nil)

// stubShopRepo holds shops in a map.
type stubShopRepo struct {
	shops map[uuid.UUID]*model.Shop
}

func newStubShopRepo() *stubShopRepo {
	return &stubShopRepo{shops: make(map[uuid.UUID]*model.Shop)}
}

func (r *stubShopRepo) Create(_ context.Context, s *model.Shop) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.shops[s.ID] = s
	return nil
}

func (r *stubShopRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Shop, error) {
	s, ok := r.shops[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubShopRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]model.Shop, error) {
	var out []model.Shop
	for _, s := range r.shops {
		if s.OwnerID == ownerID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubShopRepo) Update(_ context.Context, s *model.Shop) error {
	r.shops[s.ID] = s
	return nil
}

func (r *stubShopRepo) UpdateInventoryValue(_ context.Context, id uuid.UUID, value decimal.Decimal) error {
	if s, ok := r.shops[id]; ok {
		s.InventoryValue = value
	}
	return nil
}

func (r *stubShopRepo) ListAll(_ context.Context) ([]model.Shop, error) {
	var out []model.Shop
	for _, s := range r.shops {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubShopRepo) DB() *gorm.DB { return nil }

var _ repository.ShopRepository = (*stubShopRepo)(nil)

// stubUserRepo keeps users in a map; enough for the shop access checks.
type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) ListByShop(_ context.Context, shopID uuid.UUID) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if u.ShopID != nil && *u.ShopID == shopID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) DB() *gorm.DB { return nil }

var _ repository.UserRepository = (*stubUserRepo)(nil)

// stubTransactionRepo captures persisted transactions. Setting failCreate
// makes Persist fail, which is how the rollback tests trip the recorder.
type stubTransactionRepo struct {
	mu           sync.Mutex
	transactions map[uuid.UUID]*model.Transaction
	failCreate   error
}

func newStubTransactionRepo() *stubTransactionRepo {
	return &stubTransactionRepo{transactions: make(map[uuid.UUID]*model.Transaction)}
}

func (r *stubTransactionRepo) Create(_ context.Context, t *model.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		return r.failCreate
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = time.Now()
	r.transactions[t.ID] = t
	return nil
}

func (r *stubTransactionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transactions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (r *stubTransactionRepo) List(_ context.Context, _ dto.TransactionFilter) ([]model.Transaction, int64, error) {
	return nil, 0, nil
}

func (r *stubTransactionRepo) SalesTotalBetween(_ context.Context, _ uuid.UUID, _, _ time.Time) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (r *stubTransactionRepo) SalesSeries(_ context.Context, _ uuid.UUID, _ string, _ time.Time) ([]dto.SalesPointResponse, error) {
	return nil, nil
}

func (r *stubTransactionRepo) TopSelling(_ context.Context, _ uuid.UUID, _ int) ([]dto.TopProductResponse, error) {
	return nil, nil
}

func (r *stubTransactionRepo) DailyUnitsSold(_ context.Context, _ uuid.UUID, _ time.Time) ([]dto.SalesPointResponse, error) {
	return nil, nil
}

func (r *stubTransactionRepo) DB() *gorm.DB { return nil }

var _ repository.TransactionRepository = (*stubTransactionRepo)(nil)

func (r *stubTransactionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.transactions)
}

// ── Seed helpers ──────────────────────────────────────────────────────────────

func seedShop(shops *stubShopRepo) *model.Shop {
	s := &model.Shop{ID: uuid.New(), Name: "Main Street Store", OwnerID: uuid.New()}
	shops.shops[s.ID] = s
	return s
}

func seedEmployee(users *stubUserRepo, shopID uuid.UUID) *model.User {
	u := &model.User{
		ID:     uuid.New(),
		Name:   "Counter Staff",
		Email:  "staff@mainstreet.example",
		Role:   "employee",
		ShopID: &shopID,
	}
	users.users[u.ID] = u
	return u
}

func seedProduct(products *stubProductRepo, shopID uuid.UUID, name string, qty int, serialized bool) *model.Product {
	p := &model.Product{
		ID:           uuid.New(),
		ShopID:       shopID,
		Name:         name,
		Category:     "general",
		Price:        decimal.NewFromFloat(15),
		Quantity:     qty,
		IsSerialized: serialized,
	}
	products.products[p.ID] = p
	return p
}
