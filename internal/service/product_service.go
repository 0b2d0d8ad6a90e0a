package service

import (
	"context"
	"errors"
	"time"

	"github.com/StockSmart-AI/stock-smart-backend/internal/dto"
	"github.com/StockSmart-AI/stock-smart-backend/internal/model"
	"github.com/StockSmart-AI/stock-smart-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, shopID uuid.UUID, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Scan resolves a barcode to its unit and product.
	Scan(ctx context.Context, barcode string) (*dto.ScanResponse, error)
	// ListItems returns the live serialized units of a product.
	ListItems(ctx context.Context, productID uuid.UUID) ([]dto.ItemResponse, error)
}

type productService struct {
	products repository.ProductRepository
	items    repository.ItemRepository
	shops    repository.ShopRepository
}

func NewProductService(
	products repository.ProductRepository,
	items repository.ItemRepository,
	shops repository.ShopRepository,
) ProductService {
	return &productService{products: products, items: items, shops: shops}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	shopID, err := uuid.Parse(req.ShopID)
	if err != nil {
		return nil, ErrShopNotFound
	}
	if _, err := s.shops.FindByID(ctx, shopID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShopNotFound
		}
		return nil, err
	}

	quantity := req.InitialQuantity
	if req.IsSerialized {
		// Serialized stock only enters through restock with barcodes.
		quantity = 0
	}

	p := &model.Product{
		ShopID:       shopID,
		Name:         req.Name,
		Category:     req.Category,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		Price:        req.Price,
		Quantity:     quantity,
		Threshold:    req.Threshold,
		IsSerialized: req.IsSerialized,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.products.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context, shopID uuid.UUID, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	products, total, err := s.products.List(ctx, shopID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		data = append(data, *productToResponse(&products[i]))
	}
	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit > 0 {
		totalPages++
	}
	return &dto.ProductListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.products.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.ImageURL != nil {
		p.ImageURL = *req.ImageURL
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Threshold != nil {
		p.Threshold = *req.Threshold
	}

	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.products.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return s.products.DeleteCascade(ctx, id)
}

func (s *productService) Scan(ctx context.Context, barcode string) (*dto.ScanResponse, error) {
	item, err := s.items.FindByBarcode(ctx, barcode)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	resp := &dto.ScanResponse{
		ItemID:  item.ID.String(),
		Barcode: item.Barcode,
	}
	if item.Product != nil {
		resp.Product = *productToResponse(item.Product)
	}
	return resp, nil
}

func (s *productService) ListItems(ctx context.Context, productID uuid.UUID) ([]dto.ItemResponse, error) {
	p, err := s.products.FindByID(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	if !p.IsSerialized {
		return []dto.ItemResponse{}, nil
	}
	items, err := s.items.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, dto.ItemResponse{
			ID:        items[i].ID.String(),
			Barcode:   items[i].Barcode,
			CreatedAt: items[i].CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out, nil
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID.String(),
		ShopID:       p.ShopID.String(),
		Name:         p.Name,
		Category:     p.Category,
		Description:  p.Description,
		ImageURL:     p.ImageURL,
		Price:        p.Price,
		Quantity:     p.Quantity,
		Threshold:    p.Threshold,
		IsSerialized: p.IsSerialized,
		LowStock:     p.BelowThreshold(),
	}
}
