package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/paleteria/paleteria-pos/internal/catalog/domain"
	"github.com/paleteria/paleteria-pos/internal/catalog/repository"
	"github.com/paleteria/paleteria-pos/internal/platform/apperr"
	"github.com/paleteria/paleteria-pos/internal/platform/logger"
)

type CatalogService interface {
	ListProducts(ctx context.Context, activeOnly bool) ([]domain.Product, error)
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	AddProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error)
	UpdateProduct(ctx context.Context, productID string, req domain.UpdateProductRequest) (*domain.Product, error)
	LowStock(ctx context.Context) ([]domain.Product, error)
	RestoreStock(ctx context.Context, productID string, quantity int) error

	PreviewImport(ctx context.Context, r io.Reader) ([]domain.ImportRow, error)
	ImportProducts(ctx context.Context, r io.Reader, skipRows []int) (*domain.ImportResult, error)
	ImportTemplate(w io.Writer) error
	ExportInventoryCSV(ctx context.Context, w io.Writer) error
}

type catalogServiceImpl struct {
	store    repository.CatalogStore
	encoding string
}

// NewCatalogService builds the inventory service. encoding selects how bulk
// import files are decoded ("latin-1" or "utf-8").
func NewCatalogService(store repository.CatalogStore, encoding string) CatalogService {
	return &catalogServiceImpl{store: store, encoding: encoding}
}

func (s *catalogServiceImpl) ListProducts(ctx context.Context, activeOnly bool) ([]domain.Product, error) {
	products, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	if !activeOnly {
		return products, nil
	}
	active := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.Active {
			active = append(active, p)
		}
	}
	return active, nil
}

func (s *catalogServiceImpl) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	products, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(products, productID)
	if idx < 0 {
		return nil, &apperr.ProductNotFoundError{ProductID: productID}
	}
	p := products[idx]
	return &p, nil
}

func (s *catalogServiceImpl) AddProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("product name is required", "name")
	}
	if !domain.IsKnownCategory(req.Category) {
		return nil, apperr.Validation(fmt.Sprintf("unknown category %q", req.Category), "category")
	}
	if req.Cost.IsNegative() || req.Price.IsNegative() {
		return nil, apperr.Validation("cost and price must not be negative", "cost", "price")
	}
	if req.Stock < 0 {
		return nil, apperr.Validation("stock must not be negative", "stock")
	}

	products, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = domain.NextProductID(products)
	} else if indexOf(products, id) >= 0 {
		return nil, apperr.Validation(fmt.Sprintf("product id %s already exists", id), "id")
	}

	stockMinimum := domain.DefaultStockMinimum
	if req.StockMinimum != nil {
		stockMinimum = *req.StockMinimum
	}

	product := domain.Product{
		ID:           id,
		Category:     req.Category,
		Name:         name,
		Cost:         req.Cost,
		Price:        req.Price,
		Stock:        req.Stock,
		StockMinimum: stockMinimum,
		Active:       true,
	}
	if err := s.store.OverwriteAll(ctx, append(products, product)); err != nil {
		return nil, err
	}
	logger.Info("Product added", "product_id", product.ID, "name", product.Name)
	return &product, nil
}

func (s *catalogServiceImpl) UpdateProduct(ctx context.Context, productID string, req domain.UpdateProductRequest) (*domain.Product, error) {
	products, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(products, productID)
	if idx < 0 {
		return nil, &apperr.ProductNotFoundError{ProductID: productID}
	}

	p := products[idx]
	if req.Category != nil && *req.Category != p.Category {
		if !domain.IsKnownCategory(*req.Category) {
			return nil, apperr.Validation(fmt.Sprintf("unknown category %q", *req.Category), "category")
		}
		p.Category = *req.Category
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperr.Validation("product name is required", "name")
		}
		p.Name = name
	}
	if req.Cost != nil {
		if req.Cost.IsNegative() {
			return nil, apperr.Validation("cost must not be negative", "cost")
		}
		p.Cost = *req.Cost
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, apperr.Validation("price must not be negative", "price")
		}
		p.Price = *req.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, apperr.Validation("stock must not be negative", "stock")
		}
		p.Stock = *req.Stock
	}
	if req.StockMinimum != nil {
		if *req.StockMinimum < 0 {
			return nil, apperr.Validation("stock minimum must not be negative", "stock_minimum")
		}
		p.StockMinimum = *req.StockMinimum
	}
	if req.Active != nil {
		p.Active = *req.Active
	}

	products[idx] = p
	if err := s.store.OverwriteAll(ctx, products); err != nil {
		return nil, err
	}
	logger.Info("Product updated", "product_id", p.ID)
	return &p, nil
}

func (s *catalogServiceImpl) LowStock(ctx context.Context) ([]domain.Product, error) {
	products, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	low := []domain.Product{}
	for _, p := range products {
		if p.IsLowStock() {
			low = append(low, p)
		}
	}
	return low, nil
}

// RestoreStock adds quantity back to a product, used when a sale row is
// deleted with restocking requested.
func (s *catalogServiceImpl) RestoreStock(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return apperr.Validation("restock quantity must be positive", "quantity")
	}
	products, err := s.store.ReadAll(ctx)
	if err != nil {
		return err
	}
	idx := indexOf(products, productID)
	if idx < 0 {
		return &apperr.ProductNotFoundError{ProductID: productID}
	}
	products[idx].Stock += quantity
	if err := s.store.OverwriteAll(ctx, products); err != nil {
		return err
	}
	logger.Info("Stock restored", "product_id", productID, "quantity", quantity, "stock", products[idx].Stock)
	return nil
}

func indexOf(products []domain.Product, productID string) int {
	for i := range products {
		if products[i].ID == productID {
			return i
		}
	}
	return -1
}
