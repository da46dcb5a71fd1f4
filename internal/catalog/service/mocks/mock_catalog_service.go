package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/paleteria/paleteria-pos/internal/catalog/domain"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListProducts(ctx context.Context, activeOnly bool) ([]domain.Product, error) {
	args := m.Called(ctx, activeOnly)
	if res := args.Get(0); res != nil {
		return res.([]domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	args := m.Called(ctx, productID)
	if res := args.Get(0); res != nil {
		return res.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) AddProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	args := m.Called(ctx, req)
	if res := args.Get(0); res != nil {
		return res.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) UpdateProduct(ctx context.Context, productID string, req domain.UpdateProductRequest) (*domain.Product, error) {
	args := m.Called(ctx, productID, req)
	if res := args.Get(0); res != nil {
		return res.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) LowStock(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) RestoreStock(ctx context.Context, productID string, quantity int) error {
	args := m.Called(ctx, productID, quantity)
	return args.Error(0)
}

func (m *MockCatalogService) PreviewImport(ctx context.Context, r io.Reader) ([]domain.ImportRow, error) {
	args := m.Called(ctx, r)
	if res := args.Get(0); res != nil {
		return res.([]domain.ImportRow), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) ImportProducts(ctx context.Context, r io.Reader, skipRows []int) (*domain.ImportResult, error) {
	args := m.Called(ctx, r, skipRows)
	if res := args.Get(0); res != nil {
		return res.(*domain.ImportResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) ImportTemplate(w io.Writer) error {
	args := m.Called(w)
	return args.Error(0)
}

func (m *MockCatalogService) ExportInventoryCSV(ctx context.Context, w io.Writer) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}
