package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/paleteria/paleteria-pos/internal/catalog/domain"
)

type MockCatalogStore struct {
	mock.Mock
}

func (m *MockCatalogStore) ReadAll(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogStore) OverwriteAll(ctx context.Context, products []domain.Product) error {
	args := m.Called(ctx, products)
	return args.Error(0)
}
