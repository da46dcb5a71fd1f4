package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/paleteria/paleteria-pos/internal/sale/domain"
)

type MockSaleService struct {
	mock.Mock
}

func (m *MockSaleService) CreateSession(ctx context.Context) (*domain.Session, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.(*domain.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSaleService) DeleteSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockSaleService) ViewCart(ctx context.Context, sessionID string) (*domain.CartView, error) {
	args := m.Called(ctx, sessionID)
	return cartView(args)
}

func (m *MockSaleService) AddLine(ctx context.Context, sessionID string, req domain.AddLineRequest) (*domain.CartView, error) {
	args := m.Called(ctx, sessionID, req)
	return cartView(args)
}

func (m *MockSaleService) RemoveLine(ctx context.Context, sessionID string, index int) (*domain.CartView, error) {
	args := m.Called(ctx, sessionID, index)
	return cartView(args)
}

func (m *MockSaleService) ClearCart(ctx context.Context, sessionID string) (*domain.CartView, error) {
	args := m.Called(ctx, sessionID)
	return cartView(args)
}

func (m *MockSaleService) ConfirmSale(ctx context.Context, sessionID string, req domain.ConfirmSaleRequest) (*domain.Receipt, error) {
	args := m.Called(ctx, sessionID, req)
	if res := args.Get(0); res != nil {
		return res.(*domain.Receipt), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSaleService) RenderReceipt(ctx context.Context, receipt domain.Receipt) ([]byte, error) {
	args := m.Called(ctx, receipt)
	if res := args.Get(0); res != nil {
		return res.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSaleService) ReprintReceipt(ctx context.Context, ticketID string) ([]byte, error) {
	args := m.Called(ctx, ticketID)
	if res := args.Get(0); res != nil {
		return res.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

func cartView(args mock.Arguments) (*domain.CartView, error) {
	if res := args.Get(0); res != nil {
		return res.(*domain.CartView), args.Error(1)
	}
	return nil, args.Error(1)
}
