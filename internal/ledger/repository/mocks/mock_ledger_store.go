package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/paleteria/paleteria-pos/internal/ledger/domain"
)

type MockLedgerStore struct {
	mock.Mock
}

func (m *MockLedgerStore) ReadAll(ctx context.Context) ([]domain.SaleLine, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]domain.SaleLine), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLedgerStore) Append(ctx context.Context, lines ...domain.SaleLine) error {
	args := m.Called(ctx, lines)
	return args.Error(0)
}

func (m *MockLedgerStore) DeleteAt(ctx context.Context, index int) error {
	args := m.Called(ctx, index)
	return args.Error(0)
}
