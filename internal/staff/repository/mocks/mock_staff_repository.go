package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/paleteria/paleteria-pos/internal/staff/domain"
)

type MockStaffRepository struct {
	mock.Mock
}

func (m *MockStaffRepository) CreateStaff(ctx context.Context, staff *domain.Staff) error {
	args := m.Called(ctx, staff)
	return args.Error(0)
}

func (m *MockStaffRepository) GetStaffByUsername(ctx context.Context, username string) (*domain.Staff, error) {
	args := m.Called(ctx, username)
	if res := args.Get(0); res != nil {
		return res.(*domain.Staff), args.Error(1)
	}
	return nil, args.Error(1)
}
