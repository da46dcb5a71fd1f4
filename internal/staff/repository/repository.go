package repository

import (
	"context"
	"errors"

	"github.com/paleteria/paleteria-pos/internal/staff/domain"
)

var (
	ErrStaffNotFound = errors.New("staff account not found")
	ErrStaffConflict = errors.New("staff account with this username already exists")
)

type StaffRepository interface {
	CreateStaff(ctx context.Context, staff *domain.Staff) error
	GetStaffByUsername(ctx context.Context, username string) (*domain.Staff, error)
}
