package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/paleteria/paleteria-pos/internal/staff/domain"
)

// memoryStaffRepository holds accounts for the file-backed deployment, where
// staff are seeded from configuration on every start.
type memoryStaffRepository struct {
	mu    sync.RWMutex
	staff map[string]domain.Staff
}

func NewMemoryStaffRepository() StaffRepository {
	return &memoryStaffRepository{staff: map[string]domain.Staff{}}
}

func (r *memoryStaffRepository) CreateStaff(_ context.Context, staff *domain.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(staff.Username)
	if _, exists := r.staff[key]; exists {
		return ErrStaffConflict
	}
	if staff.ID == "" {
		staff.ID = uuid.NewString()
	}
	staff.CreatedAt = time.Now()
	r.staff[key] = *staff
	return nil
}

func (r *memoryStaffRepository) GetStaffByUsername(_ context.Context, username string) (*domain.Staff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.staff[strings.ToLower(username)]
	if !ok {
		return nil, ErrStaffNotFound
	}
	return &s, nil
}
