package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/paleteria/paleteria-pos/internal/platform/logger"
	"github.com/paleteria/paleteria-pos/internal/staff/domain"
)

const uniqueViolation = "23505"

type postgresStaffRepository struct {
	db *sql.DB
}

func NewPostgresStaffRepository(db *sql.DB) StaffRepository {
	return &postgresStaffRepository{db: db}
}

func (r *postgresStaffRepository) CreateStaff(ctx context.Context, staff *domain.Staff) error {
	query := `INSERT INTO staff (id, username, password_hash, role, created_at) VALUES ($1, $2, $3, $4, $5)`

	if staff.ID == "" {
		staff.ID = uuid.NewString()
	}
	staff.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query, staff.ID, staff.Username, staff.PasswordHash, string(staff.Role), staff.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrStaffConflict
		}
		logger.Error("CreateStaff: failed to insert staff", err)
		return err
	}
	return nil
}

func (r *postgresStaffRepository) GetStaffByUsername(ctx context.Context, username string) (*domain.Staff, error) {
	query := `SELECT id, username, password_hash, role, created_at FROM staff WHERE username = $1`
	staff := &domain.Staff{}
	var role string

	err := r.db.QueryRowContext(ctx, query, username).Scan(&staff.ID, &staff.Username, &staff.PasswordHash, &role, &staff.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStaffNotFound
		}
		logger.Error("GetStaffByUsername: query failed", err)
		return nil, err
	}
	staff.Role = domain.Role(role)
	return staff, nil
}
