package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paleteria/paleteria-pos/internal/staff/domain"
)

func TestPostgresStaffRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresStaffRepository(db)
	ctx := context.Background()

	t.Run("Create assigns an id", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO staff")).
			WithArgs(sqlmock.AnyArg(), "admin", "hash", "admin", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		s := &domain.Staff{Username: "admin", PasswordHash: "hash", Role: domain.RoleAdmin}
		require.NoError(t, repo.CreateStaff(ctx, s))
		assert.NotEmpty(t, s.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unique violation is a conflict", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO staff")).
			WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value"})

		err := repo.CreateStaff(ctx, &domain.Staff{Username: "admin", Role: domain.RoleAdmin})
		assert.ErrorIs(t, err, ErrStaffConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Lookup by username", func(t *testing.T) {
		created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, username, password_hash, role, created_at FROM staff WHERE username = $1")).
			WithArgs("cajero").
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "role", "created_at"}).
				AddRow("s-2", "cajero", "hash", "cashier", created))

		s, err := repo.GetStaffByUsername(ctx, "cajero")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleCashier, s.Role)
		assert.Equal(t, created, s.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing username", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM staff WHERE username")).
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "role", "created_at"}))

		_, err := repo.GetStaffByUsername(ctx, "ghost")
		assert.ErrorIs(t, err, ErrStaffNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMemoryStaffRepository(t *testing.T) {
	repo := NewMemoryStaffRepository()
	ctx := context.Background()

	require.NoError(t, repo.CreateStaff(ctx, &domain.Staff{Username: "Cajero", Role: domain.RoleCashier}))
	assert.ErrorIs(t, repo.CreateStaff(ctx, &domain.Staff{Username: "cajero"}), ErrStaffConflict)

	s, err := repo.GetStaffByUsername(ctx, "CAJERO")
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)

	_, err = repo.GetStaffByUsername(ctx, "admin")
	assert.ErrorIs(t, err, ErrStaffNotFound)
}
