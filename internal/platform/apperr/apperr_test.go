package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypedErrorsMatchSentinels(t *testing.T) {
	stockErr := fmt.Errorf("confirm: %w", &InsufficientStockError{ProductID: "P-001", ProductName: "Fresa", Requested: 5, Available: 3})
	assert.ErrorIs(t, stockErr, ErrInsufficientStock)
	assert.NotErrorIs(t, stockErr, ErrProductNotFound)

	var detail *InsufficientStockError
	require.ErrorAs(t, stockErr, &detail)
	assert.Equal(t, 3, detail.Available)

	assert.ErrorIs(t, &ProductNotFoundError{ProductID: "X"}, ErrProductNotFound)
	assert.ErrorIs(t, Validation("missing columns", "price"), ErrValidation)
	assert.EqualError(t, Validation("missing columns", "price", "stock"), "missing columns: price, stock")
}

func TestStoreIO(t *testing.T) {
	assert.Nil(t, StoreIO("read", nil))

	base := errors.New("disk full")
	err := StoreIO("write catalog", base)
	assert.ErrorIs(t, err, ErrStoreIO)
	assert.ErrorIs(t, err, base)

	// already classified errors are not wrapped twice
	again := StoreIO("outer", err)
	assert.Same(t, err, again)
}

func TestDetails_FlattensJoinedErrors(t *testing.T) {
	err := errors.Join(
		&ProductNotFoundError{ProductID: "P-009"},
		&InsufficientStockError{ProductID: "P-001", ProductName: "Fresa", Requested: 5, Available: 3},
	)
	details := Details(err)
	require.Len(t, details, 2)
	assert.Contains(t, details[0], "P-009")
	assert.Contains(t, details[1], "Fresa")
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.ErrorIs(t, err, ErrProductNotFound)
}
