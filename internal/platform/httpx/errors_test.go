package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paleteria/paleteria-pos/internal/platform/apperr"
)

func TestStatusFor(t *testing.T) {
	cases := map[string]struct {
		err  error
		want int
	}{
		"validation":   {apperr.Validation("bad"), http.StatusBadRequest},
		"not found":    {fmt.Errorf("cart: %w", &apperr.ProductNotFoundError{ProductID: "P-1"}), http.StatusNotFound},
		"stock":        {&apperr.InsufficientStockError{ProductID: "P-1"}, http.StatusConflict},
		"store":        {apperr.StoreIO("write", errors.New("disk")), http.StatusServiceUnavailable},
		"unclassified": {errors.New("boom"), http.StatusInternalServerError},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusFor(tc.err))
		})
	}
}

func TestRespondError_JoinedDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	err := errors.Join(
		&apperr.InsufficientStockError{ProductID: "P-1", ProductName: "Fresa", Requested: 5, Available: 3},
		&apperr.ProductNotFoundError{ProductID: "P-9"},
	)
	RespondError(c, "Checkout", err, "Failed to confirm sale")

	// not found outranks insufficient stock
	assert.Equal(t, http.StatusNotFound, w.Code)
	var body struct {
		Error   string   `json:"error"`
		Details []string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Details, 2)
}

func TestRespondError_HidesServerCause(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondError(c, "ListSales", apperr.StoreIO("read ledger", errors.New("password authentication failed")), "Failed to list sales")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
}
