package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	ledger "github.com/paleteria/paleteria-pos/internal/ledger/domain"
	ledgerService "github.com/paleteria/paleteria-pos/internal/ledger/service"
	"github.com/paleteria/paleteria-pos/internal/platform/apperr"
	"github.com/paleteria/paleteria-pos/internal/sale/domain"
	"github.com/paleteria/paleteria-pos/internal/sale/repository"
	"github.com/paleteria/paleteria-pos/internal/sale/service/mocks"
)

func newRouter(ss *mocks.MockSaleService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewSaleHandler(ss).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

func TestSaleHandler_Cart(t *testing.T) {
	t.Run("Open session", func(t *testing.T) {
		ss := new(mocks.MockSaleService)
		ss.On("CreateSession", mock.Anything).Return(&domain.Session{ID: "s-1"}, nil).Once()

		w := httptest.NewRecorder()
		newRouter(ss).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil))
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"session_id":"s-1"`)
		ss.AssertExpectations(t)
	})

	t.Run("Add line", func(t *testing.T) {
		ss := new(mocks.MockSaleService)
		req := domain.AddLineRequest{ProductID: "P-001", Quantity: 2}
		ss.On("AddLine", mock.Anything, "s-1", req).Return(&domain.CartView{SessionID: "s-1", Total: decimal.NewFromInt(20)}, nil).Once()

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/s-1/cart/lines", jsonBody(t, req))
		r.Header.Set("Content-Type", "application/json")
		newRouter(ss).ServeHTTP(w, r)
		require.Equal(t, http.StatusOK, w.Code)
		ss.AssertExpectations(t)
	})

	t.Run("Add line over stock", func(t *testing.T) {
		ss := new(mocks.MockSaleService)
		stockErr := &apperr.InsufficientStockError{ProductID: "P-002", ProductName: "Limón", Requested: 5, Available: 4}
		ss.On("AddLine", mock.Anything, "s-1", mock.Anything).Return(nil, stockErr).Once()

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/s-1/cart/lines", jsonBody(t, domain.AddLineRequest{ProductID: "P-002", Quantity: 5}))
		r.Header.Set("Content-Type", "application/json")
		newRouter(ss).ServeHTTP(w, r)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "available 4")
	})

	t.Run("Missing product id", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/s-1/cart/lines", bytes.NewBufferString(`{"quantity":1}`))
		r.Header.Set("Content-Type", "application/json")
		newRouter(new(mocks.MockSaleService)).ServeHTTP(w, r)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unknown session", func(t *testing.T) {
		ss := new(mocks.MockSaleService)
		ss.On("ViewCart", mock.Anything, "gone").Return(nil, repository.ErrSessionNotFound).Once()

		w := httptest.NewRecorder()
		newRouter(ss).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/gone/cart", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Remove line with bad index", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter(new(mocks.MockSaleService)).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/s-1/cart/lines/x", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Close session", func(t *testing.T) {
		ss := new(mocks.MockSaleService)
		ss.On("DeleteSession", mock.Anything, "s-1").Return(nil).Once()

		w := httptest.NewRecorder()
		newRouter(ss).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/s-1", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
		ss.AssertExpectations(t)
	})
}

func TestSaleHandler_Checkout(t *testing.T) {
	receipt := &domain.Receipt{
		TicketID:      "ticket-1",
		PaymentMethod: ledger.PaymentCash,
		GrossTotal:    decimal.NewFromInt(35),
		Discount:      decimal.NewFromInt(5),
		NetTotal:      decimal.NewFromInt(30),
	}
	req := domain.ConfirmSaleRequest{Discount: decimal.NewFromInt(5), PaymentMethod: ledger.PaymentCash}

	post := func(ss *mocks.MockSaleService, url string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, url, jsonBody(t, req))
		r.Header.Set("Content-Type", "application/json")
		newRouter(ss).ServeHTTP(w, r)
		return w
	}

	t.Run("JSON receipt", func(t *testing.T) {
		ss := new(mocks.MockSaleService)
		ss.On("ConfirmSale", mock.Anything, "s-1", mock.MatchedBy(func(r domain.ConfirmSaleRequest) bool {
			return r.PaymentMethod == ledger.PaymentCash && r.Discount.Equal(decimal.NewFromInt(5))
		})).Return(receipt, nil).Once()

		w := post(ss, "/api/v1/sessions/s-1/checkout")
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"ticket_id":"ticket-1"`)
		ss.AssertExpectations(t)
	})

	t.Run("PDF receipt", func(t *testing.T) {
		ss := new(mocks.MockSaleService)
		ss.On("ConfirmSale", mock.Anything, "s-1", mock.Anything).Return(receipt, nil).Once()
		ss.On("RenderReceipt", mock.Anything, *receipt).Return([]byte("%PDF-1.3"), nil).Once()

		w := post(ss, "/api/v1/sessions/s-1/checkout?format=pdf")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Equal(t, "ticket-1", w.Header().Get("X-Ticket-ID"))
		assert.Equal(t, "%PDF-1.3", w.Body.String())
		ss.AssertExpectations(t)
	})

	t.Run("Every offending line reported", func(t *testing.T) {
		ss := new(mocks.MockSaleService)
		joined := errors.Join(
			&apperr.InsufficientStockError{ProductID: "P-001", ProductName: "Fresa", Requested: 4, Available: 3},
			&apperr.ProductNotFoundError{ProductID: "P-009"},
		)
		ss.On("ConfirmSale", mock.Anything, "s-1", mock.Anything).Return(nil, joined).Once()

		w := post(ss, "/api/v1/sessions/s-1/checkout")
		require.Equal(t, http.StatusNotFound, w.Code)
		var body struct {
			Details []string `json:"details"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Len(t, body.Details, 2)
	})

	t.Run("Ledger failure after stock decrement", func(t *testing.T) {
		ss := new(mocks.MockSaleService)
		ss.On("ConfirmSale", mock.Anything, "s-1", mock.Anything).
			Return(nil, apperr.StoreIO("append ledger after stock decrement", errors.New("disk full"))).Once()

		w := post(ss, "/api/v1/sessions/s-1/checkout")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.NotContains(t, w.Body.String(), "disk full")
	})
}

func TestSaleHandler_ReprintReceipt(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		ss := new(mocks.MockSaleService)
		ss.On("ReprintReceipt", mock.Anything, "ticket-1").Return([]byte("%PDF-1.3"), nil).Once()

		w := httptest.NewRecorder()
		newRouter(ss).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sales/receipts/ticket-1", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "ticket_ticket-1.pdf")
	})

	t.Run("Unknown ticket", func(t *testing.T) {
		ss := new(mocks.MockSaleService)
		ss.On("ReprintReceipt", mock.Anything, "nope").Return(nil, ledgerService.ErrTicketNotFound).Once()

		w := httptest.NewRecorder()
		newRouter(ss).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sales/receipts/nope", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
