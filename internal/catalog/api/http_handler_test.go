package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paleteria/paleteria-pos/internal/catalog/domain"
	"github.com/paleteria/paleteria-pos/internal/catalog/repository"
	"github.com/paleteria/paleteria-pos/internal/catalog/service"
)

func setupRouter(t *testing.T, allowAdmin bool) (*gin.Engine, repository.CatalogStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewCSVCatalogStore(filepath.Join(t.TempDir(), "productos.csv"))
	require.NoError(t, store.OverwriteAll(context.Background(), []domain.Product{
		{ID: "P-001", Category: "Fina", Name: "Fresa", Cost: decimal.NewFromInt(5), Price: decimal.NewFromInt(10), Stock: 20, StockMinimum: 5, Active: true},
		{ID: "P-002", Category: "Mini", Name: "Limon", Cost: decimal.NewFromInt(4), Price: decimal.NewFromInt(15), Stock: 2, StockMinimum: 5, Active: true},
	}))

	adminOnly := func(c *gin.Context) {
		if !allowAdmin {
			c.AbortWithStatus(http.StatusForbidden)
		}
	}

	router := gin.New()
	NewCatalogHandler(service.NewCatalogService(store, "utf-8")).RegisterRoutes(router.Group("/api/v1"), adminOnly)
	return router, store
}

func multipartImport(t *testing.T, path, content string, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "productos.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestCatalogHandler_Reads(t *testing.T) {
	router, _ := setupRouter(t, false)

	t.Run("List", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
		require.Equal(t, http.StatusOK, w.Code)
		var products []domain.Product
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
		assert.Len(t, products, 2)
	})

	t.Run("Unknown product is 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products/P-404", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Low stock", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products/low-stock", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "P-002")
		assert.NotContains(t, w.Body.String(), "P-001")
	})

	t.Run("Template download", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products/import/template", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "plantilla_productos.csv")
		assert.True(t, strings.HasPrefix(w.Body.String(), "id_producto,categoria"))
	})

	t.Run("Mutations need admin", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(`{"category":"Fina","name":"Kiwi"}`)))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestCatalogHandler_Mutations(t *testing.T) {
	router, store := setupRouter(t, true)

	t.Run("Add product", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/products",
			strings.NewReader(`{"category":"Fina","name":"Kiwi","cost":"4.5","price":"11","stock":7}`)))
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"P-003"`)
	})

	t.Run("Unknown category is 400", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/products",
			strings.NewReader(`{"category":"Helado","name":"Kiwi"}`)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Update product", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/v1/products/P-002", strings.NewReader(`{"stock":40}`)))
		require.Equal(t, http.StatusOK, w.Code)

		products, err := store.ReadAll(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 40, products[1].Stock)
	})

	t.Run("Import missing price column", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, multipartImport(t, "/api/v1/products/import", "categoria,nombre,costo,stock\nFina,Uva,3,4\n", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "price")
	})

	t.Run("Preview then import with a skipped row", func(t *testing.T) {
		file := "categoria,nombre,costo,precio,stock\nFina,Uva,3,9,4\nFina,Coco,3,9,4\n"

		w := httptest.NewRecorder()
		router.ServeHTTP(w, multipartImport(t, "/api/v1/products/import/preview", file, nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"action":"add"`)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, multipartImport(t, "/api/v1/products/import", file, map[string]string{"skip": "2"}))
		require.Equal(t, http.StatusOK, w.Code)
		var result domain.ImportResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, 1, result.Added)
		assert.Equal(t, 1, result.Skipped)
	})

	t.Run("Bad skip list", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, multipartImport(t, "/api/v1/products/import", "categoria,nombre,costo,precio,stock\n", map[string]string{"skip": "x"}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
