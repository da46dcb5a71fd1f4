package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/paleteria/paleteria-pos/internal/catalog/domain"
	"github.com/paleteria/paleteria-pos/internal/catalog/repository/mocks"
	"github.com/paleteria/paleteria-pos/internal/platform/apperr"
)

func TestCatalogService_ImportProducts(t *testing.T) {
	ctx := context.TODO()

	t.Run("Missing required column imports nothing", func(t *testing.T) {
		mockStore := new(mocks.MockCatalogStore)
		svc := NewCatalogService(mockStore, "utf-8")
		file := "categoria,nombre,costo,stock\nFina,Fresa,5,10\n"

		_, err := svc.ImportProducts(ctx, strings.NewReader(file), nil)
		require.ErrorIs(t, err, apperr.ErrValidation)

		var vErr *apperr.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, []string{"price"}, vErr.Fields)
		mockStore.AssertNotCalled(t, "ReadAll", mock.Anything)
		mockStore.AssertNotCalled(t, "OverwriteAll", mock.Anything, mock.Anything)
	})

	t.Run("Updates matches and adds the rest", func(t *testing.T) {
		mockStore := new(mocks.MockCatalogStore)
		svc := NewCatalogService(mockStore, "utf-8")
		file := " Categoria , NOMBRE ,costo,precio,stock,stock_minimo\n" +
			"Fina,fresa,6,11,30,4\n" +
			"Mini,Tamarindo,abc,9,x,\n" +
			"Mini,Tamarindo,3,9,7,\n"

		mockStore.On("ReadAll", ctx).Return(sampleCatalog(), nil).Once()
		mockStore.On("OverwriteAll", ctx, mock.MatchedBy(func(ps []domain.Product) bool {
			return len(ps) == 4
		})).Return(nil).Once()

		result, err := svc.ImportProducts(ctx, strings.NewReader(file), nil)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Added)
		assert.Equal(t, 2, result.Updated)
		assert.Equal(t, 0, result.Skipped)

		updated := result.Rows[0].Product
		assert.Equal(t, "P-001", updated.ID)
		assert.Equal(t, "Fresa", updated.Name)
		assert.Equal(t, 30, updated.Stock)
		assert.Equal(t, 4, updated.StockMinimum)

		added := result.Rows[1].Product
		assert.Equal(t, "P-004", added.ID)
		assert.True(t, added.Cost.IsZero())
		assert.Equal(t, 0, added.Stock)
		assert.Equal(t, domain.DefaultStockMinimum, added.StockMinimum)
		assert.True(t, added.Active)

		// the repeated row updates the product the previous row added
		assert.Equal(t, domain.ImportActionUpdate, result.Rows[2].Action)
		assert.Equal(t, "P-004", result.Rows[2].Product.ID)
		assert.Equal(t, 7, result.Rows[2].Product.Stock)
		mockStore.AssertExpectations(t)
	})

	t.Run("Skipped rows are left out", func(t *testing.T) {
		mockStore := new(mocks.MockCatalogStore)
		svc := NewCatalogService(mockStore, "utf-8")
		file := "category,name,cost,price,stock\nFina,Fresa,6,11,30\n"

		mockStore.On("ReadAll", ctx).Return(sampleCatalog(), nil).Once()

		result, err := svc.ImportProducts(ctx, strings.NewReader(file), []int{1})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Skipped)
		mockStore.AssertExpectations(t)
		mockStore.AssertNotCalled(t, "OverwriteAll", mock.Anything, mock.Anything)
	})

	t.Run("Every duplicate of a matched item is updated", func(t *testing.T) {
		mockStore := new(mocks.MockCatalogStore)
		svc := NewCatalogService(mockStore, "utf-8")
		catalog := append(sampleCatalog(), domain.Product{
			ID: "P-009", Category: "Fina", Name: "FRESA", Cost: decimal.NewFromInt(1), Price: decimal.NewFromInt(2), Stock: 1, StockMinimum: 5, Active: true,
		})
		file := "category,name,cost,price,stock\nFina,fresa,6,11,30\n"

		mockStore.On("ReadAll", ctx).Return(catalog, nil).Once()
		mockStore.On("OverwriteAll", ctx, mock.MatchedBy(func(ps []domain.Product) bool {
			return len(ps) == 4 && ps[0].Stock == 30 && ps[3].Stock == 30 &&
				ps[3].Price.Equal(decimal.NewFromInt(11)) && ps[3].ID == "P-009"
		})).Return(nil).Once()

		result, err := svc.ImportProducts(ctx, strings.NewReader(file), nil)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Updated)
		assert.Equal(t, "P-001", result.Rows[0].Product.ID)
		mockStore.AssertExpectations(t)
	})

	t.Run("Out of range counts fall back to defaults", func(t *testing.T) {
		mockStore := new(mocks.MockCatalogStore)
		svc := NewCatalogService(mockStore, "utf-8")
		file := "category,name,cost,price,stock,stock_minimum\nMini,Coco,2,6,1e30,99999999999\n"

		mockStore.On("ReadAll", ctx).Return([]domain.Product{}, nil).Once()
		mockStore.On("OverwriteAll", ctx, mock.Anything).Return(nil).Once()

		result, err := svc.ImportProducts(ctx, strings.NewReader(file), nil)
		require.NoError(t, err)
		require.Len(t, result.Rows, 1)
		assert.Equal(t, 0, result.Rows[0].Product.Stock)
		assert.Equal(t, domain.DefaultStockMinimum, result.Rows[0].Product.StockMinimum)
		mockStore.AssertExpectations(t)
	})

	t.Run("Latin-1 files are decoded", func(t *testing.T) {
		mockStore := new(mocks.MockCatalogStore)
		svc := NewCatalogService(mockStore, "latin-1")
		encoded, err := charmap.ISO8859_1.NewEncoder().String("categoria,nombre,costo,precio,stock\nFina,Piña,5,12,8\n")
		require.NoError(t, err)

		mockStore.On("ReadAll", ctx).Return([]domain.Product{}, nil).Once()
		mockStore.On("OverwriteAll", ctx, mock.Anything).Return(nil).Once()

		result, err := svc.ImportProducts(ctx, strings.NewReader(encoded), nil)
		require.NoError(t, err)
		require.Len(t, result.Rows, 1)
		assert.Equal(t, "Piña", result.Rows[0].Product.Name)
		assert.Equal(t, "P-001", result.Rows[0].Product.ID)
		mockStore.AssertExpectations(t)
	})
}

func TestCatalogService_PreviewImport(t *testing.T) {
	mockStore := new(mocks.MockCatalogStore)
	svc := NewCatalogService(mockStore, "utf-8")
	ctx := context.TODO()
	file := "categoria,nombre,costo,precio,stock,activa\nMini,LIMON,4,15,9,no\nFina,Kiwi,5,12,8,\nFina,,1,1,1,\n"

	mockStore.On("ReadAll", ctx).Return(sampleCatalog(), nil).Once()

	rows, err := svc.PreviewImport(ctx, strings.NewReader(file))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.True(t, rows[0].Exists)
	assert.Equal(t, domain.ImportActionUpdate, rows[0].Action)
	assert.False(t, rows[0].Product.Active)
	assert.Equal(t, domain.ImportActionAdd, rows[1].Action)
	assert.Equal(t, domain.ImportActionSkip, rows[2].Action)
	assert.Equal(t, 3, rows[2].Row)
	mockStore.AssertExpectations(t)
	mockStore.AssertNotCalled(t, "OverwriteAll", mock.Anything, mock.Anything)
}

func TestCatalogService_TemplateAndExport(t *testing.T) {
	mockStore := new(mocks.MockCatalogStore)
	svc := NewCatalogService(mockStore, "utf-8")
	ctx := context.TODO()

	var tmpl bytes.Buffer
	require.NoError(t, svc.ImportTemplate(&tmpl))
	assert.Equal(t, "id_producto,categoria,nombre,costo,precio,stock,stock_minimo,activa\n", tmpl.String())

	mockStore.On("ReadAll", ctx).Return(sampleCatalog(), nil).Once()
	var out bytes.Buffer
	require.NoError(t, svc.ExportInventoryCSV(ctx, &out))

	exported := []domain.Product{}
	require.NoError(t, gocsv.UnmarshalString(out.String(), &exported))
	require.Len(t, exported, 3)
	assert.True(t, exported[1].Price.Equal(decimal.NewFromInt(15)))
	mockStore.AssertExpectations(t)
}
