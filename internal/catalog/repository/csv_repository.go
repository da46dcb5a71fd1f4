package repository

import (
	"context"

	"github.com/paleteria/paleteria-pos/internal/catalog/domain"
	"github.com/paleteria/paleteria-pos/internal/platform/apperr"
	"github.com/paleteria/paleteria-pos/internal/platform/csvfile"
	"github.com/paleteria/paleteria-pos/internal/platform/logger"
)

// csvCatalogStore keeps the catalog in one CSV file with the shop's
// spreadsheet column names (id_producto, categoria, nombre, ...).
type csvCatalogStore struct {
	file *csvfile.File[domain.Product]
}

func NewCSVCatalogStore(path string) CatalogStore {
	return &csvCatalogStore{file: csvfile.New[domain.Product](path)}
}

func (r *csvCatalogStore) ReadAll(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	products, err := r.file.ReadAll()
	if err != nil {
		logger.Error("Catalog ReadAll: csv read failed", err, "path", r.file.Path())
		return nil, apperr.StoreIO("read catalog", err)
	}
	return products, nil
}

func (r *csvCatalogStore) OverwriteAll(ctx context.Context, products []domain.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.file.WriteAll(products); err != nil {
		logger.Error("Catalog OverwriteAll: csv write failed", err, "path", r.file.Path())
		return apperr.StoreIO("write catalog", err)
	}
	return nil
}
