package repository

import (
	"context"

	"github.com/paleteria/paleteria-pos/internal/catalog/domain"
)

// CatalogStore keeps the full product list. Callers read a snapshot, change it
// in memory and write the whole list back; the last writer wins.
type CatalogStore interface {
	ReadAll(ctx context.Context) ([]domain.Product, error)
	OverwriteAll(ctx context.Context, products []domain.Product) error
}
