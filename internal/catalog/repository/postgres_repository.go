package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/paleteria/paleteria-pos/internal/catalog/domain"
	"github.com/paleteria/paleteria-pos/internal/platform/apperr"
	"github.com/paleteria/paleteria-pos/internal/platform/logger"
)

type postgresCatalogStore struct {
	db *sql.DB
}

func NewPostgresCatalogStore(db *sql.DB) CatalogStore {
	return &postgresCatalogStore{db: db}
}

func (r *postgresCatalogStore) ReadAll(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT id, category, name, cost, price, stock, stock_minimum, active FROM products ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("Catalog ReadAll: query failed", err)
		return nil, apperr.StoreIO("read catalog", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Category, &p.Name, &p.Cost, &p.Price, &p.Stock, &p.StockMinimum, &p.Active); err != nil {
			logger.Error("Catalog ReadAll: scan failed", err)
			return nil, apperr.StoreIO("read catalog", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Catalog ReadAll: rows iteration error", err)
		return nil, apperr.StoreIO("read catalog", err)
	}
	return products, nil
}

// OverwriteAll replaces the table contents with products in one transaction:
// every product is upserted and rows whose id is not in the list are removed.
func (r *postgresCatalogStore) OverwriteAll(ctx context.Context, products []domain.Product) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("Catalog OverwriteAll: begin failed", err)
		return apperr.StoreIO("write catalog", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("Catalog OverwriteAll: rollback failed", rbErr)
			}
		}
	}()

	upsert := `INSERT INTO products (id, category, name, cost, price, stock, stock_minimum, active)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
               ON CONFLICT (id) DO UPDATE SET
                   category = EXCLUDED.category,
                   name = EXCLUDED.name,
                   cost = EXCLUDED.cost,
                   price = EXCLUDED.price,
                   stock = EXCLUDED.stock,
                   stock_minimum = EXCLUDED.stock_minimum,
                   active = EXCLUDED.active`

	ids := make([]string, 0, len(products))
	for _, p := range products {
		if _, err = tx.ExecContext(ctx, upsert, p.ID, p.Category, p.Name, p.Cost, p.Price, p.Stock, p.StockMinimum, p.Active); err != nil {
			logger.Error("Catalog OverwriteAll: upsert failed", err, "product_id", p.ID)
			return apperr.StoreIO(fmt.Sprintf("write product %s", p.ID), err)
		}
		ids = append(ids, p.ID)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM products WHERE NOT (id = ANY($1))`, pq.Array(ids)); err != nil {
		logger.Error("Catalog OverwriteAll: prune failed", err)
		return apperr.StoreIO("write catalog", err)
	}

	if err = tx.Commit(); err != nil {
		logger.Error("Catalog OverwriteAll: commit failed", err)
		return apperr.StoreIO("write catalog", err)
	}
	return nil
}
