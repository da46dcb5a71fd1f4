package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/paleteria/paleteria-pos/internal/ledger/domain"
	"github.com/paleteria/paleteria-pos/internal/platform/apperr"
	"github.com/paleteria/paleteria-pos/internal/platform/logger"
)

type postgresLedgerStore struct {
	db *sql.DB
}

func NewPostgresLedgerStore(db *sql.DB) LedgerStore {
	return &postgresLedgerStore{db: db}
}

func (r *postgresLedgerStore) ReadAll(ctx context.Context) ([]domain.SaleLine, error) {
	query := `SELECT ticket_id, sale_date, sale_time, product_id, product_name, category, quantity,
                     unit_price, line_total, discount_allocated, payment_method
              FROM sale_lines ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("Ledger ReadAll: query failed", err)
		return nil, apperr.StoreIO("read ledger", err)
	}
	defer rows.Close()

	lines := []domain.SaleLine{}
	for rows.Next() {
		var l domain.SaleLine
		var method string
		if err := rows.Scan(&l.TicketID, &l.Date, &l.Time, &l.ProductID, &l.ProductName, &l.Category, &l.Quantity,
			&l.UnitPrice, &l.LineTotal, &l.DiscountAllocated, &method); err != nil {
			logger.Error("Ledger ReadAll: scan failed", err)
			return nil, apperr.StoreIO("read ledger", err)
		}
		l.PaymentMethod = domain.PaymentMethod(method)
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Ledger ReadAll: rows iteration error", err)
		return nil, apperr.StoreIO("read ledger", err)
	}
	return lines, nil
}

// Append inserts all lines in one transaction, so a sale is never half recorded.
func (r *postgresLedgerStore) Append(ctx context.Context, lines ...domain.SaleLine) (err error) {
	if len(lines) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("Ledger Append: begin failed", err)
		return apperr.StoreIO("append ledger", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("Ledger Append: rollback failed", rbErr)
			}
		}
	}()

	insert := `INSERT INTO sale_lines (ticket_id, sale_date, sale_time, product_id, product_name, category, quantity,
                                      unit_price, line_total, discount_allocated, payment_method)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	for _, l := range lines {
		if _, err = tx.ExecContext(ctx, insert, l.TicketID, l.Date, l.Time, l.ProductID, l.ProductName, l.Category, l.Quantity,
			l.UnitPrice, l.LineTotal, l.DiscountAllocated, string(l.PaymentMethod)); err != nil {
			logger.Error("Ledger Append: insert failed", err, "ticket_id", l.TicketID)
			return apperr.StoreIO("append ledger", err)
		}
	}

	if err = tx.Commit(); err != nil {
		logger.Error("Ledger Append: commit failed", err)
		return apperr.StoreIO("append ledger", err)
	}
	return nil
}

func (r *postgresLedgerStore) DeleteAt(ctx context.Context, index int) error {
	if index < 0 {
		return apperr.Validation(fmt.Sprintf("sale row %d does not exist", index), "index")
	}
	query := `DELETE FROM sale_lines WHERE id = (SELECT id FROM sale_lines ORDER BY id ASC LIMIT 1 OFFSET $1)`
	res, err := r.db.ExecContext(ctx, query, index)
	if err != nil {
		logger.Error("Ledger DeleteAt: delete failed", err, "index", index)
		return apperr.StoreIO("delete ledger row", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperr.StoreIO("delete ledger row", err)
	}
	if affected == 0 {
		return apperr.Validation(fmt.Sprintf("sale row %d does not exist", index), "index")
	}
	return nil
}
