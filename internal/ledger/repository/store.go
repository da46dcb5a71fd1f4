package repository

import (
	"context"

	"github.com/paleteria/paleteria-pos/internal/ledger/domain"
)

// LedgerStore is the append-only sales ledger. Rows are addressed by their
// 0-based position in ReadAll order.
type LedgerStore interface {
	ReadAll(ctx context.Context) ([]domain.SaleLine, error)
	Append(ctx context.Context, lines ...domain.SaleLine) error
	DeleteAt(ctx context.Context, index int) error
}
