package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/paleteria/paleteria-pos/internal/ledger/domain"
	"github.com/paleteria/paleteria-pos/internal/ledger/repository"
	"github.com/paleteria/paleteria-pos/internal/platform/apperr"
	"github.com/paleteria/paleteria-pos/internal/platform/logger"
)

var ErrTicketNotFound = errors.New("ticket not found")

// StockRestorer puts units back into the catalog.
type StockRestorer interface {
	RestoreStock(ctx context.Context, productID string, quantity int) error
}

type LedgerService interface {
	ListSales(ctx context.Context, filter domain.SaleFilter) ([]domain.SaleRecord, error)
	// DeleteSale removes the ledger row at index. Stock is only put back when
	// restock is set.
	DeleteSale(ctx context.Context, index int, restock bool) (*domain.SaleLine, error)
	TicketLines(ctx context.Context, ticketID string) ([]domain.SaleLine, error)
}

type ledgerServiceImpl struct {
	store    repository.LedgerStore
	restorer StockRestorer
}

func NewLedgerService(store repository.LedgerStore, restorer StockRestorer) LedgerService {
	return &ledgerServiceImpl{store: store, restorer: restorer}
}

func (s *ledgerServiceImpl) ListSales(ctx context.Context, filter domain.SaleFilter) ([]domain.SaleRecord, error) {
	lines, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	records := []domain.SaleRecord{}
	for i, l := range lines {
		if filter.Match(l) {
			records = append(records, domain.SaleRecord{Index: i, SaleLine: l})
		}
	}
	return records, nil
}

func (s *ledgerServiceImpl) DeleteSale(ctx context.Context, index int, restock bool) (*domain.SaleLine, error) {
	lines, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(lines) {
		return nil, apperr.Validation(fmt.Sprintf("sale row %d does not exist", index), "index")
	}
	removed := lines[index]

	if err := s.store.DeleteAt(ctx, index); err != nil {
		return nil, err
	}
	logger.Info("Sale row deleted", "index", index, "ticket_id", removed.TicketID, "product_id", removed.ProductID, "restock", restock)

	if restock && removed.Quantity > 0 {
		if err := s.restorer.RestoreStock(ctx, removed.ProductID, removed.Quantity); err != nil {
			logger.Error("DeleteSale: row deleted but stock not restored", err,
				"product_id", removed.ProductID, "quantity", removed.Quantity)
			return nil, fmt.Errorf("sale row deleted, restoring stock failed: %w", err)
		}
	}
	return &removed, nil
}

func (s *ledgerServiceImpl) TicketLines(ctx context.Context, ticketID string) ([]domain.SaleLine, error) {
	lines, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	filter := domain.SaleFilter{TicketID: ticketID}
	matched := []domain.SaleLine{}
	for _, l := range lines {
		if filter.Match(l) {
			matched = append(matched, l)
		}
	}
	if ticketID == "" || len(matched) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTicketNotFound, ticketID)
	}
	return matched, nil
}
