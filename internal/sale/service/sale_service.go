package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	catalogRepo "github.com/paleteria/paleteria-pos/internal/catalog/repository"
	ledger "github.com/paleteria/paleteria-pos/internal/ledger/domain"
	ledgerRepo "github.com/paleteria/paleteria-pos/internal/ledger/repository"
	"github.com/paleteria/paleteria-pos/internal/sale/domain"
	"github.com/paleteria/paleteria-pos/internal/sale/repository"
)

// ReceiptRenderer turns a receipt into a printable document.
type ReceiptRenderer interface {
	Render(ctx context.Context, receipt domain.Receipt) ([]byte, error)
}

// TicketReader returns the ledger rows recorded for one ticket.
type TicketReader interface {
	TicketLines(ctx context.Context, ticketID string) ([]ledger.SaleLine, error)
}

type SaleService interface {
	CreateSession(ctx context.Context) (*domain.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
	ViewCart(ctx context.Context, sessionID string) (*domain.CartView, error)
	AddLine(ctx context.Context, sessionID string, req domain.AddLineRequest) (*domain.CartView, error)
	RemoveLine(ctx context.Context, sessionID string, index int) (*domain.CartView, error)
	ClearCart(ctx context.Context, sessionID string) (*domain.CartView, error)

	// ConfirmSale turns the session's cart into a recorded sale and clears the
	// cart. Validation failures leave both stores untouched.
	ConfirmSale(ctx context.Context, sessionID string, req domain.ConfirmSaleRequest) (*domain.Receipt, error)
	RenderReceipt(ctx context.Context, receipt domain.Receipt) ([]byte, error)
	ReprintReceipt(ctx context.Context, ticketID string) ([]byte, error)
}

type Options struct {
	Location                *time.Location
	DiscountRemainderToLast bool
	Now                     func() time.Time
	NewID                   func() string
}

type saleServiceImpl struct {
	catalog  catalogRepo.CatalogStore
	ledger   ledgerRepo.LedgerStore
	sessions repository.SessionStore
	tickets  TicketReader
	renderer ReceiptRenderer
	opts     Options
}

func NewSaleService(
	catalog catalogRepo.CatalogStore,
	ledgerStore ledgerRepo.LedgerStore,
	sessions repository.SessionStore,
	tickets TicketReader,
	renderer ReceiptRenderer,
	opts Options,
) SaleService {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &saleServiceImpl{
		catalog:  catalog,
		ledger:   ledgerStore,
		sessions: sessions,
		tickets:  tickets,
		renderer: renderer,
		opts:     opts,
	}
}

func (s *saleServiceImpl) now() time.Time {
	return s.opts.Now().In(s.opts.Location)
}
