package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	catalog "github.com/paleteria/paleteria-pos/internal/catalog/domain"
	ledger "github.com/paleteria/paleteria-pos/internal/ledger/domain"
	"github.com/paleteria/paleteria-pos/internal/platform/apperr"
	"github.com/paleteria/paleteria-pos/internal/platform/logger"
	"github.com/paleteria/paleteria-pos/internal/sale/domain"
)

func (s *saleServiceImpl) ConfirmSale(ctx context.Context, sessionID string, req domain.ConfirmSaleRequest) (*domain.Receipt, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	receipt, err := s.confirm(ctx, &session.Cart, req)
	if err != nil {
		return nil, err
	}

	session.Cart.Clear()
	session.UpdatedAt = s.now()
	if err := s.sessions.Save(ctx, session); err != nil {
		// The sale is recorded; a stale cart is the only consequence.
		logger.Error("ConfirmSale: sale recorded but cart not cleared", err, "session_id", sessionID, "ticket_id", receipt.TicketID)
	}
	return receipt, nil
}

func (s *saleServiceImpl) confirm(ctx context.Context, cart *domain.Cart, req domain.ConfirmSaleRequest) (*domain.Receipt, error) {
	if cart.IsEmpty() {
		return nil, apperr.Validation("cart is empty")
	}
	if !req.PaymentMethod.Valid() {
		return nil, apperr.Validation(fmt.Sprintf("unknown payment method %q", req.PaymentMethod), "payment_method")
	}

	gross := cart.Total()
	discount := req.Discount
	if discount.IsNegative() || discount.GreaterThan(gross) {
		return nil, apperr.Validation(fmt.Sprintf("discount must be between 0 and %s", gross.StringFixed(2)), "discount")
	}

	now := s.now()
	saleDate := now.Format(ledger.DateLayout)
	if req.Date != "" {
		d, err := time.ParseInLocation(ledger.DateLayout, req.Date, s.opts.Location)
		if err != nil {
			return nil, apperr.Validation("date must be YYYY-MM-DD", "date")
		}
		saleDate = d.Format(ledger.DateLayout)
	}
	saleTime := now.Format(ledger.TimeLayout)

	products, err := s.catalog.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateStock(cart.Lines, products); err != nil {
		return nil, err
	}

	positions := make(map[string]int, len(products))
	for i, p := range products {
		positions[p.ID] = i
	}
	for _, l := range cart.Lines {
		products[positions[l.ProductID]].Stock -= l.Quantity
	}
	if err := s.catalog.OverwriteAll(ctx, products); err != nil {
		return nil, err
	}

	subtotals := make([]decimal.Decimal, len(cart.Lines))
	for i, l := range cart.Lines {
		subtotals[i] = l.Subtotal()
	}
	shares := domain.AllocateDiscount(subtotals, discount, s.opts.DiscountRemainderToLast)

	receipt := &domain.Receipt{
		TicketID:      s.opts.NewID(),
		Date:          saleDate,
		Time:          saleTime,
		PaymentMethod: req.PaymentMethod,
		GrossTotal:    gross,
		Discount:      discount,
		NetTotal:      gross.Sub(discount),
		Items:         make([]domain.ReceiptItem, 0, len(cart.Lines)),
	}
	rows := make([]ledger.SaleLine, 0, len(cart.Lines))
	for i, l := range cart.Lines {
		net := subtotals[i].Sub(shares[i])
		rows = append(rows, ledger.SaleLine{
			TicketID:          receipt.TicketID,
			Date:              saleDate,
			Time:              saleTime,
			ProductID:         l.ProductID,
			ProductName:       l.ProductName,
			Category:          l.Category,
			Quantity:          l.Quantity,
			UnitPrice:         l.UnitPrice,
			LineTotal:         net,
			DiscountAllocated: shares[i],
			PaymentMethod:     req.PaymentMethod,
		})
		receipt.Items = append(receipt.Items, domain.ReceiptItem{
			ProductID:   l.ProductID,
			Category:    l.Category,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    subtotals[i],
			Discount:    shares[i],
			Net:         net,
		})
	}

	if err := s.ledger.Append(ctx, rows...); err != nil {
		// Stock is already decremented and there is no compensation.
		logger.Error("ConfirmSale: stock decremented but ledger append failed", err,
			"ticket_id", receipt.TicketID, "lines", len(rows), "net_total", receipt.NetTotal.StringFixed(2))
		return nil, apperr.StoreIO("append ledger after stock decrement", err)
	}

	logger.Info("Sale confirmed", "ticket_id", receipt.TicketID, "lines", len(rows),
		"gross_total", gross.StringFixed(2), "discount", discount.StringFixed(2), "payment_method", req.PaymentMethod)
	return receipt, nil
}

// validateStock checks every cart line against the catalog snapshot. Lines of
// the same product are counted cumulatively and every offending line is
// reported.
func validateStock(lines []domain.CartLine, products []catalog.Product) error {
	stock := make(map[string]catalog.Product, len(products))
	for _, p := range products {
		stock[p.ID] = p
	}

	var errs []error
	requested := map[string]int{}
	for _, l := range lines {
		p, ok := stock[l.ProductID]
		if !ok {
			errs = append(errs, &apperr.ProductNotFoundError{ProductID: l.ProductID})
			continue
		}
		requested[l.ProductID] += l.Quantity
		if requested[l.ProductID] > p.Stock {
			errs = append(errs, &apperr.InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Requested:   requested[l.ProductID],
				Available:   p.Stock,
			})
		}
	}
	return errors.Join(errs...)
}

func (s *saleServiceImpl) RenderReceipt(ctx context.Context, receipt domain.Receipt) ([]byte, error) {
	return s.renderer.Render(ctx, receipt)
}

func (s *saleServiceImpl) ReprintReceipt(ctx context.Context, ticketID string) ([]byte, error) {
	lines, err := s.tickets.TicketLines(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	return s.renderer.Render(ctx, domain.ReceiptFromLines(lines))
}
