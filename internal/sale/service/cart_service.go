package service

import (
	"context"
	"fmt"

	"github.com/paleteria/paleteria-pos/internal/platform/apperr"
	"github.com/paleteria/paleteria-pos/internal/platform/logger"
	"github.com/paleteria/paleteria-pos/internal/sale/domain"
)

func (s *saleServiceImpl) CreateSession(ctx context.Context) (*domain.Session, error) {
	session := domain.NewSession(s.opts.NewID(), s.now())
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	logger.Info("Sale session created", "session_id", session.ID)
	return session, nil
}

func (s *saleServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

func (s *saleServiceImpl) ViewCart(ctx context.Context, sessionID string) (*domain.CartView, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	view := session.Cart.View(session.ID)
	return &view, nil
}

// AddLine puts quantity units of a product in the cart. The check runs against
// the stock seen when the product first entered the cart, less the units the
// cart already holds.
func (s *saleServiceImpl) AddLine(ctx context.Context, sessionID string, req domain.AddLineRequest) (*domain.CartView, error) {
	if req.Quantity <= 0 {
		return nil, apperr.Validation("quantity must be greater than zero", "quantity")
	}
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	products, err := s.catalog.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	var found bool
	var line domain.CartLine
	var stock int
	for _, p := range products {
		if p.ID != req.ProductID {
			continue
		}
		if !p.Active {
			return nil, apperr.Validation(fmt.Sprintf("product %s is not active", p.ID), "product_id")
		}
		found = true
		stock = p.Stock
		line = domain.CartLine{
			ProductID:   p.ID,
			Category:    p.Category,
			ProductName: p.Name,
			Quantity:    req.Quantity,
			UnitPrice:   p.Price,
		}
		break
	}
	if !found {
		return nil, &apperr.ProductNotFoundError{ProductID: req.ProductID}
	}

	cart := &session.Cart
	snapshot, seen := cart.StockSnapshot[line.ProductID]
	if !seen {
		snapshot = stock
	}
	available := snapshot - cart.Reserved(line.ProductID)
	if available < 0 {
		available = 0
	}
	if req.Quantity > available {
		return nil, &apperr.InsufficientStockError{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Requested:   req.Quantity,
			Available:   available,
		}
	}

	cart.StockSnapshot[line.ProductID] = snapshot
	cart.Lines = append(cart.Lines, line)
	return s.saveAndView(ctx, session)
}

func (s *saleServiceImpl) RemoveLine(ctx context.Context, sessionID string, index int) (*domain.CartView, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.Cart.RemoveLine(index); err != nil {
		return nil, err
	}
	return s.saveAndView(ctx, session)
}

func (s *saleServiceImpl) ClearCart(ctx context.Context, sessionID string) (*domain.CartView, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	session.Cart.Clear()
	return s.saveAndView(ctx, session)
}

func (s *saleServiceImpl) saveAndView(ctx context.Context, session *domain.Session) (*domain.CartView, error) {
	session.UpdatedAt = s.now()
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	view := session.Cart.View(session.ID)
	return &view, nil
}
