package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paleteria/paleteria-pos/internal/platform/apperr"
)

type CartLine struct {
	ProductID   string          `json:"product_id"`
	Category    string          `json:"category"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the pending sale of one session. StockSnapshot records each
// product's stock the first time it entered the cart; adds are checked
// against that figure minus what the cart already holds.
type Cart struct {
	Lines         []CartLine     `json:"lines"`
	StockSnapshot map[string]int `json:"stock_snapshot"`
}

func (c *Cart) IsEmpty() bool { return len(c.Lines) == 0 }

// Reserved is the quantity of productID already in the cart across all lines.
func (c *Cart) Reserved(productID string) int {
	total := 0
	for _, l := range c.Lines {
		if l.ProductID == productID {
			total += l.Quantity
		}
	}
	return total
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (c *Cart) Clear() {
	c.Lines = []CartLine{}
	c.StockSnapshot = map[string]int{}
}

// RemoveLine drops the line at index. The product's snapshot is forgotten once
// no line references it.
func (c *Cart) RemoveLine(index int) error {
	if index < 0 || index >= len(c.Lines) {
		return apperr.Validation(fmt.Sprintf("cart line %d does not exist", index), "index")
	}
	productID := c.Lines[index].ProductID
	c.Lines = append(c.Lines[:index], c.Lines[index+1:]...)
	if c.Reserved(productID) == 0 {
		delete(c.StockSnapshot, productID)
	}
	return nil
}

type CartLineView struct {
	Index int `json:"index"`
	CartLine
	Subtotal decimal.Decimal `json:"subtotal"`
}

type CartView struct {
	SessionID string          `json:"session_id"`
	Lines     []CartLineView  `json:"lines"`
	Total     decimal.Decimal `json:"total"`
}

func (c *Cart) View(sessionID string) CartView {
	view := CartView{SessionID: sessionID, Lines: make([]CartLineView, 0, len(c.Lines)), Total: c.Total()}
	for i, l := range c.Lines {
		view.Lines = append(view.Lines, CartLineView{Index: i, CartLine: l, Subtotal: l.Subtotal()})
	}
	return view
}

// Session owns one cart. Sessions expire after an idle period.
type Session struct {
	ID        string    `json:"id"`
	Cart      Cart      `json:"cart"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewSession(id string, now time.Time) *Session {
	s := &Session{ID: id, CreatedAt: now, UpdatedAt: now}
	s.Cart.Clear()
	return s
}

// Clone deep-copies the session so stored state never aliases caller state.
func (s *Session) Clone() *Session {
	c := *s
	c.Cart.Lines = append([]CartLine(nil), s.Cart.Lines...)
	c.Cart.StockSnapshot = make(map[string]int, len(s.Cart.StockSnapshot))
	for k, v := range s.Cart.StockSnapshot {
		c.Cart.StockSnapshot[k] = v
	}
	return &c
}

type AddLineRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}
