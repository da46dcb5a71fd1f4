package domain

import (
	"github.com/shopspring/decimal"

	ledger "github.com/paleteria/paleteria-pos/internal/ledger/domain"
)

type ConfirmSaleRequest struct {
	Discount      decimal.Decimal      `json:"discount"`
	PaymentMethod ledger.PaymentMethod `json:"payment_method" binding:"required"`
	// Date is the sale day as YYYY-MM-DD; empty means today.
	Date string `json:"date"`
}

type ReceiptItem struct {
	ProductID   string          `json:"product_id"`
	Category    string          `json:"category"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount"`
	Net         decimal.Decimal `json:"net"`
}

type Receipt struct {
	TicketID      string               `json:"ticket_id"`
	Date          string               `json:"date"`
	Time          string               `json:"time"`
	PaymentMethod ledger.PaymentMethod `json:"payment_method"`
	GrossTotal    decimal.Decimal      `json:"gross_total"`
	Discount      decimal.Decimal      `json:"discount"`
	NetTotal      decimal.Decimal      `json:"net_total"`
	Items         []ReceiptItem        `json:"items"`
}

// AllocateDiscount splits discount across subtotals in proportion to each
// subtotal, rounding every share to cents. The shares may not add up to
// discount exactly; with remainderToLast the last share absorbs the
// difference. A zero gross total allocates nothing.
func AllocateDiscount(subtotals []decimal.Decimal, discount decimal.Decimal, remainderToLast bool) []decimal.Decimal {
	shares := make([]decimal.Decimal, len(subtotals))
	gross := decimal.Zero
	for _, s := range subtotals {
		gross = gross.Add(s)
	}
	if gross.IsZero() || discount.IsZero() {
		for i := range shares {
			shares[i] = decimal.Zero
		}
		return shares
	}

	allocated := decimal.Zero
	for i, s := range subtotals {
		shares[i] = discount.Mul(s).Div(gross).Round(2)
		allocated = allocated.Add(shares[i])
	}
	if remainderToLast && len(shares) > 0 {
		last := len(shares) - 1
		shares[last] = shares[last].Add(discount.Sub(allocated))
	}
	return shares
}

// ReceiptFromLines rebuilds a receipt from the ledger rows of one ticket.
func ReceiptFromLines(lines []ledger.SaleLine) Receipt {
	r := Receipt{
		GrossTotal: decimal.Zero,
		Discount:   decimal.Zero,
		NetTotal:   decimal.Zero,
		Items:      make([]ReceiptItem, 0, len(lines)),
	}
	for i, l := range lines {
		if i == 0 {
			r.TicketID = l.TicketID
			r.Date = l.Date
			r.Time = l.Time
			r.PaymentMethod = l.PaymentMethod
		}
		subtotal := l.Subtotal()
		r.GrossTotal = r.GrossTotal.Add(subtotal)
		r.Discount = r.Discount.Add(l.DiscountAllocated)
		r.NetTotal = r.NetTotal.Add(l.LineTotal)
		r.Items = append(r.Items, ReceiptItem{
			ProductID:   l.ProductID,
			Category:    l.Category,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    subtotal,
			Discount:    l.DiscountAllocated,
			Net:         l.LineTotal,
		})
	}
	return r
}
