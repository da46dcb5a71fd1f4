package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "Efectivo"
	PaymentTransfer PaymentMethod = "Transferencia"
	PaymentCard     PaymentMethod = "Tarjeta"
	PaymentOther    PaymentMethod = "Otro"
)

var PaymentMethods = []PaymentMethod{PaymentCash, PaymentTransfer, PaymentCard, PaymentOther}

func (m PaymentMethod) Valid() bool {
	for _, pm := range PaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}

// SaleLine is one ledger row. Every row of a confirmed sale shares TicketID,
// Date, Time and PaymentMethod, and LineTotal is the net amount after the
// allocated discount.
type SaleLine struct {
	Date              string          `json:"date" csv:"fecha"`
	Time              string          `json:"time" csv:"hora"`
	ProductID         string          `json:"product_id" csv:"id_producto"`
	ProductName       string          `json:"product_name" csv:"producto"`
	Category          string          `json:"category" csv:"categoria"`
	Quantity          int             `json:"quantity" csv:"cantidad"`
	UnitPrice         decimal.Decimal `json:"unit_price" csv:"precio"`
	LineTotal         decimal.Decimal `json:"line_total" csv:"total"`
	DiscountAllocated decimal.Decimal `json:"discount_allocated" csv:"descuento"`
	PaymentMethod     PaymentMethod   `json:"payment_method" csv:"metodo_pago"`
	TicketID          string          `json:"ticket_id" csv:"id_ticket"`
}

func (l SaleLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Day parses Date; rows with a malformed date report ok=false.
func (l SaleLine) Day() (time.Time, bool) {
	d, err := time.Parse(DateLayout, l.Date)
	return d, err == nil
}

// SaleRecord is a ledger row together with its position, the handle used to
// delete it.
type SaleRecord struct {
	Index int `json:"index"`
	SaleLine
}

type SaleFilter struct {
	Date     string
	TicketID string
}

func (f SaleFilter) Match(l SaleLine) bool {
	if f.Date != "" && l.Date != f.Date {
		return false
	}
	if f.TicketID != "" && l.TicketID != f.TicketID {
		return false
	}
	return true
}
