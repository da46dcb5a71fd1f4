package domain

import (
	"github.com/shopspring/decimal"

	catalog "github.com/paleteria/paleteria-pos/internal/catalog/domain"
	ledger "github.com/paleteria/paleteria-pos/internal/ledger/domain"
)

const (
	StockStatusLow = "low"
	StockStatusOK  = "ok"
)

type MethodTotal struct {
	PaymentMethod ledger.PaymentMethod `json:"payment_method" csv:"metodo_pago"`
	Total         decimal.Decimal      `json:"total" csv:"total"`
}

type DailyCut struct {
	Date            string            `json:"date"`
	Rows            []ledger.SaleLine `json:"rows"`
	ByPaymentMethod []MethodTotal     `json:"by_payment_method"`
	NetTotal        decimal.Decimal   `json:"net_total"`
	TicketCount     int               `json:"ticket_count"`
}

type ProductSales struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Units       int             `json:"units"`
	Net         decimal.Decimal `json:"net"`
}

type CategorySales struct {
	Category string          `json:"category"`
	Units    int             `json:"units"`
	Net      decimal.Decimal `json:"net"`
}

type DaySales struct {
	Date  string          `json:"date"`
	Units int             `json:"units"`
	Net   decimal.Decimal `json:"net"`
}

// TicketStats summarises the net amount per ticket.
type TicketStats struct {
	Count  int             `json:"count"`
	Mean   decimal.Decimal `json:"mean"`
	Median decimal.Decimal `json:"median"`
}

type RangeAnalysis struct {
	From            string          `json:"from"`
	To              string          `json:"to"`
	ByProduct       []ProductSales  `json:"by_product"`
	ByPaymentMethod []MethodTotal   `json:"by_payment_method"`
	ByCategory      []CategorySales `json:"by_category"`
	ByDay           []DaySales      `json:"by_day"`
	Tickets         TicketStats     `json:"tickets"`
	NetTotal        decimal.Decimal `json:"net_total"`
}

type InventoryItem struct {
	catalog.Product
	Margin decimal.Decimal `json:"margin"`
	Status string          `json:"status"`
}

type CategoryUnits struct {
	Category string `json:"category"`
	Units    int    `json:"units"`
}

type InventorySummary struct {
	Items           []InventoryItem `json:"items"`
	LowStockCount   int             `json:"low_stock_count"`
	UnitsByCategory []CategoryUnits `json:"units_by_category"`
	TotalUnits      int             `json:"total_units"`
}

// LowStock returns the items at or below their minimum.
func (s InventorySummary) LowStock() []InventoryItem {
	low := []InventoryItem{}
	for _, it := range s.Items {
		if it.Status == StockStatusLow {
			low = append(low, it)
		}
	}
	return low
}
