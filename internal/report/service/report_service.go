package service

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	catalogRepo "github.com/paleteria/paleteria-pos/internal/catalog/repository"
	ledger "github.com/paleteria/paleteria-pos/internal/ledger/domain"
	ledgerRepo "github.com/paleteria/paleteria-pos/internal/ledger/repository"
	"github.com/paleteria/paleteria-pos/internal/platform/apperr"
	"github.com/paleteria/paleteria-pos/internal/report/domain"
)

type ReportService interface {
	// DailyCut summarises the ledger rows of date (YYYY-MM-DD, empty for today).
	DailyCut(ctx context.Context, date string) (*domain.DailyCut, error)
	ExportDailyCutCSV(ctx context.Context, date string, w io.Writer) error
	RangeAnalysis(ctx context.Context, from, to string) (*domain.RangeAnalysis, error)
	ExportRangeXLSX(ctx context.Context, from, to string, w io.Writer) error
	InventorySummary(ctx context.Context) (*domain.InventorySummary, error)
}

type reportServiceImpl struct {
	catalog  catalogRepo.CatalogStore
	ledger   ledgerRepo.LedgerStore
	location *time.Location
	now      func() time.Time
}

func NewReportService(catalog catalogRepo.CatalogStore, ledgerStore ledgerRepo.LedgerStore, loc *time.Location) ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &reportServiceImpl{catalog: catalog, ledger: ledgerStore, location: loc, now: time.Now}
}

func (s *reportServiceImpl) today() string {
	return s.now().In(s.location).Format(ledger.DateLayout)
}

func parseDate(raw, field string) (time.Time, error) {
	d, err := time.Parse(ledger.DateLayout, raw)
	if err != nil {
		return time.Time{}, apperr.Validation("dates must use YYYY-MM-DD", field)
	}
	return d, nil
}

func (s *reportServiceImpl) DailyCut(ctx context.Context, date string) (*domain.DailyCut, error) {
	if date == "" {
		date = s.today()
	} else if _, err := parseDate(date, "date"); err != nil {
		return nil, err
	}

	lines, err := s.ledger.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	cut := &domain.DailyCut{Date: date, Rows: []ledger.SaleLine{}, NetTotal: decimal.Zero}
	byMethod := map[ledger.PaymentMethod]decimal.Decimal{}
	tickets := map[string]struct{}{}
	for _, l := range lines {
		if l.Date != date {
			continue
		}
		cut.Rows = append(cut.Rows, l)
		byMethod[l.PaymentMethod] = byMethod[l.PaymentMethod].Add(l.LineTotal)
		cut.NetTotal = cut.NetTotal.Add(l.LineTotal)
		tickets[l.TicketID] = struct{}{}
	}
	cut.ByPaymentMethod = methodTotals(byMethod)
	cut.NetTotal = cut.NetTotal.Round(2)
	cut.TicketCount = len(tickets)
	return cut, nil
}

func (s *reportServiceImpl) RangeAnalysis(ctx context.Context, from, to string) (*domain.RangeAnalysis, error) {
	start, err := parseDate(from, "from")
	if err != nil {
		return nil, err
	}
	end, err := parseDate(to, "to")
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, apperr.Validation("start date is after end date", "from", "to")
	}

	lines, err := s.ledger.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	products := map[string]*domain.ProductSales{}
	categories := map[string]*domain.CategorySales{}
	days := map[string]*domain.DaySales{}
	byMethod := map[ledger.PaymentMethod]decimal.Decimal{}
	ticketNet := map[string]decimal.Decimal{}
	net := decimal.Zero

	for _, l := range lines {
		day, ok := l.Day()
		if !ok || day.Before(start) || day.After(end) {
			continue
		}
		p, ok := products[l.ProductID]
		if !ok {
			p = &domain.ProductSales{ProductID: l.ProductID, ProductName: l.ProductName}
			products[l.ProductID] = p
		}
		p.Units += l.Quantity
		p.Net = p.Net.Add(l.LineTotal)

		c, ok := categories[l.Category]
		if !ok {
			c = &domain.CategorySales{Category: l.Category}
			categories[l.Category] = c
		}
		c.Units += l.Quantity
		c.Net = c.Net.Add(l.LineTotal)

		d, ok := days[l.Date]
		if !ok {
			d = &domain.DaySales{Date: l.Date}
			days[l.Date] = d
		}
		d.Units += l.Quantity
		d.Net = d.Net.Add(l.LineTotal)

		byMethod[l.PaymentMethod] = byMethod[l.PaymentMethod].Add(l.LineTotal)
		ticketNet[l.TicketID] = ticketNet[l.TicketID].Add(l.LineTotal)
		net = net.Add(l.LineTotal)
	}

	analysis := &domain.RangeAnalysis{
		From:            from,
		To:              to,
		ByProduct:       make([]domain.ProductSales, 0, len(products)),
		ByPaymentMethod: methodTotals(byMethod),
		ByCategory:      make([]domain.CategorySales, 0, len(categories)),
		ByDay:           make([]domain.DaySales, 0, len(days)),
		NetTotal:        net.Round(2),
	}
	for _, p := range products {
		p.Net = p.Net.Round(2)
		analysis.ByProduct = append(analysis.ByProduct, *p)
	}
	sort.Slice(analysis.ByProduct, func(i, j int) bool {
		a, b := analysis.ByProduct[i], analysis.ByProduct[j]
		if !a.Net.Equal(b.Net) {
			return a.Net.GreaterThan(b.Net)
		}
		return a.ProductID < b.ProductID
	})
	for _, c := range categories {
		c.Net = c.Net.Round(2)
		analysis.ByCategory = append(analysis.ByCategory, *c)
	}
	sort.Slice(analysis.ByCategory, func(i, j int) bool {
		a, b := analysis.ByCategory[i], analysis.ByCategory[j]
		if !a.Net.Equal(b.Net) {
			return a.Net.GreaterThan(b.Net)
		}
		return a.Category < b.Category
	})
	for _, d := range days {
		d.Net = d.Net.Round(2)
		analysis.ByDay = append(analysis.ByDay, *d)
	}
	sort.Slice(analysis.ByDay, func(i, j int) bool { return analysis.ByDay[i].Date < analysis.ByDay[j].Date })

	tickets, err := ticketStats(ticketNet)
	if err != nil {
		return nil, err
	}
	analysis.Tickets = tickets
	return analysis, nil
}

func (s *reportServiceImpl) InventorySummary(ctx context.Context) (*domain.InventorySummary, error) {
	products, err := s.catalog.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	summary := &domain.InventorySummary{Items: make([]domain.InventoryItem, 0, len(products))}
	units := map[string]int{}
	for _, p := range products {
		item := domain.InventoryItem{Product: p, Margin: p.Margin(), Status: domain.StockStatusOK}
		if p.IsLowStock() {
			item.Status = domain.StockStatusLow
			summary.LowStockCount++
		}
		summary.Items = append(summary.Items, item)
		units[p.Category] += p.Stock
		summary.TotalUnits += p.Stock
	}

	summary.UnitsByCategory = make([]domain.CategoryUnits, 0, len(units))
	for category, n := range units {
		summary.UnitsByCategory = append(summary.UnitsByCategory, domain.CategoryUnits{Category: category, Units: n})
	}
	sort.Slice(summary.UnitsByCategory, func(i, j int) bool {
		a, b := summary.UnitsByCategory[i], summary.UnitsByCategory[j]
		if a.Units != b.Units {
			return a.Units > b.Units
		}
		return a.Category < b.Category
	})
	return summary, nil
}

// methodTotals orders payment method totals from largest to smallest.
func methodTotals(byMethod map[ledger.PaymentMethod]decimal.Decimal) []domain.MethodTotal {
	out := make([]domain.MethodTotal, 0, len(byMethod))
	for method, total := range byMethod {
		out = append(out, domain.MethodTotal{PaymentMethod: method, Total: total.Round(2)})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].PaymentMethod < out[j].PaymentMethod
	})
	return out
}
