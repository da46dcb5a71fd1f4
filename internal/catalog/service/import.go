package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"golang.org/x/text/encoding/charmap"

	"github.com/paleteria/paleteria-pos/internal/catalog/domain"
	"github.com/paleteria/paleteria-pos/internal/platform/apperr"
	"github.com/paleteria/paleteria-pos/internal/platform/logger"
)

// Canonical import columns. Sheet headers are mapped onto these through columnAliases.
const (
	colID           = "id"
	colCategory     = "category"
	colName         = "name"
	colCost         = "cost"
	colPrice        = "price"
	colStock        = "stock"
	colStockMinimum = "stock_minimum"
	colActive       = "active"
)

var requiredColumns = []string{colCategory, colName, colCost, colPrice, colStock}

var columnAliases = map[string]string{
	"id":            colID,
	"id_producto":   colID,
	"category":      colCategory,
	"categoria":     colCategory,
	"categoría":     colCategory,
	"name":          colName,
	"nombre":        colName,
	"cost":          colCost,
	"costo":         colCost,
	"price":         colPrice,
	"precio":        colPrice,
	"stock":         colStock,
	"stock_minimum": colStockMinimum,
	"stock_minimo":  colStockMinimum,
	"stock_mínimo":  colStockMinimum,
	"active":        colActive,
	"activa":        colActive,
	"activo":        colActive,
}

// Same column order as the catalog file.
var templateHeader = []string{"id_producto", "categoria", "nombre", "costo", "precio", "stock", "stock_minimo", "activa"}

func (s *catalogServiceImpl) PreviewImport(ctx context.Context, r io.Reader) ([]domain.ImportRow, error) {
	parsed, err := s.parseImport(r)
	if err != nil {
		return nil, err
	}
	products, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	return planImport(parsed, products), nil
}

// ImportProducts applies an import file. Rows listed in skipRows (1-based data
// row numbers, as returned by PreviewImport) are left out. Nothing is written
// when the file fails validation.
func (s *catalogServiceImpl) ImportProducts(ctx context.Context, r io.Reader, skipRows []int) (*domain.ImportResult, error) {
	parsed, err := s.parseImport(r)
	if err != nil {
		return nil, err
	}
	products, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	skip := make(map[int]bool, len(skipRows))
	for _, row := range skipRows {
		skip[row] = true
	}

	result := &domain.ImportResult{Rows: []domain.ImportRow{}}
	for _, row := range planImport(parsed, products) {
		if skip[row.Row] {
			row.Action = domain.ImportActionSkip
		}

		if row.Action == domain.ImportActionSkip {
			result.Skipped++
			result.Rows = append(result.Rows, row)
			continue
		}

		// Re-match against the working list so repeated rows update the item
		// an earlier row of this file added. Every duplicate of the item is
		// updated; the row reports the first.
		if matches := findSameItems(products, row.Product.Category, row.Product.Name); len(matches) > 0 {
			for _, idx := range matches {
				existing := &products[idx]
				existing.Cost = row.Product.Cost
				existing.Price = row.Product.Price
				existing.Stock = row.Product.Stock
				existing.StockMinimum = row.Product.StockMinimum
				existing.Active = row.Product.Active
			}
			row.Product = products[matches[0]]
			row.Exists = true
			row.Action = domain.ImportActionUpdate
			result.Updated++
		} else {
			id := strings.TrimSpace(row.Product.ID)
			if id == "" || indexOf(products, id) >= 0 {
				id = domain.NextProductID(products)
			}
			row.Product.ID = id
			products = append(products, row.Product)
			result.Added++
		}
		result.Rows = append(result.Rows, row)
	}

	if result.Added+result.Updated > 0 {
		if err := s.store.OverwriteAll(ctx, products); err != nil {
			return nil, err
		}
	}
	logger.Info("Bulk import applied", "added", result.Added, "updated", result.Updated, "skipped", result.Skipped)
	return result, nil
}

func (s *catalogServiceImpl) ImportTemplate(w io.Writer) error {
	writer := gocsv.NewSafeCSVWriter(csv.NewWriter(w))
	if err := writer.Write(templateHeader); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

func (s *catalogServiceImpl) ExportInventoryCSV(ctx context.Context, w io.Writer) error {
	products, err := s.store.ReadAll(ctx)
	if err != nil {
		return err
	}
	if err := gocsv.Marshal(&products, w); err != nil {
		return fmt.Errorf("export inventory: %w", err)
	}
	return nil
}

type parsedRow struct {
	row     int
	product domain.Product
}

func (s *catalogServiceImpl) decode(r io.Reader) io.Reader {
	switch s.encoding {
	case "utf-8", "utf8":
		return r
	default:
		return charmap.ISO8859_1.NewDecoder().Reader(r)
	}
}

func (s *catalogServiceImpl) parseImport(r io.Reader) ([]parsedRow, error) {
	records, err := gocsv.DefaultCSVReader(s.decode(r)).ReadAll()
	if err != nil {
		return nil, apperr.Validation(fmt.Sprintf("import file is not valid CSV: %v", err))
	}
	if len(records) == 0 {
		return nil, apperr.Validation("import file is empty")
	}

	positions := map[string]int{}
	for i, raw := range records[0] {
		header := normalizeHeader(raw)
		if canonical, ok := columnAliases[header]; ok {
			if _, seen := positions[canonical]; !seen {
				positions[canonical] = i
			}
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := positions[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, apperr.Validation("missing required columns", missing...)
	}

	rows := make([]parsedRow, 0, len(records)-1)
	for i, record := range records[1:] {
		value := func(col string) string {
			pos, ok := positions[col]
			if !ok || pos >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[pos])
		}

		rows = append(rows, parsedRow{
			row: i + 1,
			product: domain.Product{
				ID:           value(colID),
				Category:     value(colCategory),
				Name:         value(colName),
				Cost:         parseAmount(value(colCost)),
				Price:        parseAmount(value(colPrice)),
				Stock:        parseCount(value(colStock), 0),
				StockMinimum: parseCount(value(colStockMinimum), domain.DefaultStockMinimum),
				Active:       parseActive(value(colActive)),
			},
		})
	}
	return rows, nil
}

// planImport decides the action of every parsed row against the current
// catalog. Rows without a name are skipped.
func planImport(rows []parsedRow, products []domain.Product) []domain.ImportRow {
	planned := make([]domain.ImportRow, 0, len(rows))
	for _, r := range rows {
		item := domain.ImportRow{Row: r.row, Product: r.product}
		switch {
		case r.product.Name == "":
			item.Action = domain.ImportActionSkip
		case len(findSameItems(products, r.product.Category, r.product.Name)) > 0:
			item.Exists = true
			item.Action = domain.ImportActionUpdate
		default:
			item.Action = domain.ImportActionAdd
		}
		planned = append(planned, item)
	}
	return planned
}

func findSameItems(products []domain.Product, category, name string) []int {
	var matches []int
	for i := range products {
		if products[i].SameItem(category, name) {
			matches = append(matches, i)
		}
	}
	return matches
}

func normalizeHeader(raw string) string {
	h := strings.TrimPrefix(raw, "\ufeff")
	h = strings.TrimPrefix(h, "\u00ef\u00bb\u00bf") // UTF-8 byte order mark read as Latin-1
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.ReplaceAll(h, " ", "_")
}

// parseAmount coerces an import cell to a non-negative amount; anything
// unparseable becomes 0.
func parseAmount(raw string) decimal.Decimal {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(raw)
	d, err := decimal.NewFromString(cleaned)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// maxCount bounds stock cells; larger values are treated as unparseable.
var maxCount = decimal.NewFromInt(math.MaxInt32)

func parseCount(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
	if err != nil || d.IsNegative() || d.GreaterThan(maxCount) {
		return fallback
	}
	return int(d.IntPart())
}

// parseActive defaults to true; only explicit negatives deactivate a product.
func parseActive(raw string) bool {
	switch strings.ToLower(raw) {
	case "":
		return true
	case "si", "sí", "yes", "y", "verdadero":
		return true
	case "no", "n", "falso":
		return false
	}
	active, err := cast.ToBoolE(raw)
	if err != nil {
		return true
	}
	return active
}
