package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const DefaultStockMinimum = 5

// Categories offered by the single-product form. Bulk import accepts any category.
var Categories = []string{
	"Piramide",
	"Fina",
	"Mini",
	"Gomiloca",
	"Sandwich",
	"Chamoyada",
	"Vaso chico",
	"Vaso grande",
	"Maxi",
	"Congelada",
	"Otros",
}

type Product struct {
	ID           string          `json:"id" csv:"id_producto"`
	Category     string          `json:"category" csv:"categoria"`
	Name         string          `json:"name" csv:"nombre"`
	Cost         decimal.Decimal `json:"cost" csv:"costo"`
	Price        decimal.Decimal `json:"price" csv:"precio"`
	Stock        int             `json:"stock" csv:"stock"`
	StockMinimum int             `json:"stock_minimum" csv:"stock_minimo"`
	Active       bool            `json:"active" csv:"activa"`
}

// IsLowStock mirrors the inventory view: at or below the minimum counts as low.
func (p Product) IsLowStock() bool {
	return p.Stock <= p.StockMinimum
}

func (p Product) Margin() decimal.Decimal {
	return p.Price.Sub(p.Cost)
}

// SameItem reports whether other is the same catalog item by case-insensitive
// name and exact category, the rule bulk import uses to detect existing rows.
func (p Product) SameItem(category, name string) bool {
	return p.Category == category && strings.EqualFold(p.Name, name)
}

func IsKnownCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// NextProductID returns the next "P-NNN" id after the highest numeric suffix in use.
// Ids that do not follow the pattern are ignored.
func NextProductID(products []Product) string {
	highest := 0
	for _, p := range products {
		suffix, ok := strings.CutPrefix(strings.TrimSpace(p.ID), "P-")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("P-%03d", highest+1)
}

type CreateProductRequest struct {
	ID           string          `json:"id"`
	Category     string          `json:"category" binding:"required"`
	Name         string          `json:"name" binding:"required"`
	Cost         decimal.Decimal `json:"cost"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock" binding:"gte=0"`
	StockMinimum *int            `json:"stock_minimum" binding:"omitempty,gte=0"`
}

// UpdateProductRequest carries the editable fields; nil fields keep their value.
type UpdateProductRequest struct {
	Category     *string          `json:"category"`
	Name         *string          `json:"name"`
	Cost         *decimal.Decimal `json:"cost"`
	Price        *decimal.Decimal `json:"price"`
	Stock        *int             `json:"stock" binding:"omitempty,gte=0"`
	StockMinimum *int             `json:"stock_minimum" binding:"omitempty,gte=0"`
	Active       *bool            `json:"active"`
}
