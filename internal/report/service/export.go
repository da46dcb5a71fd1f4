package service

import (
	"context"
	"fmt"
	"io"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
)

const (
	sheetProducts   = "Productos"
	sheetMethods    = "Metodos de pago"
	sheetCategories = "Categorias"
	sheetDays       = "Dias"
	sheetTickets    = "Tickets"
)

// ExportDailyCutCSV writes the day's ledger rows followed by a blank line and
// the totals per payment method.
func (s *reportServiceImpl) ExportDailyCutCSV(ctx context.Context, date string, w io.Writer) error {
	cut, err := s.DailyCut(ctx, date)
	if err != nil {
		return err
	}
	if err := gocsv.Marshal(&cut.Rows, w); err != nil {
		return fmt.Errorf("write daily cut rows: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("write daily cut: %w", err)
	}
	if err := gocsv.Marshal(&cut.ByPaymentMethod, w); err != nil {
		return fmt.Errorf("write daily cut totals: %w", err)
	}
	return nil
}

func (s *reportServiceImpl) ExportRangeXLSX(ctx context.Context, from, to string, w io.Writer) error {
	analysis, err := s.RangeAnalysis(ctx, from, to)
	if err != nil {
		return err
	}

	xlsx := excelize.NewFile()
	xlsx.SetSheetName("Sheet1", sheetProducts)
	for _, name := range []string{sheetMethods, sheetCategories, sheetDays, sheetTickets} {
		xlsx.NewSheet(name)
	}

	writeRow(xlsx, sheetProducts, 1, "id_producto", "producto", "unidades", "venta_neta")
	for i, p := range analysis.ByProduct {
		writeRow(xlsx, sheetProducts, i+2, p.ProductID, p.ProductName, p.Units, p.Net.InexactFloat64())
	}

	writeRow(xlsx, sheetMethods, 1, "metodo_pago", "total")
	for i, m := range analysis.ByPaymentMethod {
		writeRow(xlsx, sheetMethods, i+2, string(m.PaymentMethod), m.Total.InexactFloat64())
	}

	writeRow(xlsx, sheetCategories, 1, "categoria", "unidades", "venta_neta")
	for i, c := range analysis.ByCategory {
		writeRow(xlsx, sheetCategories, i+2, c.Category, c.Units, c.Net.InexactFloat64())
	}

	writeRow(xlsx, sheetDays, 1, "fecha", "unidades", "venta_neta")
	for i, d := range analysis.ByDay {
		writeRow(xlsx, sheetDays, i+2, d.Date, d.Units, d.Net.InexactFloat64())
	}

	writeRow(xlsx, sheetTickets, 1, "tickets", "promedio", "mediana", "venta_neta")
	writeRow(xlsx, sheetTickets, 2, analysis.Tickets.Count,
		analysis.Tickets.Mean.InexactFloat64(), analysis.Tickets.Median.InexactFloat64(), analysis.NetTotal.InexactFloat64())

	xlsx.SetActiveSheet(1)
	if err := xlsx.Write(w); err != nil {
		return fmt.Errorf("write range workbook: %w", err)
	}
	return nil
}

func writeRow(xlsx *excelize.File, sheet string, row int, values ...interface{}) {
	for col, v := range values {
		xlsx.SetCellValue(sheet, fmt.Sprintf("%s%d", excelize.ToAlphaString(col), row), v)
	}
}
