// Package receipt renders sale tickets as PDF documents.
package receipt

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"

	"github.com/paleteria/paleteria-pos/internal/sale/domain"
)

const (
	marginLeft   = 18.0
	marginTop    = 18.0
	marginBottom = 25.0
	lineHeight   = 6.0
	qrSize       = 32.0
)

type PDFRenderer struct {
	title    string
	thankYou string
}

func NewPDFRenderer(title string) *PDFRenderer {
	if title == "" {
		title = "Ticket de venta"
	}
	return &PDFRenderer{title: title, thankYou: "¡Gracias por su compra!"}
}

func (r *PDFRenderer) Render(ctx context.Context, receipt domain.Receipt) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pdf, err := r.build(receipt)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write receipt pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) build(receipt domain.Receipt) (*fpdf.Fpdf, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(marginLeft, marginTop, marginLeft)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.SetTitle(r.title+" "+receipt.TicketID, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 9, tr(r.title), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, lineHeight, tr(fmt.Sprintf("Fecha: %s   Hora: %s", receipt.Date, receipt.Time)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, lineHeight, tr(fmt.Sprintf("Método de pago: %s", receipt.PaymentMethod)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, lineHeight, tr("Ticket: "+receipt.TicketID), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, tr("Detalle de productos:"), "", 1, "L", false, 0, "")

	// Auto page break carries item lines over to new pages.
	pdf.SetFont("Helvetica", "", 10)
	for _, item := range receipt.Items {
		text := fmt.Sprintf("- %s - %s  x%d  $%s  Subtotal: $%s",
			item.Category, item.ProductName, item.Quantity, money(item.UnitPrice), money(item.Subtotal))
		pdf.CellFormat(0, lineHeight, tr(text), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, lineHeight, tr("Total bruto: $"+money(receipt.GrossTotal)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, lineHeight, tr("Descuento:   -$"+money(receipt.Discount)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, lineHeight, tr("Total a pagar: $"+money(receipt.NetTotal)), "", 1, "L", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, lineHeight, tr(r.thankYou), "", 1, "L", false, 0, "")

	if err := r.addQRCode(pdf, receipt); err != nil {
		return nil, err
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("build receipt pdf: %w", err)
	}
	return pdf, nil
}

// addQRCode places a code carrying the ticket id and net total under the
// footer, on a new page when the current one has no room.
func (r *PDFRenderer) addQRCode(pdf *fpdf.Fpdf, receipt domain.Receipt) error {
	payload := fmt.Sprintf("ticket:%s;total:%s", receipt.TicketID, money(receipt.NetTotal))
	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("encode receipt qr code: %w", err)
	}

	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	name := "qr-" + receipt.TicketID
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))

	_, pageHeight := pdf.GetPageSize()
	y := pdf.GetY() + 4
	if y+qrSize > pageHeight-marginBottom {
		pdf.AddPage()
		y = pdf.GetY()
	}
	pdf.ImageOptions(name, marginLeft, y, qrSize, qrSize, false, opts, 0, "")
	return nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
