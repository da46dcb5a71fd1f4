package receipt

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ledger "github.com/paleteria/paleteria-pos/internal/ledger/domain"
	"github.com/paleteria/paleteria-pos/internal/sale/domain"
)

func sampleReceipt(items int) domain.Receipt {
	r := domain.Receipt{
		TicketID:      "4b0c1a9e-7a1f-4c59-9a36-1c2d3e4f5a6b",
		Date:          "2025-06-01",
		Time:          "18:30:15",
		PaymentMethod: ledger.PaymentCash,
		GrossTotal:    decimal.Zero,
		Discount:      decimal.NewFromInt(5),
	}
	for i := 0; i < items; i++ {
		sub := decimal.NewFromInt(10)
		r.Items = append(r.Items, domain.ReceiptItem{
			ProductID: fmt.Sprintf("P-%03d", i+1), Category: "Fina", ProductName: "Piña colada",
			Quantity: 1, UnitPrice: sub, Subtotal: sub,
		})
		r.GrossTotal = r.GrossTotal.Add(sub)
	}
	r.NetTotal = r.GrossTotal.Sub(r.Discount)
	return r
}

func TestPDFRenderer_Render(t *testing.T) {
	renderer := NewPDFRenderer("")

	out, err := renderer.Render(context.Background(), sampleReceipt(2))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestPDFRenderer_LongTicketsBreakPages(t *testing.T) {
	renderer := NewPDFRenderer("Paletería")

	short, err := renderer.build(sampleReceipt(3))
	require.NoError(t, err)
	assert.Equal(t, 1, short.PageCount())

	long, err := renderer.build(sampleReceipt(80))
	require.NoError(t, err)
	assert.Greater(t, long.PageCount(), 1)
}

func TestPDFRenderer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewPDFRenderer("").Render(ctx, sampleReceipt(1))
	assert.ErrorIs(t, err, context.Canceled)
}
