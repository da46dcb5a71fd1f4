package service

import (
	"fmt"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"

	"github.com/paleteria/paleteria-pos/internal/report/domain"
)

// ticketStats works in float64; the results are rounded back to cents.
func ticketStats(ticketNet map[string]decimal.Decimal) (domain.TicketStats, error) {
	out := domain.TicketStats{Count: len(ticketNet), Mean: decimal.Zero, Median: decimal.Zero}
	if len(ticketNet) == 0 {
		return out, nil
	}

	data := make(stats.Float64Data, 0, len(ticketNet))
	for _, net := range ticketNet {
		data = append(data, net.InexactFloat64())
	}
	mean, err := stats.Mean(data)
	if err != nil {
		return out, fmt.Errorf("ticket mean: %w", err)
	}
	median, err := stats.Median(data)
	if err != nil {
		return out, fmt.Errorf("ticket median: %w", err)
	}
	out.Mean = decimal.NewFromFloat(mean).Round(2)
	out.Median = decimal.NewFromFloat(median).Round(2)
	return out, nil
}
