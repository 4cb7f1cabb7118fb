package console

import (
	"context"

	"github.com/montanaflynn/stats"

	"github.com/boutiquehq/boutique/internal/domain"
)

// OrderStats summarizes the order log for the console dashboard.
type OrderStats struct {
	Count       int     `json:"count"`
	Pending     int     `json:"pending"`
	Confirmed   int     `json:"confirmed"`
	Revenue     float64 `json:"revenue"`
	MeanTotal   float64 `json:"mean_total"`
	MedianTotal float64 `json:"median_total"`
}

// Stats aggregates totals over all orders. Revenue counts confirmed orders
// only; mean and median cover the full log.
func (a *Console) Stats(ctx context.Context) OrderStats {
	orders := a.store.GetOrders(ctx)

	out := OrderStats{Count: len(orders)}
	if len(orders) == 0 {
		return out
	}

	totals := make([]float64, 0, len(orders))
	for _, o := range orders {
		totals = append(totals, o.Total)
		switch o.Status {
		case domain.OrderStatusPending:
			out.Pending++
		case domain.OrderStatusConfirmed:
			out.Confirmed++
			out.Revenue += o.Total
		}
	}

	if mean, err := stats.Mean(totals); err == nil {
		out.MeanTotal = mean
	}
	if median, err := stats.Median(totals); err == nil {
		out.MedianTotal = median
	}
	return out
}
