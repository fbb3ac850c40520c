package pos

import "time"

// Summary aggregates a set of sales for the history view.
type Summary struct {
	TotalSales   int     `json:"total_sales"`
	TotalRevenue float64 `json:"total_revenue"`
	TodaySales   int     `json:"today_sales"`
	TodayRevenue float64 `json:"today_revenue"`
	PendingSales int     `json:"pending_sales"`
}

// Summarize computes sale counts and revenue totals, splitting out sales
// whose display date matches today's. Revenue uses the stored TotalAmount
// snapshots, not a recomputation from line items.
func Summarize(sales []Sale, now time.Time) Summary {
	today := now.Format("1/2/2006")

	var sum Summary
	for _, sale := range sales {
		sum.TotalSales++
		sum.TotalRevenue += sale.TotalAmount
		if sale.Date == today {
			sum.TodaySales++
			sum.TodayRevenue += sale.TotalAmount
		}
		if !sale.Synced {
			sum.PendingSales++
		}
	}
	return sum
}
