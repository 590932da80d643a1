package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScheduledDisbursement is one dated line item of the 12-month projection:
// a single payment the escrow account must make inside the window.
type ScheduledDisbursement struct {
	Type    ObligationType  `json:"type"`
	DueDate time.Time       `json:"due_date"`
	Amount  decimal.Decimal `json:"amount"`

	// Month is the 1-based projection month the due date falls in.
	Month int `json:"month"`
}

// DisbursementSchedule is the merged, ordered set of line items for one
// projection window: ascending due date, ties broken by type precedence.
type DisbursementSchedule []ScheduledDisbursement

// Total returns the sum of all scheduled amounts, the annual disbursement
// figure A the cushion cap derives from.
func (s DisbursementSchedule) Total() decimal.Decimal {
	total := decimal.Zero
	for _, d := range s {
		total = total.Add(d.Amount)
	}
	return total
}

// MonthTotals returns the disbursements summed per projection month,
// indexed 1..12.
func (s DisbursementSchedule) MonthTotals() map[int]decimal.Decimal {
	totals := make(map[int]decimal.Decimal, 12)
	for _, d := range s {
		totals[d.Month] = totals[d.Month].Add(d.Amount)
	}
	return totals
}
