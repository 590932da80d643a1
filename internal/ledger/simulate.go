// Package ledger simulates the monthly escrow ledger for one candidate
// deposit. The simulation is pure: the deposit solver calls it repeatedly
// and two calls with the same inputs always produce the same projection.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/willbrigham/escrow-calculator/internal/domain"
)

// Simulate projects twelve ledger rows from a starting balance, a constant
// monthly deposit, an optional interest credit, and the disbursement
// schedule. The running balance carries full precision between months;
// rounding to cents happens only on each row's reported figures.
//
// Pass a nil interest credit when the property state does not require
// interest on escrow.
func Simulate(s0, deposit decimal.Decimal, interest *domain.InterestOnEscrow, schedule domain.DisbursementSchedule) domain.ProjectionResult {
	byMonth := schedule.MonthTotals()

	rows := make([]domain.LedgerRow, 0, domain.ProjectionMonths)
	balance := s0
	var minEnding decimal.Decimal

	for month := 1; month <= domain.ProjectionMonths; month++ {
		starting := balance
		credit := creditForMonth(interest, month)
		disbursed := byMonth[month]

		balance = balance.Add(deposit).Add(credit).Sub(disbursed)

		ending := domain.RoundCents(balance)
		rows = append(rows, domain.LedgerRow{
			Month:           month,
			StartingBalance: domain.RoundCents(starting),
			Deposit:         deposit,
			InterestCredit:  credit,
			Disbursed:       disbursed,
			EndingBalance:   ending,
		})

		if month == 1 || ending.LessThan(minEnding) {
			minEnding = ending
		}
	}

	return domain.ProjectionResult{
		Rows:               rows,
		MinEndingBalance:   minEnding,
		FinalEndingBalance: rows[len(rows)-1].EndingBalance,
	}
}

// creditForMonth returns the interest credit posting in a given projection
// month. Monthly credits post every month; other frequencies accrue at the
// monthly rate and post in their due months.
func creditForMonth(interest *domain.InterestOnEscrow, month int) decimal.Decimal {
	if interest == nil || !interest.MonthlyAmount.IsPositive() {
		return decimal.Zero
	}
	monthly := interest.MonthlyAmount
	switch interest.Frequency {
	case domain.FrequencyMonthly, "":
		return monthly
	case domain.FrequencyQuarterly:
		if month%3 == 0 {
			return monthly.Mul(decimal.NewFromInt(3))
		}
	case domain.FrequencySemiannual:
		if month%6 == 0 {
			return monthly.Mul(decimal.NewFromInt(6))
		}
	case domain.FrequencyAnnual:
		if month == domain.ProjectionMonths {
			return monthly.Mul(decimal.NewFromInt(12))
		}
	}
	return decimal.Zero
}
