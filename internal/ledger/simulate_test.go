package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willbrigham/escrow-calculator/internal/domain"
)

func line(t domain.ObligationType, month int, amount int64) domain.ScheduledDisbursement {
	return domain.ScheduledDisbursement{
		Type:    t,
		DueDate: time.Date(2025, time.Month(month), 1, 0, 0, 0, 0, time.UTC),
		Amount:  decimal.NewFromInt(amount),
		Month:   month,
	}
}

func TestSimulateRowChaining(t *testing.T) {
	schedule := domain.DisbursementSchedule{
		line(domain.ObligationHazard, 6, 600),
		line(domain.ObligationTax, 12, 600),
	}

	result := Simulate(decimal.Zero, decimal.NewFromInt(100), nil, schedule)
	require.Len(t, result.Rows, domain.ProjectionMonths)

	assert.True(t, result.Rows[0].StartingBalance.IsZero(), "row 1 starts at S0")
	for i := 1; i < len(result.Rows); i++ {
		assert.True(t, result.Rows[i].StartingBalance.Equal(result.Rows[i-1].EndingBalance),
			"row %d must start where row %d ended", i+1, i)
	}

	// Deposits of 100 against 600 due in months 6 and 12 touch zero twice.
	assert.True(t, result.MinEndingBalance.IsZero())
	assert.True(t, result.FinalEndingBalance.IsZero())
	assert.True(t, result.Rows[5].Disbursed.Equal(decimal.NewFromInt(600)))
}

func TestSimulateNegativeBalances(t *testing.T) {
	schedule := domain.DisbursementSchedule{line(domain.ObligationTax, 1, 500)}

	result := Simulate(decimal.NewFromInt(100), decimal.Zero, nil, schedule)
	assert.Equal(t, "-400", result.MinEndingBalance.String())
	assert.Equal(t, "-400", result.FinalEndingBalance.String())
}

func TestSimulateInterestCreditFrequencies(t *testing.T) {
	monthly := decimal.NewFromInt(10)

	cases := []struct {
		name       string
		frequency  domain.Frequency
		postMonths map[int]string
	}{
		{"monthly posts every month", domain.FrequencyMonthly,
			map[int]string{1: "10", 2: "10", 12: "10"}},
		{"quarterly accrues and posts", domain.FrequencyQuarterly,
			map[int]string{1: "0", 3: "30", 6: "30", 9: "30", 12: "30"}},
		{"semiannual accrues and posts", domain.FrequencySemiannual,
			map[int]string{5: "0", 6: "60", 12: "60"}},
		{"annual posts in month 12", domain.FrequencyAnnual,
			map[int]string{6: "0", 11: "0", 12: "120"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			interest := &domain.InterestOnEscrow{MonthlyAmount: monthly, Frequency: tc.frequency}
			result := Simulate(decimal.Zero, decimal.Zero, interest, nil)

			for month, want := range tc.postMonths {
				assert.Equal(t, want, result.Rows[month-1].InterestCredit.String(),
					"credit in month %d", month)
			}
			// Every frequency credits the same annual total.
			assert.Equal(t, "120", result.FinalEndingBalance.String())
		})
	}
}

func TestSimulateIsDeterministic(t *testing.T) {
	schedule := domain.DisbursementSchedule{
		line(domain.ObligationTax, 4, 900),
		line(domain.ObligationHazard, 9, 450),
	}
	s0 := decimal.RequireFromString("123.45")
	deposit := decimal.RequireFromString("87.65")

	first := Simulate(s0, deposit, nil, schedule)
	second := Simulate(s0, deposit, nil, schedule)

	require.Equal(t, len(first.Rows), len(second.Rows))
	for i := range first.Rows {
		assert.True(t, first.Rows[i].EndingBalance.Equal(second.Rows[i].EndingBalance))
	}
	assert.True(t, first.MinEndingBalance.Equal(second.MinEndingBalance))
}
