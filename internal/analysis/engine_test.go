package analysis

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willbrigham/escrow-calculator/internal/domain"
)

func mustDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// annualHazard is a single 600 hazard premium due in projection month 12 of
// a window starting 2025-09-01.
func annualHazard() domain.RecurringObligation {
	return domain.RecurringObligation{
		Type:      domain.ObligationHazard,
		Amount:    decimal.NewFromInt(600),
		NextDue:   mustDate(2026, time.August, 1),
		Frequency: domain.FrequencyAnnual,
	}
}

func snapshot(balance, deposit int64, flags domain.StatusFlags) *domain.LoanSnapshot {
	return &domain.LoanSnapshot{
		LoanID:         "L-2001",
		State:          "TX",
		LoanType:       "conventional",
		EscrowBalance:  decimal.NewFromInt(balance),
		CurrentDeposit: decimal.NewFromInt(deposit),
		AnalysisDate:   mustDate(2025, time.September, 15),
		Flags:          flags,
		Obligations:    []domain.RecurringObligation{annualHazard()},
	}
}

func TestRunSurplusRefund(t *testing.T) {
	engine := NewEngine(domain.DefaultPolicy())

	// Low point is 350 against a 100 cushion: a 250 surplus, refundable
	// because the loan is current and 250 clears the $50 threshold.
	ls := snapshot(350, 50, domain.StatusFlags{})
	outcome, err := engine.Run(ls)
	require.NoError(t, err)

	assert.Equal(t, domain.ClassificationSurplus, outcome.Classification)
	assert.Equal(t, "250", outcome.Magnitude.String())
	assert.Equal(t, domain.DispositionRefund, outcome.Disposition)
	assert.Equal(t, "surplus-refund", outcome.MatchedRule)
	assert.True(t, outcome.MonthlyAdjustment.IsZero())
	assert.Equal(t, 0, outcome.SpreadTermMonths)
	assert.Equal(t, "600", outcome.AnnualDisbursements.String())
	assert.Equal(t, "100", outcome.AllowedCushion.String())
}

func TestRunShortageUnderBankruptcySpreads(t *testing.T) {
	engine := NewEngine(domain.DefaultPolicy())

	// Low point -150 breaches the -100 floor but stays inside the
	// deficiency tolerance; bankruptcy must not divert the collection.
	ls := snapshot(450, 0, domain.StatusFlags{Bankruptcy: domain.BankruptcyChapter13})
	outcome, err := engine.Run(ls)
	require.NoError(t, err)

	assert.Equal(t, domain.ClassificationShortage, outcome.Classification)
	assert.Equal(t, "250", outcome.Magnitude.String())
	assert.Equal(t, domain.DispositionCollectSpread, outcome.Disposition)
	assert.Equal(t, 12, outcome.SpreadTermMonths)
	assert.Equal(t, "20.84", outcome.MonthlyAdjustment.StringFixed(2))
}

func TestRunDeficiencyAccelerates(t *testing.T) {
	engine := NewEngine(domain.DefaultPolicy())

	// Low point -500 breaches the floor by 400, past the 100 tolerance.
	ls := snapshot(100, 0, domain.StatusFlags{})
	outcome, err := engine.Run(ls)
	require.NoError(t, err)

	assert.Equal(t, domain.ClassificationShortage, outcome.Classification)
	assert.Equal(t, "600", outcome.Magnitude.String())
	assert.Equal(t, domain.DispositionCollectAccelerated, outcome.Disposition)
	assert.Equal(t, 3, outcome.SpreadTermMonths)
	assert.Equal(t, "200.00", outcome.MonthlyAdjustment.StringFixed(2))
}

func TestRunInvestorOverrideSuppressesAcceleration(t *testing.T) {
	policy := domain.DefaultPolicy()
	policy.InvestorOverrides = map[string]domain.InvestorOverride{
		"FNMA": {SpreadTermMonths: 24, SuppressAcceleration: true},
	}
	engine := NewEngine(policy)

	ls := snapshot(100, 0, domain.StatusFlags{})
	ls.InvestorID = "FNMA"
	outcome, err := engine.Run(ls)
	require.NoError(t, err)

	assert.Equal(t, domain.DispositionCollectSpread, outcome.Disposition)
	assert.Equal(t, 24, outcome.SpreadTermMonths)
	assert.Equal(t, "25.00", outcome.MonthlyAdjustment.StringFixed(2))
}

func TestRunPMICancellationLowersDeposit(t *testing.T) {
	pmi := domain.RecurringObligation{
		Type:      domain.ObligationPMI,
		Amount:    decimal.NewFromInt(75),
		NextDue:   mustDate(2025, time.September, 1),
		Frequency: domain.FrequencyMonthly,
	}

	build := func(cancelMonth int) *domain.LoanSnapshot {
		ls := snapshot(0, 0, domain.StatusFlags{PMIActive: true, PMICancelMonth: cancelMonth})
		ls.Obligations = append(ls.Obligations, pmi)
		return ls
	}

	engine := NewEngine(domain.DefaultPolicy())

	full, err := engine.Run(build(0))
	require.NoError(t, err)
	cancelled, err := engine.Run(build(7))
	require.NoError(t, err)

	for _, line := range cancelled.Schedule {
		if line.Type == domain.ObligationPMI {
			assert.Less(t, line.Month, 7, "no PMI line may survive the cancellation month")
		}
	}
	assert.True(t, cancelled.RequiredDeposit.LessThan(full.RequiredDeposit),
		"cancelling PMI at month 7 must lower the deposit: %s vs %s",
		cancelled.RequiredDeposit, full.RequiredDeposit)
}

func TestRunInterestCreditGatedByState(t *testing.T) {
	policy := domain.DefaultPolicy()
	policy.States = map[string]domain.StatePolicy{
		"NY": {InterestOnEscrowRequired: true, InterestRate: decimal.RequireFromString("0.02")},
	}
	engine := NewEngine(policy)

	interest := &domain.InterestOnEscrow{
		MonthlyAmount: decimal.NewFromInt(5),
		Frequency:     domain.FrequencyMonthly,
	}

	credited := snapshot(0, 0, domain.StatusFlags{})
	credited.State = "NY"
	credited.Interest = interest

	uncredited := snapshot(0, 0, domain.StatusFlags{})
	uncredited.Interest = interest // TX: not required, credit ignored

	withCredit, err := engine.Run(credited)
	require.NoError(t, err)
	withoutCredit, err := engine.Run(uncredited)
	require.NoError(t, err)

	assert.True(t, withCredit.RequiredDeposit.LessThan(withoutCredit.RequiredDeposit))
}

func TestRunIsIdempotent(t *testing.T) {
	engine := NewEngine(domain.DefaultPolicy())
	ls := snapshot(350, 50, domain.StatusFlags{})

	first, err := engine.Run(ls)
	require.NoError(t, err)
	second, err := engine.Run(ls)
	require.NoError(t, err)

	require.Equal(t, first, second, "re-running the same snapshot must reproduce the outcome")
}

func TestRunAlwaysProjectsTwelveRows(t *testing.T) {
	engine := NewEngine(domain.DefaultPolicy())

	outcome, err := engine.Run(snapshot(0, 0, domain.StatusFlags{}))
	require.NoError(t, err)
	assert.Len(t, outcome.Projection.Rows, domain.ProjectionMonths)
}

func TestRunSurfacesScheduleErrors(t *testing.T) {
	engine := NewEngine(domain.DefaultPolicy())

	ls := snapshot(0, 0, domain.StatusFlags{})
	ls.Obligations = []domain.RecurringObligation{{
		Type:      domain.ObligationTax,
		Amount:    decimal.NewFromInt(-10),
		NextDue:   mustDate(2026, time.January, 1),
		Frequency: domain.FrequencyAnnual,
	}}

	outcome, err := engine.Run(ls)
	require.Error(t, err)
	assert.Nil(t, outcome, "a failed run must not yield a partial outcome")
	assert.True(t, domain.IsKind(err, domain.ErrNegativeDisbursement))
}
