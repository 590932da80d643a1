// Package solver finds the minimum constant monthly deposit that keeps the
// projected escrow balance at or above the allowed cushion floor. The
// minimum projected balance is monotonically non-decreasing in the deposit,
// so an adaptive-bound bisection converges to the exact cent.
package solver

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/willbrigham/escrow-calculator/internal/domain"
	"github.com/willbrigham/escrow-calculator/internal/ledger"
)

// Options configures the bisection.
type Options struct {
	// MaxIterations is a hard safety cap across bound expansion and
	// bisection; valid inputs converge in far fewer.
	MaxIterations int
}

// DefaultOptions returns the standard solver configuration.
func DefaultOptions() Options {
	return Options{MaxIterations: 64}
}

// MinimumDeposit solves for the smallest non-negative monthly deposit m, in
// whole cents, such that the simulated minimum ending balance never falls
// below -allowedCushion. Deterministic: fixed inputs always return the same
// deposit.
func MinimumDeposit(s0, allowedCushion decimal.Decimal, interest *domain.InterestOnEscrow, schedule domain.DisbursementSchedule, opts Options) (decimal.Decimal, error) {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultOptions().MaxIterations
	}
	floor := allowedCushion.Neg()

	feasible := func(depositCents int64) bool {
		m := decimal.New(depositCents, -2)
		result := ledger.Simulate(s0, m, interest, schedule)
		return result.MinEndingBalance.GreaterThanOrEqual(floor)
	}

	if feasible(0) {
		return decimal.Zero, nil
	}

	iterations := 0

	// Initial upper bound: one twelfth of the annual total plus whatever
	// the starting balance falls short of the cushion, doubled until the
	// bound is actually feasible.
	annual := schedule.Total()
	high := toCentsCeil(annual.Div(decimal.NewFromInt(domain.ProjectionMonths)))
	if gap := allowedCushion.Sub(s0); gap.IsPositive() {
		high += toCentsCeil(gap)
	}
	if high <= 0 {
		high = 1
	}
	for !feasible(high) {
		iterations++
		if iterations > opts.MaxIterations {
			return decimal.Zero, &domain.Error{
				Kind:    domain.ErrInfeasible,
				Field:   "obligations",
				Message: fmt.Sprintf("no feasible deposit at bound %s after %d expansions", decimal.New(high, -2).StringFixed(2), iterations-1),
			}
		}
		high *= 2
	}

	// Bisect on whole cents: low always infeasible, high always feasible.
	var low int64
	for high-low > 1 {
		iterations++
		if iterations > opts.MaxIterations {
			return decimal.Zero, &domain.Error{
				Kind:    domain.ErrInfeasible,
				Field:   "obligations",
				Message: fmt.Sprintf("bisection did not converge within %d iterations", opts.MaxIterations),
			}
		}
		mid := low + (high-low)/2
		if feasible(mid) {
			high = mid
		} else {
			low = mid
		}
	}

	return decimal.New(high, -2), nil
}

// toCentsCeil converts a monetary amount to whole cents, rounding up.
func toCentsCeil(d decimal.Decimal) int64 {
	return d.Mul(decimal.NewFromInt(100)).Ceil().IntPart()
}
