// Package analysis classifies the account's projected position, applies the
// eligibility rules, and orchestrates a full analysis run.
package analysis

import (
	"github.com/shopspring/decimal"

	"github.com/willbrigham/escrow-calculator/internal/domain"
)

// AllowedCushion computes the cushion the projection may dip into:
// min(servicer cap, A / legal divisor), further capped by a stricter state
// maximum when one is configured. A zero servicer cap means the servicer
// takes the full legal cushion.
func AllowedCushion(policy *domain.PolicyConfig, state string, annual decimal.Decimal) decimal.Decimal {
	divisor := policy.LegalCushionDivisor
	if divisor <= 0 {
		divisor = 6
	}
	legal := annual.Div(decimal.NewFromInt(int64(divisor)))

	cushion := legal
	if policy.CushionCap.IsPositive() && policy.CushionCap.LessThan(cushion) {
		cushion = policy.CushionCap
	}
	if stateMax, ok := policy.StateCushionMax(state); ok && stateMax.LessThan(cushion) {
		cushion = stateMax
	}
	return domain.RoundCents(cushion)
}

// Position is the classified as-is projection: how the account stands under
// its current deposit, before any rule is applied.
type Position struct {
	Classification domain.Classification
	Magnitude      decimal.Decimal

	// MinBalance is the lowest projected ending balance under the current
	// deposit.
	MinBalance decimal.Decimal

	// Deficiency is set when the low point breaches the cushion floor
	// beyond the policy tolerance, which accelerates collection.
	Deficiency bool
}

// Classify compares the as-is projection low point against the allowed
// cushion. One consistent low-point convention applies throughout: the
// account is short when the low point falls below -cushion (magnitude is
// the cushion target minus the low point), in surplus when the low point
// clears the cushion (magnitude is the excess above it), and balanced in
// between.
func Classify(minBalance, allowedCushion decimal.Decimal, policy *domain.PolicyConfig) Position {
	pos := Position{
		Classification: domain.ClassificationBalanced,
		Magnitude:      decimal.Zero,
		MinBalance:     minBalance,
	}

	floor := allowedCushion.Neg()
	switch {
	case minBalance.LessThan(floor):
		pos.Classification = domain.ClassificationShortage
		pos.Magnitude = allowedCushion.Sub(minBalance)
		pos.Deficiency = minBalance.LessThan(floor.Sub(policy.DeficiencyTolerance))
	case minBalance.GreaterThan(allowedCushion):
		pos.Classification = domain.ClassificationSurplus
		pos.Magnitude = minBalance.Sub(allowedCushion)
	}
	return pos
}
