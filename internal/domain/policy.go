package domain

import "github.com/shopspring/decimal"

// PolicyConfig is the immutable policy surface for an analysis run: cushion
// caps, refund thresholds, collection terms, and jurisdiction/investor
// variations. It is loaded once and shared read-only across runs.
type PolicyConfig struct {
	// CushionCap is the servicer's cushion in dollars. The effective
	// cushion is further capped by the legal fraction of annual
	// disbursements.
	CushionCap decimal.Decimal `yaml:"cushion_cap" json:"cushion_cap"`

	// LegalCushionDivisor caps the cushion at A divided by this value;
	// RESPA's two-month cushion corresponds to the default of 6.
	LegalCushionDivisor int `yaml:"legal_cushion_divisor" json:"legal_cushion_divisor"`

	// RefundThreshold is the minimum surplus refunded in cash; smaller
	// surpluses credit forward.
	RefundThreshold decimal.Decimal `yaml:"refund_threshold" json:"refund_threshold"`

	// DeficiencyTolerance is how far below the cushion floor the as-is
	// projection may dip before collection accelerates.
	DeficiencyTolerance decimal.Decimal `yaml:"deficiency_tolerance" json:"deficiency_tolerance"`

	DefaultSpreadTermMonths     int `yaml:"default_spread_term_months" json:"default_spread_term_months"`
	AcceleratedSpreadTermMonths int `yaml:"accelerated_spread_term_months" json:"accelerated_spread_term_months"`

	// States carries jurisdiction-specific rules keyed by state code.
	States map[string]StatePolicy `yaml:"states,omitempty" json:"states,omitempty"`

	// InvestorOverrides substitutes collection behavior per investor or
	// loan type; see Eligibility rules.
	InvestorOverrides map[string]InvestorOverride `yaml:"investor_overrides,omitempty" json:"investor_overrides,omitempty"`
}

// StatePolicy holds the per-state variations: interest on escrow and any
// cushion maximum stricter than the legal fraction.
type StatePolicy struct {
	InterestOnEscrowRequired bool            `yaml:"interest_on_escrow_required" json:"interest_on_escrow_required"`
	InterestRate             decimal.Decimal `yaml:"interest_rate,omitempty" json:"interest_rate,omitempty"`

	// CushionMax, when positive, caps the cushion below the legal
	// fraction.
	CushionMax decimal.Decimal `yaml:"cushion_max,omitempty" json:"cushion_max,omitempty"`
}

// InvestorOverride adjusts collection treatment for a specific investor or
// loan type without reordering rule precedence.
type InvestorOverride struct {
	SpreadTermMonths     int  `yaml:"spread_term_months,omitempty" json:"spread_term_months,omitempty"`
	SuppressAcceleration bool `yaml:"suppress_acceleration" json:"suppress_acceleration"`
}

// DefaultPolicy returns the baseline conventional policy: two-month legal
// cushion, $50 refund floor, 12-month spread, 3-month accelerated spread.
func DefaultPolicy() PolicyConfig {
	return PolicyConfig{
		CushionCap:                  decimal.NewFromInt(0),
		LegalCushionDivisor:         6,
		RefundThreshold:             decimal.NewFromInt(50),
		DeficiencyTolerance:         decimal.NewFromInt(100),
		DefaultSpreadTermMonths:     12,
		AcceleratedSpreadTermMonths: 3,
	}
}

// InterestRequired reports whether the loan's property state mandates an
// interest credit on escrow balances.
func (p *PolicyConfig) InterestRequired(state string) bool {
	sp, ok := p.States[state]
	return ok && sp.InterestOnEscrowRequired
}

// StateCushionMax returns the state cushion ceiling and whether one is
// configured for the given state.
func (p *PolicyConfig) StateCushionMax(state string) (decimal.Decimal, bool) {
	sp, ok := p.States[state]
	if !ok || !sp.CushionMax.IsPositive() {
		return decimal.Zero, false
	}
	return sp.CushionMax, true
}

// OverrideFor resolves the investor override for a loan, preferring the
// investor id over the loan type. The second return is false when neither
// is configured.
func (p *PolicyConfig) OverrideFor(investorID, loanType string) (InvestorOverride, bool) {
	if ov, ok := p.InvestorOverrides[investorID]; ok && investorID != "" {
		return ov, true
	}
	if ov, ok := p.InvestorOverrides[loanType]; ok && loanType != "" {
		return ov, true
	}
	return InvestorOverride{}, false
}
