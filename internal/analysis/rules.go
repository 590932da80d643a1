package analysis

import (
	"github.com/shopspring/decimal"

	"github.com/willbrigham/escrow-calculator/internal/domain"
)

// RuleInput is everything the eligibility rules may inspect: the loan's
// status flags, the classified position, and the policy refund threshold.
type RuleInput struct {
	Flags           domain.StatusFlags
	Classification  domain.Classification
	Magnitude       decimal.Decimal
	Deficiency      bool
	RefundThreshold decimal.Decimal
}

// rule is one (predicate, disposition) pair. Precedence is the slice order,
// not anything inside the predicates, so it can be tested as data.
type rule struct {
	name        string
	matches     func(RuleInput) bool
	disposition domain.Disposition
}

// dispositionRules is the decision table, evaluated first-match-wins.
// Closure events outrank everything; waiver halts future deposits; the
// surplus branch decides refund versus credit; the shortage branch decides
// spread versus accelerated collection; balanced degenerates to a zero
// collection.
var dispositionRules = []rule{
	{
		name:        "loan-closing",
		matches:     func(in RuleInput) bool { return in.Flags.Closing() },
		disposition: domain.DispositionSpecialHandling,
	},
	{
		name:        "escrow-cancellation",
		matches:     func(in RuleInput) bool { return in.Flags.EscrowCancellation },
		disposition: domain.DispositionSpecialHandling,
	},
	{
		name:        "escrow-waived",
		matches:     func(in RuleInput) bool { return in.Flags.EscrowWaived },
		disposition: domain.DispositionHalt,
	},
	{
		name: "surplus-distressed",
		matches: func(in RuleInput) bool {
			return in.Classification == domain.ClassificationSurplus && in.Flags.Distressed()
		},
		disposition: domain.DispositionCreditForward,
	},
	{
		name: "surplus-refund",
		matches: func(in RuleInput) bool {
			return in.Classification == domain.ClassificationSurplus &&
				in.Magnitude.GreaterThan(in.RefundThreshold)
		},
		disposition: domain.DispositionRefund,
	},
	{
		name: "surplus-credit",
		matches: func(in RuleInput) bool {
			return in.Classification == domain.ClassificationSurplus
		},
		disposition: domain.DispositionCreditForward,
	},
	{
		name: "shortage-deficiency",
		matches: func(in RuleInput) bool {
			return in.Classification == domain.ClassificationShortage && in.Deficiency
		},
		disposition: domain.DispositionCollectAccelerated,
	},
	{
		name: "shortage-spread",
		matches: func(in RuleInput) bool {
			return in.Classification == domain.ClassificationShortage
		},
		disposition: domain.DispositionCollectSpread,
	},
	{
		name: "balanced",
		matches: func(in RuleInput) bool {
			return in.Classification == domain.ClassificationBalanced
		},
		disposition: domain.DispositionCollectSpread,
	},
}

// Evaluate walks the decision table in precedence order and returns the
// first matching disposition and the rule name that produced it. An
// exhausted table is a configuration gap and surfaces as
// AmbiguousDisposition rather than defaulting silently.
func Evaluate(in RuleInput) (domain.Disposition, string, error) {
	for _, r := range dispositionRules {
		if r.matches(in) {
			return r.disposition, r.name, nil
		}
	}
	return "", "", domain.NewError(domain.ErrAmbiguousDisposition, "classification",
		"no eligibility rule matched; the precedence table is not exhaustive for this input")
}
