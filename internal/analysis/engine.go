package analysis

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/willbrigham/escrow-calculator/internal/domain"
	"github.com/willbrigham/escrow-calculator/internal/ledger"
	"github.com/willbrigham/escrow-calculator/internal/schedule"
	"github.com/willbrigham/escrow-calculator/internal/solver"
)

// Engine runs complete annual escrow analyses against one immutable policy.
// Engines are safe for concurrent use: a run touches no shared mutable
// state.
type Engine struct {
	Policy domain.PolicyConfig
	Solver solver.Options
}

// NewEngine creates an analysis engine for the given policy.
func NewEngine(policy domain.PolicyConfig) *Engine {
	return &Engine{
		Policy: policy,
		Solver: solver.DefaultOptions(),
	}
}

// Run performs one full analysis: build the disbursement schedule, solve the
// required deposit, classify the as-is position, evaluate the eligibility
// rules, and assemble the immutable outcome. A failed run returns a typed
// error and no outcome.
func (e *Engine) Run(ls *domain.LoanSnapshot) (*domain.AnalysisOutcome, error) {
	sched, err := schedule.Build(ls)
	if err != nil {
		return nil, err
	}

	annual := sched.Total()
	cushion := AllowedCushion(&e.Policy, ls.State, annual)

	var interest *domain.InterestOnEscrow
	if e.Policy.InterestRequired(ls.State) {
		interest = ls.Interest
	}

	required, err := solver.MinimumDeposit(ls.EscrowBalance, cushion, interest, sched, e.Solver)
	if err != nil {
		return nil, err
	}

	// Classification runs against the deposit currently in effect, not the
	// solved one: shortage/surplus describes the account as it stands.
	asIs := ledger.Simulate(ls.EscrowBalance, ls.CurrentDeposit, interest, sched)
	pos := Classify(asIs.MinEndingBalance, cushion, &e.Policy)

	disposition, matchedRule, err := Evaluate(RuleInput{
		Flags:           ls.Flags,
		Classification:  pos.Classification,
		Magnitude:       pos.Magnitude,
		Deficiency:      pos.Deficiency,
		RefundThreshold: e.Policy.RefundThreshold,
	})
	if err != nil {
		return nil, err
	}

	term, adjustment, disposition := e.collectionTerms(ls, disposition, pos)

	return &domain.AnalysisOutcome{
		RunID:               runID(ls),
		LoanID:              ls.LoanID,
		AnalysisDate:        ls.WindowStart(),
		RequiredDeposit:     required,
		AnnualDisbursements: annual,
		AllowedCushion:      cushion,
		Classification:      pos.Classification,
		Magnitude:           pos.Magnitude,
		Disposition:         disposition,
		MatchedRule:         matchedRule,
		SpreadTermMonths:    term,
		MonthlyAdjustment:   adjustment,
		Schedule:            sched,
		Projection:          ledger.Simulate(ls.EscrowBalance, required, interest, sched),
	}, nil
}

// runID derives a name-based UUID from the loan and analysis window so a
// re-run of the same snapshot reproduces the identical outcome record.
func runID(ls *domain.LoanSnapshot) string {
	name := ls.LoanID + "/" + ls.WindowStart().Format("2006-01")
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

// collectionTerms resolves the spread term, the monthly shortage
// installment, and any investor-override downgrade of an accelerated
// collection. Non-collection dispositions carry a zero term.
func (e *Engine) collectionTerms(ls *domain.LoanSnapshot, disposition domain.Disposition, pos Position) (int, decimal.Decimal, domain.Disposition) {
	spread := ls.SpreadTermMonths
	if spread <= 0 {
		spread = e.Policy.DefaultSpreadTermMonths
	}
	if spread <= 0 {
		spread = domain.ProjectionMonths
	}

	override, hasOverride := e.Policy.OverrideFor(ls.InvestorID, ls.LoanType)
	if hasOverride && override.SpreadTermMonths > 0 {
		spread = override.SpreadTermMonths
	}

	if disposition == domain.DispositionCollectAccelerated && hasOverride && override.SuppressAcceleration {
		disposition = domain.DispositionCollectSpread
	}

	switch disposition {
	case domain.DispositionCollectAccelerated:
		term := e.Policy.AcceleratedSpreadTermMonths
		if term <= 0 {
			term = 3
		}
		return term, domain.CeilCents(pos.Magnitude.Div(decimal.NewFromInt(int64(term)))), disposition
	case domain.DispositionCollectSpread:
		if pos.Classification != domain.ClassificationShortage {
			return spread, decimal.Zero, disposition
		}
		return spread, domain.CeilCents(pos.Magnitude.Div(decimal.NewFromInt(int64(spread)))), disposition
	default:
		return 0, decimal.Zero, disposition
	}
}
