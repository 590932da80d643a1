package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectionMonths is the length of the analysis window. Annual escrow
// analysis always projects twelve months.
const ProjectionMonths = 12

// LedgerRow is one simulated month of the escrow ledger. Rows chain:
// row n's starting balance equals row n-1's ending balance, and row 1
// starts at the snapshot balance.
type LedgerRow struct {
	Month           int             `json:"month"`
	StartingBalance decimal.Decimal `json:"starting_balance"`
	Deposit         decimal.Decimal `json:"deposit"`
	InterestCredit  decimal.Decimal `json:"interest_credit"`
	Disbursed       decimal.Decimal `json:"disbursed"`
	EndingBalance   decimal.Decimal `json:"ending_balance"`
}

// ProjectionResult is the outcome of simulating one candidate deposit:
// twelve ledger rows plus the derived minimum ending balance the solver
// tests against the cushion floor.
type ProjectionResult struct {
	Rows               []LedgerRow     `json:"rows"`
	MinEndingBalance   decimal.Decimal `json:"min_ending_balance"`
	FinalEndingBalance decimal.Decimal `json:"final_ending_balance"`
}

// Classification labels the account's projected position under its current
// deposit.
type Classification string

const (
	ClassificationShortage Classification = "shortage"
	ClassificationSurplus  Classification = "surplus"
	ClassificationBalanced Classification = "balanced"
)

// Disposition is the treatment the eligibility rules select for the
// classified position.
type Disposition string

const (
	DispositionRefund             Disposition = "refund"
	DispositionCreditForward      Disposition = "credit_forward"
	DispositionCollectSpread      Disposition = "collect_spread"
	DispositionCollectAccelerated Disposition = "collect_accelerated"
	DispositionHalt               Disposition = "halt"
	DispositionSpecialHandling    Disposition = "special_handling"
)

// AnalysisOutcome is the final record of one analysis run. It is created
// once by the orchestrator and never mutated; a re-run produces a new
// outcome with a new run id.
type AnalysisOutcome struct {
	RunID        string    `json:"run_id"`
	LoanID       string    `json:"loan_id"`
	AnalysisDate time.Time `json:"analysis_date"`

	// RequiredDeposit is the solved minimum monthly deposit m.
	RequiredDeposit decimal.Decimal `json:"required_deposit"`

	// AnnualDisbursements is the window total A; AllowedCushion is the
	// capped cushion C the projection may dip into.
	AnnualDisbursements decimal.Decimal `json:"annual_disbursements"`
	AllowedCushion      decimal.Decimal `json:"allowed_cushion"`

	Classification Classification  `json:"classification"`
	Magnitude      decimal.Decimal `json:"magnitude"`
	Disposition    Disposition     `json:"disposition"`

	// MatchedRule names the eligibility rule that produced the disposition.
	MatchedRule string `json:"matched_rule"`

	// SpreadTermMonths and MonthlyAdjustment describe how a shortage is
	// collected (both zero for non-collection dispositions).
	SpreadTermMonths  int             `json:"spread_term_months"`
	MonthlyAdjustment decimal.Decimal `json:"monthly_adjustment"`

	// Audit trail: the schedule the run projected and the 12-row ledger
	// under the solved deposit.
	Schedule   DisbursementSchedule `json:"schedule"`
	Projection ProjectionResult     `json:"projection"`
}
