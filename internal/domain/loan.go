package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ObligationType identifies the kind of recurring disbursement an escrow
// account pays on the borrower's behalf.
type ObligationType string

const (
	ObligationTax    ObligationType = "tax"
	ObligationHazard ObligationType = "hazard"
	ObligationFlood  ObligationType = "flood"
	ObligationLPI    ObligationType = "lpi"
	ObligationPMI    ObligationType = "pmi"
	ObligationHOA    ObligationType = "hoa"
)

// disbursementPrecedence orders same-day disbursements deterministically.
var disbursementPrecedence = map[ObligationType]int{
	ObligationTax:    0,
	ObligationHazard: 1,
	ObligationFlood:  2,
	ObligationLPI:    3,
	ObligationPMI:    4,
	ObligationHOA:    5,
}

// Precedence returns the tie-break rank used when two disbursements share a
// due date. Lower ranks post first.
func (t ObligationType) Precedence() int {
	if p, ok := disbursementPrecedence[t]; ok {
		return p
	}
	return len(disbursementPrecedence)
}

// Frequency describes how often a recurring obligation comes due.
type Frequency string

const (
	FrequencyMonthly      Frequency = "monthly"
	FrequencyQuarterly    Frequency = "quarterly"
	FrequencySemiannual   Frequency = "semiannual"
	FrequencyAnnual       Frequency = "annual"
	FrequencyInstallments Frequency = "installments"
)

// MonthInterval returns the number of months between consecutive due dates,
// or 0 for frequencies that do not repeat on a fixed cycle.
func (f Frequency) MonthInterval() int {
	switch f {
	case FrequencyMonthly:
		return 1
	case FrequencyQuarterly:
		return 3
	case FrequencySemiannual:
		return 6
	case FrequencyAnnual:
		return 12
	default:
		return 0
	}
}

// Installment is one explicitly dated line of a split bill (e.g. a
// two-installment tax parcel).
type Installment struct {
	DueDate time.Time       `yaml:"due_date" json:"due_date"`
	Amount  decimal.Decimal `yaml:"amount" json:"amount"`
}

// RecurringObligation describes one disbursement stream the escrow account
// must fund. Amount applies to every occurrence unless explicit Installments
// are given, in which case each installment carries its own amount.
type RecurringObligation struct {
	Type      ObligationType  `yaml:"type" json:"type"`
	Amount    decimal.Decimal `yaml:"amount" json:"amount"`
	NextDue   time.Time       `yaml:"next_due" json:"next_due"`
	Frequency Frequency       `yaml:"frequency" json:"frequency"`

	// Installments lists 1-4 explicitly dated lines. Only valid with
	// FrequencyInstallments.
	Installments []Installment `yaml:"installments,omitempty" json:"installments,omitempty"`

	// CancelMonth is the 1-based projection month in which the obligation
	// stops; occurrences in that month and later are excluded. Zero means
	// no cancellation inside the window.
	CancelMonth int `yaml:"cancel_month,omitempty" json:"cancel_month,omitempty"`

	// EndDate stops the stream after a calendar date, when known instead of
	// a month index.
	EndDate *time.Time `yaml:"end_date,omitempty" json:"end_date,omitempty"`
}

// BankruptcyChapter identifies an active bankruptcy filing, or empty when
// none is open.
type BankruptcyChapter string

const (
	BankruptcyNone      BankruptcyChapter = ""
	BankruptcyChapter7  BankruptcyChapter = "7"
	BankruptcyChapter11 BankruptcyChapter = "11"
	BankruptcyChapter13 BankruptcyChapter = "13"
)

// StatusFlags carries the loan-status indicators the eligibility rules
// evaluate. All fields default to the inactive state.
type StatusFlags struct {
	Delinquent           bool              `yaml:"delinquent" json:"delinquent"`
	Bankruptcy           BankruptcyChapter `yaml:"bankruptcy,omitempty" json:"bankruptcy,omitempty"`
	ForeclosureActive    bool              `yaml:"foreclosure_active" json:"foreclosure_active"`
	ForeclosureSale      bool              `yaml:"foreclosure_sale" json:"foreclosure_sale"`
	LossMitigationActive bool              `yaml:"loss_mitigation_active" json:"loss_mitigation_active"`
	ServiceRelease       bool              `yaml:"service_release" json:"service_release"`
	EscrowWaived         bool              `yaml:"escrow_waived" json:"escrow_waived"`
	EscrowCancellation   bool              `yaml:"escrow_cancellation" json:"escrow_cancellation"`
	PaidInFull           bool              `yaml:"paid_in_full" json:"paid_in_full"`
	DeedInLieu           bool              `yaml:"deed_in_lieu" json:"deed_in_lieu"`

	// Insurance placement indicators.
	SFHA         bool `yaml:"sfha" json:"sfha"`
	ForcePlaced  bool `yaml:"force_placed" json:"force_placed"`
	LPICancelled bool `yaml:"lpi_cancelled" json:"lpi_cancelled"`

	// PMI. PMICancelMonth is the 1-based projection month PMI is expected
	// to cancel, supplied by the servicing system from the amortization
	// schedule; zero means no cancellation inside the window.
	PMIActive      bool            `yaml:"pmi_active" json:"pmi_active"`
	PMICancelMonth int             `yaml:"pmi_cancel_month,omitempty" json:"pmi_cancel_month,omitempty"`
	OriginalLTV    decimal.Decimal `yaml:"original_ltv,omitempty" json:"original_ltv,omitempty"`
}

// Closing reports whether the loan is leaving servicing through payoff,
// deed-in-lieu, or a completed foreclosure sale.
func (f StatusFlags) Closing() bool {
	return f.PaidInFull || f.DeedInLieu || f.ForeclosureSale
}

// Distressed reports whether any condition blocks a cash refund of surplus
// funds under the eligibility rules.
func (f StatusFlags) Distressed() bool {
	return f.Delinquent || f.Bankruptcy != BankruptcyNone ||
		f.ForeclosureActive || f.LossMitigationActive
}

// InterestOnEscrow describes the interest credit owed to the borrower in
// states that require interest on escrow balances.
type InterestOnEscrow struct {
	MonthlyAmount decimal.Decimal `yaml:"monthly_amount" json:"monthly_amount"`
	Frequency     Frequency       `yaml:"frequency" json:"frequency"`
}

// LoanSnapshot is the immutable input to one analysis run: the account
// position, its disbursement obligations, and the status flags in effect on
// the analysis date. The core never mutates a snapshot.
type LoanSnapshot struct {
	LoanID     string `yaml:"loan_id" json:"loan_id"`
	State      string `yaml:"state" json:"state"`
	LoanType   string `yaml:"loan_type" json:"loan_type"`
	InvestorID string `yaml:"investor_id,omitempty" json:"investor_id,omitempty"`

	// EscrowBalance is the signed starting balance S0 on the analysis date.
	EscrowBalance decimal.Decimal `yaml:"escrow_balance" json:"escrow_balance"`

	// AnalysisDate is the completion date of the analysis; the 12-month
	// projection window starts at the first of this month.
	AnalysisDate time.Time `yaml:"analysis_date" json:"analysis_date"`

	// CurrentDeposit is the monthly escrow deposit in effect before this
	// analysis; the as-is projection that drives classification uses it.
	CurrentDeposit decimal.Decimal `yaml:"current_deposit" json:"current_deposit"`

	// SpreadTermMonths is the term a shortage collection is divided over.
	// Zero takes the policy default.
	SpreadTermMonths int `yaml:"spread_term_months,omitempty" json:"spread_term_months,omitempty"`

	Interest    *InterestOnEscrow     `yaml:"interest_on_escrow,omitempty" json:"interest_on_escrow,omitempty"`
	Obligations []RecurringObligation `yaml:"obligations" json:"obligations"`
	Flags       StatusFlags           `yaml:"flags" json:"flags"`
}

// WindowStart returns the first day of the analysis month, the start of the
// 12-month projection window.
func (ls *LoanSnapshot) WindowStart() time.Time {
	d := ls.AnalysisDate
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}
