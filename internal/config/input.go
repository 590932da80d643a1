// Package config loads and validates the YAML inputs of an analysis run:
// loan snapshot files and the policy file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/willbrigham/escrow-calculator/internal/domain"
)

// InputParser handles parsing of snapshot and policy files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadSnapshot loads a single loan snapshot from a YAML file.
func (ip *InputParser) LoadSnapshot(filename string) (*domain.LoanSnapshot, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var snapshot domain.LoanSnapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateSnapshot(&snapshot); err != nil {
		return nil, fmt.Errorf("snapshot validation failed: %w", err)
	}
	return &snapshot, nil
}

// batchFile is the on-disk shape of a multi-loan input.
type batchFile struct {
	Loans []domain.LoanSnapshot `yaml:"loans"`
}

// LoadSnapshots loads a batch file containing a `loans` list.
func (ip *InputParser) LoadSnapshots(filename string) ([]domain.LoanSnapshot, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var batch batchFile
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(batch.Loans) == 0 {
		return nil, fmt.Errorf("batch file %s contains no loans", filename)
	}

	for i := range batch.Loans {
		if err := ip.ValidateSnapshot(&batch.Loans[i]); err != nil {
			return nil, fmt.Errorf("loan %d (%s) validation failed: %w", i, batch.Loans[i].LoanID, err)
		}
	}
	return batch.Loans, nil
}

// LoadPolicy loads the policy configuration, falling back to defaults for
// unset collection terms.
func (ip *InputParser) LoadPolicy(filename string) (domain.PolicyConfig, error) {
	policy := domain.DefaultPolicy()

	data, err := os.ReadFile(filename)
	if err != nil {
		return policy, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return policy, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidatePolicy(&policy); err != nil {
		return policy, fmt.Errorf("policy validation failed: %w", err)
	}
	return policy, nil
}

// ValidateSnapshot checks the structural invariants a snapshot must satisfy
// before the engine sees it.
func (ip *InputParser) ValidateSnapshot(ls *domain.LoanSnapshot) error {
	if ls.LoanID == "" {
		return fmt.Errorf("loan_id is required")
	}
	if ls.AnalysisDate.IsZero() {
		return domain.NewError(domain.ErrInvalidWindow, "analysis_date",
			"analysis completion date is required")
	}
	if ls.CurrentDeposit.IsNegative() {
		return fmt.Errorf("current_deposit cannot be negative")
	}
	if ls.SpreadTermMonths < 0 {
		return fmt.Errorf("spread_term_months cannot be negative")
	}

	for i, ob := range ls.Obligations {
		if err := ip.validateObligation(i, &ob); err != nil {
			return err
		}
	}

	if ls.Interest != nil && ls.Interest.MonthlyAmount.IsNegative() {
		return fmt.Errorf("interest_on_escrow.monthly_amount cannot be negative")
	}
	if ls.Flags.PMICancelMonth < 0 || ls.Flags.PMICancelMonth > domain.ProjectionMonths {
		return fmt.Errorf("pmi_cancel_month must be between 0 and %d", domain.ProjectionMonths)
	}
	return nil
}

// validateObligation checks one recurring obligation descriptor.
func (ip *InputParser) validateObligation(index int, ob *domain.RecurringObligation) error {
	switch ob.Type {
	case domain.ObligationTax, domain.ObligationHazard, domain.ObligationFlood,
		domain.ObligationLPI, domain.ObligationPMI, domain.ObligationHOA:
	default:
		return fmt.Errorf("obligation %d: unknown type %q", index, ob.Type)
	}

	if ob.Amount.IsNegative() {
		return domain.NewError(domain.ErrNegativeDisbursement,
			fmt.Sprintf("obligations[%d].amount", index),
			fmt.Sprintf("amount %s is negative", ob.Amount.StringFixed(2)))
	}

	switch ob.Frequency {
	case domain.FrequencyMonthly, domain.FrequencyQuarterly,
		domain.FrequencySemiannual, domain.FrequencyAnnual:
		if len(ob.Installments) > 0 {
			return domain.NewError(domain.ErrInvalidFrequency,
				fmt.Sprintf("obligations[%d].installments", index),
				fmt.Sprintf("explicit installments are inconsistent with %q frequency", ob.Frequency))
		}
		if ob.Amount.IsPositive() && ob.NextDue.IsZero() {
			return fmt.Errorf("obligation %d (%s): next_due is required", index, ob.Type)
		}
	case domain.FrequencyInstallments:
		if len(ob.Installments) == 0 || len(ob.Installments) > 4 {
			return domain.NewError(domain.ErrInvalidFrequency,
				fmt.Sprintf("obligations[%d].installments", index),
				fmt.Sprintf("installment frequency requires 1-4 dated lines, got %d", len(ob.Installments)))
		}
	default:
		return domain.NewError(domain.ErrInvalidFrequency,
			fmt.Sprintf("obligations[%d].frequency", index),
			fmt.Sprintf("unknown frequency %q", ob.Frequency))
	}

	if ob.CancelMonth < 0 || ob.CancelMonth > domain.ProjectionMonths {
		return fmt.Errorf("obligation %d (%s): cancel_month must be between 0 and %d",
			index, ob.Type, domain.ProjectionMonths)
	}
	return nil
}

// ValidatePolicy checks the policy configuration.
func (ip *InputParser) ValidatePolicy(p *domain.PolicyConfig) error {
	if p.LegalCushionDivisor <= 0 {
		return fmt.Errorf("legal_cushion_divisor must be positive")
	}
	if p.CushionCap.IsNegative() {
		return fmt.Errorf("cushion_cap cannot be negative")
	}
	if p.RefundThreshold.IsNegative() {
		return fmt.Errorf("refund_threshold cannot be negative")
	}
	if p.DeficiencyTolerance.IsNegative() {
		return fmt.Errorf("deficiency_tolerance cannot be negative")
	}
	if p.DefaultSpreadTermMonths <= 0 {
		return fmt.Errorf("default_spread_term_months must be positive")
	}
	if p.AcceleratedSpreadTermMonths <= 0 {
		return fmt.Errorf("accelerated_spread_term_months must be positive")
	}
	if p.AcceleratedSpreadTermMonths >= p.DefaultSpreadTermMonths {
		return fmt.Errorf("accelerated_spread_term_months must be shorter than default_spread_term_months")
	}
	for key, ov := range p.InvestorOverrides {
		if ov.SpreadTermMonths < 0 {
			return fmt.Errorf("investor override %s: spread_term_months cannot be negative", key)
		}
	}
	return nil
}
