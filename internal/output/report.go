// Package output renders analysis outcomes for the orchestration boundary:
// console text, JSON for downstream collaborators, and CSV for batch
// review.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/willbrigham/escrow-calculator/internal/domain"
)

// Formatter renders one analysis outcome.
type Formatter interface {
	Name() string
	Format(w io.Writer, outcome *domain.AnalysisOutcome) error
}

// ForFormat returns the formatter registered under the given name.
func ForFormat(format string) (Formatter, error) {
	switch format {
	case "console", "":
		return ConsoleFormatter{}, nil
	case "json":
		return JSONFormatter{}, nil
	case "csv":
		return CSVFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// FormatCurrency formats a decimal as a dollar amount.
func FormatCurrency(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// ConsoleFormatter writes a human-readable analysis report.
type ConsoleFormatter struct{}

func (ConsoleFormatter) Name() string { return "console" }

func (ConsoleFormatter) Format(w io.Writer, outcome *domain.AnalysisOutcome) error {
	fmt.Fprintln(w, "================================================================")
	fmt.Fprintf(w, "ANNUAL ESCROW ANALYSIS  loan %s\n", outcome.LoanID)
	fmt.Fprintln(w, "================================================================")
	fmt.Fprintf(w, "Analysis date:        %s\n", outcome.AnalysisDate.Format("2006-01-02"))
	fmt.Fprintf(w, "Annual disbursements: %s\n", FormatCurrency(outcome.AnnualDisbursements))
	fmt.Fprintf(w, "Allowed cushion:      %s\n", FormatCurrency(outcome.AllowedCushion))
	fmt.Fprintf(w, "Required deposit:     %s/month\n", FormatCurrency(outcome.RequiredDeposit))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Classification:       %s (%s)\n", outcome.Classification, FormatCurrency(outcome.Magnitude))
	fmt.Fprintf(w, "Disposition:          %s (rule %s)\n", outcome.Disposition, outcome.MatchedRule)
	if outcome.SpreadTermMonths > 0 && outcome.MonthlyAdjustment.IsPositive() {
		fmt.Fprintf(w, "Collection:           %s/month over %d months\n",
			FormatCurrency(outcome.MonthlyAdjustment), outcome.SpreadTermMonths)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "MONTH  START       DEPOSIT    CREDIT    DISBURSED   END")
	for _, row := range outcome.Projection.Rows {
		fmt.Fprintf(w, "%5d  %-10s %-10s %-9s %-11s %s\n",
			row.Month,
			row.StartingBalance.StringFixed(2),
			row.Deposit.StringFixed(2),
			row.InterestCredit.StringFixed(2),
			row.Disbursed.StringFixed(2),
			row.EndingBalance.StringFixed(2))
	}
	fmt.Fprintf(w, "Minimum projected balance: %s\n", FormatCurrency(outcome.Projection.MinEndingBalance))
	return nil
}

// JSONFormatter writes the full outcome record as indented JSON.
type JSONFormatter struct{}

func (JSONFormatter) Name() string { return "json" }

func (JSONFormatter) Format(w io.Writer, outcome *domain.AnalysisOutcome) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(outcome)
}

// CSVFormatter writes one summary row per outcome; WriteHeader emits the
// column header once per batch.
type CSVFormatter struct{}

func (CSVFormatter) Name() string { return "csv" }

var csvHeader = []string{
	"LoanID", "AnalysisDate", "RequiredDeposit", "AnnualDisbursements",
	"AllowedCushion", "Classification", "Magnitude", "Disposition",
	"SpreadTermMonths", "MonthlyAdjustment",
}

// WriteHeader writes the CSV column header.
func (CSVFormatter) WriteHeader(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func (CSVFormatter) Format(w io.Writer, outcome *domain.AnalysisOutcome) error {
	buf := &bytes.Buffer{}
	cw := csv.NewWriter(buf)
	row := []string{
		outcome.LoanID,
		outcome.AnalysisDate.Format("2006-01-02"),
		outcome.RequiredDeposit.StringFixed(2),
		outcome.AnnualDisbursements.StringFixed(2),
		outcome.AllowedCushion.StringFixed(2),
		string(outcome.Classification),
		outcome.Magnitude.StringFixed(2),
		string(outcome.Disposition),
		fmt.Sprintf("%d", outcome.SpreadTermMonths),
		outcome.MonthlyAdjustment.StringFixed(2),
	}
	if err := cw.Write(row); err != nil {
		return err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
