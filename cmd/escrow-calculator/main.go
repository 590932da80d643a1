package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/willbrigham/escrow-calculator/internal/analysis"
	"github.com/willbrigham/escrow-calculator/internal/batch"
	"github.com/willbrigham/escrow-calculator/internal/config"
	"github.com/willbrigham/escrow-calculator/internal/domain"
	"github.com/willbrigham/escrow-calculator/internal/output"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// loadPolicy loads the policy file when one is given, otherwise the
// baseline defaults.
func loadPolicy(parser *config.InputParser, policyFile string) (domain.PolicyConfig, error) {
	if policyFile == "" {
		return domain.DefaultPolicy(), nil
	}
	return parser.LoadPolicy(policyFile)
}

var rootCmd = &cobra.Command{
	Use:   "escrow-calculator",
	Short: "Annual mortgage escrow analysis",
	Long:  "Computes required escrow deposits, shortage/surplus classification, and refund/collection disposition for mortgage loans",
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [loan-file]",
	Short: "Run an annual escrow analysis for a single loan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parser := config.NewInputParser()

		policyFile, _ := cmd.Flags().GetString("policy")
		policy, err := loadPolicy(parser, policyFile)
		if err != nil {
			return err
		}

		snapshot, err := parser.LoadSnapshot(args[0])
		if err != nil {
			return err
		}

		outcome, err := analysis.NewEngine(policy).Run(snapshot)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		formatter, err := output.ForFormat(format)
		if err != nil {
			return err
		}
		return formatter.Format(os.Stdout, outcome)
	},
}

var batchCmd = &cobra.Command{
	Use:   "batch [loans-file]",
	Short: "Analyze every loan in a batch file in parallel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parser := config.NewInputParser()

		policyFile, _ := cmd.Flags().GetString("policy")
		policy, err := loadPolicy(parser, policyFile)
		if err != nil {
			return err
		}

		loans, err := parser.LoadSnapshots(args[0])
		if err != nil {
			return err
		}

		logger := newLogger()
		runner := batch.NewRunner(analysis.NewEngine(policy), logger)
		results := runner.Run(cmd.Context(), loans)

		format, _ := cmd.Flags().GetString("format")
		formatter, err := output.ForFormat(format)
		if err != nil {
			return err
		}
		if csvFormatter, ok := formatter.(output.CSVFormatter); ok {
			if err := csvFormatter.WriteHeader(os.Stdout); err != nil {
				return err
			}
		}

		failed := 0
		for _, res := range results {
			if res.Err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "loan %s: %v\n", res.LoanID, res.Err)
				continue
			}
			if err := formatter.Format(os.Stdout, res.Outcome); err != nil {
				return err
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d loans failed analysis", failed, len(results))
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [loan-file]",
	Short: "Validate a loan snapshot file without running the analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parser := config.NewInputParser()
		snapshot, err := parser.LoadSnapshot(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Loan %s is valid: %d obligations, analysis window starts %s\n",
			snapshot.LoanID, len(snapshot.Obligations), snapshot.WindowStart().Format("2006-01-02"))
		return nil
	},
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "escrow-calculator %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintln(os.Stdout, bi.Main.Path)
			}
		},
	}
}

func init() {
	analyzeCmd.Flags().String("policy", "", "Policy configuration file (YAML)")
	analyzeCmd.Flags().String("format", "console", "Output format: console, json, csv")
	batchCmd.Flags().String("policy", "", "Policy configuration file (YAML)")
	batchCmd.Flags().String("format", "csv", "Output format: console, json, csv")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
