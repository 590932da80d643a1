// Package batch runs analyses for many loans in parallel. Runs for
// distinct loans share only the immutable policy, so the pool needs no
// locking beyond result collection.
package batch

import (
	"context"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/willbrigham/escrow-calculator/internal/analysis"
	"github.com/willbrigham/escrow-calculator/internal/domain"
)

// Result pairs one loan's outcome with its error; exactly one of the two is
// set.
type Result struct {
	LoanID  string
	Outcome *domain.AnalysisOutcome
	Err     error
}

// Runner fans loan snapshots out over a worker pool backed by one shared
// analysis engine.
type Runner struct {
	Engine  *analysis.Engine
	Workers int
	Log     *logrus.Logger
}

// NewRunner creates a batch runner sized to the machine.
func NewRunner(engine *analysis.Engine, log *logrus.Logger) *Runner {
	if log == nil {
		log = logrus.New()
	}
	return &Runner{
		Engine:  engine,
		Workers: runtime.NumCPU(),
		Log:     log,
	}
}

// Run analyzes every snapshot and returns results in input order. Workers
// stop picking up new loans once the context is cancelled; loans already in
// flight finish.
func (r *Runner) Run(ctx context.Context, loans []domain.LoanSnapshot) []Result {
	workers := r.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(loans) {
		workers = len(loans)
	}

	results := make([]Result, len(loans))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				snapshot := loans[i]
				outcome, err := r.Engine.Run(&snapshot)
				results[i] = Result{LoanID: snapshot.LoanID, Outcome: outcome, Err: err}
				if err != nil {
					r.Log.WithFields(logrus.Fields{
						"loan_id": snapshot.LoanID,
					}).WithError(err).Warn("analysis failed")
					continue
				}
				r.Log.WithFields(logrus.Fields{
					"loan_id":          snapshot.LoanID,
					"run_id":           outcome.RunID,
					"classification":   outcome.Classification,
					"disposition":      outcome.Disposition,
					"required_deposit": outcome.RequiredDeposit.StringFixed(2),
				}).Info("analysis complete")
			}
		}()
	}

	for i := range loans {
		if err := ctx.Err(); err != nil {
			results[i] = Result{LoanID: loans[i].LoanID, Err: err}
			continue
		}
		select {
		case <-ctx.Done():
			results[i] = Result{LoanID: loans[i].LoanID, Err: ctx.Err()}
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	return results
}
