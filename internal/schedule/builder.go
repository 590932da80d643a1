package schedule

import (
	"sort"

	"github.com/willbrigham/escrow-calculator/internal/domain"
)

// Build merges every active obligation stream of a loan snapshot into one
// ordered disbursement schedule for the 12-month projection window. It is a
// pure function of the snapshot: ascending due date, ties broken by the
// fixed type precedence so ledger construction is deterministic.
func Build(ls *domain.LoanSnapshot) (domain.DisbursementSchedule, error) {
	if ls.AnalysisDate.IsZero() {
		return nil, domain.NewError(domain.ErrInvalidWindow, "analysis_date",
			"analysis completion date is required")
	}
	windowStart := ls.WindowStart()

	var out domain.DisbursementSchedule
	for _, ob := range ls.Obligations {
		if !included(ob, ls.Flags) {
			continue
		}
		ob = applyCancellations(ob, ls.Flags)
		lines, err := resolveObligation(ob, windowStart)
		if err != nil {
			return nil, err
		}
		out = append(out, lines...)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].DueDate.Before(out[j].DueDate)
		}
		return out[i].Type.Precedence() < out[j].Type.Precedence()
	})
	return out, nil
}

// included applies the per-type inclusion rules. Tax, hazard and HOA lines
// ride on their own amounts; insurance lines additionally depend on the
// placement flags.
func included(ob domain.RecurringObligation, flags domain.StatusFlags) bool {
	switch ob.Type {
	case domain.ObligationTax, domain.ObligationHazard, domain.ObligationHOA:
		return true
	case domain.ObligationFlood:
		if flags.SFHA {
			return !flags.LPICancelled
		}
		// Force-placed flood coverage outside a flood zone stays on the
		// schedule until its cancellation event.
		return flags.ForcePlaced && !flags.LPICancelled
	case domain.ObligationLPI:
		return !flags.LPICancelled
	case domain.ObligationPMI:
		return flags.PMIActive
	default:
		return false
	}
}

// applyCancellations folds flag-driven cancellation months into the
// obligation before resolution. PMI's expected cancellation month is
// supplied by the servicing system; the earlier of it and any explicit
// obligation cancel month wins.
func applyCancellations(ob domain.RecurringObligation, flags domain.StatusFlags) domain.RecurringObligation {
	if ob.Type == domain.ObligationPMI && flags.PMICancelMonth > 0 {
		if ob.CancelMonth == 0 || flags.PMICancelMonth < ob.CancelMonth {
			ob.CancelMonth = flags.PMICancelMonth
		}
	}
	return ob
}
