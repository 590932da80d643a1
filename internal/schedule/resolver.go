// Package schedule builds the dated 12-month disbursement schedule an
// analysis run projects against. It expands each recurring obligation's
// frequency into concrete due dates and merges the streams under the
// per-type inclusion rules.
package schedule

import (
	"fmt"
	"time"

	"github.com/willbrigham/escrow-calculator/internal/domain"
)

// maxInstallments bounds an explicit split-bill list; tax parcels split at
// most four ways.
const maxInstallments = 4

func firstOfMonth(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func addMonths(d time.Time, n int) time.Time {
	m := int(d.Month()) - 1 + n
	y := d.Year() + m/12
	m = m % 12
	if m < 0 {
		m += 12
		y--
	}
	return time.Date(y, time.Month(m+1), 1, 0, 0, 0, 0, time.UTC)
}

// monthIndex maps a date to its 1-based projection month relative to the
// window start. Values outside 1..12 fall outside the window.
func monthIndex(windowStart, d time.Time) int {
	return (d.Year()-windowStart.Year())*12 + int(d.Month()) - int(windowStart.Month()) + 1
}

// resolveObligation expands one obligation into its dated lines inside
// [windowStart, windowStart+12 months). Due dates normalize to the first of
// their month; cancellation truncates strictly before the cancel month.
func resolveObligation(ob domain.RecurringObligation, windowStart time.Time) ([]domain.ScheduledDisbursement, error) {
	if ob.Amount.IsNegative() {
		return nil, domain.NewError(domain.ErrNegativeDisbursement, string(ob.Type)+".amount",
			fmt.Sprintf("disbursement amount %s is negative", ob.Amount.StringFixed(2)))
	}

	if len(ob.Installments) > 0 && ob.Frequency != domain.FrequencyInstallments {
		return nil, domain.NewError(domain.ErrInvalidFrequency, string(ob.Type)+".frequency",
			fmt.Sprintf("explicit installment list is inconsistent with %q frequency", ob.Frequency))
	}

	var lines []domain.ScheduledDisbursement
	emit := func(due time.Time) {
		idx := monthIndex(windowStart, due)
		if idx < 1 || idx > domain.ProjectionMonths {
			return
		}
		if ob.CancelMonth > 0 && idx >= ob.CancelMonth {
			return
		}
		if ob.EndDate != nil && due.After(firstOfMonth(*ob.EndDate)) {
			return
		}
		lines = append(lines, domain.ScheduledDisbursement{
			Type:    ob.Type,
			DueDate: due,
			Amount:  ob.Amount,
			Month:   idx,
		})
	}

	switch ob.Frequency {
	case domain.FrequencyInstallments:
		if len(ob.Installments) == 0 || len(ob.Installments) > maxInstallments {
			return nil, domain.NewError(domain.ErrInvalidFrequency, string(ob.Type)+".installments",
				fmt.Sprintf("installment frequency requires 1-%d dated lines, got %d", maxInstallments, len(ob.Installments)))
		}
		for i, inst := range ob.Installments {
			if inst.Amount.IsNegative() {
				return nil, domain.NewError(domain.ErrNegativeDisbursement,
					fmt.Sprintf("%s.installments[%d].amount", ob.Type, i),
					fmt.Sprintf("installment amount %s is negative", inst.Amount.StringFixed(2)))
			}
			if !inst.Amount.IsPositive() {
				continue
			}
			due := firstOfMonth(inst.DueDate)
			idx := monthIndex(windowStart, due)
			if idx < 1 || idx > domain.ProjectionMonths {
				continue
			}
			if ob.CancelMonth > 0 && idx >= ob.CancelMonth {
				continue
			}
			lines = append(lines, domain.ScheduledDisbursement{
				Type:    ob.Type,
				DueDate: due,
				Amount:  inst.Amount,
				Month:   idx,
			})
		}
		return lines, nil

	case domain.FrequencyMonthly:
		if !ob.Amount.IsPositive() {
			return nil, nil
		}
		// Monthly lines post on the first of each window month, starting
		// from the next due month or the window start, whichever is later.
		base := firstOfMonth(ob.NextDue)
		for i := 0; i < domain.ProjectionMonths; i++ {
			due := addMonths(windowStart, i)
			if due.Before(base) {
				continue
			}
			emit(due)
		}
		return lines, nil

	case domain.FrequencyQuarterly, domain.FrequencySemiannual, domain.FrequencyAnnual:
		if !ob.Amount.IsPositive() {
			return nil, nil
		}
		if ob.NextDue.IsZero() {
			return nil, domain.NewError(domain.ErrInvalidWindow, string(ob.Type)+".next_due",
				"next due date is required for a periodic obligation")
		}
		interval := ob.Frequency.MonthInterval()
		for due := firstOfMonth(ob.NextDue); monthIndex(windowStart, due) <= domain.ProjectionMonths; due = addMonths(due, interval) {
			emit(due)
		}
		return lines, nil

	default:
		return nil, domain.NewError(domain.ErrInvalidFrequency, string(ob.Type)+".frequency",
			fmt.Sprintf("unknown frequency %q", ob.Frequency))
	}
}
