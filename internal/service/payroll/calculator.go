package payroll

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tempohr/tempo-backend-go/internal/domain/attendance"
	"github.com/tempohr/tempo-backend-go/internal/domain/holiday"
	"github.com/tempohr/tempo-backend-go/internal/domain/leave"
	"github.com/tempohr/tempo-backend-go/internal/domain/payroll"
	"github.com/tempohr/tempo-backend-go/internal/domain/period"
)

var sixty = decimal.NewFromInt(60)

// Calculator converts a date range of ledger events, leave, and
// holidays into hour buckets and monetary figures. It is pure:
// identical inputs always produce an identical PayrollLine, which is
// what makes recomputation and reconciliation safe.
type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// Calculate builds the payroll line for one employee over
// [periodStart, periodEnd]. Missing attendance or leave data yields
// zeroed buckets rather than an error; only unusable rate data fails.
func (c *Calculator) Calculate(
	emp payroll.EmployeeInput,
	events []attendance.Event,
	leaves []leave.Record,
	holidays []holiday.Holiday,
	periodStart, periodEnd time.Time,
	settings payroll.RateSettings,
) (payroll.PayrollLine, error) {
	if err := settings.Validate(); err != nil {
		return payroll.PayrollLine{}, err
	}
	if !emp.HourlyRate.IsPositive() {
		return payroll.PayrollLine{}, payroll.ErrEmployeeHasNoRate
	}
	if periodEnd.Before(periodStart) {
		return payroll.PayrollLine{}, payroll.ErrInvalidPeriod
	}

	holidaySet := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		holidaySet[h.Date.Format("2006-01-02")] = true
	}

	var (
		regularMinutes         int64
		overtimeMinutes        int64
		holidayMinutes         int64
		holidayOvertimeMinutes int64
		lateMinutes            int
	)

	for _, pair := range pairEvents(events, periodStart, periodEnd) {
		worked := int64(pair.out.At.Sub(pair.in.At).Minutes())
		if worked <= 0 {
			continue
		}
		onHoliday := holidaySet[pair.in.WorkDate.Format("2006-01-02")]

		if pair.in.PeriodType == period.PeriodTypeOvertime || pair.in.IsOvertime {
			if onHoliday {
				holidayOvertimeMinutes += worked
			} else {
				overtimeMinutes += worked
			}
		} else {
			// Regular pay never exceeds the scheduled shift length.
			scheduled := int64(pair.in.PeriodEndsAt.Sub(pair.in.PeriodStartsAt).Minutes())
			if scheduled > 0 && worked > scheduled {
				worked = scheduled
			}
			if onHoliday {
				holidayMinutes += worked
			} else {
				regularMinutes += worked
			}
		}

		if pair.in.IsLate {
			lateMinutes += pair.in.LateMinutes
		}
	}

	leaveHours := bucketLeaves(leaves, periodStart, periodEnd, settings.DailyWorkHours)

	regularHours := decimal.NewFromInt(regularMinutes).Div(sixty)
	overtimeHours := decimal.NewFromInt(overtimeMinutes).Div(sixty)
	holidayHours := decimal.NewFromInt(holidayMinutes).Div(sixty)
	holidayOvertimeHours := decimal.NewFromInt(holidayOvertimeMinutes).Div(sixty)

	baseAmount := regularHours.Mul(emp.HourlyRate)
	overtimeAmount := overtimeHours.Mul(emp.HourlyRate).Mul(settings.OvertimeMultiplier).
		Add(holidayOvertimeHours.Mul(emp.HourlyRate).Mul(settings.HolidayMultiplier))
	holidayAmount := holidayHours.Mul(emp.HourlyRate).Mul(settings.HolidayMultiplier)

	grossEarnings := baseAmount.Add(overtimeAmount).Add(holidayAmount)

	ssBase := grossEarnings
	if ssBase.GreaterThan(settings.SocialSecurityCeiling) {
		ssBase = settings.SocialSecurityCeiling
	}
	socialSecurity := ssBase.Mul(settings.SocialSecurityRate)

	incomeTax := progressiveTax(grossEarnings, settings.TaxBrackets)

	dailyWage := emp.DailyWage
	if !dailyWage.IsPositive() {
		dailyWage = emp.HourlyRate.Mul(settings.DailyWorkHours)
	}

	lateDeduction := decimal.Zero
	if lateMinutes > settings.LateDeductionThresholdMinutes {
		totalDailyMinutes := settings.DailyWorkHours.Mul(sixty)
		lateDeduction = decimal.NewFromInt(int64(lateMinutes)).Mul(dailyWage.Div(totalDailyMinutes))
	}

	unpaidDeduction := leaveHours.Unpaid.Div(settings.DailyWorkHours).Mul(dailyWage)

	totalDeductions := socialSecurity.
		Add(incomeTax).
		Add(lateDeduction).
		Add(unpaidDeduction).
		Add(emp.OtherDeductions)

	netPay := grossEarnings.Add(emp.Allowances).Sub(totalDeductions)

	return payroll.PayrollLine{
		EmployeeID:  emp.ID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,

		RegularHours:         regularHours.Round(2),
		OvertimeHours:        overtimeHours.Round(2),
		HolidayHours:         holidayHours.Round(2),
		HolidayOvertimeHours: holidayOvertimeHours.Round(2),
		Leave:                leaveHours,
		LateMinutes:          lateMinutes,

		BaseAmount:     baseAmount.Round(2),
		OvertimeAmount: overtimeAmount.Round(2),
		HolidayAmount:  holidayAmount.Round(2),
		Allowances:     emp.Allowances.Round(2),
		GrossEarnings:  grossEarnings.Round(2),

		SocialSecurity:       socialSecurity.Round(2),
		IncomeTax:            incomeTax.Round(2),
		LateDeduction:        lateDeduction.Round(2),
		UnpaidLeaveDeduction: unpaidDeduction.Round(2),
		OtherDeductions:      emp.OtherDeductions.Round(2),
		TotalDeductions:      totalDeductions.Round(2),

		NetPay: netPay.Round(2),
	}, nil
}

type eventPair struct {
	in  attendance.Event
	out attendance.Event
}

// pairEvents matches check-ins to check-outs per (work date, period
// sequence), honoring corrections: an event superseded by a
// correction drops out and the correction takes its place.
func pairEvents(events []attendance.Event, from, to time.Time) []eventPair {
	superseded := make(map[string]bool)
	for _, e := range events {
		if e.CorrectsEventID != nil {
			superseded[*e.CorrectsEventID] = true
		}
	}

	type slotKey struct {
		date string
		seq  int
	}
	slots := make(map[slotKey]*eventPair)
	var order []slotKey

	for _, e := range events {
		if superseded[e.ID] {
			continue
		}
		if e.WorkDate.Before(from) || e.WorkDate.After(to) {
			continue
		}
		key := slotKey{date: e.WorkDate.Format("2006-01-02"), seq: e.PeriodSequence}
		slot, ok := slots[key]
		if !ok {
			slot = &eventPair{}
			slots[key] = slot
			order = append(order, key)
		}
		switch e.Kind {
		case attendance.EventKindCheckIn:
			if slot.in.ID == "" || e.At.Before(slot.in.At) {
				slot.in = e
			}
		case attendance.EventKindCheckOut:
			if slot.out.ID == "" || e.At.After(slot.out.At) {
				slot.out = e
			}
		}
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].date != order[j].date {
			return order[i].date < order[j].date
		}
		return order[i].seq < order[j].seq
	})

	pairs := make([]eventPair, 0, len(order))
	for _, key := range order {
		slot := slots[key]
		if slot.in.ID == "" || slot.out.ID == "" {
			continue
		}
		pairs = append(pairs, *slot)
	}
	return pairs
}

// bucketLeaves converts the overlap of each approved record with the
// payroll range into hour-equivalents per leave type.
func bucketLeaves(leaves []leave.Record, from, to time.Time, dailyHours decimal.Decimal) payroll.LeaveHours {
	buckets := payroll.LeaveHours{
		Sick:     decimal.Zero,
		Annual:   decimal.Zero,
		Business: decimal.Zero,
		Unpaid:   decimal.Zero,
	}

	for _, rec := range leaves {
		days := overlapDays(rec.StartDate, rec.EndDate, from, to)
		if days <= 0 {
			continue
		}
		hours := decimal.NewFromInt(int64(days)).Mul(dailyHours)
		switch rec.Type {
		case leave.TypeSick:
			buckets.Sick = buckets.Sick.Add(hours)
		case leave.TypeAnnual:
			buckets.Annual = buckets.Annual.Add(hours)
		case leave.TypeBusiness:
			buckets.Business = buckets.Business.Add(hours)
		case leave.TypeUnpaid:
			buckets.Unpaid = buckets.Unpaid.Add(hours)
		}
	}
	return buckets
}

func overlapDays(start, end, from, to time.Time) int {
	if start.Before(from) {
		start = from
	}
	if end.After(to) {
		end = to
	}
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// progressiveTax walks the bracket table in ascending order. A
// bracket with no upper bound consumes the remainder and terminates.
func progressiveTax(income decimal.Decimal, brackets []payroll.TaxBracket) decimal.Decimal {
	tax := decimal.Zero
	if !income.IsPositive() {
		return tax
	}

	remaining := income
	lower := decimal.Zero
	for _, b := range brackets {
		if !remaining.IsPositive() {
			break
		}
		if b.UpTo == nil {
			tax = tax.Add(remaining.Mul(b.Rate))
			break
		}
		width := b.UpTo.Sub(lower)
		taxable := remaining
		if taxable.GreaterThan(width) {
			taxable = width
		}
		tax = tax.Add(taxable.Mul(b.Rate))
		remaining = remaining.Sub(taxable)
		lower = *b.UpTo
	}
	return tax
}
