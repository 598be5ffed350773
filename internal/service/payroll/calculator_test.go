package payroll

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tempohr/tempo-backend-go/internal/domain/attendance"
	"github.com/tempohr/tempo-backend-go/internal/domain/holiday"
	"github.com/tempohr/tempo-backend-go/internal/domain/leave"
	"github.com/tempohr/tempo-backend-go/internal/domain/payroll"
	"github.com/tempohr/tempo-backend-go/internal/domain/period"
	"github.com/tempohr/tempo-backend-go/internal/domain/shift"
)

var (
	periodStart = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	periodEnd   = time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
)

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

func testSettings() payroll.RateSettings {
	return payroll.RateSettings{
		OvertimeMultiplier: dec("1.5"),
		HolidayMultiplier:  dec("2.0"),
		TaxBrackets: []payroll.TaxBracket{
			{UpTo: decPtr("150000"), Rate: dec("0")},
			{UpTo: decPtr("300000"), Rate: dec("0.05")},
			{UpTo: decPtr("500000"), Rate: dec("0.10")},
			{Rate: dec("0.20")},
		},
		SocialSecurityRate:            dec("0.05"),
		SocialSecurityCeiling:         dec("1000000"),
		DailyWorkHours:                dec("8"),
		LateDeductionThresholdMinutes: 30,
	}
}

func testEmployee() payroll.EmployeeInput {
	return payroll.EmployeeInput{
		ID:         "emp-1",
		HourlyRate: dec("100"),
	}
}

// dayEvents builds a matched check-in/check-out pair attributed to a
// period on the given date.
func dayEvents(id string, date time.Time, ptype period.PeriodType, inHour, outHour int, opts ...func(*attendance.Event)) []attendance.Event {
	in := attendance.Event{
		ID:             id + "-in",
		EmployeeID:     "emp-1",
		Kind:           attendance.EventKindCheckIn,
		At:             date.Add(time.Duration(inHour) * time.Hour),
		WorkDate:       date,
		PeriodType:     ptype,
		PeriodStartsAt: date.Add(time.Duration(inHour) * time.Hour),
		PeriodEndsAt:   date.Add(time.Duration(outHour) * time.Hour),
		PeriodSequence: 1,
		IsOvertime:     ptype == period.PeriodTypeOvertime,
	}
	for _, opt := range opts {
		opt(&in)
	}
	out := attendance.Event{
		ID:             id + "-out",
		EmployeeID:     "emp-1",
		Kind:           attendance.EventKindCheckOut,
		At:             date.Add(time.Duration(outHour) * time.Hour),
		WorkDate:       date,
		PeriodType:     in.PeriodType,
		PeriodStartsAt: in.PeriodStartsAt,
		PeriodEndsAt:   in.PeriodEndsAt,
		PeriodSequence: 1,
		IsOvertime:     in.IsOvertime,
	}
	return []attendance.Event{in, out}
}

func TestCalculate_ProgressiveTax(t *testing.T) {
	// 4000 regular hours at rate 100 lands gross 400000:
	// 150000 at 0% + 150000 at 5% + 100000 at 10% = 17500.
	c := NewCalculator()
	settings := testSettings()
	settings.SocialSecurityRate = decimal.Zero

	var events []attendance.Event
	date := periodStart
	// 500 days of 8h would leave the range; fabricate long pairs
	// instead: 20 days of 200h periods keeps pairEvents honest.
	for i := 0; i < 20; i++ {
		events = append(events, dayEvents(
			string(rune('a'+i)), date.AddDate(0, 0, i), period.PeriodTypeRegular, 0, 200,
		)...)
	}

	line, err := c.Calculate(testEmployee(), events, nil, nil, periodStart, periodEnd, settings)

	require.NoError(t, err)
	assert.True(t, line.GrossEarnings.Equal(dec("400000")), "gross = %s", line.GrossEarnings)
	assert.True(t, line.IncomeTax.Equal(dec("17500")), "tax = %s", line.IncomeTax)
}

func TestCalculate_UnboundedTopBracket(t *testing.T) {
	tax := progressiveTax(dec("600000"), testSettings().TaxBrackets)

	// 0 + 7500 + 20000 + 100000*0.20 = 47500.
	assert.True(t, tax.Equal(dec("47500")), "tax = %s", tax)
}

func TestCalculate_OvertimeAndHolidayMultipliers(t *testing.T) {
	c := NewCalculator()
	settings := testSettings()
	settings.SocialSecurityRate = decimal.Zero

	day1 := periodStart
	day2 := periodStart.AddDate(0, 0, 1)
	var events []attendance.Event
	// 2h weekday overtime at 1.5x plus 1h holiday overtime at 2.0x.
	events = append(events, dayEvents("a", day1, period.PeriodTypeOvertime, 17, 19)...)
	events = append(events, dayEvents("b", day2, period.PeriodTypeOvertime, 17, 18)...)
	holidays := []holiday.Holiday{{ID: "h-1", Date: day2, Name: "National Day"}}

	line, err := c.Calculate(testEmployee(), events, nil, holidays, periodStart, periodEnd, settings)

	require.NoError(t, err)
	assert.True(t, line.OvertimeHours.Equal(dec("2")), "ot hours = %s", line.OvertimeHours)
	assert.True(t, line.HolidayOvertimeHours.Equal(dec("1")), "holiday ot hours = %s", line.HolidayOvertimeHours)
	// 2*100*1.5 + 1*100*2.0 = 500.
	assert.True(t, line.OvertimeAmount.Equal(dec("500")), "ot amount = %s", line.OvertimeAmount)
}

func TestCalculate_HolidayRegularHours(t *testing.T) {
	c := NewCalculator()
	settings := testSettings()
	settings.SocialSecurityRate = decimal.Zero

	events := dayEvents("a", periodStart, period.PeriodTypeRegular, 8, 16)
	holidays := []holiday.Holiday{{ID: "h-1", Date: periodStart, Name: "National Day"}}

	line, err := c.Calculate(testEmployee(), events, nil, holidays, periodStart, periodEnd, settings)

	require.NoError(t, err)
	assert.True(t, line.RegularHours.IsZero())
	assert.True(t, line.HolidayHours.Equal(dec("8")))
	assert.True(t, line.HolidayAmount.Equal(dec("1600")), "holiday amount = %s", line.HolidayAmount)
}

func TestCalculate_RegularCappedAtScheduled(t *testing.T) {
	c := NewCalculator()
	settings := testSettings()
	settings.SocialSecurityRate = decimal.Zero

	// Checked out an hour past the scheduled end without overtime.
	events := dayEvents("a", periodStart, period.PeriodTypeRegular, 8, 16)
	events[1].At = periodStart.Add(17 * time.Hour)

	line, err := c.Calculate(testEmployee(), events, nil, nil, periodStart, periodEnd, settings)

	require.NoError(t, err)
	assert.True(t, line.RegularHours.Equal(dec("8")), "regular hours = %s", line.RegularHours)
	assert.True(t, line.OvertimeHours.IsZero())
}

func TestCalculate_LateDeduction(t *testing.T) {
	c := NewCalculator()
	settings := testSettings()
	settings.SocialSecurityRate = decimal.Zero
	flagLate := func(minutes int) func(*attendance.Event) {
		return func(e *attendance.Event) {
			e.IsLate = true
			e.LateMinutes = minutes
		}
	}

	t.Run("below threshold", func(t *testing.T) {
		events := dayEvents("a", periodStart, period.PeriodTypeRegular, 8, 16, flagLate(20))

		line, err := c.Calculate(testEmployee(), events, nil, nil, periodStart, periodEnd, settings)

		require.NoError(t, err)
		assert.Equal(t, 20, line.LateMinutes)
		assert.True(t, line.LateDeduction.IsZero())
	})

	t.Run("above threshold", func(t *testing.T) {
		events := dayEvents("a", periodStart, period.PeriodTypeRegular, 8, 16, flagLate(48))

		line, err := c.Calculate(testEmployee(), events, nil, nil, periodStart, periodEnd, settings)

		require.NoError(t, err)
		// 48 minutes at dailyWage 800 over 480 minutes = 80.
		assert.True(t, line.LateDeduction.Equal(dec("80")), "late deduction = %s", line.LateDeduction)
	})
}

func TestCalculate_UnpaidLeaveDeduction(t *testing.T) {
	c := NewCalculator()
	settings := testSettings()
	settings.SocialSecurityRate = decimal.Zero

	leaves := []leave.Record{
		{
			EmployeeID: "emp-1",
			Type:       leave.TypeUnpaid,
			StartDate:  periodStart.AddDate(0, 0, 3),
			EndDate:    periodStart.AddDate(0, 0, 4),
			Status:     shift.ApprovalStatusApproved,
		},
		{
			EmployeeID: "emp-1",
			Type:       leave.TypeSick,
			StartDate:  periodStart.AddDate(0, 0, 10),
			EndDate:    periodStart.AddDate(0, 0, 10),
			Status:     shift.ApprovalStatusApproved,
		},
	}

	line, err := c.Calculate(testEmployee(), nil, leaves, nil, periodStart, periodEnd, settings)

	require.NoError(t, err)
	assert.True(t, line.Leave.Unpaid.Equal(dec("16")))
	assert.True(t, line.Leave.Sick.Equal(dec("8")))
	// 16h unpaid over 8h days at derived daily wage 800 = 1600.
	assert.True(t, line.UnpaidLeaveDeduction.Equal(dec("1600")), "unpaid deduction = %s", line.UnpaidLeaveDeduction)
}

func TestCalculate_SocialSecurityCeiling(t *testing.T) {
	c := NewCalculator()
	settings := testSettings()
	settings.SocialSecurityCeiling = dec("500")

	events := dayEvents("a", periodStart, period.PeriodTypeRegular, 8, 16)

	line, err := c.Calculate(testEmployee(), events, nil, nil, periodStart, periodEnd, settings)

	require.NoError(t, err)
	// Gross 800 capped to 500, at 5% = 25.
	assert.True(t, line.SocialSecurity.Equal(dec("25")), "social security = %s", line.SocialSecurity)
}

func TestCalculate_CorrectionsSupersedeOriginals(t *testing.T) {
	c := NewCalculator()
	settings := testSettings()
	settings.SocialSecurityRate = decimal.Zero

	events := dayEvents("a", periodStart, period.PeriodTypeRegular, 9, 16)
	originalID := events[0].ID
	corrected := events[0]
	corrected.ID = "a-in-corrected"
	corrected.At = periodStart.Add(8 * time.Hour)
	corrected.PeriodStartsAt = periodStart.Add(8 * time.Hour)
	corrected.CorrectsEventID = &originalID
	events[1].PeriodStartsAt = corrected.PeriodStartsAt
	events = append(events, corrected)

	line, err := c.Calculate(testEmployee(), events, nil, nil, periodStart, periodEnd, settings)

	require.NoError(t, err)
	assert.True(t, line.RegularHours.Equal(dec("8")), "regular hours = %s", line.RegularHours)
}

func TestCalculate_UnmatchedEventsYieldZeroBuckets(t *testing.T) {
	c := NewCalculator()

	// Check-in with no check-out contributes nothing.
	events := dayEvents("a", periodStart, period.PeriodTypeRegular, 8, 16)[:1]

	line, err := c.Calculate(testEmployee(), events, nil, nil, periodStart, periodEnd, testSettings())

	require.NoError(t, err)
	assert.True(t, line.RegularHours.IsZero())
	assert.True(t, line.GrossEarnings.IsZero())
	assert.True(t, line.NetPay.IsZero())
}

func TestCalculate_Deterministic(t *testing.T) {
	c := NewCalculator()
	settings := testSettings()

	var events []attendance.Event
	for i := 0; i < 5; i++ {
		events = append(events, dayEvents(
			string(rune('a'+i)), periodStart.AddDate(0, 0, i), period.PeriodTypeRegular, 8, 16,
		)...)
	}
	events = append(events, dayEvents("f", periodStart.AddDate(0, 0, 5), period.PeriodTypeOvertime, 17, 19)...)

	first, err := c.Calculate(testEmployee(), events, nil, nil, periodStart, periodEnd, settings)
	require.NoError(t, err)
	second, err := c.Calculate(testEmployee(), events, nil, nil, periodStart, periodEnd, settings)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCalculate_InvalidInputs(t *testing.T) {
	c := NewCalculator()

	t.Run("rate settings", func(t *testing.T) {
		settings := testSettings()
		settings.DailyWorkHours = decimal.Zero

		_, err := c.Calculate(testEmployee(), nil, nil, nil, periodStart, periodEnd, settings)

		assert.ErrorIs(t, err, payroll.ErrInvalidRateSettings)
	})

	t.Run("descending brackets", func(t *testing.T) {
		settings := testSettings()
		settings.TaxBrackets = []payroll.TaxBracket{
			{UpTo: decPtr("300000"), Rate: dec("0.05")},
			{UpTo: decPtr("150000"), Rate: dec("0")},
		}

		_, err := c.Calculate(testEmployee(), nil, nil, nil, periodStart, periodEnd, settings)

		assert.ErrorIs(t, err, payroll.ErrInvalidRateSettings)
	})

	t.Run("no hourly rate", func(t *testing.T) {
		emp := testEmployee()
		emp.HourlyRate = decimal.Zero

		_, err := c.Calculate(emp, nil, nil, nil, periodStart, periodEnd, testSettings())

		assert.ErrorIs(t, err, payroll.ErrEmployeeHasNoRate)
	})

	t.Run("inverted range", func(t *testing.T) {
		_, err := c.Calculate(testEmployee(), nil, nil, nil, periodEnd, periodStart, testSettings())

		assert.ErrorIs(t, err, payroll.ErrInvalidPeriod)
	})
}
