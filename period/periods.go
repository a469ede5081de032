package period

import "time"

// WeeklyPeriods holds four trailing non-overlapping 7-day windows ending
// at "today". Week1 is the most recent, Week4 the oldest.
type WeeklyPeriods struct {
	Today DateKey
	Week1 DateRange
	Week2 DateRange
	Week3 DateRange
	Week4 DateRange
}

// LabeledRange is a date range with a human-readable month label.
type LabeledRange struct {
	Label string
	DateRange
}

// MonthlyPeriods holds the current partial month plus the three
// preceding full calendar months.
type MonthlyPeriods struct {
	Today              DateKey
	CurrentMonthStart  DateKey
	PreviousMonthStart DateKey
	Current            LabeledRange
	Minus1             LabeledRange
	Minus2             LabeledRange
	Minus3             LabeledRange
}

// Weekly derives the weekly windows for the IST calendar date of now.
func Weekly(now time.Time) WeeklyPeriods {
	return WeeklyEndingAt(TodayKey(now))
}

// WeeklyEndingAt derives four consecutive 7-day windows ending at the
// given date. Used directly by the bootstrap scanner, which anchors
// candidate windows at earlier dates.
func WeeklyEndingAt(end DateKey) WeeklyPeriods {
	return WeeklyPeriods{
		Today: end,
		Week1: DateRange{Start: end.AddDays(-6), End: end},
		Week2: DateRange{Start: end.AddDays(-13), End: end.AddDays(-7)},
		Week3: DateRange{Start: end.AddDays(-20), End: end.AddDays(-14)},
		Week4: DateRange{Start: end.AddDays(-27), End: end.AddDays(-21)},
	}
}

// Monthly derives the monthly windows for the IST calendar date of now.
// The current window spans the 1st of the month through today; the three
// preceding windows are full calendar months.
func Monthly(now time.Time) MonthlyPeriods {
	today := TodayKey(now)
	return MonthlyForAnchor(today.MonthStart(), today)
}

// MonthlyForAnchor derives the monthly windows for an arbitrary anchor
// month. anchorEnd is today for the live month, or the month's last day
// when the bootstrap scanner anchors at an earlier month.
func MonthlyForAnchor(anchorMonthStart, anchorEnd DateKey) MonthlyPeriods {
	minus1Start := anchorMonthStart.ShiftMonthStart(-1)
	minus2Start := anchorMonthStart.ShiftMonthStart(-2)
	minus3Start := anchorMonthStart.ShiftMonthStart(-3)

	return MonthlyPeriods{
		Today:              anchorEnd,
		CurrentMonthStart:  anchorMonthStart,
		PreviousMonthStart: minus1Start,
		Current: LabeledRange{
			Label:     anchorMonthStart.MonthLabel(),
			DateRange: DateRange{Start: anchorMonthStart, End: anchorEnd},
		},
		Minus1: LabeledRange{
			Label:     minus1Start.MonthLabel(),
			DateRange: DateRange{Start: minus1Start, End: minus1Start.MonthEnd()},
		},
		Minus2: LabeledRange{
			Label:     minus2Start.MonthLabel(),
			DateRange: DateRange{Start: minus2Start, End: minus2Start.MonthEnd()},
		},
		Minus3: LabeledRange{
			Label:     minus3Start.MonthLabel(),
			DateRange: DateRange{Start: minus3Start, End: minus3Start.MonthEnd()},
		},
	}
}
