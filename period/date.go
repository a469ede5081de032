package period

import (
	"fmt"
	"time"
)

// DateKey is a calendar date in "YYYY-MM-DD" form. All period boundaries
// are kept as date keys and compared lexicographically, never as
// timestamps, so comparisons stay time-zone-agnostic once computed.
type DateKey string

// istLocation anchors "today" for every user. The app's audience is in
// India, so all period math starts from the IST calendar date.
var istLocation = loadISTLocation()

func loadISTLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// Environments without tzdata still get the correct offset
		return time.FixedZone("IST", 5*3600+30*60)
	}
	return loc
}

// TodayKey returns the calendar date of the given instant in IST.
func TodayKey(now time.Time) DateKey {
	return fromTime(now.In(istLocation))
}

func fromTime(t time.Time) DateKey {
	return DateKey(fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day()))
}

func (d DateKey) parse() (year, month, day int) {
	fmt.Sscanf(string(d), "%d-%d-%d", &year, &month, &day)
	return year, month, day
}

// AddDays shifts the date by the given number of days using UTC calendar
// arithmetic, which is safe because the key itself carries no zone.
func (d DateKey) AddDays(days int) DateKey {
	year, month, day := d.parse()
	shifted := time.Date(year, time.Month(month), day+days, 0, 0, 0, 0, time.UTC)
	return fromTime(shifted)
}

// MonthStart returns the first day of the date's calendar month.
func (d DateKey) MonthStart() DateKey {
	year, month, _ := d.parse()
	return DateKey(fmt.Sprintf("%04d-%02d-01", year, month))
}

// ShiftMonthStart returns the first day of the month delta months away.
func (d DateKey) ShiftMonthStart(delta int) DateKey {
	year, month, _ := d.parse()
	absolute := year*12 + (month - 1) + delta
	shiftedYear := absolute / 12
	shiftedMonth := absolute % 12
	if shiftedMonth < 0 {
		shiftedMonth += 12
		shiftedYear--
	}
	return DateKey(fmt.Sprintf("%04d-%02d-01", shiftedYear, shiftedMonth+1))
}

// MonthEnd returns the last day of the date's calendar month, respecting
// variable month lengths and leap years.
func (d DateKey) MonthEnd() DateKey {
	year, month, _ := d.parse()
	// Day zero of the next month is the last day of this one
	last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
	return fromTime(last)
}

// InLastSevenDaysOfMonth reports whether the date falls in its month's
// final seven days.
func (d DateKey) InLastSevenDaysOfMonth() bool {
	_, _, day := d.parse()
	_, _, lastDay := d.MonthEnd().parse()
	threshold := lastDay - 6
	if threshold < 1 {
		threshold = 1
	}
	return day >= threshold
}

// MonthLabel renders the date's month as e.g. "March 2025".
func (d DateKey) MonthLabel() string {
	year, month, _ := d.parse()
	return fmt.Sprintf("%s %d", time.Month(month).String(), year)
}

// DateRange is an inclusive calendar date range.
type DateRange struct {
	Start DateKey `json:"start"`
	End   DateKey `json:"end"`
}

// Contains reports whether the date falls within the range, inclusive on
// both ends. Date keys order lexicographically.
func (r DateRange) Contains(d DateKey) bool {
	return d >= r.Start && d <= r.End
}
