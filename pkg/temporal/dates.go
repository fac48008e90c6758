package temporal

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/travigo/driverportal/pkg/cleaner"
)

const (
	NotAvailable   = "N/A"
	RenewalWarning = "⚠️ RENEW NOW"

	// RenewalWindowDays is how close to an expiry date the warning starts showing
	RenewalWindowDays = 60

	displayLayout = "January 02, 2006"
)

// Calculator derives display strings from raw spreadsheet dates relative to Now.
type Calculator struct {
	Now func() time.Time
}

var defaultCalculator = Calculator{Now: time.Now}

func (c Calculator) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}

	return c.Now()
}

func (c Calculator) parse(raw string) (time.Time, error) {
	return dateparse.ParseIn(strings.TrimSpace(raw), c.now().Location())
}

// ParseDate parses a loosely formatted spreadsheet date in Now's location.
func (c Calculator) ParseDate(raw string) (time.Time, bool) {
	if cleaner.IsBlank(raw) {
		return time.Time{}, false
	}

	date, err := c.parse(raw)
	if err != nil {
		return time.Time{}, false
	}

	return date, true
}

// FormatDisplayDate renders raw as "Month DD, YYYY". Unparseable input is returned as-is
// and missing input becomes "N/A".
func (c Calculator) FormatDisplayDate(raw string) string {
	if cleaner.IsBlank(raw) {
		return NotAvailable
	}

	date, err := c.parse(raw)
	if err != nil {
		return raw
	}

	return date.Format(displayLayout)
}

// RenewalStatus returns a "{y}y {m}m {d}d" countdown to expiryRaw and the renewal warning
// when the expiry is within RenewalWindowDays either side of now.
func (c Calculator) RenewalStatus(expiryRaw string) (countdown string, warning string) {
	if cleaner.IsBlank(expiryRaw) {
		return NotAvailable, ""
	}

	expiry, err := c.parse(expiryRaw)
	if err != nil {
		return NotAvailable, ""
	}

	now := c.now()
	years, months, days := SignedCalendarDiff(now, expiry)
	countdown = fmt.Sprintf("%dy %dm %dd", years, months, days)

	if abs(WholeDaysBetween(now, expiry)) <= RenewalWindowDays {
		warning = RenewalWarning
	}

	return countdown, warning
}

// TenureDisplay renders the hire date followed by the time served, e.g.
// "March 04, 2019 (7y, 7m)".
func (c Calculator) TenureDisplay(hireRaw string) string {
	if cleaner.IsBlank(hireRaw) {
		return NotAvailable
	}

	hired, err := c.parse(hireRaw)
	if err != nil {
		return hireRaw
	}

	years, months, _ := SignedCalendarDiff(hired, c.now())

	return fmt.Sprintf("%s (%dy, %dm)", hired.Format(displayLayout), years, months)
}

func FormatDisplayDate(raw string) string {
	return defaultCalculator.FormatDisplayDate(raw)
}

func RenewalStatus(expiryRaw string) (string, string) {
	return defaultCalculator.RenewalStatus(expiryRaw)
}

func TenureDisplay(hireRaw string) string {
	return defaultCalculator.TenureDisplay(hireRaw)
}

// WholeDaysBetween is the number of whole days from a to b, floored like a timedelta.
func WholeDaysBetween(a time.Time, b time.Time) int {
	return int(math.Floor(b.Sub(a).Hours() / 24))
}

// SignedCalendarDiff decomposes b-a into years, months and days the way a calendar does.
// When b is before a every component is negative.
func SignedCalendarDiff(a time.Time, b time.Time) (years int, months int, days int) {
	if b.Before(a) {
		years, months, days = calendarDiff(b, a)
		return -years, -months, -days
	}

	return calendarDiff(a, b)
}

// calendarDiff expects from <= to. Months are counted first, clipping the day of month the
// way calendars do (Jan 31 + 1 month = Feb 28/29), and the remainder is whole days.
func calendarDiff(from time.Time, to time.Time) (int, int, int) {
	to = to.In(from.Location())

	totalMonths := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	anchor := addMonthsClipped(from, totalMonths)
	if anchor.After(to) {
		totalMonths--
		anchor = addMonthsClipped(from, totalMonths)
	}

	days := int(to.Sub(anchor).Hours() / 24)

	return totalMonths / 12, totalMonths % 12, days
}

func addMonthsClipped(t time.Time, months int) time.Time {
	monthIndex := int(t.Month()) - 1 + months
	year := t.Year() + monthIndex/12
	monthIndex %= 12
	if monthIndex < 0 {
		monthIndex += 12
		year--
	}
	month := time.Month(monthIndex + 1)

	day := t.Day()
	if last := daysIn(year, month); day > last {
		day = last
	}

	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}

	return n
}
