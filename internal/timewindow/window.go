package timewindow

import (
	"fmt"
	"time"

	"teebay-client/internal/clock"
	"teebay-client/internal/domain"
)

// WireLayout is the canonical timestamp representation the booking mutation
// expects ("yyyy-MM-dd HH:mm:ss" on the server side). It is second-precision
// local time; ParseWire is its exact inverse.
const WireLayout = "2006-01-02 15:04:05"

// Window is the canonical resolved rental window shared by both rental
// modes. End is strictly after Start for every window produced here.
type Window struct {
	Start time.Time
	End   time.Time
}

// ResolveDailyWindow turns a pair of calendar dates into an inclusive
// whole-day window: local midnight of startDate through 23:59:59 of
// endDate. Any time-of-day component on the inputs is ignored. Fails with
// domain.ErrInvalidRange when endDate is an earlier calendar date than
// startDate. Resolving the same inputs twice yields identical outputs.
func ResolveDailyWindow(startDate, endDate time.Time) (Window, error) {
	sy, sm, sd := startDate.Date()
	ey, em, ed := endDate.Date()
	start := time.Date(sy, sm, sd, 0, 0, 0, 0, startDate.Location())
	endFloor := time.Date(ey, em, ed, 0, 0, 0, 0, endDate.Location())
	if endFloor.Before(start) {
		return Window{}, domain.ErrInvalidRange
	}
	end := time.Date(ey, em, ed, 23, 59, 59, 0, endDate.Location())
	return Window{Start: start, End: end}, nil
}

// ResolveHourlyWindow computes an hourly window by absolute-time addition,
// so the end carries correctly across day, month, and year boundaries.
// Sub-second precision is dropped from the start so the window survives a
// wire round-trip unchanged. Fails with domain.ErrInvalidDuration when
// durationHours is below one.
func ResolveHourlyWindow(startDateTime time.Time, durationHours int) (Window, error) {
	if durationHours < 1 {
		return Window{}, domain.ErrInvalidDuration
	}
	start := startDateTime.Truncate(time.Second)
	end := start.Add(time.Duration(durationHours) * time.Hour)
	return Window{Start: start, End: end}, nil
}

// FormatForDisplay renders a timestamp for confirmation dialogs, e.g.
// "2nd June 2025, 3:04 PM". Never used on the wire.
func FormatForDisplay(t time.Time) string {
	day := t.Day()
	return fmt.Sprintf("%d%s %s %d, %s",
		day, dayOfMonthSuffix(day), t.Month().String(), t.Year(), t.Format("3:04 PM"))
}

// FormatForWire renders a timestamp in the canonical representation carried
// by submission requests.
func FormatForWire(t time.Time) string {
	return t.Format(WireLayout)
}

// ParseWire is the inverse of FormatForWire. For any second-precision local
// timestamp t, ParseWire(FormatForWire(t)) equals t.
func ParseWire(s string) (time.Time, error) {
	t, err := time.ParseInLocation(WireLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("timewindow: parsing wire timestamp %q: %w", s, err)
	}
	return t, nil
}

// TodayFloor returns the current local calendar date at midnight, used as
// the minimum selectable start date. It is recomputed from the clock on
// every call, never cached.
func TodayFloor(clk clock.Clock) time.Time {
	now := clk.Now()
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

func dayOfMonthSuffix(n int) string {
	if n >= 11 && n <= 13 {
		return "th"
	}
	switch n % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
