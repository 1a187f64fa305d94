package analytics

import (
	"fmt"
	"time"
)

// RangeSelector is a named date range the dashboard can be filtered by.
type RangeSelector string

const (
	RangeToday     RangeSelector = "today"
	RangeLast7Days RangeSelector = "last7days"
	RangeThisMonth RangeSelector = "thisMonth"
	RangeAllTime   RangeSelector = "allTime"
)

// allTimeChartDays is the trailing window shown on "all time" charts.
// Summary totals stay unrestricted; only the time series narrows.
const allTimeChartDays = 30

// ParseRangeSelector parses a selector from its query-string form.
// An empty string defaults to allTime.
func ParseRangeSelector(s string) (RangeSelector, error) {
	switch RangeSelector(s) {
	case RangeToday, RangeLast7Days, RangeThisMonth, RangeAllTime:
		return RangeSelector(s), nil
	case "":
		return RangeAllTime, nil
	}
	return "", fmt.Errorf("unknown date range %q", s)
}

// Label returns the display label for the selector.
func (r RangeSelector) Label() string {
	switch r {
	case RangeToday:
		return "Today"
	case RangeLast7Days:
		return "Last 7 Days"
	case RangeThisMonth:
		return "This Month"
	default:
		return "All Time"
	}
}

// Window is a resolved date range. Start and End bound the interval
// inclusively; Days is the number of calendar-day buckets the time series
// covers. Filtered reports whether queries should apply the interval as a
// server-side filter: allTime resolves to a synthetic chart window but
// leaves queries unrestricted.
type Window struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Days     int       `json:"days"`
	Filtered bool      `json:"filtered"`
}

// Resolve converts a selector into a concrete window relative to now.
// Day boundaries follow now's location: start of day is 00:00:00.000,
// end of day is 23:59:59.999.
func Resolve(sel RangeSelector, now time.Time) Window {
	end := endOfDay(now)

	switch sel {
	case RangeToday:
		return Window{Start: startOfDay(now), End: end, Days: 1, Filtered: true}
	case RangeLast7Days:
		return Window{Start: startOfDay(now.AddDate(0, 0, -6)), End: end, Days: 7, Filtered: true}
	case RangeThisMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		days := now.Day()
		if days > 31 {
			days = 31
		}
		return Window{Start: first, End: end, Days: days, Filtered: true}
	default:
		// All time: totals are unrestricted, charts show a trailing 30 days.
		return Window{
			Start:    startOfDay(now.AddDate(0, 0, -(allTimeChartDays - 1))),
			End:      end,
			Days:     allTimeChartDays,
			Filtered: false,
		}
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}
