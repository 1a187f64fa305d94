package analytics

import (
	"time"

	"github.com/moodify-admin/internal/models"
)

// DayBucket is one calendar day of the mood frequency chart. Date keys the
// bucket; Label ("Jan 2") is formatted for display only, so buckets stay
// distinct even if a window ever crossed a year boundary.
type DayBucket struct {
	Date  time.Time `json:"date"`
	Label string    `json:"label"`
	Count int       `json:"count"`
}

const dayLabelFormat = "Jan 2"

// DailySeries buckets events into per-day counts across the window. The
// series always has exactly window.Days buckets, zero-filled and sorted
// ascending by calendar date. Events are re-filtered against the window
// even if the caller already filtered the fetch; out-of-range events are
// ignored. An event's day comes from its Date field when set, otherwise
// from its Timestamp.
func DailySeries(events []models.MoodEvent, w Window) []DayBucket {
	loc := w.End.Location()

	series := make([]DayBucket, w.Days)
	index := make(map[string]int, w.Days)
	for i := 0; i < w.Days; i++ {
		day := startOfDay(w.End.AddDate(0, 0, -(w.Days - 1 - i)))
		series[i] = DayBucket{Date: day, Label: day.Format(dayLabelFormat)}
		index[day.Format("2006-01-02")] = i
	}

	rangeStart := startOfDay(w.Start)
	for _, e := range events {
		day, ok := eventDay(e, loc)
		if !ok {
			continue
		}
		if day.Before(rangeStart) || day.After(w.End) {
			continue
		}
		if i, ok := index[day.Format("2006-01-02")]; ok {
			series[i].Count++
		}
	}

	return series
}

// eventDay derives the calendar day an event belongs to, normalized to
// midnight in the window's location.
func eventDay(e models.MoodEvent, loc *time.Location) (time.Time, bool) {
	if e.Date != "" {
		if d, err := time.ParseInLocation("2006-01-02", e.Date, loc); err == nil {
			return d, true
		}
		// Fall through to timestamp on a malformed date override.
	}
	if e.Timestamp.IsZero() {
		return time.Time{}, false
	}
	return startOfDay(e.Timestamp.In(loc)), true
}

// FilterByWindow returns the events whose derived day falls inside the
// window. Used for the range-scoped user views; the bucketer applies the
// same membership test internally.
func FilterByWindow(events []models.MoodEvent, w Window) []models.MoodEvent {
	loc := w.End.Location()
	rangeStart := startOfDay(w.Start)

	filtered := make([]models.MoodEvent, 0, len(events))
	for _, e := range events {
		day, ok := eventDay(e, loc)
		if !ok {
			continue
		}
		if day.Before(rangeStart) || day.After(w.End) {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}
