package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)

func TestResolveToday(t *testing.T) {
	w := Resolve(RangeToday, fixedNow)

	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2024, time.January, 15, 23, 59, 59, int(999*time.Millisecond), time.UTC), w.End)
	assert.Equal(t, 1, w.Days)
	assert.True(t, w.Filtered)
}

func TestResolveLast7Days(t *testing.T) {
	w := Resolve(RangeLast7Days, fixedNow)

	assert.Equal(t, time.Date(2024, time.January, 9, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, 7, w.Days)
	assert.True(t, w.Filtered)
}

func TestResolveThisMonth(t *testing.T) {
	w := Resolve(RangeThisMonth, fixedNow)

	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), w.Start)
	// Days elapsed this month, 15th inclusive.
	assert.Equal(t, 15, w.Days)

	// Last day of a 31-day month still fits the cap.
	endOfMonth := time.Date(2024, time.January, 31, 8, 0, 0, 0, time.UTC)
	w = Resolve(RangeThisMonth, endOfMonth)
	assert.Equal(t, 31, w.Days)
}

func TestResolveAllTime(t *testing.T) {
	w := Resolve(RangeAllTime, fixedNow)

	// Queries stay unrestricted; the chart narrows to a trailing 30 days.
	assert.False(t, w.Filtered)
	assert.Equal(t, 30, w.Days)
	assert.Equal(t, time.Date(2023, time.December, 17, 0, 0, 0, 0, time.UTC), w.Start)
}

func TestResolveInvariants(t *testing.T) {
	for _, sel := range []RangeSelector{RangeToday, RangeLast7Days, RangeThisMonth, RangeAllTime} {
		w := Resolve(sel, fixedNow)
		assert.False(t, w.End.Before(w.Start), "end must be >= start for %s", sel)
		assert.GreaterOrEqual(t, w.Days, 1, "bucket count must be >= 1 for %s", sel)
	}
}

func TestParseRangeSelector(t *testing.T) {
	sel, err := ParseRangeSelector("last7days")
	require.NoError(t, err)
	assert.Equal(t, RangeLast7Days, sel)

	sel, err = ParseRangeSelector("")
	require.NoError(t, err)
	assert.Equal(t, RangeAllTime, sel)

	_, err = ParseRangeSelector("lastYear")
	assert.Error(t, err)
}

func TestRangeLabels(t *testing.T) {
	assert.Equal(t, "Today", RangeToday.Label())
	assert.Equal(t, "Last 7 Days", RangeLast7Days.Label())
	assert.Equal(t, "This Month", RangeThisMonth.Label())
	assert.Equal(t, "All Time", RangeAllTime.Label())
}
