package analytics

import (
	"sort"
	"strings"

	"github.com/moodify-admin/internal/models"
)

// FieldSelector picks the label field a distribution is computed over.
type FieldSelector func(models.MoodEvent) string

// MoodField selects the mood label.
func MoodField(e models.MoodEvent) string { return e.Mood }

// UserInputField selects the free-text prompt.
func UserInputField(e models.MoodEvent) string { return e.UserInput }

// FrequencyTable counts occurrences of trimmed, non-blank labels. It
// remembers the order labels were first seen so that equal-count ranking
// ties resolve deterministically.
type FrequencyTable struct {
	counts map[string]int
	order  []string
}

// RankedEntry is one row of a ranking or distribution listing.
type RankedEntry struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Distribution builds a frequency table over the selected field. Each
// value is trimmed; blank values are skipped.
func Distribution(events []models.MoodEvent, field FieldSelector) *FrequencyTable {
	values := make([]string, 0, len(events))
	for _, e := range events {
		values = append(values, field(e))
	}
	return DistributionOf(values)
}

// DistributionOf builds a frequency table over raw label values.
func DistributionOf(values []string) *FrequencyTable {
	t := &FrequencyTable{counts: make(map[string]int)}
	for _, v := range values {
		label := strings.TrimSpace(v)
		if label == "" {
			continue
		}
		if _, seen := t.counts[label]; !seen {
			t.order = append(t.order, label)
		}
		t.counts[label]++
	}
	return t
}

// Count returns the count recorded for a label.
func (t *FrequencyTable) Count(label string) int { return t.counts[label] }

// Len returns the number of distinct labels.
func (t *FrequencyTable) Len() int { return len(t.order) }

// Total returns the number of counted entries.
func (t *FrequencyTable) Total() int {
	total := 0
	for _, c := range t.counts {
		total += c
	}
	return total
}

// Entries returns all labels with their counts in first-seen order.
func (t *FrequencyTable) Entries() []RankedEntry {
	entries := make([]RankedEntry, 0, len(t.order))
	for _, label := range t.order {
		entries = append(entries, RankedEntry{Label: label, Count: t.counts[label]})
	}
	return entries
}

// TopN returns the n most frequent labels, sorted descending by count.
// Equal counts keep first-seen input order; the sort must stay stable so
// the dashboard renders the same ranking on every refresh.
func (t *FrequencyTable) TopN(n int) []RankedEntry {
	entries := t.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
