package analytics

import (
	"math"
	"strings"

	"github.com/moodify-admin/internal/models"
)

// SentimentClass is one of the three sentiment buckets.
type SentimentClass string

const (
	SentimentPositive SentimentClass = "positive"
	SentimentNeutral  SentimentClass = "neutral"
	SentimentNegative SentimentClass = "negative"
)

// sentimentTable is the static keyword taxonomy. Classification walks the
// table in order and the first class with a matching keyword wins, so the
// taxonomy can grow without touching classification logic.
var sentimentTable = []struct {
	class    SentimentClass
	keywords []string
}{
	{SentimentPositive, []string{"happy", "excited", "romantic", "hopeful", "energetic"}},
	{SentimentNeutral, []string{"calm", "serene"}},
	{SentimentNegative, []string{"sad", "heartbroken"}},
}

// ClassifySentiment maps a mood label to its sentiment class via
// case-insensitive substring match on the trimmed label. Labels matching
// no keyword classify as neutral.
func ClassifySentiment(mood string) SentimentClass {
	label := strings.ToLower(strings.TrimSpace(mood))
	for _, row := range sentimentTable {
		for _, kw := range row.keywords {
			if strings.Contains(label, kw) {
				return row.class
			}
		}
	}
	return SentimentNeutral
}

// SentimentBucket is one class of the sentiment summary.
type SentimentBucket struct {
	Class      SentimentClass `json:"class"`
	Count      int            `json:"count"`
	Percentage int            `json:"percentage"`
}

// SentimentSummary is the three-way sentiment breakdown. Percentages are
// integer-rounded shares of Total and may not sum to exactly 100.
type SentimentSummary struct {
	Positive SentimentBucket `json:"positive"`
	Neutral  SentimentBucket `json:"neutral"`
	Negative SentimentBucket `json:"negative"`
	Total    int             `json:"total"`
}

// SentimentBreakdown classifies every event with a non-blank mood label
// and reports per-class counts and percentages. An empty input yields all
// zeroes; there is no division by zero.
func SentimentBreakdown(events []models.MoodEvent) SentimentSummary {
	counts := map[SentimentClass]int{}
	total := 0
	for _, e := range events {
		if strings.TrimSpace(e.Mood) == "" {
			continue
		}
		counts[ClassifySentiment(e.Mood)]++
		total++
	}

	pct := func(n int) int {
		if total == 0 {
			return 0
		}
		return int(math.Round(float64(n) / float64(total) * 100))
	}

	return SentimentSummary{
		Positive: SentimentBucket{Class: SentimentPositive, Count: counts[SentimentPositive], Percentage: pct(counts[SentimentPositive])},
		Neutral:  SentimentBucket{Class: SentimentNeutral, Count: counts[SentimentNeutral], Percentage: pct(counts[SentimentNeutral])},
		Negative: SentimentBucket{Class: SentimentNegative, Count: counts[SentimentNegative], Percentage: pct(counts[SentimentNegative])},
		Total:    total,
	}
}
