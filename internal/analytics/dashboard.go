package analytics

import (
	"time"

	"github.com/moodify-admin/internal/models"
)

// Ranking sizes are dashboard view constants, not engine constants; the
// underlying TopN accepts any n.
const (
	TopMoodsCount   = 3
	TopPromptsCount = 5
)

// DashboardOverview is the composite view model behind the analytics page.
// It is a pure function of the fetched entities and the selected range,
// recomputed wholesale on every request.
type DashboardOverview struct {
	Range            string           `json:"range"`
	RangeLabel       string           `json:"range_label"`
	MostCommonMood   *RankedEntry     `json:"most_common_mood,omitempty"`
	TotalMoodEntries int              `json:"total_mood_entries"`
	MoodDistribution []RankedEntry    `json:"mood_distribution"`
	TopMoods         []RankedEntry    `json:"top_moods"`
	TopPrompts       []RankedEntry    `json:"top_prompts"`
	DailySeries      []DayBucket      `json:"daily_series"`
	Sentiment        SentimentSummary `json:"sentiment"`
	TotalUsers       int              `json:"total_users"`
	NewUsersToday    int              `json:"new_users_today"`
	Users            []JoinedUserView `json:"users"`
	GeneratedAt      time.Time        `json:"generated_at"`
}

// BuildOverview composes every aggregation view for one request. The
// events slice is whatever the range-scoped fetch returned; accounts are
// always the full set, scoped here for the non-allTime views.
func BuildOverview(events []models.MoodEvent, accounts []models.UserAccount, sel RangeSelector, now time.Time) DashboardOverview {
	w := Resolve(sel, now)

	moods := Distribution(events, MoodField)
	prompts := Distribution(events, UserInputField)

	var mostCommon *RankedEntry
	if top := moods.TopN(1); len(top) > 0 {
		mostCommon = &top[0]
	}

	// All time lists every account; a narrower range lists only accounts
	// with mood activity inside it.
	listed := accounts
	if sel != RangeAllTime {
		listed = ActiveInRange(accounts, events)
	}

	startOfToday := startOfDay(now)
	newToday := 0
	for _, acct := range accounts {
		if acct.CreatedAt != nil && !acct.CreatedAt.Before(startOfToday) {
			newToday++
		}
	}

	return DashboardOverview{
		Range:            string(sel),
		RangeLabel:       sel.Label(),
		MostCommonMood:   mostCommon,
		TotalMoodEntries: len(events),
		MoodDistribution: moods.Entries(),
		TopMoods:         moods.TopN(TopMoodsCount),
		TopPrompts:       prompts.TopN(TopPromptsCount),
		DailySeries:      DailySeries(events, w),
		Sentiment:        SentimentBreakdown(events),
		TotalUsers:       len(listed),
		NewUsersToday:    newToday,
		Users:            JoinLastMood(listed, events),
		GeneratedAt:      now,
	}
}
