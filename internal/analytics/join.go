package analytics

import (
	"strings"

	"github.com/moodify-admin/internal/models"
)

// JoinedUserView is a user account together with their most recent mood
// event, when one exists.
type JoinedUserView struct {
	Account  models.UserAccount `json:"account"`
	LastMood *models.MoodEvent  `json:"last_mood,omitempty"`
}

// JoinLastMood associates each account with its latest mood event. Events
// match when their UserID, trimmed and string-compared, equals the
// account's trimmed SpotifyID. The event with the greatest Timestamp wins;
// a timestamp tie keeps the first matching event encountered. Accounts
// without a SpotifyID, or with no matching event, join to nil.
func JoinLastMood(accounts []models.UserAccount, events []models.MoodEvent) []JoinedUserView {
	views := make([]JoinedUserView, 0, len(accounts))
	for _, acct := range accounts {
		view := JoinedUserView{Account: acct}
		if acct.SpotifyID != nil {
			wanted := strings.TrimSpace(*acct.SpotifyID)
			if wanted != "" {
				var best *models.MoodEvent
				for i := range events {
					if strings.TrimSpace(events[i].UserID) != wanted {
						continue
					}
					if best == nil || events[i].Timestamp.After(best.Timestamp) {
						best = &events[i]
					}
				}
				if best != nil {
					ev := *best
					view.LastMood = &ev
				}
			}
		}
		views = append(views, view)
	}
	return views
}

// ActiveInRange filters accounts to those whose SpotifyID appears among
// the events' user ids. Callers pass events already scoped to the current
// range, making this the "users with activity in range" membership test.
func ActiveInRange(accounts []models.UserAccount, events []models.MoodEvent) []models.UserAccount {
	seen := make(map[string]struct{}, len(events))
	for _, e := range events {
		id := strings.TrimSpace(e.UserID)
		if id != "" {
			seen[id] = struct{}{}
		}
	}

	active := make([]models.UserAccount, 0, len(accounts))
	for _, acct := range accounts {
		if acct.SpotifyID == nil {
			continue
		}
		if _, ok := seen[strings.TrimSpace(*acct.SpotifyID)]; ok {
			active = append(active, acct)
		}
	}
	return active
}
