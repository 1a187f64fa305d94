package api

import (
	"net/http"
	"time"

	"github.com/moodify-admin/internal/analytics"
)

// handleAnalytics GET /api/admin/analytics?range=
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	sel, err := analytics.ParseRangeSelector(r.URL.Query().Get("range"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := s.now().In(s.location)
	window := analytics.Resolve(sel, now)

	events, accounts, err := s.fetchEntities(r.Context(), window)
	if err != nil {
		s.logger.Error().Err(err).Str("range", string(sel)).Msg("Failed to fetch analytics data")
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, analytics.BuildOverview(events, accounts, sel, now))
}

// handleSentiment GET /api/admin/sentiment?range=
func (s *Server) handleSentiment(w http.ResponseWriter, r *http.Request) {
	sel, err := analytics.ParseRangeSelector(r.URL.Query().Get("range"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := s.now().In(s.location)
	window := analytics.Resolve(sel, now)

	events, err := s.store.FetchMoodEvents(r.Context(), &window)
	if err != nil {
		s.logger.Error().Err(err).Str("range", string(sel)).Msg("Failed to fetch sentiment data")
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Range     string                     `json:"range"`
		Sentiment analytics.SentimentSummary `json:"sentiment"`
	}{
		Range:     string(sel),
		Sentiment: analytics.SentimentBreakdown(events),
	})
}

// handleUsers GET /api/admin/users?range=
func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	sel, err := analytics.ParseRangeSelector(r.URL.Query().Get("range"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := s.now().In(s.location)
	window := analytics.Resolve(sel, now)

	events, accounts, err := s.fetchEntities(r.Context(), window)
	if err != nil {
		s.logger.Error().Err(err).Str("range", string(sel)).Msg("Failed to fetch user data")
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	listed := accounts
	if sel != analytics.RangeAllTime {
		listed = analytics.ActiveInRange(accounts, events)
	}

	writeJSON(w, http.StatusOK, struct {
		Range string                     `json:"range"`
		Total int                        `json:"total"`
		Users []analytics.JoinedUserView `json:"users"`
	}{
		Range: string(sel),
		Total: len(listed),
		Users: analytics.JoinLastMood(listed, events),
	})
}

// handleReports GET /api/admin/reports
func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.store.FetchUserAccounts(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to fetch accounts for reports")
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	unmapped, err := s.store.FetchUnmappedMoods(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to fetch unmapped moods for reports")
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	texts := make([]string, 0, len(unmapped))
	for _, m := range unmapped {
		texts = append(texts, m.InputText)
	}
	topUnmapped := analytics.DistributionOf(texts).TopN(analytics.TopPromptsCount)

	writeJSON(w, http.StatusOK, struct {
		TotalUsers    int                     `json:"total_users"`
		UnmappedMoods int                     `json:"unmapped_moods"`
		TopUnmapped   []analytics.RankedEntry `json:"top_unmapped"`
	}{
		TotalUsers:    len(accounts),
		UnmappedMoods: len(unmapped),
		TopUnmapped:   topUnmapped,
	})
}

// handleSnapshot GET /api/admin/snapshot
//
// Returns the most recent scheduled all-time snapshot without touching the
// backing store.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.snapshot == nil {
		writeError(w, http.StatusNotFound, "snapshot refresher disabled")
		return
	}

	overview, refreshedAt, ok := s.snapshot.Latest()
	if !ok {
		writeError(w, http.StatusNotFound, "no snapshot captured yet")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		RefreshedAt time.Time                   `json:"refreshed_at"`
		Overview    analytics.DashboardOverview `json:"overview"`
	}{
		RefreshedAt: refreshedAt,
		Overview:    overview,
	})
}
