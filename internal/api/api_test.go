package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodify-admin/internal/analytics"
	"github.com/moodify-admin/internal/auth"
	"github.com/moodify-admin/internal/models"
)

// fakeStore serves canned entities and records mutations.
type fakeStore struct {
	events   []models.MoodEvent
	accounts []models.UserAccount
	unmapped []models.UnmappedMood

	fetchErr error
	deleted  []string
	mapped   map[string]string
}

func (f *fakeStore) FetchMoodEvents(_ context.Context, _ *analytics.Window) ([]models.MoodEvent, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.events, nil
}

func (f *fakeStore) FetchUserAccounts(_ context.Context) ([]models.UserAccount, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.accounts, nil
}

func (f *fakeStore) FetchUnmappedMoods(_ context.Context) ([]models.UnmappedMood, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.unmapped, nil
}

func (f *fakeStore) DeleteMoodEvent(_ context.Context, id string) error {
	f.deleted = append(f.deleted, "mood:"+id)
	return nil
}

func (f *fakeStore) DeleteUserAccount(_ context.Context, id string) error {
	f.deleted = append(f.deleted, "user:"+id)
	return nil
}

func (f *fakeStore) DeleteUnmappedMood(_ context.Context, id string) error {
	f.deleted = append(f.deleted, "unmapped:"+id)
	return nil
}

func (f *fakeStore) MapUnmappedMood(_ context.Context, id, category string) error {
	if f.mapped == nil {
		f.mapped = make(map[string]string)
	}
	f.mapped[id] = category
	return nil
}

func (f *fakeStore) Ping(_ context.Context) error { return f.fetchErr }

func strPtr(s string) *string { return &s }

func newTestServer(store *fakeStore) (*Server, *httptest.Server, string) {
	sessions := auth.NewManager("admin", "secret", time.Hour, zerolog.Nop())
	srv := NewServer(store, sessions, nil, time.UTC, zerolog.Nop())
	srv.now = func() time.Time {
		return time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)
	}

	ts := httptest.NewServer(srv.Router())

	session, err := sessions.Login("admin", "secret")
	if err != nil {
		panic(err)
	}
	return srv, ts, session.Token
}

func doJSON(t *testing.T, method, url, token string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestLoginAndLogout(t *testing.T) {
	_, ts, _ := newTestServer(&fakeStore{})
	defer ts.Close()

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/admin/login", "", map[string]string{
		"username": "admin",
		"password": "secret",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var session auth.Session
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&session))
	assert.NotEmpty(t, session.Token)

	logout := doJSON(t, http.MethodPost, ts.URL+"/api/admin/logout", session.Token, nil)
	logout.Body.Close()
	assert.Equal(t, http.StatusNoContent, logout.StatusCode)

	// The revoked token no longer grants access.
	denied := doJSON(t, http.MethodGet, ts.URL+"/api/admin/analytics", session.Token, nil)
	denied.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, denied.StatusCode)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	_, ts, _ := newTestServer(&fakeStore{})
	defer ts.Close()

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/admin/login", "", map[string]string{
		"username": "admin",
		"password": "wrong",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAnalyticsRequiresSession(t *testing.T) {
	_, ts, _ := newTestServer(&fakeStore{})
	defer ts.Close()

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/admin/analytics", "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAnalyticsOverview(t *testing.T) {
	store := &fakeStore{
		events: []models.MoodEvent{
			{ID: "e1", UserID: "u1", Mood: "Happy", Timestamp: time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)},
			{ID: "e2", UserID: "u1", Mood: "Happy", Timestamp: time.Date(2024, time.January, 14, 9, 0, 0, 0, time.UTC)},
			{ID: "e3", UserID: "u2", Mood: "Calm", Timestamp: time.Date(2024, time.January, 13, 9, 0, 0, 0, time.UTC)},
		},
		accounts: []models.UserAccount{
			{ID: "pk1", SpotifyID: strPtr("u1")},
			{ID: "pk2", SpotifyID: strPtr("u2")},
		},
	}
	_, ts, token := newTestServer(store)
	defer ts.Close()

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/admin/analytics?range=last7days", token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var overview analytics.DashboardOverview
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&overview))
	assert.Equal(t, "last7days", overview.Range)
	assert.Equal(t, 3, overview.TotalMoodEntries)
	require.NotNil(t, overview.MostCommonMood)
	assert.Equal(t, "Happy", overview.MostCommonMood.Label)
	assert.Len(t, overview.DailySeries, 7)
}

func TestAnalyticsRejectsUnknownRange(t *testing.T) {
	_, ts, token := newTestServer(&fakeStore{})
	defer ts.Close()

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/admin/analytics?range=lastYear", token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalyticsPropagatesStoreFailure(t *testing.T) {
	_, ts, token := newTestServer(&fakeStore{fetchErr: errors.New("connection refused")})
	defer ts.Close()

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/admin/analytics", token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestSentimentEndpoint(t *testing.T) {
	store := &fakeStore{
		events: []models.MoodEvent{
			{Mood: "Happy"}, {Mood: "Sad"}, {Mood: "Calm"}, {Mood: "Excited"},
		},
	}
	_, ts, token := newTestServer(store)
	defer ts.Close()

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/admin/sentiment?range=allTime", token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Range     string                     `json:"range"`
		Sentiment analytics.SentimentSummary `json:"sentiment"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, 4, payload.Sentiment.Total)
	assert.Equal(t, 2, payload.Sentiment.Positive.Count)
}

func TestReportsEndpoint(t *testing.T) {
	store := &fakeStore{
		accounts: []models.UserAccount{{ID: "pk1"}, {ID: "pk2"}},
		unmapped: []models.UnmappedMood{
			{ID: "1", InputText: "vibing"},
			{ID: "2", InputText: "vibing"},
			{ID: "3", InputText: "pumped up"},
		},
	}
	_, ts, token := newTestServer(store)
	defer ts.Close()

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/admin/reports", token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		TotalUsers    int                     `json:"total_users"`
		UnmappedMoods int                     `json:"unmapped_moods"`
		TopUnmapped   []analytics.RankedEntry `json:"top_unmapped"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, 2, payload.TotalUsers)
	assert.Equal(t, 3, payload.UnmappedMoods)
	require.NotEmpty(t, payload.TopUnmapped)
	assert.Equal(t, analytics.RankedEntry{Label: "vibing", Count: 2}, payload.TopUnmapped[0])
}

func TestModerationEndpoints(t *testing.T) {
	store := &fakeStore{}
	_, ts, token := newTestServer(store)
	defer ts.Close()

	resp := doJSON(t, http.MethodDelete, ts.URL+"/api/admin/moods/e1", token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, ts.URL+"/api/admin/users/pk1", token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/admin/unmapped/m1/map", token, map[string]string{"category": "Happy"})
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/admin/unmapped/m2/map", token, map[string]string{"category": "  "})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, ts.URL+"/api/admin/unmapped/m3", token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	assert.Equal(t, []string{"mood:e1", "user:pk1", "unmapped:m3"}, store.deleted)
	assert.Equal(t, map[string]string{"m1": "Happy"}, store.mapped)
}

func TestHealthEndpoint(t *testing.T) {
	_, ts, _ := newTestServer(&fakeStore{})
	defer ts.Close()

	resp := doJSON(t, http.MethodGet, ts.URL+"/healthz", "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSnapshotDisabled(t *testing.T) {
	_, ts, token := newTestServer(&fakeStore{})
	defer ts.Close()

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/admin/snapshot", token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
