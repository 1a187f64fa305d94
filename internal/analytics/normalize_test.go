package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMoodEventsCoercesNumericIDs(t *testing.T) {
	rows := []map[string]interface{}{
		{"id": float64(42), "user_id": float64(7), "mood": "Happy", "created_at": "2024-01-15T09:00:00Z"},
	}

	events, err := NormalizeMoodEvents(rows)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "42", events[0].ID)
	assert.Equal(t, "7", events[0].UserID)
}

func TestNormalizeMoodEventsTimestampFallback(t *testing.T) {
	rows := []map[string]interface{}{
		{"id": "a", "mood": "Calm", "created_at": "2024-01-14T08:00:00Z"},
		{"id": "b", "mood": "Calm", "timestamp": "", "created_at": "2024-01-13T08:00:00Z"},
		{"id": "c", "mood": "Calm", "timestamp": "2024-01-15T10:00:00Z", "created_at": "2024-01-01T00:00:00Z"},
	}

	events, err := NormalizeMoodEvents(rows)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, time.Date(2024, time.January, 14, 8, 0, 0, 0, time.UTC), events[0].Timestamp)
	assert.Equal(t, time.Date(2024, time.January, 13, 8, 0, 0, 0, time.UTC), events[1].Timestamp)
	assert.Equal(t, time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC), events[2].Timestamp)
}

func TestNormalizeMoodEventsKeepsBlankRows(t *testing.T) {
	// Blank filtering is the aggregator's job, not the normalizer's.
	rows := []map[string]interface{}{
		{"id": nil, "mood": nil},
		{"mood": "  "},
	}

	events, err := NormalizeMoodEvents(rows)
	require.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, "", events[0].ID)
	assert.Equal(t, "", events[0].Mood)
}

func TestNormalizeMoodEventsMalformedRowFailsBatch(t *testing.T) {
	rows := []map[string]interface{}{
		{"id": "ok", "mood": "Happy", "created_at": "2024-01-15T09:00:00Z"},
		{"id": "bad", "mood": "Sad", "timestamp": "not-a-time"},
	}

	_, err := NormalizeMoodEvents(rows)
	assert.Error(t, err)
}

func TestNormalizeMoodEventsOptionalFields(t *testing.T) {
	rows := []map[string]interface{}{
		{
			"id":         "x",
			"user_id":    "u1",
			"mood":       "Excited",
			"user_input": "pump me up",
			"confidence": 0.87,
			"hour":       float64(14),
			"date":       "2024-01-15",
			"timestamp":  "2024-01-15T14:30:00Z",
			"created_at": "2024-01-15T14:30:01Z",
		},
	}

	events, err := NormalizeMoodEvents(rows)
	require.NoError(t, err)
	require.Len(t, events, 1)

	e := events[0]
	require.NotNil(t, e.Confidence)
	assert.InDelta(t, 0.87, *e.Confidence, 1e-9)
	require.NotNil(t, e.Hour)
	assert.Equal(t, 14, *e.Hour)
	assert.Equal(t, "2024-01-15", e.Date)
	assert.Equal(t, "pump me up", e.UserInput)
}

func TestNormalizeUserAccounts(t *testing.T) {
	rows := []map[string]interface{}{
		{"id": float64(1), "spotify_id": float64(100), "email": "a@b.c", "display_name": nil, "created_at": "2024-01-10T00:00:00Z"},
		{"id": "2", "spotify_id": nil},
	}

	accounts, err := NormalizeUserAccounts(rows)
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	assert.Equal(t, "1", accounts[0].ID)
	require.NotNil(t, accounts[0].SpotifyID)
	assert.Equal(t, "100", *accounts[0].SpotifyID)
	assert.Nil(t, accounts[0].DisplayName)

	assert.Nil(t, accounts[1].SpotifyID)
	assert.Nil(t, accounts[1].CreatedAt)
}

func TestNormalizeUnmappedMoods(t *testing.T) {
	rows := []map[string]interface{}{
		{"id": "1", "input_text": "vibing", "created_at": "2024-01-15T00:00:00Z"},
	}

	moods, err := NormalizeUnmappedMoods(rows)
	require.NoError(t, err)
	require.Len(t, moods, 1)
	assert.Equal(t, "vibing", moods[0].InputText)
}
