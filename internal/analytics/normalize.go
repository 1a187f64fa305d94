package analytics

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/moodify-admin/internal/models"
)

// The backing store returns loosely-typed JSON rows. Normalization is the
// single place those rows become canonical entities; downstream aggregation
// never touches raw maps. A row whose present fields cannot be decoded fails
// the whole batch so that partial results are never silently served.

// NormalizeMoodEvents maps raw mood_entries rows to MoodEvent values.
// Identifier fields are coerced to strings regardless of source type, and
// Timestamp falls back to created_at when the timestamp field is absent or
// empty. Rows missing an id or mood are kept; aggregation skips blanks.
func NormalizeMoodEvents(rows []map[string]interface{}) ([]models.MoodEvent, error) {
	events := make([]models.MoodEvent, 0, len(rows))
	for i, row := range rows {
		id, err := stringField(row, "id")
		if err != nil {
			return nil, fmt.Errorf("mood row %d: %w", i, err)
		}
		userID, err := stringField(row, "user_id")
		if err != nil {
			return nil, fmt.Errorf("mood row %d: %w", i, err)
		}
		mood, err := stringField(row, "mood")
		if err != nil {
			return nil, fmt.Errorf("mood row %d: %w", i, err)
		}
		userInput, err := stringField(row, "user_input")
		if err != nil {
			return nil, fmt.Errorf("mood row %d: %w", i, err)
		}
		date, err := stringField(row, "date")
		if err != nil {
			return nil, fmt.Errorf("mood row %d: %w", i, err)
		}
		dayOfWeek, err := stringField(row, "day_of_week")
		if err != nil {
			return nil, fmt.Errorf("mood row %d: %w", i, err)
		}

		createdAt, err := timeField(row, "created_at")
		if err != nil {
			return nil, fmt.Errorf("mood row %d: %w", i, err)
		}
		timestamp, err := timeField(row, "timestamp")
		if err != nil {
			return nil, fmt.Errorf("mood row %d: %w", i, err)
		}
		if timestamp == nil {
			timestamp = createdAt
		}

		updatedAt, err := timeField(row, "updated_at")
		if err != nil {
			return nil, fmt.Errorf("mood row %d: %w", i, err)
		}

		confidence, err := floatField(row, "confidence")
		if err != nil {
			return nil, fmt.Errorf("mood row %d: %w", i, err)
		}
		hour, err := intField(row, "hour")
		if err != nil {
			return nil, fmt.Errorf("mood row %d: %w", i, err)
		}

		ev := models.MoodEvent{
			ID:         id,
			UserID:     userID,
			Mood:       mood,
			UserInput:  userInput,
			Confidence: confidence,
			Date:       date,
			DayOfWeek:  dayOfWeek,
			Hour:       hour,
			UpdatedAt:  updatedAt,
		}
		if timestamp != nil {
			ev.Timestamp = *timestamp
		}
		if createdAt != nil {
			ev.CreatedAt = *createdAt
		}
		events = append(events, ev)
	}
	return events, nil
}

// NormalizeUserAccounts maps raw spotify_users rows to UserAccount values.
func NormalizeUserAccounts(rows []map[string]interface{}) ([]models.UserAccount, error) {
	accounts := make([]models.UserAccount, 0, len(rows))
	for i, row := range rows {
		id, err := stringField(row, "id")
		if err != nil {
			return nil, fmt.Errorf("user row %d: %w", i, err)
		}
		spotifyID, err := optionalStringField(row, "spotify_id")
		if err != nil {
			return nil, fmt.Errorf("user row %d: %w", i, err)
		}
		email, err := optionalStringField(row, "email")
		if err != nil {
			return nil, fmt.Errorf("user row %d: %w", i, err)
		}
		displayName, err := optionalStringField(row, "display_name")
		if err != nil {
			return nil, fmt.Errorf("user row %d: %w", i, err)
		}
		createdAt, err := timeField(row, "created_at")
		if err != nil {
			return nil, fmt.Errorf("user row %d: %w", i, err)
		}

		accounts = append(accounts, models.UserAccount{
			ID:          id,
			SpotifyID:   spotifyID,
			Email:       email,
			DisplayName: displayName,
			CreatedAt:   createdAt,
		})
	}
	return accounts, nil
}

// NormalizeUnmappedMoods maps raw unmapped_moods rows.
func NormalizeUnmappedMoods(rows []map[string]interface{}) ([]models.UnmappedMood, error) {
	moods := make([]models.UnmappedMood, 0, len(rows))
	for i, row := range rows {
		id, err := stringField(row, "id")
		if err != nil {
			return nil, fmt.Errorf("unmapped row %d: %w", i, err)
		}
		text, err := stringField(row, "input_text")
		if err != nil {
			return nil, fmt.Errorf("unmapped row %d: %w", i, err)
		}
		createdAt, err := timeField(row, "created_at")
		if err != nil {
			return nil, fmt.Errorf("unmapped row %d: %w", i, err)
		}

		m := models.UnmappedMood{ID: id, InputText: text}
		if createdAt != nil {
			m.CreatedAt = *createdAt
		}
		moods = append(moods, m)
	}
	return moods, nil
}

// stringField coerces a row value to its string form. Numeric ids are
// common in older rows, so numbers stringify instead of failing. Missing
// or null values become the empty string.
func stringField(row map[string]interface{}, key string) (string, error) {
	v, ok := row[key]
	if !ok || v == nil {
		return "", nil
	}
	switch val := v.(type) {
	case string:
		return val, nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case json.Number:
		return val.String(), nil
	case bool:
		return strconv.FormatBool(val), nil
	default:
		return "", fmt.Errorf("field %s: unsupported type %T", key, v)
	}
}

func optionalStringField(row map[string]interface{}, key string) (*string, error) {
	v, ok := row[key]
	if !ok || v == nil {
		return nil, nil
	}
	s, err := stringField(row, key)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// timeField parses a timestamp value. Empty and null values are not an
// error; a present value that does not parse fails the batch.
func timeField(row map[string]interface{}, key string) (*time.Time, error) {
	v, ok := row[key]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("field %s: expected timestamp string, got %T", key, v)
	}
	if s == "" {
		return nil, nil
	}
	t, err := parseTimestamp(s)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", key, err)
	}
	return &t, nil
}

// parseTimestamp accepts the timestamp formats Supabase emits.
func parseTimestamp(s string) (time.Time, error) {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999",
		"2006-01-02 15:04:05.999999-07",
		"2006-01-02",
	}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q: %w", s, lastErr)
}

func floatField(row map[string]interface{}, key string) (*float64, error) {
	v, ok := row[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch val := v.(type) {
	case float64:
		return &val, nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		return &f, nil
	default:
		return nil, fmt.Errorf("field %s: expected number, got %T", key, v)
	}
}

func intField(row map[string]interface{}, key string) (*int, error) {
	f, err := floatField(row, key)
	if err != nil || f == nil {
		return nil, err
	}
	n := int(*f)
	return &n, nil
}
