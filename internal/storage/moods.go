package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/moodify-admin/internal/analytics"
	"github.com/moodify-admin/internal/models"
)

const moodEntriesTable = "mood_entries"

const moodEntriesColumns = "id,user_id,mood,user_input,confidence,timestamp,date,day_of_week,hour,created_at,updated_at"

// FetchMoodEvents retrieves mood entries, newest first. A non-nil filtered
// window becomes a server-side timestamp range filter; the allTime window
// (or nil) fetches everything. Raw rows pass through the normalizer so
// callers only ever see canonical events; a row the normalizer rejects
// fails the whole batch.
func (c *Client) FetchMoodEvents(ctx context.Context, window *analytics.Window) ([]models.MoodEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	query := c.client.From(moodEntriesTable).
		Select(moodEntriesColumns, "exact", false)

	if window != nil && window.Filtered {
		query = query.
			Gte("timestamp", window.Start.UTC().Format(time.RFC3339)).
			Lte("timestamp", window.End.UTC().Format(time.RFC3339))
	}

	data, _, err := query.Order("timestamp", nil).Execute()
	if err != nil {
		c.logger.Error().
			Err(err).
			Msg("Failed to fetch mood entries")
		return nil, dataSourceErr("select", moodEntriesTable, err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, dataSourceErr("select", moodEntriesTable, fmt.Errorf("failed to unmarshal mood entries: %w", err))
	}

	events, err := analytics.NormalizeMoodEvents(rows)
	if err != nil {
		return nil, dataSourceErr("normalize", moodEntriesTable, err)
	}

	c.logger.Debug().
		Int("count", len(events)).
		Bool("range_filtered", window != nil && window.Filtered).
		Msg("Fetched mood entries")

	return events, nil
}

// DeleteMoodEvent deletes a mood entry by id. Deletion is idempotent from
// the caller's perspective: deleting an id that is already gone succeeds.
func (c *Client) DeleteMoodEvent(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	operation := "delete_mood_event"
	err := c.withRetry(ctx, operation, func() error {
		_, _, err := c.client.From(moodEntriesTable).
			Delete("", "").
			Eq("id", id).
			Execute()
		if err != nil {
			return fmt.Errorf("failed to delete mood entry: %w", err)
		}
		return nil
	})

	if err != nil {
		c.logger.Error().
			Err(err).
			Str("mood_entry_id", id).
			Msg("Failed to delete mood entry")
		return dataSourceErr("delete", moodEntriesTable, err)
	}

	c.logger.Info().
		Str("mood_entry_id", id).
		Msg("Mood entry deleted")

	return nil
}
