package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/moodify-admin/internal/analytics"
	"github.com/moodify-admin/internal/models"
)

const unmappedTable = "unmapped_moods"

// FetchUnmappedMoods retrieves mood inputs awaiting manual categorization.
func (c *Client) FetchUnmappedMoods(ctx context.Context) ([]models.UnmappedMood, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, _, err := c.client.From(unmappedTable).
		Select("id,input_text,created_at", "exact", false).
		Order("created_at", nil).
		Execute()
	if err != nil {
		c.logger.Error().
			Err(err).
			Msg("Failed to fetch unmapped moods")
		return nil, dataSourceErr("select", unmappedTable, err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, dataSourceErr("select", unmappedTable, fmt.Errorf("failed to unmarshal unmapped moods: %w", err))
	}

	moods, err := analytics.NormalizeUnmappedMoods(rows)
	if err != nil {
		return nil, dataSourceErr("normalize", unmappedTable, err)
	}

	c.logger.Debug().
		Int("count", len(moods)).
		Msg("Fetched unmapped moods")

	return moods, nil
}

// MapUnmappedMood records the category an admin assigned to an unmapped
// mood input.
func (c *Client) MapUnmappedMood(ctx context.Context, id, category string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	operation := "map_unmapped_mood"
	err := c.withRetry(ctx, operation, func() error {
		update := map[string]interface{}{
			"mapped_category": category,
		}

		_, _, err := c.client.From(unmappedTable).
			Update(update, "", "").
			Eq("id", id).
			Execute()
		if err != nil {
			return fmt.Errorf("failed to map unmapped mood: %w", err)
		}
		return nil
	})

	if err != nil {
		c.logger.Error().
			Err(err).
			Str("unmapped_mood_id", id).
			Str("category", category).
			Msg("Failed to map unmapped mood")
		return dataSourceErr("update", unmappedTable, err)
	}

	c.logger.Info().
		Str("unmapped_mood_id", id).
		Str("category", category).
		Msg("Unmapped mood categorized")

	return nil
}

// DeleteUnmappedMood removes an unmapped mood input.
func (c *Client) DeleteUnmappedMood(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	operation := "delete_unmapped_mood"
	err := c.withRetry(ctx, operation, func() error {
		_, _, err := c.client.From(unmappedTable).
			Delete("", "").
			Eq("id", id).
			Execute()
		if err != nil {
			return fmt.Errorf("failed to delete unmapped mood: %w", err)
		}
		return nil
	})

	if err != nil {
		c.logger.Error().
			Err(err).
			Str("unmapped_mood_id", id).
			Msg("Failed to delete unmapped mood")
		return dataSourceErr("delete", unmappedTable, err)
	}

	c.logger.Info().
		Str("unmapped_mood_id", id).
		Msg("Unmapped mood deleted")

	return nil
}
