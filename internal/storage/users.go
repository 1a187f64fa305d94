package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/moodify-admin/internal/analytics"
	"github.com/moodify-admin/internal/models"
)

const usersTable = "spotify_users"

// FetchUserAccounts retrieves all registered accounts, newest first.
func (c *Client) FetchUserAccounts(ctx context.Context) ([]models.UserAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, _, err := c.client.From(usersTable).
		Select("id,spotify_id,email,display_name,created_at", "exact", false).
		Order("created_at", nil).
		Execute()
	if err != nil {
		c.logger.Error().
			Err(err).
			Msg("Failed to fetch user accounts")
		return nil, dataSourceErr("select", usersTable, err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, dataSourceErr("select", usersTable, fmt.Errorf("failed to unmarshal user accounts: %w", err))
	}

	accounts, err := analytics.NormalizeUserAccounts(rows)
	if err != nil {
		return nil, dataSourceErr("normalize", usersTable, err)
	}

	c.logger.Debug().
		Int("count", len(accounts)).
		Msg("Fetched user accounts")

	return accounts, nil
}

// DeleteUserAccount deletes an account by primary key.
func (c *Client) DeleteUserAccount(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	operation := "delete_user_account"
	err := c.withRetry(ctx, operation, func() error {
		_, _, err := c.client.From(usersTable).
			Delete("", "").
			Eq("id", id).
			Execute()
		if err != nil {
			return fmt.Errorf("failed to delete user account: %w", err)
		}
		return nil
	})

	if err != nil {
		c.logger.Error().
			Err(err).
			Str("user_id", id).
			Msg("Failed to delete user account")
		return dataSourceErr("delete", usersTable, err)
	}

	c.logger.Info().
		Str("user_id", id).
		Msg("User account deleted")

	return nil
}
