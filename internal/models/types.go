package models

import "time"

// MoodEvent represents a single mood entry submitted by a user.
// Timestamp is the canonical ordering field; the normalizer falls back to
// created_at when the backing row has no timestamp.
type MoodEvent struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Mood       string     `json:"mood"`
	UserInput  string     `json:"user_input,omitempty"`
	Confidence *float64   `json:"confidence,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
	Date       string     `json:"date,omitempty"` // YYYY-MM-DD override for day bucketing
	DayOfWeek  string     `json:"day_of_week,omitempty"`
	Hour       *int       `json:"hour,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

// UserAccount represents a registered user of the playlist service.
// SpotifyID is the external identifier mood events reference via UserID;
// it is not the account's primary key.
type UserAccount struct {
	ID          string     `json:"id"`
	SpotifyID   *string    `json:"spotify_id"`
	Email       *string    `json:"email"`
	DisplayName *string    `json:"display_name"`
	CreatedAt   *time.Time `json:"created_at"`
}

// UnmappedMood is a free-text mood input that did not match any known
// mood category and is waiting for manual triage.
type UnmappedMood struct {
	ID        string    `json:"id"`
	InputText string    `json:"input_text"`
	CreatedAt time.Time `json:"created_at"`
}

// Config holds service configuration loaded from environment variables.
type Config struct {
	// Supabase settings
	SupabaseURL     string
	SupabaseKey     string
	SupabaseTimeout int

	// HTTP server settings
	HTTPAddr string

	// Admin credentials and session policy
	AdminUsername     string
	AdminPassword     string
	SessionTTLMinutes int

	// App settings
	Timezone    string
	LogLevel    string
	Environment string

	// Snapshot refresh schedule (cron expression)
	SnapshotCron string
}
