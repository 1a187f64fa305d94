package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/moodify-admin/internal/analytics"
	"github.com/moodify-admin/internal/models"
)

// Store is the read surface the refresher needs.
type Store interface {
	FetchMoodEvents(ctx context.Context, window *analytics.Window) ([]models.MoodEvent, error)
	FetchUserAccounts(ctx context.Context) ([]models.UserAccount, error)
}

// Snapshotter periodically recomputes the all-time dashboard overview and
// keeps the latest result in memory, so the snapshot endpoint can answer
// without hitting the backing store. Each refresh is a full
// fetch-and-recompute; a failed run keeps the previous snapshot.
type Snapshotter struct {
	store    Store
	location *time.Location
	timeout  time.Duration
	logger   zerolog.Logger

	cron *cron.Cron

	mu          sync.RWMutex
	latest      analytics.DashboardOverview
	refreshedAt time.Time
	hasSnapshot bool
}

// NewSnapshotter creates a snapshot refresher.
func NewSnapshotter(store Store, location *time.Location, timeout time.Duration, logger zerolog.Logger) *Snapshotter {
	return &Snapshotter{
		store:    store,
		location: location,
		timeout:  timeout,
		logger:   logger.With().Str("component", "scheduler").Logger(),
	}
}

// Start schedules refreshes on the given cron expression and takes an
// immediate first snapshot in the background.
func (s *Snapshotter) Start(spec string) error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(spec, func() { s.Refresh(context.Background()) }); err != nil {
		return err
	}
	s.cron.Start()

	s.logger.Info().
		Str("schedule", spec).
		Msg("Snapshot refresher started")

	go s.Refresh(context.Background())
	return nil
}

// Stop stops the cron schedule and waits for a running refresh to finish.
func (s *Snapshotter) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
		s.logger.Info().Msg("Snapshot refresher stopped")
	}
}

// Refresh fetches both entity sets and rebuilds the all-time overview.
func (s *Snapshotter) Refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	now := time.Now().In(s.location)
	window := analytics.Resolve(analytics.RangeAllTime, now)

	events, err := s.store.FetchMoodEvents(ctx, &window)
	if err != nil {
		s.logger.Error().Err(err).Msg("Snapshot refresh failed fetching mood entries")
		return
	}
	accounts, err := s.store.FetchUserAccounts(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Snapshot refresh failed fetching user accounts")
		return
	}

	overview := analytics.BuildOverview(events, accounts, analytics.RangeAllTime, now)

	s.mu.Lock()
	s.latest = overview
	s.refreshedAt = now
	s.hasSnapshot = true
	s.mu.Unlock()

	s.logger.Info().
		Int("mood_entries", overview.TotalMoodEntries).
		Int("users", overview.TotalUsers).
		Msg("Dashboard snapshot refreshed")
}

// Latest returns the most recent snapshot, its capture time, and whether
// one exists yet.
func (s *Snapshotter) Latest() (analytics.DashboardOverview, time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.refreshedAt, s.hasSnapshot
}
