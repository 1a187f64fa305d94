package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/moodify-admin/internal/analytics"
	"github.com/moodify-admin/internal/auth"
	"github.com/moodify-admin/internal/models"
	"github.com/moodify-admin/internal/scheduler"
)

// Store is the read/write surface the handlers need from the backing
// store. *storage.Client satisfies it; tests substitute a fake.
type Store interface {
	FetchMoodEvents(ctx context.Context, window *analytics.Window) ([]models.MoodEvent, error)
	FetchUserAccounts(ctx context.Context) ([]models.UserAccount, error)
	FetchUnmappedMoods(ctx context.Context) ([]models.UnmappedMood, error)
	DeleteMoodEvent(ctx context.Context, id string) error
	DeleteUserAccount(ctx context.Context, id string) error
	DeleteUnmappedMood(ctx context.Context, id string) error
	MapUnmappedMood(ctx context.Context, id, category string) error
	Ping(ctx context.Context) error
}

// Server wires the admin HTTP surface together.
type Server struct {
	store    Store
	sessions *auth.Manager
	snapshot *scheduler.Snapshotter
	location *time.Location
	logger   zerolog.Logger
	now      func() time.Time
}

// NewServer creates the admin API server. snapshot may be nil when the
// refresher is disabled.
func NewServer(store Store, sessions *auth.Manager, snapshot *scheduler.Snapshotter, location *time.Location, logger zerolog.Logger) *Server {
	return &Server{
		store:    store,
		sessions: sessions,
		snapshot: snapshot,
		location: location,
		logger:   logger.With().Str("component", "api").Logger(),
		now:      time.Now,
	}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.recoverMiddleware)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/admin/login", s.handleLogin).Methods(http.MethodPost)

	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.Use(s.requireSession)
	admin.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)
	admin.HandleFunc("/analytics", s.handleAnalytics).Methods(http.MethodGet)
	admin.HandleFunc("/sentiment", s.handleSentiment).Methods(http.MethodGet)
	admin.HandleFunc("/users", s.handleUsers).Methods(http.MethodGet)
	admin.HandleFunc("/reports", s.handleReports).Methods(http.MethodGet)
	admin.HandleFunc("/snapshot", s.handleSnapshot).Methods(http.MethodGet)
	admin.HandleFunc("/unmapped", s.handleListUnmapped).Methods(http.MethodGet)
	admin.HandleFunc("/unmapped/{id}/map", s.handleMapUnmapped).Methods(http.MethodPost)
	admin.HandleFunc("/unmapped/{id}", s.handleDeleteUnmapped).Methods(http.MethodDelete)
	admin.HandleFunc("/moods/{id}", s.handleDeleteMood).Methods(http.MethodDelete)
	admin.HandleFunc("/users/{id}", s.handleDeleteUser).Methods(http.MethodDelete)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "storage unreachable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// fetchEntities issues the two independent fetches concurrently. Events
// are scoped server-side when the window is a filtering one; accounts are
// always fetched in full.
func (s *Server) fetchEntities(ctx context.Context, window analytics.Window) ([]models.MoodEvent, []models.UserAccount, error) {
	var (
		events    []models.MoodEvent
		accounts  []models.UserAccount
		eventsErr error
		usersErr  error
	)

	done := make(chan struct{}, 2)
	go func() {
		events, eventsErr = s.store.FetchMoodEvents(ctx, &window)
		done <- struct{}{}
	}()
	go func() {
		accounts, usersErr = s.store.FetchUserAccounts(ctx)
		done <- struct{}{}
	}()
	<-done
	<-done

	if eventsErr != nil {
		return nil, nil, eventsErr
	}
	if usersErr != nil {
		return nil, nil, usersErr
	}
	return events, accounts, nil
}
