package preference

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/pawkeeper/notification-scheduling/internal/domain"
)

// Store holds the active preference snapshot in memory and keeps the
// repository in sync on updates. Readers always get a consistent snapshot;
// a half-applied update is never visible.
type Store struct {
	repo domain.PreferenceRepository

	mu      sync.RWMutex
	current domain.Preferences
}

func NewStore(repo domain.PreferenceRepository) *Store {
	return &Store{
		repo:    repo,
		current: domain.DefaultPreferences(),
	}
}

// Load pulls the persisted snapshot into memory. A missing record leaves
// the defaults in place.
func (s *Store) Load(ctx context.Context) error {
	prefs, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrPreferencesNotFound) {
			slog.InfoContext(ctx, "no stored preferences, using defaults")
			return nil
		}
		return err
	}

	s.mu.Lock()
	s.current = prefs
	s.mu.Unlock()

	return nil
}

func (s *Store) Snapshot() domain.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update persists the new snapshot and swaps it in. The in-memory snapshot
// only changes after the write succeeds.
func (s *Store) Update(ctx context.Context, prefs domain.Preferences) error {
	if err := s.repo.Save(ctx, prefs); err != nil {
		return err
	}

	s.mu.Lock()
	s.current = prefs
	s.mu.Unlock()

	slog.InfoContext(ctx, "notification preferences updated",
		slog.Bool("enabled", prefs.Enabled),
		slog.Bool("sound", prefs.Sound),
		slog.Int("dnd_start_hour", prefs.DoNotDisturb.StartHour),
		slog.Int("dnd_end_hour", prefs.DoNotDisturb.EndHour),
	)

	return nil
}
