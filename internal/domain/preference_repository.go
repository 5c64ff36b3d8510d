package domain

import "context"

// PreferenceRepository persists the single process-wide preference record.
// Get returns ErrPreferencesNotFound when the user has never saved settings.
type PreferenceRepository interface {
	Get(ctx context.Context) (Preferences, error)
	Save(ctx context.Context, prefs Preferences) error
}

// PreferenceSource hands out the current preference snapshot to scheduling
// and filtering decisions. Snapshots are immutable; updates swap the whole
// record.
type PreferenceSource interface {
	Snapshot() Preferences
}
