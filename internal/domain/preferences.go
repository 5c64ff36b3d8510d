package domain

import "time"

// TypePreference is the per-type slice of the notification preferences.
type TypePreference struct {
	Enabled        bool `json:"enabled"`
	AdvanceMinutes int  `json:"advance_minutes"`
}

// DoNotDisturbWindow is an hour-of-day range during which alerts are muted
// but not discarded. When EndHour < StartHour the window wraps past midnight.
// StartHour == EndHour is the empty window (no do-not-disturb).
type DoNotDisturbWindow struct {
	StartHour int `json:"start_hour"`
	EndHour   int `json:"end_hour"`
}

// Contains reports whether t falls inside the window.
func (w DoNotDisturbWindow) Contains(t time.Time) bool {
	hour := t.Hour()
	if w.StartHour <= w.EndHour {
		return hour >= w.StartHour && hour < w.EndHour
	}
	// Wraps midnight, e.g. 22 -> 6.
	return hour >= w.StartHour || hour < w.EndHour
}

// Preferences is an immutable snapshot of the user's notification settings.
// Every scheduling and filtering decision reads a fresh snapshot; mutation
// happens only through an explicit update via the preference store.
type Preferences struct {
	Enabled         bool                            `json:"enabled"`
	Sound           bool                            `json:"sound"`
	DoNotDisturb    DoNotDisturbWindow              `json:"do_not_disturb"`
	TypePreferences map[ReminderType]TypePreference `json:"type_preferences"`
}

// DefaultPreferences returns the settings applied before the user has saved
// any: everything enabled, no lead time, empty do-not-disturb window.
func DefaultPreferences() Preferences {
	types := make(map[ReminderType]TypePreference, len(KnownTypes()))
	for _, t := range KnownTypes() {
		types[t] = TypePreference{Enabled: true, AdvanceMinutes: 0}
	}

	return Preferences{
		Enabled:         true,
		Sound:           true,
		DoNotDisturb:    DoNotDisturbWindow{},
		TypePreferences: types,
	}
}

// IsTypeEnabled reports whether notifications of the given type may be
// scheduled or shown. Types without an explicit entry default to enabled.
func (p Preferences) IsTypeEnabled(t ReminderType) bool {
	tp, ok := p.TypePreferences[t.OrOther()]
	if !ok {
		return true
	}
	return tp.Enabled
}

// AdvanceMinutes returns the lead time configured for the given type, 0 when
// the type has no entry.
func (p Preferences) AdvanceMinutes(t ReminderType) int {
	tp, ok := p.TypePreferences[t.OrOther()]
	if !ok || tp.AdvanceMinutes < 0 {
		return 0
	}
	return tp.AdvanceMinutes
}

// InDoNotDisturbPeriod reports whether t falls inside the configured DND window.
func (p Preferences) InDoNotDisturbPeriod(t time.Time) bool {
	return p.DoNotDisturb.Contains(t)
}
