package delivery

import (
	"time"

	"github.com/pawkeeper/notification-scheduling/internal/domain"
)

// Decide resolves what an about-to-display notification may do, from the
// current preference snapshot. Do-not-disturb mutes the disruption (alert,
// sound) but keeps the badge and the list entry so the user can review the
// notification later; a disabled type or a global disable drops it entirely.
//
// Pure over its inputs so it can run at delivery time against whatever
// snapshot is current.
func Decide(prefs domain.Preferences, payload *domain.Payload, now time.Time) domain.DeliveryDecision {
	if !prefs.Enabled {
		return domain.DeliveryDecision{}
	}

	if prefs.InDoNotDisturbPeriod(now) {
		return domain.DeliveryDecision{
			ShowAlert:  false,
			PlaySound:  false,
			SetBadge:   true,
			ShowInList: true,
		}
	}

	if payload != nil && payload.ReminderType != "" && !prefs.IsTypeEnabled(payload.ReminderType) {
		return domain.DeliveryDecision{}
	}

	return domain.DeliveryDecision{
		ShowAlert:  true,
		PlaySound:  prefs.Sound,
		SetBadge:   true,
		ShowInList: true,
	}
}
