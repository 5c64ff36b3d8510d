package domain

import (
	"time"
)

// DraftReminderID tags notifications scheduled for a reminder that has not
// been saved yet. Drafts never cancel previously pending notifications.
const DraftReminderID = "draft"

// Payload is the record embedded in every registered trigger. It carries
// enough context for the delivery filter and the tap listener to act without
// a second data source.
type Payload struct {
	ReminderID     string       `json:"reminder_id,omitempty"`
	ReminderType   ReminderType `json:"reminder_type,omitempty"`
	PetID          string       `json:"pet_id,omitempty"`
	Frequency      Frequency    `json:"frequency,omitempty"`
	Title          string       `json:"title"`
	Body           string       `json:"body"`
	TargetTime     time.Time    `json:"target_time"`
	NotifyTime     time.Time    `json:"notify_time"`
	AdvanceMinutes int          `json:"advance_minutes"`
}

// Type returns the payload's reminder type, mapped to TypeOther when absent.
func (p *Payload) Type() ReminderType {
	return p.ReminderType.OrOther()
}

// IsDraft reports whether the payload belongs to an unsaved reminder.
func (p *Payload) IsDraft() bool {
	return p.ReminderID == "" || p.ReminderID == DraftReminderID
}

// PendingNotification is a registered trigger as read back from the trigger
// store. The store is the single source of truth for what is pending; the
// service never keeps a duplicate index.
type PendingNotification struct {
	ID       string    `json:"id"`
	Payload  Payload   `json:"payload"`
	FireTime time.Time `json:"fire_time"`
}

// DeliveryDecision is the verdict returned just before a notification would
// be shown.
type DeliveryDecision struct {
	ShowAlert  bool `json:"show_alert"`
	PlaySound  bool `json:"play_sound"`
	SetBadge   bool `json:"set_badge"`
	ShowInList bool `json:"show_in_list"`
}

// Suppressed reports whether the notification is dropped entirely.
func (d DeliveryDecision) Suppressed() bool {
	return !d.ShowAlert && !d.PlaySound && !d.SetBadge && !d.ShowInList
}

// Outcome labels the decision for recording: shown, muted or suppressed.
func (d DeliveryDecision) Outcome() string {
	switch {
	case d.ShowAlert:
		return "shown"
	case d.ShowInList || d.SetBadge:
		return "muted"
	default:
		return "suppressed"
	}
}
