package listener

import (
	"log/slog"
	"sync"
	"time"

	"github.com/pawkeeper/notification-scheduling/internal/domain"
)

// Event is a notification lifecycle event delivered to subscribers.
type Event struct {
	NotificationID string
	Payload        domain.Payload
	Decision       domain.DeliveryDecision
	At             time.Time
}

// Source is the event stream the dispatcher exposes. Each Subscribe call
// returns an unsubscribe func that detaches only that subscription.
type Source interface {
	SubscribeDelivered(fn func(Event)) func()
	SubscribeTapped(fn func(Event)) func()
}

// TapHandler receives the payload of a notification the user tapped.
type TapHandler func(Event)

// Listeners owns the service's lifecycle subscriptions. Start is safe to
// call repeatedly; each call replaces the previous subscriptions so a
// restarted caller never ends up with doubled handlers.
type Listeners struct {
	source Source

	mu      sync.Mutex
	cancels []func()
}

func New(source Source) *Listeners {
	return &Listeners{source: source}
}

// Start tears down any existing subscriptions and registers exactly one
// delivered listener and one tap listener. The delivered listener only
// observes; rescheduling the next occurrence stays with the reminder
// completion workflow.
func (l *Listeners) Start(onTap TapHandler) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.detachLocked()

	deliveredCancel := l.source.SubscribeDelivered(func(ev Event) {
		slog.Debug("notification delivered",
			slog.String("notification_id", ev.NotificationID),
			slog.String("reminder_id", ev.Payload.ReminderID),
			slog.String("reminder_type", ev.Payload.Type().String()),
			slog.String("outcome", ev.Decision.Outcome()),
		)
	})

	tappedCancel := l.source.SubscribeTapped(func(ev Event) {
		slog.Info("notification tapped",
			slog.String("notification_id", ev.NotificationID),
			slog.String("reminder_id", ev.Payload.ReminderID),
			slog.String("pet_id", ev.Payload.PetID),
		)
		if onTap != nil {
			onTap(ev)
		}
	})

	l.cancels = []func(){deliveredCancel, tappedCancel}
}

// Stop removes all active subscriptions.
func (l *Listeners) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.detachLocked()
}

func (l *Listeners) detachLocked() {
	for _, cancel := range l.cancels {
		cancel()
	}
	l.cancels = nil
}
