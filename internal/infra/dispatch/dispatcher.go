package dispatch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pawkeeper/notification-scheduling/internal/domain"
	"github.com/pawkeeper/notification-scheduling/internal/observability/metrics"
	"github.com/pawkeeper/notification-scheduling/internal/observability/tracing"
	"github.com/pawkeeper/notification-scheduling/internal/service/delivery"
	"github.com/pawkeeper/notification-scheduling/internal/service/listener"
)

const defaultPollInterval = time.Second

// DueSource hands out triggers whose fire instant has passed. A trigger is
// returned at most once.
type DueSource interface {
	PopDue(ctx context.Context, now time.Time) ([]domain.PendingNotification, error)
}

// BadgeCounter bumps the application badge when a fired notification asks
// for it.
type BadgeCounter interface {
	IncrementBadge(ctx context.Context) (int, error)
}

// Dispatcher polls the due set, applies the delivery preferences to each
// fired trigger, and fans the result out to subscribers. It is the
// listener.Source for the rest of the service.
type Dispatcher struct {
	due          DueSource
	badges       BadgeCounter
	prefs        domain.PreferenceSource
	recorder     domain.DeliveryRecorder
	metrics      *metrics.SchedulingMetrics
	pollInterval time.Duration

	now func() time.Time

	mu        sync.RWMutex
	delivered map[string]func(listener.Event)
	tapped    map[string]func(listener.Event)
}

func NewDispatcher(
	due DueSource,
	badges BadgeCounter,
	prefs domain.PreferenceSource,
	recorder domain.DeliveryRecorder,
	schedulingMetrics *metrics.SchedulingMetrics,
	pollInterval time.Duration,
) *Dispatcher {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	return &Dispatcher{
		due:          due,
		badges:       badges,
		prefs:        prefs,
		recorder:     recorder,
		metrics:      schedulingMetrics,
		pollInterval: pollInterval,
		now:          time.Now,
		delivered:    make(map[string]func(listener.Event)),
		tapped:       make(map[string]func(listener.Event)),
	}
}

// Run polls until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	slog.InfoContext(ctx, "dispatcher started",
		slog.Duration("poll_interval", d.pollInterval),
	)

	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "dispatcher stopped")
			return
		case <-ticker.C:
			d.Tick(ctx)
		}
	}
}

// Tick claims and dispatches everything currently due.
func (d *Dispatcher) Tick(ctx context.Context) {
	if d.due == nil {
		return
	}
	now := d.now()

	due, err := d.due.PopDue(ctx, now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to pop due triggers",
			slog.String("error", err.Error()),
		)
		return
	}

	for i := range due {
		d.dispatch(ctx, &due[i], now)
	}
}

// DispatchNow handles a single trigger delivered from outside the poll
// loop, such as a task queue callback.
func (d *Dispatcher) DispatchNow(ctx context.Context, pending *domain.PendingNotification) {
	d.dispatch(ctx, pending, d.now())
}

func (d *Dispatcher) dispatch(ctx context.Context, pending *domain.PendingNotification, now time.Time) {
	ctx, span := tracing.StartDispatchSpan(ctx, pending.ID, pending.Payload.ReminderID)
	defer span.End()

	decision := delivery.Decide(d.prefs.Snapshot(), &pending.Payload, now)
	lag := now.Sub(pending.FireTime)

	slog.InfoContext(ctx, "notification fired",
		slog.String("notification_id", pending.ID),
		slog.String("reminder_id", pending.Payload.ReminderID),
		slog.String("reminder_type", pending.Payload.Type().String()),
		slog.String("outcome", decision.Outcome()),
		slog.Duration("lag", lag),
	)

	if decision.SetBadge && d.badges != nil {
		if _, err := d.badges.IncrementBadge(ctx); err != nil {
			slog.WarnContext(ctx, "failed to increment badge",
				slog.String("notification_id", pending.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	if d.recorder != nil {
		record := &domain.DeliveryRecord{
			NotificationID: pending.ID,
			ReminderID:     pending.Payload.ReminderID,
			ReminderType:   pending.Payload.Type().String(),
			FireTime:       pending.FireTime,
			DecidedAt:      now,
			Outcome:        decision.Outcome(),
		}
		if err := d.recorder.RecordDelivery(ctx, record); err != nil {
			slog.WarnContext(ctx, "failed to record delivery",
				slog.String("notification_id", pending.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	if d.metrics != nil {
		d.metrics.RecordDelivered(ctx, pending.Payload.Type().String(), decision.Outcome())
		d.metrics.RecordDispatchLag(ctx, lag)
	}

	tracing.RecordDispatchResult(span, decision.Outcome(), lag, nil)

	d.emitDelivered(listener.Event{
		NotificationID: pending.ID,
		Payload:        pending.Payload,
		Decision:       decision,
		At:             now,
	})
}

// EmitTapped forwards a user tap to the tap subscribers. Taps arrive from
// the outside (the client reports them), not from the poll loop.
func (d *Dispatcher) EmitTapped(ev listener.Event) {
	d.mu.RLock()
	handlers := make([]func(listener.Event), 0, len(d.tapped))
	for _, fn := range d.tapped {
		handlers = append(handlers, fn)
	}
	d.mu.RUnlock()

	for _, fn := range handlers {
		fn(ev)
	}
}

func (d *Dispatcher) emitDelivered(ev listener.Event) {
	d.mu.RLock()
	handlers := make([]func(listener.Event), 0, len(d.delivered))
	for _, fn := range d.delivered {
		handlers = append(handlers, fn)
	}
	d.mu.RUnlock()

	for _, fn := range handlers {
		fn(ev)
	}
}

func (d *Dispatcher) SubscribeDelivered(fn func(listener.Event)) func() {
	id := uuid.NewString()

	d.mu.Lock()
	d.delivered[id] = fn
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		delete(d.delivered, id)
		d.mu.Unlock()
	}
}

func (d *Dispatcher) SubscribeTapped(fn func(listener.Event)) func() {
	id := uuid.NewString()

	d.mu.Lock()
	d.tapped[id] = fn
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		delete(d.tapped, id)
		d.mu.Unlock()
	}
}
