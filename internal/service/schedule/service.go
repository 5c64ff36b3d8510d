package schedule

import (
	"context"
	"log/slog"
	"time"

	"github.com/pawkeeper/notification-scheduling/internal/domain"
	"github.com/pawkeeper/notification-scheduling/internal/observability/metrics"
	"github.com/pawkeeper/notification-scheduling/internal/observability/tracing"
	"github.com/pawkeeper/notification-scheduling/internal/service/occurrence"
)

// minScheduleLead is the shortest distance between now and a notify instant
// the service is willing to register. Anything closer would fire practically
// immediately after a save or edit.
const minScheduleLead = time.Minute

type Service struct {
	triggers    domain.TriggerStore
	prefs       domain.PreferenceSource
	permissions domain.PermissionGate
	metrics     *metrics.SchedulingMetrics

	now func() time.Time
}

func NewService(
	triggers domain.TriggerStore,
	prefs domain.PreferenceSource,
	permissions domain.PermissionGate,
	schedulingMetrics *metrics.SchedulingMetrics,
) *Service {
	return &Service{
		triggers:    triggers,
		prefs:       prefs,
		permissions: permissions,
		metrics:     schedulingMetrics,
		now:         time.Now,
	}
}

// Schedule registers at most one one-shot trigger for the request. Every
// failure mode degrades to a skip result: saving a reminder must never fail
// because its notification could not be registered.
func (s *Service) Schedule(ctx context.Context, req *Request) *Result {
	ctx, span := tracing.StartScheduleSpan(ctx, req.ReminderID, req.ReminderType.OrOther().String(), req.TargetTime)
	defer span.End()

	result := s.schedule(ctx, req)
	tracing.RecordScheduleResult(span, result.Scheduled, result.SkipReason, result.NotifyTime, nil)
	return result
}

func (s *Service) schedule(ctx context.Context, req *Request) *Result {
	now := s.now()

	if !s.permissionGranted(ctx) {
		slog.DebugContext(ctx, "notification permission not granted, skipping",
			slog.String("reminder_id", req.ReminderID),
		)
		return s.recordSkip(ctx, req, SkipPermissionNotGranted)
	}

	prefs := s.prefs.Snapshot()
	if !prefs.Enabled {
		slog.DebugContext(ctx, "notifications disabled, skipping",
			slog.String("reminder_id", req.ReminderID),
		)
		return s.recordSkip(ctx, req, SkipDisabled)
	}

	if req.ReminderType != "" && !prefs.IsTypeEnabled(req.ReminderType) {
		slog.DebugContext(ctx, "reminder type disabled, skipping",
			slog.String("reminder_id", req.ReminderID),
			slog.String("reminder_type", req.ReminderType.String()),
		)
		return s.recordSkip(ctx, req, SkipTypeDisabled)
	}

	advanceMinutes := 0
	if req.ReminderType != "" {
		advanceMinutes = prefs.AdvanceMinutes(req.ReminderType)
	}
	notifyTime := req.TargetTime.Add(-time.Duration(advanceMinutes) * time.Minute)

	if !notifyTime.After(now.Add(minScheduleLead)) {
		slog.InfoContext(ctx, "notify instant too imminent, skipping",
			slog.String("reminder_id", req.ReminderID),
			slog.Time("target_time", req.TargetTime),
			slog.Time("notify_time", notifyTime),
			slog.Int("advance_minutes", advanceMinutes),
		)
		return s.recordSkip(ctx, req, SkipTooImminent)
	}

	payload := &domain.Payload{
		ReminderID:     req.ReminderID,
		ReminderType:   req.ReminderType,
		PetID:          req.PetID,
		Frequency:      req.Frequency,
		Title:          req.Title,
		Body:           req.Body,
		TargetTime:     req.TargetTime,
		NotifyTime:     notifyTime,
		AdvanceMinutes: advanceMinutes,
	}

	// One live trigger per reminder: clear out anything previously
	// registered for this reminder before adding the replacement. Drafts
	// are exempt so previewing never clobbers the saved schedule.
	if !payload.IsDraft() {
		if _, err := s.CancelAllForReminder(ctx, req.ReminderID); err != nil {
			slog.WarnContext(ctx, "failed to cancel prior notifications",
				slog.String("reminder_id", req.ReminderID),
				slog.String("error", err.Error()),
			)
			// Continue: a stale duplicate beats no notification at all.
		}
	}

	handle, err := s.triggers.RegisterOneShot(ctx, payload, notifyTime)
	if err != nil {
		slog.ErrorContext(ctx, "failed to register trigger",
			slog.String("reminder_id", req.ReminderID),
			slog.Time("notify_time", notifyTime),
			slog.String("error", err.Error()),
		)
		return s.recordSkip(ctx, req, SkipPlatformError)
	}

	slog.InfoContext(ctx, "notification scheduled",
		slog.String("handle", handle),
		slog.String("reminder_id", req.ReminderID),
		slog.String("reminder_type", req.ReminderType.OrOther().String()),
		slog.Time("target_time", req.TargetTime),
		slog.Time("notify_time", notifyTime),
		slog.Duration("lead", notifyTime.Sub(now)),
	)

	if s.metrics != nil {
		s.metrics.RecordScheduled(ctx, req.ReminderType.OrOther().String(), "scheduled")
		s.metrics.RecordScheduleLead(ctx, notifyTime.Sub(now))
	}

	return &Result{
		Handle:     handle,
		Scheduled:  true,
		TargetTime: req.TargetTime,
		NotifyTime: notifyTime,
	}
}

// ScheduleRecurring computes the next occurrence for the cadence and
// schedules a single one-shot trigger for it. Re-registering the occurrence
// after that remains the reminder-completion workflow's responsibility.
func (s *Service) ScheduleRecurring(ctx context.Context, req *RecurringRequest) *Result {
	if !req.Frequency.IsRecurring() {
		slog.WarnContext(ctx, "frequency is not recurring, skipping",
			slog.String("reminder_id", req.ReminderID),
			slog.String("frequency", req.Frequency.String()),
		)
		return skipped(SkipNotSchedulable)
	}

	now := s.now()
	base := time.Date(now.Year(), now.Month(), now.Day(), req.Hour, req.Minute, 0, 0, now.Location())

	next, ok := occurrence.Next(base, req.Frequency, now)
	if !ok {
		slog.WarnContext(ctx, "no valid next occurrence, skipping",
			slog.String("reminder_id", req.ReminderID),
			slog.String("frequency", req.Frequency.String()),
		)
		return skipped(SkipNotSchedulable)
	}

	return s.Schedule(ctx, &Request{
		Title:        req.Title,
		Body:         req.Body,
		TargetTime:   next,
		ReminderID:   req.ReminderID,
		ReminderType: req.ReminderType,
		PetID:        req.PetID,
		Frequency:    req.Frequency,
	})
}

// Cancel removes a single pending trigger by handle.
func (s *Service) Cancel(ctx context.Context, id string) error {
	if err := s.triggers.Cancel(ctx, id); err != nil {
		slog.WarnContext(ctx, "failed to cancel notification",
			slog.String("handle", id),
			slog.String("error", err.Error()),
		)
		return err
	}

	slog.DebugContext(ctx, "notification cancelled", slog.String("handle", id))
	if s.metrics != nil {
		s.metrics.RecordCancelled(ctx, 1)
	}
	return nil
}

// CancelAllForReminder cancels every pending trigger whose payload carries
// the reminder id. The pending set is queried fresh from the trigger store;
// no local index is consulted.
func (s *Service) CancelAllForReminder(ctx context.Context, reminderID string) (int, error) {
	pending, err := s.triggers.QueryAllPending(ctx)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for _, p := range pending {
		if p.Payload.ReminderID != reminderID {
			continue
		}
		if err := s.triggers.Cancel(ctx, p.ID); err != nil {
			slog.WarnContext(ctx, "failed to cancel pending notification",
				slog.String("handle", p.ID),
				slog.String("reminder_id", reminderID),
				slog.String("error", err.Error()),
			)
			continue
		}
		cancelled++
	}

	if cancelled > 0 {
		slog.DebugContext(ctx, "cancelled pending notifications for reminder",
			slog.String("reminder_id", reminderID),
			slog.Int("count", cancelled),
		)
		if s.metrics != nil {
			s.metrics.RecordCancelled(ctx, cancelled)
		}
	}

	return cancelled, nil
}

// CancelAll wipes every pending trigger.
func (s *Service) CancelAll(ctx context.Context) error {
	if err := s.triggers.CancelAll(ctx); err != nil {
		slog.WarnContext(ctx, "failed to cancel all notifications",
			slog.String("error", err.Error()),
		)
		return err
	}
	slog.InfoContext(ctx, "cancelled all notifications")
	return nil
}

// ListPending returns the full pending set as held by the trigger store.
func (s *Service) ListPending(ctx context.Context) ([]domain.PendingNotification, error) {
	return s.triggers.QueryAllPending(ctx)
}

// PendingStats aggregates the pending set by reminder type and reports the
// earliest upcoming fire instant.
func (s *Service) PendingStats(ctx context.Context) (*Stats, error) {
	pending, err := s.triggers.QueryAllPending(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Total:        len(pending),
		CountsByType: make(map[string]int),
	}

	for _, p := range pending {
		stats.CountsByType[p.Payload.Type().String()]++

		if stats.NextFireTime == nil || p.FireTime.Before(*stats.NextFireTime) {
			fire := p.FireTime
			stats.NextFireTime = &fire
		}
	}

	return stats, nil
}

// Badge reads the current badge count.
func (s *Service) Badge(ctx context.Context) (int, error) {
	return s.triggers.GetBadge(ctx)
}

// SetBadge overwrites the badge count.
func (s *Service) SetBadge(ctx context.Context, count int) error {
	return s.triggers.SetBadge(ctx, count)
}

// ClearBadge resets the badge count to zero.
func (s *Service) ClearBadge(ctx context.Context) error {
	return s.triggers.SetBadge(ctx, 0)
}

func (s *Service) permissionGranted(ctx context.Context) bool {
	if s.permissions == nil {
		return true
	}

	status, err := s.permissions.Status(ctx)
	if err != nil {
		slog.WarnContext(ctx, "failed to read permission status, treating as not granted",
			slog.String("error", err.Error()),
		)
		return false
	}

	return status.IsGranted()
}

func (s *Service) recordSkip(ctx context.Context, req *Request, reason string) *Result {
	if s.metrics != nil {
		s.metrics.RecordScheduled(ctx, req.ReminderType.OrOther().String(), reason)
	}
	return skipped(reason)
}
