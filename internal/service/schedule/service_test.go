package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pawkeeper/notification-scheduling/internal/domain"
	"go.uber.org/mock/gomock"
)

// staticPrefs is a fixed-snapshot preference source for tests.
type staticPrefs struct {
	prefs domain.Preferences
}

func (s staticPrefs) Snapshot() domain.Preferences {
	return s.prefs
}

func newTestService(
	triggers domain.TriggerStore,
	prefs domain.Preferences,
	permissions domain.PermissionGate,
	now time.Time,
) *Service {
	svc := NewService(triggers, staticPrefs{prefs: prefs}, permissions, nil)
	svc.now = func() time.Time { return now }
	return svc
}

func grantedGate(ctrl *gomock.Controller) *domain.MockPermissionGate {
	gate := domain.NewMockPermissionGate(ctrl)
	gate.EXPECT().
		Status(gomock.Any()).
		Return(domain.PermissionGranted, nil).
		AnyTimes()
	return gate
}

func TestSchedule_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTriggers := domain.NewMockTriggerStore(ctrl)

	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	target := now.Add(2 * time.Hour)

	mockTriggers.EXPECT().
		QueryAllPending(gomock.Any()).
		Return([]domain.PendingNotification{}, nil)
	mockTriggers.EXPECT().
		RegisterOneShot(gomock.Any(), gomock.Any(), target).
		DoAndReturn(func(ctx context.Context, payload *domain.Payload, fireAt time.Time) (string, error) {
			if payload.ReminderID != "rem-1" {
				t.Errorf("unexpected reminder_id: got %q, want %q", payload.ReminderID, "rem-1")
			}
			if !payload.NotifyTime.Equal(target) {
				t.Errorf("notify time: got %v, want %v", payload.NotifyTime, target)
			}
			return "handle-1", nil
		})

	svc := newTestService(mockTriggers, domain.DefaultPreferences(), grantedGate(ctrl), now)

	result := svc.Schedule(context.Background(), &Request{
		Title:        "Give medication",
		Body:         "Time for Rex's pills",
		TargetTime:   target,
		ReminderID:   "rem-1",
		ReminderType: domain.TypeMedication,
		Frequency:    domain.FrequencyOnce,
	})

	if !result.Scheduled {
		t.Fatalf("expected scheduled result, got skip %q", result.SkipReason)
	}
	if result.Handle != "handle-1" {
		t.Errorf("handle: got %q, want %q", result.Handle, "handle-1")
	}
}

func TestSchedule_AdvanceMinutesShiftNotifyTime(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTriggers := domain.NewMockTriggerStore(ctrl)

	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	target := now.Add(2 * time.Hour)
	wantNotify := target.Add(-15 * time.Minute)

	mockTriggers.EXPECT().
		QueryAllPending(gomock.Any()).
		Return([]domain.PendingNotification{}, nil)
	mockTriggers.EXPECT().
		RegisterOneShot(gomock.Any(), gomock.Any(), wantNotify).
		Return("handle-1", nil)

	prefs := domain.DefaultPreferences()
	prefs.TypePreferences[domain.TypeVisit] = domain.TypePreference{Enabled: true, AdvanceMinutes: 15}

	svc := newTestService(mockTriggers, prefs, grantedGate(ctrl), now)

	result := svc.Schedule(context.Background(), &Request{
		Title:        "Vet visit",
		TargetTime:   target,
		ReminderID:   "rem-1",
		ReminderType: domain.TypeVisit,
	})

	if !result.Scheduled {
		t.Fatalf("expected scheduled result, got skip %q", result.SkipReason)
	}
	if !result.NotifyTime.Equal(wantNotify) {
		t.Errorf("notify time: got %v, want %v", result.NotifyTime, wantNotify)
	}
}

func TestSchedule_ImminentTargetSkipsWithoutRegistering(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No trigger store calls expected at all.
	mockTriggers := domain.NewMockTriggerStore(ctrl)

	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		target time.Time
	}{
		{name: "in the past", target: now.Add(-time.Hour)},
		{name: "right now", target: now},
		{name: "30 seconds ahead", target: now.Add(30 * time.Second)},
		{name: "exactly one minute ahead", target: now.Add(time.Minute)},
	}

	svc := newTestService(mockTriggers, domain.DefaultPreferences(), grantedGate(ctrl), now)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := svc.Schedule(context.Background(), &Request{
				Title:      "Feed the cat",
				TargetTime: tt.target,
				ReminderID: "rem-1",
			})

			if result.Scheduled {
				t.Fatal("expected skip, got scheduled result")
			}
			if result.SkipReason != SkipTooImminent {
				t.Errorf("skip reason: got %q, want %q", result.SkipReason, SkipTooImminent)
			}
		})
	}
}

func TestSchedule_PermissionNotGranted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTriggers := domain.NewMockTriggerStore(ctrl)
	gate := domain.NewMockPermissionGate(ctrl)
	gate.EXPECT().
		Status(gomock.Any()).
		Return(domain.PermissionDenied, nil)

	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	svc := newTestService(mockTriggers, domain.DefaultPreferences(), gate, now)

	result := svc.Schedule(context.Background(), &Request{
		Title:      "Walk",
		TargetTime: now.Add(time.Hour),
		ReminderID: "rem-1",
	})

	if result.Scheduled {
		t.Fatal("expected skip, got scheduled result")
	}
	if result.SkipReason != SkipPermissionNotGranted {
		t.Errorf("skip reason: got %q, want %q", result.SkipReason, SkipPermissionNotGranted)
	}
}

func TestSchedule_NotificationsDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTriggers := domain.NewMockTriggerStore(ctrl)

	prefs := domain.DefaultPreferences()
	prefs.Enabled = false

	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	svc := newTestService(mockTriggers, prefs, grantedGate(ctrl), now)

	result := svc.Schedule(context.Background(), &Request{
		Title:      "Walk",
		TargetTime: now.Add(time.Hour),
		ReminderID: "rem-1",
	})

	if result.SkipReason != SkipDisabled {
		t.Errorf("skip reason: got %q, want %q", result.SkipReason, SkipDisabled)
	}
}

func TestSchedule_TypeDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTriggers := domain.NewMockTriggerStore(ctrl)

	prefs := domain.DefaultPreferences()
	prefs.TypePreferences[domain.TypeHygiene] = domain.TypePreference{Enabled: false}

	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	svc := newTestService(mockTriggers, prefs, grantedGate(ctrl), now)

	result := svc.Schedule(context.Background(), &Request{
		Title:        "Bath time",
		TargetTime:   now.Add(time.Hour),
		ReminderID:   "rem-1",
		ReminderType: domain.TypeHygiene,
	})

	if result.SkipReason != SkipTypeDisabled {
		t.Errorf("skip reason: got %q, want %q", result.SkipReason, SkipTypeDisabled)
	}
}

func TestSchedule_UntypedRequestIgnoresTypePreferences(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTriggers := domain.NewMockTriggerStore(ctrl)
	mockTriggers.EXPECT().
		QueryAllPending(gomock.Any()).
		Return([]domain.PendingNotification{}, nil)
	mockTriggers.EXPECT().
		RegisterOneShot(gomock.Any(), gomock.Any(), gomock.Any()).
		Return("handle-1", nil)

	prefs := domain.DefaultPreferences()
	for _, rt := range domain.KnownTypes() {
		prefs.TypePreferences[rt] = domain.TypePreference{Enabled: false}
	}

	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	svc := newTestService(mockTriggers, prefs, grantedGate(ctrl), now)

	result := svc.Schedule(context.Background(), &Request{
		Title:      "Generic reminder",
		TargetTime: now.Add(time.Hour),
		ReminderID: "rem-1",
	})

	if !result.Scheduled {
		t.Fatalf("expected scheduled result, got skip %q", result.SkipReason)
	}
}

func TestSchedule_ReplacesPriorTriggerForSameReminder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTriggers := domain.NewMockTriggerStore(ctrl)

	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

	existing := []domain.PendingNotification{
		{
			ID:       "old-handle",
			Payload:  domain.Payload{ReminderID: "rem-1"},
			FireTime: now.Add(30 * time.Minute),
		},
		{
			ID:       "other-handle",
			Payload:  domain.Payload{ReminderID: "rem-2"},
			FireTime: now.Add(45 * time.Minute),
		},
	}

	gomock.InOrder(
		mockTriggers.EXPECT().
			QueryAllPending(gomock.Any()).
			Return(existing, nil),
		mockTriggers.EXPECT().
			Cancel(gomock.Any(), "old-handle").
			Return(nil),
		mockTriggers.EXPECT().
			RegisterOneShot(gomock.Any(), gomock.Any(), gomock.Any()).
			Return("new-handle", nil),
	)

	svc := newTestService(mockTriggers, domain.DefaultPreferences(), grantedGate(ctrl), now)

	result := svc.Schedule(context.Background(), &Request{
		Title:      "Give medication",
		TargetTime: now.Add(2 * time.Hour),
		ReminderID: "rem-1",
	})

	if !result.Scheduled {
		t.Fatalf("expected scheduled result, got skip %q", result.SkipReason)
	}
	if result.Handle != "new-handle" {
		t.Errorf("handle: got %q, want %q", result.Handle, "new-handle")
	}
}

func TestSchedule_DraftReminderSkipsCancellation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// QueryAllPending must not be called for draft reminders.
	mockTriggers := domain.NewMockTriggerStore(ctrl)
	mockTriggers.EXPECT().
		RegisterOneShot(gomock.Any(), gomock.Any(), gomock.Any()).
		Return("handle-1", nil)

	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	svc := newTestService(mockTriggers, domain.DefaultPreferences(), grantedGate(ctrl), now)

	result := svc.Schedule(context.Background(), &Request{
		Title:      "Preview",
		TargetTime: now.Add(time.Hour),
		ReminderID: domain.DraftReminderID,
	})

	if !result.Scheduled {
		t.Fatalf("expected scheduled result, got skip %q", result.SkipReason)
	}
}

func TestSchedule_PlatformErrorDegradesToSkip(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTriggers := domain.NewMockTriggerStore(ctrl)
	mockTriggers.EXPECT().
		QueryAllPending(gomock.Any()).
		Return([]domain.PendingNotification{}, nil)
	mockTriggers.EXPECT().
		RegisterOneShot(gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", errors.New("store unavailable"))

	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	svc := newTestService(mockTriggers, domain.DefaultPreferences(), grantedGate(ctrl), now)

	result := svc.Schedule(context.Background(), &Request{
		Title:      "Walk",
		TargetTime: now.Add(time.Hour),
		ReminderID: "rem-1",
	})

	if result.Scheduled {
		t.Fatal("expected skip, got scheduled result")
	}
	if result.SkipReason != SkipPlatformError {
		t.Errorf("skip reason: got %q, want %q", result.SkipReason, SkipPlatformError)
	}
}

func TestScheduleRecurring_DailyAnchorsToToday(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTriggers := domain.NewMockTriggerStore(ctrl)

	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	wantTarget := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	mockTriggers.EXPECT().
		QueryAllPending(gomock.Any()).
		Return([]domain.PendingNotification{}, nil)
	mockTriggers.EXPECT().
		RegisterOneShot(gomock.Any(), gomock.Any(), wantTarget).
		Return("handle-1", nil)

	svc := newTestService(mockTriggers, domain.DefaultPreferences(), grantedGate(ctrl), now)

	result := svc.ScheduleRecurring(context.Background(), &RecurringRequest{
		Title:      "Morning pills",
		Frequency:  domain.FrequencyDaily,
		Hour:       9,
		Minute:     0,
		ReminderID: "rem-1",
	})

	if !result.Scheduled {
		t.Fatalf("expected scheduled result, got skip %q", result.SkipReason)
	}
	if !result.TargetTime.Equal(wantTarget) {
		t.Errorf("target time: got %v, want %v", result.TargetTime, wantTarget)
	}
}

func TestScheduleRecurring_DailyRollsToTomorrowWhenPassed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTriggers := domain.NewMockTriggerStore(ctrl)

	now := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	wantTarget := time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC)

	mockTriggers.EXPECT().
		QueryAllPending(gomock.Any()).
		Return([]domain.PendingNotification{}, nil)
	mockTriggers.EXPECT().
		RegisterOneShot(gomock.Any(), gomock.Any(), wantTarget).
		Return("handle-1", nil)

	svc := newTestService(mockTriggers, domain.DefaultPreferences(), grantedGate(ctrl), now)

	result := svc.ScheduleRecurring(context.Background(), &RecurringRequest{
		Title:      "Morning pills",
		Frequency:  domain.FrequencyDaily,
		Hour:       9,
		Minute:     0,
		ReminderID: "rem-1",
	})

	if !result.Scheduled {
		t.Fatalf("expected scheduled result, got skip %q", result.SkipReason)
	}
	if !result.TargetTime.Equal(wantTarget) {
		t.Errorf("target time: got %v, want %v", result.TargetTime, wantTarget)
	}
}

func TestScheduleRecurring_NonRecurringFrequency(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTriggers := domain.NewMockTriggerStore(ctrl)

	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	svc := newTestService(mockTriggers, domain.DefaultPreferences(), grantedGate(ctrl), now)

	result := svc.ScheduleRecurring(context.Background(), &RecurringRequest{
		Title:      "One off",
		Frequency:  domain.FrequencyOnce,
		Hour:       9,
		ReminderID: "rem-1",
	})

	if result.Scheduled {
		t.Fatal("expected skip, got scheduled result")
	}
	if result.SkipReason != SkipNotSchedulable {
		t.Errorf("skip reason: got %q, want %q", result.SkipReason, SkipNotSchedulable)
	}
}

func TestCancelAllForReminder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTriggers := domain.NewMockTriggerStore(ctrl)

	now := time.Now()
	pending := []domain.PendingNotification{
		{ID: "h1", Payload: domain.Payload{ReminderID: "rem-1"}, FireTime: now},
		{ID: "h2", Payload: domain.Payload{ReminderID: "rem-2"}, FireTime: now},
		{ID: "h3", Payload: domain.Payload{ReminderID: "rem-1"}, FireTime: now},
	}

	mockTriggers.EXPECT().
		QueryAllPending(gomock.Any()).
		Return(pending, nil)
	mockTriggers.EXPECT().Cancel(gomock.Any(), "h1").Return(nil)
	mockTriggers.EXPECT().Cancel(gomock.Any(), "h3").Return(nil)

	svc := newTestService(mockTriggers, domain.DefaultPreferences(), grantedGate(ctrl), now)

	count, err := svc.CancelAllForReminder(context.Background(), "rem-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("cancelled count: got %d, want 2", count)
	}
}

func TestPendingStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTriggers := domain.NewMockTriggerStore(ctrl)

	early := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	late := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	mockTriggers.EXPECT().
		QueryAllPending(gomock.Any()).
		Return([]domain.PendingNotification{
			{ID: "h1", Payload: domain.Payload{ReminderType: domain.TypeMedication}, FireTime: late},
			{ID: "h2", Payload: domain.Payload{ReminderType: domain.TypeMedication}, FireTime: early},
			{ID: "h3", Payload: domain.Payload{}, FireTime: late},
		}, nil)

	svc := newTestService(mockTriggers, domain.DefaultPreferences(), grantedGate(ctrl), time.Now())

	stats, err := svc.PendingStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.Total != 3 {
		t.Errorf("total: got %d, want 3", stats.Total)
	}
	if stats.CountsByType[domain.TypeMedication.String()] != 2 {
		t.Errorf("medication count: got %d, want 2", stats.CountsByType[domain.TypeMedication.String()])
	}
	if stats.CountsByType[domain.TypeOther.String()] != 1 {
		t.Errorf("other count: got %d, want 1", stats.CountsByType[domain.TypeOther.String()])
	}
	if stats.NextFireTime == nil || !stats.NextFireTime.Equal(early) {
		t.Errorf("next fire time: got %v, want %v", stats.NextFireTime, early)
	}
}
