package trigger

import (
	"context"
	"testing"
	"time"

	"github.com/pawkeeper/notification-scheduling/internal/domain"
	"github.com/pawkeeper/notification-scheduling/internal/testutil"
)

func testPayload(reminderID string) *domain.Payload {
	return &domain.Payload{
		ReminderID:   reminderID,
		ReminderType: domain.TypeMedication,
		PetID:        "pet-1",
		Frequency:    domain.FrequencyDaily,
		Title:        "Give medication",
		Body:         "Time for pills",
	}
}

func TestRegisterOneShotAndQueryAllPending(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client := testutil.SetupRedis(ctx, t)

	store := NewRedisStore(client)

	fireAt := time.Now().Add(time.Hour).Truncate(time.Millisecond).UTC()

	id, err := store.RegisterOneShot(ctx, testPayload("rem-1"), fireAt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty handle")
	}

	pending, err := store.QueryAllPending(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending count: got %d, want 1", len(pending))
	}

	got := pending[0]
	if got.ID != id {
		t.Errorf("handle: got %q, want %q", got.ID, id)
	}
	if got.Payload.ReminderID != "rem-1" {
		t.Errorf("reminder_id: got %q, want %q", got.Payload.ReminderID, "rem-1")
	}
	if got.Payload.ReminderType != domain.TypeMedication {
		t.Errorf("reminder_type: got %q, want %q", got.Payload.ReminderType, domain.TypeMedication)
	}
	if !got.FireTime.Equal(fireAt) {
		t.Errorf("fire time: got %v, want %v", got.FireTime, fireAt)
	}
}

func TestQueryAllPendingOrderedByFireTime(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client := testutil.SetupRedis(ctx, t)

	store := NewRedisStore(client)

	now := time.Now()
	lateID, err := store.RegisterOneShot(ctx, testPayload("rem-late"), now.Add(3*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	earlyID, err := store.RegisterOneShot(ctx, testPayload("rem-early"), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pending, err := store.QueryAllPending(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending count: got %d, want 2", len(pending))
	}
	if pending[0].ID != earlyID || pending[1].ID != lateID {
		t.Errorf("order: got [%s %s], want [%s %s]", pending[0].ID, pending[1].ID, earlyID, lateID)
	}
}

func TestCancelRemovesTrigger(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client := testutil.SetupRedis(ctx, t)

	store := NewRedisStore(client)

	id, err := store.RegisterOneShot(ctx, testPayload("rem-1"), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.Cancel(ctx, id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pending, err := store.QueryAllPending(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending count after cancel: got %d, want 0", len(pending))
	}
}

func TestCancelUnknownHandleIsNoOp(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client := testutil.SetupRedis(ctx, t)

	store := NewRedisStore(client)

	if err := store.Cancel(ctx, "does-not-exist"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCancelAll(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client := testutil.SetupRedis(ctx, t)

	store := NewRedisStore(client)

	now := time.Now()
	for i, reminderID := range []string{"rem-1", "rem-2", "rem-3"} {
		if _, err := store.RegisterOneShot(ctx, testPayload(reminderID), now.Add(time.Duration(i+1)*time.Hour)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if err := store.CancelAll(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pending, err := store.QueryAllPending(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending count after cancel all: got %d, want 0", len(pending))
	}
}

func TestPopDueClaimsOnlyDueTriggers(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client := testutil.SetupRedis(ctx, t)

	store := NewRedisStore(client)

	now := time.Now()
	dueID, err := store.RegisterOneShot(ctx, testPayload("rem-due"), now.Add(-time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	futureID, err := store.RegisterOneShot(ctx, testPayload("rem-future"), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	due, err := store.PopDue(ctx, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("due count: got %d, want 1", len(due))
	}
	if due[0].ID != dueID {
		t.Errorf("due handle: got %q, want %q", due[0].ID, dueID)
	}

	// Second pop must not return the claimed trigger again.
	again, err := store.PopDue(ctx, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("second pop count: got %d, want 0", len(again))
	}

	pending, err := store.QueryAllPending(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != futureID {
		t.Errorf("remaining pending: got %v, want only %s", pending, futureID)
	}
}

func TestBadgeOperations(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client := testutil.SetupRedis(ctx, t)

	store := NewRedisStore(client)

	count, err := store.GetBadge(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("initial badge: got %d, want 0", count)
	}

	if err := store.SetBadge(ctx, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count, err = store.GetBadge(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 5 {
		t.Errorf("badge after set: got %d, want 5", count)
	}

	bumped, err := store.IncrementBadge(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bumped != 6 {
		t.Errorf("badge after increment: got %d, want 6", bumped)
	}

	if err := store.SetBadge(ctx, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	count, err = store.GetBadge(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("badge after clear: got %d, want 0", count)
	}
}
