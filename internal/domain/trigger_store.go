package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=trigger_store.go -destination=trigger_store_mock.go -package=domain

// TriggerStore is the platform-side registry of one-shot future-dated
// notification triggers plus the app badge counter. All scheduling is
// expressed through it; there is no in-process timer state.
type TriggerStore interface {
	// RegisterOneShot persists a trigger that fires once at fireAt and
	// returns the platform-assigned handle.
	RegisterOneShot(ctx context.Context, payload *Payload, fireAt time.Time) (string, error)
	// Cancel removes a pending trigger. Cancelling an unknown or already
	// fired handle is a no-op.
	Cancel(ctx context.Context, id string) error
	CancelAll(ctx context.Context) error
	// QueryAllPending returns every trigger that has not fired yet.
	QueryAllPending(ctx context.Context) ([]PendingNotification, error)
	SetBadge(ctx context.Context, count int) error
	GetBadge(ctx context.Context) (int, error)
}
