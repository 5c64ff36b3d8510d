package domain

import (
	"context"
	"time"
)

// DeliveryRecord captures the outcome of a single delivery decision for
// offline analysis.
type DeliveryRecord struct {
	NotificationID string
	ReminderID     string
	ReminderType   string
	FireTime       time.Time
	DecidedAt      time.Time
	Outcome        string // shown, muted or suppressed
}

// DeliveryRecorder ships delivery outcomes to an analytics sink. Recording
// failures must never affect delivery itself.
type DeliveryRecorder interface {
	RecordDelivery(ctx context.Context, record *DeliveryRecord) error
	Close() error
}
