package schedule

import (
	"time"

	"github.com/pawkeeper/notification-scheduling/internal/domain"
)

// Request asks for a one-shot notification at a concrete target instant.
type Request struct {
	Title        string
	Body         string
	TargetTime   time.Time
	ReminderID   string
	ReminderType domain.ReminderType
	PetID        string
	Frequency    domain.Frequency
}

// RecurringRequest asks for the next occurrence of a recurring reminder at
// the given time of day. The calculator picks the concrete instant.
type RecurringRequest struct {
	Title        string
	Body         string
	Frequency    domain.Frequency
	Hour         int
	Minute       int
	ReminderID   string
	ReminderType domain.ReminderType
	PetID        string
}

// Skip reasons for Result. Skips are normal outcomes, not errors: the
// caller's save workflow proceeds either way.
const (
	SkipPermissionNotGranted = "permission_not_granted"
	SkipDisabled             = "notifications_disabled"
	SkipTypeDisabled         = "type_disabled"
	SkipTooImminent          = "too_imminent"
	SkipNotSchedulable       = "not_schedulable"
	SkipPlatformError        = "platform_error"
)

// Result reports what a schedule call did. Handle is empty whenever
// Scheduled is false; SkipReason then says why nothing was registered.
type Result struct {
	Handle     string
	Scheduled  bool
	TargetTime time.Time
	NotifyTime time.Time
	SkipReason string
}

func skipped(reason string) *Result {
	return &Result{SkipReason: reason}
}

// Stats summarizes the pending trigger set.
type Stats struct {
	Total        int            `json:"total"`
	CountsByType map[string]int `json:"counts_by_type"`
	NextFireTime *time.Time     `json:"next_fire_time,omitempty"`
}
