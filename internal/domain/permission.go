package domain

import "context"

//go:generate mockgen -source=permission.go -destination=permission_mock.go -package=domain

// PermissionStatus mirrors the device-side notification permission state as
// last reported by the app.
type PermissionStatus string

const (
	PermissionGranted      PermissionStatus = "granted"
	PermissionDenied       PermissionStatus = "denied"
	PermissionUndetermined PermissionStatus = "undetermined"
)

func (s PermissionStatus) String() string {
	return string(s)
}

func (s PermissionStatus) IsGranted() bool {
	return s == PermissionGranted
}

func (s PermissionStatus) IsValid() bool {
	switch s {
	case PermissionGranted, PermissionDenied, PermissionUndetermined:
		return true
	}
	return false
}

// PermissionGate exposes the device permission state to the scheduler. A
// denied or undetermined status short-circuits scheduling to a no-op.
type PermissionGate interface {
	Status(ctx context.Context) (PermissionStatus, error)
	Report(ctx context.Context, status PermissionStatus) error
}
