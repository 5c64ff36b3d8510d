package domain

import "errors"

var (
	ErrTriggerNotFound     = errors.New("trigger not found")
	ErrInvalidPayload      = errors.New("invalid notification payload")
	ErrPreferencesNotFound = errors.New("preferences not found")
	ErrInvalidFrequency    = errors.New("invalid frequency")
	ErrInvalidReminderType = errors.New("invalid reminder type")
)
