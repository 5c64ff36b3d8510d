package domain

import (
	"time"

	"github.com/teambition/rrule-go"
)

// Frequency is the recurrence cadence of a reminder.
type Frequency string

const (
	FrequencyOnce           Frequency = "ONCE"
	FrequencyEvery8Hours    Frequency = "EVERY_8_HOURS"
	FrequencyEvery12Hours   Frequency = "EVERY_12_HOURS"
	FrequencyDaily          Frequency = "DAILY"
	FrequencyEveryTwoDays   Frequency = "EVERY_TWO_DAYS"
	FrequencyEveryThreeDays Frequency = "EVERY_THREE_DAYS"
	FrequencyWeekly         Frequency = "WEEKLY"
	FrequencyMonthly        Frequency = "MONTHLY"
)

func (f Frequency) String() string {
	return string(f)
}

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyOnce, FrequencyEvery8Hours, FrequencyEvery12Hours,
		FrequencyDaily, FrequencyEveryTwoDays, FrequencyEveryThreeDays,
		FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

func (f Frequency) IsRecurring() bool {
	return f.IsValid() && f != FrequencyOnce
}

// HourStep returns the fixed hour cycle for hour-anchored cadences, 0 otherwise.
// Hourly cadences keep the phase of the original base instant across recomputes.
func (f Frequency) HourStep() time.Duration {
	switch f {
	case FrequencyEvery8Hours:
		return 8 * time.Hour
	case FrequencyEvery12Hours:
		return 12 * time.Hour
	}
	return 0
}

// DayStep returns the day increment for day-anchored cadences, 0 otherwise.
// Day-anchored cadences re-anchor to today's date on every recompute.
func (f Frequency) DayStep() int {
	switch f {
	case FrequencyDaily:
		return 1
	case FrequencyEveryTwoDays:
		return 2
	case FrequencyEveryThreeDays:
		return 3
	case FrequencyWeekly:
		return 7
	}
	return 0
}

// MonthStep returns the month increment for month-anchored cadences, 0 otherwise.
func (f Frequency) MonthStep() int {
	if f == FrequencyMonthly {
		return 1
	}
	return 0
}

// RRule renders the cadence as an RFC 5545 recurrence rule for calendar
// interop. ONCE and unknown values render empty.
func (f Frequency) RRule() string {
	var opt rrule.ROption

	switch f {
	case FrequencyEvery8Hours:
		opt = rrule.ROption{Freq: rrule.HOURLY, Interval: 8}
	case FrequencyEvery12Hours:
		opt = rrule.ROption{Freq: rrule.HOURLY, Interval: 12}
	case FrequencyDaily:
		opt = rrule.ROption{Freq: rrule.DAILY}
	case FrequencyEveryTwoDays:
		opt = rrule.ROption{Freq: rrule.DAILY, Interval: 2}
	case FrequencyEveryThreeDays:
		opt = rrule.ROption{Freq: rrule.DAILY, Interval: 3}
	case FrequencyWeekly:
		opt = rrule.ROption{Freq: rrule.WEEKLY}
	case FrequencyMonthly:
		opt = rrule.ROption{Freq: rrule.MONTHLY}
	default:
		return ""
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return ""
	}
	return rule.String()
}
