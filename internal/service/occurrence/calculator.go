package occurrence

import (
	"time"

	"github.com/pawkeeper/notification-scheduling/internal/domain"
)

// MinFutureMargin is the minimum distance into the future for any computed
// occurrence. It keeps a freshly saved reminder from firing right away, since
// the platform is free to deliver a due trigger with variable latency.
const MinFutureMargin = 5 * time.Minute

// Next computes the next valid fire instant for a reminder with the given
// base instant and cadence, strictly later than now plus MinFutureMargin.
// The second return value is false when nothing should be scheduled: a
// one-time reminder whose moment already passed or is imminent, or an
// unrecognized frequency.
//
// Hour cadences (every 8h/12h) advance in fixed steps from the stored base,
// so the phase of the cycle is stable across repeated recomputes. Day and
// month cadences instead re-anchor to today's date at the base's
// hour:minute: the result is today's slot when it is still comfortably
// ahead, otherwise the next day/month boundary. Editing a reminder therefore
// never drifts a day-anchored schedule.
//
// Pure: no I/O, no clock reads, deterministic in its three inputs.
func Next(base time.Time, freq domain.Frequency, now time.Time) (time.Time, bool) {
	minFuture := now.Add(MinFutureMargin)

	if freq == domain.FrequencyOnce {
		if base.After(minFuture) {
			return base, true
		}
		return time.Time{}, false
	}

	if step := freq.HourStep(); step > 0 {
		next := base
		for !next.After(minFuture) {
			next = next.Add(step)
		}
		return next, true
	}

	if freq.DayStep() > 0 || freq.MonthStep() > 0 {
		next := time.Date(
			now.Year(), now.Month(), now.Day(),
			base.Hour(), base.Minute(), 0, 0,
			now.Location(),
		)
		for !next.After(minFuture) {
			next = next.AddDate(0, freq.MonthStep(), freq.DayStep())
		}
		return next, true
	}

	// Unrecognized frequency: refuse to schedule rather than guess.
	return time.Time{}, false
}
