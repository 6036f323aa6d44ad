package templates

import (
	"errors"
	"time"
)

var ErrNotRecurring = errors.New("template is not recurring")

// NextOccurrence returns the first scheduled date after the calendar day of
// after, at hour:00 in after's location.
//
// Biweekly templates run every other week counted from the week (Sunday
// start) in which the template was created. Monthly templates on a day the
// month does not have fall on its last day.
func (t Template) NextOccurrence(after time.Time, hour int) (time.Time, error) {
	if !t.IsRecurring || t.RecurringType == nil {
		return time.Time{}, ErrNotRecurring
	}
	loc := after.Location()
	day := civil(after)

	var next time.Time
	switch *t.RecurringType {
	case RecurrenceWeekly, RecurrenceBiweekly:
		if t.RecurringDayOfWeek == nil {
			return time.Time{}, errors.New("recurringDayOfWeek is not set")
		}
		next = nextWeekday(day, time.Weekday(*t.RecurringDayOfWeek))
		if *t.RecurringType == RecurrenceBiweekly {
			anchor := weekStart(civil(t.CreatedAt.In(loc)))
			weeks := int(weekStart(next).Sub(anchor).Hours()/24) / 7
			if weeks%2 != 0 {
				next = next.AddDate(0, 0, 7)
			}
		}
	case RecurrenceMonthly:
		if t.RecurringDayOfMonth == nil {
			return time.Time{}, errors.New("recurringDayOfMonth is not set")
		}
		next = clampedDay(day.Year(), day.Month(), *t.RecurringDayOfMonth)
		if !next.After(day) {
			next = clampedDay(day.Year(), day.Month()+1, *t.RecurringDayOfMonth)
		}
	default:
		return time.Time{}, errors.New("unknown recurrence type")
	}
	return time.Date(next.Year(), next.Month(), next.Day(), hour, 0, 0, 0, loc), nil
}

// civil strips the time of day, keeping the date as seen in t's location.
func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func nextWeekday(day time.Time, want time.Weekday) time.Time {
	delta := (int(want) - int(day.Weekday()) + 7) % 7
	if delta == 0 {
		delta = 7
	}
	return day.AddDate(0, 0, delta)
}

func weekStart(day time.Time) time.Time {
	return day.AddDate(0, 0, -int(day.Weekday()))
}

func clampedDay(year int, month time.Month, dom int) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	if dom > last {
		dom = last
	}
	return time.Date(first.Year(), first.Month(), dom, 0, 0, 0, 0, time.UTC)
}
