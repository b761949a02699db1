// Package schedule decides whether a task is due on a calendar date.
// Everything here is a pure function of the task record and the date;
// recorded progress never changes the answer.
package schedule

import (
	"time"

	"github.com/a-bunting/daily-grind-sub000/internal/dates"
	"github.com/a-bunting/daily-grind-sub000/internal/model"
)

// IsScheduled evaluates the task's recurrence for a date. Overrides run
// first and short-circuit: a one-off date wins over everything
// (including an exclusion on the same day), then exclusions, then the
// task's active lifetime window, then the recurrence rule itself.
func IsScheduled(t model.Task, day time.Time) bool {
	key := dates.Key(day)

	if t.IsOneOff(key) {
		return true
	}
	if t.IsExcluded(key) {
		return false
	}
	if t.StartDate != "" && key < t.StartDate {
		return false
	}
	if t.EndDate != nil && *t.EndDate != "" && key > *t.EndDate {
		return false
	}

	switch t.ScheduleType {
	case model.ScheduleMonthly:
		return monthlyDue(t, day)
	case model.ScheduleInterval:
		return intervalDue(t, day)
	default:
		// weekly, and the fallback for anything unrecognized
		return t.HasWeekday(dates.Weekday(day))
	}
}

func monthlyDue(t model.Task, day time.Time) bool {
	if !t.HasMonthlyWeekday(dates.Weekday(day)) {
		return false
	}
	ord := weekOfMonth(day)
	for _, w := range t.MonthlyTypes {
		switch w {
		case model.WeekFirst:
			if ord == 1 {
				return true
			}
		case model.WeekSecond:
			if ord == 2 {
				return true
			}
		case model.WeekThird:
			if ord == 3 {
				return true
			}
		case model.WeekFourth:
			if ord == 4 {
				return true
			}
		case model.WeekLast:
			if ord == lastOrdinal(day) {
				return true
			}
		}
	}
	return false
}

func intervalDue(t model.Task, day time.Time) bool {
	if !t.HasWeekday(dates.Weekday(day)) {
		return false
	}
	start, ok := dates.Parse(t.StartDate)
	if !ok {
		// No anchor to count weeks from; the weekday gate is all we have.
		return true
	}
	weeks := t.IntervalWeeks
	if weeks < 1 {
		weeks = 1
	}
	elapsed := dates.DaysBetween(start, day)
	if elapsed < 0 {
		return false
	}
	// Weeks are anchored to startDate, not the calendar epoch.
	return (elapsed/7)%weeks == 0
}

// weekOfMonth is the date's week-of-month ordinal on a Sunday-first
// calendar grid: ceil((dayOfMonth + weekdayOfFirst) / 7).
func weekOfMonth(day time.Time) int {
	first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
	return (day.Day() + dates.Weekday(first) + 6) / 7
}

// lastOrdinal is the week-of-month ordinal of the final occurrence of
// the date's own weekday in that month, so "last Monday" matches the
// actual last Monday whether the month has four or five of them.
func lastOrdinal(day time.Time) int {
	lastDay := time.Date(day.Year(), day.Month()+1, 0, 0, 0, 0, 0, day.Location())
	back := (dates.Weekday(lastDay) - dates.Weekday(day) + 7) % 7
	return weekOfMonth(lastDay.AddDate(0, 0, -back))
}
