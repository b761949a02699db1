// Package progress turns per-date progress records into completion
// percentages and decides which tasks appear on a given day.
package progress

import (
	"time"

	"github.com/a-bunting/daily-grind-sub000/internal/dates"
	"github.com/a-bunting/daily-grind-sub000/internal/model"
	"github.com/a-bunting/daily-grind-sub000/internal/schedule"
)

// Percent is the task's 0..100 completion for a date.
//
// Contract: only time and count tasks have a per-task percentage. Input
// tasks have no fixed personal target, so their completion is reported
// exclusively through the linked goal's projection; calling Percent on
// one returns 0 by definition, not by accident.
func Percent(t model.Task, day time.Time) float64 {
	rec := t.ProgressOn(dates.Key(day))

	switch t.TaskType {
	case model.TaskCount:
		if t.TargetCount <= 0 {
			return 0
		}
		return clamp(float64(rec.CountValue()) / float64(t.TargetCount) * 100)
	case model.TaskTime:
		if t.PlannedMinutes <= 0 {
			return 0
		}
		return clamp(float64(rec.TimeSpentSeconds()) / (float64(t.PlannedMinutes) * 60) * 100)
	default:
		return 0
	}
}

// HasData reports whether the task belongs on a date's list: either it
// is scheduled there, or it has positive recorded time/count progress.
// A task completed on a date and later rescheduled or excluded stays
// visible for that date. Input history does not count here.
func HasData(t model.Task, day time.Time) bool {
	if schedule.IsScheduled(t, day) {
		return true
	}
	rec := t.ProgressOn(dates.Key(day))
	switch t.TaskType {
	case model.TaskTime:
		return rec.TimeSpentSeconds() > 0
	case model.TaskCount:
		return rec.CountValue() > 0
	}
	return false
}

// PresentOn filters the collection to the tasks that appear on a date,
// keeping the input order. The input slice is never mutated.
func PresentOn(tasks []model.Task, day time.Time) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if HasData(t, day) {
			out = append(out, t)
		}
	}
	return out
}

// DayAggregate averages Percent over the tasks present on a date, every
// present task weighted equally. An empty day aggregates to 0.
func DayAggregate(tasks []model.Task, day time.Time) float64 {
	present := PresentOn(tasks, day)
	if len(present) == 0 {
		return 0
	}
	total := 0.0
	for _, t := range present {
		total += Percent(t, day)
	}
	return total / float64(len(present))
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
