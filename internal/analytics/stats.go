// Package analytics summarizes engine output over a date range for
// dashboards. Like the engine it is pure: a summary is a fold over the
// task snapshot, never over stored state.
package analytics

import (
	"time"

	"github.com/a-bunting/daily-grind-sub000/internal/dates"
	"github.com/a-bunting/daily-grind-sub000/internal/model"
	"github.com/a-bunting/daily-grind-sub000/internal/progress"
)

const fullDay = 100.0

type DayStat struct {
	Date      string  `json:"date"`
	Present   int     `json:"present"`
	Completed int     `json:"completed"`
	Aggregate float64 `json:"aggregate"`
}

type Summary struct {
	From string `json:"from"`
	To   string `json:"to"`

	Days          []DayStat `json:"days"`
	ActiveDays    int       `json:"active_days"`
	PerfectDays   int       `json:"perfect_days"`
	AvgCompletion float64   `json:"avg_completion"`

	CurrentStreak int `json:"current_streak"`
	BestStreak    int `json:"best_streak"`
}

// Compute walks every calendar day from from to to (inclusive) and
// summarizes per-day aggregates. A day counts as active when any task
// is present on it; a perfect day is an active day whose tasks are all
// complete. Streaks count consecutive perfect days, skipping inactive
// days, with the current streak measured back from the final day.
func Compute(tasks []model.Task, from, to time.Time) Summary {
	s := Summary{From: dates.Key(from), To: dates.Key(to)}
	if s.From > s.To {
		return s
	}

	total := 0.0
	streak := 0
	for d := from; dates.Key(d) <= s.To; d = d.AddDate(0, 0, 1) {
		present := progress.PresentOn(tasks, d)
		stat := DayStat{Date: dates.Key(d), Present: len(present)}
		for _, t := range present {
			if progress.Percent(t, d) >= fullDay {
				stat.Completed++
			}
		}
		if len(present) > 0 {
			stat.Aggregate = progress.DayAggregate(present, d)
			s.ActiveDays++
			total += stat.Aggregate

			if stat.Aggregate >= fullDay {
				s.PerfectDays++
				streak++
				if streak > s.BestStreak {
					s.BestStreak = streak
				}
			} else {
				streak = 0
			}
		}
		s.Days = append(s.Days, stat)
	}

	if s.ActiveDays > 0 {
		s.AvgCompletion = total / float64(s.ActiveDays)
	}
	s.CurrentStreak = streak
	return s
}
