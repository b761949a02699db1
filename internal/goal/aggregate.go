// Package goal recomputes goal progress from linked task histories and
// derives the display projection per goal type.
package goal

import (
	"github.com/a-bunting/daily-grind-sub000/internal/model"
)

// Recompute folds the full progress history of every input task linked
// to the goal into its cumulative total and personal best. It is a pure
// function of the snapshot: deterministic, idempotent, and independent
// of traversal order (sum and max commute). The stored goal fields are
// cached projections; whatever they held before is overwritten.
func Recompute(g model.Goal, tasks []model.Task) model.Goal {
	var cumulative, best float64
	for _, t := range tasks {
		if t.GoalID != g.ID || t.TaskType != model.TaskInput {
			continue
		}
		for _, rec := range t.DailyProgress {
			v := rec.InputAmount()
			if v <= 0 {
				continue
			}
			cumulative += v
			if v > best {
				best = v
			}
		}
	}
	g.CurrentProgress = cumulative
	g.PersonalBestProgress = best
	return g
}

// RecomputeAll returns a fresh slice of recomputed goals; the input is
// not mutated.
func RecomputeAll(goals []model.Goal, tasks []model.Task) []model.Goal {
	out := make([]model.Goal, len(goals))
	for i, g := range goals {
		out[i] = Recompute(g, tasks)
	}
	return out
}
