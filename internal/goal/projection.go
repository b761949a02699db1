package goal

import (
	"fmt"
	"strconv"

	"github.com/a-bunting/daily-grind-sub000/internal/model"
)

// Display is what a goal dashboard renders for one goal.
type Display struct {
	Current    float64 `json:"current"`
	Percentage float64 `json:"percentage"`
	Label      string  `json:"label"`
	Secondary  string  `json:"secondary,omitempty"`
}

// Projection derives the display values from a recomputed goal. A
// target of zero is floored to 1, the same convention every percentage
// denominator in the engine uses.
func Projection(g model.Goal) Display {
	target := g.TargetValue
	if target <= 0 {
		target = 1
	}

	if g.GoalType == model.GoalPersonalBest {
		d := Display{
			Current:    g.PersonalBestProgress,
			Percentage: capPct(g.PersonalBestProgress / target * 100),
			Label:      fmt.Sprintf("Best: %s/%s %s", num(g.PersonalBestProgress), num(target), g.Unit),
		}
		if g.CurrentProgress > 0 {
			d.Secondary = fmt.Sprintf("%s %s total", num(g.CurrentProgress), g.Unit)
		}
		return d
	}

	d := Display{
		Current:    g.CurrentProgress,
		Percentage: capPct(g.CurrentProgress / target * 100),
		Label:      fmt.Sprintf("%s/%s %s", num(g.CurrentProgress), num(target), g.Unit),
	}
	if g.PersonalBestProgress > 0 {
		d.Secondary = fmt.Sprintf("Best session: %s %s", num(g.PersonalBestProgress), g.Unit)
	}
	return d
}

func capPct(v float64) float64 {
	if v > 100 {
		return 100
	}
	if v < 0 {
		return 0
	}
	return v
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
