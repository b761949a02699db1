package model

type GoalID string

type GoalType string

const (
	GoalCumulative   GoalType = "cumulative"
	GoalPersonalBest GoalType = "personalBest"
)

// Goal is a target value accumulated (or best-attempted) across the
// input tasks linked to it.
type Goal struct {
	ID          GoalID   `json:"id"`
	Name        string   `json:"name"`
	TargetValue float64  `json:"targetValue"`
	Unit        string   `json:"unit,omitempty"`
	GoalType    GoalType `json:"goalType"`

	// Derived projections, recomputed from linked task histories.
	// Anything written here from outside is overwritten on the next
	// recompute; they are caches, not source of truth.
	CurrentProgress      float64 `json:"currentProgress"`
	PersonalBestProgress float64 `json:"personalBestProgress"`

	CategoryID CategoryID `json:"categoryId,omitempty"`
}
