package model

// Progress is the per-task, per-date record. Exactly one of the three
// variants is set, matching the task's type; which variant a writer fills
// in is decided by TaskType, and readers go through the accessors so a
// missing or mismatched record degrades to zero instead of failing.
type Progress struct {
	Time  *TimeProgress  `json:"time,omitempty"`
	Count *CountProgress `json:"count,omitempty"`
	Input *InputProgress `json:"input,omitempty"`
}

type TimeProgress struct {
	TimeSpent int    `json:"timeSpent"` // seconds
	IsRunning bool   `json:"isRunning"`
	StartTime *int64 `json:"startTime,omitempty"` // epoch millis
}

type CountProgress struct {
	CurrentCount int `json:"currentCount"`
}

type InputProgress struct {
	InputValue float64 `json:"inputValue"`
}

func (p Progress) TimeSpentSeconds() int {
	if p.Time == nil {
		return 0
	}
	return p.Time.TimeSpent
}

func (p Progress) Running() bool {
	return p.Time != nil && p.Time.IsRunning
}

func (p Progress) CountValue() int {
	if p.Count == nil {
		return 0
	}
	return p.Count.CurrentCount
}

func (p Progress) InputAmount() float64 {
	if p.Input == nil {
		return 0
	}
	return p.Input.InputValue
}

// IsZero reports whether the record carries no data at all.
func (p Progress) IsZero() bool {
	return p.Time == nil && p.Count == nil && p.Input == nil
}

func TimeRecord(seconds int) Progress {
	return Progress{Time: &TimeProgress{TimeSpent: seconds}}
}

func CountRecord(count int) Progress {
	return Progress{Count: &CountProgress{CurrentCount: count}}
}

func InputRecord(value float64) Progress {
	return Progress{Input: &InputProgress{InputValue: value}}
}
