package task

import (
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/a-bunting/daily-grind-sub000/internal/dates"
	"github.com/a-bunting/daily-grind-sub000/internal/model"
	"github.com/a-bunting/daily-grind-sub000/internal/schedule"
)

var (
	ErrNotFound   = errors.New("task not found")
	ErrBadDateKey = errors.New("invalid date key")
)

// Patch is a partial update.
// nil pointer => "no change"
// empty string for EndDate/CategoryID/GoalID => clear (set to none)
type Patch struct {
	Name     *string         `json:"name,omitempty"`
	TaskType *model.TaskType `json:"taskType,omitempty"`

	PlannedMinutes *int    `json:"plannedMinutes,omitempty"`
	TargetCount    *int    `json:"targetCount,omitempty"`
	Unit           *string `json:"unit,omitempty"`

	ScheduleType  *model.ScheduleType  `json:"scheduleType,omitempty"`
	SelectedDays  *[]int               `json:"selectedDays,omitempty"`
	MonthlyDays   *[]int               `json:"monthlyDays,omitempty"`
	MonthlyTypes  *[]model.MonthlyWeek `json:"monthlyTypes,omitempty"`
	IntervalWeeks *int                 `json:"intervalWeeks,omitempty"`

	StartDate *string `json:"startDate,omitempty"`
	EndDate   *string `json:"endDate,omitempty"`

	CategoryID *string `json:"categoryId,omitempty"`
	GoalID     *string `json:"goalId,omitempty"`
}

// ListFilter narrows List results. Zero values mean "don't care".
type ListFilter struct {
	// Type: "" | "time" | "count" | "input"
	Type string

	// Category / Goal: exact id match.
	Category string
	Goal     string

	// ScheduledOn: a date key; keeps only tasks due on that date.
	ScheduledOn string
}

func (f ListFilter) matches(t model.Task) bool {
	if f.Type != "" && t.TaskType != model.TaskType(f.Type) {
		return false
	}
	if f.Category != "" && t.CategoryID != model.CategoryID(f.Category) {
		return false
	}
	if f.Goal != "" && t.GoalID != model.GoalID(f.Goal) {
		return false
	}
	if f.ScheduledOn != "" {
		day, ok := dates.Parse(f.ScheduledOn)
		if !ok {
			return false
		}
		if !schedule.IsScheduled(t, day) {
			return false
		}
	}
	return true
}

// Repo owns Task records. The engine packages only ever see snapshots
// handed out by List/Get; every mutation funnels through here.
type Repo interface {
	Create(t model.Task) (model.Task, error)
	Get(id model.TaskID) (model.Task, error)
	Update(id model.TaskID, p Patch) (model.Task, error)
	Delete(id model.TaskID) error
	List(filter ListFilter) ([]model.Task, error)

	// SetProgress replaces the progress record for one date.
	SetProgress(id model.TaskID, dateKey string, rec model.Progress) (model.Task, error)
	// SkipDate excludes a date, removing any one-off for it.
	SkipDate(id model.TaskID, dateKey string) (model.Task, error)
	// AddOneOff forces a date due, removing any exclusion for it.
	AddOneOff(id model.TaskID, dateKey string) (model.Task, error)
	// StartTimer/StopTimer drive a time task's running stopwatch.
	StartTimer(id model.TaskID, dateKey string, now time.Time) (model.Task, error)
	StopTimer(id model.TaskID, dateKey string, now time.Time) (model.Task, error)
}

func newID() model.TaskID {
	return model.TaskID("task_" + uuid.NewString())
}

func normalizeTask(t *model.Task) {
	if t.TaskType == "" {
		t.TaskType = model.TaskCount
	}
	if t.ScheduleType == "" {
		t.ScheduleType = model.ScheduleWeekly
	}
	if t.SelectedDays == nil {
		t.SelectedDays = []int{}
	}
	if t.ExcludedDates == nil {
		t.ExcludedDates = []string{}
	}
	if t.OneOffDates == nil {
		t.OneOffDates = []string{}
	}
	if t.DailyProgress == nil {
		t.DailyProgress = map[string]model.Progress{}
	}
}

func applyPatch(t *model.Task, p Patch) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.TaskType != nil {
		t.TaskType = *p.TaskType
	}
	if p.PlannedMinutes != nil {
		t.PlannedMinutes = *p.PlannedMinutes
	}
	if p.TargetCount != nil {
		t.TargetCount = *p.TargetCount
	}
	if p.Unit != nil {
		t.Unit = *p.Unit
	}
	if p.ScheduleType != nil {
		t.ScheduleType = *p.ScheduleType
	}
	if p.SelectedDays != nil {
		t.SelectedDays = slices.Clone(*p.SelectedDays)
	}
	if p.MonthlyDays != nil {
		t.MonthlyDays = slices.Clone(*p.MonthlyDays)
	}
	if p.MonthlyTypes != nil {
		t.MonthlyTypes = slices.Clone(*p.MonthlyTypes)
	}
	if p.IntervalWeeks != nil {
		t.IntervalWeeks = *p.IntervalWeeks
	}
	if p.StartDate != nil {
		t.StartDate = *p.StartDate
	}

	// pointer string fields with "empty clears" semantics
	if p.EndDate != nil {
		if *p.EndDate == "" {
			t.EndDate = nil
		} else {
			end := *p.EndDate
			t.EndDate = &end
		}
	}
	if p.CategoryID != nil {
		t.CategoryID = model.CategoryID(*p.CategoryID)
	}
	if p.GoalID != nil {
		t.GoalID = model.GoalID(*p.GoalID)
	}
}

func applySkip(t *model.Task, dateKey string) {
	t.OneOffDates = remove(t.OneOffDates, dateKey)
	if !slices.Contains(t.ExcludedDates, dateKey) {
		t.ExcludedDates = append(t.ExcludedDates, dateKey)
	}
}

func applyOneOff(t *model.Task, dateKey string) {
	t.ExcludedDates = remove(t.ExcludedDates, dateKey)
	if !slices.Contains(t.OneOffDates, dateKey) {
		t.OneOffDates = append(t.OneOffDates, dateKey)
	}
}

func applyStartTimer(t *model.Task, dateKey string, now time.Time) {
	rec := t.DailyProgress[dateKey]
	if rec.Time == nil {
		rec.Time = &model.TimeProgress{}
	}
	if rec.Time.IsRunning {
		return
	}
	start := now.UnixMilli()
	rec.Time.IsRunning = true
	rec.Time.StartTime = &start
	t.DailyProgress[dateKey] = rec
}

func applyStopTimer(t *model.Task, dateKey string, now time.Time) {
	rec := t.DailyProgress[dateKey]
	if rec.Time == nil || !rec.Time.IsRunning {
		return
	}
	if rec.Time.StartTime != nil {
		elapsed := int((now.UnixMilli() - *rec.Time.StartTime) / 1000)
		if elapsed > 0 {
			rec.Time.TimeSpent += elapsed
		}
	}
	rec.Time.IsRunning = false
	rec.Time.StartTime = nil
	t.DailyProgress[dateKey] = rec
}

func remove(keys []string, key string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != key {
			out = append(out, k)
		}
	}
	return out
}

func validDateKey(key string) bool {
	_, ok := dates.Parse(key)
	return ok
}

// cloneTask deep-copies the mutable collections so repo snapshots can
// never alias internal state.
func cloneTask(t model.Task) model.Task {
	t.SelectedDays = slices.Clone(t.SelectedDays)
	t.MonthlyDays = slices.Clone(t.MonthlyDays)
	t.MonthlyTypes = slices.Clone(t.MonthlyTypes)
	t.ExcludedDates = slices.Clone(t.ExcludedDates)
	t.OneOffDates = slices.Clone(t.OneOffDates)
	if t.DailyProgress != nil {
		progress := make(map[string]model.Progress, len(t.DailyProgress))
		for k, rec := range t.DailyProgress {
			progress[k] = cloneProgress(rec)
		}
		t.DailyProgress = progress
	}
	if t.EndDate != nil {
		end := *t.EndDate
		t.EndDate = &end
	}
	return t
}

func cloneProgress(p model.Progress) model.Progress {
	if p.Time != nil {
		tp := *p.Time
		if tp.StartTime != nil {
			start := *tp.StartTime
			tp.StartTime = &start
		}
		p.Time = &tp
	}
	if p.Count != nil {
		cp := *p.Count
		p.Count = &cp
	}
	if p.Input != nil {
		ip := *p.Input
		p.Input = &ip
	}
	return p
}
