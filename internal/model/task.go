package model

import (
	"slices"
	"time"
)

type TaskID string

type TaskType string

const (
	TaskTime  TaskType = "time"
	TaskCount TaskType = "count"
	TaskInput TaskType = "input"
)

type ScheduleType string

const (
	ScheduleWeekly   ScheduleType = "weekly"
	ScheduleMonthly  ScheduleType = "monthly"
	ScheduleInterval ScheduleType = "interval"
)

type MonthlyWeek string

const (
	WeekFirst  MonthlyWeek = "first"
	WeekSecond MonthlyWeek = "second"
	WeekThird  MonthlyWeek = "third"
	WeekFourth MonthlyWeek = "fourth"
	WeekLast   MonthlyWeek = "last"
)

// Task is a recurring or one-off unit of work. Date-valued fields hold
// YYYY-MM-DD keys; weekday indices run 0=Sunday..6=Saturday.
type Task struct {
	ID       TaskID   `json:"id"`
	Name     string   `json:"name"`
	TaskType TaskType `json:"taskType"`

	PlannedMinutes int    `json:"plannedMinutes,omitempty"`
	TargetCount    int    `json:"targetCount,omitempty"`
	Unit           string `json:"unit,omitempty"`

	ScheduleType  ScheduleType  `json:"scheduleType"`
	SelectedDays  []int         `json:"selectedDays,omitempty"`
	MonthlyDays   []int         `json:"monthlyDays,omitempty"`
	MonthlyTypes  []MonthlyWeek `json:"monthlyTypes,omitempty"`
	IntervalWeeks int           `json:"intervalWeeks,omitempty"`

	StartDate     string   `json:"startDate,omitempty"`
	EndDate       *string  `json:"endDate,omitempty"`
	ExcludedDates []string `json:"excludedDates,omitempty"`
	OneOffDates   []string `json:"oneOffDates,omitempty"`

	// DailyProgress holds one record per date the user interacted with.
	// A missing key means no recorded progress, never an error.
	DailyProgress map[string]Progress `json:"dailyProgress,omitempty"`

	CategoryID CategoryID `json:"categoryId,omitempty"`
	SectionID  SectionID  `json:"sectionId,omitempty"`
	GoalID     GoalID     `json:"goalId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t *Task) IsExcluded(dateKey string) bool {
	return slices.Contains(t.ExcludedDates, dateKey)
}

func (t *Task) IsOneOff(dateKey string) bool {
	return slices.Contains(t.OneOffDates, dateKey)
}

func (t *Task) HasWeekday(weekday int) bool {
	return slices.Contains(t.SelectedDays, weekday)
}

func (t *Task) HasMonthlyWeekday(weekday int) bool {
	return slices.Contains(t.MonthlyDays, weekday)
}

// ProgressOn returns the progress record for a date key, or the zero
// record when none exists.
func (t *Task) ProgressOn(dateKey string) Progress {
	if t.DailyProgress == nil {
		return Progress{}
	}
	return t.DailyProgress[dateKey]
}
