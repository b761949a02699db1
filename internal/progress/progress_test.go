package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/a-bunting/daily-grind-sub000/internal/dates"
	"github.com/a-bunting/daily-grind-sub000/internal/model"
)

func day(t *testing.T, key string) time.Time {
	t.Helper()
	d, ok := dates.Parse(key)
	if !ok {
		t.Fatalf("bad date key %q", key)
	}
	return d
}

func countTask(target int, progress map[string]model.Progress) model.Task {
	return model.Task{
		ID:            "c1",
		TaskType:      model.TaskCount,
		TargetCount:   target,
		ScheduleType:  model.ScheduleWeekly,
		SelectedDays:  []int{0, 1, 2, 3, 4, 5, 6},
		StartDate:     "2024-01-01",
		DailyProgress: progress,
	}
}

func TestPercent_CountClampsAtHundred(t *testing.T) {
	task := countTask(10, map[string]model.Progress{"2024-01-03": model.CountRecord(12)})
	assert.Equal(t, 100.0, Percent(task, day(t, "2024-01-03")))
}

func TestPercent_CountPartial(t *testing.T) {
	task := countTask(10, map[string]model.Progress{"2024-01-03": model.CountRecord(4)})
	assert.Equal(t, 40.0, Percent(task, day(t, "2024-01-03")))
}

func TestPercent_CountMissingRecordIsZero(t *testing.T) {
	task := countTask(10, nil)
	assert.Equal(t, 0.0, Percent(task, day(t, "2024-01-03")))
}

func TestPercent_CountZeroTargetGuards(t *testing.T) {
	task := countTask(0, map[string]model.Progress{"2024-01-03": model.CountRecord(5)})
	assert.Equal(t, 0.0, Percent(task, day(t, "2024-01-03")))
}

func TestPercent_Time(t *testing.T) {
	task := model.Task{
		TaskType:       model.TaskTime,
		PlannedMinutes: 30,
		DailyProgress:  map[string]model.Progress{"2024-01-03": model.TimeRecord(900)},
	}
	assert.Equal(t, 50.0, Percent(task, day(t, "2024-01-03")))

	task.DailyProgress["2024-01-03"] = model.TimeRecord(7200)
	assert.Equal(t, 100.0, Percent(task, day(t, "2024-01-03")))

	task.PlannedMinutes = 0
	assert.Equal(t, 0.0, Percent(task, day(t, "2024-01-03")))
}

func TestPercent_InputTasksHaveNoPercentage(t *testing.T) {
	task := model.Task{
		TaskType:      model.TaskInput,
		Unit:          "km",
		DailyProgress: map[string]model.Progress{"2024-01-03": model.InputRecord(12.5)},
	}
	// Input completion is only reported through the linked goal.
	assert.Equal(t, 0.0, Percent(task, day(t, "2024-01-03")))
}

func TestPercent_MonotonicAndClamped(t *testing.T) {
	prev := -1.0
	for count := 0; count <= 30; count++ {
		task := countTask(10, map[string]model.Progress{"2024-01-03": model.CountRecord(count)})
		got := Percent(task, day(t, "2024-01-03"))
		if got < prev {
			t.Fatalf("percent decreased at count=%d: %v -> %v", count, prev, got)
		}
		if got < 0 || got > 100 {
			t.Fatalf("percent out of range at count=%d: %v", count, got)
		}
		prev = got
	}
}

func TestHasData_ScheduledTaskIsPresent(t *testing.T) {
	task := countTask(10, nil)
	assert.True(t, HasData(task, day(t, "2024-01-03")))
}

func TestHasData_ExcludedDateWithProgressStaysVisible(t *testing.T) {
	task := countTask(10, map[string]model.Progress{"2024-01-03": model.CountRecord(10)})
	task.ExcludedDates = []string{"2024-01-03"}

	if !HasData(task, day(t, "2024-01-03")) {
		t.Fatalf("expected completed-then-excluded date to remain visible")
	}
}

func TestHasData_ZeroProgressDoesNotOverride(t *testing.T) {
	task := countTask(10, map[string]model.Progress{"2024-01-03": model.CountRecord(0)})
	task.ExcludedDates = []string{"2024-01-03"}

	assert.False(t, HasData(task, day(t, "2024-01-03")))
}

func TestHasData_InputHistoryDoesNotOverride(t *testing.T) {
	task := model.Task{
		TaskType:      model.TaskInput,
		ScheduleType:  model.ScheduleWeekly,
		SelectedDays:  []int{1},
		StartDate:     "2024-01-01",
		DailyProgress: map[string]model.Progress{"2024-01-03": model.InputRecord(5)},
	}
	// 2024-01-03 is a Wednesday; the logged input alone does not surface it.
	assert.False(t, HasData(task, day(t, "2024-01-03")))
}

func TestPresentOn(t *testing.T) {
	scheduled := countTask(10, nil)
	scheduled.ID = "a"
	unscheduled := countTask(10, nil)
	unscheduled.ID = "b"
	unscheduled.SelectedDays = nil

	got := PresentOn([]model.Task{scheduled, unscheduled}, day(t, "2024-01-03"))
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("unexpected present set: %+v", got)
	}
}

func TestDayAggregate_EmptyIsZero(t *testing.T) {
	assert.Equal(t, 0.0, DayAggregate(nil, day(t, "2024-01-03")))
}

func TestDayAggregate_SingleCompleteTaskIsHundred(t *testing.T) {
	task := countTask(10, map[string]model.Progress{"2024-01-03": model.CountRecord(10)})
	assert.Equal(t, 100.0, DayAggregate([]model.Task{task}, day(t, "2024-01-03")))
}

func TestDayAggregate_AveragesEqually(t *testing.T) {
	full := countTask(10, map[string]model.Progress{"2024-01-03": model.CountRecord(10)})
	full.ID = "a"
	half := model.Task{
		ID:             "b",
		TaskType:       model.TaskTime,
		PlannedMinutes: 10,
		ScheduleType:   model.ScheduleWeekly,
		SelectedDays:   []int{0, 1, 2, 3, 4, 5, 6},
		StartDate:      "2024-01-01",
		DailyProgress:  map[string]model.Progress{"2024-01-03": model.TimeRecord(300)},
	}

	assert.Equal(t, 75.0, DayAggregate([]model.Task{full, half}, day(t, "2024-01-03")))
}

func TestDayAggregate_DoesNotMutateInput(t *testing.T) {
	tasks := []model.Task{countTask(10, nil)}
	before := tasks[0]
	_ = DayAggregate(tasks, day(t, "2024-01-03"))
	assert.Equal(t, before, tasks[0])
}
