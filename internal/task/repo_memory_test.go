package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a-bunting/daily-grind-sub000/internal/model"
)

func TestMemoryRepo_CreateDefaults(t *testing.T) {
	r := NewMemoryRepo()

	created, err := r.Create(model.Task{Name: "morning pages"})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.TaskCount, created.TaskType)
	assert.Equal(t, model.ScheduleWeekly, created.ScheduleType)
	assert.NotNil(t, created.DailyProgress)
}

func TestMemoryRepo_UniqueIDs(t *testing.T) {
	r := NewMemoryRepo()

	seen := map[model.TaskID]bool{}
	for range 50 {
		created, err := r.Create(model.Task{Name: "x"})
		require.NoError(t, err)
		assert.False(t, seen[created.ID])
		seen[created.ID] = true
	}
}

func TestMemoryRepo_UpdatePatchSemantics(t *testing.T) {
	r := NewMemoryRepo()
	created, err := r.Create(model.Task{Name: "run", TaskType: model.TaskTime, PlannedMinutes: 30})
	require.NoError(t, err)

	end := "2024-06-30"
	name := "long run"
	updated, err := r.Update(created.ID, Patch{Name: &name, EndDate: &end})
	require.NoError(t, err)
	assert.Equal(t, "long run", updated.Name)
	require.NotNil(t, updated.EndDate)
	assert.Equal(t, end, *updated.EndDate)
	// untouched fields survive
	assert.Equal(t, 30, updated.PlannedMinutes)

	// empty string clears the pointer field
	clear := ""
	updated, err = r.Update(created.ID, Patch{EndDate: &clear})
	require.NoError(t, err)
	assert.Nil(t, updated.EndDate)
}

func TestMemoryRepo_UpdateUnknownID(t *testing.T) {
	r := NewMemoryRepo()
	_, err := r.Update("task_missing", Patch{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepo_SetProgress(t *testing.T) {
	r := NewMemoryRepo()
	created, err := r.Create(model.Task{Name: "pushups", TargetCount: 20})
	require.NoError(t, err)

	updated, err := r.SetProgress(created.ID, "2024-01-03", model.CountRecord(12))
	require.NoError(t, err)
	assert.Equal(t, 12, updated.ProgressOn("2024-01-03").CountValue())

	// a zero record removes the entry instead of storing noise
	updated, err = r.SetProgress(created.ID, "2024-01-03", model.Progress{})
	require.NoError(t, err)
	_, exists := updated.DailyProgress["2024-01-03"]
	assert.False(t, exists)
}

func TestMemoryRepo_SetProgressRejectsBadKey(t *testing.T) {
	r := NewMemoryRepo()
	created, _ := r.Create(model.Task{Name: "x"})

	_, err := r.SetProgress(created.ID, "03/01/2024", model.CountRecord(1))
	assert.ErrorIs(t, err, ErrBadDateKey)
}

func TestMemoryRepo_SkipAndOneOffAreExclusive(t *testing.T) {
	r := NewMemoryRepo()
	created, err := r.Create(model.Task{Name: "x"})
	require.NoError(t, err)

	updated, err := r.SkipDate(created.ID, "2024-01-03")
	require.NoError(t, err)
	assert.True(t, updated.IsExcluded("2024-01-03"))

	updated, err = r.AddOneOff(created.ID, "2024-01-03")
	require.NoError(t, err)
	assert.True(t, updated.IsOneOff("2024-01-03"))
	assert.False(t, updated.IsExcluded("2024-01-03"))

	updated, err = r.SkipDate(created.ID, "2024-01-03")
	require.NoError(t, err)
	assert.False(t, updated.IsOneOff("2024-01-03"))
	assert.True(t, updated.IsExcluded("2024-01-03"))
}

func TestMemoryRepo_TimerRoundTrip(t *testing.T) {
	r := NewMemoryRepo()
	created, err := r.Create(model.Task{Name: "focus", TaskType: model.TaskTime, PlannedMinutes: 25})
	require.NoError(t, err)

	start := time.Date(2024, 1, 3, 9, 0, 0, 0, time.Local)
	running, err := r.StartTimer(created.ID, "2024-01-03", start)
	require.NoError(t, err)
	assert.True(t, running.ProgressOn("2024-01-03").Running())

	// starting again while running is a no-op
	again, err := r.StartTimer(created.ID, "2024-01-03", start.Add(5*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, running.ProgressOn("2024-01-03").Time.StartTime, again.ProgressOn("2024-01-03").Time.StartTime)

	stopped, err := r.StopTimer(created.ID, "2024-01-03", start.Add(10*time.Minute))
	require.NoError(t, err)
	rec := stopped.ProgressOn("2024-01-03")
	assert.False(t, rec.Running())
	assert.Equal(t, 600, rec.TimeSpentSeconds())

	// stopping a stopped timer changes nothing
	stopped, err = r.StopTimer(created.ID, "2024-01-03", start.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 600, stopped.ProgressOn("2024-01-03").TimeSpentSeconds())
}

func TestMemoryRepo_SnapshotsDoNotAlias(t *testing.T) {
	r := NewMemoryRepo()
	created, err := r.Create(model.Task{Name: "x", TargetCount: 5})
	require.NoError(t, err)
	_, err = r.SetProgress(created.ID, "2024-01-03", model.CountRecord(2))
	require.NoError(t, err)

	snap, err := r.Get(created.ID)
	require.NoError(t, err)
	snap.DailyProgress["2024-01-03"] = model.CountRecord(99)
	snap.ExcludedDates = append(snap.ExcludedDates, "2024-01-04")

	fresh, err := r.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.ProgressOn("2024-01-03").CountValue())
	assert.False(t, fresh.IsExcluded("2024-01-04"))
}

func TestMemoryRepo_Delete(t *testing.T) {
	r := NewMemoryRepo()
	created, _ := r.Create(model.Task{Name: "x"})

	require.NoError(t, r.Delete(created.ID))
	_, err := r.Get(created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, r.Delete(created.ID), ErrNotFound)
}

func TestMemoryRepo_ListOrderedByCreation(t *testing.T) {
	r := NewMemoryRepo()
	a, _ := r.Create(model.Task{Name: "a"})
	b, _ := r.Create(model.Task{Name: "b"})

	tasks, err := r.List(ListFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	ids := []model.TaskID{tasks[0].ID, tasks[1].ID}
	assert.Contains(t, ids, a.ID)
	assert.Contains(t, ids, b.ID)
}

func TestMemoryRepo_ListFilters(t *testing.T) {
	r := NewMemoryRepo()
	walk, err := r.Create(model.Task{
		Name:         "walk",
		TaskType:     model.TaskCount,
		CategoryID:   "cat_health",
		SelectedDays: []int{3},
	})
	require.NoError(t, err)
	_, err = r.Create(model.Task{
		Name:     "journal",
		TaskType: model.TaskInput,
		GoalID:   "goal_pages",
	})
	require.NoError(t, err)

	byType, err := r.List(ListFilter{Type: "input"})
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, "journal", byType[0].Name)

	byCategory, err := r.List(ListFilter{Category: "cat_health"})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, walk.ID, byCategory[0].ID)

	byGoal, err := r.List(ListFilter{Goal: "goal_pages"})
	require.NoError(t, err)
	require.Len(t, byGoal, 1)
	assert.Equal(t, "journal", byGoal[0].Name)

	// 2024-01-03 is a Wednesday; only the weekly Wednesday task is due
	due, err := r.List(ListFilter{ScheduledOn: "2024-01-03"})
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, walk.ID, due[0].ID)

	// a malformed date key matches nothing
	none, err := r.List(ListFilter{ScheduledOn: "03/01/2024"})
	require.NoError(t, err)
	assert.Empty(t, none)
}
