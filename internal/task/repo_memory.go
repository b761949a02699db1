package task

import (
	"sort"
	"sync"
	"time"

	"github.com/a-bunting/daily-grind-sub000/internal/model"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	tasks map[model.TaskID]model.Task
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{tasks: map[model.TaskID]model.Task{}}
}

func (r *MemoryRepo) Create(t model.Task) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	t.ID = newID()
	t.CreatedAt = now
	t.UpdatedAt = now
	normalizeTask(&t)

	r.tasks[t.ID] = cloneTask(t)
	return t, nil
}

func (r *MemoryRepo) Get(id model.TaskID) (model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return model.Task{}, ErrNotFound
	}
	return cloneTask(t), nil
}

func (r *MemoryRepo) Update(id model.TaskID, p Patch) (model.Task, error) {
	return r.mutate(id, func(t *model.Task) { applyPatch(t, p) })
}

func (r *MemoryRepo) Delete(id model.TaskID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *MemoryRepo) List(filter ListFilter) ([]model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		if !filter.matches(t) {
			continue
		}
		out = append(out, cloneTask(t))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MemoryRepo) SetProgress(id model.TaskID, dateKey string, rec model.Progress) (model.Task, error) {
	if !validDateKey(dateKey) {
		return model.Task{}, ErrBadDateKey
	}
	return r.mutate(id, func(t *model.Task) {
		if rec.IsZero() {
			delete(t.DailyProgress, dateKey)
			return
		}
		t.DailyProgress[dateKey] = cloneProgress(rec)
	})
}

func (r *MemoryRepo) SkipDate(id model.TaskID, dateKey string) (model.Task, error) {
	if !validDateKey(dateKey) {
		return model.Task{}, ErrBadDateKey
	}
	return r.mutate(id, func(t *model.Task) { applySkip(t, dateKey) })
}

func (r *MemoryRepo) AddOneOff(id model.TaskID, dateKey string) (model.Task, error) {
	if !validDateKey(dateKey) {
		return model.Task{}, ErrBadDateKey
	}
	return r.mutate(id, func(t *model.Task) { applyOneOff(t, dateKey) })
}

func (r *MemoryRepo) StartTimer(id model.TaskID, dateKey string, now time.Time) (model.Task, error) {
	if !validDateKey(dateKey) {
		return model.Task{}, ErrBadDateKey
	}
	return r.mutate(id, func(t *model.Task) { applyStartTimer(t, dateKey, now) })
}

func (r *MemoryRepo) StopTimer(id model.TaskID, dateKey string, now time.Time) (model.Task, error) {
	if !validDateKey(dateKey) {
		return model.Task{}, ErrBadDateKey
	}
	return r.mutate(id, func(t *model.Task) { applyStopTimer(t, dateKey, now) })
}

func (r *MemoryRepo) mutate(id model.TaskID, fn func(*model.Task)) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return model.Task{}, ErrNotFound
	}
	normalizeTask(&t)
	fn(&t)
	t.UpdatedAt = time.Now()

	r.tasks[id] = t
	return cloneTask(t), nil
}
