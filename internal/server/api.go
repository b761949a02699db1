package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/a-bunting/daily-grind-sub000/internal/analytics"
	"github.com/a-bunting/daily-grind-sub000/internal/dates"
	"github.com/a-bunting/daily-grind-sub000/internal/goal"
	"github.com/a-bunting/daily-grind-sub000/internal/model"
	"github.com/a-bunting/daily-grind-sub000/internal/progress"
	"github.com/a-bunting/daily-grind-sub000/internal/schedule"
	"github.com/a-bunting/daily-grind-sub000/internal/section"
	"github.com/a-bunting/daily-grind-sub000/internal/store"
	"github.com/a-bunting/daily-grind-sub000/internal/task"
)

// App holds what the derived-view handlers depend on: the task
// repository for snapshots and the store for the other collections.
type App struct {
	Tasks task.Repo
	Store *store.Store
	Log   zerolog.Logger
}

// RecomputeGoals rescans every goal against the current task snapshot
// and persists the derived fields. Run after any task mutation; the
// fold is idempotent, so redundant runs are harmless.
func (a *App) RecomputeGoals() {
	tasks, err := a.Tasks.List(task.ListFilter{})
	if err != nil {
		a.Log.Error().Err(err).Msg("recompute goals: list tasks")
		return
	}
	goals, err := a.Store.ListGoals()
	if err != nil {
		a.Log.Error().Err(err).Msg("recompute goals: list goals")
		return
	}
	for _, g := range goal.RecomputeAll(goals, tasks) {
		if err := a.Store.SaveGoal(g); err != nil {
			a.Log.Error().Err(err).Str("goal", string(g.ID)).Msg("recompute goals: save")
		}
	}
}

func RegisterAPIRoutes(mux *http.ServeMux, rr *RouteRegistry, app *App) {
	Handle(mux, rr, "GET /api/day/{date}", "tasks present on a date, grouped by section", app.dayView)
	Handle(mux, rr, "GET /api/analytics", "completion summary over a date range", app.analytics)

	Handle(mux, rr, "GET /api/goals", "goals with recomputed progress and projections", app.listGoals)
	Handle(mux, rr, "PUT /api/goals/{id}", "create or replace a goal", app.saveGoal)
	Handle(mux, rr, "DELETE /api/goals/{id}", "delete a goal", app.deleteGoal)

	Handle(mux, rr, "GET /api/sections", "ordered section list", app.listSections)
	Handle(mux, rr, "PUT /api/sections", "replace the ordered section list", app.saveSections)
	Handle(mux, rr, "POST /api/sections/{id}/tasks", "manually place a task in a section", app.moveTask)

	Handle(mux, rr, "GET /api/categories", "category list", app.listCategories)
	Handle(mux, rr, "PUT /api/categories/{id}", "create or replace a category", app.saveCategory)
	Handle(mux, rr, "DELETE /api/categories/{id}", "delete a category", app.deleteCategory)

	Handle(mux, rr, "GET /api/routes", "this listing", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, rr.List())
	})
}

type dayTask struct {
	Task      model.Task `json:"task"`
	Scheduled bool       `json:"scheduled"`
	Percent   float64    `json:"percent"`
}

type daySection struct {
	Section model.Section `json:"section"`
	Tasks   []dayTask     `json:"tasks"`
}

type dayView struct {
	Date      string       `json:"date"`
	Aggregate float64      `json:"aggregate"`
	Sections  []daySection `json:"sections"`
}

func (a *App) dayView(w http.ResponseWriter, r *http.Request) {
	day, ok := dates.Parse(r.PathValue("date"))
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		return
	}

	tasks, err := a.Tasks.List(task.ListFilter{})
	if err != nil {
		a.fail(w, err)
		return
	}
	sections, err := a.Store.ListSections()
	if err != nil {
		a.fail(w, err)
		return
	}
	if len(sections) == 0 {
		sections = []model.Section{section.Fallback()}
	}

	present := progress.PresentOn(tasks, day)
	view := dayView{
		Date:      dates.Key(day),
		Aggregate: progress.DayAggregate(present, day),
	}
	for _, sec := range sections {
		group := daySection{Section: sec, Tasks: []dayTask{}}
		for _, t := range section.TasksIn(sec, sections, present) {
			group.Tasks = append(group.Tasks, dayTask{
				Task:      t,
				Scheduled: schedule.IsScheduled(t, day),
				Percent:   progress.Percent(t, day),
			})
		}
		view.Sections = append(view.Sections, group)
	}
	writeJSON(w, http.StatusOK, view)
}

func (a *App) analytics(w http.ResponseWriter, r *http.Request) {
	to := time.Now()
	from := to.AddDate(0, 0, -29)
	if v := r.URL.Query().Get("from"); v != "" {
		d, ok := dates.Parse(v)
		if !ok {
			writeErr(w, http.StatusBadRequest, "invalid from date")
			return
		}
		from = d
	}
	if v := r.URL.Query().Get("to"); v != "" {
		d, ok := dates.Parse(v)
		if !ok {
			writeErr(w, http.StatusBadRequest, "invalid to date")
			return
		}
		to = d
	}

	tasks, err := a.Tasks.List(task.ListFilter{})
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics.Compute(tasks, from, to))
}

type goalView struct {
	Goal    model.Goal   `json:"goal"`
	Display goal.Display `json:"display"`
}

func (a *App) listGoals(w http.ResponseWriter, r *http.Request) {
	tasks, err := a.Tasks.List(task.ListFilter{})
	if err != nil {
		a.fail(w, err)
		return
	}
	goals, err := a.Store.ListGoals()
	if err != nil {
		a.fail(w, err)
		return
	}

	out := make([]goalView, 0, len(goals))
	for _, g := range goal.RecomputeAll(goals, tasks) {
		if err := a.Store.SaveGoal(g); err != nil {
			a.fail(w, err)
			return
		}
		out = append(out, goalView{Goal: g, Display: goal.Projection(g)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *App) saveGoal(w http.ResponseWriter, r *http.Request) {
	var g model.Goal
	if err := decodeJSON(r, &g); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid goal body")
		return
	}
	g.ID = model.GoalID(r.PathValue("id"))
	if g.ID == "" {
		writeErr(w, http.StatusBadRequest, "goal id is required")
		return
	}
	if err := a.Store.SaveGoal(g); err != nil {
		a.fail(w, err)
		return
	}
	a.RecomputeGoals()
	writeJSON(w, http.StatusOK, g)
}

func (a *App) deleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := a.Store.DeleteGoal(model.GoalID(r.PathValue("id"))); err != nil {
		a.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) listSections(w http.ResponseWriter, r *http.Request) {
	sections, err := a.Store.ListSections()
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sections)
}

func (a *App) saveSections(w http.ResponseWriter, r *http.Request) {
	var sections []model.Section
	if err := decodeJSON(r, &sections); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid sections body")
		return
	}
	if err := a.Store.SaveSections(sections); err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sections)
}

func (a *App) moveTask(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TaskID   model.TaskID `json:"taskId"`
		Position *int         `json:"position,omitempty"`
	}
	if err := decodeJSON(r, &body); err != nil || body.TaskID == "" {
		writeErr(w, http.StatusBadRequest, "invalid move body, want {taskId, position?}")
		return
	}
	position := -1
	if body.Position != nil {
		position = *body.Position
	}
	err := a.Store.MoveTask(body.TaskID, model.SectionID(r.PathValue("id")), position)
	if err != nil {
		a.fail(w, err)
		return
	}
	sections, err := a.Store.ListSections()
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sections)
}

func (a *App) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := a.Store.ListCategories()
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (a *App) saveCategory(w http.ResponseWriter, r *http.Request) {
	var c model.Category
	if err := decodeJSON(r, &c); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid category body")
		return
	}
	c.ID = model.CategoryID(r.PathValue("id"))
	if c.ID == "" {
		writeErr(w, http.StatusBadRequest, "category id is required")
		return
	}
	if err := a.Store.SaveCategory(c); err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (a *App) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := a.Store.DeleteCategory(model.CategoryID(r.PathValue("id"))); err != nil {
		a.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, task.ErrNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	default:
		a.Log.Error().Err(err).Msg("api error")
		writeErr(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}
