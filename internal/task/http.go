package task

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/a-bunting/daily-grind-sub000/internal/model"
)

type Handler struct {
	repo Repo
	log  zerolog.Logger

	// onChange runs after any successful mutation; the server wires it
	// to goal recomputation so derived goal fields stay fresh.
	onChange func()
}

func NewHandler(repo Repo, log zerolog.Logger) *Handler {
	return &Handler{repo: repo, log: log}
}

func (h *Handler) SetOnChange(fn func()) {
	h.onChange = fn
}

func (h *Handler) changed() {
	if h.onChange != nil {
		h.onChange()
	}
}

// RegisterFunc mounts one route. The server layer supplies it so this
// package stays independent of the route registry.
type RegisterFunc func(pattern, summary string, h http.HandlerFunc)

func (h *Handler) Register(reg RegisterFunc) {
	reg("GET /api/tasks", "list tasks (type/category/goal/scheduledOn filters)", h.list)
	reg("POST /api/tasks", "create a task", h.create)
	reg("GET /api/tasks/{id}", "fetch one task", h.get)
	reg("PATCH /api/tasks/{id}", "partially update a task", h.update)
	reg("DELETE /api/tasks/{id}", "delete a task", h.delete)
	reg("PUT /api/tasks/{id}/progress/{date}", "set a date's progress record", h.setProgress)
	reg("POST /api/tasks/{id}/skip/{date}", "exclude a date", h.skip)
	reg("POST /api/tasks/{id}/oneoff/{date}", "force a date due", h.oneOff)
	reg("POST /api/tasks/{id}/timer/{date}/start", "start the stopwatch", h.startTimer)
	reg("POST /api/tasks/{id}/timer/{date}/stop", "stop the stopwatch", h.stopTimer)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tasks, err := h.repo.List(ListFilter{
		Type:        q.Get("type"),
		Category:    q.Get("category"),
		Goal:        q.Get("goal"),
		ScheduledOn: q.Get("scheduledOn"),
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var t model.Task
	if err := decodeJSON(r, &t); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid task body")
		return
	}
	created, err := h.repo.Create(t)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.changed()
	h.log.Info().Str("task", string(created.ID)).Msg("task created")
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	t, err := h.repo.Get(model.TaskID(r.PathValue("id")))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var p Patch
	if err := decodeJSON(r, &p); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid patch body")
		return
	}
	t, err := h.repo.Update(model.TaskID(r.PathValue("id")), p)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.changed()
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Delete(model.TaskID(r.PathValue("id"))); err != nil {
		h.fail(w, err)
		return
	}
	h.changed()
	w.WriteHeader(http.StatusNoContent)
}

// progressPayload accepts whichever metric the client sends; the record
// variant is chosen by the field, matching the task's type by
// convention.
type progressPayload struct {
	TimeSpent    *int     `json:"timeSpent,omitempty"`
	IsRunning    *bool    `json:"isRunning,omitempty"`
	CurrentCount *int     `json:"currentCount,omitempty"`
	InputValue   *float64 `json:"inputValue,omitempty"`
}

func (p progressPayload) record() model.Progress {
	switch {
	case p.TimeSpent != nil:
		rec := model.TimeRecord(*p.TimeSpent)
		if p.IsRunning != nil {
			rec.Time.IsRunning = *p.IsRunning
		}
		return rec
	case p.CurrentCount != nil:
		return model.CountRecord(*p.CurrentCount)
	case p.InputValue != nil:
		return model.InputRecord(*p.InputValue)
	}
	return model.Progress{}
}

func (h *Handler) setProgress(w http.ResponseWriter, r *http.Request) {
	var p progressPayload
	if err := decodeJSON(r, &p); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid progress body")
		return
	}
	t, err := h.repo.SetProgress(model.TaskID(r.PathValue("id")), r.PathValue("date"), p.record())
	if err != nil {
		h.fail(w, err)
		return
	}
	h.changed()
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) skip(w http.ResponseWriter, r *http.Request) {
	t, err := h.repo.SkipDate(model.TaskID(r.PathValue("id")), r.PathValue("date"))
	if err != nil {
		h.fail(w, err)
		return
	}
	h.changed()
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) oneOff(w http.ResponseWriter, r *http.Request) {
	t, err := h.repo.AddOneOff(model.TaskID(r.PathValue("id")), r.PathValue("date"))
	if err != nil {
		h.fail(w, err)
		return
	}
	h.changed()
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) startTimer(w http.ResponseWriter, r *http.Request) {
	t, err := h.repo.StartTimer(model.TaskID(r.PathValue("id")), r.PathValue("date"), time.Now())
	if err != nil {
		h.fail(w, err)
		return
	}
	h.changed()
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) stopTimer(w http.ResponseWriter, r *http.Request) {
	t, err := h.repo.StopTimer(model.TaskID(r.PathValue("id")), r.PathValue("date"), time.Now())
	if err != nil {
		h.fail(w, err)
		return
	}
	h.changed()
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrBadDateKey):
		writeErr(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error().Err(err).Msg("task handler error")
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
