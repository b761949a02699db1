package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/a-bunting/daily-grind-sub000/internal/config"
	"github.com/a-bunting/daily-grind-sub000/internal/serverapp"
)

type testApp struct {
	t   *testing.T
	srv *serverapp.Server
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	cfg := config.Config{
		Env:    config.EnvLocal,
		DBPath: filepath.Join(t.TempDir(), "test.db"),
	}
	srv, err := serverapp.New(serverapp.Options{Config: cfg, Log: zerolog.Nop()})
	if err != nil {
		t.Fatalf("build server: %v", err)
	}
	t.Cleanup(func() { srv.Close() })
	return &testApp{t: t, srv: srv}
}

func (a *testApp) json(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	a.srv.Handler().ServeHTTP(res, req)
	return res
}

func decodeBody[T any](t *testing.T, res *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(res.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %s: %v", res.Body.String(), err)
	}
	return out
}

func TestServer_Healthz(t *testing.T) {
	app := newTestApp(t)
	res := app.json(http.MethodGet, "/healthz", nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
}

func TestServer_TaskLifecycleAndDayView(t *testing.T) {
	app := newTestApp(t)

	created := decodeBody[map[string]any](t, app.json(http.MethodPost, "/api/tasks", map[string]any{
		"name":         "pushups",
		"taskType":     "count",
		"targetCount":  10,
		"scheduleType": "weekly",
		"selectedDays": []int{0, 1, 2, 3, 4, 5, 6},
		"startDate":    "2024-01-01",
	}))
	id, _ := created["id"].(string)
	if id == "" {
		t.Fatalf("expected created task id, got %v", created)
	}

	res := app.json(http.MethodPut, "/api/tasks/"+id+"/progress/2024-01-03", map[string]any{
		"currentCount": 12,
	})
	if res.Code != http.StatusOK {
		t.Fatalf("set progress: expected 200, got %d body=%s", res.Code, res.Body.String())
	}

	day := decodeBody[map[string]any](t, app.json(http.MethodGet, "/api/day/2024-01-03", nil))
	if agg, _ := day["aggregate"].(float64); agg != 100 {
		t.Fatalf("expected day aggregate 100, got %v", day["aggregate"])
	}

	// malformed date is rejected
	if res := app.json(http.MethodGet, "/api/day/not-a-date", nil); res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad date, got %d", res.Code)
	}
}

func TestServer_GoalRecomputeOnProgress(t *testing.T) {
	app := newTestApp(t)

	res := app.json(http.MethodPut, "/api/goals/g1", map[string]any{
		"name":        "Run 100km",
		"targetValue": 100,
		"unit":        "km",
		"goalType":    "cumulative",
	})
	if res.Code != http.StatusOK {
		t.Fatalf("save goal: expected 200, got %d body=%s", res.Code, res.Body.String())
	}

	created := decodeBody[map[string]any](t, app.json(http.MethodPost, "/api/tasks", map[string]any{
		"name":         "run",
		"taskType":     "input",
		"unit":         "km",
		"goalId":       "g1",
		"scheduleType": "weekly",
		"selectedDays": []int{0, 1, 2, 3, 4, 5, 6},
		"startDate":    "2024-01-01",
	}))
	id, _ := created["id"].(string)

	app.json(http.MethodPut, "/api/tasks/"+id+"/progress/2024-01-01", map[string]any{"inputValue": 15})
	app.json(http.MethodPut, "/api/tasks/"+id+"/progress/2024-01-02", map[string]any{"inputValue": 25})

	goals := decodeBody[[]map[string]any](t, app.json(http.MethodGet, "/api/goals", nil))
	if len(goals) != 1 {
		t.Fatalf("expected one goal, got %d", len(goals))
	}
	g, _ := goals[0]["goal"].(map[string]any)
	if got, _ := g["currentProgress"].(float64); got != 40 {
		t.Fatalf("expected cumulative 40, got %v", g["currentProgress"])
	}
	display, _ := goals[0]["display"].(map[string]any)
	if pct, _ := display["percentage"].(float64); pct != 40 {
		t.Fatalf("expected 40%%, got %v", display["percentage"])
	}
}

func TestServer_SectionPlacement(t *testing.T) {
	app := newTestApp(t)

	res := app.json(http.MethodPut, "/api/sections", []map[string]any{
		{"id": "focus", "name": "Focus"},
		{"id": "default", "name": "My Tasks"},
	})
	if res.Code != http.StatusOK {
		t.Fatalf("save sections: expected 200, got %d body=%s", res.Code, res.Body.String())
	}

	created := decodeBody[map[string]any](t, app.json(http.MethodPost, "/api/tasks", map[string]any{
		"name":         "deep work",
		"taskType":     "time",
		"plannedMinutes": 90,
		"scheduleType": "weekly",
		"selectedDays": []int{1, 2, 3, 4, 5},
		"startDate":    "2024-01-01",
	}))
	id, _ := created["id"].(string)

	res = app.json(http.MethodPost, "/api/sections/focus/tasks", map[string]any{"taskId": id})
	if res.Code != http.StatusOK {
		t.Fatalf("move task: expected 200, got %d body=%s", res.Code, res.Body.String())
	}

	day := decodeBody[map[string]any](t, app.json(http.MethodGet, "/api/day/2024-01-03", nil))
	sections, _ := day["sections"].([]any)
	if len(sections) != 2 {
		t.Fatalf("expected two sections in day view, got %d", len(sections))
	}
	focus, _ := sections[0].(map[string]any)
	tasks, _ := focus["tasks"].([]any)
	if len(tasks) != 1 {
		t.Fatalf("expected the task grouped under its manual section, got %v", focus)
	}
}
