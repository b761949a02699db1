// Package serverapp assembles the HTTP application: store, repositories
// and routes behind one handler.
package serverapp

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/a-bunting/daily-grind-sub000/internal/config"
	"github.com/a-bunting/daily-grind-sub000/internal/httpmw"
	"github.com/a-bunting/daily-grind-sub000/internal/server"
	"github.com/a-bunting/daily-grind-sub000/internal/store"
	"github.com/a-bunting/daily-grind-sub000/internal/task"
)

type Options struct {
	Config config.Config
	Log    zerolog.Logger
}

type Server struct {
	handler http.Handler
	store   *store.Store
}

func New(opts Options) (*Server, error) {
	st, err := store.Open(opts.Config.DBPath)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	rr := &server.RouteRegistry{}

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"ok":true,"service":"daily-grind","time":"` +
			time.Now().UTC().Format(time.RFC3339) + `"}`))
	})

	taskRepo := task.NewSQLiteRepo(st.DB())
	app := &server.App{Tasks: taskRepo, Store: st, Log: opts.Log}

	taskHandler := task.NewHandler(taskRepo, opts.Log)
	taskHandler.SetOnChange(app.RecomputeGoals)
	taskHandler.Register(func(pattern, summary string, h http.HandlerFunc) {
		server.Handle(mux, rr, pattern, summary, h)
	})

	server.RegisterAPIRoutes(mux, rr, app)

	handler := httpmw.Chain(mux,
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Log),
		httpmw.WithAccessLog(opts.Log),
	)

	return &Server{handler: handler, store: st}, nil
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Close() error {
	return s.store.Close()
}
