package main

import (
	"net/http"
	"os"

	"github.com/a-bunting/daily-grind-sub000/internal/app"
	"github.com/a-bunting/daily-grind-sub000/internal/config"
	"github.com/a-bunting/daily-grind-sub000/internal/serverapp"
)

func main() {
	cfgPath := os.Getenv("DG_CONFIG")
	if cfgPath == "" {
		cfgPath = config.DefaultConfigFileName
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		// no logger yet
		panic(err)
	}

	log := app.NewLogger(cfg)

	srv, err := serverapp.New(serverapp.Options{Config: cfg, Log: log})
	if err != nil {
		log.Fatal().Err(err).Msg("build server")
	}
	defer srv.Close()

	log.Info().Str("addr", cfg.Listen).Str("db", cfg.DBPath).Msg("listening")
	if err := http.ListenAndServe(cfg.Listen, srv.Handler()); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
