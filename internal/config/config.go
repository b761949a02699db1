package config

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "daily-grind.toml"
	DefaultDBName         = "daily-grind.db"

	EnvLocal = "local"
	EnvProd  = "prod"
)

type Config struct {
	Env      string `toml:"env" env:"DG_ENV"`
	Listen   string `toml:"listen" env:"DG_LISTEN"`
	DataDir  string `toml:"data_dir" env:"DG_DATA_DIR"`
	DBPath   string `toml:"db_path" env:"DG_DB_PATH"`
	LogLevel string `toml:"log_level" env:"DG_LOG_LEVEL"`
}

func defaultConfig() Config {
	return Config{
		Env:      EnvLocal,
		Listen:   ":8472",
		DataDir:  "data",
		LogLevel: "info",
	}
}

// LoadOrCreate reads the TOML config at path, writing the defaults
// there first when the file does not exist yet.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.normalized(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg.normalized(), nil
}

func (c Config) normalized() Config {
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.DataDir, DefaultDBName)
	}
	if c.Listen == "" {
		c.Listen = ":8472"
	}
	return c
}

func write(path string, cfg Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
