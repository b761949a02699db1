package config

import "github.com/ilyakaznacheev/cleanenv"

// FromEnv applies DG_* environment overrides on top of a loaded config.
// Unset variables leave the file values alone.
func FromEnv(cfg Config) (Config, error) {
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg.normalized(), nil
}

// Load is the composed entry point: TOML file, then environment.
func Load(path string) (Config, error) {
	cfg, err := LoadOrCreate(path)
	if err != nil {
		return cfg, err
	}
	return FromEnv(cfg)
}
