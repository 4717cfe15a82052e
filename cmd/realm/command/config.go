package command

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pixil98/go-errors"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable that overrides the config file.
const EnvPrefix = "REALM_"

type Config struct {
	LogLevel   string           `json:"log_level" yaml:"log_level" env:"LOG_LEVEL"`
	World      WorldConfig      `json:"world" yaml:"world" envPrefix:"WORLD_"`
	Sessions   SessionsConfig   `json:"sessions" yaml:"sessions" envPrefix:"SESSIONS_"`
	Characters CharactersConfig `json:"characters" yaml:"characters" envPrefix:"CHARACTERS_"`
	Nats       NatsConfig       `json:"nats" yaml:"nats" envPrefix:"NATS_"`
	HTTP       HTTPConfig       `json:"http" yaml:"http" envPrefix:"HTTP_"`
}

// LoadConfig reads the config file at path, JSON or YAML by extension, then
// applies REALM_* environment overrides and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %q: %w", path, err)
	}

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", path, err)
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("applying environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if c.LogLevel != "" {
		if _, err := c.Level(); err != nil {
			el.Add(err)
		}
	}

	el.Add(c.World.validate())
	el.Add(c.Sessions.validate())
	el.Add(c.Characters.validate())
	el.Add(c.Nats.validate())
	el.Add(c.HTTP.validate())

	return el.Err()
}

// Level returns the configured log level, Info when unset.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return lvl, fmt.Errorf("parsing log_level: %w", err)
	}
	return lvl, nil
}

// parseDuration parses an optional duration setting, returning def when
// unset. Durations must be positive.
func parseDuration(name, s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", name, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", name)
	}
	return d, nil
}
