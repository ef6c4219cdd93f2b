package config

import (
	"errors"
	"fmt"
	"time"

	"conquest/meta"

	"github.com/caarlos0/env/v11"
)

// Config is the runtime configuration of a game server.
type Config struct {
	Addr       string        `env:"CONQUEST_ADDR" envDefault:":8080"`
	UpdateRate time.Duration `env:"CONQUEST_UPDATE_RATE" envDefault:"32ms"`
	Seed       uint64        `env:"CONQUEST_SEED" envDefault:"0"` // 0 seeds from the clock
	LogLevel   string        `env:"CONQUEST_LOG_LEVEL" envDefault:"info"`
	Dev        bool          `env:"CONQUEST_DEV" envDefault:"false"`

	Bots     int           `env:"CONQUEST_BOTS" envDefault:"0"`
	BotThink time.Duration `env:"CONQUEST_BOT_THINK" envDefault:"250ms"`

	InputRate  float64 `env:"CONQUEST_INPUT_RATE" envDefault:"10"`
	InputBurst int     `env:"CONQUEST_INPUT_BURST" envDefault:"5"`

	MetricsDir string `env:"CONQUEST_METRICS_DIR"`
	VisualHook string `env:"CONQUEST_VISUAL_HOOK"`

	// Experiment runs the lock contention experiment into MetricsDir instead of serving.
	Experiment bool `env:"CONQUEST_EXPERIMENT" envDefault:"false"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads and validates the server configuration.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.UpdateRate <= 0 {
		errs = append(errs, fmt.Errorf("update rate must be positive, got %s", c.UpdateRate))
	}
	if c.Bots < 0 || c.Bots > meta.MAX_PLAYERS {
		errs = append(errs, fmt.Errorf("bots must be between 0 and %d, got %d", meta.MAX_PLAYERS, c.Bots))
	}
	if c.Bots > 0 && c.BotThink <= 0 {
		errs = append(errs, fmt.Errorf("bot think time must be positive, got %s", c.BotThink))
	}
	if c.InputRate <= 0 || c.InputBurst <= 0 {
		errs = append(errs, fmt.Errorf("input rate and burst must be positive, got %g/%d", c.InputRate, c.InputBurst))
	}
	if c.Experiment && c.MetricsDir == "" {
		errs = append(errs, errors.New("experiment needs a metrics dir"))
	}
	return errors.Join(errs...)
}
