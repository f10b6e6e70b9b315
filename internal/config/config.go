package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"shopeelife/internal/domain/world"
)

const envPrefix = "SHOPEELIFE"

const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreMemory   = "memory"
)

type Config struct {
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`

	ProgressStore string `envconfig:"PROGRESS_STORE" default:"memory"`
	DBDSN         string `envconfig:"DB_DSN"`
	SQLitePath    string `envconfig:"SQLITE_PATH" default:"shopeelife.db"`

	JWTSecret           string `envconfig:"JWT_SECRET"`
	AllowHeaderIdentity bool   `envconfig:"ALLOW_HEADER_IDENTITY" default:"false"`

	ClockTick    time.Duration `envconfig:"CLOCK_TICK" default:"1s"`
	ActivityTick time.Duration `envconfig:"ACTIVITY_TICK" default:"100ms"`
	SaveDebounce time.Duration `envconfig:"SAVE_DEBOUNCE" default:"2s"`
	WorkOpen     string        `envconfig:"WORK_OPEN" default:"09:30"`
	WorkClose    string        `envconfig:"WORK_CLOSE" default:"18:30"`
}

// Load reads .env (when present) and then the SHOPEELIFE_* environment.
// Real environment variables win over .env entries.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.ProgressStore {
	case StorePostgres:
		if strings.TrimSpace(c.DBDSN) == "" {
			return errors.New("SHOPEELIFE_DB_DSN is required for the postgres progress store")
		}
	case StoreSQLite, StoreMemory:
	default:
		return fmt.Errorf("unknown progress store %q", c.ProgressStore)
	}
	if c.JWTSecret == "" && !c.AllowHeaderIdentity {
		return errors.New("set SHOPEELIFE_JWT_SECRET or SHOPEELIFE_ALLOW_HEADER_IDENTITY")
	}
	if _, err := c.WorkingHours(); err != nil {
		return err
	}
	return nil
}

func (c Config) WorkingHours() (world.Band, error) {
	open, err := parseClock(c.WorkOpen)
	if err != nil {
		return world.Band{}, fmt.Errorf("work open: %w", err)
	}
	closing, err := parseClock(c.WorkClose)
	if err != nil {
		return world.Band{}, fmt.Errorf("work close: %w", err)
	}
	if closing <= open {
		return world.Band{}, fmt.Errorf("work close %s must be after open %s", c.WorkClose, c.WorkOpen)
	}
	return world.Band{Start: open, End: closing}, nil
}

// ClockConfig is the default game clock with the configured working hours.
func (c Config) ClockConfig() world.ClockConfig {
	cc := world.DefaultClockConfig()
	if band, err := c.WorkingHours(); err == nil {
		cc.WorkingHours = band
	}
	return cc
}

func parseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	return world.At(h, m), nil
}
