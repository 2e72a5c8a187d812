// Package config loads the weekgrid YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/weekgrid/backend/internal/grid"
	"github.com/weekgrid/backend/internal/schedule"
)

// GridConfig describes the week grid geometry.
type GridConfig struct {
	// PixelsPerHour is the row height of one hour.
	PixelsPerHour int `yaml:"pixels_per_hour" json:"pixels_per_hour"`

	// StartHour is the hour shown in the top row; 7 shows a day "starting" at 7am.
	StartHour int `yaml:"start_hour" json:"start_hour"`

	// Days is 7 for the week view or 1 for the single-day view.
	Days int `yaml:"days" json:"days"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string `yaml:"level" json:"level"`
	Development bool   `yaml:"development" json:"development"`
}

// JournalConfig controls the in-memory mutation journal.
type JournalConfig struct {
	// Keep is the number of newest entries retained when the journal is trimmed.
	Keep int `yaml:"keep" json:"keep"`

	// TrimCron is a cron spec (with seconds) for trimming.
	TrimCron string `yaml:"trim_cron" json:"trim_cron"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen" json:"listen"`

	// StaticDir holds the browser frontend.
	StaticDir string `yaml:"static_dir" json:"static_dir"`

	Grid    GridConfig    `yaml:"grid" json:"grid"`
	Log     LogConfig     `yaml:"log" json:"log"`
	Journal JournalConfig `yaml:"journal" json:"journal"`

	// SeedEvents are the events present at startup. Nil means the built-in seed.
	SeedEvents []schedule.Event `yaml:"seed_events" json:"seed_events"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:    ":8099",
		StaticDir: "./static",
		Grid: GridConfig{
			PixelsPerHour: 60,
			StartHour:     7,
			Days:          7,
		},
		Log: LogConfig{
			Level: "info",
		},
		Journal: JournalConfig{
			Keep:     1000,
			TrimCron: "0 */10 * * * *",
		},
		SeedEvents: schedule.DefaultSeed(),
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	def := DefaultConfig()

	if c.Listen == "" {
		c.Listen = def.Listen
	}
	if c.StaticDir == "" {
		c.StaticDir = def.StaticDir
	}
	if c.Grid.PixelsPerHour <= 0 {
		c.Grid.PixelsPerHour = def.Grid.PixelsPerHour
	}
	if c.Grid.StartHour < 0 || c.Grid.StartHour > 23 {
		c.Grid.StartHour = ((c.Grid.StartHour % 24) + 24) % 24
	}
	switch c.Grid.Days {
	case 1, 7:
		// ok
	default:
		c.Grid.Days = def.Grid.Days
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Journal.Keep <= 0 {
		c.Journal.Keep = def.Journal.Keep
	}
	if c.Journal.TrimCron == "" {
		c.Journal.TrimCron = def.Journal.TrimCron
	}
	if c.SeedEvents == nil {
		c.SeedEvents = def.SeedEvents
	}
	if c.Grid.Days == 1 {
		// The single-day view has one column.
		for i := range c.SeedEvents {
			c.SeedEvents[i].Day = 0
		}
	}
}

// Validate reports seed events that could not be placed on the grid.
func (c *Config) Validate() error {
	var errs []error
	for _, ev := range c.SeedEvents {
		switch {
		case ev.Start < 0 || ev.Start > 23:
			errs = append(errs, fmt.Errorf("seed event %d: start %d outside 0-23", ev.ID, ev.Start))
		case ev.Day < 0 || ev.Day >= c.Grid.Days:
			errs = append(errs, fmt.Errorf("seed event %d: day %d outside 0-%d", ev.ID, ev.Day, c.Grid.Days-1))
		case ev.Duration < 1 || ev.Duration > grid.MaxDuration:
			errs = append(errs, fmt.Errorf("seed event %d: duration %d outside 1-%d", ev.ID, ev.Duration, grid.MaxDuration))
		}
	}
	return errors.Join(errs...)
}

// Load reads configuration from the given YAML path. A missing file yields
// the defaults; nothing is written back.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
