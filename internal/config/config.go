package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	toml "github.com/pelletier/go-toml/v2"

	"ctodo/internal/entry"
	"ctodo/internal/render"
)

const (
	AppName               = "ctodo"
	DefaultConfigFileName = "config.toml"
	DefaultDateFormat     = "%a %b %d %I:%M %p"
	DefaultPrintFormat    = "[%n] Due: %t, %s"
	DefaultUTCOffset      = "-0400"

	BackendText   = "text"
	BackendSQLite = "sqlite"
)

var ErrInvalidConfig = errors.New("invalid config")

type Colors struct {
	LessThanDay  string `toml:"less_than_day"`
	LessThanWeek string `toml:"less_than_week"`
	PastDue      string `toml:"past_due"`
	MoreThanWeek string `toml:"more_than_week"`
	Group        string `toml:"group"`
}

type Config struct {
	DateFormat    string `toml:"date_format"`
	PrintFormat   string `toml:"print_format"`
	FoldGroupCase bool   `toml:"fold_group_case"`
	UTCOffset     string `toml:"utc_offset"`
	DisplayZone   string `toml:"display_zone"`
	Backend       string `toml:"backend"`
	LogLevel      string `toml:"log_level"`
	Colors        Colors `toml:"colors"`

	offset  *time.Location
	display *time.Location
}

// ResolveConfigPath returns $CTODO_CONFIG, else the XDG config location,
// else ~/.config/ctodo/config.toml under home.
func ResolveConfigPath(home string) string {
	if p := os.Getenv("CTODO_CONFIG"); p != "" {
		return p
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName, DefaultConfigFileName)
	}
	return filepath.Join(home, ".config", AppName, DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults there first if
// the file does not exist yet.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, cfg.resolve()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	cfg.fillDefaults()
	return cfg, cfg.resolve()
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Default returns the built-in configuration, already resolved.
func Default() Config {
	cfg := Config{
		DateFormat:  DefaultDateFormat,
		PrintFormat: DefaultPrintFormat,
		UTCOffset:   DefaultUTCOffset,
		Backend:     BackendText,
		LogLevel:    "warn",
		Colors: Colors{
			LessThanDay:  "9",
			LessThanWeek: "11",
			PastDue:      "13",
			MoreThanWeek: "10",
			Group:        "12",
		},
	}
	_ = cfg.resolve()
	return cfg
}

func (c *Config) fillDefaults() {
	d := Default()
	if c.DateFormat == "" {
		c.DateFormat = d.DateFormat
	}
	if c.PrintFormat == "" {
		c.PrintFormat = d.PrintFormat
	}
	if c.UTCOffset == "" {
		c.UTCOffset = d.UTCOffset
	}
	if c.Backend == "" {
		c.Backend = d.Backend
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
}

// resolve validates the config and caches the parsed zones.
func (c *Config) resolve() error {
	if err := render.ValidateTemplate(c.PrintFormat); err != nil {
		return fmt.Errorf("print_format: %w", err)
	}
	offset, err := entry.ParseOffset(c.UTCOffset)
	if err != nil {
		return fmt.Errorf("%w: utc_offset: %v", ErrInvalidConfig, err)
	}
	display := time.Local
	if c.DisplayZone != "" {
		display, err = time.LoadLocation(c.DisplayZone)
		if err != nil {
			return fmt.Errorf("%w: display_zone: %v", ErrInvalidConfig, err)
		}
	}
	switch strings.ToLower(c.Backend) {
	case BackendText, BackendSQLite:
		c.Backend = strings.ToLower(c.Backend)
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, c.Backend)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %v", ErrInvalidConfig, err)
	}
	c.offset = offset
	c.display = display
	return nil
}

// Offset is the fixed zone used to interpret typed due dates.
func (c Config) Offset() *time.Location {
	if c.offset == nil {
		return time.UTC
	}
	return c.offset
}

// Display is the zone due dates are shown in.
func (c Config) Display() *time.Location {
	if c.display == nil {
		return time.Local
	}
	return c.display
}

// Level returns the configured log level.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.WarnLevel
	}
	return lvl
}

// RenderOptions adapts the config for the renderer.
func (c Config) RenderOptions() render.Options {
	return render.Options{
		DateFormat:  c.DateFormat,
		PrintFormat: c.PrintFormat,
		Location:    c.Display(),
		Colors: render.Palette{
			LessThanDay:  c.Colors.LessThanDay,
			LessThanWeek: c.Colors.LessThanWeek,
			PastDue:      c.Colors.PastDue,
			MoreThanWeek: c.Colors.MoreThanWeek,
			Group:        c.Colors.Group,
		},
	}
}
