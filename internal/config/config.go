package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"almanac/internal/calendar"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "almanac.db"

	LayoutMonth = "month"
	LayoutWeek  = "week"
)

type Keymap struct {
	Quit         string `toml:"quit"`
	Today        string `toml:"today"`
	NextWeek     string `toml:"next_week"`
	PrevWeek     string `toml:"prev_week"`
	NextMonth    string `toml:"next_month"`
	PrevMonth    string `toml:"prev_month"`
	EditStatic   string `toml:"edit_static"`
	EditDaily    string `toml:"edit_daily"`
	Confirm      string `toml:"confirm"`
	Cancel       string `toml:"cancel"`
	ToggleLayout string `toml:"toggle_layout"`
}

type Config struct {
	DBPath       string `toml:"db_path"`
	Layout       string `toml:"layout"`
	WeekStart    string `toml:"week_start"`
	FocusRetries int    `toml:"focus_retries"`
	LogPath      string `toml:"log_path"`
	LogLevel     string `toml:"log_level"`
	Keys         Keymap `toml:"keys"`
}

// ResolveConfigPath picks $ALMANAC_CONFIG, then the XDG config dir, then
// ~/.config/almanac.
func ResolveConfigPath() string {
	if p := os.Getenv("ALMANAC_CONFIG"); p != "" {
		return p
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "almanac", DefaultConfigFileName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(home, ".config", "almanac", DefaultConfigFileName)
}

func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(path), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg = cfg.resolve(path)
	return cfg, cfg.Validate()
}

// resolve makes a relative db_path relative to the config file.
func (c Config) resolve(path string) Config {
	if c.DBPath == "" {
		c.DBPath = DefaultDBName
	}
	if c.DBPath != ":memory:" && !strings.HasPrefix(c.DBPath, "file:") && !filepath.IsAbs(c.DBPath) {
		c.DBPath = filepath.Join(filepath.Dir(path), c.DBPath)
	}
	return c
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c Config) Validate() error {
	switch strings.ToLower(c.Layout) {
	case LayoutMonth, LayoutWeek:
	default:
		return fmt.Errorf("layout %q: want %q or %q", c.Layout, LayoutMonth, LayoutWeek)
	}
	if _, err := c.FirstWeekday(); err != nil {
		return err
	}
	if c.FocusRetries < 1 {
		return fmt.Errorf("focus_retries must be positive, got %d", c.FocusRetries)
	}
	return nil
}

// Rows is the grid height for the configured layout.
func (c Config) Rows() int {
	if strings.ToLower(c.Layout) == LayoutWeek {
		return calendar.WeekRows
	}
	return calendar.MonthRows
}

func (c Config) FirstWeekday() (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(c.WeekStart)) {
	case "", "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	}
	return time.Sunday, fmt.Errorf("week_start %q: want \"sunday\" or \"monday\"", c.WeekStart)
}

func Default() Config {
	return Config{
		DBPath:       DefaultDBName,
		Layout:       LayoutMonth,
		WeekStart:    "sunday",
		FocusRetries: 2,
		LogLevel:     "info",
		Keys: Keymap{
			Quit:         "q",
			Today:        "t",
			NextWeek:     "]",
			PrevWeek:     "[",
			NextMonth:    "}",
			PrevMonth:    "{",
			EditStatic:   "s",
			EditDaily:    "enter",
			Confirm:      "enter",
			Cancel:       "esc",
			ToggleLayout: "w",
		},
	}
}
