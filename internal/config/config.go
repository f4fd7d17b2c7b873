package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"calevent/internal/style"
)

// ICSConfig describes a single ICS subscription source.
type ICSConfig struct {
	// URL is the ICS subscription endpoint.
	URL string `yaml:"url" json:"url"`
	// ID is an internal identifier used for de-dup and logging.
	ID string `yaml:"id" json:"id"`
	// Name is a human-friendly label shown in the UI.
	Name string `yaml:"name" json:"name"`
	// Color is the default #RRGGBB fill for events of this source that do
	// not carry their own COLOR property.
	Color string `yaml:"color,omitempty" json:"color,omitempty"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the Web UI/API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// DisplayConfig is the render context shared by every event on a page.
type DisplayConfig struct {
	// Direction is "ltr" or "rtl".
	Direction string `yaml:"direction" json:"direction"`
	// Locale is a BCP 47 tag such as "en" or "ko-KR".
	Locale string `yaml:"locale" json:"locale"`
	// HourFormat is "12" or "24".
	HourFormat string `yaml:"hour_format" json:"hour_format"`
	// View is "day", "week" or "month".
	View string `yaml:"view" json:"view"`
	// DisableViewer stops clicks from opening the detail viewer.
	DisableViewer bool `yaml:"disable_viewer" json:"disable_viewer"`
	// ShowDate toggles time labels on event nodes.
	ShowDate bool `yaml:"show_date" json:"show_date"`
	// Draggable adds drag attributes to enabled events.
	Draggable bool `yaml:"draggable" json:"draggable"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the Web UI and API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA timezone used as canonical display zone (e.g. "Asia/Seoul").
	Timezone string `yaml:"timezone" json:"timezone"`

	// WeekStart is "monday" (default) or "sunday"; the week view starts on it.
	WeekStart string `yaml:"week_start" json:"week_start"`

	// RefreshCron is a cron-style schedule string (e.g. "*/15 * * * *")
	// for refetching the ICS sources.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// HorizonDays is the number of future days to display.
	HorizonDays int `yaml:"horizon_days" json:"horizon_days"`

	// BackfillDays is the number of past days kept in the agenda.
	BackfillDays int `yaml:"backfill_days" json:"backfill_days"`

	// ShowAllDay toggles all-day events in the rendered view.
	ShowAllDay bool `yaml:"show_all_day" json:"show_all_day"`

	// HighlightRed is a list of keywords that cause events to be painted
	// with HighlightColor.
	HighlightRed   []string `yaml:"highlight_red" json:"highlight_red"`
	HighlightColor string   `yaml:"highlight_color" json:"highlight_color"`

	// ICS is the list of subscribed ICS sources.
	ICS []ICSConfig `yaml:"ics" json:"ics"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all endpoints
	// except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// CacheDir holds per-source ICS bodies and HTTP cache metadata.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	// PreviewPath is where `calevent snapshot` writes the PNG served at
	// /preview.png.
	PreviewPath string `yaml:"preview_path" json:"preview_path"`

	Display DisplayConfig `yaml:"display" json:"display"`
	Theme   style.Palette `yaml:"theme" json:"theme"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:         "127.0.0.1:8080",
		Timezone:       "Asia/Seoul",
		WeekStart:      "monday",
		RefreshCron:    "*/15 * * * *",
		HorizonDays:    7,
		BackfillDays:   1,
		ShowAllDay:     true,
		HighlightRed:   []string{"휴일", "휴가", "중요"},
		HighlightColor: "#dc2626",
		ICS:            []ICSConfig{},
		BasicAuth:      nil,
		LogLevel:       "info",
		CacheDir:       "/var/lib/calevent/ics-cache",
		PreviewPath:    "/var/lib/calevent/preview.png",
		Display: DisplayConfig{
			Direction:  "ltr",
			Locale:     "en",
			HourFormat: "24",
			View:       "week",
			ShowDate:   true,
			Draggable:  false,
		},
		Theme: style.DefaultPalette(),
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs (e.g., older versions) still behave correctly.
func (c *Config) Normalize() {
	def := DefaultConfig()

	if c.Listen == "" {
		c.Listen = def.Listen
	}
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	// Unknown week starts fall back to monday to avoid surprising layouts.
	switch c.WeekStart {
	case "monday", "sunday":
	default:
		c.WeekStart = "monday"
	}
	if c.RefreshCron == "" {
		c.RefreshCron = def.RefreshCron
	}
	if c.HorizonDays <= 0 {
		c.HorizonDays = def.HorizonDays
	}
	if c.BackfillDays < 0 {
		c.BackfillDays = 0
	}
	if c.HighlightRed == nil {
		c.HighlightRed = def.HighlightRed
	}
	if c.HighlightColor == "" {
		c.HighlightColor = def.HighlightColor
	}
	if c.ICS == nil {
		c.ICS = []ICSConfig{}
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.CacheDir == "" {
		c.CacheDir = def.CacheDir
	}
	if c.PreviewPath == "" {
		c.PreviewPath = def.PreviewPath
	}

	d := &c.Display
	d.Direction = strings.ToLower(d.Direction)
	if d.Direction != "rtl" {
		d.Direction = "ltr"
	}
	if d.Locale == "" {
		d.Locale = def.Display.Locale
	}
	if d.HourFormat != "12" {
		d.HourFormat = "24"
	}
	switch d.View {
	case "day", "week", "month":
	default:
		d.View = def.Display.View
	}

	c.Theme.Normalize()
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	// Start from defaults so booleans absent from the file keep their
	// default values.
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return cfg, nil
}

// Save writes the given configuration to the specified path atomically
// (temp file + rename) with 0600 permissions, creating the parent
// directory with 0700 if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".calevent-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
