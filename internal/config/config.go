// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/redline/internal/classifier"
	"github.com/bethropolis/redline/internal/dictionary"
	"github.com/bethropolis/redline/internal/improver"
	"github.com/bethropolis/redline/internal/logger"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger     logger.Config     `toml:"logger"`     // [logger] table
	Classifier classifier.Config `toml:"classifier"` // Significance thresholds and word lists
	Improver   improver.Config   `toml:"improver"`   // Improvement backend
	Dictionary dictionary.Config `toml:"dictionary"` // Redis trivial-word set
	Editor     EditorConfig      `toml:"editor"`     // Review UI settings
}

// EditorConfig holds review UI settings.
type EditorConfig struct {
	ScrollOff       int           `toml:"scroll_off"`
	Watch           bool          `toml:"watch"`       // Reload external changes to the transcript
	WatchDelay      time.Duration `toml:"watch_delay"` // Quiet period before a change is reloaded
	FormatOnLoad    bool          `toml:"format_on_load"`
	SystemClipboard bool          `toml:"system_clipboard"`
	ExportDir       string        `toml:"export_dir"` // Empty means next to the transcript
	ThemeFile       string        `toml:"theme_file"` // TOML theme overriding the built-in styles
	StatusBarHeight int           `toml:"status_bar_height"`
}

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger:     logger.NewConfig(),
		Classifier: classifier.DefaultConfig(),
		Improver:   improver.DefaultConfig(),
		Dictionary: dictionary.DefaultConfig(),
		Editor: EditorConfig{
			ScrollOff:       DefaultScrollOff,
			Watch:           true,
			WatchDelay:      DefaultWatchDelay,
			SystemClipboard: SystemClipboard,
			StatusBarHeight: StatusBarHeight,
		},
	}
}

// DefaultPath is ~/.config/redline/config.toml, or empty when the user
// config directory is unknown.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, AppName, DefaultConfigFileName)
}

// loadFromFile decodes a TOML file over cfg. Keys absent from the file keep
// their current values. A missing file is not an error and reports
// found=false. It returns the keys it did not recognize.
func loadFromFile(filePath string, cfg *Config) (found bool, undecoded []string, err error) {
	_, err = os.Stat(filePath)
	if os.IsNotExist(err) {
		return false, nil, nil
	}
	if err != nil {
		return false, nil, fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}

	metadata, err := toml.DecodeFile(filePath, cfg)
	if err != nil {
		return true, nil, fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	for _, key := range metadata.Undecoded() {
		undecoded = append(undecoded, key.String())
	}
	return true, undecoded, nil
}

// validate checks config values and resets invalid ones to defaults. It
// returns the reset fields, qualified by table.
func (c *Config) validate() []string {
	defaults := NewDefaultConfig()
	var reset []string

	if c.Editor.ScrollOff < 0 { // Allow 0
		c.Editor.ScrollOff = defaults.Editor.ScrollOff
		reset = append(reset, "editor.scroll_off")
	}
	if c.Editor.WatchDelay <= 0 {
		c.Editor.WatchDelay = defaults.Editor.WatchDelay
		reset = append(reset, "editor.watch_delay")
	}
	if c.Editor.StatusBarHeight <= 0 {
		c.Editor.StatusBarHeight = defaults.Editor.StatusBarHeight
		reset = append(reset, "editor.status_bar_height")
	}
	if _, ok := logger.ParseLevel(c.Logger.LogLevel); !ok {
		c.Logger.LogLevel = defaults.Logger.LogLevel
		reset = append(reset, "logger.log_level")
	}
	for _, field := range c.Classifier.Validate() {
		reset = append(reset, "classifier."+field)
	}
	for _, field := range c.Improver.Validate() {
		reset = append(reset, "improver."+field)
	}
	if c.Dictionary.Key == "" {
		c.Dictionary.Key = defaults.Dictionary.Key
	}
	return reset
}

// Result carries what happened while loading, for logging once the logger
// is set up.
type Result struct {
	Path      string   // File that was read, empty if none
	Undecoded []string // Unrecognized keys in the file
	Reset     []string // Invalid values replaced by defaults
}

// LoadConfig orchestrates loading defaults, file, applying flags, and validation.
// It runs before the logger is initialized, so it returns what it would log.
func LoadConfig(configFilePath string, flags *Flags) (*Config, Result, error) {
	cfg := NewDefaultConfig()
	var res Result

	path := configFilePath
	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		found, undecoded, err := loadFromFile(path, cfg)
		if err != nil {
			return nil, res, err
		}
		if found {
			res.Path = path
			res.Undecoded = undecoded
		}
	}

	if flags != nil {
		flags.ApplyOverrides(cfg)
	}

	res.Reset = cfg.validate()
	return cfg, res, nil
}

// Log reports the load result through the initialized logger.
func (r Result) Log() {
	if r.Path != "" {
		logger.Debugf("Config: loaded from %s", r.Path)
	}
	if len(r.Undecoded) > 0 {
		logger.Warnf("Config file '%s': Unrecognized keys: %v", r.Path, r.Undecoded)
	}
	if len(r.Reset) > 0 {
		logger.Warnf("Config: invalid values reset to defaults: %v", r.Reset)
	}
}
