// Package config handles loading and saving freqdeck configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/freqdeck/config.yaml
//   - Data:    ~/.local/share/freqdeck/ (exported charts, data tables)
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const appName = "freqdeck"

// EnvWrap overrides NavigationConfig.WrapAround when set to a boolean.
const EnvWrap = "FREQDECK_WRAP"

// ErrInvalid is returned when a loaded config fails validation.
var ErrInvalid = errors.New("invalid config")

// NavigationConfig controls slide navigation.
type NavigationConfig struct {
	WrapAround bool `yaml:"wrap_around"`           // next on the last slide returns to the first
	StartSlide int  `yaml:"start_slide,omitempty"` // zero-based
}

// RevealConfig holds reveal timing in milliseconds.
type RevealConfig struct {
	IntervalMS     int `yaml:"interval_ms,omitempty"`
	PercentDelayMS int `yaml:"percent_delay_ms,omitempty"`
	TransitionMS   int `yaml:"transition_ms,omitempty"` // replay entry frame
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	ShowIndicators bool `yaml:"show_indicators"`
	Mouse          bool `yaml:"mouse"`
}

// DeckConfig selects the deck file. Empty uses the built-in lecture.
type DeckConfig struct {
	Path string `yaml:"path,omitempty"`
}

// Config is the top-level configuration for freqdeck.
type Config struct {
	Navigation NavigationConfig `yaml:"navigation"`
	Reveal     RevealConfig     `yaml:"reveal"`
	UI         UIConfig         `yaml:"ui"`
	Deck       DeckConfig       `yaml:"deck,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Navigation: NavigationConfig{WrapAround: false},
		Reveal: RevealConfig{
			IntervalMS:     2000,
			PercentDelayMS: 800,
			TransitionMS:   30,
		},
		UI: UIConfig{
			ShowIndicators: true,
			Mouse:          true,
		},
	}
}

// Interval returns the cumulative reveal step delay.
func (c Config) Interval() time.Duration {
	return time.Duration(c.Reveal.IntervalMS) * time.Millisecond
}

// PercentDelay returns the delay before percentages are revealed.
func (c Config) PercentDelay() time.Duration {
	return time.Duration(c.Reveal.PercentDelayMS) * time.Millisecond
}

// Transition returns the frame delay of the replay entry transition.
func (c Config) Transition() time.Duration {
	return time.Duration(c.Reveal.TransitionMS) * time.Millisecond
}

// Validate checks values that cannot be fixed up silently.
func (c Config) Validate() error {
	if c.Navigation.StartSlide < 0 {
		return fmt.Errorf("%w: start_slide %d is negative", ErrInvalid, c.Navigation.StartSlide)
	}
	if c.Reveal.IntervalMS < 0 || c.Reveal.PercentDelayMS < 0 || c.Reveal.TransitionMS < 0 {
		return fmt.Errorf("%w: reveal timings must not be negative", ErrInvalid)
	}
	return nil
}

// ConfigDir returns the XDG config directory for freqdeck.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// DataDir returns the XDG data directory for freqdeck.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", appName)
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	// Zero timings fall back to defaults
	def := DefaultConfig()
	if cfg.Reveal.IntervalMS == 0 {
		cfg.Reveal.IntervalMS = def.Reveal.IntervalMS
	}
	if cfg.Reveal.PercentDelayMS == 0 {
		cfg.Reveal.PercentDelayMS = def.Reveal.PercentDelayMS
	}
	if cfg.Reveal.TransitionMS == 0 {
		cfg.Reveal.TransitionMS = def.Reveal.TransitionMS
	}

	cfg.Deck.Path = expandHome(cfg.Deck.Path)

	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// ApplyEnv overlays environment overrides on cfg.
func ApplyEnv(cfg Config) (Config, error) {
	if v, ok := os.LookupEnv(EnvWrap); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalid, EnvWrap, v)
		}
		cfg.Navigation.WrapAround = b
	}
	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
