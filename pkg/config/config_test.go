package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Navigation.WrapAround {
		t.Error("expected boundary navigation by default")
	}
	if cfg.Interval() != 2*time.Second {
		t.Errorf("expected 2s interval, got %v", cfg.Interval())
	}
	if cfg.PercentDelay() != 800*time.Millisecond {
		t.Errorf("expected 800ms percent delay, got %v", cfg.PercentDelay())
	}
	if !cfg.UI.ShowIndicators || !cfg.UI.Mouse {
		t.Error("expected indicators and mouse enabled by default")
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.Reveal.IntervalMS != 2000 {
		t.Errorf("expected default config, got interval %d", cfg.Reveal.IntervalMS)
	}
}

func TestLoadFrom_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
navigation:
  wrap_around: true
  start_slide: 3

reveal:
  interval_ms: 500

ui:
  show_indicators: false
  mouse: true

deck:
  path: ~/lectures/ch5.yaml
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !cfg.Navigation.WrapAround {
		t.Error("expected wrap_around true")
	}
	if cfg.Navigation.StartSlide != 3 {
		t.Errorf("expected start slide 3, got %d", cfg.Navigation.StartSlide)
	}
	if cfg.Interval() != 500*time.Millisecond {
		t.Errorf("expected 500ms, got %v", cfg.Interval())
	}
	// Unset timings keep their defaults
	if cfg.Reveal.PercentDelayMS != 800 {
		t.Errorf("expected default percent delay, got %d", cfg.Reveal.PercentDelayMS)
	}
	if cfg.UI.ShowIndicators {
		t.Error("expected show_indicators false")
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, "lectures/ch5.yaml"); cfg.Deck.Path != want {
		t.Errorf("expected expanded deck path %q, got %q", want, cfg.Deck.Path)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte("{{invalid yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadFrom_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte("navigation:\n  start_slide: -2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if cfg.Navigation.StartSlide != 0 {
		t.Error("expected defaults returned alongside the error")
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Navigation.WrapAround = true
	cfg.Reveal.IntervalMS = 1200
	cfg.UI.Mouse = false

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load after save failed: %v", err)
	}
	if loaded != cfg {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", loaded, cfg)
	}
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		value   string
		start   bool
		want    bool
		wantErr bool
	}{
		{"", true, true, false},
		{"1", false, true, false},
		{"true", false, true, false},
		{"false", true, false, false},
		{"sometimes", false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv(EnvWrap, tt.value)
			cfg := DefaultConfig()
			cfg.Navigation.WrapAround = tt.start

			got, err := ApplyEnv(cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ApplyEnv err = %v, wantErr %v", err, tt.wantErr)
			}
			if got.Navigation.WrapAround != tt.want {
				t.Errorf("wrap = %v, want %v", got.Navigation.WrapAround, tt.want)
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home dir")
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"~/foo", filepath.Join(home, "foo")},
		{"~/", filepath.Join(home, "")},
		{"/absolute", "/absolute"},
		{"relative", "relative"},
		{"", ""},
	}

	for _, tt := range tests {
		got := expandHome(tt.input)
		if got != tt.expected {
			t.Errorf("expandHome(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestConfigDir_XDGOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got := ConfigDir()
	expected := filepath.Join(dir, "freqdeck")
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
	if ConfigPath() != filepath.Join(expected, "config.yaml") {
		t.Errorf("unexpected config path %q", ConfigPath())
	}
}

func TestDataDir_XDGOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	got := DataDir()
	expected := filepath.Join(dir, "freqdeck")
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}
