package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/freqdeck/pkg/config"
	"github.com/vanderheijden86/freqdeck/pkg/export"
	"github.com/vanderheijden86/freqdeck/pkg/lecture"
	"github.com/vanderheijden86/freqdeck/pkg/reveal"
)

func defaultDeck(t *testing.T) lecture.Deck {
	t.Helper()
	d, err := loadDeck("")
	if err != nil {
		t.Fatalf("loadDeck: %v", err)
	}
	return d
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name  string
		opts  options
		check func(config.Config) bool
	}{
		{"wrap", options{wrap: true}, func(c config.Config) bool { return c.Navigation.WrapAround }},
		{"slide is one-based", options{slide: 4}, func(c config.Config) bool { return c.Navigation.StartSlide == 3 }},
		{"interval", options{intervalMS: 5}, func(c config.Config) bool { return c.Reveal.IntervalMS == 5 }},
		{"deck", options{deckPath: "talk.yaml"}, func(c config.Config) bool { return c.Deck.Path == "talk.yaml" }},
		{"zero keeps config", options{}, func(c config.Config) bool { return c == config.DefaultConfig() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := applyFlags(config.DefaultConfig(), tt.opts)
			if err != nil {
				t.Fatalf("applyFlags: %v", err)
			}
			if !tt.check(got) {
				t.Errorf("unexpected config %+v", got)
			}
		})
	}

	if _, err := applyFlags(config.DefaultConfig(), options{slide: -1}); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("negative slide: got %v", err)
	}
}

func TestResolveConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "navigation:\n  wrap_around: false\nreveal:\n  interval_ms: 900\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv(config.EnvWrap, "true")
	cfg, err := resolveConfig(path, options{})
	if err != nil {
		t.Fatalf("resolveConfig: %v", err)
	}
	if !cfg.Navigation.WrapAround {
		t.Error("env should override the file")
	}
	if cfg.Reveal.IntervalMS != 900 {
		t.Errorf("interval = %d, want file value 900", cfg.Reveal.IntervalMS)
	}

	cfg, err = resolveConfig(path, options{noWrap: true, intervalMS: 10})
	if err != nil {
		t.Fatalf("resolveConfig: %v", err)
	}
	if cfg.Navigation.WrapAround || cfg.Reveal.IntervalMS != 10 {
		t.Errorf("flags should override env and file: %+v", cfg)
	}

	t.Setenv(config.EnvWrap, "sometimes")
	if _, err := resolveConfig(path, options{}); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("bad env value: got %v", err)
	}
}

func TestResolveConfigWithoutPath(t *testing.T) {
	cfg, err := resolveConfig("", options{slide: 2})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Navigation.StartSlide != 1 || cfg.Reveal != config.DefaultConfig().Reveal {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestLoadDeckMissingFile(t *testing.T) {
	if _, err := loadDeck(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing deck file")
	}
}

func TestRunBatchNothingRequested(t *testing.T) {
	var buf bytes.Buffer
	ran, err := runBatch(context.Background(), &buf, defaultDeck(t), config.DefaultConfig(), options{})
	if ran || err != nil || buf.Len() != 0 {
		t.Errorf("ran=%v err=%v out=%q", ran, err, buf.String())
	}
}

func TestRunBatchRobotOutline(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.DefaultConfig()
	cfg.Navigation.WrapAround = true
	ran, err := runBatch(context.Background(), &buf, defaultDeck(t), cfg, options{robotOutline: true})
	if !ran || err != nil {
		t.Fatalf("ran=%v err=%v", ran, err)
	}

	var o export.Outline
	if err := json.Unmarshal(buf.Bytes(), &o); err != nil {
		t.Fatalf("outline is not JSON: %v\n%s", err, buf.String())
	}
	if o.SlideCount != 11 || len(o.Slides) != 11 || !o.WrapAround {
		t.Errorf("outline = %d slides, wrap %v", o.SlideCount, o.WrapAround)
	}
	if len(o.Datasets) != 0 {
		t.Error("datasets should need --robot-data")
	}
}

func TestRunBatchExports(t *testing.T) {
	dir := t.TempDir()
	opts := options{
		exportCharts: filepath.Join(dir, "charts"),
		format:       export.FormatSVG,
		exportSQLite: filepath.Join(dir, "deck.db"),
		robotMetrics: true,
	}
	var buf bytes.Buffer
	ran, err := runBatch(context.Background(), &buf, defaultDeck(t), config.DefaultConfig(), opts)
	if !ran || err != nil {
		t.Fatalf("ran=%v err=%v", ran, err)
	}

	out := buf.String()
	if !strings.Contains(out, "deck.db:") {
		t.Errorf("sqlite summary missing:\n%s", out)
	}
	entries, err := os.ReadDir(opts.exportCharts)
	if err != nil || len(entries) == 0 {
		t.Fatalf("no charts written: %v", err)
	}
	if strings.Count(out, ".svg\n") != len(entries) {
		t.Errorf("expected one line per chart file:\n%s", out)
	}
	if !strings.Contains(out, `"name"`) {
		t.Errorf("metrics JSON missing:\n%s", out)
	}
}

func TestRunBatchBadFormat(t *testing.T) {
	opts := options{exportCharts: t.TempDir(), format: "gif"}
	ran, err := runBatch(context.Background(), &bytes.Buffer{}, defaultDeck(t), config.DefaultConfig(), opts)
	if !ran || err == nil {
		t.Errorf("ran=%v err=%v", ran, err)
	}
}

func TestRobotReveal(t *testing.T) {
	var buf bytes.Buffer
	if err := robotReveal(context.Background(), &buf, defaultDeck(t), 3, time.Millisecond); err != nil {
		t.Fatalf("robotReveal: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 steps, got %d:\n%s", len(lines), buf.String())
	}

	var first, last revealLine
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(lines[5]), &last); err != nil {
		t.Fatal(err)
	}
	if first.State != "running" || first.Step != 0 || first.Rows[0].Total == nil || first.Rows[1].Total != nil {
		t.Errorf("first step = %+v", first)
	}
	if last.State != "complete" || last.Step != 5 {
		t.Errorf("last step = %+v", last)
	}
	want := []float64{187, 268, 354, 509, 706, 1293}
	for i, r := range last.Rows {
		if r.Total == nil || *r.Total != want[i] {
			t.Errorf("row %d (%s) = %v, want %v", i, r.Label, r.Total, want[i])
		}
	}
}

func TestRobotRevealErrors(t *testing.T) {
	d := defaultDeck(t)
	if err := robotReveal(context.Background(), &bytes.Buffer{}, d, 12, time.Millisecond); !errors.Is(err, reveal.ErrOutOfRange) {
		t.Errorf("slide 12: got %v", err)
	}
	if err := robotReveal(context.Background(), &bytes.Buffer{}, d, 1, time.Millisecond); err == nil {
		t.Error("title slide has no cumulative table")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	if err := robotReveal(ctx, &buf, d, 3, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled: got %v", err)
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("expected only the first step before cancel:\n%s", buf.String())
	}
}
