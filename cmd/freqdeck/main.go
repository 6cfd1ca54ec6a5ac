package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/freqdeck/pkg/config"
	"github.com/vanderheijden86/freqdeck/pkg/debug"
	"github.com/vanderheijden86/freqdeck/pkg/export"
	"github.com/vanderheijden86/freqdeck/pkg/lecture"
	"github.com/vanderheijden86/freqdeck/pkg/metrics"
	"github.com/vanderheijden86/freqdeck/pkg/reveal"
	"github.com/vanderheijden86/freqdeck/pkg/setup"
	"github.com/vanderheijden86/freqdeck/pkg/ui"
	"github.com/vanderheijden86/freqdeck/pkg/version"
	"github.com/vanderheijden86/freqdeck/pkg/watcher"

	tea "github.com/charmbracelet/bubbletea"
)

// options holds the parsed command line.
type options struct {
	configPath string
	deckPath   string
	slide      int // one-based, 0 keeps the configured start slide
	wrap       bool
	noWrap     bool
	intervalMS int

	exportCharts string
	format       string
	exportSQLite string
	robotOutline bool
	robotData    bool
	robotReveal  int
	robotMetrics bool
}

func main() {
	var opts options
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	setupFlag := flag.Bool("setup", false, "Run the interactive configuration wizard")
	dumpDeck := flag.Bool("dump-deck", false, "Print the built-in lecture deck file")
	flag.StringVar(&opts.configPath, "config", "", "Config file (default ~/.config/freqdeck/config.yaml)")
	flag.StringVar(&opts.deckPath, "deck", "", "Deck file to present instead of the built-in lecture")
	flag.IntVar(&opts.slide, "slide", 0, "Start on slide N (1-based)")
	flag.BoolVar(&opts.wrap, "wrap", false, "Wrap around at the ends of the deck")
	flag.BoolVar(&opts.noWrap, "no-wrap", false, "Stop at the first and last slide")
	flag.IntVar(&opts.intervalMS, "interval", 0, "Cumulative reveal step in milliseconds")
	flag.StringVar(&opts.exportCharts, "export-charts", "", "Write every chart as an image into DIR")
	flag.StringVar(&opts.format, "format", export.FormatSVG, "Chart image format: svg or png")
	flag.StringVar(&opts.exportSQLite, "export-sqlite", "", "Write all slide data tables to a SQLite file")
	flag.BoolVar(&opts.robotOutline, "robot-outline", false, "Output the deck outline as JSON")
	flag.BoolVar(&opts.robotData, "robot-data", false, "Include data tables in --robot-outline")
	flag.IntVar(&opts.robotReveal, "robot-reveal", 0, "Play the cumulative reveal of slide N as JSON lines")
	flag.BoolVar(&opts.robotMetrics, "robot-metrics", false, "Output timing metrics as JSON")
	flag.Parse()

	if *help {
		fmt.Println("Usage: freqdeck [options]")
		fmt.Println("\nA terminal presenter for the frequency distributions lecture.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("freqdeck %s\n", version.Version)
		os.Exit(0)
	}

	if *dumpDeck {
		os.Stdout.Write(lecture.DefaultSource())
		os.Exit(0)
	}

	if opts.wrap && opts.noWrap {
		fmt.Fprintln(os.Stderr, "Error: --wrap and --no-wrap are mutually exclusive")
		os.Exit(2)
	}

	cfgPath := opts.configPath
	if cfgPath == "" {
		cfgPath = config.ConfigPath()
	}
	cfg, err := resolveConfig(cfgPath, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if *setupFlag {
		if cfgPath == "" {
			fmt.Fprintln(os.Stderr, "Error: no config directory; pass --config")
			os.Exit(1)
		}
		if _, err := setup.Run(cfg, cfgPath); err != nil {
			if errors.Is(err, setup.ErrAborted) {
				fmt.Println("Setup cancelled")
				os.Exit(0)
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Saved %s\n", cfgPath)
		os.Exit(0)
	}

	d, err := loadDeck(cfg.Deck.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading deck: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ran, err := runBatch(ctx, os.Stdout, d, cfg, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if ran {
		return
	}

	if err := present(d, cfg, cfgPath, opts); err != nil {
		fmt.Printf("Error running presenter: %v\n", err)
		os.Exit(1)
	}
}

// resolveConfig layers the config file, the environment and the flags.
func resolveConfig(path string, opts options) (config.Config, error) {
	cfg := config.DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = config.LoadFrom(path); err != nil {
			return cfg, err
		}
	}
	cfg, err := config.ApplyEnv(cfg)
	if err != nil {
		return cfg, err
	}
	return applyFlags(cfg, opts)
}

// applyFlags overrides cfg with the command line.
func applyFlags(cfg config.Config, opts options) (config.Config, error) {
	switch {
	case opts.wrap:
		cfg.Navigation.WrapAround = true
	case opts.noWrap:
		cfg.Navigation.WrapAround = false
	}
	if opts.slide < 0 {
		return cfg, fmt.Errorf("%w: --slide %d", config.ErrInvalid, opts.slide)
	}
	if opts.slide > 0 {
		cfg.Navigation.StartSlide = opts.slide - 1
	}
	if opts.intervalMS > 0 {
		cfg.Reveal.IntervalMS = opts.intervalMS
	}
	if opts.deckPath != "" {
		cfg.Deck.Path = opts.deckPath
	}
	return cfg, cfg.Validate()
}

func loadDeck(path string) (lecture.Deck, error) {
	defer metrics.Timer(metrics.DeckLoad)()
	d, err := lecture.Load(path)
	if err != nil {
		return d, err
	}
	debug.Log("loaded deck %q: %d slides", d.Title, len(d.Slides))
	return d, nil
}

// runBatch handles the export and robot flags. It reports whether any ran,
// in which case the presenter is not started.
func runBatch(ctx context.Context, w io.Writer, d lecture.Deck, cfg config.Config, opts options) (bool, error) {
	ran := false

	if opts.exportCharts != "" {
		ran = true
		files, err := export.ExportCharts(ctx, d, opts.exportCharts, opts.format)
		if err != nil {
			return ran, fmt.Errorf("export charts: %w", err)
		}
		for _, f := range files {
			fmt.Fprintf(w, "✓ %s\n", f.Path)
		}
	}

	if opts.exportSQLite != "" {
		ran = true
		stats, err := export.ExportSQLite(ctx, d, opts.exportSQLite)
		if err != nil {
			return ran, fmt.Errorf("export sqlite: %w", err)
		}
		fmt.Fprintf(w, "✓ %s: %d datasets, %d points\n", opts.exportSQLite, stats.Datasets, stats.Points)
	}

	if opts.robotOutline {
		ran = true
		o := export.BuildOutline(d, cfg.Navigation.WrapAround, opts.robotData)
		if err := export.WriteJSON(w, o); err != nil {
			return ran, err
		}
	}

	if opts.robotReveal != 0 {
		ran = true
		if err := robotReveal(ctx, w, d, opts.robotReveal, cfg.Interval()); err != nil {
			return ran, err
		}
	}

	if opts.robotMetrics {
		ran = true
		if err := export.WriteJSON(w, metrics.Snapshot()); err != nil {
			return ran, err
		}
	}

	return ran, nil
}

// revealLine is one step of --robot-reveal.
type revealLine struct {
	Slide int          `json:"slide"`
	Title string       `json:"title"`
	State string       `json:"state"`
	Step  int          `json:"step"`
	Rows  []revealCell `json:"rows"`
}

type revealCell struct {
	Label string   `json:"label"`
	Total *float64 `json:"total"` // null until revealed
}

// robotReveal plays the first cumulative reveal of the one-based slide n in
// real time, writing one JSON line per state change.
func robotReveal(ctx context.Context, w io.Writer, d lecture.Deck, n int, interval time.Duration) error {
	if n < 1 || n > len(d.Slides) {
		return fmt.Errorf("--robot-reveal: slide %d: %w", n, reveal.ErrOutOfRange)
	}
	slide := d.Slides[n-1]

	var blk *lecture.Cumulative
	lecture.Walk(slide.Body, func(b lecture.Block) {
		if c, ok := b.(lecture.Cumulative); ok && blk == nil {
			blk = &c
		}
	})
	if blk == nil {
		return fmt.Errorf("--robot-reveal: slide %d has no cumulative table", n)
	}

	a, err := reveal.NewAnimator(blk.Sequence, interval)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	var writeErr error
	err = reveal.Play(ctx, a, func(state reveal.State, step int, cells []reveal.Cell) {
		if writeErr != nil {
			return
		}
		line := revealLine{Slide: n, Title: slide.Title, State: state.String(), Step: step}
		for _, c := range cells {
			rc := revealCell{Label: c.Label}
			if c.Shown {
				v := c.Value
				rc.Total = &v
			}
			line.Rows = append(line.Rows, rc)
		}
		writeErr = enc.Encode(line)
	})
	if writeErr != nil {
		return writeErr
	}
	return err
}

// present runs the interactive presenter until the user quits.
func present(d lecture.Deck, cfg config.Config, cfgPath string, opts options) error {
	var modelOpts []ui.Option
	if cfgPath != "" {
		w, err := watcher.New(cfgPath,
			watcher.WithDebounce(200*time.Millisecond),
			watcher.WithOnError(func(err error) { debug.Log("config watch: %v", err) }),
		)
		if err == nil {
			err = w.Start()
		}
		if err != nil {
			// Non-fatal: present without live reload
			debug.Log("config watch disabled: %v", err)
		} else {
			defer w.Stop()
			reload := func() (config.Config, error) { return resolveConfig(cfgPath, opts) }
			modelOpts = append(modelOpts, ui.WithConfigWatch(w, reload))
		}
	}

	m, err := ui.NewModel(d, cfg, modelOpts...)
	if err != nil {
		return err
	}
	defer m.Stop()

	return runTUIProgram(m, cfg.UI.Mouse)
}

func runTUIProgram(m ui.Model, mouse bool) error {
	progOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	}
	if mouse {
		progOpts = append(progOpts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(m, progOpts...)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set FREQDECK_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("FREQDECK_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
