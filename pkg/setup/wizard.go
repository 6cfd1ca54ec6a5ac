// Package setup implements the interactive --setup wizard that writes the
// freqdeck config file.
package setup

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/vanderheijden86/freqdeck/pkg/config"
	"github.com/vanderheijden86/freqdeck/pkg/debug"
)

// ErrAborted is returned when the user leaves the wizard without saving.
var ErrAborted = errors.New("setup aborted")

// Answers holds the wizard fields. Numeric fields are kept as text because
// huh inputs bind to strings; StartSlide is one-based.
type Answers struct {
	WrapAround     bool
	StartSlide     string
	IntervalMS     string
	PercentDelayMS string
	ShowIndicators bool
	Mouse          bool
	DeckPath       string
	Save           bool
}

// AnswersFrom pre-fills the wizard from an existing config.
func AnswersFrom(cfg config.Config) Answers {
	return Answers{
		WrapAround:     cfg.Navigation.WrapAround,
		StartSlide:     strconv.Itoa(cfg.Navigation.StartSlide + 1),
		IntervalMS:     strconv.Itoa(cfg.Reveal.IntervalMS),
		PercentDelayMS: strconv.Itoa(cfg.Reveal.PercentDelayMS),
		ShowIndicators: cfg.UI.ShowIndicators,
		Mouse:          cfg.UI.Mouse,
		DeckPath:       cfg.Deck.Path,
		Save:           true,
	}
}

// Apply folds the answers into cfg. Fields the wizard does not ask about
// are left as they were.
func (a Answers) Apply(cfg config.Config) (config.Config, error) {
	start, err := strconv.Atoi(strings.TrimSpace(a.StartSlide))
	if err != nil || start < 1 {
		return cfg, fmt.Errorf("%w: start slide %q", config.ErrInvalid, a.StartSlide)
	}
	interval, err := parseMillis(a.IntervalMS)
	if err != nil {
		return cfg, err
	}
	delay, err := parseMillis(a.PercentDelayMS)
	if err != nil {
		return cfg, err
	}

	cfg.Navigation.WrapAround = a.WrapAround
	cfg.Navigation.StartSlide = start - 1
	cfg.Reveal.IntervalMS = interval
	cfg.Reveal.PercentDelayMS = delay
	cfg.UI.ShowIndicators = a.ShowIndicators
	cfg.UI.Mouse = a.Mouse
	cfg.Deck.Path = strings.TrimSpace(a.DeckPath)
	return cfg, cfg.Validate()
}

func parseMillis(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q is not a delay in milliseconds", config.ErrInvalid, s)
	}
	return n, nil
}

func validateMillis(s string) error {
	_, err := parseMillis(s)
	return err
}

func validateSlide(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return fmt.Errorf("enter a slide number from 1")
	}
	return nil
}

// validateDeckPath accepts an empty path (built-in lecture) or an existing
// regular file.
func validateDeckPath(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	info, err := os.Stat(s)
	if err != nil {
		return fmt.Errorf("deck file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("deck file: %s is a directory", s)
	}
	return nil
}

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeCharm())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

func (a *Answers) form() *huh.Form {
	return newForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Wrap around at the ends of the deck?").
				Description("No keeps the first and last slide as hard stops").
				Value(&a.WrapAround).
				Affirmative("Wrap").
				Negative("Stop"),
			huh.NewInput().
				Title("Start on slide").
				Value(&a.StartSlide).
				Validate(validateSlide),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Cumulative reveal step (ms)").
				Value(&a.IntervalMS).
				Validate(validateMillis),
			huh.NewInput().
				Title("Percentage reveal delay (ms)").
				Value(&a.PercentDelayMS).
				Validate(validateMillis),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Show slide indicators?").
				Value(&a.ShowIndicators),
			huh.NewConfirm().
				Title("Enable mouse?").
				Value(&a.Mouse),
			huh.NewInput().
				Title("Deck file").
				Description("Leave empty for the built-in lecture").
				Value(&a.DeckPath).
				Validate(validateDeckPath),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save configuration?").
				Value(&a.Save).
				Affirmative("Save").
				Negative("Discard"),
		),
	)
}

// Run walks the user through the wizard starting from cfg and writes the
// result to path.
func Run(cfg config.Config, path string) (config.Config, error) {
	answers := AnswersFrom(cfg)
	if err := answers.form().Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return cfg, ErrAborted
		}
		return cfg, fmt.Errorf("setup form: %w", err)
	}
	if !answers.Save {
		return cfg, ErrAborted
	}

	next, err := answers.Apply(cfg)
	if err != nil {
		return cfg, err
	}
	if err := config.SaveTo(next, path); err != nil {
		return cfg, err
	}
	debug.Log("setup: wrote %s", path)
	return next, nil
}
