package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/freqdeck/pkg/lecture"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals keep their own
// background behind slide boxes.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// Accents used by boxes and callouts
	Blue   lipgloss.AdaptiveColor
	Green  lipgloss.AdaptiveColor
	Purple lipgloss.AdaptiveColor
	Yellow lipgloss.AdaptiveColor
	Gray   lipgloss.AdaptiveColor

	// UI Elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor

	// Styles
	Base     lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Header   lipgloss.Style

	// Pre-computed chrome styles, created once instead of per frame
	MutedText   lipgloss.Style // captions, disabled controls
	PrimaryBold lipgloss.Style // headings, active tab
	DotActive   lipgloss.Style // current slide indicator
	DotInactive lipgloss.Style // other indicators
	ControlOn   lipgloss.Style // enabled prev/next
	ControlOff  lipgloss.Style // prev/next at a boundary
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive)
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"},

		Blue:   lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#60A5FA"},
		Green:  lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"},
		Purple: lipgloss.AdaptiveColor{Light: "#6D28D9", Dark: "#A78BFA"},
		Yellow: lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"},
		Gray:   lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#9CA3AF"},

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})

	t.Title = r.NewStyle().
		Foreground(t.Primary).
		Bold(true)

	t.Subtitle = r.NewStyle().
		Foreground(t.Subtext).
		Italic(true)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.PrimaryBold = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.DotActive = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.DotInactive = r.NewStyle().Foreground(t.Border)
	t.ControlOn = r.NewStyle().Foreground(ThemeFg("#F8F8F2")).Bold(true)
	t.ControlOff = r.NewStyle().Foreground(t.Border).Faint(true)

	return t
}

// AccentColor maps a block accent to its color. Blocks without an accent
// use the border color.
func (t Theme) AccentColor(a lecture.Accent) lipgloss.AdaptiveColor {
	switch a {
	case lecture.AccentBlue:
		return t.Blue
	case lecture.AccentGreen:
		return t.Green
	case lecture.AccentPurple:
		return t.Purple
	case lecture.AccentYellow:
		return t.Yellow
	case lecture.AccentGray:
		return t.Gray
	default:
		return t.Border
	}
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
