package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ══════════════════════════════════════════════════════════════════════════════
// DESIGN TOKENS - Consistent spacing and layout thresholds
// ══════════════════════════════════════════════════════════════════════════════

// Spacing constants for consistent layout (in characters)
const (
	SpaceXS = 1
	SpaceSM = 2
	SpaceMD = 3
	SpaceLG = 4
)

// Layout limits for the slide body
const (
	MaxContentWidth = 110 // slides stop growing past this
	MinColumnWidth  = 24  // columns stack vertically below this
	TrackWidth      = 32  // percent and rate bars
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - Adaptive colors for light and dark terminals
// ══════════════════════════════════════════════════════════════════════════════

var (
	ColorText     = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}
	ColorSubtext  = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"}
	ColorMuted    = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}
	ColorBgSubtle = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#363949"}

	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
	ColorSuccessBg = lipgloss.AdaptiveColor{Light: "#D4EDDA", Dark: "#1A3D2A"}
	ColorDanger    = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}
	ColorDangerBg  = lipgloss.AdaptiveColor{Light: "#F8D7DA", Dark: "#3D1A1A"}
)

// ══════════════════════════════════════════════════════════════════════════════
// BARS AND TRACKS
// ══════════════════════════════════════════════════════════════════════════════

var partialBlocks = []string{"", "▏", "▎", "▍", "▌", "▋", "▊", "▉"}

// RenderTrack draws a horizontal bar filled to width cells (fractional
// widths use eighth blocks) on a track of the given size.
func RenderTrack(t Theme, filled float64, track int, color lipgloss.TerminalColor) string {
	if track <= 0 {
		return ""
	}
	if filled < 0 {
		filled = 0
	}
	if filled > float64(track) {
		filled = float64(track)
	}
	full := int(filled)
	part := int((filled - float64(full)) * 8)

	bar := strings.Repeat("█", full)
	used := full
	if part > 0 && used < track {
		bar += partialBlocks[part]
		used++
	}
	rest := strings.Repeat("░", track-used)
	return t.Renderer.NewStyle().Foreground(color).Render(bar) + t.MutedText.Render(rest)
}

// ══════════════════════════════════════════════════════════════════════════════
// DIVIDERS AND HINTS
// ══════════════════════════════════════════════════════════════════════════════

// RenderDivider renders a horizontal divider line
func RenderDivider(t Theme, width int) string {
	if width <= 0 {
		return ""
	}
	return t.Renderer.NewStyle().
		Foreground(t.Border).
		Render(strings.Repeat("─", width))
}

// RenderStatus renders a one-line status message, red for errors.
func RenderStatus(t Theme, msg string, isError bool) string {
	fg, bg, prefix := ColorSuccess, ColorSuccessBg, "✓ "
	if isError {
		fg, bg, prefix = ColorDanger, ColorDangerBg, "✗ "
	}
	return t.Renderer.NewStyle().
		Foreground(fg).
		Background(bg).
		Bold(true).
		Padding(0, 2).
		Render(prefix + msg)
}
