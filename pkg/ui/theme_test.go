package ui

import (
	"testing"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/freqdeck/pkg/lecture"
)

func TestDefaultTheme(t *testing.T) {
	renderer := lipgloss.NewRenderer(nil)
	theme := DefaultTheme(renderer)

	if theme.Renderer != renderer {
		t.Error("DefaultTheme renderer mismatch")
	}
	if isColorEmpty(theme.Primary) {
		t.Error("DefaultTheme Primary color is empty")
	}
	if isColorEmpty(theme.Blue) {
		t.Error("DefaultTheme Blue color is empty")
	}
}

func isColorEmpty(c lipgloss.AdaptiveColor) bool {
	return c.Light == "" && c.Dark == ""
}

func TestAccentColor(t *testing.T) {
	theme := DefaultTheme(lipgloss.NewRenderer(nil))

	tests := []struct {
		accent lecture.Accent
		want   lipgloss.AdaptiveColor
	}{
		{lecture.AccentBlue, theme.Blue},
		{lecture.AccentGreen, theme.Green},
		{lecture.AccentPurple, theme.Purple},
		{lecture.AccentYellow, theme.Yellow},
		{lecture.AccentGray, theme.Gray},
		{lecture.AccentNone, theme.Border},
		{"teal", theme.Border},
	}

	for _, tt := range tests {
		if got := theme.AccentColor(tt.accent); got != tt.want {
			t.Errorf("AccentColor(%q) = %v, want %v", tt.accent, got, tt.want)
		}
	}
}

func TestThemeFgBgByProfile(t *testing.T) {
	saved := TermProfile
	defer func() { TermProfile = saved }()

	TermProfile = colorprofile.ANSI
	if _, ok := ThemeBg("#123456").(lipgloss.NoColor); !ok {
		t.Error("ThemeBg should drop backgrounds below TrueColor")
	}
	if got := ThemeFg("#123456"); got != lipgloss.ANSIColor(7) {
		t.Errorf("ThemeFg on 16 colors = %v", got)
	}

	TermProfile = colorprofile.TrueColor
	if got := ThemeBg("#123456"); got != lipgloss.Color("#123456") {
		t.Errorf("ThemeBg on TrueColor = %v", got)
	}
	if got := ThemeFg("#123456"); got != lipgloss.Color("#123456") {
		t.Errorf("ThemeFg on TrueColor = %v", got)
	}
}
