package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/freqdeck/pkg/lecture"
	"github.com/vanderheijden86/freqdeck/pkg/reveal"
)

func testRenderer(state *slideState) *contentRenderer {
	return newContentRenderer(DefaultTheme(lipgloss.NewRenderer(nil)), state, nil)
}

func TestRenderTable(t *testing.T) {
	tb := lecture.Table{
		Title:   "Clauses",
		Columns: []string{"Type", "n"},
		Numeric: []bool{false, true},
		Rows:    [][]string{{"Simple", "352"}, {"Fragment", "7"}},
		Total:   []string{"Total", "359"},
	}
	out := stripANSI(testRenderer(nil).Block(tb, 40))
	lines := strings.Split(out, "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d:\n%s", len(lines), out)
	}
	if lines[0] != "Clauses" {
		t.Errorf("title line = %q", lines[0])
	}
	// numeric column right-aligned
	if !strings.HasSuffix(lines[4], "     7") {
		t.Errorf("numeric cell not right-aligned: %q", lines[4])
	}
	if !strings.HasPrefix(lines[5], "Total") {
		t.Errorf("total row = %q", lines[5])
	}
}

func TestRenderTableShrinksToWidth(t *testing.T) {
	tb := lecture.Table{
		Columns: []string{"A very long column heading", "B"},
		Rows:    [][]string{{"short", "1"}},
	}
	out := stripANSI(testRenderer(nil).Block(tb, 20))
	for _, l := range strings.Split(out, "\n") {
		if w := lipgloss.Width(l); w > 20 {
			t.Errorf("line %q is %d wide", l, w)
		}
	}
}

func TestRenderColumnsSideBySide(t *testing.T) {
	cols := lecture.Columns{Columns: [][]lecture.Block{
		{lecture.Paragraph{Text: "left"}},
		{lecture.Paragraph{Text: "right"}},
	}}
	wide := stripANSI(testRenderer(nil).Block(cols, 80))
	if strings.Count(wide, "\n") != 0 || !strings.Contains(wide, "left") || !strings.Contains(wide, "right") {
		t.Errorf("wide columns should share one line: %q", wide)
	}
	narrow := stripANSI(testRenderer(nil).Block(cols, 30))
	if !strings.Contains(narrow, "left") || strings.Index(narrow, "right") < strings.Index(narrow, "\n") {
		t.Errorf("narrow columns should stack: %q", narrow)
	}
}

func TestRenderCalloutAndBullets(t *testing.T) {
	r := testRenderer(nil)
	out := stripANSI(r.Block(lecture.Callout{Label: "Key point:", Text: "sorted", Accent: lecture.AccentGray}, 40))
	if !strings.Contains(out, "Key point: sorted") {
		t.Errorf("callout = %q", out)
	}

	out = stripANSI(r.Block(lecture.Bullets{Title: "Rate", Items: []string{"per 100"}, Marker: "·", Accent: lecture.AccentBlue}, 30))
	if !strings.Contains(out, "Rate") || !strings.Contains(out, "· per 100") || !strings.Contains(out, "╭") {
		t.Errorf("bullets = %q", out)
	}
}

func TestRenderHeadingCentered(t *testing.T) {
	out := stripANSI(testRenderer(nil).Block(lecture.Heading{Text: "Hi", Level: 1}, 10))
	if out != "    Hi    " {
		t.Errorf("heading = %q", out)
	}
}

func TestRenderMarkdown(t *testing.T) {
	out := stripANSI(testRenderer(nil).Block(lecture.Markdown{Source: "### Critical Reminders\n\n1. Report *n*"}, 60))
	if !strings.Contains(out, "Critical Reminders") || !strings.Contains(out, "Report") {
		t.Errorf("markdown = %q", out)
	}
}

func TestRenderChartHasTitle(t *testing.T) {
	c := lecture.Chart{
		Type:   lecture.ChartBar,
		Title:  "Status",
		Labels: []string{"Grad", "Undergrad"},
		Series: []lecture.Series{{Values: []float64{424, 851}}},
	}
	out := stripANSI(testRenderer(nil).Block(c, 40))
	if !strings.HasPrefix(out, "Status\n") || !strings.Contains(out, "851") {
		t.Errorf("chart = %q", out)
	}
}

func cumulativeBlock(t *testing.T) lecture.Cumulative {
	t.Helper()
	seq, err := reveal.NewSequence([]string{"C", "B", "A"}, []float64{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	return lecture.Cumulative{Title: "Data", Sequence: seq}
}

func TestRenderCumulativeFollowsAnimator(t *testing.T) {
	blk := cumulativeBlock(t)
	a, err := reveal.NewAnimator(blk.Sequence, time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	st := &slideState{cumulative: []*reveal.Animator{a}}

	idle := stripANSI(testRenderer(st).Block(blk, 40))
	if !strings.Contains(idle, "press a to reveal") {
		t.Errorf("idle hint missing: %q", idle)
	}

	tm, _ := a.Start()
	a.Fire(tm)
	running := stripANSI(testRenderer(st).Block(blk, 40))
	// C then B revealed: 1 and 3; A (shown first) still blank
	if !strings.Contains(running, "adding… 2/3") {
		t.Errorf("running status missing: %q", running)
	}
	lines := strings.Split(running, "\n")
	var rowA string
	for _, l := range lines {
		if strings.Contains(l, "A ") {
			rowA = l
			break
		}
	}
	if strings.Contains(rowA, "6") {
		t.Errorf("row A should be blank while running: %q", rowA)
	}
}

func TestRenderCumulativeWithoutState(t *testing.T) {
	out := stripANSI(testRenderer(nil).Block(cumulativeBlock(t), 40))
	if !strings.Contains(out, "6") || !strings.Contains(out, "press a to reveal") {
		t.Errorf("static table should show the grand total: %q", out)
	}
}

func TestRenderRateBlock(t *testing.T) {
	rb := lecture.RateBlock{Title: "Rates", Datasets: []reveal.Dataset{{Name: "X", Per100: 22}, {Name: "Y", Per100: 3}}}
	out := stripANSI(testRenderer(nil).Block(rb, 60))
	for _, want := range []string{"Rates", "X", "Y", "22 per 100", "ratio 22:78 = 0.3:1"} {
		if !strings.Contains(out, want) {
			t.Errorf("rate block missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTrack(t *testing.T) {
	theme := DefaultTheme(lipgloss.NewRenderer(nil))
	tests := []struct {
		filled float64
		want   string
	}{
		{0, "░░░░"},
		{2, "██░░"},
		{1.5, "█▌░░"},
		{9, "████"},
		{-1, "░░░░"},
	}
	for _, tt := range tests {
		if got := stripANSI(RenderTrack(theme, tt.filled, 4, theme.Blue)); got != tt.want {
			t.Errorf("RenderTrack(%v) = %q, want %q", tt.filled, got, tt.want)
		}
	}
}
