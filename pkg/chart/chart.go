// Package chart draws lecture charts as terminal text.
//
// Bar graphs and histograms are vertical bars built from eighth blocks,
// frequency polygons are plotted on a character grid, and pie charts are
// drawn as a stacked strip plus one proportion bar per slice.
package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/freqdeck/pkg/lecture"
	"github.com/vanderheijden86/freqdeck/pkg/stats"
)

// Palette is the slice colour order used when a series has no colour.
var Palette = []string{"#3b82f6", "#10b981", "#f59e0b", "#ef4444", "#8b5cf6", "#ec4899", "#6366f1"}

// Minimum plot size; smaller requests are clamped.
const (
	MinWidth  = 20
	MinHeight = 4
)

var eighths = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Options controls the output size and colouring.
type Options struct {
	Width    int
	Height   int
	Renderer *lipgloss.Renderer
}

func (o Options) normalize() Options {
	if o.Width < MinWidth {
		o.Width = MinWidth
	}
	if o.Height < MinHeight {
		o.Height = MinHeight
	}
	if o.Renderer == nil {
		o.Renderer = lipgloss.DefaultRenderer()
	}
	return o
}

// Color returns the colour of series i, falling back to the palette.
func Color(c lecture.Chart, i int) string {
	if i < len(c.Series) && c.Series[i].Color != "" {
		return c.Series[i].Color
	}
	return Palette[i%len(Palette)]
}

// Render draws c. The title is left to the caller.
func Render(c lecture.Chart, opts Options) string {
	opts = opts.normalize()
	if len(c.Labels) == 0 || len(c.Series) == 0 {
		return opts.Renderer.NewStyle().Faint(true).Render("(no data)")
	}
	switch c.Type {
	case lecture.ChartBar:
		return renderBars(c, opts, true)
	case lecture.ChartHistogram:
		return renderBars(c, opts, false)
	case lecture.ChartLine:
		return renderLine(c, opts)
	case lecture.ChartPie:
		return renderPie(c, opts)
	default:
		return fmt.Sprintf("(unsupported chart %q)", c.Type)
	}
}

// Max returns the largest value across all series.
func Max(c lecture.Chart) float64 {
	var m float64
	for _, s := range c.Series {
		for _, v := range s.Values {
			m = math.Max(m, v)
		}
	}
	return m
}

func axisWidth(maxVal float64) int {
	return len(fmt.Sprintf("%.0f", maxVal)) + 1
}

func axisLabel(row, height int, maxVal float64, w int) string {
	switch row {
	case 0:
		return fmt.Sprintf("%*.0f ", w-1, maxVal)
	case height - 1:
		return fmt.Sprintf("%*d ", w-1, 0)
	case height / 2:
		return fmt.Sprintf("%*.0f ", w-1, maxVal/2)
	}
	return strings.Repeat(" ", w)
}

// BarLevels scales values to eighth-block units on a column of height rows.
func BarLevels(values []float64, maxVal float64, height int) []int {
	levels := make([]int, len(values))
	if maxVal <= 0 {
		return levels
	}
	for i, v := range values {
		l := int(math.Round(math.Max(0, v) / maxVal * float64(height*8)))
		levels[i] = min(l, height*8)
	}
	return levels
}

func renderBars(c lecture.Chart, opts Options, gaps bool) string {
	s := c.Series[0]
	maxVal := Max(c)
	aw := axisWidth(maxVal)
	n := len(c.Labels)
	slot := max(1, (opts.Width-aw)/n)
	barW := slot
	if gaps && slot > 2 {
		barW = slot - 1
	}

	style := opts.Renderer.NewStyle().Foreground(lipgloss.Color(Color(c, 0)))
	axis := opts.Renderer.NewStyle().Faint(true)
	levels := BarLevels(s.Values, maxVal, opts.Height)

	var b strings.Builder
	for row := 0; row < opts.Height; row++ {
		b.WriteString(axis.Render(axisLabel(row, opts.Height, maxVal, aw) + "│"))
		floor := (opts.Height - 1 - row) * 8
		var line strings.Builder
		for _, l := range levels {
			fill := min(max(l-floor, 0), 8)
			line.WriteString(strings.Repeat(string(eighths[fill]), barW))
			line.WriteString(strings.Repeat(" ", slot-barW))
		}
		b.WriteString(style.Render(line.String()))
		b.WriteByte('\n')
	}
	b.WriteString(axis.Render(strings.Repeat(" ", aw) + "└" + strings.Repeat("─", slot*n)))
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", aw+1))
	for _, label := range c.Labels {
		b.WriteString(fit(label, slot))
	}
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", aw+1))
	for _, v := range s.Values {
		b.WriteString(fit(stats.FormatCount(v), slot))
	}
	return b.String()
}

// PlotRow maps value onto a grid row, row 0 being the top.
func PlotRow(v, maxVal float64, height int) int {
	if maxVal <= 0 {
		return height - 1
	}
	r := int(math.Round(math.Max(0, v) / maxVal * float64(height-1)))
	return height - 1 - min(r, height-1)
}

func renderLine(c lecture.Chart, opts Options) string {
	maxVal := Max(c)
	aw := axisWidth(maxVal)
	n := len(c.Labels)
	slot := max(1, (opts.Width-aw)/n)
	plotW := slot * n

	// grid holds series index+1 per cell; 0 is empty.
	grid := make([][]int, opts.Height)
	marks := make([][]rune, opts.Height)
	for i := range grid {
		grid[i] = make([]int, plotW)
		marks[i] = make([]rune, plotW)
	}
	set := func(row, col, series int, r rune) {
		if col < 0 || col >= plotW {
			return
		}
		if marks[row][col] == '●' {
			return
		}
		grid[row][col] = series + 1
		marks[row][col] = r
	}

	for si, s := range c.Series {
		xs := make([]int, n)
		for i := range xs {
			xs[i] = i*slot + slot/2
		}
		for i := 0; i+1 < n; i++ {
			x0, x1 := xs[i], xs[i+1]
			for x := x0 + 1; x < x1; x++ {
				if s.Dashed && (x-x0)%2 == 0 {
					continue
				}
				t := float64(x-x0) / float64(x1-x0)
				v := s.Values[i] + t*(s.Values[i+1]-s.Values[i])
				set(PlotRow(v, maxVal, opts.Height), x, si, '·')
			}
		}
		for i, v := range s.Values {
			set(PlotRow(v, maxVal, opts.Height), xs[i], si, '●')
		}
	}

	styles := make([]lipgloss.Style, len(c.Series))
	for i := range c.Series {
		styles[i] = opts.Renderer.NewStyle().Foreground(lipgloss.Color(Color(c, i)))
	}
	axis := opts.Renderer.NewStyle().Faint(true)

	var b strings.Builder
	for row := 0; row < opts.Height; row++ {
		b.WriteString(axis.Render(axisLabel(row, opts.Height, maxVal, aw) + "│"))
		for col := 0; col < plotW; col++ {
			if g := grid[row][col]; g > 0 {
				b.WriteString(styles[g-1].Render(string(marks[row][col])))
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	b.WriteString(axis.Render(strings.Repeat(" ", aw) + "└" + strings.Repeat("─", plotW)))
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", aw+1))
	for _, label := range c.Labels {
		b.WriteString(fit(label, slot))
	}
	if len(c.Series) > 1 {
		b.WriteByte('\n')
		b.WriteString(strings.Repeat(" ", aw+1))
		for i, s := range c.Series {
			line := "──"
			if s.Dashed {
				line = "- -"
			}
			b.WriteString(styles[i].Render(line+" "+s.Name) + "   ")
		}
	}
	return b.String()
}

func renderPie(c lecture.Chart, opts Options) string {
	s := c.Series[0]
	pcts, err := stats.Percentages(s.Values)
	if err != nil {
		return opts.Renderer.NewStyle().Faint(true).Render("(no data)")
	}

	labelW := 0
	for _, l := range c.Labels {
		labelW = max(labelW, runewidth.StringWidth(l))
	}
	barW := max(4, opts.Width-labelW-10)

	var b strings.Builder
	// Stacked strip: the whole pie unrolled.
	used := 0
	for i, p := range pcts {
		w := int(math.Round(p / 100 * float64(opts.Width)))
		if i == len(pcts)-1 {
			w = opts.Width - used
		}
		w = max(0, min(w, opts.Width-used))
		used += w
		b.WriteString(opts.Renderer.NewStyle().Foreground(lipgloss.Color(Palette[i%len(Palette)])).Render(strings.Repeat("█", w)))
	}
	b.WriteString("\n\n")

	for i, label := range c.Labels {
		style := opts.Renderer.NewStyle().Foreground(lipgloss.Color(Palette[i%len(Palette)]))
		filled := int(math.Round(pcts[i] / 100 * float64(barW)))
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barW-filled)
		fmt.Fprintf(&b, "%s %s %5.1f%%", runewidth.FillRight(label, labelW), style.Render(bar), pcts[i])
		if i < len(c.Labels)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// fit centres s in a cell of width w, truncating when needed.
func fit(s string, w int) string {
	if w <= 0 {
		return ""
	}
	s = runewidth.Truncate(s, w-1, "…")
	pad := w - runewidth.StringWidth(s)
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
