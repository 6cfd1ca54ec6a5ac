package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/freqdeck/pkg/chart"
	"github.com/vanderheijden86/freqdeck/pkg/debug"
	"github.com/vanderheijden86/freqdeck/pkg/lecture"
	"github.com/vanderheijden86/freqdeck/pkg/reveal"
	"github.com/vanderheijden86/freqdeck/pkg/stats"
)

const (
	columnGap   = 3
	chartHeight = 10
)

// markdownCache keeps one glamour renderer per wrap width.
type markdownCache map[int]*glamour.TermRenderer

func (c markdownCache) render(src string, width int) string {
	r, ok := c[width]
	if !ok {
		var err error
		r, err = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			debug.Log("markdown: renderer: %v", err)
			return src
		}
		c[width] = r
	}
	out, err := r.Render(src)
	if err != nil {
		debug.Log("markdown: render: %v", err)
		return src
	}
	// glamour pads with blank lines and trailing spaces
	lines := strings.Split(out, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n")
}

// contentRenderer draws slide bodies. Reveal blocks are matched to the live
// machines in state by walk order, so it must be used for one pass only.
type contentRenderer struct {
	theme Theme
	state *slideState
	md    markdownCache

	nCumulative int
	nPercent    int
	nRate       int
}

func newContentRenderer(t Theme, state *slideState, md markdownCache) *contentRenderer {
	if md == nil {
		md = markdownCache{}
	}
	return &contentRenderer{theme: t, state: state, md: md}
}

// Blocks renders a list of blocks separated by blank lines.
func (r *contentRenderer) Blocks(blocks []lecture.Block, width int) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if s := r.Block(b, width); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Block renders one block at the given width.
func (r *contentRenderer) Block(b lecture.Block, width int) string {
	t := r.theme
	switch v := b.(type) {
	case lecture.Heading:
		return r.heading(v, width)
	case lecture.Paragraph:
		return t.Base.Width(width).Render(v.Text)
	case lecture.Bullets:
		return r.bullets(v, width)
	case lecture.Callout:
		return r.callout(v, width)
	case lecture.Markdown:
		return r.md.render(v.Source, width)
	case lecture.Table:
		return r.table(v, width)
	case lecture.Columns:
		return r.columns(v, width)
	case lecture.Chart:
		return r.chart(v, width)
	case lecture.Cumulative:
		return r.cumulative(v, width)
	case lecture.PercentBlock:
		return r.percent(v, width)
	case lecture.RateBlock:
		return r.rate(v, width)
	default:
		return t.MutedText.Render(fmt.Sprintf("(%s)", b.Kind()))
	}
}

func (r *contentRenderer) heading(h lecture.Heading, width int) string {
	style := r.theme.Title
	if h.Level > 1 {
		style = r.theme.Subtitle
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(truncate(h.Text, width)))
}

func (r *contentRenderer) box(accent lecture.Accent, width int) lipgloss.Style {
	return r.theme.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(r.theme.AccentColor(accent)).
		Padding(0, 1).
		Width(max(1, width-2))
}

func (r *contentRenderer) bullets(b lecture.Bullets, width int) string {
	marker := b.Marker
	if marker == "" {
		marker = "•"
	}
	accent := r.theme.Renderer.NewStyle().Foreground(r.theme.AccentColor(b.Accent))
	var lines []string
	if b.Title != "" {
		lines = append(lines, accent.Bold(true).Render(b.Title))
	}
	for _, it := range b.Items {
		lines = append(lines, accent.Render(marker)+" "+it)
	}
	body := strings.Join(lines, "\n")
	if b.Accent == lecture.AccentNone {
		return r.theme.Base.Width(width).Render(body)
	}
	return r.box(b.Accent, width).Render(body)
}

func (r *contentRenderer) callout(c lecture.Callout, width int) string {
	col := r.theme.AccentColor(c.Accent)
	label := r.theme.Renderer.NewStyle().Foreground(col).Bold(true).Render(c.Label)
	text := strings.TrimSpace(label + " " + c.Text)
	return r.theme.Renderer.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(col).
		PaddingLeft(1).
		Width(max(1, width-1)).
		Render(text)
}

// table lays out a static grid; numeric columns are right-aligned and the
// widest column gives way when the grid does not fit.
func (r *contentRenderer) table(tb lecture.Table, width int) string {
	widths := columnWidths(tb.Columns, append(append([][]string{}, tb.Rows...), tb.Total))
	shrinkColumns(widths, width-columnGap*(len(widths)-1))

	format := func(row []string, style lipgloss.Style) string {
		cells := make([]string, len(widths))
		for i, w := range widths {
			cell := ""
			if i < len(row) {
				cell = truncate(row[i], w)
			}
			if i < len(tb.Numeric) && tb.Numeric[i] {
				cells[i] = padLeft(cell, w)
			} else {
				cells[i] = padRight(cell, w)
			}
		}
		return style.Render(strings.Join(cells, strings.Repeat(" ", columnGap)))
	}

	t := r.theme
	var lines []string
	if tb.Title != "" {
		lines = append(lines, t.PrimaryBold.Render(tb.Title))
	}
	lines = append(lines, format(tb.Columns, t.PrimaryBold))
	lines = append(lines, RenderDivider(t, sum(widths)+columnGap*(len(widths)-1)))
	for _, row := range tb.Rows {
		lines = append(lines, format(row, t.Base))
	}
	if len(tb.Total) > 0 {
		lines = append(lines, format(tb.Total, t.Base.Bold(true)))
	}
	return strings.Join(lines, "\n")
}

func columnWidths(header []string, rows [][]string) []int {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
		}
	}
	return widths
}

func shrinkColumns(widths []int, avail int) {
	for sum(widths) > avail {
		wi := 0
		for i, w := range widths {
			if w > widths[wi] {
				wi = i
			}
		}
		if widths[wi] <= 4 {
			return
		}
		widths[wi]--
	}
}

func sum(xs []int) int {
	n := 0
	for _, x := range xs {
		n += x
	}
	return n
}

func (r *contentRenderer) columns(c lecture.Columns, width int) string {
	n := len(c.Columns)
	if n == 0 {
		return ""
	}
	colW := (width - columnGap*(n-1)) / n
	if colW < MinColumnWidth {
		parts := make([]string, 0, n)
		for _, col := range c.Columns {
			parts = append(parts, r.Blocks(col, width))
		}
		return strings.Join(parts, "\n\n")
	}
	gap := strings.Repeat(" ", columnGap)
	parts := make([]string, 0, 2*n-1)
	for i, col := range c.Columns {
		if i > 0 {
			parts = append(parts, gap)
		}
		parts = append(parts, r.theme.Renderer.NewStyle().Width(colW).Render(r.Blocks(col, colW)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (r *contentRenderer) chart(c lecture.Chart, width int) string {
	title := r.theme.PrimaryBold.Render(truncate(c.Title, width))
	body := chart.Render(c, chart.Options{Width: width, Height: chartHeight, Renderer: r.theme.Renderer})
	return title + "\n" + body
}

// cumulative draws the frequency table with the running totals revealed so
// far. Rows are shown most frequent first; the reveal runs bottom-up.
func (r *contentRenderer) cumulative(c lecture.Cumulative, width int) string {
	t := r.theme
	var a *reveal.Animator
	if r.state != nil && r.nCumulative < len(r.state.cumulative) {
		a = r.state.cumulative[r.nCumulative]
	}
	r.nCumulative++

	seq := c.Sequence
	if len(seq) == 0 {
		return ""
	}
	cells := make([]reveal.Cell, len(seq))
	step := -1
	if a != nil {
		cells = a.Display()
		step = a.Step()
	} else {
		n := len(seq)
		cells[n-1] = reveal.Cell{Label: seq[n-1].Label, Shown: true, Value: seq[n-1].Total}
	}

	header := []string{"Category", "f", "cum f"}
	rows := make([][]string, len(seq))
	for i := range seq {
		row := seq[len(seq)-1-i]
		rows[i] = []string{row.Label, stats.FormatCount(row.Increment), ""}
	}
	widths := columnWidths(header, rows)
	widths[2] = max(widths[2], len(stats.FormatCount(seq.Totals()[len(seq)-1])))
	shrinkColumns(widths, width-4-columnGap*2)

	line := func(cols []string, style lipgloss.Style) string {
		return style.Render(padRight(truncate(cols[0], widths[0]), widths[0]) +
			strings.Repeat(" ", columnGap) + padLeft(cols[1], widths[1]) +
			strings.Repeat(" ", columnGap) + padLeft(cols[2], widths[2]))
	}

	hot := t.Renderer.NewStyle().Foreground(t.Blue).Bold(true)
	var lines []string
	lines = append(lines, line(header, t.PrimaryBold))
	lines = append(lines, RenderDivider(t, sum(widths)+columnGap*2))
	for i, row := range rows {
		si := len(seq) - 1 - i
		cell := cells[si]
		if cell.Shown {
			row[2] = stats.FormatCount(cell.Value)
		}
		style := t.Base
		if si == step {
			style = hot
		}
		lines = append(lines, line(row, style))
	}

	status := "press a to reveal"
	if a != nil {
		switch a.State() {
		case reveal.Running:
			status = fmt.Sprintf("adding… %d/%d", a.Step()+1, a.Len())
		case reveal.Complete:
			status = fmt.Sprintf("N = %s", stats.FormatCount(seq[len(seq)-1].Total))
		}
	}
	lines = append(lines, "", t.MutedText.Render(status))
	if c.Caption != "" {
		lines = append(lines, t.MutedText.Italic(true).Render(truncate(c.Caption, width-4)))
	}

	title := ""
	if c.Title != "" {
		title = t.PrimaryBold.Render(c.Title) + "\n"
	}
	return r.box(lecture.AccentBlue, width).Render(title + strings.Join(lines, "\n"))
}

func (r *contentRenderer) percent(pb lecture.PercentBlock, width int) string {
	t := r.theme
	var p *reveal.PercentReveal
	if r.state != nil && r.nPercent < len(r.state.percent) {
		p = r.state.percent[r.nPercent]
	}
	r.nPercent++

	labelW := 0
	for _, v := range pb.Values {
		labelW = max(labelW, runewidth.StringWidth(v.Label))
	}
	track := min(TrackWidth, width-labelW-10)

	var lines []string
	if pb.Title != "" {
		lines = append(lines, t.PrimaryBold.Render(truncate(pb.Title, width)))
	}
	for i, v := range pb.Values {
		filled := 0.0
		value := t.MutedText.Render("  ?")
		if p != nil && p.Revealed() {
			filled = p.Width(i, float64(track))
			value = fmt.Sprintf("%5.1f%%", v.Value)
		}
		col := lipgloss.Color(chart.Palette[i%len(chart.Palette)])
		lines = append(lines, padRight(v.Label, labelW)+" "+RenderTrack(t, filled, track, col)+" "+value)
	}
	if p == nil || p.State() == reveal.NotStarted {
		lines = append(lines, t.MutedText.Render("press a to visualize"))
	}
	return strings.Join(lines, "\n")
}

func (r *contentRenderer) rate(rb lecture.RateBlock, width int) string {
	t := r.theme
	var rs *rateState
	if r.state != nil && r.nRate < len(r.state.rates) {
		rs = r.state.rates[r.nRate]
	}
	r.nRate++
	if len(rb.Datasets) == 0 {
		return ""
	}

	active, ds, progress := 0, rb.Datasets[0], 1.0
	if rs != nil {
		active, ds = rs.replay.Active()
		progress = rs.progress()
	}

	var tabs []string
	for i, d := range rb.Datasets {
		if i == active {
			tabs = append(tabs, t.Header.Render(d.Name))
		} else {
			tabs = append(tabs, t.MutedText.Padding(0, 1).Render(d.Name))
		}
	}

	track := min(TrackWidth, width-12)
	shown := stats.Round(ds.Per100*progress, 0)
	big := t.PrimaryBold.Render(stats.FormatCount(shown)) + t.Base.Render(" per 100")
	bar := RenderTrack(t, reveal.TrackWidth(ds.Per100, float64(track))*progress, track, t.Blue)
	ratio := stats.Ratio{X: ds.Per100, Y: 100 - ds.Per100}

	var lines []string
	if rb.Title != "" {
		lines = append(lines, t.PrimaryBold.Render(truncate(rb.Title, width)))
	}
	lines = append(lines,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		"",
		big,
		bar,
		t.MutedText.Render(fmt.Sprintf("ratio %s:%s = %s",
			stats.FormatCount(ds.Per100), stats.FormatCount(100-ds.Per100), ratio.ToOne())),
	)
	return strings.Join(lines, "\n")
}
