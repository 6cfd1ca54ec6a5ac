package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/freqdeck/pkg/deck"
	"github.com/vanderheijden86/freqdeck/pkg/lecture"
	"github.com/vanderheijden86/freqdeck/pkg/stats"
)

// truncateRunesHelper truncates a string to max visual width (cells), adding suffix if needed.
// Uses go-runewidth to handle wide characters correctly.
func truncateRunesHelper(s string, maxWidth int, suffix string) string {
	if maxWidth <= 0 {
		return ""
	}

	width := runewidth.StringWidth(s)
	if width <= maxWidth {
		return s
	}

	suffixWidth := runewidth.StringWidth(suffix)
	if suffixWidth > maxWidth {
		return runewidth.Truncate(suffix, maxWidth, "")
	}

	targetWidth := maxWidth - suffixWidth
	return runewidth.Truncate(s, targetWidth, "") + suffix
}

// truncate truncates s to maxWidth cells with an ellipsis.
func truncate(s string, maxWidth int) string {
	return truncateRunesHelper(s, maxWidth, "…")
}

// padRight pads s with spaces on the right to width cells.
func padRight(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// padLeft right-aligns s in width cells.
func padLeft(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return strings.Repeat(" ", width-w) + s
}

// SlideText renders a slide as plain text for the clipboard.
func SlideText(s deck.Slide) string {
	var sb strings.Builder
	sb.WriteString("# " + s.Title + "\n")
	if s.Subtitle != "" {
		sb.WriteString(s.Subtitle + "\n")
	}
	lecture.Walk(s.Body, func(b lecture.Block) {
		switch v := b.(type) {
		case lecture.Heading:
			sb.WriteString("\n" + strings.Repeat("#", v.Level+1) + " " + v.Text + "\n")
		case lecture.Paragraph:
			sb.WriteString("\n" + v.Text + "\n")
		case lecture.Bullets:
			sb.WriteString("\n")
			if v.Title != "" {
				sb.WriteString(v.Title + "\n")
			}
			for _, it := range v.Items {
				sb.WriteString("- " + it + "\n")
			}
		case lecture.Callout:
			sb.WriteString("\n> " + strings.TrimSpace(v.Label+" "+v.Text) + "\n")
		case lecture.Markdown:
			sb.WriteString("\n" + strings.TrimSpace(v.Source) + "\n")
		case lecture.Table:
			sb.WriteString("\n" + strings.Join(v.Columns, " | ") + "\n")
			for _, row := range v.Rows {
				sb.WriteString(strings.Join(row, " | ") + "\n")
			}
			if len(v.Total) > 0 {
				sb.WriteString(strings.Join(v.Total, " | ") + "\n")
			}
		case lecture.Chart:
			sb.WriteString("\n" + v.Title + "\n")
			for _, series := range v.Series {
				for i, val := range series.Values {
					sb.WriteString("- " + v.Labels[i] + ": " + stats.FormatCount(val) + "\n")
				}
			}
		case lecture.Cumulative:
			sb.WriteString("\n" + v.Title + "\n")
			for i := len(v.Sequence) - 1; i >= 0; i-- {
				r := v.Sequence[i]
				sb.WriteString("- " + r.Label + ": f=" + stats.FormatCount(r.Increment) +
					" cum f=" + stats.FormatCount(r.Total) + "\n")
			}
		case lecture.PercentBlock:
			sb.WriteString("\n" + v.Title + "\n")
			for _, p := range v.Values {
				sb.WriteString("- " + p.Label + ": " + stats.FormatCount(p.Value) + "%\n")
			}
		case lecture.RateBlock:
			sb.WriteString("\n" + v.Title + "\n")
			for _, d := range v.Datasets {
				sb.WriteString("- " + d.Name + ": " + stats.FormatCount(d.Per100) + " per 100\n")
			}
		}
	})
	return sb.String()
}
