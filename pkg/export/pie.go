package export

import (
	"fmt"
	"io"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/vanderheijden86/freqdeck/pkg/chart"
	"github.com/vanderheijden86/freqdeck/pkg/stats"
)

// renderPie draws a pie chart with slice labels carrying their percentage.
func renderPie(w io.Writer, format string, opts SnapshotOptions) error {
	c := opts.Chart
	values := c.Series[0].Values
	pcts, err := stats.Percentages(values)
	if err != nil {
		return fmt.Errorf("pie %q: %w", c.Title, err)
	}

	slices := make([]gochart.Value, 0, len(values))
	for i, v := range values {
		if v <= 0 {
			continue
		}
		slices = append(slices, gochart.Value{
			Label: fmt.Sprintf("%s %.1f%%", c.Labels[i], pcts[i]),
			Value: v,
			Style: gochart.Style{
				FillColor:   drawing.ColorFromHex(strings.TrimPrefix(chart.Palette[i%len(chart.Palette)], "#")),
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 1,
				FontSize:    10,
				FontColor:   drawing.ColorWhite,
			},
		})
	}

	pie := gochart.PieChart{
		Title:  c.Title,
		Width:  snapWidth,
		Height: snapHeight,
		Values: slices,
	}

	provider := gochart.SVG
	if format == FormatPNG {
		provider = gochart.PNG
	}
	return pie.Render(provider, w)
}
