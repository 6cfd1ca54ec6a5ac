package export

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/freqdeck/pkg/chart"
	"github.com/vanderheijden86/freqdeck/pkg/lecture"
	"github.com/vanderheijden86/freqdeck/pkg/stats"
)

// Snapshot formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// SnapshotOptions controls a single chart snapshot.
type SnapshotOptions struct {
	Path     string // Output path; format inferred from extension when Format empty
	Format   string // "svg" or "png" (case-insensitive)
	Subtitle string // Optional line under the chart title, usually the slide title
	Chart    lecture.Chart
}

// ResolveFormat normalises format, inferring it from path when empty.
func ResolveFormat(format, path string) (string, error) {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".png":
			format = FormatPNG
		default:
			format = FormatSVG
		}
	}
	if format != FormatSVG && format != FormatPNG {
		return "", fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	return format, nil
}

// SaveChartSnapshot renders a static image of one chart block.
func SaveChartSnapshot(opts SnapshotOptions) error {
	c := opts.Chart
	if len(c.Labels) == 0 || len(c.Series) == 0 {
		return fmt.Errorf("chart %q has no data", c.Title)
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}
	format, err := ResolveFormat(opts.Format, opts.Path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	f, err := os.Create(opts.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	if c.Type == lecture.ChartPie {
		err = renderPie(f, format, opts)
	} else if format == FormatSVG {
		err = renderPlotSVG(f, newPlotLayout(opts))
	} else {
		err = renderPlotPNG(f, newPlotLayout(opts))
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", opts.Path, err)
	}
	return f.Close()
}

// --- layout ----------------------------------------------------------------

const (
	snapWidth   = 800
	snapHeight  = 480
	snapPadding = 48.0
	snapHeader  = 72.0
	snapFooter  = 56.0
	snapAxisW   = 56.0
)

type plotLayout struct {
	opts     SnapshotOptions
	maxVal   float64
	ticks    []float64
	x, y     float64 // top-left of the plot area
	w, h     float64
	slot     float64
	barWidth float64
}

func newPlotLayout(opts SnapshotOptions) plotLayout {
	c := opts.Chart
	maxVal, ticks := niceScale(chart.Max(c), 5)
	l := plotLayout{
		opts:   opts,
		maxVal: maxVal,
		ticks:  ticks,
		x:      snapPadding + snapAxisW,
		y:      snapHeader + 16,
	}
	l.w = snapWidth - l.x - snapPadding
	l.h = snapHeight - l.y - snapFooter
	l.slot = l.w / float64(len(c.Labels))
	switch c.Type {
	case lecture.ChartHistogram:
		l.barWidth = l.slot
	default:
		l.barWidth = l.slot * 0.7
	}
	return l
}

func (l plotLayout) xCenter(i int) float64 {
	return l.x + l.slot*(float64(i)+0.5)
}

func (l plotLayout) yOf(v float64) float64 {
	if l.maxVal <= 0 {
		return l.y + l.h
	}
	return l.y + l.h - math.Max(0, v)/l.maxVal*l.h
}

// niceScale rounds max up to a 1, 2 or 5 step multiple and returns the ticks.
func niceScale(max float64, steps int) (float64, []float64) {
	if max <= 0 {
		return 1, []float64{0, 1}
	}
	raw := max / float64(steps)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	step := mag
	for _, m := range []float64{1, 2, 5, 10} {
		if raw <= m*mag {
			step = m * mag
			break
		}
	}
	top := math.Ceil(max/step) * step
	var ticks []float64
	for v := 0.0; v <= top+step/2; v += step {
		ticks = append(ticks, v)
	}
	return top, ticks
}

func (l plotLayout) footer() string {
	c := l.opts.Chart
	parts := make([]string, 0, len(c.Series))
	for _, s := range c.Series {
		n := 0.0
		for _, v := range s.Values {
			n += v
		}
		mode, err := stats.Mode(c.Labels, s.Values)
		if err != nil {
			continue
		}
		name := s.Name
		if name == "" || len(c.Series) == 1 {
			name = "N"
		} else {
			name = "N(" + name + ")"
		}
		parts = append(parts, fmt.Sprintf("%s = %s, mode %s", name, stats.FormatCount(n), mode))
	}
	return strings.Join(parts, "   ")
}

// --- rendering -------------------------------------------------------------

var (
	colorText     = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorSubtle   = color.RGBA{0x66, 0x66, 0x66, 0xff}
	colorGrid     = color.RGBA{0xe5, 0xe7, 0xeb, 0xff}
	colorAxis     = color.RGBA{0x37, 0x41, 0x51, 0xff}
	colorBackdrop = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

func renderPlotSVG(w io.Writer, l plotLayout) error {
	c := l.opts.Chart
	canvas := svg.New(w)
	canvas.Start(snapWidth, snapHeight)
	canvas.Rect(0, 0, snapWidth, snapHeight, "fill:"+css(colorBackdrop))

	canvas.Text(int(snapPadding), 36, c.Title, fmt.Sprintf("fill:%s;font-size:18px;font-family:sans-serif;font-weight:bold", css(colorText)))
	if l.opts.Subtitle != "" {
		canvas.Text(int(snapPadding), 58, l.opts.Subtitle, fmt.Sprintf("fill:%s;font-size:13px;font-family:sans-serif", css(colorSubtle)))
	}

	for _, t := range l.ticks {
		y := int(l.yOf(t))
		canvas.Line(int(l.x), y, int(l.x+l.w), y, "stroke:"+css(colorGrid))
		canvas.Text(int(l.x)-8, y+4, stats.FormatCount(t), fmt.Sprintf("fill:%s;font-size:11px;font-family:sans-serif;text-anchor:end", css(colorSubtle)))
	}
	canvas.Line(int(l.x), int(l.y), int(l.x), int(l.y+l.h), "stroke:"+css(colorAxis))
	canvas.Line(int(l.x), int(l.y+l.h), int(l.x+l.w), int(l.y+l.h), "stroke:"+css(colorAxis))

	switch c.Type {
	case lecture.ChartLine:
		for si, s := range c.Series {
			xs := make([]int, len(s.Values))
			ys := make([]int, len(s.Values))
			for i, v := range s.Values {
				xs[i] = int(l.xCenter(i))
				ys[i] = int(l.yOf(v))
			}
			col := css(hexColor(chart.Color(c, si)))
			style := fmt.Sprintf("fill:none;stroke:%s;stroke-width:2", col)
			if s.Dashed {
				style += ";stroke-dasharray:5 5"
			}
			canvas.Polyline(xs, ys, style)
			for i := range xs {
				canvas.Circle(xs[i], ys[i], 4, "fill:"+col)
			}
		}
	default:
		col := css(hexColor(chart.Color(c, 0)))
		for i, v := range c.Series[0].Values {
			x := l.xCenter(i) - l.barWidth/2
			y := l.yOf(v)
			style := "fill:" + col
			if c.Type == lecture.ChartHistogram {
				style += ";stroke:#ffffff;stroke-width:1"
			}
			canvas.Rect(int(x), int(y), int(l.barWidth), int(l.y+l.h-y), style)
		}
	}

	for i, label := range c.Labels {
		canvas.Text(int(l.xCenter(i)), int(l.y+l.h)+18, truncate(label, 12), fmt.Sprintf("fill:%s;font-size:11px;font-family:sans-serif;text-anchor:middle", css(colorSubtle)))
	}
	if len(c.Series) > 1 {
		x := int(l.x + l.w - 160)
		for si, s := range c.Series {
			y := int(snapHeader) + si*16
			canvas.Rect(x, y-9, 12, 12, "fill:"+css(hexColor(chart.Color(c, si))))
			canvas.Text(x+18, y+1, s.Name, fmt.Sprintf("fill:%s;font-size:12px;font-family:sans-serif", css(colorText)))
		}
	}
	canvas.Text(int(snapPadding), snapHeight-16, l.footer(), fmt.Sprintf("fill:%s;font-size:12px;font-family:sans-serif", css(colorSubtle)))

	canvas.End()
	return nil
}

func renderPlotPNG(w io.Writer, l plotLayout) error {
	c := l.opts.Chart
	dc := gg.NewContext(snapWidth, snapHeight)
	dc.SetColor(colorBackdrop)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(colorText)
	dc.DrawStringAnchored(c.Title, snapPadding, 30, 0, 0.5)
	if l.opts.Subtitle != "" {
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(l.opts.Subtitle, snapPadding, 50, 0, 0.5)
	}

	dc.SetLineWidth(1)
	for _, t := range l.ticks {
		y := l.yOf(t)
		dc.SetColor(colorGrid)
		dc.DrawLine(l.x, y, l.x+l.w, y)
		dc.Stroke()
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(stats.FormatCount(t), l.x-8, y, 1, 0.5)
	}
	dc.SetColor(colorAxis)
	dc.DrawLine(l.x, l.y, l.x, l.y+l.h)
	dc.DrawLine(l.x, l.y+l.h, l.x+l.w, l.y+l.h)
	dc.Stroke()

	switch c.Type {
	case lecture.ChartLine:
		for si, s := range c.Series {
			col := hexColor(chart.Color(c, si))
			dc.SetColor(col)
			dc.SetLineWidth(2)
			if s.Dashed {
				dc.SetDash(5, 5)
			}
			for i, v := range s.Values {
				if i == 0 {
					dc.MoveTo(l.xCenter(i), l.yOf(v))
				} else {
					dc.LineTo(l.xCenter(i), l.yOf(v))
				}
			}
			dc.Stroke()
			dc.SetDash()
			for i, v := range s.Values {
				dc.DrawCircle(l.xCenter(i), l.yOf(v), 4)
				dc.Fill()
			}
		}
	default:
		dc.SetColor(hexColor(chart.Color(c, 0)))
		for i, v := range c.Series[0].Values {
			y := l.yOf(v)
			dc.DrawRectangle(l.xCenter(i)-l.barWidth/2, y, l.barWidth, l.y+l.h-y)
			dc.Fill()
		}
	}

	dc.SetColor(colorSubtle)
	for i, label := range c.Labels {
		dc.DrawStringAnchored(truncate(label, 12), l.xCenter(i), l.y+l.h+16, 0.5, 0.5)
	}
	if len(c.Series) > 1 {
		x := l.x + l.w - 160
		for si, s := range c.Series {
			y := snapHeader + float64(si)*16
			dc.SetColor(hexColor(chart.Color(c, si)))
			dc.DrawRectangle(x, y-9, 12, 12)
			dc.Fill()
			dc.SetColor(colorText)
			dc.DrawStringAnchored(s.Name, x+18, y-3, 0, 0.5)
		}
	}
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(l.footer(), snapPadding, snapHeight-20, 0, 0.5)

	return dc.EncodePNG(w)
}

// --- helpers ---------------------------------------------------------------

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// hexColor parses "#rrggbb"; anything else is mid grey.
func hexColor(s string) color.RGBA {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.RGBA{0x88, 0x88, 0x88, 0xff}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{0x88, 0x88, 0x88, 0xff}
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}
}
