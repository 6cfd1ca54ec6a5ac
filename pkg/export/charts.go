package export

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/freqdeck/pkg/debug"
	"github.com/vanderheijden86/freqdeck/pkg/lecture"
	"github.com/vanderheijden86/freqdeck/pkg/metrics"
)

// ChartFile is one planned or written snapshot.
type ChartFile struct {
	Slide int    `json:"slide"`
	Index int    `json:"index"` // chart number within the slide, from 1
	Title string `json:"title"`
	Path  string `json:"path"`
}

// PlanCharts lists the snapshot files for every chart block in the deck,
// named NN-slug-K.ext after the slide number, slide title and chart number.
func PlanCharts(d lecture.Deck, dir, format string) []ChartFile {
	var out []ChartFile
	for si, s := range d.Slides {
		k := 0
		lecture.Walk(s.Body, func(b lecture.Block) {
			c, ok := b.(lecture.Chart)
			if !ok {
				return
			}
			k++
			name := fmt.Sprintf("%02d-%s-%d.%s", si+1, Slug(s.Title), k, format)
			out = append(out, ChartFile{Slide: si, Index: k, Title: c.Title, Path: filepath.Join(dir, name)})
		})
	}
	return out
}

// ExportCharts writes every chart of the deck to dir concurrently.
func ExportCharts(ctx context.Context, d lecture.Deck, dir, format string) ([]ChartFile, error) {
	format, err := ResolveFormat(format, "")
	if err != nil {
		return nil, err
	}
	files := PlanCharts(d, dir, format)
	if len(files) == 0 {
		return nil, nil
	}

	charts := make([]lecture.Chart, len(files))
	i := 0
	for _, s := range d.Slides {
		lecture.Walk(s.Body, func(b lecture.Block) {
			if c, ok := b.(lecture.Chart); ok {
				charts[i] = c
				i++
			}
		})
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			defer metrics.Timer(metrics.ChartExport)()
			err := SaveChartSnapshot(SnapshotOptions{
				Path:     f.Path,
				Format:   format,
				Subtitle: d.Slides[f.Slide].Title,
				Chart:    charts[i],
			})
			if err != nil {
				return fmt.Errorf("slide %d chart %d: %w", f.Slide+1, f.Index, err)
			}
			debug.Log("export: wrote %s", f.Path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// Slug lowercases s and joins its words with dashes.
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
		default:
			dash = true
		}
	}
	if b.Len() == 0 {
		return "slide"
	}
	return b.String()
}
