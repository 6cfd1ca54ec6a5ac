package export

import (
	"io"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/freqdeck/pkg/lecture"
	"github.com/vanderheijden86/freqdeck/pkg/version"
)

// SlideOutline describes one slide for scripts.
type SlideOutline struct {
	Index    int      `json:"index"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	Blocks   []string `json:"blocks"`
}

// Outline is the --robot-outline document.
type Outline struct {
	Version    string         `json:"version"`
	Title      string         `json:"title"`
	SlideCount int            `json:"slide_count"`
	WrapAround bool           `json:"wrap_around"`
	Slides     []SlideOutline `json:"slides"`
	Datasets   []Dataset      `json:"datasets,omitempty"`
}

// BuildOutline lists the slides and their block kinds. Datasets are included
// when withData is set.
func BuildOutline(d lecture.Deck, wrap, withData bool) Outline {
	o := Outline{
		Version:    version.Version,
		Title:      d.Title,
		SlideCount: len(d.Slides),
		WrapAround: wrap,
		Slides:     make([]SlideOutline, 0, len(d.Slides)),
	}
	for i, s := range d.Slides {
		so := SlideOutline{Index: i, Title: s.Title, Subtitle: s.Subtitle, Blocks: []string{}}
		lecture.Walk(s.Body, func(b lecture.Block) {
			so.Blocks = append(so.Blocks, b.Kind())
		})
		o.Slides = append(o.Slides, so)
	}
	if withData {
		o.Datasets = CollectDatasets(d)
	}
	return o
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
