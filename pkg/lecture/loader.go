// Package lecture loads slide decks from YAML and turns them into deck
// slides. The built-in lecture is embedded in the binary.
package lecture

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/freqdeck/pkg/deck"
	"github.com/vanderheijden86/freqdeck/pkg/reveal"
)

//go:embed lecture.yaml
var defaultDeck []byte

// ErrInvalidDeck is returned for deck files that cannot be turned into slides.
var ErrInvalidDeck = errors.New("invalid deck")

// Deck is a loaded lecture.
type Deck struct {
	Title  string
	Slides []deck.Slide
}

type fileDeck struct {
	Title  string      `yaml:"title"`
	Slides []fileSlide `yaml:"slides"`
}

type fileSlide struct {
	Title    string      `yaml:"title"`
	Subtitle string      `yaml:"subtitle"`
	Body     []yaml.Node `yaml:"body"`
}

type fileRow struct {
	Label string  `yaml:"label"`
	Value float64 `yaml:"value"`
}

// Default returns the embedded lecture.
func Default() (Deck, error) {
	return Parse(defaultDeck)
}

// DefaultSource returns the embedded deck file, for users who want a copy to edit.
func DefaultSource() []byte {
	return append([]byte(nil), defaultDeck...)
}

// Load reads a deck file from disk. An empty path loads the embedded lecture.
func Load(path string) (Deck, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Deck{}, fmt.Errorf("reading deck: %w", err)
	}
	return Parse(data)
}

// Parse decodes a deck file.
func Parse(data []byte) (Deck, error) {
	var fd fileDeck
	if err := yaml.Unmarshal(data, &fd); err != nil {
		return Deck{}, fmt.Errorf("%w: %v", ErrInvalidDeck, err)
	}
	if len(fd.Slides) == 0 {
		return Deck{}, fmt.Errorf("%w: no slides", ErrInvalidDeck)
	}

	out := Deck{Title: fd.Title, Slides: make([]deck.Slide, 0, len(fd.Slides))}
	for i, fs := range fd.Slides {
		if strings.TrimSpace(fs.Title) == "" {
			return Deck{}, fmt.Errorf("%w: slide %d has no title", ErrInvalidDeck, i+1)
		}
		body, err := decodeBlocks(fs.Body)
		if err != nil {
			return Deck{}, fmt.Errorf("%w: slide %d (%s): %v", ErrInvalidDeck, i+1, fs.Title, err)
		}
		out.Slides = append(out.Slides, deck.Slide{
			Title:    fs.Title,
			Subtitle: fs.Subtitle,
			Body:     body,
		})
	}
	if out.Title == "" {
		out.Title = out.Slides[0].Title
	}
	return out, nil
}

func decodeBlocks(nodes []yaml.Node) ([]Block, error) {
	blocks := make([]Block, 0, len(nodes))
	for i := range nodes {
		b, err := decodeBlock(&nodes[i])
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i+1, err)
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

func decodeBlock(node *yaml.Node) (Block, error) {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return nil, fmt.Errorf("line %d: a block is a mapping with exactly one kind", node.Line)
	}
	kind := node.Content[0].Value
	val := node.Content[1]

	switch kind {
	case KindHeading:
		if val.Kind == yaml.ScalarNode {
			return Heading{Text: val.Value, Level: 1}, nil
		}
		var h struct {
			Text  string `yaml:"text"`
			Level int    `yaml:"level"`
		}
		if err := val.Decode(&h); err != nil {
			return nil, err
		}
		if h.Level <= 0 {
			h.Level = 1
		}
		return Heading{Text: h.Text, Level: h.Level}, nil

	case KindParagraph:
		return Paragraph{Text: strings.TrimSpace(val.Value)}, scalar(val)

	case KindMarkdown:
		return Markdown{Source: val.Value}, scalar(val)

	case KindBullets:
		var b struct {
			Title  string   `yaml:"title"`
			Items  []string `yaml:"items"`
			Marker string   `yaml:"marker"`
			Accent Accent   `yaml:"accent"`
		}
		if err := val.Decode(&b); err != nil {
			return nil, err
		}
		if err := checkAccent(b.Accent); err != nil {
			return nil, err
		}
		if b.Marker == "" {
			b.Marker = "•"
		}
		return Bullets{Title: b.Title, Items: b.Items, Marker: b.Marker, Accent: b.Accent}, nil

	case KindCallout:
		var c struct {
			Label  string `yaml:"label"`
			Text   string `yaml:"text"`
			Accent Accent `yaml:"accent"`
		}
		if err := val.Decode(&c); err != nil {
			return nil, err
		}
		if err := checkAccent(c.Accent); err != nil {
			return nil, err
		}
		return Callout(c), nil

	case KindTable:
		var t struct {
			Title   string     `yaml:"title"`
			Columns []string   `yaml:"columns"`
			Rows    [][]string `yaml:"rows"`
			Total   []string   `yaml:"total"`
			Numeric []bool     `yaml:"numeric"`
		}
		if err := val.Decode(&t); err != nil {
			return nil, err
		}
		if len(t.Columns) == 0 {
			return nil, errors.New("table has no columns")
		}
		for i, row := range t.Rows {
			if len(row) != len(t.Columns) {
				return nil, fmt.Errorf("table row %d has %d cells, want %d", i+1, len(row), len(t.Columns))
			}
		}
		if t.Total != nil && len(t.Total) != len(t.Columns) {
			return nil, fmt.Errorf("table total has %d cells, want %d", len(t.Total), len(t.Columns))
		}
		return Table(t), nil

	case KindColumns:
		if val.Kind != yaml.SequenceNode {
			return nil, errors.New("columns must be a list of block lists")
		}
		cols := make([][]Block, 0, len(val.Content))
		for i, colNode := range val.Content {
			if colNode.Kind != yaml.SequenceNode {
				return nil, fmt.Errorf("column %d must be a list of blocks", i+1)
			}
			inner := make([]yaml.Node, len(colNode.Content))
			for j, n := range colNode.Content {
				inner[j] = *n
			}
			blocks, err := decodeBlocks(inner)
			if err != nil {
				return nil, fmt.Errorf("column %d: %w", i+1, err)
			}
			cols = append(cols, blocks)
		}
		return Columns{Columns: cols}, nil

	case KindChart:
		return decodeChart(val)

	case KindCumulative:
		var c struct {
			Title   string    `yaml:"title"`
			Caption string    `yaml:"caption"`
			Rows    []fileRow `yaml:"rows"`
		}
		if err := val.Decode(&c); err != nil {
			return nil, err
		}
		// Rows are listed top to bottom; accumulation starts at the bottom.
		labels := make([]string, len(c.Rows))
		freqs := make([]float64, len(c.Rows))
		for i, r := range c.Rows {
			j := len(c.Rows) - 1 - i
			labels[j] = r.Label
			freqs[j] = r.Value
		}
		seq, err := reveal.NewSequence(labels, freqs)
		if err != nil {
			return nil, err
		}
		return Cumulative{Title: c.Title, Caption: c.Caption, Sequence: seq}, nil

	case KindPercent:
		var p struct {
			Title string    `yaml:"title"`
			Rows  []fileRow `yaml:"rows"`
		}
		if err := val.Decode(&p); err != nil {
			return nil, err
		}
		if len(p.Rows) == 0 {
			return nil, reveal.ErrEmptySequence
		}
		values := make([]reveal.Percent, len(p.Rows))
		for i, r := range p.Rows {
			if r.Value < 0 || r.Value > 100 {
				return nil, fmt.Errorf("percent %q out of [0, 100]: %v", r.Label, r.Value)
			}
			values[i] = reveal.Percent{Label: r.Label, Value: r.Value}
		}
		return PercentBlock{Title: p.Title, Values: values}, nil

	case KindRate:
		var r struct {
			Title string    `yaml:"title"`
			Rows  []fileRow `yaml:"rows"`
		}
		if err := val.Decode(&r); err != nil {
			return nil, err
		}
		if len(r.Rows) == 0 {
			return nil, reveal.ErrEmptySequence
		}
		sets := make([]reveal.Dataset, len(r.Rows))
		for i, row := range r.Rows {
			if row.Value < 0 || row.Value > 100 {
				return nil, fmt.Errorf("rate %q out of [0, 100] per 100: %v", row.Label, row.Value)
			}
			sets[i] = reveal.Dataset{Name: row.Label, Per100: row.Value}
		}
		return RateBlock{Title: r.Title, Datasets: sets}, nil

	default:
		return nil, fmt.Errorf("line %d: unknown block kind %q", node.Line, kind)
	}
}

func decodeChart(val *yaml.Node) (Block, error) {
	var c struct {
		Type   ChartType `yaml:"type"`
		Title  string    `yaml:"title"`
		Labels []string  `yaml:"labels"`
		Series []struct {
			Name   string    `yaml:"name"`
			Values []float64 `yaml:"values"`
			Color  string    `yaml:"color"`
			Dashed bool      `yaml:"dashed"`
		} `yaml:"series"`
	}
	if err := val.Decode(&c); err != nil {
		return nil, err
	}
	switch c.Type {
	case ChartBar, ChartHistogram, ChartLine, ChartPie:
	default:
		return nil, fmt.Errorf("unknown chart type %q", c.Type)
	}
	if len(c.Series) == 0 {
		return nil, errors.New("chart has no series")
	}
	if c.Type == ChartPie && len(c.Series) != 1 {
		return nil, errors.New("pie chart takes exactly one series")
	}

	chart := Chart{Type: c.Type, Title: c.Title, Labels: c.Labels}
	for _, s := range c.Series {
		if len(s.Values) != len(c.Labels) {
			return nil, fmt.Errorf("series %q has %d values for %d labels", s.Name, len(s.Values), len(c.Labels))
		}
		chart.Series = append(chart.Series, Series{Name: s.Name, Values: s.Values, Color: s.Color, Dashed: s.Dashed})
	}
	return chart, nil
}

func scalar(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected text", n.Line)
	}
	return nil
}

func checkAccent(a Accent) error {
	switch a {
	case AccentNone, AccentBlue, AccentGreen, AccentPurple, AccentYellow, AccentGray:
		return nil
	}
	return fmt.Errorf("unknown accent %q", a)
}
