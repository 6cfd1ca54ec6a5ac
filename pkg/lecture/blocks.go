package lecture

import (
	"github.com/vanderheijden86/freqdeck/pkg/deck"
	"github.com/vanderheijden86/freqdeck/pkg/reveal"
)

// Block is any slide body element.
type Block = deck.Block

// Block kinds as they appear in deck files.
const (
	KindHeading    = "heading"
	KindParagraph  = "paragraph"
	KindBullets    = "bullets"
	KindTable      = "table"
	KindCallout    = "callout"
	KindMarkdown   = "markdown"
	KindColumns    = "columns"
	KindChart      = "chart"
	KindCumulative = "cumulative"
	KindPercent    = "percent"
	KindRate       = "rate"
)

// Accent names a highlight colour family used by boxes and callouts.
type Accent string

const (
	AccentNone   Accent = ""
	AccentBlue   Accent = "blue"
	AccentGreen  Accent = "green"
	AccentPurple Accent = "purple"
	AccentYellow Accent = "yellow"
	AccentGray   Accent = "gray"
)

// Heading is a large centered line.
type Heading struct {
	Text  string
	Level int
}

func (Heading) Kind() string { return KindHeading }

// Paragraph is a block of wrapped text.
type Paragraph struct {
	Text string
}

func (Paragraph) Kind() string { return KindParagraph }

// Bullets is a titled list, optionally boxed in an accent colour.
type Bullets struct {
	Title  string
	Items  []string
	Marker string
	Accent Accent
}

func (Bullets) Kind() string { return KindBullets }

// Table is a static data table. Total, when set, renders as an emphasised
// last row.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
	Total   []string
	Numeric []bool // per column, right-aligned when true
}

func (Table) Kind() string { return KindTable }

// Callout is a highlighted remark such as "Key point:".
type Callout struct {
	Label  string
	Text   string
	Accent Accent
}

func (Callout) Kind() string { return KindCallout }

// Markdown is rendered by the markdown renderer.
type Markdown struct {
	Source string
}

func (Markdown) Kind() string { return KindMarkdown }

// Columns lays nested blocks out side by side.
type Columns struct {
	Columns [][]Block
}

func (Columns) Kind() string { return KindColumns }

// ChartType selects how a Chart is drawn.
type ChartType string

const (
	ChartBar       ChartType = "bar"       // separated bars, nominal categories
	ChartHistogram ChartType = "histogram" // connected bars, ordered categories
	ChartLine      ChartType = "line"      // frequency polygon
	ChartPie       ChartType = "pie"       // parts of a whole
)

// Series is one named set of values aligned with Chart.Labels.
type Series struct {
	Name   string
	Values []float64
	Color  string
	Dashed bool
}

// Chart is a data series handed to the chart renderer.
type Chart struct {
	Type   ChartType
	Title  string
	Labels []string
	Series []Series
}

func (Chart) Kind() string { return KindChart }

// Cumulative is a staged cumulative-frequency reveal. Rows are listed in
// display order (most frequent first); Sequence holds them in reveal order,
// bottom row first.
type Cumulative struct {
	Title    string
	Caption  string
	Sequence reveal.Sequence
}

func (Cumulative) Kind() string { return KindCumulative }

// PercentBlock is a delayed reveal of precomputed percentages.
type PercentBlock struct {
	Title  string
	Values []reveal.Percent
}

func (PercentBlock) Kind() string { return KindPercent }

// RateBlock is a per-100 rate display with selectable categories.
type RateBlock struct {
	Title    string
	Datasets []reveal.Dataset
}

func (RateBlock) Kind() string { return KindRate }

// Walk calls fn for every block, descending into columns.
func Walk(blocks []Block, fn func(Block)) {
	for _, b := range blocks {
		fn(b)
		if c, ok := b.(Columns); ok {
			for _, col := range c.Columns {
				Walk(col, fn)
			}
		}
	}
}
