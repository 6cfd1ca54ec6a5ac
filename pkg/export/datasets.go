// Package export writes lecture data out of the presenter: chart snapshots
// as SVG or PNG, every data table as SQLite rows, and a JSON outline for
// scripts.
package export

import (
	"strconv"
	"strings"

	"github.com/vanderheijden86/freqdeck/pkg/lecture"
)

// Point is one value of a dataset.
type Point struct {
	Ord    int     `json:"ord"`
	Label  string  `json:"label"`
	Series string  `json:"series,omitempty"`
	Value  float64 `json:"value"`
}

// Dataset is the source data behind one table, chart or reveal block.
type Dataset struct {
	Slide  int     `json:"slide"` // zero-based
	Block  int     `json:"block"` // position in walk order within the slide
	Kind   string  `json:"kind"`
	Title  string  `json:"title,omitempty"`
	Points []Point `json:"points"`
}

// CollectDatasets extracts every data-bearing block of the deck in slide order.
func CollectDatasets(d lecture.Deck) []Dataset {
	var out []Dataset
	for si, s := range d.Slides {
		bi := 0
		lecture.Walk(s.Body, func(b lecture.Block) {
			idx := bi
			bi++
			ds, ok := datasetOf(b)
			if !ok {
				return
			}
			ds.Slide = si
			ds.Block = idx
			out = append(out, ds)
		})
	}
	return out
}

func datasetOf(b lecture.Block) (Dataset, bool) {
	ds := Dataset{Kind: b.Kind()}
	add := func(label, series string, v float64) {
		ds.Points = append(ds.Points, Point{Ord: len(ds.Points), Label: label, Series: series, Value: v})
	}

	switch v := b.(type) {
	case lecture.Table:
		ds.Title = v.Title
		for _, row := range v.Rows {
			for ci := 1; ci < len(row) && ci < len(v.Columns); ci++ {
				if n, ok := parseNumber(row[ci]); ok {
					add(row[0], v.Columns[ci], n)
				}
			}
		}
	case lecture.Chart:
		ds.Title = v.Title
		for _, s := range v.Series {
			for i, val := range s.Values {
				add(v.Labels[i], s.Name, val)
			}
		}
	case lecture.Cumulative:
		ds.Title = v.Title
		for _, r := range v.Sequence {
			add(r.Label, "frequency", r.Increment)
			add(r.Label, "cumulative", r.Total)
		}
	case lecture.PercentBlock:
		ds.Title = v.Title
		for _, p := range v.Values {
			add(p.Label, "percent", p.Value)
		}
	case lecture.RateBlock:
		ds.Title = v.Title
		for _, r := range v.Datasets {
			add(r.Name, "per100", r.Per100)
		}
	default:
		return Dataset{}, false
	}
	return ds, len(ds.Points) > 0
}

// parseNumber reads table cells such as "1,293" or "51.5%".
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	return n, err == nil
}
