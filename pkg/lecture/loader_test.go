package lecture

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultLecture(t *testing.T) {
	d, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if len(d.Slides) != 11 {
		t.Fatalf("expected 11 slides, got %d", len(d.Slides))
	}
	if d.Slides[0].Subtitle != "Coding and Displaying Frequency Data" {
		t.Errorf("title slide subtitle = %q", d.Slides[0].Subtitle)
	}
	if d.Slides[10].Title != "Key Takeaways" {
		t.Errorf("last slide = %q", d.Slides[10].Title)
	}
}

func TestDefaultLectureRevealBlocks(t *testing.T) {
	d, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	var cum *Cumulative
	var pct *PercentBlock
	var rate *RateBlock
	for _, s := range d.Slides {
		Walk(s.Body, func(b Block) {
			switch v := b.(type) {
			case Cumulative:
				cum = &v
			case PercentBlock:
				pct = &v
			case RateBlock:
				rate = &v
			}
		})
	}

	if cum == nil || pct == nil || rate == nil {
		t.Fatalf("missing reveal blocks: cumulative=%v percent=%v rate=%v", cum != nil, pct != nil, rate != nil)
	}

	want := []float64{187, 268, 354, 509, 706, 1293}
	got := cum.Sequence.Totals()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cumulative total %d = %v, want %v", i, got[i], want[i])
		}
	}
	if cum.Sequence[0].Label != "Other" {
		t.Errorf("reveal starts at %q, want the bottom row", cum.Sequence[0].Label)
	}

	if pct.Values[0].Value != 28.0 || pct.Values[1].Value != 1.5 {
		t.Errorf("percent values = %+v", pct.Values)
	}
	if len(rate.Datasets) != 3 || rate.Datasets[0].Per100 != 22 {
		t.Errorf("rate datasets = %+v", rate.Datasets)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no slides", "title: x\n", "no slides"},
		{"missing title", "slides:\n  - body: []\n", "no title"},
		{"unknown kind", "slides:\n  - title: a\n    body:\n      - sparkle: yes\n", "unknown block kind"},
		{"two kinds", "slides:\n  - title: a\n    body:\n      - {paragraph: x, heading: y}\n", "exactly one kind"},
		{"ragged table", "slides:\n  - title: a\n    body:\n      - table: {columns: [a, b], rows: [[x]]}\n", "row 1 has 1 cells"},
		{"bad chart type", "slides:\n  - title: a\n    body:\n      - chart: {type: radar, labels: [a], series: [{values: [1]}]}\n", "unknown chart type"},
		{"series mismatch", "slides:\n  - title: a\n    body:\n      - chart: {type: bar, labels: [a, b], series: [{name: s, values: [1]}]}\n", "1 values for 2 labels"},
		{"bad accent", "slides:\n  - title: a\n    body:\n      - callout: {text: x, accent: neon}\n", "unknown accent"},
		{"percent range", "slides:\n  - title: a\n    body:\n      - percent: {rows: [{label: a, value: 140}]}\n", "out of [0, 100]"},
		{"empty cumulative", "slides:\n  - title: a\n    body:\n      - cumulative: {rows: []}\n", "empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if !errors.Is(err, ErrInvalidDeck) {
				t.Fatalf("expected ErrInvalidDeck, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestParseColumnsAndHeadings(t *testing.T) {
	src := `
slides:
  - title: Layout
    body:
      - heading: Big
      - columns:
          - - paragraph: left
          - - bullets: {items: [a, b]}
            - markdown: "**bold**"
`
	d, err := Parse([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if d.Title != "Layout" {
		t.Errorf("deck title falls back to first slide, got %q", d.Title)
	}
	body := d.Slides[0].Body
	if h, ok := body[0].(Heading); !ok || h.Text != "Big" || h.Level != 1 {
		t.Errorf("heading = %#v", body[0])
	}
	cols, ok := body[1].(Columns)
	if !ok || len(cols.Columns) != 2 || len(cols.Columns[1]) != 2 {
		t.Fatalf("columns = %#v", body[1])
	}
	if b := cols.Columns[1][0].(Bullets); b.Marker != "•" {
		t.Errorf("default marker = %q", b.Marker)
	}
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.yaml")
	if err := os.WriteFile(path, []byte("slides:\n  - title: Only\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Slides) != 1 || d.Slides[0].Title != "Only" {
		t.Errorf("unexpected deck %+v", d)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDefaultSourceIsCopy(t *testing.T) {
	src := DefaultSource()
	src[0] = '#'
	if _, err := Default(); err != nil {
		t.Errorf("embedded deck corrupted by caller: %v", err)
	}
}
