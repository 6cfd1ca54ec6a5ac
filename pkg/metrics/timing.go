// Package metrics provides performance instrumentation for freqdeck.
//
// Timing metrics cover deck loading, slide rendering and the export paths.
// Export workers record concurrently, so every counter is atomic.
// Collection is enabled by default but can be disabled via FREQDECK_METRICS=0.
//
// Usage:
//
//	func render() {
//	    defer metrics.Timer(metrics.SlideRender)()
//	    // ...
//	}
package metrics

import (
	"math"
	"os"
	"runtime"
	"sync/atomic"
	"time"
)

var enabled atomic.Bool

func init() {
	enabled.Store(os.Getenv("FREQDECK_METRICS") != "0")
}

// Enabled returns whether metrics collection is enabled.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled allows programmatic control of metrics collection.
func SetEnabled(e bool) {
	enabled.Store(e)
}

// TimingMetric accumulates durations of one named operation.
type TimingMetric struct {
	name  string
	count atomic.Int64
	total atomic.Int64 // ns
	max   atomic.Int64 // ns
	min   atomic.Int64 // ns, math.MaxInt64 until the first sample
}

var registry []*TimingMetric

func register(name string) *TimingMetric {
	m := newTimingMetric(name)
	registry = append(registry, m)
	return m
}

func newTimingMetric(name string) *TimingMetric {
	m := &TimingMetric{name: name}
	m.min.Store(math.MaxInt64)
	return m
}

// Record adds one sample.
func (m *TimingMetric) Record(d time.Duration) {
	if !Enabled() {
		return
	}
	ns := int64(d)
	m.count.Add(1)
	m.total.Add(ns)
	for old := m.max.Load(); ns > old && !m.max.CompareAndSwap(old, ns); old = m.max.Load() {
	}
	for old := m.min.Load(); ns < old && !m.min.CompareAndSwap(old, ns); old = m.min.Load() {
	}
}

// Name returns the metric name.
func (m *TimingMetric) Name() string { return m.name }

// Count returns the number of samples.
func (m *TimingMetric) Count() int64 { return m.count.Load() }

// Stats snapshots the metric in milliseconds.
func (m *TimingMetric) Stats() TimingStats {
	s := TimingStats{Name: m.name, Count: m.count.Load()}
	if s.Count == 0 {
		return s
	}
	total := m.total.Load()
	s.TotalMs = ms(total)
	s.AvgMs = ms(total / s.Count)
	s.MaxMs = ms(m.max.Load())
	s.MinMs = ms(m.min.Load())
	return s
}

func ms(ns int64) float64 { return float64(ns) / float64(time.Millisecond) }

// Reset drops all samples.
func (m *TimingMetric) Reset() {
	m.count.Store(0)
	m.total.Store(0)
	m.max.Store(0)
	m.min.Store(math.MaxInt64)
}

// TimingStats is a point-in-time view of a TimingMetric.
type TimingStats struct {
	Name    string  `json:"name"`
	Count   int64   `json:"count"`
	TotalMs float64 `json:"total_ms"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	MinMs   float64 `json:"min_ms,omitempty"`
}

// Timer starts timing m and returns the func that records the sample.
func Timer(m *TimingMetric) func() {
	if !Enabled() || m == nil {
		return func() {}
	}
	start := time.Now()
	return func() { m.Record(time.Since(start)) }
}

// Registered metrics.
var (
	DeckLoad     = register("deck_load")
	SlideRender  = register("slide_render")
	ChartExport  = register("chart_export")
	SQLiteExport = register("sqlite_export")
	ConfigReload = register("config_reload")
)

// AllTimingMetrics returns the registered metrics in registration order.
func AllTimingMetrics() []*TimingMetric {
	return append([]*TimingMetric(nil), registry...)
}

// ResetAll resets every registered metric.
func ResetAll() {
	for _, m := range registry {
		m.Reset()
	}
}

// AllTimingStats returns stats for the metrics that have samples.
func AllTimingStats() []TimingStats {
	stats := make([]TimingStats, 0, len(registry))
	for _, m := range registry {
		if m.Count() > 0 {
			stats = append(stats, m.Stats())
		}
	}
	return stats
}

// Report is the --robot-metrics document.
type Report struct {
	Enabled     bool          `json:"enabled"`
	Timings     []TimingStats `json:"timings"`
	HeapAllocMB float64       `json:"heap_alloc_mb"`
	NumGC       uint32        `json:"num_gc"`
	Goroutines  int           `json:"goroutines"`
}

// Snapshot collects the timing stats with a memory snapshot.
func Snapshot() Report {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	return Report{
		Enabled:     Enabled(),
		Timings:     AllTimingStats(),
		HeapAllocMB: float64(mem.HeapAlloc) / (1 << 20),
		NumGC:       mem.NumGC,
		Goroutines:  runtime.NumGoroutine(),
	}
}
