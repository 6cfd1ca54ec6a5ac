// Package stats computes the frequency measures shown in the lecture:
// cumulative frequency, percent and proportion, rates, ratios and simple
// summaries of a frequency distribution.
package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrZeroTotal is returned when a relative measure has nothing to divide by.
	ErrZeroTotal = errors.New("total is zero")
	// ErrLengthMismatch is returned when paired slices differ in length.
	ErrLengthMismatch = errors.New("length mismatch")
	// ErrNegative is returned for negative frequencies.
	ErrNegative = errors.New("negative frequency")
)

// Entry is one row of a cumulative frequency table.
type Entry struct {
	Label      string
	Frequency  float64
	Cumulative float64
}

// Cumulative returns the running sum of values.
func Cumulative(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	return floats.CumSum(make([]float64, len(values)), values)
}

// CumulativeTable pairs labels with frequencies and their running totals,
// accumulated in the given order.
func CumulativeTable(labels []string, freqs []float64) ([]Entry, error) {
	if len(labels) != len(freqs) {
		return nil, fmt.Errorf("%d labels, %d frequencies: %w", len(labels), len(freqs), ErrLengthMismatch)
	}
	for i, f := range freqs {
		if f < 0 {
			return nil, fmt.Errorf("%s: %w", labels[i], ErrNegative)
		}
	}
	totals := Cumulative(freqs)
	entries := make([]Entry, len(freqs))
	for i := range freqs {
		entries[i] = Entry{Label: labels[i], Frequency: freqs[i], Cumulative: totals[i]}
	}
	return entries, nil
}

// Proportion returns count/total.
func Proportion(count, total float64) (float64, error) {
	if total == 0 {
		return 0, ErrZeroTotal
	}
	return count / total, nil
}

// Percent returns 100 * count/total rounded to one decimal place.
func Percent(count, total float64) (float64, error) {
	p, err := Proportion(count, total)
	if err != nil {
		return 0, err
	}
	return Round(100*p, 1), nil
}

// Percentages converts counts to percentages of their sum, one decimal place.
func Percentages(counts []float64) ([]float64, error) {
	total := floats.Sum(counts)
	if total == 0 {
		return nil, ErrZeroTotal
	}
	out := make([]float64, len(counts))
	for i, c := range counts {
		out[i] = Round(100*c/total, 1)
	}
	return out, nil
}

// RatePer expresses count as a frequency per unit (100, 1000, ...).
func RatePer(count, total, unit float64) (float64, error) {
	p, err := Proportion(count, total)
	if err != nil {
		return 0, err
	}
	return p * unit, nil
}

// Ratio compares two quantities X:Y.
type Ratio struct {
	X, Y float64
}

// Value returns X/Y.
func (r Ratio) Value() (float64, error) {
	return Proportion(r.X, r.Y)
}

// ToOne formats the ratio reduced to "a:1", e.g. 350:125 -> "2.8:1".
func (r Ratio) ToOne() string {
	v, err := r.Value()
	if err != nil {
		return "n/a"
	}
	return fmt.Sprintf("%s:1", FormatCount(Round(v, 1)))
}

// PerHundred formats the ratio as "100:b", e.g. 360:80 -> "100:22".
func (r Ratio) PerHundred() string {
	if r.X == 0 {
		return "n/a"
	}
	return fmt.Sprintf("100:%s", FormatCount(math.Round(100*r.Y/r.X)))
}

// WeightedMean returns the mean of values weighted by frequencies.
func WeightedMean(values, freqs []float64) (float64, error) {
	if len(values) != len(freqs) {
		return 0, ErrLengthMismatch
	}
	if floats.Sum(freqs) == 0 {
		return 0, ErrZeroTotal
	}
	return stat.Mean(values, freqs), nil
}

// Mode returns the label with the highest frequency. Ties go to the first.
func Mode(labels []string, freqs []float64) (string, error) {
	if len(labels) != len(freqs) {
		return "", ErrLengthMismatch
	}
	if len(freqs) == 0 {
		return "", ErrZeroTotal
	}
	return labels[floats.MaxIdx(freqs)], nil
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// FormatCount prints whole numbers without a fraction.
func FormatCount(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%g", v)
}
