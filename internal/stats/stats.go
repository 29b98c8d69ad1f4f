// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/typesync/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates a result log.
type Summary struct {
	Tests         int
	AvgSpeed      float64
	BestSpeed     float64
	AvgAccuracy   float64
	TotalMistakes int
}

// Summarize computes averages over results.
func Summarize(results []model.TestResult) Summary {
	sum := Summary{Tests: len(results)}
	if len(results) == 0 {
		return sum
	}
	var totalSpeed, totalAcc float64
	for _, r := range results {
		totalSpeed += r.Speed
		totalAcc += r.Accuracy
		sum.TotalMistakes += r.Mistakes
		if r.Speed > sum.BestSpeed {
			sum.BestSpeed = r.Speed
		}
	}
	count := float64(len(results))
	sum.AvgSpeed = totalSpeed / count
	sum.AvgAccuracy = totalAcc / count
	return sum
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[clamp(idx, 0, len(sparkChars)-1)])
	}
	return b.String()
}

// Chronological returns the speeds and accuracies of a newest-first log
// in oldest-first order.
func Chronological(results []model.TestResult) (speeds, accuracies []float64) {
	speeds = make([]float64, len(results))
	accuracies = make([]float64, len(results))
	for i, r := range results {
		j := len(results) - 1 - i
		speeds[j] = r.Speed
		accuracies[j] = r.Accuracy
	}
	return speeds, accuracies
}

// RenderSummary prints a summary block for a result log.
func RenderSummary(w io.Writer, results []model.TestResult) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}
	sum := Summarize(results)
	speeds, _ := Chronological(results)
	lines := []string{
		"Summary",
		fmt.Sprintf("Tests: %d", sum.Tests),
		fmt.Sprintf("Avg WPM: %.2f", sum.AvgSpeed),
		fmt.Sprintf("Best WPM: %.2f", sum.BestSpeed),
		fmt.Sprintf("Avg Accuracy: %.2f%%", sum.AvgAccuracy),
		fmt.Sprintf("Mistakes: %d", sum.TotalMistakes),
		fmt.Sprintf("Trend: %s", Sparkline(speeds)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints speed and accuracy curves smoothed over window.
func RenderCurves(w io.Writer, results []model.TestResult, window, totalWidth, height int, useColor bool) error {
	if len(results) == 0 {
		return nil
	}
	speeds, accs := Chronological(results)
	curves := []Series{
		{Name: "Speed", Unit: "WPM", Values: MovingAverage(speeds, window)},
		{Name: "Accuracy", Unit: "%", Values: MovingAverage(accs, window)},
	}
	for _, s := range curves {
		opts := PlotOptions{Width: totalWidth, Height: height, ForceColor: useColor, FloorZero: true}
		if err := PlotSeries(w, s, opts); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, ""); err != nil {
			return err
		}
	}
	return nil
}
