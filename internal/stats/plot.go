// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"
)

// Series is a named sequence of values, oldest first.
type Series struct {
	Name   string
	Unit   string
	Values []float64
}

// PlotOptions sizes and colors a plot. Zero values pick defaults.
type PlotOptions struct {
	Width      int
	Height     int
	ForceColor bool
	// FloorZero anchors the value axis at zero.
	FloorZero bool
}

const (
	defaultPlotHeight   = 8
	minPlotWidth        = 10
	axisSeparator       = " ┤"
	colorReset          = "\x1b[0m"
	plotColor           = "\x1b[36m"
	terminalWidthBackup = 80
)

// PlotSeries draws s as a braille line chart with a labelled value axis.
func PlotSeries(w io.Writer, s Series, opts PlotOptions) error {
	if len(s.Values) == 0 {
		return nil
	}
	height := opts.Height
	if height <= 0 {
		height = defaultPlotHeight
	}
	minVal, maxVal := valueRange(s.Values, opts.FloorZero)
	labels := axisLabels(minVal, maxVal, height)
	labelWidth := 0
	for _, l := range labels {
		if len(l) > labelWidth {
			labelWidth = len(l)
		}
	}
	width := opts.Width
	if width <= 0 {
		width = terminalWidth()
	}
	width -= labelWidth + len([]rune(axisSeparator))
	if width < minPlotWidth {
		width = minPlotWidth
	}

	c := newCanvas(width, height)
	values := resample(s.Values, width)
	prevX, prevY := -1, -1
	for x, v := range values {
		px, py := x*2, rowFor(v, minVal, maxVal, height*4)
		if prevX >= 0 {
			c.line(prevX, prevY, px, py)
		} else {
			c.set(px, py)
		}
		prevX, prevY = px, py
	}

	useColor := shouldUseColor(w, opts.ForceColor)
	title := s.Name
	if s.Unit != "" {
		title = fmt.Sprintf("%s (%s)", s.Name, s.Unit)
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	for y := 0; y < height; y++ {
		row := c.row(y)
		if useColor {
			row = plotColor + row + colorReset
		}
		if _, err := fmt.Fprintf(w, "%*s%s%s\n", labelWidth, labels[y], axisSeparator, row); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%*s  %d tests, latest %.2f\n", labelWidth, "", len(s.Values), s.Values[len(s.Values)-1])
	return err
}

func valueRange(values []float64, floorZero bool) (float64, float64) {
	minVal, maxVal := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if floorZero && minVal > 0 {
		minVal = 0
	}
	if maxVal-minVal < 1e-9 {
		minVal--
		maxVal++
	}
	return minVal, maxVal
}

func axisLabels(minVal, maxVal float64, height int) []string {
	labels := make([]string, height)
	labels[0] = fmt.Sprintf("%.0f", maxVal)
	if height > 2 {
		labels[height/2] = fmt.Sprintf("%.0f", (minVal+maxVal)/2)
	}
	if height > 1 {
		labels[height-1] = fmt.Sprintf("%.0f", minVal)
	}
	return labels
}

func rowFor(v, minVal, maxVal float64, rows int) int {
	if rows <= 1 {
		return 0
	}
	pos := (v - minVal) / (maxVal - minVal)
	row := int(math.Round((1 - pos) * float64(rows-1)))
	return clamp(row, 0, rows-1)
}

// resample stretches or averages values onto width columns.
func resample(values []float64, width int) []float64 {
	out := make([]float64, width)
	n := len(values)
	switch {
	case n == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
	case n > width:
		for i := range out {
			start := i * n / width
			end := clamp((i+1)*n/width, start+1, n)
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	default:
		for i := range out {
			pos := float64(i) * float64(n-1) / float64(width-1)
			idx := int(pos)
			if idx >= n-1 {
				out[i] = values[n-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

// canvas holds braille cells; each cell is 2 dots wide and 4 tall.
type canvas struct {
	cells [][]uint8
}

func newCanvas(width, height int) *canvas {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return &canvas{cells: cells}
}

var dotMasks = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func (c *canvas) set(x, y int) {
	cy, cx := y/4, x/2
	if x < 0 || y < 0 || cy >= len(c.cells) || cx >= len(c.cells[cy]) {
		return
	}
	c.cells[cy][cx] |= dotMasks[x%2][y%4]
}

// line plots with Bresenham's algorithm.
func (c *canvas) line(x0, y0, x1, y1 int) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *canvas) row(y int) string {
	var b strings.Builder
	for _, mask := range c.cells[y] {
		b.WriteRune(rune(0x2800 + int(mask)))
	}
	return b.String()
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
