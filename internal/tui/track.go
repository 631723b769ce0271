package tui

import (
	"math"
	"strings"
)

const brailleBlank = 0x2800

// brailleDots maps a sub-cell (row, col) to its dot bit.
var brailleDots = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Track draws a top-down view of the world X (north, up) and Y (east,
// right) plane on a braille grid. Each cell holds 2x4 dots.
type Track struct {
	cols, rows int
	// Span is the half-width of the view in meters, centered on the origin.
	Span  float64
	cells [][]rune
}

func NewTrack(cols, rows int, span float64) *Track {
	t := &Track{cols: cols, rows: rows, Span: span, cells: make([][]rune, rows)}
	for i := range t.cells {
		t.cells[i] = make([]rune, cols)
	}
	t.Clear()
	return t
}

func (t *Track) Clear() {
	for _, row := range t.cells {
		for j := range row {
			row[j] = brailleBlank
		}
	}
}

// dot converts world meters to dot coordinates.
func (t *Track) dot(north, east float64) (int, int) {
	w, h := float64(t.cols*2), float64(t.rows*4)
	px := (east/t.Span + 1) / 2 * (w - 1)
	py := (1 - north/t.Span) / 2 * (h - 1)
	return int(math.Round(px)), int(math.Round(py))
}

func (t *Track) set(px, py int) {
	if px < 0 || py < 0 || px >= t.cols*2 || py >= t.rows*4 {
		return
	}
	t.cells[py/4][px/2] |= brailleDots[py%4][px%2]
}

// Plot marks a world position. Points outside the view are dropped.
func (t *Track) Plot(north, east float64) {
	t.set(t.dot(north, east))
}

// Heading draws a short line from the position along yaw, measured
// clockwise from north.
func (t *Track) Heading(north, east, yaw float64) {
	l := t.Span / 8
	x0, y0 := t.dot(north, east)
	x1, y1 := t.dot(north+l*math.Cos(yaw), east+l*math.Sin(yaw))
	t.line(x0, y0, x1, y1)
}

// line is Bresenham over dot coordinates.
func (t *Track) line(x0, y0, x1, y1 int) {
	dx, dy := abs(x1-x0), abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy
	for {
		t.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (t *Track) String() string {
	var b strings.Builder
	for i, row := range t.cells {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(row))
	}
	return b.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
