// Package glayout holds the screen geometry of the play scene, free of any
// drawing so it can be computed and tested without a window.
package glayout

import (
	"image"

	"jigsaw/src/puzzlelib/base"
	"jigsaw/src/puzzlelib/drag"
)

// Board fits a rows×cols grid of tiles into area, keeping the tile aspect
// and centering the result.
func Board(area image.Rectangle, rows, cols int, tile image.Point) drag.GridLayout {
	if rows <= 0 || cols <= 0 || area.Empty() {
		return drag.GridLayout{}
	}
	aspect := 1.0
	if tile.X > 0 && tile.Y > 0 {
		aspect = float64(tile.X) / float64(tile.Y)
	}
	cellW := float64(area.Dx()) / float64(cols)
	cellH := cellW / aspect
	if cellH*float64(rows) > float64(area.Dy()) {
		cellH = float64(area.Dy()) / float64(rows)
		cellW = cellH * aspect
	}
	// whole pixels keep the grid lines crisp
	cellW, cellH = float64(int(cellW)), float64(int(cellH))
	w, h := cellW*float64(cols), cellH*float64(rows)
	return drag.GridLayout{
		X:     float64(area.Min.X) + (float64(area.Dx())-w)/2,
		Y:     float64(area.Min.Y) + (float64(area.Dy())-h)/2,
		CellW: cellW,
		CellH: cellH,
		Rows:  rows,
		Cols:  cols,
	}
}

const (
	TrayGap      = 8
	MaxThumbSize = 96
	MinThumbSize = 16
)

// Tray is a column of square slots holding the unplaced pieces in order.
type Tray struct {
	Area  image.Rectangle
	Thumb int
	Cols  int
}

// NewTray picks the largest thumb that shows capacity slots inside area.
func NewTray(area image.Rectangle, capacity int) Tray {
	t := Tray{Area: area, Thumb: MinThumbSize, Cols: 1}
	for size := MaxThumbSize; size >= MinThumbSize; size-- {
		cols := (area.Dx() + TrayGap) / (size + TrayGap)
		if cols < 1 {
			continue
		}
		rows := (capacity + cols - 1) / cols
		if rows*(size+TrayGap)-TrayGap <= area.Dy() {
			t.Thumb, t.Cols = size, cols
			break
		}
	}
	if t.Cols < 1 {
		t.Cols = 1
	}
	return t
}

// SlotOrigin is the top-left of slot i.
func (t Tray) SlotOrigin(i int) base.Point {
	step := t.Thumb + TrayGap
	return base.Point{
		X: float64(t.Area.Min.X + (i%t.Cols)*step),
		Y: float64(t.Area.Min.Y + (i/t.Cols)*step),
	}
}

// SlotAt returns the slot under p among the first n, or false.
func (t Tray) SlotAt(p base.Point, n int) (int, bool) {
	x := int(p.X) - t.Area.Min.X
	y := int(p.Y) - t.Area.Min.Y
	if x < 0 || y < 0 {
		return 0, false
	}
	step := t.Thumb + TrayGap
	c, r := x/step, y/step
	if c >= t.Cols || x%step >= t.Thumb || y%step >= t.Thumb {
		return 0, false
	}
	i := r*t.Cols + c
	if i >= n {
		return 0, false
	}
	return i, true
}

// Page returns the [start, end) slice of n items shown on page, clamping page
// into range, and the page count (at least 1).
func Page(n, perPage, page int) (start, end, pages, clamped int) {
	if perPage < 1 {
		perPage = 1
	}
	pages = max(1, (n+perPage-1)/perPage)
	clamped = min(max(page, 0), pages-1)
	start = min(clamped*perPage, n)
	end = min(start+perPage, n)
	return start, end, pages, clamped
}
