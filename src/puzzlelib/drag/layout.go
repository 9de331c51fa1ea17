package drag

import (
	"math"

	"jigsaw/src/puzzlelib/base"
)

// GridLayout is a rectangular board of Rows×Cols cells with its top-left at (X, Y).
type GridLayout struct {
	X, Y         float64
	CellW, CellH float64
	Rows, Cols   int
}

func (g GridLayout) Width() float64  { return g.CellW * float64(g.Cols) }
func (g GridLayout) Height() float64 { return g.CellH * float64(g.Rows) }

func (g GridLayout) Contains(p base.Point) bool {
	return p.X >= g.X && p.Y >= g.Y && p.X < g.X+g.Width() && p.Y < g.Y+g.Height()
}

func (g GridLayout) DropZoneAt(p base.Point) (int, bool) {
	if g.Rows < 1 || g.Cols < 1 || g.CellW <= 0 || g.CellH <= 0 || !g.Contains(p) {
		return base.NoPosition, false
	}
	col := int(math.Floor((p.X - g.X) / g.CellW))
	row := int(math.Floor((p.Y - g.Y) / g.CellH))
	// float edges
	if col >= g.Cols {
		col = g.Cols - 1
	}
	if row >= g.Rows {
		row = g.Rows - 1
	}
	return row*g.Cols + col, true
}

// CellOrigin is the top-left corner of cell pos.
func (g GridLayout) CellOrigin(pos int) base.Point {
	row, col := pos/g.Cols, pos%g.Cols
	return base.Point{X: g.X + float64(col)*g.CellW, Y: g.Y + float64(row)*g.CellH}
}
