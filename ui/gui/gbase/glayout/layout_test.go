package glayout

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jigsaw/src/puzzlelib/base"
)

func TestBoardSquareTilesInWideArea(t *testing.T) {
	g := Board(image.Rect(10, 20, 610, 420), 4, 4, image.Pt(50, 50))
	assert.Equal(t, 100.0, g.CellW)
	assert.Equal(t, 100.0, g.CellH)
	assert.Equal(t, 110.0, g.X) // (600-400)/2 + 10
	assert.Equal(t, 20.0, g.Y)
	assert.Equal(t, 4, g.Rows)
}

func TestBoardKeepsTileAspect(t *testing.T) {
	g := Board(image.Rect(0, 0, 600, 600), 3, 3, image.Pt(40, 20))
	assert.Equal(t, 200.0, g.CellW)
	assert.Equal(t, 100.0, g.CellH)
	assert.Equal(t, 0.0, g.X)
	assert.Equal(t, 150.0, g.Y)
}

func TestBoardDegenerate(t *testing.T) {
	assert.Zero(t, Board(image.Rect(0, 0, 100, 100), 0, 3, image.Pt(1, 1)))
	assert.Zero(t, Board(image.Rectangle{}, 2, 2, image.Pt(1, 1)))
}

func TestTrayFitsCapacity(t *testing.T) {
	area := image.Rect(700, 60, 920, 660)
	for _, n := range []int{4, 9, 25, 49, 64} {
		tr := NewTray(area, n)
		require.GreaterOrEqual(t, tr.Thumb, MinThumbSize, "n=%d", n)
		last := tr.SlotOrigin(n - 1)
		assert.LessOrEqual(t, int(last.X)+tr.Thumb, area.Max.X, "n=%d", n)
		assert.LessOrEqual(t, int(last.Y)+tr.Thumb, area.Max.Y, "n=%d", n)
	}
	assert.Equal(t, MaxThumbSize, NewTray(area, 4).Thumb)
}

func TestTraySlotAt(t *testing.T) {
	tr := Tray{Area: image.Rect(100, 100, 400, 400), Thumb: 50, Cols: 3}

	i, ok := tr.SlotAt(base.Point{X: 110, Y: 110}, 5)
	require.True(t, ok)
	assert.Equal(t, 0, i)

	i, ok = tr.SlotAt(base.Point{X: 100 + 58 + 10, Y: 100 + 58 + 10}, 5)
	require.True(t, ok)
	assert.Equal(t, 4, i)

	_, ok = tr.SlotAt(base.Point{X: 100 + 52, Y: 110}, 5) // in the gap
	assert.False(t, ok)
	_, ok = tr.SlotAt(base.Point{X: 100 + 2*58 + 10, Y: 100 + 58 + 10}, 5) // slot 5 is empty
	assert.False(t, ok)
	_, ok = tr.SlotAt(base.Point{X: 90, Y: 110}, 5)
	assert.False(t, ok)

	assert.Equal(t, base.Point{X: 158, Y: 158}, tr.SlotOrigin(4))
}

func TestPage(t *testing.T) {
	cases := []struct {
		n, per, page                     int
		start, end, pages, clampedToPage int
	}{
		{0, 8, 0, 0, 0, 1, 0},
		{5, 8, 0, 0, 5, 1, 0},
		{17, 8, 1, 8, 16, 3, 1},
		{17, 8, 2, 16, 17, 3, 2},
		{17, 8, 9, 16, 17, 3, 2},
		{17, 8, -1, 0, 8, 3, 0},
		{3, 0, 1, 1, 2, 3, 1},
	}
	for _, tc := range cases {
		start, end, pages, page := Page(tc.n, tc.per, tc.page)
		assert.Equal(t, tc.start, start, "%+v", tc)
		assert.Equal(t, tc.end, end, "%+v", tc)
		assert.Equal(t, tc.pages, pages, "%+v", tc)
		assert.Equal(t, tc.clampedToPage, page, "%+v", tc)
	}
}
