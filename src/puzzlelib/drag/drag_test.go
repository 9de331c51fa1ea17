package drag

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jigsaw/src/puzzlelib/base"
	"jigsaw/src/puzzlelib/pieces"
)

// countingPlacer forwards to a store and records every call.
type countingPlacer struct {
	store *pieces.Store
	calls int
}

func (p *countingPlacer) PlacePiece(id base.PieceID, pos int) bool {
	p.calls++
	return p.store.Place(id, pos)
}

// 2x2 board of 100px cells at (50, 50)
var board = GridLayout{X: 50, Y: 50, CellW: 100, CellH: 100, Rows: 2, Cols: 2}

func setup(t *testing.T, redrag bool) (*Controller, *pieces.Store, *countingPlacer) {
	t.Helper()
	tiles := make([]image.Image, 4)
	for i := range tiles {
		tiles[i] = image.NewRGBA(image.Rect(0, 0, 10, 10))
	}
	store := pieces.Build(tiles, pieces.WithRedrag(redrag))
	placer := &countingPlacer{store: store}
	return NewController(board, placer, store, WithRedrag(redrag)), store, placer
}

func piece(t *testing.T, s *pieces.Store, id base.PieceID) base.Piece {
	t.Helper()
	p, ok := s.Get(id)
	require.True(t, ok)
	return p
}

func TestDragAndDropOnFreeCell(t *testing.T) {
	c, store, placer := setup(t, false)

	ok := c.PointerDown(1, piece(t, store, "piece-0"), base.Point{X: 420, Y: 30}, base.Point{X: 400, Y: 10})
	require.True(t, ok)
	s, dragging := c.Session()
	require.True(t, dragging)
	assert.Equal(t, base.Point{X: 20, Y: 20}, s.Offset)
	assert.Equal(t, base.Point{X: 400, Y: 10}, s.Ghost)
	assert.Equal(t, base.NoPosition, s.Hovered)
	assert.Equal(t, base.NoPosition, s.Origin)

	require.True(t, c.PointerMove(1, base.Point{X: 60, Y: 60}))
	s, _ = c.Session()
	assert.Equal(t, base.Point{X: 40, Y: 40}, s.Ghost)
	assert.Equal(t, 0, s.Hovered)

	require.True(t, c.PointerMove(1, base.Point{X: 160, Y: 170}))
	s, _ = c.Session()
	assert.Equal(t, 3, s.Hovered)

	assert.Equal(t, Placed, c.PointerUp(1, base.Point{X: 160, Y: 170}))
	assert.False(t, c.Dragging())
	assert.Equal(t, 1, placer.calls)
	p := piece(t, store, "piece-0")
	assert.True(t, p.Placed)
	assert.Equal(t, 3, p.Current)
}

func TestDropOnOccupiedCellLeavesStateUnchanged(t *testing.T) {
	c, store, placer := setup(t, false)
	require.True(t, store.Place("piece-1", 0))

	require.True(t, c.PointerDown(1, piece(t, store, "piece-0"), base.Point{X: 500, Y: 500}, base.Point{X: 490, Y: 490}))
	c.PointerMove(1, base.Point{X: 75, Y: 75})
	s, _ := c.Session()
	assert.Equal(t, 0, s.Hovered)

	assert.Equal(t, Returned, c.PointerUp(1, base.Point{X: 75, Y: 75}))
	assert.False(t, c.Dragging())
	assert.Zero(t, placer.calls, "occupied zones never reach the placer")
	assert.False(t, piece(t, store, "piece-0").Placed)
	occ, _ := store.PieceAt(0)
	assert.Equal(t, base.PieceID("piece-1"), occ.ID)
}

func TestDropOutsideBoardReturnsPiece(t *testing.T) {
	c, store, placer := setup(t, false)
	require.True(t, c.PointerDown(1, piece(t, store, "piece-2"), base.Point{X: 500, Y: 500}, base.Point{X: 500, Y: 500}))
	assert.Equal(t, Returned, c.PointerUp(1, base.Point{X: 10, Y: 10}))
	assert.Zero(t, placer.calls)
	assert.Equal(t, 0, store.PlacedCount())
}

func TestPointerCancelMidDrag(t *testing.T) {
	c, store, placer := setup(t, false)
	before := store.All()

	require.True(t, c.PointerDown(3, piece(t, store, "piece-1"), base.Point{X: 500, Y: 500}, base.Point{X: 480, Y: 480}))
	c.PointerMove(3, base.Point{X: 120, Y: 60})

	assert.Equal(t, Returned, c.PointerCancel(3))
	assert.False(t, c.Dragging())
	_, ok := c.Session()
	assert.False(t, ok)
	assert.Zero(t, placer.calls)
	assert.Equal(t, before, store.All())
}

func TestSingleDragAtATime(t *testing.T) {
	c, store, _ := setup(t, false)
	require.True(t, c.PointerDown(1, piece(t, store, "piece-0"), base.Point{}, base.Point{}))
	assert.False(t, c.PointerDown(2, piece(t, store, "piece-1"), base.Point{}, base.Point{}))

	// foreign pointer events are ignored and do not end the session
	assert.False(t, c.PointerMove(2, base.Point{X: 60, Y: 60}))
	assert.Equal(t, Ignored, c.PointerUp(2, base.Point{X: 60, Y: 60}))
	assert.Equal(t, Ignored, c.PointerCancel(2))
	s, ok := c.Session()
	require.True(t, ok)
	assert.Equal(t, base.PieceID("piece-0"), s.PieceID)
}

func TestIdleEventsAreIgnored(t *testing.T) {
	c, _, placer := setup(t, false)
	assert.False(t, c.PointerMove(1, base.Point{X: 60, Y: 60}))
	assert.Equal(t, Ignored, c.PointerUp(1, base.Point{X: 60, Y: 60}))
	assert.Equal(t, Ignored, c.PointerCancel(1))
	assert.Zero(t, placer.calls)
}

func TestPlacedPieceRequiresRedrag(t *testing.T) {
	c, store, _ := setup(t, false)
	require.True(t, store.Place("piece-0", 0))
	assert.False(t, c.PointerDown(1, piece(t, store, "piece-0"), base.Point{X: 60, Y: 60}, base.Point{X: 50, Y: 50}))
	assert.False(t, c.Dragging())
}

func TestBoardDragMovesPlacedPiece(t *testing.T) {
	c, store, _ := setup(t, true)
	require.True(t, store.Place("piece-3", 0))

	require.True(t, c.PointerDown(1, piece(t, store, "piece-3"), base.Point{X: 60, Y: 60}, base.Point{X: 50, Y: 50}))
	s, _ := c.Session()
	assert.Equal(t, 0, s.Origin)

	assert.Equal(t, Placed, c.PointerUp(1, base.Point{X: 199, Y: 199}))
	p := piece(t, store, "piece-3")
	assert.Equal(t, 3, p.Current)
	assert.False(t, store.Occupied(0))
}

func TestBoardDragBackOntoOwnCell(t *testing.T) {
	c, store, placer := setup(t, true)
	require.True(t, store.Place("piece-3", 0))
	require.True(t, c.PointerDown(1, piece(t, store, "piece-3"), base.Point{X: 60, Y: 60}, base.Point{X: 50, Y: 50}))
	assert.Equal(t, Returned, c.PointerUp(1, base.Point{X: 61, Y: 61}))
	assert.Zero(t, placer.calls)
	assert.Equal(t, 0, piece(t, store, "piece-3").Current)
}

func TestResetClearsSession(t *testing.T) {
	c, store, _ := setup(t, false)
	require.True(t, c.PointerDown(1, piece(t, store, "piece-0"), base.Point{}, base.Point{}))
	c.Reset()
	assert.False(t, c.Dragging())
	assert.True(t, c.PointerDown(2, piece(t, store, "piece-1"), base.Point{}, base.Point{}))
}

func TestGridLayout(t *testing.T) {
	cases := []struct {
		p   base.Point
		pos int
		ok  bool
	}{
		{base.Point{X: 50, Y: 50}, 0, true},
		{base.Point{X: 149.9, Y: 50}, 0, true},
		{base.Point{X: 150, Y: 50}, 1, true},
		{base.Point{X: 60, Y: 249}, 2, true},
		{base.Point{X: 249.99, Y: 249.99}, 3, true},
		{base.Point{X: 250, Y: 100}, base.NoPosition, false},
		{base.Point{X: 49, Y: 100}, base.NoPosition, false},
	}
	for _, tc := range cases {
		pos, ok := board.DropZoneAt(tc.p)
		assert.Equal(t, tc.ok, ok, "%+v", tc.p)
		assert.Equal(t, tc.pos, pos, "%+v", tc.p)
	}
	assert.Equal(t, base.Point{X: 150, Y: 150}, board.CellOrigin(3))
	assert.Equal(t, 200.0, board.Width())

	_, ok := GridLayout{}.DropZoneAt(base.Point{})
	assert.False(t, ok)
}
