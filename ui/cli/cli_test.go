package cli

import (
	"bytes"
	"context"
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jigsaw/src/puzzlelib"
	"jigsaw/src/puzzlelib/base"
	"jigsaw/src/puzzlelib/remote"
)

func newBeginner(t *testing.T, opts ...puzzlelib.Option) *puzzlelib.GameBuilder {
	t.Helper()
	gb := puzzlelib.NewGameBuilder(nil, nil, opts...)
	tiles := make([]image.Image, 4)
	for i := range tiles {
		tiles[i] = image.NewRGBA(image.Rect(0, 0, 4, 4))
	}
	_, err := gb.CreateFromTiles("beginner", tiles)
	require.NoError(t, err)
	return gb
}

func run(t *testing.T, gb *puzzlelib.GameBuilder, input string) string {
	t.Helper()
	var out bytes.Buffer
	c := NewCLI(gb, PrintPlain).WithIO(strings.NewReader(input), &out)
	require.NoError(t, c.Run())
	return out.String()
}

func TestLineModeSolve(t *testing.T) {
	gb := newBeginner(t)
	out := run(t, gb, "x\np 9 0\np 0 0\np piece-1 1\np 2 2\np 3 3\np 0 1\n")

	assert.Contains(t, out, "Unknown command: x")
	assert.Contains(t, out, "Invalid placement: piece-9 -> 0")
	assert.Contains(t, out, "Solved!")
	assert.NotContains(t, out, "piece-0 -> 1", "loop must stop after the win")
	assert.True(t, gb.Complete())
	assert.Equal(t, 4, gb.Moves())
}

func TestLineModeRemoveAndQuit(t *testing.T) {
	gb := newBeginner(t)
	out := run(t, gb, "p 0 3\nr 0\nr 0\nq\np 1 1\n")

	assert.Contains(t, out, "Piece piece-0 is not on the board")
	assert.Contains(t, out, "Quitting")
	assert.Equal(t, 1, gb.Moves())
	_, _, total := gb.Progress()
	assert.Equal(t, 4, total)
	p, ok := gb.Piece(base.PieceIDFor(1))
	require.True(t, ok)
	assert.False(t, p.Placed)
}

func TestLineModeUsage(t *testing.T) {
	gb := newBeginner(t)
	out := run(t, gb, "p 1\np a 1\np 1 b\nr\nhelp\nrestart\n")

	assert.Contains(t, out, "Usage: p <piece> <cell>")
	assert.Contains(t, out, "Invalid piece: a")
	assert.Contains(t, out, "Invalid cell: b")
	assert.Contains(t, out, "Usage: r <piece>")
	assert.Contains(t, out, "Status: Waiting")
}

func TestVictoryPrintsRank(t *testing.T) {
	mem := remote.NewMemory()
	mem.AddPuzzle(base.Puzzle{ID: "p1", Title: "Sunset"})
	gb := newBeginner(t, puzzlelib.WithScoreReporter(mem, 0), puzzlelib.WithPuzzleID("p1"))

	out := run(t, gb, "p 0 0\np 1 1\np 2 2\np 3 3\n")
	assert.Contains(t, out, "Leaderboard rank: #1")
	assert.Contains(t, out, "Achievement: Speed Demon")

	got, err := mem.FetchLeaderboard(context.Background(), remote.LeaderboardQuery{PuzzleID: "p1"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestPrintBoardColours(t *testing.T) {
	gb := newBeginner(t)
	require.True(t, gb.PlacePiece(base.PieceIDFor(0), 0))
	require.True(t, gb.PlacePiece(base.PieceIDFor(2), 1))

	var out bytes.Buffer
	PrintBoard(&out, gb)
	s := out.String()
	assert.Contains(t, s, greenBg+blackF+"   0 ")
	assert.Contains(t, s, redBg+whiteF+"   2 ")
	assert.Contains(t, s, darkBg+dimF+"   3 ")
	assert.Contains(t, s, "Tray: ")
}

func TestParsePieceID(t *testing.T) {
	id, err := parsePieceID("Piece-12")
	require.NoError(t, err)
	assert.Equal(t, base.PieceIDFor(12), id)
	_, err = parsePieceID("-1")
	assert.Error(t, err)
}

func TestCRLFWriter(t *testing.T) {
	var out bytes.Buffer
	n, err := crlfWriter{w: &out}.Write([]byte("a\nb\n"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "a\r\nb\r\n", out.String())
}
