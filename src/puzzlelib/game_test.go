package puzzlelib

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jigsaw/src/puzzlelib/base"
	"jigsaw/src/puzzlelib/drag"
	"jigsaw/src/puzzlelib/grid"
	"jigsaw/src/puzzlelib/remote"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeReporter struct {
	mu   sync.Mutex
	subs []remote.ScoreSubmission
	err  error
}

func (f *fakeReporter) SubmitScore(ctx context.Context, s remote.ScoreSubmission) (remote.RankInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, s)
	if f.err != nil {
		return remote.RankInfo{}, f.err
	}
	return remote.RankInfo{ScoreID: "s-1", Score: s.Score, Rank: 7}, nil
}

func blankTiles(n int) []image.Image {
	out := make([]image.Image, n)
	for i := range out {
		out[i] = image.NewRGBA(image.Rect(0, 0, 8, 8))
	}
	return out
}

func newGame(t *testing.T, clock Clock, opts ...Option) *GameBuilder {
	t.Helper()
	opts = append([]Option{WithRand(rand.New(rand.NewPCG(1, 2)))}, opts...)
	return NewGameBuilder(nil, clock, opts...)
}

// solve places every unplaced piece on its own cell.
func solve(t *testing.T, gb *GameBuilder) {
	t.Helper()
	for _, p := range gb.Pieces() {
		if p.Placed {
			continue
		}
		require.True(t, gb.PlacePiece(p.ID, p.Correct), "place %s", p.ID)
	}
}

func TestCreateFromTiles(t *testing.T) {
	gb := newGame(t, newManualClock())
	assert.Equal(t, base.InvalidGame, gb.Status())

	status, err := gb.CreateFromTiles("easy", blankTiles(9))
	require.NoError(t, err)
	assert.Equal(t, base.Waiting, status)
	assert.Len(t, gb.Pieces(), 9)
	assert.Len(t, gb.Tray(), 9)
	assert.Equal(t, "easy", gb.Tier().Name)

	_, err = gb.CreateFromTiles("easy", blankTiles(8))
	assert.ErrorIs(t, err, ErrTileCount)
	_, err = gb.CreateFromTiles("legendary", blankTiles(9))
	assert.ErrorIs(t, err, grid.ErrUnknownTier)
}

func TestSeededShuffleIsReproducible(t *testing.T) {
	order := func() []base.PieceID {
		gb := newGame(t, newManualClock())
		_, err := gb.CreateFromTiles("medium", blankTiles(16))
		require.NoError(t, err)
		var ids []base.PieceID
		for _, p := range gb.Pieces() {
			ids = append(ids, p.ID)
		}
		return ids
	}
	assert.Equal(t, order(), order())
}

func TestTimerStartsOnFirstPlacement(t *testing.T) {
	clock := newManualClock()
	gb := newGame(t, clock)
	_, err := gb.CreateFromTiles("beginner", blankTiles(4))
	require.NoError(t, err)

	clock.Advance(10 * time.Second)
	assert.Zero(t, gb.Tick())
	assert.Equal(t, base.Waiting, gb.Status())

	require.True(t, gb.PlacePiece("piece-0", 0))
	assert.Equal(t, base.Playing, gb.Status())
	clock.Advance(2500 * time.Millisecond)
	assert.Equal(t, int64(2500), gb.Tick())
	assert.Equal(t, int64(2500), gb.Elapsed())
}

func TestStartGameIsIdempotent(t *testing.T) {
	clock := newManualClock()
	gb := newGame(t, clock)
	_, err := gb.CreateFromTiles("beginner", blankTiles(4))
	require.NoError(t, err)

	gb.StartGame()
	clock.Advance(3 * time.Second)
	gb.StartGame()
	clock.Advance(time.Second)
	assert.Equal(t, int64(4000), gb.Tick())
}

func TestOnlyAcceptedPlacementsCount(t *testing.T) {
	gb := newGame(t, newManualClock())
	_, err := gb.CreateFromTiles("easy", blankTiles(9))
	require.NoError(t, err)

	require.True(t, gb.PlacePiece("piece-3", 0))
	assert.False(t, gb.PlacePiece("piece-4", 0), "occupied")
	assert.False(t, gb.PlacePiece("piece-4", 9), "out of range")
	assert.False(t, gb.PlacePiece("piece-99", 1), "unknown")
	assert.False(t, gb.PlacePiece("piece-3", 1), "placed, no board drag")
	assert.Equal(t, 1, gb.Moves())

	require.True(t, gb.RemovePiece("piece-3"))
	assert.Equal(t, 1, gb.Moves())
	assert.False(t, gb.Occupied(0))
}

func TestFullSolve(t *testing.T) {
	clock := newManualClock()
	gb := newGame(t, clock)
	_, err := gb.CreateFromTiles("easy", blankTiles(9))
	require.NoError(t, err)

	// one wrong drop then the rest in order
	require.True(t, gb.PlacePiece("piece-0", 8))
	clock.Advance(20 * time.Second)
	require.True(t, gb.RemovePiece("piece-0"))
	assert.Zero(t, gb.Score())

	for i := 0; i < 9; i++ {
		clock.Advance(2500 * time.Millisecond)
		require.True(t, gb.PlacePiece(base.PieceIDFor(i), i))
	}
	assert.Equal(t, base.Solved, gb.Status())
	assert.True(t, gb.Complete())

	// 42.5s -> 42s, 10 moves: 10000 - 84 - 100
	res, ok := gb.Result()
	require.True(t, ok)
	assert.Equal(t, int64(42_500), res.ElapsedMs)
	assert.Equal(t, 10, res.Moves)
	assert.Equal(t, 9816, res.Score)
	assert.Equal(t, 9816, gb.Score())
	assert.Equal(t, []string{"quick_solver"}, res.Achievements)
	assert.Equal(t, "Jigsaw easy solved in 00:42 with 10 moves: 9816 points", res.String())

	placed, correct, total := gb.Progress()
	assert.Equal(t, [3]int{9, 9, 9}, [3]int{placed, correct, total})
}

func TestTotemEasyReverseSolve(t *testing.T) {
	clock := newManualClock()
	gb := newGame(t, clock, WithTiers(grid.Totem()))
	_, err := gb.CreateFromTiles("easy", blankTiles(16))
	require.NoError(t, err)
	assert.Equal(t, 4, gb.Tier().Rows)

	// last piece first; the clock starts on the first drop
	for i := 15; i >= 0; i-- {
		if i < 15 {
			clock.Advance(2 * time.Second)
		}
		require.True(t, gb.PlacePiece(base.PieceIDFor(i), i))
	}
	assert.Equal(t, base.Solved, gb.Status())

	// 30s, 16 moves: 10000 - 60 - 160
	res, ok := gb.Result()
	require.True(t, ok)
	assert.Equal(t, int64(30_000), res.ElapsedMs)
	assert.Equal(t, 16, res.Moves)
	assert.Equal(t, 9780, res.Score)
}

func TestSolvedIsTerminal(t *testing.T) {
	clock := newManualClock()
	gb := newGame(t, clock, WithBoardDrag(true))
	_, err := gb.CreateFromTiles("beginner", blankTiles(4))
	require.NoError(t, err)
	solve(t, gb)
	require.True(t, gb.Complete())
	elapsed := gb.Elapsed()

	clock.Advance(time.Minute)
	assert.Equal(t, elapsed, gb.Tick(), "clock stopped")
	assert.False(t, gb.RemovePiece("piece-0"))
	assert.False(t, gb.PlacePiece("piece-0", 1))
	gb.StartGame()
	assert.Equal(t, base.Solved, gb.Status())
	assert.Equal(t, 4, gb.Moves())
}

func TestRestartResetsEverything(t *testing.T) {
	clock := newManualClock()
	gb := newGame(t, clock)
	assert.ErrorIs(t, gb.RestartGame(), ErrNoSession)

	_, err := gb.CreateFromTiles("beginner", blankTiles(4))
	require.NoError(t, err)
	gb.StartGame()
	clock.Advance(5 * time.Second)
	solve(t, gb)
	require.True(t, gb.Complete())

	require.NoError(t, gb.RestartGame())
	assert.Equal(t, base.Waiting, gb.Status())
	assert.Zero(t, gb.Moves())
	assert.Zero(t, gb.Elapsed())
	assert.Zero(t, gb.Score())
	_, ok := gb.Result()
	assert.False(t, ok)
	for _, p := range gb.Pieces() {
		assert.False(t, p.Placed)
		assert.Equal(t, base.NoPosition, p.Current)
	}
	assert.False(t, gb.Drag().Dragging())
}

func TestScoreIsReportedInBackground(t *testing.T) {
	rep := &fakeReporter{}
	gb := newGame(t, newManualClock(), WithScoreReporter(rep, time.Second), WithPuzzleID("p1"), WithPlayer("ann"))
	_, err := gb.CreateFromTiles("beginner", blankTiles(4))
	require.NoError(t, err)
	solve(t, gb)
	gb.WaitReports()

	require.Len(t, rep.subs, 1)
	sub := rep.subs[0]
	assert.Equal(t, "p1", sub.PuzzleID)
	assert.Equal(t, "beginner", sub.Difficulty)
	assert.Equal(t, 4, sub.Moves)
	assert.Equal(t, gb.Score(), sub.Score)
	assert.Equal(t, "ann", sub.Player)

	rank, ok := gb.Rank()
	require.True(t, ok)
	assert.Equal(t, 7, rank.Rank)
}

func TestReportFailureDoesNotAffectGame(t *testing.T) {
	rep := &fakeReporter{err: &remote.NetworkError{Op: "submit score", Status: 503, Err: errors.New("down")}}
	gb := newGame(t, newManualClock(), WithScoreReporter(rep, time.Second))
	_, err := gb.CreateFromTiles("beginner", blankTiles(4))
	require.NoError(t, err)
	solve(t, gb)
	gb.WaitReports()

	assert.Equal(t, base.Solved, gb.Status())
	assert.Positive(t, gb.Score())
	_, ok := gb.Rank()
	assert.False(t, ok)
}

func TestDragDropDrivesGame(t *testing.T) {
	gb := newGame(t, newManualClock())
	_, err := gb.CreateFromTiles("beginner", blankTiles(4))
	require.NoError(t, err)
	ctrl := gb.Drag()
	ctrl.SetResolver(drag.GridLayout{X: 0, Y: 0, CellW: 50, CellH: 50, Rows: 2, Cols: 2})

	p, ok := gb.Piece("piece-1")
	require.True(t, ok)
	require.True(t, ctrl.PointerDown(0, p, base.Point{X: 310, Y: 20}, base.Point{X: 300, Y: 10}))
	ctrl.PointerMove(0, base.Point{X: 70, Y: 20})
	assert.Equal(t, drag.Placed, ctrl.PointerUp(0, base.Point{X: 70, Y: 20}))

	at, ok := gb.PieceAt(1)
	require.True(t, ok)
	assert.Equal(t, base.PieceID("piece-1"), at.ID)
	assert.Equal(t, 1, gb.Moves())
	assert.Equal(t, base.Playing, gb.Status())

	// occupied target: returned, no move
	q, _ := gb.Piece("piece-2")
	require.True(t, ctrl.PointerDown(0, q, base.Point{X: 310, Y: 20}, base.Point{X: 300, Y: 10}))
	assert.Equal(t, drag.Returned, ctrl.PointerUp(0, base.Point{X: 60, Y: 10}))
	assert.Equal(t, 1, gb.Moves())

	// placed pieces stay put without board drag
	at, _ = gb.PieceAt(1)
	assert.False(t, ctrl.PointerDown(0, at, base.Point{X: 60, Y: 10}, base.Point{X: 50, Y: 0}))
}

func TestRunTimer(t *testing.T) {
	clock := newManualClock()
	gb := newGame(t, clock)
	_, err := gb.CreateFromTiles("beginner", blankTiles(4))
	require.NoError(t, err)
	gb.StartGame()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		gb.RunTimer(ctx, 5*time.Millisecond)
		close(done)
	}()

	clock.Advance(1500 * time.Millisecond)
	require.Eventually(t, func() bool { return gb.Elapsed() == 1500 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer goroutine did not stop")
	}
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestCreateFromSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "pic.png")
	writePNG(t, src, 60, 60)

	gb := newGame(t, newManualClock())
	status, err := gb.CreateFromSource(context.Background(), "easy", src)
	require.NoError(t, err)
	assert.Equal(t, base.Waiting, status)
	for _, p := range gb.Pieces() {
		assert.Equal(t, image.Rect(0, 0, 20, 20), p.Image.Bounds())
	}

	// unreadable picture still yields a playable board
	status, err = gb.CreateFromSource(context.Background(), "easy", filepath.Join(dir, "missing.png"))
	require.NoError(t, err)
	assert.Equal(t, base.Waiting, status)
	require.Len(t, gb.Pieces(), 9)
	assert.Equal(t, 100, gb.Pieces()[0].Image.Bounds().Dx())
}

func TestCreateFromPuzzle(t *testing.T) {
	dir := t.TempDir()
	pic := filepath.Join(dir, "pic.png")
	writePNG(t, pic, 40, 40)

	svc := remote.NewMemory()
	svc.AddPuzzle(base.Puzzle{ID: "p1", Title: "Grid", ImageURL: pic, Difficulties: []string{"beginner", "easy"}})
	ctx := context.Background()

	gb := newGame(t, newManualClock())
	status, err := gb.CreateFromPuzzle(ctx, svc, "p1", "beginner")
	require.NoError(t, err)
	assert.Equal(t, base.Waiting, status)
	assert.Equal(t, "p1", gb.PuzzleID())
	assert.Equal(t, 20, gb.Pieces()[0].Image.Bounds().Dx())

	_, err = gb.CreateFromPuzzle(ctx, svc, "nope", "beginner")
	assert.ErrorIs(t, err, remote.ErrNotFound)

	_, err = gb.CreateFromPuzzle(ctx, svc, "p1", "master")
	assert.ErrorIs(t, err, remote.ErrUnsupportedLevel)
}

func TestCreateFromPuzzleFallsBackToServerPieces(t *testing.T) {
	dir := t.TempDir()
	var refs []string
	for i := 0; i < 4; i++ {
		ref := filepath.Join(dir, string(base.PieceIDFor(i))+".png")
		writePNG(t, ref, 7, 7)
		refs = append(refs, ref)
	}
	svc := remote.NewMemory()
	svc.AddPuzzle(base.Puzzle{ID: "p2", ImageURL: filepath.Join(dir, "gone.png")})
	svc.SetPieces("p2", "beginner", refs)

	gb := newGame(t, newManualClock())
	_, err := gb.CreateFromPuzzle(context.Background(), svc, "p2", "beginner")
	require.NoError(t, err)
	for _, p := range gb.Pieces() {
		assert.Equal(t, 7, p.Image.Bounds().Dx())
	}

	// no server pieces either: placeholders
	svc.AddPuzzle(base.Puzzle{ID: "p3", ImageURL: filepath.Join(dir, "gone.png")})
	_, err = gb.CreateFromPuzzle(context.Background(), svc, "p3", "beginner")
	require.NoError(t, err)
	assert.Equal(t, 100, gb.Pieces()[0].Image.Bounds().Dx())
}
