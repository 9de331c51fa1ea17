package puzzlelib

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math/rand/v2"
	"sync"
	"time"

	"jigsaw/src/logx"
	"jigsaw/src/puzzlelib/base"
	"jigsaw/src/puzzlelib/drag"
	"jigsaw/src/puzzlelib/grid"
	"jigsaw/src/puzzlelib/pieces"
	"jigsaw/src/puzzlelib/remote"
	"jigsaw/src/puzzlelib/score"
	"jigsaw/src/puzzlelib/slicer"
)

var (
	ErrNoSession = errors.New("no game session")
	ErrTileCount = errors.New("tile count does not match tier")
)

const DefaultReportTimeout = 10 * time.Second

// ScoreReporter receives finished games; remote.Service satisfies it.
type ScoreReporter interface {
	SubmitScore(ctx context.Context, s remote.ScoreSubmission) (remote.RankInfo, error)
}

// Result is the final record of a solved game.
type Result struct {
	Tier         grid.Tier
	ElapsedMs    int64
	Moves        int
	Score        int
	Achievements []string
}

// String is the one-line summary shared to the clipboard.
func (r Result) String() string {
	return fmt.Sprintf("Jigsaw %s solved in %s with %d moves: %d points",
		r.Tier.Name, score.FormatTime(r.ElapsedMs), r.Moves, r.Score)
}

type Option func(*GameBuilder)

func WithTiers(tb grid.Table) Option {
	return func(gb *GameBuilder) { gb.tiers = tb }
}

func WithRand(rng *rand.Rand) Option {
	return func(gb *GameBuilder) { gb.rng = rng }
}

// WithBoardDrag lets placed pieces be dragged to another free cell.
func WithBoardDrag(allow bool) Option {
	return func(gb *GameBuilder) { gb.allowRedrag = allow }
}

// WithScoreReporter submits every solved game in the background; failures are logged only.
func WithScoreReporter(r ScoreReporter, timeout time.Duration) Option {
	return func(gb *GameBuilder) {
		gb.reporter = r
		if timeout <= 0 {
			timeout = DefaultReportTimeout
		}
		gb.reportTimeout = timeout
	}
}

func WithPuzzleID(id string) Option {
	return func(gb *GameBuilder) { gb.puzzleID = id }
}

func WithPlayer(name string) Option {
	return func(gb *GameBuilder) { gb.player = name }
}

// at first use Create* methods
type GameBuilder struct {
	mu     sync.Mutex
	logger logx.Logger
	clock  Clock

	tiers         grid.Table
	rng           *rand.Rand
	allowRedrag   bool
	reporter      ScoreReporter
	reportTimeout time.Duration
	puzzleID      string
	player        string

	tier      grid.Tier
	tiles     []image.Image
	store     *pieces.Store
	drag      *drag.Controller
	status    base.GameStatus
	startedAt time.Time
	elapsedMs int64
	moves     int
	result    *Result
	round     int // bumped on every deal

	reports sync.WaitGroup
	rank    *remote.RankInfo
}

func NewGameBuilder(logger logx.Logger, clock Clock, opts ...Option) *GameBuilder {
	if logger == nil {
		logger = logx.Nop()
	}
	if clock == nil {
		clock = RealClock{}
	}
	gb := &GameBuilder{
		logger:        logger,
		clock:         clock,
		tiers:         grid.Classic(),
		rng:           rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		reportTimeout: DefaultReportTimeout,
		status:        base.InvalidGame,
	}
	for _, opt := range opts {
		opt(gb)
	}
	gb.drag = drag.NewController(nil, gb, gb, drag.WithRedrag(gb.allowRedrag))
	return gb
}

// ---- Create ----

// CreateFromTiles starts a session over pre-cut tiles; tile i belongs at cell i.
func (gb *GameBuilder) CreateFromTiles(tierName string, tiles []image.Image) (base.GameStatus, error) {
	tier, err := gb.tiers.Lookup(tierName)
	if err != nil {
		return base.InvalidGame, err
	}
	if len(tiles) != tier.Pieces() {
		return base.InvalidGame, fmt.Errorf("%w: %s wants %d, got %d", ErrTileCount, tier.Name, tier.Pieces(), len(tiles))
	}
	gb.logger.Debugf("create game %s with %d pieces", tier.Name, len(tiles))

	gb.mu.Lock()
	defer gb.mu.Unlock()
	gb.tier = tier
	gb.tiles = append([]image.Image(nil), tiles...)
	gb.resetLocked()
	return gb.status, nil
}

// CreateFromSource slices a file or URL. An unreadable picture is not fatal:
// the session starts with placeholder tiles and the load error is logged.
// The picture is not a catalogue puzzle, so its scores are not submitted.
func (gb *GameBuilder) CreateFromSource(ctx context.Context, tierName, src string) (base.GameStatus, error) {
	tier, err := gb.tiers.Lookup(tierName)
	if err != nil {
		return base.InvalidGame, err
	}
	gb.mu.Lock()
	gb.puzzleID = ""
	gb.mu.Unlock()
	tiles, err := slicer.SliceSource(ctx, src, tier.Rows, tier.Cols)
	if err != nil {
		var le *slicer.ImageLoadError
		if !errors.As(err, &le) {
			return base.InvalidGame, err
		}
		gb.logger.Warnf("use placeholder pieces: %v", err)
	}
	return gb.CreateFromTiles(tier.Name, tiles)
}

// CreateFromPuzzle fetches the puzzle definition and slices its picture. When
// the picture cannot be loaded the server's pre-sliced pieces are tried before
// falling back to placeholders. A missing puzzle is a terminal error.
func (gb *GameBuilder) CreateFromPuzzle(ctx context.Context, svc remote.Service, puzzleID, tierName string) (base.GameStatus, error) {
	p, err := svc.FetchPuzzle(ctx, puzzleID)
	if err != nil {
		return base.InvalidGame, fmt.Errorf("error load puzzle %q: %w", puzzleID, err)
	}
	tier, err := gb.tiers.Lookup(tierName)
	if err != nil {
		return base.InvalidGame, err
	}
	if !p.Supports(tier.Name) {
		return base.InvalidGame, fmt.Errorf("puzzle %q: %w: %s", puzzleID, remote.ErrUnsupportedLevel, tier.Name)
	}

	gb.mu.Lock()
	gb.puzzleID = p.ID
	gb.mu.Unlock()

	tiles, err := slicer.SliceSource(ctx, p.ImageURL, tier.Rows, tier.Cols)
	if err == nil {
		return gb.CreateFromTiles(tier.Name, tiles)
	}
	var le *slicer.ImageLoadError
	if !errors.As(err, &le) {
		return base.InvalidGame, err
	}
	gb.logger.Warnf("slice puzzle picture: %v", err)

	cut, err := gb.loadPieceRefs(ctx, svc, p.ID, tier)
	if err != nil {
		gb.logger.Warnf("use placeholder pieces: %v", err)
		return gb.CreateFromTiles(tier.Name, tiles)
	}
	return gb.CreateFromTiles(tier.Name, cut)
}

func (gb *GameBuilder) loadPieceRefs(ctx context.Context, svc remote.Service, puzzleID string, tier grid.Tier) ([]image.Image, error) {
	refs, err := svc.FetchPieceImages(ctx, puzzleID, tier.Name)
	if err != nil {
		return nil, err
	}
	if len(refs) != tier.Pieces() {
		return nil, fmt.Errorf("%w: server sent %d pieces", ErrTileCount, len(refs))
	}
	out := make([]image.Image, len(refs))
	for i, ref := range refs {
		img, err := slicer.Load(ctx, ref)
		if err != nil {
			return nil, err
		}
		out[i] = img
	}
	return out, nil
}

// ---- Session ----

// StartGame starts the clock once; later calls do nothing.
func (gb *GameBuilder) StartGame() {
	gb.mu.Lock()
	defer gb.mu.Unlock()
	gb.startLocked()
}

// PlacePiece is the drop handler. It returns false for any rejected
// placement; only accepted placements count as moves.
func (gb *GameBuilder) PlacePiece(id base.PieceID, pos int) bool {
	gb.mu.Lock()
	defer gb.mu.Unlock()
	if gb.store == nil || gb.status == base.Solved {
		return false
	}
	gb.startLocked()
	if !gb.store.Place(id, pos) {
		gb.logger.Debugf("reject %s at %d", id, pos)
		return false
	}
	gb.moves++
	gb.logger.Debugf("place %s at %d (move %d)", id, pos, gb.moves)
	if gb.store.Solved() {
		gb.finishLocked()
	}
	return true
}

// RemovePiece sends a placed piece back to the tray; not counted as a move.
func (gb *GameBuilder) RemovePiece(id base.PieceID) bool {
	gb.mu.Lock()
	defer gb.mu.Unlock()
	if gb.store == nil || gb.status == base.Solved {
		return false
	}
	ok := gb.store.Remove(id)
	if ok {
		gb.logger.Debugf("remove %s", id)
	}
	return ok
}

// Tick samples the wall clock while playing and returns elapsed milliseconds.
func (gb *GameBuilder) Tick() int64 {
	gb.mu.Lock()
	defer gb.mu.Unlock()
	if gb.status == base.Playing {
		gb.sampleLocked()
	}
	return gb.elapsedMs
}

// RunTimer calls Tick every interval until ctx is done.
func (gb *GameBuilder) RunTimer(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			gb.Tick()
		}
	}
}

// RestartGame deals the same tiles again with a fresh shuffle.
func (gb *GameBuilder) RestartGame() error {
	gb.mu.Lock()
	defer gb.mu.Unlock()
	if gb.store == nil {
		return ErrNoSession
	}
	gb.logger.Info("restart game")
	gb.resetLocked()
	return nil
}

// ---- Queries ----

func (gb *GameBuilder) Status() base.GameStatus {
	gb.mu.Lock()
	defer gb.mu.Unlock()
	return gb.status
}

func (gb *GameBuilder) Tier() grid.Tier {
	gb.mu.Lock()
	defer gb.mu.Unlock()
	return gb.tier
}

func (gb *GameBuilder) Tiers() grid.Table {
	return gb.tiers
}

func (gb *GameBuilder) PuzzleID() string {
	gb.mu.Lock()
	defer gb.mu.Unlock()
	return gb.puzzleID
}

func (gb *GameBuilder) Moves() int {
	gb.mu.Lock()
	defer gb.mu.Unlock()
	return gb.moves
}

// Elapsed returns the last sampled time in milliseconds.
func (gb *GameBuilder) Elapsed() int64 {
	gb.mu.Lock()
	defer gb.mu.Unlock()
	return gb.elapsedMs
}

func (gb *GameBuilder) Complete() bool {
	return gb.Status() == base.Solved
}

// Score is 0 until the puzzle is solved.
func (gb *GameBuilder) Score() int {
	gb.mu.Lock()
	defer gb.mu.Unlock()
	if gb.result == nil {
		return 0
	}
	return gb.result.Score
}

func (gb *GameBuilder) Result() (Result, bool) {
	gb.mu.Lock()
	defer gb.mu.Unlock()
	if gb.result == nil {
		return Result{}, false
	}
	return *gb.result, true
}

// Rank is the backend's answer for the last solved game, once it arrived.
func (gb *GameBuilder) Rank() (remote.RankInfo, bool) {
	gb.mu.Lock()
	defer gb.mu.Unlock()
	if gb.rank == nil {
		return remote.RankInfo{}, false
	}
	return *gb.rank, true
}

// WaitReports blocks until pending score submissions are done.
func (gb *GameBuilder) WaitReports() {
	gb.reports.Wait()
}

// Pieces lists every piece in tray order.
func (gb *GameBuilder) Pieces() []base.Piece {
	gb.mu.Lock()
	defer gb.mu.Unlock()
	if gb.store == nil {
		return nil
	}
	return gb.store.All()
}

func (gb *GameBuilder) Tray() []base.Piece {
	gb.mu.Lock()
	defer gb.mu.Unlock()
	if gb.store == nil {
		return nil
	}
	return gb.store.Tray()
}

func (gb *GameBuilder) Piece(id base.PieceID) (base.Piece, bool) {
	gb.mu.Lock()
	defer gb.mu.Unlock()
	if gb.store == nil {
		return base.Piece{}, false
	}
	return gb.store.Get(id)
}

func (gb *GameBuilder) PieceAt(pos int) (base.Piece, bool) {
	gb.mu.Lock()
	defer gb.mu.Unlock()
	if gb.store == nil {
		return base.Piece{}, false
	}
	return gb.store.PieceAt(pos)
}

func (gb *GameBuilder) Occupied(pos int) bool {
	gb.mu.Lock()
	defer gb.mu.Unlock()
	return gb.store != nil && gb.store.Occupied(pos)
}

func (gb *GameBuilder) Progress() (placed, correct, total int) {
	gb.mu.Lock()
	defer gb.mu.Unlock()
	if gb.store == nil {
		return 0, 0, 0
	}
	return gb.store.PlacedCount(), gb.store.CorrectCount(), gb.store.Len()
}

// Drag is the pointer state machine bound to this game. Its resolver is set
// by the front end once the board is laid out.
func (gb *GameBuilder) Drag() *drag.Controller {
	return gb.drag
}

// ---- internal, gb.mu held ----

func (gb *GameBuilder) resetLocked() {
	gb.store = pieces.Build(gb.tiles, pieces.WithRedrag(gb.allowRedrag))
	gb.store.Shuffle(gb.rng)
	gb.drag.Reset()
	gb.round++
	gb.status = base.Waiting
	gb.startedAt = time.Time{}
	gb.elapsedMs = 0
	gb.moves = 0
	gb.result = nil
	gb.rank = nil
}

func (gb *GameBuilder) startLocked() {
	if gb.status != base.Waiting {
		return
	}
	gb.startedAt = gb.clock.Now()
	gb.status = base.Playing
	gb.logger.Debug("timer started")
}

func (gb *GameBuilder) sampleLocked() {
	if gb.startedAt.IsZero() {
		return
	}
	ms := gb.clock.Now().Sub(gb.startedAt).Milliseconds()
	if ms < 0 {
		ms = 0
	}
	gb.elapsedMs = ms
}

func (gb *GameBuilder) finishLocked() {
	gb.sampleLocked()
	gb.status = base.Solved
	points := score.ForTier(gb.tier, gb.elapsedMs, gb.moves)
	gb.result = &Result{
		Tier:         gb.tier,
		ElapsedMs:    gb.elapsedMs,
		Moves:        gb.moves,
		Score:        points,
		Achievements: score.Achievements(gb.tier, gb.elapsedMs, gb.moves, points),
	}
	gb.logger.Infof("puzzle solved: tier=%s time=%s moves=%d score=%d",
		gb.tier.Name, score.FormatTime(gb.elapsedMs), gb.moves, points)
	gb.reportLocked(*gb.result)
}

func (gb *GameBuilder) reportLocked(res Result) {
	if gb.reporter == nil {
		return
	}
	if gb.puzzleID == "" {
		gb.logger.Debug("no puzzle id, score kept local")
		return
	}
	sub := remote.ScoreSubmission{
		PuzzleID:   gb.puzzleID,
		Difficulty: res.Tier.Name,
		ElapsedMs:  res.ElapsedMs,
		Moves:      res.Moves,
		Score:      res.Score,
		Player:     gb.player,
	}
	reporter, timeout, round := gb.reporter, gb.reportTimeout, gb.round
	log := gb.logger.With("puzzle", sub.PuzzleID, "difficulty", sub.Difficulty)
	gb.reports.Add(1)
	go func() {
		defer gb.reports.Done()
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		info, err := reporter.SubmitScore(ctx, sub)
		if err != nil {
			log.Warnf("error submit score: %v", err)
			return
		}
		log.Infof("score submitted: id=%s rank=%d", info.ScoreID, info.Rank)
		gb.mu.Lock()
		defer gb.mu.Unlock()
		if gb.round == round {
			gb.rank = &info
		}
	}()
}
