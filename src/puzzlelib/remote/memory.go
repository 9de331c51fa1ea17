package remote

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"jigsaw/src/puzzlelib/base"
	"jigsaw/src/puzzlelib/grid"
	"jigsaw/src/puzzlelib/score"
)

type scoreRecord struct {
	id        string
	sub       ScoreSubmission
	points    int
	completed time.Time
}

// Memory is an in-process backend for offline play and tests. It recomputes
// the score from time and moves with score.ForTierExact instead of trusting
// the submitted value.
type Memory struct {
	mu      sync.RWMutex
	now     func() time.Time
	tiers   grid.Table
	puzzles map[string]base.Puzzle
	order   []string
	pieces  map[string][]string // "<puzzle>/<difficulty>" -> refs
	scores  []scoreRecord
	nextID  int

	admin    Credentials
	ttl      time.Duration
	sessions map[string]Session
}

type MemoryOption func(*Memory)

func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) { m.now = now }
}

func WithTiers(tb grid.Table) MemoryOption {
	return func(m *Memory) { m.tiers = tb }
}

// WithAdmin enables Verify for one admin account; sessions last ttl, or
// DefaultSessionTTL when ttl is not positive.
func WithAdmin(c Credentials, ttl time.Duration) MemoryOption {
	return func(m *Memory) {
		m.admin = c
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		now:      time.Now,
		tiers:    grid.Classic(),
		puzzles:  make(map[string]base.Puzzle),
		pieces:   make(map[string][]string),
		nextID:   1,
		ttl:      DefaultSessionTTL,
		sessions: make(map[string]Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddPuzzle registers or replaces a puzzle.
func (m *Memory) AddPuzzle(p base.Puzzle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.puzzles[p.ID]; !ok {
		m.order = append(m.order, p.ID)
	}
	m.puzzles[p.ID] = p
}

// Verify issues a session for the admin account set by WithAdmin. Without
// one every login fails.
func (m *Memory) Verify(ctx context.Context, c Credentials) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	if !m.admin.Match(c) {
		return Session{}, ErrAuth
	}
	token, err := newToken()
	if err != nil {
		return Session{}, fmt.Errorf("error issue token: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Session{Token: token, Username: c.Username, ExpiresAt: m.now().Add(m.ttl)}
	m.sessions[token] = s
	return s, nil
}

func (m *Memory) sessionLocked(token string) (Session, error) {
	s, ok := m.sessions[token]
	if !ok {
		return Session{}, ErrAuth
	}
	if s.Expired(m.now()) {
		delete(m.sessions, token)
		return Session{}, fmt.Errorf("%w: session expired", ErrAuth)
	}
	return s, nil
}

// PublishPuzzle adds or replaces a catalogue puzzle with its piece refs per
// difficulty. It needs a token from Verify.
func (m *Memory) PublishPuzzle(ctx context.Context, token string, p base.Puzzle, pieces map[string][]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.ID == "" {
		return errors.New("puzzle id is empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.sessionLocked(token); err != nil {
		return err
	}
	if _, ok := m.puzzles[p.ID]; !ok {
		m.order = append(m.order, p.ID)
	}
	m.puzzles[p.ID] = p
	for difficulty, refs := range pieces {
		m.pieces[p.ID+"/"+difficulty] = append([]string(nil), refs...)
	}
	return nil
}

// LocalPuzzleID is the id AddImage registers pictures under.
const LocalPuzzleID = "local"

// LocalCatalog is a backend that can host a picture from this machine as a
// playable puzzle.
type LocalCatalog interface {
	AddImage(src string) base.Puzzle
}

var _ LocalCatalog = (*Memory)(nil)

// LocalPuzzle returns the picture svc already hosts as LocalPuzzleID, or
// registers image there. It is false when svc cannot host local pictures or
// there is nothing to host.
func LocalPuzzle(ctx context.Context, svc Service, image string) (base.Puzzle, bool) {
	cat, ok := svc.(LocalCatalog)
	if !ok {
		return base.Puzzle{}, false
	}
	if p, err := svc.FetchPuzzle(ctx, LocalPuzzleID); err == nil {
		return p, true
	}
	if image == "" {
		return base.Puzzle{}, false
	}
	return cat.AddImage(image), true
}

// AddImage registers a picture file or URL as the local puzzle, replacing the
// previous one, so offline games are ranked like catalogue ones.
func (m *Memory) AddImage(src string) base.Puzzle {
	p := base.Puzzle{ID: LocalPuzzleID, Title: filepath.Base(src), ImageURL: src}
	m.AddPuzzle(p)
	return p
}

// SetPieces stores pre-sliced piece refs for one difficulty of a puzzle.
func (m *Memory) SetPieces(puzzleID, difficulty string, refs []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pieces[puzzleID+"/"+difficulty] = append([]string(nil), refs...)
}

// Puzzles lists puzzles in registration order.
func (m *Memory) Puzzles() []base.Puzzle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]base.Puzzle, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.puzzles[id])
	}
	return out
}

func (m *Memory) FetchPuzzles(ctx context.Context, f PuzzleFilter) ([]base.Puzzle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := []base.Puzzle{}
	for _, p := range m.Puzzles() {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *Memory) FetchPuzzle(ctx context.Context, id string) (base.Puzzle, error) {
	if err := ctx.Err(); err != nil {
		return base.Puzzle{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.puzzles[id]
	if !ok {
		return base.Puzzle{}, fmt.Errorf("puzzle %q: %w", id, ErrNotFound)
	}
	return p, nil
}

func (m *Memory) FetchPieceImages(ctx context.Context, puzzleID, difficulty string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.puzzles[puzzleID]; !ok {
		return nil, fmt.Errorf("puzzle %q: %w", puzzleID, ErrNotFound)
	}
	refs, ok := m.pieces[puzzleID+"/"+difficulty]
	if !ok {
		return nil, fmt.Errorf("puzzle %q difficulty %q: %w", puzzleID, difficulty, ErrUnsupportedLevel)
	}
	return append([]string(nil), refs...), nil
}

func (m *Memory) SubmitScore(ctx context.Context, s ScoreSubmission) (RankInfo, error) {
	if err := ctx.Err(); err != nil {
		return RankInfo{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.puzzles[s.PuzzleID]; !ok {
		return RankInfo{}, fmt.Errorf("puzzle %q: %w", s.PuzzleID, ErrNotFound)
	}

	tier, err := m.tiers.Lookup(s.Difficulty)
	if err != nil {
		tier = grid.Tier{Name: s.Difficulty, Multiplier: m.tiers.Multiplier(s.Difficulty)}
	}
	points := score.ForTierExact(tier, s.ElapsedMs, s.Moves)

	rec := scoreRecord{
		id:        fmt.Sprintf("score-%d", m.nextID),
		sub:       s,
		points:    points,
		completed: m.now().UTC(),
	}
	m.nextID++
	m.scores = append(m.scores, rec)

	ranked := m.rankedLocked(LeaderboardQuery{PuzzleID: s.PuzzleID, Difficulty: s.Difficulty, Timeframe: AllTime})
	rank := 0
	for i, r := range ranked {
		if r.id == rec.id {
			rank = i + 1
			break
		}
	}

	return RankInfo{
		ScoreID:      rec.id,
		Score:        points,
		Rank:         rank,
		Achievements: score.Achievements(tier, s.ElapsedMs, s.Moves, points),
		CompletedAt:  NewTimestamp(rec.completed),
	}, nil
}

func (m *Memory) FetchLeaderboard(ctx context.Context, q LeaderboardQuery) ([]LeaderboardEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := ParseTimeframe(string(q.Timeframe)); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	ranked := m.rankedLocked(q)
	if n := q.limit(); len(ranked) > n {
		ranked = ranked[:n]
	}
	out := make([]LeaderboardEntry, 0, len(ranked))
	for i, r := range ranked {
		title := "Unknown"
		if p, ok := m.puzzles[r.sub.PuzzleID]; ok {
			title = p.Title
		}
		user := r.sub.Player
		if user == "" {
			user = "Guest"
		}
		out = append(out, LeaderboardEntry{
			Rank:        i + 1,
			ScoreID:     r.id,
			User:        Player{Username: user},
			Puzzle:      PuzzleRef{Title: title},
			Score:       r.points,
			ElapsedMs:   r.sub.ElapsedMs,
			Moves:       r.sub.Moves,
			Difficulty:  r.sub.Difficulty,
			CompletedAt: NewTimestamp(r.completed),
		})
	}
	return out, nil
}

// rankedLocked filters by q and orders by score desc, then time asc, then
// submission order.
func (m *Memory) rankedLocked(q LeaderboardQuery) []scoreRecord {
	tf := q.Timeframe
	if tf == "" {
		tf = AllTime
	}
	since := tf.Since(m.now())

	out := make([]scoreRecord, 0, len(m.scores))
	for _, r := range m.scores {
		if q.PuzzleID != "" && r.sub.PuzzleID != q.PuzzleID {
			continue
		}
		if q.Difficulty != "" && r.sub.Difficulty != q.Difficulty {
			continue
		}
		if !since.IsZero() && r.completed.Before(since) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].points != out[j].points {
			return out[i].points > out[j].points
		}
		return out[i].sub.ElapsedMs < out[j].sub.ElapsedMs
	})
	return out
}
