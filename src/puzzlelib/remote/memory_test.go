package remote

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jigsaw/src/puzzlelib/base"
)

type fakeNow struct{ t time.Time }

func (f *fakeNow) now() time.Time { return f.t }

func seeded(clock *fakeNow) *Memory {
	m := NewMemory(WithClock(clock.now))
	m.AddPuzzle(base.Puzzle{ID: "p1", Title: "Sunset", ImageURL: "sunset.png"})
	m.AddPuzzle(base.Puzzle{ID: "p2", Title: "Harbor", ImageURL: "harbor.png"})
	return m
}

func TestMemoryPuzzles(t *testing.T) {
	clock := &fakeNow{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	m := seeded(clock)
	ctx := context.Background()

	p, err := m.FetchPuzzle(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, "Harbor", p.Title)

	_, err = m.FetchPuzzle(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []string{"p1", "p2"}, []string{m.Puzzles()[0].ID, m.Puzzles()[1].ID})

	m.SetPieces("p1", "easy", []string{"a", "b"})
	refs, err := m.FetchPieceImages(ctx, "p1", "easy")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, refs)

	_, err = m.FetchPieceImages(ctx, "p1", "hard")
	assert.ErrorIs(t, err, ErrUnsupportedLevel)
	_, err = m.FetchPieceImages(ctx, "zzz", "easy")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryAddImageReplacesLocalPuzzle(t *testing.T) {
	m := NewMemory()
	m.AddImage("/tmp/pics/cat.png")
	p := m.AddImage("/tmp/pics/dog.jpg")
	assert.Equal(t, LocalPuzzleID, p.ID)

	require.Len(t, m.Puzzles(), 1)
	got, err := m.FetchPuzzle(context.Background(), LocalPuzzleID)
	require.NoError(t, err)
	assert.Equal(t, "dog.jpg", got.Title)
	assert.Equal(t, "/tmp/pics/dog.jpg", got.ImageURL)
}

func TestMemorySubmitRecomputesScore(t *testing.T) {
	clock := &fakeNow{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	m := seeded(clock)

	info, err := m.SubmitScore(context.Background(), ScoreSubmission{
		PuzzleID: "p1", Difficulty: "easy", ElapsedMs: 25_000, Moves: 9, Score: 999_999,
	})
	require.NoError(t, err)
	assert.Equal(t, 10000-50-90, info.Score)
	assert.Equal(t, 1, info.Rank)
	assert.Equal(t, []string{"speed_demon", "perfect_easy"}, info.Achievements)
	assert.Equal(t, clock.t, info.CompletedAt.Time)

	_, err = m.SubmitScore(context.Background(), ScoreSubmission{PuzzleID: "nope", Difficulty: "easy"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemorySubmitChargesFractionalSeconds(t *testing.T) {
	m := seeded(&fakeNow{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)})

	info, err := m.SubmitScore(context.Background(), ScoreSubmission{
		PuzzleID: "p1", Difficulty: "easy", ElapsedMs: 30_900, Moves: 16,
	})
	require.NoError(t, err)
	// 30.9s costs 61 points, not 60
	assert.Equal(t, 10000-61-160, info.Score)
}

func TestMemoryLeaderboardOrderAndRank(t *testing.T) {
	clock := &fakeNow{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	m := seeded(clock)
	ctx := context.Background()

	submit := func(player string, ms int64, moves int) RankInfo {
		info, err := m.SubmitScore(ctx, ScoreSubmission{PuzzleID: "p1", Difficulty: "easy", ElapsedMs: ms, Moves: moves, Player: player})
		require.NoError(t, err)
		return info
	}
	submit("ann", 60_000, 20)      // 10000-120-200 = 9680
	submit("bob", 40_000, 10)      // 10000-80-100 = 9820
	submit("", 50_000, 6)          // 10000-100-60 = 9840
	cy := submit("cy", 40_999, 14) // 10000-81-140 = 9779
	assert.Equal(t, 3, cy.Rank)

	_, err := m.SubmitScore(ctx, ScoreSubmission{PuzzleID: "p2", Difficulty: "easy", ElapsedMs: 1000, Moves: 1, Player: "dan"})
	require.NoError(t, err)

	got, err := m.FetchLeaderboard(ctx, LeaderboardQuery{PuzzleID: "p1"})
	require.NoError(t, err)
	require.Len(t, got, 4)
	var names []string
	for i, e := range got {
		assert.Equal(t, i+1, e.Rank)
		assert.Equal(t, "Sunset", e.Puzzle.Title)
		names = append(names, e.User.Username)
	}
	assert.Equal(t, []string{"Guest", "bob", "cy", "ann"}, names)

	top, err := m.FetchLeaderboard(ctx, LeaderboardQuery{Limit: 2})
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "dan", top[0].User.Username)
}

func TestMemoryLeaderboardTieBreaksOnTime(t *testing.T) {
	clock := &fakeNow{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	m := seeded(clock)
	ctx := context.Background()

	// same score, slower time second
	_, err := m.SubmitScore(ctx, ScoreSubmission{PuzzleID: "p1", Difficulty: "easy", ElapsedMs: 45_400, Moves: 10, Player: "slow"})
	require.NoError(t, err)
	_, err = m.SubmitScore(ctx, ScoreSubmission{PuzzleID: "p1", Difficulty: "easy", ElapsedMs: 45_000, Moves: 10, Player: "fast"})
	require.NoError(t, err)

	got, err := m.FetchLeaderboard(ctx, LeaderboardQuery{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, got[0].Score, got[1].Score)
	assert.Equal(t, "fast", got[0].User.Username)
}

func TestMemoryLeaderboardTimeframe(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeNow{t: start}
	m := seeded(clock)
	ctx := context.Background()

	for _, p := range []string{"old", "month", "week", "today"} {
		_, err := m.SubmitScore(ctx, ScoreSubmission{PuzzleID: "p1", Difficulty: "easy", ElapsedMs: 30_000, Moves: 9, Player: p})
		require.NoError(t, err)
		switch p {
		case "old":
			clock.t = clock.t.Add(20 * 24 * time.Hour)
		case "month":
			clock.t = clock.t.Add(14 * 24 * time.Hour)
		case "week":
			clock.t = clock.t.Add(5 * 24 * time.Hour)
		}
	}
	clock.t = clock.t.Add(time.Hour)

	count := func(tf Timeframe) int {
		got, err := m.FetchLeaderboard(ctx, LeaderboardQuery{Timeframe: tf})
		require.NoError(t, err)
		return len(got)
	}
	assert.Equal(t, 4, count(AllTime))
	assert.Equal(t, 4, count(""))
	assert.Equal(t, 3, count(Monthly))
	assert.Equal(t, 2, count(Weekly))
	assert.Equal(t, 1, count(Daily))

	_, err := m.FetchLeaderboard(ctx, LeaderboardQuery{Timeframe: "yearly"})
	assert.ErrorIs(t, err, ErrBadTimeframe)
}

func TestParseTimeframe(t *testing.T) {
	tf, err := ParseTimeframe(" Weekly ")
	require.NoError(t, err)
	assert.Equal(t, Weekly, tf)
	tf, err = ParseTimeframe("")
	require.NoError(t, err)
	assert.Equal(t, AllTime, tf)
	_, err = ParseTimeframe("hourly")
	assert.ErrorIs(t, err, ErrBadTimeframe)
}

func TestSessionExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.False(t, Session{}.Expired(now))
	assert.False(t, Session{ExpiresAt: now.Add(time.Minute)}.Expired(now))
	assert.True(t, Session{ExpiresAt: now}.Expired(now))
}

func TestMemoryFetchPuzzlesFilters(t *testing.T) {
	m := NewMemory()
	m.AddPuzzle(base.Puzzle{ID: "p1", Title: "Sunset", Category: "Nature", Featured: true})
	m.AddPuzzle(base.Puzzle{ID: "p2", Title: "Harbor", Category: "City", Status: "published"})
	m.AddPuzzle(base.Puzzle{ID: "p3", Title: "Forest", Category: "nature", Status: "draft"})
	ctx := context.Background()

	ids := func(ps []base.Puzzle) []string {
		out := []string{}
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}

	ps, err := m.FetchPuzzles(ctx, PuzzleFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, ids(ps))

	ps, err = m.FetchPuzzles(ctx, PuzzleFilter{Category: "NATURE", Status: "all"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p3"}, ids(ps))

	ps, err = m.FetchPuzzles(ctx, PuzzleFilter{Status: "draft"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p3"}, ids(ps))

	notFeatured := false
	ps, err = m.FetchPuzzles(ctx, PuzzleFilter{Featured: &notFeatured})
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, ids(ps))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = m.FetchPuzzles(cancelled, PuzzleFilter{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocalPuzzle(t *testing.T) {
	ctx := context.Background()

	m := NewMemory()
	_, ok := LocalPuzzle(ctx, m, "")
	assert.False(t, ok)

	p, ok := LocalPuzzle(ctx, m, "/pics/cat.png")
	require.True(t, ok)
	assert.Equal(t, LocalPuzzleID, p.ID)
	assert.Equal(t, "/pics/cat.png", p.ImageURL)

	// an already hosted picture wins over a new one
	p, ok = LocalPuzzle(ctx, m, "/pics/dog.png")
	require.True(t, ok)
	assert.Equal(t, "/pics/cat.png", p.ImageURL)

	_, ok = LocalPuzzle(ctx, NewHTTPClient("http://example.invalid"), "/pics/cat.png")
	assert.False(t, ok)
}

func TestMemoryVerifyGatesPublish(t *testing.T) {
	clock := &fakeNow{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	admin := Credentials{Username: "admin@example.com", Password: "s3cret"}
	m := NewMemory(WithClock(clock.now), WithAdmin(admin, time.Hour))
	ctx := context.Background()
	p := base.Puzzle{ID: "p9", Title: "Lighthouse", ImageURL: "lh.png"}
	pieces := map[string][]string{"easy": {"a", "b", "c", "d"}}

	var auth Authenticator = m
	_, err := auth.Verify(ctx, Credentials{Username: admin.Username, Password: "wrong"})
	assert.ErrorIs(t, err, ErrAuth)
	assert.ErrorIs(t, m.PublishPuzzle(ctx, "forged", p, pieces), ErrAuth)
	assert.Empty(t, m.Puzzles())

	s, err := auth.Verify(ctx, admin)
	require.NoError(t, err)
	assert.NotEmpty(t, s.Token)
	assert.Equal(t, clock.t.Add(time.Hour), s.ExpiresAt)

	require.NoError(t, m.PublishPuzzle(ctx, s.Token, p, pieces))
	got, err := m.FetchPuzzle(ctx, "p9")
	require.NoError(t, err)
	assert.Equal(t, "Lighthouse", got.Title)
	refs, err := m.FetchPieceImages(ctx, "p9", "easy")
	require.NoError(t, err)
	assert.Len(t, refs, 4)

	clock.t = clock.t.Add(2 * time.Hour)
	assert.ErrorIs(t, m.PublishPuzzle(ctx, s.Token, p, pieces), ErrAuth)
}

func TestMemoryVerifyWithoutAdmin(t *testing.T) {
	_, err := NewMemory().Verify(context.Background(), Credentials{})
	assert.ErrorIs(t, err, ErrAuth)
}
