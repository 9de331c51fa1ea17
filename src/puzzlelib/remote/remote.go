package remote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jigsaw/src/puzzlelib/base"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrBadTimeframe     = errors.New("unknown leaderboard timeframe")
	ErrUnsupportedLevel = errors.New("difficulty not available for this puzzle")
)

// Service is what the game needs from the puzzle and score backend.
type Service interface {
	FetchPuzzles(ctx context.Context, f PuzzleFilter) ([]base.Puzzle, error)
	FetchPuzzle(ctx context.Context, id string) (base.Puzzle, error)
	FetchPieceImages(ctx context.Context, puzzleID, difficulty string) ([]string, error)
	SubmitScore(ctx context.Context, s ScoreSubmission) (RankInfo, error)
	FetchLeaderboard(ctx context.Context, q LeaderboardQuery) ([]LeaderboardEntry, error)
}

// PuzzleFilter narrows the catalogue. An empty Status means published only;
// Featured nil means either.
type PuzzleFilter struct {
	Category string
	Status   string
	Featured *bool
}

func (f PuzzleFilter) Match(p base.Puzzle) bool {
	if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	switch f.Status {
	case "", "published":
		if !p.Published() {
			return false
		}
	case "all":
	default:
		if p.Status != f.Status {
			return false
		}
	}
	return f.Featured == nil || *f.Featured == p.Featured
}

// Categories lists the distinct categories of ps in first-seen order.
func Categories(ps []base.Puzzle) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range ps {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	return out
}

// NetworkError is any failed exchange with the backend. Status is 0 when the
// request never got a response.
type NetworkError struct {
	Op     string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("remote %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("remote %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

type ScoreSubmission struct {
	PuzzleID   string `json:"puzzle_id"`
	Difficulty string `json:"difficulty"`
	ElapsedMs  int64  `json:"completion_time"`
	Moves      int    `json:"moves"`
	Score      int    `json:"score"`
	Player     string `json:"username,omitempty"`
}

// RankInfo is the backend's answer to a submission. Score is the value the
// backend recorded, which it may recompute.
type RankInfo struct {
	ScoreID      string    `json:"id"`
	Score        int       `json:"score"`
	Rank         int       `json:"rank,omitempty"`
	Achievements []string  `json:"achievements,omitempty"`
	CompletedAt  Timestamp `json:"completed_at"`
}

type Timeframe string

const (
	Daily   Timeframe = "daily"
	Weekly  Timeframe = "weekly"
	Monthly Timeframe = "monthly"
	AllTime Timeframe = "all-time"
)

func ParseTimeframe(s string) (Timeframe, error) {
	switch tf := Timeframe(strings.ToLower(strings.TrimSpace(s))); tf {
	case "":
		return AllTime, nil
	case Daily, Weekly, Monthly, AllTime:
		return tf, nil
	default:
	}
	return "", fmt.Errorf("%w: %q", ErrBadTimeframe, s)
}

// Since is the oldest completion time the timeframe admits; zero for all-time.
func (tf Timeframe) Since(now time.Time) time.Time {
	switch tf {
	case Daily:
		return now.Add(-24 * time.Hour)
	case Weekly:
		return now.Add(-7 * 24 * time.Hour)
	case Monthly:
		return now.Add(-30 * 24 * time.Hour)
	default:
	}
	return time.Time{}
}

const DefaultLimit = 100

type LeaderboardQuery struct {
	PuzzleID   string
	Difficulty string
	Timeframe  Timeframe
	Limit      int
}

func (q LeaderboardQuery) limit() int {
	if q.Limit <= 0 {
		return DefaultLimit
	}
	return q.Limit
}

type Player struct {
	Username string `json:"username"`
}

type PuzzleRef struct {
	Title string `json:"title"`
}

type LeaderboardEntry struct {
	Rank        int       `json:"rank"`
	ScoreID     string    `json:"score_id"`
	User        Player    `json:"user"`
	Puzzle      PuzzleRef `json:"puzzle"`
	Score       int       `json:"score"`
	ElapsedMs   int64     `json:"completion_time"`
	Moves       int       `json:"moves"`
	Difficulty  string    `json:"difficulty"`
	CompletedAt Timestamp `json:"completed_at"`
}
