package score

import (
	"fmt"
	"math"
	"time"

	"jigsaw/src/puzzlelib/grid"
)

const (
	Base           = 10000
	SecondPenalty  = 2
	MovePenalty    = 10
	HighScore      = 10000
	MasterScore    = 15000
	speedDemonSecs = 30
	quickSecs      = 60
)

// Seconds is the whole number of seconds in elapsedMs.
func Seconds(elapsedMs int64) int64 {
	if elapsedMs <= 0 {
		return 0
	}
	return elapsedMs / 1000
}

// Compute returns max(0, floor(Base*multiplier - seconds*2 - moves*10)).
// The result never increases with elapsed time or moves.
func Compute(multiplier float64, elapsedMs int64, moves int) int {
	if moves < 0 {
		moves = 0
	}
	raw := float64(Base)*multiplier - float64(Seconds(elapsedMs)*SecondPenalty) - float64(moves*MovePenalty)
	v := int(math.Floor(raw))
	if v < 0 {
		return 0
	}
	return v
}

// ForTier is Compute with the tier's multiplier.
func ForTier(t grid.Tier, elapsedMs int64, moves int) int {
	return Compute(t.Multiplier, elapsedMs, moves)
}

// ComputeExact charges the time penalty on fractional seconds, truncated
// once: the rule the score service applies when it re-scores a submission.
// It can be lower than Compute by one point.
func ComputeExact(multiplier float64, elapsedMs int64, moves int) int {
	if moves < 0 {
		moves = 0
	}
	if elapsedMs < 0 {
		elapsedMs = 0
	}
	timePenalty := math.Trunc(float64(elapsedMs) / 1000 * SecondPenalty)
	v := int(math.Trunc(float64(Base)*multiplier - timePenalty - float64(moves*MovePenalty)))
	if v < 0 {
		return 0
	}
	return v
}

func ForTierExact(t grid.Tier, elapsedMs int64, moves int) int {
	return ComputeExact(t.Multiplier, elapsedMs, moves)
}

// FormatTime renders elapsed milliseconds as MM:SS; minutes grow past 99.
func FormatTime(elapsedMs int64) string {
	secs := Seconds(elapsedMs)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// Duration converts milliseconds to a time.Duration.
func Duration(elapsedMs int64) time.Duration {
	return time.Duration(elapsedMs) * time.Millisecond
}
