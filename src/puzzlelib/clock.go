package puzzlelib

import "time"

// Clock is the time source of a game; tests swap in a manual one.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }
