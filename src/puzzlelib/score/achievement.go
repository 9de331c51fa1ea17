package score

import (
	"strings"

	"jigsaw/src/puzzlelib/grid"
)

type Achievement struct {
	ID          string
	Name        string
	Description string
	Points      int
}

var catalog = map[string]Achievement{
	"speed_demon":   {"speed_demon", "Speed Demon", "Complete a puzzle in under 30 seconds", 100},
	"quick_solver":  {"quick_solver", "Quick Solver", "Complete a puzzle in under 1 minute", 50},
	"expert_solver": {"expert_solver", "Expert Solver", "Complete an Expert puzzle", 200},
	"master_solver": {"master_solver", "Master Solver", "Complete a Master puzzle", 300},
	"high_scorer":   {"high_scorer", "High Scorer", "Achieve 10,000+ points", 100},
	"score_master":  {"score_master", "Score Master", "Achieve 15,000+ points", 200},
}

// perfect_<tier> points; tiers not listed earn 50.
var perfectPoints = map[string]int{"easy": 50, "medium": 100, "hard": 150}

// Lookup returns the catalog entry for id, including perfect_<tier> ids.
func Lookup(id string) (Achievement, bool) {
	if a, ok := catalog[id]; ok {
		return a, true
	}
	if name, ok := strings.CutPrefix(id, "perfect_"); ok && name != "" {
		pts, ok := perfectPoints[name]
		if !ok {
			pts = 50
		}
		label := strings.ToUpper(name[:1]) + name[1:]
		return Achievement{
			ID:          id,
			Name:        "Perfect " + label,
			Description: "Complete " + label + " puzzle with minimum moves",
			Points:      pts,
		}, true
	}
	return Achievement{}, false
}

// Achievements lists the ids earned by a finished game, in a fixed order:
// speed, efficiency, difficulty, score.
func Achievements(t grid.Tier, elapsedMs int64, moves, points int) []string {
	var out []string

	secs := float64(elapsedMs) / 1000
	switch {
	case secs < speedDemonSecs:
		out = append(out, "speed_demon")
	case secs < quickSecs:
		out = append(out, "quick_solver")
	}

	if t.Name != "expert" && t.Name != "master" && t.Pieces() > 0 && moves <= t.Pieces() {
		out = append(out, "perfect_"+t.Name)
	}

	switch t.Name {
	case "expert":
		out = append(out, "expert_solver")
	case "master":
		out = append(out, "master_solver")
	}

	if points >= HighScore {
		out = append(out, "high_scorer")
	}
	if points >= MasterScore {
		out = append(out, "score_master")
	}
	return out
}

// Points sums the catalog points of ids; unknown ids count zero.
func Points(ids []string) int {
	n := 0
	for _, id := range ids {
		if a, ok := Lookup(id); ok {
			n += a.Points
		}
	}
	return n
}
