package base

import (
	"fmt"
	"image"
)

// NoPosition marks a piece that sits in the tray, or a drag with no hovered zone.
const NoPosition int = -1

type PieceID string

// PieceIDFor derives the stable id of the tile cut at slicing index i.
func PieceIDFor(i int) PieceID {
	return PieceID(fmt.Sprintf("piece-%d", i))
}

// Piece is one tile of the picture. Current == NoPosition iff !Placed.
type Piece struct {
	ID      PieceID
	Image   image.Image
	Correct int
	Current int
	Placed  bool
}

func (p Piece) IsCorrect() bool {
	return p.Placed && p.Current == p.Correct
}

type GameStatus uint8

const (
	Waiting     GameStatus = 10 // pieces dealt, timer not started
	Playing     GameStatus = 11
	Solved      GameStatus = 12
	InvalidGame GameStatus = 88
)

func (gs GameStatus) String() string {
	switch gs {
	case Waiting:
		return "waiting"
	case Playing:
		return "playing"
	case Solved:
		return "solved"
	default:
		return "invalid"
	}
}

type Point struct {
	X float64
	Y float64
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// DragSession exists only while a pointer holds a piece.
type DragSession struct {
	PieceID   PieceID
	PointerID int
	Offset    Point // pointer minus the piece's visual origin at press time
	Ghost     Point // top-left of the ghost image
	Hovered   int   // drop zone under the pointer or NoPosition
	Origin    int   // cell the piece left, NoPosition when it came from the tray
}

// Puzzle is the catalogue entry served by the puzzle service.
type Puzzle struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Category     string   `json:"category,omitempty"`
	ImageURL     string   `json:"image_url"`
	Difficulties []string `json:"difficulty_available,omitempty"`
	Status       string   `json:"status,omitempty"` // published/draft, empty means published
	Featured     bool     `json:"is_featured,omitempty"`
}

// Published reports whether the puzzle is visible in the catalogue.
func (p Puzzle) Published() bool {
	return p.Status == "" || p.Status == "published"
}

// Supports reports whether the puzzle lists difficulty; an empty list allows all.
func (p Puzzle) Supports(difficulty string) bool {
	if len(p.Difficulties) == 0 {
		return true
	}
	for _, d := range p.Difficulties {
		if d == difficulty {
			return true
		}
	}
	return false
}
