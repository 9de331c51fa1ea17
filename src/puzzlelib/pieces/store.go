package pieces

import (
	"image"
	"math/rand/v2"

	"jigsaw/src/puzzlelib/base"
)

// Store owns the pieces of one session. Slice order is the tray display order;
// it never affects Correct/Current, so shuffling cannot change the outcome.
type Store struct {
	pieces      []base.Piece
	index       map[base.PieceID]int // id -> slot in pieces
	cells       []int                // position -> slot in pieces, -1 when empty
	allowRedrag bool
}

type Option func(*Store)

// WithRedrag lets an already placed piece move to another empty cell.
func WithRedrag(allow bool) Option {
	return func(s *Store) { s.allowRedrag = allow }
}

// Build wraps tiles into unplaced pieces; piece i belongs at position i.
func Build(tiles []image.Image, opts ...Option) *Store {
	s := &Store{
		pieces: make([]base.Piece, len(tiles)),
		index:  make(map[base.PieceID]int, len(tiles)),
		cells:  make([]int, len(tiles)),
	}
	for i, tile := range tiles {
		id := base.PieceIDFor(i)
		s.pieces[i] = base.Piece{
			ID:      id,
			Image:   tile,
			Correct: i,
			Current: base.NoPosition,
			Placed:  false,
		}
		s.index[id] = i
		s.cells[i] = -1
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Shuffle permutes the tray order with an unbiased Fisher–Yates pass.
func (s *Store) Shuffle(rng *rand.Rand) {
	for i := len(s.pieces) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		s.pieces[i], s.pieces[j] = s.pieces[j], s.pieces[i]
	}
	for slot, p := range s.pieces {
		s.index[p.ID] = slot
		if p.Placed {
			s.cells[p.Current] = slot
		}
	}
}

func (s *Store) Len() int { return len(s.pieces) }

func (s *Store) AllowRedrag() bool { return s.allowRedrag }

func (s *Store) Get(id base.PieceID) (base.Piece, bool) {
	slot, ok := s.index[id]
	if !ok {
		return base.Piece{}, false
	}
	return s.pieces[slot], true
}

func (s *Store) InRange(pos int) bool {
	return pos >= 0 && pos < len(s.cells)
}

func (s *Store) Occupied(pos int) bool {
	return s.InRange(pos) && s.cells[pos] >= 0
}

func (s *Store) PieceAt(pos int) (base.Piece, bool) {
	if !s.Occupied(pos) {
		return base.Piece{}, false
	}
	return s.pieces[s.cells[pos]], true
}

// Place puts id on pos. It is a silent no-op (false) when pos is outside the
// grid or taken, id is unknown, or the piece is placed and redrag is off.
func (s *Store) Place(id base.PieceID, pos int) bool {
	if !s.InRange(pos) || s.cells[pos] >= 0 {
		return false
	}
	slot, ok := s.index[id]
	if !ok {
		return false
	}
	p := &s.pieces[slot]
	if p.Placed {
		if !s.allowRedrag {
			return false
		}
		s.cells[p.Current] = -1
	}
	p.Current = pos
	p.Placed = true
	s.cells[pos] = slot
	return true
}

// Remove sends a placed piece back to the tray.
func (s *Store) Remove(id base.PieceID) bool {
	slot, ok := s.index[id]
	if !ok {
		return false
	}
	p := &s.pieces[slot]
	if !p.Placed {
		return false
	}
	s.cells[p.Current] = -1
	p.Current = base.NoPosition
	p.Placed = false
	return true
}

// All returns a copy of every piece in tray order.
func (s *Store) All() []base.Piece {
	out := make([]base.Piece, len(s.pieces))
	copy(out, s.pieces)
	return out
}

// Tray returns the unplaced pieces in display order.
func (s *Store) Tray() []base.Piece {
	out := make([]base.Piece, 0, len(s.pieces))
	for _, p := range s.pieces {
		if !p.Placed {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) PlacedCount() int {
	n := 0
	for _, p := range s.pieces {
		if p.Placed {
			n++
		}
	}
	return n
}

func (s *Store) CorrectCount() int {
	n := 0
	for _, p := range s.pieces {
		if p.IsCorrect() {
			n++
		}
	}
	return n
}

// Solved reports whether every piece sits on its own cell.
func (s *Store) Solved() bool {
	for _, p := range s.pieces {
		if !p.IsCorrect() {
			return false
		}
	}
	return true
}
