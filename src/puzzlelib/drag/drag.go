package drag

import (
	"jigsaw/src/puzzlelib/base"
)

// DropZoneResolver maps a pointer position to a grid cell. Implementations hit
// test with the ghost hidden, so the dragged piece can never be its own target.
type DropZoneResolver interface {
	DropZoneAt(p base.Point) (pos int, ok bool)
}

// Placer applies a drop. The game state implements it.
type Placer interface {
	PlacePiece(id base.PieceID, pos int) bool
}

// Occupancy reports cells that already hold a piece.
type Occupancy interface {
	Occupied(pos int) bool
}

type Outcome uint8

const (
	Ignored  Outcome = iota // no session for this pointer
	Returned                // session ended, piece went back where it was
	Placed                  // session ended with a successful placement
)

func (o Outcome) String() string {
	switch o {
	case Returned:
		return "returned"
	case Placed:
		return "placed"
	default:
	}
	return "ignored"
}

type Option func(*Controller)

// WithRedrag enables board-drag mode: placed pieces may be picked up again.
func WithRedrag(allow bool) Option {
	return func(c *Controller) { c.allowRedrag = allow }
}

// Controller is a two-state machine (Idle, Dragging). A session exists only
// between an accepted pointer-down and the matching up or cancel; events from
// any other pointer are ignored while it lasts.
type Controller struct {
	resolver    DropZoneResolver
	placer      Placer
	occupancy   Occupancy
	allowRedrag bool
	session     *base.DragSession
}

func NewController(resolver DropZoneResolver, placer Placer, occupancy Occupancy, opts ...Option) *Controller {
	c := &Controller{resolver: resolver, placer: placer, occupancy: occupancy}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetResolver swaps the hit tester, e.g. after the board is laid out again.
func (c *Controller) SetResolver(r DropZoneResolver) {
	c.resolver = r
}

func (c *Controller) AllowRedrag() bool { return c.allowRedrag }

func (c *Controller) Dragging() bool { return c.session != nil }

func (c *Controller) Session() (base.DragSession, bool) {
	if c.session == nil {
		return base.DragSession{}, false
	}
	return *c.session, true
}

// PointerDown starts a drag of piece; origin is the top-left of the piece as
// drawn. Rejected while another drag is active or when the piece is placed and
// board-drag is off.
func (c *Controller) PointerDown(pointerID int, piece base.Piece, pointer, origin base.Point) bool {
	if c.session != nil {
		return false
	}
	if piece.Placed && !c.allowRedrag {
		return false
	}
	offset := pointer.Sub(origin)
	c.session = &base.DragSession{
		PieceID:   piece.ID,
		PointerID: pointerID,
		Offset:    offset,
		Ghost:     pointer.Sub(offset),
		Hovered:   base.NoPosition,
		Origin:    piece.Current,
	}
	return true
}

// PointerMove moves the ghost and refreshes the hovered drop zone.
func (c *Controller) PointerMove(pointerID int, pointer base.Point) bool {
	if !c.captured(pointerID) {
		return false
	}
	c.session.Ghost = pointer.Sub(c.session.Offset)
	c.session.Hovered = c.resolve(pointer)
	return true
}

// PointerUp ends the session, placing the piece when the pointer is over a free cell.
func (c *Controller) PointerUp(pointerID int, pointer base.Point) Outcome {
	if !c.captured(pointerID) {
		return Ignored
	}
	s := *c.session
	c.session = nil

	pos := c.resolve(pointer)
	if pos == base.NoPosition {
		return Returned
	}
	if c.occupancy != nil && c.occupancy.Occupied(pos) {
		return Returned
	}
	if c.placer == nil || !c.placer.PlacePiece(s.PieceID, pos) {
		return Returned
	}
	return Placed
}

// PointerCancel behaves like a release over no drop zone.
func (c *Controller) PointerCancel(pointerID int) Outcome {
	if !c.captured(pointerID) {
		return Ignored
	}
	c.session = nil
	return Returned
}

// Reset drops any session without touching the pieces.
func (c *Controller) Reset() {
	c.session = nil
}

func (c *Controller) captured(pointerID int) bool {
	return c.session != nil && c.session.PointerID == pointerID
}

func (c *Controller) resolve(pointer base.Point) int {
	if c.resolver == nil {
		return base.NoPosition
	}
	pos, ok := c.resolver.DropZoneAt(pointer)
	if !ok {
		return base.NoPosition
	}
	return pos
}
