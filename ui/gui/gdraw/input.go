package gdraw

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"jigsaw/src/puzzlelib/base"
)

// mousePointer is the pointer id of the left mouse button; touches use their TouchID.
const mousePointer = -1

type pointerKind int

const (
	pointerDown pointerKind = iota
	pointerMove
	pointerUp
)

type pointerEvent struct {
	kind pointerKind
	id   int
	at   base.Point
}

// pointerTracker turns mouse and touch state into press/move/release events.
type pointerTracker struct {
	prevMouseDown bool
	touchIDs      []ebiten.TouchID
}

func (pt *pointerTracker) Poll() []pointerEvent {
	var events []pointerEvent

	mx, my := ebiten.CursorPosition()
	at := base.Point{X: float64(mx), Y: float64(my)}
	mouseDown := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	switch {
	case mouseDown && !pt.prevMouseDown:
		events = append(events, pointerEvent{kind: pointerDown, id: mousePointer, at: at})
	case mouseDown:
		events = append(events, pointerEvent{kind: pointerMove, id: mousePointer, at: at})
	case pt.prevMouseDown:
		events = append(events, pointerEvent{kind: pointerUp, id: mousePointer, at: at})
	}
	pt.prevMouseDown = mouseDown

	pt.touchIDs = inpututil.AppendJustPressedTouchIDs(pt.touchIDs[:0])
	for _, id := range pt.touchIDs {
		x, y := ebiten.TouchPosition(id)
		events = append(events, pointerEvent{kind: pointerDown, id: int(id), at: base.Point{X: float64(x), Y: float64(y)}})
	}
	pt.touchIDs = ebiten.AppendTouchIDs(pt.touchIDs[:0])
	for _, id := range pt.touchIDs {
		if inpututil.TouchPressDuration(id) <= 1 {
			continue
		}
		x, y := ebiten.TouchPosition(id)
		events = append(events, pointerEvent{kind: pointerMove, id: int(id), at: base.Point{X: float64(x), Y: float64(y)}})
	}
	pt.touchIDs = inpututil.AppendJustReleasedTouchIDs(pt.touchIDs[:0])
	for _, id := range pt.touchIDs {
		x, y := inpututil.TouchPositionInPreviousTick(id)
		events = append(events, pointerEvent{kind: pointerUp, id: int(id), at: base.Point{X: float64(x), Y: float64(y)}})
	}
	return events
}

// clicks folds events into the button protocol: position of the last event,
// and whether any pointer went down or up this tick.
func clicks(events []pointerEvent) (x, y int, justPressed, justReleased bool) {
	mx, my := ebiten.CursorPosition()
	x, y = mx, my
	for _, e := range events {
		x, y = int(e.at.X), int(e.at.Y)
		switch e.kind {
		case pointerDown:
			justPressed = true
		case pointerUp:
			justReleased = true
		}
	}
	return x, y, justPressed, justReleased
}
