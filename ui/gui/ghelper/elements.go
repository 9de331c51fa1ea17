package ghelper

import (
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font"

	"jigsaw/ui/gui/gbase"
)

// ---- UI ELEMENTS ----

// ---- Button ----

type Button struct {
	Label      string
	X, Y, W, H int
	Image      *ebiten.Image // pre-rendered rounded rect with stroke
	Disabled   bool

	// animation state
	Hover   bool // mouse over
	Pressed bool // mouse currently pressed on this button
	// animation variables
	Scale         float64 // current scale (1.0 default)
	TargetScale   float64
	OffsetY       float64 // current vertical offset for pressed effect
	TargetOffsetY float64
	AnimSpeed     float64 // how fast to approach target (per second)
}

func NewButton(label string, x, y, w, h int, theme gbase.Palette) *Button {
	return &Button{
		Label: label,
		X:     x, Y: y, W: w, H: h,
		Image: RenderRoundedRect(w, h, 12, theme.ButtonFill, theme.ButtonStroke, 3),
		Scale: 1.0, TargetScale: 1.0, AnimSpeed: 10.0,
	}
}

func (b *Button) Contains(px, py int) bool {
	return PointInRect(px, py, b.X, b.Y, b.W, b.H)
}

// Call every Update: pass pointer info, returns true if click finished on this button
func (b *Button) HandleInput(px, py int, justClicked, justReleased bool) bool {
	if b.Disabled {
		b.Hover, b.Pressed = false, false
		b.TargetScale, b.TargetOffsetY = 1.0, 0
		return false
	}
	inside := b.Contains(px, py)
	b.Hover = inside

	// pressed start only if pointer went down inside the button
	if justClicked && inside {
		b.Pressed = true
		b.TargetScale = 0.96
		b.TargetOffsetY = 3.0
	}
	if justReleased {
		if b.Pressed && inside {
			b.Pressed = false
			b.TargetScale = 1.03 // click bounce
			b.TargetOffsetY = 0
			return true
		}
		// released outside: cancel press
		b.Pressed = false
		b.TargetScale = 1.0
		b.TargetOffsetY = 0
	}
	if inside && !b.Pressed {
		b.TargetScale = 1.02
		b.TargetOffsetY = 0
	} else if !b.Pressed {
		b.TargetScale = 1.0
		b.TargetOffsetY = 0
	}
	return false
}

// Call every Update with dt seconds to approach the target values
func (b *Button) UpdateAnim(dt float64) {
	if b.AnimSpeed <= 0 {
		b.AnimSpeed = 8.0
	}
	approach := func(cur *float64, target float64, speed float64) {
		t := 1.0 - math.Exp(-speed*dt)
		*cur = *cur*(1.0-t) + target*t
	}

	approach(&b.Scale, b.TargetScale, b.AnimSpeed)
	approach(&b.OffsetY, b.TargetOffsetY, b.AnimSpeed)

	if !b.Pressed && math.Abs(b.Scale-1.03) < 0.005 {
		b.TargetScale = 1.0
	}
}

func (b *Button) DrawAnimated(screen *ebiten.Image, face font.Face, theme gbase.Palette) {
	if b.Image == nil {
		return
	}
	cx := float64(b.X + b.W/2)
	cy := float64(b.Y+b.H/2) + b.OffsetY

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-float64(b.Image.Bounds().Dx())/2, -float64(b.Image.Bounds().Dy())/2)
	op.GeoM.Scale(b.Scale, b.Scale)
	op.GeoM.Translate(cx, cy)
	op.Filter = ebiten.FilterLinear
	if b.Disabled {
		op.ColorScale.ScaleAlpha(0.45)
	}
	screen.DrawImage(b.Image, op)

	bounds := text.BoundString(face, b.Label)
	tx := int(cx) - bounds.Dx()/2
	ty := int(cy) + bounds.Dy()/2
	text.Draw(screen, b.Label, face, tx, ty, theme.ButtonText)
}

// ---- MessageBox ----

type imageRect struct{ X, Y, W, H int }

type MessageBox struct {
	Label string

	// state
	Open      bool
	Animating bool
	Scale     float64 // 0..1
	Opening   bool
	OnClose   func()

	lastModalRect imageRect
}

func NewMessageBox() *MessageBox {
	return &MessageBox{}
}

func (mb *MessageBox) ShowMessage(msg string, onClose func()) {
	mb.Label = msg
	mb.Open = true
	mb.Opening = true
	mb.Animating = true
	mb.Scale = 0.0
	mb.OnClose = onClose
}

func (mb *MessageBox) IsOverlayed() bool {
	return mb.Open || mb.Animating
}

func (mb *MessageBox) AnimateMessage() {
	const dt = 1.0 / 60.0
	const speed = 6.0
	if !mb.Animating {
		return
	}
	if mb.Opening {
		mb.Scale += speed * dt
		if mb.Scale >= 1.0 {
			mb.Scale = 1.0
			mb.Animating = false
		}
		return
	}
	mb.Scale -= speed * dt
	if mb.Scale <= 0.0 {
		mb.Scale = 0.0
		mb.Animating = false
		mb.Open = false
		if mb.OnClose != nil {
			mb.OnClose()
		}
	}
}

func (mb *MessageBox) CollapseMessage() {
	mb.Opening = false
	mb.Animating = true
}

// Update closes the box when the OK button is released on.
func (mb *MessageBox) Update(px, py int, justReleased bool) {
	if mb.Open && mb.Opening && justReleased {
		mb.CollapseMessageInRect(px, py)
	}
	mb.AnimateMessage()
}

// Check click OK
func (mb *MessageBox) CollapseMessageInRect(mx, my int) {
	r := mb.lastModalRect
	if r.W == 0 || r.H == 0 {
		return
	}
	okX, okY, okW, okH := okRect(r)
	if PointInRect(mx, my, okX, okY, okW, okH) {
		mb.CollapseMessage()
	}
}

func okRect(r imageRect) (x, y, w, h int) {
	w, h = 120, 44
	return r.X + (r.W-w)/2, r.Y + r.H - h - 20, w, h
}

func (mb *MessageBox) Draw(ctx *GUIGameContext, screen *ebiten.Image) {
	if !mb.IsOverlayed() {
		return
	}
	ww, wh := ctx.Config.WindowW, ctx.Config.WindowH
	EbitenutilDrawRect(screen, 0, 0, float64(ww), float64(wh), ctx.Theme.ModalBg)

	face := ctx.AssetsWorker.Fonts().Normal
	lines := strings.Split(mb.Label, "\n")
	lineH := face.Metrics().Height.Ceil() + 4
	textW := 240
	for _, l := range lines {
		if w := text.BoundString(face, l).Dx(); w > textW {
			textW = w
		}
	}
	mw := textW + 64
	mh := len(lines)*lineH + 40 + 64

	scale := math.Max(0, math.Min(1, mb.Scale))
	currW := max(int(float64(mw)*scale), 6)
	currH := max(int(float64(mh)*scale), 6)
	mx := (ww - currW) / 2
	my := (wh - currH) / 2
	mb.lastModalRect = imageRect{X: mx, Y: my, W: currW, H: currH}

	modalImg := RenderRoundedRect(currW, currH, 16, ctx.Theme.ButtonFill, ctx.Theme.ButtonStroke, 3)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(mx), float64(my))
	screen.DrawImage(modalImg, op)

	if scale < 0.85 {
		return
	}
	y := my + 20 + lineH
	for _, l := range lines {
		text.Draw(screen, l, face, mx+32, y, ctx.Theme.MenuText)
		y += lineH
	}
	okX, okY, okW, okH := okRect(mb.lastModalRect)
	okImg := RenderRoundedRect(okW, okH, 12, ctx.Theme.Accent, ctx.Theme.ButtonStroke, 3)
	op2 := &ebiten.DrawImageOptions{}
	op2.GeoM.Translate(float64(okX), float64(okY))
	screen.DrawImage(okImg, op2)
	b := text.BoundString(face, "OK")
	text.Draw(screen, "OK", face, okX+(okW-b.Dx())/2, okY+(okH+b.Dy())/2, color.White)
}
