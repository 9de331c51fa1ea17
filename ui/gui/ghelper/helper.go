package ghelper

import (
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/hajimehoshi/ebiten/v2"
)

func RenderRoundedRect(w, h, radius int, fill color.RGBA, stroke color.RGBA, strokeW float64) *ebiten.Image {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	// anti-aliased through gg
	dc := gg.NewContext(w, h)
	dc.SetRGBA255(int(fill.R), int(fill.G), int(fill.B), int(fill.A))
	dc.DrawRoundedRectangle(0, 0, float64(w), float64(h), float64(radius))
	dc.FillPreserve()
	dc.SetRGBA255(int(stroke.R), int(stroke.G), int(stroke.B), int(stroke.A))
	dc.SetLineWidth(strokeW)
	dc.Stroke()
	return ebiten.NewImageFromImage(dc.Image())
}

func EbitenutilDrawRect(screen *ebiten.Image, x, y, w, h float64, c color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	px := ebiten.NewImage(1, 1)
	px.Fill(c)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	screen.DrawImage(px, op)
}

func PointInRect(px, py, rx, ry, rw, rh int) bool {
	return px >= rx && px < rx+rw && py >= ry && py < ry+rh
}

func EbitenutilDrawRectStroke(screen *ebiten.Image, x, y, w, h, thickness float64, col color.Color) {
	if screen == nil || w <= 0 || h <= 0 || thickness <= 0 {
		return
	}

	maxTh := math.Min(w, h) / 2.0
	if thickness > maxTh {
		thickness = maxTh
	}

	px := ebiten.NewImage(1, 1)
	px.Fill(col)

	edge := func(ex, ey, ew, eh float64) {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(ew, eh)
		op.GeoM.Translate(ex, ey)
		screen.DrawImage(px, op)
	}
	edge(x, y, w, thickness)                                   // up
	edge(x, y+h-thickness, w, thickness)                       // down
	edge(x, y+thickness, thickness, h-thickness*2)             // left
	edge(x+w-thickness, y+thickness, thickness, h-thickness*2) // right
}

// FitScale is the uniform scale that fits a srcW×srcH image into w×h.
func FitScale(srcW, srcH, w, h int) float64 {
	if srcW <= 0 || srcH <= 0 {
		return 1
	}
	return math.Min(float64(w)/float64(srcW), float64(h)/float64(srcH))
}
