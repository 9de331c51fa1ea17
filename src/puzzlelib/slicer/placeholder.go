package slicer

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
)

const (
	placeholderBg   = "#A89B8C"
	placeholderText = "#F5F1E8"
)

// Placeholders draws rows*cols labelled square tiles of the given edge.
func Placeholders(rows, cols, size int) []image.Image {
	if rows < 1 || cols < 1 {
		return nil
	}
	if size < 1 {
		size = PlaceholderSize
	}
	out := make([]image.Image, 0, rows*cols)
	for i := 0; i < rows*cols; i++ {
		out = append(out, placeholder(i, size))
	}
	return out
}

func placeholder(i, size int) image.Image {
	dc := gg.NewContext(size, size)
	dc.SetHexColor(placeholderBg)
	dc.Clear()
	dc.SetHexColor(placeholderText)
	dc.SetLineWidth(2)
	dc.DrawRectangle(1, 1, float64(size-2), float64(size-2))
	dc.Stroke()
	// default gg face is basicfont 7x13
	dc.DrawStringAnchored(fmt.Sprintf("Piece %d", i+1), float64(size)/2, float64(size)/2, 0.5, 0.5)
	return dc.Image()
}
