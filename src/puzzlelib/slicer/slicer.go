package slicer

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// PlaceholderSize is the edge of a fallback tile in pixels.
const PlaceholderSize = 100

// maxImageBytes bounds remote downloads.
const maxImageBytes = 32 << 20

// ImageLoadError reports a source that could not be fetched or decoded.
type ImageLoadError struct {
	Source string
	Err    error
}

func (e *ImageLoadError) Error() string {
	return fmt.Sprintf("load image %q: %v", e.Source, e.Err)
}

func (e *ImageLoadError) Unwrap() error {
	return e.Err
}

// Slice cuts img into rows*cols tiles in row-major order (index = row*cols+col).
// Tile boundaries are floor(col*W/cols) .. floor((col+1)*W/cols) on the natural
// size, so edge tiles absorb any remainder and no pixel is lost or shared.
func Slice(img image.Image, rows, cols int) ([]image.Image, error) {
	if img == nil {
		return nil, errors.New("slice: nil image")
	}
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("slice: invalid grid %dx%d", rows, cols)
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < cols || h < rows {
		return nil, fmt.Errorf("slice: image %dx%d too small for grid %dx%d", w, h, rows, cols)
	}

	tiles := make([]image.Image, 0, rows*cols)
	for row := 0; row < rows; row++ {
		y0 := b.Min.Y + row*h/rows
		y1 := b.Min.Y + (row+1)*h/rows
		for col := 0; col < cols; col++ {
			x0 := b.Min.X + col*w/cols
			x1 := b.Min.X + (col+1)*w/cols
			src := image.Rect(x0, y0, x1, y1)
			dst := image.NewRGBA(image.Rect(0, 0, src.Dx(), src.Dy()))
			draw.Draw(dst, dst.Bounds(), img, src.Min, draw.Src)
			tiles = append(tiles, dst)
		}
	}
	return tiles, nil
}

// TileRect returns the source rectangle Slice uses for index i.
func TileRect(bounds image.Rectangle, rows, cols, i int) image.Rectangle {
	w, h := bounds.Dx(), bounds.Dy()
	row, col := i/cols, i%cols
	return image.Rect(
		bounds.Min.X+col*w/cols,
		bounds.Min.Y+row*h/rows,
		bounds.Min.X+(col+1)*w/cols,
		bounds.Min.Y+(row+1)*h/rows,
	)
}

// Decode reads any registered format: png, jpeg, gif, bmp, tiff, webp.
func Decode(r io.Reader, source string) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, &ImageLoadError{Source: source, Err: err}
	}
	return img, nil
}

// Load fetches src from disk or over http(s) and decodes it.
func Load(ctx context.Context, src string) (image.Image, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return loadURL(ctx, src)
	}
	f, err := os.Open(src)
	if err != nil {
		return nil, &ImageLoadError{Source: src, Err: err}
	}
	defer f.Close()
	return Decode(f, src)
}

func loadURL(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &ImageLoadError{Source: url, Err: err}
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, &ImageLoadError{Source: url, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &ImageLoadError{Source: url, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
	return Decode(io.LimitReader(resp.Body, maxImageBytes), url)
}

// SliceSource loads and slices src. When the source cannot be loaded it still
// returns a full set of placeholder tiles together with the *ImageLoadError,
// so the caller can log and keep the session alive.
func SliceSource(ctx context.Context, src string, rows, cols int) ([]image.Image, error) {
	img, err := Load(ctx, src)
	if err != nil {
		return Placeholders(rows, cols, PlaceholderSize), err
	}
	tiles, err := Slice(img, rows, cols)
	if err != nil {
		return Placeholders(rows, cols, PlaceholderSize), &ImageLoadError{Source: src, Err: err}
	}
	return tiles, nil
}
