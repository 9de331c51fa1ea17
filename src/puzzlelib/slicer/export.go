package slicer

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

type Format string

const (
	JPEG Format = "jpeg"
	PNG  Format = "png"
)

func FormatFromString(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "jpg", "jpeg":
		return JPEG, nil
	case "png":
		return PNG, nil
	default:
	}
	return "", fmt.Errorf("unsupported tile format %q", s)
}

func (f Format) ext() string {
	if f == PNG {
		return ".png"
	}
	return ".jpg"
}

// Export writes tiles to dir as piece-<i>.<ext> and returns the paths in slicing order.
func Export(dir string, tiles []image.Image, format Format) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(tiles))
	for i, tile := range tiles {
		path := filepath.Join(dir, fmt.Sprintf("piece-%d%s", i, format.ext()))
		if err := writeTile(path, tile, format); err != nil {
			return paths, fmt.Errorf("export tile %d: %w", i, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeTile(path string, tile image.Image, format Format) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if format == PNG {
		return png.Encode(f, tile)
	}
	return jpeg.Encode(f, tile, &jpeg.Options{Quality: 90})
}
