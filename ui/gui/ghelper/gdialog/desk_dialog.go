//go:build !js && !wasm
// +build !js,!wasm

package gdialog

import (
	"errors"
	"path/filepath"

	"github.com/sqweek/dialog"
)

type Result struct {
	Path string
	Name string
}

// OpenImage asks for a picture file; dialog.ErrCancelled when dismissed.
func OpenImage(title, startDir string) (Result, error) {
	b := dialog.File().Title(title).Filter("Images", "png", "jpg", "jpeg", "gif", "bmp", "tif", "tiff", "webp")
	if startDir != "" {
		b = b.SetStartDir(startDir)
	}
	path, err := b.Load()
	if err != nil {
		return Result{}, err
	}
	return Result{
		Path: path,
		Name: filepath.Base(path),
	}, nil
}

// Cancelled reports whether err means the user closed the dialog.
func Cancelled(err error) bool {
	return errors.Is(err, dialog.ErrCancelled)
}
