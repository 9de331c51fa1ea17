//go:build js && wasm
// +build js,wasm

package gdialog

import "errors"

type Result struct {
	Path string
	Name string
}

// OpenImage is not available in the browser build; pictures come from the backend there.
func OpenImage(title, startDir string) (Result, error) {
	return Result{}, errors.ErrUnsupported
}

func Cancelled(err error) bool {
	return false
}
