//go:build js && wasm
// +build js,wasm

package gos

import (
	"errors"
	"syscall/js"
)

// files live in the page's localStorage under their name

func storage() js.Value {
	return js.Global().Get("localStorage")
}

func ReadFile(name string) ([]byte, error) {
	v := storage().Call("getItem", name)
	if v.IsNull() || v.IsUndefined() {
		return nil, ErrNotExist
	}
	return []byte(v.String()), nil
}

func WriteFile(name string, data []byte) error {
	storage().Call("setItem", name, string(data))
	return nil
}

func Remove(name string) error {
	storage().Call("removeItem", name)
	return nil
}

func IsNotExist(err error) bool {
	return errors.Is(err, ErrNotExist)
}
