//go:build !js && !wasm
// +build !js,!wasm

package gos

import (
	"errors"
	"os"
)

func ReadFile(name string) ([]byte, error) {
	data, err := os.ReadFile(name)
	if os.IsNotExist(err) {
		return nil, errors.Join(ErrNotExist, err)
	}
	return data, err
}

func WriteFile(name string, data []byte) error {
	return os.WriteFile(name, data, 0644)
}

// Remove treats a missing file as removed.
func Remove(name string) error {
	if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func IsNotExist(err error) bool {
	return errors.Is(err, ErrNotExist)
}
