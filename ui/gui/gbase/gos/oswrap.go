package gos

import "errors"

var ErrNotExist = errors.New("file does not exist (oswrap)")

// ReadFile(name) ([]byte, error)
// WriteFile(name, data) error
// Remove(name) error
// IsNotExist(err) bool
