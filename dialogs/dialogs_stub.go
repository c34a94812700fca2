//go:build !wasm
// +build !wasm

// Package dialogs wraps the browser's blocking modal dialogs.
package dialogs

// Confirm has no user to ask outside the browser and always declines.
func Confirm(message string) bool {
	return false
}

// Alert is a no-op in non-WASM builds.
func Alert(msg string) {}
