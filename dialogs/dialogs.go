//go:build js || wasm
// +build js wasm

package dialogs

import (
	"syscall/js"
)

// Confirm shows the browser's modal confirmation dialog and blocks until the
// user answers. It reports whether the user chose OK.
func Confirm(message string) bool {
	return js.Global().Call("confirm", message).Bool()
}

func Alert(msg string) {
	js.Global().Call("alert", msg)
}
