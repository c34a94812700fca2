//go:build js || wasm
// +build js wasm

// Package events attaches Go handlers to DOM events.
package events

import "syscall/js"

// Listen adds fn as a listener for the name event on target. The returned
// func removes the listener and releases the callback.
func Listen(target js.Value, name string, fn func(event js.Value)) (release func()) {
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		event := js.Undefined()
		if len(args) > 0 {
			event = args[0]
		}
		fn(event)
		return nil
	})
	target.Call("addEventListener", name, cb)

	return func() {
		target.Call("removeEventListener", name, cb)
		cb.Release()
	}
}

// AdaptNoArgEvent wraps handler as a listener that ignores its event.
func AdaptNoArgEvent(handler func()) func(js.Value) {
	return func(js.Value) { handler() }
}
