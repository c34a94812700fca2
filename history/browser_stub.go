//go:build !wasm
// +build !wasm

package history

import "github.com/vcrobe/nojs-history/location"

// Browser has no window outside WASM and returns a detached environment at
// the root path.
func Browser() Environment {
	return Detached(location.Parse("/"))
}
