//go:build !wasm
// +build !wasm

package console

import (
	"io"
	"os"
)

// Native builds log to stderr.
func newWriter() io.Writer {
	return os.Stderr
}
