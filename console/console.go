//go:build js || wasm
// +build js wasm

package console

import (
	"io"
	"strings"
	"syscall/js"
)

// jsWriter forwards each formatted record to the browser console.
type jsWriter struct{}

func (jsWriter) Write(p []byte) (int, error) {
	line := strings.TrimRight(string(p), "\n")
	method := "log"
	switch {
	case strings.Contains(line, "level=ERROR"):
		method = "error"
	case strings.Contains(line, "level=WARN"):
		method = "warn"
	}
	js.Global().Get("console").Call(method, line)
	return len(p), nil
}

func newWriter() io.Writer {
	return jsWriter{}
}
