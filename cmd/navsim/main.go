//go:build !wasm
// +build !wasm

// Command navsim replays navigation scenarios against the router without a
// browser.
package main

import (
	"os"

	"github.com/vcrobe/nojs-history/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	os.Exit(cli.GetExitCode(err))
}
