//go:build !wasm
// +build !wasm

// Command demo is the browser demo of the history router. Native builds walk
// through the same pages on an in-memory history and print them.
package main

import (
	"fmt"
	"os"

	"github.com/vcrobe/nojs-history/console"
	"github.com/vcrobe/nojs-history/history"
	"github.com/vcrobe/nojs-history/router"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		console.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	env := history.NewMemory(cfg.InitialURL)
	render := func(title, body string) {
		fmt.Printf("== %s\n%s\n\n", title, body)
	}
	confirm := func(message string) bool {
		fmt.Printf("?? %s -> %t\n", message, cfg.ConfirmDefault)
		return cfg.ConfirmDefault
	}

	app, err := NewApp(env, confirm, render, router.WithTitle(cfg.Title))
	if err != nil {
		console.Error("failed to start router", "error", err)
		os.Exit(1)
	}
	defer app.Engine.Cleanup()
	console.Log("router started", "url", app.Engine.Location().URL())

	for _, target := range []string{"/blog/2026?tag=go", "/users/42/edit", "/nowhere"} {
		if err := app.Engine.Push(target); err != nil {
			console.Error("navigation failed", "target", target, "error", err)
		}
	}

	app.SetDirty(true)
	env.Back()
	env.Settle()
}
