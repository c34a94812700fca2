//go:build js || wasm
// +build js wasm

package main

import (
	"syscall/js"

	"github.com/vcrobe/nojs-history/console"
	"github.com/vcrobe/nojs-history/dialogs"
	"github.com/vcrobe/nojs-history/events"
	"github.com/vcrobe/nojs-history/history"
	"github.com/vcrobe/nojs-history/router"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		dialogs.Alert("Error loading config: " + err.Error())
		return
	}

	doc := js.Global().Get("document")
	render := func(title, body string) {
		doc.Set("title", title)
		if el := doc.Call("querySelector", "#app"); el.Truthy() {
			el.Set("textContent", body)
		}
	}

	app, err := NewApp(history.Browser(), nil, render, router.WithTitle(cfg.Title))
	if err != nil {
		dialogs.Alert("Error starting router: " + err.Error())
		return
	}

	console.Log("router started", "url", app.Engine.Location().URL())

	// Links marked data-nav go through the router instead of reloading.
	events.Listen(doc, "click", func(event js.Value) {
		link := event.Get("target").Call("closest", "a[data-nav]")
		if !link.Truthy() {
			return
		}
		event.Call("preventDefault")
		if err := app.Engine.Push(link.Call("getAttribute", "href").String()); err != nil {
			console.Error("navigation failed", "error", err)
		}
	})
	events.Listen(doc, "input", events.AdaptNoArgEvent(func() { app.SetDirty(true) }))

	// Keep the Go program running
	select {}
}
