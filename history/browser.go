//go:build js || wasm
// +build js wasm

package history

import (
	"syscall/js"

	"github.com/vcrobe/nojs-history/console"
	"github.com/vcrobe/nojs-history/events"
	"github.com/vcrobe/nojs-history/location"
)

type browser struct {
	window js.Value
}

var (
	_ Environment = browser{}
	_ UnloadGuard = browser{}
)

// Browser returns the Environment backed by window.history and
// window.location.
func Browser() Environment {
	return browser{window: js.Global()}
}

func toJS(state State) any {
	n, ok := state.CountValue()
	if !ok {
		return nil
	}
	return map[string]any{"count": n}
}

func fromJS(v js.Value) State {
	if v.Type() != js.TypeObject {
		return State{}
	}
	count := v.Get("count")
	if count.Type() != js.TypeNumber {
		return State{}
	}
	return Tagged(count.Int())
}

func (b browser) history() js.Value {
	return b.window.Get("history")
}

func (b browser) PushState(state State, title, url string) {
	b.history().Call("pushState", toJS(state), title, url)
}

func (b browser) ReplaceState(state State, title, url string) {
	b.history().Call("replaceState", toJS(state), title, url)
}

func (b browser) Forward() {
	b.history().Call("forward")
}

func (b browser) Back() {
	b.history().Call("back")
}

func (b browser) Location() location.Location {
	loc := b.window.Get("location")
	return location.Location{
		Pathname: loc.Get("pathname").String(),
		Search:   loc.Get("search").String(),
		Hash:     loc.Get("hash").String(),
	}
}

func (b browser) State() State {
	return fromJS(b.history().Get("state"))
}

func (b browser) OnPop(fn func(State)) (release func()) {
	stop := events.Listen(b.window, "popstate", func(event js.Value) {
		state := State{}
		if event.Truthy() {
			state = fromJS(event.Get("state"))
		}
		fn(state)
	})
	console.Logger().Debug("[history.Browser] popstate listener registered")

	return func() {
		stop()
		console.Logger().Debug("[history.Browser] popstate listener released")
	}
}

func (b browser) GuardUnload(pending func() (string, bool)) (release func()) {
	return events.Listen(b.window, "beforeunload", func(event js.Value) {
		message, ok := pending()
		if !ok || !event.Truthy() {
			return
		}
		event.Call("preventDefault")
		event.Set("returnValue", message)
	})
}
