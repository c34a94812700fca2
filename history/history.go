// Package history abstracts the browser's session-history stack so the router
// can run against the real browser, an in-memory simulator or nothing at all.
package history

import (
	"github.com/vcrobe/nojs-history/location"
)

// State is the tag stored in every history entry written by the router.
// Count is nil for entries the router did not create, such as the landing
// entry or entries written by other code.
type State struct {
	Count *int
}

// Tagged returns a State carrying n.
func Tagged(n int) State {
	return State{Count: &n}
}

// CountValue returns the count and whether it is set.
func (s State) CountValue() (int, bool) {
	if s.Count == nil {
		return 0, false
	}
	return *s.Count, true
}

// Environment is the session-history surface the router drives.
type Environment interface {
	PushState(state State, title, url string)
	ReplaceState(state State, title, url string)
	Forward()
	Back()

	// Location returns the currently visible location.
	Location() location.Location

	// State returns the tag of the current entry.
	State() State

	// OnPop calls fn whenever the visible entry changes for a reason other
	// than PushState/ReplaceState. The returned release func unsubscribes.
	OnPop(fn func(State)) (release func())
}

// UnloadGuard is implemented by environments that can intercept a full page
// unload (closing the tab, reloading, following an external link).
// pending reports whether unloading should be challenged and with which
// message.
type UnloadGuard interface {
	GuardUnload(pending func() (message string, ok bool)) (release func())
}

type detached struct {
	loc location.Location
}

// Detached returns an Environment with no real history behind it.
// Mutations are ignored, Location always returns initial and OnPop never
// fires.
func Detached(initial location.Location) Environment {
	return detached{loc: initial}
}

func (detached) PushState(State, string, string)    {}
func (detached) ReplaceState(State, string, string) {}
func (detached) Forward()                           {}
func (detached) Back()                              {}

func (d detached) Location() location.Location { return d.loc }
func (detached) State() State                  { return State{} }

func (detached) OnPop(func(State)) func() { return func() {} }
