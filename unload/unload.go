// Package unload keeps the guards that may veto a navigation because it would
// discard unsaved state.
//
// Only the first enabled interceptor is ever asked. This is an "ask once"
// policy: a second enabled interceptor is not consulted even if the user
// agreed to leave the first.
package unload

import (
	"slices"
	"sync"

	"github.com/vcrobe/nojs-history/dialogs"
)

// Interceptor guards state that navigation would discard.
// Interceptors are compared by pointer.
type Interceptor struct {
	// Enabled reports whether there is something to lose right now.
	Enabled func() bool

	// Message is shown to the user when asking for confirmation.
	Message string

	// OnConfirm, if set, runs after the user agrees to leave.
	OnConfirm func()
}

func (i *Interceptor) enabled() bool {
	return i != nil && i.Enabled != nil && i.Enabled()
}

// ConfirmFunc asks the user whether to leave; true means leave anyway.
// It blocks until the user answers.
type ConfirmFunc func(message string) bool

// Registry is an ordered set of interceptors.
type Registry struct {
	mu           sync.Mutex
	interceptors []*Interceptor
	confirm      ConfirmFunc
}

// Option configures a Registry.
type Option func(*Registry)

// WithConfirm replaces the confirmation dialog.
func WithConfirm(fn ConfirmFunc) Option {
	return func(r *Registry) {
		if fn != nil {
			r.confirm = fn
		}
	}
}

// NewRegistry creates an empty registry. By default confirmation uses the
// browser's modal dialog.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{confirm: dialogs.Confirm}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register appends i. Registering the same pointer twice keeps one entry.
func (r *Registry) Register(i *Interceptor) {
	if i == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if slices.Contains(r.interceptors, i) {
		return
	}
	r.interceptors = append(r.interceptors, i)
}

// Unregister removes i if present.
func (r *Registry) Unregister(i *Interceptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interceptors = slices.DeleteFunc(r.interceptors, func(x *Interceptor) bool { return x == i })
}

// Clear removes every interceptor.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interceptors = nil
}

// Len returns the number of registered interceptors.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.interceptors)
}

func (r *Registry) snapshot() []*Interceptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.interceptors)
}

// ShouldPreventUnload asks the first enabled interceptor's question and
// reports whether navigation must be prevented. If the user agrees to leave,
// that interceptor's OnConfirm runs and the result is false. With no enabled
// interceptor the result is false.
//
// The registry lock is not held while callbacks run.
func (r *Registry) ShouldPreventUnload() bool {
	for _, i := range r.snapshot() {
		if !i.enabled() {
			continue
		}
		if !r.confirm(i.Message) {
			return true
		}
		if i.OnConfirm != nil {
			i.OnConfirm()
		}
		return false
	}
	return false
}

// Pending returns the message of the first enabled interceptor without asking
// anything. It backs the page-level beforeunload guard, where the browser
// shows its own dialog.
func (r *Registry) Pending() (message string, ok bool) {
	for _, i := range r.snapshot() {
		if i.enabled() {
			return i.Message, true
		}
	}
	return "", false
}
