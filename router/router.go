// Package router keeps the application's location state in step with the
// session-history stack.
//
// Push and Replace turn navigation intents into history entries tagged with
// an increasing count. Pop events coming from the environment are checked
// against that count: a mismatch means the user traversed history, and if an
// unload interceptor vetoes, the engine walks the browser back to where it
// was. Every accepted navigation ends in exactly one store transition.
package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vcrobe/nojs-history/console"
	"github.com/vcrobe/nojs-history/history"
	"github.com/vcrobe/nojs-history/location"
	"github.com/vcrobe/nojs-history/params"
	"github.com/vcrobe/nojs-history/store"
	"github.com/vcrobe/nojs-history/unload"
)

// ErrAlreadyStarted is returned by Start on a running engine.
var ErrAlreadyStarted = errors.New("router: engine already started")

// Engine synchronizes navigation intents, pop events and the location store.
type Engine struct {
	mu       sync.Mutex
	env      history.Environment
	codec    params.Codec
	store    *store.Store
	counter  *history.Counter
	unload   *unload.Registry
	log      *slog.Logger
	title    string
	started  bool
	releases []func()
	stopCtx  func() bool

	// echo is the count a pending corrective traversal is expected to land
	// on, nil when none is pending.
	echo *int
}

// Option configures an Engine.
type Option func(*Engine)

// WithCodec sets the parameter codec. The default is params.QueryCodec.
func WithCodec(codec params.Codec) Option {
	return func(e *Engine) {
		if codec != nil {
			e.codec = codec
		}
	}
}

// WithRegistry shares an interceptor registry with the engine.
func WithRegistry(reg *unload.Registry) Option {
	return func(e *Engine) {
		if reg != nil {
			e.unload = reg
		}
	}
}

// WithLogger sets the logger. The default is console.Logger().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithTitle sets the title passed to pushState and replaceState.
func WithTitle(title string) Option {
	return func(e *Engine) { e.title = title }
}

// NewEngine creates an engine over env, seeding the store from the visible
// location and the counter from the current entry's tag. A nil env selects a
// detached environment at "/".
func NewEngine(env history.Environment, opts ...Option) (*Engine, error) {
	if env == nil {
		env = history.Detached(location.Parse("/"))
	}

	e := &Engine{
		env:     env,
		codec:   params.QueryCodec{},
		counter: history.NewCounter(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.unload == nil {
		e.unload = unload.NewRegistry()
	}
	if e.log == nil {
		e.log = console.Logger()
	}

	st, err := store.New(e.codec, env.Location())
	if err != nil {
		return nil, fmt.Errorf("router: seed location: %w", err)
	}
	e.store = st
	e.counter.Seed(env.State())

	count, known := e.counter.Get()
	e.log.Debug("[Engine.NewEngine] seeded", "url", env.Location().URL(), "count", count, "count_known", known)
	return e, nil
}

// Push navigates to target, adding a history entry.
func (e *Engine) Push(target string, opts ...location.Option) error {
	return e.navigate(location.MethodPush, target, opts)
}

// Replace navigates to target, overwriting the current history entry.
func (e *Engine) Replace(target string, opts ...location.Option) error {
	return e.navigate(location.MethodReplace, target, opts)
}

// navigate composes the URL, asks the interceptors and commits. A veto drops
// the intent without touching anything and is not an error.
func (e *Engine) navigate(method location.Method, target string, opts []location.Option) error {
	composed, err := location.Compose(e.codec, target, opts...)
	if err != nil {
		return fmt.Errorf("router: %s %q: %w", method, target, err)
	}

	if e.unload.ShouldPreventUnload() {
		e.log.Info("[Engine.navigate] cancelled by unload interceptor", "method", method.String(), "url", composed.URL)
		return nil
	}

	e.mu.Lock()
	e.echo = nil
	count := e.counter.Next()
	state := history.Tagged(count)
	if method == location.MethodReplace {
		e.env.ReplaceState(state, e.title, composed.URL)
	} else {
		e.env.PushState(state, e.title, composed.URL)
	}
	notify, err := e.store.Apply(store.Transition{Method: method, Location: composed.Location})
	e.mu.Unlock()

	if err != nil {
		return fmt.Errorf("router: %s %q: %w", method, target, err)
	}
	e.log.Debug("[Engine.navigate] committed", "method", method.String(), "url", composed.URL, "count", count)
	notify()
	return nil
}

// ClearUnloadInterceptors removes every registered interceptor.
func (e *Engine) ClearUnloadInterceptors() {
	e.unload.Clear()
}

// Interceptors returns the registry consulted before navigating.
func (e *Engine) Interceptors() *unload.Registry {
	return e.unload
}

// Start subscribes to pop events and, when the environment supports it,
// guards full page unloads with the interceptors. The subscriptions are
// released by Cleanup, or when ctx is done if ctx is not nil.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return ErrAlreadyStarted
	}
	e.started = true

	e.releases = append(e.releases, e.env.OnPop(e.onPop))
	if guard, ok := e.env.(history.UnloadGuard); ok {
		e.releases = append(e.releases, guard.GuardUnload(e.unload.Pending))
	}
	if ctx != nil {
		e.stopCtx = context.AfterFunc(ctx, e.Cleanup)
	}

	e.log.Debug("[Engine.Start] listening for pop events")
	return nil
}

// Cleanup releases what Start acquired. It is safe to call more than once.
func (e *Engine) Cleanup() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.started {
		return
	}
	for i := len(e.releases) - 1; i >= 0; i-- {
		e.releases[i]()
	}
	e.releases = nil
	e.started = false
	if e.stopCtx != nil {
		e.stopCtx()
		e.stopCtx = nil
	}
	e.log.Debug("[Engine.Cleanup] pop listener released")
}

// Started reports whether the engine is listening for pop events.
func (e *Engine) Started() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.started
}

// View returns the current location view.
func (e *Engine) View() location.View {
	return e.store.View()
}

// Location returns the current location.
func (e *Engine) Location() location.Location {
	return e.store.Location()
}

// Method returns how the current location was reached.
func (e *Engine) Method() location.Method {
	return e.store.Method()
}

// Params returns copies of the decoded search and hash parameters.
func (e *Engine) Params() (search, hash params.Values) {
	return e.store.SearchParams(), e.store.HashParams()
}

// HistoryStateCount returns the in-memory count and whether it is known.
func (e *Engine) HistoryStateCount() (int, bool) {
	return e.counter.Get()
}

// Subscribe calls fn after every accepted navigation, once the history stack
// already shows the new entry.
func (e *Engine) Subscribe(fn func(location.View)) (unsubscribe func()) {
	return e.store.Subscribe(fn)
}
