package history

import (
	"fmt"
	"slices"
	"sync"

	"github.com/vcrobe/nojs-history/location"
)

// Op is one recorded call on a Memory environment.
type Op struct {
	Kind  string // "pushState", "replaceState", "back", "forward", "go", "reload"
	URL   string
	State State
	Delta int
}

func (o Op) String() string {
	switch o.Kind {
	case "pushState", "replaceState":
		if n, ok := o.State.CountValue(); ok {
			return fmt.Sprintf("%s count=%d url=%s", o.Kind, n, o.URL)
		}
		return fmt.Sprintf("%s count=- url=%s", o.Kind, o.URL)
	case "go":
		return fmt.Sprintf("go delta=%d", o.Delta)
	default:
		return o.Kind
	}
}

type entry struct {
	loc   location.Location
	state State
}

type listener struct {
	id int
	fn func(State)
}

// Memory simulates a browser session-history stack.
//
// Traversals (Back, Forward, Go) move the current entry immediately but, like
// popstate in a browser, their events are only delivered by Settle.
type Memory struct {
	mu        sync.Mutex
	entries   []entry
	index     int
	listeners []listener
	nextID    int
	pending   []State
	ops       []Op
}

var _ Environment = (*Memory)(nil)

// NewMemory creates a stack holding a single untagged entry for initialURL.
func NewMemory(initialURL string) *Memory {
	return &Memory{
		entries: []entry{{loc: location.Parse(initialURL)}},
	}
}

// PushState drops every entry after the current one and appends a new entry.
func (m *Memory) PushState(state State, title, url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries[:m.index+1], entry{loc: location.Parse(url), state: state})
	m.index = len(m.entries) - 1
	m.ops = append(m.ops, Op{Kind: "pushState", URL: url, State: state})
}

// ReplaceState overwrites the current entry.
func (m *Memory) ReplaceState(state State, title, url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[m.index] = entry{loc: location.Parse(url), state: state}
	m.ops = append(m.ops, Op{Kind: "replaceState", URL: url, State: state})
}

// Back moves one entry back.
func (m *Memory) Back() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = append(m.ops, Op{Kind: "back"})
	m.traverse(-1)
}

// Forward moves one entry forward.
func (m *Memory) Forward() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = append(m.ops, Op{Kind: "forward"})
	m.traverse(1)
}

// Go moves delta entries. Out-of-range moves are ignored, as in browsers.
func (m *Memory) Go(delta int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = append(m.ops, Op{Kind: "go", Delta: delta})
	m.traverse(delta)
}

func (m *Memory) traverse(delta int) {
	target := m.index + delta
	if delta == 0 || target < 0 || target >= len(m.entries) {
		return
	}
	m.index = target
	m.pending = append(m.pending, m.entries[target].state)
}

// Settle delivers queued pop events, including any queued by listeners while
// settling, and returns how many were delivered. It stops after limit events
// so a listener that keeps traversing cannot loop forever.
func (m *Memory) Settle() int {
	const limit = 64
	delivered := 0
	for delivered < limit {
		m.mu.Lock()
		if len(m.pending) == 0 {
			m.mu.Unlock()
			break
		}
		state := m.pending[0]
		m.pending = m.pending[1:]
		listeners := slices.Clone(m.listeners)
		m.mu.Unlock()

		for _, l := range listeners {
			l.fn(state)
		}
		delivered++
	}
	return delivered
}

// Reload simulates a page reload: entries and their tags survive, listeners
// and undelivered events do not.
func (m *Memory) Reload() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = nil
	m.pending = nil
	m.ops = append(m.ops, Op{Kind: "reload"})
}

// Location implements Environment.
func (m *Memory) Location() location.Location {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[m.index].loc
}

// State implements Environment.
func (m *Memory) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[m.index].state
}

// OnPop implements Environment.
func (m *Memory) OnPop(fn func(State)) (release func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := m.nextID
	m.listeners = append(m.listeners, listener{id: id, fn: fn})

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.listeners = slices.DeleteFunc(m.listeners, func(l listener) bool { return l.id == id })
	}
}

// Ops returns the calls recorded so far.
func (m *Memory) Ops() []Op {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.ops)
}

// Index returns the position of the current entry.
func (m *Memory) Index() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index
}

// Len returns the number of entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Listeners returns the number of pop subscribers.
func (m *Memory) Listeners() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.listeners)
}
