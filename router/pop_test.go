//go:build !wasm
// +build !wasm

package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcrobe/nojs-history/history"
	"github.com/vcrobe/nojs-history/location"
)

// popFixture is an engine over /, /a (count 1), /b (count 2) positioned on /b.
type popFixture struct {
	env         *history.Memory
	engine      *Engine
	guard       *guard
	transitions []location.View
}

func newPopFixture(t *testing.T) *popFixture {
	t.Helper()
	f := &popFixture{env: history.NewMemory("/"), guard: &guard{}}
	f.engine = newTestEngine(t, f.env, f.guard)
	require.NoError(t, f.engine.Push("/a"))
	require.NoError(t, f.engine.Push("/b"))
	f.engine.Subscribe(func(v location.View) { f.transitions = append(f.transitions, v) })
	return f
}

func (f *popFixture) count(t *testing.T) int {
	t.Helper()
	n, known := f.engine.HistoryStateCount()
	require.True(t, known)
	return n
}

func TestHandlePop_AcceptsWithoutInterceptor(t *testing.T) {
	f := newPopFixture(t)

	f.env.Back()
	f.env.Settle()

	require.Len(t, f.transitions, 1)
	assert.Equal(t, "/a", f.transitions[0].Pathname)
	assert.Equal(t, location.MethodPop, f.engine.Method())
	assert.Equal(t, 1, f.count(t), "the event count is adopted")
	assert.Zero(t, f.guard.asked)
}

func TestHandlePop_AcceptsUntaggedEntryKeepingCount(t *testing.T) {
	f := newPopFixture(t)

	f.env.Go(-2)
	f.env.Settle()

	require.Len(t, f.transitions, 1)
	assert.Equal(t, "/", f.engine.Location().Pathname)
	assert.Equal(t, 2, f.count(t), "a foreign entry leaves the counter alone")
}

func TestHandlePop_VetoedBackIsCorrectedForward(t *testing.T) {
	f := newPopFixture(t)
	f.guard.dirty = true

	f.env.Back()
	delivered := f.env.Settle()

	assert.Equal(t, 2, delivered, "one user pop and one corrective echo")
	assert.Equal(t, 1, f.guard.asked, "the echo must not ask again")
	assert.Equal(t, []string{
		"pushState count=1 url=/a",
		"pushState count=2 url=/b",
		"back",
		"forward",
	}, opStrings(f.env))

	require.Len(t, f.transitions, 1)
	assert.Equal(t, "/b", f.transitions[0].Pathname)
	assert.Equal(t, location.MethodPop, f.transitions[0].Method)
	assert.Equal(t, "/b", f.env.Location().Pathname)
	assert.Equal(t, 2, f.count(t))
}

func TestHandlePop_VetoedForwardIsCorrectedBack(t *testing.T) {
	f := newPopFixture(t)
	f.env.Back()
	f.env.Settle()
	require.Equal(t, 1, f.count(t))
	f.transitions = nil

	f.guard.dirty = true
	f.env.Forward()
	f.env.Settle()

	ops := opStrings(f.env)
	assert.Equal(t, []string{"forward", "back"}, ops[len(ops)-2:])
	require.Len(t, f.transitions, 1)
	assert.Equal(t, "/a", f.transitions[0].Pathname)
	assert.Equal(t, 1, f.count(t))
}

func TestHandlePop_VetoedMultiStepJumpSettlesOnEcho(t *testing.T) {
	f := newPopFixture(t)
	require.NoError(t, f.engine.Push("/c"))
	f.transitions = nil
	f.guard.dirty = true

	f.env.Go(-2)
	f.env.Settle()

	// The correction only moves one step; the echo lands on /b with count 2,
	// which matches the pre-set counter and is accepted.
	require.Len(t, f.transitions, 1)
	assert.Equal(t, "/b", f.engine.Location().Pathname)
	assert.Equal(t, 2, f.count(t))
}

func TestHandlePop_VetoWithUnknownDirectionLeavesStateAlone(t *testing.T) {
	env := history.NewMemory("/")
	g := &guard{}
	e := newTestEngine(t, env, g)
	require.NoError(t, e.Push("/a"))
	before := e.View()

	transitions := 0
	e.Subscribe(func(location.View) { transitions++ })
	g.dirty = true

	env.Back()
	env.Settle()

	assert.Equal(t, []string{"pushState count=1 url=/a", "back"}, opStrings(env), "no corrective navigation")
	assert.Equal(t, before, e.View())
	assert.Zero(t, transitions)
	assert.Equal(t, "/", env.Location().Pathname, "the browser is left where the user put it")
	count, _ := e.HistoryStateCount()
	assert.Equal(t, 1, count)
}

func TestHandlePop_AfterReloadCounterIsSeededFromEntry(t *testing.T) {
	env := history.NewMemory("/")
	first := newTestEngine(t, env, nil)
	require.NoError(t, first.Push("/a"))
	require.NoError(t, first.Push("/b"))

	env.Reload()
	first.Cleanup()
	g := &guard{dirty: true}
	e := newTestEngine(t, env, g)

	count, known := e.HistoryStateCount()
	require.True(t, known)
	assert.Equal(t, 2, count)
	assert.Equal(t, location.MethodNone, e.Method())

	env.Back()
	env.Settle()

	ops := opStrings(env)
	assert.Equal(t, "forward", ops[len(ops)-1])
	assert.Equal(t, "/b", e.Location().Pathname)
}

func TestHandlePop_AfterReloadOnUntaggedEntry(t *testing.T) {
	env := history.NewMemory("/")
	first := newTestEngine(t, env, nil)
	require.NoError(t, first.Push("/a"))
	env.Back()
	env.Settle()

	env.Reload()
	first.Cleanup()
	g := &guard{dirty: true}
	e := newTestEngine(t, env, g)
	_, known := e.HistoryStateCount()
	require.False(t, known)

	env.Forward()
	env.Settle()
	assert.Equal(t, "/", e.Location().Pathname, "vetoed without a direction: nothing accepted")

	g.dirty = false
	env.Back()
	env.Settle()
	env.Forward()
	env.Settle()
	assert.Equal(t, "/a", e.Location().Pathname)
	count, known := e.HistoryStateCount()
	assert.True(t, known)
	assert.Equal(t, 1, count)
}

func TestHandlePop_UserLeavesAdoptsCount(t *testing.T) {
	f := newPopFixture(t)
	f.guard.dirty = true
	f.guard.leave = true

	f.env.Back()
	f.env.Settle()

	assert.Equal(t, 1, f.guard.confirmed)
	assert.Equal(t, "/a", f.engine.Location().Pathname)
	assert.Equal(t, 1, f.count(t))
}

func TestHandlePop_DecodeFailurePropagates(t *testing.T) {
	env := history.NewMemory("/")
	e := newTestEngine(t, env, nil)
	env.PushState(history.Tagged(5), "", "/x?a=%zz")

	err := e.HandlePop(history.Tagged(5))

	require.Error(t, err)
	assert.Equal(t, "/", e.Location().Pathname)
	_, known := e.HistoryStateCount()
	assert.False(t, known, "a rejected pop does not adopt its count")
}

func TestHandlePop_VetoAcrossReplacedEntryAcceptsEcho(t *testing.T) {
	f := newPopFixture(t)
	// /b is rewritten with count 3 while /a keeps count 1.
	require.NoError(t, f.engine.Replace("/b", location.WithRawSearch("v=2")))
	f.transitions = nil
	f.guard.dirty = true

	f.env.Back()
	delivered := f.env.Settle()

	assert.Equal(t, 2, delivered)
	assert.Equal(t, 1, f.guard.asked, "the echo is accepted even though its count skips ahead")
	require.Len(t, f.transitions, 1)
	assert.Equal(t, "/b?v=2", f.transitions[0].URL())
	assert.Equal(t, 3, f.count(t), "the echo's own count is adopted")
}

func TestHandlePop_CorrectionWithoutEchoStillAsks(t *testing.T) {
	g := &guard{}
	e := newTestEngine(t, history.Detached(location.Parse("/")), g)
	require.NoError(t, e.Push("/y"))
	require.NoError(t, e.Push("/z"))
	g.dirty = true

	// Forward on a detached environment never produces a pop.
	require.NoError(t, e.HandlePop(history.Tagged(1)))
	require.NoError(t, e.HandlePop(history.Tagged(1)))

	assert.Equal(t, 2, g.asked)
	assert.Equal(t, "/z", e.Location().Pathname)
	assert.Equal(t, location.MethodPush, e.Method())
}

func TestHandlePop_QueuedTraversalsAreEachVetoed(t *testing.T) {
	f := newPopFixture(t)
	f.guard.dirty = true

	f.env.Back()
	f.env.Back()
	f.env.Settle()

	assert.Equal(t, "/b", f.env.Location().Pathname)
	assert.Equal(t, "/b", f.engine.Location().Pathname)
	for _, v := range f.transitions {
		assert.NotEqual(t, "/a", v.Pathname, "the user stayed")
	}
}

func TestHandlePop_PushClearsPendingEcho(t *testing.T) {
	g := &guard{}
	e := newTestEngine(t, history.Detached(location.Parse("/")), g)
	require.NoError(t, e.Push("/a"))
	require.NoError(t, e.Push("/b"))
	g.dirty = true
	require.NoError(t, e.HandlePop(history.Tagged(1)))

	g.dirty = false
	require.NoError(t, e.Push("/c"))
	g.dirty = true
	require.NoError(t, e.HandlePop(history.Tagged(2)))

	assert.Equal(t, 2, g.asked, "the stale expectation does not let the pop through")
	assert.Equal(t, "/c", e.Location().Pathname)
}
