package scenario

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/vcrobe/nojs-history/config"
	"github.com/vcrobe/nojs-history/console"
	"github.com/vcrobe/nojs-history/history"
	"github.com/vcrobe/nojs-history/location"
	"github.com/vcrobe/nojs-history/params"
	"github.com/vcrobe/nojs-history/router"
	"github.com/vcrobe/nojs-history/unload"
)

// GuardMessage is the question asked by the scenario's form interceptor.
const GuardMessage = "You have unsaved changes."

// Result is the outcome of a run.
type Result struct {
	Name   string   `json:"name"`
	Trace  []string `json:"trace"`
	URL    string   `json:"url"`
	Method string   `json:"method"`
	Count  *int     `json:"count"`
}

// Option configures Run.
type Option func(*runner)

// WithConfig applies cfg: its initial URL unless the scenario sets one, the
// history title and the user's default answer.
func WithConfig(cfg config.Config) Option {
	return func(r *runner) { r.cfg = cfg }
}

// WithLogger sets the router's logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *runner) { r.log = l }
}

type runner struct {
	cfg    config.Config
	log    *slog.Logger
	env    *tracingEnv
	engine *router.Engine
	dirty  bool
	leave  bool
	indent string
	trace  []string
}

// Run executes s against a fresh in-memory history stack. A form
// interceptor is registered on every boot; guard steps decide whether it is
// dirty and how the user answers.
func Run(s *Scenario, opts ...Option) (*Result, error) {
	r := &runner{cfg: config.Default(), log: console.Logger()}
	for _, opt := range opts {
		opt(r)
	}
	r.leave = r.cfg.ConfirmDefault

	initial := s.InitialURL
	if initial == "" {
		initial = r.cfg.InitialURL
	}
	r.env = &tracingEnv{Memory: history.NewMemory(initial), note: r.note}

	if err := r.boot(); err != nil {
		return nil, err
	}
	defer func() { r.engine.Cleanup() }()

	r.indent = "  "
	for i, step := range s.Steps {
		r.trace = append(r.trace, "> "+describe(step))
		if err := r.apply(step); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, step.Action, err)
		}
		r.env.Settle()
	}

	view := r.engine.View()
	count, known := r.engine.HistoryStateCount()
	res := &Result{
		Name:   s.Name,
		URL:    view.URL(),
		Method: methodName(view.Method),
	}
	if known {
		res.Count = &count
	}
	r.trace = append(r.trace, fmt.Sprintf("= %s %s count=%s", res.URL, res.Method, countString(count, known)))
	res.Trace = r.trace
	return res, nil
}

func (r *runner) note(format string, args ...any) {
	r.trace = append(r.trace, r.indent+fmt.Sprintf(format, args...))
}

// boot starts a router the way a freshly loaded page would.
func (r *runner) boot() error {
	reg := unload.NewRegistry(unload.WithConfirm(r.confirm))
	reg.Register(&unload.Interceptor{
		Enabled: func() bool { return r.dirty },
		Message: GuardMessage,
	})

	engine, err := router.NewEngine(r.env,
		router.WithRegistry(reg),
		router.WithLogger(r.log),
		router.WithTitle(r.cfg.Title),
	)
	if err != nil {
		return err
	}
	if err := engine.Start(context.Background()); err != nil {
		return err
	}
	engine.Subscribe(func(v location.View) {
		r.note("locationChanged %s %s", v.Method, v.URL())
	})

	r.engine = engine
	r.note("seeded %s count=%s", engine.Location().URL(), countString(engine.HistoryStateCount()))
	return nil
}

func (r *runner) confirm(message string) bool {
	answer := "stay"
	if r.leave {
		answer = "leave"
	}
	r.note("confirm %q -> %s", message, answer)
	return r.leave
}

func (r *runner) apply(step Step) error {
	switch step.Action {
	case ActionPush:
		return r.engine.Push(step.URL, composeOptions(step)...)
	case ActionReplace:
		return r.engine.Replace(step.URL, composeOptions(step)...)
	case ActionBack:
		r.env.Memory.Back()
	case ActionForward:
		r.env.Memory.Forward()
	case ActionGo:
		r.env.Memory.Go(step.Delta)
	case ActionReload:
		r.engine.Cleanup()
		r.env.Memory.Reload()
		return r.boot()
	case ActionGuard:
		r.dirty = step.Dirty
		if step.Leave != nil {
			r.leave = *step.Leave
		}
	case ActionClearInterceptors:
		r.engine.ClearUnloadInterceptors()
	default:
		return fmt.Errorf("unknown action %q", step.Action)
	}
	return nil
}

func composeOptions(step Step) []location.Option {
	var opts []location.Option
	if step.RawSearch != nil {
		opts = append(opts, location.WithRawSearch(*step.RawSearch))
	}
	if step.Search != nil {
		opts = append(opts, location.WithSearch(params.Values(step.Search)))
	}
	if step.RawHash != nil {
		opts = append(opts, location.WithRawHash(*step.RawHash))
	}
	if step.Hash != nil {
		opts = append(opts, location.WithHash(params.Values(step.Hash)))
	}
	return opts
}

func describe(step Step) string {
	switch step.Action {
	case ActionPush, ActionReplace:
		out := step.Action + " " + step.URL
		codec := params.QueryCodec{}
		if step.RawSearch != nil {
			out += fmt.Sprintf(" raw_search=%q", *step.RawSearch)
		}
		if step.Search != nil {
			out += " search=" + codec.Encode(params.Values(step.Search), params.SearchDelimiter)
		}
		if step.RawHash != nil {
			out += fmt.Sprintf(" raw_hash=%q", *step.RawHash)
		}
		if step.Hash != nil {
			out += " hash=" + codec.Encode(params.Values(step.Hash), params.HashDelimiter)
		}
		return out
	case ActionGo:
		return fmt.Sprintf("go %d", step.Delta)
	case ActionGuard:
		if step.Leave == nil {
			return fmt.Sprintf("guard dirty=%t", step.Dirty)
		}
		return fmt.Sprintf("guard dirty=%t leave=%t", step.Dirty, *step.Leave)
	default:
		return step.Action
	}
}

func methodName(m location.Method) string {
	if m == location.MethodNone {
		return "-"
	}
	return m.String()
}

func countString(n int, known bool) string {
	if !known {
		return "-"
	}
	return strconv.Itoa(n)
}

// tracingEnv records the router's calls on the history stack. User
// traversals go to the embedded Memory directly and are not recorded here.
type tracingEnv struct {
	*history.Memory
	note func(format string, args ...any)
}

func (t *tracingEnv) PushState(state history.State, title, url string) {
	t.note("%s", history.Op{Kind: "pushState", URL: url, State: state})
	t.Memory.PushState(state, title, url)
}

func (t *tracingEnv) ReplaceState(state history.State, title, url string) {
	t.note("%s", history.Op{Kind: "replaceState", URL: url, State: state})
	t.Memory.ReplaceState(state, title, url)
}

func (t *tracingEnv) Back() {
	t.note("back")
	t.Memory.Back()
}

func (t *tracingEnv) Forward() {
	t.note("forward")
	t.Memory.Forward()
}

func (t *tracingEnv) OnPop(fn func(history.State)) func() {
	return t.Memory.OnPop(func(s history.State) {
		t.note("popstate count=%s", countString(s.CountValue()))
		fn(s)
	})
}
