package router

import (
	"github.com/vcrobe/nojs-history/history"
	"github.com/vcrobe/nojs-history/location"
	"github.com/vcrobe/nojs-history/store"
)

func (e *Engine) onPop(state history.State) {
	if err := e.HandlePop(state); err != nil {
		e.log.Error("[Engine.onPop] pop event rejected", "error", err)
	}
}

// HandlePop reconciles a pop event carrying the new entry's state.
//
// A count equal to the in-memory one is accepted. So is the first pop after a
// corrective traversal when it carries the count of the entry the user
// left: after a Replace that entry may be more than one step from its
// neighbour. Any other count is drift: without a veto the count is adopted
// and the location accepted; with a veto the engine traverses back the way
// the user came, pre-setting the counter so the echo matches. When the
// direction cannot be known the veto only stops acceptance and the browser is
// left where the user put it.
func (e *Engine) HandlePop(state history.State) error {
	event, tagged := state.CountValue()
	current, known := e.counter.Get()

	e.mu.Lock()
	echo := e.echo != nil && tagged && event == *e.echo
	e.echo = nil
	e.mu.Unlock()

	if echo || (tagged && known && event == current) {
		return e.acceptPop(state)
	}

	if e.unload.ShouldPreventUnload() {
		if !tagged || !known {
			e.log.Warn("[Engine.HandlePop] vetoed pop with unknown direction, leaving location as is",
				"event_count_set", tagged, "count_known", known, "url", e.env.Location().URL())
			return nil
		}

		e.mu.Lock()
		backward := event < current
		if backward {
			e.counter.Set(event + 1)
		} else {
			e.counter.Set(event - 1)
		}
		e.echo = &current
		e.mu.Unlock()

		// Outside the lock: a synchronous environment re-enters HandlePop.
		if backward {
			e.log.Info("[Engine.HandlePop] vetoed back navigation, going forward", "event_count", event, "count", current)
			e.env.Forward()
		} else {
			e.log.Info("[Engine.HandlePop] vetoed forward navigation, going back", "event_count", event, "count", current)
			e.env.Back()
		}
		return nil
	}

	return e.acceptPop(state)
}

// acceptPop records the visible location as a POP transition and adopts the
// event's count, if any. A decode failure changes neither.
func (e *Engine) acceptPop(state history.State) error {
	e.mu.Lock()
	loc := e.env.Location()
	notify, err := e.store.Apply(store.Transition{Method: location.MethodPop, Location: loc})
	if err == nil {
		if event, tagged := state.CountValue(); tagged {
			e.counter.Set(event)
		}
	}
	e.mu.Unlock()

	if err != nil {
		return err
	}
	e.log.Debug("[Engine.acceptPop] accepted", "url", loc.URL())
	notify()
	return nil
}
