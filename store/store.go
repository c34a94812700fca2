// Package store holds the current location state. LocationChanged is the only
// way to change it.
package store

import (
	"fmt"

	"github.com/vcrobe/nojs-history/location"
	"github.com/vcrobe/nojs-history/params"
	"github.com/vcrobe/nojs-history/signals"
)

// Transition describes an accepted navigation.
type Transition struct {
	Method   location.Method
	Location location.Location
	Initial  bool
}

// Store publishes the current location.View.
type Store struct {
	codec params.Codec
	view  *signals.Signal[location.View]
}

// New creates a store seeded with initial. The seed has no method and is
// marked Initial.
func New(codec params.Codec, initial location.Location) (*Store, error) {
	if codec == nil {
		codec = params.QueryCodec{}
	}
	view, err := decode(codec, Transition{Location: initial, Initial: true})
	if err != nil {
		return nil, err
	}
	return &Store{
		codec: codec,
		view:  signals.NewSignal(view),
	}, nil
}

func decode(codec params.Codec, t Transition) (location.View, error) {
	searchParams, err := codec.Decode(t.Location.Search, params.SearchDelimiter)
	if err != nil {
		return location.View{}, fmt.Errorf("store: decode search of %q: %w", t.Location.URL(), err)
	}
	hashParams, err := codec.Decode(t.Location.Hash, params.HashDelimiter)
	if err != nil {
		return location.View{}, fmt.Errorf("store: decode hash of %q: %w", t.Location.URL(), err)
	}
	return location.View{
		Location:     t.Location,
		SearchParams: searchParams,
		HashParams:   hashParams,
		Method:       t.Method,
		Initial:      t.Initial,
	}, nil
}

// LocationChanged decodes the transition's parameters and publishes the new
// view. Subscribers are notified once, after the view is readable. A decode
// failure leaves the store untouched.
func (s *Store) LocationChanged(t Transition) error {
	notify, err := s.Apply(t)
	if err != nil {
		return err
	}
	notify()
	return nil
}

// Apply is LocationChanged split in two: the view is replaced before Apply
// returns and subscribers run when notify is called. It lets a caller commit
// under its own lock and notify after releasing it, so subscribers can start
// a new navigation.
func (s *Store) Apply(t Transition) (notify func(), err error) {
	view, err := decode(s.codec, t)
	if err != nil {
		return nil, err
	}
	return s.view.Publish(view), nil
}

// View returns the current view.
func (s *Store) View() location.View {
	return s.view.Get()
}

// Location returns the current location.
func (s *Store) Location() location.Location {
	return s.view.Get().Location
}

// Method returns how the current location was reached.
func (s *Store) Method() location.Method {
	return s.view.Get().Method
}

// SearchParams returns a copy of the decoded search parameters.
func (s *Store) SearchParams() params.Values {
	return s.view.Get().SearchParams.Clone()
}

// HashParams returns a copy of the decoded hash parameters.
func (s *Store) HashParams() params.Values {
	return s.view.Get().HashParams.Clone()
}

// Subscribe calls fn after every accepted transition.
func (s *Store) Subscribe(fn func(location.View)) (unsubscribe func()) {
	return s.view.Subscribe(fn)
}
