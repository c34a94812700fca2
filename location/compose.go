package location

import (
	"fmt"

	"github.com/vcrobe/nojs-history/params"
)

// Composed is the result of Compose.
type Composed struct {
	URL string
	Location
	SearchParams params.Values
	HashParams   params.Values
}

// Option overrides the search or hash of a composed URL.
type Option func(*request)

type patch struct {
	raw    bool
	text   string
	values params.Values
}

type request struct {
	search []patch
	hash   []patch
}

// WithSearch merges v key by key into the search component. A nil value
// removes the key.
func WithSearch(v params.Values) Option {
	return func(r *request) { r.search = append(r.search, patch{values: v}) }
}

// WithRawSearch replaces the search component with s.
func WithRawSearch(s string) Option {
	return func(r *request) { r.search = append(r.search, patch{raw: true, text: s}) }
}

// WithHash merges v key by key into the hash component. A nil value removes
// the key.
func WithHash(v params.Values) Option {
	return func(r *request) { r.hash = append(r.hash, patch{values: v}) }
}

// WithRawHash replaces the hash component with s.
func WithRawHash(s string) Option {
	return func(r *request) { r.hash = append(r.hash, patch{raw: true, text: s}) }
}

// Compose builds the normalized URL for target with the given overrides
// applied in order. Explicit overrides win over the query and fragment
// embedded in target. Only codec failures are reported.
func Compose(codec params.Codec, target string, opts ...Option) (Composed, error) {
	if codec == nil {
		codec = params.QueryCodec{}
	}

	var req request
	for _, opt := range opts {
		opt(&req)
	}

	loc := Parse(target)

	var err error
	if loc.Search, err = applyPatches(codec, loc.Search, params.SearchDelimiter, req.search); err != nil {
		return Composed{}, err
	}
	if loc.Hash, err = applyPatches(codec, loc.Hash, params.HashDelimiter, req.hash); err != nil {
		return Composed{}, err
	}

	searchParams, err := codec.Decode(loc.Search, params.SearchDelimiter)
	if err != nil {
		return Composed{}, fmt.Errorf("location: decode search: %w", err)
	}
	hashParams, err := codec.Decode(loc.Hash, params.HashDelimiter)
	if err != nil {
		return Composed{}, fmt.Errorf("location: decode hash: %w", err)
	}

	return Composed{
		URL:          loc.URL(),
		Location:     loc,
		SearchParams: searchParams,
		HashParams:   hashParams,
	}, nil
}

func applyPatches(codec params.Codec, base string, delim byte, patches []patch) (string, error) {
	for _, p := range patches {
		if p.raw {
			base = normalizeComponent(p.text, delim)
			continue
		}

		merged, err := codec.Decode(base, delim)
		if err != nil {
			return "", fmt.Errorf("location: merge into %q: %w", base, err)
		}
		if merged == nil {
			merged = params.Values{}
		}
		for key, value := range p.values {
			if value == nil {
				delete(merged, key)
				continue
			}
			merged[key] = value
		}
		base = normalizeComponent(codec.Encode(merged, delim), delim)
	}
	return base, nil
}
