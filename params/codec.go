// Package params encodes and decodes the query-string and fragment parameters
// carried by a location.
//
// A Codec is parameterized by the delimiter of the component it handles ('?'
// for the search, '#' for the hash) so that it can decide whether to prefix
// its output. QueryCodec is the default implementation and follows the
// application/x-www-form-urlencoded conventions browsers use.
package params

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Delimiters passed to a Codec.
const (
	SearchDelimiter byte = '?'
	HashDelimiter   byte = '#'
)

// Values holds decoded parameters keyed by name.
// Decoded values are string, or []string when a key repeats.
type Values map[string]any

// Clone returns a shallow copy of v. A nil map clones to an empty one.
func (v Values) Clone() Values {
	if v == nil {
		return Values{}
	}
	return maps.Clone(v)
}

// Codec converts between Values and their encoded string form.
type Codec interface {
	// Encode returns the encoded form of v, prefixed with delim when non-empty.
	Encode(v Values, delim byte) string

	// Decode parses s, which may or may not start with delim.
	Decode(s string, delim byte) (Values, error)
}

// DecodeError reports a parameter string that could not be decoded.
type DecodeError struct {
	Input string
	Delim byte
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("params: cannot decode %q (delimiter %q): %v", e.Input, e.Delim, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// QueryCodec is the default Codec.
// Keys are written in sorted order so that encoding is deterministic.
type QueryCodec struct{}

var _ Codec = QueryCodec{}

// Encode implements Codec.
func (QueryCodec) Encode(v Values, delim byte) string {
	if len(v) == 0 {
		return ""
	}

	var b strings.Builder
	for _, key := range slices.Sorted(maps.Keys(v)) {
		for _, s := range encodeValue(v[key]) {
			if b.Len() == 0 {
				b.WriteByte(delim)
			} else {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(key))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(s))
		}
	}
	return b.String()
}

// Decode implements Codec.
func (QueryCodec) Decode(s string, delim byte) (Values, error) {
	raw := strings.TrimPrefix(s, string(delim))
	out := Values{}
	if raw == "" {
		return out, nil
	}

	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, &DecodeError{Input: s, Delim: delim, Err: err}
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, &DecodeError{Input: s, Delim: delim, Err: err}
		}

		switch prev := out[key].(type) {
		case nil:
			out[key] = value
		case string:
			out[key] = []string{prev, value}
		case []string:
			out[key] = append(prev, value)
		}
	}
	return out, nil
}

// encodeValue flattens a parameter value into its string forms.
// nil yields nothing; slices yield one string per element.
func encodeValue(value any) []string {
	switch x := value.(type) {
	case nil:
		return nil
	case string:
		return []string{x}
	case []string:
		return x
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			out = append(out, encodeValue(e)...)
		}
		return out
	case bool:
		return []string{strconv.FormatBool(x)}
	case int:
		return []string{strconv.Itoa(x)}
	case int64:
		return []string{strconv.FormatInt(x, 10)}
	case uint64:
		return []string{strconv.FormatUint(x, 10)}
	case float64:
		return []string{strconv.FormatFloat(x, 'f', -1, 64)}
	case fmt.Stringer:
		return []string{x.String()}
	default:
		return []string{fmt.Sprint(x)}
	}
}
