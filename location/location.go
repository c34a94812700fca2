// Package location models where the application currently is: the decomposed
// URL, the parameters decoded from it and how it was reached.
package location

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/vcrobe/nojs-history/params"
)

// Location is the decomposed form of an in-app URL.
// Search and Hash keep their leading '?' and '#' when non-empty.
type Location struct {
	Pathname string
	Search   string
	Hash     string
}

// URL returns Pathname + Search + Hash.
func (l Location) URL() string {
	return l.Pathname + l.Search + l.Hash
}

// Method records how the current location was reached.
type Method int

const (
	// MethodNone means no navigation has been recorded yet.
	MethodNone Method = iota
	MethodPush
	MethodReplace
	MethodPop
)

func (m Method) String() string {
	switch m {
	case MethodPush:
		return "PUSH"
	case MethodReplace:
		return "REPLACE"
	case MethodPop:
		return "POP"
	default:
		return ""
	}
}

// View is the read-only composition of a Location, its decoded parameters and
// the navigation method. The params maps must not be mutated.
type View struct {
	Location
	SearchParams params.Values
	HashParams   params.Values
	Method       Method

	// Initial is true for the location seeded at startup.
	Initial bool
}

// Parse splits target into a Location. It never fails: the fragment starts
// at the first '#', the query at the first '?' before it, and a scheme://host
// or //host prefix is dropped since navigation is always same-origin.
func Parse(target string) Location {
	rest := target
	var search, hash string
	if i := strings.IndexByte(rest, '#'); i >= 0 {
		rest, hash = rest[:i], rest[i:]
	}
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		rest, search = rest[:i], rest[i:]
	}

	return Location{
		Pathname: normalizePath(rest),
		Search:   normalizeComponent(search, params.SearchDelimiter),
		Hash:     normalizeComponent(hash, params.HashDelimiter),
	}
}

func normalizePath(p string) string {
	if i := strings.Index(p, "://"); i >= 0 && !strings.Contains(p[:i], "/") {
		p = p[i+len("://"):]
		if j := strings.IndexByte(p, '/'); j >= 0 {
			p = p[j:]
		} else {
			p = ""
		}
	} else if strings.HasPrefix(p, "//") {
		// Protocol-relative: drop the authority.
		p = strings.TrimLeft(p, "/")
		if j := strings.IndexByte(p, '/'); j >= 0 {
			p = p[j:]
		} else {
			p = ""
		}
	}
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	return norm.NFC.String(p)
}

// normalizeComponent makes s either empty or start with a single delim.
func normalizeComponent(s string, delim byte) string {
	s = strings.TrimPrefix(s, string(delim))
	if s == "" {
		return ""
	}
	return string(delim) + s
}
