package dispatch

import (
	"net/http"
	"strings"
)

// Handler builds a response for a matched request. Returning an error, or
// panicking, discards whatever was written and produces the fault response;
// an error wrapping ErrNotFound produces the not found response instead.
type Handler func(w *Response, r *http.Request) error

// Matcher reports whether a route applies to a request method and path.
type Matcher func(method, path string) bool

// Route pairs a matcher with a handler. When Match is nil it is derived from
// Method and Pattern: an exact path match, or a prefix match when Prefix is set.
// An empty Method matches every method; GET also matches HEAD.
type Route struct {
	Name    string
	Method  string
	Pattern string
	Prefix  bool
	Match   Matcher
	Handler Handler
}

// Exact matches a single method and path.
func Exact(method, path string) Matcher {
	return func(m, p string) bool {
		return methodMatches(method, m) && p == path
	}
}

// PathPrefix matches a method and any path beginning with prefix.
func PathPrefix(method, prefix string) Matcher {
	return func(m, p string) bool {
		return methodMatches(method, m) && strings.HasPrefix(p, prefix)
	}
}

func methodMatches(want, got string) bool {
	switch {
	case want == "", want == got:
		return true
	case want == http.MethodGet && got == http.MethodHead:
		return true
	}
	return false
}

func (r Route) matcher() Matcher {
	if r.Match != nil {
		return r.Match
	}
	if r.Prefix {
		return PathPrefix(r.Method, r.Pattern)
	}
	return Exact(r.Method, r.Pattern)
}

func (r Route) name() string {
	if r.Name != "" {
		return r.Name
	}
	method := r.Method
	if method == "" {
		method = "*"
	}
	pattern := r.Pattern
	if r.Prefix {
		pattern += "*"
	}
	return method + " " + pattern
}

// shadows reports whether r makes other unreachable: both are exact routes
// with the same method and path.
func (r Route) shadows(other Route) bool {
	if r.Match != nil || other.Match != nil || r.Prefix || other.Prefix {
		return false
	}
	return r.Method == other.Method && r.Pattern == other.Pattern
}
