package middleware

import (
	"net/http"
	"strings"
)

// TrimSlash redirects paths with a trailing slash to the same path without it,
// so "/about/" reaches the "/about" route. The root path is left alone, and so
// are paths under any of the keep prefixes.
func TrimSlash(keep ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if len(path) <= 1 || !strings.HasSuffix(path, "/") || hasAnyPrefix(path, keep) {
				next.ServeHTTP(w, r)
				return
			}

			// Leading slashes collapse so the Location is never protocol-relative.
			target := "/" + strings.Trim(path, "/")
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, target, http.StatusMovedPermanently)
		})
	}
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
