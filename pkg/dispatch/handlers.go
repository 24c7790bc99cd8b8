package dispatch

import "net/http"

// NotFound is the default handler for unmatched requests.
func NotFound(w *Response, r *http.Request) error {
	return w.Text(http.StatusNotFound, NotFoundBody)
}

// Text returns a handler that always responds with a text/plain body.
func Text(status int, body string) Handler {
	return func(w *Response, r *http.Request) error {
		return w.Text(status, body)
	}
}

// HTML returns a handler that always responds with a text/html body.
func HTML(status int, body string) Handler {
	return func(w *Response, r *http.Request) error {
		return w.HTML(status, body)
	}
}

// Native adapts a standard http.Handler. Its output is buffered in the
// Response like any other handler; a panic is recovered by the dispatcher.
func Native(h http.Handler) Handler {
	return func(w *Response, r *http.Request) error {
		h.ServeHTTP(w, r)
		return nil
	}
}
