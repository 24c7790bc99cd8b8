package dispatch

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// Content types used by the built-in responses.
const (
	ContentTypeText = "text/plain; charset=utf-8"
	ContentTypeHTML = "text/html; charset=utf-8"
)

// Bodies of the built-in error responses.
const (
	NotFoundBody      = "404 Not Found"
	InternalErrorBody = "Internal Server Error"
)

// Response is a buffered, write-once response. The status and content type
// may each be set once; the body may be written until Close. Nothing is sent
// to the client until the dispatcher commits it.
//
// Response satisfies http.ResponseWriter so standard handlers can write into it.
type Response struct {
	status      int
	statusSet   bool
	contentType string
	header      http.Header
	body        bytes.Buffer
	closed      bool
}

// NewResponse returns an empty response with status 200.
func NewResponse() *Response {
	return &Response{
		status: http.StatusOK,
		header: make(http.Header),
	}
}

// Header returns the response header map. Once the response is closed it
// returns a copy, so later changes never reach the client.
func (r *Response) Header() http.Header {
	if r.closed {
		return r.header.Clone()
	}
	return r.header
}

// SetStatus records the status code.
func (r *Response) SetStatus(code int) error {
	if r.closed {
		return ErrResponseClosed
	}
	if r.statusSet {
		return ErrStatusWritten
	}
	if code < 100 || code > 599 {
		return fmt.Errorf("%w: %d", ErrInvalidStatus, code)
	}
	r.status = code
	r.statusSet = true
	return nil
}

// SetContentType records the Content-Type header.
func (r *Response) SetContentType(contentType string) error {
	if r.closed {
		return ErrResponseClosed
	}
	if r.contentType != "" || r.header.Get("Content-Type") != "" {
		return ErrContentTypeWritten
	}
	r.contentType = contentType
	r.header.Set("Content-Type", contentType)
	return nil
}

// WriteHeader implements http.ResponseWriter. Calls after the first are ignored.
func (r *Response) WriteHeader(code int) {
	_ = r.SetStatus(code)
}

// Write appends to the body. Writing before a status is set fixes it at 200.
func (r *Response) Write(p []byte) (int, error) {
	if r.closed {
		return 0, ErrResponseClosed
	}
	r.statusSet = true
	return r.body.Write(p)
}

// Close marks the response complete and freezes its headers. A content type
// recorded by SetContentType wins over one rewritten through Header.
func (r *Response) Close() error {
	if r.closed {
		return ErrResponseClosed
	}
	if r.contentType != "" {
		r.header.Set("Content-Type", r.contentType)
	} else {
		r.contentType = r.header.Get("Content-Type")
	}
	r.closed = true
	return nil
}

// Closed reports whether the response has been closed.
func (r *Response) Closed() bool {
	return r.closed
}

// Status returns the status code, 200 if none was set.
func (r *Response) Status() int {
	return r.status
}

// ContentType returns the response content type.
func (r *Response) ContentType() string {
	if r.contentType != "" {
		return r.contentType
	}
	return r.header.Get("Content-Type")
}

// Body returns the buffered body.
func (r *Response) Body() []byte {
	return r.body.Bytes()
}

// Text sets status, a text/plain content type and body, then closes the response.
func (r *Response) Text(status int, body string) error {
	return r.Send(status, ContentTypeText, []byte(body))
}

// HTML sets status, a text/html content type and body, then closes the response.
func (r *Response) HTML(status int, body string) error {
	return r.Send(status, ContentTypeHTML, []byte(body))
}

// Send sets status, content type and body, then closes the response.
func (r *Response) Send(status int, contentType string, body []byte) error {
	if err := r.SetStatus(status); err != nil {
		return err
	}
	if err := r.SetContentType(contentType); err != nil {
		return err
	}
	if _, err := r.Write(body); err != nil {
		return err
	}
	return r.Close()
}

// WriteTo commits the response to w. With includeBody false (HEAD requests)
// only the headers and status are sent.
func (r *Response) WriteTo(w http.ResponseWriter, includeBody bool) error {
	h := w.Header()
	for key, values := range r.header {
		h[key] = values
	}
	if h.Get("Content-Type") == "" && r.body.Len() > 0 {
		h.Set("Content-Type", http.DetectContentType(r.body.Bytes()))
	}
	if bodyAllowed(r.status) {
		h.Set("Content-Length", strconv.Itoa(r.body.Len()))
	}

	w.WriteHeader(r.status)

	if !includeBody || !bodyAllowed(r.status) {
		return nil
	}
	if _, err := w.Write(r.body.Bytes()); err != nil && !errors.Is(err, http.ErrBodyNotAllowed) {
		return fmt.Errorf("write body: %w", err)
	}
	return nil
}

func bodyAllowed(status int) bool {
	switch {
	case status >= 100 && status < 200:
		return false
	case status == http.StatusNoContent, status == http.StatusNotModified:
		return false
	}
	return true
}

func textResponse(status int, body string) *Response {
	res := NewResponse()
	_ = res.Text(status, body)
	return res
}
