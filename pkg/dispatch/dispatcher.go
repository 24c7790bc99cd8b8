package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/JaimeStill/dispatch-lab/pkg/logging"
)

// RouteUnmatched is the Outcome route name for requests no route matched.
const RouteUnmatched = "unmatched"

type entry struct {
	route Route
	match Matcher
}

// Dispatcher evaluates its routes in registration order and invokes the first
// match. The table is fixed at construction and safe for concurrent use.
type Dispatcher struct {
	entries  []entry
	shadowed []Route
	notFound Handler
	logger   *slog.Logger
	observer Observer
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for per-request outcome logging.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithObserver registers an observer notified after every dispatch.
func WithObserver(observer Observer) Option {
	return func(d *Dispatcher) {
		d.observer = observer
	}
}

// WithNotFound replaces the default not found handler.
func WithNotFound(h Handler) Option {
	return func(d *Dispatcher) {
		if h != nil {
			d.notFound = h
		}
	}
}

// New builds a dispatcher over a copy of routes. Routes without a handler are
// skipped. When two exact routes share a method and path, the earlier one wins
// and the later one is reported by Shadowed.
func New(routes []Route, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		entries:  make([]entry, 0, len(routes)),
		notFound: NotFound,
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(d)
	}

	for _, route := range routes {
		if route.Handler == nil {
			continue
		}
		route.Name = route.name()
		for _, e := range d.entries {
			if e.route.shadows(route) {
				d.shadowed = append(d.shadowed, route)
				break
			}
		}
		d.entries = append(d.entries, entry{route: route, match: route.matcher()})
	}

	return d
}

// Routes returns the route table in evaluation order.
func (d *Dispatcher) Routes() []Route {
	routes := make([]Route, len(d.entries))
	for i, e := range d.entries {
		routes[i] = e.route
	}
	return routes
}

// Shadowed returns the routes that can never match because an earlier exact
// route has the same method and path.
func (d *Dispatcher) Shadowed() []Route {
	return append([]Route(nil), d.shadowed...)
}

// Match returns the first route matching method and path.
func (d *Dispatcher) Match(method, path string) (Route, bool) {
	if method == "" || !strings.HasPrefix(path, "/") {
		return Route{}, false
	}
	for _, e := range d.entries {
		if e.match(method, path) {
			return e.route, true
		}
	}
	return Route{}, false
}

// ServeHTTP dispatches r and commits the resulting response to w.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res := d.Handle(r)
	if err := res.WriteTo(w, r.Method != http.MethodHead); err != nil {
		d.logger.Debug("response write failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
}

// Handle dispatches r and returns its closed response. It never panics and
// always returns a response.
func (d *Dispatcher) Handle(r *http.Request) *Response {
	start := time.Now()
	out := Outcome{
		Method: r.Method,
		Path:   r.URL.Path,
		Route:  RouteUnmatched,
		Result: ResultNotFound,
	}

	handler := d.notFound
	if route, ok := d.Match(r.Method, r.URL.Path); ok {
		handler = route.Handler
		out.Route = route.Name
		out.Matched = true
		out.Result = ResultOK
	}

	res, err := run(handler, r)
	if err != nil && errors.Is(err, ErrNotFound) {
		out.Result = ResultNotFound
		if out.Matched {
			res, err = run(d.notFound, r)
		} else {
			res, err = textResponse(http.StatusNotFound, NotFoundBody), nil
		}
	}

	if err != nil {
		out.Result = ResultFault
		out.Err = &HandlerFault{
			Method: r.Method,
			Path:   r.URL.Path,
			Route:  out.Route,
			Cause:  err,
		}
		res = textResponse(http.StatusInternalServerError, InternalErrorBody)
	}

	if !res.Closed() {
		res.Close()
	}

	out.Status = res.Status()
	out.Duration = time.Since(start)
	d.record(r.Context(), out)

	return res
}

func run(h Handler, r *http.Request) (res *Response, err error) {
	res = NewResponse()
	defer func() {
		if v := recover(); v != nil {
			err = &PanicError{Value: v, Stack: debug.Stack()}
		}
	}()
	err = h(res, r)
	return res, err
}

func (d *Dispatcher) record(ctx context.Context, out Outcome) {
	attrs := []any{
		"method", out.Method,
		"path", out.Path,
		"route", out.Route,
		"status", out.Status,
		"outcome", out.Result.String(),
		"duration", out.Duration,
	}

	switch out.Result {
	case ResultFault:
		attrs = append(attrs, "error", out.Err)
		if errors.Is(out.Err, context.Canceled) {
			d.logger.WarnContext(ctx, "request cancelled", attrs...)
			break
		}
		var perr *PanicError
		if errors.As(out.Err, &perr) {
			attrs = append(attrs, "stack", string(perr.Stack))
		}
		d.logger.ErrorContext(ctx, "handler failed", attrs...)
	case ResultNotFound:
		d.logger.InfoContext(ctx, "not found", attrs...)
	default:
		d.logger.DebugContext(ctx, "dispatched", attrs...)
	}

	if d.observer != nil {
		d.observe(ctx, out)
	}
}

// observe isolates the observer so a panic there cannot escape Handle.
func (d *Dispatcher) observe(ctx context.Context, out Outcome) {
	defer func() {
		if v := recover(); v != nil {
			d.logger.ErrorContext(ctx, "observer panicked",
				"route", out.Route,
				"panic", v,
				"stack", string(debug.Stack()),
			)
		}
	}()
	d.observer.Observe(out)
}
