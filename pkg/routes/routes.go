// Package routes provides ordered route registration and dispatcher building.
package routes

import (
	"log/slog"

	"github.com/JaimeStill/dispatch-lab/pkg/dispatch"
	"github.com/JaimeStill/dispatch-lab/pkg/logging"
)

type routes struct {
	routes []Route
	groups []Group
	table  []dispatch.Route
	logger *slog.Logger
}

// New creates a route system with the specified logger.
func New(logger *slog.Logger) System {
	if logger == nil {
		logger = logging.Discard()
	}
	return &routes{
		logger: logger,
		groups: []Group{},
		routes: []Route{},
	}
}

func (r *routes) Groups() []Group {
	return r.groups
}

func (r *routes) Routes() []Route {
	return r.routes
}

// RegisterRoute appends a route to the dispatch table.
func (r *routes) RegisterRoute(route Route) {
	r.routes = append(r.routes, route)
	r.table = append(r.table, toDispatch(route))
}

// RegisterGroup appends every route of the group, children included, to the
// dispatch table in declaration order.
func (r *routes) RegisterGroup(group Group) {
	r.groups = append(r.groups, group)
	for _, route := range group.flatten("") {
		r.table = append(r.table, toDispatch(route))
	}
}

// Build constructs a dispatcher over a snapshot of the registered routes.
// Later registrations do not affect dispatchers already built.
func (r *routes) Build(opts ...dispatch.Option) *dispatch.Dispatcher {
	table := make([]dispatch.Route, len(r.table))
	copy(table, r.table)

	opts = append([]dispatch.Option{dispatch.WithLogger(r.logger)}, opts...)
	d := dispatch.New(table, opts...)

	for _, route := range d.Shadowed() {
		r.logger.Debug("route shadowed by earlier registration", "route", route.Name)
	}

	return d
}

func toDispatch(route Route) dispatch.Route {
	return dispatch.Route{
		Name:    route.Name,
		Method:  route.Method,
		Pattern: route.Pattern,
		Prefix:  route.Prefix,
		Handler: route.Handler,
	}
}
