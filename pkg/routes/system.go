package routes

import "github.com/JaimeStill/dispatch-lab/pkg/dispatch"

// System defines the interface for route registration and dispatcher building.
// Registration order is evaluation order: the first matching route wins.
type System interface {
	RegisterGroup(group Group)
	RegisterRoute(route Route)
	Build(opts ...dispatch.Option) *dispatch.Dispatcher
	Groups() []Group
	Routes() []Route
}
