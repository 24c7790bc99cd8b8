package routes

import "github.com/JaimeStill/dispatch-lab/pkg/dispatch"

// Group represents a collection of routes under a common URL prefix.
// Groups can contain child groups for hierarchical route organization.
type Group struct {
	Prefix      string
	Description string
	Routes      []Route
	Children    []Group
}

// Route represents a registration in the dispatch table. Pattern is matched
// exactly unless Prefix is set. An empty Method matches any method.
type Route struct {
	Name    string
	Method  string
	Pattern string
	Prefix  bool
	Handler dispatch.Handler
}

func (g Group) flatten(parentPrefix string) []Route {
	fullPrefix := parentPrefix + g.Prefix

	var out []Route
	for _, route := range g.Routes {
		route.Pattern = fullPrefix + route.Pattern
		out = append(out, route)
	}
	for _, child := range g.Children {
		out = append(out, child.flatten(fullPrefix)...)
	}
	return out
}
