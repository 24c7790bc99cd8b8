// Package site registers the public pages and the static file route.
package site

import (
	"net/http"

	"github.com/JaimeStill/dispatch-lab/pkg/dispatch"
	"github.com/JaimeStill/dispatch-lab/pkg/routes"
)

// Page is a fixed text/plain page.
type Page struct {
	Path string
	Body string
}

// Pages lists the site pages in registration order.
var Pages = []Page{
	{Path: "/", Body: "Welcome to the Homepage!"},
	{Path: "/about", Body: "This is the About Page."},
	{Path: "/contact", Body: "Contact us at contact@example.com"},
	{Path: "/services", Body: "We offer Node.js development services."},
	{Path: "/blog", Body: "Welcome to our blog section!"},
}

// Routes returns the page routes as a group.
func Routes() routes.Group {
	group := routes.Group{
		Description: "Site pages",
		Routes:      make([]routes.Route, 0, len(Pages)),
	}
	for _, page := range Pages {
		group.Routes = append(group.Routes, routes.Route{
			Method:  http.MethodGet,
			Pattern: page.Path,
			Handler: dispatch.Text(http.StatusOK, page.Body),
		})
	}
	return group
}

// StaticRoute serves files for any GET path not matched by an earlier route.
// It must be registered last.
func StaticRoute(files dispatch.Handler) routes.Route {
	return routes.Route{
		Name:    "GET /*",
		Method:  http.MethodGet,
		Pattern: "/",
		Prefix:  true,
		Handler: files,
	}
}

// Register adds the pages followed by the static file route.
func Register(r routes.System, files dispatch.Handler) {
	r.RegisterGroup(Routes())
	r.RegisterRoute(StaticRoute(files))
}
