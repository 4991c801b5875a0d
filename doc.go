// Package inertia is a server-side adapter for the Inertia protocol: Go
// handlers describe a page as a client component name plus props, and the
// package answers with either a full HTML document or a JSON page object,
// depending on who is asking.
//
// # Core Concepts
//
// A Factory holds what every page shares: the root view, shared props and
// the asset version. Handlers ask it for a Page and serve it:
//
//	f := inertia.New(inertia.WithVersion("1.0.0"))
//	f.Share("app.name", "Demo")
//
//	r.Get("/users", func(w http.ResponseWriter, r *http.Request) {
//	    f.Render("Users/Index", inertia.P("users", users)).ServeHTTP(w, r)
//	})
//
// The first visit has no X-Inertia header and receives the root view, an
// HTML document embedding the page object in a data-page attribute. Every
// later visit is made by the client with X-Inertia: true and receives the
// page object itself:
//
//	{"component":"Users/Index","props":{...},"url":"/users",
//	 "version":"1.0.0","type":"page","dialog":null,"context":"default"}
//
// # Props
//
// Props keep insertion order. Top-level keys containing a dot are expanded
// into nested objects, so "user.name" becomes {"user": {"name": ...}}.
// Values are resolved just before serialization:
//   - funcs are called through the Invoker, which injects context.Context,
//     *http.Request and anything registered on a Container
//   - Lazy props are left out of full loads and only computed when a
//     partial reload asks for them by name
//   - Awaiters (see Async) are waited on
//   - http.Handlers are served against the request and their JSON decoded
//   - Mappable values are converted and walked like any nested mapping
//
// # Partial Reloads
//
// A request carrying X-Inertia-Partial-Data: a,b and
// X-Inertia-Partial-Component naming the rendered component only resolves
// and returns props a and b. Names that do not exist are ignored.
//
// # Dialogs
//
// A page built with Factory.Dialog and given a BasePageURL can be visited
// directly. The base page is then dispatched in process through the
// factory's kernel (normally the router), and the dialog is attached to the
// base page object under "dialog". Redirects from the base route are
// followed; any other non-protocol answer, such as a 404, is returned as
// is.
//
// # Asset Versions
//
// Middleware compares the client's X-Inertia-Version with the factory's
// version and answers stale GET visits with 409 and X-Inertia-Location,
// which makes the client do a full reload. Factory.Location produces the
// same response for any URL.
package inertia
