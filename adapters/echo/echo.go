// Package inertiaecho provides Echo framework integration for inertia pages.
//
// Mount a factory onto an Echo instance:
//
//	e := echo.New()
//	f := inertiaecho.Mount(e, inertia.New(inertia.WithVersion("1")))
//	e.GET("/users", func(c echo.Context) error {
//	    return inertiaecho.Render(c, f.Render("Users/Index", inertia.P("users", users)))
//	})
//
// Or install the middleware on a group only:
//
//	g := e.Group("/app", authMiddleware)
//	inertiaecho.MountGroup(g, f)
package inertiaecho

import (
	"github.com/labstack/echo/v4"
	"github.com/pthm/inertia"
)

// Option configures the Mount and MountGroup functions.
type Option func(*options)

type options struct {
	setDefault bool
}

// WithDefault also installs the factory as the package default, so
// inertia.Render and inertia.Share use it.
func WithDefault() Option {
	return func(o *options) {
		o.setDefault = true
	}
}

// Mount installs the factory's middleware on e and makes e the kernel that
// dialog base pages are dispatched through.
//
//	e := echo.New()
//	f := inertiaecho.Mount(e, inertia.New())
//
//	// Also as the package default:
//	f := inertiaecho.Mount(e, inertia.New(), inertiaecho.WithDefault())
func Mount(e *echo.Echo, f *inertia.Factory, opts ...Option) *inertia.Factory {
	apply(f, opts)
	e.Use(echo.WrapMiddleware(f.Middleware))
	f.SetKernel(e)
	return f
}

// MountGroup installs the factory's middleware on a group. The group shares
// its middleware (auth, logging, etc.) with the pages it serves.
//
// A group cannot dispatch requests on its own; set the kernel with
// Factory.SetKernel when dialogs need a base page.
//
//	g := e.Group("/app", authMiddleware)
//	inertiaecho.MountGroup(g, f)
//	f.SetKernel(e)
func MountGroup(g *echo.Group, f *inertia.Factory, opts ...Option) *inertia.Factory {
	apply(f, opts)
	g.Use(echo.WrapMiddleware(f.Middleware))
	return f
}

func apply(f *inertia.Factory, opts []Option) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.setDefault {
		inertia.SetDefault(f)
	}
}

// Render finalizes page against the current request and writes it. Errors
// are returned to Echo's HTTP error handler.
//
//	func handler(c echo.Context) error {
//	    return inertiaecho.Render(c, f.Render("Home", nil))
//	}
func Render(c echo.Context, page *inertia.Page) error {
	resp, err := page.ToResponse(c.Request())
	if err != nil {
		return err
	}
	resp.ServeHTTP(c.Response(), c.Request())
	return nil
}

// Location sends the client to url, leaving the app entirely for protocol
// requests.
func Location(c echo.Context, f *inertia.Factory, url string) error {
	f.Location(c.Request(), url).ServeHTTP(c.Response(), c.Request())
	return nil
}
