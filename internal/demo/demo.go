// Package demo is a small user directory served through inertia pages. It
// backs the inertia command and doubles as an end-to-end exercise of the
// library: shared and lazy props, injected callbacks, dialogs over a base
// page, version conflicts and the 303 rewrite.
package demo

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pthm/inertia"
	inertiachi "github.com/pthm/inertia/adapters/chi"
)

// Options configures the demo application.
type Options struct {
	// RootView names the root view the demo registers and renders with.
	// Defaults to inertia.DefaultRootView.
	RootView string

	// Title and Entry are passed to the default root view.
	Title string
	Entry string

	// Factory options, applied after the demo's own.
	FactoryOptions []inertia.Option
}

// App is the demo application.
type App struct {
	Factory *inertia.Factory
	Store   *Store
	router  chi.Router
}

// New builds the demo application around store.
func New(store *Store, opts Options) *App {
	c := inertia.NewContainer()
	c.Provide(store)

	view := opts.RootView
	if view == "" {
		view = inertia.DefaultRootView
	}
	factoryOpts := append([]inertia.Option{
		inertia.WithInvoker(c),
		inertia.WithRootView(view),
		inertia.WithView(view, rootView(opts.Title, opts.Entry)),
	}, opts.FactoryOptions...)
	f := inertia.New(factoryOpts...)
	f.Share("app.name", opts.Title)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	inertiachi.Mount(r, f)

	app := &App{Factory: f, Store: store, router: r}
	app.routes()
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

func (a *App) routes() {
	r, f := a.router, a.Factory

	inertiachi.Page(r, "/", f, "Home", inertia.P("greeting", "Welcome"))

	r.Get("/users", a.usersIndex)
	r.Get("/users/{id}", a.usersShow)
	r.Put("/users/{id}", a.usersUpdate)
	r.Get("/users/{id}/history", a.usersHistory)
	r.Get("/old-users", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/users", http.StatusMovedPermanently)
	})
	r.Get("/logout", func(w http.ResponseWriter, r *http.Request) {
		f.Location(r, "/").ServeHTTP(w, r)
	})
}

func (a *App) usersIndex(w http.ResponseWriter, r *http.Request) {
	a.Factory.Render("Users/Index", inertia.P(
		"users", func(r *http.Request, s *Store) ([]any, error) {
			return s.Users(r.Context())
		},
		"meta.total", func(s *Store) int { return s.Count() },
		"meta.query", r.URL.Query().Get("q"),
		"stats", inertia.Lazy(func(s *Store) inertia.Map {
			return inertia.Map{"total": s.Count(), "active": s.Count()}
		}),
	)).ServeHTTP(w, r)
}

// usersShow renders the user as a dialog over the index.
func (a *App) usersShow(w http.ResponseWriter, r *http.Request) {
	user, err := a.Store.Find(chi.URLParam(r, "id"))
	if errors.Is(err, ErrUserNotFound) {
		http.NotFound(w, r)
		return
	}

	a.Factory.Dialog("Users/Show", inertia.P(
		"user", user,
		"id", inertiachi.Param("id"),
	)).BasePageURL("/users").ServeHTTP(w, r)
}

func (a *App) usersUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.Store.Rename(id, r.FormValue("name")); err != nil {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/users/"+id, http.StatusFound)
}

// usersHistory is a dialog whose base page does not exist; a direct visit
// answers with the base route's 404.
func (a *App) usersHistory(w http.ResponseWriter, r *http.Request) {
	a.Factory.Dialog("Users/History", inertia.P("id", inertiachi.Param("id"))).
		BasePageURL("/archive").
		ServeHTTP(w, r)
}

// rootView fills in title and entry for DefaultView unless the page set
// its own.
func rootView(title, entry string) inertia.ViewFunc {
	return func(data map[string]any) templ.Component {
		if _, ok := data["title"]; !ok {
			data["title"] = title
		}
		if _, ok := data["entry"]; !ok && entry != "" {
			data["entry"] = entry
		}
		return inertia.DefaultView(data)
	}
}
