// Package inertiachi provides chi router integration for inertia pages.
//
//	r := chi.NewRouter()
//	f := inertiachi.Mount(r, inertia.New())
//	inertiachi.Page(r, "/about", f, "About", nil)
//	r.Get("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
//	    f.Render("Users/Show", inertia.P("id", inertiachi.Param("id"))).ServeHTTP(w, r)
//	})
package inertiachi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pthm/inertia"
)

// Mount installs the factory's middleware on r and makes r the kernel that
// dialog base pages are dispatched through.
//
// chi requires middleware before routes, so call Mount before defining
// any.
func Mount(r chi.Router, f *inertia.Factory) *inertia.Factory {
	r.Use(f.Middleware)
	f.SetKernel(kernel(r))
	return f
}

// kernel routes a dispatched request from the top of r. chi reuses a
// routing context found on the request, and a dialog's base page request
// inherits the context of the request that rendered the dialog.
func kernel(r chi.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx := context.WithValue(req.Context(), chi.RouteCtxKey, nil)
		r.ServeHTTP(w, req.WithContext(ctx))
	})
}

// Page serves a page with fixed props on GET pattern.
func Page(r chi.Router, pattern string, f *inertia.Factory, component string, props inertia.Mappable) {
	r.Get(pattern, func(w http.ResponseWriter, req *http.Request) {
		f.Render(component, props).ServeHTTP(w, req)
	})
}

// Param returns a prop callable that resolves to the named URL parameter of
// the request being rendered.
func Param(name string) func(*http.Request) string {
	return func(r *http.Request) string {
		return chi.URLParam(r, name)
	}
}
