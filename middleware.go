package inertia

import (
	"net/http"
)

// Middleware wraps the application's handler with the per-request parts of
// the protocol:
//
//   - every response varies on X-Inertia
//   - a protocol GET whose X-Inertia-Version differs from the factory's
//     version is answered with Location (409), so the client reloads the
//     new assets
//   - a 302 answering a protocol PUT, PATCH or DELETE becomes 303, so the
//     client follows it with GET
//
// Mount it in front of every route that renders pages:
//
//	r := chi.NewRouter()
//	r.Use(f.Middleware)
func (f *Factory) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", HeaderInertia)

		if !IsInertia(r) {
			next.ServeHTTP(w, r)
			return
		}

		if r.Method == http.MethodGet {
			if version := f.Version(); AssetVersion(r) != version {
				f.logger.Debug("inertia: asset version mismatch",
					"path", r.URL.Path, "client", AssetVersion(r), "server", version)
				f.metrics.versionConflict()
				f.Location(r, r.URL.RequestURI()).ServeHTTP(w, r)
				return
			}
		}

		switch r.Method {
		case http.MethodPut, http.MethodPatch, http.MethodDelete:
			w = &seeOtherWriter{ResponseWriter: w}
		}
		next.ServeHTTP(w, r)
	})
}

// seeOtherWriter rewrites 302 to 303.
type seeOtherWriter struct {
	http.ResponseWriter
}

func (w *seeOtherWriter) WriteHeader(code int) {
	if code == http.StatusFound {
		code = http.StatusSeeOther
	}
	w.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *seeOtherWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
