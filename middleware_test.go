package inertia

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func middlewareApp() (*Factory, http.Handler) {
	f := New(WithVersion("v2"), WithLogger(quietLogger()))
	mux := http.NewServeMux()
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		f.Render("Page", P("ok", true)).ServeHTTP(w, r)
	})
	mux.HandleFunc("/save", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/page", http.StatusFound)
	})
	return f, f.Middleware(mux)
}

func TestMiddlewareVersionConflict(t *testing.T) {
	_, h := middlewareApp()

	result := TestRequest(h, http.MethodGet, "/page?x=1", map[string]string{
		HeaderInertia: "true",
		HeaderVersion: "v1",
	})

	if !result.HasStatus(http.StatusConflict) {
		t.Fatalf("status = %d, want 409", result.StatusCode)
	}
	if got := result.GetHeader(HeaderLocation); got != "/page?x=1" {
		t.Errorf("X-Inertia-Location = %q, want /page?x=1", got)
	}
}

func TestMiddlewarePassesMatchingVersion(t *testing.T) {
	_, h := middlewareApp()

	result := TestRequest(h, http.MethodGet, "/page", map[string]string{
		HeaderInertia: "true",
		HeaderVersion: "v2",
	})

	if !result.IsOK() || !result.IsJSON() {
		t.Fatalf("status = %d, json = %v", result.StatusCode, result.IsJSON())
	}
	if result.Component() != "Page" {
		t.Errorf("component = %q", result.Component())
	}
}

func TestMiddlewareIgnoresVersionOnFullLoads(t *testing.T) {
	_, h := middlewareApp()

	result := TestRequest(h, http.MethodGet, "/page", map[string]string{HeaderVersion: "stale"})
	if !result.IsOK() || result.IsJSON() {
		t.Fatalf("status = %d, json = %v", result.StatusCode, result.IsJSON())
	}
	if got := result.GetHeader("Vary"); got != HeaderInertia {
		t.Errorf("Vary = %q", got)
	}
}

func TestMiddlewareSeeOther(t *testing.T) {
	_, h := middlewareApp()

	tests := []struct {
		method string
		want   int
	}{
		{http.MethodPut, http.StatusSeeOther},
		{http.MethodPatch, http.StatusSeeOther},
		{http.MethodDelete, http.StatusSeeOther},
		{http.MethodPost, http.StatusFound},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			result := TestRequest(h, tt.method, "/save", map[string]string{
				HeaderInertia: "true",
				HeaderVersion: "v2",
			})
			if !result.HasStatus(tt.want) {
				t.Errorf("status = %d, want %d", result.StatusCode, tt.want)
			}
		})
	}

	// Non-protocol requests are left alone.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/save", nil))
	if rec.Code != http.StatusFound {
		t.Errorf("plain PUT status = %d, want 302", rec.Code)
	}
}
