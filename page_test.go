package inertia

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRequest(target string, headers map[string]string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

func protocolHeaders(extra ...string) map[string]string {
	h := map[string]string{HeaderInertia: "true"}
	for i := 0; i+1 < len(extra); i += 2 {
		h[extra[i]] = extra[i+1]
	}
	return h
}

func usersPage(f *Factory) *Page {
	return f.Render("Users/Index", P(
		"users", []any{"bo", "al"},
		"filter", func(r *http.Request) string { return r.URL.Query().Get("q") },
		"stats", Lazy(func() any { return Map{"total": 2} }),
	))
}

func TestPageFullLoadRendersDocument(t *testing.T) {
	f := New(WithVersion("v1"), WithLogger(quietLogger()))

	result, err := TestPage(usersPage(f), newRequest("/users?q=b", nil))
	if err != nil {
		t.Fatalf("TestPage() error = %v", err)
	}

	if !result.IsOK() {
		t.Errorf("status = %d, want 200", result.StatusCode)
	}
	if result.IsJSON() {
		t.Error("full load must not be a JSON response")
	}
	if !strings.HasPrefix(result.GetHeader("Content-Type"), "text/html") {
		t.Errorf("Content-Type = %q", result.GetHeader("Content-Type"))
	}
	if !result.BodyContains(`<div id="app" data-page="`) {
		t.Fatalf("body missing mount element: %s", result.Body)
	}

	if got := result.Component(); got != "Users/Index" {
		t.Errorf("component = %q", got)
	}
	if result.HasProp("stats") {
		t.Error("lazy prop must be absent on full load")
	}
	if v, _ := result.Prop("filter"); v != "b" {
		t.Errorf("filter = %v, want b", v)
	}
	checks := map[string]any{
		"url":     "/users?q=b",
		"version": "v1",
		"type":    "page",
		"context": "default",
	}
	for key, want := range checks {
		if got := result.Page[key]; got != want {
			t.Errorf("%s = %v, want %v", key, got, want)
		}
	}
	if d, ok := result.Page["dialog"]; !ok || d != nil {
		t.Errorf("dialog = %v (present %v), want null", d, ok)
	}
}

func TestPageProtocolRequestReturnsJSON(t *testing.T) {
	f := New(WithVersion("v1"), WithLogger(quietLogger()))

	result, err := TestPage(f.Render("Home", P("greeting", "hi")), newRequest("/", protocolHeaders()))
	if err != nil {
		t.Fatalf("TestPage() error = %v", err)
	}

	if !result.IsOK() || !result.IsJSON() {
		t.Fatalf("status %d, X-Inertia %q", result.StatusCode, result.GetHeader(HeaderInertia))
	}
	if !result.HasHeader("Content-Type", "application/json") {
		t.Errorf("Content-Type = %q", result.GetHeader("Content-Type"))
	}
	want := `{"component":"Home","props":{"greeting":"hi"},"url":"/","version":"v1","type":"page","dialog":null,"context":"default"}`
	if result.Body != want {
		t.Errorf("body =\n%s\nwant\n%s", result.Body, want)
	}
}

func TestPagePartialReload(t *testing.T) {
	f := New(WithLogger(quietLogger()))

	tests := []struct {
		name      string
		only      string
		component string
		want      []string
		absent    []string
	}{
		{
			name:      "matching component narrows props",
			only:      "stats,missing",
			component: "Users/Index",
			want:      []string{"stats"},
			absent:    []string{"users", "filter", "missing"},
		},
		{
			name:      "two keys",
			only:      "users,filter",
			component: "Users/Index",
			want:      []string{"users", "filter"},
			absent:    []string{"stats"},
		},
		{
			name:      "other component is a full load",
			only:      "stats",
			component: "Users/Show",
			want:      []string{"users", "filter"},
			absent:    []string{"stats"},
		},
		{
			name:      "empty list is a full load",
			only:      " , ",
			component: "Users/Index",
			want:      []string{"users", "filter"},
			absent:    []string{"stats"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest("/users", protocolHeaders(
				HeaderPartialData, tt.only,
				HeaderPartialComponent, tt.component,
			))
			result, err := TestPage(usersPage(f), req)
			if err != nil {
				t.Fatalf("TestPage() error = %v", err)
			}
			for _, key := range tt.want {
				if !result.HasProp(key) {
					t.Errorf("missing prop %q in %v", key, result.Props())
				}
			}
			for _, key := range tt.absent {
				if result.HasProp(key) {
					t.Errorf("unexpected prop %q", key)
				}
			}
		})
	}
}

func TestPageLazyPropResolvedOnlyWhenRequested(t *testing.T) {
	f := New(WithLogger(quietLogger()))
	calls := 0
	page := f.Render("Users/Index", P("stats", Lazy(func() any {
		calls++
		return 1
	})))

	if _, err := TestPage(page, newRequest("/users", protocolHeaders())); err != nil {
		t.Fatal(err)
	}
	if calls != 0 {
		t.Fatalf("lazy prop evaluated on full load")
	}

	req := newRequest("/users", protocolHeaders(
		HeaderPartialData, "stats",
		HeaderPartialComponent, "Users/Index",
	))
	result, err := TestPage(page, req)
	if err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("lazy prop evaluated %d times, want 1", calls)
	}
	if v, _ := result.Prop("stats"); v != float64(1) {
		t.Errorf("stats = %v", v)
	}
}

func TestPageSharedProps(t *testing.T) {
	f := New(WithLogger(quietLogger()))
	f.Share("a.b", 1)
	f.Share("user", "shared")

	result, err := TestPage(f.Render("X", P("user", "local")), newRequest("/", protocolHeaders()))
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := result.Prop("a.b"); v != float64(1) {
		t.Errorf("a.b = %v, want 1", v)
	}
	if v, _ := result.Prop("user"); v != "local" {
		t.Errorf("user = %v, want local", v)
	}

	result, err = TestPage(f.Render("X", nil), newRequest("/", protocolHeaders()))
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"a":{"b":1},"user":"shared"}`; !strings.Contains(result.Body, `"props":`+want) {
		t.Errorf("body = %s, want props %s", result.Body, want)
	}
}

func TestPageBuilders(t *testing.T) {
	f := New(WithLogger(quietLogger()))
	page := f.Render("X", P("a", 1)).
		With("b", 2).
		WithProps(Map{"c": 3}).
		Context("modal").
		Dialog()

	if !page.IsDialog() {
		t.Error("IsDialog() = false")
	}
	if got := page.Props().Keys(); strings.Join(got, ",") != "a,b,c" {
		t.Errorf("keys = %v", got)
	}

	result, err := TestPage(page, newRequest("/x", protocolHeaders()))
	if err != nil {
		t.Fatal(err)
	}
	if result.Page["type"] != "dialog" || result.Page["context"] != "modal" {
		t.Errorf("type = %v, context = %v", result.Page["type"], result.Page["context"])
	}
}

func TestPageViewData(t *testing.T) {
	var seen map[string]any
	f := New(
		WithLogger(quietLogger()),
		WithView("admin", func(data map[string]any) templ.Component {
			seen = data
			return Root(data["page"])
		}),
	)

	page := f.Render("Dashboard", P("a", 1)).
		RootView("admin").
		WithViewData("title", "Admin").
		WithViewDataMap(map[string]any{"theme": "dark"})

	result, err := TestPage(page, newRequest("/admin", nil))
	if err != nil {
		t.Fatal(err)
	}
	if seen["title"] != "Admin" || seen["theme"] != "dark" {
		t.Errorf("view data = %v", seen)
	}
	if _, ok := seen["page"].(*Props); !ok {
		t.Errorf("page view var is %T, want *Props", seen["page"])
	}
	if strings.Contains(result.Body, "Admin") {
		t.Error("view data must not be serialized into the page")
	}
	if result.Component() != "Dashboard" {
		t.Errorf("component = %q", result.Component())
	}
}

func TestPageUnknownRootView(t *testing.T) {
	f := New(WithRootView("missing"), WithLogger(quietLogger()))

	_, err := f.Render("X", nil).ToResponse(newRequest("/", nil))
	if !errors.Is(err, ErrViewNotFound) {
		t.Errorf("error = %v, want ErrViewNotFound", err)
	}

	// Protocol requests never touch the root view.
	if _, err := f.Render("X", nil).ToResponse(newRequest("/", protocolHeaders())); err != nil {
		t.Errorf("protocol request error = %v", err)
	}
}

func TestPageServeHTTPErrorGoesToOnError(t *testing.T) {
	f := New(WithLogger(quietLogger()))
	var got error
	f.OnError = func(w http.ResponseWriter, r *http.Request, err error) {
		got = err
		w.WriteHeader(http.StatusTeapot)
	}

	boom := errors.New("boom")
	page := f.Render("X", P("a", func() error { return boom }))

	rec := httptest.NewRecorder()
	page.ServeHTTP(rec, newRequest("/", protocolHeaders()))

	if !errors.Is(got, boom) {
		t.Errorf("OnError got %v, want boom", got)
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestPageDefaultOnError(t *testing.T) {
	f := New(WithLogger(quietLogger()))
	page := f.Render("X", P("a", func(*userStore) int { return 1 }))

	rec := httptest.NewRecorder()
	page.ServeHTTP(rec, newRequest("/", protocolHeaders()))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestPageCallableReceivesRequestContext(t *testing.T) {
	f := New(WithLogger(quietLogger()))
	req := newRequest("/", protocolHeaders())
	req = req.WithContext(context.WithValue(req.Context(), ctxKey{}, "from-request"))

	page := f.Render("X", P("v", func(ctx context.Context) any { return ctx.Value(ctxKey{}) }))
	result, err := TestPage(page, req)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := result.Prop("v"); v != "from-request" {
		t.Errorf("v = %v", v)
	}
}
