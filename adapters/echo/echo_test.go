package inertiaecho

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pthm/inertia"
)

func newApp(opts ...Option) (*echo.Echo, *inertia.Factory) {
	e := echo.New()
	f := Mount(e, inertia.New(
		inertia.WithVersion("v1"),
		inertia.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	), opts...)

	e.GET("/users", func(c echo.Context) error {
		return Render(c, f.Render("Users/Index", inertia.P("users", []any{"bo"})))
	})
	e.GET("/users/:id", func(c echo.Context) error {
		page := f.Dialog("Users/Show", inertia.P("id", c.Param("id"))).BasePageURL("/users")
		return Render(c, page)
	})
	e.GET("/away", func(c echo.Context) error {
		return Location(c, f, "https://example.com")
	})
	e.GET("/fail", func(c echo.Context) error {
		return Render(c, f.Render("X", inertia.P("a", func() error { return errors.New("boom") })))
	})
	return e, f
}

func TestMountSetsKernel(t *testing.T) {
	e, f := newApp()

	if f.Kernel() != http.Handler(e) {
		t.Error("Mount did not set the kernel")
	}
}

func TestMountWithDefault(t *testing.T) {
	previous := inertia.Default()
	defer inertia.SetDefault(previous)

	_, f := newApp(WithDefault())
	if inertia.Default() != f {
		t.Error("WithDefault did not install the factory")
	}
}

func TestRender(t *testing.T) {
	e, _ := newApp()

	tests := []struct {
		name    string
		headers map[string]string
		json    bool
	}{
		{"full load", nil, false},
		{"protocol visit", map[string]string{inertia.HeaderInertia: "true", inertia.HeaderVersion: "v1"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := inertia.TestRequest(e, http.MethodGet, "/users", tt.headers)
			if !result.IsOK() {
				t.Fatalf("status = %d", result.StatusCode)
			}
			if result.IsJSON() != tt.json {
				t.Errorf("IsJSON() = %v", result.IsJSON())
			}
			if result.Component() != "Users/Index" {
				t.Errorf("component = %q", result.Component())
			}
		})
	}
}

func TestMiddlewareVersionConflict(t *testing.T) {
	e, _ := newApp()

	result := inertia.TestRequest(e, http.MethodGet, "/users", map[string]string{
		inertia.HeaderInertia: "true",
		inertia.HeaderVersion: "old",
	})
	if !result.HasStatus(http.StatusConflict) || result.GetHeader(inertia.HeaderLocation) != "/users" {
		t.Errorf("status = %d, location = %q", result.StatusCode, result.GetHeader(inertia.HeaderLocation))
	}
}

func TestDialogThroughEcho(t *testing.T) {
	e, _ := newApp()

	result := inertia.TestRequest(e, http.MethodGet, "/users/7", map[string]string{
		inertia.HeaderInertia: "true",
		inertia.HeaderVersion: "v1",
	})
	if result.Component() != "Users/Index" {
		t.Fatalf("component = %q, body = %s", result.Component(), result.Body)
	}
	dialog := result.DialogObject()
	if dialog == nil || dialog["component"] != "Users/Show" || dialog["url"] != "/users/7" {
		t.Errorf("dialog = %v", dialog)
	}
}

func TestLocation(t *testing.T) {
	e, _ := newApp()

	result := inertia.TestRequest(e, http.MethodGet, "/away", map[string]string{
		inertia.HeaderInertia: "true",
		inertia.HeaderVersion: "v1",
	})
	if !result.HasStatus(http.StatusConflict) || result.GetHeader(inertia.HeaderLocation) != "https://example.com" {
		t.Errorf("status = %d, location = %q", result.StatusCode, result.GetHeader(inertia.HeaderLocation))
	}

	result = inertia.TestRequest(e, http.MethodGet, "/away", nil)
	if !result.HasStatus(http.StatusFound) || result.GetHeader("Location") != "https://example.com" {
		t.Errorf("status = %d, location = %q", result.StatusCode, result.GetHeader("Location"))
	}
}

func TestRenderErrorGoesToEcho(t *testing.T) {
	e, _ := newApp()

	result := inertia.TestRequest(e, http.MethodGet, "/fail", map[string]string{
		inertia.HeaderInertia: "true",
		inertia.HeaderVersion: "v1",
	})
	if !result.HasStatus(http.StatusInternalServerError) {
		t.Errorf("status = %d, want 500", result.StatusCode)
	}
}

func TestMountGroup(t *testing.T) {
	e := echo.New()
	f := inertia.New(inertia.WithVersion("v1"))
	g := e.Group("/app")
	MountGroup(g, f)
	g.GET("/home", func(c echo.Context) error {
		return Render(c, f.Render("Home", nil))
	})

	result := inertia.TestRequest(e, http.MethodGet, "/app/home", map[string]string{
		inertia.HeaderInertia: "true",
		inertia.HeaderVersion: "stale",
	})
	if !result.HasStatus(http.StatusConflict) {
		t.Errorf("status = %d, want 409 from group middleware", result.StatusCode)
	}
	if f.Kernel() != nil {
		t.Error("MountGroup must not set a kernel")
	}
}
