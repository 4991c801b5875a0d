package inertia

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestIsInertia(t *testing.T) {
	tests := []struct {
		name   string
		header string
		expect bool
	}{
		{"with X-Inertia true", "true", true},
		{"with other value", "1", true},
		{"without header", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(HeaderInertia, tt.header)
			}

			result := IsInertia(req)
			if result != tt.expect {
				t.Errorf("IsInertia() = %v, want %v", result, tt.expect)
			}
		})
	}

	if IsInertia(nil) {
		t.Error("IsInertia(nil) = true, want false")
	}
}

func TestPartialData(t *testing.T) {
	tests := []struct {
		name   string
		header string
		expect []string
	}{
		{"without header", "", nil},
		{"single key", "users", []string{"users"}},
		{"two keys", "a,b", []string{"a", "b"}},
		{"spaces and empties", " a, ,b,", []string{"a", "b"}},
		{"only commas", ",,", nil},
		{"dotted key kept flat", "user.name", []string{"user.name"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(HeaderPartialData, tt.header)
			}

			result := PartialData(req)
			if !reflect.DeepEqual(result, tt.expect) {
				t.Errorf("PartialData() = %#v, want %#v", result, tt.expect)
			}
		})
	}
}

func TestHeaderAccessors(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if PartialComponent(req) != "" || RequestContext(req) != "" || AssetVersion(req) != "" {
		t.Fatal("expected empty values without headers")
	}

	req.Header.Set(HeaderPartialComponent, "Users/Index")
	req.Header.Set(HeaderContext, "modal")
	req.Header.Set(HeaderVersion, "abc123")

	if got := PartialComponent(req); got != "Users/Index" {
		t.Errorf("PartialComponent() = %q, want %q", got, "Users/Index")
	}
	if got := RequestContext(req); got != "modal" {
		t.Errorf("RequestContext() = %q, want %q", got, "modal")
	}
	if got := AssetVersion(req); got != "abc123" {
		t.Errorf("AssetVersion() = %q, want %q", got, "abc123")
	}
}
