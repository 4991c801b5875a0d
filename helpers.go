package inertia

import (
	"net/http"
	"strings"
)

// Protocol headers.
const (
	HeaderInertia          = "X-Inertia"
	HeaderVersion          = "X-Inertia-Version"
	HeaderPartialData      = "X-Inertia-Partial-Data"
	HeaderPartialComponent = "X-Inertia-Partial-Component"
	HeaderContext          = "X-Inertia-Context"
	HeaderLocation         = "X-Inertia-Location"
	HeaderRequestedWith    = "X-Requested-With"
)

// IsInertia returns true if the request was sent by the Inertia client.
//
// The client sends X-Inertia: true on every visit after the first page
// load. Such requests get the page object as JSON instead of a full
// HTML document:
//
//	if inertia.IsInertia(r) {
//	    // client-side navigation
//	}
func IsInertia(r *http.Request) bool {
	return r != nil && r.Header.Get(HeaderInertia) != ""
}

// AssetVersion returns the asset version the client currently has loaded.
//
// Returns empty string if header not present (first visit).
func AssetVersion(r *http.Request) string {
	return r.Header.Get(HeaderVersion)
}

// PartialData returns the prop keys requested by a partial reload.
//
// The X-Inertia-Partial-Data header is a comma separated list. Entries
// are trimmed and empty entries dropped, so "a, ,b" yields [a b].
// Returns nil if the header is absent.
func PartialData(r *http.Request) []string {
	raw := r.Header.Get(HeaderPartialData)
	if raw == "" {
		return nil
	}
	var keys []string
	for _, key := range strings.Split(raw, ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// PartialComponent returns the component a partial reload targets.
//
// Partial data only applies when this matches the rendered component.
func PartialComponent(r *http.Request) string {
	return r.Header.Get(HeaderPartialComponent)
}

// RequestContext returns the dialog context the client is rendering in.
//
// Returns empty string if not present.
func RequestContext(r *http.Request) string {
	return r.Header.Get(HeaderContext)
}
