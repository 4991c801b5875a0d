package inertia

import "sync"

var (
	defaultMu      sync.RWMutex
	defaultFactory = New()
)

// SetDefault replaces the process-wide factory used by the package-level
// functions.
func SetDefault(f *Factory) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultFactory = f
}

// Default returns the process-wide factory.
func Default() *Factory {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultFactory
}

// Render builds a page with the default factory.
func Render(component string, props Mappable) *Page {
	return Default().Render(component, props)
}

// Share sets a shared prop on the default factory.
func Share(key string, value any) {
	Default().Share(key, value)
}
