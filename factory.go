package inertia

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/pthm/inertia"

// Factory holds the defaults shared by every page: root view, shared
// props, asset version, and the collaborators pages need to finalize
// (kernel, invoker, views).
//
// Shared props are process wide. Applications that share request specific
// data must call FlushShared at a request boundary they control; the
// factory never flushes on its own.
type Factory struct {
	mu       sync.RWMutex
	rootView string
	shared   *Props
	version  any
	kernel   http.Handler
	invoker  Invoker
	views    map[string]ViewFunc
	logger   *slog.Logger
	metrics  *Metrics
	tracer   trace.Tracer
	maxDepth int

	// OnError is called when a page fails to finalize in ServeHTTP.
	// Customize this to handle errors appropriately for your application.
	OnError func(http.ResponseWriter, *http.Request, error)
}

// Option configures a Factory.
type Option func(*Factory)

// WithRootView sets the root view used for full page loads.
func WithRootView(name string) Option {
	return func(f *Factory) {
		f.rootView = name
	}
}

// WithVersion sets the asset version (see SetVersion).
func WithVersion(v any) Option {
	return func(f *Factory) {
		f.version = v
	}
}

// WithKernel sets the handler dialog base pages are dispatched through.
// It is normally the application's router.
func WithKernel(h http.Handler) Option {
	return func(f *Factory) {
		f.kernel = h
	}
}

// WithInvoker replaces the default Container.
func WithInvoker(inv Invoker) Option {
	return func(f *Factory) {
		f.invoker = inv
	}
}

// WithView registers a root view.
func WithView(name string, view ViewFunc) Option {
	return func(f *Factory) {
		f.views[name] = view
	}
}

// WithLogger sets the logger. If nil, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *Metrics) Option {
	return func(f *Factory) {
		f.metrics = m
	}
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(f *Factory) {
		f.tracer = t
	}
}

// WithMaxPropDepth limits how deeply nested mappings below the top-level
// props are walked. Zero, the default, means no limit.
func WithMaxPropDepth(n int) Option {
	return func(f *Factory) {
		f.maxDepth = n
	}
}

// New creates a Factory. The "app" root view renders DefaultView until
// replaced.
func New(opts ...Option) *Factory {
	f := &Factory{
		rootView: DefaultRootView,
		shared:   NewProps(),
		invoker:  NewContainer(),
		views:    map[string]ViewFunc{DefaultRootView: DefaultView},
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	if f.tracer == nil {
		f.tracer = otel.Tracer(tracerName)
	}

	f.OnError = func(w http.ResponseWriter, r *http.Request, err error) {
		f.logger.Error("inertia: page failed", "path", r.URL.Path, "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}

	return f
}

// SetRootView sets the root view used for full page loads.
func (f *Factory) SetRootView(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rootView = name
}

// SetView registers or replaces a root view.
func (f *Factory) SetView(name string, view ViewFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.views[name] = view
}

// SetKernel sets the handler dialog base pages are dispatched through.
func (f *Factory) SetKernel(h http.Handler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kernel = h
}

// Kernel returns the dialog dispatch handler, or nil.
func (f *Factory) Kernel() http.Handler {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.kernel
}

// Logger returns the factory's logger.
func (f *Factory) Logger() *slog.Logger {
	return f.logger
}

// Share sets a shared prop. Dotted keys assign into nested props:
//
//	f.Share("auth.user", user) // {"auth": {"user": user}}
func (f *Factory) Share(key string, value any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shared.SetPath(key, value)
}

// ShareAll merges values into the shared props at the top level. Keys are
// taken literally; later values win.
//
//	f.ShareAll(inertia.Map{"app": "demo", "locale": "en"})
func (f *Factory) ShareAll(values Mappable) {
	incoming := toProps(values)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.shared.Merge(incoming)
}

// Shared returns a copy of all shared props.
func (f *Factory) Shared() *Props {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.shared.Clone()
}

// GetShared looks up a shared prop by dotted path, returning def when it
// is absent.
func (f *Factory) GetShared(key string, def any) any {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if v, ok := f.shared.GetPath(key); ok {
		return v
	}
	return def
}

// FlushShared removes every shared prop.
func (f *Factory) FlushShared() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shared = NewProps()
}

// SetVersion sets the asset version. v may be a string, a fmt.Stringer,
// nil, or a callable resolved through the Invoker each time Version is
// read:
//
//	f.SetVersion("1.0.3")
//	f.SetVersion(inertia.VersionFromFile("public/build/manifest.json"))
func (f *Factory) SetVersion(v any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.version = v
}

// Version returns the current asset version as a string. A nil version
// or a failing resolver yields "".
func (f *Factory) Version() string {
	f.mu.RLock()
	v, inv := f.version, f.invoker
	f.mu.RUnlock()

	if isCallable(v) {
		resolved, err := inv.Invoke(context.Background(), nil, v)
		if err != nil {
			f.logger.Warn("inertia: version resolver failed", "error", err)
			return ""
		}
		v = resolved
	}

	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

// Lazy wraps callback into a LazyProp.
func (f *Factory) Lazy(callback any) *LazyProp {
	return Lazy(callback)
}

// Render builds a page for component. Shared props are merged under the
// given props, so local keys win.
func (f *Factory) Render(component string, props Mappable) *Page {
	f.mu.RLock()
	merged := f.shared.Clone()
	rootView := f.rootView
	f.mu.RUnlock()

	merged.Merge(toProps(props))

	return &Page{
		factory:   f,
		component: component,
		props:     merged,
		rootView:  rootView,
		version:   f.Version(),
		viewData:  make(map[string]any),
		context:   DefaultContext,
	}
}

// Page is an alias for Render.
func (f *Factory) Page(component string, props Mappable) *Page {
	return f.Render(component, props)
}

// Dialog builds a page rendered as a dialog.
func (f *Factory) Dialog(component string, props Mappable) *Page {
	return f.Render(component, props).Dialog()
}

// Location tells the client to leave the SPA and visit url with a full
// browser navigation. Protocol requests get 409 with X-Inertia-Location;
// other requests get a plain 302 redirect.
//
// This is how a stale asset version is recovered from.
func (f *Factory) Location(r *http.Request, url string) *Response {
	if IsInertia(r) {
		h := make(http.Header)
		h.Set(HeaderLocation, url)
		return &Response{Status: http.StatusConflict, Header: h}
	}
	return Redirect(url, http.StatusFound)
}

// LocationFrom is Location for an existing redirect: protocol requests get
// 409 pointing at its target, other requests get the redirect itself.
func (f *Factory) LocationFrom(r *http.Request, redirect *Response) *Response {
	if IsInertia(r) {
		return f.Location(r, redirect.TargetURL())
	}
	return redirect
}

func (f *Factory) newResolver(ctx context.Context, r *http.Request) *resolver {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return &resolver{ctx: ctx, req: r, invoker: f.invoker, maxDepth: f.maxDepth}
}

func (f *Factory) view(name string) (ViewFunc, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.views[name]
	return v, ok
}
