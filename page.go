package inertia

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultContext is the dialog context a page renders in unless Context is
// called.
const DefaultContext = "default"

// maxBaseRedirects bounds how many redirects a dialog's base page may go
// through before giving up.
const maxBaseRedirects = 10

// Page is one screen: a client component name, its props and the metadata
// needed to answer either a full page load or a client-side visit.
//
// Pages are built by a Factory and configured with the chainable methods
// below before being served. They implement http.Handler:
//
//	r.Get("/users", func(w http.ResponseWriter, r *http.Request) {
//	    f.Render("Users/Index", inertia.P("users", users)).ServeHTTP(w, r)
//	})
type Page struct {
	factory     *Factory
	component   string
	props       *Props
	rootView    string
	version     string
	viewData    map[string]any
	dialog      bool
	basePageURL string
	context     string
}

// Component returns the client component name.
func (p *Page) Component() string {
	return p.component
}

// Props returns the page's merged props, unresolved.
func (p *Page) Props() *Props {
	return p.props
}

// Version returns the asset version captured when the page was built.
func (p *Page) Version() string {
	return p.version
}

// IsDialog reports whether the page renders as a dialog.
func (p *Page) IsDialog() bool {
	return p.dialog
}

// Dialog marks the page as a dialog.
func (p *Page) Dialog() *Page {
	p.dialog = true
	return p
}

// Context sets the dialog context. A client already rendering in this
// context gets the dialog page directly, without a base page.
func (p *Page) Context(name string) *Page {
	p.context = name
	return p
}

// BasePageURL sets the page a dialog is overlaid on when visited directly.
func (p *Page) BasePageURL(url string) *Page {
	p.basePageURL = url
	return p
}

// With sets a single prop.
func (p *Page) With(key string, value any) *Page {
	p.props.Set(key, value)
	return p
}

// WithProps merges props at the top level.
func (p *Page) WithProps(values Mappable) *Page {
	p.props.Merge(toProps(values))
	return p
}

// WithViewData sets a value only the root view sees.
func (p *Page) WithViewData(key string, value any) *Page {
	p.viewData[key] = value
	return p
}

// WithViewDataMap merges values into the view data.
func (p *Page) WithViewDataMap(values map[string]any) *Page {
	maps.Copy(p.viewData, values)
	return p
}

// RootView overrides the factory's root view for this page.
func (p *Page) RootView(name string) *Page {
	p.rootView = name
	return p
}

// ServeHTTP finalizes the page and writes it. Errors go to the factory's
// OnError.
func (p *Page) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp, err := p.ToResponse(r)
	if err != nil {
		p.factory.OnError(w, r, err)
		return
	}
	resp.ServeHTTP(w, r)
}

// ToResponse finalizes the page against r:
//
//  1. Props are narrowed to X-Inertia-Partial-Data when
//     X-Inertia-Partial-Component names this component; otherwise lazy
//     props are dropped.
//  2. The remaining props are resolved.
//  3. A dialog with a base page URL, requested outside its own context,
//     dispatches the base page through the kernel and is attached to its
//     page object. A base page that answers with anything other than a
//     page object or a redirect is returned as is.
//  4. Protocol requests get the page object as JSON; others get the root
//     view.
func (p *Page) ToResponse(r *http.Request) (*Response, error) {
	f := p.factory

	ctx, span := f.tracer.Start(r.Context(), "inertia.render",
		trace.WithAttributes(
			attribute.String("inertia.component", p.component),
			attribute.Bool("inertia.dialog", p.dialog),
		),
	)
	defer span.End()

	resp, format, err := p.finalize(ctx, r)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("inertia.format", format))
	f.metrics.pageFinalized(p.component, format)
	return resp, nil
}

func (p *Page) finalize(ctx context.Context, r *http.Request) (*Response, string, error) {
	f := p.factory

	start := time.Now()
	props, err := f.newResolver(ctx, r).resolve(p.selectProps(r))
	f.metrics.observeResolve(time.Since(start))
	if err != nil {
		return nil, "", err
	}

	var page *Props
	if p.dialog && p.basePageURL != "" && RequestContext(r) != p.context {
		base, passthrough, err := p.dispatchBase(ctx, r)
		if err != nil {
			return nil, "", err
		}
		if passthrough != nil {
			return passthrough, "passthrough", nil
		}
		page = base.Set("dialog", P(
			"component", p.component,
			"props", props,
			"url", r.URL.RequestURI(),
			"eager", true,
		))
	} else {
		kind := "page"
		if p.dialog {
			kind = "dialog"
		}
		page = P(
			"component", p.component,
			"props", props,
			"url", r.URL.RequestURI(),
			"version", p.version,
			"type", kind,
			"dialog", nil,
			"context", p.context,
		)
	}

	if IsInertia(r) {
		resp, err := jsonResponse(page)
		return resp, "json", err
	}
	resp, err := p.renderView(ctx, page)
	return resp, "html", err
}

// selectProps applies the partial reload rules.
func (p *Page) selectProps(r *http.Request) *Props {
	only := PartialData(r)
	if len(only) > 0 && PartialComponent(r) == p.component {
		p.factory.logger.Debug("inertia: partial reload",
			"component", p.component, "only", only)
		p.factory.metrics.partialReload(p.component)
		return p.props.Only(only)
	}

	selected := NewProps()
	p.props.Each(func(key string, value any) {
		if _, lazy := value.(*LazyProp); !lazy {
			selected.Set(key, value)
		}
	})
	return selected
}

// dispatchBase renders the dialog's base page through the kernel,
// following redirects. It returns either the base page object or, when
// the base route answered with a non-protocol response, that response.
func (p *Page) dispatchBase(ctx context.Context, r *http.Request) (*Props, *Response, error) {
	f := p.factory
	kernel := f.Kernel()
	if kernel == nil {
		return nil, nil, ErrNoKernel
	}

	target := p.basePageURL
	for i := 0; i <= maxBaseRedirects; i++ {
		sub, err := p.baseRequest(ctx, r, target)
		if err != nil {
			return nil, nil, err
		}

		f.logger.Debug("inertia: dispatching dialog base page",
			"component", p.component, "url", target)

		resp := p.dispatch(ctx, kernel, sub)

		if resp.IsRedirect() {
			f.metrics.dialogDispatch("redirect")
			target = resolveTarget(sub.URL, resp.TargetURL())
			continue
		}
		if !resp.IsInertia() {
			f.metrics.dialogDispatch("passthrough")
			return nil, resp, nil
		}

		f.metrics.dialogDispatch("page")
		base := NewProps()
		if err := json.Unmarshal(resp.Body, base); err != nil {
			return nil, nil, fmt.Errorf("%w: %s: %v", ErrInvalidBasePage, target, err)
		}
		return base, nil, nil
	}
	return nil, nil, fmt.Errorf("%w: started at %s", ErrTooManyRedirects, p.basePageURL)
}

func (p *Page) dispatch(ctx context.Context, kernel http.Handler, sub *http.Request) *Response {
	_, span := p.factory.tracer.Start(ctx, "inertia.dialog.dispatch",
		trace.WithAttributes(attribute.String("inertia.base_url", sub.URL.String())),
	)
	defer span.End()

	resp := capture(kernel, sub)
	span.SetAttributes(attribute.Int("http.status_code", resp.Status))
	return resp
}

// baseRequest builds the GET request for a dialog's base page: the
// original headers, marked as a protocol visit at this page's version.
func (p *Page) baseRequest(ctx context.Context, r *http.Request, target string) (*http.Request, error) {
	sub, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	sub.Header = r.Header.Clone()
	sub.Header.Set("Accept", "text/html, application/xhtml+xml")
	sub.Header.Set(HeaderRequestedWith, "XMLHttpRequest")
	sub.Header.Set(HeaderInertia, "true")
	sub.Header.Set(HeaderVersion, p.version)
	if sub.Host == "" {
		sub.Host = r.Host
	}
	sub.RemoteAddr = r.RemoteAddr
	return sub, nil
}

func (p *Page) renderView(ctx context.Context, page *Props) (*Response, error) {
	view, ok := p.factory.view(p.rootView)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrViewNotFound, p.rootView)
	}

	// View data keys take precedence over the page object.
	data := map[string]any{"page": page}
	maps.Copy(data, p.viewData)

	var buf bytes.Buffer
	if err := view(data).Render(ctx, &buf); err != nil {
		return nil, err
	}

	h := make(http.Header)
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("Vary", HeaderInertia)
	return &Response{Status: http.StatusOK, Header: h, Body: buf.Bytes()}, nil
}

// resolveTarget resolves a Location header against the request it
// answered.
func resolveTarget(base *url.URL, location string) string {
	loc, err := url.Parse(location)
	if err != nil {
		return location
	}
	return base.ResolveReference(loc).String()
}
