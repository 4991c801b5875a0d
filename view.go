package inertia

import (
	"context"
	"encoding/json"
	"html"
	"io"

	"github.com/a-h/templ"
)

// DefaultRootView is the root view name a Factory starts with.
const DefaultRootView = "app"

// ViewFunc builds the root document for a full page load.
//
// data holds the page's view data plus the page object under "page".
// Use Root inside your own templates to emit the mount element:
//
//	f := inertia.New(inertia.WithView("app", func(data map[string]any) templ.Component {
//	    return layout(data["title"], inertia.Root(data["page"]))
//	}))
type ViewFunc func(data map[string]any) templ.Component

// Root returns the element the client mounts on:
//
//	<div id="app" data-page="{...}"></div>
//
// The page object is JSON encoded and HTML escaped into data-page.
func Root(page any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		data, err := json.Marshal(page)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, `<div id="app" data-page="`+html.EscapeString(string(data))+`"></div>`)
		return err
	})
}

// DefaultView renders a minimal HTML document around Root.
//
// Recognized view data: "title" (document title) and "entry" (a script URL
// loaded as a module).
func DefaultView(data map[string]any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title, _ := data["title"].(string)
		entry, _ := data["entry"].(string)

		head := `<!DOCTYPE html><html><head><meta charset="utf-8"><title>` + html.EscapeString(title) + `</title>`
		if entry != "" {
			head += `<script type="module" src="` + html.EscapeString(entry) + `"></script>`
		}
		if _, err := io.WriteString(w, head+`</head><body>`); err != nil {
			return err
		}
		if err := Root(data["page"]).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}
