package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/pthm/inertia"
	"github.com/pthm/inertia/internal/demo"
	"github.com/spf13/cobra"
)

type fetchOptions struct {
	method    string
	protocol  bool
	partial   string
	component string
	context   string
	version   string
	form      []string
}

func fetchCmd(configPath *string) *cobra.Command {
	var opts fetchOptions

	cmd := &cobra.Command{
		Use:   "fetch <path>",
		Short: "Send one request through the demo in process",
		Long: `Send a single request through the demo application without a
network listener and print the status, protocol headers and body.

Examples:
  inertia fetch /users
  inertia fetch /users --inertia
  inertia fetch /users --inertia --partial=stats --component=Users/Index
  inertia fetch /users/2 --inertia --context=default
  inertia fetch /users/2 --method=PUT --inertia --form name=Bea`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			app := buildApp(cfg, newLogger(cfg), prometheus.NewRegistry())
			return runFetch(cmd.OutOrStdout(), app, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.method, "method", "X", http.MethodGet, "HTTP method")
	cmd.Flags().BoolVarP(&opts.protocol, "inertia", "i", false, "Send X-Inertia and the current asset version")
	cmd.Flags().StringVar(&opts.partial, "partial", "", "X-Inertia-Partial-Data (comma separated props)")
	cmd.Flags().StringVar(&opts.component, "component", "", "X-Inertia-Partial-Component")
	cmd.Flags().StringVar(&opts.context, "context", "", "X-Inertia-Context")
	cmd.Flags().StringVar(&opts.version, "asset-version", "", "X-Inertia-Version to send instead of the current one")
	cmd.Flags().StringArrayVarP(&opts.form, "form", "F", nil, "Form field as key=value (repeatable)")

	return cmd
}

func runFetch(w io.Writer, app *demo.App, target string, opts fetchOptions) error {
	form := url.Values{}
	for _, kv := range opts.form {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("invalid form field %q, want key=value", kv)
		}
		form.Add(key, value)
	}

	req := httptest.NewRequest(strings.ToUpper(opts.method), target, strings.NewReader(form.Encode()))
	if len(form) > 0 {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if opts.protocol {
		version := opts.version
		if version == "" {
			version = app.Factory.Version()
		}
		req.Header.Set(inertia.HeaderInertia, "true")
		req.Header.Set(inertia.HeaderVersion, version)
	}
	setIf(req.Header, inertia.HeaderPartialData, opts.partial)
	setIf(req.Header, inertia.HeaderPartialComponent, opts.component)
	setIf(req.Header, inertia.HeaderContext, opts.context)

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	fmt.Fprintf(w, "%d %s\n", rec.Code, http.StatusText(rec.Code))
	for _, key := range []string{"Content-Type", "Location", inertia.HeaderInertia, inertia.HeaderLocation, "Vary"} {
		if v := rec.Header().Get(key); v != "" {
			fmt.Fprintf(w, "%s: %s\n", key, v)
		}
	}
	fmt.Fprintln(w)

	out := rec.Body.Bytes()
	if rec.Header().Get(inertia.HeaderInertia) != "" {
		var indented bytes.Buffer
		if err := json.Indent(&indented, out, "", "  "); err == nil {
			out = indented.Bytes()
		}
	}
	_, err := w.Write(append(out, '\n'))
	return err
}

func setIf(h http.Header, key, value string) {
	if value != "" {
		h.Set(key, value)
	}
}
