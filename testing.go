package inertia

import (
	"encoding/json"
	"html"
	"net/http"
	"net/http/httptest"
	"strings"
)

// TestResult holds the outcome of serving a page or handler for testing.
//
// Page is the decoded page object, taken from the JSON body of a protocol
// response or from the data-page attribute of an HTML response. It is nil
// when neither is present (redirects, passthrough responses).
type TestResult struct {
	StatusCode int
	Headers    http.Header
	Body       string
	Page       map[string]any
}

// TestPage finalizes page against r and returns testable output.
//
// Use this for unit tests of a single page when you control the request:
//
//	req := httptest.NewRequest("GET", "/users", nil)
//	req.Header.Set(inertia.HeaderInertia, "true")
//	result, err := inertia.TestPage(page, req)
//	if result.Component() != "Users/Index" {
//	    t.Fatal("wrong component")
//	}
func TestPage(page *Page, r *http.Request) (*TestResult, error) {
	resp, err := page.ToResponse(r)
	if err != nil {
		return nil, err
	}
	return newTestResult(resp.Status, resp.Header, resp.Body), nil
}

// TestRequest sends a request through h and returns testable output.
//
// Use this for integration tests that go through routing and Middleware:
//
//	result := inertia.TestRequest(router, "GET", "/users", map[string]string{
//	    inertia.HeaderInertia: "true",
//	})
func TestRequest(h http.Handler, method, target string, headers map[string]string) *TestResult {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return newTestResult(rec.Code, rec.Header(), rec.Body.Bytes())
}

func newTestResult(status int, header http.Header, body []byte) *TestResult {
	result := &TestResult{
		StatusCode: status,
		Headers:    header,
		Body:       string(body),
	}

	if header.Get(HeaderInertia) != "" {
		var page map[string]any
		if err := json.Unmarshal(body, &page); err == nil {
			result.Page = page
		}
		return result
	}

	result.Page = parsePageFromHTML(result.Body)
	return result
}

// IsJSON checks if the response is a protocol (JSON) response.
func (r *TestResult) IsJSON() bool {
	return r.Headers.Get(HeaderInertia) == "true"
}

// Component returns the page object's component, or "".
func (r *TestResult) Component() string {
	s, _ := r.Page["component"].(string)
	return s
}

// Props returns the page object's props, or nil.
func (r *TestResult) Props() map[string]any {
	props, _ := r.Page["props"].(map[string]any)
	return props
}

// Prop looks up a prop by dotted path.
func (r *TestResult) Prop(path string) (any, bool) {
	var current any = r.Props()
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = m[segment]; !ok {
			return nil, false
		}
	}
	return current, true
}

// HasProp checks if a prop exists at the dotted path.
func (r *TestResult) HasProp(path string) bool {
	_, ok := r.Prop(path)
	return ok
}

// DialogObject returns the page object's dialog, or nil.
func (r *TestResult) DialogObject() map[string]any {
	d, _ := r.Page["dialog"].(map[string]any)
	return d
}

// BodyContains checks if the body contains a substring.
func (r *TestResult) BodyContains(substr string) bool {
	return strings.Contains(r.Body, substr)
}

// IsOK checks if the status code is 200.
func (r *TestResult) IsOK() bool {
	return r.StatusCode == http.StatusOK
}

// HasStatus checks if the status code matches.
func (r *TestResult) HasStatus(code int) bool {
	return r.StatusCode == code
}

// HasHeader checks if a header is set with the given value.
func (r *TestResult) HasHeader(key, value string) bool {
	return r.Headers.Get(key) == value
}

// GetHeader returns the value of a header.
func (r *TestResult) GetHeader(key string) string {
	return r.Headers.Get(key)
}

// parsePageFromHTML extracts the data-page attribute written by Root.
func parsePageFromHTML(body string) map[string]any {
	const marker = `data-page="`
	start := strings.Index(body, marker)
	if start < 0 {
		return nil
	}
	start += len(marker)
	end := strings.Index(body[start:], `"`)
	if end < 0 {
		return nil
	}

	var page map[string]any
	if err := json.Unmarshal([]byte(html.UnescapeString(body[start:start+end])), &page); err != nil {
		return nil
	}
	return page
}
