package inertia

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
)

// Response is a fully buffered HTTP response.
//
// Pages finalize into a Response so that a dialog's base page, which is
// captured from an in-process dispatch, can be returned untouched. Response
// implements http.Handler by replaying itself.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// ServeHTTP writes the buffered response to w.
func (resp *Response) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	h := w.Header()
	for key, values := range resp.Header {
		h[key] = append([]string(nil), values...)
	}
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write(resp.Body)
}

// IsRedirect reports whether the response is a redirect with a target.
func (resp *Response) IsRedirect() bool {
	switch resp.Status {
	case http.StatusCreated, http.StatusMovedPermanently, http.StatusFound,
		http.StatusSeeOther, http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return resp.TargetURL() != ""
	}
	return false
}

// TargetURL returns the Location header.
func (resp *Response) TargetURL() string {
	return resp.Header.Get("Location")
}

// IsInertia reports whether the response carries the protocol marker.
func (resp *Response) IsInertia() bool {
	return resp.Header.Get(HeaderInertia) != ""
}

// Redirect builds a redirect response to url.
func Redirect(url string, status int) *Response {
	h := make(http.Header)
	h.Set("Location", url)
	return &Response{Status: status, Header: h}
}

func jsonResponse(v any) (*Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	h.Set(HeaderInertia, "true")
	h.Set("Vary", HeaderInertia)
	return &Response{Status: http.StatusOK, Header: h, Body: body}, nil
}

// capture runs h against r and buffers what it writes.
func capture(h http.Handler, r *http.Request) *Response {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return &Response{
		Status: rec.Code,
		Header: rec.Header().Clone(),
		Body:   rec.Body.Bytes(),
	}
}
