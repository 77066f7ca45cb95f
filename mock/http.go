// Package mock provides canned HTTP round trips for tests of the GitHub API clients.
package mock

import (
	"io"
	"net/http"
	"strings"
)

type transport struct {
	f func(*http.Request) (*http.Response, error)
}

func (t *transport) RoundTrip(r *http.Request) (*http.Response, error) {
	return t.f(r)
}

// NewHTTPClient returns a client whose transport answers every request with f.
func NewHTTPClient(f func(*http.Request) (*http.Response, error)) *http.Client {
	return &http.Client{
		Transport: &transport{f: f},
	}
}

// NewJSONResponse returns a response to r carrying body as JSON.
func NewJSONResponse(r *http.Request, code int, body string) *http.Response {
	return &http.Response{
		Status:     http.StatusText(code),
		StatusCode: code,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    r,
	}
}
