package graphql

import "net/http"

// HTTPDoer is the minimal transport the executor dispatches through.
// *http.Client satisfies it.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// DoerFunc adapts a function to HTTPDoer.
type DoerFunc func(*http.Request) (*http.Response, error)

// Do calls f(req).
func (f DoerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }
