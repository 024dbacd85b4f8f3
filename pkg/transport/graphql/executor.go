// Package graphql sends GraphQL operations over HTTP.
//
// An Executor is bound to one endpoint and a set of default transport
// Options. Each call to Execute serializes the document, POSTs a single JSON
// payload and returns a Call immediately; the request proceeds in the
// background until it completes or the Call is aborted.
//
//	exec, err := graphql.NewExecutor("https://example.com/graphql", &graphql.Options{
//		Headers: map[string]string{"Authorization": "Bearer token"},
//		Cache:   graphql.CacheNoStore,
//	})
//	call, err := exec.Execute(ctx, graphql.Query(`query { hello }`))
//	resp, err := call.Wait()
//
// The response is returned unopened. A GraphQL error list inside a 200
// response is for the caller to inspect.
package graphql

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/saturnines/nexus-gql/pkg/errors"
)

// Executor dispatches GraphQL requests to one endpoint. It holds no mutable
// state and is safe for concurrent use.
type Executor struct {
	endpoint *url.URL
	defaults *Options
	doer     HTTPDoer
}

// NewExecutor parses endpoint and returns an Executor for it. defaults may be
// nil.
func NewExecutor(endpoint string, defaults *Options, opts ...ExecutorOption) (*Executor, error) {
	u, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrInvalidEndpoint, "parse endpoint")
	}
	return NewExecutorURL(u, defaults, opts...)
}

// NewExecutorURL is NewExecutor for an already parsed endpoint. The URL is
// copied.
func NewExecutorURL(endpoint *url.URL, defaults *Options, opts ...ExecutorOption) (*Executor, error) {
	if endpoint == nil {
		return nil, errors.WrapError(fmt.Errorf("endpoint is nil"), errors.ErrInvalidEndpoint, "parse endpoint")
	}
	if endpoint.Scheme != "http" && endpoint.Scheme != "https" {
		return nil, errors.WrapError(
			fmt.Errorf("scheme must be http or https, got %q", endpoint.Scheme),
			errors.ErrInvalidEndpoint,
			"parse endpoint",
		)
	}
	if endpoint.Host == "" {
		return nil, errors.WrapError(fmt.Errorf("host is empty"), errors.ErrInvalidEndpoint, "parse endpoint")
	}

	u := *endpoint
	if endpoint.User != nil {
		user := *endpoint.User
		u.User = &user
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment, u.RawFragment = "", ""

	e := &Executor{
		endpoint: &u,
		defaults: defaults,
		doer:     http.DefaultClient,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// URL returns the normalized endpoint.
func (e *Executor) URL() string {
	return e.endpoint.String()
}

// Options returns the defaults passed at construction, or nil.
func (e *Executor) Options() *Options {
	return e.defaults
}

// Execute serializes doc and dispatches it. Serialization and request-building
// failures are returned directly and nothing is sent. Everything after
// dispatch is reported through the returned Call.
//
// Cancelling ctx aborts the call as well.
func (e *Executor) Execute(ctx context.Context, doc Document, opts ...ExecuteOption) (*Call, error) {
	if doc == nil {
		return nil, errors.WrapError(fmt.Errorf("document is nil"), errors.ErrSerialization, "serialize document")
	}
	text, err := doc.Serialize()
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrSerialization, "serialize document")
	}

	payload := Payload{Query: text}
	for _, opt := range opts {
		opt(&payload)
	}

	callCtx, cancel := context.WithCancelCause(ctx)
	b := &Builder{Endpoint: e.endpoint, Payload: payload, Options: e.defaults}
	req, err := b.Build(callCtx)
	if err != nil {
		cancel(nil)
		return nil, err
	}

	c := newCall(callCtx, cancel, req)
	go c.run(e.doer, req)
	return c, nil
}
