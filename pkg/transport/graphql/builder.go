package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/saturnines/nexus-gql/pkg/errors"
)

// Builder turns a payload and the executor defaults into an *http.Request.
type Builder struct {
	Endpoint *url.URL
	Payload  Payload
	Options  *Options
}

// Build creates the POST request. Header precedence, lowest first: default
// headers, cache directives, credentials, then the fixed Content-Type.
func (b *Builder) Build(ctx context.Context) (*http.Request, error) {
	body, err := json.Marshal(b.Payload)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrSerialization, "encode payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.Endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrInvalidEndpoint, "build request")
	}

	opts := b.Options
	if opts == nil {
		opts = &Options{}
	}

	// Defaults first, everything below may override them
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	for k, vs := range opts.Cache.cacheHeaders() {
		req.Header[k] = vs
	}

	// omit drops credentials even when they came in through Headers
	if opts.Credentials == CredentialsOmit {
		req.Header.Del("Authorization")
		req.Header.Del("Cookie")
	} else if opts.Auth != nil {
		if err := opts.Auth.ApplyAuth(req); err != nil {
			return nil, err
		}
	}

	// Always last so nothing above can change it
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}
