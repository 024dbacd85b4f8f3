package graphql

import (
	"net/http"

	"github.com/saturnines/nexus-gql/pkg/auth"
)

// CacheMode selects the cache directives sent with every request.
type CacheMode string

const (
	CacheDefault      CacheMode = "default"
	CacheNoStore      CacheMode = "no-store"
	CacheReload       CacheMode = "reload"
	CacheNoCache      CacheMode = "no-cache"
	CacheForceCache   CacheMode = "force-cache"
	CacheOnlyIfCached CacheMode = "only-if-cached"
)

// Credentials controls whether credentials are attached to requests.
type Credentials string

const (
	CredentialsSameOrigin Credentials = "same-origin"
	CredentialsInclude    Credentials = "include"
	CredentialsOmit       Credentials = "omit"
)

// Options are the transport defaults merged into every request an Executor
// sends. The executor never modifies them; callers sharing an Options value
// across executors must not modify it either.
type Options struct {
	// Headers are sent with every request. Content-Type is always
	// application/json regardless of what is set here.
	Headers map[string]string

	Cache       CacheMode
	Credentials Credentials

	// Auth is applied after Headers unless Credentials is CredentialsOmit.
	Auth auth.Handler
}

// cacheHeaders returns the request headers implied by m.
func (m CacheMode) cacheHeaders() http.Header {
	h := make(http.Header)
	switch m {
	case CacheNoStore:
		h.Set("Cache-Control", "no-store")
	case CacheReload, CacheNoCache:
		h.Set("Cache-Control", "no-cache")
		h.Set("Pragma", "no-cache")
	case CacheOnlyIfCached:
		h.Set("Cache-Control", "only-if-cached")
	}
	return h
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithHTTPDoer swaps the transport. The default is http.DefaultClient.
func WithHTTPDoer(doer HTTPDoer) ExecutorOption {
	return func(e *Executor) {
		if doer != nil {
			e.doer = doer
		}
	}
}

// ExecuteOption configures a single Execute call.
type ExecuteOption func(*Payload)

// WithVariables sends vars as the variables object. Passing an empty
// non-nil map sends {}.
func WithVariables(vars map[string]any) ExecuteOption {
	return func(p *Payload) {
		if vars == nil {
			return
		}
		if p.Variables == nil {
			p.Variables = make(map[string]any, len(vars))
		}
		for k, v := range vars {
			p.Variables[k] = v
		}
	}
}

// WithVariable sets a single variable.
func WithVariable(key string, value any) ExecuteOption {
	return func(p *Payload) {
		if p.Variables == nil {
			p.Variables = make(map[string]any)
		}
		p.Variables[key] = value
	}
}

// WithOperationName selects one named operation in the document. An empty
// name is ignored, so it neither sets nor clears operationName.
func WithOperationName(name string) ExecuteOption {
	return func(p *Payload) {
		if name == "" {
			return
		}
		p.OperationName = name
	}
}
