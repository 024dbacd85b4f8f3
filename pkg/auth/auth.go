package auth

import (
	"fmt"
	"net/http"

	"github.com/saturnines/nexus-gql/pkg/errors"
)

// Handler applies static credentials to an outgoing request.
type Handler interface {
	ApplyAuth(req *http.Request) error
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(req *http.Request) error

// ApplyAuth calls f(req).
func (f HandlerFunc) ApplyAuth(req *http.Request) error { return f(req) }

// APIKeyAuth sends a fixed key in a header, a query parameter, or both.
type APIKeyAuth struct {
	HeaderName string // e.g. "X-API-Key"
	QueryParam string // e.g. "api_key"
	Value      string
}

// NewAPIKeyAuth creates a new API key handler.
func NewAPIKeyAuth(headerName, queryParam, value string) *APIKeyAuth {
	return &APIKeyAuth{
		HeaderName: headerName,
		QueryParam: queryParam,
		Value:      value,
	}
}

// ApplyAuth sets the key on req.
func (a *APIKeyAuth) ApplyAuth(req *http.Request) error {
	// Validate inputs
	if a.Value == "" {
		return errors.WrapError(
			fmt.Errorf("API key value is required"),
			errors.ErrAuthentication,
			"apply api key auth",
		)
	}
	if a.HeaderName == "" && a.QueryParam == "" {
		return errors.WrapError(
			fmt.Errorf("API key auth requires either header name or query parameter name"),
			errors.ErrConfiguration,
			"apply api key auth",
		)
	}

	// Header and query param can both be set
	if a.HeaderName != "" {
		req.Header.Set(a.HeaderName, a.Value)
	}
	if a.QueryParam != "" {
		q := req.URL.Query()
		q.Set(a.QueryParam, a.Value)
		req.URL.RawQuery = q.Encode()
	}
	return nil
}

// String never includes the key itself.
func (a *APIKeyAuth) String() string {
	if a.HeaderName != "" {
		return fmt.Sprintf("APIKeyAuth(header: %s)", a.HeaderName)
	}
	return fmt.Sprintf("APIKeyAuth(query: %s)", a.QueryParam)
}
