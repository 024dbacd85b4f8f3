package auth

import (
	"fmt"
	"net/http"

	"github.com/saturnines/nexus-gql/pkg/errors"
)

// BasicAuth sends HTTP basic credentials
type BasicAuth struct {
	Username string // sent as-is, must not be empty
	Password string // may be empty
}

// NewBasicAuth creates a new basic authentication handler
func NewBasicAuth(username, password string) *BasicAuth {
	return &BasicAuth{
		Username: username,
		Password: password,
	}
}

// ApplyAuth sets the Authorization header. An empty password is allowed.
func (b *BasicAuth) ApplyAuth(req *http.Request) error {
	// Validate inputs
	if b.Username == "" {
		return errors.WrapError(
			fmt.Errorf("username is empty"),
			errors.ErrAuthentication,
			"apply basic auth",
		)
	}
	// net/http does the base64 encoding
	req.SetBasicAuth(b.Username, b.Password)
	return nil
}

// String names the user but never the password
func (b *BasicAuth) String() string {
	return fmt.Sprintf("BasicAuth(username: %s)", b.Username)
}
