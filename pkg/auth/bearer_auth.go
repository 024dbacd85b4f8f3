package auth

import (
	"fmt"
	"net/http"

	"github.com/saturnines/nexus-gql/pkg/errors"
)

// BearerAuth sends a static bearer token
type BearerAuth struct {
	Token string // static, never refreshed
}

// NewBearerAuth creates a new bearer token handler
func NewBearerAuth(token string) *BearerAuth {
	return &BearerAuth{Token: token}
}

// ApplyAuth sets "Authorization: Bearer <token>".
func (b *BearerAuth) ApplyAuth(req *http.Request) error {
	// Validate inputs
	if b.Token == "" {
		return errors.WrapError(
			fmt.Errorf("token is empty"),
			errors.ErrAuthentication,
			"apply bearer auth",
		)
	}
	req.Header.Set("Authorization", "Bearer "+b.Token)
	return nil
}

// String is safe to log
func (b *BearerAuth) String() string {
	// Keep the token out of logs and errors
	return "BearerAuth(token: [REDACTED])"
}
