package auth

import (
	"encoding/base64"
	"net/http"
	"strings"
	"testing"

	"github.com/saturnines/nexus-gql/pkg/config"
	"github.com/saturnines/nexus-gql/pkg/errors"
)

// Helper functions for tests
func assertHeader(t *testing.T, req *http.Request, header, expected string) {
	t.Helper()
	if value := req.Header.Get(header); value != expected {
		t.Errorf("Expected %s header '%s', got '%s'", header, expected, value)
	}
}

func assertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	if err == nil {
		t.Errorf("Expected error containing '%s', got nil", expected)
		return
	}
	if !strings.Contains(err.Error(), expected) {
		t.Errorf("Expected error containing '%s', got '%s'", expected, err.Error())
	}
}

func newRequest(t *testing.T) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, "https://api.example.com/graphql", nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	return req
}

func TestAPIKeyAuth(t *testing.T) {
	t.Run("HeaderBased", func(t *testing.T) {
		req := newRequest(t)
		if err := NewAPIKeyAuth("X-API-Key", "", "k1").ApplyAuth(req); err != nil {
			t.Fatalf("ApplyAuth failed: %v", err)
		}
		assertHeader(t, req, "X-API-Key", "k1")
	})

	t.Run("QueryBased", func(t *testing.T) {
		req := newRequest(t)
		if err := NewAPIKeyAuth("", "api_key", "k1").ApplyAuth(req); err != nil {
			t.Fatalf("ApplyAuth failed: %v", err)
		}
		if got := req.URL.Query().Get("api_key"); got != "k1" {
			t.Errorf("Expected api_key query param 'k1', got '%s'", got)
		}
	})

	t.Run("MissingValue", func(t *testing.T) {
		err := NewAPIKeyAuth("X-API-Key", "", "").ApplyAuth(newRequest(t))
		assertErrorContains(t, err, "API key value is required")
		if !errors.Is(err, errors.ErrAuthentication) {
			t.Errorf("Expected ErrAuthentication, got %v", err)
		}
	})

	t.Run("MissingHeaderAndQuery", func(t *testing.T) {
		err := NewAPIKeyAuth("", "", "k1").ApplyAuth(newRequest(t))
		assertErrorContains(t, err, "requires either header name or query parameter name")
	})

	t.Run("StringRedactsValue", func(t *testing.T) {
		str := NewAPIKeyAuth("X-API-Key", "", "secret").String()
		if strings.Contains(str, "secret") {
			t.Errorf("String() leaked the key: %s", str)
		}
	})
}

func TestBasicAuth(t *testing.T) {
	t.Run("ValidCredentials", func(t *testing.T) {
		req := newRequest(t)
		if err := NewBasicAuth("user", "pass").ApplyAuth(req); err != nil {
			t.Fatalf("ApplyAuth failed: %v", err)
		}
		encoded := base64.StdEncoding.EncodeToString([]byte("user:pass"))
		assertHeader(t, req, "Authorization", "Basic "+encoded)
	})

	t.Run("EmptyPassword", func(t *testing.T) {
		req := newRequest(t)
		if err := NewBasicAuth("user", "").ApplyAuth(req); err != nil {
			t.Fatalf("ApplyAuth with empty password failed: %v", err)
		}
		encoded := base64.StdEncoding.EncodeToString([]byte("user:"))
		assertHeader(t, req, "Authorization", "Basic "+encoded)
	})

	t.Run("EmptyUsername", func(t *testing.T) {
		err := NewBasicAuth("", "pass").ApplyAuth(newRequest(t))
		assertErrorContains(t, err, "username is empty")
	})
}

func TestBearerAuth(t *testing.T) {
	t.Run("ValidToken", func(t *testing.T) {
		req := newRequest(t)
		if err := NewBearerAuth("tok").ApplyAuth(req); err != nil {
			t.Fatalf("ApplyAuth failed: %v", err)
		}
		assertHeader(t, req, "Authorization", "Bearer tok")
	})

	t.Run("EmptyToken", func(t *testing.T) {
		err := NewBearerAuth("").ApplyAuth(newRequest(t))
		assertErrorContains(t, err, "token is empty")
	})

	t.Run("StringRedactsToken", func(t *testing.T) {
		if str := NewBearerAuth("tok").String(); strings.Contains(str, "tok)") {
			t.Errorf("String() leaked the token: %s", str)
		}
	})
}

func TestCreateHandler(t *testing.T) {
	t.Run("NilConfig", func(t *testing.T) {
		h, err := CreateHandler(nil)
		if err != nil || h != nil {
			t.Fatalf("Expected nil handler and nil error, got %v, %v", h, err)
		}
	})

	t.Run("Bearer", func(t *testing.T) {
		h, err := CreateHandler(&config.Auth{
			Type:   config.AuthTypeBearer,
			Bearer: &config.BearerAuth{Token: "tok"},
		})
		if err != nil {
			t.Fatalf("CreateHandler failed: %v", err)
		}
		if _, ok := h.(*BearerAuth); !ok {
			t.Fatalf("Expected *BearerAuth, got %T", h)
		}
	})

	t.Run("MissingBlock", func(t *testing.T) {
		_, err := CreateHandler(&config.Auth{Type: config.AuthTypeBasic})
		assertErrorContains(t, err, "basic configuration is required")
		if !errors.Is(err, errors.ErrConfiguration) {
			t.Errorf("Expected ErrConfiguration, got %v", err)
		}
	})

	t.Run("UnknownType", func(t *testing.T) {
		_, err := CreateHandler(&config.Auth{Type: "oauth2"})
		assertErrorContains(t, err, "unsupported auth type: oauth2")
	})

	t.Run("CustomCreator", func(t *testing.T) {
		r := NewRegistry()
		r.Register("static", func(*config.Auth) (Handler, error) {
			return HandlerFunc(func(req *http.Request) error {
				req.Header.Set("X-Static", "1")
				return nil
			}), nil
		})
		h, err := r.Create(&config.Auth{Type: "static"})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		req := newRequest(t)
		if err := h.ApplyAuth(req); err != nil {
			t.Fatalf("ApplyAuth failed: %v", err)
		}
		assertHeader(t, req, "X-Static", "1")
	})
}
