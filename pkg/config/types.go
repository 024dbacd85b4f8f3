package config

// Profile is one GraphQL endpoint plus the defaults sent with every request
type Profile struct {
	Name        string            `yaml:"name"`                  // Required: unique identifier
	Description string            `yaml:"description,omitempty"` // Optional description
	Endpoint    string            `yaml:"endpoint"`              // Required absolute URL
	Headers     map[string]string `yaml:"headers,omitempty"`     // Default headers
	Cache       CacheMode         `yaml:"cache,omitempty"`       // Cache mode, default "default"
	Credentials Credentials       `yaml:"credentials,omitempty"` // Credentials policy, default "same-origin"
	Auth        *Auth             `yaml:"auth,omitempty"`        // Optional static credentials

	// Optional request defaults used by the CLI
	Query         string         `yaml:"query,omitempty"`
	QueryFile     string         `yaml:"query_file,omitempty"`
	OperationName string         `yaml:"operation_name,omitempty"`
	Variables     map[string]any `yaml:"variables,omitempty"`
}

// CacheMode mirrors the fetch cache modes
type CacheMode string

const (
	CacheDefault      CacheMode = "default"
	CacheNoStore      CacheMode = "no-store"
	CacheReload       CacheMode = "reload"
	CacheNoCache      CacheMode = "no-cache"
	CacheForceCache   CacheMode = "force-cache"
	CacheOnlyIfCached CacheMode = "only-if-cached"
)

// Credentials mirrors the fetch credentials policies
type Credentials string

const (
	CredentialsSameOrigin Credentials = "same-origin"
	CredentialsInclude    Credentials = "include"
	CredentialsOmit       Credentials = "omit"
)

// Auth defines static credentials.
type Auth struct {
	Type   AuthType    `yaml:"type"`
	Basic  *BasicAuth  `yaml:"basic,omitempty"`
	Bearer *BearerAuth `yaml:"bearer,omitempty"`
	APIKey *APIKeyAuth `yaml:"api_key,omitempty"`
}

// AuthType names a supported credential kind
type AuthType string

const (
	AuthTypeBasic  AuthType = "basic"
	AuthTypeBearer AuthType = "bearer"
	AuthTypeAPIKey AuthType = "api_key"
)

type BasicAuth struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type BearerAuth struct {
	Token string `yaml:"token"`
}

// APIKeyAuth sends a key as a header and/or query parameter
type APIKeyAuth struct {
	Header     string `yaml:"header,omitempty"`
	QueryParam string `yaml:"query_param,omitempty"`
	Value      string `yaml:"value"`
}
