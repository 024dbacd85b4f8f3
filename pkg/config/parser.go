package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/saturnines/nexus-gql/pkg/errors"
)

// ValidationError describes one invalid field
type ValidationError struct {
	Field   string
	Message string
}

// Returns the string representation of validation error
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validator checks a loaded profile
type Validator interface {
	Validate(p *Profile) []ValidationError
}

// DefaultValueSetter fills in unset fields
type DefaultValueSetter interface {
	SetDefaults(p *Profile)
}

// VariableExpander rewrites raw config bytes before parsing
type VariableExpander interface {
	Expand(data []byte) []byte
}

// EnvExpander expands ${VAR} and ${VAR:-default} from the process
// environment. Bare $name is left alone since GraphQL variables use it.
type EnvExpander struct{}

var envRef = regexp.MustCompile(`\$\{(\w+)(?::-([^}]*))?\}`)

// Expand expands environment variables with the given data
func (e *EnvExpander) Expand(data []byte) []byte {
	return envRef.ReplaceAllFunc(data, func(ref []byte) []byte {
		m := envRef.FindSubmatch(ref)
		// Look up the variable
		if v, ok := os.LookupEnv(string(m[1])); ok && v != "" {
			return []byte(v)
		}
		// Fall back to the default, if any
		return m[2]
	})
}

// ProfileLoader reads profile YAML files
type ProfileLoader struct {
	expander      VariableExpander
	validators    []Validator
	defaultSetter DefaultValueSetter
}

// NewProfileLoader creates a new ProfileLoader with the given components
func NewProfileLoader(
	expander VariableExpander,
	defaultSetter DefaultValueSetter,
	validators ...Validator,
) *ProfileLoader {
	return &ProfileLoader{
		expander:      expander,
		validators:    validators,
		defaultSetter: defaultSetter,
	}
}

// DefaultLoader expands the environment, applies ProfileDefaults and runs
// every built-in validator.
func DefaultLoader() *ProfileLoader {
	return NewProfileLoader(
		&EnvExpander{},
		&ProfileDefaults{},
		&RequiredFieldValidator{},
		&EndpointValidator{},
		&TransportOptionsValidator{},
		&AuthValidator{},
	)
}

// Load reads a profile from a YAML file and validates it.
func (l *ProfileLoader) Load(path string) (*Profile, error) {
	p, err := l.Read(path)
	if err != nil {
		return nil, err
	}
	if err := l.Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Read is Load without validation, for callers that still have overrides to
// merge. A relative query_file is resolved against the directory of path.
func (l *ProfileLoader) Read(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrConfiguration, "read profile")
	}

	p, err := l.decode(data)
	if err != nil {
		return nil, err
	}
	if p.QueryFile != "" && !filepath.IsAbs(p.QueryFile) {
		p.QueryFile = filepath.Join(filepath.Dir(path), p.QueryFile)
	}
	return p, nil
}

// Parse parses a yaml profile
func (l *ProfileLoader) Parse(data []byte) (*Profile, error) {
	p, err := l.decode(data)
	if err != nil {
		return nil, err
	}
	if err := l.Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (l *ProfileLoader) decode(data []byte) (*Profile, error) {
	if l.expander != nil {
		data = l.expander.Expand(data)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, errors.WrapError(err, errors.ErrConfiguration, "parse YAML")
	}

	// Apply defaults
	if l.defaultSetter != nil {
		l.defaultSetter.SetDefaults(&p)
	}
	return &p, nil
}

// Validate runs every validator and joins what they report.
func (l *ProfileLoader) Validate(p *Profile) error {
	var all []ValidationError
	for _, v := range l.validators {
		all = append(all, v.Validate(p)...)
	}
	if len(all) > 0 {
		return errors.WrapError(joinValidation(all), errors.ErrValidation, "invalid profile")
	}
	return nil
}

func joinValidation(errs []ValidationError) error {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

// ProfileDefaults implements DefaultValueSetter for Profile
type ProfileDefaults struct{}

// SetDefaults sets default cache mode and credentials policy
func (d *ProfileDefaults) SetDefaults(p *Profile) {
	if p.Cache == "" {
		p.Cache = CacheDefault
	}
	if p.Credentials == "" {
		p.Credentials = CredentialsSameOrigin
	}
	p.Endpoint = strings.TrimSpace(p.Endpoint)
}

// RequiredFieldValidator validates required fields
type RequiredFieldValidator struct{}

// Validate checks that name and endpoint are present
func (v *RequiredFieldValidator) Validate(p *Profile) []ValidationError {
	var errs []ValidationError
	if p.Name == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "is required"})
	}
	if p.Endpoint == "" {
		errs = append(errs, ValidationError{Field: "endpoint", Message: "is required"})
	}
	if p.Query != "" && p.QueryFile != "" {
		errs = append(errs, ValidationError{Field: "query", Message: "query and query_file are mutually exclusive"})
	}
	return errs
}

// EndpointValidator checks the endpoint is an absolute http(s) URL
type EndpointValidator struct{}

func (v *EndpointValidator) Validate(p *Profile) []ValidationError {
	if p.Endpoint == "" {
		return nil
	}
	u, err := url.Parse(p.Endpoint)
	if err != nil {
		return []ValidationError{{Field: "endpoint", Message: err.Error()}}
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return []ValidationError{{Field: "endpoint", Message: "must be an absolute http or https URL"}}
	}
	return nil
}

// TransportOptionsValidator checks cache and credentials values
type TransportOptionsValidator struct{}

func (v *TransportOptionsValidator) Validate(p *Profile) []ValidationError {
	var errs []ValidationError
	switch p.Cache {
	case "", CacheDefault, CacheNoStore, CacheReload, CacheNoCache, CacheForceCache, CacheOnlyIfCached:
	default:
		errs = append(errs, ValidationError{Field: "cache", Message: fmt.Sprintf("unknown cache mode: %s", p.Cache)})
	}
	switch p.Credentials {
	case "", CredentialsSameOrigin, CredentialsInclude, CredentialsOmit:
	default:
		errs = append(errs, ValidationError{Field: "credentials", Message: fmt.Sprintf("unknown credentials policy: %s", p.Credentials)})
	}
	return errs
}

// AuthValidator handles authentication validation
type AuthValidator struct{}

// Validate checks that the block matching auth.type is filled in
func (v *AuthValidator) Validate(p *Profile) []ValidationError {
	if p.Auth == nil {
		return nil
	}

	var errs []ValidationError
	switch p.Auth.Type {
	case AuthTypeBasic:
		if p.Auth.Basic == nil {
			errs = append(errs, ValidationError{Field: "auth.basic", Message: "is required for basic auth"})
		} else if p.Auth.Basic.Username == "" {
			errs = append(errs, ValidationError{Field: "auth.basic.username", Message: "is required for basic auth"})
		}
	case AuthTypeBearer:
		if p.Auth.Bearer == nil || p.Auth.Bearer.Token == "" {
			errs = append(errs, ValidationError{Field: "auth.bearer.token", Message: "is required for bearer auth"})
		}
	case AuthTypeAPIKey:
		if p.Auth.APIKey == nil {
			errs = append(errs, ValidationError{Field: "auth.api_key", Message: "is required for api_key auth"})
			break
		}
		if p.Auth.APIKey.Value == "" {
			errs = append(errs, ValidationError{Field: "auth.api_key.value", Message: "is required for api_key auth"})
		}
		if p.Auth.APIKey.Header == "" && p.Auth.APIKey.QueryParam == "" {
			errs = append(errs, ValidationError{Field: "auth.api_key", Message: "either header or query_param must be specified for api_key auth"})
		}
	default:
		errs = append(errs, ValidationError{Field: "auth.type", Message: fmt.Sprintf("unknown auth type: %s", p.Auth.Type)})
	}
	return errs
}
