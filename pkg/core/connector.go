package core

import (
	"context"
	"fmt"
	"os"

	"github.com/saturnines/nexus-gql/pkg/auth"
	"github.com/saturnines/nexus-gql/pkg/config"
	"github.com/saturnines/nexus-gql/pkg/errors"
	"github.com/saturnines/nexus-gql/pkg/transport/graphql"
)

// Connector pairs a profile with the executor built from it.
type Connector struct {
	profile  *config.Profile
	executor *graphql.Executor
}

// NewConnector builds the executor described by p.
func NewConnector(p *config.Profile, opts ...graphql.ExecutorOption) (*Connector, error) {
	if p == nil {
		return nil, errors.WrapError(fmt.Errorf("profile is nil"), errors.ErrConfiguration, "new connector")
	}

	defaults, err := OptionsFromProfile(p)
	if err != nil {
		return nil, err
	}

	exec, err := graphql.NewExecutor(p.Endpoint, defaults, opts...)
	if err != nil {
		return nil, err
	}
	return &Connector{profile: p, executor: exec}, nil
}

// OptionsFromProfile converts the profile's transport settings.
func OptionsFromProfile(p *config.Profile) (*graphql.Options, error) {
	h, err := auth.CreateHandler(p.Auth)
	if err != nil {
		return nil, err
	}

	opts := &graphql.Options{
		Cache:       graphql.CacheMode(p.Cache),
		Credentials: graphql.Credentials(p.Credentials),
		Auth:        h,
	}
	if len(p.Headers) > 0 {
		opts.Headers = make(map[string]string, len(p.Headers))
		for k, v := range p.Headers {
			opts.Headers[k] = v
		}
	}
	return opts, nil
}

// Executor returns the underlying executor.
func (c *Connector) Executor() *graphql.Executor {
	return c.executor
}

// Profile returns the profile the connector was built from.
func (c *Connector) Profile() *config.Profile {
	return c.profile
}

// Document returns the profile's query, from query or query_file.
func (c *Connector) Document() (graphql.Document, error) {
	switch {
	case c.profile.Query != "":
		return ParseDocument(c.profile.Name, c.profile.Query)
	case c.profile.QueryFile != "":
		return LoadDocument(c.profile.QueryFile)
	default:
		return nil, errors.WrapError(fmt.Errorf("profile %q has no query", c.profile.Name), errors.ErrConfiguration, "load document")
	}
}

// Execute sends doc with the profile's variables and operation name applied
// first, so opts can override them.
func (c *Connector) Execute(ctx context.Context, doc graphql.Document, opts ...graphql.ExecuteOption) (*graphql.Call, error) {
	all := make([]graphql.ExecuteOption, 0, len(opts)+2)
	if c.profile.Variables != nil {
		all = append(all, graphql.WithVariables(c.profile.Variables))
	}
	if c.profile.OperationName != "" {
		all = append(all, graphql.WithOperationName(c.profile.OperationName))
	}
	all = append(all, opts...)
	return c.executor.Execute(ctx, doc, all...)
}

// LoadDocument reads and parses a .graphql file.
func LoadDocument(path string) (graphql.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrConfiguration, "read query file")
	}
	return ParseDocument(path, string(data))
}
