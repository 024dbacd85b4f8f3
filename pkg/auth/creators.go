package auth

import (
	"fmt"

	"github.com/saturnines/nexus-gql/pkg/config"
	"github.com/saturnines/nexus-gql/pkg/errors"
)

func createBasicAuth(cfg *config.Auth) (Handler, error) {
	if cfg.Basic == nil {
		return nil, missingBlock("basic")
	}
	return NewBasicAuth(cfg.Basic.Username, cfg.Basic.Password), nil
}

func createBearerAuth(cfg *config.Auth) (Handler, error) {
	if cfg.Bearer == nil {
		return nil, missingBlock("bearer")
	}
	return NewBearerAuth(cfg.Bearer.Token), nil
}

func createAPIKeyAuth(cfg *config.Auth) (Handler, error) {
	if cfg.APIKey == nil {
		return nil, missingBlock("api_key")
	}
	return NewAPIKeyAuth(cfg.APIKey.Header, cfg.APIKey.QueryParam, cfg.APIKey.Value), nil
}

func missingBlock(name string) error {
	return errors.WrapError(
		fmt.Errorf("%s configuration is required", name),
		errors.ErrConfiguration,
		"create "+name+" auth",
	)
}
