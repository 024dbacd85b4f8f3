package auth

import (
	"fmt"
	"sync"

	"github.com/saturnines/nexus-gql/pkg/config"
	"github.com/saturnines/nexus-gql/pkg/errors"
)

// Creator builds a Handler from its config block
type Creator func(*config.Auth) (Handler, error)

// Registry maps config auth types to creators
type Registry struct {
	creators map[config.AuthType]Creator
	mu       sync.RWMutex
}

// DefaultRegistry knows basic, bearer and api_key.
var DefaultRegistry = NewRegistry()

// NewRegistry creates a registry with the built-in handlers registered
func NewRegistry() *Registry {
	r := &Registry{
		creators: make(map[config.AuthType]Creator),
	}
	r.Register(config.AuthTypeBasic, createBasicAuth)
	r.Register(config.AuthTypeBearer, createBearerAuth)
	r.Register(config.AuthTypeAPIKey, createAPIKeyAuth)
	return r
}

// Register adds or replaces the creator for authType
func (r *Registry) Register(authType config.AuthType, creator Creator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creators[authType] = creator
}

// Create returns the handler for cfg. A nil cfg yields a nil handler.
func (r *Registry) Create(cfg *config.Auth) (Handler, error) {
	if cfg == nil {
		return nil, nil
	}

	r.mu.RLock()
	creator, ok := r.creators[cfg.Type]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.WrapError(
			fmt.Errorf("unsupported auth type: %s", cfg.Type),
			errors.ErrConfiguration,
			"invalid auth type",
		)
	}
	return creator(cfg)
}

// CreateHandler uses DefaultRegistry.
func CreateHandler(cfg *config.Auth) (Handler, error) {
	return DefaultRegistry.Create(cfg)
}
