// Package container wires core tasknest services using go.uber.org/dig.
package container

import (
	"fmt"

	"go.uber.org/dig"

	"github.com/tasknest/tasknest/internal/agent"
	"github.com/tasknest/tasknest/internal/auth"
	"github.com/tasknest/tasknest/internal/channels"
	"github.com/tasknest/tasknest/internal/chat"
	"github.com/tasknest/tasknest/internal/config"
	"github.com/tasknest/tasknest/internal/digest"
	"github.com/tasknest/tasknest/internal/gateway"
	"github.com/tasknest/tasknest/internal/providers"
	"github.com/tasknest/tasknest/internal/schema"
	"github.com/tasknest/tasknest/internal/store"
	"github.com/tasknest/tasknest/internal/tools"
)

// Container holds the resolved service singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type Container struct {
	st       *store.Store
	chatSvc  *chat.Service
	server   *gateway.Server
	manager  *channels.Manager
	digest   *digest.Service
	provider schema.LLMProvider
}

func (c *Container) Store() *store.Store           { return c.st }
func (c *Container) Chat() *chat.Service           { return c.chatSvc }
func (c *Container) Gateway() *gateway.Server      { return c.server }
func (c *Container) Channels() *channels.Manager   { return c.manager }
func (c *Container) Digest() *digest.Service       { return c.digest }
func (c *Container) Provider() schema.LLMProvider  { return c.provider }
func (c *Container) ModelBacked() bool             { return c.provider != nil }

// Close releases held resources, currently just the store.
func (c *Container) Close() error { return c.st.Close() }

// New builds and wires all services from cfg.
func New(cfg *config.Config) (*Container, error) {
	d := dig.New()

	constructors := []any{
		func() *config.Config { return cfg },
		newStore,
		newRegistry,
		newExecutor,
		newProvider,
		newRunner,
		newChatService,
		newAuthService,
		newGateway,
		newChannelManager,
		newDigest,
	}
	for _, p := range constructors {
		if err := d.Provide(p); err != nil {
			return nil, fmt.Errorf("container: %w", err)
		}
	}

	var result *Container
	err := d.Invoke(func(
		st *store.Store,
		chatSvc *chat.Service,
		server *gateway.Server,
		manager *channels.Manager,
		dg *digest.Service,
		provider schema.LLMProvider,
	) {
		result = &Container{
			st:       st,
			chatSvc:  chatSvc,
			server:   server,
			manager:  manager,
			digest:   dg,
			provider: provider,
		}
	})
	if err != nil {
		return nil, fmt.Errorf("container: %w", err)
	}
	return result, nil
}

func newStore(cfg *config.Config) (*store.Store, error) {
	return store.Open(cfg.Database.Path)
}

func newRegistry(st *store.Store) (*tools.Registry, error) {
	reg := tools.NewRegistry()
	if err := tools.RegisterTaskTools(reg, st); err != nil {
		return nil, err
	}
	return reg, nil
}

func newExecutor(reg *tools.Registry) *tools.Executor {
	return tools.NewExecutor(reg)
}

// newProvider returns nil when no backend is configured; the chat service
// then runs on the deterministic parser.
func newProvider(cfg *config.Config) schema.LLMProvider {
	if !cfg.ModelEnabled() {
		return nil
	}
	return providers.NewOpenAIProvider(cfg.Provider.APIKey, cfg.Provider.APIBase, cfg.Provider.Model)
}

func newRunner(cfg *config.Config, provider schema.LLMProvider, reg *tools.Registry, exec *tools.Executor) *agent.Runner {
	if provider == nil {
		return nil
	}
	return agent.NewRunner(provider, reg, exec, agent.Settings{
		Model:       cfg.Provider.Model,
		MaxTokens:   cfg.Provider.MaxTokens,
		Temperature: cfg.Provider.Temperature,
		MaxIter:     cfg.Provider.MaxToolIter,
	})
}

func newChatService(st *store.Store, exec *tools.Executor, runner *agent.Runner) *chat.Service {
	return chat.NewService(st, exec, runner)
}

func newAuthService(cfg *config.Config) *auth.Service {
	return auth.NewService(cfg.Auth.Secret, cfg.Auth.TokenTTLDays)
}

func newGateway(cfg *config.Config, authSvc *auth.Service, st *store.Store, chatSvc *chat.Service) *gateway.Server {
	return gateway.NewServer(cfg.Server.Host, cfg.Server.Port, authSvc, st, chatSvc)
}

func newChannelManager(cfg *config.Config, chatSvc *chat.Service, st *store.Store) *channels.Manager {
	return channels.NewManager(cfg, chatSvc, st)
}

func newDigest(cfg *config.Config, st *store.Store, manager *channels.Manager) *digest.Service {
	return digest.NewService(st, manager, cfg.Digest.Schedule)
}
