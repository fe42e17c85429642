package integra

import (
	"context"
	"fmt"
	"strings"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-integra/auth"
	"github.com/goliatone/go-integra/core"
	"github.com/goliatone/go-integra/templates"
	"github.com/goliatone/go-integra/transport"
)

// Client is the entry point for the Integra Contador gateway: it owns
// the credential lifecycle, the template registry, and the HTTP
// execution layer.
type Client struct {
	config      core.Config
	environment core.Environment
	parties     core.RequestParties
	registry    *templates.Registry
	manager     *auth.Manager
	staticToken string
	executor    *transport.Executor
	logger      core.Logger
	errorMapper core.ErrorMapper
}

// NewClient resolves the configuration and assembles a client. Trial
// sessions authenticate with the published trial token; production
// sessions need certificate credentials, a static token, or a
// previously saved credential snapshot.
func NewClient(cfg core.Config, opts ...Option) (*Client, error) {
	options := clientOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&options)
	}

	_, logger := glog.Resolve("integra", options.loggerProvider, options.logger)

	ctx := context.Background()
	resolved, err := core.ResolveConfig(ctx, cfg, options.configProvider, options.optionsResolver)
	if err != nil {
		return nil, err
	}

	environment := resolved.ParsedEnvironment()

	client := &Client{
		config:      resolved,
		environment: environment,
		parties:     resolved.Parties(),
		logger:      logger,
		errorMapper: options.errorMapper,
	}
	if client.errorMapper == nil {
		client.errorMapper = core.IntegraErrorMapper
	}
	client.registry = options.registry
	if client.registry == nil {
		client.registry = templates.DefaultRegistry()
	}

	tokenSource, staticToken, err := resolveTokenSource(ctx, resolved, environment, options, logger)
	if err != nil {
		return nil, err
	}
	if manager, ok := tokenSource.(*auth.Manager); ok {
		client.manager = manager
	}
	client.staticToken = staticToken

	transportClient := options.transportClient
	if transportClient == nil {
		transportClient = transport.NewRetryingClient(transport.RetryingClientConfig{
			MaxRetries:  resolved.HTTP.MaxRetries,
			BackoffBase: resolved.HTTP.RetryBackoff(),
			Logger:      logger,
		})
	}

	executor, err := transport.NewExecutor(transport.ExecutorConfig{
		BaseURL:     resolved.ResolvedBaseURL(),
		Environment: environment,
		TokenSource: tokenSource,
		StaticToken: staticToken,
		Client:      transportClient,
		Timeout:     resolved.HTTP.Timeout(),
		Logger:      logger,
		Metrics:     options.metrics,
	})
	if err != nil {
		return nil, err
	}
	client.executor = executor

	return client, nil
}

func resolveTokenSource(
	ctx context.Context,
	cfg core.Config,
	environment core.Environment,
	options clientOptions,
	logger core.Logger,
) (core.TokenSource, string, error) {
	if options.tokenSource != nil {
		return options.tokenSource, "", nil
	}
	if token := strings.TrimSpace(cfg.Token); token != "" {
		return nil, token, nil
	}
	if !environment.IsProduction() {
		// The trial gateway accepts the published token for everyone.
		return nil, core.TrialToken, nil
	}

	managerConfig := auth.ManagerConfig{
		ConsumerKey:         cfg.ConsumerKey,
		ConsumerSecret:      cfg.ConsumerSecret,
		CertificatePath:     cfg.CertificatePath,
		CertificatePassword: cfg.CertificatePassword,
		Environment:         environment,
		StorageDir:          cfg.StorageDir,
		Store:               options.tokenStore,
		Acquirer:            options.acquirer,
		HTTPClient:          options.httpClient,
		Logger:              logger,
		Metrics:             options.metrics,
	}

	if strings.TrimSpace(cfg.ConsumerKey) != "" {
		manager, err := auth.NewManager(managerConfig)
		if err != nil {
			return nil, "", err
		}
		return manager, "", nil
	}

	// No inline credentials: fall back to a credential snapshot saved by
	// an earlier production session.
	manager, ok, err := auth.FromSavedConfig(ctx, managerConfig)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", &core.ConfigurationError{
			Field:   "credentials",
			Message: "production requires certificate credentials, a static token, or a saved configuration",
		}
	}
	return manager, "", nil
}

// Execute validates the service input against its template, wraps it in
// the gateway envelope, and posts it to the template's endpoint.
func (c *Client) Execute(ctx context.Context, systemID, serviceID string, dados map[string]any) (map[string]any, error) {
	if c == nil || c.executor == nil {
		return nil, fmt.Errorf("integra: client is not configured")
	}
	template, err := c.registry.Lookup(systemID, serviceID)
	if err != nil {
		return nil, c.wrap(err)
	}
	return c.executeTemplate(ctx, template, c.parties, dados)
}

// ExecuteWithParties overrides the configured actor triple for one call.
func (c *Client) ExecuteWithParties(
	ctx context.Context,
	parties core.RequestParties,
	systemID, serviceID string,
	dados map[string]any,
) (map[string]any, error) {
	if c == nil || c.executor == nil {
		return nil, fmt.Errorf("integra: client is not configured")
	}
	template, err := c.registry.Lookup(systemID, serviceID)
	if err != nil {
		return nil, c.wrap(err)
	}
	return c.executeTemplate(ctx, template, parties, dados)
}

func (c *Client) executeTemplate(
	ctx context.Context,
	template templates.Template,
	parties core.RequestParties,
	dados map[string]any,
) (map[string]any, error) {
	envelope, err := templates.BuildRequest(parties, template, dados)
	if err != nil {
		return nil, c.wrap(err)
	}
	payload, err := c.executor.Execute(ctx, template.Descriptor().Endpoint, envelope)
	if err != nil {
		return nil, c.wrap(err)
	}
	return payload, nil
}

// The named operations mirror the gateway endpoints. Each verifies the
// template is registered against that endpoint before executing.

func (c *Client) Consultar(ctx context.Context, systemID, serviceID string, dados map[string]any) (map[string]any, error) {
	return c.executeOn(ctx, "Consultar", systemID, serviceID, dados)
}

func (c *Client) Emitir(ctx context.Context, systemID, serviceID string, dados map[string]any) (map[string]any, error) {
	return c.executeOn(ctx, "Emitir", systemID, serviceID, dados)
}

func (c *Client) Declarar(ctx context.Context, systemID, serviceID string, dados map[string]any) (map[string]any, error) {
	return c.executeOn(ctx, "Declarar", systemID, serviceID, dados)
}

func (c *Client) Transmitir(ctx context.Context, systemID, serviceID string, dados map[string]any) (map[string]any, error) {
	return c.executeOn(ctx, "Transmitir", systemID, serviceID, dados)
}

func (c *Client) Apoiar(ctx context.Context, systemID, serviceID string, dados map[string]any) (map[string]any, error) {
	return c.executeOn(ctx, "Apoiar", systemID, serviceID, dados)
}

func (c *Client) Monitorar(ctx context.Context, systemID, serviceID string, dados map[string]any) (map[string]any, error) {
	return c.executeOn(ctx, "Monitorar", systemID, serviceID, dados)
}

func (c *Client) executeOn(ctx context.Context, endpoint, systemID, serviceID string, dados map[string]any) (map[string]any, error) {
	if c == nil || c.executor == nil {
		return nil, fmt.Errorf("integra: client is not configured")
	}
	template, err := c.registry.Lookup(systemID, serviceID)
	if err != nil {
		return nil, c.wrap(err)
	}
	if descriptor := template.Descriptor(); descriptor.Endpoint != endpoint {
		return nil, c.wrap(&core.ConfigurationError{
			Field: "service_id",
			Message: fmt.Sprintf("service %s/%s is a %s operation, not %s",
				descriptor.System, descriptor.Service, descriptor.Endpoint, endpoint),
		})
	}
	return c.executeTemplate(ctx, template, c.parties, dados)
}

// Authenticate returns a usable token, acquiring one if necessary.
// Sessions running on a static token report it as-is.
func (c *Client) Authenticate(ctx context.Context) (core.Token, error) {
	if c == nil {
		return core.Token{}, fmt.Errorf("integra: client is not configured")
	}
	if c.manager != nil {
		token, err := c.manager.GetToken(ctx)
		if err != nil {
			return core.Token{}, c.wrap(err)
		}
		return token, nil
	}
	return c.staticTokenValue(), nil
}

// RefreshToken forces a new acquisition regardless of cache freshness.
func (c *Client) RefreshToken(ctx context.Context) (core.Token, error) {
	if c == nil {
		return core.Token{}, fmt.Errorf("integra: client is not configured")
	}
	if c.manager != nil {
		token, err := c.manager.Refresh(ctx)
		if err != nil {
			return core.Token{}, c.wrap(err)
		}
		return token, nil
	}
	return c.staticTokenValue(), nil
}

func (c *Client) staticTokenValue() core.Token {
	return core.Token{
		AccessToken: c.staticToken,
		TokenType:   "Bearer",
	}
}

// ClearCache drops the in-memory token; stored tokens survive.
func (c *Client) ClearCache() {
	if c == nil || c.manager == nil {
		return
	}
	c.manager.ClearCache()
}

// ClearStoredToken drops both the in-memory and the persisted token.
func (c *Client) ClearStoredToken(ctx context.Context) error {
	if c == nil || c.manager == nil {
		return nil
	}
	c.manager.ClearStoredToken(ctx)
	return nil
}

// SaveConfig persists the credential snapshot for later sessions.
func (c *Client) SaveConfig(ctx context.Context) error {
	if c == nil || c.manager == nil {
		return fmt.Errorf("integra: no credential-backed session to save")
	}
	return c.manager.SaveConfig(ctx)
}

func (c *Client) Environment() core.Environment {
	if c == nil {
		return ""
	}
	return c.environment
}

func (c *Client) Config() core.Config {
	if c == nil {
		return core.Config{}
	}
	return c.config
}

func (c *Client) Registry() *templates.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

func (c *Client) wrap(err error) error {
	if err == nil {
		return nil
	}
	if mapped := c.errorMapper(err); mapped != nil {
		return mapped
	}
	return err
}
