package integra

import (
	"github.com/goliatone/go-integra/auth"
	"github.com/goliatone/go-integra/core"
	"github.com/goliatone/go-integra/templates"
	"github.com/goliatone/go-integra/transport"
)

// Option customizes client construction beyond what Config carries.
type Option func(*clientOptions)

type clientOptions struct {
	logger          core.Logger
	loggerProvider  core.LoggerProvider
	metrics         core.MetricsRecorder
	configProvider  core.ConfigProvider
	optionsResolver core.OptionsResolver
	tokenStore      core.TokenStore
	tokenSource     core.TokenSource
	httpClient      core.HTTPDoer
	transportClient *transport.RetryingClient
	acquirer        auth.TokenAcquirer
	registry        *templates.Registry
	errorMapper     core.ErrorMapper
}

func WithLogger(logger core.Logger) Option {
	return func(options *clientOptions) {
		options.logger = logger
	}
}

func WithLoggerProvider(provider core.LoggerProvider) Option {
	return func(options *clientOptions) {
		options.loggerProvider = provider
	}
}

func WithMetrics(metrics core.MetricsRecorder) Option {
	return func(options *clientOptions) {
		options.metrics = metrics
	}
}

func WithConfigProvider(provider core.ConfigProvider) Option {
	return func(options *clientOptions) {
		options.configProvider = provider
	}
}

func WithOptionsResolver(resolver core.OptionsResolver) Option {
	return func(options *clientOptions) {
		options.optionsResolver = resolver
	}
}

// WithTokenStore swaps the file-backed token store, e.g. for the SQL
// store in store/sql.
func WithTokenStore(store core.TokenStore) Option {
	return func(options *clientOptions) {
		options.tokenStore = store
	}
}

// WithTokenSource bypasses the built-in auth manager entirely.
func WithTokenSource(source core.TokenSource) Option {
	return func(options *clientOptions) {
		options.tokenSource = source
	}
}

// WithHTTPClient is handed to the token acquirer, mostly for tests.
func WithHTTPClient(client core.HTTPDoer) Option {
	return func(options *clientOptions) {
		options.httpClient = client
	}
}

// WithTransportClient overrides the retrying gateway client.
func WithTransportClient(client *transport.RetryingClient) Option {
	return func(options *clientOptions) {
		options.transportClient = client
	}
}

func WithTokenAcquirer(acquirer auth.TokenAcquirer) Option {
	return func(options *clientOptions) {
		options.acquirer = acquirer
	}
}

// WithRegistry replaces the built-in template registry.
func WithRegistry(registry *templates.Registry) Option {
	return func(options *clientOptions) {
		options.registry = registry
	}
}

func WithErrorMapper(mapper core.ErrorMapper) Option {
	return func(options *clientOptions) {
		options.errorMapper = mapper
	}
}
