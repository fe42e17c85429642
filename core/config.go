package core

import (
	"fmt"
	"strings"
	"time"
)

type PartyConfig struct {
	Number string `koanf:"number" mapstructure:"number"`
	Type   int    `koanf:"type" mapstructure:"type"`
}

func (c PartyConfig) toParty() Party {
	return Party{Number: strings.TrimSpace(c.Number), Type: PartyType(c.Type)}
}

type HTTPConfig struct {
	TimeoutSeconds      int     `koanf:"timeout_seconds" mapstructure:"timeout_seconds"`
	MaxRetries          int     `koanf:"max_retries" mapstructure:"max_retries"`
	RetryBackoffSeconds float64 `koanf:"retry_backoff_seconds" mapstructure:"retry_backoff_seconds"`
}

func (c HTTPConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c HTTPConfig) RetryBackoff() time.Duration {
	if c.RetryBackoffSeconds <= 0 {
		return time.Second
	}
	return time.Duration(c.RetryBackoffSeconds * float64(time.Second))
}

type Config struct {
	Environment string `koanf:"environment" mapstructure:"environment"`

	// Token is a static bearer token. Trial defaults to the published
	// trial token; production accepts one as an alternative to
	// certificate credentials.
	Token string `koanf:"token" mapstructure:"token"`

	ConsumerKey         string `koanf:"consumer_key" mapstructure:"consumer_key"`
	ConsumerSecret      string `koanf:"consumer_secret" mapstructure:"consumer_secret"`
	CertificatePath     string `koanf:"certificate_path" mapstructure:"certificate_path"`
	CertificatePassword string `koanf:"certificate_password" mapstructure:"certificate_password"`

	// StorageDir overrides where token.json and config.json live.
	StorageDir string `koanf:"storage_dir" mapstructure:"storage_dir"`

	// BaseURL overrides the environment's gateway URL, mostly for tests.
	BaseURL string `koanf:"base_url" mapstructure:"base_url"`

	Contratante      PartyConfig `koanf:"contratante" mapstructure:"contratante"`
	AutorPedidoDados PartyConfig `koanf:"autor_pedido_dados" mapstructure:"autor_pedido_dados"`
	Contribuinte     PartyConfig `koanf:"contribuinte" mapstructure:"contribuinte"`

	HTTP HTTPConfig `koanf:"http" mapstructure:"http"`
}

func DefaultConfig() Config {
	return Config{
		Environment: string(EnvironmentTrial),
		HTTP: HTTPConfig{
			TimeoutSeconds:      30,
			MaxRetries:          3,
			RetryBackoffSeconds: 1.0,
		},
	}
}

func (c Config) Validate() error {
	if _, err := ParseEnvironment(c.Environment); err != nil {
		return err
	}
	if c.HTTP.MaxRetries < 0 {
		return fmt.Errorf("core: http.max_retries cannot be negative")
	}
	if c.HTTP.TimeoutSeconds < 0 {
		return fmt.Errorf("core: http.timeout_seconds cannot be negative")
	}
	if c.HTTP.RetryBackoffSeconds < 0 {
		return fmt.Errorf("core: http.retry_backoff_seconds cannot be negative")
	}

	hasCredentials := strings.TrimSpace(c.ConsumerKey) != "" ||
		strings.TrimSpace(c.ConsumerSecret) != "" ||
		strings.TrimSpace(c.CertificatePath) != ""
	if hasCredentials && strings.TrimSpace(c.Token) != "" {
		return fmt.Errorf("core: token and certificate credentials are mutually exclusive")
	}
	return nil
}

// ParsedEnvironment returns the typed environment; Validate guarantees it
// parses on a validated config.
func (c Config) ParsedEnvironment() Environment {
	env, err := ParseEnvironment(c.Environment)
	if err != nil {
		return EnvironmentTrial
	}
	return env
}

// ResolvedBaseURL prefers the explicit override over the environment URL.
func (c Config) ResolvedBaseURL() string {
	if url := strings.TrimSpace(c.BaseURL); url != "" {
		return strings.TrimRight(url, "/")
	}
	return c.ParsedEnvironment().APIBaseURL()
}

// Parties materializes the configured actor triple.
func (c Config) Parties() RequestParties {
	return RequestParties{
		Contratante:      c.Contratante.toParty(),
		AutorPedidoDados: c.AutorPedidoDados.toParty(),
		Contribuinte:     c.Contribuinte.toParty(),
	}
}
