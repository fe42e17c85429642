package core

import (
	"context"
	"testing"
	"time"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.ParsedEnvironment() != EnvironmentTrial {
		t.Fatalf("default environment = %q", cfg.ParsedEnvironment())
	}
	if cfg.HTTP.Timeout() != 30*time.Second {
		t.Fatalf("default timeout = %v", cfg.HTTP.Timeout())
	}
	if cfg.HTTP.RetryBackoff() != time.Second {
		t.Fatalf("default backoff = %v", cfg.HTTP.RetryBackoff())
	}
}

func TestConfigValidateRejectsMixedAuthModes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Token = "static"
	cfg.ConsumerKey = "key"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected mutual exclusion error")
	}
}

func TestConfigValidateRejectsUnknownEnvironment(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Environment = "staging"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected environment error")
	}
}

func TestConfigResolvedBaseURL(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.ResolvedBaseURL(); got != APIBaseURLTrial {
		t.Fatalf("trial base url = %q", got)
	}
	cfg.Environment = string(EnvironmentProduction)
	if got := cfg.ResolvedBaseURL(); got != APIBaseURLProduction {
		t.Fatalf("production base url = %q", got)
	}
	cfg.BaseURL = "http://localhost:9999/"
	if got := cfg.ResolvedBaseURL(); got != "http://localhost:9999" {
		t.Fatalf("override base url = %q", got)
	}
}

type mapConfigLoader struct {
	values map[string]any
}

func (l mapConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	return l.values, nil
}

func TestResolveConfigLayering(t *testing.T) {
	provider := NewCfgxConfigProvider(mapConfigLoader{values: map[string]any{
		"environment": "Production",
		"http": map[string]any{
			"max_retries": 5,
		},
	}})

	runtime := Config{StorageDir: "/tmp/integra"}
	resolved, err := ResolveConfig(context.Background(), runtime, provider, GoOptionsResolver{})
	if err != nil {
		t.Fatalf("resolve config: %v", err)
	}
	if resolved.ParsedEnvironment() != EnvironmentProduction {
		t.Fatalf("environment = %q, want Production", resolved.Environment)
	}
	if resolved.HTTP.MaxRetries != 5 {
		t.Fatalf("max retries = %d, want 5 from loaded layer", resolved.HTTP.MaxRetries)
	}
	if resolved.StorageDir != "/tmp/integra" {
		t.Fatalf("storage dir = %q, want runtime override", resolved.StorageDir)
	}
	if resolved.HTTP.TimeoutSeconds != 30 {
		t.Fatalf("timeout = %d, want default 30", resolved.HTTP.TimeoutSeconds)
	}
}
