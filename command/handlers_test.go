package command

import (
	"context"
	"errors"
	"testing"

	gocmd "github.com/goliatone/go-command"

	"github.com/goliatone/go-integra/core"
)

type stubTokenService struct {
	authenticateFn     func(ctx context.Context) (core.Token, error)
	refreshTokenFn     func(ctx context.Context) (core.Token, error)
	clearCacheFn       func()
	clearStoredTokenFn func(ctx context.Context) error
}

func (s stubTokenService) Authenticate(ctx context.Context) (core.Token, error) {
	if s.authenticateFn == nil {
		return core.Token{}, errors.New("authenticate not stubbed")
	}
	return s.authenticateFn(ctx)
}

func (s stubTokenService) RefreshToken(ctx context.Context) (core.Token, error) {
	if s.refreshTokenFn == nil {
		return core.Token{}, errors.New("refresh not stubbed")
	}
	return s.refreshTokenFn(ctx)
}

func (s stubTokenService) ClearCache() {
	if s.clearCacheFn != nil {
		s.clearCacheFn()
	}
}

func (s stubTokenService) ClearStoredToken(ctx context.Context) error {
	if s.clearStoredTokenFn == nil {
		return nil
	}
	return s.clearStoredTokenFn(ctx)
}

type stubExecutor struct {
	executeFn func(ctx context.Context, systemID, serviceID string, dados map[string]any) (map[string]any, error)
}

func (s stubExecutor) Execute(ctx context.Context, systemID, serviceID string, dados map[string]any) (map[string]any, error) {
	return s.executeFn(ctx, systemID, serviceID, dados)
}

func TestAuthenticateCommand_ExecuteDelegatesAndStoresResult(t *testing.T) {
	expected := core.Token{AccessToken: "acc", JWTToken: "jwt", TokenType: "Bearer", ExpiresIn: 3600}
	called := false

	svc := stubTokenService{
		authenticateFn: func(_ context.Context) (core.Token, error) {
			called = true
			return expected, nil
		},
	}

	cmd := NewAuthenticateCommand(svc)
	collector := gocmd.NewResult[core.Token]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)

	if err := cmd.Execute(ctx, AuthenticateMessage{}); err != nil {
		t.Fatalf("execute authenticate: %v", err)
	}
	if !called {
		t.Fatalf("expected authenticate invocation")
	}
	result, ok := collector.Load()
	if !ok {
		t.Fatalf("expected result to be stored")
	}
	if result.AccessToken != expected.AccessToken {
		t.Fatalf("unexpected result: %#v", result)
	}
}

func TestAuthenticateCommand_ForceUsesRefresh(t *testing.T) {
	refreshed := false
	svc := stubTokenService{
		refreshTokenFn: func(_ context.Context) (core.Token, error) {
			refreshed = true
			return core.Token{AccessToken: "acc", JWTToken: "jwt", TokenType: "Bearer", ExpiresIn: 3600}, nil
		},
	}

	cmd := NewAuthenticateCommand(svc)
	if err := cmd.Execute(context.Background(), AuthenticateMessage{Force: true}); err != nil {
		t.Fatalf("execute forced authenticate: %v", err)
	}
	if !refreshed {
		t.Fatalf("expected forced authenticate to call refresh")
	}
}

func TestInvalidateTokenCommand_ClearsCacheAndOptionallyStore(t *testing.T) {
	cleared := false
	dropped := false
	svc := stubTokenService{
		clearCacheFn: func() { cleared = true },
		clearStoredTokenFn: func(_ context.Context) error {
			dropped = true
			return nil
		},
	}

	cmd := NewInvalidateTokenCommand(svc)
	if err := cmd.Execute(context.Background(), InvalidateTokenMessage{}); err != nil {
		t.Fatalf("execute invalidate: %v", err)
	}
	if !cleared {
		t.Fatalf("expected cache clear")
	}
	if dropped {
		t.Fatalf("expected stored token to survive without DropStored")
	}

	cleared = false
	if err := cmd.Execute(context.Background(), InvalidateTokenMessage{DropStored: true}); err != nil {
		t.Fatalf("execute invalidate with drop: %v", err)
	}
	if !cleared || !dropped {
		t.Fatalf("expected cache clear and stored token removal")
	}
}

func TestExecuteServiceCommand_DelegatesAndStoresResult(t *testing.T) {
	expected := map[string]any{"status": float64(200)}
	cmd := NewExecuteServiceCommand(stubExecutor{
		executeFn: func(_ context.Context, systemID, serviceID string, dados map[string]any) (map[string]any, error) {
			if systemID != "PGMEI" || serviceID != "GERARDASPDF21" {
				t.Fatalf("unexpected service routing: %q %q", systemID, serviceID)
			}
			if dados["periodoApuracao"] != "202401" {
				t.Fatalf("unexpected dados: %#v", dados)
			}
			return expected, nil
		},
	})

	collector := gocmd.NewResult[map[string]any]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)

	err := cmd.Execute(ctx, ExecuteServiceMessage{
		SystemID:  "PGMEI",
		ServiceID: "GERARDASPDF21",
		Dados:     map[string]any{"periodoApuracao": "202401"},
	})
	if err != nil {
		t.Fatalf("execute service: %v", err)
	}
	result, ok := collector.Load()
	if !ok {
		t.Fatalf("expected result to be stored")
	}
	if result["status"] != expected["status"] {
		t.Fatalf("unexpected result: %#v", result)
	}
}

func TestExecuteServiceCommand_RejectsMissingRouting(t *testing.T) {
	cmd := NewExecuteServiceCommand(stubExecutor{
		executeFn: func(_ context.Context, _, _ string, _ map[string]any) (map[string]any, error) {
			t.Fatalf("executor must not run on invalid message")
			return nil, nil
		},
	})

	if err := cmd.Execute(context.Background(), ExecuteServiceMessage{ServiceID: "GERARDASPDF21"}); err == nil {
		t.Fatalf("expected validation error for missing system id")
	}
	if err := cmd.Execute(context.Background(), ExecuteServiceMessage{SystemID: "PGMEI"}); err == nil {
		t.Fatalf("expected validation error for missing service id")
	}
}
