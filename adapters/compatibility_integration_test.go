package adapters_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-command"
	job "github.com/goliatone/go-job"
	jobqueuecommand "github.com/goliatone/go-job/queue/command"
	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-integra/adapters/gocommand"
	"github.com/goliatone/go-integra/adapters/gojob"
	"github.com/goliatone/go-integra/adapters/gologger"
	integracommand "github.com/goliatone/go-integra/command"
	"github.com/goliatone/go-integra/core"
)

func TestRuntimeCompatibility_GoJobGoCommandGoLogger(t *testing.T) {
	ctx := context.Background()

	logger := &compatLogger{}
	provider := &compatProvider{logger: logger}

	_, _, jobProvider, jobLogger := gologger.ResolveForJob("integra", provider, nil)
	if jobProvider == nil || jobLogger == nil {
		t.Fatalf("expected go-job logger bridges")
	}

	enqueueProbe := &compatEnqueuer{}
	enqueueAdapter := gojob.NewEnqueuerAdapter(enqueueProbe)
	if err := enqueueAdapter.Enqueue(ctx, &core.JobExecutionMessage{
		JobID:          gojob.JobIDTokenRefresh,
		Parameters:     map[string]any{"environment": "Production"},
		IdempotencyKey: "integra.token.refresh::Production",
		DedupPolicy:    "drop",
	}); err != nil {
		t.Fatalf("enqueue via gojob adapter: %v", err)
	}
	if enqueueProbe.last == nil || enqueueProbe.last.JobID != gojob.JobIDTokenRefresh {
		t.Fatalf("expected go-job message mapping through enqueuer adapter")
	}

	queueRegistry := jobqueuecommand.NewRegistry()
	commandAdapter := gocommand.NewRegistryAdapter(command.NewRegistry())
	if err := commandAdapter.AddQueueResolver("queue", queueRegistry); err != nil {
		t.Fatalf("add queue resolver: %v", err)
	}
	if err := commandAdapter.RegisterCommand(command.CommandFunc[compatMessage](func(context.Context, compatMessage) error {
		return nil
	})); err != nil {
		t.Fatalf("register command: %v", err)
	}
	if err := commandAdapter.Initialize(); err != nil {
		t.Fatalf("initialize command registry: %v", err)
	}
	if _, ok := queueRegistry.Get("integra.compat.command"); !ok {
		t.Fatalf("expected command resolver hook to mirror command into go-job queue registry")
	}
}

func TestRuntimeCompatibility_CommandWrappersDispatchThroughRegistry(t *testing.T) {
	svc := &compatTokenService{}
	adapter := gocommand.NewRegistryAdapter(command.NewRegistry())

	authSub, err := gocommand.RegisterAndSubscribe(adapter, integracommand.NewAuthenticateCommand(svc))
	if err != nil {
		t.Fatalf("register authenticate wrapper: %v", err)
	}
	defer authSub.Unsubscribe()

	invalidateSub, err := gocommand.RegisterAndSubscribe(adapter, integracommand.NewInvalidateTokenCommand(svc))
	if err != nil {
		t.Fatalf("register invalidate wrapper: %v", err)
	}
	defer invalidateSub.Unsubscribe()

	if err := adapter.Initialize(); err != nil {
		t.Fatalf("initialize adapter: %v", err)
	}

	if err := gocommand.Dispatch(context.Background(), integracommand.AuthenticateMessage{}); err != nil {
		t.Fatalf("dispatch authenticate: %v", err)
	}
	if svc.authenticateCalls != 1 {
		t.Fatalf("expected authenticate wrapper invocation, got %d", svc.authenticateCalls)
	}

	if err := gocommand.Dispatch(context.Background(), integracommand.InvalidateTokenMessage{DropStored: true}); err != nil {
		t.Fatalf("dispatch invalidate: %v", err)
	}
	if svc.clearCacheCalls != 1 || svc.clearStoredCalls != 1 {
		t.Fatalf("expected invalidate wrapper to clear cache and stored token")
	}
}

type compatMessage struct{}

func (compatMessage) Type() string { return "integra.compat.command" }

type compatEnqueuer struct {
	last *job.ExecutionMessage
}

func (e *compatEnqueuer) Enqueue(_ context.Context, msg *job.ExecutionMessage) error {
	e.last = msg
	return nil
}

type compatProvider struct {
	logger glog.Logger
}

func (p *compatProvider) GetLogger(string) glog.Logger {
	if p == nil || p.logger == nil {
		return glog.Nop()
	}
	return p.logger
}

type compatLogger struct{}

func (compatLogger) Trace(string, ...any)                    {}
func (compatLogger) Debug(string, ...any)                    {}
func (compatLogger) Info(string, ...any)                     {}
func (compatLogger) Warn(string, ...any)                     {}
func (compatLogger) Error(string, ...any)                    {}
func (compatLogger) Fatal(string, ...any)                    {}
func (compatLogger) WithContext(context.Context) glog.Logger { return compatLogger{} }

type compatTokenService struct {
	authenticateCalls int
	refreshCalls      int
	clearCacheCalls   int
	clearStoredCalls  int
}

func (s *compatTokenService) Authenticate(context.Context) (core.Token, error) {
	s.authenticateCalls++
	return core.Token{AccessToken: "acc", JWTToken: "jwt", TokenType: "Bearer", ExpiresIn: 3600}, nil
}

func (s *compatTokenService) RefreshToken(context.Context) (core.Token, error) {
	s.refreshCalls++
	return core.Token{AccessToken: "acc", JWTToken: "jwt", TokenType: "Bearer", ExpiresIn: 3600}, nil
}

func (s *compatTokenService) ClearCache() {
	s.clearCacheCalls++
}

func (s *compatTokenService) ClearStoredToken(context.Context) error {
	s.clearStoredCalls++
	return nil
}
