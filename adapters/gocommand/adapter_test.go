package gocommand

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-command"
	jobqueuecommand "github.com/goliatone/go-job/queue/command"

	integracommand "github.com/goliatone/go-integra/command"
	integraquery "github.com/goliatone/go-integra/query"
	"github.com/goliatone/go-integra/templates"
)

type okMessage struct{}

func (okMessage) Type() string { return "integra.command.ok" }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "" }

type failingMessage struct{}

func (failingMessage) Type() string { return "integra.command.fail" }

func (failingMessage) Validate() error { return errors.New("invalid payload") }

type queueMessage struct{}

func (queueMessage) Type() string { return "integra.command.queue" }

func TestValidateMessageContract(t *testing.T) {
	if err := ValidateMessageContract(okMessage{}); err != nil {
		t.Fatalf("expected valid message, got %v", err)
	}
	if err := ValidateMessageContract(invalidMessage{}); err == nil {
		t.Fatalf("expected empty type to fail contract validation")
	}
	if err := ValidateMessageContract(failingMessage{}); err == nil {
		t.Fatalf("expected Validate() failure to bubble")
	}
	if err := ValidateMessageContract(integracommand.AuthenticateMessage{}); err != nil {
		t.Fatalf("expected authenticate message to satisfy contract, got %v", err)
	}
}

func TestRegistryAndDispatchWiring(t *testing.T) {
	adapter := NewRegistryAdapter(command.NewRegistry())
	executed := 0
	customResolverCalled := 0

	cmd := command.CommandFunc[integracommand.ExecuteServiceMessage](func(_ context.Context, msg integracommand.ExecuteServiceMessage) error {
		if msg.SystemID != "PGMEI" {
			t.Fatalf("expected routed message, got %#v", msg)
		}
		executed++
		return nil
	})

	if _, err := RegisterAndSubscribe(adapter, cmd); err != nil {
		t.Fatalf("register and subscribe: %v", err)
	}
	if err := adapter.AddResolver("custom", func(any, command.CommandMeta, *command.Registry) error {
		customResolverCalled++
		return nil
	}); err != nil {
		t.Fatalf("add resolver: %v", err)
	}
	if !adapter.HasResolver("custom") {
		t.Fatalf("expected custom resolver to be registered")
	}
	if err := adapter.Initialize(); err != nil {
		t.Fatalf("initialize registry: %v", err)
	}
	if customResolverCalled == 0 {
		t.Fatalf("expected resolver hook to run during initialization")
	}

	if err := Dispatch(context.Background(), integracommand.ExecuteServiceMessage{
		SystemID:  "PGMEI",
		ServiceID: "GERARDASPDF21",
		Dados:     map[string]any{"periodoApuracao": "202401"},
	}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if executed != 1 {
		t.Fatalf("expected command execution count=1, got %d", executed)
	}
}

func TestQueryRegistrationAndDispatch(t *testing.T) {
	adapter := NewRegistryAdapter(command.NewRegistry())
	listQuery := integraquery.NewListServicesQuery(templates.DefaultRegistry())

	subscription, err := RegisterAndSubscribeQuery(adapter, listQuery)
	if err != nil {
		t.Fatalf("register and subscribe query: %v", err)
	}
	defer subscription.Unsubscribe()
	if err := adapter.Initialize(); err != nil {
		t.Fatalf("initialize registry: %v", err)
	}

	descriptors, err := Query[integraquery.ListServicesMessage, []templates.Descriptor](
		context.Background(),
		integraquery.ListServicesMessage{System: "pgmei"},
	)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(descriptors) != 3 {
		t.Fatalf("expected 3 PGMEI services, got %d", len(descriptors))
	}
	for _, descriptor := range descriptors {
		if descriptor.System != "PGMEI" {
			t.Fatalf("expected PGMEI descriptors only, got %q", descriptor.System)
		}
	}
}

func TestQueueResolverHookWiring(t *testing.T) {
	adapter := NewRegistryAdapter(command.NewRegistry())
	queueRegistry := jobqueuecommand.NewRegistry()

	cmd := command.CommandFunc[queueMessage](func(context.Context, queueMessage) error { return nil })

	if err := adapter.AddQueueResolver("queue", queueRegistry); err != nil {
		t.Fatalf("add queue resolver: %v", err)
	}
	if err := adapter.RegisterCommand(cmd); err != nil {
		t.Fatalf("register command: %v", err)
	}
	if err := adapter.Initialize(); err != nil {
		t.Fatalf("initialize registry: %v", err)
	}

	if _, ok := queueRegistry.Get("integra.command.queue"); !ok {
		t.Fatalf("expected command to be mirrored into queue registry")
	}
}
