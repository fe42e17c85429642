package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"

	"github.com/goliatone/go-integra/core"
)

// TokenService is the slice of the client the token commands need.
type TokenService interface {
	Authenticate(ctx context.Context) (core.Token, error)
	RefreshToken(ctx context.Context) (core.Token, error)
	ClearCache()
	ClearStoredToken(ctx context.Context) error
}

// ServiceExecutor runs a gateway service call end to end.
type ServiceExecutor interface {
	Execute(ctx context.Context, systemID, serviceID string, dados map[string]any) (map[string]any, error)
}

type AuthenticateCommand struct {
	service TokenService
}

func NewAuthenticateCommand(service TokenService) *AuthenticateCommand {
	return &AuthenticateCommand{service: service}
}

func (c *AuthenticateCommand) Execute(ctx context.Context, msg AuthenticateMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: token service is required")
	}
	var (
		token core.Token
		err   error
	)
	if msg.Force {
		token, err = c.service.RefreshToken(ctx)
	} else {
		token, err = c.service.Authenticate(ctx)
	}
	if err != nil {
		return err
	}
	storeResult(ctx, token)
	return nil
}

type InvalidateTokenCommand struct {
	service TokenService
}

func NewInvalidateTokenCommand(service TokenService) *InvalidateTokenCommand {
	return &InvalidateTokenCommand{service: service}
}

func (c *InvalidateTokenCommand) Execute(ctx context.Context, msg InvalidateTokenMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: token service is required")
	}
	c.service.ClearCache()
	if msg.DropStored {
		return c.service.ClearStoredToken(ctx)
	}
	return nil
}

type ExecuteServiceCommand struct {
	executor ServiceExecutor
}

func NewExecuteServiceCommand(executor ServiceExecutor) *ExecuteServiceCommand {
	return &ExecuteServiceCommand{executor: executor}
}

func (c *ExecuteServiceCommand) Execute(ctx context.Context, msg ExecuteServiceMessage) error {
	if c == nil || c.executor == nil {
		return commandDependencyError("command: service executor is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	out, err := c.executor.Execute(ctx, msg.SystemID, msg.ServiceID, msg.Dados)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
