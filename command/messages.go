// Package command exposes the SDK mutations as go-command messages so
// hosts can route them through their existing dispatch pipelines.
package command

import "strings"

const (
	TypeAuthenticate    = "integra.command.authenticate"
	TypeInvalidateToken = "integra.command.token.invalidate"
	TypeExecuteService  = "integra.command.service.execute"
)

type AuthenticateMessage struct {
	// Force skips cache checks and always hits the identity provider.
	Force bool
}

func (AuthenticateMessage) Type() string { return TypeAuthenticate }

func (AuthenticateMessage) Validate() error { return nil }

type InvalidateTokenMessage struct {
	// DropStored also removes the persisted token, not just the
	// in-memory copy.
	DropStored bool
}

func (InvalidateTokenMessage) Type() string { return TypeInvalidateToken }

func (InvalidateTokenMessage) Validate() error { return nil }

type ExecuteServiceMessage struct {
	SystemID  string
	ServiceID string
	Dados     map[string]any
}

func (ExecuteServiceMessage) Type() string { return TypeExecuteService }

func (m ExecuteServiceMessage) Validate() error {
	if strings.TrimSpace(m.SystemID) == "" {
		return commandValidationError("system_id", "system id is required")
	}
	if strings.TrimSpace(m.ServiceID) == "" {
		return commandValidationError("service_id", "service id is required")
	}
	return nil
}
