// Package query exposes the SDK's read side as go-command query
// messages: token status and the template catalog.
package query

import "strings"

const (
	TypeTokenStatus     = "integra.query.token.status"
	TypeListServices    = "integra.query.service.list"
	TypeDescribeService = "integra.query.service.describe"
)

type TokenStatusMessage struct{}

func (TokenStatusMessage) Type() string { return TypeTokenStatus }

func (TokenStatusMessage) Validate() error { return nil }

type ListServicesMessage struct {
	// System narrows the catalog to one idSistema; empty lists everything.
	System string
}

func (ListServicesMessage) Type() string { return TypeListServices }

func (ListServicesMessage) Validate() error { return nil }

type DescribeServiceMessage struct {
	SystemID  string
	ServiceID string
}

func (DescribeServiceMessage) Type() string { return TypeDescribeService }

func (m DescribeServiceMessage) Validate() error {
	if strings.TrimSpace(m.SystemID) == "" {
		return queryValidationError("system_id", "system id is required")
	}
	if strings.TrimSpace(m.ServiceID) == "" {
		return queryValidationError("service_id", "service id is required")
	}
	return nil
}
