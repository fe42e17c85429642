package query

import (
	gocmd "github.com/goliatone/go-command"

	"github.com/goliatone/go-integra/templates"
)

var (
	_ gocmd.Querier[TokenStatusMessage, TokenStatus]              = (*TokenStatusQuery)(nil)
	_ gocmd.Querier[ListServicesMessage, []templates.Descriptor]  = (*ListServicesQuery)(nil)
	_ gocmd.Querier[DescribeServiceMessage, templates.Descriptor] = (*DescribeServiceQuery)(nil)
)
