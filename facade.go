package integra

import (
	"fmt"

	integracommand "github.com/goliatone/go-integra/command"
	"github.com/goliatone/go-integra/query"
)

// Commands bundles the go-command wrappers over a client so hosts can
// register them with their dispatcher in one call.
type Commands struct {
	Authenticate    *integracommand.AuthenticateCommand
	InvalidateToken *integracommand.InvalidateTokenCommand
	ExecuteService  *integracommand.ExecuteServiceCommand
}

func NewCommands(client *Client) (Commands, error) {
	if client == nil {
		return Commands{}, fmt.Errorf("integra: client is required")
	}
	return Commands{
		Authenticate:    integracommand.NewAuthenticateCommand(client),
		InvalidateToken: integracommand.NewInvalidateTokenCommand(client),
		ExecuteService:  integracommand.NewExecuteServiceCommand(client),
	}, nil
}

// Queries bundles the read-side query handlers. The token status query
// needs a token store; pass nil to skip it, e.g. for static-token
// sessions that never persist anything.
type Queries struct {
	TokenStatus     *query.TokenStatusQuery
	ListServices    *query.ListServicesQuery
	DescribeService *query.DescribeServiceQuery
}

func NewQueries(client *Client, tokens query.TokenReader) (Queries, error) {
	if client == nil {
		return Queries{}, fmt.Errorf("integra: client is required")
	}
	queries := Queries{
		ListServices:    query.NewListServicesQuery(client.Registry()),
		DescribeService: query.NewDescribeServiceQuery(client.Registry()),
	}
	if tokens != nil {
		queries.TokenStatus = query.NewTokenStatusQuery(tokens)
	}
	return queries, nil
}

var (
	_ integracommand.TokenService    = (*Client)(nil)
	_ integracommand.ServiceExecutor = (*Client)(nil)
)
