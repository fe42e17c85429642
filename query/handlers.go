package query

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-integra/core"
	"github.com/goliatone/go-integra/templates"
)

// TokenReader is the slice of a token store the status query needs.
type TokenReader interface {
	LoadToken(ctx context.Context) (core.CachedToken, bool, error)
}

// TokenStatus reports the persisted token without exposing the token
// value itself.
type TokenStatus struct {
	Present   bool
	Fresh     bool
	Scope     string
	TokenType string
	ExpiresAt time.Time
}

type TokenStatusQuery struct {
	reader TokenReader
	now    func() time.Time
}

func NewTokenStatusQuery(reader TokenReader) *TokenStatusQuery {
	return &TokenStatusQuery{
		reader: reader,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (q *TokenStatusQuery) Query(ctx context.Context, _ TokenStatusMessage) (TokenStatus, error) {
	if q == nil || q.reader == nil {
		return TokenStatus{}, queryDependencyError("query: token reader is required")
	}
	cached, ok, err := q.reader.LoadToken(ctx)
	if err != nil {
		return TokenStatus{}, err
	}
	if !ok {
		return TokenStatus{}, nil
	}
	return TokenStatus{
		Present:   true,
		Fresh:     cached.Fresh(q.now()),
		Scope:     cached.Scope,
		TokenType: cached.TokenType,
		ExpiresAt: cached.ExpiresAt(),
	}, nil
}

type ListServicesQuery struct {
	registry *templates.Registry
}

func NewListServicesQuery(registry *templates.Registry) *ListServicesQuery {
	return &ListServicesQuery{registry: registry}
}

func (q *ListServicesQuery) Query(_ context.Context, msg ListServicesMessage) ([]templates.Descriptor, error) {
	if q == nil || q.registry == nil {
		return nil, queryDependencyError("query: template registry is required")
	}
	descriptors := q.registry.Descriptors()
	system := strings.ToUpper(strings.TrimSpace(msg.System))
	if system == "" {
		return descriptors, nil
	}
	filtered := make([]templates.Descriptor, 0, len(descriptors))
	for _, descriptor := range descriptors {
		if descriptor.System == system {
			filtered = append(filtered, descriptor)
		}
	}
	return filtered, nil
}

type DescribeServiceQuery struct {
	registry *templates.Registry
}

func NewDescribeServiceQuery(registry *templates.Registry) *DescribeServiceQuery {
	return &DescribeServiceQuery{registry: registry}
}

func (q *DescribeServiceQuery) Query(_ context.Context, msg DescribeServiceMessage) (templates.Descriptor, error) {
	if q == nil || q.registry == nil {
		return templates.Descriptor{}, queryDependencyError("query: template registry is required")
	}
	if err := msg.Validate(); err != nil {
		return templates.Descriptor{}, err
	}
	template, err := q.registry.Lookup(msg.SystemID, msg.ServiceID)
	if err != nil {
		return templates.Descriptor{}, err
	}
	return template.Descriptor(), nil
}
