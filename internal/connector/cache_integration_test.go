//go:build integration

package connector_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/backgroundcheck/x24-platform/internal/connector"
	"github.com/backgroundcheck/x24-platform/internal/domain"
	"github.com/backgroundcheck/x24-platform/pkg/testutil/containers"
)

// countingConnector records how often the upstream source was actually hit.
type countingConnector struct {
	calls int
}

func (c *countingConnector) ID() string { return "sanctions-ofac" }

func (c *countingConnector) Category() domain.Category { return domain.CategorySanctions }

func (c *countingConnector) AppliesTo(domain.EntityType) bool { return true }

func (c *countingConnector) Call(_ context.Context, _ connector.Request) (*connector.NormalizedResponse, error) {
	c.calls++
	return &connector.NormalizedResponse{
		ConnectorID: "sanctions-ofac",
		Candidates: []domain.CandidateRecord{
			{ID: "r1", Source: "sanctions-ofac", Category: domain.CategorySanctions, Names: []string{"Jane Doe"}},
		},
		RetrievedAt: time.Now(),
	}, nil
}

type CachedConnectorSuite struct {
	suite.Suite
	redis *containers.RedisContainer
}

func TestCachedConnectorSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CachedConnectorSuite))
}

func (s *CachedConnectorSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
}

func (s *CachedConnectorSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *CachedConnectorSuite) TestSecondLookupServedFromCache() {
	ctx := context.Background()
	inner := &countingConnector{}
	cached := connector.NewCachedConnector(inner, s.redis.Client, time.Minute, nil)

	req := connector.Request{Name: "Jane Doe", Nationality: "DE"}

	first, err := cached.Call(ctx, req)
	s.Require().NoError(err)
	s.Equal(1, inner.calls)

	second, err := cached.Call(ctx, req)
	s.Require().NoError(err)
	s.Equal(1, inner.calls, "second identical lookup must not hit the source")
	s.Equal(first.Candidates, second.Candidates)
}

func (s *CachedConnectorSuite) TestDifferentRequestsMiss() {
	ctx := context.Background()
	inner := &countingConnector{}
	cached := connector.NewCachedConnector(inner, s.redis.Client, time.Minute, nil)

	_, err := cached.Call(ctx, connector.Request{Name: "Jane Doe"})
	s.Require().NoError(err)
	_, err = cached.Call(ctx, connector.Request{Name: "John Doe"})
	s.Require().NoError(err)

	s.Equal(2, inner.calls)
}

func (s *CachedConnectorSuite) TestNilClientPassesThrough() {
	inner := &countingConnector{}
	s.Same(connector.Connector(inner), connector.NewCachedConnector(inner, nil, time.Minute, nil))
}
