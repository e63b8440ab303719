package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/irmakh/gemini-rpg/internal/redis"
)

type ClientTestSuite struct {
	suite.Suite
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) TestConnectValidation() {
	testCases := []struct {
		name      string
		mode      redis.Mode
		endpoints []string
		errMsg    string
	}{
		{"single without endpoint", redis.ModeSingle, nil, "endpoint is required"},
		{"cluster without endpoints", redis.ModeCluster, nil, "at least one endpoint"},
		{"sentinel without sentinels", redis.ModeSentinel, []string{"mymaster"}, "sentinel mode needs"},
		{"unknown mode", redis.Mode("ring"), []string{"localhost:6379"}, "unknown mode"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			client, err := redis.Connect(tc.mode, tc.endpoints, nil)
			s.Require().Error(err)
			s.Contains(err.Error(), tc.errMsg)
			s.Nil(client)
		})
	}
}

func (s *ClientTestSuite) TestConnectSingle() {
	mr := miniredis.RunT(s.T())

	client, err := redis.Connect(redis.ModeSingle, []string{mr.Addr()}, &redis.Options{PoolSize: 2})
	s.Require().NoError(err)
	defer func() { _ = client.Close() }()

	s.Require().NoError(client.Set(context.Background(), "k", "v", 0).Err())
	val, err := mr.Get("k")
	s.Require().NoError(err)
	s.Equal("v", val)
}
