package config_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/irmakh/gemini-rpg/internal/config"
	"github.com/irmakh/gemini-rpg/internal/errors"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) TestDefaults() {
	cfg, err := config.LoadFrom(map[string]string{})
	s.Require().NoError(err)

	s.Equal(":8080", cfg.HTTPAddr)
	s.Equal(50051, cfg.GRPCPort)
	s.Equal(10, cfg.RedisPoolSize)
	s.Equal("gpt-4o-mini", cfg.ChatModel)
	s.Equal("dall-e-3", cfg.ImageModel)
	s.Equal(90*time.Second, cfg.GeneratorTimeout)
	s.Equal(time.Hour, cfg.SessionIdleTimeout)
	s.Equal(time.Minute, cfg.SessionSweep)
	s.Equal(config.ContentAuto, cfg.ContentMode)
	s.Equal(config.ContentOffline, cfg.Content())
	s.Empty(cfg.RedisAddrs)
	s.Equal("single", cfg.RedisMode)
}

func (s *ConfigTestSuite) TestOverrides() {
	cfg, err := config.LoadFrom(map[string]string{
		"GEMINI_RPG_HTTP_ADDR":         "127.0.0.1:9000",
		"GEMINI_RPG_ALLOWED_ORIGINS":   "http://a.test,http://b.test",
		"GEMINI_RPG_REDIS_ADDRS":       "redis-a:6379,redis-b:6379",
		"GEMINI_RPG_REDIS_MODE":        "cluster",
		"GEMINI_RPG_REDIS_TLS":         "true",
		"OPENAI_API_KEY":               "sk-test",
		"GEMINI_RPG_GENERATOR_TIMEOUT": "5s",
		"GEMINI_RPG_LOG_FORMAT":        "json",
		"GEMINI_RPG_LOG_LEVEL":         "debug",
	})
	s.Require().NoError(err)

	s.Equal("127.0.0.1:9000", cfg.HTTPAddr)
	s.Equal([]string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	s.Equal([]string{"redis-a:6379", "redis-b:6379"}, cfg.RedisAddrs)
	s.Equal("cluster", cfg.RedisMode)
	s.True(cfg.RedisTLS)
	s.Equal(5*time.Second, cfg.GeneratorTimeout)
	s.Equal(config.ContentOpenAI, cfg.Content())
}

func (s *ConfigTestSuite) TestValidation() {
	testCases := []struct {
		name  string
		vars  map[string]string
		field string
	}{
		{name: "bad port", vars: map[string]string{"GEMINI_RPG_GRPC_PORT": "70000"}, field: "GRPCPort"},
		{name: "zero timeout", vars: map[string]string{"GEMINI_RPG_GENERATOR_TIMEOUT": "0s"}, field: "GeneratorTimeout"},
		{name: "unknown mode", vars: map[string]string{"GEMINI_RPG_CONTENT_MODE": "gemini"}, field: "ContentMode"},
		{name: "openai without key", vars: map[string]string{"GEMINI_RPG_CONTENT_MODE": "openai"}, field: "OpenAIAPIKey"},
		{name: "log format", vars: map[string]string{"GEMINI_RPG_LOG_FORMAT": "xml"}, field: "LogFormat"},
		{name: "log level", vars: map[string]string{"GEMINI_RPG_LOG_LEVEL": "loud"}, field: "LogLevel"},
		{name: "redis mode", vars: map[string]string{"GEMINI_RPG_REDIS_MODE": "ring"}, field: "RedisMode"},
		{name: "sentinel without sentinels", vars: map[string]string{"GEMINI_RPG_REDIS_MODE": "sentinel", "GEMINI_RPG_REDIS_ADDRS": "mymaster"}, field: "RedisAddrs"},
		{name: "zero idle timeout", vars: map[string]string{"GEMINI_RPG_SESSION_IDLE_TIMEOUT": "0s"}, field: "SessionIdleTimeout"},
		{name: "zero sweep", vars: map[string]string{"GEMINI_RPG_SESSION_SWEEP": "0s"}, field: "SessionSweep"},
		{name: "negative pool", vars: map[string]string{"GEMINI_RPG_REDIS_POOL_SIZE": "-1"}, field: "RedisPoolSize"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := config.LoadFrom(tc.vars)
			s.Require().Error(err)
			s.True(errors.IsInvalidArgument(err))
			s.Contains(err.Error(), tc.field)
		})
	}

	s.Run("unparseable value", func() {
		_, err := config.LoadFrom(map[string]string{"GEMINI_RPG_GRPC_PORT": "abc"})
		s.Require().Error(err)
		s.True(errors.IsInvalidArgument(err))
	})
}

func (s *ConfigTestSuite) TestLogger() {
	cfg, err := config.LoadFrom(map[string]string{"GEMINI_RPG_LOG_FORMAT": "json", "GEMINI_RPG_LOG_LEVEL": "warn"})
	s.Require().NoError(err)

	var buf bytes.Buffer
	logger := cfg.Logger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "session_id", "s1")

	s.NotContains(buf.String(), "hidden")
	s.Contains(buf.String(), `"msg":"shown"`)
	s.Contains(buf.String(), `"session_id":"s1"`)
}
