// Package config loads server settings from the environment.
package config

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/irmakh/gemini-rpg/internal/errors"
)

// ContentMode selects the content generator
type ContentMode string

const (
	// ContentAuto uses OpenAI when an API key is set, offline otherwise
	ContentAuto    ContentMode = "auto"
	ContentOpenAI  ContentMode = "openai"
	ContentOffline ContentMode = "offline"
)

// Config holds every server setting
type Config struct {
	HTTPAddr       string   `env:"GEMINI_RPG_HTTP_ADDR" envDefault:":8080"`
	GRPCPort       int      `env:"GEMINI_RPG_GRPC_PORT" envDefault:"50051"` // 0 disables the health listener
	AllowedOrigins []string `env:"GEMINI_RPG_ALLOWED_ORIGINS" envSeparator:","`

	// Sessions unused for SessionIdleTimeout are dropped on the next sweep
	SessionIdleTimeout time.Duration `env:"GEMINI_RPG_SESSION_IDLE_TIMEOUT" envDefault:"1h"`
	SessionSweep       time.Duration `env:"GEMINI_RPG_SESSION_SWEEP" envDefault:"1m"`

	// Saves go to memory when RedisAddrs is empty. Sentinel mode takes
	// the master name first.
	RedisAddrs    []string `env:"GEMINI_RPG_REDIS_ADDRS" envSeparator:","`
	RedisMode     string   `env:"GEMINI_RPG_REDIS_MODE" envDefault:"single"`
	RedisTLS      bool     `env:"GEMINI_RPG_REDIS_TLS"`
	RedisPoolSize int      `env:"GEMINI_RPG_REDIS_POOL_SIZE" envDefault:"10"`

	OpenAIAPIKey     string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string        `env:"OPENAI_BASE_URL"`
	ChatModel        string        `env:"GEMINI_RPG_CHAT_MODEL" envDefault:"gpt-4o-mini"`
	ImageModel       string        `env:"GEMINI_RPG_IMAGE_MODEL" envDefault:"dall-e-3"`
	GeneratorTimeout time.Duration `env:"GEMINI_RPG_GENERATOR_TIMEOUT" envDefault:"90s"`
	ContentMode      ContentMode   `env:"GEMINI_RPG_CONTENT_MODE" envDefault:"auto"`

	LogFormat string `env:"GEMINI_RPG_LOG_FORMAT" envDefault:"text"`
	LogLevel  string `env:"GEMINI_RPG_LOG_LEVEL" envDefault:"info"`
}

// Load reads the process environment
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads the given variables instead of the process environment
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("HTTPAddr", c.HTTPAddr, vb)
	errors.ValidateRange("GRPCPort", c.GRPCPort, 0, 65535, vb)
	errors.ValidateEnum("RedisMode", c.RedisMode, []string{"single", "cluster", "sentinel"}, vb)
	if c.RedisMode == "sentinel" && len(c.RedisAddrs) == 1 {
		vb.InvalidField("RedisAddrs", "sentinel mode needs a master name and a sentinel")
	}
	if c.RedisPoolSize < 0 {
		vb.InvalidField("RedisPoolSize", "must not be negative")
	}
	if c.GeneratorTimeout <= 0 {
		vb.InvalidField("GeneratorTimeout", "must be positive")
	}
	if c.SessionIdleTimeout <= 0 {
		vb.InvalidField("SessionIdleTimeout", "must be positive")
	}
	if c.SessionSweep <= 0 {
		vb.InvalidField("SessionSweep", "must be positive")
	}

	errors.ValidateEnum("ContentMode", c.ContentMode, []ContentMode{ContentAuto, ContentOpenAI, ContentOffline}, vb)
	if c.ContentMode == ContentOpenAI && c.OpenAIAPIKey == "" {
		vb.Field("OpenAIAPIKey", "is required for openai content mode")
	}

	errors.ValidateEnum("LogFormat", c.LogFormat, []string{"text", "json"}, vb)
	if _, err := c.level(); err != nil {
		vb.InvalidField("LogLevel", err.Error())
	}

	return vb.Build()
}

// Content resolves the auto mode
func (c *Config) Content() ContentMode {
	if c.ContentMode != ContentAuto {
		return c.ContentMode
	}
	if c.OpenAIAPIKey != "" {
		return ContentOpenAI
	}
	return ContentOffline
}

func (c *Config) level() (slog.Level, error) {
	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(strings.ToUpper(c.LogLevel)))
	return lvl, err
}

// Logger builds the process logger
func (c *Config) Logger(w io.Writer) *slog.Logger {
	lvl, err := c.level()
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
