package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/irmakh/gemini-rpg/internal/clients/content"
	"github.com/irmakh/gemini-rpg/internal/config"
	"github.com/irmakh/gemini-rpg/internal/engine"
	"github.com/irmakh/gemini-rpg/internal/orchestrators/game"
	"github.com/irmakh/gemini-rpg/internal/pkg/clock"
	"github.com/irmakh/gemini-rpg/internal/pkg/idgen"
	"github.com/irmakh/gemini-rpg/internal/redis"
	"github.com/irmakh/gemini-rpg/internal/repositories/savegame"
)

// app is the wired server
type app struct {
	games game.Service
	redis redis.Client
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	ids := idgen.NewUUID("")

	eng, err := engine.New(&engine.Config{IDGenerator: ids})
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	client, err := newContentClient(cfg, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to create content client: %w", err)
	}

	a := &app{}
	saves, err := a.newSaveRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}

	games, err := game.NewOrchestrator(&game.Config{
		Engine:        eng,
		Content:       client,
		SaveRepo:      saves,
		IDGenerator:   idgen.NewUUID("session"),
		EffectTimeout: cfg.GeneratorTimeout,
		Clock:         clock.New(),
		IdleTimeout:   cfg.SessionIdleTimeout,
	})
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to create game orchestrator: %w", err)
	}
	a.games = games
	return a, nil
}

func newContentClient(cfg *config.Config, ids idgen.Generator) (content.Client, error) {
	if cfg.Content() == config.ContentOffline {
		slog.Info("using offline content generator")
		client, err := content.NewOffline(&content.OfflineConfig{
			Roller:      dice.DefaultRoller,
			IDGenerator: ids,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	slog.Info("using openai content generator", "chat_model", cfg.ChatModel, "image_model", cfg.ImageModel)
	client, err := content.NewOpenAI(&content.OpenAIConfig{
		APIKey:      cfg.OpenAIAPIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		ChatModel:   cfg.ChatModel,
		ImageModel:  cfg.ImageModel,
		Timeout:     cfg.GeneratorTimeout,
		IDGenerator: ids,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (a *app) newSaveRepository(ctx context.Context, cfg *config.Config) (savegame.Repository, error) {
	if len(cfg.RedisAddrs) == 0 {
		slog.Warn("no redis configured, saves are kept in memory")
		return savegame.NewInMemory(clock.New()), nil
	}

	client, err := redis.Connect(redis.Mode(cfg.RedisMode), cfg.RedisAddrs, &redis.Options{
		PoolSize: cfg.RedisPoolSize,
		UseTLS:   cfg.RedisTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}
	a.redis = client

	if err := client.Ping(ctx).Err(); err != nil {
		a.close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}

	return savegame.NewRedis(&savegame.RedisConfig{Client: client, Clock: clock.New()})
}

// sweepSessions evicts idle sessions every interval until ctx is done
func (a *app) sweepSessions(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.sweep(ctx)
		}
	}
}

func (a *app) sweep(ctx context.Context) {
	if _, err := a.games.EvictIdle(ctx, &game.EvictIdleInput{}); err != nil {
		slog.WarnContext(ctx, "session sweep failed", "error", err.Error())
	}
}

func (a *app) close() {
	if a.redis == nil {
		return
	}
	if err := a.redis.Close(); err != nil {
		slog.Warn("failed to close redis", "error", err.Error())
	}
	a.redis = nil
}
