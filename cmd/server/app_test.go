package main

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/irmakh/gemini-rpg/internal/config"
	"github.com/irmakh/gemini-rpg/internal/engine"
	"github.com/irmakh/gemini-rpg/internal/entities"
	"github.com/irmakh/gemini-rpg/internal/errors"
	"github.com/irmakh/gemini-rpg/internal/orchestrators/game"
)

type AppTestSuite struct {
	suite.Suite
	ctx context.Context
}

func TestAppSuite(t *testing.T) {
	suite.Run(t, new(AppTestSuite))
}

func (s *AppTestSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *AppTestSuite) load(vars map[string]string) *config.Config {
	cfg, err := config.LoadFrom(vars)
	s.Require().NoError(err)
	return cfg
}

func (s *AppTestSuite) TestOfflineInMemory() {
	a, err := newApp(s.ctx, s.load(map[string]string{"GEMINI_RPG_CONTENT_MODE": "offline"}))
	s.Require().NoError(err)
	defer a.close()
	s.Nil(a.redis)

	start, err := a.games.Start(s.ctx, &game.StartInput{})
	s.Require().NoError(err)

	_, err = a.games.Handle(s.ctx, &game.HandleInput{SessionID: start.SessionID, Event: engine.NewGame{}})
	s.Require().NoError(err)
	out, err := a.games.Handle(s.ctx, &game.HandleInput{
		SessionID: start.SessionID,
		Event:     engine.CreateCharacter{Name: "Aria", Class: entities.ClassRogue},
	})
	s.Require().NoError(err)
	s.Require().NotNil(out.State.Draft)
}

func (s *AppTestSuite) TestRedisSaves() {
	mr := miniredis.RunT(s.T())

	a, err := newApp(s.ctx, s.load(map[string]string{
		"GEMINI_RPG_CONTENT_MODE": "offline",
		"GEMINI_RPG_REDIS_ADDRS":  mr.Addr(),
	}))
	s.Require().NoError(err)
	defer a.close()
	s.NotNil(a.redis)

	start, err := a.games.Start(s.ctx, &game.StartInput{Owner: "alice"})
	s.Require().NoError(err)
	list, err := a.games.ListSaves(s.ctx, &game.ListSavesInput{SessionID: start.SessionID})
	s.Require().NoError(err)
	s.Empty(list.Records)
}

func (s *AppTestSuite) TestRedisUnreachable() {
	mr := miniredis.NewMiniRedis()
	s.Require().NoError(mr.Start())
	addr := mr.Addr()
	mr.Close()

	_, err := newApp(s.ctx, s.load(map[string]string{
		"GEMINI_RPG_CONTENT_MODE": "offline",
		"GEMINI_RPG_REDIS_ADDRS":  addr,
	}))
	s.Require().Error(err)
	s.Contains(err.Error(), "failed to reach redis")
}

func (s *AppTestSuite) TestOpenAIClientSelected() {
	client, err := newContentClient(s.load(map[string]string{"OPENAI_API_KEY": "sk-test"}), nil)
	s.Error(err, "an id generator is required")
	s.Nil(client)
}

func (s *AppTestSuite) TestSweepEvictsIdleSessions() {
	a, err := newApp(s.ctx, s.load(map[string]string{
		"GEMINI_RPG_CONTENT_MODE":         "offline",
		"GEMINI_RPG_SESSION_IDLE_TIMEOUT": "1ms",
	}))
	s.Require().NoError(err)
	defer a.close()

	start, err := a.games.Start(s.ctx, &game.StartInput{})
	s.Require().NoError(err)

	time.Sleep(5 * time.Millisecond)
	a.sweep(s.ctx)

	_, err = a.games.Get(s.ctx, &game.GetInput{SessionID: start.SessionID})
	s.True(errors.IsNotFound(err))
}

func (s *AppTestSuite) TestSweepStopsWithContext() {
	a, err := newApp(s.ctx, s.load(map[string]string{"GEMINI_RPG_CONTENT_MODE": "offline"}))
	s.Require().NoError(err)
	defer a.close()

	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan struct{})
	go func() {
		a.sweepSessions(ctx, time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("sweep did not stop")
	}
}
