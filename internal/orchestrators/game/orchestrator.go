// Package game runs game sessions. It owns each session's state, feeds
// player events through the engine and executes the generator calls the
// engine asks for, feeding their results back in.
package game

//go:generate mockgen -destination=mock/mock_service.go -package=gamemock github.com/irmakh/gemini-rpg/internal/orchestrators/game Service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/irmakh/gemini-rpg/internal/clients/content"
	"github.com/irmakh/gemini-rpg/internal/engine"
	"github.com/irmakh/gemini-rpg/internal/entities"
	"github.com/irmakh/gemini-rpg/internal/errors"
	"github.com/irmakh/gemini-rpg/internal/pkg/clock"
	"github.com/irmakh/gemini-rpg/internal/pkg/idgen"
	"github.com/irmakh/gemini-rpg/internal/repositories/savegame"
	"github.com/irmakh/gemini-rpg/internal/savestate"
)

const (
	// DefaultEffectTimeout bounds a single generator call
	DefaultEffectTimeout = 90 * time.Second

	// DefaultIdleTimeout is how long a session survives without any call
	DefaultIdleTimeout = time.Hour
)

// Service defines the interface for session operations
type Service interface {
	// Session lifecycle. Every call on a session marks it active;
	// EvictIdle drops the ones that have not been used for the idle timeout.
	Start(ctx context.Context, input *StartInput) (*StartOutput, error)
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)
	End(ctx context.Context, input *EndInput) (*EndOutput, error)
	EvictIdle(ctx context.Context, input *EvictIdleInput) (*EvictIdleOutput, error)

	// Handle applies a player event and runs every effect it causes
	Handle(ctx context.Context, input *HandleInput) (*HandleOutput, error)

	// Save slots and save files
	Save(ctx context.Context, input *SaveInput) (*SaveOutput, error)
	Load(ctx context.Context, input *LoadInput) (*LoadOutput, error)
	Import(ctx context.Context, input *ImportInput) (*ImportOutput, error)
	Export(ctx context.Context, input *ExportInput) (*ExportOutput, error)
	ListSaves(ctx context.Context, input *ListSavesInput) (*ListSavesOutput, error)
	DeleteSave(ctx context.Context, input *DeleteSaveInput) (*DeleteSaveOutput, error)
}

// Config holds the dependencies for the game orchestrator
type Config struct {
	Engine        engine.Engine
	Content       content.Client
	SaveRepo      savegame.Repository
	IDGenerator   idgen.Generator
	EffectTimeout time.Duration

	// Clock and IdleTimeout drive EvictIdle. They default to the real
	// clock and DefaultIdleTimeout.
	Clock       clock.Clock
	IdleTimeout time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Engine == nil {
		vb.RequiredField("Engine")
	}
	if c.Content == nil {
		vb.RequiredField("Content")
	}
	if c.SaveRepo == nil {
		vb.RequiredField("SaveRepo")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.EffectTimeout < 0 {
		vb.InvalidField("EffectTimeout", "must not be negative")
	}
	if c.IdleTimeout < 0 {
		vb.InvalidField("IdleTimeout", "must not be negative")
	}

	return vb.Build()
}

// session serializes reductions. Generator calls run without the lock
// so a slow call never blocks reads of the session.
type session struct {
	mu    sync.Mutex
	id    string
	owner string
	state entities.GameState

	lastSeen atomic.Int64 // unix nanos
}

func (s *session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *session) idleFor(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastSeen.Load()))
}

type orchestrator struct {
	engine        engine.Engine
	content       content.Client
	saves         savegame.Repository
	idGen         idgen.Generator
	effectTimeout time.Duration
	clock         clock.Clock
	idleTimeout   time.Duration

	mu       sync.RWMutex
	sessions map[string]*session
}

// NewOrchestrator creates a new game orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	timeout := cfg.EffectTimeout
	if timeout == 0 {
		timeout = DefaultEffectTimeout
	}
	idle := cfg.IdleTimeout
	if idle == 0 {
		idle = DefaultIdleTimeout
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}

	return &orchestrator{
		engine:        cfg.Engine,
		content:       cfg.Content,
		saves:         cfg.SaveRepo,
		idGen:         cfg.IDGenerator,
		effectTimeout: timeout,
		clock:         clk,
		idleTimeout:   idle,
		sessions:      make(map[string]*session),
	}, nil
}

func (o *orchestrator) Start(ctx context.Context, input *StartInput) (*StartOutput, error) {
	if input == nil {
		input = &StartInput{}
	}

	sess := &session{
		id:    o.idGen.Generate(),
		owner: input.Owner,
		state: entities.NewGameState(),
	}
	if sess.owner == "" {
		sess.owner = sess.id
	}
	sess.touch(o.clock.Now())

	o.mu.Lock()
	o.sessions[sess.id] = sess
	count := len(o.sessions)
	o.mu.Unlock()

	slog.InfoContext(ctx, "session started",
		"session_id", sess.id,
		"owner", sess.owner,
		"sessions", count)

	return &StartOutput{SessionID: sess.id, State: sess.state.Clone()}, nil
}

func (o *orchestrator) session(id string) (*session, error) {
	if id == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	o.mu.RLock()
	defer o.mu.RUnlock()

	sess, ok := o.sessions[id]
	if !ok {
		return nil, errors.NotFoundf("session %s not found", id)
	}
	sess.touch(o.clock.Now())
	return sess, nil
}

func (s *session) snapshot() entities.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (o *orchestrator) Get(_ context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	sess, err := o.session(input.SessionID)
	if err != nil {
		return nil, err
	}
	return &GetOutput{State: sess.snapshot()}, nil
}

func (o *orchestrator) End(ctx context.Context, input *EndInput) (*EndOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if _, err := o.session(input.SessionID); err != nil {
		return nil, err
	}

	o.mu.Lock()
	delete(o.sessions, input.SessionID)
	o.mu.Unlock()

	slog.InfoContext(ctx, "session ended", "session_id", input.SessionID)
	return &EndOutput{}, nil
}

// EvictIdle drops every session nobody has used for the idle timeout
func (o *orchestrator) EvictIdle(ctx context.Context, _ *EvictIdleInput) (*EvictIdleOutput, error) {
	now := o.clock.Now()

	o.mu.Lock()
	var evicted []string
	for id, sess := range o.sessions {
		if sess.idleFor(now) >= o.idleTimeout {
			delete(o.sessions, id)
			evicted = append(evicted, id)
		}
	}
	remaining := len(o.sessions)
	o.mu.Unlock()

	if len(evicted) > 0 {
		slog.InfoContext(ctx, "idle sessions evicted",
			"evicted", len(evicted),
			"sessions", remaining)
	}
	return &EvictIdleOutput{SessionIDs: evicted}, nil
}

func (o *orchestrator) Handle(ctx context.Context, input *HandleInput) (*HandleOutput, error) {
	if input == nil || input.Event == nil {
		return nil, errors.InvalidArgument("event is required")
	}
	sess, err := o.session(input.SessionID)
	if err != nil {
		return nil, err
	}

	state, effects, err := o.reduce(ctx, sess, input.Event)
	if err != nil {
		slog.DebugContext(ctx, "event rejected",
			"session_id", sess.id,
			"event", input.Event.EventName(),
			"error", err.Error())
		return nil, err
	}
	notify(input.OnState, state)
	o.drain(ctx, sess, effects, input.OnState)

	return &HandleOutput{State: sess.snapshot()}, nil
}

// drain executes effects one at a time, feeding each result back through
// the engine, until no more are queued
func (o *orchestrator) drain(ctx context.Context, sess *session, effects []engine.Effect, onState StateFunc) {
	for len(effects) > 0 {
		effect := effects[0]
		effects = effects[1:]

		result := o.execute(ctx, sess.id, effect)
		next, more, err := o.reduce(ctx, sess, result)
		if err != nil {
			// the game moved on while the generator was busy
			slog.WarnContext(ctx, "dropping effect result",
				"session_id", sess.id,
				"effect", effect.EffectName(),
				"error", err.Error())
			continue
		}
		notify(onState, next)
		effects = append(effects, more...)
	}
}

func notify(fn StateFunc, state entities.GameState) {
	if fn != nil {
		fn(state)
	}
}

// reduce applies one event under the session lock
func (o *orchestrator) reduce(ctx context.Context, sess *session, ev engine.Event) (entities.GameState, []engine.Effect, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	out, err := o.engine.Reduce(ctx, &engine.ReduceInput{State: sess.state, Event: ev})
	if err != nil {
		return entities.GameState{}, nil, err
	}
	sess.state = out.State
	return out.State.Clone(), out.Effects, nil
}

func (o *orchestrator) execute(ctx context.Context, sessionID string, effect engine.Effect) engine.Event {
	ctx, cancel := context.WithTimeout(ctx, o.effectTimeout)
	defer cancel()

	start := time.Now()
	result := effect.Execute(ctx, o.content)
	slog.InfoContext(ctx, "effect executed",
		"session_id", sessionID,
		"effect", effect.EffectName(),
		"duration", time.Since(start))
	return result
}

func summarize(gs entities.GameState) savegame.Summary {
	var s savegame.Summary
	if gs.Player != nil {
		s.PlayerName = gs.Player.Name
		s.Class = string(gs.Player.Class)
		s.Level = gs.Player.Level
	}
	if gs.World != nil {
		s.DungeonLevel = gs.World.DungeonLevel
	}
	return s
}

func encode(state entities.GameState) ([]byte, error) {
	if state.Loading {
		return nil, errors.FailedPrecondition("please wait")
	}
	return savestate.Encode(state)
}

func (o *orchestrator) Save(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	sess, err := o.session(input.SessionID)
	if err != nil {
		return nil, err
	}

	state := sess.snapshot()
	data, err := encode(state)
	if err != nil {
		return nil, err
	}

	put, err := o.saves.Put(ctx, &savegame.PutInput{
		Owner:   sess.owner,
		Slot:    input.Slot,
		Data:    data,
		Summary: summarize(state),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to store save")
	}

	_, effects, err := o.reduce(ctx, sess, engine.GameSaved{})
	if err != nil {
		return nil, err
	}
	o.drain(ctx, sess, effects, nil)

	slog.InfoContext(ctx, "game saved",
		"session_id", sess.id,
		"slot", input.Slot)

	return &SaveOutput{Record: put.Record, State: sess.snapshot()}, nil
}

func (o *orchestrator) Load(ctx context.Context, input *LoadInput) (*LoadOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	sess, err := o.session(input.SessionID)
	if err != nil {
		return nil, err
	}

	got, err := o.saves.Get(ctx, &savegame.GetInput{Owner: sess.owner, Slot: input.Slot})
	if err != nil {
		return nil, err
	}

	state, loaded, err := o.restore(ctx, sess, got.Record.Data)
	if err != nil {
		return nil, err
	}
	return &LoadOutput{State: state, Loaded: loaded}, nil
}

func (o *orchestrator) Import(ctx context.Context, input *ImportInput) (*ImportOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	sess, err := o.session(input.SessionID)
	if err != nil {
		return nil, err
	}

	state, loaded, err := o.restore(ctx, sess, input.Data)
	if err != nil {
		return nil, err
	}
	return &ImportOutput{State: state, Loaded: loaded}, nil
}

// restore decodes a save into the session. A save that does not decode
// is reported in the log and leaves the game untouched.
func (o *orchestrator) restore(ctx context.Context, sess *session, data []byte) (entities.GameState, bool, error) {
	decoded, err := savestate.Decode(data)
	if err != nil {
		slog.WarnContext(ctx, "save rejected",
			"session_id", sess.id,
			"error", err.Error())
		_, effects, rerr := o.reduce(ctx, sess, engine.LoadFailed{})
		if rerr != nil {
			return entities.GameState{}, false, rerr
		}
		o.drain(ctx, sess, effects, nil)
		return sess.snapshot(), false, nil
	}

	// a restored player may be owed a level-up offer
	_, effects, err := o.reduce(ctx, sess, engine.LoadState{State: decoded})
	if err != nil {
		return entities.GameState{}, false, err
	}
	o.drain(ctx, sess, effects, nil)
	return sess.snapshot(), true, nil
}

func (o *orchestrator) Export(_ context.Context, input *ExportInput) (*ExportOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	sess, err := o.session(input.SessionID)
	if err != nil {
		return nil, err
	}

	data, err := encode(sess.snapshot())
	if err != nil {
		return nil, err
	}
	return &ExportOutput{Data: data}, nil
}

func (o *orchestrator) ListSaves(ctx context.Context, input *ListSavesInput) (*ListSavesOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	sess, err := o.session(input.SessionID)
	if err != nil {
		return nil, err
	}

	out, err := o.saves.List(ctx, &savegame.ListInput{Owner: sess.owner})
	if err != nil {
		return nil, err
	}
	return &ListSavesOutput{Records: out.Records}, nil
}

func (o *orchestrator) DeleteSave(ctx context.Context, input *DeleteSaveInput) (*DeleteSaveOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	sess, err := o.session(input.SessionID)
	if err != nil {
		return nil, err
	}

	if _, err := o.saves.Delete(ctx, &savegame.DeleteInput{Owner: sess.owner, Slot: input.Slot}); err != nil {
		return nil, err
	}
	return &DeleteSaveOutput{}, nil
}
