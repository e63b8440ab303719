// Package engine is the game's state-transition function. Every player
// command and every generator result is an Event; reducing one yields the
// next GameState plus at most one Effect, a generator call the caller must
// execute and feed back as a result event.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/irmakh/gemini-rpg/internal/clients/content"
	"github.com/irmakh/gemini-rpg/internal/engine/combat"
	"github.com/irmakh/gemini-rpg/internal/engine/dispatch"
	"github.com/irmakh/gemini-rpg/internal/engine/inventory"
	"github.com/irmakh/gemini-rpg/internal/engine/progression"
	"github.com/irmakh/gemini-rpg/internal/engine/world"
	"github.com/irmakh/gemini-rpg/internal/entities"
	"github.com/irmakh/gemini-rpg/internal/errors"
	"github.com/irmakh/gemini-rpg/internal/pkg/idgen"
)

const (
	msgCharacterFailed = "The threads of fate are tangled. Could not create your hero. Please try again."
	msgAbilitiesFailed = "The winds of knowledge are chaotic. You are unable to learn a new skill, but your stats have increased."
	msgNewQuest        = "A new challenge awaits..."
	msgLoaded          = "Game loaded successfully."
	msgLoadFailed      = "Error: The save file is corrupted or invalid."
	msgSaved           = "Game saved."
	msgNoBackstory     = "You awaken in a strange place."
)

// Engine reduces events into game states
type Engine interface {
	Reduce(ctx context.Context, input *ReduceInput) (*ReduceOutput, error)
}

// ReduceInput is a state and the event to apply to it. State is not
// modified.
type ReduceInput struct {
	State entities.GameState
	Event Event
}

// ReduceOutput is the next state and the effects to run
type ReduceOutput struct {
	State   entities.GameState
	Effects []Effect
}

// Config holds the engine dependencies
type Config struct {
	IDGenerator idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

type engine struct {
	ledger *inventory.Ledger
}

// New creates an engine
func New(cfg *Config) (Engine, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	ledger, err := inventory.NewLedger(&inventory.Config{IDGenerator: cfg.IDGenerator})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create inventory ledger")
	}

	return &engine{ledger: ledger}, nil
}

// Reduce applies one event. A rejected command returns an error and no
// state; a command refused inside the game (too poor, no mana) succeeds
// with a log line explaining why.
func (e *engine) Reduce(ctx context.Context, input *ReduceInput) (*ReduceOutput, error) {
	if input == nil || input.Event == nil {
		return nil, errors.InvalidArgument("event is required")
	}

	gs := input.State.Clone()
	if isResult(input.Event) {
		if !gs.Loading {
			return nil, errors.FailedPrecondition("no generator call is outstanding").
				WithMeta("event", input.Event.EventName())
		}
		gs.Loading = false
	}

	effect, err := e.apply(ctx, &gs, input.Event)
	if err != nil {
		return nil, err
	}
	if effect == nil {
		effect = levelUpDue(&gs)
	}

	out := &ReduceOutput{State: gs}
	if effect != nil {
		out.State.Loading = true
		out.Effects = []Effect{effect}
		slog.DebugContext(ctx, "effect requested",
			"event", input.Event.EventName(),
			"effect", effect.EffectName())
	}
	return out, nil
}

func (e *engine) apply(ctx context.Context, gs *entities.GameState, ev Event) (Effect, error) {
	switch ev := ev.(type) {
	case NewGame:
		return e.newGame(gs)
	case CreateCharacter:
		return e.createCharacter(gs, ev)
	case ConfirmCharacter:
		return e.confirmCharacter(gs)
	case ContinueGame:
		return e.continueGame(gs)
	case RetryDungeon:
		return e.retryDungeon(gs)
	case Move:
		return e.move(gs, ev)
	case CombatAction:
		return e.combatAction(gs, ev)
	case Equip:
		return e.equip(gs, ev)
	case Unequip:
		return e.unequip(gs, ev)
	case UsePotion:
		return e.usePotion(gs, ev)
	case Buy:
		if err := dispatch.CanTrade(gs, ev.VendorID); err != nil {
			return nil, err
		}
		refuse(gs, world.Buy(gs, e.ledger, ev.VendorID, ev.ItemID))
		return nil, nil
	case Sell:
		if err := dispatch.CanTrade(gs, ev.VendorID); err != nil {
			return nil, err
		}
		refuse(gs, world.Sell(gs, ev.VendorID, ev.ItemID))
		return nil, nil
	case ChooseAbility:
		return e.chooseAbility(gs, ev)
	case CloseModal:
		return e.closeModal(gs)
	case TogglePause:
		return e.togglePause(gs)
	case OpenInventory:
		if err := dispatch.CanAct(gs); err != nil {
			return nil, err
		}
		gs.Modal = &entities.Modal{Kind: entities.ModalInventory}
		return nil, nil
	case ReturnToMenu:
		if gs.Loading {
			return nil, errors.FailedPrecondition("please wait")
		}
		gs.Phase = entities.PhaseMenu
		gs.Paused = false
		return nil, nil
	case UpdateSettings:
		gs.Settings = ev.Settings
		return nil, nil
	case LoadState:
		return e.loadState(gs, ev)
	case LoadFailed:
		gs.AddLog(msgLoadFailed)
		return nil, nil
	case GameSaved:
		gs.AddLog(msgSaved)
		return nil, nil

	case CharacterGenerated:
		return e.characterGenerated(gs, ev)
	case DungeonGenerated:
		return e.dungeonGenerated(ctx, gs, ev)
	case CombatResolved:
		return e.combatResolved(ctx, gs, ev)
	case AbilitiesGenerated:
		return e.abilitiesGenerated(gs, ev)
	case LootGenerated:
		if ev.Err != nil {
			gs.AddLog(world.MsgLootFailed)
			return nil, nil
		}
		world.ApplyLoot(gs, e.ledger, ev.X, ev.Y, ev.Items)
		return nil, nil
	case TrapTriggered:
		if ev.Err != nil || ev.Result == nil {
			gs.AddLog(world.MsgTrapFailed)
			return nil, nil
		}
		world.ApplyTrap(gs, ev.X, ev.Y, ev.Result)
		return nil, nil
	case QuestGenerated:
		return e.questGenerated(ctx, gs, ev)
	case ImageGenerated:
		return e.imageGenerated(gs, ev)
	}

	return nil, errors.InvalidArgumentf("unknown event %s", ev.EventName())
}

// refuse logs an in-game refusal where the player will see it
func refuse(gs *entities.GameState, err error) {
	if err == nil {
		return
	}
	gs.AddCombatLog(errors.GetMessage(err))
}

func imageEffect(gs *entities.GameState, target ImageTarget, entityID, prompt string, aspect content.Aspect) Effect {
	return GenerateImage{
		Target:   target,
		EntityID: entityID,
		Request: &content.ImageRequest{
			Prompt:  prompt,
			Aspect:  aspect,
			Enabled: gs.Settings.UseImagen,
		},
	}
}

func descend(gs *entities.GameState, level int) Effect {
	gs.AddLog(fmt.Sprintf("Descending to dungeon level %d...", level))
	return GenerateDungeon{Request: world.DungeonRequest(level)}
}

// award grants xp outside combat and logs each level reached
func award(gs *entities.GameState, xp int) {
	var reached []int
	gs.Player, reached = progression.AwardXP(gs.Player, xp)
	for _, level := range reached {
		gs.AddLog(fmt.Sprintf("Congratulations! You've reached level %d!", level))
	}
}

// levelUpDue asks for ability choices once the player is free to pick one
func levelUpDue(gs *entities.GameState) Effect {
	p := gs.Player
	if gs.Phase != entities.PhasePlaying || p == nil || p.PendingLevelUps <= 0 {
		return nil
	}
	if gs.LevelUpOffer != nil || gs.Loading || gs.Modal != nil || gs.CombatState != nil || gs.Paused {
		return nil
	}
	return GenerateAbilities{Request: &content.AbilitiesRequest{Level: p.Level, Stats: p.Stats}}
}

func (e *engine) newGame(gs *entities.GameState) (Effect, error) {
	if gs.Loading {
		return nil, errors.FailedPrecondition("please wait")
	}
	next := entities.NewGameState()
	next.Settings = gs.Settings
	next.Phase = entities.PhaseCharacterCreation
	*gs = next
	return nil, nil
}

func (e *engine) createCharacter(gs *entities.GameState, ev CreateCharacter) (Effect, error) {
	if gs.Phase != entities.PhaseCharacterCreation || gs.Loading {
		return nil, errors.FailedPrecondition("not creating a character")
	}
	name := strings.TrimSpace(ev.Name)
	if name == "" {
		return nil, errors.InvalidArgument("Please enter a name for your hero.")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateEnum("class", ev.Class, entities.Classes, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	gs.Draft = nil
	return GenerateCharacter{Request: &content.CharacterRequest{Name: name, Class: ev.Class}}, nil
}

func (e *engine) characterGenerated(gs *entities.GameState, ev CharacterGenerated) (Effect, error) {
	if ev.Err != nil || ev.Result == nil {
		gs.AddLog(msgCharacterFailed)
		return nil, nil
	}

	gs.Draft = &entities.CharacterDraft{
		Name:      ev.Name,
		Class:     ev.Class,
		Backstory: ev.Result.Backstory,
		Stats:     ev.Result.Stats,
	}
	if ev.Result.ImagePrompt == "" {
		gs.Draft.ImageURL = content.PlaceholderImage(content.AspectSquare)
		return nil, nil
	}
	return imageEffect(gs, ImageCharacter, "", ev.Result.ImagePrompt, content.AspectSquare), nil
}

func (e *engine) confirmCharacter(gs *entities.GameState) (Effect, error) {
	if gs.Phase != entities.PhaseCharacterCreation || gs.Draft == nil || gs.Loading {
		return nil, errors.FailedPrecondition("no character is ready")
	}

	player := progression.NewCharacter(gs.Draft)
	backstory := player.Backstory
	if backstory == "" {
		backstory = msgNoBackstory
	}

	gs.Player = player
	gs.World = nil
	gs.Draft = nil
	gs.Phase = entities.PhasePlaying
	gs.Log = []string{fmt.Sprintf("Welcome, %s! Your journey begins.", player.Name), backstory}
	return descend(gs, 1), nil
}

func (e *engine) continueGame(gs *entities.GameState) (Effect, error) {
	if gs.Phase != entities.PhaseMenu || gs.Player == nil || gs.World == nil || gs.Loading {
		return nil, errors.FailedPrecondition("no game to continue")
	}
	gs.Phase = entities.PhasePlaying
	gs.Paused = false
	return nil, nil
}

func (e *engine) retryDungeon(gs *entities.GameState) (Effect, error) {
	if gs.Phase != entities.PhasePlaying || gs.Player == nil || gs.World != nil || gs.Loading {
		return nil, errors.FailedPrecondition("nothing to retry")
	}
	return descend(gs, 1), nil
}

func (e *engine) dungeonGenerated(ctx context.Context, gs *entities.GameState, ev DungeonGenerated) (Effect, error) {
	if ev.Err != nil {
		slog.WarnContext(ctx, "dungeon generation failed", "level", ev.Level, "error", ev.Err)
		gs.AddLog(world.MsgDungeonFailed)
		return nil, nil
	}
	if err := world.ApplyDungeon(gs, ev.Level, ev.Result); err != nil {
		slog.WarnContext(ctx, "dungeon rejected", "level", ev.Level, "error", err)
		gs.AddLog(world.MsgDungeonFailed)
		return nil, nil
	}

	if ev.Result.ImagePrompt == "" {
		gs.World.BackgroundImageURL = content.PlaceholderImage(content.AspectWide)
		return nil, nil
	}
	return imageEffect(gs, ImageBackground, "", ev.Result.ImagePrompt, content.AspectWide), nil
}

func (e *engine) move(gs *entities.GameState, ev Move) (Effect, error) {
	arrival, err := dispatch.Move(gs, ev.DX, ev.DY)
	if err != nil {
		return nil, err
	}

	switch arrival.Kind {
	case dispatch.ArrivalTrap:
		return TriggerTrap{X: arrival.X, Y: arrival.Y, Request: world.TrapRequest(gs)}, nil

	case dispatch.ArrivalMonster:
		idx := gs.World.FindMonster(arrival.EntityID)
		if idx < 0 {
			return nil, nil
		}
		monster := gs.World.Monsters[idx]
		gs.AddLog(fmt.Sprintf("You encounter a %s!", monster.Name))
		if monster.ImageURL == "" && monster.ImagePrompt != "" {
			return imageEffect(gs, ImageMonster, monster.ID, monster.ImagePrompt, content.AspectSquare), nil
		}
		combat.Begin(gs, monster)

	case dispatch.ArrivalChest:
		gs.AddLog("You found a treasure chest!")
		return GenerateLoot{X: arrival.X, Y: arrival.Y, Request: world.LootRequest(gs)}, nil

	case dispatch.ArrivalExit:
		if quest := world.CompleteQuestFor(gs.World, entities.QuestTargetExit); quest != nil {
			gs.AddLog(fmt.Sprintf("Quest Complete: %s! You earned %d XP.", quest.Title, quest.XPReward))
			award(gs, quest.XPReward)
		}
		return descend(gs, gs.World.DungeonLevel+1), nil

	case dispatch.ArrivalVendor:
		if gs.World.FindVendor(arrival.EntityID) >= 0 {
			gs.Modal = &entities.Modal{Kind: entities.ModalVendor, VendorID: arrival.EntityID}
		}
	}
	return nil, nil
}

func (e *engine) imageGenerated(gs *entities.GameState, ev ImageGenerated) (Effect, error) {
	switch ev.Target {
	case ImageCharacter:
		if gs.Draft != nil {
			gs.Draft.ImageURL = ev.URL
		}
	case ImageBackground:
		if gs.World != nil {
			gs.World.BackgroundImageURL = ev.URL
		}
	case ImageMonster:
		if gs.World == nil || gs.IsDead() {
			return nil, nil
		}
		idx := gs.World.FindMonster(ev.EntityID)
		if idx < 0 {
			return nil, nil
		}
		gs.World.Monsters[idx].ImageURL = ev.URL
		if gs.CombatState == nil {
			combat.Begin(gs, gs.World.Monsters[idx])
		}
	}
	return nil, nil
}

func (e *engine) combatAction(gs *entities.GameState, ev CombatAction) (Effect, error) {
	if err := dispatch.CanFight(gs); err != nil {
		return nil, err
	}
	if !gs.CombatState.PlayerTurn {
		return nil, errors.FailedPrecondition("wait for your turn")
	}

	req, err := combat.Submit(gs, ev.Action)
	if err != nil {
		refuse(gs, err)
		return nil, nil
	}
	return GenerateCombatAction{Action: ev.Action, Request: req}, nil
}

func (e *engine) combatResolved(ctx context.Context, gs *entities.GameState, ev CombatResolved) (Effect, error) {
	if ev.Err != nil {
		slog.WarnContext(ctx, "combat resolution failed", "error", ev.Err)
		combat.Fail(gs)
		return nil, nil
	}

	outcome, err := combat.Resolve(gs, e.ledger, ev.Action, ev.Result)
	if err != nil {
		slog.WarnContext(ctx, "combat result rejected", "error", err)
		combat.Fail(gs)
		return nil, nil
	}

	if outcome.QuestCompleted {
		gs.AddLog(msgNewQuest)
		return GenerateQuest{Request: world.QuestRequest(gs)}, nil
	}
	return nil, nil
}

func (e *engine) questGenerated(ctx context.Context, gs *entities.GameState, ev QuestGenerated) (Effect, error) {
	if ev.Err != nil {
		gs.AddLog(world.MsgQuestFailed)
		return nil, nil
	}
	if err := world.ApplyQuest(gs, ev.Result); err != nil {
		slog.WarnContext(ctx, "quest rejected", "error", err)
		gs.AddLog(world.MsgQuestFailed)
	}
	return nil, nil
}

func (e *engine) abilitiesGenerated(gs *entities.GameState, ev AbilitiesGenerated) (Effect, error) {
	var offer []entities.Ability
	if ev.Err == nil && gs.Player != nil {
		for _, a := range ev.Abilities {
			if _, known := gs.Player.FindAbility(a.ID); known || a.StatOnly || a.ID == "" {
				continue
			}
			offer = append(offer, a)
		}
	}

	if len(offer) > 0 {
		gs.LevelUpOffer = offer
		gs.Modal = &entities.Modal{Kind: entities.ModalLevelUp}
		return nil, nil
	}

	gs.AddLog(msgAbilitiesFailed)
	if gs.Player == nil || gs.Player.PendingLevelUps <= 0 {
		return nil, nil
	}
	p, err := progression.ResolveLevelUp(gs.Player, progression.FallbackAbility())
	if err != nil {
		return nil, err
	}
	gs.Player = p
	return nil, nil
}

func (e *engine) chooseAbility(gs *entities.GameState, ev ChooseAbility) (Effect, error) {
	if gs.Loading || gs.LevelUpOffer == nil || gs.Modal == nil || gs.Modal.Kind != entities.ModalLevelUp {
		return nil, errors.FailedPrecondition("no ability is on offer")
	}

	var chosen *entities.Ability
	for idx := range gs.LevelUpOffer {
		if gs.LevelUpOffer[idx].ID == ev.AbilityID {
			chosen = &gs.LevelUpOffer[idx]
			break
		}
	}
	if chosen == nil {
		return nil, errors.InvalidArgumentf("ability %s is not on offer", ev.AbilityID)
	}

	p, err := progression.ResolveLevelUp(gs.Player, *chosen)
	if err != nil {
		return nil, err
	}
	gs.Player = p
	gs.AddLog(fmt.Sprintf("You learned a new ability: %s! Your stats have increased.", chosen.Name))
	gs.LevelUpOffer = nil
	gs.Modal = nil
	return nil, nil
}

func (e *engine) equip(gs *entities.GameState, ev Equip) (Effect, error) {
	if err := dispatch.CanManageInventory(gs); err != nil {
		return nil, err
	}

	p, err := e.ledger.Equip(gs.Player, ev.ItemID)
	if err != nil {
		refuse(gs, err)
		return nil, nil
	}
	name := ev.ItemID
	if idx := gs.Player.FindItem(ev.ItemID); idx >= 0 {
		name = gs.Player.Inventory[idx].Name
	}
	gs.Player = p
	gs.AddLog(fmt.Sprintf("Equipped %s.", name))
	return nil, nil
}

func (e *engine) unequip(gs *entities.GameState, ev Unequip) (Effect, error) {
	if err := dispatch.CanManageInventory(gs); err != nil {
		return nil, err
	}

	p, item, err := e.ledger.Unequip(gs.Player, ev.Slot)
	if err != nil {
		refuse(gs, err)
		return nil, nil
	}
	gs.Player = p
	if item != nil {
		gs.AddLog(fmt.Sprintf("Unequipped %s.", item.Name))
	}
	return nil, nil
}

func (e *engine) usePotion(gs *entities.GameState, ev UsePotion) (Effect, error) {
	if err := dispatch.CanManageInventory(gs); err != nil {
		return nil, err
	}

	idx := gs.Player.FindItem(ev.ItemID)
	p, effect, err := inventory.UsePotion(gs.Player, ev.ItemID)
	if err != nil {
		refuse(gs, err)
		return nil, nil
	}
	gs.AddLog(fmt.Sprintf("You use the %s and %s.", gs.Player.Inventory[idx].Name, effect.Describe()))
	gs.Player = p
	return nil, nil
}

func (e *engine) closeModal(gs *entities.GameState) (Effect, error) {
	if gs.Loading {
		return nil, errors.FailedPrecondition("please wait")
	}
	if gs.Modal == nil {
		return nil, errors.FailedPrecondition("no dialog is open")
	}
	if gs.Modal.Kind == entities.ModalLevelUp || gs.Modal.Kind == entities.ModalDeath {
		return nil, errors.FailedPreconditionf("the %s dialog cannot be dismissed", gs.Modal.Kind)
	}
	gs.Modal = nil
	return nil, nil
}

func (e *engine) togglePause(gs *entities.GameState) (Effect, error) {
	if gs.Phase != entities.PhasePlaying || gs.Loading || gs.IsDead() {
		return nil, errors.FailedPrecondition("cannot pause now")
	}
	if gs.Paused {
		gs.Paused = false
		return nil, nil
	}
	if gs.Modal != nil || gs.CombatState != nil {
		return nil, errors.FailedPrecondition("cannot pause now")
	}
	gs.Paused = true
	return nil, nil
}

func (e *engine) loadState(gs *entities.GameState, ev LoadState) (Effect, error) {
	if gs.Loading {
		return nil, errors.FailedPrecondition("please wait")
	}
	loaded := ev.State.Clone()
	loaded.Phase = entities.PhasePlaying
	loaded.Paused = false
	loaded.Loading = false
	loaded.AddLog(msgLoaded)
	*gs = loaded
	return nil, nil
}
