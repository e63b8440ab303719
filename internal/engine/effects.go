package engine

import (
	"context"

	"github.com/irmakh/gemini-rpg/internal/clients/content"
	"github.com/irmakh/gemini-rpg/internal/engine/combat"
)

// Effect is a generator call the engine asked for. Executing it never
// fails: errors travel back inside the result event.
type Effect interface {
	EffectName() string
	Execute(ctx context.Context, client content.Client) Event
}

type GenerateCharacter struct {
	Request *content.CharacterRequest
}

func (GenerateCharacter) EffectName() string { return "generate_character" }

func (e GenerateCharacter) Execute(ctx context.Context, client content.Client) Event {
	res, err := client.GenerateCharacter(ctx, e.Request)
	return CharacterGenerated{Name: e.Request.Name, Class: e.Request.Class, Result: res, Err: err}
}

type GenerateDungeon struct {
	Request *content.DungeonRequest
}

func (GenerateDungeon) EffectName() string { return "generate_dungeon" }

func (e GenerateDungeon) Execute(ctx context.Context, client content.Client) Event {
	res, err := client.GenerateDungeon(ctx, e.Request)
	return DungeonGenerated{Level: e.Request.Level, Result: res, Err: err}
}

type GenerateCombatAction struct {
	Action  combat.Action
	Request *content.CombatRequest
}

func (GenerateCombatAction) EffectName() string { return "generate_combat_action" }

func (e GenerateCombatAction) Execute(ctx context.Context, client content.Client) Event {
	res, err := client.GenerateCombatAction(ctx, e.Request)
	return CombatResolved{Action: e.Action, Result: res, Err: err}
}

type GenerateAbilities struct {
	Request *content.AbilitiesRequest
}

func (GenerateAbilities) EffectName() string { return "generate_abilities" }

func (e GenerateAbilities) Execute(ctx context.Context, client content.Client) Event {
	abilities, err := client.GenerateLevelUpAbilities(ctx, e.Request)
	return AbilitiesGenerated{Abilities: abilities, Err: err}
}

type GenerateLoot struct {
	X, Y    int
	Request *content.LootRequest
}

func (GenerateLoot) EffectName() string { return "generate_loot" }

func (e GenerateLoot) Execute(ctx context.Context, client content.Client) Event {
	items, err := client.GenerateLoot(ctx, e.Request)
	return LootGenerated{X: e.X, Y: e.Y, Items: items, Err: err}
}

type TriggerTrap struct {
	X, Y    int
	Request *content.TrapRequest
}

func (TriggerTrap) EffectName() string { return "trigger_trap" }

func (e TriggerTrap) Execute(ctx context.Context, client content.Client) Event {
	res, err := client.TriggerTrap(ctx, e.Request)
	return TrapTriggered{X: e.X, Y: e.Y, Result: res, Err: err}
}

type GenerateQuest struct {
	Request *content.QuestRequest
}

func (GenerateQuest) EffectName() string { return "generate_quest" }

func (e GenerateQuest) Execute(ctx context.Context, client content.Client) Event {
	res, err := client.GenerateNewQuest(ctx, e.Request)
	return QuestGenerated{Result: res, Err: err}
}

// GenerateImage substitutes the placeholder when the generator fails so
// the flow waiting on the image always continues.
type GenerateImage struct {
	Target   ImageTarget
	EntityID string
	Request  *content.ImageRequest
}

func (GenerateImage) EffectName() string { return "generate_image" }

func (e GenerateImage) Execute(ctx context.Context, client content.Client) Event {
	url, err := client.GenerateImage(ctx, e.Request)
	if err != nil || url == "" {
		url = content.PlaceholderImage(e.Request.Aspect)
	}
	return ImageGenerated{Target: e.Target, EntityID: e.EntityID, URL: url}
}
