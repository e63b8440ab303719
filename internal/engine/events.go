package engine

import (
	"github.com/irmakh/gemini-rpg/internal/clients/content"
	"github.com/irmakh/gemini-rpg/internal/engine/combat"
	"github.com/irmakh/gemini-rpg/internal/entities"
)

// Event is anything that can move a game forward: a player command or the
// result of an effect.
type Event interface {
	EventName() string
}

// Player commands

// NewGame leaves the menu for character creation. Settings are kept.
type NewGame struct{}

// CreateCharacter asks the generator for a hero draft
type CreateCharacter struct {
	Name  string                  `json:"name"`
	Class entities.CharacterClass `json:"characterClass"`
}

// ConfirmCharacter accepts the current draft and starts the first dungeon
type ConfirmCharacter struct{}

// ContinueGame returns from the menu to a game in progress
type ContinueGame struct{}

// RetryDungeon asks for the current level again after its generation failed
type RetryDungeon struct{}

// Move steps the player one cell
type Move struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

// CombatAction is the player's move on their turn
type CombatAction struct {
	Action combat.Action `json:"action"`
}

type Equip struct {
	ItemID string `json:"itemId"`
}

type Unequip struct {
	Slot entities.EquipmentSlot `json:"slot"`
}

// UsePotion drinks a potion outside combat
type UsePotion struct {
	ItemID string `json:"itemId"`
}

type Buy struct {
	VendorID string `json:"vendorId"`
	ItemID   string `json:"itemId"`
}

type Sell struct {
	VendorID string `json:"vendorId"`
	ItemID   string `json:"itemId"`
}

// ChooseAbility picks one of the offered level-up abilities
type ChooseAbility struct {
	AbilityID string `json:"abilityId"`
}

// CloseModal dismisses a quest, vendor or inventory dialog
type CloseModal struct{}

type TogglePause struct{}

type OpenInventory struct{}

type ReturnToMenu struct{}

type UpdateSettings struct {
	Settings entities.GameSettings `json:"settings"`
}

// LoadState replaces the game with a decoded save
type LoadState struct {
	State entities.GameState
}

// LoadFailed reports a save that could not be decoded
type LoadFailed struct{}

// GameSaved acknowledges a stored save
type GameSaved struct{}

// Effect results. Err is set when the generator call failed.

type CharacterGenerated struct {
	Name   string
	Class  entities.CharacterClass
	Result *content.CharacterResult
	Err    error
}

type DungeonGenerated struct {
	Level  int
	Result *content.DungeonResult
	Err    error
}

type CombatResolved struct {
	Action combat.Action
	Result *content.CombatResult
	Err    error
}

type AbilitiesGenerated struct {
	Abilities []entities.Ability
	Err       error
}

type LootGenerated struct {
	X, Y  int
	Items []entities.Item
	Err   error
}

type TrapTriggered struct {
	X, Y   int
	Result *content.TrapResult
	Err    error
}

type QuestGenerated struct {
	Result *content.QuestResult
	Err    error
}

// ImageTarget is what a generated image belongs to
type ImageTarget string

const (
	ImageCharacter  ImageTarget = "character"
	ImageMonster    ImageTarget = "monster"
	ImageBackground ImageTarget = "background"
)

// ImageGenerated always carries a URL; failures already fell back to the
// placeholder.
type ImageGenerated struct {
	Target   ImageTarget
	EntityID string
	URL      string
}

func (NewGame) EventName() string            { return "new_game" }
func (CreateCharacter) EventName() string    { return "create_character" }
func (ConfirmCharacter) EventName() string   { return "confirm_character" }
func (ContinueGame) EventName() string       { return "continue_game" }
func (RetryDungeon) EventName() string       { return "retry_dungeon" }
func (Move) EventName() string               { return "move" }
func (CombatAction) EventName() string       { return "combat_action" }
func (Equip) EventName() string              { return "equip" }
func (Unequip) EventName() string            { return "unequip" }
func (UsePotion) EventName() string          { return "use_potion" }
func (Buy) EventName() string                { return "buy" }
func (Sell) EventName() string               { return "sell" }
func (ChooseAbility) EventName() string      { return "choose_ability" }
func (CloseModal) EventName() string         { return "close_modal" }
func (TogglePause) EventName() string        { return "toggle_pause" }
func (OpenInventory) EventName() string      { return "open_inventory" }
func (ReturnToMenu) EventName() string       { return "return_to_menu" }
func (UpdateSettings) EventName() string     { return "update_settings" }
func (LoadState) EventName() string          { return "load_state" }
func (LoadFailed) EventName() string         { return "load_failed" }
func (GameSaved) EventName() string          { return "game_saved" }
func (CharacterGenerated) EventName() string { return "character_generated" }
func (DungeonGenerated) EventName() string   { return "dungeon_generated" }
func (CombatResolved) EventName() string     { return "combat_resolved" }
func (AbilitiesGenerated) EventName() string { return "abilities_generated" }
func (LootGenerated) EventName() string      { return "loot_generated" }
func (TrapTriggered) EventName() string      { return "trap_triggered" }
func (QuestGenerated) EventName() string     { return "quest_generated" }
func (ImageGenerated) EventName() string     { return "image_generated" }

// isResult reports whether the event answers an effect
func isResult(ev Event) bool {
	switch ev.(type) {
	case CharacterGenerated, DungeonGenerated, CombatResolved, AbilitiesGenerated,
		LootGenerated, TrapTriggered, QuestGenerated, ImageGenerated:
		return true
	}
	return false
}
