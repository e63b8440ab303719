// Package combat runs turn-based fights. A fight moves from the player's
// turn to resolving once an action is submitted, then back to the player's
// turn, or ends when the monster or the player falls.
package combat

import (
	"fmt"
	"strings"

	"github.com/irmakh/gemini-rpg/internal/clients/content"
	"github.com/irmakh/gemini-rpg/internal/engine/inventory"
	"github.com/irmakh/gemini-rpg/internal/engine/progression"
	"github.com/irmakh/gemini-rpg/internal/engine/stats"
	"github.com/irmakh/gemini-rpg/internal/engine/world"
	"github.com/irmakh/gemini-rpg/internal/entities"
	"github.com/irmakh/gemini-rpg/internal/errors"
)

// MsgFailed is logged when the generator could not resolve a turn
const MsgFailed = "A strange force disrupts the battle."

const (
	msgNoMana      = "Not enough mana!"
	msgNotInCombat = "You are not in combat."
	msgNotYourTurn = "Wait for your turn."
)

// Action is what the player does on their turn
type Action struct {
	Kind      content.ActionKind `json:"kind"`
	AbilityID string             `json:"abilityId,omitempty"`
	ItemID    string             `json:"itemId,omitempty"`
}

// Outcome summarizes a resolved turn for the caller
type Outcome struct {
	MonsterDefeated bool
	QuestCompleted  bool
	PlayerDied      bool
	LevelsReached   []int
}

// Begin starts a fight against a monster with the player to act first
func Begin(gs *entities.GameState, monster entities.Monster) {
	gs.CombatState = &entities.CombatState{
		Monster:    monster,
		PlayerTurn: true,
		CombatLog:  []string{fmt.Sprintf("You are challenged by a level %d %s!", monster.Level, monster.Name)},
	}
}

// Submit validates an action and locks the turn. The returned request goes
// to the generator; nothing else changes until Resolve or Fail.
func Submit(gs *entities.GameState, action Action) (*content.CombatRequest, error) {
	cs := gs.CombatState
	if cs == nil || gs.Player == nil {
		return nil, errors.FailedPrecondition(msgNotInCombat)
	}
	if !cs.PlayerTurn {
		return nil, errors.FailedPrecondition(msgNotYourTurn)
	}

	p := gs.Player
	var text string
	switch action.Kind {
	case content.ActionAttack:
		text = "The player attacks the monster with their weapon."
	case content.ActionAbility:
		ability, ok := findCombatAbility(p, action.AbilityID)
		if !ok {
			return nil, errors.NotFound("You don't know that ability.").WithMeta("ability_id", action.AbilityID)
		}
		if p.Mana < ability.ManaCost {
			return nil, errors.FailedPrecondition(msgNoMana)
		}
		text = fmt.Sprintf("The player uses the ability: %s - %s (Cost: %d mana).", ability.Name, ability.Description, ability.ManaCost)
	case content.ActionItem:
		idx := p.FindItem(action.ItemID)
		if idx < 0 {
			return nil, errors.NotFound("You don't have that item.").WithMeta("item_id", action.ItemID)
		}
		item := p.Inventory[idx]
		if item.Type != entities.ItemTypePotion {
			return nil, errors.InvalidArgumentf("You can't use %s.", item.Name)
		}
		text = strings.TrimSpace(fmt.Sprintf("The player uses the item: %s. %s", item.Name, describePotion(item)))
	default:
		return nil, errors.InvalidArgumentf("unknown combat action %q", action.Kind)
	}

	totals := stats.Effective(p.Stats, p.Equipment)
	var names []string
	for _, a := range p.CombatAbilities() {
		names = append(names, a.Name)
	}

	cs.PlayerTurn = false
	return &content.CombatRequest{
		PlayerLevel:   p.Level,
		PlayerHP:      p.HP,
		PlayerMana:    p.Mana,
		PlayerStats:   totals,
		PlayerDefense: totals.Defense,
		Abilities:     names,
		Monster:       cs.Monster,
		ActionKind:    action.Kind,
		ActionText:    text,
	}, nil
}

func findCombatAbility(p *entities.Player, id string) (entities.Ability, bool) {
	for _, a := range p.CombatAbilities() {
		if a.ID == id {
			return a, true
		}
	}
	return entities.Ability{}, false
}

func describePotion(item entities.Item) string {
	var parts []string
	if item.HealAmount > 0 {
		parts = append(parts, fmt.Sprintf("restores %d HP.", item.HealAmount))
	}
	if item.ManaAmount > 0 {
		parts = append(parts, fmt.Sprintf("restores %d Mana.", item.ManaAmount))
	}
	return strings.Join(parts, " ")
}

// Resolve applies the generator's verdict on a submitted action
func Resolve(gs *entities.GameState, ledger *inventory.Ledger, action Action, res *content.CombatResult) (Outcome, error) {
	var out Outcome
	cs := gs.CombatState
	if cs == nil || cs.PlayerTurn {
		return out, errors.FailedPrecondition("no combat action is being resolved")
	}
	if res == nil {
		return out, errors.InvalidArgument("combat result is empty")
	}

	p := gs.Player
	switch action.Kind {
	case content.ActionItem:
		if idx := p.FindItem(action.ItemID); idx >= 0 {
			item := p.Inventory[idx]
			var effect inventory.PotionEffect
			p, effect = inventory.ApplyPotion(p, item)
			gs.AddCombatLog(fmt.Sprintf("You use %s and %s.", item.Name, effect.Describe()))
		}
	case content.ActionAbility:
		if ability, ok := p.FindAbility(action.AbilityID); ok {
			p.Mana = stats.Clamp(p.Mana-ability.ManaCost, 0, p.MaxMana)
		}
	}
	gs.Player = p

	gs.AddCombatLog(res.Narration)

	p.HP = stats.Clamp(p.HP-nonNegative(res.PlayerDamage), 0, p.MaxHP)
	monster := cs.Monster
	monster.HP = stats.Clamp(monster.HP-nonNegative(res.MonsterDamage), 0, monster.MaxHP)

	switch {
	case res.MonsterDefeated || monster.HP <= 0:
		out.MonsterDefeated = true
		victory(gs, ledger, monster, res, &out)
	case p.HP <= 0:
		out.PlayerDied = true
		world.FinalDeath(gs)
	default:
		cs.Monster = monster
		if idx := gs.World.FindMonster(monster.ID); idx >= 0 {
			gs.World.Monsters[idx].HP = monster.HP
		}
		cs.PlayerTurn = true
	}
	return out, nil
}

func victory(gs *entities.GameState, ledger *inventory.Ledger, monster entities.Monster, res *content.CombatResult, out *Outcome) {
	gs.CombatState = nil

	xp := nonNegative(res.XPGained)
	gold := nonNegative(res.GoldGained)
	gs.Player.Gold += gold
	gs.AddLog(fmt.Sprintf("You defeated the %s and gained %d XP and %d Gold!", monster.Name, xp, gold))

	if res.Loot != nil && res.Loot.Name != "" {
		gs.AddLog(fmt.Sprintf("You found: %s!", res.Loot.Name))
		gs.Player.Inventory = ledger.AddItem(gs.Player.Inventory, *res.Loot)
	}

	world.RemoveMonster(gs.World, monster.ID)
	if quest := world.CompleteQuestFor(gs.World, monster.ID); quest != nil {
		out.QuestCompleted = true
		gs.AddLog(fmt.Sprintf("Quest Complete: %s! You earned %d XP.", quest.Title, quest.XPReward))
		xp += nonNegative(quest.XPReward)
	}

	gs.Player, out.LevelsReached = progression.AwardXP(gs.Player, xp)
	for _, level := range out.LevelsReached {
		gs.AddLog(fmt.Sprintf("Congratulations! You've reached level %d!", level))
	}
}

// Fail hands the turn back after a generator failure. Nothing is consumed.
func Fail(gs *entities.GameState) {
	if gs.CombatState == nil {
		return
	}
	gs.CombatState.PlayerTurn = true
	gs.AddCombatLog(MsgFailed)
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
