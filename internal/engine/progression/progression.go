// Package progression handles experience, level thresholds and the
// resolution of pending level-ups.
package progression

import (
	"math"

	"github.com/irmakh/gemini-rpg/internal/engine/stats"
	"github.com/irmakh/gemini-rpg/internal/entities"
	"github.com/irmakh/gemini-rpg/internal/errors"
)

const (
	baseThreshold   = 40
	thresholdGrowth = 1.5

	// LevelUpHPBonus is added to current hp on every level-up. Mana gets no
	// flat bonus.
	LevelUpHPBonus = 10

	startingGold = 25
)

// FallbackAbilityID is the id of the stat-only pseudo-ability
const FallbackAbilityID = "stat_increase"

// Threshold is the xp needed to leave the given level
func Threshold(level int) int {
	return int(math.Floor(baseThreshold * math.Pow(thresholdGrowth, float64(level-1))))
}

// FallbackAbility is granted when no ability choices could be generated so
// a pending level-up never gets stuck.
func FallbackAbility() entities.Ability {
	return entities.Ability{
		ID:          FallbackAbilityID,
		Name:        "Stat Increase",
		Description: "Your core attributes have grown.",
		ManaCost:    0,
		StatOnly:    true,
	}
}

// AwardXP adds xp and applies every threshold it crosses. It returns the
// levels reached, in order.
func AwardXP(player *entities.Player, amount int) (*entities.Player, []int) {
	p := player.Clone()
	if amount > 0 {
		p.XP += amount
	}

	var reached []int
	for p.XPToNextLevel > 0 && p.XP >= p.XPToNextLevel {
		p.XP -= p.XPToNextLevel
		p.Level++
		p.XPToNextLevel = Threshold(p.Level)
		p.PendingLevelUps++
		reached = append(reached, p.Level)
	}

	return p, reached
}

// ResolveLevelUp spends one pending level-up on an ability. Every base stat
// grows by one; hp grows by the cap delta plus LevelUpHPBonus and mana by
// the cap delta only.
func ResolveLevelUp(player *entities.Player, ability entities.Ability) (*entities.Player, error) {
	if player.PendingLevelUps <= 0 {
		return player, errors.FailedPrecondition("no level-up is pending")
	}

	p := player.Clone()
	p.PendingLevelUps--
	// no dedup here: the offer already leaves out known abilities
	p.Abilities = append(p.Abilities, ability)

	p.Stats.Strength++
	p.Stats.Dexterity++
	p.Stats.Intelligence++

	caps := stats.CapsFor(p)

	hpDelta := caps.MaxHP - p.MaxHP
	p.MaxHP = caps.MaxHP
	p.HP = stats.Clamp(p.HP+hpDelta+LevelUpHPBonus, 0, caps.MaxHP)

	manaDelta := caps.MaxMana - p.MaxMana
	p.MaxMana = caps.MaxMana
	p.Mana = stats.Clamp(p.Mana+manaDelta, 0, caps.MaxMana)

	return p, nil
}

// NewCharacter builds a level 1 hero from a confirmed draft. Stats that are
// all zero fall back to 10 each.
func NewCharacter(draft *entities.CharacterDraft) *entities.Player {
	base := draft.Stats
	if base == (entities.BaseStats{}) {
		base = entities.BaseStats{Strength: 10, Dexterity: 10, Intelligence: 10}
	}
	caps := stats.DeriveCaps(base.Strength, base.Intelligence)

	return &entities.Player{
		Name:          draft.Name,
		Class:         draft.Class,
		Level:         1,
		XPToNextLevel: Threshold(1),
		HP:            caps.MaxHP,
		MaxHP:         caps.MaxHP,
		Mana:          caps.MaxMana,
		MaxMana:       caps.MaxMana,
		Gold:          startingGold,
		Position:      entities.Position{X: 1, Y: 1},
		Stats:         base,
		Inventory: []entities.Item{{
			ID:          "starter_sword",
			Name:        "Rusty Sword",
			Description: "A basic sword.",
			Type:        entities.ItemTypeWeapon,
			Quantity:    1,
			Grade:       entities.GradeCommon,
			Stats:       &entities.ItemStats{Strength: 1},
			BuyPrice:    10,
			SellPrice:   5,
		}},
		Abilities: []entities.Ability{},
		ImageURL:  draft.ImageURL,
		Backstory: draft.Backstory,
	}
}
