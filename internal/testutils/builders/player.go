// Package builders provides test data builders for creating test fixtures
package builders

import (
	"github.com/irmakh/gemini-rpg/internal/engine/stats"
	"github.com/irmakh/gemini-rpg/internal/entities"
)

// PlayerBuilder provides a fluent interface for building test players
type PlayerBuilder struct {
	player *entities.Player
}

// NewPlayerBuilder creates a level 1 hero with 10 in every stat, full
// resources and nothing equipped.
func NewPlayerBuilder() *PlayerBuilder {
	return &PlayerBuilder{
		player: &entities.Player{
			Name:          "Aria",
			Class:         entities.ClassWarrior,
			Level:         1,
			XPToNextLevel: 40,
			HP:            30,
			MaxHP:         30,
			Mana:          20,
			MaxMana:       20,
			Gold:          25,
			Position:      entities.Position{X: 1, Y: 1},
			Stats:         entities.BaseStats{Strength: 10, Dexterity: 10, Intelligence: 10},
			Inventory:     []entities.Item{},
			Abilities:     []entities.Ability{},
		},
	}
}

// WithStats sets base stats and re-derives caps, filling hp and mana
func (b *PlayerBuilder) WithStats(str, dex, intel int) *PlayerBuilder {
	b.player.Stats = entities.BaseStats{Strength: str, Dexterity: dex, Intelligence: intel}
	return b.withDerivedCaps()
}

// WithHP sets current hp
func (b *PlayerBuilder) WithHP(hp int) *PlayerBuilder {
	b.player.HP = hp
	return b
}

// WithMana sets current mana
func (b *PlayerBuilder) WithMana(mana int) *PlayerBuilder {
	b.player.Mana = mana
	return b
}

// WithGold sets gold
func (b *PlayerBuilder) WithGold(gold int) *PlayerBuilder {
	b.player.Gold = gold
	return b
}

// WithLevel sets level, xp and the threshold
func (b *PlayerBuilder) WithLevel(level, xp, xpToNext int) *PlayerBuilder {
	b.player.Level = level
	b.player.XP = xp
	b.player.XPToNextLevel = xpToNext
	return b
}

// WithPosition sets the grid position
func (b *PlayerBuilder) WithPosition(x, y int) *PlayerBuilder {
	b.player.Position = entities.Position{X: x, Y: y}
	return b
}

// WithItems appends inventory entries as given, ids included
func (b *PlayerBuilder) WithItems(items ...entities.Item) *PlayerBuilder {
	b.player.Inventory = append(b.player.Inventory, items...)
	return b
}

// WithAbilities appends learned abilities
func (b *PlayerBuilder) WithAbilities(abilities ...entities.Ability) *PlayerBuilder {
	b.player.Abilities = append(b.player.Abilities, abilities...)
	return b
}

// WithEquipped installs an item and re-derives caps, filling hp and mana
func (b *PlayerBuilder) WithEquipped(item entities.Item) *PlayerBuilder {
	slot, ok := entities.SlotFor(item.Type)
	if !ok {
		return b
	}
	b.player.Equipment.Set(slot, &item)
	return b.withDerivedCaps()
}

// WithPendingLevelUps sets the unresolved level-up count
func (b *PlayerBuilder) WithPendingLevelUps(n int) *PlayerBuilder {
	b.player.PendingLevelUps = n
	return b
}

func (b *PlayerBuilder) withDerivedCaps() *PlayerBuilder {
	caps := stats.CapsFor(b.player)
	b.player.MaxHP = caps.MaxHP
	b.player.HP = caps.MaxHP
	b.player.MaxMana = caps.MaxMana
	b.player.Mana = caps.MaxMana
	return b
}

// Build returns a copy of the built player
func (b *PlayerBuilder) Build() *entities.Player {
	return b.player.Clone()
}
