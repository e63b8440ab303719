// Package stats derives effective attributes and resource caps from a
// player's base stats and equipment. Nothing here is cached; callers
// recompute whenever they need a value.
package stats

import "github.com/irmakh/gemini-rpg/internal/entities"

const (
	baseMaxHP   = 20
	baseMaxMana = 10
)

// Totals are base stats plus equipment bonuses. Defense comes from
// equipment only.
type Totals struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Intelligence int `json:"intelligence"`
	Defense      int `json:"defense"`
}

// Caps are the resource ceilings derived from totals
type Caps struct {
	MaxHP   int
	MaxMana int
}

// EquipmentBonus sums the stat bonuses of every equipped item
func EquipmentBonus(equipment entities.Equipment) Totals {
	var bonus Totals
	for _, item := range equipment.Items() {
		if item.Stats == nil {
			continue
		}
		bonus.Strength += item.Stats.Strength
		bonus.Dexterity += item.Stats.Dexterity
		bonus.Intelligence += item.Stats.Intelligence
		bonus.Defense += item.Stats.Defense
	}
	return bonus
}

// Effective returns base stats plus equipment bonuses
func Effective(base entities.BaseStats, equipment entities.Equipment) Totals {
	bonus := EquipmentBonus(equipment)
	return Totals{
		Strength:     base.Strength + bonus.Strength,
		Dexterity:    base.Dexterity + bonus.Dexterity,
		Intelligence: base.Intelligence + bonus.Intelligence,
		Defense:      bonus.Defense,
	}
}

// DeriveCaps computes maxHp = 20 + strength and maxMana = 10 + intelligence
func DeriveCaps(totalStrength, totalIntelligence int) Caps {
	return Caps{
		MaxHP:   baseMaxHP + totalStrength,
		MaxMana: baseMaxMana + totalIntelligence,
	}
}

// CapsFor derives the caps for a player's current base stats and equipment
func CapsFor(player *entities.Player) Caps {
	totals := Effective(player.Stats, player.Equipment)
	return DeriveCaps(totals.Strength, totals.Intelligence)
}

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
