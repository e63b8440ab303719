package testutils

import (
	"github.com/irmakh/gemini-rpg/internal/entities"
)

// Item fixtures used across engine tests
const (
	TestSwordID  = "item_sword"
	TestPotionID = "stack:potion:healing-draught"
)

// RustySword is the starting weapon
func RustySword() entities.Item {
	return entities.Item{
		ID:          "starter_sword",
		Name:        "Rusty Sword",
		Description: "A basic sword.",
		Type:        entities.ItemTypeWeapon,
		Quantity:    1,
		Grade:       entities.GradeCommon,
		Stats:       &entities.ItemStats{Strength: 1},
		BuyPrice:    10,
		SellPrice:   5,
	}
}

// IronSword is a +5 strength weapon
func IronSword() entities.Item {
	return entities.Item{
		ID:          TestSwordID,
		Name:        "Iron Sword",
		Description: "Heavy and reliable.",
		Type:        entities.ItemTypeWeapon,
		Quantity:    1,
		Grade:       entities.GradeUncommon,
		Stats:       &entities.ItemStats{Strength: 5},
		BuyPrice:    40,
		SellPrice:   20,
	}
}

// HealingDraught heals 20 hp
func HealingDraught(quantity int) entities.Item {
	return entities.Item{
		ID:          TestPotionID,
		Name:        "Healing Draught",
		Description: "Tastes of copper.",
		Type:        entities.ItemTypePotion,
		Quantity:    quantity,
		HealAmount:  20,
		BuyPrice:    15,
		SellPrice:   7,
	}
}

// ManaTonic restores 15 mana
func ManaTonic(quantity int) entities.Item {
	return entities.Item{
		ID:          "stack:potion:mana-tonic",
		Name:        "Mana Tonic",
		Description: "Glows faintly blue.",
		Type:        entities.ItemTypePotion,
		Quantity:    quantity,
		ManaAmount:  15,
		BuyPrice:    20,
		SellPrice:   10,
	}
}

// Goblin is a level 1 monster
func Goblin(id string) entities.Monster {
	return entities.Monster{ID: id, Name: "Goblin", Level: 1, HP: 10, MaxHP: 10, ImagePrompt: "a snarling goblin"}
}

// Fireball is a learned combat ability
func Fireball() entities.Ability {
	return entities.Ability{ID: "ability_fireball", Name: "Fireball", Description: "Hurls flame.", ManaCost: 8}
}
