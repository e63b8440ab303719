// Package inventory implements the inventory ledger: stacking, removal,
// equipping and potion use. Every operation works on a copy of the player
// and leaves the input untouched, including on failure.
package inventory

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/irmakh/gemini-rpg/internal/engine/stats"
	"github.com/irmakh/gemini-rpg/internal/entities"
	"github.com/irmakh/gemini-rpg/internal/errors"
	"github.com/irmakh/gemini-rpg/internal/pkg/idgen"
)

const (
	msgItemMissing = "You don't have that item."
	msgFullHealth  = "You are already at full health and mana."
)

// Config holds the dependencies for the ledger
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

// Ledger applies inventory rules. It is stateless apart from the id source.
type Ledger struct {
	idGen idgen.Generator
}

// NewLedger creates a ledger
func NewLedger(cfg *Config) (*Ledger, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Ledger{idGen: cfg.IDGenerator}, nil
}

// StackID is the shared id of a stackable item kind
func StackID(t entities.ItemType, name string) string {
	return fmt.Sprintf("stack:%s:%s", t, slug(name))
}

func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// AddItem merges a stackable item into an existing stack of the same name
// and type, or appends the item. Non-stackable items get a fresh id.
func (l *Ledger) AddItem(inventory []entities.Item, item entities.Item) []entities.Item {
	incoming := *item.Clone()
	if incoming.Quantity < 1 {
		incoming.Quantity = 1
	}

	out := entities.CloneItems(inventory)
	if incoming.Type.IsStackable() {
		for idx := range out {
			if out[idx].Type == incoming.Type && out[idx].Name == incoming.Name {
				out[idx].Quantity += incoming.Quantity
				return out
			}
		}
		incoming.ID = StackID(incoming.Type, incoming.Name)
	} else {
		incoming.ID = l.idGen.Generate()
	}

	return append(out, incoming)
}

// AddItems adds each item in order
func (l *Ledger) AddItems(inventory []entities.Item, items []entities.Item) []entities.Item {
	out := entities.CloneItems(inventory)
	for _, item := range items {
		out = l.AddItem(out, item)
	}
	return out
}

// RemoveOne decrements an entry's quantity and drops it at zero. It reports
// false and returns the inventory unchanged when the id is absent.
func RemoveOne(inventory []entities.Item, itemID string) ([]entities.Item, bool) {
	out := entities.CloneItems(inventory)
	for idx := range out {
		if out[idx].ID != itemID {
			continue
		}
		out[idx].Quantity--
		if out[idx].Quantity <= 0 {
			out = append(out[:idx], out[idx+1:]...)
		}
		return out, true
	}
	return out, false
}

// Equip moves one unit of an item from the inventory into its slot. A
// displaced item goes back to the inventory with its id intact.
func (l *Ledger) Equip(player *entities.Player, itemID string) (*entities.Player, error) {
	idx := player.FindItem(itemID)
	if idx < 0 {
		return player, errors.NotFound(msgItemMissing).WithMeta("item_id", itemID)
	}

	item := player.Inventory[idx]
	slot, ok := entities.SlotFor(item.Type)
	if !ok {
		return player, errors.InvalidArgumentf("You can't equip %s.", item.Name)
	}

	p := player.Clone()
	p.Inventory, _ = RemoveOne(p.Inventory, itemID)

	installed := item.Clone()
	installed.Quantity = 1

	if displaced := p.Equipment.Get(slot); displaced != nil {
		p.Inventory = append(p.Inventory, *displaced)
	}
	p.Equipment.Set(slot, installed)

	rescale(p)
	return p, nil
}

// Unequip moves the item in a slot back to the inventory through AddItem.
// The returned item is nil when the slot was already empty.
func (l *Ledger) Unequip(player *entities.Player, slot entities.EquipmentSlot) (*entities.Player, *entities.Item, error) {
	vb := errors.NewValidationBuilder()
	errors.ValidateEnum("slot", slot, entities.EquipmentSlots, vb)
	if err := vb.Build(); err != nil {
		return player, nil, err
	}

	current := player.Equipment.Get(slot)
	if current == nil {
		return player, nil, nil
	}

	p := player.Clone()
	removed := current.Clone()
	p.Equipment.Set(slot, nil)
	p.Inventory = l.AddItem(p.Inventory, *removed)

	rescale(p)
	return p, removed, nil
}

// PotionEffect is what a potion actually restored after clamping
type PotionEffect struct {
	HealedHP     int
	RestoredMana int
}

// Describe renders the effect for the log
func (e PotionEffect) Describe() string {
	var parts []string
	if e.HealedHP > 0 {
		parts = append(parts, fmt.Sprintf("restored %d health", e.HealedHP))
	}
	if e.RestoredMana > 0 {
		parts = append(parts, fmt.Sprintf("restored %d mana", e.RestoredMana))
	}
	if len(parts) == 0 {
		return "feel no different"
	}
	return strings.Join(parts, " and ")
}

// UsePotion drinks one unit of a potion outside combat
func UsePotion(player *entities.Player, itemID string) (*entities.Player, PotionEffect, error) {
	idx := player.FindItem(itemID)
	if idx < 0 {
		return player, PotionEffect{}, errors.NotFound(msgItemMissing).WithMeta("item_id", itemID)
	}

	item := player.Inventory[idx]
	if item.Type != entities.ItemTypePotion {
		return player, PotionEffect{}, errors.InvalidArgumentf("You can't use %s.", item.Name)
	}

	healUseless := item.HealAmount <= 0 || player.HP >= player.MaxHP
	manaUseless := item.ManaAmount <= 0 || player.Mana >= player.MaxMana
	if healUseless && manaUseless {
		return player, PotionEffect{}, errors.FailedPrecondition(msgFullHealth)
	}

	p, effect := ApplyPotion(player, item)
	return p, effect, nil
}

// ApplyPotion restores hp and mana from a potion, clamped to the caps, and
// consumes one unit. It does not check whether the potion is useful.
func ApplyPotion(player *entities.Player, item entities.Item) (*entities.Player, PotionEffect) {
	p := player.Clone()
	var effect PotionEffect

	if item.HealAmount > 0 {
		hp := stats.Clamp(p.HP+item.HealAmount, 0, p.MaxHP)
		effect.HealedHP = hp - p.HP
		p.HP = hp
	}
	if item.ManaAmount > 0 {
		mana := stats.Clamp(p.Mana+item.ManaAmount, 0, p.MaxMana)
		effect.RestoredMana = mana - p.Mana
		p.Mana = mana
	}

	p.Inventory, _ = RemoveOne(p.Inventory, item.ID)
	return p, effect
}

// rescale moves hp and mana by exactly the cap delta after an equipment
// change. hp never drops below 1 this way.
func rescale(p *entities.Player) {
	caps := stats.CapsFor(p)

	hpDelta := caps.MaxHP - p.MaxHP
	p.MaxHP = caps.MaxHP
	p.HP = stats.Clamp(p.HP+hpDelta, 1, caps.MaxHP)

	manaDelta := caps.MaxMana - p.MaxMana
	p.MaxMana = caps.MaxMana
	p.Mana = stats.Clamp(p.Mana+manaDelta, 0, caps.MaxMana)
}
