package entities

// CharacterClass is the player's archetype
type CharacterClass string

const (
	ClassWarrior CharacterClass = "Warrior"
	ClassMage    CharacterClass = "Mage"
	ClassRogue   CharacterClass = "Rogue"
)

// Classes lists the playable classes
var Classes = []CharacterClass{ClassWarrior, ClassMage, ClassRogue}

// EquipmentSlot names one of the five equipment slots
type EquipmentSlot string

const (
	SlotWeapon EquipmentSlot = "weapon"
	SlotArmor  EquipmentSlot = "armor"
	SlotHelmet EquipmentSlot = "helmet"
	SlotBoots  EquipmentSlot = "boots"
	SlotRing   EquipmentSlot = "ring"
)

// EquipmentSlots lists every slot in display order
var EquipmentSlots = []EquipmentSlot{SlotWeapon, SlotArmor, SlotHelmet, SlotBoots, SlotRing}

// IsValid checks if the slot exists
func (s EquipmentSlot) IsValid() bool {
	switch s {
	case SlotWeapon, SlotArmor, SlotHelmet, SlotBoots, SlotRing:
		return true
	default:
		return false
	}
}

// SlotFor maps an item type to the slot it occupies
func SlotFor(t ItemType) (EquipmentSlot, bool) {
	slot := EquipmentSlot(t)
	return slot, slot.IsValid()
}

// Equipment holds at most one item per slot. An equipped item is never also
// in the inventory.
type Equipment struct {
	Weapon *Item `json:"weapon"`
	Armor  *Item `json:"armor"`
	Helmet *Item `json:"helmet"`
	Boots  *Item `json:"boots"`
	Ring   *Item `json:"ring"`
}

// Get returns the item in a slot, or nil
func (e *Equipment) Get(slot EquipmentSlot) *Item {
	switch slot {
	case SlotWeapon:
		return e.Weapon
	case SlotArmor:
		return e.Armor
	case SlotHelmet:
		return e.Helmet
	case SlotBoots:
		return e.Boots
	case SlotRing:
		return e.Ring
	default:
		return nil
	}
}

// Set installs an item (or nil) into a slot
func (e *Equipment) Set(slot EquipmentSlot, item *Item) {
	switch slot {
	case SlotWeapon:
		e.Weapon = item
	case SlotArmor:
		e.Armor = item
	case SlotHelmet:
		e.Helmet = item
	case SlotBoots:
		e.Boots = item
	case SlotRing:
		e.Ring = item
	}
}

// Items returns the equipped items in slot order
func (e *Equipment) Items() []*Item {
	var out []*Item
	for _, slot := range EquipmentSlots {
		if item := e.Get(slot); item != nil {
			out = append(out, item)
		}
	}
	return out
}

// Clone returns a deep copy
func (e Equipment) Clone() Equipment {
	return Equipment{
		Weapon: e.Weapon.Clone(),
		Armor:  e.Armor.Clone(),
		Helmet: e.Helmet.Clone(),
		Boots:  e.Boots.Clone(),
		Ring:   e.Ring.Clone(),
	}
}

// BaseStats are the raw attributes, unaffected by equipment
type BaseStats struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Intelligence int `json:"intelligence"`
}

// Position is a grid coordinate. Y indexes rows.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Player is the single hero of a game
type Player struct {
	Name            string         `json:"name"`
	Class           CharacterClass `json:"characterClass"`
	Level           int            `json:"level"`
	XP              int            `json:"xp"`
	XPToNextLevel   int            `json:"xpToNextLevel"`
	HP              int            `json:"hp"`
	MaxHP           int            `json:"maxHp"`
	Mana            int            `json:"mana"`
	MaxMana         int            `json:"maxMana"`
	Gold            int            `json:"gold"`
	Position        Position       `json:"position"`
	Stats           BaseStats      `json:"stats"`
	Inventory       []Item         `json:"inventory"`
	Abilities       []Ability      `json:"abilities"`
	Equipment       Equipment      `json:"equipment"`
	PendingLevelUps int            `json:"pendingLevelUps"`
	ImageURL        string         `json:"imageUrl,omitempty"`
	Backstory       string         `json:"backstory,omitempty"`
}

// FindItem returns the index of an inventory entry, or -1
func (p *Player) FindItem(itemID string) int {
	for idx := range p.Inventory {
		if p.Inventory[idx].ID == itemID {
			return idx
		}
	}
	return -1
}

// FindAbility returns a learned ability by id
func (p *Player) FindAbility(abilityID string) (Ability, bool) {
	for _, a := range p.Abilities {
		if a.ID == abilityID {
			return a, true
		}
	}
	return Ability{}, false
}

// CombatAbilities lists the abilities usable in combat
func (p *Player) CombatAbilities() []Ability {
	var out []Ability
	for _, a := range p.Abilities {
		if !a.StatOnly {
			out = append(out, a)
		}
	}
	return out
}

// Clone returns a deep copy
func (p *Player) Clone() *Player {
	if p == nil {
		return nil
	}
	c := *p
	c.Inventory = CloneItems(p.Inventory)
	if p.Abilities != nil {
		c.Abilities = append([]Ability(nil), p.Abilities...)
	}
	c.Equipment = p.Equipment.Clone()
	return &c
}
