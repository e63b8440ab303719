// Package entities provides core data structures for gemini-rpg.
package entities

// ItemType is the kind of an item. Five of them double as equipment slots.
type ItemType string

const (
	ItemTypeWeapon ItemType = "weapon"
	ItemTypeArmor  ItemType = "armor"
	ItemTypeHelmet ItemType = "helmet"
	ItemTypeBoots  ItemType = "boots"
	ItemTypeRing   ItemType = "ring"
	ItemTypePotion ItemType = "potion"
	ItemTypeMisc   ItemType = "misc"
	ItemTypeGem    ItemType = "gem"
)

// IsValid checks if the item type is known
func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeWeapon, ItemTypeArmor, ItemTypeHelmet, ItemTypeBoots, ItemTypeRing,
		ItemTypePotion, ItemTypeMisc, ItemTypeGem:
		return true
	default:
		return false
	}
}

// IsEquipment reports whether items of this type occupy an equipment slot
func (t ItemType) IsEquipment() bool {
	_, ok := SlotFor(t)
	return ok
}

// IsStackable reports whether items of this type merge by name and type
func (t ItemType) IsStackable() bool {
	return t == ItemTypePotion || t == ItemTypeGem
}

// Grade is an item's rarity tier
type Grade string

const (
	GradeCommon    Grade = "Common"
	GradeUncommon  Grade = "Uncommon"
	GradeRare      Grade = "Rare"
	GradeEpic      Grade = "Epic"
	GradeLegendary Grade = "Legendary"
)

// ItemStats are the bonuses an equipped item grants. Missing values are zero.
type ItemStats struct {
	Strength     int `json:"strength,omitempty"`
	Dexterity    int `json:"dexterity,omitempty"`
	Intelligence int `json:"intelligence,omitempty"`
	Defense      int `json:"defense,omitempty"`
}

// Item is anything that can sit in an inventory, an equipment slot or a
// vendor's stock.
type Item struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Type        ItemType   `json:"type"`
	Quantity    int        `json:"quantity"`
	Grade       Grade      `json:"grade,omitempty"`
	Stats       *ItemStats `json:"stats,omitempty"`
	HealAmount  int        `json:"healAmount,omitempty"`
	ManaAmount  int        `json:"manaAmount,omitempty"`
	BuyPrice    int        `json:"buyPrice,omitempty"`
	SellPrice   int        `json:"sellPrice,omitempty"`
}

// Clone returns a deep copy of the item
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	c := *i
	if i.Stats != nil {
		stats := *i.Stats
		c.Stats = &stats
	}
	return &c
}

// CloneItems deep copies a list of items
func CloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for idx := range items {
		out[idx] = *items[idx].Clone()
	}
	return out
}

// Ability is a combat skill learned on level-up
type Ability struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ManaCost    int    `json:"manaCost"`
	// StatOnly marks the fallback granted when no abilities could be
	// generated. It never shows up as a combat option.
	StatOnly bool `json:"statOnly,omitempty"`
}
