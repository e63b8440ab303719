package content

import (
	"fmt"

	"github.com/irmakh/gemini-rpg/internal/entities"
	"github.com/irmakh/gemini-rpg/internal/errors"
	"github.com/irmakh/gemini-rpg/internal/pkg/idgen"
)

const (
	abilitiesPerOffer = 3
	maxLootItems      = 3
)

// Sanitizer coerces generator output into values the engine accepts.
// Cosmetic gaps are filled in; structural gaps are InvalidArgument.
type Sanitizer struct {
	ids idgen.Generator
}

// NewSanitizer returns a sanitizer that fills missing ids from ids
func NewSanitizer(ids idgen.Generator) (*Sanitizer, error) {
	if ids == nil {
		return nil, errors.InvalidArgument("id generator is required")
	}
	return &Sanitizer{ids: ids}, nil
}

func validGrade(g entities.Grade) bool {
	switch g {
	case entities.GradeCommon, entities.GradeUncommon, entities.GradeRare,
		entities.GradeEpic, entities.GradeLegendary:
		return true
	default:
		return false
	}
}

// Item fixes up a single item. It reports false for items without a name.
func (s *Sanitizer) Item(item entities.Item) (entities.Item, bool) {
	if item.Name == "" {
		return item, false
	}
	out := *item.Clone()
	if out.ID == "" {
		out.ID = s.ids.Generate()
	}
	if !out.Type.IsValid() {
		out.Type = entities.ItemTypeMisc
	}
	if out.Quantity < 1 {
		out.Quantity = 1
	}
	if !validGrade(out.Grade) {
		out.Grade = ""
	}
	if !out.Type.IsEquipment() {
		out.Stats = nil
	}
	if out.Type != entities.ItemTypePotion {
		out.HealAmount, out.ManaAmount = 0, 0
	}
	out.HealAmount = max(out.HealAmount, 0)
	out.ManaAmount = max(out.ManaAmount, 0)
	out.BuyPrice = max(out.BuyPrice, 0)
	out.SellPrice = max(out.SellPrice, 0)
	if out.SellPrice > out.BuyPrice && out.BuyPrice > 0 {
		out.SellPrice = out.BuyPrice / 2
	}
	return out, true
}

// Items fixes a list, dropping unusable entries and duplicate ids
func (s *Sanitizer) Items(items []entities.Item) []entities.Item {
	out := make([]entities.Item, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		fixed, ok := s.Item(item)
		if !ok {
			continue
		}
		if seen[fixed.ID] {
			fixed.ID = s.ids.Generate()
		}
		seen[fixed.ID] = true
		out = append(out, fixed)
	}
	return out
}

// Character checks a generated hero
func (s *Sanitizer) Character(res *CharacterResult) (*CharacterResult, error) {
	if res == nil {
		return nil, errors.InvalidArgument("character result is empty")
	}
	out := *res
	out.Stats.Strength = max(out.Stats.Strength, 1)
	out.Stats.Dexterity = max(out.Stats.Dexterity, 1)
	out.Stats.Intelligence = max(out.Stats.Intelligence, 1)
	return &out, nil
}

// Dungeon checks a generated level. Monster ids are made unique and the
// last monster is the only quest target.
func (s *Sanitizer) Dungeon(res *DungeonResult) (*DungeonResult, error) {
	if res == nil {
		return nil, errors.InvalidArgument("dungeon result is empty")
	}
	out := *res

	monsters := make([]MonsterSeed, 0, len(res.Entities))
	seen := make(map[string]bool, len(res.Entities))
	for _, m := range res.Entities {
		if m.Name == "" {
			continue
		}
		if m.ID == "" || seen[m.ID] || m.ID == entities.QuestTargetExit || m.ID == entities.TriggeredTrapID {
			m.ID = s.ids.Generate()
		}
		seen[m.ID] = true
		m.Level = max(m.Level, 1)
		m.IsQuestTarget = false
		monsters = append(monsters, m)
	}
	if len(monsters) == 0 {
		return nil, errors.InvalidArgument("dungeon has no monsters")
	}
	monsters[len(monsters)-1].IsQuestTarget = true
	out.Entities = monsters

	if out.Quest.ID == "" {
		out.Quest.ID = s.ids.Generate()
	}
	out.Quest.XPReward = max(out.Quest.XPReward, 0)

	if out.Vendor.ID == "" {
		out.Vendor.ID = s.ids.Generate()
	}
	out.Vendor.Inventory = s.Items(res.Vendor.Inventory)
	return &out, nil
}

// Combat clamps the numbers of one exchange. Whether the monster fell is
// decided by the resolver from its hp or the defeat flag.
func (s *Sanitizer) Combat(res *CombatResult) (*CombatResult, error) {
	if res == nil {
		return nil, errors.InvalidArgument("combat result is empty")
	}
	out := *res
	out.PlayerDamage = max(out.PlayerDamage, 0)
	out.MonsterDamage = max(out.MonsterDamage, 0)
	out.XPGained = max(out.XPGained, 0)
	out.GoldGained = max(out.GoldGained, 0)
	if out.Loot != nil {
		loot, ok := s.Item(*out.Loot)
		if ok {
			out.Loot = &loot
		} else {
			out.Loot = nil
		}
	}
	return &out, nil
}

// Abilities keeps at most three named abilities with distinct ids
func (s *Sanitizer) Abilities(abilities []entities.Ability) []entities.Ability {
	out := make([]entities.Ability, 0, abilitiesPerOffer)
	seen := make(map[string]bool, len(abilities))
	for _, a := range abilities {
		if len(out) == abilitiesPerOffer {
			break
		}
		if a.Name == "" {
			continue
		}
		if a.ID == "" || seen[a.ID] {
			a.ID = s.ids.Generate()
		}
		seen[a.ID] = true
		a.ManaCost = max(a.ManaCost, 0)
		a.StatOnly = false
		out = append(out, a)
	}
	return out
}

// Loot keeps one to three usable items
func (s *Sanitizer) Loot(items []entities.Item) ([]entities.Item, error) {
	out := s.Items(items)
	if len(out) == 0 {
		return nil, errors.InvalidArgument("chest is empty")
	}
	if len(out) > maxLootItems {
		out = out[:maxLootItems]
	}
	return out, nil
}

// Trap clamps trap damage
func (s *Sanitizer) Trap(res *TrapResult) (*TrapResult, error) {
	if res == nil {
		return nil, errors.InvalidArgument("trap result is empty")
	}
	out := *res
	out.Damage = max(out.Damage, 0)
	return &out, nil
}

// Quest retargets a quest whose target is not among the remaining
// monsters: the first remaining monster, or the exit when none remain.
func (s *Sanitizer) Quest(res *QuestResult, remaining []MonsterRef) (*QuestResult, error) {
	if res == nil {
		return nil, errors.InvalidArgument("quest result is empty")
	}
	out := *res
	if out.ID == "" {
		out.ID = s.ids.Generate()
	}
	out.XPReward = max(out.XPReward, 0)

	if len(remaining) == 0 {
		out.TargetID = entities.QuestTargetExit
		return &out, nil
	}
	for _, m := range remaining {
		if m.ID == out.TargetID {
			return &out, nil
		}
	}
	out.TargetID = remaining[0].ID
	if out.Objective == "" {
		out.Objective = fmt.Sprintf("Defeat the %s", remaining[0].Name)
	}
	return &out, nil
}
