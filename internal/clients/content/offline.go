package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/irmakh/gemini-rpg/internal/entities"
	"github.com/irmakh/gemini-rpg/internal/errors"
	"github.com/irmakh/gemini-rpg/internal/pkg/idgen"
)

const (
	startingStatPoints = 30
	vendorStockSize    = 5
	lootDropChance     = 3 // in 10
)

type theme struct {
	name     string
	desc     string
	terrain  string
	monsters []string
	bosses   []string
}

var themes = []theme{
	{
		name:     "The Sunken Crypt",
		desc:     "Black water laps at tombs whose occupants no longer rest.",
		terrain:  "flooded stone floors, broken sarcophagi, green candlelight",
		monsters: []string{"Drowned Ghoul", "Crypt Rat", "Bone Archer", "Grave Wisp"},
		bosses:   []string{"The Drowned Abbot", "Mother of Bones"},
	},
	{
		name:     "Cave of Whispers",
		desc:     "Every echo here answers in a voice that is not your own.",
		terrain:  "narrow limestone tunnels, glowing fungus, dripping stalactites",
		monsters: []string{"Cave Spider", "Goblin Scout", "Blind Crawler", "Echo Bat"},
		bosses:   []string{"The Whispering Matriarch", "Goblin Warchief"},
	},
	{
		name:     "The Ember Forge",
		desc:     "Rivers of slag light a foundry abandoned by its makers.",
		terrain:  "cracked obsidian, lava channels, rusted anvils",
		monsters: []string{"Fire Imp", "Slag Golem", "Cinder Hound", "Ash Cultist"},
		bosses:   []string{"Forgemaster Korr", "The Molten Wyrm"},
	},
	{
		name:     "Frostmaw Halls",
		desc:     "A frozen keep where the cold itself keeps watch.",
		terrain:  "ice sheets, frozen banners, snow drifting through collapsed roofs",
		monsters: []string{"Frost Wolf", "Ice Wraith", "Frozen Sentinel", "Snow Troll"},
		bosses:   []string{"The Rime King", "Jarl of the White Silence"},
	},
}

var (
	weaponNouns = []string{"Sword", "Axe", "Mace", "Dagger", "Spear"}
	armorNouns  = []string{"Chainmail", "Leather Jerkin", "Scale Hauberk"}
	prefixes    = []string{"Rusty", "Sturdy", "Gleaming", "Runed", "Ancient"}
	trapTexts   = []string{
		"A pressure plate clicks and darts hiss from the walls.",
		"The floor gives way to a shallow pit lined with spikes.",
		"A tripwire snaps and a swinging log slams into you.",
		"Glyphs flare beneath your feet and scorch you with arcane fire.",
	}
	backstories = map[entities.CharacterClass]string{
		entities.ClassWarrior: "%s left the shield wall after the last war and never found peace. The dungeon promises the only fight worth having.",
		entities.ClassMage:    "%s was expelled from the academy for reading the wrong books. The answers they seek are written somewhere below.",
		entities.ClassRogue:   "%s owes money to the wrong people in every city on the coast. Whatever lies in the depths should settle all debts.",
	}
)

type abilityTemplate struct {
	name string
	desc string
	cost int
}

var abilityPools = map[string][]abilityTemplate{
	"strength": {
		{"Cleave", "A sweeping blow that bites deep.", 5},
		{"Shield Bash", "Stun the foe with a brutal shove.", 4},
		{"Earthshaker", "Slam the ground and stagger the enemy.", 8},
		{"Reckless Swing", "Trade caution for raw power.", 6},
	},
	"dexterity": {
		{"Twin Strike", "Two quick cuts in one breath.", 5},
		{"Shadow Step", "Slip behind the foe and strike.", 6},
		{"Poisoned Blade", "A coated edge that keeps on hurting.", 7},
		{"Feint", "Draw a guard open and exploit it.", 4},
	},
	"intelligence": {
		{"Fireball", "A roaring sphere of flame.", 8},
		{"Frost Lance", "A spear of ice that pierces armor.", 7},
		{"Arcane Missile", "Bolts of force that never miss.", 5},
		{"Chain Lightning", "Lightning that leaps between targets.", 10},
	},
}

// rolls wraps a roller and keeps the first error so table lookups stay
// readable. Callers check err once they are done rolling.
type rolls struct {
	roller dice.Roller
	err    error
}

// d returns a value in [1,n]
func (r *rolls) d(n int) int {
	if r.err != nil || n <= 1 {
		return 1
	}
	v, err := r.roller.Roll(n)
	if err != nil {
		r.err = errors.Wrap(err, "failed to roll")
		return 1
	}
	return v
}

func pick[T any](r *rolls, list []T) T {
	return list[r.d(len(list))-1]
}

// OfflineConfig configures the offline generator
type OfflineConfig struct {
	Roller      dice.Roller
	IDGenerator idgen.Generator
}

// Validate checks the configuration
func (c *OfflineConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	return vb.Build()
}

var _ Client = (*OfflineClient)(nil)

// OfflineClient generates content from fixed tables and dice. It needs no
// network and never produces images.
type OfflineClient struct {
	roller dice.Roller
	ids    idgen.Generator
	mapper *Mapper
}

// NewOffline creates the offline generator
func NewOffline(cfg *OfflineConfig) (*OfflineClient, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	mapper, err := NewMapper(cfg.Roller)
	if err != nil {
		return nil, err
	}
	return &OfflineClient{roller: cfg.Roller, ids: cfg.IDGenerator, mapper: mapper}, nil
}

func (c *OfflineClient) newRolls() *rolls {
	return &rolls{roller: c.roller}
}

// GenerateCharacter favours the class's primary stat; stats total 30
func (c *OfflineClient) GenerateCharacter(_ context.Context, input *CharacterRequest) (*CharacterResult, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	r := c.newRolls()
	primary := 12 + r.d(4)
	rest := startingStatPoints - primary
	second := rest / 2
	third := rest - second

	var st entities.BaseStats
	switch input.Class {
	case entities.ClassMage:
		st = entities.BaseStats{Intelligence: primary, Dexterity: third, Strength: second}
	case entities.ClassRogue:
		st = entities.BaseStats{Dexterity: primary, Strength: third, Intelligence: second}
	default:
		st = entities.BaseStats{Strength: primary, Dexterity: third, Intelligence: second}
	}
	if r.err != nil {
		return nil, r.err
	}

	story, ok := backstories[input.Class]
	if !ok {
		story = backstories[entities.ClassWarrior]
	}
	return &CharacterResult{
		Backstory: fmt.Sprintf(story, input.Name),
		Stats:     st,
		ImagePrompt: fmt.Sprintf("fantasy character portrait, digital painting, full body shot, %s the %s",
			input.Name, strings.ToLower(string(input.Class))),
	}, nil
}

// GenerateDungeon rolls a themed level with its layout
func (c *OfflineClient) GenerateDungeon(_ context.Context, input *DungeonRequest) (*DungeonResult, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	level := max(input.Level, 1)
	r := c.newRolls()
	th := pick(r, themes)

	regulars := min(4, level+1)
	seeds := make([]MonsterSeed, 0, regulars+1)
	for i := 0; i < regulars; i++ {
		name := pick(r, th.monsters)
		seeds = append(seeds, MonsterSeed{
			ID:          c.ids.Generate(),
			Name:        name,
			Level:       max(1, level+r.d(3)-2),
			ImagePrompt: "fantasy character portrait, digital painting, " + strings.ToLower(name),
		})
	}
	boss := pick(r, th.bosses)
	seeds = append(seeds, MonsterSeed{
		ID:            c.ids.Generate(),
		Name:          boss,
		Level:         level + 1,
		IsQuestTarget: true,
		ImagePrompt:   "fantasy character portrait, digital painting, menacing boss, " + strings.ToLower(boss),
	})

	stock := make([]entities.Item, 0, vendorStockSize)
	stock = append(stock, c.potion(r, level, true), c.potion(r, level, false))
	stock = append(stock, c.weapon(r, level), c.armor(r, level), c.trinket(r, level))
	if r.err != nil {
		return nil, r.err
	}

	res := &DungeonResult{
		Name:        th.name,
		Description: th.desc,
		ImagePrompt: "top-down view, fantasy RPG map, digital painting, " + th.terrain,
		Quest: QuestSeed{
			ID:          c.ids.Generate(),
			Title:       "The Master of " + th.name,
			Description: fmt.Sprintf("%s rules this place. End its reign and the way down will open.", boss),
			Objective:   "Slay " + boss,
			XPReward:    50 * level,
		},
		Entities: seeds,
		Vendor:   entities.Vendor{ID: c.ids.Generate(), Inventory: stock},
	}

	ids := make([]string, len(seeds))
	for idx, s := range seeds {
		ids[idx] = s.ID
	}
	grid, err := c.mapper.Layout(ids, res.Vendor.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to lay out dungeon")
	}
	res.Map = grid
	return res, nil
}

func priced(item entities.Item, buy int) entities.Item {
	item.BuyPrice = buy
	item.SellPrice = buy / 2
	return item
}

func bonus(level int) int {
	return min(5, 1+level/2)
}

func (c *OfflineClient) potion(r *rolls, level int, healing bool) entities.Item {
	amount := min(50, 14+r.d(11)+level*3)
	item := entities.Item{
		ID:       c.ids.Generate(),
		Type:     entities.ItemTypePotion,
		Quantity: 1,
		Grade:    entities.GradeCommon,
	}
	if healing {
		item.Name = "Healing Draught"
		item.Description = "A bitter red tonic that knits flesh."
		item.HealAmount = amount
	} else {
		item.Name = "Mana Tonic"
		item.Description = "A faintly humming blue vial."
		item.ManaAmount = amount
	}
	return priced(item, amount)
}

func (c *OfflineClient) weapon(r *rolls, level int) entities.Item {
	st := &entities.ItemStats{Strength: bonus(level)}
	if r.d(2) == 2 {
		st = &entities.ItemStats{Dexterity: bonus(level)}
	}
	item := entities.Item{
		ID:          c.ids.Generate(),
		Name:        pick(r, prefixes) + " " + pick(r, weaponNouns),
		Description: "A weapon that has seen its share of the depths.",
		Type:        entities.ItemTypeWeapon,
		Quantity:    1,
		Grade:       gradeFor(level),
		Stats:       st,
	}
	return priced(item, 30*level+r.d(10))
}

func (c *OfflineClient) armor(r *rolls, level int) entities.Item {
	item := entities.Item{
		ID:          c.ids.Generate(),
		Name:        pick(r, prefixes) + " " + pick(r, armorNouns),
		Description: "Dented, patched and still better than nothing.",
		Type:        entities.ItemTypeArmor,
		Quantity:    1,
		Grade:       gradeFor(level),
		Stats:       &entities.ItemStats{Defense: bonus(level) + 1},
	}
	return priced(item, 35*level+r.d(10))
}

func (c *OfflineClient) trinket(r *rolls, level int) entities.Item {
	item := entities.Item{
		ID:       c.ids.Generate(),
		Quantity: 1,
		Grade:    gradeFor(level),
	}
	switch r.d(3) {
	case 1:
		item.Name, item.Type = "Iron Helm", entities.ItemTypeHelmet
		item.Description = "Heavy, but it keeps your skull in one piece."
		item.Stats = &entities.ItemStats{Defense: bonus(level)}
	case 2:
		item.Name, item.Type = "Traveler's Boots", entities.ItemTypeBoots
		item.Description = "Soft soles for quiet steps."
		item.Stats = &entities.ItemStats{Defense: 1, Dexterity: bonus(level)}
	default:
		item.Name, item.Type = "Ring of Insight", entities.ItemTypeRing
		item.Description = "A silver band that sharpens the mind."
		item.Stats = &entities.ItemStats{Intelligence: bonus(level)}
	}
	return priced(item, 25*level+r.d(10))
}

func gradeFor(level int) entities.Grade {
	switch {
	case level >= 9:
		return entities.GradeLegendary
	case level >= 7:
		return entities.GradeEpic
	case level >= 5:
		return entities.GradeRare
	case level >= 3:
		return entities.GradeUncommon
	default:
		return entities.GradeCommon
	}
}

// GenerateCombatAction resolves one exchange with dice. Strength drives
// attacks, intelligence drives abilities and defense soaks half its value.
func (c *OfflineClient) GenerateCombatAction(_ context.Context, input *CombatRequest) (*CombatResult, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	r := c.newRolls()
	m := input.Monster
	level := max(m.Level, 1)

	var dealt int
	var verb string
	switch input.ActionKind {
	case ActionItem:
		verb = "You drink deeply while"
	case ActionAbility:
		dealt = input.PlayerStats.Intelligence/2 + r.d(10)
		verb = fmt.Sprintf("Your power strikes the %s for %d damage, and", m.Name, dealt)
	default:
		dealt = input.PlayerStats.Strength/2 + r.d(6)
		verb = fmt.Sprintf("You hit the %s for %d damage, and", m.Name, dealt)
	}
	taken := max(0, level*2+r.d(4)-input.PlayerDefense/2)

	res := &CombatResult{
		MonsterDamage: dealt,
		PlayerDamage:  taken,
	}
	if dealt >= m.HP {
		res.MonsterDefeated = true
		res.PlayerDamage = 0
		res.XPGained = 25 * level
		res.GoldGained = 10 * level
		res.Narration = fmt.Sprintf("You hit the %s for %d damage and it crumples to the ground.", m.Name, dealt)
		if r.d(10) <= lootDropChance {
			var loot entities.Item
			switch r.d(3) {
			case 1:
				loot = c.weapon(r, input.PlayerLevel)
			case 2:
				loot = c.trinket(r, input.PlayerLevel)
			default:
				loot = c.potion(r, input.PlayerLevel, true)
			}
			res.Loot = &loot
		}
	} else {
		res.Narration = fmt.Sprintf("%s the %s strikes back for %d.", verb, m.Name, taken)
	}
	if r.err != nil {
		return nil, r.err
	}
	return res, nil
}

// GenerateLevelUpAbilities draws three abilities from the pool of the
// highest base stat
func (c *OfflineClient) GenerateLevelUpAbilities(_ context.Context, input *AbilitiesRequest) ([]entities.Ability, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	key := "strength"
	if input.Stats.Dexterity > input.Stats.Strength {
		key = "dexterity"
	}
	if input.Stats.Intelligence > max(input.Stats.Strength, input.Stats.Dexterity) {
		key = "intelligence"
	}
	pool := append([]abilityTemplate(nil), abilityPools[key]...)

	r := c.newRolls()
	out := make([]entities.Ability, 0, abilitiesPerOffer)
	for len(out) < abilitiesPerOffer && len(pool) > 0 {
		idx := r.d(len(pool)) - 1
		t := pool[idx]
		pool = append(pool[:idx], pool[idx+1:]...)
		out = append(out, entities.Ability{
			ID:          c.ids.Generate(),
			Name:        t.name,
			Description: t.desc,
			ManaCost:    t.cost + input.Level/2,
		})
	}
	if r.err != nil {
		return nil, r.err
	}
	return out, nil
}

// GenerateLoot fills a chest with one to three items
func (c *OfflineClient) GenerateLoot(_ context.Context, input *LootRequest) ([]entities.Item, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	level := max(input.PlayerLevel, 1)
	r := c.newRolls()
	count := r.d(maxLootItems)
	items := make([]entities.Item, 0, count)
	for i := 0; i < count; i++ {
		switch r.d(5) {
		case 1:
			items = append(items, c.weapon(r, level))
		case 2:
			items = append(items, c.armor(r, level))
		case 3:
			items = append(items, c.trinket(r, level))
		case 4:
			items = append(items, c.potion(r, level, false))
		default:
			items = append(items, c.potion(r, level, true))
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return items, nil
}

// TriggerTrap deals 5 to 15 percent of max hp, at least one
func (c *OfflineClient) TriggerTrap(_ context.Context, input *TrapRequest) (*TrapResult, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	r := c.newRolls()
	pct := 4 + r.d(11)
	text := pick(r, trapTexts)
	if r.err != nil {
		return nil, r.err
	}
	return &TrapResult{
		Narration: text,
		Damage:    max(1, input.MaxHP*pct/100),
	}, nil
}

// GenerateNewQuest targets a random remaining monster, or the exit
func (c *OfflineClient) GenerateNewQuest(_ context.Context, input *QuestRequest) (*QuestResult, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	level := max(input.PlayerLevel, 1)
	if len(input.Remaining) == 0 {
		return &QuestResult{
			ID:          c.ids.Generate(),
			Title:       "The Way Down",
			Description: "Nothing here still breathes. Somewhere a stair leads deeper.",
			Objective:   "Find the exit to the next level",
			XPReward:    20 * level,
			TargetID:    entities.QuestTargetExit,
		}, nil
	}
	r := c.newRolls()
	target := pick(r, input.Remaining)
	if r.err != nil {
		return nil, r.err
	}
	return &QuestResult{
		ID:          c.ids.Generate(),
		Title:       "Hunt the " + target.Name,
		Description: fmt.Sprintf("Scratches on the walls warn of a %s nearby. Put an end to it.", target.Name),
		Objective:   "Slay the " + target.Name,
		XPReward:    30 * level,
		TargetID:    target.ID,
	}, nil
}

// GenerateImage always returns the placeholder
func (c *OfflineClient) GenerateImage(_ context.Context, input *ImageRequest) (string, error) {
	if input == nil {
		return "", errors.InvalidArgument("input is required")
	}
	return PlaceholderImage(input.Aspect), nil
}
