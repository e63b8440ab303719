package content

import (
	"github.com/irmakh/gemini-rpg/internal/engine/stats"
	"github.com/irmakh/gemini-rpg/internal/entities"
)

// Aspect is an image aspect ratio
type Aspect string

const (
	AspectSquare Aspect = "1:1"
	AspectWide   Aspect = "16:9"
)

// CharacterRequest asks for a new hero
type CharacterRequest struct {
	Name  string
	Class entities.CharacterClass
}

// CharacterResult is a generated hero
type CharacterResult struct {
	Backstory   string             `json:"backstory"`
	Stats       entities.BaseStats `json:"stats"`
	ImagePrompt string             `json:"imageGenPrompt"`
}

// DungeonRequest asks for a dungeon level
type DungeonRequest struct {
	Level int
}

// QuestSeed is a quest without its target; the engine targets the last
// listed monster.
type QuestSeed struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Objective   string `json:"objective"`
	XPReward    int    `json:"xpReward"`
}

// MonsterSeed is a monster before the engine derives its hp
type MonsterSeed struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Level         int    `json:"level"`
	IsQuestTarget bool   `json:"isQuestTarget"`
	ImagePrompt   string `json:"imageGenPrompt"`
}

// DungeonResult is a generated dungeon level. Map holds the layout with
// monster and vendor cells referencing the ids in Entities and Vendor.
type DungeonResult struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	ImagePrompt string               `json:"imageGenPrompt"`
	Quest       QuestSeed            `json:"quest"`
	Entities    []MonsterSeed        `json:"entities"`
	Vendor      entities.Vendor      `json:"vendor"`
	Map         [][]entities.MapCell `json:"map"`
}

// ActionKind is the kind of combat action
type ActionKind string

const (
	ActionAttack  ActionKind = "attack"
	ActionAbility ActionKind = "ability"
	ActionItem    ActionKind = "item"
)

// CombatRequest describes one exchange. Stats include equipment.
type CombatRequest struct {
	PlayerLevel   int
	PlayerHP      int
	PlayerMana    int
	PlayerStats   stats.Totals
	PlayerDefense int
	Abilities     []string
	Monster       entities.Monster
	ActionKind    ActionKind
	ActionText    string
}

// CombatResult is the generator's verdict on one exchange
type CombatResult struct {
	Narration       string         `json:"narration"`
	PlayerDamage    int            `json:"playerDamage"`
	MonsterDamage   int            `json:"monsterDamage"`
	MonsterDefeated bool           `json:"monsterDefeated"`
	XPGained        int            `json:"xpGained"`
	GoldGained      int            `json:"goldGained"`
	Loot            *entities.Item `json:"loot,omitempty"`
}

// AbilitiesRequest asks for level-up ability choices
type AbilitiesRequest struct {
	Level int
	Stats entities.BaseStats
}

// LootRequest asks for chest contents
type LootRequest struct {
	PlayerLevel int
}

// TrapRequest asks for a trap
type TrapRequest struct {
	PlayerLevel int
	MaxHP       int
}

// TrapResult is a sprung trap
type TrapResult struct {
	Narration string `json:"narration"`
	Damage    int    `json:"damage"`
}

// MonsterRef names a monster still alive on the map
type MonsterRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// QuestRequest asks for a follow-up quest
type QuestRequest struct {
	PlayerLevel int
	Remaining   []MonsterRef
}

// QuestResult is a generated quest. TargetID is a monster id or "exit".
type QuestResult struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Objective   string `json:"objective"`
	XPReward    int    `json:"xpReward"`
	TargetID    string `json:"targetId"`
}

// ImageRequest asks for an image. When Enabled is false implementations
// return the placeholder without calling out.
type ImageRequest struct {
	Prompt  string
	Aspect  Aspect
	Enabled bool
}
