// Package content is the boundary to the narrative content generator. The
// game engine treats every call as a black box and only relies on the
// shapes declared here.
package content

//go:generate mockgen -destination=mock/mock_client.go -package=contentmock github.com/irmakh/gemini-rpg/internal/clients/content Client

import (
	"context"

	"github.com/irmakh/gemini-rpg/internal/entities"
)

// Client generates game content on demand
type Client interface {
	// GenerateCharacter writes a backstory, starting stats and a portrait
	// prompt for a new hero
	GenerateCharacter(ctx context.Context, input *CharacterRequest) (*CharacterResult, error)

	// GenerateDungeon returns a themed level: layout, monsters, a vendor and
	// a quest whose target is the last listed monster
	GenerateDungeon(ctx context.Context, input *DungeonRequest) (*DungeonResult, error)

	// GenerateCombatAction narrates one exchange and supplies the numbers
	GenerateCombatAction(ctx context.Context, input *CombatRequest) (*CombatResult, error)

	// GenerateLevelUpAbilities offers ability choices for a level-up
	GenerateLevelUpAbilities(ctx context.Context, input *AbilitiesRequest) ([]entities.Ability, error)

	// GenerateLoot fills a chest with one to three items
	GenerateLoot(ctx context.Context, input *LootRequest) ([]entities.Item, error)

	// TriggerTrap narrates a trap and its damage
	TriggerTrap(ctx context.Context, input *TrapRequest) (*TrapResult, error)

	// GenerateNewQuest picks a follow-up quest among the remaining monsters,
	// or the exit when none remain
	GenerateNewQuest(ctx context.Context, input *QuestRequest) (*QuestResult, error)

	// GenerateImage renders a prompt and returns an image reference
	GenerateImage(ctx context.Context, input *ImageRequest) (string, error)
}
