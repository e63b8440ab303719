package content

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"github.com/tidwall/gjson"

	"github.com/irmakh/gemini-rpg/internal/entities"
	"github.com/irmakh/gemini-rpg/internal/errors"
	"github.com/irmakh/gemini-rpg/internal/pkg/idgen"
)

const (
	defaultChatModel  = "gpt-4o-mini"
	defaultImageModel = "dall-e-3"

	systemPrompt = "You are the game master of a turn-based fantasy dungeon crawler. " +
		"Answer with a single JSON object and nothing else."
)

// OpenAIConfig configures the OpenAI backed generator
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	ChatModel  string
	ImageModel string
	Timeout    time.Duration
	MaxRetries int

	// Roller drives map layout. Defaults to dice.DefaultRoller.
	Roller      dice.Roller
	IDGenerator idgen.Generator
}

// Validate checks the configuration
func (c *OpenAIConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.APIKey == "" {
		vb.RequiredField("APIKey")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Timeout < 0 {
		vb.InvalidField("Timeout", "must not be negative")
	}
	if c.MaxRetries < 0 {
		vb.InvalidField("MaxRetries", "must not be negative")
	}
	return vb.Build()
}

var _ Client = (*OpenAIClient)(nil)

// OpenAIClient generates content with an OpenAI compatible chat and image
// API. Layouts are rolled locally; the model only writes the fiction.
type OpenAIClient struct {
	client     openai.Client
	chatModel  string
	imageModel string
	mapper     *Mapper
	sanitize   *Sanitizer
}

// NewOpenAI creates the OpenAI backed generator
func NewOpenAI(cfg *OpenAIConfig) (*OpenAIClient, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	roller := cfg.Roller
	if roller == nil {
		roller = dice.DefaultRoller
	}
	mapper, err := NewMapper(roller)
	if err != nil {
		return nil, err
	}
	sanitize, err := NewSanitizer(cfg.IDGenerator)
	if err != nil {
		return nil, err
	}

	c := &OpenAIClient{
		client:     openai.NewClient(opts...),
		chatModel:  cfg.ChatModel,
		imageModel: cfg.ImageModel,
		mapper:     mapper,
		sanitize:   sanitize,
	}
	if c.chatModel == "" {
		c.chatModel = defaultChatModel
	}
	if c.imageModel == "" {
		c.imageModel = defaultImageModel
	}
	return c, nil
}

// complete runs one JSON mode chat completion and returns the raw object
func (c *OpenAIClient) complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.chatModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(temperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return "", errors.WrapWithCode(err, errors.CodeUnavailable, "chat completion failed")
	}
	if len(resp.Choices) == 0 {
		return "", errors.Unavailable("chat completion returned no choices")
	}
	raw := strings.TrimSpace(resp.Choices[0].Message.Content)
	if !gjson.Valid(raw) {
		return "", errors.InvalidArgument("chat completion returned invalid JSON")
	}
	return raw, nil
}

func (c *OpenAIClient) completeInto(ctx context.Context, prompt string, temperature float64, out any) error {
	raw, err := c.complete(ctx, prompt, temperature)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to decode generated content")
	}
	return nil
}

// completeList decodes a list the model may return bare or wrapped
// under key.
func (c *OpenAIClient) completeList(ctx context.Context, prompt, key string, temperature float64, out any) error {
	raw, err := c.complete(ctx, prompt, temperature)
	if err != nil {
		return err
	}
	list := gjson.Parse(raw)
	if !list.IsArray() {
		list = list.Get(key)
	}
	if !list.IsArray() {
		return errors.InvalidArgumentf("generated content has no %s list", key)
	}
	if err := json.Unmarshal([]byte(list.Raw), out); err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to decode generated content")
	}
	return nil
}

const itemShape = `{"id": string, "name": string, "description": string, ` +
	`"type": "weapon"|"armor"|"helmet"|"boots"|"ring"|"potion"|"misc", ` +
	`"grade": "Common"|"Uncommon"|"Rare"|"Epic"|"Legendary", ` +
	`"stats": {"strength": int, "dexterity": int, "intelligence": int, "defense": int} or null, ` +
	`"healAmount": int or null, "manaAmount": int or null, "buyPrice": int, "sellPrice": int}`

func primaryStat(class entities.CharacterClass) string {
	switch class {
	case entities.ClassMage:
		return "Intelligence"
	case entities.ClassRogue:
		return "Dexterity"
	default:
		return "Strength"
	}
}

// GenerateCharacter writes a hero's backstory and starting stats
func (c *OpenAIClient) GenerateCharacter(ctx context.Context, input *CharacterRequest) (*CharacterResult, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	prompt := fmt.Sprintf(`Create a starting character for a fantasy RPG.
Name: %s
Class: %s

Write a two sentence backstory. Give balanced starting stats that total 30 points, favouring %s.
Write a detailed prompt for a full body portrait in the style "fantasy character portrait, digital painting, full body shot".

Respond as {"backstory": string, "stats": {"strength": int, "dexterity": int, "intelligence": int}, "imageGenPrompt": string}.`,
		input.Name, input.Class, primaryStat(input.Class))

	var res CharacterResult
	if err := c.completeInto(ctx, prompt, 1.0, &res); err != nil {
		return nil, err
	}
	return c.sanitize.Character(&res)
}

// GenerateDungeon asks for the fiction of a level and rolls its layout
func (c *OpenAIClient) GenerateDungeon(ctx context.Context, input *DungeonRequest) (*DungeonResult, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	level := max(input.Level, 1)
	prompt := fmt.Sprintf(`Create a new dungeon level for a level %d player with one distinct, cohesive theme (fiery, icy, crypts and so on).
The quest is to slay a unique boss.
Create %d regular monsters and 1 boss suited to the level and theme. The boss is the last entry in "entities" and the only one marked as quest target. Give every monster a portrait prompt in the style "fantasy character portrait, digital painting".
Create one vendor selling 5 themed items (potions and equipment) for this level. Every item has a buyPrice and a sellPrice of about half the buy price.
Write a prompt for a top-down background in the style "top-down view, fantasy RPG map, digital painting" describing the terrain.

Respond as {"name": string, "description": one sentence, "imageGenPrompt": string,
"quest": {"id": string, "title": string, "description": string, "objective": string, "xpReward": int},
"entities": [{"id": string, "name": string, "level": int, "isQuestTarget": bool, "imageGenPrompt": string}],
"vendor": {"id": string, "inventory": [%s]}}.`,
		level, min(4, level+1), itemShape)

	var res DungeonResult
	if err := c.completeInto(ctx, prompt, 0.9, &res); err != nil {
		return nil, err
	}
	return c.finishDungeon(&res)
}

func (c *OpenAIClient) finishDungeon(res *DungeonResult) (*DungeonResult, error) {
	out, err := c.sanitize.Dungeon(res)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(out.Entities))
	for idx, m := range out.Entities {
		ids[idx] = m.ID
	}
	out.Map, err = c.mapper.Layout(ids, out.Vendor.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to lay out dungeon")
	}
	return out, nil
}

// GenerateCombatAction narrates one exchange
func (c *OpenAIClient) GenerateCombatAction(ctx context.Context, input *CombatRequest) (*CombatResult, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	stats, err := json.Marshal(input.PlayerStats)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode player stats")
	}
	prompt := fmt.Sprintf(`Narrate one turn of fantasy RPG combat.
Player: level %d, HP %d, mana %d, stats with equipment %s, defense %d, abilities: %s
Monster: %s, level %d, HP %d

The player's action: %s

Rules:
- Strength drives physical damage. Intelligence drives ability power.
- A potion replaces the player's attack, so monsterDamage is 0. The potion takes effect before the monster strikes back.
- The monster's level is its main source of power.
- Defense reduces incoming damage. High defense lowers playerDamage a lot.
- If this action defeats the monster set monsterDefeated to true, award about %d XP and %d gold, and with a 30%% chance drop one loot item. Equippable loot has stats, potions have healAmount or manaAmount, sell price is half the buy price.

Respond as {"narration": string, "playerDamage": int, "monsterDamage": int, "monsterDefeated": bool, "xpGained": int, "goldGained": int, "loot": %s or null}.`,
		input.PlayerLevel, input.PlayerHP, input.PlayerMana, stats, input.PlayerDefense,
		strings.Join(input.Abilities, ", "),
		input.Monster.Name, input.Monster.Level, input.Monster.HP,
		input.ActionText,
		25*input.Monster.Level, 10*input.Monster.Level,
		itemShape)

	var res CombatResult
	if err := c.completeInto(ctx, prompt, 0.7, &res); err != nil {
		return nil, err
	}
	return c.sanitize.Combat(&res)
}

// GenerateLevelUpAbilities offers three abilities
func (c *OpenAIClient) GenerateLevelUpAbilities(ctx context.Context, input *AbilitiesRequest) ([]entities.Ability, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	prompt := fmt.Sprintf(`Create exactly 3 unique combat abilities a level %d character can choose from on level-up, for turn-based combat.
Base stats: strength %d, dexterity %d, intelligence %d. Abilities reflect the stats (high strength means mighty blows, high intelligence means strong spells).
Each has a manaCost balanced against its power.

Respond as {"abilities": [{"id": string, "name": string, "description": string, "manaCost": int}]}.`,
		input.Level, input.Stats.Strength, input.Stats.Dexterity, input.Stats.Intelligence)

	var abilities []entities.Ability
	if err := c.completeList(ctx, prompt, "abilities", 1.0, &abilities); err != nil {
		return nil, err
	}
	return c.sanitize.Abilities(abilities), nil
}

// GenerateLoot fills a chest
func (c *OpenAIClient) GenerateLoot(ctx context.Context, input *LootRequest) ([]entities.Item, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	prompt := fmt.Sprintf(`Create 1 to 3 interesting loot items found in a chest by a level %d character.
- Every item has a buyPrice and a sellPrice of roughly half the buy price.
- Equippable items (weapon, armor, helmet, boots, ring) have stat bonuses from +1 at low level up to +5 at high level.
- Potions have a healAmount or manaAmount between 15 and 50, or both.
- Weapons boost strength or dexterity. Armor, helmets and boots boost defense. Rings boost any stat.

Respond as {"items": [%s]}.`, max(input.PlayerLevel, 1), itemShape)

	var items []entities.Item
	if err := c.completeList(ctx, prompt, "items", 1.0, &items); err != nil {
		return nil, err
	}
	return c.sanitize.Loot(items)
}

// TriggerTrap narrates a sprung trap
func (c *OpenAIClient) TriggerTrap(ctx context.Context, input *TrapRequest) (*TrapResult, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	prompt := fmt.Sprintf(`A level %d player stepped on a hidden trap in a fantasy dungeon. Describe the trap and what it does.
Damage is moderate, around 5 to 15 percent of the player's max HP (%d).

Respond as {"narration": string, "damage": int}.`, input.PlayerLevel, input.MaxHP)

	var res TrapResult
	if err := c.completeInto(ctx, prompt, 1.0, &res); err != nil {
		return nil, err
	}
	return c.sanitize.Trap(&res)
}

// GenerateNewQuest writes a follow-up quest
func (c *OpenAIClient) GenerateNewQuest(ctx context.Context, input *QuestRequest) (*QuestResult, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	targets := "No monsters remain."
	if len(input.Remaining) > 0 {
		list, err := json.Marshal(input.Remaining)
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode remaining monsters")
		}
		targets = "Monsters: " + string(list)
	}
	prompt := fmt.Sprintf(`Create a new side quest for a level %d player in a fantasy dungeon.

Available targets:
%s

Rules:
- If monsters are available, the quest is to defeat one of them. Use its id as targetId.
- If no monsters remain, the quest is to find the dungeon exit and targetId is "exit".
- Keep it thematic and give an XP reward suited to the level.

Respond as {"id": string, "title": string, "description": string, "objective": string, "xpReward": int, "targetId": string}.`,
		input.PlayerLevel, targets)

	var res QuestResult
	if err := c.completeInto(ctx, prompt, 1.0, &res); err != nil {
		return nil, err
	}
	return c.sanitize.Quest(&res, input.Remaining)
}

// GenerateImage renders a prompt into a data URL. Disabled requests and
// empty prompts get the placeholder.
func (c *OpenAIClient) GenerateImage(ctx context.Context, input *ImageRequest) (string, error) {
	if input == nil {
		return "", errors.InvalidArgument("input is required")
	}
	if !input.Enabled || strings.TrimSpace(input.Prompt) == "" {
		return PlaceholderImage(input.Aspect), nil
	}

	size := openai.ImageGenerateParamsSize1024x1024
	if input.Aspect == AspectWide {
		size = openai.ImageGenerateParamsSize1792x1024
	}
	resp, err := c.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         input.Prompt,
		Model:          openai.ImageModel(c.imageModel),
		N:              openai.Int(1),
		Size:           size,
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
	})
	if err != nil {
		return "", errors.WrapWithCode(err, errors.CodeUnavailable, "image generation failed")
	}
	if len(resp.Data) == 0 {
		slog.WarnContext(ctx, "image generation returned no data", "aspect", input.Aspect)
		return PlaceholderImage(input.Aspect), nil
	}
	img := resp.Data[0]
	if img.B64JSON != "" {
		return "data:image/png;base64," + img.B64JSON, nil
	}
	if img.URL != "" {
		return img.URL, nil
	}
	return PlaceholderImage(input.Aspect), nil
}
